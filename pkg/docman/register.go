package docman

import (
	"context"
	"crypto/x509"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"go-docman-client/internal/config"
	"go-docman-client/internal/credential"
	"go-docman-client/internal/event"
	"go-docman-client/internal/metrics"
	"go-docman-client/internal/route"
	"go-docman-client/internal/service"
	"go-docman-client/internal/transport"
	"go-docman-client/pkg/model"
)

// Decrypter turns the encrypted certificate password from configuration
// into plain text.
type Decrypter interface {
	Decrypt(ciphertext string) (string, error)
}

// Options controls Register. The zero value reads appsettings.json and the
// process environment.
type Options struct {
	// SettingsPath is the JSON file holding TargetedVoyagerInstance and
	// TargetedVoyagerEnvironment. Defaults to DOCMAN_SETTINGS_FILE, then appsettings.json.
	SettingsPath string

	// Lookup resolves configuration keys ahead of the process environment.
	Lookup func(key string) (string, bool)

	// Decrypter defaults to AES-GCM keyed by DOCMAN_DECRYPTION_KEY.
	Decrypter Decrypter

	Logger *slog.Logger

	// Registerer receives the docman_client_* collectors. Defaults to
	// prometheus.DefaultRegisterer; registering again reuses the collectors
	// already there.
	Registerer prometheus.Registerer

	// RootCAs replaces the system pool for verifying the API's certificate.
	RootCAs *x509.CertPool

	// VerifyConnection calls the heartbeat once before returning.
	VerifyConnection bool
}

// Services holds the five bound services. Build it with Register.
type Services struct {
	Files                    FileService
	Folders                  FolderService
	FileViewAudits           FileViewAuditService
	OriginalFileDeleteAudits OriginalFileDeleteAuditService
	Heartbeat                HeartbeatService

	baseURL    string
	httpClient *http.Client
	bus        *event.InMemoryBus
	logger     *slog.Logger
}

// Register resolves configuration and credentials and binds all five
// services. On any error nothing is returned; there is no partial registration.
func Register(ctx context.Context, opts Options) (*Services, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	source := config.Source(config.Environment)
	if opts.Lookup != nil {
		source = config.Layered(config.SourceFunc(opts.Lookup), config.Environment)
	}

	settingsPath := opts.SettingsPath
	if settingsPath == "" {
		settingsPath = config.SettingsPath(source)
	}

	cfg, err := config.LoadFrom(settingsPath, source)
	if err != nil {
		return nil, err
	}

	var decrypter credential.Decrypter = opts.Decrypter
	if opts.Decrypter == nil {
		aes, err := credential.NewAESDecrypter(cfg.DecryptionKey)
		if err != nil {
			return nil, fmt.Errorf("password decrypter: %w", err)
		}
		decrypter = aes
	}

	cert, err := credential.Load(cfg.CertificatePath, cfg.EncryptedPassword, decrypter)
	if err != nil {
		return nil, err
	}

	httpClient, err := transport.New(transport.Options{
		Certificate: cert,
		Timeout:     cfg.RequestTimeout,
		CACertPath:  cfg.CACertPath,
		RootCAs:     opts.RootCAs,
	})
	if err != nil {
		return nil, err
	}

	registerer := opts.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	recorder, err := metrics.New(registerer)
	if err != nil {
		httpClient.CloseIdleConnections()
		return nil, err
	}

	bus := event.NewBus()
	routes := route.New(route.Options{
		BaseURL:      cfg.URL,
		BasePath:     cfg.BasePath,
		HTTPClient:   httpClient,
		RateLimitRPS: cfg.RateLimitRPS,
		Logger:       logger,
	})
	obs := service.NewObserver(logger, recorder, bus)

	s := &Services{
		Files:                    service.NewFileService(route.NewFiles(routes), obs),
		Folders:                  service.NewFolderService(route.NewFolders(routes), obs),
		FileViewAudits:           service.NewFileViewAuditService(route.NewFileViewAudits(routes), obs),
		OriginalFileDeleteAudits: service.NewOriginalFileDeleteAuditService(route.NewOriginalFileDeleteAudits(routes), obs),
		Heartbeat:                service.NewHeartbeatService(route.NewHeartbeat(routes), obs),
		baseURL:                  cfg.URL,
		httpClient:               httpClient,
		logger:                   logger,
		bus:                      bus,
	}

	if opts.VerifyConnection {
		if _, err := s.Heartbeat.GetServerTime(ctx); err != nil {
			s.Close()
			return nil, fmt.Errorf("verify connection: %w", err)
		}
	}

	logger.Info("docman client registered",
		"instance", cfg.Instance,
		"environment", cfg.Environment,
		"url", cfg.URL,
		"certificate_subject", cert.Leaf.Subject.CommonName,
		"certificate_expires", cert.Leaf.NotAfter.Format(time.RFC3339),
	)

	return s, nil
}

// RegisterFromEnvironment loads an optional .env file, then registers with
// default options.
func RegisterFromEnvironment(ctx context.Context) (*Services, error) {
	_ = godotenv.Load()
	return Register(ctx, Options{})
}

// BaseURL is the resolved DocMan API address.
func (s *Services) BaseURL() string {
	return s.baseURL
}

// Subscribe streams one event per completed call until unsubscribed or Close.
func (s *Services) Subscribe() (<-chan Event, func()) {
	return s.bus.Subscribe()
}

// DroppedEvents counts call events a subscriber missed because it was not
// draining its channel.
func (s *Services) DroppedEvents() uint64 {
	return s.bus.Dropped()
}

// Close releases idle connections and ends all subscriptions.
func (s *Services) Close() {
	if dropped := s.bus.Dropped(); dropped > 0 {
		s.logger.Warn("docman call events dropped", "count", dropped)
	}
	s.httpClient.CloseIdleConnections()
	s.bus.Close()
}

// Response re-exports the envelope type so callers need only this package.
type Response[T any] = model.Response[T]

type (
	Event     = event.Event
	CallEvent = event.Call
)

const (
	EventCallSucceeded = event.TypeCallSucceeded
	EventCallFailed    = event.TypeCallFailed
)
