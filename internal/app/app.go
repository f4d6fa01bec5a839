// Package app runs the in-memory DocMan API double as a local mutual-TLS
// server and writes the client-side files needed to point the client at it.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"go-docman-client/internal/apitest"
	"go-docman-client/internal/config"
	"go-docman-client/internal/credential"
)

type Options struct {
	Addr           string
	OutputDir      string
	Instance       string
	Environment    string
	BasePath       string
	ConnectionName string
	PFXPassword    string
	DecryptionKey  string
	// RateLimitRPM caps requests per client certificate per minute. Zero disables it.
	RateLimitRPM   int
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

// Files lists what New wrote to Options.OutputDir.
type Files struct {
	Settings    string
	Env         string
	Certificate string
	CA          string
}

type App struct {
	server   *http.Server
	listener net.Listener
	files    Files
	logger   *slog.Logger
}

func New(opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Addr == "" {
		opts.Addr = "127.0.0.1:8443"
	}
	if opts.BasePath == "" {
		opts.BasePath = "/api/v1"
	}

	if err := os.MkdirAll(opts.OutputDir, 0o700); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	ca, err := apitest.NewAuthority("docman-local-ca")
	if err != nil {
		return nil, err
	}

	host, _, err := net.SplitHostPort(opts.Addr)
	if err != nil {
		return nil, fmt.Errorf("invalid listen address %q: %w", opts.Addr, err)
	}
	if host == "" {
		host = "127.0.0.1"
	}

	tlsConfig, err := ca.ServerTLSConfig(host, "localhost", "127.0.0.1")
	if err != nil {
		return nil, err
	}

	listener, err := net.Listen("tcp", opts.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", opts.Addr, err)
	}

	_, port, err := net.SplitHostPort(listener.Addr().String())
	if err != nil {
		listener.Close()
		return nil, err
	}

	files, err := writeClientFiles(opts, ca, "https://"+net.JoinHostPort(host, port))
	if err != nil {
		listener.Close()
		return nil, err
	}

	store := apitest.NewStore(opts.ConnectionName)
	server := &http.Server{
		Handler:           apitest.NewHandler(store, opts.BasePath,
			apitest.WithRateLimit(opts.RateLimitRPM),
			apitest.WithTimeout(opts.RequestTimeout),
		),
		TLSConfig:         tlsConfig,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &App{server: server, listener: listener, files: files, logger: logger}, nil
}

func (a *App) Addr() string {
	return a.listener.Addr().String()
}

func (a *App) Files() Files {
	return a.files
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("fake docman api starting", "addr", a.Addr(), "settings", a.files.Settings, "env", a.files.Env)
		if serveErr := a.server.ServeTLS(a.listener, "", ""); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errCh <- serveErr
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	a.logger.Info("fake docman api stopped")
	return nil
}

func writeClientFiles(opts Options, ca *apitest.Authority, url string) (Files, error) {
	files := Files{
		Settings:    filepath.Join(opts.OutputDir, "appsettings.json"),
		Env:         filepath.Join(opts.OutputDir, "docman.env"),
		Certificate: filepath.Join(opts.OutputDir, "client.pfx"),
		CA:          filepath.Join(opts.OutputDir, "ca.pem"),
	}

	pfx, err := ca.ClientPFX("docman-local-client", opts.PFXPassword, 24*time.Hour)
	if err != nil {
		return Files{}, err
	}
	if err := os.WriteFile(files.Certificate, pfx, 0o600); err != nil {
		return Files{}, fmt.Errorf("write client certificate: %w", err)
	}

	if err := ca.WritePEM(files.CA); err != nil {
		return Files{}, fmt.Errorf("write ca certificate: %w", err)
	}

	settings, err := json.MarshalIndent(config.Settings{Instance: opts.Instance, Environment: opts.Environment}, "", "  ")
	if err != nil {
		return Files{}, err
	}
	if err := os.WriteFile(files.Settings, settings, 0o600); err != nil {
		return Files{}, fmt.Errorf("write settings: %w", err)
	}

	cipher, err := credential.NewAESDecrypter(opts.DecryptionKey)
	if err != nil {
		return Files{}, err
	}
	sealed, err := cipher.Encrypt(opts.PFXPassword)
	if err != nil {
		return Files{}, err
	}

	keys := config.Keys(opts.Instance, opts.Environment)
	env := map[string]string{
		keys.URL:                url,
		keys.CertificatePath:    files.Certificate,
		keys.Password:           sealed,
		"DOCMAN_SETTINGS_FILE":  files.Settings,
		"DOCMAN_CA_CERT_PATH":   files.CA,
		"DOCMAN_DECRYPTION_KEY": opts.DecryptionKey,
		"DOCMAN_BASE_PATH":      opts.BasePath,
	}
	if err := godotenv.Write(env, files.Env); err != nil {
		return Files{}, fmt.Errorf("write env file: %w", err)
	}

	return files, nil
}
