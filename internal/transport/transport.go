package transport

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"os"
	"time"

	"go-docman-client/pkg/model"
)

type Options struct {
	Certificate tls.Certificate
	Timeout     time.Duration

	// CACertPath adds a PEM trust anchor for the server certificate on top of the system pool.
	CACertPath string
	// RootCAs replaces the trust pool entirely when set.
	RootCAs *x509.CertPool
}

// New builds the HTTP client shared by every service of one registration.
// It presents the client certificate on each TLS handshake.
func New(opts Options) (*http.Client, error) {
	if len(opts.Certificate.Certificate) == 0 || opts.Certificate.PrivateKey == nil {
		return nil, fmt.Errorf("%w: client certificate is required for mutual TLS", model.ErrCredential)
	}

	tlsConfig := &tls.Config{
		Certificates: []tls.Certificate{opts.Certificate},
		MinVersion:   tls.VersionTLS12,
		RootCAs:      opts.RootCAs,
	}

	if opts.RootCAs == nil && opts.CACertPath != "" {
		pool, err := loadCAPool(opts.CACertPath)
		if err != nil {
			return nil, err
		}
		tlsConfig.RootCAs = pool
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		TLSClientConfig:     tlsConfig,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}, nil
}

func loadCAPool(path string) (*x509.CertPool, error) {
	caCert, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read CA certificate %s: %v", model.ErrConfiguration, path, err)
	}

	pool, err := x509.SystemCertPool()
	if err != nil {
		pool = x509.NewCertPool()
	}

	if !pool.AppendCertsFromPEM(caCert) {
		return nil, fmt.Errorf("%w: no certificates found in %s", model.ErrConfiguration, path)
	}

	return pool, nil
}
