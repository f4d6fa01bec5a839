package apitest

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"net"
	"os"
	"time"

	"software.sslmate.com/src/go-pkcs12"
)

// Authority is a throwaway certificate authority that issues the server and
// client certificates needed to exercise mutual TLS locally.
type Authority struct {
	Cert *x509.Certificate
	key  *ecdsa.PrivateKey
}

func NewAuthority(commonName string) (*Authority, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate ca key: %w", err)
	}

	template := &x509.Certificate{
		SerialNumber:          serial(),
		Subject:               pkix.Name{CommonName: commonName},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(24 * time.Hour),
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		return nil, fmt.Errorf("create ca certificate: %w", err)
	}

	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, fmt.Errorf("parse ca certificate: %w", err)
	}

	return &Authority{Cert: cert, key: key}, nil
}

// Pool returns a pool trusting only this authority.
func (a *Authority) Pool() *x509.CertPool {
	pool := x509.NewCertPool()
	pool.AddCert(a.Cert)
	return pool
}

// PEM encodes the authority certificate.
func (a *Authority) PEM() []byte {
	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: a.Cert.Raw})
}

func (a *Authority) WritePEM(path string) error {
	return os.WriteFile(path, a.PEM(), 0o600)
}

// Issue signs a leaf certificate valid for the given lifetime.
// Hosts become DNS or IP SANs; a leaf with no hosts is a client certificate.
func (a *Authority) Issue(commonName string, lifetime time.Duration, hosts ...string) (*x509.Certificate, *ecdsa.PrivateKey, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("generate leaf key: %w", err)
	}

	template := &x509.Certificate{
		SerialNumber: serial(),
		Subject:      pkix.Name{CommonName: commonName},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(lifetime),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth},
	}

	if len(hosts) > 0 {
		template.ExtKeyUsage = []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth}
		for _, host := range hosts {
			if ip := net.ParseIP(host); ip != nil {
				template.IPAddresses = append(template.IPAddresses, ip)
			} else {
				template.DNSNames = append(template.DNSNames, host)
			}
		}
	}

	der, err := x509.CreateCertificate(rand.Reader, template, a.Cert, &key.PublicKey, a.key)
	if err != nil {
		return nil, nil, fmt.Errorf("create leaf certificate: %w", err)
	}

	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, nil, fmt.Errorf("parse leaf certificate: %w", err)
	}

	return cert, key, nil
}

// ClientPFX issues a client certificate and packages it as a password-protected PKCS#12 bundle.
func (a *Authority) ClientPFX(commonName string, password string, lifetime time.Duration) ([]byte, error) {
	cert, key, err := a.Issue(commonName, lifetime)
	if err != nil {
		return nil, err
	}

	pfx, err := pkcs12.Modern.Encode(key, cert, []*x509.Certificate{a.Cert}, password)
	if err != nil {
		return nil, fmt.Errorf("encode pkcs12: %w", err)
	}

	return pfx, nil
}

// ServerTLSConfig returns a server configuration that demands a client
// certificate signed by this authority.
func (a *Authority) ServerTLSConfig(hosts ...string) (*tls.Config, error) {
	cert, key, err := a.Issue("docman-api", 24*time.Hour, hosts...)
	if err != nil {
		return nil, err
	}

	return &tls.Config{
		Certificates: []tls.Certificate{{
			Certificate: [][]byte{cert.Raw, a.Cert.Raw},
			PrivateKey:  key,
			Leaf:        cert,
		}},
		ClientAuth: tls.RequireAndVerifyClientCert,
		ClientCAs:  a.Pool(),
		MinVersion: tls.VersionTLS12,
	}, nil
}

func serial() *big.Int {
	n, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 62))
	if err != nil {
		return big.NewInt(time.Now().UnixNano())
	}
	return n
}
