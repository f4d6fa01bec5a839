package credential

import (
	"crypto/tls"
	"errors"
	"fmt"
	"os"
	"time"

	"software.sslmate.com/src/go-pkcs12"

	"go-docman-client/pkg/model"
)

// LoadCertificate reads a PKCS#12 bundle and returns it as a TLS client certificate,
// including any intermediate certificates it carries.
func LoadCertificate(path string, password string) (tls.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("%w: read certificate %s: %v", model.ErrCredential, path, err)
	}

	key, leaf, chain, err := pkcs12.DecodeChain(data, password)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("%w: decode certificate %s: %v", model.ErrCredential, path, err)
	}

	if time.Now().After(leaf.NotAfter) {
		return tls.Certificate{}, fmt.Errorf("%w: certificate %s expired at %s", model.ErrCredential, path, leaf.NotAfter.Format(time.RFC3339))
	}

	cert := tls.Certificate{
		Certificate: [][]byte{leaf.Raw},
		PrivateKey:  key,
		Leaf:        leaf,
	}
	for _, ca := range chain {
		cert.Certificate = append(cert.Certificate, ca.Raw)
	}

	return cert, nil
}

// Load decrypts the configured password and opens the certificate with it.
func Load(path string, encryptedPassword string, decrypter Decrypter) (tls.Certificate, error) {
	if decrypter == nil {
		return tls.Certificate{}, fmt.Errorf("%w: no decrypter configured", model.ErrCredential)
	}

	password, err := decrypter.Decrypt(encryptedPassword)
	if err != nil {
		if errors.Is(err, model.ErrCredential) {
			return tls.Certificate{}, err
		}
		return tls.Certificate{}, fmt.Errorf("%w: decrypt password: %v", model.ErrCredential, err)
	}

	return LoadCertificate(path, password)
}
