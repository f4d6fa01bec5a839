package credential

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	"go-docman-client/pkg/model"
)

// Decrypter turns an encrypted configuration value back into plaintext.
type Decrypter interface {
	Decrypt(ciphertext string) (string, error)
}

type DecrypterFunc func(ciphertext string) (string, error)

func (f DecrypterFunc) Decrypt(ciphertext string) (string, error) {
	return f(ciphertext)
}

var keySalt = []byte("docman-client-credential")

// AESDecrypter decrypts values sealed with AES-256-GCM under a key derived
// from a shared secret. The encoded form is base64(nonce || ciphertext).
type AESDecrypter struct {
	aead cipher.AEAD
}

func NewAESDecrypter(secret string) (*AESDecrypter, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("%w: decryption key is required", model.ErrCredential)
	}

	block, err := aes.NewCipher(deriveKey(secret))
	if err != nil {
		return nil, fmt.Errorf("%w: create cipher: %v", model.ErrCredential, err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: create gcm: %v", model.ErrCredential, err)
	}

	return &AESDecrypter{aead: aead}, nil
}

func deriveKey(secret string) []byte {
	return argon2.IDKey([]byte(secret), keySalt, 1, 64*1024, 4, 32)
}

// Encrypt produces the value stored in the Password configuration key.
func (d *AESDecrypter) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, d.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := d.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (d *AESDecrypter) Decrypt(ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(ciphertext))
	if err != nil {
		return "", fmt.Errorf("%w: password is not valid base64: %v", model.ErrCredential, err)
	}

	nonceSize := d.aead.NonceSize()
	if len(raw) <= nonceSize {
		return "", fmt.Errorf("%w: encrypted password is too short", model.ErrCredential)
	}

	plaintext, err := d.aead.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		return "", fmt.Errorf("%w: decrypt password: %v", model.ErrCredential, err)
	}

	return string(plaintext), nil
}
