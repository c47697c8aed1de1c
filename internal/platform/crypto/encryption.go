// Package crypto encrypts small secrets at rest, currently the TOTP
// seeds stored on user rows.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"io"
)

const keyLen = 32

var ErrShortCiphertext = errors.New("crypto: ciphertext shorter than nonce")

// Service seals and opens byte slices with AES-256-GCM, nonce prepended.
// With no key configured it passes data through unchanged so development
// setups work without one.
type Service struct {
	aead cipher.AEAD
}

func New(key string) (*Service, error) {
	if key == "" {
		return &Service{}, nil
	}
	material, err := decodeKey(key)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(material)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Service{aead: aead}, nil
}

func (s *Service) Configured() bool {
	return s.aead != nil
}

func (s *Service) Encrypt(plain []byte) ([]byte, error) {
	if len(plain) == 0 {
		return nil, nil
	}
	if s.aead == nil {
		return plain, nil
	}
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return s.aead.Seal(nonce, nonce, plain, nil), nil
}

func (s *Service) Decrypt(sealed []byte) ([]byte, error) {
	if len(sealed) == 0 {
		return nil, nil
	}
	if s.aead == nil {
		return sealed, nil
	}
	n := s.aead.NonceSize()
	if len(sealed) < n {
		return nil, ErrShortCiphertext
	}
	return s.aead.Open(nil, sealed[:n], sealed[n:], nil)
}

func (s *Service) EncryptString(value string) ([]byte, error) {
	if value == "" {
		return nil, nil
	}
	return s.Encrypt([]byte(value))
}

func (s *Service) DecryptString(sealed []byte) (string, error) {
	plain, err := s.Decrypt(sealed)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

// decodeKey accepts a 64-char hex string, base64, or raw bytes, and
// requires 32 bytes of key material either way.
func decodeKey(raw string) ([]byte, error) {
	candidates := [][]byte{}
	if len(raw) == keyLen*2 {
		if b, err := hex.DecodeString(raw); err == nil {
			candidates = append(candidates, b)
		}
	}
	if b, err := base64.StdEncoding.DecodeString(raw); err == nil {
		candidates = append(candidates, b)
	}
	if b, err := base64.RawStdEncoding.DecodeString(raw); err == nil {
		candidates = append(candidates, b)
	}
	candidates = append(candidates, []byte(raw))
	for _, c := range candidates {
		if len(c) == keyLen {
			return c, nil
		}
	}
	return nil, errors.New("crypto: DATA_ENCRYPTION_KEY must decode to 32 bytes")
}
