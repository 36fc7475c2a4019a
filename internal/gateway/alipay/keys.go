package alipay

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"
)

var errKeyFormat = errors.New("unsupported key format")

// ParsePrivateKey принимает PEM (PKCS#1 или PKCS#8) либо голый base64 DER,
// в котором ключи выдаёт консоль провайдера.
func ParsePrivateKey(raw string) (*rsa.PrivateKey, error) {
	der, err := keyDER(raw)
	if err != nil {
		return nil, fmt.Errorf("private key: %w", err)
	}

	if key, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return key, nil
	}

	parsed, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("private key: %w", err)
	}

	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("private key: %w: not RSA", errKeyFormat)
	}
	return key, nil
}

func ParsePublicKey(raw string) (*rsa.PublicKey, error) {
	der, err := keyDER(raw)
	if err != nil {
		return nil, fmt.Errorf("public key: %w", err)
	}

	parsed, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		if key, pkcs1Err := x509.ParsePKCS1PublicKey(der); pkcs1Err == nil {
			return key, nil
		}
		return nil, fmt.Errorf("public key: %w", err)
	}

	key, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("public key: %w: not RSA", errKeyFormat)
	}
	return key, nil
}

func keyDER(raw string) ([]byte, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty", errKeyFormat)
	}

	if block, _ := pem.Decode([]byte(raw)); block != nil {
		return block.Bytes, nil
	}

	der, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errKeyFormat, err)
	}
	return der, nil
}
