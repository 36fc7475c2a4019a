package alipay

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// signer реализует RSA2 (SHA256withRSA): приватный ключ приложения подписывает
// запросы, публичный ключ провайдера проверяет ответы и уведомления.
type signer struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
}

func (s *signer) sign(content string) (string, error) {
	digest := sha256.Sum256([]byte(content))

	signature, err := rsa.SignPKCS1v15(rand.Reader, s.privateKey, crypto.SHA256, digest[:])
	if err != nil {
		return "", fmt.Errorf("sign: %w", err)
	}
	return base64.StdEncoding.EncodeToString(signature), nil
}

func (s *signer) verify(content, signature string) error {
	raw, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return fmt.Errorf("decode signature: %w", err)
	}

	digest := sha256.Sum256([]byte(content))
	return rsa.VerifyPKCS1v15(s.publicKey, crypto.SHA256, digest[:], raw)
}

// canonicalString склеивает непустые параметры в порядке ключей: k1=v1&k2=v2.
// Значения не экранируются.
func canonicalString(values url.Values, exclude ...string) string {
	skip := make(map[string]struct{}, len(exclude))
	for _, key := range exclude {
		skip[key] = struct{}{}
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		if _, ok := skip[key]; ok {
			continue
		}
		if values.Get(key) == "" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, key := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(values.Get(key))
	}
	return b.String()
}
