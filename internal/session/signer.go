package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"
)

var errNoSecrets = errors.New("session: at least one secret is required")

// signer appends an HMAC-SHA256 signature to cookie payloads. The first
// secret signs; any secret verifies, so secrets can be rotated by prepending.
type signer struct {
	secrets [][]byte
}

func newSigner(secrets []string) (*signer, error) {
	s := &signer{}
	for _, sec := range secrets {
		if sec != "" {
			s.secrets = append(s.secrets, []byte(sec))
		}
	}
	if len(s.secrets) == 0 {
		return nil, errNoSecrets
	}
	return s, nil
}

func (s *signer) sign(payload string) string {
	return payload + "." + mac(s.secrets[0], payload)
}

// unsign returns the payload when value carries a valid signature.
func (s *signer) unsign(value string) (string, bool) {
	i := strings.LastIndexByte(value, '.')
	if i <= 0 {
		return "", false
	}
	payload, sig := value[:i], value[i+1:]
	for _, sec := range s.secrets {
		if hmac.Equal([]byte(sig), []byte(mac(sec, payload))) {
			return payload, true
		}
	}
	return "", false
}

func mac(secret []byte, payload string) string {
	h := hmac.New(sha256.New, secret)
	h.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}
