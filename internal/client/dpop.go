package client

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// dpopSigner issues the per-request DPoP proof the Mercari API requires.
// The key pair lives for the process; each proof gets a fresh jti.
type dpopSigner struct {
	key       *ecdsa.PrivateKey
	sessionID string
	now       func() time.Time
}

func newDPoPSigner() (*dpopSigner, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate DPoP key: %w", err)
	}

	return &dpopSigner{
		key:       key,
		sessionID: uuid.NewString(),
		now:       time.Now,
	}, nil
}

func (s *dpopSigner) jwk() (map[string]string, error) {
	pub, err := s.key.PublicKey.ECDH()
	if err != nil {
		return nil, fmt.Errorf("failed to export DPoP public key: %w", err)
	}

	// Uncompressed point: 0x04 || X || Y
	raw := pub.Bytes()
	return map[string]string{
		"crv": "P-256",
		"kty": "EC",
		"x":   base64.RawURLEncoding.EncodeToString(raw[1:33]),
		"y":   base64.RawURLEncoding.EncodeToString(raw[33:65]),
	}, nil
}

func (s *dpopSigner) Sign(method, url string) (string, error) {
	jwk, err := s.jwk()
	if err != nil {
		return "", err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodES256, jwt.MapClaims{
		"iat":  s.now().Unix(),
		"jti":  uuid.NewString(),
		"htu":  url,
		"htm":  method,
		"uuid": s.sessionID,
	})
	token.Header["typ"] = "dpop+jwt"
	token.Header["jwk"] = jwk

	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign DPoP proof: %w", err)
	}
	return signed, nil
}
