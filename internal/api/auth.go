package api

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"log"
	"net/http"
	"strings"
)

// TokenHeader carries a shooter control token
const TokenHeader = "Authorization"

var (
	ErrMissingToken = errors.New("missing shooter token")
	ErrInvalidToken = errors.New("invalid shooter token")
	ErrWrongShooter = errors.New("token belongs to another shooter")
)

// ShooterTokens issues and verifies signed control tokens. The client that
// created a shooter receives its token and must present it to drive it.
type ShooterTokens struct {
	secretKey []byte
}

// NewShooterTokens creates a token signer with a random per-process key
func NewShooterTokens() *ShooterTokens {
	secretKey := make([]byte, 32)
	if _, err := rand.Read(secretKey); err != nil {
		log.Printf("⚠️ Failed to generate token key, using fallback")
		secretKey = []byte("hitscan-arena-default-token-key!")
	}
	return &ShooterTokens{secretKey: secretKey}
}

// NewShooterTokensWithKey creates a token signer with a fixed key
func NewShooterTokensWithKey(key []byte) *ShooterTokens {
	return &ShooterTokens{secretKey: key}
}

// Issue returns the control token for shooterID
func (st *ShooterTokens) Issue(shooterID string) string {
	return base64.URLEncoding.EncodeToString([]byte(shooterID + "." + st.sign(shooterID)))
}

// Verify checks a token's signature and returns the shooter it controls
func (st *ShooterTokens) Verify(token string) (string, error) {
	decoded, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return "", ErrInvalidToken
	}

	// shooterID.signature; IDs are UUIDs and never contain a dot
	shooterID, sig, ok := strings.Cut(string(decoded), ".")
	if !ok || shooterID == "" {
		return "", ErrInvalidToken
	}
	if !hmac.Equal([]byte(sig), []byte(st.sign(shooterID))) {
		return "", ErrInvalidToken
	}

	return shooterID, nil
}

// Authorize checks that token controls shooterID
func (st *ShooterTokens) Authorize(token, shooterID string) error {
	if token == "" {
		return ErrMissingToken
	}
	id, err := st.Verify(token)
	if err != nil {
		return err
	}
	if id != shooterID {
		return ErrWrongShooter
	}
	return nil
}

func (st *ShooterTokens) sign(shooterID string) string {
	mac := hmac.New(sha256.New, st.secretKey)
	mac.Write([]byte(shooterID))
	return hex.EncodeToString(mac.Sum(nil))
}

// RequireShooter wraps handlers for /shooters/{id}/... so that only the
// holder of that shooter's token gets through
func (st *ShooterTokens) RequireShooter(idFrom func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := st.Authorize(bearerToken(r), idFrom(r)); err != nil {
				RecordConnectionRejected("token")
				writeError(w, err.Error(), http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>"
func bearerToken(r *http.Request) string {
	h := r.Header.Get(TokenHeader)
	if token, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
