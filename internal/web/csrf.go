package web

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	csrfCookie = "csrf_nonce"
	csrfField  = "csrf_token"
	csrfTTL    = 12 * time.Hour
)

var errCSRF = errors.New("invalid or missing form token")

// CSRF issues form tokens bound to a per-browser nonce cookie.
type CSRF struct {
	secret []byte
}

// NewCSRF uses secret for signing; an empty secret is replaced by a random
// one, which invalidates open forms on restart.
func NewCSRF(secret string) *CSRF {
	if secret == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			panic(err)
		}
		secret = hex.EncodeToString(buf)
	}
	return &CSRF{secret: []byte(secret)}
}

func (c *CSRF) Issue(nonce string) (string, error) {
	claims := jwt.MapClaims{
		"nonce": nonce,
		"exp":   time.Now().Add(csrfTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

func (c *CSRF) Verify(tokenString, nonce string) error {
	if tokenString == "" || nonce == "" {
		return errCSRF
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return errCSRF
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["nonce"] != nonce {
		return errCSRF
	}
	return nil
}

// nonce returns the browser nonce, setting a fresh cookie if needed.
func (c *CSRF) nonce(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(csrfCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	value := hex.EncodeToString(buf)
	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookie,
		Value:    value,
		HttpOnly: true,
		Path:     "/",
		SameSite: http.SameSiteStrictMode,
	})
	return value
}

// Middleware rejects POSTs without a valid token.
func (c *CSRF) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			next.ServeHTTP(w, r)
			return
		}
		cookie, err := r.Cookie(csrfCookie)
		if err != nil {
			http.Error(w, "Forbidden: "+errCSRF.Error(), http.StatusForbidden)
			return
		}
		if err := c.Verify(r.PostFormValue(csrfField), cookie.Value); err != nil {
			http.Error(w, "Forbidden: "+err.Error(), http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
