// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// OperatorKey is the context key for the authenticated operator name.
	OperatorKey contextKey = "operator"

	// OTPHeader carries the operator's current TOTP code.
	OTPHeader = "X-OTP"

	realm = `Basic realm="flyerpress", charset="UTF-8"`
)

// OperatorAuth guards mutating routes with HTTP basic auth against a bcrypt
// hash and, when a TOTP secret is configured, a second factor in X-OTP.
type OperatorAuth struct {
	user       string
	hash       []byte
	totpSecret string
	now        func() time.Time
}

// NewOperatorAuth creates the guard. An empty passwordHash disables it.
func NewOperatorAuth(user, passwordHash, totpSecret string) *OperatorAuth {
	return &OperatorAuth{
		user:       user,
		hash:       []byte(passwordHash),
		totpSecret: totpSecret,
		now:        time.Now,
	}
}

// Enabled reports whether credentials are required.
func (a *OperatorAuth) Enabled() bool {
	return a != nil && len(a.hash) > 0
}

// Require rejects requests without valid operator credentials. When the
// guard is disabled every request passes through.
func (a *OperatorAuth) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.Enabled() {
			next.ServeHTTP(w, r)
			return
		}

		user, password, ok := r.BasicAuth()
		if !ok || !a.checkPassword(user, password) {
			slog.Warn("operator auth failed", "path", r.URL.Path, "remote", clientIP(r))
			w.Header().Set("WWW-Authenticate", realm)
			writeError(w, http.StatusUnauthorized, "invalid operator credentials")
			return
		}

		if a.totpSecret != "" && !a.checkOTP(r.Header.Get(OTPHeader)) {
			slog.Warn("operator otp rejected", "path", r.URL.Path, "remote", clientIP(r))
			writeError(w, http.StatusUnauthorized, "invalid or missing one-time code")
			return
		}

		ctx := context.WithValue(r.Context(), OperatorKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *OperatorAuth) checkPassword(user, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(a.user)) == 1
	passOK := bcrypt.CompareHashAndPassword(a.hash, []byte(password)) == nil
	return userOK && passOK
}

func (a *OperatorAuth) checkOTP(code string) bool {
	if code == "" {
		return false
	}
	valid, err := totp.ValidateCustom(code, a.totpSecret, a.now().UTC(), totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && valid
}

// OperatorFromCtx returns the authenticated operator name, or "" when the
// request passed an open route.
func OperatorFromCtx(ctx context.Context) string {
	name, _ := ctx.Value(OperatorKey).(string)
	return name
}
