// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "JBSWY3DPEHPK3PXP"

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

// guarded returns a handler behind auth that echoes the operator name.
func guarded(auth *OperatorAuth) http.Handler {
	return auth.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(OperatorFromCtx(r.Context())))
	}))
}

func TestOperatorAuth_DisabledPassesThrough(t *testing.T) {
	auth := NewOperatorAuth("operator", "", "")
	assert.False(t, auth.Enabled())

	rr := httptest.NewRecorder()
	guarded(auth).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/promotions", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Body.String())
}

func TestOperatorAuth_BasicAuth(t *testing.T) {
	auth := NewOperatorAuth("operator", hashPassword(t, "s3cret"), "")
	require.True(t, auth.Enabled())

	tests := []struct {
		name     string
		user     string
		password string
		setAuth  bool
		want     int
	}{
		{"valid", "operator", "s3cret", true, http.StatusOK},
		{"wrong password", "operator", "nope", true, http.StatusUnauthorized},
		{"wrong user", "admin", "s3cret", true, http.StatusUnauthorized},
		{"missing header", "", "", false, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/promotions", nil)
			if tt.setAuth {
				req.SetBasicAuth(tt.user, tt.password)
			}
			rr := httptest.NewRecorder()
			guarded(auth).ServeHTTP(rr, req)

			assert.Equal(t, tt.want, rr.Code)
			if tt.want == http.StatusOK {
				assert.Equal(t, "operator", rr.Body.String())
			} else {
				assert.Equal(t, realm, rr.Header().Get("WWW-Authenticate"))
				assert.JSONEq(t, `{"error":"invalid operator credentials"}`, rr.Body.String())
			}
		})
	}
}

func TestOperatorAuth_TOTP(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)
	auth := NewOperatorAuth("operator", hashPassword(t, "s3cret"), testSecret)
	auth.now = func() time.Time { return now }

	valid, err := totp.GenerateCode(testSecret, now)
	require.NoError(t, err)
	stale, err := totp.GenerateCode(testSecret, now.Add(-10*time.Minute))
	require.NoError(t, err)

	tests := []struct {
		name string
		code string
		want int
	}{
		{"valid code", valid, http.StatusOK},
		{"missing code", "", http.StatusUnauthorized},
		{"stale code", stale, http.StatusUnauthorized},
		{"garbage", "abcdef", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/api/promotions?id=x", nil)
			req.SetBasicAuth("operator", "s3cret")
			if tt.code != "" {
				req.Header.Set(OTPHeader, tt.code)
			}
			rr := httptest.NewRecorder()
			guarded(auth).ServeHTTP(rr, req)
			assert.Equal(t, tt.want, rr.Code)
		})
	}
}

func TestOperatorAuth_NilIsDisabled(t *testing.T) {
	var auth *OperatorAuth
	assert.False(t, auth.Enabled())
}
