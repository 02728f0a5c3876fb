package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandleLogin(t *testing.T) {
	tests := []struct {
		name       string
		expected   string
		method     string
		body       string
		wantStatus int
	}{
		{"correct password", "secret", http.MethodPost, `{"password":"secret"}`, http.StatusOK},
		{"wrong password", "secret", http.MethodPost, `{"password":"nope"}`, http.StatusUnauthorized},
		{"missing password", "secret", http.MethodPost, `{}`, http.StatusBadRequest},
		{"non-string password", "secret", http.MethodPost, `{"password":123}`, http.StatusBadRequest},
		{"empty body", "secret", http.MethodPost, ``, http.StatusBadRequest},
		{"password unset", "", http.MethodPost, `{"password":"secret"}`, http.StatusInternalServerError},
		{"wrong method", "secret", http.MethodGet, ``, http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := &Handler{expected: tt.expected}
			req := httptest.NewRequest(tt.method, "/api/login", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			handler.HandleLogin(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
			}
		})
	}
}
