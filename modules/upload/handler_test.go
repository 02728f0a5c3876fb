package upload

import (
	"net/http"
	"net/http/httptest"
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAllowedContentType(t *testing.T) {
	assert.True(t, IsAllowedContentType("image/jpeg"))
	assert.True(t, IsAllowedContentType("image/png"))
	assert.True(t, IsAllowedContentType("image/webp"))
	assert.True(t, IsAllowedContentType("IMAGE/PNG"))
	assert.False(t, IsAllowedContentType("image/gif"))
	assert.False(t, IsAllowedContentType("application/pdf"))
	assert.False(t, IsAllowedContentType(""))
}

func TestRandomizePathname(t *testing.T) {
	got := RandomizePathname("photos/cat.png")
	assert.True(t, strings.HasPrefix(got, "photos/cat-"))
	assert.Equal(t, ".png", path.Ext(got))
	assert.NotEqual(t, "photos/cat.png", got)

	// 호출마다 다른 접미사
	assert.NotEqual(t, got, RandomizePathname("photos/cat.png"))

	// 선행 슬래시 제거, 확장자 없는 이름도 처리
	noExt := RandomizePathname("/raw")
	assert.True(t, strings.HasPrefix(noExt, "raw-"))
	assert.Empty(t, path.Ext(noExt))
}

func TestHandleUploadRejections(t *testing.T) {
	handler := &Handler{service: &Service{bucket: "images"}}

	tests := []struct {
		name       string
		method     string
		body       string
		wantStatus int
	}{
		{"wrong method", http.MethodGet, "", http.StatusMethodNotAllowed},
		{"invalid json", http.MethodPost, "{", http.StatusBadRequest},
		{"missing pathname", http.MethodPost, `{"contentType":"image/png","data":"QUJD"}`, http.StatusBadRequest},
		{"missing data", http.MethodPost, `{"pathname":"a.png","contentType":"image/png"}`, http.StatusBadRequest},
		{"disallowed type", http.MethodPost, `{"pathname":"a.gif","contentType":"image/gif","data":"QUJD"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/blob/upload", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			handler.HandleUpload(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), "error")
		})
	}
}

func TestHandleUploadUnconfigured(t *testing.T) {
	handler := &Handler{service: nil}
	req := httptest.NewRequest(http.MethodPost, "/api/blob/upload",
		strings.NewReader(`{"pathname":"a.png","contentType":"image/png","data":"QUJD"}`))
	rec := httptest.NewRecorder()

	handler.HandleUpload(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":{"message":"Blob storage is not configured."}}`, rec.Body.String())
}
