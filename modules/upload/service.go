package upload

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/supabase-community/supabase-go"

	"seedream-studio-server/modules/common/config"
)

// allowedContentTypes - 업로드로 허용하는 이미지 타입
var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

type Service struct {
	supabase      *supabase.Client
	bucket        string
	publicBaseURL string
}

func NewService() *Service {
	cfg := config.GetConfig()

	if cfg.SupabaseURL == "" || cfg.SupabaseServiceKey == "" {
		log.Println("⚠️ [Upload] SUPABASE_URL / SUPABASE_SERVICE_KEY not configured")
		return nil
	}

	supabaseClient, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, &supabase.ClientOptions{})
	if err != nil {
		log.Printf("❌ [Upload] Failed to create Supabase client: %v", err)
		return nil
	}

	log.Println("✅ [Upload] Service initialized")
	return &Service{
		supabase:      supabaseClient,
		bucket:        cfg.SupabaseBucket,
		publicBaseURL: cfg.SupabaseStorageBaseURL,
	}
}

// IsAllowedContentType - 업로드 허용 타입 여부
func IsAllowedContentType(contentType string) bool {
	return allowedContentTypes[strings.ToLower(contentType)]
}

// RandomizePathname - 파일명에 랜덤 접미사 삽입 (덮어쓰기 방지)
// "photo.png" → "photo-1a2b3c4d.png"
func RandomizePathname(pathname string) string {
	cleaned := strings.TrimLeft(path.Clean(pathname), "/")
	ext := path.Ext(cleaned)
	base := strings.TrimSuffix(cleaned, ext)
	suffix := uuid.New().String()[:8]
	return fmt.Sprintf("%s-%s%s", base, suffix, ext)
}

// Upload - 디코딩된 바이너리를 Supabase Storage에 저장하고 공개 URL 반환
func (s *Service) Upload(ctx context.Context, pathname, contentType string, payload string) (string, string, error) {
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", "", fmt.Errorf("file data is not valid base64: %w", err)
	}

	objectPath := RandomizePathname(pathname)
	log.Printf("📤 [Upload] Uploading to Storage: %s/%s (%d bytes)", s.bucket, objectPath, len(data))

	_, err = s.supabase.Storage.UploadFile(s.bucket, objectPath, bytes.NewReader(data))
	if err != nil {
		return "", "", fmt.Errorf("upload failed: %w", err)
	}

	publicURL := strings.TrimRight(s.publicBaseURL, "/") + "/" + objectPath
	log.Printf("✅ [Upload] Uploaded: %s", publicURL)
	return objectPath, publicURL, nil
}
