package main

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"seedream-studio-server/modules/auth"
	"seedream-studio-server/modules/common/cancel"
	"seedream-studio-server/modules/common/config"
	"seedream-studio-server/modules/common/kvstore"
	"seedream-studio-server/modules/enhance"
	"seedream-studio-server/modules/events"
	generateimage "seedream-studio-server/modules/generate-image"
	"seedream-studio-server/modules/history"
	"seedream-studio-server/modules/submodule/nanobanana"
	"seedream-studio-server/modules/submodule/seedream"
	"seedream-studio-server/modules/theme"
	"seedream-studio-server/modules/upload"
)

// CORS 헤더 추가
func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Client-Id")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	// 환경변수 로드
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	// Redis 기반 영속화 (실패 시 메모리 전용으로 동작)
	var kv kvstore.Store
	if redisStore, err := kvstore.NewRedisStore(cfg); err != nil {
		log.Printf("⚠️ Running without persistence: %v", err)
	} else {
		kv = redisStore
	}

	// 공유 구성요소
	hub := events.NewHub()
	registry := cancel.NewRegistry()
	historyStore := history.NewStore(kv)

	// 핸들러 초기화
	seedreamHandler := seedream.NewHandler()
	nanoHandler := nanobanana.NewHandler()
	pipelineService := generateimage.NewService(historyStore, hub)
	pipelineHandler := generateimage.NewHandler(pipelineService, seedreamHandler, nanoHandler, registry)
	enhanceHandler := enhance.NewHandler(registry)
	historyHandler := history.NewHandler(historyStore, hub)
	authHandler := auth.NewHandler()
	uploadHandler := upload.NewHandler()
	themeHandler := theme.NewHandler(kv)

	healthCheck := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "seedream-studio",
			"clients": hub.ClientCount(),
		})
	}

	// 라우터 설정
	r := mux.NewRouter()

	// CORS 미들웨어 적용
	r.Use(enableCORS)

	// 라우트 설정
	r.HandleFunc("/", healthCheck).Methods("GET")
	r.HandleFunc("/health", healthCheck).Methods("GET")
	r.HandleFunc("/ws", hub.HandleWS)

	r.HandleFunc("/api/generate", pipelineHandler.HandleGenerate).Methods("POST")
	r.HandleFunc("/api/generate-image", pipelineHandler.HandleProxy)
	r.HandleFunc("/api/nano/generate", nanoHandler.HandleGenerate).Methods("POST")
	r.HandleFunc("/api/enhance", enhanceHandler.HandleEnhance).Methods("POST")

	r.HandleFunc("/api/history", historyHandler.HandleList).Methods("GET")
	r.HandleFunc("/api/history", historyHandler.HandleAdd).Methods("POST")
	r.HandleFunc("/api/history", historyHandler.HandleClear).Methods("DELETE")
	r.HandleFunc("/api/history/{id}", historyHandler.HandleRemove).Methods("DELETE")

	r.HandleFunc("/api/login", authHandler.HandleLogin)
	r.HandleFunc("/api/blob/upload", uploadHandler.HandleUpload)
	r.HandleFunc("/api/theme", themeHandler.HandleGet).Methods("GET")
	r.HandleFunc("/api/theme", themeHandler.HandleSet).Methods("PUT")

	log.Printf("🚀 Seedream Studio Server starting on port %s", cfg.Port)
	log.Printf("📡 WebSocket endpoint: ws://localhost:%s/ws", cfg.Port)
	log.Printf("❤️  Health check: http://localhost:%s/health", cfg.Port)

	// 서버 시작
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
