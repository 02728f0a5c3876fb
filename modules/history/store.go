package history

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log"
	"sync"

	"seedream-studio-server/modules/common/imageutil"
	"seedream-studio-server/modules/common/kvstore"
)

const (
	// MaxItems - 보관 한도 (초과분은 오래된 것부터 잘림)
	MaxItems = 100
	// PersistKey - 영속화 키
	PersistKey = "seedream.history.v1"
	// envelopeVersion - 현재 영속화 포맷 버전
	envelopeVersion = 1

	thumbMaxSide = 256
	thumbQuality = 75
)

// Store - 생성 히스토리 저장소
// 메모리 상태가 기준이고 kvstore에는 매 변경마다 스냅샷을 쓴다.
// 쿼터 초과 시 절반만 남겨 재시도하고, 그래도 실패하면 키를 지운다.
// 메모리 상태는 어느 경우에도 줄이지 않는다.
type Store struct {
	mu    sync.Mutex
	items []HistoryItem
	kv    kvstore.Store
}

// NewStore - 저장소 생성 및 기존 스냅샷 복원
func NewStore(kv kvstore.Store) *Store {
	s := &Store{kv: kv}
	s.restore()
	return s
}

func (s *Store) restore() {
	if s.kv == nil {
		return
	}
	raw, err := s.kv.Get(context.Background(), PersistKey)
	if err != nil {
		if err != kvstore.ErrNotFound {
			log.Printf("⚠️ [History] Failed to load snapshot: %v", err)
		}
		return
	}
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		log.Printf("⚠️ [History] Corrupt snapshot, starting empty: %v", err)
		return
	}
	if len(env.Items) > MaxItems {
		env.Items = env.Items[:MaxItems]
	}
	s.items = env.Items
	log.Printf("✅ [History] Restored %d item(s)", len(s.items))
}

// Add - 항목을 맨 앞에 추가. 같은 id가 있으면 교체 후 맨 앞으로 이동 (멱등)
func (s *Store) Add(ctx context.Context, item HistoryItem) {
	ensureThumb(&item)

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]HistoryItem, 0, len(s.items)+1)
	kept = append(kept, item)
	for _, existing := range s.items {
		if existing.ID == item.ID {
			continue
		}
		kept = append(kept, existing)
	}
	if len(kept) > MaxItems {
		kept = kept[:MaxItems]
	}
	s.items = kept
	s.persist(ctx)
}

// Remove - id로 삭제. 없으면 아무 일도 하지 않음
func (s *Store) Remove(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.items[:0]
	found := false
	for _, existing := range s.items {
		if existing.ID == id {
			found = true
			continue
		}
		kept = append(kept, existing)
	}
	if !found {
		return
	}
	s.items = kept
	s.persist(ctx)
}

// Clear - 전체 삭제
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.persist(ctx)
}

// Items - 최신순 복사본 반환
func (s *Store) Items() []HistoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]HistoryItem, len(s.items))
	copy(out, s.items)
	return out
}

// persist - 현재 상태를 kvstore에 기록. 호출자가 mu를 잡고 있어야 한다.
// 쿼터 초과 시 최신 ceil(n/2)개만 담아 1회 재시도하고, 그래도 실패하면 키 삭제.
func (s *Store) persist(ctx context.Context) {
	if s.kv == nil {
		return
	}

	err := s.writeSnapshot(ctx, s.items)
	if err == nil {
		return
	}
	if !kvstore.IsQuotaExceeded(err) {
		log.Printf("⚠️ [History] Failed to persist: %v", err)
		return
	}

	half := (len(s.items) + 1) / 2
	log.Printf("⚠️ [History] Storage quota exceeded, retrying with newest %d item(s)", half)
	if err := s.writeSnapshot(ctx, s.items[:half]); err == nil {
		return
	}

	log.Println("⚠️ [History] Retry failed, dropping persisted history")
	if err := s.kv.Delete(ctx, PersistKey); err != nil {
		log.Printf("❌ [History] Failed to delete snapshot key: %v", err)
	}
}

func (s *Store) writeSnapshot(ctx context.Context, items []HistoryItem) error {
	if items == nil {
		items = []HistoryItem{}
	}
	data, err := json.Marshal(envelope{Version: envelopeVersion, Items: items})
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, PersistKey, string(data))
}

// ensureThumb - data URI 결과물에 대해 WebP 썸네일 생성 (실패해도 무시)
func ensureThumb(item *HistoryItem) {
	if item.Thumb != "" || item.URL == "" {
		return
	}
	_, payload, ok := imageutil.ParseDataURI(item.URL)
	if !ok {
		return
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return
	}
	thumb, err := imageutil.Thumbnail(data, thumbMaxSide, thumbQuality)
	if err != nil {
		log.Printf("⚠️ [History] Thumbnail generation failed: %v", err)
		return
	}
	item.Thumb = "data:image/webp;base64," + base64.StdEncoding.EncodeToString(thumb)
}
