package cancel

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"sync"
)

// ErrSuperseded - 같은 키의 새 작업이 시작되어 이전 작업이 취소됨
var ErrSuperseded = errors.New("operation superseded by a newer request")

type operation struct {
	cancel context.CancelCauseFunc
}

// Registry - 키별 single-flight 작업 관리
// 같은 키로 새 작업을 시작하면 이전 in-flight 작업을 먼저 취소한다.
// 키는 "<작업종류>:<클라이언트ID>" 형태로 패널당 enhancement 1개,
// generation 1개만 동시에 허용한다.
type Registry struct {
	mu  sync.Mutex
	ops map[string]*operation
}

func NewRegistry() *Registry {
	return &Registry{ops: make(map[string]*operation)}
}

// Begin - 키에 대한 새 작업 컨텍스트 시작
// 반환된 finish는 작업 종료 시 반드시 호출해야 한다.
func (r *Registry) Begin(parent context.Context, key string) (context.Context, func()) {
	r.mu.Lock()
	if prev := r.ops[key]; prev != nil {
		log.Printf("🛑 [Cancel] Superseding in-flight operation: %s", key)
		prev.cancel(ErrSuperseded)
	}
	ctx, cancelCause := context.WithCancelCause(parent)
	op := &operation{cancel: cancelCause}
	r.ops[key] = op
	r.mu.Unlock()

	finish := func() {
		r.mu.Lock()
		if r.ops[key] == op {
			delete(r.ops, key)
		}
		r.mu.Unlock()
		cancelCause(context.Canceled)
	}
	return ctx, finish
}

// Cancel - 키의 in-flight 작업을 명시적으로 취소 (없으면 no-op)
func (r *Registry) Cancel(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if op := r.ops[key]; op != nil {
		op.cancel(context.Canceled)
		delete(r.ops, key)
	}
}

// ClientKey - 요청에서 "<작업종류>:<클라이언트ID>" 형태의 키 생성
// X-Client-Id 헤더가 없으면 원격 주소로 대체한다.
func ClientKey(op string, r *http.Request) string {
	id := strings.TrimSpace(r.Header.Get("X-Client-Id"))
	if id == "" {
		id = r.RemoteAddr
		if idx := strings.LastIndex(id, ":"); idx > 0 {
			id = id[:idx]
		}
	}
	return op + ":" + id
}

// IsSuperseded - 컨텍스트가 새 요청에 의해 대체되어 취소됐는지 확인
// superseded 결과는 사용자에게 에러로 보고하지 않고 조용히 버린다.
func IsSuperseded(ctx context.Context) bool {
	return errors.Is(context.Cause(ctx), ErrSuperseded)
}
