package fetch

import (
	"bytes"
	"context"
	"log"
	"math"
	"net/http"
	"time"
)

// retryableStatuses - 일시적 오류로 보고 재시도하는 HTTP 상태 코드
var retryableStatuses = map[int]bool{
	http.StatusRequestTimeout:      true, // 408
	http.StatusTooEarly:            true, // 425
	http.StatusTooManyRequests:     true, // 429
	http.StatusInternalServerError: true, // 500
	http.StatusBadGateway:          true, // 502
	http.StatusServiceUnavailable:  true, // 503
	http.StatusGatewayTimeout:      true, // 504
}

// IsRetryableStatus - 재시도 대상 상태 코드 여부
func IsRetryableStatus(status int) bool {
	return retryableStatuses[status]
}

// Options - 재시도 설정
type Options struct {
	Method        string
	Headers       http.Header
	Body          []byte
	Retries       int           // 기본 0 (재시도 없음)
	RetryDelay    time.Duration // 기본 500ms
	BackoffFactor float64       // 기본 2
	Client        *http.Client
}

// Do - 재시도/백오프가 적용된 HTTP 호출
// 재시도 가능한 상태 코드와 전송 오류만 재시도하며, 그 외 non-2xx 응답은
// 그대로 반환한다 (도메인 에러 해석은 호출자 몫). 컨텍스트 취소는 진행 중인
// 호출과 대기 중인 백오프를 즉시 중단하고 재시도하지 않는다.
// 재시도 소진 시 마지막 응답(상태 코드 실패) 또는 마지막 전송 오류를 반환한다.
func Do(ctx context.Context, target string, opts Options) (*http.Response, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodPost
	}
	retryDelay := opts.RetryDelay
	if retryDelay <= 0 {
		retryDelay = 500 * time.Millisecond
	}
	backoffFactor := opts.BackoffFactor
	if backoffFactor <= 0 {
		backoffFactor = 2
	}
	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}

	var lastErr error
	for attempt := 0; attempt <= opts.Retries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(opts.Body))
		if err != nil {
			return nil, err
		}
		for key, values := range opts.Headers {
			for _, value := range values {
				req.Header.Add(key, value)
			}
		}

		resp, err := client.Do(req)
		if err != nil {
			// 취소는 재시도하지 않고 즉시 전파
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			if attempt >= opts.Retries {
				break
			}
			if waitErr := waitBackoff(ctx, retryDelay, backoffFactor, attempt); waitErr != nil {
				return nil, waitErr
			}
			log.Printf("🔄 [Fetch] Transport error, retry %d/%d: %v", attempt+1, opts.Retries, err)
			continue
		}

		if IsRetryableStatus(resp.StatusCode) && attempt < opts.Retries {
			resp.Body.Close()
			if waitErr := waitBackoff(ctx, retryDelay, backoffFactor, attempt); waitErr != nil {
				return nil, waitErr
			}
			log.Printf("🔄 [Fetch] Status %d, retry %d/%d", resp.StatusCode, attempt+1, opts.Retries)
			continue
		}

		return resp, nil
	}

	return nil, lastErr
}

// waitBackoff - retryDelay * factor^attempt 만큼 대기 (취소 시 즉시 중단)
func waitBackoff(ctx context.Context, delay time.Duration, factor float64, attempt int) error {
	wait := time.Duration(float64(delay) * math.Pow(factor, float64(attempt)))
	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
