package nanobanana

import "strings"

// InjectAspectRatio - 비율 힌트를 프롬프트에 삽입
// 나노 모델은 해상도 제어가 없어서 프롬프트 문구로만 비율을 유도한다.
// 이미 비율이 언급돼 있으면 그대로 둔다.
func InjectAspectRatio(prompt, aspectRatio string) string {
	trimmed := strings.TrimSpace(prompt)
	if trimmed == "" {
		return prompt
	}

	ratio := strings.TrimSpace(aspectRatio)
	if ratio == "" {
		return trimmed
	}

	if strings.Contains(trimmed, ratio) {
		return trimmed
	}

	if containsHangul(trimmed) {
		return trimmed + ", " + ratio + " 비율"
	}
	return trimmed + " with an aspect ratio of " + ratio
}

func containsHangul(s string) bool {
	for _, r := range s {
		if r >= 0xAC00 && r <= 0xD7AF {
			return true
		}
	}
	return false
}
