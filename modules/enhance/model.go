package enhance

// DefaultModel - 프롬프트 보강에 쓰는 ChatGPT 호환 모델
const DefaultModel = "gpt-4o-mini"

// DefaultMaxTokens - maxTokens 미지정 시 기본값
const DefaultMaxTokens = 400

// EnhanceRequest - 프롬프트 보강 요청
// Mode는 "t2i" 또는 "i2i"
type EnhanceRequest struct {
	Prompt    string `json:"prompt"`
	Mode      string `json:"mode"`
	MaxTokens *int   `json:"maxTokens,omitempty"`
}

// EnhanceResponse - 보강 결과
type EnhanceResponse struct {
	Enhanced  string `json:"enhanced"`
	Rationale string `json:"rationale,omitempty"`
}

// chatMessage / chatBody - chat/completions 요청 형식
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatBody struct {
	Model           string        `json:"model"`
	Messages        []chatMessage `json:"messages"`
	MaxOutputTokens int           `json:"max_output_tokens"`
}

// chatCompletion - chat/completions 응답에서 쓰는 부분만
type chatCompletion struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
			Refusal string `json:"refusal"`
		} `json:"message"`
	} `json:"choices"`
}
