package history

// GenerationParams - 생성 시점의 요청 파라미터 스냅샷
type GenerationParams struct {
	AspectRatio               string   `json:"aspectRatio"`
	Resolution                string   `json:"resolution"`
	Width                     int      `json:"width"`
	Height                    int      `json:"height"`
	Seed                      *int64   `json:"seed,omitempty"`
	Steps                     *int     `json:"steps,omitempty"`
	GuidanceScale             *float64 `json:"guidanceScale,omitempty"`
	Watermark                 bool     `json:"watermark"`
	Stream                    bool     `json:"stream"`
	SequentialImageGeneration string   `json:"sequentialImageGeneration,omitempty"`
}

// HistoryItem - 생성 결과 1건
// Source는 "t2i" 또는 "i2i". Thumb는 WebP data URI (없을 수 있음).
type HistoryItem struct {
	ID             string           `json:"id"`
	CreatedAt      int64            `json:"createdAt"`
	Source         string           `json:"source"`
	PromptRaw      string           `json:"promptRaw"`
	PromptEnhanced string           `json:"promptEnhanced,omitempty"`
	Params         GenerationParams `json:"params"`
	Thumb          string           `json:"thumb,omitempty"`
	URL            string           `json:"url,omitempty"`
}

// envelope - 영속화 포맷 (버전 포함)
type envelope struct {
	Version int           `json:"version"`
	Items   []HistoryItem `json:"items"`
}
