package sizing

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// DimensionStep - 픽셀 치수 스냅 단위
	DimensionStep = 8
	// MinDimension / MaxDimension - 제공자 허용 범위 (8의 배수)
	MinDimension = 16
	MaxDimension = 6000
	// MinPixelBudget - 최소 전체 픽셀 수 (1280x720)
	MinPixelBudget = 1280 * 720
)

// resolutionLongSide - 해상도 프리셋 → 긴 변 픽셀 길이
var resolutionLongSide = map[string]int{
	"480p": 854,
	"720p": 1280,
}

var (
	ErrInvalidAspectRatio = errors.New("invalid aspect ratio")
	ErrInvalidResolution  = errors.New("invalid resolution preset")
)

// Dimensions - 계산된 픽셀 치수
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ParseAspectRatio - "W:H" 문자열을 정수 비율로 파싱
func ParseAspectRatio(aspectRatio string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(aspectRatio), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidAspectRatio, aspectRatio)
	}
	rw, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidAspectRatio, aspectRatio)
	}
	rh, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidAspectRatio, aspectRatio)
	}
	if rw <= 0 || rh <= 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidAspectRatio, aspectRatio)
	}
	return rw, rh, nil
}

// clampRatio - 비율을 [1/3, 3] 범위로 클램프 (방향은 유지)
func clampRatio(rw, rh int) (int, int) {
	if 3*rw < rh {
		return 1, 3
	}
	if rw > 3*rh {
		return 3, 1
	}
	return rw, rh
}

// ComputeDimensions - (비율, 해상도 프리셋) → 정확한 픽셀 치수
// 8px 그리드에 스냅하고 최소 픽셀 버짓(1280x720)을 보장한다.
// 버짓 복구가 최대 치수에 막히면 그대로 수용 (best effort).
func ComputeDimensions(aspectRatio, resolution string) (Dimensions, error) {
	rw, rh, err := ParseAspectRatio(aspectRatio)
	if err != nil {
		return Dimensions{}, err
	}
	rw, rh = clampRatio(rw, rh)

	longSide, ok := resolutionLongSide[resolution]
	if !ok {
		return Dimensions{}, fmt.Errorf("%w: %q", ErrInvalidResolution, resolution)
	}

	// 긴 변을 프리셋 길이로 놓고 반대 변을 비율로 계산
	var width, height int
	if rw >= rh {
		width = longSide
		height = roundHalfUp(float64(longSide) * float64(rh) / float64(rw))
	} else {
		height = longSide
		width = roundHalfUp(float64(longSide) * float64(rw) / float64(rh))
	}

	// 픽셀 버짓 미달이면 비율을 유지한 채 최소 정수배로 확대
	if width*height < MinPixelBudget {
		k := int(math.Ceil(math.Sqrt(float64(MinPixelBudget) / float64(width*height))))
		if k < 1 {
			k = 1
		}
		width *= k
		height *= k
	}

	width = snapDimension(width)
	height = snapDimension(height)

	// 스냅으로 버짓 아래로 떨어질 수 있음 - 긴 변을 8px씩 키워 복구
	for width*height < MinPixelBudget {
		if rw >= rh {
			if width >= MaxDimension {
				break
			}
			width += DimensionStep
			height = snapDimension(roundHalfUp(float64(width) * float64(rh) / float64(rw)))
		} else {
			if height >= MaxDimension {
				break
			}
			height += DimensionStep
			width = snapDimension(roundHalfUp(float64(height) * float64(rw) / float64(rh)))
		}
	}

	return Dimensions{
		Width:  snapDimension(width),
		Height: snapDimension(height),
	}, nil
}

// snapDimension - 8의 배수로 내림 스냅 후 [MinDimension, MaxDimension] 클램프
func snapDimension(value int) int {
	if value <= 0 {
		return MinDimension
	}
	snapped := value / DimensionStep * DimensionStep
	if snapped < MinDimension {
		return MinDimension
	}
	if snapped > MaxDimension {
		return MaxDimension
	}
	return snapped
}

func roundHalfUp(value float64) int {
	return int(math.Floor(value + 0.5))
}
