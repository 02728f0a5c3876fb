package sizing

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var aspectRatioOptions = []string{
	"1:1", "16:9", "9:16", "2:3", "3:4", "1:2", "2:1", "4:5", "3:2", "4:3",
}

var resolutionOptions = []string{"480p", "720p"}

func TestComputeDimensionsProperties(t *testing.T) {
	for _, ratio := range aspectRatioOptions {
		for _, res := range resolutionOptions {
			t.Run(ratio+"/"+res, func(t *testing.T) {
				dims, err := ComputeDimensions(ratio, res)
				require.NoError(t, err)

				assert.Zero(t, dims.Width%DimensionStep, "width must be on the 8px grid")
				assert.Zero(t, dims.Height%DimensionStep, "height must be on the 8px grid")
				assert.GreaterOrEqual(t, dims.Width, MinDimension)
				assert.GreaterOrEqual(t, dims.Height, MinDimension)
				assert.LessOrEqual(t, dims.Width, MaxDimension)
				assert.LessOrEqual(t, dims.Height, MaxDimension)
				assert.GreaterOrEqual(t, dims.Width*dims.Height, MinPixelBudget)

				outRatio := float64(dims.Width) / float64(dims.Height)
				assert.GreaterOrEqual(t, outRatio, 1.0/3.0-1e-9)
				assert.LessOrEqual(t, outRatio, 3.0+1e-9)
			})
		}
	}
}

func TestComputeDimensionsExact(t *testing.T) {
	tests := []struct {
		aspectRatio string
		resolution  string
		want        Dimensions
	}{
		{"1:1", "720p", Dimensions{1280, 1280}},
		{"16:9", "720p", Dimensions{1280, 720}},
		{"9:16", "720p", Dimensions{720, 1280}},
		{"16:9", "480p", Dimensions{1704, 960}},
		{"9:16", "480p", Dimensions{960, 1704}},
		{"1:1", "480p", Dimensions{1704, 1704}},
	}

	for _, tt := range tests {
		t.Run(tt.aspectRatio+"/"+tt.resolution, func(t *testing.T) {
			dims, err := ComputeDimensions(tt.aspectRatio, tt.resolution)
			require.NoError(t, err)
			assert.Equal(t, tt.want, dims)
		})
	}
}

func TestComputeDimensionsSquare(t *testing.T) {
	dims, err := ComputeDimensions("1:1", "720p")
	require.NoError(t, err)
	assert.Equal(t, dims.Width, dims.Height)
	assert.GreaterOrEqual(t, dims.Width*dims.Height, MinPixelBudget)
}

func TestComputeDimensionsTranspose(t *testing.T) {
	landscape, err := ComputeDimensions("16:9", "480p")
	require.NoError(t, err)
	portrait, err := ComputeDimensions("9:16", "480p")
	require.NoError(t, err)

	assert.Equal(t, landscape.Width, portrait.Height)
	assert.Equal(t, landscape.Height, portrait.Width)
}

func TestComputeDimensionsClampsExtremeRatios(t *testing.T) {
	wide, err := ComputeDimensions("100:1", "480p")
	require.NoError(t, err)
	assert.Equal(t, Dimensions{1704, 568}, wide)
	assert.InDelta(t, 3.0, float64(wide.Width)/float64(wide.Height), 1e-9)

	tall, err := ComputeDimensions("1:100", "480p")
	require.NoError(t, err)
	assert.Equal(t, Dimensions{568, 1704}, tall)
}

func TestComputeDimensionsStableWhenFedBack(t *testing.T) {
	for _, ratio := range aspectRatioOptions {
		dims, err := ComputeDimensions(ratio, "480p")
		require.NoError(t, err)

		again, err := ComputeDimensions(fmt.Sprintf("%d:%d", dims.Width, dims.Height), "480p")
		require.NoError(t, err)
		assert.Zero(t, again.Width%DimensionStep)
		assert.Zero(t, again.Height%DimensionStep)
		assert.GreaterOrEqual(t, again.Width*again.Height, MinPixelBudget)
	}
}

func TestComputeDimensionsInvalidInput(t *testing.T) {
	invalidRatios := []string{"", "16", "16:9:2", "0:1", "1:0", "-1:2", "a:b", "16:"}
	for _, ratio := range invalidRatios {
		_, err := ComputeDimensions(ratio, "480p")
		assert.ErrorIs(t, err, ErrInvalidAspectRatio, "ratio %q", ratio)
	}

	_, err := ComputeDimensions("1:1", "1080p")
	assert.ErrorIs(t, err, ErrInvalidResolution)
}

func TestParseAspectRatio(t *testing.T) {
	w, h, err := ParseAspectRatio("16:9")
	require.NoError(t, err)
	assert.Equal(t, 16, w)
	assert.Equal(t, 9, h)

	w, h, err = ParseAspectRatio(" 3 : 4 ")
	require.NoError(t, err)
	assert.Equal(t, 3, w)
	assert.Equal(t, 4, h)
}
