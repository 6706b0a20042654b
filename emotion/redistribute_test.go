package emotion

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nileshkulkarniy/EmotionSense-AI-powered-Emotion-Recognition-and-Analytics-System/common"
)

func TestVectorHappyDominant(t *testing.T) {
	got, err := Vector([]float64{0.1, 0.05, 0.05, 0.6, 0.1, 0.05, 0.05}, len(FaceClasses))
	require.NoError(t, err)

	want := []float64{6.67, 6.67, 6.67, 60, 6.67, 6.67, 6.67}
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-9, "index %d", i)
	}
	assert.InDelta(t, 100, got.Sum(), 0.1)
}

func TestVectorTieBreaksOnLowestIndex(t *testing.T) {
	got, err := Vector([]float64{0.3, 0.3, 0.1, 0.1, 0.1, 0.05, 0.05}, 7)
	require.NoError(t, err)
	assert.InDelta(t, 30, got[0], 1e-9)
	assert.InDelta(t, 11.67, got[1], 1e-9)
}

func TestVectorCorrectsDominantWhenFloorsOvershoot(t *testing.T) {
	got, err := Vector([]float64{0.01, 0.01, 0.01, 0.99, 0.01, 0.01, 0.01}, 7)
	require.NoError(t, err)
	// others floor to 1, so the dominant absorbs the excess.
	assert.InDelta(t, 94, got[3], 1e-9)
	for i, v := range got {
		if i != 3 {
			assert.InDelta(t, 1, v, 1e-9)
		}
	}
	assert.InDelta(t, 100, got.Sum(), 0.1)
}

func TestVectorAllZero(t *testing.T) {
	got, err := Vector(make([]float64, 7), 7)
	require.NoError(t, err)
	assert.InDelta(t, 0, got[0], 1e-9)
	for _, v := range got[1:] {
		assert.InDelta(t, 16.67, v, 1e-9)
	}
}

// A dominant under 1% keeps its own value; only the other entries are
// floored.
func TestVectorTinyDominant(t *testing.T) {
	got, err := Vector([]float64{0.005, 0, 0, 0, 0, 0, 0}, 7)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, got[0], 1e-9)
	for _, v := range got[1:] {
		assert.InDelta(t, 16.58, v, 1e-9)
	}
	assert.InDelta(t, 100, got.Sum(), 0.1)
}

func TestVectorRejectsBadShape(t *testing.T) {
	tests := []struct {
		name string
		p    []float64
		n    int
	}{
		{"short", []float64{0.5, 0.5}, 7},
		{"nil", nil, 7},
		{"negative", []float64{0.5, -0.1, 0.6}, 3},
		{"single class", []float64{1}, 1},
		{"overflows when scaled", []float64{1e307, 0, 0}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Vector(tt.p, tt.n)
			assert.ErrorIs(t, err, common.ErrValidation)
		})
	}
}

func TestVectorInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		p := make([]float64, 7)
		for j := range p {
			p[j] = rng.Float64() * 0.2
		}
		p[rng.Intn(7)] = 0.2 + rng.Float64()*0.8

		first, err := Vector(p, 7)
		require.NoError(t, err)
		second, err := Vector(p, 7)
		require.NoError(t, err)

		assert.InDelta(t, 100, first.Sum(), 0.1)
		for _, v := range first {
			assert.GreaterOrEqual(t, v, 1.0)
		}
		assert.Equal(t, argmax(first), argmax(second))
	}
}

func TestScalarText(t *testing.T) {
	conf := DisplayConfidence(0.8)
	assert.Equal(t, 75, conf)

	got, err := Scalar(TextClasses, Positive, float64(conf))
	require.NoError(t, err)
	assert.Equal(t, DisplayVector{75, 12.5, 12.5}, got)
}

func TestScalarVoice(t *testing.T) {
	got, err := Scalar(FaceClasses, Sad, 70)
	require.NoError(t, err)
	assert.InDelta(t, 70, got[Index(FaceClasses, Sad)], 1e-9)
	assert.InDelta(t, 5, got[0], 1e-9)
	assert.InDelta(t, 100, got.Sum(), 0.1)
}

func TestScalarRejects(t *testing.T) {
	_, err := Scalar(TextClasses, Happy, 50)
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = Scalar(TextClasses, Positive, 120)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestDisplayConfidence(t *testing.T) {
	assert.Equal(t, 0, DisplayConfidence(0))
	assert.Equal(t, 94, DisplayConfidence(1))
	assert.Equal(t, 47, DisplayConfidence(0.5))
}

func TestPlaceholderIsPopulated(t *testing.T) {
	p := Placeholder()
	assert.Len(t, p, len(FaceClasses))
	assert.InDelta(t, 100, p.Sum(), 1e-9)
	assert.Equal(t, DisplayVector{0, 0, 0}, Zero(3))
}

func TestParse(t *testing.T) {
	c, ok := Parse(TextClasses, " Positive ")
	assert.True(t, ok)
	assert.Equal(t, Positive, c)

	_, ok = Parse(TextClasses, "happy")
	assert.False(t, ok)

	assert.Equal(t, "Surprise", Surprise.Title())
}

func argmax(d DisplayVector) int {
	idx := 0
	for i, v := range d {
		if v > d[idx] {
			idx = i
		}
	}
	return idx
}
