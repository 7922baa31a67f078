package service

import (
	"testing"

	"github.com/cloo-solutions/askdocs/internal/domain"
	"github.com/stretchr/testify/assert"
)

func resultWithDistances(distances ...float64) domain.RetrievalResult {
	var r domain.RetrievalResult
	for i, d := range distances {
		r.Chunks = append(r.Chunks, domain.ScoredChunk{
			Chunk:    domain.Chunk{Index: i, Text: "chunk"},
			Distance: d,
		})
	}
	return r
}

func defaultThresholds() Thresholds {
	return Thresholds{
		ConfidenceThreshold:        0.5,
		UncertainDistanceThreshold: 0.8,
	}
}

func TestAssess_ConfidentResult(t *testing.T) {
	// min_distance 0.18 -> confidence 0.82, neither uncertain nor escalated
	a := Assess(resultWithDistances(0.18, 0.35, 0.6), defaultThresholds())

	assert.InDelta(t, 0.82, a.Confidence, 1e-9)
	assert.False(t, a.IsUncertain)
	assert.False(t, a.Escalated)
}

func TestAssess_UncertainAndEscalated(t *testing.T) {
	// min_distance 0.9 -> confidence 0.1, both flags set
	a := Assess(resultWithDistances(0.9, 1.1), defaultThresholds())

	assert.InDelta(t, 0.1, a.Confidence, 1e-9)
	assert.True(t, a.IsUncertain)
	assert.True(t, a.Escalated)
}

func TestAssess_EmptyResult(t *testing.T) {
	// Nothing retrieved is treated as min_distance 1.0
	a := Assess(domain.RetrievalResult{}, defaultThresholds())

	assert.Equal(t, 0.0, a.Confidence)
	assert.True(t, a.IsUncertain)
	assert.True(t, a.Escalated)
}

func TestAssess_Boundaries(t *testing.T) {
	tests := []struct {
		name        string
		minDistance float64
		confidence  float64
		uncertain   bool
	}{
		{"perfect match", 0.0, 1.0, false},
		{"orthogonal", 1.0, 0.0, true},
		{"beyond one clamps to zero", 1.7, 0.0, true},
		{"cosine maximum clamps to zero", 2.0, 0.0, true},
		{"negative distance clamps to one", -0.3, 1.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Assess(resultWithDistances(tt.minDistance), defaultThresholds())
			assert.Equal(t, tt.confidence, a.Confidence)
			assert.True(t, a.Confidence >= 0 && a.Confidence <= 1)
			assert.Equal(t, tt.uncertain, a.IsUncertain)
		})
	}
}

func TestAssess_UsesMinimumDistance(t *testing.T) {
	// Order inside the result must not matter; the minimum wins.
	a := Assess(resultWithDistances(0.7, 0.2, 0.5), defaultThresholds())
	assert.InDelta(t, 0.8, a.Confidence, 1e-9)
}

func TestAssess_ThresholdsAppliedAsIs(t *testing.T) {
	// Out-of-range thresholds are not clamped.
	a := Assess(resultWithDistances(0.1), Thresholds{
		ConfidenceThreshold:        1.5,
		UncertainDistanceThreshold: -1,
	})
	assert.True(t, a.Escalated)
	assert.True(t, a.IsUncertain)
}
