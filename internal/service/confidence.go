package service

import "github.com/cloo-solutions/askdocs/internal/domain"

// Thresholds carries the confidence configuration. Values are applied as-is,
// without clamping.
type Thresholds struct {
	ConfidenceThreshold        float64
	UncertainDistanceThreshold float64
}

// Assess converts a retrieval result into a confidence assessment.
//
// Cosine distance maps to confidence as 1-min_distance, clamped to [0, 1]:
// the clamp absorbs the metric's [0, 2] upper range. An empty result is
// treated as min_distance 1.0, i.e. zero confidence. Pure and total: no
// error cases, no state.
func Assess(result domain.RetrievalResult, t Thresholds) domain.ConfidenceAssessment {
	minDistance := result.MinDistance()

	confidence := 1.0 - minDistance
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	return domain.ConfidenceAssessment{
		Confidence:  confidence,
		IsUncertain: minDistance > t.UncertainDistanceThreshold,
		Escalated:   confidence < t.ConfidenceThreshold,
	}
}
