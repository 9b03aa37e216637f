// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package similarity

// Verdict is the categorical plagiarism decision for a similarity score.
type Verdict string

const (
	VerdictHigh     Verdict = "HIGH"
	VerdictModerate Verdict = "MODERATE"
	VerdictOriginal Verdict = "ORIGINAL"
)

// Color returns the display hint for v: red, yellow, or green.
func (v Verdict) Color() string {
	switch v {
	case VerdictHigh:
		return "red"
	case VerdictModerate:
		return "yellow"
	default:
		return "green"
	}
}

// Label returns the human-readable decision text for v.
func (v Verdict) Label() string {
	switch v {
	case VerdictHigh:
		return "High Probability of Plagiarism"
	case VerdictModerate:
		return "Moderate Similarity Detected"
	default:
		return "Original Content"
	}
}

const (
	DefaultHighThreshold     = 0.8
	DefaultModerateThreshold = 0.4
)

// Policy maps scores to verdicts with two inclusive thresholds.
type Policy struct {
	High     float64
	Moderate float64
}

// DefaultPolicy returns the 0.8 / 0.4 policy.
func DefaultPolicy() Policy {
	return Policy{High: DefaultHighThreshold, Moderate: DefaultModerateThreshold}
}

// Decide returns HIGH at or above p.High, MODERATE at or above
// p.Moderate, and ORIGINAL otherwise.
func (p Policy) Decide(score float64) Verdict {
	switch {
	case score >= p.High:
		return VerdictHigh
	case score >= p.Moderate:
		return VerdictModerate
	default:
		return VerdictOriginal
	}
}

// Decide applies DefaultPolicy to score.
func Decide(score float64) Verdict {
	return DefaultPolicy().Decide(score)
}
