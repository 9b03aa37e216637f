// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/plagiarism-engine/internal/crossref"
	"github.com/pdiddy/plagiarism-engine/internal/external"
	"github.com/pdiddy/plagiarism-engine/internal/similarity"
	"github.com/pdiddy/plagiarism-engine/pkg/types"
)

type staticDocs struct {
	docs []types.ReferenceDocument
	err  error
}

func (s staticDocs) Documents(context.Context) ([]types.ReferenceDocument, error) {
	return s.docs, s.err
}

type stubExternal struct {
	res external.Result
	err error
}

func (s stubExternal) Analyze(context.Context, string) (external.Result, error) {
	return s.res, s.err
}

func corpus() staticDocs {
	return staticDocs{docs: []types.ReferenceDocument{
		{ID: "bio-1", Title: "Mitochondria - The Powerhouse of the Cell", Category: "Biology", Source: "Wikipedia",
			Content: "The mitochondria is the powerhouse of the cell. It produces energy through cellular respiration."},
		{ID: "phy-1", Title: "Laws of Thermodynamics", Category: "Physics",
			Content: "Energy cannot be created or destroyed, only transformed. Entropy of an isolated system never decreases."},
	}}
}

const plagiarized = "The mltochondria is the powerhose of the cell. It produces energy through cellular respiration."

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		ok   bool
	}{
		{"valid", Request{StudentID: "STU-2026-001", Text: "long enough text"}, true},
		{"empty student", Request{Text: "long enough text"}, false},
		{"student too long", Request{StudentID: strings.Repeat("x", 51), Text: "long enough text"}, false},
		{"student at limit", Request{StudentID: strings.Repeat("x", 50), Text: "long enough text"}, true},
		{"text too short", Request{StudentID: "s", Text: "too short"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidRequest)
		})
	}
}

func TestAnalyzeLocalHigh(t *testing.T) {
	svc := NewService(corpus(), nil)

	rep, err := svc.AnalyzeLocal(context.Background(), Request{StudentID: "STU-1", Text: plagiarized})
	require.NoError(t, err)

	assert.Equal(t, "STU-1", rep.StudentID)
	assert.Equal(t, similarity.VerdictHigh, rep.Verdict)
	assert.Equal(t, "High Probability of Plagiarism", rep.Decision)
	assert.Equal(t, "red", rep.Color)
	assert.GreaterOrEqual(t, rep.HighestScore, 0.95)
	require.NotEmpty(t, rep.TopMatches)
	assert.Equal(t, "bio-1", rep.TopMatches[0].DocumentID)
	assert.Equal(t, rep.HighestScore, rep.TopMatches[0].Score)
	assert.Equal(t, 7, rep.WordCount)
}

func TestAnalyzeLocalOriginal(t *testing.T) {
	svc := NewService(corpus(), nil)

	rep, err := svc.AnalyzeLocal(context.Background(), Request{
		StudentID: "STU-2",
		Text:      "Volcanic basalt erupts near tectonic ridges beneath oceans",
	})
	require.NoError(t, err)
	assert.Equal(t, similarity.VerdictOriginal, rep.Verdict)
	assert.Equal(t, "green", rep.Color)
	assert.Equal(t, 0.0, rep.HighestScore)
}

func TestAnalyzeLocalTextTooShort(t *testing.T) {
	svc := NewService(corpus(), nil)
	_, err := svc.AnalyzeLocal(context.Background(), Request{StudentID: "s", Text: "the cell is of it and"})
	assert.ErrorIs(t, err, ErrTextTooShort)
}

func TestAnalyzeLocalEmptyCorpus(t *testing.T) {
	svc := NewService(staticDocs{}, nil)
	rep, err := svc.AnalyzeLocal(context.Background(), Request{StudentID: "s", Text: plagiarized})
	require.NoError(t, err)
	assert.Equal(t, 0.0, rep.HighestScore)
	assert.Equal(t, similarity.VerdictOriginal, rep.Verdict)
	assert.NotNil(t, rep.TopMatches)
	assert.Empty(t, rep.TopMatches)
}

func TestAnalyzeLocalCorpusError(t *testing.T) {
	boom := errors.New("db locked")
	svc := NewService(staticDocs{err: boom}, nil)
	_, err := svc.AnalyzeLocal(context.Background(), Request{StudentID: "s", Text: plagiarized})
	assert.ErrorIs(t, err, boom)
}

func TestAnalyzeLocalCustomPolicyAndTopN(t *testing.T) {
	svc := NewService(corpus(), nil,
		WithPolicy(similarity.Policy{High: 1.01, Moderate: 0.9}),
		WithTopN(1),
		WithMinWordCount(1))

	rep, err := svc.AnalyzeLocal(context.Background(), Request{StudentID: "s", Text: plagiarized})
	require.NoError(t, err)
	assert.Equal(t, similarity.VerdictModerate, rep.Verdict)
	assert.Len(t, rep.TopMatches, 1)
}

func TestAnalyzeExternal(t *testing.T) {
	score := 1.0
	ext := stubExternal{res: external.Result{
		Keywords: []string{"mitochondria", "cell"},
		Records:  []types.ExternalRecord{{Source: external.SourceCrossref, DOI: "10.1/a", Score: &score}},
		Latency:  250 * time.Millisecond,
	}}
	svc := NewService(corpus(), ext)

	rep, err := svc.AnalyzeExternal(context.Background(), Request{StudentID: "s", Text: plagiarized})
	require.NoError(t, err)
	assert.Equal(t, []string{"mitochondria", "cell"}, rep.QueryKeywords)
	assert.Equal(t, 1, rep.ResultCount)
	assert.Equal(t, 0.25, rep.LatencySeconds)
	assert.False(t, rep.FromCache)
}

func TestAnalyzeExternalEmptyResult(t *testing.T) {
	svc := NewService(corpus(), stubExternal{})
	rep, err := svc.AnalyzeExternal(context.Background(), Request{StudentID: "s", Text: "0123456789"})
	require.NoError(t, err)
	assert.NotNil(t, rep.QueryKeywords)
	assert.NotNil(t, rep.Sources)
	assert.Equal(t, 0, rep.ResultCount)
}

func TestAnalyzeExternalPropagatesTransportError(t *testing.T) {
	upstream := &crossref.StatusError{StatusCode: 503}
	svc := NewService(corpus(), stubExternal{err: upstream})

	_, err := svc.AnalyzeExternal(context.Background(), Request{StudentID: "s", Text: plagiarized})
	var se *crossref.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 503, se.StatusCode)
}

func TestAnalyzeExternalDisabled(t *testing.T) {
	svc := NewService(corpus(), nil)
	_, err := svc.AnalyzeExternal(context.Background(), Request{StudentID: "s", Text: plagiarized})
	assert.ErrorIs(t, err, ErrExternalDisabled)
}

func TestAnalyzeFull(t *testing.T) {
	ext := stubExternal{res: external.Result{Keywords: []string{"cell"}}}
	svc := NewService(corpus(), ext)

	rep, err := svc.AnalyzeFull(context.Background(), Request{StudentID: "s", Text: plagiarized})
	require.NoError(t, err)
	assert.Equal(t, similarity.VerdictHigh, rep.Local.Verdict)
	assert.Equal(t, []string{"cell"}, rep.External.QueryKeywords)
}

func TestAnalyzeFullExternalFailureFailsCall(t *testing.T) {
	boom := errors.New("unreachable")
	svc := NewService(corpus(), stubExternal{err: boom})

	_, err := svc.AnalyzeFull(context.Background(), Request{StudentID: "s", Text: plagiarized})
	assert.ErrorIs(t, err, boom)
}
