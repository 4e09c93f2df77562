package strategy

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rxtract/internal/domain"
	"rxtract/internal/port"
)

type stubGenerator struct {
	responses []string
	errs      []error
	calls     int
	lastInput port.ChatInput
}

func (s *stubGenerator) Generate(_ context.Context, input port.ChatInput) (string, error) {
	s.lastInput = input
	i := s.calls
	s.calls++
	var err error
	if i < len(s.errs) {
		err = s.errs[i]
	}
	var resp string
	if i < len(s.responses) {
		resp = s.responses[i]
	}
	return resp, err
}

func newTestModel(gen *stubGenerator, rec port.EntityRecognizer) *Model {
	if rec == nil {
		rec = &stubRecognizer{}
	}
	return NewModel(gen, rec, newTestCorrector(), ModelConfig{RetryDelay: time.Millisecond})
}

func TestModelExtract(t *testing.T) {
	gen := &stubGenerator{responses: []string{
		`{"medications":[
			{"name":"Parasetamol","dosage":"500 mg","frequency":"twice daily","route":"oral"},
			{"name":"Amoxicillin","dosage":"250 mg","instructions":"take PO AC"}
		]}`,
	}}
	m := newTestModel(gen, nil)

	candidates, err := m.Extract(context.Background(), "prescription text")
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	assert.Equal(t, "Paracetamol", candidates[0].Name)
	assert.Equal(t, "500 mg", candidates[0].Dosage)
	assert.Equal(t, "twice daily", candidates[0].Frequency)
	assert.Equal(t, "oral", candidates[0].Route)
	assert.Equal(t, domain.StrategyModel, candidates[0].Source)
	assert.Equal(t, -1, candidates[0].Position)

	// Shorthand in instructions gets annotated.
	assert.Equal(t, "take PO (by mouth) AC (before meals)", candidates[1].Instructions)

	assert.True(t, gen.lastInput.JSONMode)
	assert.Equal(t, 0.2, gen.lastInput.Temperature)
}

func TestModelHighlightsRecognizedSpans(t *testing.T) {
	gen := &stubGenerator{responses: []string{`{"medications":[]}`}}
	rec := &stubRecognizer{entities: []port.Entity{
		{Text: "Aspirin", Label: port.LabelChemical, Start: 5},
	}}
	m := newTestModel(gen, rec)

	_, err := m.Extract(context.Background(), "take Aspirin daily")
	require.NoError(t, err)
	assert.Contains(t, gen.lastInput.User, "POTENTIAL_MEDICATION: Aspirin")
}

func TestModelRetriesThenSucceeds(t *testing.T) {
	gen := &stubGenerator{
		errs:      []error{errors.New("transient"), nil},
		responses: []string{"", `{"medications":[{"name":"Metformin","dosage":"850 mg"}]}`},
	}
	m := newTestModel(gen, nil)

	candidates, err := m.Extract(context.Background(), "text")
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Metformin", candidates[0].Name)
	assert.Equal(t, 2, gen.calls)
}

func TestModelDegradesToEmptyOnFailure(t *testing.T) {
	gen := &stubGenerator{errs: []error{errors.New("down"), errors.New("down")}}
	m := newTestModel(gen, nil)

	candidates, err := m.Extract(context.Background(), "text")
	require.NoError(t, err)
	assert.Empty(t, candidates)
	assert.Equal(t, 2, gen.calls)
}

func TestModelDegradesToEmptyOnBadJSON(t *testing.T) {
	gen := &stubGenerator{responses: []string{"sorry, I cannot help with that"}}
	m := newTestModel(gen, nil)

	candidates, err := m.Extract(context.Background(), "text")
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestModelStripsCodeFence(t *testing.T) {
	gen := &stubGenerator{responses: []string{
		"```json\n{\"medications\":[{\"name\":\"Aspirin\"}]}\n```",
	}}
	m := newTestModel(gen, nil)

	candidates, err := m.Extract(context.Background(), "text")
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Aspirin", candidates[0].Name)
}

func TestModelSkipsNamelessEntries(t *testing.T) {
	gen := &stubGenerator{responses: []string{
		`{"medications":[{"dosage":"10 mg"},{"name":"Aspirin"}]}`,
	}}
	m := newTestModel(gen, nil)

	candidates, err := m.Extract(context.Background(), "text")
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Aspirin", candidates[0].Name)
}
