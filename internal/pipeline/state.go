package pipeline

import (
	"github.com/google/uuid"

	"github.com/JaimeStill/footprint/internal/results"
)

// State is the work item threaded through the pipeline nodes.
// Values are never mutated in place: every With method returns a copy.
// Each output field is written at most once and Error, once set, is never cleared.
type State struct {
	DocumentID  uuid.UUID            `json:"document_id"`
	RawInput    []byte               `json:"-"`
	Extraction  *results.Extraction  `json:"extraction,omitempty"`
	Calculation *results.Calculation `json:"calculation,omitempty"`
	Audit       *results.Audit       `json:"audit,omitempty"`
	Error       string               `json:"error,omitempty"`
	FailedStage string               `json:"failed_stage,omitempty"`
}

// NewState returns the initial state for a run against documentID.
func NewState(documentID uuid.UUID) State {
	return State{DocumentID: documentID}
}

// Failed reports whether a node has recorded an error.
func (s State) Failed() bool {
	return s.Error != ""
}

// Completed reports whether the run produced an audit without error.
func (s State) Completed() bool {
	return s.Audit != nil && s.Error == ""
}

// WithRawInput returns a copy of s carrying the document bytes.
func (s State) WithRawInput(data []byte) (State, error) {
	if s.RawInput != nil {
		return s, fieldSet("raw_input")
	}
	if data == nil {
		data = []byte{}
	}
	s.RawInput = data
	return s, nil
}

// WithExtraction returns a copy of s carrying the extraction output.
func (s State) WithExtraction(e results.Extraction) (State, error) {
	if s.Extraction != nil {
		return s, fieldSet("extraction")
	}
	s.Extraction = &e
	return s, nil
}

// WithCalculation returns a copy of s carrying the calculation output.
func (s State) WithCalculation(c results.Calculation) (State, error) {
	if s.Calculation != nil {
		return s, fieldSet("calculation")
	}
	s.Calculation = &c
	return s, nil
}

// WithAudit returns a copy of s carrying the audit output.
func (s State) WithAudit(a results.Audit) (State, error) {
	if s.Audit != nil {
		return s, fieldSet("audit")
	}
	s.Audit = &a
	return s, nil
}

// WithError returns a copy of s recording err against the named stage.
// The first recorded error wins; later calls return s unchanged.
func (s State) WithError(stage string, err error) State {
	if s.Error != "" || err == nil {
		return s
	}
	s.Error = err.Error()
	s.FailedStage = stage
	return s
}
