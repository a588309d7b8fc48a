package prompts

import (
	"encoding/json"
	"slices"
)

// Stage names the pipeline step a prompt override replaces.
type Stage string

const (
	StageExtract   Stage = "extract"
	StageCalculate Stage = "calculate"
	StageAudit     Stage = "audit"
)

// Stages lists every stage in pipeline order.
func Stages() []Stage {
	return []Stage{StageExtract, StageCalculate, StageAudit}
}

// ParseStage returns ErrInvalidStage for anything outside Stages.
func ParseStage(s string) (Stage, error) {
	if st := Stage(s); slices.Contains(Stages(), st) {
		return st, nil
	}
	return "", ErrInvalidStage
}

func (s *Stage) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	st, err := ParseStage(raw)
	if err == nil {
		*s = st
	}
	return err
}
