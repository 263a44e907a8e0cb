package transfer

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// RunRef identifies one workflow run by namespace and name.
type RunRef struct {
	Namespace string `json:"namespace"`
	Name      string `json:"name"`
}

// String implements fmt.Stringer.
func (ref RunRef) String() string {
	return ref.Namespace + "/" + ref.Name
}

// State is the lifecycle state of one run's transfer.
type State byte

// Transfer states. A run only reaches StateFailed when no artifact list could
// be obtained or when dataset assembly broke; individual artifact failures
// leave the run in StateCompleted.
const (
	StatePending State = iota
	StateInProgress
	StateCompleted
	StateFailed
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StatePending:
		return "Pending"
	case StateInProgress:
		return "InProgress"
	case StateCompleted:
		return "Completed"
	case StateFailed:
		return "Failed"
	default:
		return fmt.Sprintf("State(%d)", byte(s))
	}
}

// ParseState converts a state's string form back to the State value.
// Unknown strings map to StatePending.
func ParseState(s string) State {
	switch strings.ToLower(s) {
	case "inprogress":
		return StateInProgress
	case "completed":
		return StateCompleted
	case "failed":
		return StateFailed
	default:
		return StatePending
	}
}

// MarshalJSON implements json.Marshaler.
func (s State) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *State) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*s = ParseState(str)
	return nil
}

// OutcomeKind is the kind of a per-artifact transfer outcome.
type OutcomeKind byte

// Outcome kinds. Exactly one applies to each artifact.
const (
	OutcomeStored OutcomeKind = iota
	OutcomeSkipped
	OutcomeFailed
)

// String implements fmt.Stringer.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeStored:
		return "Stored"
	case OutcomeSkipped:
		return "Skipped"
	case OutcomeFailed:
		return "Failed"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", byte(k))
	}
}

// MarshalJSON implements json.Marshaler.
func (k OutcomeKind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (k *OutcomeKind) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch strings.ToLower(str) {
	case "skipped":
		*k = OutcomeSkipped
	case "failed":
		*k = OutcomeFailed
	default:
		*k = OutcomeStored
	}
	return nil
}

// Outcome is the result of transferring one artifact file.
type Outcome struct {
	// Path is the artifact file's path, relative to the run.
	Path string `json:"path"`
	// Kind tells whether the artifact was stored, skipped, or failed.
	Kind OutcomeKind `json:"kind"`
	// ObjectID is the stored object's repository identifier. Only set on
	// OutcomeStored.
	ObjectID string `json:"objectId,omitempty"`
	// Reason is a human-readable explanation. Set on OutcomeSkipped and
	// OutcomeFailed.
	Reason string `json:"reason,omitempty"`
}

// RunSummary aggregates the outcome of transferring all artifacts of one run.
// Immutable once the orchestration has completed.
type RunSummary struct {
	Run      RunRef    `json:"run"`
	State    State     `json:"state"`
	Outcomes []Outcome `json:"outcomes"`

	Stored  int `json:"stored"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`

	// DatasetID is the identifier of the dataset object grouping this run's
	// stored artifacts, when dataset assembly is enabled.
	DatasetID string `json:"datasetId,omitempty"`

	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

func (s *RunSummary) add(outcome Outcome) {
	s.Outcomes = append(s.Outcomes, outcome)
	switch outcome.Kind {
	case OutcomeStored:
		s.Stored++
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeFailed:
		s.Failed++
	}
}
