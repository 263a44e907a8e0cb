package transfer

import "fmt"

// Config holds settings for the artifact transfer pipeline.
type Config struct {
	// MaxArtifactSizeBytes is the largest artifact the connector will copy
	// into the repository. Bigger artifacts are recorded as skipped. Zero or
	// negative disables the limit.
	//
	// Added in v0.1.0.
	MaxArtifactSizeBytes int64

	// OnDuplicate decides what happens when the connector is notified about
	// a run it has already processed: "skip" acknowledges the notification
	// without doing anything, "reprocess" runs the transfer again, creating
	// new objects next to the old ones.
	//
	// Added in v0.1.0.
	OnDuplicate DuplicatePolicy

	// CleanupOnFailure deletes every object created for a run when the run
	// fails as a whole, so that a half-assembled dataset never lingers in
	// the repository.
	//
	// Added in v0.1.0.
	CleanupOnFailure bool

	// QueueSize is how many notified runs may wait for a transfer slot
	// before new notifications are refused.
	//
	// Added in v0.1.0.
	QueueSize int

	// MaxConcurrentRuns is how many runs are transferred in parallel.
	// Artifacts within one run are always transferred sequentially.
	//
	// Added in v0.1.0.
	MaxConcurrentRuns int

	Dataset DatasetConfig
}

// DuplicatePolicy is a Config.OnDuplicate value.
type DuplicatePolicy string

// Valid duplicate policies.
const (
	DuplicateSkip      DuplicatePolicy = "skip"
	DuplicateReprocess DuplicatePolicy = "reprocess"
)

// Validate returns an error on an unknown policy value.
func (p DuplicatePolicy) Validate() error {
	switch p {
	case DuplicateSkip, DuplicateReprocess:
		return nil
	}
	return fmt.Errorf("invalid duplicate policy: %q", string(p))
}

// DatasetConfig holds the metadata stamped onto the dataset that groups a
// run's stored artifacts.
type DatasetConfig struct {
	// Assemble toggles dataset assembly. When false, artifacts are stored as
	// loose file objects.
	//
	// Added in v0.1.0.
	Assemble bool

	// Name is the dataset's display name.
	//
	// Added in v0.1.0.
	Name string

	// Description is the dataset's description.
	//
	// Added in v0.1.0.
	Description string

	// License is a license URL, such as an SPDX link.
	//
	// Added in v0.1.0.
	License string

	// Keywords are free-form dataset keywords.
	//
	// Added in v0.1.0.
	Keywords []string

	// Authors are recorded as Person objects and referenced from the
	// dataset. The first author is also the provenance action's agent.
	//
	// Added in v0.1.0.
	Authors []AuthorConfig

	// Instrument identifies the software that produced the artifacts,
	// recorded as a SoftwareApplication object.
	//
	// Added in v0.1.0.
	Instrument InstrumentConfig
}

// AuthorConfig is one dataset author.
type AuthorConfig struct {
	// Name is the author's display name.
	//
	// Added in v0.1.0.
	Name string

	// Identifier is a stable identifier URL for the author, such as an ORCID
	// link.
	//
	// Added in v0.1.0.
	Identifier string
}

// InstrumentConfig identifies the software that produced a run's artifacts.
type InstrumentConfig struct {
	// Name is the software's display name.
	//
	// Added in v0.1.0.
	Name string

	// Identifier is a link to the software, such as its repository URL.
	//
	// Added in v0.1.0.
	Identifier string
}
