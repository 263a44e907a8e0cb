// Package transfer copies the output artifacts of one completed workflow run
// from the workflow engine into the object repository, producing a summary
// with exactly one outcome per artifact file.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/biodt/argo-cordra-connector/pkg/argo"
	"github.com/iver-wharf/wharf-core/v2/pkg/logger"
)

var log = logger.NewScoped("TRANSFER")

// Orchestrator runs artifact transfers, one run at a time per call. It is
// safe to call Run from multiple goroutines; runs share no state.
type Orchestrator struct {
	source Source
	sink   Sink
	config Config
}

// NewOrchestrator creates an orchestrator moving artifacts from the given
// source into the given sink.
func NewOrchestrator(source Source, sink Sink, config Config) *Orchestrator {
	return &Orchestrator{
		source: source,
		sink:   sink,
		config: config,
	}
}

// Run transfers all artifacts of one workflow run, synchronously.
//
// Artifacts are processed sequentially, in listing order, so that at most one
// artifact's bytes are in flight at a time. A failed sink write is recorded
// and the next artifact is attempted; one bad artifact never aborts the
// batch. Only a source failure, or a failed dataset assembly afterwards,
// fails the run as a whole, and then the returned summary still carries
// whatever outcomes were recorded before the failure.
func (o *Orchestrator) Run(ctx context.Context, run RunRef) (RunSummary, error) {
	log.Info().
		WithStringf("run", "%s", run).
		Message("Starting artifact transfer.")
	summary := RunSummary{
		Run:       run,
		State:     StateInProgress,
		StartedAt: time.Now(),
	}

	iter, err := o.source.OpenArtifacts(ctx, run.Namespace, run.Name)
	if err != nil {
		return o.fail(ctx, summary, nil, fmt.Errorf("run %s: %w", run, err))
	}
	defer iter.Close()

	var storedIDs []string
	for {
		artifact, err := iter.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return o.fail(ctx, summary, storedIDs, fmt.Errorf("run %s: read artifact listing: %w", run, err))
		}
		outcome := o.transferArtifact(ctx, run, artifact)
		if outcome.Kind == OutcomeStored {
			storedIDs = append(storedIDs, outcome.ObjectID)
		}
		summary.add(outcome)
	}

	if o.config.Dataset.Assemble && len(storedIDs) > 0 {
		result, err := o.sink.AssembleDataset(ctx, run, storedIDs)
		if err != nil {
			createdIDs := append(result.CreatedIDs, storedIDs...)
			return o.fail(ctx, summary, createdIDs, fmt.Errorf("run %s: assemble dataset: %w", run, err))
		}
		summary.DatasetID = result.DatasetID
	}

	summary.State = StateCompleted
	summary.FinishedAt = time.Now()
	log.Info().
		WithStringf("run", "%s", run).
		WithStringf("outcomes", "stored=%d skipped=%d failed=%d",
			summary.Stored, summary.Skipped, summary.Failed).
		Message("Artifact transfer completed.")
	return summary, nil
}

// transferArtifact moves one artifact and always yields exactly one outcome.
func (o *Orchestrator) transferArtifact(ctx context.Context, run RunRef, artifact *argo.Artifact) Outcome {
	defer artifact.Body.Close()

	maxSize := o.config.MaxArtifactSizeBytes
	if artifact.Size.Valid && !allowSize(artifact.Size.Int64, maxSize) {
		log.Info().
			WithString("path", artifact.Path).
			WithStringf("size", "%d", artifact.Size.Int64).
			Message("Skipping artifact: size exceeds configured maximum.")
		return Outcome{
			Path: artifact.Path,
			Kind: OutcomeSkipped,
			Reason: fmt.Sprintf("size %d exceeds configured maximum of %d bytes",
				artifact.Size.Int64, maxSize),
		}
	}

	var capped *maxSizeReader
	if !artifact.Size.Valid {
		capped = newMaxSizeReader(artifact.Body, maxSize)
		artifact.Body = capped
	}

	objectID, err := o.sink.StoreArtifact(ctx, run, artifact)
	if capped != nil && capped.Exceeded() {
		if err == nil && objectID != "" {
			// The sink accepted the truncated stream anyway. Do not leave
			// a partial object behind.
			o.sink.DeleteObjects(ctx, []string{objectID})
		}
		log.Info().
			WithString("path", artifact.Path).
			Message("Skipping artifact: stream exceeded configured maximum mid-transfer.")
		return Outcome{
			Path: artifact.Path,
			Kind: OutcomeSkipped,
			Reason: fmt.Sprintf("stream exceeded configured maximum of %d bytes",
				o.config.MaxArtifactSizeBytes),
		}
	}
	if err != nil {
		log.Warn().
			WithError(err).
			WithString("path", artifact.Path).
			Message("Failed storing artifact. Continuing with remaining artifacts.")
		return Outcome{
			Path:   artifact.Path,
			Kind:   OutcomeFailed,
			Reason: err.Error(),
		}
	}
	return Outcome{
		Path:     artifact.Path,
		Kind:     OutcomeStored,
		ObjectID: objectID,
	}
}

func (o *Orchestrator) fail(ctx context.Context, summary RunSummary, createdIDs []string, err error) (RunSummary, error) {
	summary.State = StateFailed
	summary.FinishedAt = time.Now()
	log.Error().
		WithError(err).
		WithStringf("run", "%s", summary.Run).
		Message("Artifact transfer failed.")
	if o.config.CleanupOnFailure && len(createdIDs) > 0 {
		log.Info().
			WithStringf("run", "%s", summary.Run).
			WithStringf("objects", "%d", len(createdIDs)).
			Message("Cleaning up objects created for the failed run.")
		o.sink.DeleteObjects(ctx, createdIDs)
	}
	return summary, err
}
