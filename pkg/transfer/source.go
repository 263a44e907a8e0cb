package transfer

import (
	"context"

	"github.com/biodt/argo-cordra-connector/pkg/argo"
)

// Source lists and opens the output artifacts of a completed workflow run.
type Source interface {
	// OpenArtifacts returns an iterator over the run's artifact files.
	// Returns argo.ErrWorkflowNotFound or argo.ErrArgoUnavailable without
	// touching any artifact when the run cannot be resolved.
	OpenArtifacts(ctx context.Context, namespace, name string) (ArtifactIter, error)
}

// ArtifactIter yields artifact files one at a time, in a single pass. Next
// returns io.EOF once the run's artifacts are exhausted.
type ArtifactIter interface {
	Next(ctx context.Context) (*argo.Artifact, error)
	Close() error
}

// NewArgoSource wraps an Argo client as a Source.
func NewArgoSource(client *argo.Client) Source {
	return argoSource{client}
}

type argoSource struct {
	client *argo.Client
}

func (s argoSource) OpenArtifacts(ctx context.Context, namespace, name string) (ArtifactIter, error) {
	reader, err := s.client.OpenArtifacts(ctx, namespace, name)
	if err != nil {
		return nil, err
	}
	return reader, nil
}
