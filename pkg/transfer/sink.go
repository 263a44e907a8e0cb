package transfer

import (
	"context"
	"path"

	"github.com/biodt/argo-cordra-connector/pkg/argo"
	"github.com/biodt/argo-cordra-connector/pkg/cordra"
)

// Sink writes artifacts and their grouping metadata into the object
// repository.
type Sink interface {
	// StoreArtifact writes one artifact as a new digital object and returns
	// its repository-assigned identifier.
	StoreArtifact(ctx context.Context, run RunRef, artifact *argo.Artifact) (string, error)

	// AssembleDataset creates the dataset and provenance objects that group
	// a run's stored file objects, and wires up their back-references.
	// The returned result lists every object it created, even when it
	// returns an error, so that a failed assembly can be cleaned up.
	AssembleDataset(ctx context.Context, run RunRef, fileIDs []string) (DatasetResult, error)

	// DeleteObjects removes previously created objects, logging rather than
	// returning per-object failures. Used for cleanup after a failed run.
	DeleteObjects(ctx context.Context, ids []string)
}

// DatasetResult is the outcome of dataset assembly.
type DatasetResult struct {
	// DatasetID is the dataset object's identifier.
	DatasetID string
	// CreatedIDs lists every object created during assembly, the dataset
	// included.
	CreatedIDs []string
}

// objectAPI is the slice of the Cordra client that the sink needs.
type objectAPI interface {
	CreateObject(ctx context.Context, req cordra.CreateObjectRequest) (string, error)
	GetObject(ctx context.Context, id string) (map[string]any, error)
	UpdateObject(ctx context.Context, id string, content any) error
	DeleteObject(ctx context.Context, id string) error
}

// NewCordraSink returns a Sink that stores artifacts as FileObject digital
// objects in a Cordra repository, with dataset metadata from the given
// config.
func NewCordraSink(client *cordra.Client, config DatasetConfig) Sink {
	return &cordraSink{objects: client, config: config}
}

type cordraSink struct {
	objects objectAPI
	config  DatasetConfig
}

func (s *cordraSink) StoreArtifact(ctx context.Context, run RunRef, artifact *argo.Artifact) (string, error) {
	content := map[string]any{
		"name":       path.Base(artifact.Path),
		"contentUrl": artifact.Path,
	}
	if artifact.Size.Valid {
		content["contentSize"] = artifact.Size.Int64
	}
	// The transport's content type stands in for sniffing the bytes; Argo
	// reports application/octet-stream for archived artifacts, which is an
	// honest answer for those.
	if artifact.ContentType != "" {
		content["encodingFormat"] = artifact.ContentType
	}
	return s.objects.CreateObject(ctx, cordra.CreateObjectRequest{
		Type:        "FileObject",
		JSON:        content,
		PayloadName: artifact.Path,
		Payload:     artifact.Body,
	})
}

func (s *cordraSink) DeleteObjects(ctx context.Context, ids []string) {
	for _, id := range ids {
		if err := s.objects.DeleteObject(ctx, id); err != nil {
			log.Warn().
				WithError(err).
				WithString("id", id).
				Message("Failed deleting object during cleanup.")
		}
	}
}
