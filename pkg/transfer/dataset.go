package transfer

import (
	"context"
	"fmt"

	"github.com/biodt/argo-cordra-connector/pkg/cordra"
)

// AssembleDataset mirrors the schema.org-flavored object graph the Cordra
// repository expects: Person authors, a SoftwareApplication instrument, a
// CreateAction tying instrument and results together, and a Dataset whose
// hasPart lists the run's file objects.
func (s *cordraSink) AssembleDataset(ctx context.Context, run RunRef, fileIDs []string) (DatasetResult, error) {
	var result DatasetResult

	var authorIDs []string
	for _, author := range s.config.Authors {
		id, err := s.objects.CreateObject(ctx, cordra.CreateObjectRequest{
			Type: "Person",
			JSON: map[string]any{
				"name":       author.Name,
				"identifier": author.Identifier,
			},
		})
		if err != nil {
			return result, fmt.Errorf("create author %q: %w", author.Name, err)
		}
		authorIDs = append(authorIDs, id)
		result.CreatedIDs = append(result.CreatedIDs, id)
	}

	instrumentID, err := s.objects.CreateObject(ctx, cordra.CreateObjectRequest{
		Type: "SoftwareApplication",
		JSON: map[string]any{
			"name":       s.config.Instrument.Name,
			"identifier": s.config.Instrument.Identifier,
		},
	})
	if err != nil {
		return result, fmt.Errorf("create instrument: %w", err)
	}
	result.CreatedIDs = append(result.CreatedIDs, instrumentID)

	action := map[string]any{
		"result":     fileIDs,
		"instrument": instrumentID,
	}
	if len(authorIDs) > 0 {
		action["agent"] = authorIDs[0]
	}
	actionID, err := s.objects.CreateObject(ctx, cordra.CreateObjectRequest{
		Type: "CreateAction",
		JSON: action,
	})
	if err != nil {
		return result, fmt.Errorf("create action: %w", err)
	}
	result.CreatedIDs = append(result.CreatedIDs, actionID)

	datasetID, err := s.objects.CreateObject(ctx, cordra.CreateObjectRequest{
		Type: "Dataset",
		JSON: map[string]any{
			"name":        s.datasetName(run),
			"description": s.config.Description,
			"keywords":    s.config.Keywords,
			"license":     s.config.License,
			"author":      authorIDs,
			"hasPart":     fileIDs,
			"mentions":    []string{actionID},
		},
	})
	if err != nil {
		return result, fmt.Errorf("create dataset: %w", err)
	}
	result.CreatedIDs = append(result.CreatedIDs, datasetID)
	result.DatasetID = datasetID

	for _, fileID := range fileIDs {
		if err := s.backreferenceFile(ctx, fileID, datasetID, actionID); err != nil {
			return result, fmt.Errorf("update file object %s: %w", fileID, err)
		}
	}
	log.Debug().
		WithStringf("run", "%s", run).
		WithString("dataset", datasetID).
		Message("Assembled dataset.")
	return result, nil
}

func (s *cordraSink) backreferenceFile(ctx context.Context, fileID, datasetID, actionID string) error {
	obj, err := s.objects.GetObject(ctx, fileID)
	if err != nil {
		return err
	}
	if obj["partOf"] == nil {
		obj["partOf"] = []string{datasetID}
	}
	obj["resultOf"] = actionID
	return s.objects.UpdateObject(ctx, fileID, obj)
}

func (s *cordraSink) datasetName(run RunRef) string {
	if s.config.Name != "" {
		return s.config.Name
	}
	return fmt.Sprintf("Workflow output for %s", run)
}
