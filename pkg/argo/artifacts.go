package argo

import (
	"path"
	"sort"
	"strings"
)

// ArtifactRef points at one output artifact of a workflow node, before its
// content has been fetched.
type ArtifactRef struct {
	// NodeID is the ID of the workflow node that produced the artifact.
	NodeID string
	// Name is the artifact's logical name as declared in the workflow.
	Name string
	// Path is the artifact's file path, relative to the node.
	Path string
}

// ListArtifacts returns the output artifacts of a workflow that are worth
// exporting.
//
// Artifacts whose S3 key lies outside this workflow are skipped, as those are
// caching data shared between runs. Artifacts that are deleted, or that have
// a garbage collection strategy other than "Never", are skipped too, as those
// only exist for communication between steps and may be gone by the time the
// run completes.
//
// The "main-logs" artifact is the node's captured log output and has no file
// path of its own, so it is given the name "main.log".
func ListArtifacts(wf *Workflow) []ArtifactRef {
	var refs []ArtifactRef
	for nodeID, node := range wf.Status.Nodes {
		if node.Outputs == nil {
			continue
		}
		for _, artifact := range node.Outputs.Artifacts {
			if artifact.S3 != nil && !strings.Contains(artifact.S3.Key, wf.Metadata.Name) {
				continue
			}
			if artifact.Deleted {
				continue
			}
			if artifact.ArtifactGC != nil && artifact.ArtifactGC.Strategy != "Never" {
				continue
			}
			refs = append(refs, ArtifactRef{
				NodeID: nodeID,
				Name:   artifact.Name,
				Path:   artifactFilePath(artifact),
			})
		}
	}
	// Map iteration order is random; keep the listing stable across calls.
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].NodeID != refs[j].NodeID {
			return refs[i].NodeID < refs[j].NodeID
		}
		return refs[i].Name < refs[j].Name
	})
	return refs
}

func artifactFilePath(artifact NodeArtifact) string {
	if artifact.Name == "main-logs" {
		return "main.log"
	}
	return strings.TrimPrefix(artifact.Path, "/")
}

// RelativePath returns the artifact's file path prefixed with its node ID, so
// that artifacts from different nodes cannot collide.
func (ref ArtifactRef) RelativePath() string {
	return path.Join(ref.NodeID, ref.Path)
}
