package argo

// Workflow is the subset of an Argo workflow resource that the connector
// reads. The full resource is much bigger, but only the node outputs and some
// metadata matter when exporting artifacts.
type Workflow struct {
	Metadata WorkflowMetadata `json:"metadata"`
	Status   WorkflowStatus   `json:"status"`
}

// WorkflowMetadata holds the identifying metadata of a workflow resource.
type WorkflowMetadata struct {
	Name        string            `json:"name"`
	Namespace   string            `json:"namespace"`
	Annotations map[string]string `json:"annotations"`
}

// WorkflowStatus holds the status of a workflow, with one node per executed
// step.
type WorkflowStatus struct {
	Phase string                  `json:"phase"`
	Nodes map[string]WorkflowNode `json:"nodes"`
}

// WorkflowNode is a single node in a workflow's execution graph.
type WorkflowNode struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Outputs *NodeOutputs `json:"outputs"`
}

// NodeOutputs holds the outputs of a workflow node.
type NodeOutputs struct {
	Artifacts []NodeArtifact `json:"artifacts"`
}

// NodeArtifact is one output artifact as reported by the workflow's status.
type NodeArtifact struct {
	Name       string      `json:"name"`
	Path       string      `json:"path"`
	Deleted    bool        `json:"deleted"`
	S3         *S3Artifact `json:"s3"`
	ArtifactGC *ArtifactGC `json:"artifactGC"`
}

// S3Artifact holds the S3 location of an archived artifact.
type S3Artifact struct {
	Key string `json:"key"`
}

// ArtifactGC holds the garbage collection strategy for an artifact.
type ArtifactGC struct {
	Strategy string `json:"strategy"`
}
