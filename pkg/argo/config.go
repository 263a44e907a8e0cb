package argo

// Config holds settings for talking to the Argo workflows server.
type Config struct {
	// URL is the base URL of the Argo server, including scheme.
	//
	// Added in v0.1.0.
	URL string

	// Token is the bearer token used to authenticate against the Argo
	// server's REST API.
	//
	// Added in v0.1.0.
	Token string

	// Namespace is the Kubernetes namespace that workflow runs live in.
	// Used as the default when a notification does not name one.
	//
	// Added in v0.1.0.
	Namespace string

	// InsecureSkipVerify disables TLS certificate verification when talking
	// to the Argo server.
	//
	// Added in v0.1.0.
	InsecureSkipVerify bool
}
