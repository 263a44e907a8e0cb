package cordra

// Config holds settings for talking to the Cordra digital object repository.
type Config struct {
	// URL is the base URL of the Cordra repository, including scheme.
	//
	// Added in v0.1.0.
	URL string

	// Username is the repository user that created objects are attributed to.
	//
	// Added in v0.1.0.
	Username string

	// Password is the repository user's password.
	//
	// Added in v0.1.0.
	Password string

	// InsecureSkipVerify disables TLS certificate verification when talking
	// to the repository.
	//
	// Added in v0.1.0.
	InsecureSkipVerify bool
}
