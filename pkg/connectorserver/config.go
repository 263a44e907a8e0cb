package connectorserver

// Config holds settings for the connector's HTTP server.
type Config struct {
	// BindAddress is the IP-address and port, separated by a colon, to
	// serve the HTTP server on.
	//
	// Added in v0.1.0.
	BindAddress string

	// RootPath prefixes every route, for deployments behind a
	// reverse-proxy that does not strip its path prefix. Empty serves at
	// the root.
	//
	// Added in v0.2.0.
	RootPath string

	// BasicAuth protects the API with HTTP basic auth when a username is
	// set. The ping endpoint stays open for liveness probes.
	//
	// Added in v0.2.0.
	BasicAuth BasicAuthConfig

	CORS CORSConfig
}

// BasicAuthConfig holds the API's basic auth credentials.
type BasicAuthConfig struct {
	// Username enables basic auth when non-empty.
	//
	// Added in v0.2.0.
	Username string

	// Password is the password matching Username.
	//
	// Added in v0.2.0.
	Password string
}

// CORSConfig holds settings for the HTTP server's CORS behavior.
type CORSConfig struct {
	// AllowAllOrigins enables CORS and allows all hostnames and ports.
	//
	// Added in v0.1.0.
	AllowAllOrigins bool

	// AllowOrigins enables CORS and allows the list of origins. This
	// setting is ignored if AllowAllOrigins is enabled.
	//
	// Added in v0.1.0.
	AllowOrigins []string
}
