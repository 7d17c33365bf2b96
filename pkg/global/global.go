package global

import "time"

var (
	Version   = "0.0.1"
	BuildTime = "none"
	Verbose   = false
)

var (
	// ReleaseLookupTimeout bounds the GitHub "latest release" call.
	ReleaseLookupTimeout = 30 * time.Second

	// RegistryTimeout bounds each registry call (tag descriptor, token
	// exchange, manifest and config blob reads).
	RegistryTimeout = 45 * time.Second
)
