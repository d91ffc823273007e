package config

import (
	"errors"
	"fmt"
	"strings"
)

// Platform environment variables set by the hosting runtime.
const (
	EnvServerSoftware = "SERVER_SOFTWARE"
	EnvVersionID      = "CURRENT_VERSION_ID"

	// DevServerPrefix marks the local development server in SERVER_SOFTWARE,
	// e.g. "Development/2.0".
	DevServerPrefix = "Development"

	DevJSSuffix  = ".js"
	ProdJSSuffix = ".min.js?"
)

// ErrMissingEnv is returned when a required platform variable is not set.
var ErrMissingEnv = errors.New("missing environment variable")

// Runtime is the process-wide view of the hosting platform.
// It is computed once at startup and must not be modified afterwards.
type Runtime struct {
	ServerSoftware string
	VersionID      string // empty in development mode when unset
	IsDev          bool
	JSSuffix       string
}

// IsDevServer reports whether serverSoftware names the development server.
func IsDevServer(serverSoftware string) bool {
	return strings.HasPrefix(serverSoftware, DevServerPrefix)
}

// VersionSuffix returns the major part of a dotted version id ("7.4.1" -> "7").
// A version without a dot is returned unchanged.
func VersionSuffix(versionID string) string {
	major, _, _ := strings.Cut(versionID, ".")
	return major
}

// JSSuffix returns the script suffix for the home page.
// Production builds point at the minified script with a cache-busting query.
func JSSuffix(isDev bool, versionID string) string {
	if isDev {
		return DevJSSuffix
	}
	return ProdJSSuffix + VersionSuffix(versionID)
}

// LoadRuntime reads the platform variables through getenv.
// CURRENT_VERSION_ID is only required outside development mode.
func LoadRuntime(getenv func(string) string) (*Runtime, error) {
	software := getenv(EnvServerSoftware)
	if software == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingEnv, EnvServerSoftware)
	}
	rt := &Runtime{
		ServerSoftware: software,
		IsDev:          IsDevServer(software),
	}
	version := getenv(EnvVersionID)
	if version == "" && !rt.IsDev {
		return nil, fmt.Errorf("%w: %s", ErrMissingEnv, EnvVersionID)
	}
	rt.VersionID = version
	rt.JSSuffix = JSSuffix(rt.IsDev, version)
	return rt, nil
}
