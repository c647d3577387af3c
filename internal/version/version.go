// Package version holds build metadata injected with -ldflags.
package version

// Set at build time:
//
//	go build -ldflags "-X github.com/sydlexius/plexlogos/internal/version.Version=v1.2.0 -X github.com/sydlexius/plexlogos/internal/version.Commit=$(git rev-parse --short HEAD)"
var (
	Version = "dev"
	Commit  = "unknown"
)
