// Package buildinfo reports which rangedeck build is running. The CLI prints
// it for --version and the HTTP API returns it from /api/health.
//
// Release builds stamp the variables with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/rangedeck/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/rangedeck/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/rangedeck/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/rangedeck
package buildinfo

import "fmt"

// Name is the program name shown in version output.
const Name = "rangedeck"

// Stamped at link time; the defaults mark a local build.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the build description served by the API.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Get returns the running build.
func Get() Info { return Info{Version: Version, Commit: Commit, Date: Date} }

// String returns a one-line summary such as
// "rangedeck v0.3.0 (commit 1a2b3c4, built 2026-10-01T12:00:00Z)".
func (i Info) String() string {
	return fmt.Sprintf("%s %s (commit %s, built %s)", Name, i.Version, i.Commit, i.Date)
}

// String describes the running build.
func String() string { return Get().String() }

// Template returns the --version template for cobra. The summary is emitted
// as a quoted constant so build values containing braces print verbatim.
func Template() string {
	return fmt.Sprintf("{{%q}}\n", String())
}
