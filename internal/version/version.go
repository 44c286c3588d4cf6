// Package version holds build metadata, overridable at link time:
//
//	go build -ldflags "-X github.com/kabutools/kabu-ledger/internal/version.Version=v1.2.0"
package version

// Version is the application version reported by the system endpoints.
var Version = "dev"
