// Package version holds the application version string.
package version

// Version is the application version, overridable at build time via
// -ldflags "-X listenlab/pkg/version.Version=...".
var Version = "0.1.0"
