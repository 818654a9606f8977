// Package misc holds build identity values shared by the program and its
// logging/reporting layers.
package misc

const appName = "o2q"

// Set at build time using ldflags.
var (
	LastGitCommit = "unknown"
	AppVersion    = "development"
)

// GetAppName returns short program name to be used in logs and file names.
func GetAppName() string {
	return appName
}

// GetVersion returns program version set during build.
func GetVersion() string {
	return AppVersion
}

// GetGitHash returns hash of the last git commit set during build.
func GetGitHash() string {
	return LastGitCommit
}
