// Package misc keeps build time information about the program.
package misc

// set by the linker: -X fxmig/misc.version=... -X fxmig/misc.gitHash=...
var (
	version = "dev"
	gitHash = "unknown"
)

const appName = "fxmig"

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return gitHash
}
