// Package misc keeps build time program identification.
package misc

// Set with -ldflags "-X tmplpatch/misc.version=... -X tmplpatch/misc.gitHash=..."
var (
	appName = "tmplpatch"
	version = "dev"
	gitHash = "unknown"
)

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return gitHash
}
