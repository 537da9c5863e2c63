package version //nolint:revive // package name intentionally matches build-info convention

import "strings"

//nolint:gochecknoglobals //version information is set at build time
var (
	Repository string
	Version    string
	Commit     string
	Date       string
)

const develVersion = "devel"

// String reports the build version, falling back to "devel" for local builds.
func String() string {
	if Version == "" {
		return develVersion
	}
	return Version
}

// Info renders every populated build field as space separated key=value pairs.
func Info() string {
	parts := []string{"version=" + String()}
	for _, kv := range [][2]string{
		{"repository", Repository},
		{"commit", Commit},
		{"date", Date},
	} {
		if kv[1] != "" {
			parts = append(parts, kv[0]+"="+kv[1])
		}
	}
	return strings.Join(parts, " ")
}
