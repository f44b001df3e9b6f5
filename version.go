package codelai

const (
	// Name is the application name.
	Name = "codelai"

	// Description is a short description of the application.
	Description = "Code comment translator powered by generative AI"

	// Repository is the source code repository URL.
	Repository = "https://github.com/ZaguanLabs/codelai"

	// License is the software license.
	License = "MIT"
)

// Build information, set via ldflags during release builds:
//
//	go build -ldflags "-X github.com/ZaguanLabs/codelai.Version=1.0.0"
var (
	// Version is the semantic version of the application.
	Version = "0.1.0"

	// GitCommit is the git commit hash.
	GitCommit = "unknown"

	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)

// FullVersion returns the version string with optional build info.
func FullVersion() string {
	v := Version
	if GitCommit != "unknown" && GitCommit != "" {
		short := GitCommit
		if len(short) > 7 {
			short = short[:7]
		}
		v += "+" + short
	}
	return v
}

// UserAgent returns a user agent string for HTTP requests.
func UserAgent() string {
	return Name + "/" + Version
}
