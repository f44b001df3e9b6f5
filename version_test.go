package codelai

import "testing"

func TestFullVersion(t *testing.T) {
	origVersion, origCommit := Version, GitCommit
	defer func() { Version, GitCommit = origVersion, origCommit }()

	Version = "1.2.3"
	GitCommit = "unknown"
	if got := FullVersion(); got != "1.2.3" {
		t.Errorf("FullVersion() = %q, want %q", got, "1.2.3")
	}

	GitCommit = "0123456789abcdef"
	if got := FullVersion(); got != "1.2.3+0123456" {
		t.Errorf("FullVersion() = %q, want %q", got, "1.2.3+0123456")
	}
}

func TestUserAgent(t *testing.T) {
	if got := UserAgent(); got != "codelai/"+Version {
		t.Errorf("UserAgent() = %q", got)
	}
}
