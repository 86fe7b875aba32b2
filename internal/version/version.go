package version

import (
	"fmt"
	"runtime/debug"
	"time"
)

// These variables can be set at build time via ldflags:
//
//	go build -ldflags="-X github.com/muurk/devinv/internal/version.Version=v0.3.0 \
//	                   -X github.com/muurk/devinv/internal/version.Commit=abc123"
//
// Otherwise they are filled from VCS build info, falling back to "dev".
var (
	// Version is the semantic version of the application
	Version = ""
	// Commit is the git commit hash
	Commit = ""
)

func init() {
	if Version == "" || Commit == "" {
		revision, modified, stamp := readVCS()
		if Commit == "" && revision != "" {
			Commit = shortRevision(revision, modified)
		}
		if Version == "" && !stamp.IsZero() {
			Version = "dev-" + stamp.Format("20060102")
		}
	}

	if Version == "" {
		Version = "dev"
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

// readVCS extracts the revision, dirty flag and commit time from build info.
func readVCS() (revision string, modified bool, stamp time.Time) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", false, time.Time{}
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			modified = setting.Value == "true"
		case "vcs.time":
			if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
				stamp = t
			}
		}
	}
	return revision, modified, stamp
}

func shortRevision(revision string, modified bool) string {
	if len(revision) > 7 {
		revision = revision[:7]
	}
	if modified {
		revision += "-dirty"
	}
	return revision
}

// Full returns the full version string including commit
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}

// UserAgent is sent with every API request.
func UserAgent() string {
	return "devinv/" + Version
}
