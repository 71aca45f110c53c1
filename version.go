package pinprovider

import (
	_ "embed"
	"encoding/json"
	"runtime/debug"
)

var (
	// Release is the release version tag value, e.g. "v1.2.3"
	Release string
	// Revision is the git commit hash, if known.
	Revision string
	// Version is Release, suffixed with -Revision when built from a VCS checkout.
	Version string
	// Modified indicates if the source tree had local modifications.
	Modified bool
)

//go:embed version.json
var versionJSON []byte

func init() {
	Release = readRelease(versionJSON)
	Revision, Modified = readVCS()
	Version = Release
	if Revision != "" {
		Version = Release + "-" + Revision
	}
}

func readRelease(raw []byte) string {
	var v struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	return v.Version
}

func readVCS() (revision string, modified bool) {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "", false
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			modified = s.Value == "true"
		}
	}
	return revision, modified
}
