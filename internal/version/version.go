// Package version reports the build identity of the ogglass binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

// Set at build time with -ldflags "-X github.com/ncsound919/OG-Glass/internal/version.Version=..."
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// Info describes the running build.
type Info struct {
	Version   string    `json:"version" yaml:"version"`
	GitCommit string    `json:"gitCommit" yaml:"git_commit"`
	BuildTime time.Time `json:"buildTime,omitempty" yaml:"build_time,omitempty"`
	GoVersion string    `json:"goVersion" yaml:"go_version"`
	Platform  string    `json:"platform" yaml:"platform"`
	Modified  bool      `json:"modified,omitempty" yaml:"modified,omitempty"`
}

// readBuildInfo is swapped in tests.
var readBuildInfo = debug.ReadBuildInfo

// Get collects build information from the linker flags, falling back to the
// VCS stamps the Go toolchain embeds.
func Get() Info {
	info := Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: parseTime(BuildTime),
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	bi, ok := readBuildInfo()
	if !ok {
		return info
	}

	if info.Version == "" || info.Version == "dev" {
		if v := bi.Main.Version; v != "" && v != "(devel)" {
			info.Version = v
		}
	}
	for _, setting := range bi.Settings {
		switch setting.Key {
		case "vcs.revision":
			if info.GitCommit == "" || info.GitCommit == "unknown" {
				info.GitCommit = setting.Value
			}
		case "vcs.time":
			if info.BuildTime.IsZero() {
				info.BuildTime = parseTime(setting.Value)
			}
		case "vcs.modified":
			info.Modified = setting.Value == "true"
		}
	}

	return info
}

// Short is the one-token form reported by /health and the MCP handshake.
func Short() string {
	info := Get()
	if info.Version != "dev" {
		return info.Version
	}
	if len(info.GitCommit) >= 7 && info.GitCommit != "unknown" {
		return "dev-" + info.GitCommit[:7]
	}
	return "dev"
}

// String renders the multi-line form printed by `ogglass version`.
func (i Info) String() string {
	lines := []string{"ogglass " + i.Version}

	if i.GitCommit != "unknown" && i.GitCommit != "" {
		commit := i.GitCommit
		if i.Modified {
			commit += " (modified)"
		}
		lines = append(lines, "commit:   "+commit)
	}
	if !i.BuildTime.IsZero() {
		lines = append(lines, "built:    "+i.BuildTime.UTC().Format(time.RFC3339))
	}
	lines = append(lines, fmt.Sprintf("go:       %s %s", i.GoVersion, i.Platform))

	return strings.Join(lines, "\n")
}

// IsRelease reports whether the binary carries a real version.
func IsRelease() bool {
	v := Short()
	return v != "dev" && !strings.HasPrefix(v, "dev-")
}

func parseTime(value string) time.Time {
	if value == "" || value == "unknown" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
