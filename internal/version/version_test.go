package version

import (
	"runtime/debug"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func withBuild(t *testing.T, version, commit, built string, bi *debug.BuildInfo) {
	t.Helper()

	oldVersion, oldCommit, oldTime, oldRead := Version, GitCommit, BuildTime, readBuildInfo
	t.Cleanup(func() {
		Version, GitCommit, BuildTime, readBuildInfo = oldVersion, oldCommit, oldTime, oldRead
	})

	Version, GitCommit, BuildTime = version, commit, built
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, bi != nil }
}

func TestGetUsesLinkerFlags(t *testing.T) {
	withBuild(t, "v1.2.3", "abcdef1234567", "2026-03-04T05:06:07Z", &debug.BuildInfo{
		Main:     debug.Module{Version: "v9.9.9"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "ffffffffff"}},
	})

	info := Get()
	assert.Equal(t, "v1.2.3", info.Version)
	assert.Equal(t, "abcdef1234567", info.GitCommit)
	assert.Equal(t, time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC), info.BuildTime)
	assert.Equal(t, "v1.2.3", Short())
	assert.True(t, IsRelease())
}

func TestGetFallsBackToVCSStamps(t *testing.T) {
	withBuild(t, "dev", "unknown", "unknown", &debug.BuildInfo{
		Main: debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	})

	info := Get()
	assert.Equal(t, "dev", info.Version)
	assert.Equal(t, "0123456789abcdef", info.GitCommit)
	assert.True(t, info.Modified)
	assert.False(t, info.BuildTime.IsZero())
	assert.Equal(t, "dev-0123456", Short())
	assert.False(t, IsRelease())
	assert.Contains(t, info.String(), "0123456789abcdef (modified)")
}

func TestGetWithoutBuildInfo(t *testing.T) {
	withBuild(t, "dev", "unknown", "unknown", nil)

	info := Get()
	assert.Equal(t, "dev", Short())
	assert.True(t, info.BuildTime.IsZero())
	assert.NotContains(t, info.String(), "commit:")
	assert.Contains(t, info.String(), "go:")
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		in   string
		zero bool
	}{
		{"", true},
		{"unknown", true},
		{"garbage", true},
		{"2026-01-02T03:04:05Z", false},
		{"2026-01-02T03:04:05", false},
		{"2026-01-02 03:04:05", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.zero, parseTime(tt.in).IsZero())
		})
	}
}
