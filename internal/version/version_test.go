package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestVersion(t *testing.T) {
	if RawVersion() != "dev" {
		t.Errorf("RawVersion() = %q, want dev", RawVersion())
	}
	if !strings.HasPrefix(Version(), RawVersion()) {
		t.Errorf("Version() = %q, want prefix %q", Version(), RawVersion())
	}
}

func TestGetInfo(t *testing.T) {
	info := GetInfo()
	if info.Platform.OS != runtime.GOOS || info.Platform.Arch != runtime.GOARCH {
		t.Errorf("Platform = %+v", info.Platform)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q", info.GoVersion)
	}
	if len(info.GitCommit) > 12 {
		t.Errorf("GitCommit should be abbreviated, got %q", info.GitCommit)
	}
}
