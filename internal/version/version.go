// Package version reports build information for hush.
package version

import (
	"runtime"
	"runtime/debug"
	"slices"
)

// treeSitterModule is the parser binding whose version is reported
// alongside ours: query syntax support depends on it.
const treeSitterModule = "github.com/smacker/go-tree-sitter"

var version = "dev"

// Version returns the version string with the tree-sitter binding suffix.
func Version() string {
	if ts := TreeSitterVersion(); ts != "" {
		return version + " (tree-sitter " + ts + ")"
	}
	return version
}

// RawVersion returns the semantic version string without any suffix.
func RawVersion() string {
	return version
}

// TreeSitterVersion returns the linked tree-sitter binding version.
func TreeSitterVersion() string {
	return readBuildInfo().treeSitter
}

// GoVersion returns the Go toolchain version used for the build.
func GoVersion() string {
	return runtime.Version()
}

type buildInfo struct {
	treeSitter string
	commit     string
}

func readBuildInfo() buildInfo {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return buildInfo{}
	}
	var out buildInfo
	if idx := slices.IndexFunc(info.Deps, func(dep *debug.Module) bool {
		return dep.Path == treeSitterModule
	}); idx >= 0 {
		out.treeSitter = info.Deps[idx].Version
	}
	if idx := slices.IndexFunc(info.Settings, func(s debug.BuildSetting) bool {
		return s.Key == "vcs.revision"
	}); idx >= 0 {
		out.commit = info.Settings[idx].Value
		if len(out.commit) > 12 {
			out.commit = out.commit[:12]
		}
	}
	return out
}

// Info holds structured version information for machine-readable output.
type Info struct {
	Version           string   `json:"version"`
	TreeSitterVersion string   `json:"treeSitterVersion,omitempty"`
	Platform          Platform `json:"platform"`
	GoVersion         string   `json:"goVersion"`
	GitCommit         string   `json:"gitCommit,omitempty"`
}

// Platform describes the OS and architecture.
type Platform struct {
	OS   string `json:"os"`
	Arch string `json:"arch"`
}

// GetInfo returns structured version information.
func GetInfo() Info {
	bi := readBuildInfo()
	return Info{
		Version:           RawVersion(),
		TreeSitterVersion: bi.treeSitter,
		Platform:          Platform{OS: runtime.GOOS, Arch: runtime.GOARCH},
		GoVersion:         GoVersion(),
		GitCommit:         bi.commit,
	}
}
