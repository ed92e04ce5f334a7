package binwrapper

import (
	"runtime"
	"strings"
)

// Source is a download location tagged with the platforms it applies to.
// An entry with OS set and Arch unset applies to every architecture of
// that OS. An entry with neither set applies everywhere. An entry with
// Arch set but OS unset never matches.
type Source struct {
	URL  string `json:"url" yaml:"url"`
	OS   string `json:"os,omitempty" yaml:"os,omitempty"`
	Arch string `json:"arch,omitempty" yaml:"arch,omitempty"`
}

var osAliases = map[string]string{
	"osx":   "darwin",
	"macos": "darwin",
}

func normalizeOS(os string) string {
	for alias, aliasedOs := range osAliases {
		if strings.EqualFold(alias, os) {
			return aliasedOs
		}
	}
	return strings.ToLower(os)
}

func eqOS(a, b string) bool {
	return strings.EqualFold(normalizeOS(a), normalizeOS(b))
}

// archClass buckets an architecture name the way source entries are
// tagged: "x64" for 64-bit x86, "arm" for arm and arm64, and "x86" for
// everything else.
func archClass(arch string) string {
	switch strings.ToLower(arch) {
	case "amd64", "x64", "x86_64":
		return "x64"
	case "arm", "arm64", "aarch64":
		return "arm"
	default:
		return "x86"
	}
}

func eqArch(a, b string) bool {
	return archClass(a) == archClass(b)
}

func currentOS() string {
	return runtime.GOOS
}

func currentArch() string {
	return archClass(runtime.GOARCH)
}

// matchSources returns the entries applying to the given os and arch,
// preserving input order. Entries are independent so multiple may match.
func matchSources(sources []Source, os, arch string) []Source {
	matched := make([]Source, 0, len(sources))
	for _, src := range sources {
		switch {
		case src.OS != "" && src.Arch != "":
			if eqOS(src.OS, os) && eqArch(src.Arch, arch) {
				matched = append(matched, src)
			}
		case src.OS != "":
			if eqOS(src.OS, os) {
				matched = append(matched, src)
			}
		case src.Arch != "":
			// arch without os is unmatchable
		default:
			matched = append(matched, src)
		}
	}
	return matched
}
