// Package ghrelease builds binwrapper source lists from the assets of a
// GitHub release.
package ghrelease

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/google/go-github/v52/github"
	binwrapper "github.com/s12chung/bin-wrapper"
	"golang.org/x/exp/maps"
	"golang.org/x/oauth2"
)

// Asset is a release asset with the platform classification sniffed from
// its filename. OS and Arch are empty when unrecognized.
type Asset struct {
	Name string
	URL  string
	OS   string
	Arch string
}

// Selector picks one asset when several classify to the same platform.
type Selector func(candidates []Asset) (Asset, error)

// Query returns the classified assets of a release along with the
// release's version. When tag is empty the latest release is used.
func Query(ctx context.Context, repo, tag, token string) ([]Asset, string, error) {
	httpClient := oauth2.NewClient(ctx, nil)
	if token != "" {
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		))
	}
	client := github.NewClient(httpClient)
	splitRepo := strings.SplitN(repo, "/", 2)
	if len(splitRepo) != 2 {
		return nil, "", fmt.Errorf("repo must be in the form owner/repo, got %q", repo)
	}
	orgName, repoName := splitRepo[0], splitRepo[1]
	var release *github.RepositoryRelease
	var err error
	if tag == "" {
		release, _, err = client.Repositories.GetLatestRelease(ctx, orgName, repoName)
		if err != nil {
			return nil, "", err
		}
		tag = release.GetTagName()
	} else {
		release, _, err = client.Repositories.GetReleaseByTag(ctx, orgName, repoName, tag)
		if err != nil {
			return nil, "", err
		}
	}
	version := tag
	if strings.HasPrefix(version, "v") {
		_, err = semver.NewVersion(version[1:])
		if err == nil {
			version = version[1:]
		}
	}
	assets := make([]Asset, 0, len(release.Assets))
	for _, asset := range release.Assets {
		assets = append(assets, Classify(asset.GetName(), asset.GetBrowserDownloadURL()))
	}
	return assets, version, nil
}

var osSubs = map[string]string{
	"darwin":  "darwin",
	"macos":   "darwin",
	"osx":     "darwin",
	"apple":   "darwin",
	"linux":   "linux",
	"windows": "windows",
	"win":     "windows",
	"win32":   "windows",
	"win64":   "windows",
	"freebsd": "freebsd",
	"openbsd": "openbsd",
	"netbsd":  "netbsd",
}

var archSubs = map[string]string{
	"amd64":   "x64",
	"x86_64":  "x64",
	"x64":     "x64",
	"64bit":   "x64",
	"arm":     "arm",
	"arm64":   "arm",
	"aarch64": "arm",
	"armv6":   "arm",
	"armv7":   "arm",
	"386":     "x86",
	"i386":    "x86",
	"x86":     "x86",
	"32bit":   "x86",
}

// suffixes that are never the binary itself
var skippedSuffixes = []string{
	".sha256", ".sha512", ".sbom", ".sig", ".asc", ".pem",
	".txt", ".md", ".json", ".deb", ".rpm", ".apk", ".msi",
}

// Classify sniffs os and arch tokens from an asset filename.
func Classify(name, assetURL string) Asset {
	asset := Asset{Name: name, URL: assetURL}
	lower := strings.ToLower(name)
	// x86_64 and x86-64 would otherwise split into x86 plus 64
	lower = strings.ReplaceAll(lower, "x86_64", "amd64")
	lower = strings.ReplaceAll(lower, "x86-64", "amd64")
	tokens := strings.FieldsFunc(lower, func(r rune) bool {
		return r == '-' || r == '_' || r == '.' || r == ' '
	})
	for _, token := range tokens {
		if asset.OS == "" {
			if osName, ok := osSubs[token]; ok {
				asset.OS = osName
			}
		}
		if asset.Arch == "" {
			if arch, ok := archSubs[token]; ok {
				asset.Arch = arch
			}
		}
	}
	// win64/win32 style tokens carry both
	if asset.OS == "windows" && asset.Arch == "" {
		if strings.Contains(lower, "win64") {
			asset.Arch = "x64"
		}
		if strings.Contains(lower, "win32") {
			asset.Arch = "x86"
		}
	}
	return asset
}

// Sources converts classified assets into ordered source entries, one
// per (os, arch) platform. Assets with no recognizable os and assets
// with checksum or package-manager suffixes are skipped. When several
// assets classify to the same platform, selector picks the winner; a nil
// selector takes the first.
func Sources(assets []Asset, selector Selector) ([]binwrapper.Source, error) {
	if selector == nil {
		selector = func(candidates []Asset) (Asset, error) {
			return candidates[0], nil
		}
	}
	grouped := map[string][]Asset{}
	for _, asset := range assets {
		if asset.OS == "" || skipAsset(asset.Name) {
			continue
		}
		key := asset.OS + "/" + asset.Arch
		grouped[key] = append(grouped[key], asset)
	}
	keys := maps.Keys(grouped)
	sort.Strings(keys)
	result := make([]binwrapper.Source, 0, len(keys))
	for _, key := range keys {
		candidates := grouped[key]
		chosen := candidates[0]
		if len(candidates) > 1 {
			var err error
			chosen, err = selector(candidates)
			if err != nil {
				return nil, err
			}
		}
		result = append(result, binwrapper.Source{
			URL:  chosen.URL,
			OS:   chosen.OS,
			Arch: chosen.Arch,
		})
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("no assets with a recognizable platform")
	}
	return result, nil
}

func skipAsset(name string) bool {
	base := strings.ToLower(path.Base(nameFromURL(name)))
	for _, suffix := range skippedSuffixes {
		if strings.HasSuffix(base, suffix) {
			return true
		}
	}
	return false
}

func nameFromURL(name string) string {
	parsed, err := url.Parse(name)
	if err != nil {
		return name
	}
	return parsed.EscapedPath()
}
