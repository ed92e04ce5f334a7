package main

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/Masterminds/semver/v3"
	binwrapper "github.com/s12chung/bin-wrapper"
	"github.com/s12chung/bin-wrapper/internal/ghrelease"
	"gopkg.in/yaml.v3"
)

type addCmd struct {
	Repo        string `kong:"arg,help='github repository in the form owner/repo[@tag]. defaults to the latest release'"`
	Name        string `kong:"arg,optional,help='binary name. defaults to the repository name'"`
	Destination string `kong:"help='destination directory',default='bin'"`
	Bin         string `kong:"help='executable path relative to the destination. defaults to the binary name'"`
	Version     string `kong:"help='semver range the binary must satisfy. defaults to the release version'"`
	GithubToken string `kong:"hidden,env='GITHUB_TOKEN'"`
}

func (c *addCmd) Run(state *runState) error {
	repo := c.Repo
	tag := ""
	if idx := strings.Index(repo, "@"); idx >= 0 {
		repo, tag = repo[:idx], repo[idx+1:]
	}
	name := c.Name
	if name == "" {
		name = path.Base(repo)
	}
	assets, version, err := ghrelease.Query(state.ctx, repo, tag, c.GithubToken)
	if err != nil {
		return err
	}
	var selector ghrelease.Selector
	if !state.root.Quiet {
		selector = surveySelector()
	}
	sources, err := ghrelease.Sources(assets, selector)
	if err != nil {
		return err
	}
	binPath := c.Bin
	if binPath == "" {
		binPath = name
	}
	versionRange := c.Version
	if versionRange == "" {
		if _, vErr := semver.NewVersion(version); vErr == nil {
			versionRange = version
		}
	}

	filename := state.findConfigFile()
	if filename == "" {
		filename = defaultConfigFilenames[0]
	}
	cfg := &binwrapper.Config{}
	if _, statErr := os.Stat(filename); statErr == nil {
		cfg, err = binwrapper.LoadConfigFile(state.ctx, filename)
		if err != nil {
			return err
		}
	}
	if cfg.Binaries == nil {
		cfg.Binaries = map[string]*binwrapper.Binary{}
	}
	cfg.Binaries[name] = &binwrapper.Binary{
		Destination: c.Destination,
		Bin:         binPath,
		Version:     versionRange,
		Sources:     sources,
	}
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	err = os.WriteFile(filename, raw, 0o644)
	if err != nil {
		return err
	}
	fmt.Fprintf(state.stdout, "added %s with %d sources to %s\n", name, len(sources), filename)
	return nil
}

// surveySelector prompts when several release assets classify to the
// same platform.
func surveySelector() ghrelease.Selector {
	return func(candidates []ghrelease.Asset) (ghrelease.Asset, error) {
		options := make([]string, len(candidates))
		for i, candidate := range candidates {
			options[i] = candidate.Name
		}
		var chosen string
		err := survey.AskOne(&survey.Select{
			Message: fmt.Sprintf("multiple assets match %s/%s", candidates[0].OS, candidates[0].Arch),
			Options: options,
		}, &chosen)
		if err != nil {
			return ghrelease.Asset{}, err
		}
		for _, candidate := range candidates {
			if candidate.Name == chosen {
				return candidate, nil
			}
		}
		return candidates[0], nil
	}
}
