package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	binwrapper "github.com/s12chung/bin-wrapper"
	"github.com/schollz/progressbar/v3"
	"github.com/willabides/kongplete"
)

var kongVars = kong.Vars{
	"configfile_help":          `file with binwrap config. default is the first one of binwrap.yml, binwrap.yaml, binwrap.json, .binwrap.yml, .binwrap.yaml or .binwrap.json`,
	"install_help":             `download, extract and verify binaries`,
	"install_all_help":         `install all configured binaries`,
	"path_help":                `print the local path of a configured binary`,
	"add_help":                 `add a binary from a github release to the config file`,
	"init_help":                `create an empty config file`,
	"validate_help":            `validate the config file against its schema`,
	"install_completions_help": `install shell completions`,
}

type rootCmd struct {
	Configfile string `kong:"type=path,help=${configfile_help},env='BINWRAP_CONFIG_FILE'"`
	Quiet      bool   `kong:"short='q',help='suppress progress output and prompts'"`

	Install  installCmd  `kong:"cmd,help=${install_help}"`
	Path     pathCmd     `kong:"cmd,help=${path_help}"`
	Add      addCmd      `kong:"cmd,help=${add_help}"`
	Init     initCmd     `kong:"cmd,help=${init_help}"`
	Validate validateCmd `kong:"cmd,help=${validate_help}"`

	Version            versionCmd                   `kong:"cmd,help='show binwrap version'"`
	InstallCompletions kongplete.InstallCompletions `kong:"cmd,help=${install_completions_help}"`
}

var defaultConfigFilenames = []string{
	"binwrap.yml",
	"binwrap.yaml",
	"binwrap.json",
	".binwrap.yml",
	".binwrap.yaml",
	".binwrap.json",
}

type runState struct {
	ctx    context.Context
	root   *rootCmd
	stdout io.Writer
	stderr io.Writer
}

// findConfigFile returns the configured or first default config file, or
// "" when none exists.
func (s *runState) findConfigFile() string {
	if s.root.Configfile != "" {
		return s.root.Configfile
	}
	for _, filename := range defaultConfigFilenames {
		info, err := os.Stat(filename)
		if err == nil && !info.IsDir() {
			return filename
		}
	}
	return ""
}

func (s *runState) loadConfig() (*binwrapper.Config, error) {
	filename := s.findConfigFile()
	if filename == "" {
		return nil, fmt.Errorf("no config file found. run `binwrap init` to create one")
	}
	return binwrapper.LoadConfigFile(s.ctx, filename)
}

type runOpts struct {
	stdout      io.Writer
	stderr      io.Writer
	cmdName     string
	exitHandler func(int)
}

// Run parses args and executes the selected command.
func Run(ctx context.Context, args []string, opts *runOpts) {
	if opts == nil {
		opts = &runOpts{}
	}
	var root rootCmd
	state := &runState{
		ctx:    ctx,
		root:   &root,
		stdout: opts.stdout,
		stderr: opts.stderr,
	}
	if state.stdout == nil {
		state.stdout = os.Stdout
	}
	if state.stderr == nil {
		state.stderr = os.Stderr
	}

	kongOptions := []kong.Option{
		kong.HelpOptions{Compact: true},
		kong.Bind(state),
		kongVars,
		kong.UsageOnError(),
		kong.Writers(state.stdout, state.stderr),
	}
	if opts.exitHandler != nil {
		kongOptions = append(kongOptions, kong.Exit(opts.exitHandler))
	}
	cmdName := opts.cmdName
	if cmdName == "" {
		cmdName = "binwrap"
	}
	kongOptions = append(kongOptions, kong.Name(cmdName))

	parser := kong.Must(&root, kongOptions...)
	kongplete.Complete(parser,
		kongplete.WithPredictor("binary", binCompleter()),
	)

	kongCtx, err := parser.Parse(args)
	parser.FatalIfErrorf(err)
	if root.Quiet {
		state.stdout = io.Discard
		kongCtx.Stdout = io.Discard
	}
	kongCtx.FatalIfErrorf(kongCtx.Run())
}

type installCmd struct {
	All    bool     `kong:"help=${install_all_help}"`
	Binary []string `kong:"arg,optional,predictor=binary,help='binaries to install'"`
}

func (c *installCmd) Run(state *runState) error {
	cfg, err := state.loadConfig()
	if err != nil {
		return err
	}
	names := c.Binary
	if c.All {
		names = cfg.BinaryNames()
	}
	if len(names) == 0 {
		return fmt.Errorf("no binaries specified. use --all to install everything in the config")
	}
	for _, name := range names {
		wrapper, err := cfg.BinWrapper(name)
		if err != nil {
			return err
		}
		if !state.root.Quiet {
			bar := progressbar.DefaultBytes(-1, fmt.Sprintf("downloading %s", name))
			wrapper.Progress(bar)
		}
		err = wrapper.Run(state.ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(state.stdout, "installed %s to %s\n", name, wrapper.Path())
	}
	return nil
}

type pathCmd struct {
	Binary string `kong:"arg,predictor=binary,help='binary name'"`
}

func (c *pathCmd) Run(state *runState) error {
	cfg, err := state.loadConfig()
	if err != nil {
		return err
	}
	wrapper, err := cfg.BinWrapper(c.Binary)
	if err != nil {
		return err
	}
	fmt.Fprintln(state.stdout, wrapper.Path())
	return nil
}

type initCmd struct{}

func (c *initCmd) Run(state *runState) error {
	for _, filename := range defaultConfigFilenames {
		info, err := os.Stat(filename)
		if err == nil && !info.IsDir() {
			return fmt.Errorf("%s already exists", filename)
		}
	}
	filename := state.root.Configfile
	if filename == "" {
		filename = defaultConfigFilenames[0]
	}
	return os.WriteFile(filename, []byte("binaries: {}\n"), 0o644)
}

type validateCmd struct{}

func (c *validateCmd) Run(state *runState) error {
	_, err := state.loadConfig()
	if err != nil {
		return err
	}
	fmt.Fprintln(state.stdout, "config is valid")
	return nil
}
