package main

import (
	"context"
	"os"

	"github.com/posener/complete"
	binwrapper "github.com/s12chung/bin-wrapper"
)

func findConfigFileForCompletion(args []string) string {
	for i, arg := range args {
		if len(args) == i+1 {
			continue
		}
		if arg != "--configfile" {
			continue
		}
		return prepCompletionConfigFile(args[i+1])
	}
	cf, ok := os.LookupEnv("BINWRAP_CONFIG_FILE")
	if ok {
		return prepCompletionConfigFile(cf)
	}
	for _, cf := range defaultConfigFilenames {
		if _, err := os.Stat(cf); err == nil {
			return prepCompletionConfigFile(cf)
		}
	}
	return ""
}

// prepCompletionConfigFile returns "" if path isn't an existing file
func prepCompletionConfigFile(path string) string {
	stat, err := os.Stat(path)
	if err != nil || stat.IsDir() {
		return ""
	}
	return path
}

func completionConfig(args []string) *binwrapper.Config {
	path := findConfigFileForCompletion(args)
	if path == "" {
		return nil
	}
	cfg, err := binwrapper.LoadConfigFile(context.Background(), path)
	if err != nil {
		return nil
	}
	return cfg
}

func binCompleter() complete.PredictFunc {
	return func(a complete.Args) []string {
		cfg := completionConfig(a.Completed)
		if cfg == nil {
			return []string{}
		}
		return complete.PredictSet(cfg.BinaryNames()...).Predict(a)
	}
}
