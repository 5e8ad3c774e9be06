package main

import (
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-md2latex/internal/config"
	"github.com/alnah/go-md2latex/internal/yamlutil"
)

// runConfigCmd prints the effective configuration as YAML: the config
// file, if any, with the environment applied. It doubles as a validator.
func runConfigCmd(args []string, env *Environment) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	name := fs.StringP("config", "c", "", "config file name or path")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	if *name == "" {
		*name = envCfg.ConfigPath
	}
	cfg := config.DefaultConfig()
	if *name != "" {
		var err error
		cfg, err = config.LoadConfig(*name)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}
	applyEnvConfig(envCfg, cfg)
	if envCfg.Timeout > 0 {
		cfg.Render.Timeout = envCfg.Timeout.String()
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	out, err := yamlutil.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = env.Stdout.Write(out)
	return err
}
