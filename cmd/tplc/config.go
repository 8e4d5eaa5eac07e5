package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
	"github.com/walletauth/tplscript/logger"
	"github.com/walletauth/tplscript/version"
)

type configFlags struct {
	ShowVersion  bool   `short:"V" long:"version" description:"Display version information and exit"`
	TemplateFile string `short:"t" long:"template" description:"Template document (JSON) to compile from"`
	Script       string `short:"s" long:"script" description:"Id of the script to compile"`
	DataFile     string `short:"d" long:"data" description:"JSON file providing values for the template variables"`
	All          bool   `long:"all" description:"Compile every script in the template"`
	Debug        bool   `long:"debug" description:"Print the full compilation artifact as JSON instead of bytecode"`
	LogLevel     string `long:"loglevel" description:"Logging level {trace, debug, info, warn, error, critical, off}" default:"off"`
	LogFile      string `long:"logfile" description:"Write a trace-level log to this file"`
	Profile      string `long:"profile" description:"Enable HTTP profiling on given port -- NOTE port must be between 1024 and 65536"`
}

func parseCommandLine() (*configFlags, error) {
	cfg := &configFlags{}
	parser := flags.NewParser(cfg, flags.PrintErrors|flags.HelpFlag)
	_, err := parser.Parse()

	// Show the version and exit if the version flag was specified.
	if cfg.ShowVersion {
		appName := filepath.Base(os.Args[0])
		appName = strings.TrimSuffix(appName, filepath.Ext(appName))
		fmt.Println(appName, "version", version.Version())
		os.Exit(0)
	}

	if err != nil {
		return nil, err
	}

	if cfg.TemplateFile == "" {
		return nil, errors.New("--template is required")
	}
	if cfg.Script == "" && !cfg.All {
		return nil, errors.New("either --script or --all is required")
	}
	if cfg.Script != "" && cfg.All {
		return nil, errors.New("--script and --all are mutually exclusive")
	}
	if cfg.All && cfg.Debug {
		return nil, errors.New("--debug applies to a single script; drop --all")
	}
	if cfg.Profile != "" {
		profilePort, err := strconv.Atoi(cfg.Profile)
		if err != nil || profilePort < 1024 || profilePort > 65535 {
			return nil, errors.New("The profile port must be between 1024 and 65535")
		}
	}

	err = initLog(cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func initLog(cfg *configFlags) error {
	level, ok := logger.LevelFromString(cfg.LogLevel)
	if !ok {
		return errors.Errorf("unknown log level %q", cfg.LogLevel)
	}
	if level == logger.LevelOff && cfg.LogFile == "" {
		return nil
	}

	// Bytecode goes to stdout, so console logging goes to stderr.
	if level < logger.LevelOff {
		err := logger.BackendLog.AddLogWriter(os.Stderr, level)
		if err != nil {
			return err
		}
	}
	if cfg.LogFile != "" {
		err := logger.BackendLog.AddLogFile(cfg.LogFile, logger.LevelTrace)
		if err != nil {
			return err
		}
	}
	err := logger.BackendLog.Run()
	if err != nil {
		return err
	}

	subsystemLevel := cfg.LogLevel
	if cfg.LogFile != "" {
		subsystemLevel = "trace"
	}
	return logger.SetLogLevels(subsystemLevel)
}

func printErrorAndExit(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", err)
	os.Exit(1)
}
