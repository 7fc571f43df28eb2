package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"retentions/internal/cli"
	"retentions/internal/config"
	"retentions/internal/errs"
	"retentions/internal/exitcode"
	"retentions/internal/logging"
	"retentions/internal/pipeline"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	root := cli.Build(execute)
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		return report(err)
	}
	return exitcode.Success
}

// execute validates raw, runs the pipeline, and prints list-only output.
// Every error returned here is classified via internal/errs so report can
// map it to the correct exit code.
func execute(raw config.Raw) error {
	cfg, err := config.Validate(raw)
	if err != nil {
		return errs.Config(err)
	}

	log := logging.New(os.Stderr, cfg.Verbose)
	now := time.Now()

	res, err := pipeline.Run(cfg, log, now)
	if err != nil {
		return err
	}

	if cfg.ListOnly {
		fmt.Print(strings.Join(res.Listed, cfg.ListSep))
		if len(res.Listed) > 0 {
			fmt.Println()
		}
	}

	return nil
}

func report(err error) int {
	fmt.Fprintln(os.Stderr, "retentions: "+err.Error())

	switch errs.ClassOf(err) {
	case errs.ClassConfig:
		return exitcode.ConfigError
	case errs.ClassIO:
		return exitcode.IOError
	case errs.ClassConcurrency:
		return exitcode.Concurrency
	case errs.ClassIntegrity:
		return exitcode.Integrity
	default:
		return exitcode.Unexpected
	}
}
