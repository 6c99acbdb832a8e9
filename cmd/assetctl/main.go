package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/diwise/asset-catalog/internal/pkg/application/extensions"
	"github.com/diwise/asset-catalog/internal/pkg/application/governance"
	"github.com/diwise/asset-catalog/internal/pkg/application/inspect"
	"github.com/diwise/service-chassis/pkg/infrastructure/buildinfo"
	"github.com/diwise/service-chassis/pkg/infrastructure/env"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/peterbourgon/ff/v3"
)

const serviceName string = "assetctl"

const (
	exitSuccess    int = 0
	exitFailure    int = 1
	exitViolations int = 2
)

func main() {
	serviceVersion := buildinfo.SourceVersion()

	ctx := context.Background()

	flags, err := parseExternalConfig(DefaultFlags(ctx), os.Args[1:])
	if err != nil {
		code := flagErrorExitCode(err)
		if code != exitSuccess {
			fmt.Fprintf(os.Stderr, "flag error: %v\n", err)
		}
		os.Exit(code)
	}

	ctx, logger, cleanup := o11y.Init(ctx, serviceName, serviceVersion, flags[logFormat])
	defer cleanup()

	cfg, err := newAppConfig(flags)
	if err != nil {
		logger.Error("failed to open input files", "err", err.Error())
		os.Exit(exitFailure)
	}
	defer cfg.Close()

	summary, err := run(ctx, flags, cfg)
	if err != nil {
		logger.Error("failed to inspect assets", "err", err.Error())
		os.Exit(exitFailure)
	}

	for _, v := range summary.Violations {
		logger.Warn("governance violation", "typeName", v.TypeName, "qualifiedName", v.QualifiedName, "guid", v.GUID, "message", v.Message)
	}

	logger.Info("done", "total", summary.Total, "skipped", summary.Skipped, "violations", len(summary.Violations))

	if summary.HasViolations() {
		cfg.Close()
		cleanup()
		os.Exit(exitViolations)
	}
}

func DefaultFlags(ctx context.Context) FlagMap {
	return FlagMap{
		inputPath:  stdio,
		outputPath: stdio,

		logFormat: env.GetVariableOrDefault(ctx, "LOG_FORMAT", "json"),
	}
}

// flagErrorExitCode returns the exit code for a failure to parse the command line. Asking
// for help is not a failure.
func flagErrorExitCode(err error) int {
	if errors.Is(err, flag.ErrHelp) {
		return exitSuccess
	}
	return exitFailure
}

func parseExternalConfig(flags FlagMap, args []string) (FlagMap, error) {
	fs := flag.NewFlagSet(serviceName, flag.ContinueOnError)

	apply := func(f FlagType) func(string) error {
		return func(value string) error {
			flags[f] = value
			return nil
		}
	}

	fs.Func("extensions", "path to a yaml file declaring extension asset types", apply(extensionsPath))
	fs.Func("policy", "path to a rego module defining data.catalog.governance.deny", apply(policyPath))
	fs.Func("in", "path to the asset records to read, - for stdin", apply(inputPath))
	fs.Func("out", "path to write the resolved assets to, - for stdout", apply(outputPath))
	fs.BoolFunc("skip-unsupported", "skip records of unknown asset types", apply(skipUnsupported))
	fs.BoolFunc("trim", "write the minimal form of every asset", apply(trimToRequired))
	fs.Func("log-format", "log format, json or text", apply(logFormat))

	err := ff.Parse(fs, args, ff.WithEnvVarPrefix("ASSETCTL"))

	return flags, err
}

func run(ctx context.Context, flags FlagMap, cfg *AppConfig) (*inspect.Summary, error) {
	logger := logging.GetFromContext(ctx)

	if cfg.extensions != nil {
		extensionConfig, err := extensions.LoadConfiguration(cfg.extensions)
		if err != nil {
			return nil, fmt.Errorf("failed to load extension types: %w", err)
		}

		registered, err := extensions.Register(extensionConfig)
		if err != nil {
			return nil, err
		}

		logger.Info("registered extension types", "types", registered)
	}

	options := []inspect.Option{}

	if cfg.policies != nil {
		checker, err := governance.NewChecker(ctx, cfg.policies)
		if err != nil {
			return nil, fmt.Errorf("failed to load governance policies: %w", err)
		}
		options = append(options, inspect.WithChecker(checker))
	}

	if flags[skipUnsupported] == "true" {
		options = append(options, inspect.SkipUnsupported())
	}

	if flags[trimToRequired] == "true" {
		options = append(options, inspect.TrimToRequired())
	}

	return inspect.Run(ctx, cfg.input, cfg.output, options...)
}
