package main

import (
	"io"
	"os"
)

type FlagType int
type FlagMap map[FlagType]string

const (
	extensionsPath FlagType = iota
	policyPath
	inputPath
	outputPath

	skipUnsupported
	trimToRequired

	logFormat
)

const stdio string = "-"

type AppConfig struct {
	extensions io.Reader
	policies   io.Reader
	input      io.Reader
	output     io.Writer

	closers []io.Closer
}

func newAppConfig(flags FlagMap) (*AppConfig, error) {
	cfg := &AppConfig{
		input:  os.Stdin,
		output: os.Stdout,
	}

	var err error

	if flags[extensionsPath] != "" {
		if cfg.extensions, err = cfg.open(flags[extensionsPath]); err != nil {
			return nil, err
		}
	}

	if flags[policyPath] != "" {
		if cfg.policies, err = cfg.open(flags[policyPath]); err != nil {
			cfg.Close()
			return nil, err
		}
	}

	if path := flags[inputPath]; path != "" && path != stdio {
		if cfg.input, err = cfg.open(path); err != nil {
			cfg.Close()
			return nil, err
		}
	}

	if path := flags[outputPath]; path != "" && path != stdio {
		f, err := os.Create(path)
		if err != nil {
			cfg.Close()
			return nil, err
		}
		cfg.closers = append(cfg.closers, f)
		cfg.output = f
	}

	return cfg, nil
}

func (cfg *AppConfig) open(path string) (io.Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	cfg.closers = append(cfg.closers, f)
	return f, nil
}

func (cfg *AppConfig) Close() {
	for _, c := range cfg.closers {
		c.Close()
	}
	cfg.closers = nil
}
