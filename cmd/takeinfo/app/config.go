package app

import (
	"errors"
	"flag"
)

type Config struct {
	TakePath string
	Body     string
	Verbose  bool
}

func NewConfigFromCLI() (*Config, error) {
	var c Config

	flag.StringVar(&c.TakePath, "in", "", "Path to the exported take CSV file")
	flag.StringVar(&c.Body, "body", "", "Limit the report to a single rigid body label")
	flag.BoolVar(&c.Verbose, "verbose", false, "Enable parse diagnostics")
	flag.Parse()

	if c.TakePath == "" {
		flag.Usage()
		return nil, errors.New("take file path is required")
	}

	return &c, nil
}
