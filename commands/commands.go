package commands

import (
	"github.com/rs/zerolog"
	"github.com/symfony-cli/console"
	"github.com/symfony-cli/terminal"

	bfconfig "github.com/dkarlovi/bookferry/config"
	bffile "github.com/dkarlovi/bookferry/file"
)

var configFlag = &console.StringFlag{
	Name:  "config",
	Usage: "Path to the config file (defaults to the user config dir)",
}

// environment is what every command needs after flags are parsed.
type environment struct {
	cfg      *bfconfig.Config
	registry *bffile.FormatRegistry
	log      zerolog.Logger
}

func setup(c *console.Context) (*environment, error) {
	cfg, err := bfconfig.LoadConfigPrefer(c.String("config"))
	if err != nil {
		return nil, err
	}
	reg, err := bffile.RegistryFor(cfg.Formats)
	if err != nil {
		return nil, err
	}
	return &environment{
		cfg:      cfg,
		registry: reg,
		log:      newLogger(cfg.Level()),
	}, nil
}

func newLogger(level zerolog.Level) zerolog.Logger {
	w := zerolog.ConsoleWriter{Out: terminal.Stderr, TimeFormat: "15:04:05"}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

func Commands() []*console.Command {
	return []*console.Command{infoCmd, renameCmd}
}
