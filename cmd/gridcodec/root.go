package main

import (
	"fmt"
	"io"

	"github.com/arloliu/gridcodec"
	"github.com/arloliu/gridcodec/config"
	"github.com/arloliu/gridcodec/internal/logging"
	"github.com/arloliu/gridcodec/store"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string

	log *logrus.Logger
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "gridcodec",
		Short:         "Inspect and convert simulation engine grid artifacts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			logger, err := logging.New(logging.Options{Level: opts.logLevel, Format: opts.logFormat, Output: stderr})
			if err != nil {
				return err
			}
			opts.log = logger

			return nil
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	addGlobalFlags(cmd.PersistentFlags(), opts)

	cmd.AddCommand(
		newInfoCmd(opts),
		newVerifyCmd(opts),
		newRewriteCmd(opts),
		newArchiveCmd(opts),
		newStructuresCmd(opts),
	)

	return cmd
}

func addGlobalFlags(fs *pflag.FlagSet, opts *rootOptions) {
	fs.StringVarP(&opts.configPath, "config", "c", "", "schematization config file (YAML)")
	fs.StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	fs.StringVar(&opts.logFormat, "log-format", logging.FormatText, "log format (text, json)")
}

// source is an opened backend plus the read specs for it.
type source struct {
	backend store.Backend
	specs   []store.LayerSpec
	names   store.ArtifactNames
	close   gridcodec.Closer
}

// openSource resolves the backend to read: the directory argument when given,
// otherwise the backend of the config file.
func (o *rootOptions) openSource(args []string) (*source, error) {
	if len(args) > 0 {
		b, err := store.NewDirBackend(args[0])
		if err != nil {
			return nil, err
		}

		return &source{backend: b, names: store.DefaultArtifactNames(), close: func() error { return nil }}, nil
	}

	if o.configPath == "" {
		return nil, fmt.Errorf("a directory argument or --config is required")
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}

	b, closer, err := gridcodec.OpenBackend(cfg)
	if err != nil {
		return nil, err
	}

	return &source{backend: b, specs: gridcodec.LayerSpecs(cfg), names: gridcodec.ArtifactNames(cfg), close: closer}, nil
}

func (o *rootOptions) storeOptions(names store.ArtifactNames) []store.Option {
	return []store.Option{
		store.WithLogger(o.log),
		store.WithArtifactNames(names),
	}
}
