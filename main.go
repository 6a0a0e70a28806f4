package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/hrko/obs-dynamic-path/internal/config"
	"github.com/hrko/obs-dynamic-path/internal/logging"
)

const pluginDescription = "Dynamic Recording Path Plugin"

type options struct {
	configPath string
	v          *viper.Viper
	cfg        config.Config
	log        *zap.Logger
	level      zap.AtomicLevel
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	err := newRootCommand().ExecuteContext(ctx)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, pflag.ErrHelp) {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	d := config.Defaults()
	cmd := &cobra.Command{
		Use:           "obs-dynamic-path",
		Short:         pluginDescription,
		Long:          "Rewrites the OBS recording directory to <base>/%DATE%/%SOURCE% every time a recording starts.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			defer opts.log.Sync()
			return runPlugin(cmd.Context(), opts)
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", os.Getenv(config.EnvPrefix+"_CONFIG"), "Path to config.yaml")
	pf.String(config.KeyAddress, d.Address, "obs-websocket address (host:port)")
	pf.String(config.KeyPassword, d.Password, "obs-websocket password")
	pf.String(config.KeyLogLevel, d.LogLevel, "Log level (debug, info, warn, error)")

	f := cmd.Flags()
	f.String(config.KeyPathTemplate, d.PathTemplate, "Directory template appended to the base directory")
	f.String(config.KeySelectedSource, d.SelectedSource, "Source name used for %SOURCE%")
	f.String(config.KeySourceMode, d.SourceMode, "Where %SOURCE% comes from (manual, scene)")
	f.String(config.KeyBaseDir, d.BaseDir, "Base recording directory (defaults to the OBS record directory)")

	cmd.AddCommand(newSourcesCommand(opts), newSelectCommand(opts))
	return cmd
}

func (o *options) setup(cmd *cobra.Command) error {
	o.v = config.NewViper(o.configPath)
	for _, fs := range []*pflag.FlagSet{cmd.Flags(), cmd.InheritedFlags()} {
		if err := config.BindFlags(o.v, fs); err != nil {
			return errors.Wrap(err, "bind flags")
		}
	}
	cfg, err := config.Load(o.v, o.configPath != "")
	if err != nil {
		return err
	}
	o.cfg = cfg
	o.log, o.level, err = logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	if used := o.v.ConfigFileUsed(); used != "" {
		o.log.Debug("config loaded", zap.String("file", used))
	}
	return nil
}
