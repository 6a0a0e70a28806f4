package main

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"
	"go.uber.org/zap"

	"github.com/hrko/obs-dynamic-path/internal/action/sourceselect"
	"github.com/hrko/obs-dynamic-path/internal/config"
	"github.com/hrko/obs-dynamic-path/internal/host"
	"github.com/hrko/obs-dynamic-path/internal/obs"
	"github.com/hrko/obs-dynamic-path/internal/settings"
)

func newSourcesCommand(opts *options) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "List the sources that can be used for folder naming",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := obs.Connect(opts.cfg.Address, opts.cfg.Password, opts.log.Named("obs"))
			if err != nil {
				return err
			}
			defer client.Close()

			var sources []host.Source
			if all {
				sources, err = client.ListSources(cmd.Context())
			} else {
				sources, err = sourceselect.New(settings.New(), client, opts.log.Named("sourceselect")).Choices(cmd.Context())
			}
			if err != nil {
				return err
			}
			b, err := json.Marshal(sources)
			if err != nil {
				return errors.Wrap(err, "encode sources")
			}
			_, err = cmd.OutOrStdout().Write(pretty.Pretty(b))
			return err
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Include scenes, not just inputs")
	return cmd
}

func newSelectCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "select SOURCE_NAME",
		Short: "Select the source whose name is used for %SOURCE%",
		Long:  "Writes selected-source to the config file. A running plugin picks the change up immediately.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.WriteSelectedSource(opts.v, args[0])
			if err != nil {
				return err
			}
			opts.log.Info("selected source saved", zap.String("source", args[0]), zap.String("file", path))
			fmt.Fprintf(cmd.OutOrStdout(), "selected %q (%s)\n", args[0], path)
			return nil
		},
	}
}
