// Package service implements the inkpot command line.
package service

import (
	"context"
	"errors"
	"fmt"
	"os"

	"inkpot/app/config"

	"github.com/spf13/cobra"
)

// Version is stamped at build time with -ldflags "-X inkpot/service.Version=...".
var Version = "dev"

var osExit = os.Exit

// cli carries state shared by the subcommands once flags are parsed.
type cli struct {
	configPath string
	cfg        *config.Config
}

// NewRootCommand builds the inkpot command tree.
func NewRootCommand() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "inkpot",
		Short:         "A small blog with moderated comments",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig(cmd)
		},
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to a YAML config file (INKPOT_* variables override it)")

	root.AddCommand(
		c.serveCommand(),
		c.initCommand(),
		c.cleanCommand(),
		c.backupCommand(),
		c.restoreCommand(),
		c.userCommand(),
		versionCommand(),
	)
	return root
}

func (c *cli) loadConfig(cmd *cobra.Command) error {
	// init may be the thing that creates the config file.
	if cmd.Name() == "init" && c.configPath != "" {
		if _, err := os.Stat(c.configPath); errors.Is(err, os.ErrNotExist) {
			if _, err := config.WriteDefault(c.configPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote default config to %s\n", c.configPath)
		}
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		osExit(1)
	}
}
