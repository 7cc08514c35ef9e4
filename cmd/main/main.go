package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"mercari/shopper/internal/config"
	"mercari/shopper/internal/container"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var configPath string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "shopper",
		Short:         "Bilingual Mercari Japan shopping assistant",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          runREPL,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./config.yaml)")
	root.AddCommand(newCategoriesCmd())

	return root
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := container.ConfigureLogging(cfg.Log); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runREPL(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("Starting Mercari shopper...")

	app, err := container.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}
	defer app.Close()

	if err := app.Run(ctx, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories [name...]",
		Short: "List catalog categories, or resolve names the way requests are resolved",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			c, _, m := container.NewMatching(cfg)
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				for _, name := range c.Names() {
					id, _ := c.Lookup(name)
					fmt.Fprintf(out, "%s\t%s\n", id, name)
				}
				fmt.Fprintf(out, "%d categories\n", c.Len())
				return nil
			}

			for _, name := range args {
				ids, _ := m.MatchCategories([]string{name})
				if len(ids) == 0 {
					fmt.Fprintf(out, "%s\t-\n", name)
					continue
				}
				fmt.Fprintf(out, "%s\t%s\n", name, ids[0])
			}
			return nil
		},
	}
}
