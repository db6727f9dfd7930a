package main

import (
	"fmt"
	"net/url"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vidyasagar/cellsurf/internal/api"
	"github.com/vidyasagar/cellsurf/internal/app"
	"github.com/vidyasagar/cellsurf/internal/logging"
	"github.com/vidyasagar/cellsurf/internal/mode"
	"github.com/vidyasagar/cellsurf/internal/pages"
	"github.com/vidyasagar/cellsurf/internal/route"
	"github.com/vidyasagar/cellsurf/internal/storage"
	"github.com/vidyasagar/cellsurf/internal/theme"
)

var version = "0.1.0"

const longHelp = `cellsurf - a terminal explorer for the OpenCell protein localization atlas

The optional argument is a location or a gene name:

  cellsurf                              # start on the landing page
  cellsurf MAP4                         # look up a gene
  cellsurf /target/CID000828            # open a cell line
  cellsurf "/gallery?localization=nucleoplasm"
  cellsurf --theme dracula /targets

Builds with a private default accept ?mode=public on the start location.`

func newRootCmd() *cobra.Command {
	return newCommand(storage.NewViper())
}

// newCommand builds the root command with its flags bound onto v.
func newCommand(v *viper.Viper) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "cellsurf [location | gene]",
		Short:         "Explore OpenCell from the terminal",
		Long:          longHelp,
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(v, configPath, strings.Join(args, " "))
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "", "config file (default: config.yaml in the config directory)")
	flags.String("theme", "", fmt.Sprintf("color theme (%s)", strings.Join(theme.List(), ", ")))
	flags.String("api", "", "OpenCell API root URL")
	flags.String("pages-url", "", "site to fetch the information pages from (default: embedded copies)")
	flags.String("log-level", "", "log level: debug, info, warn or error")

	bindFlags(v, cmd, map[string]string{
		"theme":            "theme",
		"api.url":          "api",
		"pages.remote_url": "pages-url",
		"log.level":        "log-level",
	})
	return cmd
}

// bindFlags makes each flag override its config key when set.
func bindFlags(v *viper.Viper, cmd *cobra.Command, keys map[string]string) {
	for k, flag := range keys {
		if err := v.BindPFlag(k, cmd.Flags().Lookup(flag)); err != nil {
			panic(fmt.Sprintf("binding flag %q: %v", flag, err))
		}
	}
}

// startMode resolves the session mode from the start location's query.
func startMode(start string) mode.Mode {
	if !strings.HasPrefix(start, "/") {
		return mode.ResolveDefault(nil)
	}
	_, query := route.SplitLocation(start)
	vals, err := url.ParseQuery(strings.TrimPrefix(query, "?"))
	if err != nil {
		return mode.ResolveDefault(nil)
	}
	return mode.ResolveDefault(vals)
}

func run(v *viper.Viper, configPath, start string) error {
	cfg, err := storage.LoadConfig(v, configPath)
	if err != nil {
		return err
	}
	if !theme.Set(cfg.Theme) {
		return fmt.Errorf("unknown theme %q (available: %s)", cfg.Theme, strings.Join(theme.List(), ", "))
	}

	dataDir, err := storage.DataDir()
	if err != nil {
		return err
	}
	logger, err := logging.Open(dataDir, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer logger.Close()

	audience := startMode(start)
	logger.Info("starting", "version", version, "mode", audience.String(), "start", start, "api", cfg.API.URL)

	client, err := api.New(api.Options{
		BaseURL:   cfg.API.URL,
		Timeout:   cfg.API.Timeout,
		CacheSize: cfg.API.CacheSize,
		Logger:    logger.Logger,
	})
	if err != nil {
		return err
	}

	opts := app.Options{
		Mode:   audience,
		Client: client,
		Pages:  pages.NewSource(cfg.Pages.RemoteURL, nil, logger.Logger),
		Config: cfg,
		Logger: logger.Logger,
		Start:  start,
	}

	// Bookmarks and history are best-effort.
	db, err := storage.OpenDB(dataDir)
	if err != nil {
		logger.Warn("storage unavailable", "error", err)
	} else {
		defer db.Close()
		opts.Visits = storage.NewVisitStore(db, cfg.History.MaxEntries)
		opts.Bookmarks = storage.NewBookmarkStore(db)
	}

	p := tea.NewProgram(app.New(opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running UI: %w", err)
	}
	return nil
}
