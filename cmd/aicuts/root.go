package main

import (
	"fmt"
	"io"
	"log"
	"net/http"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/csheth/aicuts/internal/api"
	"github.com/csheth/aicuts/internal/config"
	"github.com/csheth/aicuts/internal/page"
	"github.com/csheth/aicuts/internal/shapes"
)

// Version is set via ldflags at build time.
var Version = "dev"

type options struct {
	configPath  string
	api         string
	host        string
	verbose     bool
	noAltScreen bool
	logFile     string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "aicuts",
		Short: "Find a haircut that suits your face shape",
		Long: `AICuts sends a photo to the face-shape classifier and recommends
hairstyles for the detected shape. Run without a subcommand for the
interactive page, which also carries the contact form.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPage(opts)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "aicuts.yml", "config file path")
	pf.StringVar(&opts.api, "api", "", "service base URL; overrides host-based resolution")
	pf.StringVar(&opts.host, "host", "", "page host used to choose the local or remote service")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "log requests to stderr (one-shot commands)")

	cmd.Flags().BoolVar(&opts.noAltScreen, "no-alt-screen", false, "disable the alternate screen buffer")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "write logs to this file while the page runs")

	cmd.AddCommand(
		newContactCmd(opts),
		newUploadCmd(opts),
		newConfigCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of aicuts",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "aicuts %s\n", Version)
		},
	}
}

// loadConfig resolves settings from .env, the config file, AICUTS_*
// variables and flags, in that order of increasing precedence.
func loadConfig(opts *options) (*config.Config, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.api != "" {
		cfg.APIOverride = opts.api
	}
	if opts.host != "" {
		cfg.Host = opts.host
	}
	if opts.logFile != "" {
		cfg.LogFile = opts.logFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newClient(cfg *config.Config) api.Client {
	return api.New(api.Config{
		BaseURL:    cfg.BaseURL(),
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
	})
}

func runPage(opts *options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	catalog, err := shapes.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return err
	}

	// Anything logged to the terminal would corrupt the page.
	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "aicuts")
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}
	log.Printf("[page] starting against %s", cfg.BaseURL())

	var programOpts []tea.ProgramOption
	if !opts.noAltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		page.New(page.Config{
			Client:  newClient(cfg),
			Catalog: catalog,
			Timeout: cfg.Timeout,
			BaseURL: cfg.BaseURL(),
		}),
		programOpts...,
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}
