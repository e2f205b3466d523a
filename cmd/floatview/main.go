package main

import (
	"fmt"
	"os"

	"floatview/internal/config"
	"floatview/internal/gui"
	"floatview/internal/log"
	"floatview/internal/publish"
	"floatview/internal/singleton"
	"floatview/internal/store"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
)

// viewerMarker is the command-line fragment that identifies a running viewer
// process, wherever the binary is installed.
const viewerMarker = "floatview viewer"

var (
	configPath string
	debug      bool
)

// Entry point for the application
func main() {
	rootCmd := &cobra.Command{
		Use:     "floatview",
		Short:   "A floating image preview window",
		Long:    `Floatview displays generated images in a small always-available window, picking up new image sets as a producer publishes them.`,
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug {
				log.SetDebug(true)
			}
		},
		// No Run here - default behavior is to show help
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default is the XDG config location)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(publishCmd())
	rootCmd.AddCommand(viewerCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(clearCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// loadConfig loads the configuration, falling back to defaults when the
// file is missing or unreadable.
func loadConfig() *config.Config {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadConfigFile(configPath)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		printWarning(fmt.Sprintf("Could not load config: %v. Using default settings.", err))
		cfg = config.New()
	}
	if debug {
		cfg.Settings.Debug = true
	}
	return cfg
}

// publishCmd represents the producer side: push a set of images at the viewer
func publishCmd() *cobra.Command {
	var transient bool

	cmd := &cobra.Command{
		Use:   "publish <image>...",
		Short: "Publish images to the preview window",
		Long: `Publish replaces the displayed image set wholesale and starts a viewer
window if none is running. An already-running viewer picks the new set up
within one poll interval.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			paths := store.NewPathStore(cfg.Paths.StateDir)
			guard := singleton.NewGuard(viewerMarker)
			p := publish.New(cfg, paths, guard)

			if err := p.Publish(args); err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Published %d image(s)", len(args)))

			if transient {
				// The images only live as long as this process, so hold on
				// and withdraw them when interrupted.
				p.RegisterCleanup()
				printInfo("Holding images until interrupted (Ctrl+C to withdraw)")
				select {}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&transient, "transient", "t", false, "Keep running and clear the published set on interrupt")

	return cmd
}

// viewerCmd runs the GUI. The literal "viewer" argument doubles as the
// process marker the singleton guard scans for.
func viewerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "viewer",
		Short: "Run the preview window",
		Long:  `Run the floating preview window in the foreground. Normally started automatically by publish.`,
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()
			if cfg.Settings.Debug {
				log.SetDebug(true)
			}
			gui.NewViewer(cfg).Run()
		},
	}
}

// statusCmd reports the pipeline state
func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show pipeline status",
		Long:  `Show the shared state directory, the currently published images and whether a viewer is running.`,
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()
			paths := store.NewPathStore(cfg.Paths.StateDir)
			settings := store.NewSettingsStore(cfg.Paths.StateDir)
			guard := singleton.NewGuard(viewerMarker)

			printHeader("Floatview Status")
			fmt.Printf("State directory: %s\n", cfg.Paths.StateDir)

			if guard.IsViewerRunning() {
				printSuccess("Viewer is running")
			} else {
				printInfo("No viewer running")
			}

			published := paths.Read()
			if len(published) == 0 {
				fmt.Println("No images published.")
			} else {
				fmt.Printf("Published images (%d):\n", len(published))
				for _, p := range published {
					marker := " "
					if _, err := os.Stat(p); err != nil {
						marker = "✗"
					}
					fmt.Printf("  %s %s\n", marker, p)
				}
			}

			rec := settings.Load()
			fmt.Printf("Window: %s, always on top: %v\n", rec.Geometry.String(), rec.AlwaysOnTop)
		},
	}
}

// clearCmd empties the published image list
func clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the published images",
		Long:  `Clear the published image list. A running viewer goes idle within one poll interval.`,
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()
			store.NewPathStore(cfg.Paths.StateDir).Clear()
			printSuccess("Published images cleared")
		},
	}
}
