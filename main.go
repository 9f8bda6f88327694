package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"fyne.io/fyne/v2"
	"github.com/spf13/cobra"

	"canvastream/internal/canvas"
	"canvastream/internal/config"
	"canvastream/internal/export"
	"canvastream/internal/logging"
	cnet "canvastream/internal/net"
	"canvastream/internal/sink"
	"canvastream/internal/ui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		verbose    bool
		snapshot   string
	)

	rootCmd := &cobra.Command{
		Use:           "canvastream",
		Short:         "Drawing canvas that streams pointer samples",
		Long:          `Opens a gridded drawing canvas. Press the toggle key to start or stop recording pointer samples to the configured sink.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath, verbose)
			if err != nil {
				return err
			}
			return runBoard(cmd.Context(), cfg, snapshot)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to canvastream.yml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Flags().StringVar(&snapshot, "snapshot", "", "Write a PNG of the canvas here when the window closes")

	rootCmd.AddCommand(newExportCmd(&configPath, &verbose))
	rootCmd.AddCommand(newDiscoverCmd())
	return rootCmd
}

func loadConfig(path string, verbose bool) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	logging.SetConfig(cfg.Logging)
	return cfg, nil
}

func runBoard(ctx context.Context, cfg *config.Config, snapshot string) error {
	log := logging.NewLogger("main")

	pipe, err := openPipeline(ctx, cfg.Sink)
	if err != nil {
		return err
	}
	defer func() {
		if err := pipe.Close(); err != nil {
			log.WithError(err).Warn("sink shutdown")
		}
	}()

	cw := ui.NewCanvasWidget(cfg.Window.Width, cfg.Window.Height)
	board, err := canvas.NewBoard(canvas.BoardConfig{
		Grid:      cfg.Grid,
		Stroke:    cfg.Stroke,
		ToggleKey: cfg.Recording.ToggleKey,
	}, cw.Events(), cw.Surface(), cw, pipe.batcher)
	if err != nil {
		return err
	}

	log.WithField("session", pipe.batcher.Session()).Info("canvas ready")
	ui.RunApp("canvastream", fyne.NewSize(cfg.Window.Width, cfg.Window.Height), cw, board, cfg.Recording.ToggleKey)

	if snapshot != "" {
		if err := export.SnapshotPNG(snapshot, cw.Surface()); err != nil {
			log.WithError(err).Warn("snapshot failed")
		}
	}
	return nil
}

func newExportCmd(configPath *string, verbose *bool) *cobra.Command {
	var in, out, title string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render archived sample batches to a PDF trace",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath, *verbose)
			if err != nil {
				return err
			}
			samples, err := sink.ReadDir(in)
			if err != nil {
				return err
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			err = export.TracePDF(f, samples, export.TraceOptions{
				Grid:   cfg.Grid,
				Width:  float64(cfg.Window.Width),
				Height: float64(cfg.Window.Height),
				Title:  title,
			})
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d samples to %s\n", len(samples), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "Directory of archived batches (file transport or backup dir)")
	cmd.Flags().StringVar(&out, "out", "trace.pdf", "PDF file to write")
	cmd.Flags().StringVar(&title, "title", "", "Page title")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func newDiscoverCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "List sample collectors advertised on the local network",
		RunE: func(cmd *cobra.Command, args []string) error {
			found, err := cnet.Browse(cmd.Context(), timeout)
			if err != nil {
				return err
			}
			if len(found) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no collectors found")
				return nil
			}
			for _, c := range found {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", c.Addr, c.Name)
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 3*time.Second, "How long to wait for answers")
	return cmd
}
