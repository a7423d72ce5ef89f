package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/klatu-labs/wincloner/internal/adapters/filestore"
	"github.com/klatu-labs/wincloner/internal/adapters/flashfile"
	"github.com/klatu-labs/wincloner/internal/cliconfig"
	"github.com/klatu-labs/wincloner/internal/cloner"
	"github.com/klatu-labs/wincloner/internal/domain"
	"github.com/klatu-labs/wincloner/internal/efuse"
	"github.com/klatu-labs/wincloner/internal/watch"
	"github.com/klatu-labs/wincloner/pkg/log"
)

const longHelp = `wincloner clones the SPI flash of a WINC1500 Wi-Fi controller to and from
an image file, rewriting only the sectors that differ, and can rebuild the
calibration-dependent PLL tables in place.

The flash medium is a raw image file or a block device node. The PLL/gain
table sector is protected: update never touches it, so device-specific
calibration survives firmware updates.`

const exampleUsage = `  wincloner extract winc.img --device /dev/mtdblock3
  wincloner update winc.img --device /dev/mtdblock3
  wincloner compare winc.img --device /dev/mtdblock3
  wincloner rebuild-pll --device /dev/mtdblock3 --efuse efuse.bin
  wincloner watch winc.img --device /dev/mtdblock3`

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	zl := cliconfig.Logger()

	root := &cobra.Command{
		Use:           "wincloner",
		Short:         "Clone, verify and repair WINC1500 flash images",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.wincloner/config.toml)")
	root.PersistentFlags().StringVar(&cfg.Device, "device", cfg.Device, "flash medium: raw image file or block device node")
	root.PersistentFlags().StringVar(&cfg.EfuseImage, "efuse", cfg.EfuseImage, "captured e-fuse bank image (required for rebuild-pll)")
	root.PersistentFlags().Int64Var(&cfg.PLLOffset, "pll-offset", cfg.PLLOffset, "protected PLL table region offset (bytes)")
	root.PersistentFlags().Int64Var(&cfg.PLLSize, "pll-size", cfg.PLLSize, "protected PLL table region size (bytes)")
	root.PersistentFlags().DurationVar(&cfg.WatchDebounce, "watch-debounce", cfg.WatchDebounce, "delay before re-running update after an image change")
	root.PersistentFlags().BoolVar(&cfg.Progress, "progress", cfg.Progress, "print one symbol per processed sector")
	root.PersistentFlags().BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "enable debug logging")

	// Load file config and env before any subcommand runs; explicitly set
	// flags keep precedence.
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		changed := map[string]bool{}
		root.PersistentFlags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

		cfgFile := cfgPath
		if cfgFile == "" {
			cfgFile = cliconfig.DefaultConfigPath()
		}
		if cfgFile != "" && cliconfig.FileExists(cfgFile) {
			fc, err := cliconfig.LoadFileConfig(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
				return err
			}
		}
		if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
			return err
		}

		if cfg.Verbose {
			zl = zl.Level(zerolog.DebugLevel)
		} else {
			zl = zl.Level(zerolog.InfoLevel)
		}
		return cfg.Validate()
	}

	newEngine := func() *cloner.Engine {
		opts := []cloner.Option{
			cloner.WithLogger(log.NewZerologLogger(zl)),
			cloner.WithProtectedRegion(cfg.ProtectedRegion()),
		}
		if cfg.Progress {
			opts = append(opts, cloner.WithProgress(printProgress))
		}
		if cfg.EfuseImage != "" {
			opts = append(opts, cloner.WithCalibrationSource(efuse.FileSource{Path: cfg.EfuseImage}))
		}
		medium := flashfile.New(cfg.Device, cloner.SectorSize)
		return cloner.New(medium, filestore.Store{}, opts...)
	}

	root.AddCommand(&cobra.Command{
		Use:   "extract <image>",
		Short: "Extract the entire flash contents into an image file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := newEngine().Extract(args[0])
			endProgress(cfg.Progress)
			if err != nil {
				return err
			}
			zl.Info().Str("image", args[0]).Int("sectors", st.Unchanged).
				Msg("extracted WINC contents")
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "update <image>",
		Short: "Update the flash from an image file, skipping the PLL table sector",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := newEngine().Update(args[0])
			endProgress(cfg.Progress)
			if err != nil {
				return err
			}
			zl.Info().Str("image", args[0]).
				Int("rewritten", st.Rewritten).
				Int("unchanged", st.Unchanged).
				Int("skipped", st.Skipped).
				Msg("updated WINC contents")
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "compare <image>",
		Short: "Compare the flash contents against an image file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := newEngine().Compare(args[0])
			endProgress(cfg.Progress)
			if err != nil {
				return err
			}
			if st.Differing > 0 {
				zl.Warn().Str("image", args[0]).
					Int("differing", st.Differing).
					Int("identical", st.Unchanged).
					Msg("WINC contents differ from image")
				return nil
			}
			zl.Info().Str("image", args[0]).Int("sectors", st.Unchanged).
				Msg("WINC contents identical to image")
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "rebuild-pll",
		Short: "Recompute the PLL tables from the device calibration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outcome, err := newEngine().RebuildTable()
			if err != nil {
				return err
			}
			if outcome == domain.SectorRewritten {
				zl.Info().Msg("PLL tables rebuilt")
			} else {
				zl.Info().Msg("PLL tables already current")
			}
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "watch <image>",
		Short: "Re-run update whenever the image file changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigCh
				zl.Info().Msg("received signal, stopping...")
				cancel()
			}()

			w := watch.New(newEngine(), args[0], cfg.WatchDebounce, log.NewZerologLogger(zl))
			if err := w.Run(ctx); err != nil && err != context.Canceled {
				return err
			}
			return nil
		},
	})

	if err := root.Execute(); err != nil {
		zl.Error().Err(err).Msg("wincloner")
		os.Exit(1)
	}
}

// printProgress writes the per-sector symbol stream to stderr: "." for
// unchanged, "!" for rewritten, "s" for skipped, "x" for differing.
func printProgress(addr int64, outcome domain.SectorOutcome) {
	fmt.Fprint(os.Stderr, outcome.String())
}

// endProgress terminates the symbol stream line.
func endProgress(enabled bool) {
	if enabled {
		fmt.Fprintln(os.Stderr)
	}
}
