package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/freeeve/edaxknowledge/internal/archive"
	"github.com/freeeve/edaxknowledge/internal/config"
	"github.com/freeeve/edaxknowledge/internal/extract"
	"github.com/freeeve/edaxknowledge/internal/logx"
)

func newExtractCmd(v *viper.Viper, cfgFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Write packed exact records from the archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, *cfgFile)
			if err != nil {
				return err
			}
			return runExtract(cmd, cfg)
		},
	}

	addExtractFlags(cmd.Flags())
	_ = v.BindPFlags(cmd.Flags())
	return cmd
}

func addExtractFlags(f *pflag.FlagSet) {
	f.StringP("archive", "a", "knowledge_archive.tar.zst", "knowledge archive (.tar.zst, .tar.gz, .tar.bz2 or .tar)")
	f.StringP("output", "o", "-", "output file, - for stdout")
	f.String("compress", "none", "output compression (none, zstd)")
	f.String("policy", "skip", "invariant violations: skip the record or stop the run (skip, strict)")
	f.Int("total-entries", extract.DefaultTotalEntries, "expected entries for progress reporting, 0 if unknown")
	f.Duration("progress-interval", 10*time.Second, "minimum time between progress logs")
}

func runExtract(cmd *cobra.Command, cfg *config.Config) error {
	logger := logx.NewLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	logger.Info().
		Str("archive", cfg.Archive).
		Str("output", cfg.Output).
		Str("compress", cfg.Compress).
		Msg("opening archive")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	src, err := archive.Open(cfg.Archive)
	if err != nil {
		logger.Error().Err(err).Msg("open archive")
		return err
	}
	defer src.Close()
	logger.Debug().Str("compression", src.Compression().String()).Msg("archive opened")

	var sink io.Writer = cmd.OutOrStdout()
	if cfg.Output != "-" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		sink = f
	}

	// Records go to the sink unbuffered so a failed write loses only its own
	// record. The zstd encoder buffers internally and keeps its first error.
	comp, _ := archive.ParseCompression(cfg.Compress)
	cw, err := comp.NewWriter(sink)
	if err != nil {
		return fmt.Errorf("output compressor: %w", err)
	}

	policy, _ := extract.ParsePolicy(cfg.Policy)
	w := extract.NewWalker(extract.Config{
		Policy:           policy,
		TotalEntries:     cfg.TotalEntries,
		ProgressInterval: cfg.ProgressInterval,
		Logger:           logger,
	}, cw)

	_, runErr := w.Run(ctx, src)
	if runErr != nil {
		logger.Error().Err(runErr).Msg("extract stopped")
	}

	if err := cw.Close(); err != nil {
		logger.Error().Err(err).Msg("write output failed")
		if runErr == nil {
			runErr = err
		}
	}
	return runErr
}
