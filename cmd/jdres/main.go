// Command jdres extracts, ranks and analyses resumes from the command line.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/resume-extractor/internal/bootstrap"
	"alfredoptarigan/resume-extractor/internal/config"
)

type cli struct {
	cfg   *config.Config
	log   *zap.Logger
	svc   *bootstrap.Services
	quiet bool
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "jdres",
		Short:         "Resume and job description extraction tools",
		Long:          "jdres extracts text, skills and employment history from resumes and ranks them against a job description.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.init(cmd.Context())
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if c.log != nil {
				_ = c.log.Sync()
			}
		},
	}

	root.PersistentFlags().BoolVarP(&c.quiet, "quiet", "q", false, "Suppress log output")

	root.AddCommand(
		newExtractCmd(c),
		newScanCmd(c),
		newRankCmd(c),
		newGapsCmd(c),
		newIndexCmd(c),
	)

	return root
}

func (c *cli) init(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	c.cfg = config.Load()

	if c.quiet {
		c.log = zap.NewNop()
	} else {
		log, err := config.NewLogger(c.cfg.Server.Env)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		c.log = log
	}

	svc, err := bootstrap.Build(ctx, c.cfg, c.log)
	if err != nil {
		return err
	}
	c.svc = svc

	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
