package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/nathannncurtis/Study-Aggregator/internal/aggregate"
	"github.com/nathannncurtis/Study-Aggregator/internal/archive"
	"github.com/nathannncurtis/Study-Aggregator/internal/dicom"
	"github.com/nathannncurtis/Study-Aggregator/internal/journal"
	"github.com/nathannncurtis/Study-Aggregator/internal/logging"
	"github.com/nathannncurtis/Study-Aggregator/internal/preflight"
	"github.com/nathannncurtis/Study-Aggregator/internal/services"
	"github.com/nathannncurtis/Study-Aggregator/internal/services/sevenzip"
)

// maxPasswordAttempts bounds interactive re-prompting after a wrong
// password.
const maxPasswordAttempts = 3

func newScanCommand(cmdCtx *commandContext) *cobra.Command {
	var (
		passwordFlag string
		jsonFlag     bool
		noInputFlag  bool
		workersFlag  int
	)

	cmd := &cobra.Command{
		Use:   "scan <path>",
		Short: "Scan a directory or zip archive for DICOM studies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, cmdCtx, args[0], scanOptions{
				password: passwordFlag,
				json:     jsonFlag,
				noInput:  noInputFlag,
				workers:  workersFlag,
			})
		},
	}

	cmd.Flags().StringVarP(&passwordFlag, "password", "p", "", "Password for encrypted archives")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit the report as JSON")
	cmd.Flags().BoolVar(&noInputFlag, "no-input", false, "Never prompt; skip archives that need a password")
	cmd.Flags().IntVar(&workersFlag, "workers", 0, "Override the classification worker count")
	return cmd
}

type scanOptions struct {
	password string
	json     bool
	noInput  bool
	workers  int
}

func runScan(cmd *cobra.Command, cmdCtx *commandContext, inputPath string, opts scanOptions) error {
	cfg, err := cmdCtx.ensureConfig()
	if err != nil {
		return err
	}

	logger, closeLogs := cmdCtx.buildLogger(cfg)
	defer closeLogs()

	workers := opts.workers
	if workers <= 0 {
		workers = cfg.Scan.MaxWorkers
	}
	workers = preflight.ResolveWorkers(workers)

	var sevenZip *sevenzip.Client
	if binary := sevenzip.Discover(cfg.SevenZip.Binary); binary != "" {
		client, clientErr := sevenzip.New(binary, cfg.SevenZip.TimeoutSeconds)
		if clientErr == nil {
			sevenZip = client
		}
	}

	metadata := dicom.NewExtractor(cfg.Scan.CacheSize, logger)
	archives := archive.NewExtractor(archive.Options{
		ScratchRoot: cfg.Paths.ScratchDir,
		MaxDepth:    cfg.Scan.MaxDepth,
		Workers:     workers,
		SevenZip:    sevenZip,
		Metadata:    metadata,
		Logger:      logger,
	})

	var recorder aggregate.Recorder
	if cfg.Journal.Enabled {
		store, journalErr := journal.Open(cfg.Paths.JournalPath, logger)
		if journalErr != nil {
			logger.Warn("journal disabled for this run", logging.Error(journalErr))
		} else {
			defer store.Close()
			recorder = store
		}
	}

	broker := aggregate.NewCredentialBroker(time.Duration(cfg.Scan.CredentialWaitSeconds) * time.Second)

	stderr := cmd.ErrOrStderr()
	showProgress := !opts.json && isInteractive(os.Stderr.Fd())
	pipeline := aggregate.NewPipeline(aggregate.Options{
		Archives: archives,
		Metadata: metadata,
		Workers:  workers,
		Broker:   broker,
		Recorder: recorder,
		Progress: func(percent int, message string) {
			if !showProgress {
				return
			}
			if percent == aggregate.AwaitingCredential {
				return
			}
			fmt.Fprintf(stderr, "[%3d%%] %s\n", percent, message)
		},
		Logger: logger,
	})

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	go servePasswordPrompts(ctx, broker, opts)

	canRetry := opts.password == "" && !opts.noInput && isInteractive(os.Stdin.Fd())
	for attempt := 1; ; attempt++ {
		registry, runErr := pipeline.Run(ctx, inputPath)
		if runErr != nil {
			if errors.Is(runErr, services.ErrWrongPassword) && canRetry && attempt < maxPasswordAttempts {
				fmt.Fprintln(stderr, "Wrong password, try again.")
				continue
			}
			return runErr
		}
		if opts.json {
			return writeJSONReport(cmd.OutOrStdout(), registry)
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderReport(registry))
		return nil
	}
}

// servePasswordPrompts answers credential requests for the lifetime of the
// scan: with the preset password when one was given, interactively when
// stdin is a terminal, and by declining otherwise.
func servePasswordPrompts(ctx context.Context, broker *aggregate.CredentialBroker, opts scanOptions) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-broker.Requests():
			switch {
			case opts.password != "":
				req.Respond(opts.password)
			case opts.noInput || !isInteractive(os.Stdin.Fd()):
				req.Cancel()
			default:
				password, err := promptPassword(req.Prompt)
				if err != nil {
					req.Cancel()
					continue
				}
				req.Respond(password)
			}
		}
	}
}

func promptPassword(prompt string) (string, error) {
	fmt.Fprintf(os.Stderr, "%s: ", prompt)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}

func isInteractive(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
