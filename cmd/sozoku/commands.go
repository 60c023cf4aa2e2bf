package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hyperjump/sozoku/internal/cli"
	"github.com/hyperjump/sozoku/internal/config"
	"github.com/hyperjump/sozoku/internal/prompt"
	"github.com/hyperjump/sozoku/internal/scrape"
	"github.com/hyperjump/sozoku/internal/server"
	"github.com/hyperjump/sozoku/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func newFetcher(cfg *config.Config, logger *zap.Logger) *scrape.Fetcher {
	return scrape.NewFetcher(cfg.Scrape.Timeout, cfg.Scrape.Delay,
		scrape.WithLogger(logger),
		scrape.WithUserAgent(cfg.Scrape.UserAgent))
}

func createLinksCommand(opts *rootOptions) *cobra.Command {
	var seedURL, filter, out string
	cmd := &cobra.Command{
		Use:   "links",
		Short: "Collect circular page links from the seed page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.setup()
			if err != nil {
				return err
			}
			defer logger.Sync()
			if seedURL == "" {
				seedURL = cfg.Scrape.SeedURL
			}
			if filter == "" {
				filter = cfg.Scrape.Filter
			}
			if out == "" {
				out = cfg.Storage.LinksPath
			}

			ctx, cancel := signalContext()
			defer cancel()
			links, err := scrape.NewCollector(newFetcher(cfg, logger), logger).Run(ctx, seedURL, filter, out)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Collected %d links into %s\n", len(links), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&seedURL, "seed", "", "seed page URL (default from config)")
	cmd.Flags().StringVar(&filter, "filter", "", "substring a link must contain (default from config)")
	cmd.Flags().StringVarP(&out, "output", "o", "", "links file (default from config)")
	return cmd
}

func createScrapeCommand(opts *rootOptions) *cobra.Command {
	var in, out string
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Fetch every collected page and write heading/paragraph records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.setup()
			if err != nil {
				return err
			}
			defer logger.Sync()
			if in == "" {
				in = cfg.Storage.LinksPath
			}
			if out == "" {
				out = cfg.Storage.CSVPath
			}

			ctx, cancel := signalContext()
			defer cancel()
			scraper := scrape.NewScraper(newFetcher(cfg, logger), scrape.NewExtractor(cfg.Scrape.HeadingTags...), logger)
			n, err := scraper.Run(ctx, in, out)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d records into %s\n", n, out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&in, "input", "i", "", "links file (default from config)")
	cmd.Flags().StringVarP(&out, "output", "o", "", "records CSV (default from config)")
	return cmd
}

func createIndexCommand(opts *rootOptions) *cobra.Command {
	var in string
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Rebuild the vector index from the records CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.setup()
			if err != nil {
				return err
			}
			defer logger.Sync()
			if in == "" {
				in = cfg.Storage.CSVPath
			}

			ctx, cancel := signalContext()
			defer cancel()
			components, err := initializeComponents(ctx, cfg, logger, componentSet{rebuild: true})
			if err != nil {
				return err
			}
			defer components.Close()

			builder, err := newBuilder(cfg, components, logger)
			if err != nil {
				return err
			}
			stats, err := builder.Build(ctx, in)
			if err != nil {
				return fmt.Errorf("index build failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d records as %d chunks from %d sources in %s\n",
				stats.Records, stats.Chunks, stats.Sources, stats.Duration.Round(time.Millisecond))
			return nil
		},
	}
	cmd.Flags().StringVarP(&in, "input", "i", "", "records CSV (default from config)")
	return cmd
}

// chat modes
const (
	modePlain      = "plain"
	modeExpert     = "expert"
	modeStructured = "structured"
	modeClassify   = "classify"
)

func chatModes() []string {
	return []string{modePlain, modeExpert, modeStructured, modeClassify}
}

// templateFor returns the free-text template a chat mode answers with, or ""
// to keep the configured one.
func templateFor(mode string) (prompt.Kind, error) {
	switch mode {
	case "":
		return "", nil
	case modePlain:
		return prompt.Plain, nil
	case modeExpert:
		return prompt.Expert, nil
	case modeStructured, modeClassify:
		// these modes carry their own prompts
		return "", nil
	default:
		return "", fmt.Errorf("unknown mode %q (supported: %s)", mode, strings.Join(chatModes(), ", "))
	}
}

func responderFor(mode string, stream bool, c *Components) cli.Responder {
	switch mode {
	case modeStructured:
		return cli.StructuredResponder{Service: c.Service}
	case modeClassify:
		return cli.ClassifyResponder{Classifier: c.Classifier}
	default:
		return cli.AnswerResponder{Service: c.Service, Stream: stream}
	}
}

func runREPL(opts *rootOptions, cmd *cobra.Command, mode string, stream bool, args []string) error {
	template, err := templateFor(mode)
	if err != nil {
		return err
	}
	cfg, logger, err := opts.setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, cancel := signalContext()
	defer cancel()
	components, err := initializeComponents(ctx, cfg, logger, componentSet{generator: true, template: template})
	if err != nil {
		return err
	}
	defer components.Close()
	if components.VectorIndex.Size() == 0 && mode != modeClassify {
		logger.Warn("vector index is empty; run `sozoku index` first")
	}

	responder := responderFor(mode, stream, components)
	out := cmd.OutOrStdout()
	if len(args) > 0 {
		if err := responder.Respond(ctx, strings.Join(args, " "), out); err != nil {
			return err
		}
		fmt.Fprintln(out)
		return nil
	}
	return cli.NewREPL(cmd.InOrStdin(), out, responder).Run(ctx)
}

func createChatCommand(opts *rootOptions) *cobra.Command {
	var mode string
	var stream bool
	cmd := &cobra.Command{
		Use:   "chat [question]",
		Short: "Ask questions interactively, or once when a question is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(opts, cmd, mode, stream, args)
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "answer mode: "+strings.Join(chatModes(), ", ")+" (default: retrieval.template)")
	cmd.Flags().BoolVarP(&stream, "stream", "s", false, "print the answer as it is generated")
	return cmd
}

func createClassifyCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "classify [question]",
		Short: "Score questions against income, corporate and inheritance tax",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(opts, cmd, modeClassify, false, args)
		},
	}
}

func createServeCommand(opts *rootOptions) *cobra.Command {
	var host string
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP chat server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.setup()
			if err != nil {
				return err
			}
			defer logger.Sync()
			if host != "" {
				cfg.Server.Host = host
			}
			if port > 0 {
				cfg.Server.Port = port
			}

			ctx, cancel := signalContext()
			defer cancel()
			components, err := initializeComponents(ctx, cfg, logger, componentSet{generator: true})
			if err != nil {
				return err
			}
			defer components.Close()

			srv := server.NewServer(components.Service, components.Classifier, components.Storage, components.Engine, cfg, logger)
			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}
			logger.Info("Shutting down...")
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			return srv.Stop(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "listen host (default from config)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (default from config)")
	return cmd
}

func createStatusCommand(opts *rootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show index and storage status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format := cli.OutputFormat(output)
			if format != cli.OutputText && format != cli.OutputJSON {
				return errors.New("output must be text or json")
			}
			cfg, logger, err := opts.setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, cancel := signalContext()
			defer cancel()
			components, err := initializeComponents(ctx, cfg, logger, componentSet{})
			if err != nil {
				return err
			}
			defer components.Close()

			st, err := indexStatus(ctx, cfg, components)
			if err != nil {
				return err
			}
			return cli.WriteStatus(cmd.OutOrStdout(), st, format)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", string(cli.OutputText), "output format: text or json")
	return cmd
}

func indexStatus(ctx context.Context, cfg *config.Config, c *Components) (*cli.IndexStatus, error) {
	chunks, err := c.Storage.CountChunks(ctx)
	if err != nil {
		return nil, fmt.Errorf("count chunks: %w", err)
	}
	sources, err := c.Storage.ListSources(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	disk, err := storage.DiskUsageBytes(cfg.Storage.IndexPath)
	if err != nil {
		return nil, fmt.Errorf("disk usage: %w", err)
	}
	return &cli.IndexStatus{
		IndexPath:       cfg.Storage.IndexPath,
		Chunks:          chunks,
		Sources:         len(sources),
		VectorIndexSize: c.Engine.IndexSize(),
		VectorIndexType: c.Engine.IndexType(),
		DiskUsageBytes:  disk,
		EmbeddingModel:  cfg.Embedding.Provider + "/" + cfg.Embedding.Model,
		LLMModel:        cfg.LLM.Provider + "/" + cfg.LLM.Model,
	}, nil
}

func createVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sozoku version %s\n", version)
		},
	}
}
