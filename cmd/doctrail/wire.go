package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/doctrail/doctrail"
	"github.com/doctrail/doctrail/bleve"
	"github.com/doctrail/doctrail/gemini"
	doctrailhttp "github.com/doctrail/doctrail/http"
	"github.com/doctrail/doctrail/htmltomarkdown"
	"github.com/doctrail/doctrail/ollama"
	"github.com/doctrail/doctrail/pipeline"
	"github.com/doctrail/doctrail/rag"
	"github.com/doctrail/doctrail/readability"
	"github.com/doctrail/doctrail/rod"
	doctrailslog "github.com/doctrail/doctrail/slog"
	"github.com/doctrail/doctrail/trafilatura"
	"google.golang.org/genai"
)

// wire sets up command-specific dependencies.
func (m *Main) wire(ctx context.Context, cmd string, cli *CLI, deps *Dependencies, logger *slog.Logger, stderr io.Writer) error {
	switch cmd {
	case "scrape":
		var fetcher doctrail.PageFetcher
		ext := pipeline.DefaultDocExt
		if cli.Scrape.Static {
			httpFetcher := doctrailhttp.NewFetcher()
			deps.closers = append(deps.closers, httpFetcher)
			fetcher = httpFetcher
			ext = ".html"
		} else {
			rodFetcher, err := rod.NewFetcher()
			if err != nil {
				fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
				return fmt.Errorf("failed to start browser: %w", err)
			}
			deps.closers = append(deps.closers, rodFetcher)
			fetcher = rodFetcher
		}

		deps.Scraper = &pipeline.Scraper{
			Lineage:     deps.Lineage,
			Fetcher:     doctrailslog.NewLoggingPageFetcher(fetcher, logger),
			Store:       deps.Store,
			Sitemaps:    doctrailslog.NewLoggingSitemapService(doctrailhttp.NewSitemapService(nil), logger),
			Limiter:     pipeline.NewDomainLimiter(cli.Scrape.Rate),
			StorageRoot: m.StorageRoot,
			DocExt:      ext,
		}

	case "parse":
		var extractor doctrail.Extractor = trafilatura.NewExtractor()
		if cli.Parse.Extractor == "readability" {
			extractor = readability.NewExtractor()
		}
		deps.Parser = &pipeline.Parser{
			Lineage: deps.Lineage,
			Store:   deps.Store,
			Converter: newAutoConverter(
				htmltomarkdown.NewConverter(htmltomarkdown.WithExtractor(extractor)),
			),
			StorageRoot: m.StorageRoot,
		}

	case "embed":
		index, err := bleve.NewIndex(m.IndexPath)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Set DOCTRAIL_INDEX to use a different index path")
			return err
		}
		deps.closers = append(deps.closers, index)

		deps.Embedder = &pipeline.Embedder{
			Lineage: deps.Lineage,
			Store:   deps.Store,
			Index:   index,
		}

	case "ask":
		index, err := bleve.NewIndex(m.IndexPath)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Run 'doctrail embed' before asking questions")
			return err
		}
		deps.closers = append(deps.closers, index)

		chat, err := newChatService(ctx, cli.Ask, stderr)
		if err != nil {
			return err
		}

		deps.Engine = &rag.Engine{
			Index: index,
			Chat:  chat,
			TopK:  cli.Ask.TopK,
		}
	}

	return nil
}

// newChatService builds the chat backend selected on the ask command.
func newChatService(ctx context.Context, cmd AskCmd, stderr io.Writer) (doctrail.ChatService, error) {
	switch cmd.Backend {
	case "gemini":
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
			return nil, fmt.Errorf("GEMINI_API_KEY not set")
		}

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}

		var opts []gemini.Option
		if cmd.Model != "" {
			opts = append(opts, gemini.WithModel(cmd.Model))
		}
		return gemini.NewChatService(client, opts...), nil

	default:
		var opts []ollama.Option
		if url := os.Getenv("OLLAMA_HOST"); url != "" {
			opts = append(opts, ollama.WithBaseURL(url))
		}
		if cmd.Model != "" {
			opts = append(opts, ollama.WithModel(cmd.Model))
		}
		return ollama.NewChatService(opts...), nil
	}
}
