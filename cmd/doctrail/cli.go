package main

import (
	"context"
	"io"

	"github.com/doctrail/doctrail"
	"github.com/doctrail/doctrail/pipeline"
	"github.com/doctrail/doctrail/rag"
	"github.com/doctrail/doctrail/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	DB      *sqlite.DB
	Lineage doctrail.LineageService
	Store   doctrail.DocumentStore

	Scraper  *pipeline.Scraper
	Parser   *pipeline.Parser
	Embedder *pipeline.Embedder
	Engine   *rag.Engine

	// closers are command-specific resources released after the run.
	closers []io.Closer
}

// closeWired releases command-specific resources in reverse order.
func (d *Dependencies) closeWired() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		_ = d.closers[i].Close()
	}
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging"`

	Scrape ScrapeCmd `cmd:"" help:"Scrape a documentation site into the lineage graph"`
	Parse  ParseCmd  `cmd:"" help:"Parse scraped documents to markdown"`
	Embed  EmbedCmd  `cmd:"" help:"Chunk and index parsed documents"`
	Ask    AskCmd    `cmd:"" help:"Ask a question about the indexed documentation"`
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	Name    string   `arg:"" help:"Site name"`
	URL     string   `arg:"" help:"Documentation URL"`
	Filter  []string `short:"F" name:"filter" help:"Include URLs matching regex (repeatable)"`
	Exclude []string `short:"X" name:"exclude" help:"Exclude URLs matching regex (repeatable)"`
	Links   bool     `short:"l" help:"Write discovered links to a links.txt file"`
	Static  bool     `short:"s" help:"Fetch over plain HTTP instead of a headless browser"`
	Rate    float64  `short:"r" default:"1.0" help:"Max requests per second per domain"`
}

// ParseCmd is the "parse" subcommand.
type ParseCmd struct {
	Site      string `arg:"" optional:"" help:"Parse every leaf of this site"`
	ID        string `help:"Parse a single node by id"`
	Extractor string `default:"trafilatura" enum:"trafilatura,readability" help:"Main content extractor for HTML documents"`
}

// EmbedCmd is the "embed" subcommand.
type EmbedCmd struct {
	Site string `arg:"" optional:"" help:"Embed every leaf of this site"`
	ID   string `help:"Embed a single node by id"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Question string `arg:"" help:"Question to ask about the documentation"`
	Backend  string `default:"ollama" enum:"ollama,gemini" help:"Chat backend"`
	Model    string `help:"Override the backend's default model"`
	TopK     int    `default:"5" help:"Number of context chunks to retrieve"`
	Sources  bool   `help:"Print the retrieved context chunks after the answer"`
}
