package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/doctrail/doctrail/fs"
	"github.com/doctrail/doctrail/sqlite"
	doctrailslog "github.com/doctrail/doctrail/slog"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// StorageRoot is the base directory for raw and parsed documents.
	StorageRoot string

	// IndexPath is the directory holding the similarity index.
	IndexPath string

	// SQLite database used by the lineage store.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath:      defaultPath("DOCTRAIL_DB", "doctrail.db"),
		StorageRoot: defaultPath("DOCTRAIL_STORAGE", "storage"),
		IndexPath:   defaultPath("DOCTRAIL_INDEX", "doctrail.bleve"),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("doctrail"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'doctrail --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// The selected command comes from the parse, not from args[0], so
	// global flags may precede the command name.
	cmd := strings.Fields(kongCtx.Command())[0]

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set DOCTRAIL_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	deps.DB = m.DB
	deps.Lineage = doctrailslog.NewLoggingLineageService(sqlite.NewLineageService(m.DB), logger)
	deps.Store = fs.NewStore()

	if err := m.wire(ctx, cmd, cli, deps, logger, stderr); err != nil {
		return err
	}
	defer deps.closeWired()

	return kongCtx.Run(deps)
}

// defaultPath resolves a data path from the environment, falling back to
// a file under ~/.doctrail.
func defaultPath(envVar, name string) string {
	if path := os.Getenv(envVar); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	dir := filepath.Join(home, ".doctrail")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, name)
}
