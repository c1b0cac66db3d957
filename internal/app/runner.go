package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sha1n/dexter/internal/config"
	mcputil "github.com/sha1n/dexter/internal/mcp"
	"github.com/sha1n/dexter/internal/wordindex"
	"github.com/spf13/pflag"
)

// RunParams contains dependencies for the run functions
type RunParams struct {
	LoadSettings      func(*pflag.FlagSet) (*config.Settings, error)
	ValidSettings     func(*config.Settings) error
	Stdout            io.Writer
	Stderr            io.Writer
	CustomIOTransport mcp.Transport // Optional: for testing with custom IO
}

// DefaultRunParams returns production dependencies
func DefaultRunParams() RunParams {
	return RunParams{
		LoadSettings:  config.LoadSettingsWithFlags,
		ValidSettings: config.ValidateSettings,
		Stdout:        os.Stdout,
		Stderr:        os.Stderr,
	}
}

func (p RunParams) stdout() io.Writer {
	if p.Stdout == nil {
		return os.Stdout
	}
	return p.Stdout
}

func (p RunParams) stderr() io.Writer {
	if p.Stderr == nil {
		return os.Stderr
	}
	return p.Stderr
}

// RunIndex builds and saves the index of path.
func RunIndex(ctx context.Context, params RunParams, flags *pflag.FlagSet, path string) error {
	svc, err := newService(params, flags, path)
	if err != nil {
		return err
	}

	_, err = svc.Build(ctx)
	return err
}

// RunFind runs `find <word> [in <path>]`. A word that is not indexed is
// reported on stdout and is not an error.
func RunFind(ctx context.Context, params RunParams, flags *pflag.FlagSet, args []string) error {
	word, path, err := ParseFindArgs(args)
	if err != nil {
		return err
	}

	svc, err := newService(params, flags, path)
	if err != nil {
		return err
	}

	err = svc.Find(ctx, params.stdout(), word)
	if errors.Is(err, wordindex.ErrWordNotFound) {
		_, err = fmt.Fprintf(params.stdout(), "'%s' not found\n", word)
	}
	return err
}

// RunList runs `list [in <path>] [max <count>]`.
func RunList(ctx context.Context, params RunParams, flags *pflag.FlagSet, args []string) error {
	path, count, err := ParseListArgs(args)
	if err != nil {
		return err
	}

	svc, err := newService(params, flags, path)
	if err != nil {
		return err
	}

	_, err = svc.List(ctx, params.stdout(), count)
	return err
}

// RunServe resolves the index of path and serves it over MCP until ctx is
// done or the client disconnects.
func RunServe(ctx context.Context, params RunParams, flags *pflag.FlagSet, path, version string) error {
	svc, err := newService(params, flags, path)
	if err != nil {
		return err
	}

	if err := svc.Initialize(ctx); err != nil {
		return err
	}

	server := mcputil.CreateServer(mcputil.ServerConfig{
		Name:    "dexter",
		Version: version,
		Service: svc,
	})

	// Use custom transport if provided (for testing), otherwise use stdio
	transport := params.CustomIOTransport
	if transport == nil {
		transport = &mcp.StdioTransport{}
	}
	slog.Info("Starting MCP server", "path", svc.Dir(), "version", version)
	return server.Run(ctx, transport)
}

// PrintError writes a user-facing message for err.
func PrintError(w io.Writer, err error) {
	var pathErr *wordindex.PathError
	if errors.As(err, &pathErr) {
		_, _ = fmt.Fprintf(w, "Path not found: %s\n", pathErr.Path)
		return
	}
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
}

// NewLogger returns a text logger writing to w. Progress messages are only
// shown when verbose is set.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// newService loads settings, configures logging and creates the service for path.
func newService(params RunParams, flags *pflag.FlagSet, path string) (*wordindex.Service, error) {
	settings, err := params.LoadSettings(flags)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	// Validate settings for conflicting configurations
	if err := params.ValidSettings(settings); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := NewLogger(params.stderr(), settings.Verbose)
	slog.SetDefault(logger)
	config.Log(settings)

	return wordindex.NewService(resolvePath(path), settings, logger)
}

// resolvePath defaults an empty path to the working directory.
func resolvePath(path string) string {
	if path != "" {
		return path
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}
