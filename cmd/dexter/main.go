package main

import (
	"context"
	"os"

	"github.com/sha1n/dexter/internal/app"
	"github.com/spf13/cobra"
)

var (
	// Version is injected at build time
	Version = "dev"
	// Build is injected at build time
	Build = "unknown"
	// ProgramName is injected at build time
	ProgramName = "dexter"
)

func main() {
	runMain(os.Args, os.Exit)
}

func runMain(args []string, exit func(int)) {
	if err := Execute(Version, Build, ProgramName, args[1:]); err != nil {
		exit(1)
	}
}

// Execute is the entry point for the CLI, extracted for testing
func Execute(version, build, programName string, args []string) error {
	rootCmd := newRootCommand(version, programName, app.DefaultRunParams())
	rootCmd.SetArgs(args)

	if err := rootCmd.Execute(); err != nil {
		app.PrintError(rootCmd.ErrOrStderr(), err)
		return err
	}
	return nil
}

func newRootCommand(version, programName string, params app.RunParams) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           programName,
		Short:         "Text file concordance indexer",
		Long:          "Dexter indexes the words of the text files in a directory and finds the lines they occur on.",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.SetVersionTemplate(`{{.Version}}
`)

	app.RegisterFlags(rootCmd.PersistentFlags())

	ctx := context.Background()

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "index [path]",
			Short: "Create the index file of a directory",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return app.RunIndex(ctx, params, cmd.Flags(), firstArg(args))
			},
		},
		&cobra.Command{
			Use:   "find <word> [in <path>]",
			Short: "Find the files and lines a word occurs on",
			Args:  cobra.RangeArgs(1, 3),
			RunE: func(cmd *cobra.Command, args []string) error {
				return app.RunFind(ctx, params, cmd.Flags(), args)
			},
		},
		&cobra.Command{
			Use:   "list [in <path>] [max <count>]",
			Short: "List the indexed words in alphabetical order",
			Args:  cobra.MaximumNArgs(4),
			RunE: func(cmd *cobra.Command, args []string) error {
				return app.RunList(ctx, params, cmd.Flags(), args)
			},
		},
		&cobra.Command{
			Use:   "serve [path]",
			Short: "Serve the index over MCP on stdio",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return app.RunServe(ctx, params, cmd.Flags(), firstArg(args), version)
			},
		},
	)

	return rootCmd
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
