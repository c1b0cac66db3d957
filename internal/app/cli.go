package app

import (
	"fmt"
	"strconv"

	"github.com/spf13/pflag"
)

// RegisterFlags registers all CLI flags on the given FlagSet
func RegisterFlags(flags *pflag.FlagSet) {
	flags.BoolP("verbose", "v", false, "Echo progress messages")
	flags.BoolP("recurse", "r", false, "Index subdirectories")
	flags.BoolP("reindex", "i", false, "Rebuild the index even if one exists")
	flags.BoolP("abbrev", "a", false, "List words as a book-style index")
	flags.String("ignore-file", "", "File of words to leave out of the index, one per line")
	flags.Int("min-length", 3, "Index only words longer than this")
	flags.StringSlice("extensions", nil, "Text file extensions to index (comma-separated)")
	flags.String("stop-words", "", "Built-in stop word list: dexter or english")
	flags.Bool("skip-unreadable", false, "Skip files that cannot be read instead of failing")
	flags.Bool("skip-malformed", false, "Skip malformed index records instead of failing")
	flags.String("config-dir", "", "Directory holding dexter.ignore and the config file")
	flags.Duration("lock-timeout", 0, "How long to wait for another process writing the index")
}

// ParseFindArgs parses `<word> [in <path>]`.
func ParseFindArgs(args []string) (word, path string, err error) {
	if len(args) == 0 || args[0] == "" {
		return "", "", fmt.Errorf("missing word")
	}
	word = args[0]

	switch rest := args[1:]; {
	case len(rest) == 0:
		return word, "", nil
	case len(rest) == 2 && rest[0] == "in":
		return word, rest[1], nil
	default:
		return "", "", fmt.Errorf("expected 'in <path>' after the word, got %q", rest)
	}
}

// ParseListArgs parses `[in <path>] [max <count>]`. The count is -1 when not given.
func ParseListArgs(args []string) (path string, count int, err error) {
	count = -1
	seen := make(map[string]bool)

	for i := 0; i < len(args); i += 2 {
		keyword := args[i]
		if keyword != "in" && keyword != "max" {
			return "", 0, fmt.Errorf("unexpected argument %q", keyword)
		}
		if seen[keyword] {
			return "", 0, fmt.Errorf("'%s' given more than once", keyword)
		}
		seen[keyword] = true

		if i+1 >= len(args) {
			return "", 0, fmt.Errorf("'%s' requires a value", keyword)
		}
		value := args[i+1]

		if keyword == "in" {
			path = value
			continue
		}
		count, err = strconv.Atoi(value)
		if err != nil {
			return "", 0, fmt.Errorf("invalid count %q: %w", value, err)
		}
	}

	return path, count, nil
}
