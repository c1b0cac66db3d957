package app

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterFlags(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(flags)

	expectedFlags := []string{
		"verbose",
		"recurse",
		"reindex",
		"abbrev",
		"ignore-file",
		"min-length",
		"extensions",
		"stop-words",
		"skip-unreadable",
		"skip-malformed",
		"config-dir",
		"lock-timeout",
	}

	for _, name := range expectedFlags {
		assert.NotNil(t, flags.Lookup(name), "expected flag %q to be registered", name)
	}
}

func TestRegisterFlags_Shorthand(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(flags)

	shorthandFlags := map[string]string{
		"verbose": "v",
		"recurse": "r",
		"reindex": "i",
		"abbrev":  "a",
	}

	for name, shorthand := range shorthandFlags {
		flag := flags.Lookup(name)
		require.NotNil(t, flag, "flag %q not found", name)
		assert.Equal(t, shorthand, flag.Shorthand, "flag %q", name)
	}
}

func TestRegisterFlags_SetValues(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(flags)

	err := flags.Parse([]string{
		"-vri",
		"--min-length", "5",
		"--extensions", ".txt,.md",
		"--lock-timeout", "3s",
	})
	require.NoError(t, err)

	verbose, _ := flags.GetBool("verbose")
	recurse, _ := flags.GetBool("recurse")
	reindex, _ := flags.GetBool("reindex")
	abbrev, _ := flags.GetBool("abbrev")
	minLength, _ := flags.GetInt("min-length")
	extensions, _ := flags.GetStringSlice("extensions")
	lockTimeout, _ := flags.GetDuration("lock-timeout")

	assert.True(t, verbose)
	assert.True(t, recurse)
	assert.True(t, reindex)
	assert.False(t, abbrev)
	assert.Equal(t, 5, minLength)
	assert.Equal(t, []string{".txt", ".md"}, extensions)
	assert.Equal(t, 3*time.Second, lockTimeout)
}

func TestParseFindArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantWord string
		wantPath string
		wantErr  bool
	}{
		{name: "word only", args: []string{"fox"}, wantWord: "fox"},
		{name: "word in path", args: []string{"fox", "in", "/tmp/docs"}, wantWord: "fox", wantPath: "/tmp/docs"},
		{name: "no word", args: nil, wantErr: true},
		{name: "empty word", args: []string{""}, wantErr: true},
		{name: "missing in keyword", args: []string{"fox", "/tmp/docs"}, wantErr: true},
		{name: "in without path", args: []string{"fox", "in"}, wantErr: true},
		{name: "trailing args", args: []string{"fox", "in", "a", "b"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, path, err := ParseFindArgs(tt.args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantWord, word)
			assert.Equal(t, tt.wantPath, path)
		})
	}
}

func TestParseListArgs(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantPath  string
		wantCount int
		wantErr   bool
	}{
		{name: "no args", args: nil, wantCount: -1},
		{name: "path", args: []string{"in", "docs"}, wantPath: "docs", wantCount: -1},
		{name: "count", args: []string{"max", "10"}, wantCount: 10},
		{name: "path and count", args: []string{"in", "docs", "max", "2"}, wantPath: "docs", wantCount: 2},
		{name: "count and path", args: []string{"max", "0", "in", "docs"}, wantPath: "docs", wantCount: 0},
		{name: "bad count", args: []string{"max", "ten"}, wantErr: true},
		{name: "missing value", args: []string{"in"}, wantErr: true},
		{name: "unknown keyword", args: []string{"docs"}, wantErr: true},
		{name: "repeated keyword", args: []string{"in", "a", "in", "b"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, count, err := ParseListArgs(tt.args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, path)
			assert.Equal(t, tt.wantCount, count)
		})
	}
}
