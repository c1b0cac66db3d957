package config

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLog(t *testing.T) {
	// Just verify it doesn't panic
	Log(validSettings())
}

func TestLogWithLogger_DefaultStopWords(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	LogWithLogger(validSettings(), logger)

	output := buf.String()
	assert.Contains(t, output, "index.min_word_length")
	assert.Contains(t, output, "index.stop_words")
	assert.Contains(t, output, "index.config_dir")
	assert.Contains(t, output, "index.lock_timeout")
	assert.NotContains(t, output, "index.ignore_file")
	assert.NotContains(t, output, "skip_unreadable")
}

func TestLogWithLogger_IgnoreFileOverride(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	s := validSettings()
	s.Index.IgnoreFile = "/tmp/words.ignore"
	s.Index.SkipUnreadable = true
	s.Query.SkipMalformed = true
	LogWithLogger(s, logger)

	output := buf.String()
	assert.Contains(t, output, "/tmp/words.ignore")
	assert.NotContains(t, output, "index.stop_words")
	assert.Contains(t, output, "index.skip_unreadable")
	assert.Contains(t, output, "query.skip_malformed")
}
