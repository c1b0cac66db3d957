package config

import (
	"context"
	"log/slog"
	"strings"
)

// Log logs the resolved settings in a granular way, skipping irrelevant ones
func Log(s *Settings) {
	LogWithLogger(s, slog.Default())
}

// LogWithLogger logs the resolved settings using the provided logger
func LogWithLogger(s *Settings, logger *slog.Logger) {
	ctx := context.Background()
	logger.InfoContext(ctx, "Config: index.recurse", "value", s.Index.Recurse)
	logger.InfoContext(ctx, "Config: index.extensions", "value", strings.Join(s.Index.Extensions, ","))
	logger.InfoContext(ctx, "Config: index.min_word_length", "value", s.Index.MinWordLength)

	if s.Index.IgnoreFile != "" {
		logger.InfoContext(ctx, "Config: index.ignore_file", "value", s.Index.IgnoreFile)
	} else {
		logger.InfoContext(ctx, "Config: index.stop_words", "value", s.Index.StopWords)
		logger.InfoContext(ctx, "Config: index.config_dir", "value", s.Index.ConfigDir)
	}

	if s.Index.SkipUnreadable {
		logger.InfoContext(ctx, "Config: index.skip_unreadable", "value", true)
	}
	logger.InfoContext(ctx, "Config: index.lock_timeout", "value", s.Index.LockTimeout)

	logger.InfoContext(ctx, "Config: query.reindex", "value", s.Query.Reindex)
	logger.InfoContext(ctx, "Config: query.abbreviate", "value", s.Query.Abbreviate)
	if s.Query.SkipMalformed {
		logger.InfoContext(ctx, "Config: query.skip_malformed", "value", true)
	}
}
