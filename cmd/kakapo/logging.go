package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/kakapo-ui/kakapo/internal/config"
	"github.com/kakapo-ui/kakapo/internal/errors"
)

// newLogger builds the process logger from the config. When the terminal UI
// owns the screen and no log file is configured, logs are discarded.
func newLogger(cfg *config.Config, tui bool) (*slog.Logger, func() error, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, nil, err
	}

	var (
		w       io.Writer = os.Stderr
		closeFn           = func() error { return nil }
	)
	switch {
	case cfg.Log.File != "":
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, errors.New("K040").
				WithDetail("Cannot open log file " + cfg.Log.File).
				Wrap(err)
		}
		w, closeFn = f, f.Close
	case tui:
		w = io.Discard
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler), closeFn, nil
}
