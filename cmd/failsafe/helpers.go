package main

import (
	"errors"
	"fmt"
	"strconv"

	"failsafe/internal/format"
	"failsafe/internal/store"
)

// errReported marks a failure whose message the command already printed.
var errReported = errors.New("failure already reported")

// tableMode returns the --table format unless markdown forces Markdown.
func tableMode(markdown bool) format.Mode {
	if markdown {
		return format.Markdown
	}
	return tableFormat
}

func openStore() (*store.SqlStore, error) {
	st, err := store.Open(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

func parseRunID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("run id must be a positive integer, got %q", s)
	}
	return id, nil
}
