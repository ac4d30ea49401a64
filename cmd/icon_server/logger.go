package main

import (
	"fmt"
	"log/slog"
	"os"
)

// NewFileLogger creates a slog logger writing to the given file
func NewFileLogger(filePath string) (*slog.Logger, error) {
	file, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	logger := slog.New(slog.NewTextHandler(file, opts))

	return logger, nil
}
