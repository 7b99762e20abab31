package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"segstudio/internal/backend"
	"segstudio/internal/config"
	"segstudio/internal/ui"
	"segstudio/internal/workspace"
)

func main() {
	// Load .env file - try multiple locations
	for _, p := range []string{".env", "../.env"} {
		if err := godotenv.Load(p); err == nil {
			break
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := newLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	logger.Info().
		Str("backend", cfg.Backend.BaseURL).
		Int("split_ratio", cfg.UI.SplitRatio).
		Msg("starting segstudio")

	client := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, logger)
	ws := workspace.New(client, logger)

	program := tea.NewProgram(
		ui.NewModel(ws, cfg.UI.SplitRatio, logger),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := program.Run(); err != nil {
		logger.Error().Err(err).Msg("program failed")
		fmt.Fprintf(os.Stderr, "segstudio: %v\n", err)
		os.Exit(1)
	}

	// Best-effort cleanup of a session still live at exit.
	ws.Reset()
	logger.Info().Msg("segstudio stopped")
}

// newLogger writes to the configured log file; the TUI owns the
// terminal, so stderr is not usable while the program runs.
func newLogger(cfg config.LoggingConfig) (zerolog.Logger, func(), error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, err
	}

	var logger zerolog.Logger
	if cfg.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: f, NoColor: true})
	} else {
		logger = zerolog.New(f)
	}
	logger = logger.With().Timestamp().Logger().Level(level)

	return logger, func() { f.Close() }, nil
}
