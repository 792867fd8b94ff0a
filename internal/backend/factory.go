package backend

import (
	"context"
	"fmt"
	"log/slog"

	"moneymanagement/internal/remote/google"
	"moneymanagement/internal/remote/memory"
)

// DefaultFactory implements the Factory interface.
type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateMirror builds the configured mirror adapter. With NoMirror the
// result carries a nil Mirror and the worker has nothing to do.
func (f *DefaultFactory) CreateMirror(ctx context.Context, config Config) (*MirrorResult, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid mirror type: %s", config.Type)
	}

	switch config.Type {
	case SheetsMirror:
		cli, err := google.NewFromEnv(ctx)
		if err != nil {
			return nil, fmt.Errorf("initialize Google Sheets mirror: %w", err)
		}
		f.logger.Info("Initialized Google Sheets mirror",
			"spreadsheet_id", config.GoogleSpreadsheetID)
		return &MirrorResult{Mirror: cli}, nil

	case MemoryMirror:
		f.logger.Info("Initialized memory mirror")
		return &MirrorResult{Mirror: memory.New()}, nil

	case NoMirror:
		f.logger.Info("Mirroring disabled")
		return &MirrorResult{}, nil

	default:
		return nil, fmt.Errorf("unsupported mirror type: %s", config.Type)
	}
}
