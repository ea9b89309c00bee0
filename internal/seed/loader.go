package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"bistro/internal/model"

	"github.com/rs/zerolog"
)

// Loader reads a menu seed set from some source.
type Loader interface {
	// Load reads and decodes the seed file at path.
	Load(ctx context.Context, path string) ([]model.MenuItem, error)
}

// fileLoader implements Loader for local JSON seed files.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based seed loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "seed-loader").Logger(),
	}
}

// Load reads a JSON seed file containing an array of menu items. Entries
// that would be excluded from listings anyway (empty name, non-positive
// price) or that carry no id are dropped with a warning.
func (l *fileLoader) Load(ctx context.Context, path string) ([]model.MenuItem, error) {
	l.logger.Info().Str("file", path).Msg("loading menu seed file")

	data, err := os.ReadFile(path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to read seed file")
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}

	items, err := decodeSeed(data)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to decode seed file")
		return nil, fmt.Errorf("failed to decode seed file %s: %w", path, err)
	}

	valid := filterValid(items, l.logger)

	l.logger.Info().
		Str("file", path).
		Int("items_loaded", len(valid)).
		Msg("menu seed file loaded")

	return valid, nil
}

// decodeSeed parses a JSON array of menu items.
func decodeSeed(data []byte) ([]model.MenuItem, error) {
	var items []model.MenuItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// filterValid drops entries without an id or failing the listing validity
// rule, logging each rejection.
func filterValid(items []model.MenuItem, logger zerolog.Logger) []model.MenuItem {
	valid := make([]model.MenuItem, 0, len(items))
	for _, item := range items {
		if item.ID == "" || !item.IsValid() {
			logger.Warn().
				Str("id", item.ID).
				Str("name", item.Name).
				Msg("skipping invalid seed entry")
			continue
		}
		valid = append(valid, item)
	}
	return valid
}
