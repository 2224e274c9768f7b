package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/govalues/decimal"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/vladislavdragonenkov/foodorder/internal/domain"
)

// menuSeedFile - формат YAML-файла начального меню.
type menuSeedFile struct {
	Items []menuSeedItem `yaml:"items"`
}

type menuSeedItem struct {
	// ID обязателен, чтобы повторный запуск не создавал дубликаты.
	// Для postgres это должен быть UUID.
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Cost     string `yaml:"cost"`
	ImageURL string `yaml:"imageUrl"`
}

// loadMenuSeed читает и проверяет файл начального меню.
func loadMenuSeed(path string) ([]domain.MenuItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read menu seed %s: %w", path, err)
	}
	return parseMenuSeed(data)
}

func parseMenuSeed(data []byte) ([]domain.MenuItem, error) {
	var file menuSeedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse menu seed: %w", err)
	}

	items := make([]domain.MenuItem, 0, len(file.Items))
	seen := make(map[string]struct{}, len(file.Items))
	for i, raw := range file.Items {
		id := strings.TrimSpace(raw.ID)
		if id == "" {
			return nil, fmt.Errorf("menu seed item %d: id is required", i)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("menu seed item %d: duplicate id %s", i, id)
		}
		seen[id] = struct{}{}

		cost, err := decimal.Parse(strings.TrimSpace(raw.Cost))
		if err != nil {
			return nil, fmt.Errorf("menu seed item %s: parse cost %q: %w", id, raw.Cost, err)
		}
		item := domain.MenuItem{
			ID:       id,
			Name:     strings.TrimSpace(raw.Name),
			Cost:     cost,
			ImageURL: strings.TrimSpace(raw.ImageURL),
		}
		if errs := item.Validate(); len(errs) > 0 {
			return nil, fmt.Errorf("menu seed item %s: %w", id, errors.Join(errs...))
		}
		items = append(items, item)
	}
	return items, nil
}

// seedMenu добавляет отсутствующие позиции; существующие не изменяются.
func seedMenu(ctx context.Context, catalog domain.MenuCatalog, items []domain.MenuItem, logger *log.Entry) error {
	created := 0
	for _, item := range items {
		_, err := catalog.Get(ctx, item.ID)
		switch {
		case err == nil:
			continue
		case !errors.Is(err, domain.ErrMenuItemNotFound):
			return fmt.Errorf("look up menu item %s: %w", item.ID, err)
		}
		if err := catalog.Create(ctx, item); err != nil {
			return fmt.Errorf("seed menu item %s: %w", item.ID, err)
		}
		created++
	}
	logger.WithFields(log.Fields{"total": len(items), "created": created}).Info("menu seed applied")
	return nil
}
