package app

import (
	"context"
	"io"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/foodorder/internal/domain"
	"github.com/vladislavdragonenkov/foodorder/internal/storage/memory"
)

func TestParseMenuSeed(t *testing.T) {
	items, err := parseMenuSeed([]byte(`
items:
  - id: a
    name: " Suya "
    cost: "450.50"
    imageUrl: https://img/suya.png
  - id: b
    name: Chapman
    cost: "250"
`))
	if err != nil {
		t.Fatalf("parseMenuSeed failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Name != "Suya" || items[0].Cost.String() != "450.50" || items[0].ImageURL != "https://img/suya.png" {
		t.Fatalf("unexpected first item: %+v", items[0])
	}
}

func TestParseMenuSeed_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"not yaml", "items: [", "parse menu seed"},
		{"missing id", "items:\n  - name: Suya\n    cost: \"1\"\n", "id is required"},
		{"duplicate id", "items:\n  - {id: a, name: A, cost: \"1\"}\n  - {id: a, name: B, cost: \"2\"}\n", "duplicate id"},
		{"bad cost", "items:\n  - {id: a, name: A, cost: cheap}\n", "parse cost"},
		{"zero cost", "items:\n  - {id: a, name: A, cost: \"0\"}\n", domain.ErrMenuCostNotPositive.Error()},
		{"empty name", "items:\n  - {id: a, name: \" \", cost: \"1\"}\n", domain.ErrMenuNameRequired.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseMenuSeed([]byte(tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSeedMenu_KeepsExistingItems(t *testing.T) {
	logger := log.New()
	logger.SetOutput(io.Discard)

	ctx := context.Background()
	existing, err := parseMenuSeed([]byte("items:\n  - {id: a, name: Original, cost: \"1\"}\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	catalog := memory.NewMenuCatalog(existing...)

	seed, err := parseMenuSeed([]byte("items:\n  - {id: a, name: Renamed, cost: \"9\"}\n  - {id: b, name: New, cost: \"2\"}\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := seedMenu(ctx, catalog, seed, log.NewEntry(logger)); err != nil {
		t.Fatalf("seedMenu failed: %v", err)
	}

	kept, err := catalog.Get(ctx, "a")
	if err != nil || kept.Name != "Original" {
		t.Fatalf("existing item must stay untouched: %+v, %v", kept, err)
	}
	if _, err := catalog.Get(ctx, "b"); err != nil {
		t.Fatalf("missing item must be created: %v", err)
	}

	// Повторный seed ничего не меняет.
	if err := seedMenu(ctx, catalog, seed, log.NewEntry(logger)); err != nil {
		t.Fatalf("second seedMenu failed: %v", err)
	}
}
