package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestPgErrorClassification(t *testing.T) {
	wrap := func(code string) error {
		return fmt.Errorf("insert order: %w", &pgconn.PgError{Code: code})
	}

	tests := []struct {
		name    string
		err     error
		unique  bool
		foreign bool
		text    bool
	}{
		{name: "unique", err: wrap(pgerrcode.UniqueViolation), unique: true},
		{name: "foreign key", err: wrap(pgerrcode.ForeignKeyViolation), foreign: true},
		{name: "invalid text", err: wrap(pgerrcode.InvalidTextRepresentation), text: true},
		{name: "other pg error", err: wrap(pgerrcode.SerializationFailure)},
		{name: "plain error", err: errors.New("boom")},
		{name: "nil", err: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isUniqueViolation(tt.err); got != tt.unique {
				t.Errorf("isUniqueViolation = %v", got)
			}
			if got := isForeignKeyViolation(tt.err); got != tt.foreign {
				t.Errorf("isForeignKeyViolation = %v", got)
			}
			if got := isInvalidText(tt.err); got != tt.text {
				t.Errorf("isInvalidText = %v", got)
			}
		})
	}
}

func TestParseID(t *testing.T) {
	id, ok := parseID(" 6F1C2A9E-3D4B-4C5A-8E7F-0A1B2C3D4E01 ")
	if !ok || id != "6f1c2a9e-3d4b-4c5a-8e7f-0a1b2c3d4e01" {
		t.Fatalf("expected normalized uuid, got %q %v", id, ok)
	}
	for _, raw := range []string{"", "ZZZ", "1; DROP TABLE orders"} {
		if _, ok := parseID(raw); ok {
			t.Errorf("%q must be rejected", raw)
		}
	}
}

func TestEscapeLike(t *testing.T) {
	if got := escapeLike(`50%_off\`); got != `50\%\_off\\` {
		t.Fatalf("unexpected escape: %q", got)
	}
}
