package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/govalues/decimal"

	"github.com/vladislavdragonenkov/foodorder/internal/domain"
)

type menuCatalog struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

// NewMenuCatalog создаёт PostgreSQL-реализацию MenuCatalog.
func NewMenuCatalog(store *Store) domain.MenuCatalog {
	return &menuCatalog{db: store.DB(), builder: store.builder}
}

func (c *menuCatalog) FindByIDs(ctx context.Context, ids []string) (map[string]domain.MenuItem, error) {
	result := make(map[string]domain.MenuItem, len(ids))

	// Ключи результата совпадают с исходными строками запроса.
	requested := make(map[string][]string, len(ids))
	valid := make([]string, 0, len(ids))
	for _, raw := range ids {
		id, ok := parseID(raw)
		if !ok {
			continue
		}
		if _, seen := requested[id]; !seen {
			valid = append(valid, id)
		}
		requested[id] = append(requested[id], raw)
	}
	if len(valid) == 0 {
		return result, nil
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	query, args, err := c.selectItems().Where(sq.Eq{"id": valid}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find menu items: %w", err)
	}
	items, err := c.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		for _, raw := range requested[item.ID] {
			result[raw] = item
		}
	}
	return result, nil
}

func (c *menuCatalog) Get(ctx context.Context, id string) (domain.MenuItem, error) {
	itemID, ok := parseID(id)
	if !ok {
		return domain.MenuItem{}, domain.ErrMenuItemNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	query, args, err := c.selectItems().Where(sq.Eq{"id": itemID}).ToSql()
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("build get menu item: %w", err)
	}
	items, err := c.query(ctx, query, args...)
	if err != nil {
		return domain.MenuItem{}, err
	}
	if len(items) == 0 {
		return domain.MenuItem{}, domain.ErrMenuItemNotFound
	}
	return items[0], nil
}

func (c *menuCatalog) List(ctx context.Context, q domain.MenuQuery) ([]domain.MenuItem, error) {
	q = q.Normalize()

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	builder := c.selectItems().
		OrderBy("name ASC", "id ASC").
		Limit(uint64(q.Limit)).
		Offset(uint64(q.Offset))
	if search := strings.TrimSpace(q.Search); search != "" {
		builder = builder.Where(sq.ILike{"name": "%" + escapeLike(search) + "%"})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list menu: %w", err)
	}
	return c.query(ctx, query, args...)
}

func (c *menuCatalog) Create(ctx context.Context, item domain.MenuItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	itemID, ok := parseID(item.ID)
	if !ok {
		return domain.NewFailure(domain.ErrInvalidField, "Invalid menu item", "Item id must be a UUID")
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	query, args, err := c.builder.Insert("menu_items").
		Columns("id", "name", "cost", "image_url").
		Values(itemID, item.Name, sq.Expr("?::numeric", item.Cost.String()), item.ImageURL).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert menu item: %w", err)
	}
	if _, err := c.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.NewFailure(domain.ErrInvalidField, "Invalid menu item", "Item id already exists")
		}
		return fmt.Errorf("insert menu item: %w", err)
	}
	return nil
}

func (c *menuCatalog) selectItems() sq.SelectBuilder {
	return c.builder.Select("id::text", "name", "cost::text", "image_url").From("menu_items")
}

func (c *menuCatalog) query(ctx context.Context, query string, args ...any) ([]domain.MenuItem, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query menu items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.MenuItem, 0)
	for rows.Next() {
		var (
			item domain.MenuItem
			cost string
		)
		if err := rows.Scan(&item.ID, &item.Name, &cost, &item.ImageURL); err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		if item.Cost, err = decimal.Parse(cost); err != nil {
			return nil, fmt.Errorf("parse cost of menu item %s: %w", item.ID, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate menu items: %w", err)
	}
	return items, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var _ domain.MenuCatalog = (*menuCatalog)(nil)
