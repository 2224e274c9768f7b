package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/govalues/decimal"

	"github.com/vladislavdragonenkov/foodorder/internal/domain"
)

// orderColumns общие для всех выборок заказа; позиции склеиваются в строку в
// порядке position, чтобы заказ читался одним запросом.
var orderColumns = []string{
	"o.id::text",
	"o.user_id",
	"o.amount::text",
	"o.address",
	"o.status",
	"o.created_on",
	"COALESCE(string_agg(oi.item_id::text, ',' ORDER BY oi.position), '')",
}

type orderStore struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

// NewOrderStore создаёт PostgreSQL-реализацию OrderStore.
func NewOrderStore(store *Store) domain.OrderStore {
	return &orderStore{db: store.DB(), builder: store.builder}
}

func (s *orderStore) Insert(ctx context.Context, order domain.Order) (_ domain.Order, err error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	orderID, err := uuid.Parse(order.ID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("insert order: malformed id %q: %w", order.ID, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Order{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, user_id, amount, address, status, created_on)
		VALUES ($1, $2, $3::numeric, $4, $5, $6)
	`,
		orderID, order.UserID, order.Amount.String(), order.Address, string(order.Status), order.CreatedOn.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Order{}, domain.ErrOrderAlreadyExists
		}
		return domain.Order{}, fmt.Errorf("insert order: %w", err)
	}

	insertItems := s.builder.Insert("order_items").Columns("order_id", "position", "item_id")
	for position, itemID := range order.ItemIDs {
		insertItems = insertItems.Values(orderID, position, itemID)
	}
	query, args, err := insertItems.ToSql()
	if err != nil {
		return domain.Order{}, fmt.Errorf("build order items insert: %w", err)
	}
	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		if isForeignKeyViolation(err) || isInvalidText(err) {
			err = domain.NewFailure(domain.ErrUnknownItem, "Requested meal does not exist")
			return domain.Order{}, err
		}
		return domain.Order{}, fmt.Errorf("insert order items: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return domain.Order{}, fmt.Errorf("commit insert order: %w", err)
	}

	order.CreatedOn = order.CreatedOn.UTC()
	order.ItemIDs = append([]string(nil), order.ItemIDs...)
	return order, nil
}

func (s *orderStore) Get(ctx context.Context, id string) (domain.Order, error) {
	orderID, ok := parseID(id)
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	query, args, err := s.selectOrders().Where(sq.Eq{"o.id": orderID}).ToSql()
	if err != nil {
		return domain.Order{}, fmt.Errorf("build select order: %w", err)
	}

	var row orderRow
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(row.targets()...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}
	return row.order()
}

func (s *orderStore) ListAll(ctx context.Context) ([]domain.OrderView, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	query, args, err := s.selectOrders().
		Columns("COALESCE(u.first_name, '')", "COALESCE(u.last_name, '')").
		LeftJoin("users u ON u.id = o.user_id").
		GroupBy("u.first_name", "u.last_name").
		OrderBy("o.created_on DESC", "o.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list orders: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	result := make([]domain.OrderView, 0)
	for rows.Next() {
		var (
			row   orderRow
			first string
			last  string
		)
		if err := rows.Scan(append(row.targets(), &first, &last)...); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		order, err := row.order()
		if err != nil {
			return nil, err
		}
		result = append(result, domain.OrderView{Order: order, OwnerFirstName: first, OwnerLastName: last})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}
	return result, nil
}

func (s *orderStore) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	query, args, err := s.selectOrders().
		Where(sq.Eq{"o.user_id": userID}).
		OrderBy("o.created_on DESC", "o.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list user orders: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list user orders: %w", err)
	}
	defer rows.Close()

	result := make([]domain.Order, 0)
	for rows.Next() {
		var row orderRow
		if err := rows.Scan(row.targets()...); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		order, err := row.order()
		if err != nil {
			return nil, err
		}
		result = append(result, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}
	return result, nil
}

// UpdateStatus при непустом expected обновляет строку только пока статус
// совпадает; ноль затронутых строк означает либо отсутствие заказа, либо гонку.
func (s *orderStore) UpdateStatus(ctx context.Context, id string, expected, next domain.OrderStatus) (domain.Order, error) {
	orderID, ok := parseID(id)
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	update := s.builder.Update("orders").Set("status", string(next)).Where(sq.Eq{"id": orderID})
	if expected != "" {
		update = update.Where(sq.Eq{"status": string(expected)})
	}
	query, args, err := update.ToSql()
	if err != nil {
		return domain.Order{}, fmt.Errorf("build update status: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return domain.Order{}, fmt.Errorf("update order status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Order{}, fmt.Errorf("rows affected: %w", err)
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	if affected == 0 {
		return domain.Order{}, domain.ErrStatusConflict
	}
	return current, nil
}

func (s *orderStore) Delete(ctx context.Context, id string) (domain.Order, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, current.ID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("delete order: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Order{}, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return current, nil
}

func (s *orderStore) selectOrders() sq.SelectBuilder {
	return s.builder.
		Select(orderColumns...).
		From("orders o").
		LeftJoin("order_items oi ON oi.order_id = o.id").
		GroupBy("o.id")
}

type orderRow struct {
	id        string
	userID    string
	amount    string
	address   string
	status    string
	createdOn time.Time
	items     string
}

func (r *orderRow) targets() []any {
	return []any{&r.id, &r.userID, &r.amount, &r.address, &r.status, &r.createdOn, &r.items}
}

func (r *orderRow) order() (domain.Order, error) {
	amount, err := decimal.Parse(r.amount)
	if err != nil {
		return domain.Order{}, fmt.Errorf("parse amount of order %s: %w", r.id, err)
	}

	items := []string{}
	if r.items != "" {
		items = strings.Split(r.items, ",")
	}

	return domain.Order{
		ID:        r.id,
		UserID:    r.userID,
		ItemIDs:   items,
		Amount:    amount,
		Address:   r.address,
		Status:    domain.OrderStatus(r.status),
		CreatedOn: r.createdOn.UTC(),
	}, nil
}

// parseID отсекает строки, которые не являются UUID: такие записи заведомо
// отсутствуют, и запрос к базе не нужен.
func parseID(raw string) (string, bool) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}
	return id.String(), true
}

var _ domain.OrderStore = (*orderStore)(nil)
