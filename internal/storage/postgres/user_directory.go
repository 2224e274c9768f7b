package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/foodorder/internal/domain"
)

type userDirectory struct {
	db *sql.DB
}

// NewUserDirectory создаёт PostgreSQL-реализацию UserDirectory.
func NewUserDirectory(store *Store) domain.UserDirectory {
	return &userDirectory{db: store.DB()}
}

func (d *userDirectory) Get(ctx context.Context, id string) (domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var user domain.User
	err := d.db.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, address, phone, is_admin
		FROM users
		WHERE id = $1
	`, id).Scan(&user.ID, &user.FirstName, &user.LastName, &user.Address, &user.Phone, &user.IsAdmin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("select user: %w", err)
	}
	return user, nil
}

// Upsert создаёт профиль или перезаписывает поля существующего.
func (d *userDirectory) Upsert(ctx context.Context, user domain.User) (domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := d.db.ExecContext(ctx, `
		INSERT INTO users (id, first_name, last_name, address, phone, is_admin)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET first_name = EXCLUDED.first_name,
		    last_name = EXCLUDED.last_name,
		    address = EXCLUDED.address,
		    phone = EXCLUDED.phone,
		    is_admin = EXCLUDED.is_admin,
		    updated_at = NOW()
	`, user.ID, user.FirstName, user.LastName, user.Address, user.Phone, user.IsAdmin); err != nil {
		return domain.User{}, fmt.Errorf("upsert user: %w", err)
	}
	return user, nil
}

var _ domain.UserDirectory = (*userDirectory)(nil)
