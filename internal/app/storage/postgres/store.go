// Package postgres implements the storage interfaces backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/kahit-saan/menu-service/internal/app/domain/menu"
	"github.com/kahit-saan/menu-service/internal/app/domain/user"
	"github.com/kahit-saan/menu-service/internal/app/storage"
	"github.com/kahit-saan/menu-service/internal/errors"
)

// Store implements the storage interfaces over a database handle.
type Store struct {
	db *sql.DB
}

var _ storage.MenuStore = (*Store)(nil)
var _ storage.UserStore = (*Store)(nil)

// New creates a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return stderrors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// --- MenuStore --------------------------------------------------------------

const menuColumns = `id, name, description, price, category, photo_url, photo_storage_key, featured, available, created_at, updated_at`

func (s *Store) CreateItem(ctx context.Context, item menu.Item) (menu.Item, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	photoURL, photoKey := photoColumns(item.Photo)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO menu_items (`+menuColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, item.ID, item.Name, item.Description, item.Price, string(item.Category),
		photoURL, photoKey, item.Featured, item.Available, item.CreatedAt, item.UpdatedAt)
	if err != nil {
		return menu.Item{}, errors.Internal("create menu item", err)
	}
	return item, nil
}

func (s *Store) UpdateItem(ctx context.Context, item menu.Item) (menu.Item, error) {
	item.UpdatedAt = time.Now().UTC()

	photoURL, photoKey := photoColumns(item.Photo)
	result, err := s.db.ExecContext(ctx, `
		UPDATE menu_items
		SET name = $2, description = $3, price = $4, category = $5,
		    photo_url = $6, photo_storage_key = $7, featured = $8,
		    available = $9, updated_at = $10
		WHERE id = $1
	`, item.ID, item.Name, item.Description, item.Price, string(item.Category),
		photoURL, photoKey, item.Featured, item.Available, item.UpdatedAt)
	if err != nil {
		return menu.Item{}, errors.Internal("update menu item", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return menu.Item{}, errors.NotFound("menu item %s not found", item.ID)
	}
	return s.GetItem(ctx, item.ID)
}

func (s *Store) GetItem(ctx context.Context, id string) (menu.Item, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+menuColumns+`
		FROM menu_items
		WHERE id = $1
	`, id)

	item, err := scanItem(row)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return menu.Item{}, errors.NotFound("menu item %s not found", id)
		}
		return menu.Item{}, errors.Internal("get menu item", err)
	}
	return item, nil
}

func (s *Store) ListItems(ctx context.Context) ([]menu.Item, error) {
	return s.queryItems(ctx, `
		SELECT `+menuColumns+`
		FROM menu_items
		ORDER BY category, name
	`)
}

func (s *Store) ListItemsByCategory(ctx context.Context, category menu.Category) ([]menu.Item, error) {
	return s.queryItems(ctx, `
		SELECT `+menuColumns+`
		FROM menu_items
		WHERE category = $1
		ORDER BY name
	`, string(category))
}

func (s *Store) ListFeaturedItems(ctx context.Context) ([]menu.Item, error) {
	return s.queryItems(ctx, `
		SELECT `+menuColumns+`
		FROM menu_items
		WHERE featured
		ORDER BY category, name
	`)
}

func (s *Store) DeleteItem(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return errors.Internal("delete menu item", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return errors.NotFound("menu item %s not found", id)
	}
	return nil
}

func (s *Store) queryItems(ctx context.Context, query string, args ...interface{}) ([]menu.Item, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Internal("list menu items", err)
	}
	defer rows.Close()

	var result []menu.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, errors.Internal("scan menu item", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Internal("list menu items", err)
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row rowScanner) (menu.Item, error) {
	var (
		item     menu.Item
		category string
		photoURL sql.NullString
		photoKey sql.NullString
	)
	err := row.Scan(
		&item.ID, &item.Name, &item.Description, &item.Price, &category,
		&photoURL, &photoKey, &item.Featured, &item.Available,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return menu.Item{}, err
	}
	item.Category = menu.Category(category)
	if photoURL.Valid && photoURL.String != "" {
		item.Photo = &menu.Photo{URL: photoURL.String, StorageKey: photoKey.String}
	}
	return item, nil
}

func photoColumns(p *menu.Photo) (sql.NullString, sql.NullString) {
	if p == nil {
		return sql.NullString{}, sql.NullString{}
	}
	return sql.NullString{String: p.URL, Valid: true},
		sql.NullString{String: p.StorageKey, Valid: p.StorageKey != ""}
}

// --- UserStore --------------------------------------------------------------

const userColumns = `id, username, password_hash, role, created_at`

func (s *Store) CreateUser(ctx context.Context, acct user.Account) (user.Account, error) {
	if acct.ID == "" {
		acct.ID = uuid.NewString()
	}
	acct.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO admin_users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5)
	`, acct.ID, acct.Username, acct.PasswordHash, string(acct.Role), acct.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return user.Account{}, errors.Conflict("username %s already taken", acct.Username)
		}
		return user.Account{}, errors.Internal("create user", err)
	}
	return acct, nil
}

func (s *Store) UpdateUser(ctx context.Context, acct user.Account) (user.Account, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE admin_users
		SET username = $2, password_hash = $3, role = $4
		WHERE id = $1
	`, acct.ID, acct.Username, acct.PasswordHash, string(acct.Role))
	if err != nil {
		if isUniqueViolation(err) {
			return user.Account{}, errors.Conflict("username %s already taken", acct.Username)
		}
		return user.Account{}, errors.Internal("update user", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return user.Account{}, errors.NotFound("user %s not found", acct.ID)
	}
	return s.GetUser(ctx, acct.ID)
}

func (s *Store) GetUser(ctx context.Context, id string) (user.Account, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM admin_users
		WHERE id = $1
	`, id), id)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (user.Account, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM admin_users
		WHERE username = $1
	`, username), username)
}

func (s *Store) scanUser(row *sql.Row, ref string) (user.Account, error) {
	var (
		acct user.Account
		role string
	)
	err := row.Scan(&acct.ID, &acct.Username, &acct.PasswordHash, &role, &acct.CreatedAt)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return user.Account{}, errors.NotFound("user %s not found", ref)
		}
		return user.Account{}, errors.Internal("get user", err)
	}
	acct.Role = user.Role(role)
	return acct, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]user.Account, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+userColumns+`
		FROM admin_users
		ORDER BY username
	`)
	if err != nil {
		return nil, errors.Internal("list users", err)
	}
	defer rows.Close()

	var result []user.Account
	for rows.Next() {
		var (
			acct user.Account
			role string
		)
		if err := rows.Scan(&acct.ID, &acct.Username, &acct.PasswordHash, &role, &acct.CreatedAt); err != nil {
			return nil, errors.Internal("scan user", err)
		}
		acct.Role = user.Role(role)
		result = append(result, acct)
	}
	return result, rows.Err()
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM admin_users WHERE id = $1`, id)
	if err != nil {
		return errors.Internal("delete user", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return errors.NotFound("user %s not found", id)
	}
	return nil
}
