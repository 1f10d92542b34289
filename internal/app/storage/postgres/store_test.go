package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"github.com/kahit-saan/menu-service/internal/app/domain/menu"
	"github.com/kahit-saan/menu-service/internal/app/domain/user"
	"github.com/kahit-saan/menu-service/internal/errors"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

func itemRows(items ...menu.Item) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "name", "description", "price", "category",
		"photo_url", "photo_storage_key", "featured", "available",
		"created_at", "updated_at",
	})
	for _, item := range items {
		var url, key interface{}
		if item.Photo != nil {
			url, key = item.Photo.URL, item.Photo.StorageKey
		}
		rows.AddRow(item.ID, item.Name, item.Description, item.Price, string(item.Category),
			url, key, item.Featured, item.Available, item.CreatedAt, item.UpdatedAt)
	}
	return rows
}

func TestCreateItemGeneratesID(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO menu_items").
		WillReturnResult(sqlmock.NewResult(0, 1))

	created, err := store.CreateItem(context.Background(), menu.Item{
		Name:        "Laksa Noodles",
		Description: "Spicy coconut noodle soup from Southeast Asia",
		Price:       170,
		Category:    menu.CategoryNoodles,
		Available:   true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected generated id")
	}
	if created.CreatedAt.IsZero() || !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Fatalf("expected matching creation timestamps")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetItemNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT (.|\\n)+FROM menu_items").
		WithArgs("missing").
		WillReturnRows(itemRows())

	_, err := store.GetItem(context.Background(), "missing")
	if !errors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetItemReadsLegacyBareURL(t *testing.T) {
	store, mock := newMockStore(t)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "name", "description", "price", "category",
		"photo_url", "photo_storage_key", "featured", "available",
		"created_at", "updated_at",
	}).AddRow("1", "Laksa", "spicy coconut noodle soup", 170.0, "Noodles",
		"https://cdn.example.com/laksa.jpg", nil, false, true, now, now)

	mock.ExpectQuery("SELECT (.|\\n)+FROM menu_items").
		WithArgs("1").
		WillReturnRows(rows)

	item, err := store.GetItem(context.Background(), "1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if item.Photo == nil || item.Photo.URL != "https://cdn.example.com/laksa.jpg" || item.Photo.StorageKey != "" {
		t.Fatalf("legacy photo column not normalised: %+v", item.Photo)
	}
}

func TestUpdateItemNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("UPDATE menu_items").
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := store.UpdateItem(context.Background(), menu.Item{ID: "missing", Category: menu.CategorySides})
	if !errors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteItem(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("DELETE FROM menu_items").
		WithArgs("1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM menu_items").
		WithArgs("1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := store.DeleteItem(context.Background(), "1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.DeleteItem(context.Background(), "1"); !errors.IsNotFound(err) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestListItemsOrdering(t *testing.T) {
	store, mock := newMockStore(t)

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT (.|\\n)+FROM menu_items(.|\\n)+ORDER BY category, name").
		WillReturnRows(itemRows(
			menu.Item{ID: "1", Name: "A", Description: "d", Price: 1, Category: menu.CategoryChaofan, Available: true, CreatedAt: now, UpdatedAt: now},
			menu.Item{ID: "2", Name: "B", Description: "d", Price: 2, Category: menu.CategoryNoodles, Available: true, CreatedAt: now, UpdatedAt: now},
		))

	items, err := store.ListItems(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 || items[0].Name != "A" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO admin_users").
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := store.CreateUser(context.Background(), user.Account{
		Username:     "maria",
		PasswordHash: "hash",
		Role:         user.RoleAdmin,
	})
	if !errors.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}
