package memory

import (
	"context"
	"testing"

	"github.com/kahit-saan/menu-service/internal/app/domain/menu"
	"github.com/kahit-saan/menu-service/internal/app/domain/user"
	"github.com/kahit-saan/menu-service/internal/errors"
)

func seedItem(t *testing.T, s *Store, name string, category menu.Category) menu.Item {
	t.Helper()
	item, err := s.CreateItem(context.Background(), menu.Item{
		Name:        name,
		Description: "a seeded item for store tests",
		Price:       99,
		Category:    category,
		Available:   true,
	})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	return item
}

func TestMenuItemLifecycle(t *testing.T) {
	s := New()
	ctx := context.Background()

	created := seedItem(t, s, "Beef Chaofan", menu.CategoryChaofan)
	if created.ID == "" {
		t.Fatalf("expected id to be generated")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Fatalf("expected timestamps to be set")
	}

	fetched, err := s.GetItem(ctx, created.ID)
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if fetched.Name != "Beef Chaofan" {
		t.Fatalf("unexpected name %q", fetched.Name)
	}

	fetched.Price = 120
	updated, err := s.UpdateItem(ctx, fetched)
	if err != nil {
		t.Fatalf("update item: %v", err)
	}
	if updated.Price != 120 {
		t.Fatalf("expected price 120, got %v", updated.Price)
	}
	if !updated.UpdatedAt.After(updated.CreatedAt) && !updated.UpdatedAt.Equal(updated.CreatedAt) {
		t.Fatalf("expected updatedAt >= createdAt")
	}
	if updated.CreatedAt != created.CreatedAt {
		t.Fatalf("createdAt must be immutable")
	}

	if err := s.DeleteItem(ctx, created.ID); err != nil {
		t.Fatalf("delete item: %v", err)
	}
	if err := s.DeleteItem(ctx, created.ID); !errors.IsNotFound(err) {
		t.Fatalf("expected not found on repeat delete, got %v", err)
	}
	if _, err := s.GetItem(ctx, created.ID); !errors.IsNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestIDsAreNeverReused(t *testing.T) {
	s := New()
	ctx := context.Background()

	first := seedItem(t, s, "Siomai", menu.CategorySides)
	if err := s.DeleteItem(ctx, first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	second := seedItem(t, s, "Lumpia", menu.CategorySides)
	if second.ID == first.ID {
		t.Fatalf("id %s was reused after deletion", first.ID)
	}
}

func TestListOrdering(t *testing.T) {
	s := New()
	ctx := context.Background()

	seedItem(t, s, "B", menu.CategoryNoodles)
	seedItem(t, s, "A", menu.CategoryNoodles)
	seedItem(t, s, "B", menu.CategoryChaofan)
	seedItem(t, s, "A", menu.CategoryChaofan)

	items, err := s.ListItems(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	want := []struct {
		category menu.Category
		name     string
	}{
		{menu.CategoryChaofan, "A"},
		{menu.CategoryChaofan, "B"},
		{menu.CategoryNoodles, "A"},
		{menu.CategoryNoodles, "B"},
	}
	if len(items) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(items))
	}
	for i, w := range want {
		if items[i].Category != w.category || items[i].Name != w.name {
			t.Fatalf("position %d: expected %s/%s, got %s/%s",
				i, w.category, w.name, items[i].Category, items[i].Name)
		}
	}
}

func TestCategoryAndFeaturedFilters(t *testing.T) {
	s := New()
	ctx := context.Background()

	seedItem(t, s, "Laksa", menu.CategoryNoodles)
	seedItem(t, s, "Iced Tea", menu.CategoryBeverages)

	featured, err := s.CreateItem(ctx, menu.Item{
		Name:        "Special Chaofan",
		Description: "the house special fried rice",
		Price:       150,
		Category:    menu.CategoryChaofan,
		Featured:    true,
		Available:   true,
	})
	if err != nil {
		t.Fatalf("create featured: %v", err)
	}

	noodles, err := s.ListItemsByCategory(ctx, menu.CategoryNoodles)
	if err != nil {
		t.Fatalf("list by category: %v", err)
	}
	if len(noodles) != 1 || noodles[0].Name != "Laksa" {
		t.Fatalf("unexpected category result: %+v", noodles)
	}

	flagged, err := s.ListFeaturedItems(ctx)
	if err != nil {
		t.Fatalf("list featured: %v", err)
	}
	if len(flagged) != 1 || flagged[0].ID != featured.ID {
		t.Fatalf("unexpected featured result: %+v", flagged)
	}
}

func TestClonesDoNotShareState(t *testing.T) {
	s := New()
	ctx := context.Background()

	item, err := s.CreateItem(ctx, menu.Item{
		Name:        "Pancit Canton",
		Description: "stir-fried noodles with vegetables",
		Price:       120,
		Category:    menu.CategoryNoodles,
		Photo:       &menu.Photo{URL: "/uploads/pancit.jpg"},
		Available:   true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	item.Photo.URL = "mutated"

	fetched, err := s.GetItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if fetched.Photo.URL != "/uploads/pancit.jpg" {
		t.Fatalf("stored photo was mutated through the returned copy")
	}
}

func TestUserUniqueness(t *testing.T) {
	s := New()
	ctx := context.Background()

	acct, err := s.CreateUser(ctx, user.Account{Username: "maria", PasswordHash: "x", Role: user.RoleAdmin})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	if _, err := s.CreateUser(ctx, user.Account{Username: "maria", PasswordHash: "y", Role: user.RoleStaff}); !errors.IsConflict(err) {
		t.Fatalf("expected conflict for duplicate username, got %v", err)
	}

	other, err := s.CreateUser(ctx, user.Account{Username: "jose", PasswordHash: "z", Role: user.RoleStaff})
	if err != nil {
		t.Fatalf("create second user: %v", err)
	}

	other.Username = "maria"
	if _, err := s.UpdateUser(ctx, other); !errors.IsConflict(err) {
		t.Fatalf("expected conflict when renaming onto taken username, got %v", err)
	}

	byName, err := s.GetUserByUsername(ctx, "maria")
	if err != nil || byName.ID != acct.ID {
		t.Fatalf("lookup by username failed: %v", err)
	}

	list, err := s.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(list) != 2 || list[0].Username != "jose" {
		t.Fatalf("expected username-ordered list, got %+v", list)
	}
}
