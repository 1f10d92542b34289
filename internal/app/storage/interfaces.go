package storage

import (
	"context"

	"github.com/kahit-saan/menu-service/internal/app/domain/menu"
	"github.com/kahit-saan/menu-service/internal/app/domain/user"
)

// MenuStore persists menu items. List results are ordered by category then
// name ascending; ListItemsByCategory is ordered by name.
type MenuStore interface {
	CreateItem(ctx context.Context, item menu.Item) (menu.Item, error)
	UpdateItem(ctx context.Context, item menu.Item) (menu.Item, error)
	GetItem(ctx context.Context, id string) (menu.Item, error)
	ListItems(ctx context.Context) ([]menu.Item, error)
	ListItemsByCategory(ctx context.Context, category menu.Category) ([]menu.Item, error)
	ListFeaturedItems(ctx context.Context) ([]menu.Item, error)
	DeleteItem(ctx context.Context, id string) error
}

// UserStore persists admin accounts.
type UserStore interface {
	CreateUser(ctx context.Context, acct user.Account) (user.Account, error)
	UpdateUser(ctx context.Context, acct user.Account) (user.Account, error)
	GetUser(ctx context.Context, id string) (user.Account, error)
	GetUserByUsername(ctx context.Context, username string) (user.Account, error)
	ListUsers(ctx context.Context) ([]user.Account, error)
	DeleteUser(ctx context.Context, id string) error
}
