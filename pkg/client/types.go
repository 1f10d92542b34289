package client

// Category is a fixed menu grouping used for filtering and display ordering.
type Category string

const (
	CategoryChaofan   Category = "Chaofan"
	CategoryNoodles   Category = "Noodles"
	CategoryRiceMeals Category = "Rice Meals"
	CategoryBeverages Category = "Beverages"
	CategorySides     Category = "Sides"
)

// Photo is the canonical photo representation returned by the API.
type Photo struct {
	URL        string `json:"url"`
	StorageKey string `json:"storageKey,omitempty"`
}

// Item is a single dish shown on the public menu.
type Item struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    Category `json:"category"`
	Photo       *Photo   `json:"photo,omitempty"`
	Featured    bool     `json:"featured"`
	Available   bool     `json:"available"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
}

// Draft is an outgoing create or update payload for a menu item. Pointer
// fields distinguish "absent" from zero values so updates can merge
// partially; leave a field nil to keep its current value.
type Draft struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Photo       *Photo   `json:"photo,omitempty"`
	PhotoURL    *string  `json:"photoUrl,omitempty"`
	Featured    *bool    `json:"featured,omitempty"`
	Available   *bool    `json:"available,omitempty"`
}

// Account is an admin panel user. Password material never crosses the wire
// in responses.
type Account struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt"`
}

// AccountDraft is an outgoing create or update payload for an admin account.
// A nil or blank Password on update keeps the current one.
type AccountDraft struct {
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty"`
	Role     *string `json:"role,omitempty"`
}

// String returns a pointer to s, for building drafts inline.
func String(s string) *string { return &s }

// Float64 returns a pointer to f, for building drafts inline.
func Float64(f float64) *float64 { return &f }

// Bool returns a pointer to b, for building drafts inline.
func Bool(b bool) *bool { return &b }
