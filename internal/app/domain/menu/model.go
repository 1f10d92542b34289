// Package menu defines the menu item model, the category enumeration shared
// by the API and persistence layers, and payload validation.
package menu

import (
	"fmt"
	"math"
	"net/url"
	"time"
	"unicode/utf8"

	"github.com/kahit-saan/menu-service/internal/errors"
)

// Category is a fixed menu grouping used for filtering and display ordering.
type Category string

const (
	CategoryChaofan   Category = "Chaofan"
	CategoryNoodles   Category = "Noodles"
	CategoryRiceMeals Category = "Rice Meals"
	CategoryBeverages Category = "Beverages"
	CategorySides     Category = "Sides"
)

// Categories returns the full enumeration in declaration order.
func Categories() []Category {
	return []Category{
		CategoryChaofan,
		CategoryNoodles,
		CategoryRiceMeals,
		CategoryBeverages,
		CategorySides,
	}
}

// Valid reports whether c is a member of the enumeration.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory validates a raw category string.
func ParseCategory(raw string) (Category, error) {
	c := Category(raw)
	if !c.Valid() {
		return "", fmt.Errorf("invalid category %q", raw)
	}
	return c, nil
}

// Photo is the canonical photo representation. Legacy clients sent a bare URL
// string; the API normalises both shapes into this one.
type Photo struct {
	URL        string `json:"url"`
	StorageKey string `json:"storageKey,omitempty"`
}

// Item is a single dish shown on the public menu.
type Item struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    Category  `json:"category"`
	Photo       *Photo    `json:"photo,omitempty"`
	Featured    bool      `json:"featured"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Draft is an incoming create or update payload. Pointer fields distinguish
// "absent" from zero values so updates can merge partially.
type Draft struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Photo       *Photo   `json:"photo"`
	PhotoURL    *string  `json:"photoUrl"`
	Featured    *bool    `json:"featured"`
	Available   *bool    `json:"available"`
}

const (
	nameMinLen        = 2
	nameMaxLen        = 100
	descriptionMinLen = 10
	descriptionMaxLen = 500
)

// Validate checks the draft field rules. With partial set, absent fields are
// skipped; otherwise the required fields must be present.
func (d Draft) Validate(partial bool) []errors.FieldError {
	var fields []errors.FieldError

	switch {
	case d.Name == nil:
		if !partial {
			fields = append(fields, errors.FieldError{Field: "name", Message: "Name is required"})
		}
	case utf8.RuneCountInString(*d.Name) < nameMinLen || utf8.RuneCountInString(*d.Name) > nameMaxLen:
		fields = append(fields, errors.FieldError{
			Field:   "name",
			Message: fmt.Sprintf("Name must be between %d and %d characters", nameMinLen, nameMaxLen),
		})
	}

	switch {
	case d.Description == nil:
		if !partial {
			fields = append(fields, errors.FieldError{Field: "description", Message: "Description is required"})
		}
	case utf8.RuneCountInString(*d.Description) < descriptionMinLen || utf8.RuneCountInString(*d.Description) > descriptionMaxLen:
		fields = append(fields, errors.FieldError{
			Field:   "description",
			Message: fmt.Sprintf("Description must be between %d and %d characters", descriptionMinLen, descriptionMaxLen),
		})
	}

	switch {
	case d.Price == nil:
		if !partial {
			fields = append(fields, errors.FieldError{Field: "price", Message: "Price is required"})
		}
	case *d.Price < 0 || math.IsNaN(*d.Price) || math.IsInf(*d.Price, 0):
		fields = append(fields, errors.FieldError{Field: "price", Message: "Price cannot be negative"})
	}

	switch {
	case d.Category == nil:
		if !partial {
			fields = append(fields, errors.FieldError{Field: "category", Message: "Category is required"})
		}
	case !Category(*d.Category).Valid():
		fields = append(fields, errors.FieldError{Field: "category", Message: "Invalid category"})
	}

	if d.PhotoURL != nil && *d.PhotoURL != "" && !validURL(*d.PhotoURL) {
		fields = append(fields, errors.FieldError{Field: "photoUrl", Message: "Photo URL must be a valid URL"})
	}
	if d.Photo != nil && d.Photo.URL != "" && !validURL(d.Photo.URL) {
		fields = append(fields, errors.FieldError{Field: "photo", Message: "Photo URL must be a valid URL"})
	}

	return fields
}

// ResolvePhoto normalises the two accepted photo shapes into the canonical
// one. The object form wins when both are present.
func (d Draft) ResolvePhoto() *Photo {
	if d.Photo != nil && d.Photo.URL != "" {
		p := *d.Photo
		return &p
	}
	if d.PhotoURL != nil && *d.PhotoURL != "" {
		return &Photo{URL: *d.PhotoURL}
	}
	return nil
}

// RoundPrice normalises a price to two decimal places, matching how prices
// are persisted and displayed.
func RoundPrice(p float64) float64 {
	return math.Round(p*100) / 100
}

func validURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	// Accept absolute http(s) URLs and site-relative paths such as the ones
	// produced by the local upload store.
	if u.Scheme == "http" || u.Scheme == "https" {
		return u.Host != ""
	}
	return u.Scheme == "" && len(raw) > 0 && raw[0] == '/'
}
