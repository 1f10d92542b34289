// Package menu orchestrates menu item operations: payload validation, price
// normalisation, photo upload delegation and persistence.
package menu

import (
	"context"
	"io"

	"github.com/kahit-saan/menu-service/internal/app/domain/menu"
	"github.com/kahit-saan/menu-service/internal/app/storage"
	"github.com/kahit-saan/menu-service/internal/errors"
	"github.com/kahit-saan/menu-service/internal/logging"
)

// Uploader stores a photo file and returns the public reference to persist on
// the item. The actual storage mechanics live behind this boundary. Remove
// must tolerate unknown keys.
type Uploader interface {
	Upload(ctx context.Context, filename, contentType string, r io.Reader) (menu.Photo, error)
	Remove(key string) error
}

// Service implements menu item operations over a MenuStore.
type Service struct {
	store    storage.MenuStore
	uploader Uploader
	log      *logging.Logger
}

// Option customises a Service.
type Option func(*Service)

// WithUploader wires the photo storage collaborator.
func WithUploader(u Uploader) Option {
	return func(s *Service) { s.uploader = u }
}

// New creates a menu service.
func New(store storage.MenuStore, log *logging.Logger, opts ...Option) *Service {
	if log == nil {
		log = logging.NewDefault("menu")
	}
	svc := &Service{store: store, log: log}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Create validates a full draft and persists a new item.
func (s *Service) Create(ctx context.Context, draft menu.Draft) (menu.Item, error) {
	if fields := draft.Validate(false); len(fields) > 0 {
		return menu.Item{}, errors.Validation(fields)
	}

	item := menu.Item{
		Name:        *draft.Name,
		Description: *draft.Description,
		Price:       menu.RoundPrice(*draft.Price),
		Category:    menu.Category(*draft.Category),
		Photo:       draft.ResolvePhoto(),
		Available:   true,
	}
	if draft.Featured != nil {
		item.Featured = *draft.Featured
	}
	if draft.Available != nil {
		item.Available = *draft.Available
	}

	created, err := s.store.CreateItem(ctx, item)
	if err != nil {
		return menu.Item{}, err
	}
	s.log.WithField("id", created.ID).Infof("menu item created: %s", created.Name)
	return created, nil
}

// Update validates the present fields of a draft and merges them into the
// stored item. Absent fields keep their previous values.
func (s *Service) Update(ctx context.Context, id string, draft menu.Draft) (menu.Item, error) {
	if fields := draft.Validate(true); len(fields) > 0 {
		return menu.Item{}, errors.Validation(fields)
	}

	item, err := s.store.GetItem(ctx, id)
	if err != nil {
		return menu.Item{}, err
	}

	if draft.Name != nil {
		item.Name = *draft.Name
	}
	if draft.Description != nil {
		item.Description = *draft.Description
	}
	if draft.Price != nil {
		item.Price = menu.RoundPrice(*draft.Price)
	}
	if draft.Category != nil {
		item.Category = menu.Category(*draft.Category)
	}
	if photo := draft.ResolvePhoto(); photo != nil {
		item.Photo = photo
	}
	if draft.Featured != nil {
		item.Featured = *draft.Featured
	}
	if draft.Available != nil {
		item.Available = *draft.Available
	}

	updated, err := s.store.UpdateItem(ctx, item)
	if err != nil {
		return menu.Item{}, err
	}
	s.log.WithField("id", id).Info("menu item updated")
	return updated, nil
}

// Get returns a single item.
func (s *Service) Get(ctx context.Context, id string) (menu.Item, error) {
	return s.store.GetItem(ctx, id)
}

// List returns all items ordered by category then name.
func (s *Service) List(ctx context.Context) ([]menu.Item, error) {
	return s.store.ListItems(ctx)
}

// ListByCategory returns items of one category ordered by name. The raw
// category is validated against the enumeration first.
func (s *Service) ListByCategory(ctx context.Context, raw string) ([]menu.Item, error) {
	category, err := menu.ParseCategory(raw)
	if err != nil {
		return nil, errors.Validation([]errors.FieldError{{Field: "category", Message: "Invalid category"}})
	}
	return s.store.ListItemsByCategory(ctx, category)
}

// ListFeatured returns items flagged as featured.
func (s *Service) ListFeatured(ctx context.Context) ([]menu.Item, error) {
	return s.store.ListFeaturedItems(ctx)
}

// Delete removes an item.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteItem(ctx, id); err != nil {
		return err
	}
	s.log.WithField("id", id).Info("menu item deleted")
	return nil
}

// UploadPhoto stores an uploaded photo file through the collaborator and
// returns the reference to attach to a draft.
func (s *Service) UploadPhoto(ctx context.Context, filename, contentType string, r io.Reader) (menu.Photo, error) {
	if s.uploader == nil {
		return menu.Photo{}, errors.Internal("photo storage is not configured", nil)
	}
	photo, err := s.uploader.Upload(ctx, filename, contentType, r)
	if err != nil {
		return menu.Photo{}, errors.Internal("store photo", err)
	}
	return photo, nil
}

// DiscardPhoto deletes a photo stored earlier in the same request, so a
// rejected draft does not leave an orphaned file behind. Failures are logged
// rather than surfaced; the caller's original error matters more.
func (s *Service) DiscardPhoto(key string) {
	if s.uploader == nil || key == "" {
		return
	}
	if err := s.uploader.Remove(key); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("discard uploaded photo")
	}
}
