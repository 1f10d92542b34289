// Package app ties the domain services together.
package app

import (
	menusvc "github.com/kahit-saan/menu-service/internal/app/services/menu"
	userssvc "github.com/kahit-saan/menu-service/internal/app/services/users"
	"github.com/kahit-saan/menu-service/internal/app/storage"
	"github.com/kahit-saan/menu-service/internal/app/storage/memory"
	"github.com/kahit-saan/menu-service/internal/logging"
)

// Stores encapsulates persistence dependencies. Nil stores default to the
// in-memory implementation.
type Stores struct {
	Menu  storage.MenuStore
	Users storage.UserStore
}

// Application exposes the wired domain services.
type Application struct {
	log *logging.Logger

	Menu  *menusvc.Service
	Users *userssvc.Service
}

// Option customises application construction.
type Option func(*options)

type options struct {
	uploader menusvc.Uploader
}

// WithUploader wires the photo storage collaborator into the menu service.
func WithUploader(u menusvc.Uploader) Option {
	return func(o *options) { o.uploader = u }
}

// New builds a fully initialised application with the provided stores.
func New(stores Stores, log *logging.Logger, opts ...Option) *Application {
	if log == nil {
		log = logging.NewDefault("app")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	mem := memory.New()
	if stores.Menu == nil {
		stores.Menu = mem
	}
	if stores.Users == nil {
		stores.Users = mem
	}

	var menuOpts []menusvc.Option
	if o.uploader != nil {
		menuOpts = append(menuOpts, menusvc.WithUploader(o.uploader))
	}

	return &Application{
		log:   log,
		Menu:  menusvc.New(stores.Menu, log.Component("menu"), menuOpts...),
		Users: userssvc.New(stores.Users, log.Component("users")),
	}
}
