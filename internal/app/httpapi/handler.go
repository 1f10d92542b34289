// Package httpapi exposes the REST API for the menu service.
package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	app "github.com/kahit-saan/menu-service/internal/app"
	"github.com/kahit-saan/menu-service/internal/app/domain/menu"
	"github.com/kahit-saan/menu-service/internal/app/domain/user"
	"github.com/kahit-saan/menu-service/internal/app/metrics"
	apperrors "github.com/kahit-saan/menu-service/internal/errors"
	"github.com/kahit-saan/menu-service/internal/middleware"
)

// maxUploadBytes caps multipart payloads, photo included.
const maxUploadBytes = 10 << 20

// handler bundles HTTP endpoints for the application services.
type handler struct {
	app *app.Application
}

// Config controls optional router features.
type Config struct {
	// UploadsDir, when set, is served read-only under /uploads/.
	UploadsDir string
}

// NewHandler returns the router exposing the REST API. Mutating menu routes
// require a staff or admin token; user management requires admin.
func NewHandler(application *app.Application, auth *middleware.AuthMiddleware, cfg Config) http.Handler {
	h := &handler{app: application}

	r := mux.NewRouter()
	r.Use(middleware.MetricsMiddleware())

	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	if cfg.UploadsDir != "" {
		r.PathPrefix("/uploads/").Handler(
			http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir))))
	}

	api := r.PathPrefix("/api").Subrouter()

	// Public menu reads. The featured and category routes are registered
	// before the id route only for readability; their extra path segment
	// keeps them from colliding with it.
	api.HandleFunc("/menu", h.listMenu).Methods(http.MethodGet)
	api.HandleFunc("/menu/featured/items", h.listFeatured).Methods(http.MethodGet)
	api.HandleFunc("/menu/category/{category}", h.listByCategory).Methods(http.MethodGet)
	api.HandleFunc("/menu/{id}", h.getMenuItem).Methods(http.MethodGet)

	staff := auth.Require(string(user.RoleAdmin), string(user.RoleStaff))
	api.Handle("/menu", staff(http.HandlerFunc(h.createMenuItem))).Methods(http.MethodPost)
	api.Handle("/menu/{id}", staff(http.HandlerFunc(h.updateMenuItem))).Methods(http.MethodPut)
	api.Handle("/menu/{id}", staff(http.HandlerFunc(h.deleteMenuItem))).Methods(http.MethodDelete)

	admin := auth.Require(string(user.RoleAdmin))
	api.Handle("/admin/users", admin(http.HandlerFunc(h.listUsers))).Methods(http.MethodGet)
	api.Handle("/admin/users", admin(http.HandlerFunc(h.createUser))).Methods(http.MethodPost)
	api.Handle("/admin/users/{id}", admin(http.HandlerFunc(h.updateUser))).Methods(http.MethodPut)
	api.Handle("/admin/users/{id}", admin(http.HandlerFunc(h.deleteUser))).Methods(http.MethodDelete)

	return r
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- Menu -------------------------------------------------------------------

func (h *handler) listMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.app.Menu.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyAsSlice(items))
}

func (h *handler) getMenuItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.app.Menu.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *handler) listByCategory(w http.ResponseWriter, r *http.Request) {
	items, err := h.app.Menu.ListByCategory(r.Context(), mux.Vars(r)["category"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyAsSlice(items))
}

func (h *handler) listFeatured(w http.ResponseWriter, r *http.Request) {
	items, err := h.app.Menu.ListFeatured(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyAsSlice(items))
}

func (h *handler) createMenuItem(w http.ResponseWriter, r *http.Request) {
	draft, uploadedKey, err := h.decodeMenuDraft(r)
	if err != nil {
		writeError(w, err)
		return
	}

	item, err := h.app.Menu.Create(r.Context(), draft)
	metrics.RecordMenuMutation("create", err)
	if err != nil {
		h.app.Menu.DiscardPhoto(uploadedKey)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *handler) updateMenuItem(w http.ResponseWriter, r *http.Request) {
	draft, uploadedKey, err := h.decodeMenuDraft(r)
	if err != nil {
		writeError(w, err)
		return
	}

	item, err := h.app.Menu.Update(r.Context(), mux.Vars(r)["id"], draft)
	metrics.RecordMenuMutation("update", err)
	if err != nil {
		h.app.Menu.DiscardPhoto(uploadedKey)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *handler) deleteMenuItem(w http.ResponseWriter, r *http.Request) {
	err := h.app.Menu.Delete(r.Context(), mux.Vars(r)["id"])
	metrics.RecordMenuMutation("delete", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Menu item deleted successfully",
	})
}

// decodeMenuDraft accepts either a JSON body or a multipart form with an
// optional photo file. The second return value is the storage key of a photo
// uploaded during decoding, so callers can discard it if the draft is later
// rejected; keys echoed back in a JSON draft are never returned here.
func (h *handler) decodeMenuDraft(r *http.Request) (menu.Draft, string, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return h.decodeMultipartDraft(r)
	}

	var draft menu.Draft
	if err := decodeJSON(r.Body, &draft); err != nil {
		return menu.Draft{}, "", &apperrors.Error{Kind: apperrors.KindValidation, Message: "invalid request body"}
	}
	return draft, "", nil
}

func (h *handler) decodeMultipartDraft(r *http.Request) (menu.Draft, string, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return menu.Draft{}, "", &apperrors.Error{Kind: apperrors.KindValidation, Message: "invalid multipart payload"}
	}

	var (
		draft  menu.Draft
		fields []apperrors.FieldError
	)

	formString := func(name string) *string {
		if values, ok := r.MultipartForm.Value[name]; ok && len(values) > 0 {
			v := values[0]
			return &v
		}
		return nil
	}

	draft.Name = formString("name")
	draft.Description = formString("description")
	draft.Category = formString("category")
	draft.PhotoURL = formString("photoUrl")

	if raw := formString("price"); raw != nil {
		price, err := strconv.ParseFloat(*raw, 64)
		if err != nil {
			fields = append(fields, apperrors.FieldError{Field: "price", Message: "Price must be a number"})
		} else {
			draft.Price = &price
		}
	}
	if raw := formString("featured"); raw != nil {
		featured, err := strconv.ParseBool(*raw)
		if err != nil {
			fields = append(fields, apperrors.FieldError{Field: "featured", Message: "Featured must be a boolean value"})
		} else {
			draft.Featured = &featured
		}
	}
	if raw := formString("available"); raw != nil {
		available, err := strconv.ParseBool(*raw)
		if err != nil {
			fields = append(fields, apperrors.FieldError{Field: "available", Message: "Available must be a boolean value"})
		} else {
			draft.Available = &available
		}
	}

	if len(fields) > 0 {
		return menu.Draft{}, "", apperrors.Validation(fields)
	}

	var uploadedKey string
	file, header, err := r.FormFile("photo")
	if err == nil {
		defer file.Close()
		photo, err := h.app.Menu.UploadPhoto(r.Context(), header.Filename, header.Header.Get("Content-Type"), file)
		if err != nil {
			return menu.Draft{}, "", err
		}
		draft.Photo = &photo
		uploadedKey = photo.StorageKey
	} else if err != http.ErrMissingFile {
		return menu.Draft{}, "", &apperrors.Error{Kind: apperrors.KindValidation, Message: "invalid photo upload"}
	}

	return draft, uploadedKey, nil
}

// --- Admin users ------------------------------------------------------------

func (h *handler) listUsers(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.app.Users.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if accounts == nil {
		accounts = []user.Account{}
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (h *handler) createUser(w http.ResponseWriter, r *http.Request) {
	var draft user.Draft
	if err := decodeJSON(r.Body, &draft); err != nil {
		writeError(w, &apperrors.Error{Kind: apperrors.KindValidation, Message: "invalid request body"})
		return
	}

	acct, err := h.app.Users.Create(r.Context(), draft)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, acct)
}

func (h *handler) updateUser(w http.ResponseWriter, r *http.Request) {
	var draft user.Draft
	if err := decodeJSON(r.Body, &draft); err != nil {
		writeError(w, &apperrors.Error{Kind: apperrors.KindValidation, Message: "invalid request body"})
		return
	}

	acct, err := h.app.Users.Update(r.Context(), mux.Vars(r)["id"], draft)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, acct)
}

func (h *handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Users.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "User deleted successfully",
	})
}

// --- Helpers ----------------------------------------------------------------

func decodeJSON(body io.ReadCloser, dst interface{}) error {
	defer body.Close()
	return json.NewDecoder(body).Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// errorEnvelope matches the response shape the admin frontend expects.
type errorEnvelope struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Errors  []apperrors.FieldError `json:"errors,omitempty"`
}

func writeError(w http.ResponseWriter, err error) {
	message := err.Error()
	if apperrors.KindOf(err) == apperrors.KindInternal {
		// Persistence details stay in the logs.
		message = "internal server error"
	}
	writeJSON(w, apperrors.HTTPStatus(err), errorEnvelope{
		Success: false,
		Message: message,
		Errors:  apperrors.FieldsOf(err),
	})
}

func emptyAsSlice(items []menu.Item) []menu.Item {
	if items == nil {
		return []menu.Item{}
	}
	return items
}
