package users

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/kahit-saan/menu-service/internal/app/domain/user"
	"github.com/kahit-saan/menu-service/internal/app/storage/memory"
	"github.com/kahit-saan/menu-service/internal/errors"
	"github.com/kahit-saan/menu-service/internal/logging"
)

func strPtr(s string) *string { return &s }

func newService() *Service {
	return New(memory.New(), logging.Discard())
}

func TestCreateHashesPassword(t *testing.T) {
	svc := newService()

	acct, err := svc.Create(context.Background(), user.Draft{
		Username: strPtr("maria"),
		Password: strPtr("kitchen-secret"),
		Role:     strPtr("admin"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if acct.PasswordHash == "kitchen-secret" {
		t.Fatalf("password stored in plaintext")
	}
	if bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte("kitchen-secret")) != nil {
		t.Fatalf("stored hash does not verify")
	}
}

func TestCreateRequiresPasswordAndRole(t *testing.T) {
	svc := newService()

	_, err := svc.Create(context.Background(), user.Draft{Username: strPtr("maria")})
	if !errors.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	_, err = svc.Create(context.Background(), user.Draft{
		Username: strPtr("maria"),
		Password: strPtr("kitchen-secret"),
		Role:     strPtr("owner"),
	})
	if !errors.IsValidation(err) {
		t.Fatalf("expected validation error for unknown role, got %v", err)
	}
}

func TestCreateDuplicateUsername(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	draft := user.Draft{
		Username: strPtr("maria"),
		Password: strPtr("kitchen-secret"),
		Role:     strPtr("staff"),
	}
	if _, err := svc.Create(ctx, draft); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, draft); !errors.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUpdateBlankPasswordKeepsHash(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	acct, err := svc.Create(ctx, user.Draft{
		Username: strPtr("maria"),
		Password: strPtr("kitchen-secret"),
		Role:     strPtr("staff"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(ctx, acct.ID, user.Draft{
		Role:     strPtr("admin"),
		Password: strPtr(""),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Role != user.RoleAdmin {
		t.Fatalf("role not updated")
	}
	if updated.PasswordHash != acct.PasswordHash {
		t.Fatalf("blank password must not overwrite the stored hash")
	}

	rehashed, err := svc.Update(ctx, acct.ID, user.Draft{Password: strPtr("new-password-123")})
	if err != nil {
		t.Fatalf("update password: %v", err)
	}
	if rehashed.PasswordHash == acct.PasswordHash {
		t.Fatalf("new password must replace the hash")
	}
	if bcrypt.CompareHashAndPassword([]byte(rehashed.PasswordHash), []byte("new-password-123")) != nil {
		t.Fatalf("new hash does not verify")
	}
}

func TestUpdateMissingUser(t *testing.T) {
	svc := newService()

	_, err := svc.Update(context.Background(), "missing", user.Draft{Role: strPtr("staff")})
	if !errors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, user.Draft{
		Username: strPtr("maria"),
		Password: strPtr("kitchen-secret"),
		Role:     strPtr("admin"),
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	acct, err := svc.Authenticate(ctx, "maria", "kitchen-secret")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if acct.Username != "maria" {
		t.Fatalf("unexpected account: %+v", acct)
	}

	if _, err := svc.Authenticate(ctx, "maria", "wrong"); err == nil {
		t.Fatalf("expected error for wrong password")
	}
	if _, err := svc.Authenticate(ctx, "nobody", "kitchen-secret"); err == nil {
		t.Fatalf("expected error for unknown user")
	}
}

func TestDelete(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	acct, err := svc.Create(ctx, user.Draft{
		Username: strPtr("maria"),
		Password: strPtr("kitchen-secret"),
		Role:     strPtr("staff"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(ctx, acct.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, acct.ID); !errors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
