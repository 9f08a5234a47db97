package services

import (
	"context"
	"errors"
	"testing"

	"github.com/asandoval/fintrack-backend/internal/dto"
	"github.com/asandoval/fintrack-backend/internal/errs"
	"github.com/asandoval/fintrack-backend/pkg/helpers"
)

// --- fakes ---

type fakeIdentity struct {
	usersByEmail map[string]dto.ProviderUser
	usersByUID   map[string]dto.ProviderUser
	listed       []dto.ProviderUser

	grantedUIDs  []string
	disabledUIDs map[string]bool

	emailErr   error
	grantErr   error
	disableErr error
	listErr    error
}

func (f *fakeIdentity) UserByEmail(ctx context.Context, email string) (dto.ProviderUser, error) {
	if f.emailErr != nil {
		return dto.ProviderUser{}, f.emailErr
	}
	u, ok := f.usersByEmail[email]
	if !ok {
		return dto.ProviderUser{}, errs.NewNotFoundError("user not found")
	}
	return u, nil
}

func (f *fakeIdentity) User(ctx context.Context, uid string) (dto.ProviderUser, error) {
	u, ok := f.usersByUID[uid]
	if !ok {
		return dto.ProviderUser{}, errs.NewNotFoundError("user not found")
	}
	return u, nil
}

func (f *fakeIdentity) GrantAdminClaim(ctx context.Context, uid string) error {
	if f.grantErr != nil {
		return f.grantErr
	}
	f.grantedUIDs = append(f.grantedUIDs, uid)
	return nil
}

func (f *fakeIdentity) SetDisabled(ctx context.Context, uid string, disabled bool) error {
	if f.disableErr != nil {
		return f.disableErr
	}
	if f.disabledUIDs == nil {
		f.disabledUIDs = map[string]bool{}
	}
	f.disabledUIDs[uid] = disabled
	return nil
}

func (f *fakeIdentity) ListUsers(ctx context.Context, max int) ([]dto.ProviderUser, error) {
	return f.listed, f.listErr
}

type fakeStatsStore struct {
	items, txs int64
	itemsErr   error
}

func (f *fakeStatsStore) CountLinkedItems(ctx context.Context) (int64, error) {
	return f.items, f.itemsErr
}

func (f *fakeStatsStore) CountTransactions(ctx context.Context) (int64, error) {
	return f.txs, nil
}

// --- tests ---

func TestGrantAdminWithValidKey(t *testing.T) {
	id := &fakeIdentity{usersByEmail: map[string]dto.ProviderUser{
		"alice@example.com": {UID: "uid-alice", Email: "alice@example.com"},
	}}

	svc := NewAdminService(id, &fakeStatsStore{}, "super-secret")
	uid, err := svc.GrantAdmin(helpers.TestCtx(), "alice@example.com", "super-secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if uid != "uid-alice" {
		t.Fatalf("expected uid-alice, got %q", uid)
	}
	if len(id.grantedUIDs) != 1 || id.grantedUIDs[0] != "uid-alice" {
		t.Fatalf("claim not granted, got %v", id.grantedUIDs)
	}
}

func TestGrantAdminRejectsWrongKeyWithoutMutation(t *testing.T) {
	id := &fakeIdentity{usersByEmail: map[string]dto.ProviderUser{
		"alice@example.com": {UID: "uid-alice"},
	}}

	svc := NewAdminService(id, &fakeStatsStore{}, "super-secret")
	_, err := svc.GrantAdmin(helpers.TestCtx(), "alice@example.com", "wrong")

	var perm *errs.PermissionError
	if !errors.As(err, &perm) {
		t.Fatalf("expected PermissionError, got %v", err)
	}
	if len(id.grantedUIDs) != 0 {
		t.Fatalf("wrong key must not grant anything, got %v", id.grantedUIDs)
	}
}

func TestGrantAdminFailsWhenKeyUnconfigured(t *testing.T) {
	svc := NewAdminService(&fakeIdentity{}, &fakeStatsStore{}, "")
	_, err := svc.GrantAdmin(helpers.TestCtx(), "alice@example.com", "")

	var cfg *errs.ConfigError
	if !errors.As(err, &cfg) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestGrantAdminPropagatesUnknownEmail(t *testing.T) {
	svc := NewAdminService(&fakeIdentity{}, &fakeStatsStore{}, "super-secret")
	_, err := svc.GrantAdmin(helpers.TestCtx(), "ghost@example.com", "super-secret")

	var nf *errs.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestIsAdminReadsLiveRecord(t *testing.T) {
	id := &fakeIdentity{usersByUID: map[string]dto.ProviderUser{
		"uid-admin":  {UID: "uid-admin", Admin: true},
		"uid-normal": {UID: "uid-normal"},
	}}
	svc := NewAdminService(id, &fakeStatsStore{}, "super-secret")

	got, err := svc.IsAdmin(helpers.TestCtx(), "uid-admin")
	if err != nil || !got {
		t.Fatalf("expected admin true, got %v, %v", got, err)
	}
	got, err = svc.IsAdmin(helpers.TestCtx(), "uid-normal")
	if err != nil || got {
		t.Fatalf("expected admin false, got %v, %v", got, err)
	}
}

func TestSetUserDisabled(t *testing.T) {
	id := &fakeIdentity{}
	svc := NewAdminService(id, &fakeStatsStore{}, "super-secret")

	if err := svc.SetUserDisabled(helpers.TestCtx(), "uid-1", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !id.disabledUIDs["uid-1"] {
		t.Fatalf("user should be disabled")
	}
}

func TestPlatformStatsCombinesIdentityAndCounts(t *testing.T) {
	id := &fakeIdentity{listed: []dto.ProviderUser{
		{UID: "u1", Admin: true},
		{UID: "u2", Disabled: true},
		{UID: "u3"},
	}}
	stats := &fakeStatsStore{items: 7, txs: 1234}

	svc := NewAdminService(id, stats, "super-secret")
	got, err := svc.PlatformStats(helpers.TestCtx())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.TotalUsers != 3 || got.AdminUsers != 1 || got.DisabledUsers != 1 {
		t.Fatalf("unexpected user stats: %+v", got)
	}
	if got.LinkedItems != 7 || got.Transactions != 1234 {
		t.Fatalf("unexpected counts: %+v", got)
	}
}

func TestPlatformStatsPropagatesCountError(t *testing.T) {
	id := &fakeIdentity{}
	stats := &fakeStatsStore{itemsErr: errors.New("aggregation failed")}

	svc := NewAdminService(id, stats, "super-secret")
	_, err := svc.PlatformStats(helpers.TestCtx())
	if err == nil {
		t.Fatalf("expected error")
	}
}
