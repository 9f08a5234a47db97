package services

import (
	"context"
	"errors"
	"testing"

	"github.com/asandoval/fintrack-backend/internal/errs"
	"github.com/asandoval/fintrack-backend/pkg/helpers"
)

// --- fakes ---

type contentMutation struct {
	action     string
	collection string
	itemID     string
	data       map[string]any
}

type fakeContentStore struct {
	mutations []contentMutation
	items     []map[string]any
	createID  string
	err       error
}

func (f *fakeContentStore) Create(ctx context.Context, collection, uid string, data map[string]any) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.mutations = append(f.mutations, contentMutation{action: "create", collection: collection, data: data})
	return f.createID, nil
}

func (f *fakeContentStore) Update(ctx context.Context, collection, uid, itemID string, data map[string]any) error {
	if f.err != nil {
		return f.err
	}
	f.mutations = append(f.mutations, contentMutation{action: "update", collection: collection, itemID: itemID, data: data})
	return nil
}

func (f *fakeContentStore) Delete(ctx context.Context, collection, itemID string) error {
	if f.err != nil {
		return f.err
	}
	f.mutations = append(f.mutations, contentMutation{action: "delete", collection: collection, itemID: itemID})
	return nil
}

func (f *fakeContentStore) List(ctx context.Context, collection string) ([]map[string]any, error) {
	return f.items, f.err
}

type fakeSettingsStore struct {
	stored map[string]any
	saved  map[string]any
	getErr error
}

func (f *fakeSettingsStore) Get(ctx context.Context) (map[string]any, error) {
	return f.stored, f.getErr
}

func (f *fakeSettingsStore) Save(ctx context.Context, uid string, settings map[string]any) error {
	f.saved = settings
	return nil
}

// --- tests ---

func TestManageCreateReturnsNewID(t *testing.T) {
	content := &fakeContentStore{createID: "new-id"}
	svc := NewContentService(content, &fakeSettingsStore{})

	id, err := svc.Manage(helpers.TestCtx(), "uid-1", "create", "announcements", "", map[string]any{"title": "hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "new-id" {
		t.Fatalf("expected generated id, got %q", id)
	}
	if len(content.mutations) != 1 || content.mutations[0].action != "create" {
		t.Fatalf("unexpected mutations: %+v", content.mutations)
	}
}

func TestManageRejectsInvalidAction(t *testing.T) {
	content := &fakeContentStore{}
	svc := NewContentService(content, &fakeSettingsStore{})

	_, err := svc.Manage(helpers.TestCtx(), "uid-1", "upsert", "announcements", "id-1", map[string]any{"a": 1})

	var ve *errs.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(content.mutations) != 0 {
		t.Fatalf("invalid action must not mutate anything")
	}
}

func TestManageRequiresCollection(t *testing.T) {
	svc := NewContentService(&fakeContentStore{}, &fakeSettingsStore{})

	_, err := svc.Manage(helpers.TestCtx(), "uid-1", "create", "", "", map[string]any{"a": 1})

	var ve *errs.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestManageUpdateAndDeleteRequireItemID(t *testing.T) {
	svc := NewContentService(&fakeContentStore{}, &fakeSettingsStore{})

	for _, action := range []string{"update", "delete"} {
		_, err := svc.Manage(helpers.TestCtx(), "uid-1", action, "announcements", "", map[string]any{"a": 1})
		var ve *errs.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("%s without itemId: expected ValidationError, got %v", action, err)
		}
	}
}

func TestManageDeleteTargetsItem(t *testing.T) {
	content := &fakeContentStore{}
	svc := NewContentService(content, &fakeSettingsStore{})

	id, err := svc.Manage(helpers.TestCtx(), "uid-1", "delete", "announcements", "id-9", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "id-9" {
		t.Fatalf("expected affected id back, got %q", id)
	}
	m := content.mutations[0]
	if m.action != "delete" || m.collection != "announcements" || m.itemID != "id-9" {
		t.Fatalf("unexpected mutation: %+v", m)
	}
}

func TestSettingsFallsBackToDefaults(t *testing.T) {
	svc := NewContentService(&fakeContentStore{}, &fakeSettingsStore{})

	got, err := svc.Settings(helpers.TestCtx())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["siteName"] != "FinTrack" {
		t.Fatalf("expected default site name, got %v", got["siteName"])
	}
	if got["maintenanceMode"] != false {
		t.Fatalf("expected maintenance mode off by default, got %v", got["maintenanceMode"])
	}
}

func TestSettingsReturnsStoredDocumentVerbatim(t *testing.T) {
	stored := map[string]any{"siteName": "Custom", "extra": "kept"}
	svc := NewContentService(&fakeContentStore{}, &fakeSettingsStore{stored: stored})

	got, err := svc.Settings(helpers.TestCtx())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["siteName"] != "Custom" || got["extra"] != "kept" {
		t.Fatalf("stored settings must pass through untouched, got %v", got)
	}
	if _, ok := got["maintenanceMode"]; ok {
		t.Fatalf("stored settings must not be merged with defaults")
	}
}

func TestSaveSettingsRequiresPayload(t *testing.T) {
	settings := &fakeSettingsStore{}
	svc := NewContentService(&fakeContentStore{}, settings)

	err := svc.SaveSettings(helpers.TestCtx(), "uid-1", nil)
	var ve *errs.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if settings.saved != nil {
		t.Fatalf("nothing should be saved on validation failure")
	}
}

func TestSaveSettingsOverwrites(t *testing.T) {
	settings := &fakeSettingsStore{}
	svc := NewContentService(&fakeContentStore{}, settings)

	err := svc.SaveSettings(helpers.TestCtx(), "uid-1", map[string]any{"siteName": "Custom"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.saved["siteName"] != "Custom" {
		t.Fatalf("settings not saved, got %v", settings.saved)
	}
}
