package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/asandoval/fintrack-backend/internal/dto"
	"github.com/asandoval/fintrack-backend/internal/errs"
)

type stubAdminService struct {
	grantUID   string
	grantEmail string
	grantKey   string
	grantErr   error

	isAdmin    bool
	statusUID  string
	statusErr  error

	users   []dto.ProviderUser
	listErr error

	disabledUID string
	disabled    bool

	stats dto.PlatformStats
}

func (s *stubAdminService) GrantAdmin(ctx context.Context, email, key string) (string, error) {
	s.grantEmail = email
	s.grantKey = key
	return s.grantUID, s.grantErr
}

func (s *stubAdminService) IsAdmin(ctx context.Context, uid string) (bool, error) {
	s.statusUID = uid
	return s.isAdmin, s.statusErr
}

func (s *stubAdminService) ListUsers(ctx context.Context) ([]dto.ProviderUser, error) {
	return s.users, s.listErr
}

func (s *stubAdminService) SetUserDisabled(ctx context.Context, uid string, disable bool) error {
	s.disabledUID = uid
	s.disabled = disable
	return nil
}

func (s *stubAdminService) PlatformStats(ctx context.Context) (dto.PlatformStats, error) {
	return s.stats, nil
}

func TestGrantAdminSuccess(t *testing.T) {
	adminSvc := &stubAdminService{grantUID: "uid-alice"}
	resp := &stubResponseHandler{}
	h := NewAdminHandlers(&Deps{ResponseHandler: resp, AdminSvc: adminSvc})

	body := `{"email":"alice@example.com","adminKey":"super-secret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/grant", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.GrantAdmin(rr, req)

	if adminSvc.grantEmail != "alice@example.com" || adminSvc.grantKey != "super-secret" {
		t.Fatalf("service received wrong args: %q %q", adminSvc.grantEmail, adminSvc.grantKey)
	}
	data := resp.writeSuccessData.(map[string]any)
	if data["uid"] != "uid-alice" {
		t.Fatalf("unexpected payload: %v", data)
	}
}

func TestGrantAdminRequiresEmailAndKey(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing email", `{"adminKey":"super-secret"}`},
		{"missing adminKey", `{"email":"alice@example.com"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			adminSvc := &stubAdminService{}
			resp := &stubResponseHandler{}
			h := NewAdminHandlers(&Deps{ResponseHandler: resp, AdminSvc: adminSvc})

			req := httptest.NewRequest(http.MethodPost, "/api/admin/grant", strings.NewReader(tc.body))
			rr := httptest.NewRecorder()
			h.GrantAdmin(rr, req)

			var ve *errs.ValidationError
			if !errors.As(resp.handleError, &ve) {
				t.Fatalf("expected ValidationError, got %v", resp.handleError)
			}
			if adminSvc.grantEmail != "" {
				t.Fatalf("service must not be called on validation failure")
			}
		})
	}
}

func TestGrantAdminWrongKey(t *testing.T) {
	adminSvc := &stubAdminService{grantErr: errs.NewPermissionError("invalid admin key")}
	resp := &stubResponseHandler{}
	h := NewAdminHandlers(&Deps{ResponseHandler: resp, AdminSvc: adminSvc})

	body := `{"email":"alice@example.com","adminKey":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/grant", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.GrantAdmin(rr, req)

	var perm *errs.PermissionError
	if !errors.As(resp.handleError, &perm) {
		t.Fatalf("expected PermissionError, got %v", resp.handleError)
	}
	if resp.writeSuccessCalled {
		t.Fatalf("no success payload on permission failure")
	}
}

func TestCheckStatusReportsClaim(t *testing.T) {
	adminSvc := &stubAdminService{isAdmin: true}
	resp := &stubResponseHandler{}
	h := NewAdminHandlers(&Deps{ResponseHandler: resp, AdminSvc: adminSvc})

	req := httptest.NewRequest(http.MethodPost, "/api/admin/status", strings.NewReader(`{"uid":"uid-1"}`))
	rr := httptest.NewRecorder()
	h.CheckStatus(rr, req)

	if adminSvc.statusUID != "uid-1" {
		t.Fatalf("service received wrong uid: %q", adminSvc.statusUID)
	}
	data := resp.writeSuccessData.(map[string]any)
	if data["isAdmin"] != true {
		t.Fatalf("unexpected payload: %v", data)
	}
}

func TestListUsersEmptyResultIsArray(t *testing.T) {
	resp := &stubResponseHandler{}
	h := NewAdminHandlers(&Deps{ResponseHandler: resp, AdminSvc: &stubAdminService{}})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	rr := httptest.NewRecorder()
	h.ListUsers(rr, req)

	data := resp.writeSuccessData.(map[string]any)
	users, ok := data["users"].([]dto.ProviderUser)
	if !ok || users == nil {
		t.Fatalf("users must be an empty slice, got %T", data["users"])
	}
}

func TestSetUserStatusDisables(t *testing.T) {
	adminSvc := &stubAdminService{}
	resp := &stubResponseHandler{}
	h := NewAdminHandlers(&Deps{ResponseHandler: resp, AdminSvc: adminSvc})

	req := httptest.NewRequest(http.MethodPost, "/api/admin/users/status", strings.NewReader(`{"uid":"uid-1","disable":true}`))
	rr := httptest.NewRecorder()
	h.SetUserStatus(rr, req)

	if adminSvc.disabledUID != "uid-1" || !adminSvc.disabled {
		t.Fatalf("service received wrong args: %q %v", adminSvc.disabledUID, adminSvc.disabled)
	}
	data := resp.writeSuccessData.(map[string]any)
	if data["message"] != "user disabled" {
		t.Fatalf("unexpected message: %v", data["message"])
	}
}

func TestPlatformStatsPayload(t *testing.T) {
	adminSvc := &stubAdminService{stats: dto.PlatformStats{TotalUsers: 10, LinkedItems: 4}}
	resp := &stubResponseHandler{}
	h := NewAdminHandlers(&Deps{ResponseHandler: resp, AdminSvc: adminSvc})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
	rr := httptest.NewRecorder()
	h.PlatformStats(rr, req)

	data := resp.writeSuccessData.(map[string]any)
	stats := data["stats"].(dto.PlatformStats)
	if stats.TotalUsers != 10 || stats.LinkedItems != 4 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}
