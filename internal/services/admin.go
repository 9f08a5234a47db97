package services

import (
	"context"
	"crypto/subtle"

	"github.com/asandoval/fintrack-backend/internal/dto"
	"github.com/asandoval/fintrack-backend/internal/errs"
	"github.com/asandoval/fintrack-backend/pkg/logger"
)

// The identity provider caps a listing page at this many users.
const maxUserPage = 1000

type identityClient interface {
	UserByEmail(ctx context.Context, email string) (dto.ProviderUser, error)
	User(ctx context.Context, uid string) (dto.ProviderUser, error)
	GrantAdminClaim(ctx context.Context, uid string) error
	SetDisabled(ctx context.Context, uid string, disabled bool) error
	ListUsers(ctx context.Context, max int) ([]dto.ProviderUser, error)
}

type statsASStore interface {
	CountLinkedItems(ctx context.Context) (int64, error)
	CountTransactions(ctx context.Context) (int64, error)
}

type adminService struct {
	identity identityClient
	stats    statsASStore
	adminKey string
}

func NewAdminService(identity identityClient, stats statsASStore, adminKey string) *adminService {
	return &adminService{
		identity: identity,
		stats:    stats,
		adminKey: adminKey,
	}
}

// GrantAdmin sets the admin custom claim on the user identified by email,
// provided the caller presents the configured grant key. A wrong key mutates
// nothing. The claim lives only in the identity provider; no document is
// dual-written.
func (s *adminService) GrantAdmin(ctx context.Context, email, key string) (string, error) {
	if s.adminKey == "" {
		return "", errs.NewConfigError("admin grant key is not configured")
	}
	if subtle.ConstantTimeCompare([]byte(key), []byte(s.adminKey)) != 1 {
		return "", errs.NewPermissionError("invalid admin key")
	}

	user, err := s.identity.UserByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if err := s.identity.GrantAdminClaim(ctx, user.UID); err != nil {
		return "", err
	}

	log := logger.FromContext(ctx)
	log.Info("admin role granted", "uid", user.UID)
	return user.UID, nil
}

// IsAdmin reads the live auth record, so grants made after the caller's token
// was minted are still visible.
func (s *adminService) IsAdmin(ctx context.Context, uid string) (bool, error) {
	user, err := s.identity.User(ctx, uid)
	if err != nil {
		return false, err
	}
	return user.Admin, nil
}

func (s *adminService) ListUsers(ctx context.Context) ([]dto.ProviderUser, error) {
	return s.identity.ListUsers(ctx, maxUserPage)
}

func (s *adminService) SetUserDisabled(ctx context.Context, uid string, disable bool) error {
	if err := s.identity.SetDisabled(ctx, uid, disable); err != nil {
		return err
	}

	log := logger.FromContext(ctx)
	log.Info("user status changed", "uid", uid, "disabled", disable)
	return nil
}

func (s *adminService) PlatformStats(ctx context.Context) (dto.PlatformStats, error) {
	var stats dto.PlatformStats

	users, err := s.identity.ListUsers(ctx, maxUserPage)
	if err != nil {
		return stats, err
	}
	stats.TotalUsers = len(users)
	for _, u := range users {
		if u.Admin {
			stats.AdminUsers++
		}
		if u.Disabled {
			stats.DisabledUsers++
		}
	}

	stats.LinkedItems, err = s.stats.CountLinkedItems(ctx)
	if err != nil {
		return stats, err
	}
	stats.Transactions, err = s.stats.CountTransactions(ctx)
	if err != nil {
		return stats, err
	}

	return stats, nil
}
