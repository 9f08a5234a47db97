package identityclient

import (
	"context"

	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/iterator"

	"github.com/asandoval/fintrack-backend/internal/dto"
	"github.com/asandoval/fintrack-backend/internal/errs"
)

// adminClaim is the custom claim gating administrative operations. The
// identity provider is the single source of truth for it; nothing is mirrored
// into Firestore.
const adminClaim = "admin"

type Adapter struct {
	client *auth.Client
}

func NewAdapter(client *auth.Client) *Adapter {
	return &Adapter{client: client}
}

func (a *Adapter) UserByEmail(ctx context.Context, email string) (dto.ProviderUser, error) {
	rec, err := a.client.GetUserByEmail(ctx, email)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return dto.ProviderUser{}, errs.NewNotFoundError("no user with email " + email)
		}
		return dto.ProviderUser{}, errs.NewExternalServiceError("identity", err.Error())
	}
	return fromRecord(rec), nil
}

func (a *Adapter) User(ctx context.Context, uid string) (dto.ProviderUser, error) {
	rec, err := a.client.GetUser(ctx, uid)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return dto.ProviderUser{}, errs.NewNotFoundError("no user with uid " + uid)
		}
		return dto.ProviderUser{}, errs.NewExternalServiceError("identity", err.Error())
	}
	return fromRecord(rec), nil
}

// GrantAdminClaim sets admin=true, preserving any other custom claims.
func (a *Adapter) GrantAdminClaim(ctx context.Context, uid string) error {
	rec, err := a.client.GetUser(ctx, uid)
	if err != nil {
		return errs.NewExternalServiceError("identity", err.Error())
	}

	claims := make(map[string]interface{}, len(rec.CustomClaims)+1)
	for k, v := range rec.CustomClaims {
		claims[k] = v
	}
	claims[adminClaim] = true

	if err := a.client.SetCustomUserClaims(ctx, uid, claims); err != nil {
		return errs.NewExternalServiceError("identity", err.Error())
	}
	return nil
}

func (a *Adapter) SetDisabled(ctx context.Context, uid string, disabled bool) error {
	update := (&auth.UserToUpdate{}).Disabled(disabled)
	if _, err := a.client.UpdateUser(ctx, uid, update); err != nil {
		if auth.IsUserNotFound(err) {
			return errs.NewNotFoundError("no user with uid " + uid)
		}
		return errs.NewExternalServiceError("identity", err.Error())
	}
	return nil
}

// ListUsers pages through the provider's user list. A max of 0 means all
// users; the provider caps each page at 1000 regardless.
func (a *Adapter) ListUsers(ctx context.Context, max int) ([]dto.ProviderUser, error) {
	var users []dto.ProviderUser

	it := a.client.Users(ctx, "")
	for {
		rec, err := it.Next()
		if err == iterator.Done {
			return users, nil
		}
		if err != nil {
			return nil, errs.NewExternalServiceError("identity", err.Error())
		}
		users = append(users, fromRecord(rec.UserRecord))
		if max > 0 && len(users) >= max {
			return users, nil
		}
	}
}

func fromRecord(rec *auth.UserRecord) dto.ProviderUser {
	isAdmin, _ := rec.CustomClaims[adminClaim].(bool)
	return dto.ProviderUser{
		UID:         rec.UID,
		Email:       rec.Email,
		DisplayName: rec.DisplayName,
		Disabled:    rec.Disabled,
		Admin:       isAdmin,
	}
}
