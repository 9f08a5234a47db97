package bootstrap

import (
	"context"
	"fmt"

	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"

	"github.com/asandoval/fintrack-backend/internal/config"
	"github.com/asandoval/fintrack-backend/internal/errs"
)

// AdminKey resolves the admin grant key: the ADMINKEY env value wins, then a
// Secret Manager secret named by ADMINKEYSECRET. There is deliberately no
// built-in fallback key.
func (bs *Bootstrap) AdminKey(ctx context.Context, cfg *config.Config) (string, error) {
	if cfg.AdminKey != "" {
		return cfg.AdminKey, nil
	}

	if cfg.AdminKeySecret == "" {
		return "", errs.NewConfigError("ADMINKEY or ADMINKEYSECRET must be set")
	}

	name := fmt.Sprintf("projects/%s/secrets/%s/versions/latest", cfg.ProjectID, cfg.AdminKeySecret)
	res, err := bs.Secrets.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: name,
	})
	if err != nil {
		return "", err
	}
	return string(res.Payload.Data), nil
}
