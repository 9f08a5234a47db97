package main

import (
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/asandoval/fintrack-backend/infra/cloudrun"
	"github.com/asandoval/fintrack-backend/infra/docker"
	"github.com/asandoval/fintrack-backend/infra/firestore"
	"github.com/asandoval/fintrack-backend/infra/identity"
	"github.com/asandoval/fintrack-backend/infra/kms"
	"github.com/asandoval/fintrack-backend/infra/provider"
)

func main() {
	pulumi.Run(func(ctx *pulumi.Context) error {
		// set default provider with the correct project
		prov, err := provider.SetupDefaultProvider(ctx)
		if err != nil {
			return err
		}

		// enable identity service to allow using firebase
		ident, err := identity.SetupIdentity(ctx)
		if err != nil {
			return err
		}

		// enable firestore and create a database for the project
		err = firestore.SetupFirestore(ctx, prov)
		if err != nil {
			return err
		}

		// key ring + crypto key for access token encryption
		_, err = kms.SetupKMS(ctx, prov)
		if err != nil {
			return err
		}
		keyID, err := kms.CreateKey(ctx, prov, "fintrack", "access-tokens")
		if err != nil {
			return err
		}

		// create docker repo
		repo, err := docker.CreateCloudrunRepo(ctx)
		if err != nil {
			return err
		}

		_, err = cloudrun.SetupCloudRun(ctx, prov, keyID, ident, repo)
		if err != nil {
			return err
		}

		return nil
	})
}
