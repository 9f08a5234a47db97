package dto

// ProviderUser is a user record as held by the identity provider.
type ProviderUser struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	Disabled    bool   `json:"disabled"`
	Admin       bool   `json:"admin"`
}

// PlatformStats is the admin dashboard summary.
type PlatformStats struct {
	TotalUsers    int   `json:"totalUsers"`
	AdminUsers    int   `json:"adminUsers"`
	DisabledUsers int   `json:"disabledUsers"`
	LinkedItems   int64 `json:"linkedItems"`
	Transactions  int64 `json:"transactions"`
}
