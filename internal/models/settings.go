package models

// DefaultSiteSettings is what getSiteSettings returns before an admin has
// saved anything.
func DefaultSiteSettings() map[string]any {
	return map[string]any{
		"siteName":        "FinTrack",
		"tagline":         "Know where your money goes",
		"supportEmail":    "support@fintrack.app",
		"defaultCurrency": "USD",
		"maintenanceMode": false,
	}
}
