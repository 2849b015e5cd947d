package settings

// Setting keys stored in config.db.
const (
	KeyFMPAPIKey           = "fmp_api_key"
	KeyDefaultTolerancePct = "default_tolerance_pct"
	KeyR2AccountID         = "r2_account_id"
	KeyR2AccessKeyID       = "r2_access_key_id"
	KeyR2SecretAccessKey   = "r2_secret_access_key"
	KeyR2BucketName        = "r2_bucket_name"
	KeyBackupRetentionDays = "backup_retention_days"
)

// SettingDefaults holds all default values for configurable settings
var SettingDefaults = map[string]interface{}{
	// Upstream data provider
	KeyFMPAPIKey: "", // Financial Modeling Prep API key

	// Dashboard
	KeyDefaultTolerancePct: 10.0, // Bounds envelope around the group average, in percent

	// Cloudflare R2 backup
	KeyR2AccountID:         "",
	KeyR2AccessKeyID:       "",
	KeyR2SecretAccessKey:   "",
	KeyR2BucketName:        "",
	KeyBackupRetentionDays: 30.0, // 0 keeps backups forever
}

// StringSettings lists the settings stored and returned as strings.
var StringSettings = map[string]bool{
	KeyFMPAPIKey:         true,
	KeyR2AccountID:       true,
	KeyR2AccessKeyID:     true,
	KeyR2SecretAccessKey: true,
	KeyR2BucketName:      true,
}

// SecretSettings are masked when settings are listed.
var SecretSettings = map[string]bool{
	KeyFMPAPIKey:         true,
	KeyR2SecretAccessKey: true,
}

// SettingDescriptions documents each setting.
var SettingDescriptions = map[string]string{
	KeyFMPAPIKey:           "Financial Modeling Prep API key used by the data proxy and the dashboard",
	KeyDefaultTolerancePct: "Default percentage range around the group average (0-100)",
	KeyR2AccountID:         "Cloudflare account ID for R2 backups",
	KeyR2AccessKeyID:       "R2 access key ID",
	KeyR2SecretAccessKey:   "R2 secret access key",
	KeyR2BucketName:        "R2 bucket that receives config database backups",
	KeyBackupRetentionDays: "Days to keep R2 backups (0 = keep forever)",
}

// SettingUpdate is the body of PUT /api/settings/{key}.
type SettingUpdate struct {
	Value interface{} `json:"value"`
}
