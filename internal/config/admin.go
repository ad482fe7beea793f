package config

// AdminConfig holds the building administrator's credentials.  The
// password is stored only as a bcrypt hash (see cmd/hashpassword).  Admin
// routes stay disabled while the hash is empty.
type AdminConfig struct {
	Username     string
	PasswordHash string
}

// Enabled reports whether admin login is possible.
func (a AdminConfig) Enabled() bool { return a.PasswordHash != "" }

// LoadAdminConfig reads ADMIN_USERNAME and ADMIN_PASSWORD_HASH.
func LoadAdminConfig() AdminConfig {
	return AdminConfig{
		Username:     envStr("ADMIN_USERNAME", "admin"),
		PasswordHash: envStr("ADMIN_PASSWORD_HASH", ""),
	}
}
