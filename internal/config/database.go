// internal/config/database.go
package config

import (
	"strings"
)

// DSN builds the postgres keyword/value connection string. The password is
// omitted entirely when empty so local trust-auth setups work.
func (d *DatabaseConfig) DSN() string {
	parts := []string{
		"host=" + d.Host,
		"port=" + d.Port,
		"user=" + d.User,
		"dbname=" + d.Database,
		"sslmode=" + d.SSLMode,
	}
	if d.Password != "" {
		parts = append(parts, "password="+d.Password)
	}
	return strings.Join(parts, " ")
}
