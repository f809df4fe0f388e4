package config

import (
	"os"
	"strings"
)

// applyEnv overrides file values with non-blank ATTENDANCE_* variables.
func applyEnv(c *Config) {
	c.AdminPass = getenvDefault("ATTENDANCE_ADMIN_PASS", c.AdminPass)
	c.DatabasePath = getenvDefault("ATTENDANCE_DB_PATH", c.DatabasePath)
	c.ExportDir = getenvDefault("ATTENDANCE_EXPORT_DIR", c.ExportDir)
	c.HTTPAddr = getenvDefault("ATTENDANCE_HTTP_ADDR", c.HTTPAddr)
	c.GRPCAddr = getenvDefault("ATTENDANCE_GRPC_ADDR", c.GRPCAddr)
	c.LogLevel = strings.ToLower(getenvDefault("ATTENDANCE_LOG_LEVEL", c.LogLevel))
	c.LogFormat = strings.ToLower(getenvDefault("ATTENDANCE_LOG_FORMAT", c.LogFormat))
}

func getenvDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
