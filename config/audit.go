package config

import "strings"

// AuditConfig contains audit log sink configuration.
type AuditConfig struct {
	// Sink is "stdout" or a file path; records are appended as JSON lines.
	Sink string `env:"AUDIT_SINK" envDefault:"stdout"`
}

// Sanitize normalises audit configuration values.
func (c *AuditConfig) Sanitize() {
	c.Sink = strings.TrimSpace(c.Sink)
	if c.Sink == "" {
		c.Sink = "stdout"
	}
}
