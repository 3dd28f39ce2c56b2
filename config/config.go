package config

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config files for
// details on available environment variables:
//   - database.go: Database connection configuration
//   - storage.go: Dump storage configuration
//   - audit.go: Audit log sink configuration
//   - observability.go: Metrics configuration
//
// The per-table sweep jobs themselves live in the YAML document passed via
// --config, not in the environment.
type AppConfig struct {
	// Database connection configuration
	Postgres DBConfig `envPrefix:"DB_"`

	// Dump storage configuration
	Storage StorageConfig

	// Audit log configuration
	Audit AuditConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.Storage.Sanitize()
	c.Audit.Sanitize()
	c.Observability.Sanitize()
}
