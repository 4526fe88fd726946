// Package config provides configuration management for the vault server.
//
// This package handles loading and validating server configuration from
// environment variables and configuration files.
//
// # Configuration Sources
//
// Configuration is loaded from:
//
//   - Environment variables (primary)
//   - Configuration files (optional)
//
// # Key Configuration Options
//
//   - VAULT_DATA_KEY: Encryption master key (base64)
//   - VAULT_SIGNING_KEY: Token signing key
//   - VAULT_LOG_LEVEL: Logging verbosity
//   - VAULT_CONFIG_PATH: Directory holding vault.yml
//   - DATABASE_URL: Database connection
package config
