// Package main implements vaultctl, the CLI for the multi-tenant
// password vault server.
//
// The vault stores credentials in a tenant-scoped hierarchy of
// organizations, collections, folders and passwords. Secrets are
// encrypted at rest with a per-tenant key derived from the data key;
// deletes cascade into a restorable trash.
//
// # Architecture
//
//   - pkg/server: HTTP server and routing
//   - pkg/server/endpoints: REST API endpoint handlers
//   - pkg/vault: error taxonomy and entity kinds
//   - pkg/vault/entity: entity lifecycle operations
//   - pkg/vault/access: grant and share evaluation
//   - pkg/vault/trash: cascade delete, restore and purge
//   - pkg/crypto: encryption engine and key providers
//   - pkg/attachment: presigned blob transfer URLs
//   - pkg/model: database models
//   - pkg/db: database connection utilities
//   - pkg/audit: audit logging
//   - pkg/config: configuration management
//
// # Quick Start
//
//	# Generate a data key for encryption
//	export VAULT_DATA_KEY="$(vaultctl data-key generate)"
//
//	# Run database migrations
//	vaultctl db migrate
//
//	# Start the server
//	vaultctl server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - VAULT_DATA_KEY: Base64-encoded 256-bit key for data encryption
//   - VAULT_TOKEN_SIGNING_KEY: key used to sign and verify API tokens
//   - VAULT_CONFIG_PATH: directory holding vault.yml
//   - VAULT_S3_BUCKET (and VAULT_S3_*): attachment blob storage
//   - VAULT_LOG_LEVEL: log level (debug, info, warn, error)
package main
