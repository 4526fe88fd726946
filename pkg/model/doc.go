// Package model defines the GORM row types backing the vault store.
//
// These structs map one to one onto the schema in pkg/db/migrations.
// Conversions to and from the domain types in pkg/vault/store live in
// the gorm store implementation; nothing outside persistence should
// depend on this package.
package model
