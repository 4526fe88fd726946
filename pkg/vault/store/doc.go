// Package store defines the persistence boundary of the vault core: plain
// entity structs, the Store interface, and keyset pagination cursors.
// Backends live in the gorm and memory subpackages.
package store
