// Package vault defines the shared vocabulary of the vault core: entity
// kinds, trash item statuses, operation classes and the error taxonomy
// every component reports against.
package vault
