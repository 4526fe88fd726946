// Package attachment manages password attachments. The vault stores
// only attachment metadata and an opaque storage key; the bytes live in
// external blob storage reached through presigned URLs, so attachment
// payloads never pass through the vault process.
package attachment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/doodlesbykumbi/vault-in-go/pkg/identity"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault/access"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault/store"
)

// Resolver turns a storage key into time-limited transfer URLs.
type Resolver interface {
	UploadURL(ctx context.Context, storageKey string, expires time.Duration) (string, error)
	DownloadURL(ctx context.Context, storageKey string, expires time.Duration) (string, error)
}

// Service exposes attachment operations gated by the access evaluator.
type Service struct {
	store    store.Store
	resolver Resolver
	urlTTL   time.Duration
}

// NewService wires attachment handling to a store and a resolver.
func NewService(st store.Store, resolver Resolver, urlTTL time.Duration) *Service {
	if urlTTL <= 0 {
		urlTTL = 15 * time.Minute
	}
	return &Service{store: st, resolver: resolver, urlTTL: urlTTL}
}

// RandomStorageKey produces a date-partitioned blob key.
func RandomStorageKey(tenantID string) string {
	d := time.Now().UTC()
	return fmt.Sprintf("tenants/%s/%d/%d/%d/%v", tenantID, d.Year(), d.Month(), d.Day(), uuid.New())
}

// Create registers attachment metadata under a password and returns the
// record plus a presigned upload URL for the payload.
func (s *Service) Create(ctx context.Context, user *identity.Identity, passwordID, name, mimeType string, size int64) (*store.Attachment, string, error) {
	if name == "" {
		return nil, "", fmt.Errorf("%w: attachment name must not be empty", vault.ErrValidation)
	}
	if err := s.requirePassword(user, passwordID, vault.OpWrite); err != nil {
		return nil, "", err
	}

	attachment := &store.Attachment{
		ID:         uuid.NewString(),
		PasswordID: passwordID,
		Name:       name,
		MimeType:   mimeType,
		Size:       size,
		StorageKey: RandomStorageKey(user.TenantID),
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.store.CreateAttachment(attachment); err != nil {
		return nil, "", err
	}

	uploadURL, err := s.resolver.UploadURL(ctx, attachment.StorageKey, s.urlTTL)
	if err != nil {
		return nil, "", err
	}
	return attachment, uploadURL, nil
}

// DownloadURL returns a presigned download URL for an attachment the
// user may read.
func (s *Service) DownloadURL(ctx context.Context, user *identity.Identity, attachmentID string) (string, error) {
	attachment, err := s.store.Attachment(attachmentID)
	if err != nil {
		return "", err
	}
	if err := s.requirePassword(user, attachment.PasswordID, vault.OpRead); err != nil {
		return "", err
	}
	return s.resolver.DownloadURL(ctx, attachment.StorageKey, s.urlTTL)
}

// List returns the attachment metadata of a password the user may read.
func (s *Service) List(user *identity.Identity, passwordID string) ([]store.Attachment, error) {
	if err := s.requirePassword(user, passwordID, vault.OpRead); err != nil {
		return nil, err
	}
	return s.store.AttachmentsForPassword(passwordID)
}

func (s *Service) requirePassword(user *identity.Identity, passwordID string, op vault.Operation) error {
	node, err := s.store.Node(vault.KindPassword, passwordID)
	if err != nil {
		return err
	}
	if node.Deleted {
		return fmt.Errorf("%w: password %s", vault.ErrNotFound, passwordID)
	}
	return access.NewEvaluator(s.store).EvaluateNode(user, node, op)
}
