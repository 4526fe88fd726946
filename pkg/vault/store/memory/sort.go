package memory

import (
	"sort"

	"github.com/doodlesbykumbi/vault-in-go/pkg/vault/store"
)

func sortAttachments(attachments []store.Attachment) {
	sort.Slice(attachments, func(i, j int) bool {
		if attachments[i].CreatedAt.Equal(attachments[j].CreatedAt) {
			return attachments[i].ID < attachments[j].ID
		}
		return attachments[i].CreatedAt.Before(attachments[j].CreatedAt)
	})
}

func sortTrashItems(items []store.TrashItem) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].DeletedAt.Equal(items[j].DeletedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].DeletedAt.Before(items[j].DeletedAt)
	})
}
