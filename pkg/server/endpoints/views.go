package endpoints

import (
	"time"

	"github.com/doodlesbykumbi/vault-in-go/pkg/vault/entity"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault/store"
)

// passwordView is the wire shape of a password. Secret is always the
// redaction marker; plaintext is served only by the value endpoint.
type passwordView struct {
	ID             string    `json:"id"`
	OrgID          string    `json:"org_id"`
	CollectionID   string    `json:"collection_id,omitempty"`
	FolderID       string    `json:"folder_id,omitempty"`
	Name           string    `json:"name"`
	Username       string    `json:"username,omitempty"`
	Secret         string    `json:"secret"`
	URLs           []string  `json:"urls,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	LastModifiedAt time.Time `json:"last_modified_at"`
	LockVersion    int       `json:"lock_version"`
}

func viewPassword(p *store.Password) passwordView {
	return passwordView{
		ID:             p.ID,
		OrgID:          p.OrgID,
		CollectionID:   p.CollectionID,
		FolderID:       p.FolderID,
		Name:           p.Name,
		Username:       p.Username,
		Secret:         entity.Redacted,
		URLs:           p.URLs,
		Notes:          p.Notes,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
		LastModifiedAt: p.LastModifiedAt,
		LockVersion:    p.LockVersion,
	}
}

type childView struct {
	Kind      string    `json:"kind"`
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type childrenPage struct {
	Children []childView `json:"children"`
	Next     string      `json:"next,omitempty"`
}

func viewChildren(nodes []store.Node, next string) childrenPage {
	page := childrenPage{Children: make([]childView, 0, len(nodes)), Next: next}
	for i := range nodes {
		page.Children = append(page.Children, childView{
			Kind:      nodes[i].Kind.String(),
			ID:        nodes[i].ID,
			Name:      nodes[i].Name,
			CreatedAt: nodes[i].CreatedAt,
		})
	}
	return page
}
