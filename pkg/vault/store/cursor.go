package store

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/doodlesbykumbi/vault-in-go/pkg/vault"
)

// Cursor is an opaque keyset-pagination position: the (created_at, id)
// pair of the last item on the previous page. The identity tiebreak keeps
// pagination deterministic under concurrent inserts sharing a timestamp.
type Cursor struct {
	CreatedAt time.Time
	ID        string
}

// String encodes the cursor for transport.
func (c Cursor) String() string {
	raw := c.CreatedAt.UTC().Format(time.RFC3339Nano) + "|" + c.ID
	return base64.URLEncoding.EncodeToString([]byte(raw))
}

// ParseCursor decodes a transport cursor. An empty string means "from the
// beginning" and yields a nil cursor.
func ParseCursor(s string) (*Cursor, error) {
	if s == "" {
		return nil, nil
	}

	raw, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed cursor", vault.ErrValidation)
	}

	parts := strings.SplitN(string(raw), "|", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: malformed cursor", vault.ErrValidation)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: malformed cursor timestamp", vault.ErrValidation)
	}

	return &Cursor{CreatedAt: createdAt, ID: parts[1]}, nil
}

// After reports whether the node sorts strictly after the cursor in
// (created_at, id) order.
func (c *Cursor) After(n *Node) bool {
	if c == nil {
		return true
	}
	if n.CreatedAt.After(c.CreatedAt) {
		return true
	}
	return n.CreatedAt.Equal(c.CreatedAt) && n.ID > c.ID
}
