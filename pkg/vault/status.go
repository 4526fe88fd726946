package vault

//go:generate go run github.com/dmarkham/enumer -type TrashStatus -trimprefix Status -transform lower -json -output status.gen.go

// TrashStatus tracks the lifecycle of a trash item. Purged items are
// deleted outright, so no terminal "purged" value is stored.
type TrashStatus int

const (
	StatusPending TrashStatus = iota
	StatusRestored
)

// Operation is the access class a caller requests on an entity.
type Operation int

const (
	OpRead Operation = iota
	OpWrite
)

func (o Operation) String() string {
	if o == OpWrite {
		return "write"
	}
	return "read"
}
