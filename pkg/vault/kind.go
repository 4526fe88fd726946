package vault

//go:generate go run github.com/dmarkham/enumer -type EntityKind -trimprefix Kind -transform lower -json -output kind.gen.go

// EntityKind identifies one of the hierarchy entity types.
type EntityKind int

const (
	KindOrganization EntityKind = iota
	KindCollection
	KindFolder
	KindPassword
)
