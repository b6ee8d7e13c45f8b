package types

import "context"

// Kind identifies the acquisition strategy for a deployable.
type Kind string

const (
	KindFile  Kind = "file"
	KindMaven Kind = "mvn"
	KindURL   Kind = "url"
)

// Deployable is the interface for all deployable types.
// LocalPath may block on a subprocess or a network download; FileName never does.
type Deployable interface {
	Identifier() string
	Kind() Kind
	FileName() string
	LocalPath(ctx context.Context) (string, error)
}
