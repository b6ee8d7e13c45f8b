// Package deployable resolves deployable identifiers into local files.
// The strategy types are in the types subpackage.
package deployable

import (
	"deployables/internal/deployable/types"
)

// Re-export types for convenience
type (
	Deployable = types.Deployable
	Kind       = types.Kind
	Identifier = types.Identifier
	Coordinate = types.Coordinate
	File       = types.File
	Maven      = types.Maven
	URL        = types.URL
)

// Re-export constants and constructors
const (
	KindFile  = types.KindFile
	KindMaven = types.KindMaven
	KindURL   = types.KindURL
)

var ParseIdentifier = types.ParseIdentifier
