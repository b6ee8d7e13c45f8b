package types

import "strings"

// Identifier is a parsed deployable reference.
type Identifier struct {
	Raw      string // As supplied by the caller
	Scheme   string // Lower-cased scheme, empty for plain paths
	Specific string // Everything after "<scheme>:", or Raw when there is no scheme
}

// ParseIdentifier splits raw into scheme and scheme-specific part. It never
// fails: anything without a recognizable scheme is treated as a plain path.
func ParseIdentifier(raw string) Identifier {
	scheme, specific, ok := strings.Cut(raw, ":")
	if !ok || !validScheme(scheme) {
		return Identifier{Raw: raw, Specific: raw}
	}
	return Identifier{
		Raw:      raw,
		Scheme:   strings.ToLower(scheme),
		Specific: specific,
	}
}

// String returns the raw identifier.
func (id Identifier) String() string {
	return id.Raw
}

// validScheme follows RFC 3986: ALPHA *( ALPHA / DIGIT / "+" / "-" / "." ).
// Single letters are rejected so Windows drive letters stay plain paths.
func validScheme(s string) bool {
	if len(s) < 2 {
		return false
	}
	for i, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && (c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	return true
}

// lastSegment returns the final "/"-separated segment of p, ignoring
// trailing slashes.
func lastSegment(p string) string {
	p = strings.TrimRight(p, "/")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}
	return p
}
