// Package generator provides the token and latency collaborators used to
// synthesize vehicle enrichments.
package generator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// ErrUnknownTokenFormat indicates an unsupported token format name.
var ErrUnknownTokenFormat = errors.New("unknown token format")

// Token formats.
const (
	FormatUUID = "uuid"
	FormatULID = "ulid"
)

// UUIDTokens produces random (version 4) UUID strings.
type UUIDTokens struct{}

// Token returns a new random UUID.
func (UUIDTokens) Token() string {
	return uuid.NewString()
}

// ULIDTokens produces lexically sortable ULID strings from a monotonic,
// cryptographically seeded entropy source.
type ULIDTokens struct{}

// Token returns a new ULID.
func (ULIDTokens) Token() string {
	return ulid.Make().String()
}

// Tokens is anything that can produce opaque enrichment tokens.
type Tokens interface {
	Token() string
}

// NewTokens returns the token generator for the named format.
// An empty format selects UUIDs.
func NewTokens(format string) (Tokens, error) {
	switch strings.ToLower(format) {
	case "", FormatUUID:
		return UUIDTokens{}, nil
	case FormatULID:
		return ULIDTokens{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTokenFormat, format)
	}
}
