// Package capability provides unforgeable handles for component-to-component calls.
//
// A Handle is minted once at deployment time and handed to the component that is
// allowed to make privileged calls (the registry) and to the components that must
// accept them (the vault and the factory). A handle cannot be constructed outside
// this package, and two handles are equal only if they came from the same Mint call.
package capability

import (
	dErrors "landledger/pkg/domain-errors"
)

type grant struct {
	name string
}

// Handle is a comparable, opaque token. The zero Handle grants nothing.
type Handle struct {
	g *grant
}

// Mint creates a fresh handle. name is only used in error messages.
func Mint(name string) Handle {
	return Handle{g: &grant{name: name}}
}

// Valid reports whether the handle was minted.
func (h Handle) Valid() bool { return h.g != nil }

// Name returns the label given at mint time.
func (h Handle) Name() string {
	if h.g == nil {
		return ""
	}
	return h.g.name
}

// Check returns CodeNotRegistry unless presented matches expected.
func Check(expected, presented Handle) error {
	if !expected.Valid() || expected != presented {
		return dErrors.New(dErrors.CodeNotRegistry, "caller is not the registry")
	}
	return nil
}
