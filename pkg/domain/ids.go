// Package domain holds the identifier and amount types shared by every ledger component.
//
// Identifiers are fixed-size byte arrays so they are comparable and usable as map keys.
// Parse functions are the trust boundary: anything accepted by them is well formed.
package domain

import (
	"database/sql/driver"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"

	dErrors "landledger/pkg/domain-errors"
)

const (
	AddressLength    = 20
	PropertyIDLength = 32
)

// Address identifies a principal or a ledger component (account, token, vault, market).
type Address [AddressLength]byte

// PropertyID is the content hash that identifies a registered property.
type PropertyID [PropertyIDLength]byte

// ZeroAddress is never a valid principal.
var ZeroAddress Address

// Keccak256 hashes the concatenation of parts.
func Keccak256(parts ...[]byte) [32]byte {
	h := sha3.NewLegacyKeccak256()
	for _, p := range parts {
		h.Write(p)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// DeriveAddress maps a stable label to an address (last 20 bytes of its Keccak-256).
// Used for component accounts such as the vault and the market.
func DeriveAddress(label string) Address {
	sum := Keccak256([]byte(label))
	var a Address
	copy(a[:], sum[PropertyIDLength-AddressLength:])
	return a
}

// ParseAddress parses a 0x-prefixed, 40 hex digit address. The zero address is rejected.
func ParseAddress(s string) (Address, error) {
	var a Address
	if err := decodeHex(s, a[:], "address"); err != nil {
		return Address{}, err
	}
	if a.IsZero() {
		return Address{}, dErrors.New(dErrors.CodeInvalidInput, "address must not be zero")
	}
	return a, nil
}

// MustAddress parses s and panics on failure. Intended for constants and tests.
func MustAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Address) IsZero() bool { return a == ZeroAddress }

func (a Address) String() string { return "0x" + hex.EncodeToString(a[:]) }

func (a Address) Bytes() []byte { return a[:] }

func (a Address) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *Address) UnmarshalText(b []byte) error {
	parsed, err := ParseAddress(string(b))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Value stores addresses as their hex string.
func (a Address) Value() (driver.Value, error) { return a.String(), nil }

// Scan accepts the hex string written by Value. The zero address round-trips.
func (a *Address) Scan(src any) error {
	s, err := scanString(src)
	if err != nil {
		return err
	}
	return decodeHex(s, a[:], "address")
}

// ParsePropertyID parses a 0x-prefixed, 64 hex digit property id.
func ParsePropertyID(s string) (PropertyID, error) {
	var id PropertyID
	if err := decodeHex(s, id[:], "property id"); err != nil {
		return PropertyID{}, err
	}
	if id.IsZero() {
		return PropertyID{}, dErrors.New(dErrors.CodeInvalidInput, "property id must not be zero")
	}
	return id, nil
}

func (id PropertyID) IsZero() bool { return id == PropertyID{} }

func (id PropertyID) String() string { return "0x" + hex.EncodeToString(id[:]) }

func (id PropertyID) Bytes() []byte { return id[:] }

func (id PropertyID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *PropertyID) UnmarshalText(b []byte) error {
	parsed, err := ParsePropertyID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id PropertyID) Value() (driver.Value, error) { return id.String(), nil }

func (id *PropertyID) Scan(src any) error {
	s, err := scanString(src)
	if err != nil {
		return err
	}
	return decodeHex(s, id[:], "property id")
}

func decodeHex(s string, dst []byte, what string) error {
	raw, ok := strings.CutPrefix(s, "0x")
	if !ok {
		raw, ok = strings.CutPrefix(s, "0X")
	}
	if !ok {
		return dErrors.New(dErrors.CodeInvalidInput, what+" must start with 0x")
	}
	if len(raw) != 2*len(dst) {
		return dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("%s must be %d hex digits", what, 2*len(dst)))
	}
	if _, err := hex.Decode(dst, []byte(raw)); err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, what+" is not valid hex")
	}
	return nil
}

func scanString(src any) (string, error) {
	switch v := src.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("unsupported scan type %T", src)
	}
}
