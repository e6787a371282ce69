package models

import (
	"encoding/binary"
	"strings"

	"landledger/pkg/domain"
	dErrors "landledger/pkg/domain-errors"
)

const (
	// MicroDegrees is the fixed-point scale of Latitude and Longitude.
	MicroDegrees = 1_000_000

	maxFieldLength = 256
)

// PropertyMetadata describes a parcel. It is immutable once registered.
type PropertyMetadata struct {
	SurveyID     string
	Location     string
	Latitude     int64
	Longitude    int64
	Area         uint64
	DocumentHash string
	Valuation    domain.Amount
}

// Normalize trims surrounding whitespace from text fields.
func (m *PropertyMetadata) Normalize() {
	m.SurveyID = strings.TrimSpace(m.SurveyID)
	m.Location = strings.TrimSpace(m.Location)
	m.DocumentHash = strings.TrimSpace(m.DocumentHash)
}

// Validate enforces the metadata invariants. Call Normalize first.
func (m PropertyMetadata) Validate() error {
	switch {
	case m.Valuation.IsZero():
		return dErrors.New(dErrors.CodeInvalidMetadata, "valuation must be positive")
	case m.Area == 0:
		return dErrors.New(dErrors.CodeInvalidMetadata, "area must be positive")
	case m.SurveyID == "":
		return dErrors.New(dErrors.CodeInvalidMetadata, "survey id is required")
	case m.Location == "":
		return dErrors.New(dErrors.CodeInvalidMetadata, "location is required")
	case m.DocumentHash == "":
		return dErrors.New(dErrors.CodeInvalidMetadata, "document hash is required")
	case len(m.SurveyID) > maxFieldLength, len(m.Location) > maxFieldLength, len(m.DocumentHash) > maxFieldLength:
		return dErrors.New(dErrors.CodeInvalidMetadata, "metadata fields must be at most 256 bytes")
	case m.Latitude < -90*MicroDegrees || m.Latitude > 90*MicroDegrees:
		return dErrors.New(dErrors.CodeInvalidMetadata, "latitude out of range")
	case m.Longitude < -180*MicroDegrees || m.Longitude > 180*MicroDegrees:
		return dErrors.New(dErrors.CodeInvalidMetadata, "longitude out of range")
	}
	return nil
}

// DerivePropertyID hashes the metadata, the registrant and the registry nonce.
// Strings are length-prefixed so distinct metadata never share an encoding.
func DerivePropertyID(m PropertyMetadata, owner domain.Address, nonce uint64) domain.PropertyID {
	var buf []byte
	putString := func(s string) {
		buf = binary.BigEndian.AppendUint64(buf, uint64(len(s)))
		buf = append(buf, s...)
	}
	putString(m.SurveyID)
	putString(m.Location)
	buf = binary.BigEndian.AppendUint64(buf, uint64(m.Latitude))
	buf = binary.BigEndian.AppendUint64(buf, uint64(m.Longitude))
	buf = binary.BigEndian.AppendUint64(buf, m.Area)
	putString(m.DocumentHash)
	buf = binary.BigEndian.AppendUint64(buf, m.Valuation.Uint64())
	buf = append(buf, owner.Bytes()...)
	buf = binary.BigEndian.AppendUint64(buf, nonce)
	return domain.PropertyID(domain.Keccak256(buf))
}
