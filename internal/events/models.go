// Package events records every ledger state change as an append-only event.
//
// Events are written in the same transaction as the state change they describe.
// The core never reads them back; indexers and the Kafka relay do.
package events

import (
	"time"

	"github.com/google/uuid"

	"landledger/pkg/domain"
)

// Kind names an event.
type Kind string

const (
	PropertyRegistered Kind = "property_registered"
	PropertyVerified   Kind = "property_verified"
	PropertyRejected   Kind = "property_rejected"
	PropertySlashed    Kind = "property_slashed"
	VerifierAdded      Kind = "verifier_added"
	VerifierRemoved    Kind = "verifier_removed"

	StakeDeposited Kind = "stake_deposited"
	StakeWithdrawn Kind = "stake_withdrawn"
	StakeReleased  Kind = "stake_released"
	StakeForfeited Kind = "stake_forfeited"

	TokenCreated              Kind = "token_created"
	TokensTransferredToMarket Kind = "tokens_transferred_to_market"
	TradingEnabled            Kind = "trading_enabled"
	FeeRecipientChanged       Kind = "fee_recipient_changed"

	SaleStarted     Kind = "sale_started"
	TokensPurchased Kind = "tokens_purchased"
	SaleFinalized   Kind = "sale_finalized"
)

// Component identifies the emitter.
type Component string

const (
	ComponentVault    Component = "vault"
	ComponentRegistry Component = "registry"
	ComponentFactory  Component = "factory"
	ComponentMarket   Component = "market"
)

// Event is a single state change. Attributes carry kind-specific fields as
// strings (amounts in base-10, addresses and ids in 0x hex).
type Event struct {
	ID         uuid.UUID         `json:"id"`
	Kind       Kind              `json:"kind"`
	Component  Component         `json:"component"`
	Timestamp  time.Time         `json:"timestamp"`
	Actor      domain.Address    `json:"actor"`
	Subject    string            `json:"subject"`
	RequestID  string            `json:"request_id,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Attr returns the attribute value or "".
func (e Event) Attr(key string) string {
	return e.Attributes[key]
}
