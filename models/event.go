package models

import "time"

// EventKind identifica o tipo de evento de domínio emitido pelo engine.
type EventKind string

const (
	EventMinted      EventKind = "mint"
	EventListed      EventKind = "list"
	EventDelisted    EventKind = "delist"
	EventSold        EventKind = "sold"
	EventOwnerUpdate EventKind = "owner_update"
)

// MarketEvent é o registro imutável emitido uma vez por operação confirmada.
// A sequência é monotônica e atribuída no momento do commit; consumidores
// devem deduplicar por (asset_id, kind, sequence), já que a entrega para o
// indexador é at-least-once.
type MarketEvent struct {
	Sequence uint64    `db:"sequence" json:"sequence"`
	Kind     EventKind `db:"kind" json:"kind"`
	AssetID  string    `db:"asset_id" json:"asset_id"`

	// Campos por tipo de evento; zerados quando não se aplicam.
	Creator  string `db:"creator" json:"creator,omitempty"`   // mint
	Name     string `db:"name" json:"name,omitempty"`         // mint
	MediaURL string `db:"media_url" json:"media_url,omitempty"` // mint
	Seller   string `db:"seller" json:"seller,omitempty"`     // list, delist, sold
	Buyer    string `db:"buyer" json:"buyer,omitempty"`       // sold
	Price    uint64 `db:"price" json:"price,omitempty"`       // list, sold
	OldOwner string `db:"old_owner" json:"old_owner,omitempty"` // owner_update
	NewOwner string `db:"new_owner" json:"new_owner,omitempty"` // owner_update, mint

	EmittedAt time.Time `db:"emitted_at" json:"emitted_at"`
}
