package models

import "time"

// Asset representa um ativo digital único negociado no marketplace.
type Asset struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	MediaURL    string    `db:"media_url" json:"media_url"`
	Creator     string    `db:"creator" json:"creator"` // Imutável após o mint
	Owner       string    `db:"owner" json:"owner"`     // Dono atual; muda via compra ou transferência
	MintAddress string    `db:"mint_address" json:"mint_address,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
