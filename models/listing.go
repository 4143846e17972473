package models

import "time"

// Listing representa uma oferta de venda ativa para um ativo.
// Enquanto a oferta existe, o ativo está sob custódia do marketplace:
// o vendedor não pode transferi-lo para fora até vender ou cancelar.
type Listing struct {
	AssetID   string    `db:"asset_id" json:"asset_id"`
	Seller    string    `db:"seller" json:"seller"`
	Price     uint64    `db:"price" json:"price"` // Na menor unidade de pagamento; sempre > 0
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
