package models

// MarketStats agrega os contadores globais do marketplace.
// ActiveListings é sempre igual à cardinalidade do conjunto de ofertas;
// os demais contadores só crescem.
type MarketStats struct {
	TotalMinted    uint64 `db:"total_minted" json:"total_minted"`
	ActiveListings uint64 `db:"active_listings" json:"active_listings"`
	CompletedSales uint64 `db:"completed_sales" json:"completed_sales"`
	Volume         uint64 `db:"volume" json:"volume"` // Soma dos preços de venda (preço da oferta, não o valor pago)
}
