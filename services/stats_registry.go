package services

import "github.com/ferreirogomes/quitanda/models"

// StatsRegistry acumula os contadores globais do marketplace. É mutado
// exclusivamente pelo MarketplaceEngine, dentro da mesma unidade atômica
// da operação que o dispara; nunca exposto para mutação externa.
type StatsRegistry struct {
	stats models.MarketStats
}

// NewStatsRegistry cria um registro zerado.
func NewStatsRegistry() *StatsRegistry {
	return &StatsRegistry{}
}

func (r *StatsRegistry) recordMint() {
	r.stats.TotalMinted++
}

func (r *StatsRegistry) recordListing() {
	r.stats.ActiveListings++
}

func (r *StatsRegistry) recordDelisting() {
	r.stats.ActiveListings--
}

// recordSale registra uma venda concluída: a oferta sai do ar, o contador
// de vendas cresce e o volume acumula o preço da oferta (não o valor pago).
func (r *StatsRegistry) recordSale(price uint64) {
	r.stats.ActiveListings--
	r.stats.CompletedSales++
	r.stats.Volume += price
}

// Snapshot devolve uma cópia dos contadores atuais.
func (r *StatsRegistry) Snapshot() models.MarketStats {
	return r.stats
}
