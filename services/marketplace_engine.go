package services

import (
	"sync"
	"time"

	"github.com/ferreirogomes/quitanda/models"
)

// MarketplaceEngine orquestra mint, oferta, cancelamento, compra e
// transferência como transações seriais sobre o AssetStore e o
// ListingLedger. Um único mutex global garante que cada operação é uma
// unidade indivisível: ou todas as precondições valem e todos os efeitos
// (mutação de estado, contadores, eventos) acontecem, ou nada acontece e
// um erro é devolvido. Nenhum estado parcial é observável.
type MarketplaceEngine struct {
	mu      sync.Mutex
	assets  *AssetStore
	ledger  *ListingLedger
	stats   *StatsRegistry
	sink    EventSink
	lastSeq uint64
}

// NewMarketplaceEngine cria o engine com os componentes injetados.
// O sink recebe exatamente um evento por operação confirmada (dois para
// compra: Sold seguido de OwnerUpdated, com sequências adjacentes).
func NewMarketplaceEngine(assets *AssetStore, ledger *ListingLedger, stats *StatsRegistry, sink EventSink) *MarketplaceEngine {
	return &MarketplaceEngine{
		assets: assets,
		ledger: ledger,
		stats:  stats,
		sink:   sink,
	}
}

// emit atribui a próxima sequência e publica o evento. Chamado somente
// com o mutex do engine em posse, para que a ordem de publicação seja a
// ordem de commit.
func (e *MarketplaceEngine) emit(event models.MarketEvent) {
	e.lastSeq++
	event.Sequence = e.lastSeq
	event.EmittedAt = time.Now()
	e.sink.Publish(event)
}

// Mint cria um novo ativo; o chamador vira criador e dono.
// Sempre sucede para entradas bem formadas.
func (e *MarketplaceEngine) Mint(name, description, mediaURL, creator string) string {
	e.mu.Lock()
	defer e.mu.Unlock()

	assetID := e.assets.Mint(name, description, mediaURL, creator)
	e.stats.recordMint()
	e.emit(models.MarketEvent{
		Kind:     models.EventMinted,
		AssetID:  assetID,
		Creator:  creator,
		NewOwner: creator,
		Name:     name,
		MediaURL: mediaURL,
	})
	return assetID
}

// List coloca o ativo à venda pelo preço dado. A partir daqui o ativo
// fica sob custódia do marketplace: o campo owner não muda (só venda ou
// cancelamento mudam), mas transferências diretas ficam bloqueadas até a
// oferta sair do ar.
func (e *MarketplaceEngine) List(assetID string, price uint64, caller string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	owner, err := e.assets.GetOwner(assetID)
	if err != nil {
		return err
	}
	if caller != owner {
		return ErrUnauthorized
	}
	if price == 0 {
		return ErrInvalidPrice
	}
	if e.ledger.Contains(assetID) {
		return ErrAlreadyListed
	}

	if err := e.ledger.Add(models.Listing{
		AssetID:   assetID,
		Seller:    caller,
		Price:     price,
		CreatedAt: time.Now(),
	}); err != nil {
		return err
	}
	e.stats.recordListing()
	e.emit(models.MarketEvent{
		Kind:    models.EventListed,
		AssetID: assetID,
		Seller:  caller,
		Price:   price,
	})
	return nil
}

// Delist cancela a oferta ativa. Só o vendedor de registro pode cancelar;
// o ativo continua com ele.
func (e *MarketplaceEngine) Delist(assetID, caller string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	listing, found := e.ledger.Get(assetID)
	if !found {
		return ErrNotListed
	}
	if caller != listing.Seller {
		return ErrUnauthorized
	}

	if _, err := e.ledger.Remove(assetID); err != nil {
		return err
	}
	e.stats.recordDelisting()
	e.emit(models.MarketEvent{
		Kind:    models.EventDelisted,
		AssetID: assetID,
		Seller:  listing.Seller,
	})
	return nil
}

// Buy compra o ativo ofertado. O pagamento precisa cobrir o preço da
// oferta; o excedente é repassado integralmente ao vendedor, sem troco.
// Pagamento insuficiente é rejeitado antes de qualquer mutação.
// Dois chamadores concorrentes sobre a mesma oferta: exatamente um vê a
// oferta e compra; o outro, escalonado depois, recebe ErrNotListed.
func (e *MarketplaceEngine) Buy(assetID string, payment uint64, buyer string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	listing, found := e.ledger.Get(assetID)
	if !found {
		return ErrNotListed
	}
	if payment < listing.Price {
		return ErrInsufficientPayment
	}

	if _, err := e.ledger.Remove(assetID); err != nil {
		return err
	}
	if err := e.assets.SetOwner(assetID, buyer); err != nil {
		// Inalcançável com o ledger consistente: uma oferta ativa sempre
		// referencia um ativo existente e ativos nunca são removidos.
		return err
	}
	e.stats.recordSale(listing.Price)
	e.emit(models.MarketEvent{
		Kind:    models.EventSold,
		AssetID: assetID,
		Seller:  listing.Seller,
		Buyer:   buyer,
		Price:   listing.Price,
	})
	e.emit(models.MarketEvent{
		Kind:     models.EventOwnerUpdate,
		AssetID:  assetID,
		OldOwner: listing.Seller,
		NewOwner: buyer,
	})
	return nil
}

// TransferOwnership transfere o ativo diretamente para outro dono, fora
// de uma venda. Bloqueado enquanto houver oferta ativa: a oferta guarda o
// vendedor de registro, e uma transferência por fora deixaria a oferta
// apontando para um dono que já não é o vendedor.
func (e *MarketplaceEngine) TransferOwnership(assetID, newOwner, caller string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	owner, err := e.assets.GetOwner(assetID)
	if err != nil {
		return err
	}
	if caller != owner {
		return ErrUnauthorized
	}
	if e.ledger.Contains(assetID) {
		return ErrAlreadyListed
	}

	if err := e.assets.SetOwner(assetID, newOwner); err != nil {
		return err
	}
	e.emit(models.MarketEvent{
		Kind:     models.EventOwnerUpdate,
		AssetID:  assetID,
		OldOwner: caller,
		NewOwner: newOwner,
	})
	return nil
}

// AttachMintAddress associa a representação on-chain do ativo, usada
// pelo espelho de custódia. Só o dono atual pode associar; a associação
// não é uma transição de estado do marketplace e não emite evento.
func (e *MarketplaceEngine) AttachMintAddress(assetID, mintAddress, caller string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	owner, err := e.assets.GetOwner(assetID)
	if err != nil {
		return err
	}
	if caller != owner {
		return ErrUnauthorized
	}
	return e.assets.SetMintAddress(assetID, mintAddress)
}

// GetAsset devolve o ativo, se existir. Consulta pontual; listagens e
// filtros são papel do read-model alimentado pelo indexador.
func (e *MarketplaceEngine) GetAsset(assetID string) (models.Asset, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.assets.Get(assetID)
}

// GetOwner devolve o dono atual do ativo.
func (e *MarketplaceEngine) GetOwner(assetID string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.assets.GetOwner(assetID)
}

// GetListing devolve a oferta ativa do ativo, se houver.
func (e *MarketplaceEngine) GetListing(assetID string) (models.Listing, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Get(assetID)
}

// IsListed informa se o ativo tem oferta ativa.
func (e *MarketplaceEngine) IsListed(assetID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Contains(assetID)
}

// Stats devolve uma cópia dos contadores agregados.
func (e *MarketplaceEngine) Stats() models.MarketStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats.Snapshot()
}
