package services

import "github.com/ferreirogomes/quitanda/models"

// ListingLedger mantém o conjunto de ofertas de venda ativas, indexado
// pelo ID do ativo. Garante no máximo uma oferta ativa por ativo.
// Registros nunca são alterados no lugar: só remoção e recriação.
// Assim como o AssetStore, confia na serialização feita pelo engine.
type ListingLedger struct {
	listings map[string]models.Listing
}

// NewListingLedger cria um livro de ofertas vazio.
func NewListingLedger() *ListingLedger {
	return &ListingLedger{listings: make(map[string]models.Listing)}
}

// Add registra uma nova oferta ativa.
func (l *ListingLedger) Add(listing models.Listing) error {
	if _, exists := l.listings[listing.AssetID]; exists {
		return ErrAlreadyListed
	}
	l.listings[listing.AssetID] = listing
	return nil
}

// Remove retira a oferta ativa do ativo e a devolve para inspeção
// (vendedor, preço) pelo chamador.
func (l *ListingLedger) Remove(assetID string) (models.Listing, error) {
	listing, exists := l.listings[assetID]
	if !exists {
		return models.Listing{}, ErrNotListed
	}
	delete(l.listings, assetID)
	return listing, nil
}

// Get devolve a oferta ativa do ativo sem removê-la.
func (l *ListingLedger) Get(assetID string) (models.Listing, bool) {
	listing, exists := l.listings[assetID]
	return listing, exists
}

// Contains informa se existe oferta ativa para o ativo.
func (l *ListingLedger) Contains(assetID string) bool {
	_, exists := l.listings[assetID]
	return exists
}

// Len devolve a quantidade de ofertas ativas.
func (l *ListingLedger) Len() int {
	return len(l.listings)
}
