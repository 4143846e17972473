package services

import (
	"time"

	"github.com/ferreirogomes/quitanda/models"

	"github.com/google/uuid"
)

// AssetStore mantém o catálogo de ativos e seus donos atuais.
// Não faz travamento próprio: todo acesso passa pelo MarketplaceEngine,
// que serializa as operações.
type AssetStore struct {
	assets map[string]*models.Asset
}

// NewAssetStore cria um catálogo vazio.
func NewAssetStore() *AssetStore {
	return &AssetStore{assets: make(map[string]*models.Asset)}
}

// Mint cria um novo ativo com owner = creator e devolve o ID gerado.
// Nunca falha para entradas bem formadas; ativos nunca são removidos.
func (s *AssetStore) Mint(name, description, mediaURL, creator string) string {
	asset := &models.Asset{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		MediaURL:    mediaURL,
		Creator:     creator,
		Owner:       creator,
		CreatedAt:   time.Now(),
	}
	s.assets[asset.ID] = asset
	return asset.ID
}

// Get devolve uma cópia do ativo, se existir.
func (s *AssetStore) Get(assetID string) (models.Asset, bool) {
	asset, found := s.assets[assetID]
	if !found {
		return models.Asset{}, false
	}
	return *asset, true
}

// GetOwner devolve o dono atual do ativo.
func (s *AssetStore) GetOwner(assetID string) (string, error) {
	asset, found := s.assets[assetID]
	if !found {
		return "", ErrNotFound
	}
	return asset.Owner, nil
}

// SetOwner troca o dono do ativo. Uso interno do engine, sempre dentro
// da mesma seção crítica que validou as precondições.
func (s *AssetStore) SetOwner(assetID, newOwner string) error {
	asset, found := s.assets[assetID]
	if !found {
		return ErrNotFound
	}
	asset.Owner = newOwner
	return nil
}

// SetMintAddress associa o endereço de mint on-chain ao ativo.
func (s *AssetStore) SetMintAddress(assetID, mintAddress string) error {
	asset, found := s.assets[assetID]
	if !found {
		return ErrNotFound
	}
	asset.MintAddress = mintAddress
	return nil
}
