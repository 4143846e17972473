package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ferreirogomes/quitanda/services"

	"github.com/go-chi/chi/v5"
)

// AssetHandler lida com requisições HTTP relacionadas a ativos.
type AssetHandler struct {
	Engine *services.MarketplaceEngine
}

// NewAssetHandler cria uma nova instância do handler de ativos.
func NewAssetHandler(engine *services.MarketplaceEngine) *AssetHandler {
	return &AssetHandler{Engine: engine}
}

// MintAsset cria (minta) um novo ativo; o criador vira o dono.
// POST /assets
func (h *AssetHandler) MintAsset(w http.ResponseWriter, r *http.Request) {
	var requestBody struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		MediaURL    string `json:"media_url"`
		Creator     string `json:"creator"`
	}

	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if requestBody.Name == "" || requestBody.Creator == "" {
		http.Error(w, "Nome e criador são obrigatórios", http.StatusBadRequest)
		return
	}

	assetID := h.Engine.Mint(requestBody.Name, requestBody.Description, requestBody.MediaURL, requestBody.Creator)
	asset, _ := h.Engine.GetAsset(assetID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(asset)
}

// GetAssetByID obtém um ativo pelo ID.
// GET /assets/{id}
func (h *AssetHandler) GetAssetByID(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "id")
	if assetID == "" {
		http.Error(w, "ID do ativo é obrigatório", http.StatusBadRequest)
		return
	}

	asset, found := h.Engine.GetAsset(assetID)
	if !found {
		http.Error(w, "Ativo não encontrado", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(asset)
}

// GetAssetOwner obtém o dono atual do ativo.
// GET /assets/{id}/owner
func (h *AssetHandler) GetAssetOwner(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "id")

	owner, err := h.Engine.GetOwner(assetID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"asset_id": assetID, "owner": owner})
}

// AttachMintAddress associa o endereço de mint on-chain ao ativo.
// POST /assets/{id}/mint-address
func (h *AssetHandler) AttachMintAddress(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "id")

	var requestBody struct {
		MintAddress string `json:"mint_address"`
		Caller      string `json:"caller"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if requestBody.MintAddress == "" || requestBody.Caller == "" {
		http.Error(w, "Endereço de mint e chamador são obrigatórios", http.StatusBadRequest)
		return
	}

	if err := h.Engine.AttachMintAddress(assetID, requestBody.MintAddress, requestBody.Caller); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// TransferAsset transfere o ativo diretamente para outro dono, fora de
// uma venda. Falha se houver oferta ativa para o ativo.
// POST /assets/{id}/transfer
func (h *AssetHandler) TransferAsset(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "id")

	var requestBody struct {
		NewOwner string `json:"new_owner"`
		Caller   string `json:"caller"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if requestBody.NewOwner == "" || requestBody.Caller == "" {
		http.Error(w, "Novo dono e chamador são obrigatórios", http.StatusBadRequest)
		return
	}

	if err := h.Engine.TransferOwnership(assetID, requestBody.NewOwner, requestBody.Caller); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
