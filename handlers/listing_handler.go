package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ferreirogomes/quitanda/models"
	"github.com/ferreirogomes/quitanda/services"
	"github.com/ferreirogomes/quitanda/storage"

	"github.com/go-chi/chi/v5"
)

// ListingQuerier é a consulta de ofertas servida pelo read-model.
type ListingQuerier interface {
	ListListings(filter storage.ListingFilter) ([]models.Listing, error)
}

// ListingHandler lida com requisições HTTP relacionadas a ofertas de
// venda. Escritas vão para o engine; a listagem com filtros vem do cache
// mantido pelo indexador.
type ListingHandler struct {
	Engine  *services.MarketplaceEngine
	Querier ListingQuerier
}

// NewListingHandler cria uma nova instância do handler de ofertas.
func NewListingHandler(engine *services.MarketplaceEngine, querier ListingQuerier) *ListingHandler {
	return &ListingHandler{Engine: engine, Querier: querier}
}

// CreateListing coloca um ativo à venda.
// POST /listings
func (h *ListingHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	var requestBody struct {
		AssetID string `json:"asset_id"`
		Price   uint64 `json:"price"`
		Seller  string `json:"seller"`
	}

	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if requestBody.AssetID == "" || requestBody.Seller == "" {
		http.Error(w, "Ativo e vendedor são obrigatórios", http.StatusBadRequest)
		return
	}

	if err := h.Engine.List(requestBody.AssetID, requestBody.Price, requestBody.Seller); err != nil {
		writeDomainError(w, err)
		return
	}

	listing, _ := h.Engine.GetListing(requestBody.AssetID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(listing)
}

// GetListingByAsset obtém a oferta ativa de um ativo.
// GET /listings/{assetID}
func (h *ListingHandler) GetListingByAsset(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "assetID")

	listing, found := h.Engine.GetListing(assetID)
	if !found {
		http.Error(w, "Ativo não está à venda", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(listing)
}

// DeleteListing cancela a oferta ativa; só o vendedor de registro pode.
// DELETE /listings/{assetID}
func (h *ListingHandler) DeleteListing(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "assetID")

	var requestBody struct {
		Caller string `json:"caller"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if requestBody.Caller == "" {
		http.Error(w, "Chamador é obrigatório", http.StatusBadRequest)
		return
	}

	if err := h.Engine.Delist(assetID, requestBody.Caller); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// BuyListing compra o ativo ofertado. O pagamento precisa cobrir o preço;
// o excedente é repassado integralmente ao vendedor.
// POST /listings/{assetID}/buy
func (h *ListingHandler) BuyListing(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "assetID")

	var requestBody struct {
		Payment uint64 `json:"payment"`
		Buyer   string `json:"buyer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if requestBody.Buyer == "" {
		http.Error(w, "Comprador é obrigatório", http.StatusBadRequest)
		return
	}

	if err := h.Engine.Buy(assetID, requestBody.Payment, requestBody.Buyer); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetListings consulta as ofertas ativas no read-model, com filtros
// opcionais por vendedor e faixa de preço, paginada.
// GET /listings?seller=&min_price=&max_price=&limit=&offset=
func (h *ListingHandler) GetListings(w http.ResponseWriter, r *http.Request) {
	filter := storage.ListingFilter{
		Seller: r.URL.Query().Get("seller"),
	}

	if v := r.URL.Query().Get("min_price"); v != "" {
		minPrice, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			http.Error(w, "min_price inválido", http.StatusBadRequest)
			return
		}
		filter.MinPrice = minPrice
	}
	if v := r.URL.Query().Get("max_price"); v != "" {
		maxPrice, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			http.Error(w, "max_price inválido", http.StatusBadRequest)
			return
		}
		filter.MaxPrice = maxPrice
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "limit inválido", http.StatusBadRequest)
			return
		}
		filter.Limit = limit
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "offset inválido", http.StatusBadRequest)
			return
		}
		filter.Offset = offset
	}

	listings, err := h.Querier.ListListings(filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(listings)
}
