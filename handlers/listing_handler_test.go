package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ferreirogomes/quitanda/handlers"
	"github.com/ferreirogomes/quitanda/models"
	"github.com/ferreirogomes/quitanda/services"
	"github.com/ferreirogomes/quitanda/storage"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockQuerier é uma implementação mock de handlers.ListingQuerier.
type MockQuerier struct {
	mock.Mock
}

func (m *MockQuerier) ListListings(filter storage.ListingFilter) ([]models.Listing, error) {
	args := m.Called(filter)
	return args.Get(0).([]models.Listing), args.Error(1)
}

// newTestRouter monta o router com um engine limpo, como no main.
func newTestRouter(querier handlers.ListingQuerier) (*chi.Mux, *services.MarketplaceEngine) {
	engine := services.NewMarketplaceEngine(
		services.NewAssetStore(),
		services.NewListingLedger(),
		services.NewStatsRegistry(),
		services.NewEventLog(),
	)

	assetHandler := handlers.NewAssetHandler(engine)
	listingHandler := handlers.NewListingHandler(engine, querier)
	statsHandler := handlers.NewStatsHandler(engine)

	r := chi.NewRouter()
	r.Route("/assets", func(r chi.Router) {
		r.Post("/", assetHandler.MintAsset)
		r.Get("/{id}", assetHandler.GetAssetByID)
		r.Get("/{id}/owner", assetHandler.GetAssetOwner)
		r.Post("/{id}/transfer", assetHandler.TransferAsset)
		r.Post("/{id}/mint-address", assetHandler.AttachMintAddress)
	})
	r.Route("/listings", func(r chi.Router) {
		r.Post("/", listingHandler.CreateListing)
		r.Get("/", listingHandler.GetListings)
		r.Get("/{assetID}", listingHandler.GetListingByAsset)
		r.Delete("/{assetID}", listingHandler.DeleteListing)
		r.Post("/{assetID}/buy", listingHandler.BuyListing)
	})
	r.Get("/stats", statsHandler.GetStats)

	return r, engine
}

// doJSON executa uma requisição JSON contra o router de teste.
func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(payload)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// TestCreateListingFlow verifica oferta, consulta e cancelamento via HTTP.
func TestCreateListingFlow(t *testing.T) {
	router, engine := newTestRouter(new(MockQuerier))
	assetID := engine.Mint("Azulejo", "", "", "alice")

	rec := doJSON(t, router, http.MethodPost, "/listings", map[string]interface{}{
		"asset_id": assetID,
		"price":    100,
		"seller":   "alice",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var listing models.Listing
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	assert.Equal(t, assetID, listing.AssetID)
	assert.Equal(t, uint64(100), listing.Price)

	rec = doJSON(t, router, http.MethodGet, "/listings/"+assetID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/listings/"+assetID, map[string]string{"caller": "alice"})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/listings/"+assetID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// TestCreateListingErrors verifica o mapeamento de erros de domínio para
// códigos HTTP.
func TestCreateListingErrors(t *testing.T) {
	router, engine := newTestRouter(new(MockQuerier))
	assetID := engine.Mint("Azulejo", "", "", "alice")

	// Não-dono: 403.
	rec := doJSON(t, router, http.MethodPost, "/listings", map[string]interface{}{
		"asset_id": assetID, "price": 100, "seller": "bob",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Ativo desconhecido: 404.
	rec = doJSON(t, router, http.MethodPost, "/listings", map[string]interface{}{
		"asset_id": "nao-existe", "price": 100, "seller": "alice",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Preço zero: 422.
	rec = doJSON(t, router, http.MethodPost, "/listings", map[string]interface{}{
		"asset_id": assetID, "price": 0, "seller": "alice",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// Oferta duplicada: 409.
	require.NoError(t, engine.List(assetID, 100, "alice"))
	rec = doJSON(t, router, http.MethodPost, "/listings", map[string]interface{}{
		"asset_id": assetID, "price": 200, "seller": "alice",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

// TestBuyListingHTTP verifica a compra via HTTP e os contadores no /stats.
func TestBuyListingHTTP(t *testing.T) {
	router, engine := newTestRouter(new(MockQuerier))
	assetID := engine.Mint("Azulejo", "", "", "alice")
	require.NoError(t, engine.List(assetID, 100, "alice"))

	// Pagamento insuficiente: 422 e a oferta fica no ar.
	rec := doJSON(t, router, http.MethodPost, "/listings/"+assetID+"/buy", map[string]interface{}{
		"payment": 99, "buyer": "bob",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.True(t, engine.IsListed(assetID))

	rec = doJSON(t, router, http.MethodPost, "/listings/"+assetID+"/buy", map[string]interface{}{
		"payment": 150, "buyer": "bob",
	})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats models.MarketStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, uint64(1), stats.TotalMinted)
	assert.Equal(t, uint64(0), stats.ActiveListings)
	assert.Equal(t, uint64(1), stats.CompletedSales)
	assert.Equal(t, uint64(100), stats.Volume)
}

// TestGetListingsQuery verifica o repasse dos filtros para o read-model.
func TestGetListingsQuery(t *testing.T) {
	mockQuerier := new(MockQuerier)
	router, _ := newTestRouter(mockQuerier)

	expected := []models.Listing{{AssetID: "a1", Seller: "alice", Price: 100}}
	mockQuerier.On("ListListings", storage.ListingFilter{
		Seller:   "alice",
		MinPrice: 50,
		MaxPrice: 200,
		Limit:    10,
		Offset:   20,
	}).Return(expected, nil).Once()

	path := fmt.Sprintf("/listings?seller=%s&min_price=%d&max_price=%d&limit=%d&offset=%d",
		"alice", 50, 200, 10, 20)
	rec := doJSON(t, router, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got []models.Listing
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, expected, got)

	mockQuerier.AssertExpectations(t)

	// Parâmetro malformado: 400.
	rec = doJSON(t, router, http.MethodGet, "/listings?min_price=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
