package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/ferreirogomes/quitanda/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMintAssetHTTP verifica o mint via HTTP e a consulta do ativo.
func TestMintAssetHTTP(t *testing.T) {
	router, _ := newTestRouter(new(MockQuerier))

	rec := doJSON(t, router, http.MethodPost, "/assets", map[string]string{
		"name":        "Azulejo",
		"description": "peça única",
		"media_url":   "https://cdn.example/azulejo.png",
		"creator":     "alice",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var asset models.Asset
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &asset))
	require.NotEmpty(t, asset.ID)
	assert.Equal(t, "alice", asset.Creator)
	assert.Equal(t, "alice", asset.Owner)

	rec = doJSON(t, router, http.MethodGet, "/assets/"+asset.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/assets/"+asset.ID+"/owner", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var ownerResp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ownerResp))
	assert.Equal(t, "alice", ownerResp["owner"])
}

// TestMintAssetValidation verifica os campos obrigatórios do mint.
func TestMintAssetValidation(t *testing.T) {
	router, _ := newTestRouter(new(MockQuerier))

	rec := doJSON(t, router, http.MethodPost, "/assets", map[string]string{
		"name": "Azulejo",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// TestGetAssetNotFound verifica a consulta de ativo desconhecido.
func TestGetAssetNotFound(t *testing.T) {
	router, _ := newTestRouter(new(MockQuerier))

	rec := doJSON(t, router, http.MethodGet, "/assets/nao-existe", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/assets/nao-existe/owner", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// TestTransferAssetHTTP verifica a transferência direta e suas guardas.
func TestTransferAssetHTTP(t *testing.T) {
	router, engine := newTestRouter(new(MockQuerier))
	assetID := engine.Mint("Azulejo", "", "", "alice")

	// Chamador não é o dono: 403.
	rec := doJSON(t, router, http.MethodPost, "/assets/"+assetID+"/transfer", map[string]string{
		"new_owner": "carol", "caller": "bob",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Com oferta ativa: 409.
	require.NoError(t, engine.List(assetID, 100, "alice"))
	rec = doJSON(t, router, http.MethodPost, "/assets/"+assetID+"/transfer", map[string]string{
		"new_owner": "bob", "caller": "alice",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Após o cancelamento, a transferência passa.
	require.NoError(t, engine.Delist(assetID, "alice"))
	rec = doJSON(t, router, http.MethodPost, "/assets/"+assetID+"/transfer", map[string]string{
		"new_owner": "bob", "caller": "alice",
	})
	require.Equal(t, http.StatusNoContent, rec.Code)

	owner, err := engine.GetOwner(assetID)
	require.NoError(t, err)
	assert.Equal(t, "bob", owner)
}
