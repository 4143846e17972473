package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/ferreirogomes/quitanda/handlers"
	"github.com/ferreirogomes/quitanda/indexer"
	"github.com/ferreirogomes/quitanda/services"
	"github.com/ferreirogomes/quitanda/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	dataSourceName := os.Getenv("DATABASE_URL")
	if dataSourceName == "" {
		dataSourceName = "host=localhost port=5432 user=quitanda password=quitanda dbname=quitanda sslmode=disable"
	}

	db, err := storage.NewDB(dataSourceName)
	if err != nil {
		log.Fatalf("Falha fatal ao conectar ao banco de dados e aplicar migrações: %v", err)
	}
	defer db.Close()

	// Núcleo do marketplace: catálogo, livro de ofertas, contadores e o
	// diário de eventos que alimenta o indexador.
	assetStore := services.NewAssetStore()
	listingLedger := services.NewListingLedger()
	statsRegistry := services.NewStatsRegistry()
	eventLog := services.NewEventLog()

	sink := services.NewMultiSink(eventLog)
	engine := services.NewMarketplaceEngine(assetStore, listingLedger, statsRegistry, sink)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Espelho de custódia on-chain: opcional, só quando há RPC configurado.
	solanaRPCURL := os.Getenv("SOLANA_RPC_URL")
	solanaFeePayerPrivateKey := os.Getenv("SOLANA_FEE_PAYER_KEY")
	if solanaRPCURL != "" && solanaFeePayerPrivateKey != "" {
		mirror, err := services.NewChainMirrorService(solanaRPCURL, solanaFeePayerPrivateKey, engine)
		if err != nil {
			log.Fatalf("Falha ao inicializar espelho on-chain: %v", err)
		}
		sink.Add(mirror)
		go mirror.Start(ctx)
		log.Println("Espelho de custódia on-chain habilitado.")
	}

	// Indexador: reconstrói o read-model em Postgres a partir do diário.
	interval := 2 * time.Second
	if v := os.Getenv("INDEXER_INTERVAL"); v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			log.Fatalf("INDEXER_INTERVAL inválido: %v", err)
		}
		interval = parsed
	}
	ix := indexer.NewIndexer(eventLog, engine, db, interval)
	go ix.Start(ctx)
	log.Println("Indexador de eventos iniciado em segundo plano.")

	assetHandler := handlers.NewAssetHandler(engine)
	listingHandler := handlers.NewListingHandler(engine, db)
	statsHandler := handlers.NewStatsHandler(engine)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.URLFormat)

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

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	fmt.Printf("Servidor do marketplace rodando na porta :%s...\n", port)
	log.Fatal(http.ListenAndServe(":"+port, r))
}
