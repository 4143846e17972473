package indexer

import (
	"context"
	"log"
	"time"

	"github.com/ferreirogomes/quitanda/models"
)

// EventSource é a superfície de polling do diário de eventos do engine.
type EventSource interface {
	EventsSince(afterSeq uint64) []models.MarketEvent
}

// EngineView são as consultas pontuais que o indexador usa para
// enriquecer o read-model (snapshot do ativo, contadores).
type EngineView interface {
	GetAsset(assetID string) (models.Asset, bool)
	Stats() models.MarketStats
}

// Store é a persistência do read-model mantida pelo indexador.
type Store interface {
	SaveEvent(ev models.MarketEvent) (bool, error)
	LastSequence() (uint64, error)
	UpsertAsset(asset models.Asset) error
	SetAssetOwner(assetID, owner string) error
	SaveListing(listing models.Listing) error
	DeleteListing(assetID string) error
	SaveStats(stats models.MarketStats) error
}

// Indexer reconstrói o cache de ofertas e o diário persistente a partir
// dos eventos de domínio, por polling periódico. Tolera entrega duplicada
// (deduplicação por sequência no diário) e reinícios (retoma da maior
// sequência gravada). Erros são logados e retentados no próximo ciclo;
// nada aqui afeta o estado do engine.
type Indexer struct {
	source   EventSource
	view     EngineView
	store    Store
	interval time.Duration
	lastSeq  uint64
}

// NewIndexer cria o indexador com o intervalo de polling dado.
func NewIndexer(source EventSource, view EngineView, store Store, interval time.Duration) *Indexer {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Indexer{
		source:   source,
		view:     view,
		store:    store,
		interval: interval,
	}
}

// Start roda o ciclo de polling até o contexto ser cancelado.
func (ix *Indexer) Start(ctx context.Context) {
	log.Println("Indexador de eventos iniciado.")

	seq, err := ix.store.LastSequence()
	if err != nil {
		log.Printf("Falha ao recuperar última sequência; começando do zero: %v", err)
	} else {
		ix.lastSeq = seq
	}

	ticker := time.NewTicker(ix.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Indexador de eventos encerrado.")
			return
		case <-ticker.C:
			ix.Poll()
		}
	}
}

// Poll processa um ciclo: busca os eventos novos e aplica cada um, em
// ordem de commit, ao read-model. Em caso de erro o ciclo para no evento
// problemático e o próximo ciclo retenta a partir dele.
func (ix *Indexer) Poll() {
	events := ix.source.EventsSince(ix.lastSeq)
	if len(events) == 0 {
		return
	}

	applied := 0
	for _, ev := range events {
		inserted, err := ix.store.SaveEvent(ev)
		if err != nil {
			log.Printf("Falha ao gravar evento seq %d no diário: %v", ev.Sequence, err)
			break
		}
		if !inserted {
			// Duplicata de um ciclo anterior; o efeito já foi aplicado.
			ix.lastSeq = ev.Sequence
			continue
		}
		if err := ix.apply(ev); err != nil {
			log.Printf("Falha ao aplicar evento seq %d (%s) ao read-model: %v", ev.Sequence, ev.Kind, err)
			break
		}
		ix.lastSeq = ev.Sequence
		applied++
	}

	if applied > 0 {
		if err := ix.store.SaveStats(ix.view.Stats()); err != nil {
			log.Printf("Falha ao gravar snapshot de estatísticas: %v", err)
		}
		log.Printf("Indexados %d eventos (até seq %d).", applied, ix.lastSeq)
	}
}

// apply traduz um evento em mutações do read-model. Todas as escritas são
// idempotentes (upsert/delete), então reaplicar após uma falha é seguro.
func (ix *Indexer) apply(ev models.MarketEvent) error {
	switch ev.Kind {
	case models.EventMinted:
		if asset, found := ix.view.GetAsset(ev.AssetID); found {
			return ix.store.UpsertAsset(asset)
		}
		// Engine não conhece mais o ativo? Cai no snapshot do evento.
		return ix.store.UpsertAsset(models.Asset{
			ID:        ev.AssetID,
			Name:      ev.Name,
			MediaURL:  ev.MediaURL,
			Creator:   ev.Creator,
			Owner:     ev.NewOwner,
			CreatedAt: ev.EmittedAt,
		})
	case models.EventListed:
		return ix.store.SaveListing(models.Listing{
			AssetID:   ev.AssetID,
			Seller:    ev.Seller,
			Price:     ev.Price,
			CreatedAt: ev.EmittedAt,
		})
	case models.EventDelisted, models.EventSold:
		return ix.store.DeleteListing(ev.AssetID)
	case models.EventOwnerUpdate:
		return ix.store.SetAssetOwner(ev.AssetID, ev.NewOwner)
	default:
		log.Printf("Evento de tipo desconhecido ignorado: %s (seq %d)", ev.Kind, ev.Sequence)
		return nil
	}
}
