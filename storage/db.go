package storage

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/ferreirogomes/quitanda/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	migrate "github.com/rubenv/sql-migrate"
)

// DB representa a conexão com o read-model em PostgreSQL. O engine nunca
// escreve aqui: quem mantém estas tabelas é o indexador, a partir dos
// eventos de domínio. A API de leitura (listagens, filtros, paginação)
// consulta este cache, não o engine.
type DB struct {
	*sqlx.DB
}

// NewDB conecta-se ao PostgreSQL e executa as migrações.
func NewDB(dataSourceName string) (*DB, error) {
	db, err := sqlx.Connect("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar ao banco de dados: %w", err)
	}

	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("falha ao pingar o banco de dados: %w", err)
	}
	log.Println("Conexão com PostgreSQL estabelecida com sucesso.")

	if err := runMigrations(db.DB); err != nil {
		return nil, fmt.Errorf("falha ao executar migrações: %w", err)
	}

	return &DB{db}, nil
}

// runMigrations executa as migrações usando sql-migrate.
func runMigrations(db *sql.DB) error {
	migrations := &migrate.FileMigrationSource{
		Dir: "./storage/migrations",
	}

	n, err := migrate.Exec(db, "postgres", migrations, migrate.Up)
	if err != nil {
		return fmt.Errorf("erro ao aplicar migrações: %w", err)
	}
	if n > 0 {
		log.Printf("Aplicadas %d migrações ao banco de dados.", n)
	} else {
		log.Println("Nenhuma migração nova para aplicar.")
	}
	return nil
}

// SaveEvent grava o evento no diário. Idempotente por sequência: a
// entrega do indexador é at-least-once, então duplicatas são ignoradas.
// Devolve true se o evento era novo.
func (d *DB) SaveEvent(ev models.MarketEvent) (bool, error) {
	query := `INSERT INTO market_events
		(sequence, kind, asset_id, creator, name, media_url, seller, buyer, price, old_owner, new_owner, emitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (sequence) DO NOTHING`
	res, err := d.Exec(query,
		ev.Sequence, ev.Kind, ev.AssetID, ev.Creator, ev.Name, ev.MediaURL,
		ev.Seller, ev.Buyer, ev.Price, ev.OldOwner, ev.NewOwner, ev.EmittedAt)
	if err != nil {
		return false, fmt.Errorf("falha ao gravar evento: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("falha ao ler linhas afetadas: %w", err)
	}
	return n > 0, nil
}

// LastSequence devolve a maior sequência já gravada no diário; zero se o
// diário estiver vazio. Usada pelo indexador para retomar após reinício.
func (d *DB) LastSequence() (uint64, error) {
	var seq uint64
	err := d.Get(&seq, `SELECT COALESCE(MAX(sequence), 0) FROM market_events`)
	if err != nil {
		return 0, fmt.Errorf("falha ao buscar última sequência: %w", err)
	}
	return seq, nil
}

// UpsertAsset grava ou atualiza o snapshot do ativo no cache.
func (d *DB) UpsertAsset(asset models.Asset) error {
	query := `INSERT INTO assets_cache (id, name, description, media_url, creator, owner, mint_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET owner = EXCLUDED.owner, mint_address = EXCLUDED.mint_address`
	_, err := d.Exec(query, asset.ID, asset.Name, asset.Description, asset.MediaURL,
		asset.Creator, asset.Owner, asset.MintAddress, asset.CreatedAt)
	if err != nil {
		return fmt.Errorf("falha ao gravar ativo no cache: %w", err)
	}
	return nil
}

// SetAssetOwner atualiza só o dono do ativo no cache.
func (d *DB) SetAssetOwner(assetID, owner string) error {
	_, err := d.Exec(`UPDATE assets_cache SET owner = $1 WHERE id = $2`, owner, assetID)
	if err != nil {
		return fmt.Errorf("falha ao atualizar dono no cache: %w", err)
	}
	return nil
}

// SaveListing grava a oferta ativa no cache.
func (d *DB) SaveListing(listing models.Listing) error {
	query := `INSERT INTO listings_cache (asset_id, seller, price, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (asset_id) DO UPDATE SET seller = EXCLUDED.seller, price = EXCLUDED.price, created_at = EXCLUDED.created_at`
	_, err := d.Exec(query, listing.AssetID, listing.Seller, listing.Price, listing.CreatedAt)
	if err != nil {
		return fmt.Errorf("falha ao gravar oferta no cache: %w", err)
	}
	return nil
}

// DeleteListing remove a oferta do cache (venda ou cancelamento).
func (d *DB) DeleteListing(assetID string) error {
	_, err := d.Exec(`DELETE FROM listings_cache WHERE asset_id = $1`, assetID)
	if err != nil {
		return fmt.Errorf("falha ao remover oferta do cache: %w", err)
	}
	return nil
}

// SaveStats grava o snapshot dos contadores agregados.
func (d *DB) SaveStats(stats models.MarketStats) error {
	query := `INSERT INTO stats_snapshot (id, total_minted, active_listings, completed_sales, volume)
		VALUES (1, $1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET total_minted = EXCLUDED.total_minted,
			active_listings = EXCLUDED.active_listings,
			completed_sales = EXCLUDED.completed_sales,
			volume = EXCLUDED.volume`
	_, err := d.Exec(query, stats.TotalMinted, stats.ActiveListings, stats.CompletedSales, stats.Volume)
	if err != nil {
		return fmt.Errorf("falha ao gravar snapshot de estatísticas: %w", err)
	}
	return nil
}

// ListingFilter parametriza a consulta de ofertas ativas.
type ListingFilter struct {
	Seller   string
	MinPrice uint64
	MaxPrice uint64 // Zero significa sem teto
	Limit    int
	Offset   int
}

// ListListings consulta o cache de ofertas ativas com filtros opcionais
// por vendedor e faixa de preço, paginada e ordenada por criação.
func (d *DB) ListListings(filter ListingFilter) ([]models.Listing, error) {
	query := `SELECT asset_id, seller, price, created_at FROM listings_cache WHERE price >= $1`
	args := []interface{}{filter.MinPrice}

	if filter.MaxPrice > 0 {
		args = append(args, filter.MaxPrice)
		query += fmt.Sprintf(" AND price <= $%d", len(args))
	}
	if filter.Seller != "" {
		args = append(args, filter.Seller)
		query += fmt.Sprintf(" AND seller = $%d", len(args))
	}

	query += " ORDER BY created_at, asset_id"

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	listings := []models.Listing{}
	if err := d.Select(&listings, query, args...); err != nil {
		return nil, fmt.Errorf("falha ao consultar ofertas: %w", err)
	}
	return listings, nil
}
