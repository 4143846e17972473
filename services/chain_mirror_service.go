package services

import (
	"context"
	"fmt"
	"log"

	"github.com/ferreirogomes/quitanda/models"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
)

// ChainMirrorService espelha na Solana os eventos confirmados pelo engine.
// Modelo custodial: a carteira da plataforma (FeePayer) é a autoridade de
// todas as contas de token e paga as taxas. Em uma oferta, o token do
// ativo sai da conta do vendedor para a conta de custódia; no
// cancelamento volta; na venda vai da custódia para o comprador.
// O estado do engine nunca depende do sucesso do espelhamento: falhas
// são logadas e a reconciliação acontece fora de banda.
type ChainMirrorService struct {
	RPCClient *rpc.Client
	FeePayer  solana.PrivateKey
	assets    AssetGetter
	queue     chan models.MarketEvent
}

// AssetGetter é a consulta pontual de ativos usada pelo espelho.
type AssetGetter interface {
	GetAsset(assetID string) (models.Asset, bool)
}

// NewChainMirrorService cria o espelho apontando para o RPC informado.
func NewChainMirrorService(rpcEndpoint, feePayerKeyBase58 string, assets AssetGetter) (*ChainMirrorService, error) {
	feePayer, err := solana.PrivateKeyFromBase58(feePayerKeyBase58)
	if err != nil {
		return nil, fmt.Errorf("falha ao carregar chave privada do Fee Payer: %w", err)
	}

	return &ChainMirrorService{
		RPCClient: rpc.New(rpcEndpoint),
		FeePayer:  feePayer,
		assets:    assets,
		queue:     make(chan models.MarketEvent, 256),
	}, nil
}

// Publish enfileira o evento para espelhamento assíncrono. Nunca bloqueia
// o engine: com a fila cheia o evento é descartado com log, e a
// reconciliação fora de banda cobre o buraco.
func (s *ChainMirrorService) Publish(event models.MarketEvent) {
	select {
	case s.queue <- event:
	default:
		log.Printf("Fila do espelho on-chain cheia; descartando evento seq %d (%s)", event.Sequence, event.Kind)
	}
}

// Start processa a fila de eventos até o contexto ser cancelado.
func (s *ChainMirrorService) Start(ctx context.Context) {
	log.Println("Espelho on-chain iniciado.")
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-s.queue:
			if err := s.mirror(ctx, event); err != nil {
				log.Printf("Falha ao espelhar evento seq %d (%s) na Solana: %v", event.Sequence, event.Kind, err)
			}
		}
	}
}

// mirror traduz um evento de domínio em uma transferência SPL.
func (s *ChainMirrorService) mirror(ctx context.Context, event models.MarketEvent) error {
	var fromIdentity, toIdentity string
	switch event.Kind {
	case models.EventListed:
		// Vendedor -> custódia da plataforma.
		fromIdentity, toIdentity = event.Seller, s.FeePayer.PublicKey().String()
	case models.EventDelisted:
		// Custódia -> de volta ao vendedor.
		fromIdentity, toIdentity = s.FeePayer.PublicKey().String(), event.Seller
	case models.EventSold:
		// Custódia -> comprador.
		fromIdentity, toIdentity = s.FeePayer.PublicKey().String(), event.Buyer
	default:
		// Mint e transferências diretas não movem custódia.
		return nil
	}

	asset, found := s.assets.GetAsset(event.AssetID)
	if !found {
		return fmt.Errorf("ativo %s não encontrado para espelhamento", event.AssetID)
	}
	if asset.MintAddress == "" {
		// Ativo sem representação on-chain; nada a espelhar.
		return nil
	}

	mintAddress, err := solana.PublicKeyFromBase58(asset.MintAddress)
	if err != nil {
		return fmt.Errorf("endereço de Mint inválido: %w", err)
	}
	fromPubKey, err := solana.PublicKeyFromBase58(fromIdentity)
	if err != nil {
		return fmt.Errorf("identidade de origem %q não é uma chave pública Solana: %w", fromIdentity, err)
	}
	toPubKey, err := solana.PublicKeyFromBase58(toIdentity)
	if err != nil {
		return fmt.Errorf("identidade de destino %q não é uma chave pública Solana: %w", toIdentity, err)
	}

	fromATA, _, err := solana.FindAssociatedTokenAddress(fromPubKey, mintAddress)
	if err != nil {
		return fmt.Errorf("falha ao encontrar ATA de origem: %w", err)
	}
	toATA, _, err := solana.FindAssociatedTokenAddress(toPubKey, mintAddress)
	if err != nil {
		return fmt.Errorf("falha ao encontrar ATA de destino: %w", err)
	}

	// Ativo único: a quantidade transferida é sempre 1 unidade atômica.
	return s.sendTransfer(ctx, fromATA, toATA, 1)
}

// sendTransfer monta, assina com o FeePayer e envia a transferência SPL.
func (s *ChainMirrorService) sendTransfer(ctx context.Context, fromATA, toATA solana.PublicKey, amount uint64) error {
	resp, err := s.RPCClient.GetRecentBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return fmt.Errorf("falha ao obter blockhash: %w", err)
	}
	recentBlockhash := resp.Value.Blockhash

	// O FeePayer é a autoridade custodial de todas as contas de token.
	transferInstruction := token.NewTransferInstruction(
		amount,
		fromATA,
		toATA,
		s.FeePayer.PublicKey(),
		[]solana.PublicKey{},
	).Build()

	tx, err := solana.NewTransaction(
		[]solana.Instruction{
			transferInstruction,
		},
		recentBlockhash,
		solana.TransactionPayer(s.FeePayer.PublicKey()),
	)
	if err != nil {
		return fmt.Errorf("falha ao criar transação de transferência: %w", err)
	}

	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(s.FeePayer.PublicKey()) {
			return &s.FeePayer
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("falha ao assinar transação pelo FeePayer: %w", err)
	}

	txID, err := s.RPCClient.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return fmt.Errorf("falha ao enviar transação: %w", err)
	}
	log.Printf("Transferência de custódia enviada: %s", txID)

	// Verificação de status é melhor-esforço; a reconciliação fora de
	// banda cobre transações que caírem depois do envio.
	if _, err := s.RPCClient.GetSignatureStatuses(ctx, true, txID); err != nil {
		log.Printf("Erro ao verificar status da transação %s: %v", txID, err)
	}

	return nil
}
