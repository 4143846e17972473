package services

import "errors"

// Erros de domínio do marketplace. Todos são síncronos e não-retentáveis:
// uma operação que falha não deixa nenhuma mutação parcial para trás.
var (
	// ErrUnauthorized indica que o chamador não é a identidade exigida
	// pela operação (dono atual ou vendedor da oferta).
	ErrUnauthorized = errors.New("operação não autorizada para este chamador")

	// ErrNotFound indica um identificador de ativo desconhecido.
	ErrNotFound = errors.New("ativo não encontrado")

	// ErrNotListed indica que não existe oferta ativa para o ativo.
	ErrNotListed = errors.New("ativo não está à venda")

	// ErrAlreadyListed indica que já existe uma oferta ativa para o ativo.
	ErrAlreadyListed = errors.New("ativo já está à venda")

	// ErrInvalidPrice indica um preço de oferta não-positivo.
	ErrInvalidPrice = errors.New("preço da oferta deve ser maior que zero")

	// ErrInsufficientPayment indica pagamento abaixo do preço da oferta.
	ErrInsufficientPayment = errors.New("pagamento insuficiente para o preço da oferta")
)
