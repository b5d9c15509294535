package credito

import (
	"context"

	"github.com/shopspring/decimal"
)

// Repository define a interface para o razão de créditos de clientes
type Repository interface {
	// Create registra um novo crédito
	Create(ctx context.Context, c *Credito) error

	// Consumir registra um uso de crédito; a implementação revalida o
	// saldo dentro da mesma transação
	Consumir(ctx context.Context, u *Uso) error

	// ListByCliente retorna todos os créditos do cliente, vencidos
	// inclusive
	ListByCliente(ctx context.Context, clienteID string) ([]*Credito, error)

	// ListUsosByCliente retorna todos os usos de crédito do cliente
	ListUsosByCliente(ctx context.Context, clienteID string) ([]*Uso, error)

	// SaldoDe calcula o saldo disponível direto no armazenamento
	SaldoDe(ctx context.Context, clienteID string) (decimal.Decimal, error)
}
