package devolucao

import (
	"context"

	"github.com/vmachado/erp-vestuario/internal/domain/credito"
	"github.com/vmachado/erp-vestuario/internal/domain/produto"
)

// Repository define a interface para operações de repositório de devoluções
type Repository interface {
	// Create grava a solicitação de devolução com seus itens
	Create(ctx context.Context, d *Devolucao) error

	// FindByID busca uma devolução com seus itens
	FindByID(ctx context.Context, id string) (*Devolucao, error)

	// List lista as devoluções com paginação
	List(ctx context.Context, limit, offset int) ([]*Devolucao, error)

	// ListByVenda lista as devoluções de uma venda, com itens
	ListByVenda(ctx context.Context, vendaID string) ([]*Devolucao, error)

	// Aprovar grava a aprovação, as entradas de estoque e o crédito de
	// loja em uma única transação; a implementação revalida o status da
	// devolução sob lock
	Aprovar(ctx context.Context, d *Devolucao, movimentacoes []*produto.Movimentacao, c *credito.Credito) error

	// Rejeitar grava a rejeição revalidando o status sob lock
	Rejeitar(ctx context.Context, d *Devolucao) error
}
