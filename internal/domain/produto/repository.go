package produto

import (
	"context"
)

// Repository define a interface para operações de repositório de produtos
// e do razão de estoque
type Repository interface {
	// Create cria um novo produto
	Create(ctx context.Context, p *Produto) error

	// FindByID busca um produto pelo ID
	FindByID(ctx context.Context, id string) (*Produto, error)

	// FindByIDs busca vários produtos de uma vez
	FindByIDs(ctx context.Context, ids []string) (map[string]*Produto, error)

	// List lista os produtos com paginação
	List(ctx context.Context, limit, offset int) ([]*Produto, error)

	// Update atualiza os dados cadastrais de um produto
	Update(ctx context.Context, p *Produto) error

	// Delete remove um produto sem movimentações
	Delete(ctx context.Context, id string) error

	// RegistrarMovimentacao aplica uma movimentação avulsa (entrada,
	// remoção ou ajuste manual) e atualiza a quantidade do produto na
	// mesma transação
	RegistrarMovimentacao(ctx context.Context, m *Movimentacao, permitirNegativo bool) (*Produto, error)

	// ListMovimentacoes lista o histórico de movimentações de um produto
	ListMovimentacoes(ctx context.Context, produtoID string, limit, offset int) ([]*Movimentacao, error)
}
