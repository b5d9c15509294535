package inventario

import (
	"context"

	"github.com/vmachado/erp-vestuario/internal/domain/produto"
)

// Repository define a interface para operações de repositório de sessões
// de inventário
type Repository interface {
	// Create grava uma nova sessão; falha com conflito quando já existe
	// outra sessão em andamento
	Create(ctx context.Context, s *Sessao) error

	// FindByID busca uma sessão com suas contagens
	FindByID(ctx context.Context, id string) (*Sessao, error)

	// FindAberta retorna a sessão em andamento, se houver
	FindAberta(ctx context.Context) (*Sessao, error)

	// List lista as sessões com paginação
	List(ctx context.Context, limit, offset int) ([]*Sessao, error)

	// SalvarContagem grava a contagem de um produto; contar o mesmo
	// produto de novo substitui a contagem anterior
	SalvarContagem(ctx context.Context, c *Contagem) error

	// Finalizar encerra a sessão e aplica os ajustes de estoque em uma
	// única transação; a implementação revalida o status sob lock
	Finalizar(ctx context.Context, s *Sessao, movimentacoes []*produto.Movimentacao) error

	// Cancelar encerra a sessão sem ajustes revalidando o status sob lock
	Cancelar(ctx context.Context, s *Sessao) error
}
