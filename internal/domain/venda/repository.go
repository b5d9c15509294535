package venda

import (
	"context"

	"github.com/vmachado/erp-vestuario/internal/domain/credito"
	"github.com/vmachado/erp-vestuario/internal/domain/produto"
)

// Repository define a interface para operações de repositório de vendas.
// Os métodos de escrita compostos persistem tudo o que recebem dentro de
// uma única transação; nenhum efeito parcial é permitido.
type Repository interface {
	// CreateFinalizada grava a venda, seus itens, as baixas de estoque,
	// as parcelas do crediário, o pagamento integral de vendas à vista e
	// o uso de crédito de loja, tudo de forma atômica
	CreateFinalizada(ctx context.Context, v *Venda, parcelas []*Parcela, pagamentoInicial *Pagamento, movimentacoes []*produto.Movimentacao, usoCredito *credito.Uso) error

	// FindByID busca uma venda com seus itens
	FindByID(ctx context.Context, id string) (*Venda, error)

	// List lista as vendas com paginação
	List(ctx context.Context, limit, offset int) ([]*Venda, error)

	// Cancelar grava o cancelamento, as entradas compensatórias de
	// estoque e o cancelamento das parcelas pendentes em uma transação
	Cancelar(ctx context.Context, v *Venda, movimentacoes []*produto.Movimentacao) error

	// RegistrarPagamento grava o pagamento e a eventual baixa de parcela
	// em uma transação. A implementação ressoma os pagamentos sob lock da
	// linha da venda, revalida o saldo devedor e deriva ali o novo status:
	// quando a soma atinge o total, a venda conclui. O status derivado é
	// refletido em v antes do retorno.
	RegistrarPagamento(ctx context.Context, v *Venda, p *Pagamento, parcela *Parcela) error

	// ListPagamentos lista os pagamentos de uma venda
	ListPagamentos(ctx context.Context, vendaID string) ([]*Pagamento, error)

	// ListParcelas lista as parcelas de uma venda ordenadas por número
	ListParcelas(ctx context.Context, vendaID string) ([]*Parcela, error)
}
