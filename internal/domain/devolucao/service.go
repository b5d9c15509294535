package devolucao

import (
	"context"
	"fmt"

	"github.com/vmachado/erp-vestuario/internal/domain/credito"
	"github.com/vmachado/erp-vestuario/internal/domain/produto"
	"github.com/vmachado/erp-vestuario/internal/domain/venda"
	"github.com/vmachado/erp-vestuario/pkg/apperror"
	"github.com/vmachado/erp-vestuario/pkg/logger"
	"github.com/vmachado/erp-vestuario/pkg/operador"
)

// Service orquestra solicitação, aprovação e rejeição de devoluções
type Service struct {
	repo   Repository
	vendas venda.Repository
	logger logger.Logger
}

// NewService cria uma nova instância de Service
func NewService(repo Repository, vendas venda.Repository, logger logger.Logger) *Service {
	return &Service{repo: repo, vendas: vendas, logger: logger}
}

// Solicitar registra um pedido de devolução de itens de uma venda. O teto
// devolvível de cada item é a quantidade vendida menos o que já foi
// devolvido em solicitações não rejeitadas. clienteID designa quem recebe
// o crédito; vazio usa o cliente da venda.
func (s *Service) Solicitar(ctx context.Context, vendaID, clienteID, motivo string, itens []ItemParam) (*Devolucao, error) {
	v, err := s.vendas.FindByID(ctx, vendaID)
	if err != nil {
		return nil, err
	}
	if v.Status != venda.StatusConcluida {
		return nil, apperror.Conflict("apenas vendas concluídas aceitam devolução")
	}

	devolvidas, err := s.quantidadesDevolvidas(ctx, vendaID)
	if err != nil {
		return nil, err
	}
	porID := make(map[string]*venda.Item, len(v.Itens))
	for _, item := range v.Itens {
		porID[item.ID] = item
	}
	for _, param := range itens {
		vendaItem, ok := porID[param.VendaItemID]
		if !ok {
			return nil, apperror.NotFound(fmt.Sprintf("item %s não pertence à venda", param.VendaItemID))
		}
		restante := vendaItem.Quantidade - devolvidas[param.VendaItemID]
		if param.Quantidade > restante {
			return nil, apperror.Validation(
				fmt.Sprintf("quantidade devolvida excede o saldo devolvível do item: restante %d, solicitado %d",
					restante, param.Quantidade)).
				WithSolution("consulte as devoluções anteriores da venda")
		}
	}

	d, err := NovaDevolucao(v, clienteID, motivo, itens)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}

	s.logger.Info("devolução solicitada",
		"devolucao_id", d.ID, "venda_id", vendaID, "valor_credito", d.ValorCredito.StringFixed(2))
	return d, nil
}

// Aprovar devolve os itens ao estoque e lança o crédito de loja para o
// cliente, tudo em uma transação
func (s *Service) Aprovar(ctx context.Context, id string) (*Devolucao, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := d.Aprovar(); err != nil {
		return nil, err
	}

	oper := operador.GetOperador(ctx)
	movimentacoes := make([]*produto.Movimentacao, 0, len(d.Itens))
	for _, item := range d.Itens {
		m, err := produto.NovaMovimentacao(item.ProdutoID, item.Quantidade, produto.MovimentacaoEntrada,
			fmt.Sprintf("devolução %s", d.ID), oper)
		if err != nil {
			return nil, err
		}
		movimentacoes = append(movimentacoes, m)
	}

	c, err := credito.NovoCredito(d.ClienteID, d.ValorCredito, credito.OrigemDevolucao, nil)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Aprovar(ctx, d, movimentacoes, c); err != nil {
		return nil, err
	}

	s.logger.Info("devolução aprovada",
		"devolucao_id", d.ID, "valor_credito", d.ValorCredito.StringFixed(2), "operador", oper)
	return d, nil
}

// Rejeitar nega a devolução sem mexer em estoque nem créditos
func (s *Service) Rejeitar(ctx context.Context, id, motivo string) (*Devolucao, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := d.Rejeitar(motivo); err != nil {
		return nil, err
	}

	if err := s.repo.Rejeitar(ctx, d); err != nil {
		return nil, err
	}

	s.logger.Info("devolução rejeitada", "devolucao_id", d.ID, "motivo", motivo)
	return d, nil
}

// Buscar retorna uma devolução pelo ID
func (s *Service) Buscar(ctx context.Context, id string) (*Devolucao, error) {
	return s.repo.FindByID(ctx, id)
}

// Listar lista as devoluções com paginação
func (s *Service) Listar(ctx context.Context, limit, offset int) ([]*Devolucao, error) {
	return s.repo.List(ctx, limit, offset)
}

// ListarPorVenda lista as devoluções de uma venda
func (s *Service) ListarPorVenda(ctx context.Context, vendaID string) ([]*Devolucao, error) {
	if _, err := s.vendas.FindByID(ctx, vendaID); err != nil {
		return nil, err
	}
	return s.repo.ListByVenda(ctx, vendaID)
}

// quantidadesDevolvidas soma, por item da venda, o que já consta em
// devoluções não rejeitadas
func (s *Service) quantidadesDevolvidas(ctx context.Context, vendaID string) (map[string]int, error) {
	devolucoes, err := s.repo.ListByVenda(ctx, vendaID)
	if err != nil {
		return nil, err
	}

	out := make(map[string]int)
	for _, d := range devolucoes {
		if d.Status == StatusRejeitada {
			continue
		}
		for _, item := range d.Itens {
			out[item.VendaItemID] += item.Quantidade
		}
	}
	return out, nil
}
