package venda

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vmachado/erp-vestuario/internal/domain/cliente"
	"github.com/vmachado/erp-vestuario/internal/domain/credito"
	"github.com/vmachado/erp-vestuario/internal/domain/produto"
	"github.com/vmachado/erp-vestuario/pkg/apperror"
	"github.com/vmachado/erp-vestuario/pkg/logger"
	"github.com/vmachado/erp-vestuario/pkg/operador"
)

// ItemDraft é um item da venda como chega da tela do caixa
type ItemDraft struct {
	ProdutoID  string
	Quantidade int
}

// FinalizarInput reúne os dados de finalização de uma venda
type FinalizarInput struct {
	ClienteID          string
	FormaPagamento     FormaPagamento
	DescontoPercentual decimal.Decimal
	DescontoValor      decimal.Decimal
	ValorCredito       decimal.Decimal
	QtdParcelas        int
	PrimeiroVencimento time.Time
	Itens              []ItemDraft
}

// PagamentoInput reúne os dados de um pagamento avulso
type PagamentoInput struct {
	Valor       decimal.Decimal
	Forma       FormaPagamento
	Observacoes string
	ParcelaID   string
}

// Service orquestra finalização, cancelamento e pagamentos de vendas,
// mantendo estoque, parcelas e créditos consistentes
type Service struct {
	repo             Repository
	produtos         produto.Repository
	clientes         cliente.Repository
	creditos         *credito.Service
	permitirSemEstoq bool
	logger           logger.Logger
}

// NewService cria uma nova instância de Service. permitirVendaSemEstoque é
// a política da loja que libera saídas abaixo de zero.
func NewService(repo Repository, produtos produto.Repository, clientes cliente.Repository, creditos *credito.Service, permitirVendaSemEstoque bool, logger logger.Logger) *Service {
	return &Service{
		repo:             repo,
		produtos:         produtos,
		clientes:         clientes,
		creditos:         creditos,
		permitirSemEstoq: permitirVendaSemEstoque,
		logger:           logger,
	}
}

// Finalizar valida e grava uma venda: itens, baixas de estoque, parcelas
// de crediário ou pagamento integral à vista, tudo em uma transação
func (s *Service) Finalizar(ctx context.Context, in FinalizarInput) (*Venda, error) {
	if len(in.Itens) == 0 {
		return nil, apperror.Validation("a venda precisa de ao menos um item").
			WithSolution("adicione pelo menos um produto à venda")
	}

	ids := make([]string, 0, len(in.Itens))
	for _, item := range in.Itens {
		ids = append(ids, item.ProdutoID)
	}
	produtos, err := s.produtos.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	itens := make([]ItemParam, 0, len(in.Itens))
	necessario := make(map[string]int, len(in.Itens))
	for _, item := range in.Itens {
		p, ok := produtos[item.ProdutoID]
		if !ok {
			return nil, apperror.NotFound(fmt.Sprintf("produto %s não encontrado", item.ProdutoID))
		}
		itens = append(itens, ItemParam{
			ProdutoID:     item.ProdutoID,
			Quantidade:    item.Quantidade,
			PrecoUnitario: p.PrecoVenda,
		})
		necessario[item.ProdutoID] += item.Quantidade
	}

	v, err := NovaVenda(in.ClienteID, in.FormaPagamento, itens)
	if err != nil {
		return nil, err
	}
	if err := v.AplicarDesconto(in.DescontoPercentual, in.DescontoValor); err != nil {
		return nil, err
	}

	for produtoID, qtd := range necessario {
		if produtos[produtoID].Quantidade < qtd && !s.permitirSemEstoq {
			return nil, apperror.InsufficientStock(
				fmt.Sprintf("estoque insuficiente para o produto %s: disponível %d, solicitado %d",
					produtos[produtoID].Nome, produtos[produtoID].Quantidade, qtd)).
				WithSolution("reduza a quantidade ou registre uma entrada de estoque")
		}
	}

	oper := operador.GetOperador(ctx)
	movimentacoes := make([]*produto.Movimentacao, 0, len(v.Itens))
	for _, item := range v.Itens {
		m, err := produto.NovaMovimentacao(item.ProdutoID, -item.Quantidade, produto.MovimentacaoSaida,
			fmt.Sprintf("venda %s", v.ID), oper)
		if err != nil {
			return nil, err
		}
		movimentacoes = append(movimentacoes, m)
	}

	var parcelas []*Parcela
	var pagamentoInicial *Pagamento
	var usoCredito *credito.Uso

	if in.FormaPagamento == FormaCrediario {
		if in.ClienteID == "" {
			return nil, apperror.Validation("venda no crediário exige um cliente identificado").
				WithSolution("selecione o cliente antes de finalizar no crediário")
		}
		existe, err := s.clientes.Exists(ctx, in.ClienteID)
		if err != nil {
			return nil, err
		}
		if !existe {
			return nil, apperror.NotFound("cliente não encontrado")
		}
		if in.ValorCredito.IsPositive() {
			return nil, apperror.Validation("crédito de loja não pode ser abatido em venda no crediário")
		}
		parcelas, err = v.GerarParcelas(in.QtdParcelas, in.PrimeiroVencimento)
		if err != nil {
			return nil, err
		}
	} else {
		restante := v.Total
		if in.ValorCredito.IsPositive() {
			if in.ClienteID == "" {
				return nil, apperror.Validation("abater crédito exige um cliente identificado")
			}
			if in.ValorCredito.GreaterThan(v.Total) {
				return nil, apperror.Validation("crédito abatido não pode exceder o total da venda")
			}
			saldo, err := s.creditos.SaldoDe(ctx, in.ClienteID)
			if err != nil {
				return nil, err
			}
			if in.ValorCredito.GreaterThan(saldo) {
				return nil, apperror.InsufficientCredit(
					fmt.Sprintf("crédito insuficiente: disponível %s, solicitado %s",
						saldo.StringFixed(2), in.ValorCredito.StringFixed(2)))
			}
			usoCredito, err = credito.NovoUso(in.ClienteID, v.ID, in.ValorCredito)
			if err != nil {
				return nil, err
			}
			restante = restante.Sub(in.ValorCredito)
		}

		// Venda à vista nasce quitada: o pagamento integral é registrado
		// explicitamente na mesma transação, nunca inferido.
		if restante.IsPositive() {
			pagamentoInicial, err = NovoPagamento(v.ID, restante, in.FormaPagamento, oper, "pagamento integral na finalização")
			if err != nil {
				return nil, err
			}
		}
		if err := v.Concluir(); err != nil {
			return nil, err
		}
	}

	if err := s.repo.CreateFinalizada(ctx, v, parcelas, pagamentoInicial, movimentacoes, usoCredito); err != nil {
		return nil, err
	}

	s.logger.Info("venda finalizada",
		"venda_id", v.ID, "total", v.Total.StringFixed(2),
		"forma_pagamento", string(v.FormaPagamento), "itens", len(v.Itens), "operador", oper)
	return v, nil
}

// Cancelar reverte as baixas de estoque da venda e a marca como cancelada
func (s *Service) Cancelar(ctx context.Context, id, motivo string) (*Venda, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := v.Cancelar(motivo); err != nil {
		return nil, err
	}

	oper := operador.GetOperador(ctx)
	movimentacoes := make([]*produto.Movimentacao, 0, len(v.Itens))
	for _, item := range v.Itens {
		m, err := produto.NovaMovimentacao(item.ProdutoID, item.Quantidade, produto.MovimentacaoEntrada,
			fmt.Sprintf("cancelamento da venda %s", v.ID), oper)
		if err != nil {
			return nil, err
		}
		movimentacoes = append(movimentacoes, m)
	}

	if err := s.repo.Cancelar(ctx, v, movimentacoes); err != nil {
		return nil, err
	}

	s.logger.Info("venda cancelada", "venda_id", v.ID, "motivo", motivo, "operador", oper)
	return v, nil
}

// RegistrarPagamento aplica um pagamento ao saldo devedor da venda; em
// vendas no crediário o valor é atribuído à parcela indicada ou, por
// padrão, à parcela pendente mais antiga
func (s *Service) RegistrarPagamento(ctx context.Context, vendaID string, in PagamentoInput) (*Pagamento, error) {
	v, err := s.repo.FindByID(ctx, vendaID)
	if err != nil {
		return nil, err
	}
	if v.Status == StatusCancelada {
		return nil, apperror.Conflict("venda cancelada não recebe pagamentos")
	}

	forma := in.Forma
	if forma == "" {
		forma = v.FormaPagamento
	}
	p, err := NovoPagamento(v.ID, in.Valor, forma, operador.GetOperador(ctx), in.Observacoes)
	if err != nil {
		return nil, err
	}

	pagamentos, err := s.repo.ListPagamentos(ctx, vendaID)
	if err != nil {
		return nil, err
	}
	saldo := v.SaldoDevedor(pagamentos)
	if in.Valor.GreaterThan(saldo) {
		return nil, apperror.Overpayment(
			fmt.Sprintf("pagamento de %s excede o saldo devedor de %s",
				in.Valor.StringFixed(2), saldo.StringFixed(2))).
			WithSolution("informe um valor menor ou igual ao saldo devedor")
	}

	var parcela *Parcela
	if v.FormaPagamento == FormaCrediario {
		parcela, err = s.escolherParcela(ctx, v, in.ParcelaID)
		if err != nil {
			return nil, err
		}
		switch {
		case parcela != nil && in.Valor.GreaterThanOrEqual(parcela.Valor):
			if err := parcela.Pagar(time.Now()); err != nil {
				return nil, err
			}
		case parcela != nil && in.ParcelaID != "":
			// Mira explícita em parcela exige cobri-la por inteiro.
			return nil, apperror.Validation(
				fmt.Sprintf("pagamento de %s não cobre a parcela %d de %s",
					in.Valor.StringFixed(2), parcela.Numero, parcela.Valor.StringFixed(2))).
				WithSolution("informe o valor integral da parcela ou omita parcela_id para abater apenas o saldo")
		default:
			parcela = nil
		}
	}

	// O status final sai da transação do repositório, que ressoma os
	// pagamentos sob lock da venda.
	if err := s.repo.RegistrarPagamento(ctx, v, p, parcela); err != nil {
		return nil, err
	}

	s.logger.Info("pagamento registrado",
		"venda_id", v.ID, "valor", p.Valor.StringFixed(2), "status", string(v.Status))
	return p, nil
}

func (s *Service) escolherParcela(ctx context.Context, v *Venda, parcelaID string) (*Parcela, error) {
	parcelas, err := s.repo.ListParcelas(ctx, v.ID)
	if err != nil {
		return nil, err
	}

	if parcelaID != "" {
		for _, p := range parcelas {
			if p.ID == parcelaID {
				if p.Status != ParcelaPendente {
					return nil, apperror.Conflict(fmt.Sprintf("parcela %d não está pendente", p.Numero))
				}
				return p, nil
			}
		}
		return nil, apperror.NotFound("parcela não encontrada para esta venda")
	}

	pendentes := make([]*Parcela, 0, len(parcelas))
	for _, p := range parcelas {
		if p.Status == ParcelaPendente {
			pendentes = append(pendentes, p)
		}
	}
	if len(pendentes) == 0 {
		return nil, nil
	}
	sort.Slice(pendentes, func(i, j int) bool {
		if pendentes[i].Vencimento.Equal(pendentes[j].Vencimento) {
			return pendentes[i].Numero < pendentes[j].Numero
		}
		return pendentes[i].Vencimento.Before(pendentes[j].Vencimento)
	})
	return pendentes[0], nil
}

// Buscar retorna uma venda pelo ID
func (s *Service) Buscar(ctx context.Context, id string) (*Venda, error) {
	return s.repo.FindByID(ctx, id)
}

// Listar lista as vendas com paginação
func (s *Service) Listar(ctx context.Context, limit, offset int) ([]*Venda, error) {
	return s.repo.List(ctx, limit, offset)
}

// ListarPagamentos lista os pagamentos de uma venda
func (s *Service) ListarPagamentos(ctx context.Context, vendaID string) ([]*Pagamento, error) {
	if _, err := s.repo.FindByID(ctx, vendaID); err != nil {
		return nil, err
	}
	return s.repo.ListPagamentos(ctx, vendaID)
}

// ListarParcelas lista as parcelas de uma venda no crediário
func (s *Service) ListarParcelas(ctx context.Context, vendaID string) ([]*Parcela, error) {
	if _, err := s.repo.FindByID(ctx, vendaID); err != nil {
		return nil, err
	}
	return s.repo.ListParcelas(ctx, vendaID)
}
