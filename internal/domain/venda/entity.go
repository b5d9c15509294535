package venda

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vmachado/erp-vestuario/pkg/apperror"
)

// Status representa o estado de uma venda
type Status string

const (
	StatusPendente  Status = "pendente"
	StatusConcluida Status = "concluida"
	StatusCancelada Status = "cancelada"
)

// StatusParcela representa o estado de uma parcela do crediário
type StatusParcela string

const (
	ParcelaPendente  StatusParcela = "pendente"
	ParcelaPaga      StatusParcela = "paga"
	ParcelaCancelada StatusParcela = "cancelada"
)

// FormaPagamento define as formas de pagamento aceitas pela loja
type FormaPagamento string

const (
	FormaDinheiro      FormaPagamento = "dinheiro"
	FormaCartaoCredito FormaPagamento = "cartao_credito"
	FormaCartaoDebito  FormaPagamento = "cartao_debito"
	FormaPix           FormaPagamento = "pix"
	FormaCrediario     FormaPagamento = "crediario"
)

// MaxParcelas é o limite de parcelas de uma venda no crediário
const MaxParcelas = 48

var cem = decimal.NewFromInt(100)

// Venda representa uma venda da loja
type Venda struct {
	ID                 string          `json:"id"`
	ClienteID          string          `json:"cliente_id,omitempty"`
	Itens              []*Item         `json:"itens"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	DescontoPercentual decimal.Decimal `json:"desconto_percentual"`
	DescontoValor      decimal.Decimal `json:"desconto_valor"`
	Total              decimal.Decimal `json:"total"`
	FormaPagamento     FormaPagamento  `json:"forma_pagamento"`
	Status             Status          `json:"status"`
	MotivoCancelamento string          `json:"motivo_cancelamento,omitempty"`
	CriadoEm           time.Time       `json:"criado_em"`
	AtualizadoEm       time.Time       `json:"atualizado_em"`
}

// Item é um item da venda; o preço unitário é o vigente no momento da
// venda e nunca muda depois de criado.
type Item struct {
	ID            string          `json:"id"`
	VendaID       string          `json:"venda_id"`
	ProdutoID     string          `json:"produto_id"`
	Quantidade    int             `json:"quantidade"`
	PrecoUnitario decimal.Decimal `json:"preco_unitario"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

// Pagamento registra um valor recebido contra o saldo de uma venda
type Pagamento struct {
	ID          string          `json:"id"`
	VendaID     string          `json:"venda_id"`
	Valor       decimal.Decimal `json:"valor"`
	Forma       FormaPagamento  `json:"forma_pagamento"`
	Operador    string          `json:"operador"`
	Observacoes string          `json:"observacoes,omitempty"`
	CriadoEm    time.Time       `json:"criado_em"`
}

// Parcela é uma fatia datada do total de uma venda no crediário
type Parcela struct {
	ID         string          `json:"id"`
	VendaID    string          `json:"venda_id"`
	Numero     int             `json:"numero"`
	Valor      decimal.Decimal `json:"valor"`
	Vencimento time.Time       `json:"vencimento"`
	Status     StatusParcela   `json:"status"`
	PagoEm     *time.Time      `json:"pago_em,omitempty"`
}

// ItemParam descreve um item precificado para a criação da venda
type ItemParam struct {
	ProdutoID     string
	Quantidade    int
	PrecoUnitario decimal.Decimal
}

// FormaValida verifica se a forma de pagamento é conhecida
func FormaValida(f FormaPagamento) bool {
	switch f {
	case FormaDinheiro, FormaCartaoCredito, FormaCartaoDebito, FormaPix, FormaCrediario:
		return true
	}
	return false
}

// NovaVenda monta uma venda pendente a partir dos itens precificados.
// O desconto entra depois, por AplicarDesconto.
func NovaVenda(clienteID string, forma FormaPagamento, itens []ItemParam) (*Venda, error) {
	if len(itens) == 0 {
		return nil, apperror.Validation("a venda precisa de ao menos um item")
	}
	if !FormaValida(forma) {
		return nil, apperror.Validation(fmt.Sprintf("forma de pagamento desconhecida: %s", forma))
	}

	now := time.Now()
	v := &Venda{
		ID:                 uuid.New().String(),
		ClienteID:          clienteID,
		Subtotal:           decimal.Zero,
		DescontoPercentual: decimal.Zero,
		DescontoValor:      decimal.Zero,
		FormaPagamento:     forma,
		Status:             StatusPendente,
		CriadoEm:           now,
		AtualizadoEm:       now,
	}

	for _, item := range itens {
		if item.Quantidade <= 0 {
			return nil, apperror.Validation("quantidade do item deve ser maior que zero")
		}
		if item.PrecoUnitario.IsNegative() {
			return nil, apperror.Validation("preço unitário não pode ser negativo")
		}
		subtotal := item.PrecoUnitario.Mul(decimal.NewFromInt(int64(item.Quantidade)))
		v.Itens = append(v.Itens, &Item{
			ID:            uuid.New().String(),
			VendaID:       v.ID,
			ProdutoID:     item.ProdutoID,
			Quantidade:    item.Quantidade,
			PrecoUnitario: item.PrecoUnitario,
			Subtotal:      subtotal,
		})
		v.Subtotal = v.Subtotal.Add(subtotal)
	}

	v.Total = v.Subtotal
	return v, nil
}

// AplicarDesconto deriva percentual e valor um do outro, conforme o campo
// que o operador editou por último. desconto_valor = subtotal × pct / 100.
func (v *Venda) AplicarDesconto(percentual, valor decimal.Decimal) error {
	switch {
	case percentual.IsPositive():
		if percentual.GreaterThan(cem) {
			return apperror.Validation("desconto percentual não pode exceder 100%")
		}
		v.DescontoPercentual = percentual
		v.DescontoValor = v.Subtotal.Mul(percentual).Div(cem).Round(2)
	case valor.IsPositive():
		if valor.GreaterThan(v.Subtotal) {
			return apperror.Validation("desconto não pode exceder o subtotal da venda")
		}
		v.DescontoValor = valor.Round(2)
		if v.Subtotal.IsPositive() {
			v.DescontoPercentual = valor.Mul(cem).Div(v.Subtotal).Round(2)
		}
	case percentual.IsNegative() || valor.IsNegative():
		return apperror.Validation("desconto não pode ser negativo")
	default:
		return nil
	}

	v.Total = v.Subtotal.Sub(v.DescontoValor)
	return nil
}

// GerarParcelas divide o total em parcelas de valores iguais em centavos;
// o resto da divisão inteira vai para a última parcela, de modo que a soma
// feche exatamente com o total.
func (v *Venda) GerarParcelas(qtd int, primeiroVencimento time.Time) ([]*Parcela, error) {
	if v.FormaPagamento != FormaCrediario {
		return nil, apperror.Validation("apenas vendas no crediário têm parcelas")
	}
	if v.ClienteID == "" {
		return nil, apperror.Validation("venda no crediário exige um cliente identificado")
	}
	if qtd < 1 || qtd > MaxParcelas {
		return nil, apperror.Validation(fmt.Sprintf("quantidade de parcelas deve estar entre 1 e %d", MaxParcelas))
	}
	if primeiroVencimento.IsZero() {
		return nil, apperror.Validation("primeiro vencimento não informado")
	}

	totalCentavos := v.Total.Round(2).Mul(cem).IntPart()
	base := totalCentavos / int64(qtd)
	resto := totalCentavos % int64(qtd)

	parcelas := make([]*Parcela, 0, qtd)
	for i := 0; i < qtd; i++ {
		valorCentavos := base
		if i == qtd-1 {
			valorCentavos += resto
		}
		parcelas = append(parcelas, &Parcela{
			ID:         uuid.New().String(),
			VendaID:    v.ID,
			Numero:     i + 1,
			Valor:      decimal.New(valorCentavos, -2),
			Vencimento: primeiroVencimento.AddDate(0, i, 0),
			Status:     ParcelaPendente,
		})
	}
	return parcelas, nil
}

// SaldoDevedor retorna quanto ainda falta pagar da venda
func (v *Venda) SaldoDevedor(pagamentos []*Pagamento) decimal.Decimal {
	saldo := v.Total
	for _, p := range pagamentos {
		saldo = saldo.Sub(p.Valor)
	}
	return saldo
}

// Concluir marca a venda como concluída; a transição é monotônica e só
// parte de pendente.
func (v *Venda) Concluir() error {
	switch v.Status {
	case StatusPendente:
		v.Status = StatusConcluida
		v.AtualizadoEm = time.Now()
		return nil
	case StatusConcluida:
		return nil
	default:
		return apperror.Conflict("venda cancelada não pode ser concluída")
	}
}

// Cancelar marca a venda como cancelada. Transição terminal, permitida a
// partir de pendente ou concluida.
func (v *Venda) Cancelar(motivo string) error {
	if motivo == "" {
		return apperror.Validation("motivo do cancelamento é obrigatório")
	}
	if v.Status == StatusCancelada {
		return apperror.Conflict("venda já está cancelada")
	}

	v.Status = StatusCancelada
	v.MotivoCancelamento = motivo
	v.AtualizadoEm = time.Now()
	return nil
}

// NovoPagamento cria um pagamento validado para a venda
func NovoPagamento(vendaID string, valor decimal.Decimal, forma FormaPagamento, operador, observacoes string) (*Pagamento, error) {
	if vendaID == "" {
		return nil, apperror.Validation("venda não informada")
	}
	if !valor.IsPositive() {
		return nil, apperror.Validation("valor do pagamento deve ser maior que zero")
	}
	if !FormaValida(forma) {
		return nil, apperror.Validation(fmt.Sprintf("forma de pagamento desconhecida: %s", forma))
	}

	return &Pagamento{
		ID:          uuid.New().String(),
		VendaID:     vendaID,
		Valor:       valor,
		Forma:       forma,
		Operador:    operador,
		Observacoes: observacoes,
		CriadoEm:    time.Now(),
	}, nil
}

// Pagar marca a parcela como paga
func (p *Parcela) Pagar(quando time.Time) error {
	if p.Status != ParcelaPendente {
		return apperror.Conflict(fmt.Sprintf("parcela %d não está pendente", p.Numero))
	}
	p.Status = ParcelaPaga
	p.PagoEm = &quando
	return nil
}
