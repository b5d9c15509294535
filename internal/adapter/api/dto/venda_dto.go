package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// VendaItemRequest representa um item na finalização da venda
type VendaItemRequest struct {
	ProdutoID  string `json:"produto_id" binding:"required"`
	Quantidade int    `json:"quantidade" binding:"required,gt=0"`
}

// VendaRequest representa os dados de finalização de uma venda
type VendaRequest struct {
	ClienteID          string             `json:"cliente_id"`
	FormaPagamento     string             `json:"forma_pagamento" binding:"required"`
	DescontoPercentual decimal.Decimal    `json:"desconto_percentual"`
	DescontoValor      decimal.Decimal    `json:"desconto_valor"`
	ValorCredito       decimal.Decimal    `json:"valor_credito"`
	QtdParcelas        int                `json:"qtd_parcelas"`
	PrimeiroVencimento *time.Time         `json:"primeiro_vencimento"`
	Itens              []VendaItemRequest `json:"itens" binding:"required"`
}

// CancelamentoRequest representa o pedido de cancelamento de uma venda
type CancelamentoRequest struct {
	Motivo string `json:"motivo" binding:"required"`
}

// PagamentoRequest representa um pagamento avulso contra a venda
type PagamentoRequest struct {
	Valor          decimal.Decimal `json:"valor" binding:"required"`
	FormaPagamento string          `json:"forma_pagamento"`
	Observacoes    string          `json:"observacoes"`
	ParcelaID      string          `json:"parcela_id"`
}
