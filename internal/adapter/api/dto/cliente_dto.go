package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vmachado/erp-vestuario/internal/domain/credito"
)

// ClienteRequest representa os dados de criação de um cliente
type ClienteRequest struct {
	Nome      string `json:"nome" binding:"required"`
	Documento string `json:"documento"`
	Telefone  string `json:"telefone"`
}

// CreditoManualRequest representa a concessão manual de crédito de loja
type CreditoManualRequest struct {
	Valor    decimal.Decimal `json:"valor" binding:"required"`
	ExpiraEm *time.Time      `json:"expira_em"`
}

// ExtratoCreditosResponse reúne saldo, créditos e usos de um cliente
type ExtratoCreditosResponse struct {
	ClienteID string             `json:"cliente_id"`
	Saldo     decimal.Decimal    `json:"saldo"`
	Creditos  []*credito.Credito `json:"creditos"`
	Usos      []*credito.Uso     `json:"usos"`
}
