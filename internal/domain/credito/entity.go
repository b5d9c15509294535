package credito

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vmachado/erp-vestuario/pkg/apperror"
)

// Origem indica de onde veio um crédito de cliente
type Origem string

const (
	OrigemDevolucao Origem = "devolucao"
	OrigemManual    Origem = "manual"
)

// Credito é um valor que o cliente pode abater em compras futuras.
// Créditos vencidos saem do saldo mas nunca são apagados.
type Credito struct {
	ID        string          `json:"id"`
	ClienteID string          `json:"cliente_id"`
	Valor     decimal.Decimal `json:"valor"`
	Origem    Origem          `json:"origem"`
	CriadoEm  time.Time       `json:"criado_em"`
	ExpiraEm  *time.Time      `json:"expira_em,omitempty"`
}

// Uso registra o consumo de crédito por uma venda
type Uso struct {
	ID        string          `json:"id"`
	ClienteID string          `json:"cliente_id"`
	VendaID   string          `json:"venda_id"`
	Valor     decimal.Decimal `json:"valor"`
	CriadoEm  time.Time       `json:"criado_em"`
}

// NovoCredito cria um crédito para o cliente
func NovoCredito(clienteID string, valor decimal.Decimal, origem Origem, expiraEm *time.Time) (*Credito, error) {
	if clienteID == "" {
		return nil, apperror.Validation("cliente não informado para o crédito")
	}
	if !valor.IsPositive() {
		return nil, apperror.Validation("valor do crédito deve ser maior que zero")
	}
	if origem != OrigemDevolucao && origem != OrigemManual {
		return nil, apperror.Validation("origem de crédito desconhecida")
	}

	return &Credito{
		ID:        uuid.New().String(),
		ClienteID: clienteID,
		Valor:     valor,
		Origem:    origem,
		CriadoEm:  time.Now(),
		ExpiraEm:  expiraEm,
	}, nil
}

// NovoUso cria um registro de consumo de crédito
func NovoUso(clienteID, vendaID string, valor decimal.Decimal) (*Uso, error) {
	if clienteID == "" || vendaID == "" {
		return nil, apperror.Validation("cliente e venda são obrigatórios no uso de crédito")
	}
	if !valor.IsPositive() {
		return nil, apperror.Validation("valor do uso de crédito deve ser maior que zero")
	}

	return &Uso{
		ID:        uuid.New().String(),
		ClienteID: clienteID,
		VendaID:   vendaID,
		Valor:     valor,
		CriadoEm:  time.Now(),
	}, nil
}

// Vigente informa se o crédito ainda conta para o saldo no instante dado
func (c *Credito) Vigente(agora time.Time) bool {
	return c.ExpiraEm == nil || c.ExpiraEm.After(agora)
}

// Saldo calcula o saldo disponível: créditos vigentes menos usos
func Saldo(creditos []*Credito, usos []*Uso, agora time.Time) decimal.Decimal {
	saldo := decimal.Zero
	for _, c := range creditos {
		if c.Vigente(agora) {
			saldo = saldo.Add(c.Valor)
		}
	}
	for _, u := range usos {
		saldo = saldo.Sub(u.Valor)
	}
	return saldo
}
