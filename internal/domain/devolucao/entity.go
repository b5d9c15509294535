package devolucao

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vmachado/erp-vestuario/internal/domain/venda"
	"github.com/vmachado/erp-vestuario/pkg/apperror"
)

// Status representa o estado de uma devolução
type Status string

const (
	StatusPendente  Status = "pendente"
	StatusAprovada  Status = "aprovada"
	StatusRejeitada Status = "rejeitada"
)

var cem = decimal.NewFromInt(100)

// Devolucao representa uma solicitação de devolução de itens de uma venda
type Devolucao struct {
	ID             string          `json:"id"`
	VendaID        string          `json:"venda_id"`
	ClienteID      string          `json:"cliente_id"`
	Itens          []*Item         `json:"itens"`
	ValorCredito   decimal.Decimal `json:"valor_credito"`
	Status         Status          `json:"status"`
	Motivo         string          `json:"motivo"`
	MotivoRejeicao string          `json:"motivo_rejeicao,omitempty"`
	CriadoEm       time.Time       `json:"criado_em"`
	AtualizadoEm   time.Time       `json:"atualizado_em"`
}

// Item é um item devolvido. O valor unitário é o preço da venda líquido do
// desconto proporcional, nunca o preço de tabela atual.
type Item struct {
	ID            string          `json:"id"`
	DevolucaoID   string          `json:"devolucao_id"`
	VendaItemID   string          `json:"venda_item_id"`
	ProdutoID     string          `json:"produto_id"`
	Quantidade    int             `json:"quantidade"`
	ValorUnitario decimal.Decimal `json:"valor_unitario"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

// ItemParam indica quanto devolver de um item da venda
type ItemParam struct {
	VendaItemID string
	Quantidade  int
}

// ValorLiquidoUnitario calcula quanto cada unidade do item vale em crédito:
// o preço unitário da venda menos o desconto percentual que incidiu sobre
// ela. valor = preco × (100 − pct) / 100, arredondado a centavos.
func ValorLiquidoUnitario(precoUnitario, descontoPercentual decimal.Decimal) decimal.Decimal {
	return precoUnitario.Mul(cem.Sub(descontoPercentual)).Div(cem).Round(2)
}

// NovaDevolucao monta uma solicitação de devolução a partir da venda. O
// crédito é lançado para clienteID; quando vazio, vale o cliente da venda.
// Os parâmetros de quantidade já devem ter sido validados contra o saldo
// devolvível de cada item.
func NovaDevolucao(v *venda.Venda, clienteID, motivo string, itens []ItemParam) (*Devolucao, error) {
	if motivo == "" {
		return nil, apperror.Validation("motivo da devolução é obrigatório")
	}
	if len(itens) == 0 {
		return nil, apperror.Validation("a devolução precisa de ao menos um item")
	}
	if clienteID == "" {
		clienteID = v.ClienteID
	}
	if clienteID == "" {
		return nil, apperror.Validation("devolução exige um cliente para receber o crédito").
			WithSolution("informe o cliente_id quando a venda não tiver cliente identificado")
	}

	porID := make(map[string]*venda.Item, len(v.Itens))
	for _, item := range v.Itens {
		porID[item.ID] = item
	}

	now := time.Now()
	d := &Devolucao{
		ID:           uuid.New().String(),
		VendaID:      v.ID,
		ClienteID:    clienteID,
		ValorCredito: decimal.Zero,
		Status:       StatusPendente,
		Motivo:       motivo,
		CriadoEm:     now,
		AtualizadoEm: now,
	}

	for _, param := range itens {
		vendaItem, ok := porID[param.VendaItemID]
		if !ok {
			return nil, apperror.NotFound(fmt.Sprintf("item %s não pertence à venda", param.VendaItemID))
		}
		if param.Quantidade <= 0 {
			return nil, apperror.Validation("quantidade devolvida deve ser maior que zero")
		}

		valorUnitario := ValorLiquidoUnitario(vendaItem.PrecoUnitario, v.DescontoPercentual)
		subtotal := valorUnitario.Mul(decimal.NewFromInt(int64(param.Quantidade)))
		d.Itens = append(d.Itens, &Item{
			ID:            uuid.New().String(),
			DevolucaoID:   d.ID,
			VendaItemID:   vendaItem.ID,
			ProdutoID:     vendaItem.ProdutoID,
			Quantidade:    param.Quantidade,
			ValorUnitario: valorUnitario,
			Subtotal:      subtotal,
		})
		d.ValorCredito = d.ValorCredito.Add(subtotal)
	}

	return d, nil
}

// Aprovar marca a devolução como aprovada. Transição terminal, só parte de
// pendente.
func (d *Devolucao) Aprovar() error {
	if d.Status != StatusPendente {
		return apperror.Conflict(fmt.Sprintf("devolução já foi decidida: %s", d.Status))
	}
	d.Status = StatusAprovada
	d.AtualizadoEm = time.Now()
	return nil
}

// Rejeitar marca a devolução como rejeitada com o motivo informado
func (d *Devolucao) Rejeitar(motivo string) error {
	if motivo == "" {
		return apperror.Validation("motivo da rejeição é obrigatório")
	}
	if d.Status != StatusPendente {
		return apperror.Conflict(fmt.Sprintf("devolução já foi decidida: %s", d.Status))
	}
	d.Status = StatusRejeitada
	d.MotivoRejeicao = motivo
	d.AtualizadoEm = time.Now()
	return nil
}
