package produto

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vmachado/erp-vestuario/pkg/apperror"
)

// TipoMovimentacao define o tipo de movimentação de estoque
type TipoMovimentacao string

const (
	MovimentacaoEntrada TipoMovimentacao = "entrada"
	MovimentacaoSaida   TipoMovimentacao = "saida"
	MovimentacaoAjuste  TipoMovimentacao = "ajuste"
)

// Produto representa um produto do catálogo da loja. A quantidade é o
// resultado da soma de todas as movimentações; nenhuma operação escreve
// nela diretamente.
type Produto struct {
	ID           string          `json:"id"`
	Nome         string          `json:"nome"`
	Tamanho      string          `json:"tamanho"`
	Custo        decimal.Decimal `json:"custo"`
	PrecoVenda   decimal.Decimal `json:"preco_venda"`
	Quantidade   int             `json:"quantidade"`
	Ativo        bool            `json:"ativo"`
	CriadoEm     time.Time       `json:"criado_em"`
	AtualizadoEm time.Time       `json:"atualizado_em"`
}

// Movimentacao é um lançamento imutável no razão de estoque de um produto
type Movimentacao struct {
	ID        string           `json:"id"`
	ProdutoID string           `json:"produto_id"`
	Delta     int              `json:"delta"`
	Tipo      TipoMovimentacao `json:"tipo"`
	Motivo    string           `json:"motivo"`
	Operador  string           `json:"operador"`
	CriadoEm  time.Time        `json:"criado_em"`
}

// NovoProduto cria um novo produto
func NovoProduto(nome, tamanho string, custo, precoVenda decimal.Decimal) (*Produto, error) {
	if nome == "" {
		return nil, apperror.Validation("nome do produto não pode ser vazio")
	}
	if custo.IsNegative() || precoVenda.IsNegative() {
		return nil, apperror.Validation("custo e preço de venda não podem ser negativos")
	}

	now := time.Now()
	return &Produto{
		ID:           uuid.New().String(),
		Nome:         nome,
		Tamanho:      tamanho,
		Custo:        custo,
		PrecoVenda:   precoVenda,
		Quantidade:   0,
		Ativo:        true,
		CriadoEm:     now,
		AtualizadoEm: now,
	}, nil
}

// NovaMovimentacao cria um lançamento de estoque validado. O delta carrega
// o sinal: entrada > 0, saída < 0, ajuste qualquer valor não nulo.
func NovaMovimentacao(produtoID string, delta int, tipo TipoMovimentacao, motivo, operador string) (*Movimentacao, error) {
	if produtoID == "" {
		return nil, apperror.Validation("produto não informado")
	}
	if delta == 0 {
		return nil, apperror.Validation("movimentação com quantidade zero")
	}

	switch tipo {
	case MovimentacaoEntrada:
		if delta < 0 {
			return nil, apperror.Validation("entrada de estoque exige quantidade positiva")
		}
	case MovimentacaoSaida:
		if delta > 0 {
			return nil, apperror.Validation("saída de estoque exige quantidade negativa")
		}
	case MovimentacaoAjuste:
		// qualquer delta não nulo
	default:
		return nil, apperror.Validation(fmt.Sprintf("tipo de movimentação desconhecido: %s", tipo))
	}

	return &Movimentacao{
		ID:        uuid.New().String(),
		ProdutoID: produtoID,
		Delta:     delta,
		Tipo:      tipo,
		Motivo:    motivo,
		Operador:  operador,
		CriadoEm:  time.Now(),
	}, nil
}

// Aplicar soma a movimentação na quantidade do produto. Uma saída que
// deixaria o estoque negativo falha, exceto quando a política da loja
// permite venda sem estoque.
func (p *Produto) Aplicar(m *Movimentacao, permitirNegativo bool) error {
	resultado := p.Quantidade + m.Delta
	if resultado < 0 {
		if m.Tipo == MovimentacaoSaida && permitirNegativo {
			p.Quantidade = resultado
			p.AtualizadoEm = time.Now()
			return nil
		}
		return apperror.InsufficientStock(
			fmt.Sprintf("estoque insuficiente para o produto %s: disponível %d, solicitado %d", p.Nome, p.Quantidade, -m.Delta)).
			WithSolution("reduza a quantidade ou registre uma entrada de estoque")
	}

	p.Quantidade = resultado
	p.AtualizadoEm = time.Now()
	return nil
}

// Atualizar atualiza os dados cadastrais do produto
func (p *Produto) Atualizar(nome, tamanho string, custo, precoVenda decimal.Decimal, ativo bool) error {
	if nome == "" {
		return apperror.Validation("nome do produto não pode ser vazio")
	}
	if custo.IsNegative() || precoVenda.IsNegative() {
		return apperror.Validation("custo e preço de venda não podem ser negativos")
	}

	p.Nome = nome
	p.Tamanho = tamanho
	p.Custo = custo
	p.PrecoVenda = precoVenda
	p.Ativo = ativo
	p.AtualizadoEm = time.Now()
	return nil
}

// Saldo refaz a quantidade a partir do histórico completo de movimentações
func Saldo(movimentacoes []*Movimentacao) int {
	total := 0
	for _, m := range movimentacoes {
		total += m.Delta
	}
	return total
}
