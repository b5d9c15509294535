package produto

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vmachado/erp-vestuario/pkg/apperror"
)

func novoProdutoComEstoque(t *testing.T, quantidade int) *Produto {
	t.Helper()
	p, err := NovoProduto("Camiseta Básica", "M", decimal.NewFromFloat(20), decimal.NewFromFloat(49.90))
	if err != nil {
		t.Fatalf("NovoProduto: %v", err)
	}
	p.Quantidade = quantidade
	return p
}

func TestNovaMovimentacaoValidaSinais(t *testing.T) {
	tests := []struct {
		name    string
		delta   int
		tipo    TipoMovimentacao
		wantErr bool
	}{
		{"entrada positiva", 5, MovimentacaoEntrada, false},
		{"entrada negativa", -5, MovimentacaoEntrada, true},
		{"saida negativa", -3, MovimentacaoSaida, false},
		{"saida positiva", 3, MovimentacaoSaida, true},
		{"ajuste negativo", -2, MovimentacaoAjuste, false},
		{"ajuste positivo", 2, MovimentacaoAjuste, false},
		{"delta zero", 0, MovimentacaoAjuste, true},
		{"tipo desconhecido", 1, TipoMovimentacao("transferencia"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NovaMovimentacao("p1", tt.delta, tt.tipo, "teste", "maria")
			if (err != nil) != tt.wantErr {
				t.Errorf("NovaMovimentacao() erro = %v, esperado erro = %v", err, tt.wantErr)
			}
		})
	}
}

func TestAplicarSaidaBloqueiaEstoqueNegativo(t *testing.T) {
	p := novoProdutoComEstoque(t, 5)

	m, err := NovaMovimentacao(p.ID, -7, MovimentacaoSaida, "venda", "maria")
	if err != nil {
		t.Fatalf("NovaMovimentacao: %v", err)
	}

	err = p.Aplicar(m, false)
	if !errors.Is(err, apperror.ErrInsufficientStock) {
		t.Fatalf("esperado estoque insuficiente, obtido %v", err)
	}
	if p.Quantidade != 5 {
		t.Fatalf("quantidade não deveria mudar após falha, obtido %d", p.Quantidade)
	}
}

func TestAplicarSaidaComPoliticaDeVendaSemEstoque(t *testing.T) {
	p := novoProdutoComEstoque(t, 5)

	m, _ := NovaMovimentacao(p.ID, -7, MovimentacaoSaida, "venda", "maria")
	if err := p.Aplicar(m, true); err != nil {
		t.Fatalf("com a política ativa a saída deveria passar: %v", err)
	}
	if p.Quantidade != -2 {
		t.Fatalf("quantidade esperada -2, obtido %d", p.Quantidade)
	}
}

func TestAjusteNegativoNaoUsaPolitica(t *testing.T) {
	p := novoProdutoComEstoque(t, 1)

	m, _ := NovaMovimentacao(p.ID, -3, MovimentacaoAjuste, "inventário", "maria")
	err := p.Aplicar(m, true)
	if !errors.Is(err, apperror.ErrInsufficientStock) {
		t.Fatalf("ajuste abaixo de zero deveria falhar mesmo com política, obtido %v", err)
	}
}

func TestSaldoEhSomaDasMovimentacoes(t *testing.T) {
	movs := []*Movimentacao{
		{Delta: 10, Tipo: MovimentacaoEntrada},
		{Delta: -4, Tipo: MovimentacaoSaida},
		{Delta: -1, Tipo: MovimentacaoAjuste},
		{Delta: 2, Tipo: MovimentacaoEntrada},
	}
	if got := Saldo(movs); got != 7 {
		t.Fatalf("Saldo() = %d, esperado 7", got)
	}
}
