package venda

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vmachado/erp-vestuario/pkg/apperror"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func vendaDeTeste(t *testing.T, forma FormaPagamento, clienteID string, itens ...ItemParam) *Venda {
	t.Helper()
	if len(itens) == 0 {
		itens = []ItemParam{{ProdutoID: "p1", Quantidade: 2, PrecoUnitario: dec("50.00")}}
	}
	v, err := NovaVenda(clienteID, forma, itens)
	if err != nil {
		t.Fatalf("NovaVenda: %v", err)
	}
	return v
}

func TestDescontoPercentualDerivaValor(t *testing.T) {
	// Venda de 100.00 com 10% de desconto: desconto 10.00, total 90.00.
	v := vendaDeTeste(t, FormaDinheiro, "")

	if !v.Subtotal.Equal(dec("100.00")) {
		t.Fatalf("subtotal esperado 100.00, obtido %s", v.Subtotal)
	}
	if err := v.AplicarDesconto(dec("10"), decimal.Zero); err != nil {
		t.Fatalf("AplicarDesconto: %v", err)
	}
	if !v.DescontoValor.Equal(dec("10.00")) {
		t.Fatalf("desconto_valor esperado 10.00, obtido %s", v.DescontoValor)
	}
	if !v.Total.Equal(dec("90.00")) {
		t.Fatalf("total esperado 90.00, obtido %s", v.Total)
	}
}

func TestDescontoValorDerivaPercentual(t *testing.T) {
	v := vendaDeTeste(t, FormaDinheiro, "")

	if err := v.AplicarDesconto(decimal.Zero, dec("25.00")); err != nil {
		t.Fatalf("AplicarDesconto: %v", err)
	}
	if !v.DescontoPercentual.Equal(dec("25.00")) {
		t.Fatalf("percentual esperado 25.00, obtido %s", v.DescontoPercentual)
	}
	if !v.Total.Equal(dec("75.00")) {
		t.Fatalf("total esperado 75.00, obtido %s", v.Total)
	}
}

func TestDescontoInvalido(t *testing.T) {
	tests := []struct {
		name       string
		percentual decimal.Decimal
		valor      decimal.Decimal
	}{
		{"percentual acima de 100", dec("120"), decimal.Zero},
		{"valor acima do subtotal", decimal.Zero, dec("150.00")},
		{"percentual negativo", dec("-5"), decimal.Zero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := vendaDeTeste(t, FormaDinheiro, "")
			if err := v.AplicarDesconto(tt.percentual, tt.valor); !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("esperado erro de validação, obtido %v", err)
			}
		})
	}
}

func TestGerarParcelasSomaExata(t *testing.T) {
	primeiro := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		total   string
		qtd     int
		valores []string
	}{
		{"divisão exata", "300.00", 3, []string{"100.00", "100.00", "100.00"}},
		{"resto na última", "100.00", 3, []string{"33.33", "33.33", "33.34"}},
		{"parcela única", "59.90", 1, []string{"59.90"}},
		{"centavo de resto", "0.05", 2, []string{"0.02", "0.03"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := vendaDeTeste(t, FormaCrediario, "c1",
				ItemParam{ProdutoID: "p1", Quantidade: 1, PrecoUnitario: dec(tt.total)})

			parcelas, err := v.GerarParcelas(tt.qtd, primeiro)
			if err != nil {
				t.Fatalf("GerarParcelas: %v", err)
			}
			if len(parcelas) != tt.qtd {
				t.Fatalf("esperadas %d parcelas, obtidas %d", tt.qtd, len(parcelas))
			}

			soma := decimal.Zero
			for i, p := range parcelas {
				if !p.Valor.Equal(dec(tt.valores[i])) {
					t.Errorf("parcela %d: valor esperado %s, obtido %s", i+1, tt.valores[i], p.Valor)
				}
				soma = soma.Add(p.Valor)
			}
			if !soma.Equal(v.Total) {
				t.Fatalf("soma das parcelas %s difere do total %s", soma, v.Total)
			}
		})
	}
}

func TestGerarParcelasVencimentosMensais(t *testing.T) {
	// Crediário de 300.00 em 3x a partir de 2024-01-10.
	v := vendaDeTeste(t, FormaCrediario, "c1",
		ItemParam{ProdutoID: "p1", Quantidade: 3, PrecoUnitario: dec("100.00")})

	primeiro := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	parcelas, err := v.GerarParcelas(3, primeiro)
	if err != nil {
		t.Fatalf("GerarParcelas: %v", err)
	}

	esperados := []time.Time{
		time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
	}
	for i, p := range parcelas {
		if !p.Vencimento.Equal(esperados[i]) {
			t.Errorf("parcela %d: vencimento esperado %s, obtido %s", i+1, esperados[i], p.Vencimento)
		}
		if !p.Valor.Equal(dec("100.00")) {
			t.Errorf("parcela %d: valor esperado 100.00, obtido %s", i+1, p.Valor)
		}
	}
}

func TestGerarParcelasValidacoes(t *testing.T) {
	primeiro := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	t.Run("fora do crediário", func(t *testing.T) {
		v := vendaDeTeste(t, FormaPix, "c1")
		if _, err := v.GerarParcelas(2, primeiro); !errors.Is(err, apperror.ErrValidation) {
			t.Errorf("esperado erro de validação, obtido %v", err)
		}
	})

	t.Run("sem cliente", func(t *testing.T) {
		v := vendaDeTeste(t, FormaCrediario, "")
		if _, err := v.GerarParcelas(2, primeiro); !errors.Is(err, apperror.ErrValidation) {
			t.Errorf("esperado erro de validação, obtido %v", err)
		}
	})

	t.Run("quantidade inválida", func(t *testing.T) {
		v := vendaDeTeste(t, FormaCrediario, "c1")
		if _, err := v.GerarParcelas(0, primeiro); !errors.Is(err, apperror.ErrValidation) {
			t.Errorf("esperado erro de validação, obtido %v", err)
		}
	})
}

func TestTransicoesDeStatus(t *testing.T) {
	t.Run("concluir é monotônico", func(t *testing.T) {
		v := vendaDeTeste(t, FormaDinheiro, "")
		if err := v.Concluir(); err != nil {
			t.Fatalf("Concluir: %v", err)
		}
		if err := v.Concluir(); err != nil {
			t.Fatalf("concluir de novo deveria ser neutro: %v", err)
		}
		if v.Status != StatusConcluida {
			t.Fatalf("status esperado concluida, obtido %s", v.Status)
		}
	})

	t.Run("cancelar duas vezes conflita", func(t *testing.T) {
		v := vendaDeTeste(t, FormaDinheiro, "")
		if err := v.Cancelar("cliente desistiu"); err != nil {
			t.Fatalf("Cancelar: %v", err)
		}
		if err := v.Cancelar("de novo"); !errors.Is(err, apperror.ErrConflict) {
			t.Fatalf("esperado conflito, obtido %v", err)
		}
	})

	t.Run("cancelar exige motivo", func(t *testing.T) {
		v := vendaDeTeste(t, FormaDinheiro, "")
		if err := v.Cancelar(""); !errors.Is(err, apperror.ErrValidation) {
			t.Fatalf("esperado erro de validação, obtido %v", err)
		}
	})

	t.Run("venda cancelada não conclui", func(t *testing.T) {
		v := vendaDeTeste(t, FormaDinheiro, "")
		_ = v.Cancelar("defeito")
		if err := v.Concluir(); !errors.Is(err, apperror.ErrConflict) {
			t.Fatalf("esperado conflito, obtido %v", err)
		}
	})
}

func TestSaldoDevedor(t *testing.T) {
	v := vendaDeTeste(t, FormaCrediario, "c1",
		ItemParam{ProdutoID: "p1", Quantidade: 3, PrecoUnitario: dec("100.00")})

	pagamentos := []*Pagamento{
		{Valor: dec("100.00")},
		{Valor: dec("50.00")},
	}
	if saldo := v.SaldoDevedor(pagamentos); !saldo.Equal(dec("150.00")) {
		t.Fatalf("saldo esperado 150.00, obtido %s", saldo)
	}
}

func TestNovoPagamentoValidaValor(t *testing.T) {
	if _, err := NovoPagamento("v1", decimal.Zero, FormaDinheiro, "maria", ""); !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("valor zero deveria falhar, obtido %v", err)
	}
	if _, err := NovoPagamento("v1", dec("-10"), FormaDinheiro, "maria", ""); !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("valor negativo deveria falhar, obtido %v", err)
	}
}
