package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"validação direta", Validation("quantidade inválida"), KindValidation},
		{"conflito embrulhado", fmt.Errorf("ao aprovar: %w", Conflict("já aprovada")), KindConflict},
		{"erro desconhecido", errors.New("falha de rede"), KindInternal},
		{"estoque insuficiente", InsufficientStock("produto X"), KindInsufficientStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, esperado %v", got, tt.want)
			}
		})
	}
}

func TestIsComparaPorKind(t *testing.T) {
	err := fmt.Errorf("registrar pagamento: %w", Overpayment("valor acima do saldo"))
	if !errors.Is(err, ErrOverpayment) {
		t.Fatal("esperado errors.Is(err, ErrOverpayment)")
	}
	if errors.Is(err, ErrConflict) {
		t.Fatal("Overpayment não deveria casar com ErrConflict")
	}
}

func TestWithSolutionNaoAlteraOriginal(t *testing.T) {
	base := InsufficientCredit("saldo 10,00")
	comSolucao := base.WithSolution("verifique os créditos do cliente")

	if base.Solution != "" {
		t.Fatal("erro original não deveria ganhar solution")
	}
	if comSolucao.Solution == "" || comSolucao.Kind != KindInsufficientCredit {
		t.Fatalf("cópia inesperada: %+v", comSolucao)
	}
}
