package credito

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vmachado/erp-vestuario/pkg/apperror"
)

type fakeRepo struct {
	creditos []*Credito
	usos     []*Uso
}

func (f *fakeRepo) Create(_ context.Context, c *Credito) error {
	f.creditos = append(f.creditos, c)
	return nil
}

func (f *fakeRepo) Consumir(_ context.Context, u *Uso) error {
	saldo := Saldo(f.creditos, f.usos, time.Now())
	if u.Valor.GreaterThan(saldo) {
		return apperror.InsufficientCredit("crédito insuficiente")
	}
	f.usos = append(f.usos, u)
	return nil
}

func (f *fakeRepo) ListByCliente(_ context.Context, clienteID string) ([]*Credito, error) {
	var out []*Credito
	for _, c := range f.creditos {
		if c.ClienteID == clienteID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListUsosByCliente(_ context.Context, clienteID string) ([]*Uso, error) {
	var out []*Uso
	for _, u := range f.usos {
		if u.ClienteID == clienteID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeRepo) SaldoDe(ctx context.Context, clienteID string) (decimal.Decimal, error) {
	creditos, _ := f.ListByCliente(ctx, clienteID)
	usos, _ := f.ListUsosByCliente(ctx, clienteID)
	return Saldo(creditos, usos, time.Now()), nil
}

type silentLogger struct{}

func (silentLogger) Info(string, ...interface{})  {}
func (silentLogger) Error(string, ...interface{}) {}
func (silentLogger) Debug(string, ...interface{}) {}
func (silentLogger) Warn(string, ...interface{})  {}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestSaldoExcluiCreditosVencidos(t *testing.T) {
	passado := time.Now().Add(-24 * time.Hour)
	futuro := time.Now().Add(24 * time.Hour)

	creditos := []*Credito{
		{ClienteID: "c1", Valor: dec("45.00"), ExpiraEm: nil},
		{ClienteID: "c1", Valor: dec("30.00"), ExpiraEm: &futuro},
		{ClienteID: "c1", Valor: dec("100.00"), ExpiraEm: &passado},
	}
	usos := []*Uso{
		{ClienteID: "c1", Valor: dec("20.00")},
	}

	saldo := Saldo(creditos, usos, time.Now())
	if !saldo.Equal(dec("55.00")) {
		t.Fatalf("saldo esperado 55.00, obtido %s", saldo.StringFixed(2))
	}
}

func TestConsumirAcimaDoSaldo(t *testing.T) {
	repo := &fakeRepo{
		creditos: []*Credito{{ClienteID: "c1", Valor: dec("45.00"), CriadoEm: time.Now()}},
	}
	svc := NewService(repo, silentLogger{})

	_, err := svc.Consumir(context.Background(), "c1", dec("50.00"), "v1")
	if !errors.Is(err, apperror.ErrInsufficientCredit) {
		t.Fatalf("esperado crédito insuficiente, obtido %v", err)
	}
	if len(repo.usos) != 0 {
		t.Fatal("nenhum uso deveria ter sido registrado")
	}
}

func TestConsumirRegistraUso(t *testing.T) {
	repo := &fakeRepo{
		creditos: []*Credito{{ClienteID: "c1", Valor: dec("45.00"), CriadoEm: time.Now()}},
	}
	svc := NewService(repo, silentLogger{})

	uso, err := svc.Consumir(context.Background(), "c1", dec("45.00"), "v1")
	if err != nil {
		t.Fatalf("Consumir: %v", err)
	}
	if uso.VendaID != "v1" || !uso.Valor.Equal(dec("45.00")) {
		t.Fatalf("uso inesperado: %+v", uso)
	}

	saldo, _ := repo.SaldoDe(context.Background(), "c1")
	if !saldo.IsZero() {
		t.Fatalf("saldo esperado 0, obtido %s", saldo.StringFixed(2))
	}
}

func TestConcederManualValidaValores(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, silentLogger{})
	passado := time.Now().Add(-time.Hour)

	tests := []struct {
		name     string
		cliente  string
		valor    decimal.Decimal
		expiraEm *time.Time
		wantErr  bool
	}{
		{"válido", "c1", dec("10.00"), nil, false},
		{"valor zero", "c1", decimal.Zero, nil, true},
		{"sem cliente", "", dec("10.00"), nil, true},
		{"expiração no passado", "c1", dec("10.00"), &passado, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ConcederManual(context.Background(), tt.cliente, tt.valor, tt.expiraEm)
			if (err != nil) != tt.wantErr {
				t.Errorf("ConcederManual() erro = %v, esperado erro = %v", err, tt.wantErr)
			}
		})
	}
}
