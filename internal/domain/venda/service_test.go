package venda

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vmachado/erp-vestuario/internal/domain/cliente"
	"github.com/vmachado/erp-vestuario/internal/domain/credito"
	"github.com/vmachado/erp-vestuario/internal/domain/produto"
	"github.com/vmachado/erp-vestuario/pkg/apperror"
)

type silentLogger struct{}

func (silentLogger) Info(string, ...interface{})  {}
func (silentLogger) Error(string, ...interface{}) {}
func (silentLogger) Debug(string, ...interface{}) {}
func (silentLogger) Warn(string, ...interface{})  {}

type fakeVendaRepo struct {
	vendas        map[string]*Venda
	parcelas      map[string][]*Parcela
	pagamentos    map[string][]*Pagamento
	movimentacoes []*produto.Movimentacao
	usosCredito   []*credito.Uso

	// aoListarPagamentos roda uma única vez após a leitura da lista,
	// simulando um pagamento concorrente entre a leitura e a transação
	aoListarPagamentos func()
}

func newFakeVendaRepo() *fakeVendaRepo {
	return &fakeVendaRepo{
		vendas:     make(map[string]*Venda),
		parcelas:   make(map[string][]*Parcela),
		pagamentos: make(map[string][]*Pagamento),
	}
}

func (f *fakeVendaRepo) CreateFinalizada(_ context.Context, v *Venda, parcelas []*Parcela, pagamentoInicial *Pagamento, movimentacoes []*produto.Movimentacao, usoCredito *credito.Uso) error {
	f.vendas[v.ID] = v
	f.parcelas[v.ID] = parcelas
	if pagamentoInicial != nil {
		f.pagamentos[v.ID] = append(f.pagamentos[v.ID], pagamentoInicial)
	}
	f.movimentacoes = append(f.movimentacoes, movimentacoes...)
	if usoCredito != nil {
		f.usosCredito = append(f.usosCredito, usoCredito)
	}
	return nil
}

func (f *fakeVendaRepo) FindByID(_ context.Context, id string) (*Venda, error) {
	v, ok := f.vendas[id]
	if !ok {
		return nil, apperror.NotFound("venda não encontrada")
	}
	return v, nil
}

func (f *fakeVendaRepo) List(_ context.Context, limit, offset int) ([]*Venda, error) {
	out := make([]*Venda, 0, len(f.vendas))
	for _, v := range f.vendas {
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeVendaRepo) Cancelar(_ context.Context, v *Venda, movimentacoes []*produto.Movimentacao) error {
	f.vendas[v.ID] = v
	f.movimentacoes = append(f.movimentacoes, movimentacoes...)
	for _, p := range f.parcelas[v.ID] {
		if p.Status == ParcelaPendente {
			p.Status = ParcelaCancelada
		}
	}
	return nil
}

// RegistrarPagamento imita a transação do Postgres: ressoma os pagamentos
// já gravados, revalida o saldo e deriva o status da venda aqui dentro.
func (f *fakeVendaRepo) RegistrarPagamento(_ context.Context, v *Venda, p *Pagamento, parcela *Parcela) error {
	armazenada, ok := f.vendas[v.ID]
	if !ok {
		return apperror.NotFound("venda não encontrada")
	}

	var pago decimal.Decimal
	for _, existente := range f.pagamentos[v.ID] {
		pago = pago.Add(existente.Valor)
	}
	if p.Valor.GreaterThan(armazenada.Total.Sub(pago)) {
		return apperror.Overpayment("pagamento excede o saldo devedor")
	}

	f.pagamentos[v.ID] = append(f.pagamentos[v.ID], p)
	if parcela != nil {
		for i, existente := range f.parcelas[v.ID] {
			if existente.ID == parcela.ID {
				f.parcelas[v.ID][i] = parcela
			}
		}
	}

	if pago.Add(p.Valor).Equal(armazenada.Total) {
		armazenada.Status = StatusConcluida
		v.Status = StatusConcluida
	}
	return nil
}

func (f *fakeVendaRepo) ListPagamentos(_ context.Context, vendaID string) ([]*Pagamento, error) {
	lista := append([]*Pagamento(nil), f.pagamentos[vendaID]...)
	if f.aoListarPagamentos != nil {
		hook := f.aoListarPagamentos
		f.aoListarPagamentos = nil
		hook()
	}
	return lista, nil
}

func (f *fakeVendaRepo) ListParcelas(_ context.Context, vendaID string) ([]*Parcela, error) {
	return f.parcelas[vendaID], nil
}

type fakeProdutoRepo struct {
	produtos map[string]*produto.Produto
}

func (f *fakeProdutoRepo) Create(_ context.Context, p *produto.Produto) error { return nil }

func (f *fakeProdutoRepo) FindByID(_ context.Context, id string) (*produto.Produto, error) {
	p, ok := f.produtos[id]
	if !ok {
		return nil, apperror.NotFound("produto não encontrado")
	}
	return p, nil
}

func (f *fakeProdutoRepo) FindByIDs(_ context.Context, ids []string) (map[string]*produto.Produto, error) {
	out := make(map[string]*produto.Produto)
	for _, id := range ids {
		if p, ok := f.produtos[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (f *fakeProdutoRepo) List(_ context.Context, limit, offset int) ([]*produto.Produto, error) {
	return nil, nil
}

func (f *fakeProdutoRepo) Update(_ context.Context, p *produto.Produto) error { return nil }

func (f *fakeProdutoRepo) Delete(_ context.Context, id string) error { return nil }

func (f *fakeProdutoRepo) RegistrarMovimentacao(_ context.Context, m *produto.Movimentacao, permitirNegativo bool) (*produto.Produto, error) {
	return nil, nil
}

func (f *fakeProdutoRepo) ListMovimentacoes(_ context.Context, produtoID string, limit, offset int) ([]*produto.Movimentacao, error) {
	return nil, nil
}

type fakeClienteRepo struct {
	ids map[string]bool
}

func (f *fakeClienteRepo) Create(_ context.Context, c *cliente.Cliente) error { return nil }

func (f *fakeClienteRepo) FindByID(_ context.Context, id string) (*cliente.Cliente, error) {
	if !f.ids[id] {
		return nil, apperror.NotFound("cliente não encontrado")
	}
	return &cliente.Cliente{ID: id}, nil
}

func (f *fakeClienteRepo) List(_ context.Context, limit, offset int) ([]*cliente.Cliente, error) {
	return nil, nil
}

func (f *fakeClienteRepo) Exists(_ context.Context, id string) (bool, error) {
	return f.ids[id], nil
}

type fakeCreditoRepo struct {
	creditos []*credito.Credito
	usos     []*credito.Uso
}

func (f *fakeCreditoRepo) Create(_ context.Context, c *credito.Credito) error {
	f.creditos = append(f.creditos, c)
	return nil
}

func (f *fakeCreditoRepo) Consumir(_ context.Context, u *credito.Uso) error {
	f.usos = append(f.usos, u)
	return nil
}

func (f *fakeCreditoRepo) ListByCliente(_ context.Context, clienteID string) ([]*credito.Credito, error) {
	return f.creditos, nil
}

func (f *fakeCreditoRepo) ListUsosByCliente(_ context.Context, clienteID string) ([]*credito.Uso, error) {
	return f.usos, nil
}

func (f *fakeCreditoRepo) SaldoDe(_ context.Context, clienteID string) (decimal.Decimal, error) {
	return credito.Saldo(f.creditos, f.usos, time.Now()), nil
}

type ambiente struct {
	svc      *Service
	vendas   *fakeVendaRepo
	produtos *fakeProdutoRepo
	creditos *fakeCreditoRepo
}

func novoAmbiente(t *testing.T, permitirSemEstoque bool) *ambiente {
	t.Helper()

	camiseta, err := produto.NovoProduto("Camiseta Básica", "M", dec("20.00"), dec("50.00"))
	if err != nil {
		t.Fatalf("NovoProduto: %v", err)
	}
	camiseta.ID = "p1"
	camiseta.Quantidade = 10

	calca, err := produto.NovoProduto("Calça Jeans", "40", dec("60.00"), dec("150.00"))
	if err != nil {
		t.Fatalf("NovoProduto: %v", err)
	}
	calca.ID = "p2"
	calca.Quantidade = 2

	vendas := newFakeVendaRepo()
	produtos := &fakeProdutoRepo{produtos: map[string]*produto.Produto{"p1": camiseta, "p2": calca}}
	clientes := &fakeClienteRepo{ids: map[string]bool{"c1": true}}
	creditos := &fakeCreditoRepo{}

	svc := NewService(vendas, produtos, clientes, credito.NewService(creditos, silentLogger{}), permitirSemEstoque, silentLogger{})
	return &ambiente{svc: svc, vendas: vendas, produtos: produtos, creditos: creditos}
}

func TestFinalizarAVistaNasceQuitada(t *testing.T) {
	// 2 camisetas de 50.00 com 10% de desconto: total 90.00, pago integral.
	env := novoAmbiente(t, false)

	v, err := env.svc.Finalizar(context.Background(), FinalizarInput{
		FormaPagamento:     FormaPix,
		DescontoPercentual: dec("10"),
		Itens:              []ItemDraft{{ProdutoID: "p1", Quantidade: 2}},
	})
	if err != nil {
		t.Fatalf("Finalizar: %v", err)
	}

	if v.Status != StatusConcluida {
		t.Fatalf("status esperado concluida, obtido %s", v.Status)
	}
	if !v.Total.Equal(dec("90.00")) {
		t.Fatalf("total esperado 90.00, obtido %s", v.Total)
	}

	pagamentos := env.vendas.pagamentos[v.ID]
	if len(pagamentos) != 1 || !pagamentos[0].Valor.Equal(dec("90.00")) {
		t.Fatalf("esperado um pagamento de 90.00, obtido %+v", pagamentos)
	}
	if len(env.vendas.movimentacoes) != 1 || env.vendas.movimentacoes[0].Delta != -2 {
		t.Fatalf("esperada uma saída de estoque de -2, obtido %+v", env.vendas.movimentacoes)
	}
}

func TestFinalizarCrediarioGeraParcelas(t *testing.T) {
	env := novoAmbiente(t, false)

	v, err := env.svc.Finalizar(context.Background(), FinalizarInput{
		ClienteID:          "c1",
		FormaPagamento:     FormaCrediario,
		QtdParcelas:        3,
		PrimeiroVencimento: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Itens:              []ItemDraft{{ProdutoID: "p2", Quantidade: 2}},
	})
	if err != nil {
		t.Fatalf("Finalizar: %v", err)
	}

	if v.Status != StatusPendente {
		t.Fatalf("crediário deveria nascer pendente, obtido %s", v.Status)
	}
	parcelas := env.vendas.parcelas[v.ID]
	if len(parcelas) != 3 {
		t.Fatalf("esperadas 3 parcelas, obtidas %d", len(parcelas))
	}
	for _, p := range parcelas {
		if !p.Valor.Equal(dec("100.00")) {
			t.Errorf("parcela %d: valor esperado 100.00, obtido %s", p.Numero, p.Valor)
		}
	}
	if len(env.vendas.pagamentos[v.ID]) != 0 {
		t.Fatal("crediário não deveria ter pagamento inicial")
	}
}

func TestFinalizarCrediarioSemCliente(t *testing.T) {
	env := novoAmbiente(t, false)

	_, err := env.svc.Finalizar(context.Background(), FinalizarInput{
		FormaPagamento:     FormaCrediario,
		QtdParcelas:        2,
		PrimeiroVencimento: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Itens:              []ItemDraft{{ProdutoID: "p1", Quantidade: 1}},
	})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("esperado erro de validação, obtido %v", err)
	}
	if len(env.vendas.vendas) != 0 {
		t.Fatal("nenhuma venda deveria ter sido gravada")
	}
}

func TestFinalizarEstoqueInsuficiente(t *testing.T) {
	env := novoAmbiente(t, false)

	// p2 tem 2 unidades em estoque.
	_, err := env.svc.Finalizar(context.Background(), FinalizarInput{
		FormaPagamento: FormaDinheiro,
		Itens:          []ItemDraft{{ProdutoID: "p2", Quantidade: 5}},
	})
	if !errors.Is(err, apperror.ErrInsufficientStock) {
		t.Fatalf("esperado estoque insuficiente, obtido %v", err)
	}
	if len(env.vendas.vendas) != 0 || len(env.vendas.movimentacoes) != 0 {
		t.Fatal("nada deveria ter sido gravado")
	}
}

func TestFinalizarComPoliticaDeVendaSemEstoque(t *testing.T) {
	env := novoAmbiente(t, true)

	v, err := env.svc.Finalizar(context.Background(), FinalizarInput{
		FormaPagamento: FormaDinheiro,
		Itens:          []ItemDraft{{ProdutoID: "p2", Quantidade: 5}},
	})
	if err != nil {
		t.Fatalf("política deveria liberar a venda: %v", err)
	}
	if v.Status != StatusConcluida {
		t.Fatalf("status esperado concluida, obtido %s", v.Status)
	}
}

func TestFinalizarAbatendoCredito(t *testing.T) {
	env := novoAmbiente(t, false)
	env.creditos.creditos = []*credito.Credito{
		{ClienteID: "c1", Valor: dec("40.00"), CriadoEm: time.Now()},
	}

	// 2 camisetas de 50.00 = 100.00; 40.00 de crédito, resto 60.00 à vista.
	v, err := env.svc.Finalizar(context.Background(), FinalizarInput{
		ClienteID:      "c1",
		FormaPagamento: FormaDinheiro,
		ValorCredito:   dec("40.00"),
		Itens:          []ItemDraft{{ProdutoID: "p1", Quantidade: 2}},
	})
	if err != nil {
		t.Fatalf("Finalizar: %v", err)
	}

	if len(env.vendas.usosCredito) != 1 || !env.vendas.usosCredito[0].Valor.Equal(dec("40.00")) {
		t.Fatalf("esperado um uso de crédito de 40.00, obtido %+v", env.vendas.usosCredito)
	}
	pagamentos := env.vendas.pagamentos[v.ID]
	if len(pagamentos) != 1 || !pagamentos[0].Valor.Equal(dec("60.00")) {
		t.Fatalf("esperado pagamento restante de 60.00, obtido %+v", pagamentos)
	}
}

func TestFinalizarCreditoAcimaDoSaldo(t *testing.T) {
	env := novoAmbiente(t, false)
	env.creditos.creditos = []*credito.Credito{
		{ClienteID: "c1", Valor: dec("10.00"), CriadoEm: time.Now()},
	}

	_, err := env.svc.Finalizar(context.Background(), FinalizarInput{
		ClienteID:      "c1",
		FormaPagamento: FormaDinheiro,
		ValorCredito:   dec("40.00"),
		Itens:          []ItemDraft{{ProdutoID: "p1", Quantidade: 2}},
	})
	if !errors.Is(err, apperror.ErrInsufficientCredit) {
		t.Fatalf("esperado crédito insuficiente, obtido %v", err)
	}
}

func TestCancelarDevolveEstoque(t *testing.T) {
	env := novoAmbiente(t, false)

	v, err := env.svc.Finalizar(context.Background(), FinalizarInput{
		FormaPagamento: FormaDinheiro,
		Itens:          []ItemDraft{{ProdutoID: "p1", Quantidade: 3}},
	})
	if err != nil {
		t.Fatalf("Finalizar: %v", err)
	}

	cancelada, err := env.svc.Cancelar(context.Background(), v.ID, "cliente desistiu")
	if err != nil {
		t.Fatalf("Cancelar: %v", err)
	}
	if cancelada.Status != StatusCancelada {
		t.Fatalf("status esperado cancelada, obtido %s", cancelada.Status)
	}

	// Saída de -3 na venda mais entrada de +3 no cancelamento.
	var entrada *produto.Movimentacao
	for _, m := range env.vendas.movimentacoes {
		if m.Tipo == produto.MovimentacaoEntrada {
			entrada = m
		}
	}
	if entrada == nil || entrada.Delta != 3 {
		t.Fatalf("esperada entrada compensatória de +3, obtido %+v", entrada)
	}

	if _, err := env.svc.Cancelar(context.Background(), v.ID, "de novo"); !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("segundo cancelamento deveria conflitar, obtido %v", err)
	}
}

func TestRegistrarPagamentoAcimaDoSaldo(t *testing.T) {
	env := novoAmbiente(t, false)

	v, err := env.svc.Finalizar(context.Background(), FinalizarInput{
		ClienteID:          "c1",
		FormaPagamento:     FormaCrediario,
		QtdParcelas:        2,
		PrimeiroVencimento: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Itens:              []ItemDraft{{ProdutoID: "p1", Quantidade: 2}},
	})
	if err != nil {
		t.Fatalf("Finalizar: %v", err)
	}

	_, err = env.svc.RegistrarPagamento(context.Background(), v.ID, PagamentoInput{Valor: dec("150.00")})
	if !errors.Is(err, apperror.ErrOverpayment) {
		t.Fatalf("esperado pagamento em excesso, obtido %v", err)
	}
}

func TestRegistrarPagamentoBaixaParcelaMaisAntiga(t *testing.T) {
	env := novoAmbiente(t, false)

	// Crediário de 100.00 em 2x de 50.00.
	v, err := env.svc.Finalizar(context.Background(), FinalizarInput{
		ClienteID:          "c1",
		FormaPagamento:     FormaCrediario,
		QtdParcelas:        2,
		PrimeiroVencimento: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Itens:              []ItemDraft{{ProdutoID: "p1", Quantidade: 2}},
	})
	if err != nil {
		t.Fatalf("Finalizar: %v", err)
	}

	if _, err := env.svc.RegistrarPagamento(context.Background(), v.ID, PagamentoInput{Valor: dec("50.00")}); err != nil {
		t.Fatalf("RegistrarPagamento: %v", err)
	}

	parcelas := env.vendas.parcelas[v.ID]
	if parcelas[0].Status != ParcelaPaga {
		t.Fatalf("parcela 1 deveria estar paga, obtido %s", parcelas[0].Status)
	}
	if parcelas[1].Status != ParcelaPendente {
		t.Fatalf("parcela 2 deveria seguir pendente, obtido %s", parcelas[1].Status)
	}
	if env.vendas.vendas[v.ID].Status != StatusPendente {
		t.Fatal("venda com saldo devedor não deveria concluir")
	}

	// Quita a segunda parcela e a venda conclui.
	if _, err := env.svc.RegistrarPagamento(context.Background(), v.ID, PagamentoInput{Valor: dec("50.00")}); err != nil {
		t.Fatalf("RegistrarPagamento: %v", err)
	}
	if env.vendas.vendas[v.ID].Status != StatusConcluida {
		t.Fatalf("venda quitada deveria concluir, obtido %s", env.vendas.vendas[v.ID].Status)
	}
	if parcelas[1].Status != ParcelaPaga {
		t.Fatalf("parcela 2 deveria estar paga, obtido %s", parcelas[1].Status)
	}
}

func TestRegistrarPagamentoParcial(t *testing.T) {
	env := novoAmbiente(t, false)

	v, err := env.svc.Finalizar(context.Background(), FinalizarInput{
		ClienteID:          "c1",
		FormaPagamento:     FormaCrediario,
		QtdParcelas:        2,
		PrimeiroVencimento: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Itens:              []ItemDraft{{ProdutoID: "p1", Quantidade: 2}},
	})
	if err != nil {
		t.Fatalf("Finalizar: %v", err)
	}

	// 20.00 não cobre a parcela de 50.00: abate o saldo, parcela segue pendente.
	if _, err := env.svc.RegistrarPagamento(context.Background(), v.ID, PagamentoInput{Valor: dec("20.00")}); err != nil {
		t.Fatalf("RegistrarPagamento: %v", err)
	}

	parcelas := env.vendas.parcelas[v.ID]
	if parcelas[0].Status != ParcelaPendente {
		t.Fatalf("parcela 1 deveria seguir pendente, obtido %s", parcelas[0].Status)
	}
}

func TestRegistrarPagamentoConcorrenteConcluiVenda(t *testing.T) {
	env := novoAmbiente(t, false)

	// Crediário de 300.00 em 3x de 100.00.
	v, err := env.svc.Finalizar(context.Background(), FinalizarInput{
		ClienteID:          "c1",
		FormaPagamento:     FormaCrediario,
		QtdParcelas:        3,
		PrimeiroVencimento: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Itens:              []ItemDraft{{ProdutoID: "p2", Quantidade: 2}},
	})
	if err != nil {
		t.Fatalf("Finalizar: %v", err)
	}

	// Um pagamento de 200.00 entra entre a leitura do saldo e a transação.
	env.vendas.aoListarPagamentos = func() {
		concorrente, err := NovoPagamento(v.ID, dec("200.00"), FormaPix, "caixa2", "")
		if err != nil {
			t.Fatalf("NovoPagamento: %v", err)
		}
		env.vendas.pagamentos[v.ID] = append(env.vendas.pagamentos[v.ID], concorrente)
	}

	if _, err := env.svc.RegistrarPagamento(context.Background(), v.ID, PagamentoInput{Valor: dec("100.00")}); err != nil {
		t.Fatalf("RegistrarPagamento: %v", err)
	}

	// 200 + 100 = 300: a venda quitada não pode ficar pendente.
	if env.vendas.vendas[v.ID].Status != StatusConcluida {
		t.Fatalf("venda quitada deveria concluir, obtido %s", env.vendas.vendas[v.ID].Status)
	}
}

func TestRegistrarPagamentoParcialEmParcelaEspecifica(t *testing.T) {
	env := novoAmbiente(t, false)

	v, err := env.svc.Finalizar(context.Background(), FinalizarInput{
		ClienteID:          "c1",
		FormaPagamento:     FormaCrediario,
		QtdParcelas:        2,
		PrimeiroVencimento: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Itens:              []ItemDraft{{ProdutoID: "p1", Quantidade: 2}},
	})
	if err != nil {
		t.Fatalf("Finalizar: %v", err)
	}

	// 20.00 não cobre a parcela de 50.00 mirada explicitamente.
	parcelaID := env.vendas.parcelas[v.ID][0].ID
	_, err = env.svc.RegistrarPagamento(context.Background(), v.ID, PagamentoInput{
		Valor:     dec("20.00"),
		ParcelaID: parcelaID,
	})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("esperado erro de validação, obtido %v", err)
	}
	if len(env.vendas.pagamentos[v.ID]) != 0 {
		t.Fatal("nenhum pagamento deveria ter sido gravado")
	}
}

func TestRegistrarPagamentoEmVendaCancelada(t *testing.T) {
	env := novoAmbiente(t, false)

	v, err := env.svc.Finalizar(context.Background(), FinalizarInput{
		ClienteID:          "c1",
		FormaPagamento:     FormaCrediario,
		QtdParcelas:        1,
		PrimeiroVencimento: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Itens:              []ItemDraft{{ProdutoID: "p1", Quantidade: 1}},
	})
	if err != nil {
		t.Fatalf("Finalizar: %v", err)
	}
	if _, err := env.svc.Cancelar(context.Background(), v.ID, "defeito"); err != nil {
		t.Fatalf("Cancelar: %v", err)
	}

	_, err = env.svc.RegistrarPagamento(context.Background(), v.ID, PagamentoInput{Valor: dec("10.00")})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("esperado conflito, obtido %v", err)
	}
}
