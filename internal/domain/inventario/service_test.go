package inventario

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vmachado/erp-vestuario/internal/domain/produto"
	"github.com/vmachado/erp-vestuario/pkg/apperror"
)

type silentLogger struct{}

func (silentLogger) Info(string, ...interface{})  {}
func (silentLogger) Error(string, ...interface{}) {}
func (silentLogger) Debug(string, ...interface{}) {}
func (silentLogger) Warn(string, ...interface{})  {}

type fakeRepo struct {
	sessoes       map[string]*Sessao
	movimentacoes []*produto.Movimentacao
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{sessoes: make(map[string]*Sessao)}
}

func (f *fakeRepo) Create(_ context.Context, s *Sessao) error {
	for _, existente := range f.sessoes {
		if existente.Status == StatusEmAndamento {
			return apperror.Conflict("já existe uma sessão de inventário em andamento")
		}
	}
	f.sessoes[s.ID] = s
	return nil
}

func (f *fakeRepo) FindByID(_ context.Context, id string) (*Sessao, error) {
	s, ok := f.sessoes[id]
	if !ok {
		return nil, apperror.NotFound("sessão de inventário não encontrada")
	}
	return s, nil
}

func (f *fakeRepo) FindAberta(_ context.Context) (*Sessao, error) {
	for _, s := range f.sessoes {
		if s.Status == StatusEmAndamento {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) List(_ context.Context, limit, offset int) ([]*Sessao, error) {
	out := make([]*Sessao, 0, len(f.sessoes))
	for _, s := range f.sessoes {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeRepo) SalvarContagem(_ context.Context, c *Contagem) error {
	sessao := f.sessoes[c.SessaoID]
	for i, existente := range sessao.Itens {
		if existente.ProdutoID == c.ProdutoID {
			sessao.Itens[i] = c
			return nil
		}
	}
	sessao.Itens = append(sessao.Itens, c)
	return nil
}

func (f *fakeRepo) Finalizar(_ context.Context, s *Sessao, movimentacoes []*produto.Movimentacao) error {
	f.sessoes[s.ID] = s
	f.movimentacoes = append(f.movimentacoes, movimentacoes...)
	return nil
}

func (f *fakeRepo) Cancelar(_ context.Context, s *Sessao) error {
	f.sessoes[s.ID] = s
	return nil
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
	return nil, nil
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

func novoAmbiente(t *testing.T) (*Service, *fakeRepo) {
	t.Helper()

	camiseta, err := produto.NovoProduto("Camiseta Básica", "M", decimal.NewFromInt(20), decimal.NewFromInt(50))
	if err != nil {
		t.Fatalf("NovoProduto: %v", err)
	}
	camiseta.ID = "p1"
	camiseta.Quantidade = 10

	calca, err := produto.NovoProduto("Calça Jeans", "40", decimal.NewFromInt(60), decimal.NewFromInt(150))
	if err != nil {
		t.Fatalf("NovoProduto: %v", err)
	}
	calca.ID = "p2"
	calca.Quantidade = 4

	repo := newFakeRepo()
	produtos := &fakeProdutoRepo{produtos: map[string]*produto.Produto{"p1": camiseta, "p2": calca}}
	return NewService(repo, produtos, silentLogger{}), repo
}

func TestIniciarSessaoUnica(t *testing.T) {
	svc, _ := novoAmbiente(t)

	sessao, err := svc.Iniciar(context.Background(), "contagem mensal")
	if err != nil {
		t.Fatalf("Iniciar: %v", err)
	}
	if sessao.Status != StatusEmAndamento {
		t.Fatalf("status esperado em_andamento, obtido %s", sessao.Status)
	}

	if _, err := svc.Iniciar(context.Background(), "outra"); !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("segunda sessão deveria conflitar, obtido %v", err)
	}
}

func TestIniciarAposEncerrar(t *testing.T) {
	svc, _ := novoAmbiente(t)

	sessao, err := svc.Iniciar(context.Background(), "")
	if err != nil {
		t.Fatalf("Iniciar: %v", err)
	}
	if _, err := svc.Cancelar(context.Background(), sessao.ID); err != nil {
		t.Fatalf("Cancelar: %v", err)
	}

	if _, err := svc.Iniciar(context.Background(), ""); err != nil {
		t.Fatalf("nova sessão após cancelamento deveria abrir: %v", err)
	}
}

func TestSalvarContagemSubstituiAnterior(t *testing.T) {
	svc, repo := novoAmbiente(t)

	sessao, err := svc.Iniciar(context.Background(), "")
	if err != nil {
		t.Fatalf("Iniciar: %v", err)
	}

	if _, err := svc.SalvarContagens(context.Background(), sessao.ID, []ContagemInput{
		{ProdutoID: "p1", QuantidadeFisica: 8, Observacao: "prateleira bagunçada"},
	}); err != nil {
		t.Fatalf("SalvarContagens: %v", err)
	}

	// Recontagem do mesmo produto substitui a anterior, observação junto.
	atual, err := svc.SalvarContagens(context.Background(), sessao.ID, []ContagemInput{
		{ProdutoID: "p1", QuantidadeFisica: 9, Observacao: "uma peça no provador"},
	})
	if err != nil {
		t.Fatalf("SalvarContagens: %v", err)
	}

	if len(atual.Itens) != 1 {
		t.Fatalf("esperada uma contagem, obtidas %d", len(atual.Itens))
	}
	c := repo.sessoes[sessao.ID].Itens[0]
	if c.QuantidadeFisica != 9 || c.QuantidadeSistema != 10 {
		t.Fatalf("contagem inesperada: física %d, sistema %d", c.QuantidadeFisica, c.QuantidadeSistema)
	}
	if c.Observacao != "uma peça no provador" {
		t.Fatalf("observação inesperada: %s", c.Observacao)
	}
}

func TestFinalizarAplicaAjustes(t *testing.T) {
	svc, repo := novoAmbiente(t)

	sessao, err := svc.Iniciar(context.Background(), "")
	if err != nil {
		t.Fatalf("Iniciar: %v", err)
	}

	// p1: sistema 10, física 8 → ajuste -2. p2: sistema 4, física 4 → nada.
	if _, err := svc.SalvarContagens(context.Background(), sessao.ID, []ContagemInput{
		{ProdutoID: "p1", QuantidadeFisica: 8},
		{ProdutoID: "p2", QuantidadeFisica: 4},
	}); err != nil {
		t.Fatalf("SalvarContagens: %v", err)
	}

	finalizada, err := svc.Finalizar(context.Background(), sessao.ID)
	if err != nil {
		t.Fatalf("Finalizar: %v", err)
	}
	if finalizada.Status != StatusConcluida {
		t.Fatalf("status esperado concluida, obtido %s", finalizada.Status)
	}

	if len(repo.movimentacoes) != 1 {
		t.Fatalf("esperado um ajuste, obtidos %d", len(repo.movimentacoes))
	}
	m := repo.movimentacoes[0]
	if m.ProdutoID != "p1" || m.Delta != -2 || m.Tipo != produto.MovimentacaoAjuste {
		t.Fatalf("ajuste inesperado: %+v", m)
	}
}

func TestFinalizarSessaoEncerradaConflita(t *testing.T) {
	svc, _ := novoAmbiente(t)

	sessao, err := svc.Iniciar(context.Background(), "")
	if err != nil {
		t.Fatalf("Iniciar: %v", err)
	}
	if _, err := svc.Finalizar(context.Background(), sessao.ID); err != nil {
		t.Fatalf("Finalizar: %v", err)
	}

	if _, err := svc.Finalizar(context.Background(), sessao.ID); !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("segunda finalização deveria conflitar, obtido %v", err)
	}
	if _, err := svc.Cancelar(context.Background(), sessao.ID); !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("cancelar sessão concluída deveria conflitar, obtido %v", err)
	}
}

func TestCancelarNaoGeraAjustes(t *testing.T) {
	svc, repo := novoAmbiente(t)

	sessao, err := svc.Iniciar(context.Background(), "")
	if err != nil {
		t.Fatalf("Iniciar: %v", err)
	}
	if _, err := svc.SalvarContagens(context.Background(), sessao.ID, []ContagemInput{
		{ProdutoID: "p1", QuantidadeFisica: 0},
	}); err != nil {
		t.Fatalf("SalvarContagens: %v", err)
	}

	cancelada, err := svc.Cancelar(context.Background(), sessao.ID)
	if err != nil {
		t.Fatalf("Cancelar: %v", err)
	}
	if cancelada.Status != StatusCancelada {
		t.Fatalf("status esperado cancelada, obtido %s", cancelada.Status)
	}
	if len(repo.movimentacoes) != 0 {
		t.Fatal("cancelamento não deveria gerar ajustes")
	}
}

func TestSalvarContagemEmSessaoEncerrada(t *testing.T) {
	svc, _ := novoAmbiente(t)

	sessao, err := svc.Iniciar(context.Background(), "")
	if err != nil {
		t.Fatalf("Iniciar: %v", err)
	}
	if _, err := svc.Cancelar(context.Background(), sessao.ID); err != nil {
		t.Fatalf("Cancelar: %v", err)
	}

	_, err = svc.SalvarContagens(context.Background(), sessao.ID, []ContagemInput{
		{ProdutoID: "p1", QuantidadeFisica: 5},
	})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("esperado conflito, obtido %v", err)
	}
}
