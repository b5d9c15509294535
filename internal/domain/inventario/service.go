package inventario

import (
	"context"
	"fmt"

	"github.com/vmachado/erp-vestuario/internal/domain/produto"
	"github.com/vmachado/erp-vestuario/pkg/apperror"
	"github.com/vmachado/erp-vestuario/pkg/logger"
	"github.com/vmachado/erp-vestuario/pkg/operador"
)

// ContagemInput é a contagem de um produto como chega da tela de inventário
type ContagemInput struct {
	ProdutoID        string
	QuantidadeFisica int
	Observacao       string
}

// Service orquestra o ciclo de vida das sessões de inventário
type Service struct {
	repo     Repository
	produtos produto.Repository
	logger   logger.Logger
}

// NewService cria uma nova instância de Service
func NewService(repo Repository, produtos produto.Repository, logger logger.Logger) *Service {
	return &Service{repo: repo, produtos: produtos, logger: logger}
}

// Iniciar abre uma sessão de inventário. Só uma sessão pode estar em
// andamento; tentar abrir outra falha com conflito.
func (s *Service) Iniciar(ctx context.Context, observacoes string) (*Sessao, error) {
	aberta, err := s.repo.FindAberta(ctx)
	if err != nil {
		return nil, err
	}
	if aberta != nil {
		return nil, apperror.Conflict("já existe uma sessão de inventário em andamento").
			WithSolution("finalize ou cancele a sessão aberta antes de iniciar outra")
	}

	sessao := NovaSessao(observacoes, operador.GetOperador(ctx))
	if err := s.repo.Create(ctx, sessao); err != nil {
		return nil, err
	}

	s.logger.Info("sessão de inventário iniciada", "sessao_id", sessao.ID, "operador", sessao.Operador)
	return sessao, nil
}

// SalvarContagens grava um lote de contagens na sessão. Contar o mesmo
// produto de novo substitui a contagem anterior; a quantidade de sistema é
// congelada no momento da contagem.
func (s *Service) SalvarContagens(ctx context.Context, sessaoID string, itens []ContagemInput) (*Sessao, error) {
	if len(itens) == 0 {
		return nil, apperror.Validation("nenhuma contagem informada")
	}

	sessao, err := s.repo.FindByID(ctx, sessaoID)
	if err != nil {
		return nil, err
	}
	if sessao.Status != StatusEmAndamento {
		return nil, apperror.Conflict("sessão de inventário já foi encerrada")
	}

	oper := operador.GetOperador(ctx)
	for _, in := range itens {
		p, err := s.produtos.FindByID(ctx, in.ProdutoID)
		if err != nil {
			return nil, err
		}
		c, err := NovaContagem(sessaoID, p.ID, p.Quantidade, in.QuantidadeFisica, in.Observacao, oper)
		if err != nil {
			return nil, err
		}
		if err := s.repo.SalvarContagem(ctx, c); err != nil {
			return nil, err
		}
	}

	s.logger.Info("contagens salvas", "sessao_id", sessaoID, "itens", len(itens))
	return s.repo.FindByID(ctx, sessaoID)
}

// Finalizar encerra a sessão aplicando um ajuste de estoque para cada
// contagem divergente: o delta é a quantidade física menos a de sistema
func (s *Service) Finalizar(ctx context.Context, sessaoID string) (*Sessao, error) {
	sessao, err := s.repo.FindByID(ctx, sessaoID)
	if err != nil {
		return nil, err
	}
	if err := sessao.Finalizar(); err != nil {
		return nil, err
	}

	oper := operador.GetOperador(ctx)
	var movimentacoes []*produto.Movimentacao
	for _, c := range sessao.Itens {
		if c.Delta() == 0 {
			continue
		}
		m, err := produto.NovaMovimentacao(c.ProdutoID, c.Delta(), produto.MovimentacaoAjuste,
			fmt.Sprintf("inventário %s", sessao.ID), oper)
		if err != nil {
			return nil, err
		}
		movimentacoes = append(movimentacoes, m)
	}

	if err := s.repo.Finalizar(ctx, sessao, movimentacoes); err != nil {
		return nil, err
	}

	s.logger.Info("sessão de inventário finalizada",
		"sessao_id", sessao.ID, "ajustes", len(movimentacoes), "operador", oper)
	return sessao, nil
}

// Cancelar encerra a sessão descartando as contagens, sem mexer no estoque
func (s *Service) Cancelar(ctx context.Context, sessaoID string) (*Sessao, error) {
	sessao, err := s.repo.FindByID(ctx, sessaoID)
	if err != nil {
		return nil, err
	}
	if err := sessao.Cancelar(); err != nil {
		return nil, err
	}

	if err := s.repo.Cancelar(ctx, sessao); err != nil {
		return nil, err
	}

	s.logger.Info("sessão de inventário cancelada", "sessao_id", sessao.ID)
	return sessao, nil
}

// Aberta retorna a sessão em andamento com suas contagens
func (s *Service) Aberta(ctx context.Context) (*Sessao, error) {
	aberta, err := s.repo.FindAberta(ctx)
	if err != nil {
		return nil, err
	}
	if aberta == nil {
		return nil, apperror.NotFound("nenhuma sessão de inventário em andamento")
	}
	return s.repo.FindByID(ctx, aberta.ID)
}

// Buscar retorna uma sessão pelo ID
func (s *Service) Buscar(ctx context.Context, id string) (*Sessao, error) {
	return s.repo.FindByID(ctx, id)
}

// Listar lista as sessões com paginação
func (s *Service) Listar(ctx context.Context, limit, offset int) ([]*Sessao, error) {
	return s.repo.List(ctx, limit, offset)
}
