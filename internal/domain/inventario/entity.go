package inventario

import (
	"time"

	"github.com/google/uuid"

	"github.com/vmachado/erp-vestuario/pkg/apperror"
)

// Status representa o estado de uma sessão de inventário
type Status string

const (
	StatusEmAndamento Status = "em_andamento"
	StatusConcluida   Status = "concluida"
	StatusCancelada   Status = "cancelada"
)

// Sessao é uma sessão de contagem física do estoque. Só pode existir uma
// sessão em andamento por vez.
type Sessao struct {
	ID           string      `json:"id"`
	Status       Status      `json:"status"`
	Observacoes  string      `json:"observacoes,omitempty"`
	Itens        []*Contagem `json:"itens,omitempty"`
	Operador     string      `json:"operador"`
	CriadoEm     time.Time   `json:"criado_em"`
	FinalizadaEm *time.Time  `json:"finalizada_em,omitempty"`
}

// Contagem registra a quantidade física encontrada para um produto durante
// a sessão; a quantidade de sistema é congelada no momento da contagem.
type Contagem struct {
	ID                string    `json:"id"`
	SessaoID          string    `json:"sessao_id"`
	ProdutoID         string    `json:"produto_id"`
	QuantidadeSistema int       `json:"quantidade_sistema"`
	QuantidadeFisica  int       `json:"quantidade_fisica"`
	Observacao        string    `json:"observacao,omitempty"`
	Operador          string    `json:"operador"`
	ContadoEm         time.Time `json:"contado_em"`
}

// NovaSessao cria uma sessão de inventário em andamento
func NovaSessao(observacoes, operador string) *Sessao {
	return &Sessao{
		ID:          uuid.New().String(),
		Status:      StatusEmAndamento,
		Observacoes: observacoes,
		Operador:    operador,
		CriadoEm:    time.Now(),
	}
}

// NovaContagem cria uma contagem validada para a sessão
func NovaContagem(sessaoID, produtoID string, quantidadeSistema, quantidadeFisica int, observacao, operador string) (*Contagem, error) {
	if sessaoID == "" {
		return nil, apperror.Validation("sessão não informada")
	}
	if produtoID == "" {
		return nil, apperror.Validation("produto não informado")
	}
	if quantidadeFisica < 0 {
		return nil, apperror.Validation("quantidade física não pode ser negativa")
	}

	return &Contagem{
		ID:                uuid.New().String(),
		SessaoID:          sessaoID,
		ProdutoID:         produtoID,
		QuantidadeSistema: quantidadeSistema,
		QuantidadeFisica:  quantidadeFisica,
		Observacao:        observacao,
		Operador:          operador,
		ContadoEm:         time.Now(),
	}, nil
}

// Delta é a diferença entre o contado e o registrado: positivo quando a
// prateleira tem mais do que o sistema, negativo quando tem menos
func (c *Contagem) Delta() int {
	return c.QuantidadeFisica - c.QuantidadeSistema
}

// Finalizar encerra a sessão como concluída
func (s *Sessao) Finalizar() error {
	if s.Status != StatusEmAndamento {
		return apperror.Conflict("sessão de inventário já foi encerrada")
	}
	now := time.Now()
	s.Status = StatusConcluida
	s.FinalizadaEm = &now
	return nil
}

// Cancelar encerra a sessão sem gerar ajustes
func (s *Sessao) Cancelar() error {
	if s.Status != StatusEmAndamento {
		return apperror.Conflict("sessão de inventário já foi encerrada")
	}
	now := time.Now()
	s.Status = StatusCancelada
	s.FinalizadaEm = &now
	return nil
}
