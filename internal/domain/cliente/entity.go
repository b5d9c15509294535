package cliente

import (
	"time"

	"github.com/google/uuid"

	"github.com/vmachado/erp-vestuario/pkg/apperror"
)

// Cliente representa um cliente da loja. O cadastro completo (endereços,
// contatos) fica na camada externa; o núcleo só precisa da identidade para
// crediário e créditos de devolução.
type Cliente struct {
	ID           string    `json:"id"`
	Nome         string    `json:"nome"`
	Documento    string    `json:"documento"`
	Telefone     string    `json:"telefone"`
	Ativo        bool      `json:"ativo"`
	CriadoEm     time.Time `json:"criado_em"`
	AtualizadoEm time.Time `json:"atualizado_em"`
}

// NovoCliente cria um novo cliente
func NovoCliente(nome, documento, telefone string) (*Cliente, error) {
	if nome == "" {
		return nil, apperror.Validation("nome do cliente não pode ser vazio")
	}

	now := time.Now()
	return &Cliente{
		ID:           uuid.New().String(),
		Nome:         nome,
		Documento:    documento,
		Telefone:     telefone,
		Ativo:        true,
		CriadoEm:     now,
		AtualizadoEm: now,
	}, nil
}
