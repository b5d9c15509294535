package credito

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vmachado/erp-vestuario/pkg/apperror"
	"github.com/vmachado/erp-vestuario/pkg/logger"
)

// Service implementa as operações do razão de créditos de clientes
type Service struct {
	repo   Repository
	logger logger.Logger
}

// NewService cria uma nova instância de Service
func NewService(repo Repository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// SaldoDe retorna o saldo disponível do cliente: créditos vigentes menos
// usos, nunca negativo por construção
func (s *Service) SaldoDe(ctx context.Context, clienteID string) (decimal.Decimal, error) {
	if clienteID == "" {
		return decimal.Zero, apperror.Validation("cliente não informado")
	}
	return s.repo.SaldoDe(ctx, clienteID)
}

// Extrato retorna créditos e usos do cliente para a tela de créditos
func (s *Service) Extrato(ctx context.Context, clienteID string) ([]*Credito, []*Uso, error) {
	if clienteID == "" {
		return nil, nil, apperror.Validation("cliente não informado")
	}

	creditos, err := s.repo.ListByCliente(ctx, clienteID)
	if err != nil {
		return nil, nil, err
	}
	usos, err := s.repo.ListUsosByCliente(ctx, clienteID)
	if err != nil {
		return nil, nil, err
	}
	return creditos, usos, nil
}

// Consumir abate crédito do cliente em favor de uma venda
func (s *Service) Consumir(ctx context.Context, clienteID string, valor decimal.Decimal, vendaID string) (*Uso, error) {
	uso, err := NovoUso(clienteID, vendaID, valor)
	if err != nil {
		return nil, err
	}

	saldo, err := s.repo.SaldoDe(ctx, clienteID)
	if err != nil {
		return nil, err
	}
	if valor.GreaterThan(saldo) {
		return nil, apperror.InsufficientCredit(
			fmt.Sprintf("crédito insuficiente: disponível %s, solicitado %s", saldo.StringFixed(2), valor.StringFixed(2))).
			WithSolution("consulte o saldo de créditos do cliente antes de abater")
	}

	if err := s.repo.Consumir(ctx, uso); err != nil {
		return nil, err
	}

	s.logger.Info("crédito consumido", "cliente_id", clienteID, "venda_id", vendaID, "valor", valor.StringFixed(2))
	return uso, nil
}

// ConcederManual registra um crédito de origem manual para o cliente
func (s *Service) ConcederManual(ctx context.Context, clienteID string, valor decimal.Decimal, expiraEm *time.Time) (*Credito, error) {
	if expiraEm != nil && !expiraEm.After(time.Now()) {
		return nil, apperror.Validation("data de expiração do crédito deve ser futura")
	}

	c, err := NovoCredito(clienteID, valor, OrigemManual, expiraEm)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("crédito manual concedido", "cliente_id", clienteID, "valor", valor.StringFixed(2))
	return c, nil
}
