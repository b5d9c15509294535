package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/vmachado/erp-vestuario/internal/domain/credito"
	"github.com/vmachado/erp-vestuario/internal/infrastructure/database"
)

// PostgresCreditoRepository implementa a interface credito.Repository usando PostgreSQL
type PostgresCreditoRepository struct {
	db *database.PostgresDB
}

// NewPostgresCreditoRepository cria uma nova instância de PostgresCreditoRepository
func NewPostgresCreditoRepository(db *database.PostgresDB) *PostgresCreditoRepository {
	return &PostgresCreditoRepository{db: db}
}

// Create implementa credito.Repository.Create
func (r *PostgresCreditoRepository) Create(ctx context.Context, c *credito.Credito) error {
	conn, err := r.db.GetConnection(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
		INSERT INTO creditos (id, cliente_id, valor, origem, criado_em, expira_em)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, c.ID, c.ClienteID, c.Valor, string(c.Origem), c.CriadoEm, c.ExpiraEm)
	if err != nil {
		return fmt.Errorf("falha ao inserir crédito: %w", err)
	}
	return nil
}

// Consumir implementa credito.Repository.Consumir
func (r *PostgresCreditoRepository) Consumir(ctx context.Context, u *credito.Uso) error {
	return r.db.Transaction(ctx, func(tx pgx.Tx) error {
		return consumirCredito(ctx, tx, u)
	})
}

// ListByCliente implementa credito.Repository.ListByCliente
func (r *PostgresCreditoRepository) ListByCliente(ctx context.Context, clienteID string) ([]*credito.Credito, error) {
	conn, err := r.db.GetConnection(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
		SELECT id, cliente_id, valor, origem, criado_em, expira_em
		FROM creditos
		WHERE cliente_id = $1
		ORDER BY criado_em DESC
	`, clienteID)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar créditos: %w", err)
	}
	defer rows.Close()

	var creditos []*credito.Credito
	for rows.Next() {
		c := &credito.Credito{}
		var origem string
		if err := rows.Scan(&c.ID, &c.ClienteID, &c.Valor, &origem, &c.CriadoEm, &c.ExpiraEm); err != nil {
			return nil, fmt.Errorf("falha ao ler crédito: %w", err)
		}
		c.Origem = credito.Origem(origem)
		creditos = append(creditos, c)
	}
	return creditos, rows.Err()
}

// ListUsosByCliente implementa credito.Repository.ListUsosByCliente
func (r *PostgresCreditoRepository) ListUsosByCliente(ctx context.Context, clienteID string) ([]*credito.Uso, error) {
	conn, err := r.db.GetConnection(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
		SELECT id, cliente_id, venda_id, valor, criado_em
		FROM usos_credito
		WHERE cliente_id = $1
		ORDER BY criado_em DESC
	`, clienteID)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar usos de crédito: %w", err)
	}
	defer rows.Close()

	var usos []*credito.Uso
	for rows.Next() {
		u := &credito.Uso{}
		if err := rows.Scan(&u.ID, &u.ClienteID, &u.VendaID, &u.Valor, &u.CriadoEm); err != nil {
			return nil, fmt.Errorf("falha ao ler uso de crédito: %w", err)
		}
		usos = append(usos, u)
	}
	return usos, rows.Err()
}

// SaldoDe implementa credito.Repository.SaldoDe
func (r *PostgresCreditoRepository) SaldoDe(ctx context.Context, clienteID string) (decimal.Decimal, error) {
	conn, err := r.db.GetConnection(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	defer conn.Release()

	var saldo decimal.Decimal
	err = conn.QueryRow(ctx, `
		SELECT COALESCE((SELECT SUM(valor) FROM creditos WHERE cliente_id = $1 AND (expira_em IS NULL OR expira_em > NOW())), 0)
		     - COALESCE((SELECT SUM(valor) FROM usos_credito WHERE cliente_id = $1), 0)
	`, clienteID).Scan(&saldo)
	if err != nil {
		return decimal.Zero, fmt.Errorf("falha ao calcular saldo de créditos: %w", err)
	}
	return saldo, nil
}
