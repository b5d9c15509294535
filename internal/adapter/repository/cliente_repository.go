package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/vmachado/erp-vestuario/internal/domain/cliente"
	"github.com/vmachado/erp-vestuario/internal/infrastructure/database"
	"github.com/vmachado/erp-vestuario/pkg/apperror"
)

// PostgresClienteRepository implementa a interface cliente.Repository usando PostgreSQL
type PostgresClienteRepository struct {
	db *database.PostgresDB
}

// NewPostgresClienteRepository cria uma nova instância de PostgresClienteRepository
func NewPostgresClienteRepository(db *database.PostgresDB) *PostgresClienteRepository {
	return &PostgresClienteRepository{db: db}
}

// Create implementa cliente.Repository.Create
func (r *PostgresClienteRepository) Create(ctx context.Context, c *cliente.Cliente) error {
	conn, err := r.db.GetConnection(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	query := `
		INSERT INTO clientes (id, nome, documento, telefone, ativo, criado_em, atualizado_em)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = conn.Exec(ctx, query, c.ID, c.Nome, c.Documento, c.Telefone, c.Ativo, c.CriadoEm, c.AtualizadoEm)
	if err != nil {
		return fmt.Errorf("falha ao inserir cliente: %w", err)
	}
	return nil
}

// FindByID implementa cliente.Repository.FindByID
func (r *PostgresClienteRepository) FindByID(ctx context.Context, id string) (*cliente.Cliente, error) {
	conn, err := r.db.GetConnection(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	c := &cliente.Cliente{}
	err = conn.QueryRow(ctx,
		"SELECT id, nome, documento, telefone, ativo, criado_em, atualizado_em FROM clientes WHERE id = $1", id).
		Scan(&c.ID, &c.Nome, &c.Documento, &c.Telefone, &c.Ativo, &c.CriadoEm, &c.AtualizadoEm)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("cliente não encontrado")
		}
		return nil, fmt.Errorf("falha ao buscar cliente: %w", err)
	}
	return c, nil
}

// List implementa cliente.Repository.List
func (r *PostgresClienteRepository) List(ctx context.Context, limit, offset int) ([]*cliente.Cliente, error) {
	conn, err := r.db.GetConnection(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(ctx,
		"SELECT id, nome, documento, telefone, ativo, criado_em, atualizado_em FROM clientes ORDER BY nome LIMIT $1 OFFSET $2",
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar clientes: %w", err)
	}
	defer rows.Close()

	var clientes []*cliente.Cliente
	for rows.Next() {
		c := &cliente.Cliente{}
		if err := rows.Scan(&c.ID, &c.Nome, &c.Documento, &c.Telefone, &c.Ativo, &c.CriadoEm, &c.AtualizadoEm); err != nil {
			return nil, fmt.Errorf("falha ao ler cliente: %w", err)
		}
		clientes = append(clientes, c)
	}
	return clientes, rows.Err()
}

// Exists implementa cliente.Repository.Exists
func (r *PostgresClienteRepository) Exists(ctx context.Context, id string) (bool, error) {
	conn, err := r.db.GetConnection(ctx)
	if err != nil {
		return false, err
	}
	defer conn.Release()

	var exists bool
	err = conn.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM clientes WHERE id = $1)", id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("falha ao verificar cliente: %w", err)
	}
	return exists, nil
}
