package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vmachado/erp-vestuario/internal/domain/inventario"
	"github.com/vmachado/erp-vestuario/internal/domain/produto"
	"github.com/vmachado/erp-vestuario/internal/infrastructure/database"
	"github.com/vmachado/erp-vestuario/pkg/apperror"
)

// PostgresInventarioRepository implementa a interface inventario.Repository usando PostgreSQL
type PostgresInventarioRepository struct {
	db *database.PostgresDB
}

// NewPostgresInventarioRepository cria uma nova instância de PostgresInventarioRepository
func NewPostgresInventarioRepository(db *database.PostgresDB) *PostgresInventarioRepository {
	return &PostgresInventarioRepository{db: db}
}

const sessaoColunas = "id, status, observacoes, operador, criado_em, finalizada_em"

func scanSessao(row pgx.Row) (*inventario.Sessao, error) {
	s := &inventario.Sessao{}
	var status string

	err := row.Scan(&s.ID, &status, &s.Observacoes, &s.Operador, &s.CriadoEm, &s.FinalizadaEm)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("sessão de inventário não encontrada")
		}
		return nil, fmt.Errorf("falha ao buscar sessão de inventário: %w", err)
	}

	s.Status = inventario.Status(status)
	return s, nil
}

// Create implementa inventario.Repository.Create. O índice único parcial
// sobre status = 'em_andamento' garante a sessão única mesmo sob corrida.
func (r *PostgresInventarioRepository) Create(ctx context.Context, s *inventario.Sessao) error {
	conn, err := r.db.GetConnection(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
		INSERT INTO inventario_sessoes (id, status, observacoes, operador, criado_em, finalizada_em)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, s.ID, string(s.Status), s.Observacoes, s.Operador, s.CriadoEm, s.FinalizadaEm)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique violation
			return apperror.Conflict("já existe uma sessão de inventário em andamento").
				WithSolution("finalize ou cancele a sessão aberta antes de iniciar outra")
		}
		return fmt.Errorf("falha ao inserir sessão de inventário: %w", err)
	}
	return nil
}

// FindByID implementa inventario.Repository.FindByID
func (r *PostgresInventarioRepository) FindByID(ctx context.Context, id string) (*inventario.Sessao, error) {
	conn, err := r.db.GetConnection(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	s, err := scanSessao(conn.QueryRow(ctx, "SELECT "+sessaoColunas+" FROM inventario_sessoes WHERE id = $1", id))
	if err != nil {
		return nil, err
	}
	if err := r.carregarContagens(ctx, conn, s); err != nil {
		return nil, err
	}
	return s, nil
}

// FindAberta implementa inventario.Repository.FindAberta
func (r *PostgresInventarioRepository) FindAberta(ctx context.Context) (*inventario.Sessao, error) {
	conn, err := r.db.GetConnection(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	s, err := scanSessao(conn.QueryRow(ctx,
		"SELECT "+sessaoColunas+" FROM inventario_sessoes WHERE status = $1", string(inventario.StatusEmAndamento)))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

// List implementa inventario.Repository.List
func (r *PostgresInventarioRepository) List(ctx context.Context, limit, offset int) ([]*inventario.Sessao, error) {
	conn, err := r.db.GetConnection(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(ctx,
		"SELECT "+sessaoColunas+" FROM inventario_sessoes ORDER BY criado_em DESC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar sessões de inventário: %w", err)
	}
	defer rows.Close()

	var sessoes []*inventario.Sessao
	for rows.Next() {
		s, err := scanSessao(rows)
		if err != nil {
			return nil, err
		}
		sessoes = append(sessoes, s)
	}
	return sessoes, rows.Err()
}

// SalvarContagem implementa inventario.Repository.SalvarContagem. Recontar
// o mesmo produto substitui a contagem anterior.
func (r *PostgresInventarioRepository) SalvarContagem(ctx context.Context, c *inventario.Contagem) error {
	conn, err := r.db.GetConnection(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
		INSERT INTO inventario_contagens (id, sessao_id, produto_id, quantidade_sistema, quantidade_fisica, observacao, operador, contado_em)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (sessao_id, produto_id) DO UPDATE
		SET quantidade_sistema = EXCLUDED.quantidade_sistema,
		    quantidade_fisica = EXCLUDED.quantidade_fisica,
		    observacao = EXCLUDED.observacao,
		    operador = EXCLUDED.operador,
		    contado_em = EXCLUDED.contado_em
	`, c.ID, c.SessaoID, c.ProdutoID, c.QuantidadeSistema, c.QuantidadeFisica, c.Observacao, c.Operador, c.ContadoEm)
	if err != nil {
		return fmt.Errorf("falha ao salvar contagem: %w", err)
	}
	return nil
}

// Finalizar implementa inventario.Repository.Finalizar
func (r *PostgresInventarioRepository) Finalizar(ctx context.Context, s *inventario.Sessao, movimentacoes []*produto.Movimentacao) error {
	return r.db.Transaction(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE inventario_sessoes SET status = $2, finalizada_em = $3
			WHERE id = $1 AND status = $4
		`, s.ID, string(inventario.StatusConcluida), s.FinalizadaEm, string(inventario.StatusEmAndamento))
		if err != nil {
			return fmt.Errorf("falha ao finalizar sessão: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperror.Conflict("sessão de inventário já foi encerrada")
		}

		for _, m := range movimentacoes {
			if _, err := tx.Exec(ctx,
				"UPDATE produtos SET quantidade = quantidade + $2, atualizado_em = $3 WHERE id = $1",
				m.ProdutoID, m.Delta, m.CriadoEm); err != nil {
				return fmt.Errorf("falha ao ajustar estoque: %w", err)
			}
			if err := inserirMovimentacao(ctx, tx, m); err != nil {
				return err
			}
		}

		return nil
	})
}

// Cancelar implementa inventario.Repository.Cancelar
func (r *PostgresInventarioRepository) Cancelar(ctx context.Context, s *inventario.Sessao) error {
	conn, err := r.db.GetConnection(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
		UPDATE inventario_sessoes SET status = $2, finalizada_em = $3
		WHERE id = $1 AND status = $4
	`, s.ID, string(inventario.StatusCancelada), s.FinalizadaEm, string(inventario.StatusEmAndamento))
	if err != nil {
		return fmt.Errorf("falha ao cancelar sessão: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.Conflict("sessão de inventário já foi encerrada")
	}
	return nil
}

func (r *PostgresInventarioRepository) carregarContagens(ctx context.Context, conn *pgxpool.Conn, s *inventario.Sessao) error {
	rows, err := conn.Query(ctx, `
		SELECT id, sessao_id, produto_id, quantidade_sistema, quantidade_fisica, observacao, operador, contado_em
		FROM inventario_contagens
		WHERE sessao_id = $1
		ORDER BY contado_em
	`, s.ID)
	if err != nil {
		return fmt.Errorf("falha ao buscar contagens: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		c := &inventario.Contagem{}
		if err := rows.Scan(&c.ID, &c.SessaoID, &c.ProdutoID, &c.QuantidadeSistema, &c.QuantidadeFisica, &c.Observacao, &c.Operador, &c.ContadoEm); err != nil {
			return fmt.Errorf("falha ao ler contagem: %w", err)
		}
		s.Itens = append(s.Itens, c)
	}
	return rows.Err()
}
