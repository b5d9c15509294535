package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vmachado/erp-vestuario/internal/domain/credito"
	"github.com/vmachado/erp-vestuario/internal/domain/devolucao"
	"github.com/vmachado/erp-vestuario/internal/domain/produto"
	"github.com/vmachado/erp-vestuario/internal/infrastructure/database"
	"github.com/vmachado/erp-vestuario/pkg/apperror"
)

// PostgresDevolucaoRepository implementa a interface devolucao.Repository usando PostgreSQL
type PostgresDevolucaoRepository struct {
	db *database.PostgresDB
}

// NewPostgresDevolucaoRepository cria uma nova instância de PostgresDevolucaoRepository
func NewPostgresDevolucaoRepository(db *database.PostgresDB) *PostgresDevolucaoRepository {
	return &PostgresDevolucaoRepository{db: db}
}

const devolucaoColunas = "id, venda_id, cliente_id, valor_credito, status, motivo, motivo_rejeicao, criado_em, atualizado_em"

func scanDevolucao(row pgx.Row) (*devolucao.Devolucao, error) {
	d := &devolucao.Devolucao{}
	var status string
	var motivoRejeicao *string

	err := row.Scan(
		&d.ID,
		&d.VendaID,
		&d.ClienteID,
		&d.ValorCredito,
		&status,
		&d.Motivo,
		&motivoRejeicao,
		&d.CriadoEm,
		&d.AtualizadoEm,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("devolução não encontrada")
		}
		return nil, fmt.Errorf("falha ao buscar devolução: %w", err)
	}

	d.Status = devolucao.Status(status)
	if motivoRejeicao != nil {
		d.MotivoRejeicao = *motivoRejeicao
	}
	return d, nil
}

// Create implementa devolucao.Repository.Create
func (r *PostgresDevolucaoRepository) Create(ctx context.Context, d *devolucao.Devolucao) error {
	return r.db.Transaction(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO devolucoes (id, venda_id, cliente_id, valor_credito, status, motivo, criado_em, atualizado_em)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, d.ID, d.VendaID, d.ClienteID, d.ValorCredito, string(d.Status), d.Motivo, d.CriadoEm, d.AtualizadoEm)
		if err != nil {
			return fmt.Errorf("falha ao inserir devolução: %w", err)
		}

		for _, item := range d.Itens {
			if _, err := tx.Exec(ctx, `
				INSERT INTO devolucao_itens (id, devolucao_id, venda_item_id, produto_id, quantidade, valor_unitario, subtotal)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			`, item.ID, item.DevolucaoID, item.VendaItemID, item.ProdutoID, item.Quantidade, item.ValorUnitario, item.Subtotal); err != nil {
				return fmt.Errorf("falha ao inserir item da devolução: %w", err)
			}
		}
		return nil
	})
}

// FindByID implementa devolucao.Repository.FindByID
func (r *PostgresDevolucaoRepository) FindByID(ctx context.Context, id string) (*devolucao.Devolucao, error) {
	conn, err := r.db.GetConnection(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	d, err := scanDevolucao(conn.QueryRow(ctx, "SELECT "+devolucaoColunas+" FROM devolucoes WHERE id = $1", id))
	if err != nil {
		return nil, err
	}
	if err := r.carregarItens(ctx, conn, d); err != nil {
		return nil, err
	}
	return d, nil
}

// List implementa devolucao.Repository.List
func (r *PostgresDevolucaoRepository) List(ctx context.Context, limit, offset int) ([]*devolucao.Devolucao, error) {
	conn, err := r.db.GetConnection(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(ctx,
		"SELECT "+devolucaoColunas+" FROM devolucoes ORDER BY criado_em DESC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar devoluções: %w", err)
	}
	defer rows.Close()

	var devolucoes []*devolucao.Devolucao
	for rows.Next() {
		d, err := scanDevolucao(rows)
		if err != nil {
			return nil, err
		}
		devolucoes = append(devolucoes, d)
	}
	return devolucoes, rows.Err()
}

// ListByVenda implementa devolucao.Repository.ListByVenda
func (r *PostgresDevolucaoRepository) ListByVenda(ctx context.Context, vendaID string) ([]*devolucao.Devolucao, error) {
	conn, err := r.db.GetConnection(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(ctx,
		"SELECT "+devolucaoColunas+" FROM devolucoes WHERE venda_id = $1 ORDER BY criado_em", vendaID)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar devoluções da venda: %w", err)
	}
	defer rows.Close()

	var devolucoes []*devolucao.Devolucao
	for rows.Next() {
		d, err := scanDevolucao(rows)
		if err != nil {
			return nil, err
		}
		devolucoes = append(devolucoes, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for _, d := range devolucoes {
		if err := r.carregarItens(ctx, conn, d); err != nil {
			return nil, err
		}
	}
	return devolucoes, nil
}

// Aprovar implementa devolucao.Repository.Aprovar
func (r *PostgresDevolucaoRepository) Aprovar(ctx context.Context, d *devolucao.Devolucao, movimentacoes []*produto.Movimentacao, c *credito.Credito) error {
	return r.db.Transaction(ctx, func(tx pgx.Tx) error {
		// Guarda de status na escrita: só uma decisão vence.
		tag, err := tx.Exec(ctx, `
			UPDATE devolucoes SET status = $2, atualizado_em = $3
			WHERE id = $1 AND status = $4
		`, d.ID, string(devolucao.StatusAprovada), d.AtualizadoEm, string(devolucao.StatusPendente))
		if err != nil {
			return fmt.Errorf("falha ao aprovar devolução: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperror.Conflict("devolução já foi decidida")
		}

		for _, m := range movimentacoes {
			if _, err := tx.Exec(ctx,
				"UPDATE produtos SET quantidade = quantidade + $2, atualizado_em = $3 WHERE id = $1",
				m.ProdutoID, m.Delta, m.CriadoEm); err != nil {
				return fmt.Errorf("falha ao repor estoque: %w", err)
			}
			if err := inserirMovimentacao(ctx, tx, m); err != nil {
				return err
			}
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO creditos (id, cliente_id, valor, origem, criado_em, expira_em)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, c.ID, c.ClienteID, c.Valor, string(c.Origem), c.CriadoEm, c.ExpiraEm); err != nil {
			return fmt.Errorf("falha ao lançar crédito: %w", err)
		}

		return nil
	})
}

// Rejeitar implementa devolucao.Repository.Rejeitar
func (r *PostgresDevolucaoRepository) Rejeitar(ctx context.Context, d *devolucao.Devolucao) error {
	conn, err := r.db.GetConnection(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
		UPDATE devolucoes SET status = $2, motivo_rejeicao = $3, atualizado_em = $4
		WHERE id = $1 AND status = $5
	`, d.ID, string(devolucao.StatusRejeitada), d.MotivoRejeicao, d.AtualizadoEm, string(devolucao.StatusPendente))
	if err != nil {
		return fmt.Errorf("falha ao rejeitar devolução: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.Conflict("devolução já foi decidida")
	}
	return nil
}

func (r *PostgresDevolucaoRepository) carregarItens(ctx context.Context, conn *pgxpool.Conn, d *devolucao.Devolucao) error {
	rows, err := conn.Query(ctx, `
		SELECT id, devolucao_id, venda_item_id, produto_id, quantidade, valor_unitario, subtotal
		FROM devolucao_itens
		WHERE devolucao_id = $1
	`, d.ID)
	if err != nil {
		return fmt.Errorf("falha ao buscar itens da devolução: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		item := &devolucao.Item{}
		if err := rows.Scan(&item.ID, &item.DevolucaoID, &item.VendaItemID, &item.ProdutoID, &item.Quantidade, &item.ValorUnitario, &item.Subtotal); err != nil {
			return fmt.Errorf("falha ao ler item da devolução: %w", err)
		}
		d.Itens = append(d.Itens, item)
	}
	return rows.Err()
}
