package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vmachado/erp-vestuario/internal/domain/produto"
	"github.com/vmachado/erp-vestuario/internal/infrastructure/database"
	"github.com/vmachado/erp-vestuario/pkg/apperror"
)

// PostgresProdutoRepository implementa a interface produto.Repository usando PostgreSQL
type PostgresProdutoRepository struct {
	db *database.PostgresDB
}

// NewPostgresProdutoRepository cria uma nova instância de PostgresProdutoRepository
func NewPostgresProdutoRepository(db *database.PostgresDB) *PostgresProdutoRepository {
	return &PostgresProdutoRepository{db: db}
}

const produtoColunas = "id, nome, tamanho, custo, preco_venda, quantidade, ativo, criado_em, atualizado_em"

func scanProduto(row pgx.Row) (*produto.Produto, error) {
	p := &produto.Produto{}
	err := row.Scan(
		&p.ID,
		&p.Nome,
		&p.Tamanho,
		&p.Custo,
		&p.PrecoVenda,
		&p.Quantidade,
		&p.Ativo,
		&p.CriadoEm,
		&p.AtualizadoEm,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("produto não encontrado")
		}
		return nil, fmt.Errorf("falha ao buscar produto: %w", err)
	}
	return p, nil
}

// Create implementa produto.Repository.Create
func (r *PostgresProdutoRepository) Create(ctx context.Context, p *produto.Produto) error {
	conn, err := r.db.GetConnection(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	query := `
		INSERT INTO produtos (id, nome, tamanho, custo, preco_venda, quantidade, ativo, criado_em, atualizado_em)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = conn.Exec(ctx, query,
		p.ID, p.Nome, p.Tamanho, p.Custo, p.PrecoVenda, p.Quantidade, p.Ativo, p.CriadoEm, p.AtualizadoEm)
	if err != nil {
		return fmt.Errorf("falha ao inserir produto: %w", err)
	}
	return nil
}

// FindByID implementa produto.Repository.FindByID
func (r *PostgresProdutoRepository) FindByID(ctx context.Context, id string) (*produto.Produto, error) {
	conn, err := r.db.GetConnection(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	return scanProduto(conn.QueryRow(ctx, "SELECT "+produtoColunas+" FROM produtos WHERE id = $1", id))
}

// FindByIDs implementa produto.Repository.FindByIDs
func (r *PostgresProdutoRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*produto.Produto, error) {
	conn, err := r.db.GetConnection(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, "SELECT "+produtoColunas+" FROM produtos WHERE id = ANY($1)", ids)
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar produtos: %w", err)
	}
	defer rows.Close()

	out := make(map[string]*produto.Produto, len(ids))
	for rows.Next() {
		p, err := scanProduto(rows)
		if err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

// List implementa produto.Repository.List
func (r *PostgresProdutoRepository) List(ctx context.Context, limit, offset int) ([]*produto.Produto, error) {
	conn, err := r.db.GetConnection(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(ctx,
		"SELECT "+produtoColunas+" FROM produtos ORDER BY nome LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar produtos: %w", err)
	}
	defer rows.Close()

	var produtos []*produto.Produto
	for rows.Next() {
		p, err := scanProduto(rows)
		if err != nil {
			return nil, err
		}
		produtos = append(produtos, p)
	}
	return produtos, rows.Err()
}

// Update implementa produto.Repository.Update
func (r *PostgresProdutoRepository) Update(ctx context.Context, p *produto.Produto) error {
	conn, err := r.db.GetConnection(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	query := `
		UPDATE produtos
		SET nome = $2, tamanho = $3, custo = $4, preco_venda = $5, ativo = $6, atualizado_em = $7
		WHERE id = $1
	`
	tag, err := conn.Exec(ctx, query, p.ID, p.Nome, p.Tamanho, p.Custo, p.PrecoVenda, p.Ativo, p.AtualizadoEm)
	if err != nil {
		return fmt.Errorf("falha ao atualizar produto: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("produto não encontrado")
	}
	return nil
}

// Delete implementa produto.Repository.Delete. Produtos com movimentações
// são protegidos pela chave estrangeira e viram conflito.
func (r *PostgresProdutoRepository) Delete(ctx context.Context, id string) error {
	conn, err := r.db.GetConnection(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, "DELETE FROM produtos WHERE id = $1", id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign key violation
			return apperror.Conflict("produto possui histórico e não pode ser excluído").
				WithSolution("desative o produto em vez de excluí-lo")
		}
		return fmt.Errorf("falha ao excluir produto: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("produto não encontrado")
	}
	return nil
}

// RegistrarMovimentacao implementa produto.Repository.RegistrarMovimentacao.
// A quantidade é relida sob lock da linha do produto para que lançamentos
// concorrentes nunca furem o piso de estoque.
func (r *PostgresProdutoRepository) RegistrarMovimentacao(ctx context.Context, m *produto.Movimentacao, permitirNegativo bool) (*produto.Produto, error) {
	var atualizado *produto.Produto

	err := r.db.Transaction(ctx, func(tx pgx.Tx) error {
		p, err := scanProduto(tx.QueryRow(ctx,
			"SELECT "+produtoColunas+" FROM produtos WHERE id = $1 FOR UPDATE", m.ProdutoID))
		if err != nil {
			return err
		}

		if err := p.Aplicar(m, permitirNegativo); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx,
			"UPDATE produtos SET quantidade = $2, atualizado_em = $3 WHERE id = $1",
			p.ID, p.Quantidade, p.AtualizadoEm); err != nil {
			return fmt.Errorf("falha ao atualizar quantidade: %w", err)
		}

		if err := inserirMovimentacao(ctx, tx, m); err != nil {
			return err
		}

		atualizado = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return atualizado, nil
}

// ListMovimentacoes implementa produto.Repository.ListMovimentacoes
func (r *PostgresProdutoRepository) ListMovimentacoes(ctx context.Context, produtoID string, limit, offset int) ([]*produto.Movimentacao, error) {
	conn, err := r.db.GetConnection(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
		SELECT id, produto_id, delta, tipo, motivo, operador, criado_em
		FROM movimentacoes_estoque
		WHERE produto_id = $1
		ORDER BY criado_em DESC
		LIMIT $2 OFFSET $3
	`, produtoID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar movimentações: %w", err)
	}
	defer rows.Close()

	var movimentacoes []*produto.Movimentacao
	for rows.Next() {
		m := &produto.Movimentacao{}
		var tipo string
		if err := rows.Scan(&m.ID, &m.ProdutoID, &m.Delta, &tipo, &m.Motivo, &m.Operador, &m.CriadoEm); err != nil {
			return nil, fmt.Errorf("falha ao ler movimentação: %w", err)
		}
		m.Tipo = produto.TipoMovimentacao(tipo)
		movimentacoes = append(movimentacoes, m)
	}
	return movimentacoes, rows.Err()
}

// inserirMovimentacao grava um lançamento no razão de estoque dentro da
// transação corrente; é compartilhado pelos repositórios que baixam ou
// repõem estoque.
func inserirMovimentacao(ctx context.Context, tx pgx.Tx, m *produto.Movimentacao) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO movimentacoes_estoque (id, produto_id, delta, tipo, motivo, operador, criado_em)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, m.ID, m.ProdutoID, m.Delta, string(m.Tipo), m.Motivo, m.Operador, m.CriadoEm)
	if err != nil {
		return fmt.Errorf("falha ao inserir movimentação: %w", err)
	}
	return nil
}
