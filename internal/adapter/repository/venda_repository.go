package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/vmachado/erp-vestuario/internal/domain/credito"
	"github.com/vmachado/erp-vestuario/internal/domain/produto"
	"github.com/vmachado/erp-vestuario/internal/domain/venda"
	"github.com/vmachado/erp-vestuario/internal/infrastructure/database"
	"github.com/vmachado/erp-vestuario/pkg/apperror"
)

// PostgresVendaRepository implementa a interface venda.Repository usando PostgreSQL
type PostgresVendaRepository struct {
	db *database.PostgresDB
	// permitirSemEstoque replica a política da loja na revalidação feita
	// dentro da transação
	permitirSemEstoque bool
}

// NewPostgresVendaRepository cria uma nova instância de PostgresVendaRepository
func NewPostgresVendaRepository(db *database.PostgresDB, permitirSemEstoque bool) *PostgresVendaRepository {
	return &PostgresVendaRepository{db: db, permitirSemEstoque: permitirSemEstoque}
}

// CreateFinalizada implementa venda.Repository.CreateFinalizada
func (r *PostgresVendaRepository) CreateFinalizada(ctx context.Context, v *venda.Venda, parcelas []*venda.Parcela, pagamentoInicial *venda.Pagamento, movimentacoes []*produto.Movimentacao, usoCredito *credito.Uso) error {
	return r.db.Transaction(ctx, func(tx pgx.Tx) error {
		for _, m := range movimentacoes {
			if err := r.aplicarMovimentacao(ctx, tx, m); err != nil {
				return err
			}
		}

		if err := inserirVenda(ctx, tx, v); err != nil {
			return err
		}

		for _, p := range parcelas {
			if _, err := tx.Exec(ctx, `
				INSERT INTO parcelas (id, venda_id, numero, valor, vencimento, status, pago_em)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			`, p.ID, p.VendaID, p.Numero, p.Valor, p.Vencimento, string(p.Status), p.PagoEm); err != nil {
				return fmt.Errorf("falha ao inserir parcela: %w", err)
			}
		}

		if usoCredito != nil {
			if err := consumirCredito(ctx, tx, usoCredito); err != nil {
				return err
			}
		}

		if pagamentoInicial != nil {
			if err := inserirPagamento(ctx, tx, pagamentoInicial); err != nil {
				return err
			}
		}

		return nil
	})
}

// FindByID implementa venda.Repository.FindByID
func (r *PostgresVendaRepository) FindByID(ctx context.Context, id string) (*venda.Venda, error) {
	conn, err := r.db.GetConnection(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	v, err := scanVenda(conn.QueryRow(ctx, "SELECT "+vendaColunas+" FROM vendas WHERE id = $1", id))
	if err != nil {
		return nil, err
	}

	rows, err := conn.Query(ctx, `
		SELECT id, venda_id, produto_id, quantidade, preco_unitario, subtotal
		FROM venda_itens
		WHERE venda_id = $1
	`, id)
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar itens da venda: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		item := &venda.Item{}
		if err := rows.Scan(&item.ID, &item.VendaID, &item.ProdutoID, &item.Quantidade, &item.PrecoUnitario, &item.Subtotal); err != nil {
			return nil, fmt.Errorf("falha ao ler item da venda: %w", err)
		}
		v.Itens = append(v.Itens, item)
	}
	return v, rows.Err()
}

// List implementa venda.Repository.List
func (r *PostgresVendaRepository) List(ctx context.Context, limit, offset int) ([]*venda.Venda, error) {
	conn, err := r.db.GetConnection(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(ctx,
		"SELECT "+vendaColunas+" FROM vendas ORDER BY criado_em DESC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar vendas: %w", err)
	}
	defer rows.Close()

	var vendas []*venda.Venda
	for rows.Next() {
		v, err := scanVenda(rows)
		if err != nil {
			return nil, err
		}
		vendas = append(vendas, v)
	}
	return vendas, rows.Err()
}

// Cancelar implementa venda.Repository.Cancelar
func (r *PostgresVendaRepository) Cancelar(ctx context.Context, v *venda.Venda, movimentacoes []*produto.Movimentacao) error {
	return r.db.Transaction(ctx, func(tx pgx.Tx) error {
		// Guarda de status na própria escrita: cancelamentos concorrentes
		// perdem a corrida e viram conflito.
		tag, err := tx.Exec(ctx, `
			UPDATE vendas
			SET status = $2, motivo_cancelamento = $3, atualizado_em = $4
			WHERE id = $1 AND status <> $2
		`, v.ID, string(venda.StatusCancelada), v.MotivoCancelamento, v.AtualizadoEm)
		if err != nil {
			return fmt.Errorf("falha ao cancelar venda: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperror.Conflict("venda já está cancelada")
		}

		if _, err := tx.Exec(ctx, `
			UPDATE parcelas SET status = $2 WHERE venda_id = $1 AND status = $3
		`, v.ID, string(venda.ParcelaCancelada), string(venda.ParcelaPendente)); err != nil {
			return fmt.Errorf("falha ao cancelar parcelas: %w", err)
		}

		for _, m := range movimentacoes {
			if err := r.aplicarMovimentacao(ctx, tx, m); err != nil {
				return err
			}
		}

		return nil
	})
}

// RegistrarPagamento implementa venda.Repository.RegistrarPagamento
func (r *PostgresVendaRepository) RegistrarPagamento(ctx context.Context, v *venda.Venda, p *venda.Pagamento, parcela *venda.Parcela) error {
	return r.db.Transaction(ctx, func(tx pgx.Tx) error {
		// Lock da venda e revalidação do saldo devedor: pagamentos
		// concorrentes não podem ultrapassar o total.
		var total decimal.Decimal
		var status string
		if err := tx.QueryRow(ctx, "SELECT total, status FROM vendas WHERE id = $1 FOR UPDATE", v.ID).Scan(&total, &status); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperror.NotFound("venda não encontrada")
			}
			return fmt.Errorf("falha ao buscar venda: %w", err)
		}

		var pago decimal.Decimal
		if err := tx.QueryRow(ctx,
			"SELECT COALESCE(SUM(valor), 0) FROM pagamentos WHERE venda_id = $1", v.ID).Scan(&pago); err != nil {
			return fmt.Errorf("falha ao somar pagamentos: %w", err)
		}
		if p.Valor.GreaterThan(total.Sub(pago)) {
			return apperror.Overpayment(
				fmt.Sprintf("pagamento de %s excede o saldo devedor de %s",
					p.Valor.StringFixed(2), total.Sub(pago).StringFixed(2)))
		}

		if err := inserirPagamento(ctx, tx, p); err != nil {
			return err
		}

		if parcela != nil {
			tag, err := tx.Exec(ctx, `
				UPDATE parcelas SET status = $2, pago_em = $3 WHERE id = $1 AND status = $4
			`, parcela.ID, string(venda.ParcelaPaga), parcela.PagoEm, string(venda.ParcelaPendente))
			if err != nil {
				return fmt.Errorf("falha ao baixar parcela: %w", err)
			}
			if tag.RowsAffected() == 0 {
				return apperror.Conflict(fmt.Sprintf("parcela %d não está pendente", parcela.Numero))
			}
		}

		// O status é derivado aqui, sob o lock: soma dos pagamentos igual
		// ao total conclui a venda mesmo com pagamentos concorrentes.
		novoStatus := venda.Status(status)
		if pago.Add(p.Valor).Equal(total) {
			novoStatus = venda.StatusConcluida
		}
		if _, err := tx.Exec(ctx,
			"UPDATE vendas SET status = $2, atualizado_em = $3 WHERE id = $1",
			v.ID, string(novoStatus), v.AtualizadoEm); err != nil {
			return fmt.Errorf("falha ao atualizar status da venda: %w", err)
		}
		v.Status = novoStatus

		return nil
	})
}

// ListPagamentos implementa venda.Repository.ListPagamentos
func (r *PostgresVendaRepository) ListPagamentos(ctx context.Context, vendaID string) ([]*venda.Pagamento, error) {
	conn, err := r.db.GetConnection(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
		SELECT id, venda_id, valor, forma_pagamento, operador, observacoes, criado_em
		FROM pagamentos
		WHERE venda_id = $1
		ORDER BY criado_em
	`, vendaID)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar pagamentos: %w", err)
	}
	defer rows.Close()

	var pagamentos []*venda.Pagamento
	for rows.Next() {
		p := &venda.Pagamento{}
		var forma string
		if err := rows.Scan(&p.ID, &p.VendaID, &p.Valor, &forma, &p.Operador, &p.Observacoes, &p.CriadoEm); err != nil {
			return nil, fmt.Errorf("falha ao ler pagamento: %w", err)
		}
		p.Forma = venda.FormaPagamento(forma)
		pagamentos = append(pagamentos, p)
	}
	return pagamentos, rows.Err()
}

// ListParcelas implementa venda.Repository.ListParcelas
func (r *PostgresVendaRepository) ListParcelas(ctx context.Context, vendaID string) ([]*venda.Parcela, error) {
	conn, err := r.db.GetConnection(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
		SELECT id, venda_id, numero, valor, vencimento, status, pago_em
		FROM parcelas
		WHERE venda_id = $1
		ORDER BY numero
	`, vendaID)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar parcelas: %w", err)
	}
	defer rows.Close()

	var parcelas []*venda.Parcela
	for rows.Next() {
		p := &venda.Parcela{}
		var status string
		if err := rows.Scan(&p.ID, &p.VendaID, &p.Numero, &p.Valor, &p.Vencimento, &status, &p.PagoEm); err != nil {
			return nil, fmt.Errorf("falha ao ler parcela: %w", err)
		}
		p.Status = venda.StatusParcela(status)
		parcelas = append(parcelas, p)
	}
	return parcelas, rows.Err()
}

// aplicarMovimentacao atualiza a quantidade do produto e grava o lançamento
// no razão. Saídas revalidam o piso de estoque na própria escrita, exceto
// quando a política da loja permite estoque negativo.
func (r *PostgresVendaRepository) aplicarMovimentacao(ctx context.Context, tx pgx.Tx, m *produto.Movimentacao) error {
	query := "UPDATE produtos SET quantidade = quantidade + $2, atualizado_em = $3 WHERE id = $1"
	if m.Delta < 0 && !r.permitirSemEstoque {
		query += " AND quantidade + $2 >= 0"
	}

	tag, err := tx.Exec(ctx, query, m.ProdutoID, m.Delta, m.CriadoEm)
	if err != nil {
		return fmt.Errorf("falha ao atualizar estoque: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM produtos WHERE id = $1)", m.ProdutoID).Scan(&exists); err != nil {
			return fmt.Errorf("falha ao verificar produto: %w", err)
		}
		if !exists {
			return apperror.NotFound("produto não encontrado")
		}
		return apperror.InsufficientStock("estoque insuficiente para concluir a operação").
			WithSolution("reduza a quantidade ou registre uma entrada de estoque")
	}

	return inserirMovimentacao(ctx, tx, m)
}

const vendaColunas = "id, cliente_id, subtotal, desconto_percentual, desconto_valor, total, forma_pagamento, status, motivo_cancelamento, criado_em, atualizado_em"

func scanVenda(row pgx.Row) (*venda.Venda, error) {
	v := &venda.Venda{}
	var clienteID, motivo *string
	var forma, status string

	err := row.Scan(
		&v.ID,
		&clienteID,
		&v.Subtotal,
		&v.DescontoPercentual,
		&v.DescontoValor,
		&v.Total,
		&forma,
		&status,
		&motivo,
		&v.CriadoEm,
		&v.AtualizadoEm,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("venda não encontrada")
		}
		return nil, fmt.Errorf("falha ao buscar venda: %w", err)
	}

	if clienteID != nil {
		v.ClienteID = *clienteID
	}
	if motivo != nil {
		v.MotivoCancelamento = *motivo
	}
	v.FormaPagamento = venda.FormaPagamento(forma)
	v.Status = venda.Status(status)
	return v, nil
}

func inserirVenda(ctx context.Context, tx pgx.Tx, v *venda.Venda) error {
	var clienteID *string
	if v.ClienteID != "" {
		clienteID = &v.ClienteID
	}
	var motivo *string
	if v.MotivoCancelamento != "" {
		motivo = &v.MotivoCancelamento
	}

	_, err := tx.Exec(ctx, `
		INSERT INTO vendas (id, cliente_id, subtotal, desconto_percentual, desconto_valor, total, forma_pagamento, status, motivo_cancelamento, criado_em, atualizado_em)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, v.ID, clienteID, v.Subtotal, v.DescontoPercentual, v.DescontoValor, v.Total,
		string(v.FormaPagamento), string(v.Status), motivo, v.CriadoEm, v.AtualizadoEm)
	if err != nil {
		return fmt.Errorf("falha ao inserir venda: %w", err)
	}

	for _, item := range v.Itens {
		if _, err := tx.Exec(ctx, `
			INSERT INTO venda_itens (id, venda_id, produto_id, quantidade, preco_unitario, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, item.ID, item.VendaID, item.ProdutoID, item.Quantidade, item.PrecoUnitario, item.Subtotal); err != nil {
			return fmt.Errorf("falha ao inserir item da venda: %w", err)
		}
	}
	return nil
}

func inserirPagamento(ctx context.Context, tx pgx.Tx, p *venda.Pagamento) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO pagamentos (id, venda_id, valor, forma_pagamento, operador, observacoes, criado_em)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, p.ID, p.VendaID, p.Valor, string(p.Forma), p.Operador, p.Observacoes, p.CriadoEm)
	if err != nil {
		return fmt.Errorf("falha ao inserir pagamento: %w", err)
	}
	return nil
}

// consumirCredito grava o uso de crédito revalidando o saldo sob lock da
// linha do cliente, para que duas vendas não gastem o mesmo crédito
func consumirCredito(ctx context.Context, tx pgx.Tx, u *credito.Uso) error {
	if _, err := tx.Exec(ctx, "SELECT 1 FROM clientes WHERE id = $1 FOR UPDATE", u.ClienteID); err != nil {
		return fmt.Errorf("falha ao travar cliente: %w", err)
	}

	var saldo decimal.Decimal
	err := tx.QueryRow(ctx, `
		SELECT COALESCE((SELECT SUM(valor) FROM creditos WHERE cliente_id = $1 AND (expira_em IS NULL OR expira_em > NOW())), 0)
		     - COALESCE((SELECT SUM(valor) FROM usos_credito WHERE cliente_id = $1), 0)
	`, u.ClienteID).Scan(&saldo)
	if err != nil {
		return fmt.Errorf("falha ao calcular saldo de créditos: %w", err)
	}
	if u.Valor.GreaterThan(saldo) {
		return apperror.InsufficientCredit(
			fmt.Sprintf("crédito insuficiente: disponível %s, solicitado %s",
				saldo.StringFixed(2), u.Valor.StringFixed(2)))
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO usos_credito (id, cliente_id, venda_id, valor, criado_em)
		VALUES ($1, $2, $3, $4, $5)
	`, u.ID, u.ClienteID, u.VendaID, u.Valor, u.CriadoEm); err != nil {
		return fmt.Errorf("falha ao inserir uso de crédito: %w", err)
	}
	return nil
}
