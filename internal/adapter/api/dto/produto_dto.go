package dto

import "github.com/shopspring/decimal"

// ProdutoRequest representa os dados de criação ou atualização de um produto
type ProdutoRequest struct {
	Nome       string          `json:"nome" binding:"required"`
	Tamanho    string          `json:"tamanho"`
	Custo      decimal.Decimal `json:"custo"`
	PrecoVenda decimal.Decimal `json:"preco_venda"`
	Ativo      *bool           `json:"ativo"`
}

// MovimentacaoEstoqueRequest representa uma entrada ou remoção manual de
// estoque; a quantidade é sempre positiva, o endpoint define a direção
type MovimentacaoEstoqueRequest struct {
	ProdutoID  string `json:"produto_id" binding:"required"`
	Quantidade int    `json:"quantidade" binding:"required,gt=0"`
	Motivo     string `json:"motivo"`
}
