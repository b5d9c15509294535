package dto

// InventarioIniciarRequest representa a abertura de uma sessão de inventário
type InventarioIniciarRequest struct {
	Observacoes string `json:"observacoes"`
}

// ContagemRequest representa a contagem física de um produto
type ContagemRequest struct {
	ProdutoID        string `json:"produto_id" binding:"required"`
	QuantidadeFisica int    `json:"quantidade_fisica" binding:"min=0"`
	Observacao       string `json:"observacao"`
}

// InventarioSalvarRequest representa um lote de contagens da sessão
type InventarioSalvarRequest struct {
	SessaoID string            `json:"sessao_id" binding:"required"`
	Itens    []ContagemRequest `json:"itens" binding:"required"`
}

// InventarioFinalizarRequest encerra a sessão como concluída ou cancelada
type InventarioFinalizarRequest struct {
	SessaoID string `json:"sessao_id" binding:"required"`
	Status   string `json:"status" binding:"required"`
}

// InventarioAjustarRequest aplica os ajustes de estoque da sessão
type InventarioAjustarRequest struct {
	SessaoID string `json:"sessao_id" binding:"required"`
}
