package dto

// DevolucaoItemRequest indica quanto devolver de um item da venda
type DevolucaoItemRequest struct {
	VendaItemID string `json:"venda_item_id" binding:"required"`
	Quantidade  int    `json:"quantidade" binding:"required,gt=0"`
}

// DevolucaoRequest representa a solicitação de devolução de itens. O
// cliente_id designa quem recebe o crédito; omitido, vale o da venda.
type DevolucaoRequest struct {
	VendaID   string                 `json:"venda_id" binding:"required"`
	ClienteID string                 `json:"cliente_id"`
	Motivo    string                 `json:"motivo" binding:"required"`
	Itens     []DevolucaoItemRequest `json:"itens" binding:"required"`
}

// RejeicaoRequest representa a rejeição de uma devolução
type RejeicaoRequest struct {
	Motivo string `json:"motivo" binding:"required"`
}
