package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vmachado/erp-vestuario/internal/adapter/api/dto"
	"github.com/vmachado/erp-vestuario/internal/domain/credito"
	"github.com/vmachado/erp-vestuario/internal/domain/devolucao"
	"github.com/vmachado/erp-vestuario/pkg/logger"
)

// DevolucaoController gerencia as requisições relacionadas a devoluções e
// à consulta de créditos de clientes
type DevolucaoController struct {
	devolucaoService *devolucao.Service
	creditos         *credito.Service
	logger           logger.Logger
}

// NewDevolucaoController cria uma nova instância de DevolucaoController
func NewDevolucaoController(devolucaoService *devolucao.Service, creditos *credito.Service, logger logger.Logger) *DevolucaoController {
	return &DevolucaoController{
		devolucaoService: devolucaoService,
		creditos:         creditos,
		logger:           logger,
	}
}

// Create solicita a devolução de itens de uma venda
// @Summary Solicitar devolução
// @Description Registra uma solicitação de devolução de itens de uma venda concluída
// @Tags devolucoes
// @Accept json
// @Produce json
// @Param devolucao body dto.DevolucaoRequest true "Dados da devolução"
// @Success 201 {object} devolucao.Devolucao
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /devolucoes [post]
func (c *DevolucaoController) Create(ctx *gin.Context) {
	var req dto.DevolucaoRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	itens := make([]devolucao.ItemParam, 0, len(req.Itens))
	for _, item := range req.Itens {
		itens = append(itens, devolucao.ItemParam{VendaItemID: item.VendaItemID, Quantidade: item.Quantidade})
	}

	d, err := c.devolucaoService.Solicitar(ctx.Request.Context(), req.VendaID, req.ClienteID, req.Motivo, itens)
	if err != nil {
		responderErro(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusCreated, d)
}

// Get retorna uma devolução pelo ID
// @Summary Buscar devolução
// @Description Retorna uma devolução com seus itens
// @Tags devolucoes
// @Produce json
// @Param id path string true "ID da devolução"
// @Success 200 {object} devolucao.Devolucao
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /devolucoes/{id} [get]
func (c *DevolucaoController) Get(ctx *gin.Context) {
	d, err := c.devolucaoService.Buscar(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		responderErro(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, d)
}

// List retorna a lista de devoluções
// @Summary Listar devoluções
// @Description Retorna a lista de devoluções paginada, com filtro opcional por venda
// @Tags devolucoes
// @Produce json
// @Param page query int false "Número da página"
// @Param size query int false "Tamanho da página"
// @Param venda_id query string false "Filtrar pela venda de origem"
// @Success 200 {array} devolucao.Devolucao
// @Failure 500 {object} dto.ErrorResponse
// @Router /devolucoes [get]
func (c *DevolucaoController) List(ctx *gin.Context) {
	if vendaID := ctx.Query("venda_id"); vendaID != "" {
		devolucoes, err := c.devolucaoService.ListarPorVenda(ctx.Request.Context(), vendaID)
		if err != nil {
			responderErro(ctx, c.logger, err)
			return
		}
		ctx.JSON(http.StatusOK, devolucoes)
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(ctx.DefaultQuery("size", "20"))
	pag := dto.GetPagination(page, size)

	devolucoes, err := c.devolucaoService.Listar(ctx.Request.Context(), pag.Size, pag.Offset())
	if err != nil {
		responderErro(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, devolucoes)
}

// Aprovar aprova uma devolução repondo o estoque e lançando o crédito
// @Summary Aprovar devolução
// @Description Aprova a devolução, devolve os itens ao estoque e lança o crédito de loja
// @Tags devolucoes
// @Produce json
// @Param id path string true "ID da devolução"
// @Success 200 {object} devolucao.Devolucao
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /devolucoes/{id}/aprovar [put]
func (c *DevolucaoController) Aprovar(ctx *gin.Context) {
	d, err := c.devolucaoService.Aprovar(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		responderErro(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, d)
}

// Rejeitar rejeita uma devolução
// @Summary Rejeitar devolução
// @Description Rejeita a devolução sem mexer em estoque nem créditos
// @Tags devolucoes
// @Accept json
// @Produce json
// @Param id path string true "ID da devolução"
// @Param rejeicao body dto.RejeicaoRequest true "Motivo da rejeição"
// @Success 200 {object} devolucao.Devolucao
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /devolucoes/{id}/rejeitar [put]
func (c *DevolucaoController) Rejeitar(ctx *gin.Context) {
	var req dto.RejeicaoRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	d, err := c.devolucaoService.Rejeitar(ctx.Request.Context(), ctx.Param("id"), req.Motivo)
	if err != nil {
		responderErro(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, d)
}

// CreditosCliente retorna o extrato de créditos de um cliente
// @Summary Créditos do cliente
// @Description Retorna saldo, créditos e usos de crédito de loja do cliente
// @Tags devolucoes
// @Produce json
// @Param id path string true "ID do cliente"
// @Success 200 {object} dto.ExtratoCreditosResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /devolucoes/creditos/cliente/{id} [get]
func (c *DevolucaoController) CreditosCliente(ctx *gin.Context) {
	clienteID := ctx.Param("id")

	saldo, err := c.creditos.SaldoDe(ctx.Request.Context(), clienteID)
	if err != nil {
		responderErro(ctx, c.logger, err)
		return
	}
	creditos, usos, err := c.creditos.Extrato(ctx.Request.Context(), clienteID)
	if err != nil {
		responderErro(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ExtratoCreditosResponse{
		ClienteID: clienteID,
		Saldo:     saldo,
		Creditos:  creditos,
		Usos:      usos,
	})
}
