package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vmachado/erp-vestuario/internal/adapter/api/dto"
	"github.com/vmachado/erp-vestuario/internal/domain/cliente"
	"github.com/vmachado/erp-vestuario/internal/domain/credito"
	"github.com/vmachado/erp-vestuario/pkg/logger"
)

// ClienteController gerencia as requisições relacionadas a clientes e aos
// seus créditos de loja
type ClienteController struct {
	clienteRepo cliente.Repository
	creditos    *credito.Service
	logger      logger.Logger
}

// NewClienteController cria uma nova instância de ClienteController
func NewClienteController(clienteRepo cliente.Repository, creditos *credito.Service, logger logger.Logger) *ClienteController {
	return &ClienteController{
		clienteRepo: clienteRepo,
		creditos:    creditos,
		logger:      logger,
	}
}

// Create cria um novo cliente
// @Summary Criar cliente
// @Description Cria um novo cliente no sistema
// @Tags clientes
// @Accept json
// @Produce json
// @Param cliente body dto.ClienteRequest true "Dados do cliente"
// @Success 201 {object} cliente.Cliente
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /clientes [post]
func (c *ClienteController) Create(ctx *gin.Context) {
	var req dto.ClienteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	novo, err := cliente.NovoCliente(req.Nome, req.Documento, req.Telefone)
	if err != nil {
		responderErro(ctx, c.logger, err)
		return
	}

	if err := c.clienteRepo.Create(ctx, novo); err != nil {
		responderErro(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusCreated, novo)
}

// Get retorna um cliente pelo ID
// @Summary Buscar cliente
// @Description Retorna os dados de um cliente pelo ID
// @Tags clientes
// @Produce json
// @Param id path string true "ID do cliente"
// @Success 200 {object} cliente.Cliente
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /clientes/{id} [get]
func (c *ClienteController) Get(ctx *gin.Context) {
	encontrado, err := c.clienteRepo.FindByID(ctx, ctx.Param("id"))
	if err != nil {
		responderErro(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, encontrado)
}

// List retorna a lista de clientes
// @Summary Listar clientes
// @Description Retorna a lista de clientes paginada
// @Tags clientes
// @Produce json
// @Param page query int false "Número da página"
// @Param size query int false "Tamanho da página"
// @Success 200 {array} cliente.Cliente
// @Failure 500 {object} dto.ErrorResponse
// @Router /clientes [get]
func (c *ClienteController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(ctx.DefaultQuery("size", "20"))
	pag := dto.GetPagination(page, size)

	clientes, err := c.clienteRepo.List(ctx, pag.Size, pag.Offset())
	if err != nil {
		responderErro(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, clientes)
}

// ConcederCredito concede crédito de loja manualmente a um cliente
// @Summary Conceder crédito manual
// @Description Lança um crédito de loja de origem manual para o cliente
// @Tags clientes
// @Accept json
// @Produce json
// @Param id path string true "ID do cliente"
// @Param credito body dto.CreditoManualRequest true "Dados do crédito"
// @Success 201 {object} credito.Credito
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /clientes/{id}/creditos [post]
func (c *ClienteController) ConcederCredito(ctx *gin.Context) {
	id := ctx.Param("id")

	var req dto.CreditoManualRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	if _, err := c.clienteRepo.FindByID(ctx, id); err != nil {
		responderErro(ctx, c.logger, err)
		return
	}

	concedido, err := c.creditos.ConcederManual(ctx, id, req.Valor, req.ExpiraEm)
	if err != nil {
		responderErro(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusCreated, concedido)
}
