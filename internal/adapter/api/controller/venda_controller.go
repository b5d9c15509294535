package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vmachado/erp-vestuario/internal/adapter/api/dto"
	"github.com/vmachado/erp-vestuario/internal/domain/venda"
	"github.com/vmachado/erp-vestuario/pkg/logger"
)

// VendaController gerencia as requisições relacionadas a vendas,
// pagamentos e parcelas
type VendaController struct {
	vendaService *venda.Service
	logger       logger.Logger
}

// NewVendaController cria uma nova instância de VendaController
func NewVendaController(vendaService *venda.Service, logger logger.Logger) *VendaController {
	return &VendaController{
		vendaService: vendaService,
		logger:       logger,
	}
}

// Create finaliza uma venda
// @Summary Finalizar venda
// @Description Finaliza uma venda com baixa de estoque, parcelas de crediário ou pagamento integral à vista
// @Tags vendas
// @Accept json
// @Produce json
// @Param venda body dto.VendaRequest true "Dados da venda"
// @Success 201 {object} venda.Venda
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /vendas [post]
func (c *VendaController) Create(ctx *gin.Context) {
	var req dto.VendaRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	in := venda.FinalizarInput{
		ClienteID:          req.ClienteID,
		FormaPagamento:     venda.FormaPagamento(req.FormaPagamento),
		DescontoPercentual: req.DescontoPercentual,
		DescontoValor:      req.DescontoValor,
		ValorCredito:       req.ValorCredito,
		QtdParcelas:        req.QtdParcelas,
	}
	if req.PrimeiroVencimento != nil {
		in.PrimeiroVencimento = *req.PrimeiroVencimento
	}
	for _, item := range req.Itens {
		in.Itens = append(in.Itens, venda.ItemDraft{ProdutoID: item.ProdutoID, Quantidade: item.Quantidade})
	}

	v, err := c.vendaService.Finalizar(ctx.Request.Context(), in)
	if err != nil {
		responderErro(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusCreated, v)
}

// Get retorna uma venda pelo ID
// @Summary Buscar venda
// @Description Retorna uma venda com seus itens
// @Tags vendas
// @Produce json
// @Param id path string true "ID da venda"
// @Success 200 {object} venda.Venda
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /vendas/{id} [get]
func (c *VendaController) Get(ctx *gin.Context) {
	v, err := c.vendaService.Buscar(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		responderErro(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, v)
}

// List retorna a lista de vendas
// @Summary Listar vendas
// @Description Retorna a lista de vendas paginada, da mais recente à mais antiga
// @Tags vendas
// @Produce json
// @Param page query int false "Número da página"
// @Param size query int false "Tamanho da página"
// @Success 200 {array} venda.Venda
// @Failure 500 {object} dto.ErrorResponse
// @Router /vendas [get]
func (c *VendaController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(ctx.DefaultQuery("size", "20"))
	pag := dto.GetPagination(page, size)

	vendas, err := c.vendaService.Listar(ctx.Request.Context(), pag.Size, pag.Offset())
	if err != nil {
		responderErro(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, vendas)
}

// Cancelar cancela uma venda devolvendo os itens ao estoque
// @Summary Cancelar venda
// @Description Cancela uma venda, repõe o estoque e cancela as parcelas pendentes
// @Tags vendas
// @Accept json
// @Produce json
// @Param id path string true "ID da venda"
// @Param cancelamento body dto.CancelamentoRequest true "Motivo do cancelamento"
// @Success 200 {object} venda.Venda
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /vendas/{id}/cancelar [put]
func (c *VendaController) Cancelar(ctx *gin.Context) {
	var req dto.CancelamentoRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	v, err := c.vendaService.Cancelar(ctx.Request.Context(), ctx.Param("id"), req.Motivo)
	if err != nil {
		responderErro(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, v)
}

// RegistrarPagamento registra um pagamento contra o saldo da venda
// @Summary Registrar pagamento
// @Description Registra um pagamento; em vendas no crediário baixa a parcela indicada ou a pendente mais antiga
// @Tags vendas
// @Accept json
// @Produce json
// @Param id path string true "ID da venda"
// @Param pagamento body dto.PagamentoRequest true "Dados do pagamento"
// @Success 201 {object} venda.Pagamento
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /vendas/{id}/pagamentos [post]
func (c *VendaController) RegistrarPagamento(ctx *gin.Context) {
	var req dto.PagamentoRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	p, err := c.vendaService.RegistrarPagamento(ctx.Request.Context(), ctx.Param("id"), venda.PagamentoInput{
		Valor:       req.Valor,
		Forma:       venda.FormaPagamento(req.FormaPagamento),
		Observacoes: req.Observacoes,
		ParcelaID:   req.ParcelaID,
	})
	if err != nil {
		responderErro(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusCreated, p)
}

// ListPagamentos lista os pagamentos de uma venda
// @Summary Listar pagamentos
// @Description Retorna os pagamentos registrados contra a venda
// @Tags vendas
// @Produce json
// @Param id path string true "ID da venda"
// @Success 200 {array} venda.Pagamento
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /vendas/{id}/pagamentos [get]
func (c *VendaController) ListPagamentos(ctx *gin.Context) {
	pagamentos, err := c.vendaService.ListarPagamentos(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		responderErro(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, pagamentos)
}

// ListParcelas lista as parcelas de uma venda no crediário
// @Summary Listar parcelas
// @Description Retorna as parcelas da venda ordenadas por número
// @Tags vendas
// @Produce json
// @Param id path string true "ID da venda"
// @Success 200 {array} venda.Parcela
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /vendas/{id}/parcelas [get]
func (c *VendaController) ListParcelas(ctx *gin.Context) {
	parcelas, err := c.vendaService.ListarParcelas(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		responderErro(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, parcelas)
}
