package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vmachado/erp-vestuario/internal/adapter/api/dto"
	"github.com/vmachado/erp-vestuario/internal/domain/inventario"
	"github.com/vmachado/erp-vestuario/pkg/logger"
)

// InventarioController gerencia as requisições do ciclo de inventário
type InventarioController struct {
	inventarioService *inventario.Service
	logger            logger.Logger
}

// NewInventarioController cria uma nova instância de InventarioController
func NewInventarioController(inventarioService *inventario.Service, logger logger.Logger) *InventarioController {
	return &InventarioController{
		inventarioService: inventarioService,
		logger:            logger,
	}
}

// Iniciar abre uma sessão de inventário
// @Summary Iniciar inventário
// @Description Abre uma sessão de contagem; só uma sessão pode estar em andamento
// @Tags inventario
// @Accept json
// @Produce json
// @Param sessao body dto.InventarioIniciarRequest false "Observações da sessão"
// @Success 201 {object} inventario.Sessao
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /inventario/iniciar [post]
func (c *InventarioController) Iniciar(ctx *gin.Context) {
	var req dto.InventarioIniciarRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
			return
		}
	}

	sessao, err := c.inventarioService.Iniciar(ctx.Request.Context(), req.Observacoes)
	if err != nil {
		responderErro(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusCreated, sessao)
}

// EmAndamento retorna a sessão de inventário aberta
// @Summary Sessão em andamento
// @Description Retorna a sessão de inventário aberta com suas contagens
// @Tags inventario
// @Produce json
// @Success 200 {object} inventario.Sessao
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /inventario/em-andamento [get]
func (c *InventarioController) EmAndamento(ctx *gin.Context) {
	aberta, err := c.inventarioService.Aberta(ctx.Request.Context())
	if err != nil {
		responderErro(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, aberta)
}

// Salvar grava um lote de contagens na sessão
// @Summary Salvar contagens
// @Description Grava as contagens físicas; recontar um produto substitui a contagem anterior
// @Tags inventario
// @Accept json
// @Produce json
// @Param contagens body dto.InventarioSalvarRequest true "Contagens da sessão"
// @Success 200 {object} inventario.Sessao
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /inventario/salvar [post]
func (c *InventarioController) Salvar(ctx *gin.Context) {
	var req dto.InventarioSalvarRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	itens := make([]inventario.ContagemInput, 0, len(req.Itens))
	for _, item := range req.Itens {
		itens = append(itens, inventario.ContagemInput{
			ProdutoID:        item.ProdutoID,
			QuantidadeFisica: item.QuantidadeFisica,
			Observacao:       item.Observacao,
		})
	}

	sessao, err := c.inventarioService.SalvarContagens(ctx.Request.Context(), req.SessaoID, itens)
	if err != nil {
		responderErro(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, sessao)
}

// AjustarEstoque encerra a sessão aplicando os ajustes das contagens
// @Summary Ajustar estoque
// @Description Encerra a sessão aplicando um ajuste para cada contagem divergente
// @Tags inventario
// @Accept json
// @Produce json
// @Param sessao body dto.InventarioAjustarRequest true "Sessão a ajustar"
// @Success 200 {object} inventario.Sessao
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /inventario/ajustar-estoque [post]
func (c *InventarioController) AjustarEstoque(ctx *gin.Context) {
	var req dto.InventarioAjustarRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	sessao, err := c.inventarioService.Finalizar(ctx.Request.Context(), req.SessaoID)
	if err != nil {
		responderErro(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, sessao)
}

// Finalizar encerra a sessão como concluída ou cancelada
// @Summary Finalizar inventário
// @Description Encerra a sessão: concluída aplica os ajustes, cancelada descarta as contagens
// @Tags inventario
// @Accept json
// @Produce json
// @Param sessao body dto.InventarioFinalizarRequest true "Sessão e status final"
// @Success 200 {object} inventario.Sessao
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /inventario/finalizar [post]
func (c *InventarioController) Finalizar(ctx *gin.Context) {
	var req dto.InventarioFinalizarRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	var sessao *inventario.Sessao
	var err error
	switch inventario.Status(req.Status) {
	case inventario.StatusConcluida:
		sessao, err = c.inventarioService.Finalizar(ctx.Request.Context(), req.SessaoID)
	case inventario.StatusCancelada:
		sessao, err = c.inventarioService.Cancelar(ctx.Request.Context(), req.SessaoID)
	default:
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest,
			"status final inválido", "use concluida ou cancelada"))
		return
	}
	if err != nil {
		responderErro(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, sessao)
}
