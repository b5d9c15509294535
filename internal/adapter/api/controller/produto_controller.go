package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vmachado/erp-vestuario/internal/adapter/api/dto"
	"github.com/vmachado/erp-vestuario/internal/domain/produto"
	"github.com/vmachado/erp-vestuario/pkg/logger"
	"github.com/vmachado/erp-vestuario/pkg/operador"
)

// ProdutoController gerencia as requisições relacionadas a produtos e ao
// razão de estoque
type ProdutoController struct {
	produtoRepo produto.Repository
	logger      logger.Logger
}

// NewProdutoController cria uma nova instância de ProdutoController
func NewProdutoController(produtoRepo produto.Repository, logger logger.Logger) *ProdutoController {
	return &ProdutoController{
		produtoRepo: produtoRepo,
		logger:      logger,
	}
}

// Create cria um novo produto
// @Summary Criar produto
// @Description Cria um novo produto no catálogo
// @Tags produtos
// @Accept json
// @Produce json
// @Param produto body dto.ProdutoRequest true "Dados do produto"
// @Success 201 {object} produto.Produto
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /produtos [post]
func (c *ProdutoController) Create(ctx *gin.Context) {
	var req dto.ProdutoRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	p, err := produto.NovoProduto(req.Nome, req.Tamanho, req.Custo, req.PrecoVenda)
	if err != nil {
		responderErro(ctx, c.logger, err)
		return
	}

	if err := c.produtoRepo.Create(ctx, p); err != nil {
		responderErro(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusCreated, p)
}

// Get retorna um produto pelo ID
// @Summary Buscar produto
// @Description Retorna os dados de um produto pelo ID
// @Tags produtos
// @Produce json
// @Param id path string true "ID do produto"
// @Success 200 {object} produto.Produto
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /produtos/{id} [get]
func (c *ProdutoController) Get(ctx *gin.Context) {
	p, err := c.produtoRepo.FindByID(ctx, ctx.Param("id"))
	if err != nil {
		responderErro(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, p)
}

// List retorna a lista de produtos
// @Summary Listar produtos
// @Description Retorna a lista de produtos paginada
// @Tags produtos
// @Produce json
// @Param page query int false "Número da página"
// @Param size query int false "Tamanho da página"
// @Success 200 {array} produto.Produto
// @Failure 500 {object} dto.ErrorResponse
// @Router /produtos [get]
func (c *ProdutoController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(ctx.DefaultQuery("size", "20"))
	pag := dto.GetPagination(page, size)

	produtos, err := c.produtoRepo.List(ctx, pag.Size, pag.Offset())
	if err != nil {
		responderErro(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, produtos)
}

// Update atualiza os dados cadastrais de um produto
// @Summary Atualizar produto
// @Description Atualiza os dados cadastrais de um produto
// @Tags produtos
// @Accept json
// @Produce json
// @Param id path string true "ID do produto"
// @Param produto body dto.ProdutoRequest true "Dados do produto"
// @Success 200 {object} produto.Produto
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /produtos/{id} [put]
func (c *ProdutoController) Update(ctx *gin.Context) {
	var req dto.ProdutoRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	p, err := c.produtoRepo.FindByID(ctx, ctx.Param("id"))
	if err != nil {
		responderErro(ctx, c.logger, err)
		return
	}

	ativo := p.Ativo
	if req.Ativo != nil {
		ativo = *req.Ativo
	}
	if err := p.Atualizar(req.Nome, req.Tamanho, req.Custo, req.PrecoVenda, ativo); err != nil {
		responderErro(ctx, c.logger, err)
		return
	}

	if err := c.produtoRepo.Update(ctx, p); err != nil {
		responderErro(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, p)
}

// Delete exclui um produto sem histórico de movimentações
// @Summary Excluir produto
// @Description Exclui um produto que ainda não possui movimentações
// @Tags produtos
// @Produce json
// @Param id path string true "ID do produto"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /produtos/{id} [delete]
func (c *ProdutoController) Delete(ctx *gin.Context) {
	if err := c.produtoRepo.Delete(ctx, ctx.Param("id")); err != nil {
		responderErro(ctx, c.logger, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// AdicionarEstoque registra uma entrada manual de estoque
// @Summary Adicionar estoque
// @Description Registra uma entrada de estoque para um produto
// @Tags estoque
// @Accept json
// @Produce json
// @Param movimentacao body dto.MovimentacaoEstoqueRequest true "Dados da entrada"
// @Success 200 {object} produto.Produto
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /estoque/adicionar [post]
func (c *ProdutoController) AdicionarEstoque(ctx *gin.Context) {
	c.movimentarEstoque(ctx, produto.MovimentacaoEntrada)
}

// RemoverEstoque registra uma remoção manual de estoque
// @Summary Remover estoque
// @Description Registra uma saída manual de estoque para um produto
// @Tags estoque
// @Accept json
// @Produce json
// @Param movimentacao body dto.MovimentacaoEstoqueRequest true "Dados da remoção"
// @Success 200 {object} produto.Produto
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /estoque/remover [post]
func (c *ProdutoController) RemoverEstoque(ctx *gin.Context) {
	c.movimentarEstoque(ctx, produto.MovimentacaoSaida)
}

func (c *ProdutoController) movimentarEstoque(ctx *gin.Context, tipo produto.TipoMovimentacao) {
	var req dto.MovimentacaoEstoqueRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	delta := req.Quantidade
	if tipo == produto.MovimentacaoSaida {
		delta = -req.Quantidade
	}

	m, err := produto.NovaMovimentacao(req.ProdutoID, delta, tipo, req.Motivo, operador.GetOperador(ctx.Request.Context()))
	if err != nil {
		responderErro(ctx, c.logger, err)
		return
	}

	// Remoções manuais nunca deixam o estoque negativo, a política da
	// loja só vale para vendas.
	p, err := c.produtoRepo.RegistrarMovimentacao(ctx, m, false)
	if err != nil {
		responderErro(ctx, c.logger, err)
		return
	}

	c.logger.Info("movimentação de estoque registrada",
		"produto_id", m.ProdutoID, "tipo", string(m.Tipo), "delta", m.Delta)
	ctx.JSON(http.StatusOK, p)
}

// ListMovimentacoes lista o histórico de movimentações de um produto
// @Summary Histórico de movimentações
// @Description Retorna o razão de estoque de um produto, do mais recente ao mais antigo
// @Tags estoque
// @Produce json
// @Param id path string true "ID do produto"
// @Param page query int false "Número da página"
// @Param size query int false "Tamanho da página"
// @Success 200 {array} produto.Movimentacao
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /produtos/{id}/movimentacoes [get]
func (c *ProdutoController) ListMovimentacoes(ctx *gin.Context) {
	id := ctx.Param("id")
	if _, err := c.produtoRepo.FindByID(ctx, id); err != nil {
		responderErro(ctx, c.logger, err)
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(ctx.DefaultQuery("size", "20"))
	pag := dto.GetPagination(page, size)

	movimentacoes, err := c.produtoRepo.ListMovimentacoes(ctx, id, pag.Size, pag.Offset())
	if err != nil {
		responderErro(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, movimentacoes)
}
