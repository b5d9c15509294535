package route

import (
	"github.com/gin-gonic/gin"

	"github.com/vmachado/erp-vestuario/internal/adapter/api/controller"
)

// SetupProdutoRoutes configura as rotas para gerenciamento de produtos e estoque
func SetupProdutoRoutes(router *gin.RouterGroup, produtoController *controller.ProdutoController) {
	produtoRouter := router.Group("/produtos")
	{
		produtoRouter.POST("", produtoController.Create)
		produtoRouter.GET("", produtoController.List)
		produtoRouter.GET("/:id", produtoController.Get)
		produtoRouter.PUT("/:id", produtoController.Update)
		produtoRouter.DELETE("/:id", produtoController.Delete)
		produtoRouter.GET("/:id/movimentacoes", produtoController.ListMovimentacoes)
	}

	estoqueRouter := router.Group("/estoque")
	{
		estoqueRouter.POST("/adicionar", produtoController.AdicionarEstoque)
		estoqueRouter.POST("/remover", produtoController.RemoverEstoque)
	}
}
