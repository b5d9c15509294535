package route

import (
	"github.com/gin-gonic/gin"

	"github.com/vmachado/erp-vestuario/internal/adapter/api/controller"
)

// SetupVendaRoutes configura as rotas para vendas, pagamentos e parcelas
func SetupVendaRoutes(router *gin.RouterGroup, vendaController *controller.VendaController) {
	vendaRouter := router.Group("/vendas")
	{
		vendaRouter.POST("", vendaController.Create)
		vendaRouter.GET("", vendaController.List)
		vendaRouter.GET("/:id", vendaController.Get)
		vendaRouter.PUT("/:id/cancelar", vendaController.Cancelar)
		vendaRouter.POST("/:id/pagamentos", vendaController.RegistrarPagamento)
		vendaRouter.GET("/:id/pagamentos", vendaController.ListPagamentos)
		vendaRouter.GET("/:id/parcelas", vendaController.ListParcelas)
	}
}
