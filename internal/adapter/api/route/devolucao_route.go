package route

import (
	"github.com/gin-gonic/gin"

	"github.com/vmachado/erp-vestuario/internal/adapter/api/controller"
)

// SetupDevolucaoRoutes configura as rotas para devoluções e créditos de loja
func SetupDevolucaoRoutes(router *gin.RouterGroup, devolucaoController *controller.DevolucaoController) {
	devolucaoRouter := router.Group("/devolucoes")
	{
		devolucaoRouter.POST("", devolucaoController.Create)
		devolucaoRouter.GET("", devolucaoController.List)
		devolucaoRouter.GET("/creditos/cliente/:id", devolucaoController.CreditosCliente)
		devolucaoRouter.GET("/:id", devolucaoController.Get)
		devolucaoRouter.PUT("/:id/aprovar", devolucaoController.Aprovar)
		devolucaoRouter.PUT("/:id/rejeitar", devolucaoController.Rejeitar)
	}
}
