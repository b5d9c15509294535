package route

import (
	"github.com/gin-gonic/gin"

	"github.com/vmachado/erp-vestuario/internal/adapter/api/controller"
)

// SetupClienteRoutes configura as rotas para gerenciamento de clientes
func SetupClienteRoutes(router *gin.RouterGroup, clienteController *controller.ClienteController) {
	clienteRouter := router.Group("/clientes")
	{
		clienteRouter.POST("", clienteController.Create)
		clienteRouter.GET("", clienteController.List)
		clienteRouter.GET("/:id", clienteController.Get)
		clienteRouter.POST("/:id/creditos", clienteController.ConcederCredito)
	}
}
