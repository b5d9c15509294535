package route

import (
	"github.com/gin-gonic/gin"

	"github.com/vmachado/erp-vestuario/internal/adapter/api/controller"
)

// SetupInventarioRoutes configura as rotas do ciclo de inventário
func SetupInventarioRoutes(router *gin.RouterGroup, inventarioController *controller.InventarioController) {
	inventarioRouter := router.Group("/inventario")
	{
		inventarioRouter.POST("/iniciar", inventarioController.Iniciar)
		inventarioRouter.GET("/em-andamento", inventarioController.EmAndamento)
		inventarioRouter.POST("/salvar", inventarioController.Salvar)
		inventarioRouter.POST("/ajustar-estoque", inventarioController.AjustarEstoque)
		inventarioRouter.POST("/finalizar", inventarioController.Finalizar)
	}
}
