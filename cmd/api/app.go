package main

import (
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/vmachado/erp-vestuario/internal/adapter/api/controller"
	"github.com/vmachado/erp-vestuario/internal/adapter/api/route"
	"github.com/vmachado/erp-vestuario/internal/adapter/repository"
	"github.com/vmachado/erp-vestuario/internal/domain/credito"
	"github.com/vmachado/erp-vestuario/internal/domain/devolucao"
	"github.com/vmachado/erp-vestuario/internal/domain/inventario"
	"github.com/vmachado/erp-vestuario/internal/domain/venda"
	"github.com/vmachado/erp-vestuario/internal/infrastructure/database"
	"github.com/vmachado/erp-vestuario/pkg/logger"
	"github.com/vmachado/erp-vestuario/pkg/operador"
)

// App representa a aplicação e suas dependências
type App struct {
	router *gin.Engine
	db     *database.PostgresDB
	logger logger.Logger
}

// NewApp cria uma nova instância do aplicativo
func NewApp() (*App, error) {
	log := logger.NewLogger()

	// Valores monetários saem como número no JSON
	decimal.MarshalJSONWithoutQuotes = true

	db, err := database.NewPostgresDB()
	if err != nil {
		return nil, err
	}

	permitirVendaSemEstoque := os.Getenv("PERMITIR_VENDA_SEM_ESTOQUE") == "true"

	// Repositórios
	produtoRepo := repository.NewPostgresProdutoRepository(db)
	clienteRepo := repository.NewPostgresClienteRepository(db)
	creditoRepo := repository.NewPostgresCreditoRepository(db)
	vendaRepo := repository.NewPostgresVendaRepository(db, permitirVendaSemEstoque)
	devolucaoRepo := repository.NewPostgresDevolucaoRepository(db)
	inventarioRepo := repository.NewPostgresInventarioRepository(db)

	// Serviços de domínio
	creditoService := credito.NewService(creditoRepo, log)
	vendaService := venda.NewService(vendaRepo, produtoRepo, clienteRepo, creditoService, permitirVendaSemEstoque, log)
	devolucaoService := devolucao.NewService(devolucaoRepo, vendaRepo, log)
	inventarioService := inventario.NewService(inventarioRepo, produtoRepo, log)

	// Controllers
	produtoController := controller.NewProdutoController(produtoRepo, log)
	clienteController := controller.NewClienteController(clienteRepo, creditoService, log)
	vendaController := controller.NewVendaController(vendaService, log)
	devolucaoController := controller.NewDevolucaoController(devolucaoService, creditoService, log)
	inventarioController := controller.NewInventarioController(inventarioService, log)

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Operador"},
		ExposeHeaders: []string{"Content-Length"},
	}))
	router.Use(operador.Middleware())

	api := router.Group("/api/v1")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	route.SetupProdutoRoutes(api, produtoController)
	route.SetupClienteRoutes(api, clienteController)
	route.SetupVendaRoutes(api, vendaController)
	route.SetupDevolucaoRoutes(api, devolucaoController)
	route.SetupInventarioRoutes(api, inventarioController)

	return &App{
		router: router,
		db:     db,
		logger: log,
	}, nil
}

// Start inicia o servidor HTTP
func (a *App) Start() error {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	a.logger.Info("servidor iniciado", "port", port)
	return a.router.Run(":" + port)
}

// Close libera os recursos da aplicação
func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
}
