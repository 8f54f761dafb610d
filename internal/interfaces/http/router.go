package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/brigada-api/internal/application/auth"
	"github.com/tu-usuario/brigada-api/internal/application/ledger"
	"github.com/tu-usuario/brigada-api/internal/application/reports"
	"github.com/tu-usuario/brigada-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	LedgerUC  *ledger.LedgerUseCase
	ReportUC  *reports.ReportUseCase
	AuthUC    *auth.AuthUseCase
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Lotes (protegido)
	ledgerHandler := NewLedgerHandler(deps.LedgerUC)
	lots := protected.Group("/lots")
	lots.Post("/", ledgerHandler.CreateLot)
	lots.Get("/", ledgerHandler.ListLots)
	lots.Get("/recommendation", ledgerHandler.RecommendLot)
	lots.Get("/:id", ledgerHandler.GetLot)
	// Borrado administrativo: solo admin y solo sin movimientos colgantes.
	lots.Delete("/:id", RequireRole(entity.RoleAdmin), ledgerHandler.DeleteLot)

	// Movimientos (protegido)
	movements := protected.Group("/movements")
	movements.Post("/", ledgerHandler.RegisterMovement)
	movements.Get("/", ledgerHandler.ListMovements)
	movements.Delete("/:id", ledgerHandler.ReverseMovement)

	// Reportes (protegido, solo lectura)
	reportHandler := NewReportHandler(deps.ReportUC)
	reportsGroup := protected.Group("/reports")
	reportsGroup.Get("/stock", reportHandler.GetStockSummary)
	reportsGroup.Get("/expiring", reportHandler.GetExpiringLots)
	reportsGroup.Get("/movements-by-team", reportHandler.GetMovementsByTeam)
}
