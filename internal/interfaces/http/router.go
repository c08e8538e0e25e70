package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-engine/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Parameters ParametersService
	ABC        ABCService
	Reorder    ReorderService
	Demand     DemandService
	JWTSecret  string
	JWTIssuer  string
}

// Router registra las rutas de la API. Todas requieren Bearer Token; company_id sale del token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))

	h := NewOptimizationHandler(deps.Parameters, deps.ABC, deps.Reorder, deps.Demand)
	canPlan := RequireRole(jwt.RoleAdmin, jwt.RolePlanner)

	opt := protected.Group("/optimization")

	items := opt.Group("/items")
	items.Put("/:id/parameters", canPlan, h.UpdateParameters)
	items.Get("/:id/breakdown", h.GetBreakdown)
	items.Get("/:id/demand/latest", h.LatestDemand)
	items.Post("/:id/demand/refresh", canPlan, h.RefreshDemand)
	items.Post("/:id/demand/samples", canPlan, h.RecordDemandSample)

	abc := opt.Group("/abc")
	abc.Post("/run", RequireRole(jwt.RoleAdmin), h.RunAbcAnalysis)
	abc.Get("/:class", h.ListByClass)

	reorder := opt.Group("/reorder")
	reorder.Post("/sweep", RequireRole(jwt.RoleAdmin, jwt.RolePlanner, jwt.RoleBodeguero), h.RunReorderSweep)
	reorder.Get("/below", h.ItemsBelowReorderPoint)
	reorder.Get("/report.pdf", h.ReorderReport)
}
