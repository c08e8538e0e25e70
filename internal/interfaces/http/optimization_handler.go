package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-engine/internal/application/dto"
	"github.com/jhoicas/Inventario-engine/internal/domain"
)

// Contratos que el handler necesita de los casos de uso de internal/application/inventory.

type ParametersService interface {
	UpdateParameters(ctx context.Context, companyID, itemID string, in dto.UpdateParametersRequest) (*dto.ItemOptimizationDTO, error)
	GetBreakdown(ctx context.Context, companyID, itemID string) (*dto.ItemBreakdownDTO, error)
}

type ABCService interface {
	RunAbcAnalysis(ctx context.Context, companyID string) (*dto.ABCRunDTO, error)
	ListByClass(ctx context.Context, companyID, class string, page dto.PageRequest) (*dto.ItemListResponse, error)
}

type ReorderService interface {
	RunReorderSweep(ctx context.Context, companyID string) (*dto.ReorderSweepDTO, error)
	ItemsBelowReorderPoint(ctx context.Context, companyID string) ([]dto.ReorderSignalDTO, error)
	ReorderReportPDF(ctx context.Context, companyID string) ([]byte, error)
}

type DemandService interface {
	DefaultWindow(now time.Time) (time.Time, time.Time)
	RefreshDemand(ctx context.Context, companyID, itemID string, start, end time.Time) (*dto.DemandStatsDTO, error)
	RecordDemandSample(ctx context.Context, companyID, itemID string, in dto.DemandSampleRequest) (*dto.DemandStatsDTO, error)
	LatestDemand(ctx context.Context, companyID, itemID string) (*dto.DemandStatsDTO, error)
}

// OptimizationHandler expone el motor de optimización (EOQ, ROP, ABC, demanda, reposición). Protegido.
type OptimizationHandler struct {
	params  ParametersService
	abc     ABCService
	reorder ReorderService
	demand  DemandService
}

// NewOptimizationHandler construye el handler.
func NewOptimizationHandler(params ParametersService, abc ABCService, reorder ReorderService, demand DemandService) *OptimizationHandler {
	return &OptimizationHandler{params: params, abc: abc, reorder: reorder, demand: demand}
}

// writeError traduce los errores de dominio a HTTP.
func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case errors.Is(err, domain.ErrNoClassifiableValue):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NO_CLASSIFIABLE_VALUE", Message: "el catálogo no tiene valor anual para clasificar"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "el recurso ya existe"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// UpdateParameters godoc
// @Summary      Actualizar parámetros de reposición de un ítem
// @Description  Aplica los campos enviados, recalcula EOQ, stock de seguridad y punto de reorden y
//
//	persiste todo en una sola transacción. Un valor fuera de dominio rechaza la escritura completa.
//
// @Tags         optimization
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID del ítem"
// @Param        body  body  dto.UpdateParametersRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.ItemOptimizationDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/optimization/items/{id}/parameters [put]
func (h *OptimizationHandler) UpdateParameters(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.UpdateParametersRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.params.UpdateParameters(c.UserContext(), companyID, c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetBreakdown godoc
// @Summary      Desglose EOQ / ROP de un ítem
// @Tags         optimization
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {object}  dto.ItemBreakdownDTO
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/optimization/items/{id}/breakdown [get]
func (h *OptimizationHandler) GetBreakdown(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.params.GetBreakdown(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RefreshDemand godoc
// @Summary      Recalcular la demanda de un ítem desde el consumo diario
// @Description  Sin fechas usa la ventana configurada (ENGINE_DEMAND_WINDOW_DAYS) hasta hoy.
// @Tags         optimization
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true   "ID del ítem"
// @Param        body  body  dto.RefreshDemandRequest  false  "Ventana YYYY-MM-DD"
// @Success      200   {object}  dto.DemandStatsDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/optimization/items/{id}/demand/refresh [post]
func (h *OptimizationHandler) RefreshDemand(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.RefreshDemandRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	start, end := h.demand.DefaultWindow(time.Now())
	var err error
	if in.StartDate != "" {
		if start, err = time.Parse("2006-01-02", in.StartDate); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "start_date debe tener formato YYYY-MM-DD"})
		}
	}
	if in.EndDate != "" {
		if end, err = time.Parse("2006-01-02", in.EndDate); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "end_date debe tener formato YYYY-MM-DD"})
		}
	}
	out, err := h.demand.RefreshDemand(c.UserContext(), companyID, c.Params("id"), start, end)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RecordDemandSample godoc
// @Summary      Registrar una muestra de demanda calculada externamente
// @Tags         optimization
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del ítem"
// @Param        body  body  dto.DemandSampleRequest  true  "Estadística del período"
// @Success      201   {object}  dto.DemandStatsDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/optimization/items/{id}/demand/samples [post]
func (h *OptimizationHandler) RecordDemandSample(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.DemandSampleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.demand.RecordDemandSample(c.UserContext(), companyID, c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// LatestDemand godoc
// @Summary      Última estadística de demanda de un ítem
// @Tags         optimization
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {object}  dto.DemandStatsDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/optimization/items/{id}/demand/latest [get]
func (h *OptimizationHandler) LatestDemand(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.demand.LatestDemand(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RunAbcAnalysis godoc
// @Summary      Ejecutar la clasificación ABC del catálogo
// @Description  Rankea por valor anual (demanda × precio): A hasta 70% acumulado, B hasta 90%, C el resto.
// @Tags         optimization
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ABCRunDTO
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/optimization/abc/run [post]
func (h *OptimizationHandler) RunAbcAnalysis(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.abc.RunAbcAnalysis(c.UserContext(), companyID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListByClass godoc
// @Summary      Ítems de una clase ABC
// @Tags         optimization
// @Security     Bearer
// @Produce      json
// @Param        class   path   string  true   "A, B o C"
// @Param        limit   query  int     false  "Máximo de resultados (default 20)"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.ItemListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/optimization/abc/{class} [get]
func (h *OptimizationHandler) ListByClass(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	page.DefaultPage()
	out, err := h.abc.ListByClass(c.UserContext(), companyID, c.Params("class"), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RunReorderSweep godoc
// @Summary      Barrido de reposición
// @Description  Evalúa todos los ítems con punto de reorden. Los ítems con datos inválidos se reportan en failures.
// @Tags         optimization
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ReorderSweepDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/optimization/reorder/sweep [post]
func (h *OptimizationHandler) RunReorderSweep(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.reorder.RunReorderSweep(c.UserContext(), companyID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ItemsBelowReorderPoint godoc
// @Summary      Ítems en o bajo su punto de reorden
// @Tags         optimization
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.ReorderSignalDTO
// @Router       /api/optimization/reorder/below [get]
func (h *OptimizationHandler) ItemsBelowReorderPoint(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	list, err := h.reorder.ItemsBelowReorderPoint(c.UserContext(), companyID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"items": list, "total": len(list)})
}

// ReorderReport godoc
// @Summary      Reporte PDF del último barrido de reposición
// @Tags         optimization
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /api/optimization/reorder/report.pdf [get]
func (h *OptimizationHandler) ReorderReport(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	pdf, err := h.reorder.ReorderReportPDF(c.UserContext(), companyID)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="reposicion.pdf"`)
	return c.Send(pdf)
}
