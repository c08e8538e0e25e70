package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-engine/internal/application/dto"
	"github.com/jhoicas/Inventario-engine/internal/domain"
	apphttp "github.com/jhoicas/Inventario-engine/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Inventario-engine/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Stubs de casos de uso
// ──────────────────────────────────────────────────────────────────────────────

type stubParams struct {
	gotCompany string
	gotItem    string
	gotReq     dto.UpdateParametersRequest
	err        error
}

func (s *stubParams) UpdateParameters(_ context.Context, companyID, itemID string, in dto.UpdateParametersRequest) (*dto.ItemOptimizationDTO, error) {
	s.gotCompany, s.gotItem, s.gotReq = companyID, itemID, in
	if s.err != nil {
		return nil, s.err
	}
	rop := 120
	return &dto.ItemOptimizationDTO{ID: itemID, SKU: "SKU-1", ReorderPoint: &rop}, nil
}

func (s *stubParams) GetBreakdown(_ context.Context, companyID, itemID string) (*dto.ItemBreakdownDTO, error) {
	s.gotCompany, s.gotItem = companyID, itemID
	if s.err != nil {
		return nil, s.err
	}
	return &dto.ItemBreakdownDTO{Item: dto.ItemOptimizationDTO{ID: itemID}}, nil
}

type stubABC struct {
	gotClass string
	gotPage  dto.PageRequest
	err      error
}

func (s *stubABC) RunAbcAnalysis(_ context.Context, companyID string) (*dto.ABCRunDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.ABCRunDTO{CompanyID: companyID, CountA: 1}, nil
}

func (s *stubABC) ListByClass(_ context.Context, _ string, class string, page dto.PageRequest) (*dto.ItemListResponse, error) {
	s.gotClass, s.gotPage = class, page
	if s.err != nil {
		return nil, s.err
	}
	return &dto.ItemListResponse{Items: []dto.ItemOptimizationDTO{}, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

type stubReorder struct {
	swept bool
	err   error
}

func (s *stubReorder) RunReorderSweep(_ context.Context, companyID string) (*dto.ReorderSweepDTO, error) {
	s.swept = true
	if s.err != nil {
		return nil, s.err
	}
	return &dto.ReorderSweepDTO{CompanyID: companyID, Evaluated: 3}, nil
}

func (s *stubReorder) ItemsBelowReorderPoint(context.Context, string) ([]dto.ReorderSignalDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []dto.ReorderSignalDTO{{ItemID: "i1", CurrentStock: 5, ReorderPoint: 10, Deficit: 5}}, nil
}

func (s *stubReorder) ReorderReportPDF(context.Context, string) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []byte("%PDF-1.4 prueba"), nil
}

type stubDemand struct {
	gotStart, gotEnd time.Time
	err              error
}

func (s *stubDemand) DefaultWindow(time.Time) (time.Time, time.Time) {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
}

func (s *stubDemand) RefreshDemand(_ context.Context, _, itemID string, start, end time.Time) (*dto.DemandStatsDTO, error) {
	s.gotStart, s.gotEnd = start, end
	if s.err != nil {
		return nil, s.err
	}
	return &dto.DemandStatsDTO{ItemID: itemID}, nil
}

func (s *stubDemand) RecordDemandSample(_ context.Context, _, itemID string, _ dto.DemandSampleRequest) (*dto.DemandStatsDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.DemandStatsDTO{ItemID: itemID, SampleID: "s1"}, nil
}

func (s *stubDemand) LatestDemand(_ context.Context, _, itemID string) (*dto.DemandStatsDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.DemandStatsDTO{ItemID: itemID}, nil
}

type stubs struct {
	params  *stubParams
	abc     *stubABC
	reorder *stubReorder
	demand  *stubDemand
}

func newRouterApp() (*fiber.App, *stubs) {
	s := &stubs{params: &stubParams{}, abc: &stubABC{}, reorder: &stubReorder{}, demand: &stubDemand{}}
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Parameters: s.params,
		ABC:        s.abc,
		Reorder:    s.reorder,
		Demand:     s.demand,
		JWTSecret:  testJWTSecret,
		JWTIssuer:  testIssuer,
	})
	return app, s
}

func call(t *testing.T, app *fiber.App, method, path, role, body string) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var e dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	return e.Code
}

// ──────────────────────────────────────────────────────────────────────────────
// Parámetros
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateParameters_PlannerActualiza(t *testing.T) {
	app, s := newRouterApp()
	resp := call(t, app, http.MethodPut, "/api/optimization/items/it-1/parameters", "planner",
		`{"annual_demand":"1000","lead_time_days":7}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, testCompanyID, s.params.gotCompany, "company_id sale del token")
	assert.Equal(t, "it-1", s.params.gotItem)
	require.NotNil(t, s.params.gotReq.AnnualDemand)
	assert.True(t, s.params.gotReq.AnnualDemand.Equal(decimal.NewFromInt(1000)))
	require.NotNil(t, s.params.gotReq.LeadTimeDays)
	assert.Equal(t, 7, *s.params.gotReq.LeadTimeDays)
	assert.Nil(t, s.params.gotReq.HoldingCost, "campos omitidos quedan en nil")
}

func TestUpdateParameters_BodegueroRecibe403(t *testing.T) {
	app, s := newRouterApp()
	resp := call(t, app, http.MethodPut, "/api/optimization/items/it-1/parameters", "bodeguero", `{}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Empty(t, s.params.gotItem, "el caso de uso no debe ejecutarse")
}

func TestUpdateParameters_CuerpoInvalido(t *testing.T) {
	app, _ := newRouterApp()
	resp := call(t, app, http.MethodPut, "/api/optimization/items/it-1/parameters", "admin", `{no-json`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", errorCode(t, resp))
}

func TestUpdateParameters_MapeaErroresDeDominio(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: service_level fuera de rango", domain.ErrInvalidInput), http.StatusBadRequest, "VALIDATION"},
		{domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{domain.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{domain.ErrConflict, http.StatusConflict, "CONFLICT"},
		{fmt.Errorf("db caída"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			app, s := newRouterApp()
			s.params.err = tc.err
			resp := call(t, app, http.MethodPut, "/api/optimization/items/it-1/parameters", "admin", `{}`)
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.code, errorCode(t, resp))
		})
	}
}

func TestGetBreakdown_CualquierRol(t *testing.T) {
	app, s := newRouterApp()
	resp := call(t, app, http.MethodGet, "/api/optimization/items/it-9/breakdown", "bodeguero", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "it-9", s.params.gotItem)
}

func TestRutas_SinToken_Retornan401(t *testing.T) {
	app, _ := newRouterApp()
	resp := call(t, app, http.MethodGet, "/api/optimization/items/it-9/breakdown", "", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// ABC
// ──────────────────────────────────────────────────────────────────────────────

func TestRunAbc_SoloAdmin(t *testing.T) {
	app, _ := newRouterApp()

	resp := call(t, app, http.MethodPost, "/api/optimization/abc/run", "planner", "")
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/optimization/abc/run", "admin", "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.ABCRunDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, testCompanyID, out.CompanyID)
}

func TestRunAbc_SinValorClasificable_Retorna409(t *testing.T) {
	app, s := newRouterApp()
	s.abc.err = fmt.Errorf("abc: %w", domain.ErrNoClassifiableValue)

	resp := call(t, app, http.MethodPost, "/api/optimization/abc/run", "admin", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "NO_CLASSIFIABLE_VALUE", errorCode(t, resp))
}

func TestListByClass_PaginacionDesdeQuery(t *testing.T) {
	app, s := newRouterApp()
	resp := call(t, app, http.MethodGet, "/api/optimization/abc/B?limit=500&offset=40", "bodeguero", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "B", s.abc.gotClass)
	assert.Equal(t, 100, s.abc.gotPage.Limit, "el límite se acota a 100")
	assert.Equal(t, 40, s.abc.gotPage.Offset)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reposición
// ──────────────────────────────────────────────────────────────────────────────

func TestReorderSweep_BodegueroPuedeEjecutar(t *testing.T) {
	app, s := newRouterApp()
	resp := call(t, app, http.MethodPost, "/api/optimization/reorder/sweep", "bodeguero", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, s.reorder.swept)
}

func TestReorderSweep_RolDesconocido403(t *testing.T) {
	app, s := newRouterApp()
	resp := call(t, app, http.MethodPost, "/api/optimization/reorder/sweep", "vendedor", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.False(t, s.reorder.swept)
}

func TestItemsBelowReorderPoint_DevuelveTotal(t *testing.T) {
	app, _ := newRouterApp()
	resp := call(t, app, http.MethodGet, "/api/optimization/reorder/below", "planner", "")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Items []dto.ReorderSignalDTO `json:"items"`
		Total int                    `json:"total"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 1, body.Total)
	assert.Equal(t, 5, body.Items[0].Deficit)
}

func TestReorderReport_ContentTypePDF(t *testing.T) {
	app, _ := newRouterApp()
	resp := call(t, app, http.MethodGet, "/api/optimization/reorder/report.pdf", "admin", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	raw, _ := io.ReadAll(resp.Body)
	assert.True(t, strings.HasPrefix(string(raw), "%PDF"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Demanda
// ──────────────────────────────────────────────────────────────────────────────

func TestRefreshDemand_SinCuerpoUsaVentanaPorDefecto(t *testing.T) {
	app, s := newRouterApp()
	resp := call(t, app, http.MethodPost, "/api/optimization/items/it-1/demand/refresh", "planner", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), s.demand.gotStart)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), s.demand.gotEnd)
}

func TestRefreshDemand_FechasExplicitas(t *testing.T) {
	app, s := newRouterApp()
	resp := call(t, app, http.MethodPost, "/api/optimization/items/it-1/demand/refresh", "planner",
		`{"start_date":"2026-02-01","end_date":"2026-03-01"}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), s.demand.gotStart)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), s.demand.gotEnd)
}

func TestRefreshDemand_FechaMalFormada400(t *testing.T) {
	app, _ := newRouterApp()
	resp := call(t, app, http.MethodPost, "/api/optimization/items/it-1/demand/refresh", "planner",
		`{"start_date":"01/02/2026"}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, resp))
}

func TestRecordDemandSample_Retorna201(t *testing.T) {
	app, _ := newRouterApp()
	resp := call(t, app, http.MethodPost, "/api/optimization/items/it-1/demand/samples", "planner",
		`{"period_start":"2026-01-01","period_end":"2026-01-31","total_demand":"300","avg_daily_demand":"10","demand_std_dev":"2"}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestLatestDemand_SinMuestra404(t *testing.T) {
	app, s := newRouterApp()
	s.demand.err = fmt.Errorf("%w: sin muestras", domain.ErrNotFound)

	resp := call(t, app, http.MethodGet, "/api/optimization/items/it-1/demand/latest", "bodeguero", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTokenFirmadoConOtroSecreto_401(t *testing.T) {
	app, _ := newRouterApp()
	tok, err := pkgjwt.Generate("otro-secreto", testUserID, testCompanyID, "admin", testIssuer, testExpMin)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/optimization/reorder/below", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
