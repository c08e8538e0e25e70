package inventory

import (
	"context"

	"github.com/jhoicas/Inventario-engine/internal/application/dto"
	"github.com/jhoicas/Inventario-engine/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.InventoryItemRepository,
		sampleRepo repository.DemandSampleRepository,
	) error) error
	// RunClassification abre la transacción de una corrida ABC serializada por empresa:
	// dos corridas simultáneas del mismo tenant nunca intercalan sus escrituras.
	RunClassification(ctx context.Context, companyID string, fn func(itemRepo repository.InventoryItemRepository) error) error
}

// ReorderCache guarda el último barrido de reposición por empresa.
// Get devuelve nil, nil si no hay entrada.
type ReorderCache interface {
	Get(ctx context.Context, companyID string) (*dto.ReorderSweepDTO, error)
	Set(ctx context.Context, companyID string, sweep *dto.ReorderSweepDTO) error
	Invalidate(ctx context.Context, companyID string) error
}

// ReorderReportRenderer genera el reporte PDF de un barrido de reposición.
type ReorderReportRenderer interface {
	RenderReorderReport(sweep *dto.ReorderSweepDTO) ([]byte, error)
}
