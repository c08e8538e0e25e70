package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-engine/internal/domain/entity"
)

// DemandSampleRepository historial de muestras de demanda (solo inserción).
type DemandSampleRepository interface {
	Create(ctx context.Context, sample *entity.DemandPeriodSample) error
	// GetLatestByItem última muestra por period_end; nil si no hay historial.
	GetLatestByItem(ctx context.Context, itemID string) (*entity.DemandPeriodSample, error)
}

// ConsumptionRepository lectura del consumo diario agregado por el pipeline de captura.
// Los días sin consumo pueden no venir; el llamador los completa con cero.
type ConsumptionRepository interface {
	ListDailyConsumption(ctx context.Context, companyID, itemID string, start, end time.Time) ([]entity.DailyConsumption, error)
}
