package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-engine/internal/domain/entity"
)

// InventoryItemRepository puerto de persistencia para los parámetros de reposición de cada ítem.
// Todas las consultas por empresa filtran por company_id (aislamiento de tenant).
type InventoryItemRepository interface {
	GetByID(ctx context.Context, id string) (*entity.InventoryItem, error)
	// GetForUpdate bloquea la fila del ítem dentro de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error)
	// SaveParameters escribe entradas y derivados en una sola sentencia.
	SaveParameters(ctx context.Context, item *entity.InventoryItem) error
	ListByCompany(ctx context.Context, companyID string) ([]*entity.InventoryItem, error)
	// ListWithReorderPoint ítems con ROP calculado (entrada del barrido de reposición).
	ListWithReorderPoint(ctx context.Context, companyID string) ([]*entity.InventoryItem, error)
	// ListBelowReorderPoint ítems con stock <= ROP, mayor déficit primero.
	ListBelowReorderPoint(ctx context.Context, companyID string) ([]*entity.InventoryItem, error)
	ListByABCClass(ctx context.Context, companyID string, class entity.ABCClass, limit, offset int) ([]*entity.InventoryItem, error)
	// ApplyClassification escritura masiva de una corrida ABC: los ítems del mapa reciben su clase,
	// el resto del catálogo de la empresa queda sin clasificar.
	ApplyClassification(ctx context.Context, companyID string, classes map[string]entity.ABCClass, classifiedAt time.Time) error
	// ListCompanyIDs empresas con al menos un ítem (para los jobs programados).
	ListCompanyIDs(ctx context.Context) ([]string, error)
}
