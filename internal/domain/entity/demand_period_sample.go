package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DemandPeriodSample estadística de demanda de un ítem en una ventana [PeriodStart, PeriodEnd] (inclusive).
// Historial inmutable: solo se agrega, nunca se actualiza.
type DemandPeriodSample struct {
	ID             string
	CompanyID      string
	ItemID         string
	PeriodStart    time.Time
	PeriodEnd      time.Time
	TotalDemand    decimal.Decimal
	AvgDailyDemand decimal.Decimal
	DemandStdDev   decimal.Decimal
	MinDailyDemand *decimal.Decimal
	MaxDailyDemand *decimal.Decimal
	CreatedAt      time.Time
}

// DailyConsumption consumo agregado de un ítem en un día.
type DailyConsumption struct {
	Day      time.Time
	Quantity decimal.Decimal
}
