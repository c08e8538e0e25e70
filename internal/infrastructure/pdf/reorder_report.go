// Package pdf genera el reporte de reposición en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + empresa    │  Fecha del barrido            │
//	│  RESUMEN: evaluados / señales / omitidos / parcial            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Ítem | ABC | Stock | ROP | Déficit | Pedido    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  OMITIDOS: ítems con datos inválidos (si los hay)            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Inventario-engine/internal/application/dto"
	"github.com/jhoicas/Inventario-engine/internal/application/inventory"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 170, Green: 30, Blue: 30}
)

var _ inventory.ReorderReportRenderer = (*ReorderReportGenerator)(nil)

// ReorderReportGenerator implementa inventory.ReorderReportRenderer usando Maroto v2.
type ReorderReportGenerator struct {
	author string
}

// NewReorderReportGenerator construye el generador. author aparece en los metadatos del PDF.
func NewReorderReportGenerator(author string) *ReorderReportGenerator {
	return &ReorderReportGenerator{author: author}
}

// RenderReorderReport genera el PDF del barrido y devuelve sus bytes.
func (g *ReorderReportGenerator) RenderReorderReport(sweep *dto.ReorderSweepDTO) ([]byte, error) {
	if sweep == nil {
		return nil, fmt.Errorf("pdf: barrido vacío")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de reposición", true).
		WithAuthor(g.author, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(sweep))
	m.AddRows(summaryRow(sweep))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	if len(sweep.Signals) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(text.New(
			"Ningún ítem alcanzó su punto de reorden.",
			props.Text{Size: 9, Top: 2, Color: colorGray, Align: align.Center},
		))))
	}
	for _, r := range signalRows(sweep.Signals) {
		m.AddRows(r)
	}

	if len(sweep.Failures) > 0 {
		m.AddRows(line.NewRow(3))
		m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
		for _, r := range failureRows(sweep.Failures) {
			m.AddRows(r)
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(sweep *dto.ReorderSweepDTO) core.Row {
	fecha := sweep.SweptAt
	if t, err := time.Parse(time.RFC3339, sweep.SweptAt); err == nil {
		fecha = t.Format("02/01/2006 15:04")
	}
	return row.New(16).Add(
		col.New(8).Add(
			text.New("REPORTE DE REPOSICIÓN", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Empresa: "+sweep.CompanyID, props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Barrido", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(fecha, props.Text{
				Size: 9, Align: align.Right, Top: 7,
			}),
		),
	)
}

func summaryRow(sweep *dto.ReorderSweepDTO) core.Row {
	resumen := fmt.Sprintf("Evaluados: %d   |   Bajo punto de reorden: %d   |   Omitidos: %d",
		sweep.Evaluated, len(sweep.Signals), len(sweep.Failures))
	cols := []core.Col{
		col.New(9).Add(text.New(resumen, props.Text{Size: 8, Top: 2, Color: colorGray})),
	}
	if sweep.Partial {
		cols = append(cols, col.New(3).Add(text.New("BARRIDO PARCIAL", props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorAlert, Top: 2,
		})))
	} else {
		cols = append(cols, col.New(3))
	}
	return row.New(8).Add(cols...)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2,
		}))
	}
	return row.New(8).Add(
		h("SKU", 2, align.Left),
		h("Ítem", 4, align.Left),
		h("ABC", 1, align.Center),
		h("Stock", 1, align.Right),
		h("ROP", 1, align.Right),
		h("Déficit", 1, align.Right),
		h("Pedido EOQ", 2, align.Right),
	)
}

func signalRows(signals []dto.ReorderSignalDTO) []core.Row {
	result := make([]core.Row, 0, len(signals))
	for _, s := range signals {
		pedido := "-"
		if s.RecommendedOrderQty != nil {
			pedido = strconv.Itoa(*s.RecommendedOrderQty)
		}
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(s.SKU, props.Text{Size: 8, Top: 1})),
			col.New(4).Add(text.New(s.Name, props.Text{Size: 8, Top: 1})),
			col.New(1).Add(text.New(nonEmpty(s.ABCClassification, "-"), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(strconv.Itoa(s.CurrentStock), props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(1).Add(text.New(strconv.Itoa(s.ReorderPoint), props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(1).Add(text.New(strconv.Itoa(s.Deficit), props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1})),
			col.New(2).Add(text.New(pedido, props.Text{Size: 8, Align: align.Right, Top: 1})),
		))
	}
	return result
}

func failureRows(failures []dto.SweepFailureDTO) []core.Row {
	result := []core.Row{
		row.New(7).Add(col.New(12).Add(text.New("ÍTEMS OMITIDOS (datos inválidos)", props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorAlert, Top: 1,
		}))),
	}
	for _, f := range failures {
		result = append(result, row.New(6).Add(
			col.New(4).Add(text.New(f.ItemID, props.Text{Size: 7, Top: 1, Color: colorGray})),
			col.New(8).Add(text.New(f.Error, props.Text{Size: 7, Top: 1, Color: colorGray})),
		))
	}
	return result
}

func nonEmpty(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
