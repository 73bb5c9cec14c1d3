// Package pdfreport renders the species and general summaries as PDF documents.
package pdfreport

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"forestreport/models"
)

// ErrNoData is returned when there is no summary to render.
var ErrNoData = errors.New("no hay datos disponibles")

const dateLayout = "02/01/2006 15:04"

type rgb struct{ r, g, b int }

var (
	brandGreen = rgb{0x57, 0xc2, 0x7a}
	beige      = rgb{245, 245, 220}
	whiteSmoke = rgb{245, 245, 245}
	black      = rgb{0, 0, 0}
)

// SpeciesRow is one line of the top species table.
type SpeciesRow struct {
	Species string
	Count   string
	Percent string
}

// SpeciesRows shapes the top species of s into table rows. Percent is the
// share of all analysed trees with two decimals.
func SpeciesRows(s *models.SpeciesSummary) []SpeciesRow {
	rows := make([]SpeciesRow, 0, len(s.Top5))
	for _, rc := range s.Top5 {
		pct := 0.0
		if s.TotalTrees > 0 {
			pct = float64(rc.Count) / float64(s.TotalTrees) * 100
		}
		rows = append(rows, SpeciesRow{
			Species: rc.Value,
			Count:   fmt.Sprint(rc.Count),
			Percent: fmt.Sprintf("%.2f%%", pct),
		})
	}
	return rows
}

// Block is a headed group of text lines.
type Block struct {
	Heading string
	Lines   []string
}

// GeneralBlocks shapes the general summary into its three sections.
func GeneralBlocks(s *models.GeneralSummary) []Block {
	return []Block{
		{
			Heading: "CONGLOMERADOS",
			Lines: []string{
				fmt.Sprintf("Total de conglomerados registrados: %d", s.Clusters.Total),
			},
		},
		{
			Heading: "ÁRBOLES",
			Lines: []string{
				fmt.Sprintf("Total de árboles: %d", s.Trees.Total),
				fmt.Sprintf("Especies únicas: %d", s.Trees.UniqueSpecies),
			},
		},
		{
			Heading: "MUESTRAS",
			Lines: []string{
				fmt.Sprintf("Total de muestras: %d", s.Samples.Total),
				fmt.Sprintf("Muestras pendientes: %d", s.Samples.Pending),
				fmt.Sprintf("Muestras procesadas: %d", s.Samples.Processed),
			},
		},
	}
}

// RenderSpecies writes the species distribution report to w.
func RenderSpecies(w io.Writer, s *models.SpeciesSummary, generatedAt time.Time) error {
	if s == nil {
		return ErrNoData
	}
	d := newDocument("Reporte de Distribución de Especies", generatedAt)
	d.paragraph(
		"Fecha de generación: "+generatedAt.Format(dateLayout),
		fmt.Sprintf("Total de árboles analizados: %d", s.TotalTrees),
		fmt.Sprintf("Especies únicas identificadas: %d", s.UniqueSpecies),
	)
	d.heading(fmt.Sprintf("Top %d Especies Más Comunes", len(s.Top5)))
	d.speciesTable(SpeciesRows(s))
	return d.output(w)
}

// RenderGeneral writes the inventory overview report to w.
func RenderGeneral(w io.Writer, s *models.GeneralSummary, generatedAt time.Time) error {
	if s == nil {
		return ErrNoData
	}
	d := newDocument("Resumen General del Inventario Forestal", generatedAt)
	d.paragraph("Generado el: " + generatedAt.Format(dateLayout))
	for _, b := range GeneralBlocks(s) {
		d.heading(b.Heading)
		d.paragraph(b.Lines...)
	}
	return d.output(w)
}

type document struct {
	pdf *fpdf.Fpdf
}

func newDocument(title string, generatedAt time.Time) *document {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetCreator("forestreport", true)
	pdf.SetCreationDate(generatedAt)
	pdf.SetModificationDate(generatedAt)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, latin(fmt.Sprintf("Página %d/{nb}", pdf.PageNo())), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 24)
	pdf.SetTextColor(brandGreen.r, brandGreen.g, brandGreen.b)
	pdf.MultiCell(0, 12, latin(title), "", "C", false)
	pdf.Ln(10)
	return &document{pdf: pdf}
}

func (d *document) heading(text string) {
	d.pdf.SetFont("Helvetica", "B", 16)
	d.pdf.SetTextColor(black.r, black.g, black.b)
	d.pdf.CellFormat(0, 10, latin(text), "", 1, "L", false, 0, "")
	d.pdf.Ln(2)
}

func (d *document) paragraph(lines ...string) {
	d.pdf.SetFont("Helvetica", "", 11)
	d.pdf.SetTextColor(black.r, black.g, black.b)
	for _, l := range lines {
		d.pdf.MultiCell(0, 6, latin(l), "", "L", false)
	}
	d.pdf.Ln(6)
}

var speciesColumns = [3]struct {
	title string
	width float64
}{
	{"Especie", 76.2},
	{"Cantidad", 38.1},
	{"Porcentaje", 38.1},
}

func (d *document) speciesTable(rows []SpeciesRow) {
	pdf := d.pdf
	pageW, _ := pdf.GetPageSize()
	tableW := 0.0
	for _, c := range speciesColumns {
		tableW += c.width
	}
	left := (pageW - tableW) / 2

	pdf.SetDrawColor(black.r, black.g, black.b)
	pdf.SetLineWidth(0.3)

	pdf.SetX(left)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetFillColor(brandGreen.r, brandGreen.g, brandGreen.b)
	pdf.SetTextColor(whiteSmoke.r, whiteSmoke.g, whiteSmoke.b)
	for _, c := range speciesColumns {
		pdf.CellFormat(c.width, 10, c.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetFillColor(beige.r, beige.g, beige.b)
	pdf.SetTextColor(black.r, black.g, black.b)
	for _, r := range rows {
		pdf.SetX(left)
		cells := [3]string{r.Species, r.Count, r.Percent}
		for i, c := range speciesColumns {
			pdf.CellFormat(c.width, 8, latin(cells[i]), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}
}

func (d *document) output(w io.Writer) error {
	if err := d.pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

// latin converts UTF-8 text to Windows-1252, the encoding of the core PDF
// fonts. Characters outside it are replaced.
func latin(s string) string {
	out, err := encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder()).String(s)
	if err != nil {
		return s
	}
	return out
}
