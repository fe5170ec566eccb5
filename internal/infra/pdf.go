package infra

// pdf.go — arqueo ticket generation using go-pdf/fpdf.
// Renders a thermal-receipt style summary of a closed session:
//   - Caja code and session id
//   - Every sale of the session with its document number
//   - Opening amount, cash sales, manual movements
//   - Expected vs declared amount with the difference highlighted
//
// The output file is saved to storagePath/arqueo_{sesion}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Eduardv6/SisPOS-Backend/internal/dto"
	"github.com/Eduardv6/SisPOS-Backend/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateArqueoPDF writes the cash-count ticket for a closed session.
// storagePath is created if needed. Returns the path to the generated file.
func GenerateArqueoPDF(arqueo *dto.ArqueoResponse, ventas []model.Venta, cajaCodigo, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("arqueo_%s.pdf", arqueo.SesionID)
	filePath := filepath.Join(storagePath, fileName)

	// 74mm × 140mm — thermal receipt paper with room for the movement block
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 140},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, "SisPOS", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Arqueo de Caja", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Caja %s", cajaCodigo), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, fmt.Sprintf("Sesion %s", arqueo.SesionID), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, fmt.Sprintf("Apertura  %s", arqueo.FechaInicio), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, fmt.Sprintf("Cierre    %s", arqueo.FechaFin), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	col1 := contentW * 0.60
	col2 := contentW * 0.40

	// ── Sales block ──────────────────────────────────────────────────────────
	if len(ventas) > 0 {
		pdf.SetFont("Helvetica", "B", 7)
		pdf.CellFormat(contentW, 4, "Ventas de la sesion", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 7)
		for _, v := range ventas {
			etiqueta := v.NumeroDocumento
			if v.Estado == model.VentaAnulada {
				etiqueta += " (anulada)"
			}
			pdf.CellFormat(col1, 4, etiqueta, "", 0, "L", false, 0, "")
			pdf.CellFormat(col2, 4, v.Total.StringFixed(2), "", 1, "R", false, 0, "")
		}
		pdf.Ln(1)
		pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
		pdf.Ln(2)
	}

	// ── Movement block ────────────────────────────────────────────────────────

	linea := func(label, valor string, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 8)
		pdf.CellFormat(col1, 5, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, valor, "", 1, "R", false, 0, "")
	}

	linea("Monto inicial", arqueo.MontoInicial.StringFixed(2), false)
	linea(fmt.Sprintf("Ventas efectivo (%d)", arqueo.TotalVentas), arqueo.VentasEfectivo.StringFixed(2), false)
	linea("Ingresos manuales", arqueo.Ingresos.StringFixed(2), false)
	linea("Retiros manuales", "-"+arqueo.Retiros.StringFixed(2), false)
	pdf.Ln(1)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(1)

	linea("Esperado", arqueo.MontoEsperado.StringFixed(2), true)
	linea("Declarado", arqueo.MontoDeclarado.StringFixed(2), true)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(col1, 7, "DIFERENCIA", "T", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 7, arqueo.Diferencia.StringFixed(2), "T", 1, "R", false, 0, "")

	if !arqueo.Diferencia.IsZero() {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "I", 7)
		pdf.CellFormat(contentW, 4, "Revisar diferencia con el cajero responsable", "", 1, "C", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write %s: %w", filePath, err)
	}
	return filePath, nil
}
