package services

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"
	"github.com/yeremiapane/reservation-app/models"
)

var sheetColumns = []struct {
	title string
	width float64
}{
	{"Time", 20},
	{"Name", 60},
	{"Mobile", 45},
	{"Party", 20},
	{"Status", 35},
}

// RenderDailySheet writes the host-stand sheet for one day as a PDF.
func RenderDailySheet(w io.Writer, date string, reservations []models.Reservation) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Reservations "+date, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Reservations for "+date)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(230, 230, 230)
	for _, col := range sheetColumns {
		pdf.CellFormat(col.width, 8, col.title, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 11)
	if len(reservations) == 0 {
		pdf.CellFormat(180, 8, "No open reservations", "1", 1, "C", false, 0, "")
	}
	for _, r := range reservations {
		row := []string{
			r.ReservationTime,
			r.FullName(),
			r.MobileNumber,
			strconv.Itoa(r.People),
			string(r.Status),
		}
		for i, col := range sheetColumns {
			pdf.CellFormat(col.width, 8, row[i], "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.Cell(0, 6, fmt.Sprintf("%d reservation(s)", len(reservations)))

	return pdf.Output(w)
}
