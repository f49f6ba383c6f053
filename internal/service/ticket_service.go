package service

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"smartparking/internal/db"
	"smartparking/internal/utils"
)

var ticketInstructions = []string{
	"Please arrive on time for your booking.",
	"Show this ticket to the parking attendant on arrival.",
	"Park only in your assigned slot.",
	"Cash payments are collected at the parking location.",
	"Keep this ticket until you leave the parking area.",
}

// TicketService renders parking tickets as PDF documents.
type TicketService struct {
	loc *time.Location
	now func() time.Time
}

func NewTicketService(loc *time.Location) *TicketService {
	return &TicketService{loc: loc, now: time.Now}
}

// TicketFilename is the download name used for a booking's ticket.
func TicketFilename(code string) string {
	return fmt.Sprintf("parking_ticket_%s.pdf", code)
}

func (t *TicketService) Render(b *db.Booking, location *db.ParkingLocation, slot *db.ParkingSlot) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Parking Ticket "+b.Code, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "SMART PARKING TICKET", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Booking "+b.Code, "", 1, "C", false, 0, "")
	pdf.Ln(6)

	section(pdf, "Booking Details")
	rows := [][2]string{
		{"Location", location.Name},
		{"Address", joinNonEmpty(location.Address, location.City, location.State)},
		{"Slot", fmt.Sprintf("%s (%s)", slot.SlotNumber, utils.VehicleTypeLabel(slot.VehicleType))},
		{"Vehicle Number", b.VehicleNumber},
		{"Date", b.BookingDate.Format("02 Jan 2006")},
		{"Time", fmt.Sprintf("%s - %s", b.StartTime, b.EndTime)},
		{"Duration", fmt.Sprintf("%.1f hours", b.DurationHours)},
	}
	for _, r := range rows {
		row(pdf, r[0], r[1])
	}
	pdf.Ln(4)

	section(pdf, "Customer")
	row(pdf, "Name", b.CustomerName)
	row(pdf, "Email", b.CustomerEmail)
	row(pdf, "Phone", b.CustomerPhone)
	pdf.Ln(4)

	section(pdf, "Payment")
	row(pdf, "Amount", fmt.Sprintf("Rs. %.2f", b.TotalPrice))
	row(pdf, "Method", strings.ToUpper(orDash(b.PaymentMethod)))
	row(pdf, "Status", strings.ToUpper(b.PaymentStatus))
	pdf.Ln(4)

	section(pdf, "Instructions")
	pdf.SetFont("Helvetica", "", 10)
	for i, line := range ticketInstructions {
		pdf.MultiCell(0, 6, fmt.Sprintf("%d. %s", i+1, line), "", "", false)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(0, 5, "Generated "+t.now().In(t.loc).Format("2006-01-02 15:04 MST"), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering ticket %s: %w", b.Code, err)
	}
	return buf.Bytes(), nil
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, title)
	pdf.Ln(9)
}

func row(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(45, 7, label+":", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, orDash(value), "", 1, "L", false, 0, "")
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func joinNonEmpty(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}
