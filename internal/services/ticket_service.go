package services

import (
	"bytes"
	"fmt"

	"github.com/phpdave11/gofpdf"
	"github.com/wanderlite/bus-booking-backend/internal/models"
)

// TicketService renders a booking as a PDF e-ticket
type TicketService struct{}

// NewTicketService creates a new TicketService
func NewTicketService() *TicketService {
	return &TicketService{}
}

// GenerateETicket builds the PDF e-ticket for a booking: PNR, route and
// departure, the passenger/seat manifest, and the fare summary.
func (s *TicketService) GenerateETicket(detail *models.BookingDetail) ([]byte, string, error) {
	b := detail.Booking

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket "+b.PNR, false)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, "WanderLite Bus E-Ticket")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 6, "PNR: "+b.PNR)
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	if detail.Schedule != nil {
		pdf.Cell(0, 5, fmt.Sprintf("%s to %s", detail.Schedule.RouteFrom, detail.Schedule.RouteTo))
		pdf.Ln(5)
		pdf.Cell(0, 5, fmt.Sprintf("Departure: %s at %s", b.JourneyDate.Format("02 Jan 2006"), detail.Schedule.DepartureTime))
		pdf.Ln(5)
	}
	pdf.Cell(0, 5, "Contact: "+b.ContactName+" / "+b.ContactPhone)
	pdf.Ln(8)

	// Passenger manifest
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(70, 7, "PASSENGER", "B", 0, "L", false, 0, "")
	pdf.CellFormat(20, 7, "AGE", "B", 0, "L", false, 0, "")
	pdf.CellFormat(30, 7, "SEAT", "B", 0, "L", false, 0, "")
	pdf.CellFormat(40, 7, "FARE (INR)", "B", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, p := range detail.Passengers {
		seat := p.SeatID
		if label, ok := detail.SeatLabels[p.SeatID]; ok {
			seat = label
		}
		pdf.CellFormat(70, 7, p.Name, "", 0, "L", false, 0, "")
		pdf.CellFormat(20, 7, fmt.Sprintf("%d", p.Age), "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, seat, "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, fmt.Sprintf("%.2f", p.SeatPrice), "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	// Fare summary
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(120, 6, "Total", "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 6, fmt.Sprintf("%.2f", b.TotalAmount), "", 1, "R", false, 0, "")
	if b.DiscountAmount > 0 {
		pdf.CellFormat(120, 6, "Discount", "", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("-%.2f", b.DiscountAmount), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(120, 7, "Amount Paid", "T", 0, "R", false, 0, "")
	pdf.CellFormat(40, 7, fmt.Sprintf("%.2f", b.FinalAmount), "T", 1, "R", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Arial", "I", 8)
	pdf.Cell(0, 5, "* Boarding closes 30 minutes before departure. For queries: support@wanderlite.com | PNR: "+b.PNR)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to render e-ticket: %w", err)
	}

	filename := fmt.Sprintf("eticket-%s.pdf", b.PNR)
	return buf.Bytes(), filename, nil
}
