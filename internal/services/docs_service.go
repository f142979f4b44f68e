package services

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	intconfig "busbackend/internal/config"
	"busbackend/internal/domain/models"
	"busbackend/internal/repositories"
	"busbackend/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService renders the PDF e-ticket of an owned ticket.
type DocsService struct {
	DB        *sql.DB
	Location  *time.Location
	RequestID string
	Loader    func(ctx context.Context, ticketID, userID int64) (ticketDocData, error)
}

type ticketDocData struct {
	Ticket        models.TicketPublic
	PassengerName string
	Email         string
}

func (s DocsService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

// GenerateETicket returns the PDF bytes and a download filename. Tickets of
// other users are reported as not found.
func (s DocsService) GenerateETicket(ctx context.Context, ticketID, userID int64) ([]byte, string, error) {
	data, err := s.load(ctx, ticketID, userID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_eticket", fmt.Sprintf("ticket_id=%d", ticketID))
	pdf, name, err := buildETicketPDF(data, s.Location)
	if err != nil {
		return nil, "", wrapInternal(err)
	}
	return pdf, name, nil
}

func (s DocsService) load(ctx context.Context, ticketID, userID int64) (ticketDocData, error) {
	if s.Loader != nil {
		return s.Loader(ctx, ticketID, userID)
	}
	var out ticketDocData
	tp, err := TicketService{DB: s.db(), Location: s.Location}.GetTicket(ctx, ticketID, userID)
	if err != nil {
		return out, err
	}
	out.Ticket = tp

	u, err := repositories.UserRepository{DB: s.db()}.GetByID(ctx, userID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return out, wrapInternal(err)
	}
	out.PassengerName = strings.TrimSpace(u.FirstName + " " + u.LastName)
	if out.PassengerName == "" {
		out.PassengerName = u.Username
	}
	out.Email = u.Email
	return out, nil
}

func buildETicketPDF(d ticketDocData, loc *time.Location) ([]byte, string, error) {
	if loc == nil {
		loc = time.UTC
	}
	t := d.Ticket

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Passenger   : %s", safe(d.PassengerName, "-")),
		fmt.Sprintf("Email       : %s", safe(d.Email, "-")),
		fmt.Sprintf("Route       : %s -> %s", t.Origin.Name(), t.Destination.Name()),
		fmt.Sprintf("Departure   : %s", utils.FormatDateTime(t.Schedule, loc)),
		fmt.Sprintf("Bus         : %s", safe(t.BusID, "-")),
		fmt.Sprintf("Seat        : %d", t.SeatNumber),
		fmt.Sprintf("Price       : %s", formatEuros(t.Price)),
		fmt.Sprintf("Ticket code : TCK-%d-%d", t.TravelID, t.ID),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Valid for one passenger and one seat. Tickets can be cancelled up to 24 hours before departure.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("ETICKET_%d_%s.pdf", t.ID, safeFilenamePart(string(t.Origin)+"_"+string(t.Destination)))
	return buf.Bytes(), filename, nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}

// formatEuros prints whole euros with dot thousands separators.
func formatEuros(v int64) string {
	if v <= 0 {
		return "0 EUR"
	}
	s := fmt.Sprintf("%d", v)
	var out []byte
	n := len(s)
	for i := 0; i < n; i++ {
		out = append(out, s[i])
		pos := n - i - 1
		if pos > 0 && pos%3 == 0 {
			out = append(out, '.')
		}
	}
	return string(out) + " EUR"
}
