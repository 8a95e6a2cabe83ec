package invoice

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/m04kA/VenueBookingService/internal/domain"
)

// Issuer реквизиты продавца в шапке счета
type Issuer struct {
	Name    string
	Address string
	TaxID   string
}

// Renderer формирует PDF счета по слепку цены бронирования.
// Цена не пересчитывается из каталога
type Renderer struct {
	issuer   Issuer
	currency string
}

func NewRenderer(issuer Issuer, currency string) *Renderer {
	return &Renderer{issuer: issuer, currency: currency}
}

// Render возвращает PDF документ
func (r *Renderer) Render(b *domain.Booking, issuedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice "+b.InvoiceNumber, false)
	pdf.SetCreator(r.issuer.Name, false)
	pdf.AddPage()

	// Шапка
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, r.issuer.Name, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	if r.issuer.Address != "" {
		pdf.CellFormat(0, 5, r.issuer.Address, "", 1, "L", false, 0, "")
	}
	if r.issuer.TaxID != "" {
		pdf.CellFormat(0, 5, "GSTIN: "+r.issuer.TaxID, "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "INVOICE "+b.InvoiceNumber, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, "Issued: "+issuedAt.Format(domain.DateFormat), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// Клиент и событие
	r.row(pdf, "Customer", b.Customer.Name)
	r.row(pdf, "Email", b.Customer.Email)
	r.row(pdf, "Mobile", b.Customer.Mobile)
	r.row(pdf, "Event", b.EventType)
	r.row(pdf, "Date", b.Date.Format(domain.DateFormat))
	r.row(pdf, "Time", fmt.Sprintf("%s - %s", b.StartTime, b.EndTime))
	r.row(pdf, "Guests", fmt.Sprintf("%d", b.GuestCount))
	r.row(pdf, "Status", fmt.Sprintf("%s / payment %s", b.Status, b.PaymentStatus))
	pdf.Ln(4)

	// Расчет
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(130, 8, "Item", "1", 0, "L", true, 0, "")
	pdf.CellFormat(50, 8, "Amount ("+r.currency+")", "1", 1, "R", true, 0, "")
	pdf.SetFont("Helvetica", "", 11)

	r.line(pdf, "Base price", b.Pricing.BasePrice)
	if b.Pricing.SlotPrice != 0 {
		r.line(pdf, "Time slot", b.Pricing.SlotPrice)
	}
	if b.Pricing.AddonsTotal != 0 {
		r.line(pdf, "Add-ons", b.Pricing.AddonsTotal)
	}
	r.line(pdf, "Subtotal", b.Pricing.Subtotal())
	r.line(pdf, "Tax", b.Pricing.Tax)

	pdf.SetFont("Helvetica", "B", 11)
	r.line(pdf, "Total", b.Pricing.TotalAmount)
	pdf.SetFont("Helvetica", "", 11)
	r.line(pdf, "Paid", b.PaidAmount)
	r.line(pdf, "Balance due", b.OutstandingAmount())

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice %s: %w", b.InvoiceNumber, err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) row(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(30, 6, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}

func (r *Renderer) line(pdf *gofpdf.Fpdf, label string, amount int64) {
	pdf.CellFormat(130, 7, label, "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 7, formatAmount(amount), "1", 1, "R", false, 0, "")
}

// formatAmount группирует разряды: 59000 -> 59,000
func formatAmount(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	s := fmt.Sprintf("%d", amount)
	out := make([]byte, 0, len(s)+len(s)/3)
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	return sign + string(out)
}
