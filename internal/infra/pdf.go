package infra

// pdf.go — Document PDF generation using go-pdf/fpdf.
// Renders A4 invoices and quotes with:
//   - Business header (name, address, tax id)
//   - Client block
//   - Line-item table (description, qty, unit price, discount, VAT, total)
//   - Totals block (subtotal / tax / grand total)
// and A5 payment receipts. Rendering is pure: fully-loaded aggregates in,
// file path out — no persistence knowledge.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/naimlawani01/facturerapide-api/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// docLine is the shared row shape for invoice and quote items.
type docLine struct {
	Description string
	Quantity    decimal.Decimal
	Unit        string
	UnitPrice   decimal.Decimal
	DiscountPct decimal.Decimal
	TaxRate     decimal.Decimal
	Total       decimal.Decimal
}

// GenerateInvoicePDF renders an invoice to storagePath/{invoice_number}.pdf
// and returns the absolute file path.
func GenerateInvoicePDF(inv *model.Invoice, owner *model.User, storagePath string) (string, error) {
	lines := make([]docLine, 0, len(inv.Items))
	for idx := range inv.Items {
		it := &inv.Items[idx]
		lines = append(lines, docLine{
			Description: it.Description,
			Quantity:    it.Quantity,
			Unit:        it.Unit,
			UnitPrice:   it.UnitPrice,
			DiscountPct: it.DiscountPercent,
			TaxRate:     it.TaxRate,
			Total:       it.Total(),
		})
	}
	meta := [][2]string{
		{"Date d'émission", inv.IssueDate.Format("02/01/2006")},
		{"Date d'échéance", inv.DueDate.Format("02/01/2006")},
	}
	return renderDocument(storagePath, "FACTURE", inv.InvoiceNumber, owner, inv.Client,
		meta, lines, inv.Subtotal, inv.TaxTotal, inv.Total, inv.Notes, inv.Terms)
}

// GenerateQuotePDF renders a quote to storagePath/{quote_number}.pdf.
func GenerateQuotePDF(q *model.Quote, owner *model.User, storagePath string) (string, error) {
	lines := make([]docLine, 0, len(q.Items))
	for idx := range q.Items {
		it := &q.Items[idx]
		lines = append(lines, docLine{
			Description: it.Description,
			Quantity:    it.Quantity,
			Unit:        it.Unit,
			UnitPrice:   it.UnitPrice,
			DiscountPct: it.DiscountPercent,
			TaxRate:     it.TaxRate,
			Total:       it.Total(),
		})
	}
	meta := [][2]string{
		{"Date d'émission", q.IssueDate.Format("02/01/2006")},
		{"Valable jusqu'au", q.ValidityDate.Format("02/01/2006")},
	}
	return renderDocument(storagePath, "DEVIS", q.QuoteNumber, owner, q.Client,
		meta, lines, q.Subtotal, q.TaxTotal, q.Total, q.Notes, q.Terms)
}

func renderDocument(
	storagePath, kind, number string,
	owner *model.User,
	client *model.Client,
	meta [][2]string,
	lines []docLine,
	subtotal, taxTotal, total decimal.Decimal,
	notes, terms *string,
) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, number+".pdf")

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 18)
	businessName := owner.FullName
	if owner.BusinessName != nil && *owner.BusinessName != "" {
		businessName = *owner.BusinessName
	}
	pdf.CellFormat(contentW/2, 9, tr(businessName), "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW/2, 9, tr(kind+" "+number), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	if owner.BusinessAddress != nil {
		pdf.CellFormat(contentW, 5, tr(*owner.BusinessAddress), "", 1, "L", false, 0, "")
	}
	if owner.TaxID != nil {
		pdf.CellFormat(contentW, 5, tr("SIRET : "+*owner.TaxID), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// ── Meta + client block ──────────────────────────────────────────────────
	for _, kv := range meta {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(40, 5, tr(kv[0]+" :"), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(contentW-40, 5, kv[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	if client != nil {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(contentW, 5, tr("Facturé à"), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(contentW, 5, tr(client.Name), "", 1, "L", false, 0, "")
		if client.Address != nil {
			pdf.CellFormat(contentW, 5, tr(*client.Address), "", 1, "L", false, 0, "")
		}
		if client.City != nil || client.PostalCode != nil {
			line := ""
			if client.PostalCode != nil {
				line = *client.PostalCode + " "
			}
			if client.City != nil {
				line += *client.City
			}
			pdf.CellFormat(contentW, 5, tr(line), "", 1, "L", false, 0, "")
		}
	}
	pdf.Ln(5)

	// ── Line-item table ──────────────────────────────────────────────────────
	colDesc := contentW * 0.34
	colQty := contentW * 0.10
	colUnit := contentW * 0.10
	colPrice := contentW * 0.14
	colDisc := contentW * 0.09
	colTax := contentW * 0.09
	colTotal := contentW * 0.14

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(243, 244, 246)
	pdf.CellFormat(colDesc, 7, "Description", "B", 0, "L", true, 0, "")
	pdf.CellFormat(colQty, 7, tr("Qté"), "B", 0, "C", true, 0, "")
	pdf.CellFormat(colUnit, 7, tr("Unité"), "B", 0, "C", true, 0, "")
	pdf.CellFormat(colPrice, 7, "P.U. HT", "B", 0, "R", true, 0, "")
	pdf.CellFormat(colDisc, 7, "Remise", "B", 0, "R", true, 0, "")
	pdf.CellFormat(colTax, 7, "TVA", "B", 0, "R", true, 0, "")
	pdf.CellFormat(colTotal, 7, "Total TTC", "B", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	for _, l := range lines {
		desc := l.Description
		if len(desc) > 48 {
			desc = desc[:47] + "…"
		}
		pdf.CellFormat(colDesc, 6, tr(desc), "", 0, "L", false, 0, "")
		pdf.CellFormat(colQty, 6, l.Quantity.String(), "", 0, "C", false, 0, "")
		pdf.CellFormat(colUnit, 6, tr(l.Unit), "", 0, "C", false, 0, "")
		pdf.CellFormat(colPrice, 6, l.UnitPrice.StringFixed(2)+" EUR", "", 0, "R", false, 0, "")
		pdf.CellFormat(colDisc, 6, l.DiscountPct.StringFixed(0)+" %", "", 0, "R", false, 0, "")
		pdf.CellFormat(colTax, 6, l.TaxRate.StringFixed(0)+" %", "", 0, "R", false, 0, "")
		pdf.CellFormat(colTotal, 6, l.Total.Round(2).StringFixed(2)+" EUR", "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ───────────────────────────────────────────────────────────────
	labelW := contentW - colTotal
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(labelW, 6, "Total HT :", "", 0, "R", false, 0, "")
	pdf.CellFormat(colTotal, 6, subtotal.StringFixed(2)+" EUR", "", 1, "R", false, 0, "")
	pdf.CellFormat(labelW, 6, "Total TVA :", "", 0, "R", false, 0, "")
	pdf.CellFormat(colTotal, 6, taxTotal.StringFixed(2)+" EUR", "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(labelW, 8, "Total TTC :", "", 0, "R", false, 0, "")
	pdf.CellFormat(colTotal, 8, total.StringFixed(2)+" EUR", "", 1, "R", false, 0, "")

	// ── Notes / terms ────────────────────────────────────────────────────────
	if notes != nil && *notes != "" {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(contentW, 5, "Notes", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 8)
		pdf.MultiCell(contentW, 4, tr(*notes), "", "L", false)
	}
	if terms != nil && *terms != "" {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(contentW, 5, "Conditions", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 8)
		pdf.MultiCell(contentW, 4, tr(*terms), "", "L", false)
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}

// GenerateReceiptPDF renders an A5 payment receipt beside the invoice PDFs.
func GenerateReceiptPDF(inv *model.Invoice, payment *model.Payment, owner *model.User, client *model.Client, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	fileName := fmt.Sprintf("recu_%s_%s.pdf", inv.InvoiceNumber, payment.ID)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	businessName := owner.FullName
	if owner.BusinessName != nil && *owner.BusinessName != "" {
		businessName = *owner.BusinessName
	}
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, tr(businessName), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, tr("Reçu de paiement"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	rows := [][2]string{
		{"Facture", inv.InvoiceNumber},
		{"Client", client.Name},
		{"Date", payment.PaymentDate.Format("02/01/2006")},
		{"Mode de paiement", payment.PaymentMethod},
		{"Montant", payment.Amount.StringFixed(2) + " EUR"},
		{"Solde restant", inv.BalanceDue().StringFixed(2) + " EUR"},
	}
	if payment.Reference != nil && *payment.Reference != "" {
		rows = append(rows, [2]string{tr("Référence"), *payment.Reference})
	}
	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(45, 6, tr(row[0]+" :"), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(contentW-45, 6, tr(row[1]), "", 1, "L", false, 0, "")
	}

	pdf.Ln(5)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 5, tr("Merci pour votre confiance."), "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
