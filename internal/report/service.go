package report

import (
	"bytes"
	"context"
	"fmt"

	"tripmarket/internal/booking"
	"tripmarket/internal/money"
	"tripmarket/internal/wallet"

	"github.com/phpdave11/gofpdf"
)

const statementPageSize = 200

// Service renders booking payment receipts and wallet statements as PDFs.
type Service struct {
	bookings booking.Service
	wallets  wallet.Repository
}

func NewService(bookings booking.Service, wallets wallet.Repository) *Service {
	return &Service{bookings: bookings, wallets: wallets}
}

// BookingReceipt renders the booking's ordered payment details with a
// claimed/remaining summary.
func (s *Service) BookingReceipt(ctx context.Context, bookingID int) ([]byte, string, error) {
	b, details, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Payment Receipt", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "PAYMENT RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Booking        : #%d", b.ID),
		fmt.Sprintf("Customer       : %s", safe(b.CustomerName, "-")),
		fmt.Sprintf("Lead passenger : %s", safe(b.LeadPaxName, "-")),
		fmt.Sprintf("Status         : %s / %s", b.BookingStatus, b.PaymentStatus),
		fmt.Sprintf("Total          : %s", money.New(b.TotalCents, b.Currency).String()),
		fmt.Sprintf("Claimed        : %s", money.New(b.ClaimedCents, b.Currency).String()),
		fmt.Sprintf("Remaining      : %s", money.New(b.RemainingCents(), b.Currency).String()),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Payment details")
	pdf.Ln(9)

	pdf.SetFont("Helvetica", "", 10)
	if len(details) == 0 {
		pdf.Cell(0, 6, "No payments posted yet.")
		pdf.Ln(6)
	}
	for i, d := range details {
		line := fmt.Sprintf("%d) %s  %s  %s  rate %.4f  settled %s",
			i+1,
			d.ClaimDate.Format("2006-01-02"),
			safe(d.TransactionID, "-"),
			money.New(d.AmountCents, d.Currency).String(),
			d.RateOfExchange,
			money.New(d.ClaimedCents, b.Currency).String(),
		)
		pdf.MultiCell(0, 6, line, "", "", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("RECEIPT_%d.pdf", b.ID)
	return buf.Bytes(), filename, nil
}

// WalletStatement renders the agent's ledger newest first, up to
// statementPageSize entries.
func (s *Service) WalletStatement(ctx context.Context, agentID int) ([]byte, string, error) {
	w, err := s.wallets.GetWalletByAgent(ctx, agentID)
	if err != nil {
		return nil, "", err
	}

	txs, total, err := s.wallets.ListTransactions(ctx, agentID, statementPageSize, 0)
	if err != nil {
		return nil, "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Wallet Statement", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "WALLET STATEMENT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Agent        : #%d", w.AgentID),
		fmt.Sprintf("Balance      : %s", money.New(w.BalanceCents, w.Currency).String()),
		fmt.Sprintf("Credit limit : %s", money.New(w.CreditLimitCents, w.Currency).String()),
		fmt.Sprintf("Entries      : %d", total),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Ledger")
	pdf.Ln(9)

	pdf.SetFont("Helvetica", "", 10)
	if len(txs) == 0 {
		pdf.Cell(0, 6, "No transactions.")
		pdf.Ln(6)
	}
	for _, txn := range txs {
		sign := "+"
		if txn.Type == wallet.TypeDebit {
			sign = "-"
		}
		line := fmt.Sprintf("%s  %s%s  %s  balance %s",
			txn.CreatedAt.Format("2006-01-02 15:04"),
			sign,
			money.New(txn.AmountCents, w.Currency).String(),
			safe(txn.Description, "-"),
			money.New(txn.BalanceAfterCents, w.Currency).String(),
		)
		pdf.MultiCell(0, 6, line, "", "", false)
	}

	if total > len(txs) {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.Cell(0, 6, fmt.Sprintf("Showing latest %d of %d entries.", len(txs), total))
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("STATEMENT_AGENT_%d.pdf", agentID)
	return buf.Bytes(), filename, nil
}

func safe(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
