package services

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Govind-619/CoinSphere/dao"
	"github.com/Govind-619/CoinSphere/utils"
	"github.com/jung-kurt/gofpdf"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

// statementRows caps how many ledger entries a PDF statement lists
const statementRows = 100

// ReportService renders wallet statements and ledger exports
type ReportService struct {
	db      *gorm.DB
	wallets *WalletService
}

func NewReportService(db *gorm.DB, wallets *WalletService) *ReportService {
	return &ReportService{db: db, wallets: wallets}
}

// StatementPDF renders the caller's most recent ledger entries as a PDF
func (s *ReportService) StatementPDF(ctx context.Context, caller Caller) ([]byte, error) {
	wallet, err := s.wallets.GetWallet(ctx, caller)
	if err != nil {
		return nil, err
	}
	records, _, err := dao.NewTransactionDAO(s.db.WithContext(ctx)).ListForWallet(wallet.ID, 0, statementRows)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(100, 10, utils.AppName)
	pdf.Ln(12)
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(100, 10, "WALLET STATEMENT")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(90, 8, "Wallet: "+wallet.Username)
	pdf.Cell(90, 8, "Generated: "+time.Now().Format("2006-01-02 15:04:05"))
	pdf.Ln(8)
	pdf.Cell(90, 8, fmt.Sprintf("Balance: %d %s", wallet.Balance, utils.TokenSymbol))
	pdf.Cell(90, 8, fmt.Sprintf("Mined: %d %s", wallet.TotalMined, utils.TokenSymbol))
	pdf.Ln(8)
	pdf.Cell(90, 8, fmt.Sprintf("Sent: %d %s", wallet.TotalSent, utils.TokenSymbol))
	pdf.Cell(90, 8, fmt.Sprintf("Received: %d %s", wallet.TotalReceived, utils.TokenSymbol))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(40, 8, "Date", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Type", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 8, "Dir", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Amount", "1", 0, "C", false, 0, "")
	pdf.CellFormat(70, 8, "Description", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, r := range records {
		direction := "IN"
		if r.FromWalletID != nil && *r.FromWalletID == wallet.ID {
			direction = "OUT"
		}
		pdf.CellFormat(40, 7, r.CreatedAt.Format("2006-01-02 15:04"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, r.TransactionType, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 7, direction, "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 7, strconv.FormatInt(r.Amount, 10), "1", 0, "R", false, 0, "")
		pdf.CellFormat(70, 7, r.Description, "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render statement: %w", err)
	}
	return buf.Bytes(), nil
}

// LedgerXLSX exports every ledger entry created in [from, to) as a spreadsheet
func (s *ReportService) LedgerXLSX(ctx context.Context, from, to time.Time) ([]byte, error) {
	if !from.Before(to) {
		return nil, validationError("'from' must be before 'to'")
	}
	records, err := dao.NewTransactionDAO(s.db.WithContext(ctx)).ListBetween(from, to)
	if err != nil {
		return nil, err
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Ledger")
	if err != nil {
		return nil, err
	}

	headerRow := sheet.AddRow()
	for _, h := range []string{"ID", "Date", "Type", "Status", "From Wallet", "To Wallet", "Amount", "Description", "Reference"} {
		cell := headerRow.AddCell()
		cell.SetString(h)
		style := xlsx.NewStyle()
		font := xlsx.DefaultFont()
		font.Bold = true
		style.Font = *font
		cell.SetStyle(style)
	}

	var total int64
	for _, r := range records {
		row := sheet.AddRow()
		row.AddCell().SetString(r.ID)
		row.AddCell().SetString(r.CreatedAt.Format("2006-01-02 15:04:05"))
		row.AddCell().SetString(r.TransactionType)
		row.AddCell().SetString(r.Status)
		row.AddCell().SetString(walletRef(r.FromWalletID))
		row.AddCell().SetString(walletRef(r.ToWalletID))
		row.AddCell().SetInt64(r.Amount)
		row.AddCell().SetString(r.Description)
		row.AddCell().SetString(r.Reference)
		total += r.Amount
	}

	sheet.AddRow() // spacing
	summary := sheet.AddRow()
	summary.AddCell().SetString("Entries")
	summary.AddCell().SetInt(len(records))
	summary = sheet.AddRow()
	summary.AddCell().SetString("Volume")
	summary.AddCell().SetInt64(total)

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, fmt.Errorf("render ledger export: %w", err)
	}
	return buf.Bytes(), nil
}

func walletRef(id *string) string {
	if id == nil {
		return "-"
	}
	return *id
}
