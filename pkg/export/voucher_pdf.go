package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// VoucherData carries everything printed on a payment voucher.
type VoucherData struct {
	EnrollmentID  string
	StudentName   string
	CourseTitle   string
	Fees          int64
	BankName      string
	AccountTitle  string
	AccountNumber string
	IssuedAt      time.Time
	DueDate       time.Time
}

// VoucherRenderer renders payment vouchers as printable PDFs.
type VoucherRenderer struct {
	instituteName string
}

// NewVoucherRenderer constructs a renderer with the institute name
// used as the document header.
func NewVoucherRenderer(instituteName string) *VoucherRenderer {
	if instituteName == "" {
		instituteName = "Skillport Institute of Technology"
	}
	return &VoucherRenderer{instituteName: instituteName}
}

// Render produces the voucher PDF. The layout is a single A5 slip: a
// header, the payment reference, and a two-column detail table.
func (r *VoucherRenderer) Render(data VoucherData) ([]byte, error) {
	if data.EnrollmentID == "" {
		return nil, fmt.Errorf("voucher requires an enrollment id")
	}

	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(12, 14, 12)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 9, r.instituteName, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, "Fee Payment Voucher", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Reference: %s", data.EnrollmentID), "1", 1, "C", false, 0, "")
	pdf.Ln(4)

	rows := [][2]string{
		{"Student", data.StudentName},
		{"Course", data.CourseTitle},
		{"Amount Due", fmt.Sprintf("PKR %d", data.Fees)},
		{"Bank", data.BankName},
		{"Account Title", data.AccountTitle},
		{"Account Number", data.AccountNumber},
		{"Issued", data.IssuedAt.Format("02 Jan 2006")},
		{"Due By", data.DueDate.Format("02 Jan 2006")},
	}

	labelWidth := 45.0
	valueWidth := 80.0
	for _, row := range rows {
		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(labelWidth, 7, row[0], "1", 0, "", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(valueWidth, 7, row[1], "1", 1, "", false, 0, "")
	}

	pdf.Ln(5)
	pdf.SetFont("Arial", "I", 8)
	pdf.MultiCell(0, 4, "Pay at any branch and upload a photo or scan of the stamped slip to complete your enrollment. This voucher is not a receipt.", "", "", false)

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render voucher pdf: %w", err)
	}
	return buf.Bytes(), nil
}
