package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Generator — интерфейс (удобно мокать в тестах)
type Generator interface {
	GenerateReceipt(data ReceiptData) (string, error)
}

// ReceiptGenerator пишет PDF-квитанции в RootDir.
type ReceiptGenerator struct {
	RootDir  string // корень хранения, например "./files"
	FontPath string // TTF для UTF-8; пусто — встроенный Helvetica
	fontName string
}

type ReceiptData struct {
	TransactionID    int64
	Reference        string
	Date             time.Time
	ClientName       string
	ClientEmail      string
	Description      string
	Type             string
	Status           string
	Amount           float64
	Currency         string
	ConfirmationCode string
	RefundStatus     string
	Filename         string // имя файла (без путей); если пусто — сгенерируем
}

func NewReceiptGenerator(rootDir, fontPath string) *ReceiptGenerator {
	g := &ReceiptGenerator{
		RootDir:  filepath.Clean(rootDir),
		FontPath: fontPath,
		fontName: "Helvetica",
	}
	if fontPath != "" {
		g.fontName = "DejaVu"
	}
	return g
}

// GenerateReceipt возвращает абсолютный путь к файлу.
func (g *ReceiptGenerator) GenerateReceipt(data ReceiptData) (string, error) {
	filename := data.Filename
	if filename == "" {
		filename = fmt.Sprintf("receipt_%d.pdf", data.TransactionID)
	}
	absPath, err := g.ensureTarget(filename)
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Receipt %s", data.Reference), false)
	pdf.SetAuthor("Maids Centre", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	g.addFont(pdf)
	tr := g.translator(pdf)
	pdf.AddPage()

	// ===== Заголовок
	pdf.SetFont(g.fontName, "B", 18)
	pdf.CellFormat(0, 10, "PAYMENT RECEIPT", "", 1, "C", false, 0, "")
	pdf.SetFont(g.fontName, "", 12)
	pdf.CellFormat(0, 7, tr(fmt.Sprintf("%s  -  %s", data.Reference, data.Date.Format("02 Jan 2006 15:04"))), "", 1, "C", false, 0, "")
	g.hr(pdf)
	pdf.Ln(3)

	g.sectionTitle(pdf, "Billed to")
	g.kvLine(pdf, tr, "Name", data.ClientName)
	if data.ClientEmail != "" {
		g.kvLine(pdf, tr, "Email", data.ClientEmail)
	}
	pdf.Ln(2)
	g.hr(pdf)

	g.sectionTitle(pdf, "Payment")
	g.kvLine(pdf, tr, "Description", data.Description)
	g.kvLine(pdf, tr, "Type", data.Type)
	g.kvLine(pdf, tr, "Status", data.Status)
	if data.ConfirmationCode != "" {
		g.kvLine(pdf, tr, "Confirmation", data.ConfirmationCode)
	}
	if data.RefundStatus != "" {
		g.kvLine(pdf, tr, "Refund", data.RefundStatus)
	}
	pdf.Ln(2)
	g.hr(pdf)

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, tr(fmt.Sprintf("Total: %.2f %s", data.Amount, data.Currency)), "", 1, "R", false, 0, "")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(g.fontName, "", 9)
		pdf.CellFormat(0, 10, "Maids Centre - thank you for your business", "", 0, "C", false, 0, "")
	})

	if err := pdf.OutputFileAndClose(absPath); err != nil {
		return "", err
	}
	return absPath, nil
}

// ===== helpers =====

func (g *ReceiptGenerator) sectionTitle(pdf *gofpdf.Fpdf, s string) {
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 7, s, "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
}

func (g *ReceiptGenerator) kvLine(pdf *gofpdf.Fpdf, tr func(string) string, key, val string) {
	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(45, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.MultiCell(0, 6, tr(val), "", "L", false)
}

func (g *ReceiptGenerator) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}

func (g *ReceiptGenerator) ensureTarget(filename string) (string, error) {
	if err := os.MkdirAll(g.RootDir, 0o755); err != nil {
		return "", fmt.Errorf("create files dir: %w", err)
	}
	filename = filepath.Base(filename) // безопасность
	abs, err := filepath.Abs(filepath.Join(g.RootDir, filename))
	if err != nil {
		return "", err
	}
	return abs, nil
}

func (g *ReceiptGenerator) addFont(pdf *gofpdf.Fpdf) {
	if g.FontPath == "" {
		return
	}
	// AddUTF8Font принимает путь до TTF
	pdf.AddUTF8Font(g.fontName, "", g.FontPath)
	pdf.AddUTF8Font(g.fontName, "B", g.FontPath)
}

// translator: с TTF текст уже UTF-8, со встроенным шрифтом переводим в cp1252.
func (g *ReceiptGenerator) translator(pdf *gofpdf.Fpdf) func(string) string {
	if g.FontPath != "" {
		return func(s string) string { return s }
	}
	return pdf.UnicodeTranslatorFromDescriptor("")
}
