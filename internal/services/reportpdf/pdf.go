package reportpdf

import (
	"fmt"
	"io"
	"strings"

	"osint-aggregator/internal/domain/model"

	"github.com/phpdave11/gofpdf"
)

// Render 把一份已生成的报告渲染为 PDF 并写入 w。
//
// 只渲染结构化部分（summary / findings / recommendations），
// raw_data 属于机器可读载荷，不进 PDF；需要原始数据走 JSON 端点。
func Render(w io.Writer, r model.Report) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.SetAutoPageBreak(true, 14)
	pdf.SetTitle("OSINT Report", false)

	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 9, "OSINT Report", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(0, 6, fmt.Sprintf("Report ID: %s", r.ReportID), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated at: %s", r.GeneratedAt), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	sectionTitle(pdf, "1. Summary")
	kv(pdf, "Total Findings", fmt.Sprintf("%d", r.Summary.TotalFindings))
	kv(pdf, "Social Media Profiles", fmt.Sprintf("%d", r.Summary.SocialMediaProfiles))
	kv(pdf, "Email Addresses", fmt.Sprintf("%d", r.Summary.EmailAddresses))
	kv(pdf, "Phone Numbers", fmt.Sprintf("%d", r.Summary.PhoneNumbers))
	kv(pdf, "Addresses", fmt.Sprintf("%d", r.Summary.Addresses))
	kv(pdf, "Images Found", fmt.Sprintf("%d", r.Summary.ImagesFound))
	pdf.Ln(2)

	sectionTitle(pdf, "2. Findings")
	if len(r.Findings) == 0 {
		empty(pdf)
	} else {
		for _, f := range r.Findings {
			line := fmt.Sprintf("[%s] %s", strings.ToUpper(f.Severity), f.Type)
			if f.Platform != "" {
				line += " @ " + f.Platform
			}
			line += fmt.Sprintf(" - %d record(s)", f.Count)
			pdf.SetFont("Helvetica", "", 10)
			pdf.SetTextColor(30, 30, 30)
			pdf.MultiCell(0, 5, line, "", "L", false)
		}
	}
	pdf.Ln(2)

	sectionTitle(pdf, "3. Recommendations")
	if len(r.Recommendations) == 0 {
		empty(pdf)
	} else {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(30, 30, 30)
		for _, rec := range r.Recommendations {
			pdf.MultiCell(0, 5, "- "+rec, "", "L", false)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render report pdf: %w", err)
	}
	return nil
}

func sectionTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(20, 20, 20)
	pdf.CellFormat(0, 7, title, "", 1, "L", false, 0, "")
}

func kv(pdf *gofpdf.Fpdf, key, value string) {
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(30, 30, 30)
	pdf.CellFormat(55, 5, key+":", "", 0, "L", false, 0, "")
	pdf.MultiCell(0, 5, value, "", "L", false)
}

func empty(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(90, 90, 90)
	pdf.MultiCell(0, 5, "(empty)", "", "L", false)
}
