package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"lexcase_app_go/models"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// PDFOptions controls page geometry for rendered PDFs
type PDFOptions struct {
	PageOrientation string // portrait, landscape
	PageSize        string // letter, legal, A4
	MarginTop       int    // points (72 = 1 inch)
	MarginBottom    int
	MarginLeft      int
	MarginRight     int
}

// DefaultPDFOptions returns A4 portrait with one-inch margins
func DefaultPDFOptions() PDFOptions {
	return PDFOptions{
		PageOrientation: "portrait",
		PageSize:        "A4",
		MarginTop:       72,
		MarginBottom:    72,
		MarginLeft:      72,
		MarginRight:     72,
	}
}

// GeneratePDF renders HTML content to PDF using headless Chrome. The
// chromePath argument points at a headless-shell binary; empty means
// whatever chromedp finds on PATH.
func GeneratePDF(htmlContent string, chromePath string, options PDFOptions) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
	)
	if chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	defer allocCancel()

	ctx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	var paperWidth, paperHeight float64
	switch options.PageSize {
	case "legal":
		paperWidth, paperHeight = 8.5, 14.0
	case "letter":
		paperWidth, paperHeight = 8.5, 11.0
	default: // A4
		paperWidth, paperHeight = 8.27, 11.69
	}
	if options.PageOrientation == "landscape" {
		paperWidth, paperHeight = paperHeight, paperWidth
	}

	marginTop := float64(options.MarginTop) / 72.0
	marginBottom := float64(options.MarginBottom) / 72.0
	marginLeft := float64(options.MarginLeft) / 72.0
	marginRight := float64(options.MarginRight) / 72.0

	var pdfBuf []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.Sleep(100*time.Millisecond),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPaperWidth(paperWidth).
				WithPaperHeight(paperHeight).
				WithMarginTop(marginTop).
				WithMarginBottom(marginBottom).
				WithMarginLeft(marginLeft).
				WithMarginRight(marginRight).
				WithPrintBackground(true).
				WithDisplayHeaderFooter(false).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfBuf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return pdfBuf, nil
}

var caseSummaryTemplate = template.Must(template.New("case_summary").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Georgia, serif; font-size: 12pt; color: #1a1a1a; }
  h1 { font-size: 16pt; margin-bottom: 2pt; }
  h2 { font-size: 13pt; margin-top: 18pt; border-bottom: 1px solid #999; }
  .firm { color: #555; margin-bottom: 18pt; }
  table { width: 100%; border-collapse: collapse; }
  td { padding: 4pt 8pt 4pt 0; vertical-align: top; }
  td.label { width: 30%; color: #555; }
  .hearing { margin: 2pt 0; }
</style>
</head>
<body>
  <h1>Case {{.Case.Reference}}</h1>
  <div class="firm">{{.Case.FirmName}}</div>

  <h2>Details</h2>
  <table>
    <tr><td class="label">Type</td><td>{{.Case.Type}}</td></tr>
    <tr><td class="label">Court</td><td>{{.Case.Court}}</td></tr>
    <tr><td class="label">Formation</td><td>{{.Case.Formation}}</td></tr>
    <tr><td class="label">Status</td><td>{{.Case.Status}}</td></tr>
    <tr><td class="label">Client</td><td>{{.Case.ClientName}}</td></tr>
    <tr><td class="label">Opposing party</td><td>{{.Case.OpposingParty}}</td></tr>
    <tr><td class="label">Initiated</td><td>{{.Case.InitiationDate}}</td></tr>
    {{if .Case.ArchiveNumber}}<tr><td class="label">Archive no.</td><td>{{.Case.ArchiveNumber}}</td></tr>{{end}}
  </table>

  {{if .Case.HearingsChronology}}
  <h2>Hearings</h2>
  {{range .Case.HearingsChronology}}
  <div class="hearing">{{.Date}}{{if .Time}} at {{.Time}}{{end}}</div>
  {{end}}
  {{end}}

  {{if .Case.Notes}}
  <h2>Notes</h2>
  <div>{{.Case.Notes}}</div>
  {{end}}

  {{if .Tasks}}
  <h2>Tasks</h2>
  <table>
    {{range .Tasks}}
    <tr><td class="label">{{.Status}}</td><td>{{.Title}}{{if .DueDate}} (due {{.DueDate}}){{end}}</td></tr>
    {{end}}
  </table>
  {{end}}
</body>
</html>`))

// RenderCaseSummaryHTML builds the printable summary for a case and its
// tasks. Notes arrive already sanitized at write time, so the template
// can trust them as text.
func RenderCaseSummaryHTML(c models.CaseRecord, tasks []models.TaskRecord) (string, error) {
	var buf bytes.Buffer
	// Reference and friends hang off the pointer, so the template gets one.
	err := caseSummaryTemplate.Execute(&buf, struct {
		Case  *models.CaseRecord
		Tasks []models.TaskRecord
	}{Case: &c, Tasks: tasks})
	if err != nil {
		return "", fmt.Errorf("failed to render case summary: %w", err)
	}
	return buf.String(), nil
}

// GenerateCaseSummaryPDF renders a case summary to PDF
func GenerateCaseSummaryPDF(c models.CaseRecord, tasks []models.TaskRecord, chromePath string) ([]byte, error) {
	html, err := RenderCaseSummaryHTML(c, tasks)
	if err != nil {
		return nil, err
	}
	return GeneratePDF(html, chromePath, DefaultPDFOptions())
}
