package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

// Page geometry in points on US Letter (612 x 792).
const (
	pageHeight   = 792.0
	leftMargin   = 50.0
	indentMargin = 70.0
	topBaseline  = 42.0
	bottomMargin = 50.0
	lineHeight   = 20.0
	fontFamily   = "Helvetica"
	fontSize     = 12.0
)

// PDFOptions controls document metadata and encoding.
type PDFOptions struct {
	// Compress enables stream compression. Disable it to get greppable output.
	Compress bool

	// CreatedAt is recorded as the document creation date. Zero means now.
	CreatedAt time.Time
}

// WritePDF draws lines top-down and writes the finished document to w.
// When the next baseline would fall into the bottom margin a new page is
// started, so long instance listings overflow onto further pages rather than
// off the page. It returns the number of pages written.
func WritePDF(w io.Writer, lines []Line, opts PDFOptions) (int, error) {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetCompression(opts.Compress)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(ReportTitle, true)
	pdf.SetCreator("awsreport", true)
	if !opts.CreatedAt.IsZero() {
		pdf.SetCreationDate(opts.CreatedAt)
	}

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	y := topBaseline
	for i, line := range lines {
		if i > 0 {
			y += lineHeight + line.Gap
		}
		if y > pageHeight-bottomMargin {
			pdf.AddPage()
			y = topBaseline
		}

		style := ""
		if line.Heading {
			style = "B"
		}
		pdf.SetFont(fontFamily, style, fontSize)

		x := leftMargin
		if line.Indent {
			x = indentMargin
		}
		pdf.Text(x, y, tr(line.Text))
	}

	if err := pdf.Output(w); err != nil {
		return 0, fmt.Errorf("render pdf: %w", err)
	}
	return pdf.PageCount(), nil
}

// FileName returns the report file name for date (YYYY-MM-DD).
func FileName(date string) string {
	return "aws-report-" + date + ".pdf"
}

// StorageKey returns the object key for date under prefix. The same date
// always maps to the same key, so a same-day re-run overwrites the object.
func StorageKey(prefix, date string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return FileName(date)
	}
	return prefix + "/" + FileName(date)
}

// Assembler writes report documents to disk.
type Assembler struct {
	opts PDFOptions
}

// NewAssembler returns an Assembler producing compressed PDFs.
func NewAssembler() *Assembler {
	return &Assembler{opts: PDFOptions{Compress: true}}
}

// NewAssemblerWithOptions returns an Assembler using opts.
func NewAssemblerWithOptions(opts PDFOptions) *Assembler {
	return &Assembler{opts: opts}
}

// Assemble renders doc into dir/FileName(doc.Date), replacing any existing
// file for the same date. The document is written to a temporary file first
// and renamed into place, so a failed render never leaves a truncated report.
func (a *Assembler) Assemble(dir string, doc Document) (path string, pages int, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("create output dir %s: %w", dir, err)
	}
	path = filepath.Join(dir, FileName(doc.Date))

	tmp, err := os.CreateTemp(dir, ".aws-report-*.pdf")
	if err != nil {
		return "", 0, fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name()) //nolint:errcheck
		}
	}()

	pages, err = WritePDF(tmp, BuildLayout(doc), a.opts)
	if closeErr := tmp.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("close %s: %w", tmp.Name(), closeErr)
	}
	if err != nil {
		return "", 0, err
	}

	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", 0, fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return "", 0, fmt.Errorf("move report into place: %w", err)
	}
	return path, pages, nil
}
