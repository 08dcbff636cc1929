package report

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

// Document is the text content of a formatted report.
type Document struct {
	Title string
	// CreatedAt is stamped into the rendered file so output is reproducible.
	CreatedAt time.Time
	Header    []string
	Body      []string
}

// PlacedLine is a line of text positioned on a page. Y is measured upward
// from the bottom edge, in points.
type PlacedLine struct {
	X, Y float64
	Text string
}

// Page holds the lines placed on one page.
type Page struct {
	Lines []PlacedLine
}

// PageBreakPolicy decides where lines go. Header lines start at Top on the
// first page. Body lines start at BodyTop and step down by LineHeight; a line
// is never placed below Bottom, overflow continues at Top on a new page.
type PageBreakPolicy struct {
	Left       float64
	Top        float64
	BodyTop    float64
	LineHeight float64
	Bottom     float64
}

// DefaultPageBreakPolicy lays out a US Letter page.
var DefaultPageBreakPolicy = PageBreakPolicy{
	Left:       100,
	Top:        750,
	BodyTop:    660,
	LineHeight: 20,
	Bottom:     50,
}

var errInvalidPolicy = errors.New("invalid page break policy")

// Validate checks that the policy can place at least one line per page.
func (p PageBreakPolicy) Validate() error {
	if p.LineHeight <= 0 || p.Top < p.Bottom || p.BodyTop < p.Bottom {
		return errInvalidPolicy
	}
	return nil
}

// Paginate places the document's lines onto pages. It always returns at least
// one page.
func (p PageBreakPolicy) Paginate(doc Document) []Page {
	pages := []Page{{}}
	current := &pages[0]

	y := p.Top
	for _, line := range doc.Header {
		current.Lines = append(current.Lines, PlacedLine{X: p.Left, Y: y, Text: line})
		y -= p.LineHeight
	}

	if y > p.BodyTop {
		y = p.BodyTop
	}
	for _, line := range doc.Body {
		if y < p.Bottom {
			pages = append(pages, Page{})
			current = &pages[len(pages)-1]
			y = p.Top
		}
		current.Lines = append(current.Lines, PlacedLine{X: p.Left, Y: y, Text: line})
		y -= p.LineHeight
	}

	return pages
}

// DocumentSink renders a paginated document.
type DocumentSink interface {
	Render(doc Document, policy PageBreakPolicy) ([]byte, error)
}

// PDFSink renders documents as PDF using a core font.
type PDFSink struct {
	PageSize string
	FontSize float64
}

// NewPDFSink returns a sink producing Letter pages in 10pt Helvetica.
func NewPDFSink() *PDFSink {
	return &PDFSink{PageSize: "Letter", FontSize: 10}
}

// Render implements DocumentSink.
func (s *PDFSink) Render(doc Document, policy PageBreakPolicy) ([]byte, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "pt", s.PageSize, "")
	pdf.SetCompression(false)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreationDate(doc.CreatedAt)
	pdf.SetModificationDate(doc.CreatedAt)
	pdf.SetFont("Helvetica", "", s.FontSize)
	translate := pdf.UnicodeTranslatorFromDescriptor("")

	_, pageHeight := pdf.GetPageSize()
	for _, page := range policy.Paginate(doc) {
		pdf.AddPage()
		for _, line := range page.Lines {
			pdf.Text(line.X, pageHeight-line.Y, translate(line.Text))
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}
