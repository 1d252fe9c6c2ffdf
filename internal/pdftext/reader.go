// Package pdftext extracts plain page text from PDF files.
package pdftext

import (
	"fmt"
	"os"

	"github.com/dslipak/pdf"
	"github.com/liliang-cn/askpdf/internal/domain"
)

// Page is the plain text of one PDF page, numbered from 1
type Page struct {
	Number int
	Text   string
}

// Loader turns a stored PDF into ordered page texts
type Loader interface {
	LoadPages(path string) ([]Page, error)
}

// Reader is the Loader backed by github.com/dslipak/pdf
type Reader struct{}

// NewReader creates a PDF page reader
func NewReader() *Reader {
	return &Reader{}
}

// LoadPages opens the file and returns the text of every page in order.
// Any failure to parse the document is reported as domain.ErrParse.
func (r *Reader) LoadPages(path string) (pages []Page, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrParse, path, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: stat %s: %v", domain.ErrParse, path, err)
	}

	// the parser panics on some malformed streams
	defer func() {
		if rec := recover(); rec != nil {
			pages = nil
			err = fmt.Errorf("%w: %s: %v", domain.ErrParse, path, rec)
		}
	}()

	doc, err := pdf.NewReader(f, fi.Size())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrParse, path, err)
	}

	n := doc.NumPage()
	pages = make([]Page, 0, n)
	for i := 1; i <= n; i++ {
		p := doc.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %s page %d: %v", domain.ErrParse, path, i, err)
		}
		pages = append(pages, Page{Number: i, Text: text})
	}

	return pages, nil
}
