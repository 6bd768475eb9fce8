// Package pdf writes a minimal single-page PDF 1.4 file around a block of
// text and wraps it as an RFC 2397 data URI.
//
// The file layout is fixed: Catalog, Pages, Page, content stream and a
// Helvetica font, followed by one cross-reference section and a trailer.
// Every offset and Length is read back from the bytes already written, so the
// table can never disagree with the body.
package pdf

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const (
	// Header is the first line of every file produced here.
	Header = "%PDF-1.4\n"
	// MimeType is the media type used in data URIs and HTTP responses.
	MimeType = "application/pdf"

	dataURIPrefix = "data:" + MimeType + ";base64,"

	fontName = "F1"
	fontSize = 12
	originX  = 72
	originY  = 720
)

// ErrNotDataURI is returned when a string is not a base64 PDF data URI.
var ErrNotDataURI = errors.New("not a base64 application/pdf data URI")

var literalReplacer = strings.NewReplacer(
	`\`, `\\`,
	"(", `\(`,
	")", `\)`,
)

// EscapeLiteral escapes text for use inside a PDF literal string.
func EscapeLiteral(s string) string { return literalReplacer.Replace(s) }

// ContentStream returns the page content that shows text in one Tj operation.
func ContentStream(text string) []byte {
	return []byte(fmt.Sprintf("BT\n/%s %d Tf\n%d %d Td\n(%s) Tj\nET", fontName, fontSize, originX, originY, EscapeLiteral(text)))
}

// Build returns the complete PDF bytes showing text on a single letter-size page.
func Build(text string) []byte {
	w := newObjectWriter()

	catalog := w.object("<< /Type /Catalog /Pages 2 0 R >>")
	w.object("<< /Type /Pages /Kids [3 0 R] /Count 1 >>")
	w.object(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /%s 5 0 R >> >> /Contents 4 0 R >>", fontName))
	w.stream(ContentStream(text))
	w.object("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	return w.finish(catalog)
}

// Encode renders text into a PDF and returns it as a data URI.
func Encode(text string) string {
	return DataURI(Build(text))
}

// DataURI wraps raw PDF bytes as data:application/pdf;base64,<payload>.
func DataURI(doc []byte) string {
	return dataURIPrefix + base64.StdEncoding.EncodeToString(doc)
}

// DecodeDataURI returns the PDF bytes carried by a data URI built with DataURI.
func DecodeDataURI(uri string) ([]byte, error) {
	payload, ok := strings.CutPrefix(uri, dataURIPrefix)
	if !ok {
		return nil, ErrNotDataURI
	}
	doc, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotDataURI, err)
	}
	return doc, nil
}

// objectWriter numbers objects from 1 in emission order and records where
// each one starts.
type objectWriter struct {
	buf     bytes.Buffer
	offsets []int
}

func newObjectWriter() *objectWriter {
	w := &objectWriter{}
	w.buf.WriteString(Header)
	return w
}

func (w *objectWriter) begin() int {
	w.offsets = append(w.offsets, w.buf.Len())
	return len(w.offsets)
}

func (w *objectWriter) object(dict string) int {
	num := w.begin()
	fmt.Fprintf(&w.buf, "%d 0 obj\n%s\nendobj\n", num, dict)
	return num
}

func (w *objectWriter) stream(data []byte) int {
	num := w.begin()
	fmt.Fprintf(&w.buf, "%d 0 obj\n<< /Length %d >>\nstream\n", num, len(data))
	w.buf.Write(data)
	w.buf.WriteString("\nendstream\nendobj\n")
	return num
}

// finish appends the cross-reference table and trailer. Each xref row is
// exactly 20 bytes including its two-byte end of line.
func (w *objectWriter) finish(root int) []byte {
	xref := w.buf.Len()
	size := len(w.offsets) + 1

	fmt.Fprintf(&w.buf, "xref\n0 %d\n", size)
	w.buf.WriteString("0000000000 65535 f \n")
	for _, off := range w.offsets {
		fmt.Fprintf(&w.buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&w.buf, "trailer\n<< /Size %d /Root %d 0 R >>\nstartxref\n%d\n%%%%EOF", size, root, xref)

	return w.buf.Bytes()
}
