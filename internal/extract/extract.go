// Package extract holds the pure per-format text readers. Same bytes in,
// same text out; no network, no filesystem.
package extract

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// ErrExtractionFailed marks a format-specific parse fault (corrupt container,
// malformed structure). Callers match it with errors.Is.
var ErrExtractionFailed = errors.New("extraction failed")

// FromPDF concatenates per-page text in page order. Pages that yield no text
// contribute an empty segment; a wholly textless document returns "".
func FromPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: read pdf: %v", ErrExtractionFailed, err)
	}
	var textBuilder strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, _ := page.GetPlainText(nil)
		// the reader prefixes each text block with a line break; the one at
		// the start of a page is an artifact, not content
		textBuilder.WriteString(strings.TrimPrefix(text, "\n"))
	}
	return textBuilder.String(), nil
}

// FromDocx reads a docx container and returns its paragraph text in document
// order, one paragraph per line. Empty paragraphs survive as blank lines.
func FromDocx(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: parse docx: %v", ErrExtractionFailed, err)
	}
	defer doc.Close()

	return paragraphText(doc.Editable().GetContent())
}

// paragraphText pulls the visible text out of a WordprocessingML document
// body: every w:p becomes one line, text runs inside it concatenated.
func paragraphText(documentXML string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(documentXML))
	var out strings.Builder
	var para strings.Builder
	inPara := false
	inText := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: malformed document xml: %v", ErrExtractionFailed, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inPara = true
				para.Reset()
			case "t":
				inText = true
			case "tab":
				if inPara {
					para.WriteByte('\t')
				}
			case "br":
				if inPara {
					para.WriteByte('\n')
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if inPara {
					out.WriteString(para.String())
					out.WriteByte('\n')
				}
				inPara = false
			case "t":
				inText = false
			}
		case xml.CharData:
			if inPara && inText {
				para.Write(t)
			}
		}
	}
	return out.String(), nil
}
