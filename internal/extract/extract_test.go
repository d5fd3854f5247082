package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildPDF assembles a minimal uncompressed PDF with one text show operation
// per page, computing the xref table offsets as it goes.
func buildPDF(t *testing.T, pages []string) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	n := len(pages)
	total := 3 + 2*n
	offsets := make([]int, total+1)

	addObj := func(num int, body string) {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	kids := make([]string, n)
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+i)
	}
	addObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	addObj(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), n))
	addObj(3, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")
	for i := range pages {
		addObj(4+i, fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 4+n+i))
	}
	for i, text := range pages {
		var stream string
		if text != "" {
			stream = fmt.Sprintf("BT /F1 12 Tf 72 712 Td (%s) Tj ET", text)
		}
		addObj(4+n+i, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", total+1)
	buf.WriteString("0000000000 65535 f \n")
	for num := 1; num <= total; num++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[num])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", total+1, xrefOffset)
	return buf.Bytes()
}

// buildDocx assembles a minimal docx container around the given document.xml
// body content.
func buildDocx(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	files := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` + body + `</w:body></w:document>`,
	}
	for name, content := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestFromPDFPreservesPageOrder(t *testing.T) {
	data := buildPDF(t, []string{"A", "B", "C"})

	text, err := FromPDF(data)

	require.NoError(t, err)
	assert.Equal(t, "ABC", text)
}

func TestFromPDFSinglePageHasNoLeadingLineBreak(t *testing.T) {
	data := buildPDF(t, []string{"Resume"})

	text, err := FromPDF(data)

	require.NoError(t, err)
	assert.Equal(t, "Resume", text)
}

func TestFromPDFEmptyPageContributesNothing(t *testing.T) {
	data := buildPDF(t, []string{"A", "", "C"})

	text, err := FromPDF(data)

	require.NoError(t, err)
	assert.Equal(t, "AC", text)
}

func TestFromPDFWhollyTextlessDocument(t *testing.T) {
	data := buildPDF(t, []string{"", ""})

	text, err := FromPDF(data)

	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestFromPDFCorruptInput(t *testing.T) {
	_, err := FromPDF([]byte("definitely not a pdf"))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExtractionFailed)
}

func TestFromDocxJoinsParagraphsWithNewlines(t *testing.T) {
	data := buildDocx(t, `<w:p><w:r><w:t>Hello</w:t></w:r></w:p><w:p/><w:p><w:r><w:t>World</w:t></w:r></w:p>`)

	text, err := FromDocx(data)

	require.NoError(t, err)
	assert.Equal(t, "Hello\n\nWorld\n", text)
}

func TestFromDocxConcatenatesRunsWithinParagraph(t *testing.T) {
	data := buildDocx(t, `<w:p><w:r><w:t>Senior </w:t></w:r><w:r><w:t>Engineer</w:t></w:r></w:p>`)

	text, err := FromDocx(data)

	require.NoError(t, err)
	assert.Equal(t, "Senior Engineer\n", text)
}

func TestFromDocxCorruptInput(t *testing.T) {
	_, err := FromDocx([]byte("not a zip container"))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExtractionFailed)
}

func TestParagraphTextHandlesTabsAndBreaks(t *testing.T) {
	xml := `<w:document xmlns:w="ns"><w:body><w:p><w:r><w:t>a</w:t><w:tab/><w:t>b</w:t></w:r></w:p></w:body></w:document>`

	text, err := paragraphText(xml)

	require.NoError(t, err)
	assert.Equal(t, "a\tb\n", text)
}
