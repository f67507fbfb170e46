package extract

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExtractPlainText(t *testing.T) {
	e := NewExtractor()
	text, err := e.ExtractBytes([]byte("Python engineer with 5 years experience"), ".txt")
	if err != nil {
		t.Fatal(err)
	}
	if text != "Python engineer with 5 years experience" {
		t.Errorf("text = %q", text)
	}
}

func TestExtractUnknownExtensionFallsBackToPlain(t *testing.T) {
	e := NewExtractor()
	text, err := e.ExtractBytes([]byte("resume body"), ".resume")
	if err != nil {
		t.Fatal(err)
	}
	if text != "resume body" {
		t.Errorf("text = %q", text)
	}
}

func TestExtractInvalidUTF8Replaced(t *testing.T) {
	e := NewExtractor()
	text, err := e.ExtractBytes([]byte{'o', 'k', 0xff, 0xfe}, ".txt")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(text, "ok") {
		t.Errorf("text = %q", text)
	}
	if strings.ContainsRune(text, 0xff) {
		t.Error("invalid bytes not replaced")
	}
}

// buildDocx creates a minimal .docx zip with the given body paragraphs.
func buildDocx(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	ct, err := zw.Create("[Content_Types].xml")
	if err != nil {
		t.Fatal(err)
	}
	_, _ = ct.Write([]byte(`<?xml version="1.0"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`))

	doc, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	var body strings.Builder
	body.WriteString(`<?xml version="1.0"?><w:document><w:body>`)
	for _, p := range paragraphs {
		body.WriteString(`<w:p w:rsidR="00000000"><w:r><w:t xml:space="preserve">`)
		body.WriteString(p)
		body.WriteString(`</w:t></w:r></w:p>`)
	}
	body.WriteString(`</w:body></w:document>`)
	_, _ = doc.Write([]byte(body.String()))

	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestExtractDOCX(t *testing.T) {
	e := NewExtractor()
	content := buildDocx(t, "React FastAPI developer", "4 years experience")
	text, err := e.ExtractBytes(content, ".docx")
	if err != nil {
		t.Fatal(err)
	}
	if text != "React FastAPI developer 4 years experience" {
		t.Errorf("text = %q", text)
	}
}

func TestExtractDOCXNotAZip(t *testing.T) {
	e := NewExtractor()
	if _, err := e.ExtractBytes([]byte("plain text pretending"), ".docx"); err == nil {
		t.Error("expected error for non-zip docx")
	}
}

func TestExtractFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.txt")
	if err := os.WriteFile(path, []byte("Django engineer"), 0600); err != nil {
		t.Fatal(err)
	}
	e := NewExtractor()
	text, err := e.Extract(path)
	if err != nil {
		t.Fatal(err)
	}
	if text != "Django engineer" {
		t.Errorf("text = %q", text)
	}

	if _, err := e.Extract(filepath.Join(dir, "absent.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}
