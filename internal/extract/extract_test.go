package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create docx entry: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("write docx entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close docx: %v", err)
	}
	return buf.Bytes()
}

func TestTextFromBytes_DocxParagraphs(t *testing.T) {
	doc := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
		`<w:body><w:p><w:r><w:t>Backend Engineer</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Five years of Go experience.</w:t></w:r></w:p></w:body></w:document>`
	data := buildDocx(t, doc)

	text, err := TextFromBytes(context.Background(), data, mimeDOCX, "resume.docx")
	if err != nil {
		t.Fatalf("extract docx: %v", err)
	}
	if !strings.Contains(text, "Backend Engineer") {
		t.Fatalf("missing first paragraph: %q", text)
	}
	if !strings.Contains(text, "Five years of Go experience.") {
		t.Fatalf("missing second paragraph: %q", text)
	}
}

func TestTextFromBytes_ZipMimeNormalizesToDocx(t *testing.T) {
	doc := `<w:document><w:body><w:p><w:r><w:t>hello</w:t></w:r></w:p></w:body></w:document>`
	data := buildDocx(t, doc)

	// Browsers often report docx uploads as application/zip.
	if _, err := TextFromBytes(context.Background(), data, "application/zip", "resume.docx"); err != nil {
		t.Fatalf("expected zip mime to normalize to docx, got error: %v", err)
	}
}

func TestTextFromBytes_OctetStreamUsesExtension(t *testing.T) {
	doc := `<w:document><w:body><w:p><w:r><w:t>hi</w:t></w:r></w:p></w:body></w:document>`
	data := buildDocx(t, doc)

	if _, err := TextFromBytes(context.Background(), data, "application/octet-stream", "resume.docx"); err != nil {
		t.Fatalf("expected octet-stream docx to extract, got error: %v", err)
	}
}

func TestTextFromBytes_PlainZipRejected(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("notes.txt")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte("hello")); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	_, err = TextFromBytes(context.Background(), buf.Bytes(), "application/zip", "notes.zip")
	if err == nil {
		t.Fatal("expected unsupported mime error for zip")
	}
	if !strings.Contains(err.Error(), "unsupported mime type: application/zip") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTextFromBytes_UnsupportedMime(t *testing.T) {
	_, err := TextFromBytes(context.Background(), []byte("plain text"), "text/plain", "resume.txt")
	if err == nil {
		t.Fatal("expected unsupported mime error")
	}
	if !strings.Contains(err.Error(), "unsupported mime type") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTextFromBytes_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := TextFromBytes(ctx, []byte{}, mimePDF, "resume.pdf"); err == nil {
		t.Fatal("expected context error")
	}
}
