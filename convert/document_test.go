package convert

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"
)

const sampleTemplate = `<div fxLayout="row">Привет, мир</div>`

func encodeWithTransformer(t *testing.T, data []byte, encoder transform.Transformer) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := transform.NewWriter(&buf, encoder)
	if _, err := w.Write(data); err != nil {
		t.Fatalf("encode sample: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("finalize encoded sample: %v", err)
	}
	return buf.Bytes()
}

func encodedSample(t *testing.T, enc srcEncoding) []byte {
	t.Helper()
	data := []byte(sampleTemplate)
	switch enc {
	case encUnknown:
		return data
	case encUTF8:
		return append([]byte{0xEF, 0xBB, 0xBF}, data...)
	case encUTF16BigEndian:
		return encodeWithTransformer(t, data, unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder())
	case encUTF16LittleEndian:
		return encodeWithTransformer(t, data, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder())
	case encUTF32BigEndian:
		return encodeWithTransformer(t, data, utf32.UTF32(utf32.BigEndian, utf32.UseBOM).NewEncoder())
	case encUTF32LittleEndian:
		return encodeWithTransformer(t, data, utf32.UTF32(utf32.LittleEndian, utf32.UseBOM).NewEncoder())
	}
	t.Fatalf("unsupported encoding: %v", enc)
	return nil
}

func TestDecodeDocument_Encodings(t *testing.T) {
	for _, enc := range []srcEncoding{encUnknown, encUTF8, encUTF16BigEndian, encUTF16LittleEndian, encUTF32BigEndian, encUTF32LittleEndian} {
		t.Run(enc.String(), func(t *testing.T) {
			raw := encodedSample(t, enc)
			doc, err := DecodeDocument("sample.html", raw)
			if err != nil {
				t.Fatalf("DecodeDocument() error = %v", err)
			}
			if doc.Text != sampleTemplate {
				t.Errorf("Text = %q, want %q", doc.Text, sampleTemplate)
			}
			if enc != encUnknown && doc.Charset() != enc.String() {
				t.Errorf("Charset() = %s, want %s", doc.Charset(), enc)
			}

			// writing unchanged text must restore original bytes including BOM
			var buf bytes.Buffer
			if err := doc.Encode(&buf, doc.Text); err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if !bytes.Equal(buf.Bytes(), raw) {
				t.Errorf("Encode() = % x\nwant       % x", buf.Bytes(), raw)
			}
		})
	}
}

func TestDecodeDocument_Legacy(t *testing.T) {
	text := `<html><head><meta charset="windows-1251"></head><body fxLayout>Привет</body></html>`
	raw := encodeWithTransformer(t, []byte(text), charmap.Windows1251.NewEncoder())

	doc, err := DecodeDocument("legacy.html", raw)
	if err != nil {
		t.Fatalf("DecodeDocument() error = %v", err)
	}
	if doc.Text != text {
		t.Errorf("Text = %q", doc.Text)
	}
	if doc.Charset() != "windows-1251" {
		t.Errorf("Charset() = %s", doc.Charset())
	}

	var buf bytes.Buffer
	if err := doc.Encode(&buf, strings.Replace(doc.Text, " fxLayout", ` class="flex flex-row"`, 1)+"€"); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	back, err := charmap.Windows1251.NewDecoder().Bytes(buf.Bytes())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(string(back), `<body class="flex flex-row">Привет`) {
		t.Errorf("Encode() = %s", back)
	}
}

func TestDecodeDocument_Rejects(t *testing.T) {
	if _, err := DecodeDocument("image.html", []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")); err == nil {
		t.Error("DecodeDocument() must reject binary content")
	}
	doc, err := DecodeDocument("empty.html", nil)
	if err != nil || doc.Text != "" {
		t.Errorf("DecodeDocument() = %v, %v", doc, err)
	}
}

func TestReadWriteDocument(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.html")
	raw := encodedSample(t, encUTF16LittleEndian)
	if err := os.WriteFile(src, raw, 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	doc, err := ReadDocument(src)
	if err != nil {
		t.Fatalf("ReadDocument() error = %v", err)
	}
	if doc.Path != src {
		t.Errorf("Path = %s", doc.Path)
	}

	dst := filepath.Join(dir, "nested", "out", "out.html")
	if err := WriteDocument(dst, doc, doc.Text); err != nil {
		t.Fatalf("WriteDocument() error = %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read result: %v", err)
	}
	if !bytes.Equal(got, raw) {
		t.Errorf("result differs from source")
	}

	entries, err := os.ReadDir(filepath.Dir(dst))
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}

	if _, err := ReadDocument(dir); err == nil {
		t.Error("ReadDocument() must refuse directories")
	}
	if _, err := ReadDocument(filepath.Join(dir, "missing.html")); err == nil {
		t.Error("ReadDocument() must fail for missing file")
	}
}
