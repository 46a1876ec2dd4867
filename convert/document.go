package convert

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"fxmig/archive"
)

// Document is a template loaded into memory. Text is always UTF-8, original
// encoding and byte order mark are restored on write.
type Document struct {
	Path string
	Text string

	enc     srcEncoding
	legacy  encoding.Encoding // only for encUnknown, nil means UTF-8
	charset string
}

// Charset returns name of the detected source encoding.
func (d *Document) Charset() string {
	if d.enc != encUnknown {
		return d.enc.String()
	}
	return d.charset
}

// ReadDocument loads template from file.
func ReadDocument(path string) (*Document, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("not a regular file: %s", path)
	}
	if fi.Size() > archive.MaxEntrySize {
		return nil, fmt.Errorf("file is too big (%d bytes): %s", fi.Size(), path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeDocument(path, data)
}

// DecodeDocument prepares template from raw bytes, path is only used for
// identification.
func DecodeDocument(path string, data []byte) (*Document, error) {
	doc := &Document{Path: path, charset: "utf-8"}
	if len(data) == 0 {
		return doc, nil
	}

	head := data[:min(len(data), headerSize)]
	if mime, binary := isBinary(head); binary {
		return nil, fmt.Errorf("binary content (%s) in %s", mime, path)
	}

	doc.enc = detectUTF(head)
	var r io.Reader = bytes.NewReader(data)
	switch {
	case doc.enc != encUnknown:
		r = selectReader(r, doc.enc)
	case !utf8.Valid(data):
		// no BOM and not UTF-8, look at meta declarations falling back to
		// windows-1252
		e, name, _ := charset.DetermineEncoding(data, "text/html")
		if e == nil {
			return nil, fmt.Errorf("unable to detect encoding of %s", path)
		}
		doc.legacy, doc.charset = e, name
		r = transform.NewReader(r, e.NewDecoder())
	}

	text, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to decode %s (%s): %w", path, doc.Charset(), err)
	}
	doc.Text = string(text)
	return doc, nil
}

// Encode writes text to w using document encoding.
func (d *Document) Encode(w io.Writer, text string) (err error) {
	var out io.Writer
	switch {
	case d.enc != encUnknown:
		out = selectWriter(w, d.enc)
	case d.legacy != nil:
		// layout classes are ASCII, but user content may not be
		// representable, keep it as character references
		out = transform.NewWriter(w, encoding.HTMLEscapeUnsupported(d.legacy.NewEncoder()))
	default:
		out = w
	}
	if _, err = io.WriteString(out, text); err != nil {
		return fmt.Errorf("unable to encode %s: %w", d.Path, err)
	}
	// flush transformers, destination itself belongs to caller
	if c, ok := out.(io.Closer); ok && out != w {
		if err = c.Close(); err != nil {
			return fmt.Errorf("unable to encode %s: %w", d.Path, err)
		}
	}
	return nil
}

// WriteDocument stores text at path in document encoding creating
// directories as necessary.
func WriteDocument(path string, doc *Document, text string) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("unable to create output file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = doc.Encode(tmp, text); err != nil {
		return err
	}
	if err = tmp.Chmod(0644); err != nil {
		return fmt.Errorf("unable to write output file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("unable to write output file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("unable to write output file: %w", err)
	}
	return nil
}
