package reader

import (
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// newlines replaces "\r\n" and lone "\r" line endings with "\n".
type newlines struct {
	transform.NopResetter
}

func (newlines) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		c := src[nSrc]

		if c == '\r' {
			// The next byte decides if this is a pair.
			if nSrc+1 == len(src) && !atEOF {
				return nDst, nSrc, transform.ErrShortSrc
			}

			if nDst >= len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}

			dst[nDst] = '\n'
			nDst++
			nSrc++

			if nSrc < len(src) && src[nSrc] == '\n' {
				nSrc++
			}
			continue
		}

		if nDst >= len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}

		dst[nDst] = c
		nDst++
		nSrc++
	}

	return nDst, nSrc, nil
}

// Decoder returns a transformer that decodes text in the named encoding to
// UTF-8. With no name, UTF-8 is assumed unless a UTF-8 or UTF-16 byte order
// mark says otherwise. The mark is removed.
func Decoder(encoding string) (transform.Transformer, error) {
	if encoding == "" {
		return unicode.BOMOverride(unicode.UTF8.NewDecoder()), nil
	}

	e, err := htmlindex.Get(encoding)
	if err != nil {
		return nil, fmt.Errorf("encoding not supported: %s", encoding)
	}

	return unicode.BOMOverride(e.NewDecoder()), nil
}

// NewUniversalReader wraps an io.Reader to decode it to UTF-8 and replace
// carriage returns with newlines.
func NewUniversalReader(r io.Reader, encoding string) (io.Reader, error) {
	dec, err := Decoder(encoding)
	if err != nil {
		return nil, err
	}

	return transform.NewReader(r, transform.Chain(dec, newlines{})), nil
}

// Decompress takes a compression type and a reader and returns
// reader that will be decompressed if the type is supported.
func Decompress(t string, r io.Reader) (io.Reader, error) {
	switch t {
	case "":
		return r, nil

	case "gzip", "gz":
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		return gr, nil

	case "bz2", "bzip2":
		return bzip2.NewReader(r), nil
	}

	return nil, fmt.Errorf("compression type not supported: %s", t)
}

// DetectType attempts to detect the file format and compression types by looking at the
// file path extensions.
func DetectType(url string) (string, string) {
	_, name := path.Split(url)

	// Split up extensions.
	exts := strings.Split(name, ".")[1:]

	var (
		compression string
		format      string
	)

	for _, ext := range exts {
		switch strings.ToLower(ext) {
		case "gz", "gzip":
			compression = "gzip"

		case "bz2", "bzip2":
			compression = "bzip2"

		case "json":
			format = "json"

		case "csv", "tsv", "txt":
			format = "csv"

		case "ldjson", "jsonl", "ndjson":
			format = "ldjson"
		}
	}

	return format, compression
}

func detectCompression(name string) string {
	switch filepath.Ext(name) {
	case ".gzip", ".gz":
		return "gzip"
	case ".bzip2", ".bz2":
		return "bzip2"
	}

	return ""
}

// Reader is an opened input, a file or stdin.
type Reader struct {
	Name        string
	Compression string

	reader io.Reader
	closer io.Closer
	file   *os.File
}

// Read implements the io.Reader interface.
func (r *Reader) Read(buf []byte) (int, error) {
	return r.reader.Read(buf)
}

// Close implements the io.Closer interface.
func (r *Reader) Close() error {
	if r.closer != nil {
		r.closer.Close()
	}

	if r.file != nil {
		return r.file.Close()
	}

	return nil
}

// Open a reader by name with optional compression and text encoding. If no
// name is specified, STDIN is used.
func Open(name, compr, encoding string) (*Reader, error) {
	r := &Reader{Name: name}

	if compr == "" {
		compr = detectCompression(name)
	}

	// Validate compression method before working with files.
	switch compr {
	case "bzip2", "gzip", "":
	default:
		return nil, fmt.Errorf("unknown compression type %s", compr)
	}

	if name == "" || name == "-" {
		r.reader = os.Stdin
	} else {
		file, err := os.Open(name)
		if err != nil {
			return nil, err
		}

		r.file = file
		r.reader = file
	}

	dr, err := Decompress(compr, r.reader)
	if err != nil {
		r.Close()
		return nil, err
	}

	if c, ok := dr.(io.Closer); ok {
		r.closer = c
	}

	ur, err := NewUniversalReader(dr, encoding)
	if err != nil {
		r.Close()
		return nil, err
	}

	r.reader = ur
	r.Compression = compr

	return r, nil
}
