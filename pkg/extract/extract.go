// Package extract turns uploaded résumé files into plain text.
//
// The format is chosen from the file name extension:
//
//	.pdf          ledongthuc/pdf
//	.docx         nguyenthenguyen/docx
//	.doc          docconv (requires antiword)
//	.txt          UTF-8 bytes as-is
//
// Any other extension fails with an *UnsupportedFormatError.
package extract

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// UnsupportedFormatError is returned for file names whose extension has no extractor.
type UnsupportedFormatError struct {
	Extension string
}

func (e *UnsupportedFormatError) Error() (msg string) {
	msg = fmt.Sprintf("unsupported file format: %s", e.Extension)
	return msg
}

// SupportedExtensions lists the accepted upload extensions.
//
//nolint:gochecknoglobals // Fixed list of accepted formats
var SupportedExtensions = []string{".pdf", ".docx", ".doc", ".txt"}

// Extension returns the lowercased extension of filename without the dot.
// A name without a dot is returned whole.
func Extension(filename string) (ext string) {
	base := strings.ToLower(filepath.Base(filename))
	idx := strings.LastIndex(base, ".")
	if idx == -1 {
		ext = base
		return ext
	}
	ext = base[idx+1:]
	return ext
}

// FromFile reads and extracts the text of the file at path.
func FromFile(path string) (text string, err error) {
	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read resume file: %s", path)
		return text, err
	}

	text, err = FromBytes(filepath.Base(path), data)
	return text, err
}

// FromReader reads r fully and extracts its text according to filename.
func FromReader(filename string, r io.Reader) (text string, err error) {
	// Reject unknown formats before reading the body
	err = checkSupported(filename)
	if err != nil {
		return text, err
	}

	var data []byte
	data, err = io.ReadAll(r)
	if err != nil {
		err = errors.Wrapf(err, "failed to read upload: %s", filename)
		return text, err
	}

	text, err = FromBytes(filename, data)
	return text, err
}

// FromBytes extracts the text of an in-memory file according to filename.
func FromBytes(filename string, data []byte) (text string, err error) {
	switch Extension(filename) {
	case "pdf":
		text, err = pdfText(bytes.NewReader(data), int64(len(data)))
	case "docx":
		text, err = docxText(bytes.NewReader(data), int64(len(data)))
	case "doc":
		text, err = docText(bytes.NewReader(data))
	case "txt":
		text = string(data)
	default:
		err = &UnsupportedFormatError{Extension: Extension(filename)}
		return text, err
	}

	if err != nil {
		err = errors.Wrapf(err, "failed to extract text from %s", filename)
		return text, err
	}

	return text, err
}

func checkSupported(filename string) (err error) {
	ext := "." + Extension(filename)
	for _, supported := range SupportedExtensions {
		if ext == supported {
			return err
		}
	}
	err = &UnsupportedFormatError{Extension: Extension(filename)}
	return err
}
