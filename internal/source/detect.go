package source

import (
	"bytes"
	"io"
	"os"
)

type Format int

const (
	FormatUnknown Format = iota
	FormatPNG
	FormatJPEG
	FormatPDF
)

func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatJPEG:
		return "jpeg"
	case FormatPDF:
		return "pdf"
	default:
		return "unknown"
	}
}

var (
	pngSignature  = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	jpegSignature = []byte{0xFF, 0xD8, 0xFF}
	pdfSignature  = []byte("%PDF-")
)

// DetectFormat identifies a file by its leading bytes. The extension is not
// consulted. Unreadable files are reported as FormatUnknown with the error.
func DetectFormat(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, err
	}
	defer f.Close()

	head := make([]byte, len(pngSignature))
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return FormatUnknown, nil
	}
	return sniff(head[:n]), nil
}

func sniff(head []byte) Format {
	switch {
	case bytes.HasPrefix(head, pngSignature):
		return FormatPNG
	case bytes.HasPrefix(head, jpegSignature):
		return FormatJPEG
	case bytes.HasPrefix(head, pdfSignature):
		return FormatPDF
	default:
		return FormatUnknown
	}
}
