package system

import (
	"fmt"
	"io"

	"github.com/skip2/go-qrcode"
)

// PrintQR writes url as a terminal QR code so a preview can be opened on a phone.
func PrintQR(w io.Writer, url string) error {
	q, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return fmt.Errorf("qr encode: %w", err)
	}
	_, err = io.WriteString(w, q.ToSmallString(false))
	return err
}
