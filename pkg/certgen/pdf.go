package certgen

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

func init() {
	// pdfcpu would otherwise create a config directory under the user's home on first use
	api.DisableConfigDir()
}

// EmbedQRCodeToPdf stamps the qr code image on the bottom right corner of every page,
// offset inwards by marginPt.
func EmbedQRCodeToPdf(inFile, outFile, qrCodePath string, marginPt int) error {
	description := fmt.Sprintf("pos: br, off: -%d %d, scale: 1 abs, rotation: 0", marginPt, marginPt)
	err := api.AddImageWatermarksFile(inFile, outFile, nil, true, qrCodePath, description, nil)
	if err != nil {
		return fmt.Errorf("failed to embed QR code in PDF: %w", err)
	}
	return nil
}

// PageCount returns the number of pages of a pdf file, used to sanity check rendered output.
func PageCount(path string) (int, error) {
	if _, err := os.Stat(path); err != nil {
		return 0, err
	}
	return api.PageCountFile(path)
}
