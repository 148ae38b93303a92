package certgen

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

type Config struct {
	// Directory where rendered certificates are written, one file per certificate number
	OutputDir string
	// Directory for intermediate files, removed once a render completes
	TmpDir string
	// Stamp a QR code pointing to VerifyURLPattern on the bottom right corner
	EmbedQRCode bool
	// fmt pattern that receives the verification token
	VerifyURLPattern string
	// QR code size in px, 80 is readable on a printed page
	QRCodeSize int
	// Now is used for the "Generated on" stamp
	Now func() time.Time
}

func NewDefaultConfig() *Config {
	return &Config{
		OutputDir:        filepath.Join("uploads", "certificates"),
		TmpDir:           filepath.Join(os.TempDir(), "seccert", "render"),
		EmbedQRCode:      true,
		VerifyURLPattern: "http://localhost:8080/api/certificates/verify/%s",
		QRCodeSize:       80,
		Now:              time.Now,
	}
}

func (c *Config) verifyURL(token string) string {
	return fmt.Sprintf(c.VerifyURLPattern, token)
}
