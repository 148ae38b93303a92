package certgen

import (
	"fmt"
	"sync"

	"github.com/tdewolff/canvas"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

type FontWeight string

const (
	FontWeightRegular FontWeight = "regular"
	FontWeightBold    FontWeight = "bold"
)

type Font struct {
	Size   float64
	Color  string
	Weight FontWeight
}

// Get font weight of canvas type
func (f Font) GetFontStyle() canvas.FontStyle {
	switch f.Weight {
	case FontWeightBold:
		return canvas.FontBold
	default:
		return canvas.FontRegular
	}
}

var (
	fontFamilyOnce sync.Once
	fontFamily     *canvas.FontFamily
	fontFamilyErr  error
)

// loadFontFamily loads the embedded Go fonts once, they ship with the binary so rendering never depends on system fonts.
func loadFontFamily() (*canvas.FontFamily, error) {
	fontFamilyOnce.Do(func() {
		family := canvas.NewFontFamily("Go")
		if err := family.LoadFont(goregular.TTF, 0, canvas.FontRegular); err != nil {
			fontFamilyErr = fmt.Errorf("failed to load regular font: %w", err)
			return
		}
		if err := family.LoadFont(gobold.TTF, 0, canvas.FontBold); err != nil {
			fontFamilyErr = fmt.Errorf("failed to load bold font: %w", err)
			return
		}
		fontFamily = family
	})

	return fontFamily, fontFamilyErr
}
