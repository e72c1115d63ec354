package fonts

import (
	"fmt"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

type FontName string

const (
	Regular FontName = "regular"
	Bold    FontName = "bold"
	Title   FontName = "title"
	Small   FontName = "small"
)

func (f FontName) Get() font.Face {
	return getFont(f)
}

var (
	fonts = map[FontName]font.Face{}
)

// LoadDefaults registers every face from the Go fonts.
func LoadDefaults() {
	LoadFontWithSize(Regular, goregular.TTF, 22)
	LoadFontWithSize(Bold, gobold.TTF, 30)
	LoadFontWithSize(Title, gobold.TTF, 64)
	LoadFontWithSize(Small, goregular.TTF, 16)
}

// LoadFontWithSize parses ttf and registers a face. Unparseable data falls
// back to the fixed 7x13 face.
func LoadFontWithSize(name FontName, ttf []byte, size float64) {
	fontData, err := truetype.Parse(ttf)
	if err != nil {
		fonts[name] = basicfont.Face7x13
		return
	}
	fonts[name] = truetype.NewFace(fontData, &truetype.Options{Size: size})
}

func getFont(name FontName) font.Face {
	f, ok := fonts[name]
	if !ok {
		panic(fmt.Sprintf("Font %s not found", name))
	}
	return f
}
