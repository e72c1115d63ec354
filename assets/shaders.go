package assets

import (
	"embed"

	"github.com/hajimehoshi/ebiten/v2"
)

//go:embed shaders/*.kage
var shaderFS embed.FS

var (
	// PieceShader shades a filled circle with a soft highlight
	PieceShader *ebiten.Shader
)

// LoadShaders compiles and caches all shaders
func LoadShaders() error {
	var err error

	pieceSrc, err := shaderFS.ReadFile("shaders/piece.kage")
	if err != nil {
		return err
	}
	PieceShader, err = ebiten.NewShader(pieceSrc)
	if err != nil {
		return err
	}

	return nil
}
