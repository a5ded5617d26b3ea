package lib

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderRectangle(t *testing.T) {
	b := &DrawingBuilder{}
	registry := NewShapeRegistry(nopLog())

	registry.Render("R~10~10~2~2~20~10~#880000~1~0~none~gge5~0", Translation{}, b)

	assert.Contains(t, b.String(), "(rectangle (start 2.54 -2.54) (end 7.62 -5.08)")
}

func TestRenderPolyline(t *testing.T) {
	b := &DrawingBuilder{}
	registry := NewShapeRegistry(nopLog())

	registry.Render("PL~10 10 20 20~#880000~1~0~none~gge6~0", Translation{}, b)

	assert.Contains(t, b.String(), "(polyline (pts (xy 2.54 -2.54) (xy 5.08 -5.08))")
}

func TestRenderPin(t *testing.T) {
	b := &DrawingBuilder{}
	registry := NewShapeRegistry(nopLog())

	registry.Render(
		"P~show~0~1~10~0~180~gge23^^10~0^^M 10 0 h -20~#880000^^1~5~-3~0~1~end~~11pt~VCC",
		Translation{}, b,
	)

	rendered := b.String()
	assert.Contains(t, rendered, "(pin passive line (at 2.54 0 180)")
	assert.Contains(t, rendered, `(name "VCC"`)
	assert.Contains(t, rendered, `(number "1"`)
}

func TestRenderAppliesTranslation(t *testing.T) {
	b := &DrawingBuilder{}
	registry := NewShapeRegistry(nopLog())

	registry.Render("R~410~290~2~2~20~10~#880000~1~0~none~gge5~0", Translation{X: 400, Y: 300}, b)

	assert.Contains(t, b.String(), "(rectangle (start 2.54 2.54)")
}

func TestRenderUnknownTagSkipped(t *testing.T) {
	b := &DrawingBuilder{}
	registry := NewShapeRegistry(nopLog())

	registry.Render("ZZ~1~2~3", Translation{}, b)

	assert.Equal(t, "", b.String())
}

func TestRenderMalformedShapeSkipped(t *testing.T) {
	b := &DrawingBuilder{}
	registry := NewShapeRegistry(nopLog())

	registry.Render("R~not~a~number~~x~y", Translation{}, b)

	assert.Equal(t, "", b.String())
}

func TestRegisterCustomHandler(t *testing.T) {
	b := &DrawingBuilder{}
	registry := NewShapeRegistry(nopLog())
	registry.Register("T", ShapeHandlerFunc(
		func(args []string, offset Translation, b *DrawingBuilder) error {
			b.WriteFragment("\n      (text)")
			return nil
		},
	))

	registry.Render("T~anything", Translation{}, b)

	assert.Equal(t, "\n      (text)", b.String())
}
