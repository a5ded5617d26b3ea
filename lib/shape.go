package lib

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

/*
	One EasyEDA drawing unit is 10 mil.
*/
const edaUnit = 0.254

/*
	Symbol origin in EasyEDA canvas coordinates. All shape coordinates are
	expressed relative to it.
*/
type Translation struct {
	X float64
	Y float64
}

/*
	DrawingBuilder accumulates the rendered body of one symbol unit.
	Handlers append fragments through it; the builder is owned by the
	caller and threaded through every handler invocation.
*/
type DrawingBuilder struct {
	buf strings.Builder
}

func (b *DrawingBuilder) WriteFragment(fragment string) {
	b.buf.WriteString(fragment)
}

func (b *DrawingBuilder) String() string {
	return b.buf.String()
}

/*
	A ShapeHandler renders one raw primitive into drawing commands.
	args is the primitive's argument list with the type tag removed.
*/
type ShapeHandler interface {
	Draw(args []string, offset Translation, b *DrawingBuilder) error
}

type ShapeHandlerFunc func(args []string, offset Translation, b *DrawingBuilder) error

func (f ShapeHandlerFunc) Draw(args []string, offset Translation, b *DrawingBuilder) error {
	return f(args, offset, b)
}

/*
	Registry of primitive handlers, keyed by the type tag that leads each
	raw shape line. Unknown tags are skipped, never fatal.
*/
type ShapeRegistry struct {
	handlers map[string]ShapeHandler
	log      *zap.SugaredLogger
}

func NewShapeRegistry(log *zap.SugaredLogger) *ShapeRegistry {
	registry := &ShapeRegistry{
		handlers: map[string]ShapeHandler{},
		log:      log,
	}

	registry.Register("R", ShapeHandlerFunc(drawRectangle))
	registry.Register("E", ShapeHandlerFunc(drawEllipse))
	registry.Register("PL", ShapeHandlerFunc(drawPolyline))
	registry.Register("PG", ShapeHandlerFunc(drawPolygon))
	registry.Register("P", ShapeHandlerFunc(drawPin))

	return registry
}

func (r *ShapeRegistry) Register(tag string, handler ShapeHandler) {
	r.handlers[tag] = handler
}

/*
	Render one raw shape line into the builder.
*/
func (r *ShapeRegistry) Render(line string, offset Translation, b *DrawingBuilder) {
	args := strings.Split(line, "~")
	handler, ok := r.handlers[args[0]]
	if !ok {
		r.log.Warnw("no handler for shape", "tag", args[0])
		return
	}

	if err := handler.Draw(args[1:], offset, b); err != nil {
		r.log.Warnw("failed to render shape", "tag", args[0], "error", err)
	}
}

func fmtMM(v float64) string {
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}

func relX(raw string, offset Translation) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}

	return (v - offset.X) * edaUnit, nil
}

/*
	The drawing y axis points down; the symbol y axis points up.
*/
func relY(raw string, offset Translation) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}

	return (offset.Y - v) * edaUnit, nil
}

/*
	R~x~y~rx~ry~width~height~...
*/
func drawRectangle(args []string, offset Translation, b *DrawingBuilder) error {
	if len(args) < 6 {
		return fmt.Errorf("rectangle has %d arguments", len(args))
	}

	x, err := relX(args[0], offset)
	if err != nil {
		return err
	}
	y, err := relY(args[1], offset)
	if err != nil {
		return err
	}
	width, err := strconv.ParseFloat(args[4], 64)
	if err != nil {
		return err
	}
	height, err := strconv.ParseFloat(args[5], 64)
	if err != nil {
		return err
	}

	b.WriteFragment(fmt.Sprintf(
		"\n      (rectangle (start %s %s) (end %s %s)"+
			"\n        (stroke (width 0.254) (type default))"+
			"\n        (fill (type background))"+
			"\n      )",
		fmtMM(x), fmtMM(y), fmtMM(x+width*edaUnit), fmtMM(y-height*edaUnit),
	))

	return nil
}

/*
	E~cx~cy~rx~ry~...

	Non-circular ellipses are approximated by a circle of the mean radius.
*/
func drawEllipse(args []string, offset Translation, b *DrawingBuilder) error {
	if len(args) < 4 {
		return fmt.Errorf("ellipse has %d arguments", len(args))
	}

	cx, err := relX(args[0], offset)
	if err != nil {
		return err
	}
	cy, err := relY(args[1], offset)
	if err != nil {
		return err
	}
	rx, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return err
	}
	ry, err := strconv.ParseFloat(args[3], 64)
	if err != nil {
		return err
	}

	b.WriteFragment(fmt.Sprintf(
		"\n      (circle (center %s %s) (radius %s)"+
			"\n        (stroke (width 0.254) (type default))"+
			"\n        (fill (type none))"+
			"\n      )",
		fmtMM(cx), fmtMM(cy), fmtMM((rx+ry)/2*edaUnit),
	))

	return nil
}

/*
	PL~x1 y1 x2 y2 ...~...
*/
func drawPolyline(args []string, offset Translation, b *DrawingBuilder) error {
	return drawPoly(args, offset, b, false)
}

/*
	PG~x1 y1 x2 y2 ...~...

	A polygon is a closed, filled polyline.
*/
func drawPolygon(args []string, offset Translation, b *DrawingBuilder) error {
	return drawPoly(args, offset, b, true)
}

func drawPoly(args []string, offset Translation, b *DrawingBuilder, closed bool) error {
	if len(args) < 1 {
		return fmt.Errorf("polyline has no points")
	}

	points := strings.Fields(args[0])
	if len(points) < 4 || len(points)%2 != 0 {
		return fmt.Errorf("polyline has %d coordinates", len(points))
	}

	pts := []string{}
	for i := 0; i < len(points); i += 2 {
		x, err := relX(points[i], offset)
		if err != nil {
			return err
		}
		y, err := relY(points[i+1], offset)
		if err != nil {
			return err
		}

		pts = append(pts, fmt.Sprintf("(xy %s %s)", fmtMM(x), fmtMM(y)))
	}

	fill := "none"
	if closed {
		pts = append(pts, pts[0])
		fill = "outline"
	}

	b.WriteFragment(fmt.Sprintf(
		"\n      (polyline (pts %s)"+
			"\n        (stroke (width 0.254) (type default))"+
			"\n        (fill (type %s))"+
			"\n      )",
		strings.Join(pts, " "), fill,
	))

	return nil
}

/*
	P~display~electric~number~x~y~rotation~id~...^^dot^^path^^name text^^...

	Only the head segment and the name text are used; the pin path is
	implied by position and rotation.
*/
func drawPin(args []string, offset Translation, b *DrawingBuilder) error {
	segments := strings.Split(strings.Join(args, "~"), "^^")
	head := strings.Split(segments[0], "~")
	if len(head) < 6 {
		return fmt.Errorf("pin head has %d fields", len(head))
	}

	number := head[2]
	x, err := relX(head[3], offset)
	if err != nil {
		return err
	}
	y, err := relY(head[4], offset)
	if err != nil {
		return err
	}

	rotation := 0.0
	if head[5] != "" {
		if rotation, err = strconv.ParseFloat(head[5], 64); err != nil {
			return err
		}
	}

	name := number
	if len(segments) > 3 {
		fields := strings.Split(segments[3], "~")
		if text := fields[len(fields)-1]; text != "" {
			name = text
		}
	}

	b.WriteFragment(fmt.Sprintf(
		"\n      (pin passive line (at %s %s %d) (length 2.54)"+
			"\n        (name %q (effects (font (size 1.27 1.27))))"+
			"\n        (number %q (effects (font (size 1.27 1.27))))"+
			"\n      )",
		fmtMM(x), fmtMM(y), int(rotation)%360, name, number,
	))

	return nil
}
