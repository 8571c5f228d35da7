package plot

import (
	"fmt"
	"image"
	"image/draw"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

const dpi = 72

var regular = sync.OnceValues(func() (*truetype.Font, error) {
	return freetype.ParseFont(goregular.TTF)
})

// label draws the title and the axis labels around graph.
func label(dst draw.Image, graph image.Rectangle, opts *Options) error {
	f, err := regular()
	if err != nil {
		return fmt.Errorf("plot: %w", err)
	}

	size := opts.FontSize
	if size <= 0 {
		size = DefaultOptions.FontSize
	}
	var (
		face = truetype.NewFace(f, &truetype.Options{Size: size, DPI: dpi, Hinting: font.HintingFull})
		ctx  = freetype.NewContext()
	)
	defer face.Close()
	ctx.SetDPI(dpi)
	ctx.SetFont(f)
	ctx.SetFontSize(size)
	ctx.SetHinting(font.HintingFull)
	ctx.SetClip(dst.Bounds())
	ctx.SetDst(dst)
	ctx.SetSrc(image.NewUniform(opts.Text))

	var (
		ascent = face.Metrics().Ascent
		gap    = fixed.I(4)
	)
	text := func(s string, x fixed.Int26_6, y fixed.Int26_6) error {
		_, err := ctx.DrawString(s, fixed.Point26_6{X: x, Y: y})
		return err
	}
	centered := func(s string, x int) fixed.Int26_6 {
		return fixed.I(x) - font.MeasureString(face, s)/2
	}

	if opts.Title != "" {
		if err = text(opts.Title, centered(opts.Title, (graph.Min.X+graph.Max.X)/2), fixed.I(graph.Min.Y)-gap); err != nil {
			return err
		}
	}
	if !opts.Labels {
		return nil
	}

	for _, tick := range []struct {
		s string
		v float64
	}{{"0", 0}, {"0.5", 0.5}, {"1", 1}} {
		x := graph.Min.X + int(tick.v*float64(graph.Dx()-1))
		if err = text(tick.s, centered(tick.s, x), fixed.I(graph.Max.Y)+gap+ascent); err != nil {
			return err
		}
		y := graph.Max.Y - 1 - int(tick.v*float64(graph.Dy()-1))
		w := font.MeasureString(face, tick.s)
		if err = text(tick.s, fixed.I(graph.Min.X)-gap-w, fixed.I(y)+ascent/2); err != nil {
			return err
		}
	}
	return nil
}
