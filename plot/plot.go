// Package plot renders gamma ramps as a line graph.
//
// The horizontal axis is the position in the ramp, the vertical axis the
// output value, both normalised to [0, 1]. Each channel is drawn in its own
// colour over a grid of tenths.
package plot

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/BeatGlow/gamma/ramp"
)

// ErrTooSmall is returned for plots without room for the graph.
var ErrTooSmall = errors.New("plot: image too small")

// Options for rendering.
type Options struct {
	// Width and Height of the image in pixels.
	Width, Height int

	// Margin around the graph in pixels; the labels are drawn inside it.
	Margin int

	// Title is drawn above the graph if not empty.
	Title string

	// Labels enables the axis labels.
	Labels bool

	// FontSize of the labels and title in points.
	FontSize float64

	Background color.Color
	Grid       color.Color
	Text       color.Color

	// Red, Green and Blue are the channel colours.
	Red, Green, Blue color.Color
}

// DefaultOptions are the options used if none are given.
var DefaultOptions = Options{
	Width:      512,
	Height:     512,
	Margin:     32,
	Labels:     true,
	FontSize:   10,
	Background: color.Black,
	Grid:       color.RGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xff},
	Text:       color.White,
	Red:        color.RGBA{R: 0xff, A: 0xff},
	Green:      color.RGBA{G: 0xff, A: 0xff},
	Blue:       color.RGBA{R: 0x40, G: 0x80, B: 0xff, A: 0xff},
}

// Ramps draws the ramps r into a new image.
func Ramps(r ramp.Ramps, opts *Options) (*image.RGBA, error) {
	if opts == nil {
		opts = &DefaultOptions
	}
	graph := image.Rect(opts.Margin, opts.Margin, opts.Width-opts.Margin, opts.Height-opts.Margin)
	if graph.Dx() < 2 || graph.Dy() < 2 {
		return nil, ErrTooSmall
	}

	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)

	for i := 0; i <= 10; i++ {
		x := graph.Min.X + i*(graph.Dx()-1)/10
		y := graph.Min.Y + i*(graph.Dy()-1)/10
		VerticalLine(img, x, graph.Min.Y, graph.Dy(), opts.Grid)
		HorizontalLine(img, graph.Min.X, y, graph.Dx(), opts.Grid)
	}

	var (
		sizes  [3]int
		colors = [3]color.Color{opts.Red, opts.Green, opts.Blue}
		offset int
	)
	sizes[0], sizes[1], sizes[2] = r.Sizes()
	for c, n := range sizes {
		channel(img, graph, r, offset, n, colors[c])
		offset += n
	}

	if opts.Labels || opts.Title != "" {
		if err := label(img, graph, opts); err != nil {
			return nil, err
		}
	}
	return img, nil
}

// channel draws the n stops starting at offset as a polyline.
func channel(dst draw.Image, graph image.Rectangle, r ramp.Ramps, offset, n int, c color.Color) {
	point := func(i int) image.Point {
		var x float64
		if n > 1 {
			x = float64(i) / float64(n-1)
		}
		y := float64(ramp.Canonical(r, offset+i)) / math.MaxUint64
		return image.Point{
			X: graph.Min.X + int(math.Round(x*float64(graph.Dx()-1))),
			Y: graph.Max.Y - 1 - int(math.Round(y*float64(graph.Dy()-1))),
		}
	}

	if n == 1 {
		p := point(0)
		dst.Set(p.X, p.Y, c)
		return
	}
	for i := 1; i < n; i++ {
		Line(dst, point(i-1), point(i), c)
	}
}
