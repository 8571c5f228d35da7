package main

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli"

	"github.com/BeatGlow/gamma"
	"github.com/BeatGlow/gamma/ramp"
)

var errNoMethod = errors.New("no adjustment method available")

// method resolves the --method flag, or picks the preferred real method.
func method(c *cli.Context) (gamma.Method, error) {
	if name := c.GlobalString("method"); name != "" {
		return gamma.ParseMethod(name)
	}
	for _, filter := range []int{gamma.ListDefaultSite, gamma.ListReal} {
		for _, m := range gamma.ListMethods(filter) {
			if filter == gamma.ListDefaultSite {
				if _, ok := gamma.DefaultSite(m); !ok {
					continue
				}
			}
			return m, nil
		}
	}
	return 0, errNoMethod
}

func openAll(c *cli.Context) (*gamma.Outputs, error) {
	m, err := method(c)
	if err != nil {
		return nil, err
	}
	slog.Debug("opening site", "method", m, "site", c.GlobalString("site"))
	return gamma.OpenAll(m, c.GlobalString("site"))
}

// openSelected opens a site and returns the CRTCs picked by the --partition
// and --crtc flags.
func openSelected(c *cli.Context) (*gamma.Outputs, []*gamma.CRTC, error) {
	out, err := openAll(c)
	if err != nil {
		return nil, nil, err
	}

	crtcs, err := selectCRTCs(out.CRTCs, c.Int("partition"), c.Int("crtc"))
	if err != nil {
		_ = out.Close()
		return nil, nil, err
	}
	return out, crtcs, nil
}

// selectCRTCs filters by partition and CRTC index; a negative index matches
// everything.
func selectCRTCs(all []*gamma.CRTC, partition, index int) ([]*gamma.CRTC, error) {
	var crtcs []*gamma.CRTC
	for _, crtc := range all {
		if partition >= 0 && crtc.Partition.Index != partition {
			continue
		}
		if index >= 0 && crtc.Index != index {
			continue
		}
		crtcs = append(crtcs, crtc)
	}
	if len(crtcs) == 0 {
		return nil, fmt.Errorf("%w: partition %d, CRTC %d", gamma.ErrNoSuchCRTC, partition, index)
	}
	return crtcs, nil
}

// allocate returns ramps of the given depth sized for the CRTC.
func allocate(crtc *gamma.CRTC, depth ramp.Depth) (ramp.Ramps, error) {
	info, err := crtc.Information(gamma.FieldGammaSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", crtc, info.GammaSizeErr)
	}
	return ramp.New(depth, info.RedGammaSize, info.GreenGammaSize, info.BlueGammaSize)
}

func parseDepth(s string) (ramp.Depth, error) {
	switch strings.ToLower(s) {
	case "float", "f":
		return ramp.Float, nil
	case "double", "d":
		return ramp.Double, nil
	}
	n, err := strconv.Atoi(strings.TrimSuffix(s, "-bit"))
	if err != nil || !ramp.Depth(n).Valid() || n <= 0 {
		return 0, fmt.Errorf("%w: %q", ramp.ErrInvalidDepth, s)
	}
	return ramp.Depth(n), nil
}

// curve is a gamma and brightness per channel.
type curve struct {
	gamma, brightness [3]float64
}

// parseCurve parses gamma and brightness, each a single value or
// red:green:blue.
func parseCurve(g, b string) (curve, error) {
	var (
		c   curve
		err error
	)
	if c.gamma, err = parseTriple(g); err != nil {
		return c, fmt.Errorf("invalid gamma: %w", err)
	}
	for _, g := range c.gamma {
		if g <= 0 {
			return c, fmt.Errorf("invalid gamma %v: must be positive", g)
		}
	}
	if c.brightness, err = parseTriple(b); err != nil {
		return c, fmt.Errorf("invalid brightness: %w", err)
	}
	return c, nil
}

func parseTriple(s string) ([3]float64, error) {
	var (
		out   [3]float64
		parts = strings.Split(s, ":")
	)
	if len(parts) != 1 && len(parts) != 3 {
		return out, fmt.Errorf("%q: expected one or three values", s)
	}
	for i := range out {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[i%len(parts)]), 64)
		if err != nil {
			return out, err
		}
		out[i] = v
	}
	return out, nil
}

func (c curve) channel(i int) func(float64) float64 {
	return func(x float64) float64 {
		return c.brightness[i] * math.Pow(x, 1/c.gamma[i])
	}
}

func (c curve) fill(r ramp.Ramps) {
	ramp.FillChannels(r, c.channel(0), c.channel(1), c.channel(2))
}

// formatRamps prints one line per channel.
func formatRamps(r ramp.Ramps) string {
	var (
		sizes  [3]int
		names  = [3]string{"red", "green", "blue"}
		lines  []string
		offset int
	)
	sizes[0], sizes[1], sizes[2] = r.Sizes()
	for c, n := range sizes {
		values := make([]string, n)
		for i := range values {
			values[i] = formatStop(r, offset+i)
		}
		lines = append(lines, fmt.Sprintf("  %-5s %s", names[c], strings.Join(values, " ")))
		offset += n
	}
	return strings.Join(lines, "\n")
}

func formatStop(r ramp.Ramps, i int) string {
	v := ramp.Canonical(r, i)
	switch d := r.Depth(); d {
	case ramp.Float, ramp.Double:
		return strconv.FormatFloat(float64(v)/math.MaxUint64, 'f', 4, 64)
	default:
		return fmt.Sprintf("%0*x", int(d)/4, v>>(64-uint(d)))
	}
}

// optional formats a value, or its error if it has one.
func optional(v any, err error) string {
	if err != nil {
		return "(" + err.Error() + ")"
	}
	return fmt.Sprint(v)
}

func writePNG(name string, img image.Image) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err = png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
