package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli"

	"github.com/BeatGlow/gamma"
	"github.com/BeatGlow/gamma/ddc"
	"github.com/BeatGlow/gamma/edid"
	"github.com/BeatGlow/gamma/plot"
	"github.com/BeatGlow/gamma/ramp"
)

func listMethods(c *cli.Context) error {
	for _, m := range gamma.ListMethods(gamma.ListAny) {
		var (
			caps      = gamma.MethodCapabilities(m)
			available = "unavailable"
		)
		if gamma.Available(m) {
			available = "available"
		}
		fmt.Printf("%-8s %s\n", m, available)
		if v := gamma.DefaultSiteVariable(m); v != "" {
			site, _ := gamma.DefaultSite(m)
			fmt.Printf("  default site: $%s=%q\n", v, site)
		}
		fmt.Printf("  information:  %s\n", caps.CRTCInformation)
		fmt.Printf("  restore:      site=%t partition=%t crtc=%t\n", caps.SiteRestore, caps.PartitionRestore, caps.CRTCRestore)
		fmt.Printf("  real:         %t (fake %t)\n", caps.Real, caps.Fake)
	}
	return nil
}

func listOutputs(c *cli.Context) error {
	out, err := openAll(c)
	if err != nil {
		return err
	}
	defer out.Close()

	fmt.Printf("%s: %d partitions\n", out.Site, out.Site.Partitions)
	for _, p := range out.Partitions {
		fmt.Printf("  %s: %d CRTCs\n", p, p.CRTCs)
	}
	for _, crtc := range out.CRTCs {
		info, _ := crtc.Information(gamma.FieldMacroConnector)
		name := info.ConnectorName
		if info.ConnectorNameErr != nil {
			name = "?"
		}
		fmt.Printf("    %s: %s %s active=%s\n", crtc, name, info.ConnectorType, optional(info.Active, info.ActiveErr))
	}
	return nil
}

func showInformation(c *cli.Context) error {
	out, crtcs, err := openSelected(c)
	if err != nil {
		return err
	}
	defer out.Close()

	for _, crtc := range crtcs {
		info, err := crtc.Information(gamma.FieldAll)
		if err != nil {
			slog.Debug("incomplete information", "crtc", crtc, "error", err)
		}
		fmt.Printf("%s:\n", crtc)
		fmt.Printf("  connector:     %s\n", optional(info.ConnectorName, info.ConnectorNameErr))
		fmt.Printf("  type:          %s\n", optional(info.ConnectorType, info.ConnectorTypeErr))
		fmt.Printf("  active:        %s\n", optional(info.Active, info.ActiveErr))
		fmt.Printf("  size:          %s x %s mm\n", optional(info.WidthMM, info.WidthMMErr), optional(info.HeightMM, info.HeightMMErr))
		fmt.Printf("  size (EDID):   %s x %s mm\n", optional(info.WidthMMEDID, info.WidthMMEDIDErr), optional(info.HeightMMEDID, info.HeightMMEDIDErr))
		fmt.Printf("  subpixels:     %s\n", optional(info.Subpixel, info.SubpixelErr))
		fmt.Printf("  gamma size:    %s\n", optional(fmt.Sprintf("%d/%d/%d", info.RedGammaSize, info.GreenGammaSize, info.BlueGammaSize), info.GammaSizeErr))
		fmt.Printf("  gamma depth:   %s\n", optional(info.GammaDepth, info.GammaDepthErr))
		fmt.Printf("  gamma support: %s\n", optional(info.GammaSupport, info.GammaSupportErr))
		fmt.Printf("  gamma (EDID):  %s\n", optional(fmt.Sprintf("%.2f", info.GammaRed), info.GammaErr))
		fmt.Printf("  EDID:          %s\n", optional(edid.ToHex(info.EDID), info.EDIDErr))
	}
	return nil
}

func getRamps(c *cli.Context) error {
	var depth ramp.Depth
	if s := c.String("depth"); s != "" {
		var err error
		if depth, err = parseDepth(s); err != nil {
			return err
		}
	}

	out, crtcs, err := openSelected(c)
	if err != nil {
		return err
	}
	defer out.Close()

	for _, crtc := range crtcs {
		d := depth
		if d == 0 {
			d = crtc.Depth()
		}
		r, err := allocate(crtc, d)
		if err != nil {
			return err
		}
		if err = crtc.GammaRamps(r); err != nil {
			return fmt.Errorf("%s: %w", crtc, err)
		}
		fmt.Printf("%s (%s):\n%s\n", crtc, d, formatRamps(r))
	}
	return nil
}

func setRamps(c *cli.Context) error {
	curve, err := parseCurve(c.String("gamma"), c.String("brightness"))
	if err != nil {
		return err
	}

	out, crtcs, err := openSelected(c)
	if err != nil {
		return err
	}
	defer out.Close()

	for _, crtc := range crtcs {
		r, err := allocate(crtc, crtc.Depth())
		if err != nil {
			return err
		}
		curve.fill(r)
		if err = crtc.SetGammaRamps(r); err != nil {
			return fmt.Errorf("%s: %w", crtc, err)
		}
		slog.Info("applied curve", "crtc", crtc, "gamma", c.String("gamma"), "brightness", c.String("brightness"))
	}
	return nil
}

func restore(c *cli.Context) error {
	out, crtcs, err := openSelected(c)
	if err != nil {
		return err
	}
	defer out.Close()

	var (
		caps     = out.Site.Capabilities()
		selected = c.Int("partition") >= 0 || c.Int("crtc") >= 0
	)
	switch {
	case caps.SiteRestore && !selected:
		return out.Site.Restore()
	case caps.CRTCRestore:
		for _, crtc := range crtcs {
			if err = crtc.Restore(); err != nil {
				return fmt.Errorf("%s: %w", crtc, err)
			}
		}
		return nil
	case caps.PartitionRestore && c.Int("crtc") < 0:
		for _, p := range out.Partitions {
			if i := c.Int("partition"); i >= 0 && p.Index != i {
				continue
			}
			if err = p.Restore(); err != nil {
				return fmt.Errorf("%s: %w", p, err)
			}
		}
		return nil
	default:
		return fmt.Errorf("%s: %w", out.Site, gamma.ErrRestoreNotSupported)
	}
}

func decodeEDID(c *cli.Context) error {
	var (
		data []byte
		err  error
	)
	switch {
	case c.Bool("ddc"):
		bus, err := ddc.Open(&ddc.Config{
			Device:     c.Int("bus"),
			Addr:       ddc.Addr,
			Extensions: c.Bool("extensions"),
		})
		if err != nil {
			return err
		}
		defer bus.Close()
		slog.Debug("reading EDID", "bus", bus)
		if data, err = bus.ReadEDID(); err != nil {
			return err
		}
		if len(data) > edid.Length {
			fmt.Printf("extension: %s\n", edid.ToHex(data[edid.Length:]))
			data = data[:edid.Length]
		}
	case c.NArg() == 0 || c.Args().First() == "-":
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		if data, err = edid.FromHex(strings.Join(strings.Fields(string(b)), "")); err != nil {
			return err
		}
	default:
		if data, err = edid.FromHex(c.Args().First()); err != nil {
			return err
		}
	}

	info, err := edid.Parse(data)
	if info == nil {
		return err
	}
	if err != nil {
		slog.Warn("EDID decoded on a best effort basis", "error", err)
	}
	fmt.Printf("manufacturer: %s\n", info.Manufacturer)
	fmt.Printf("product:      %#04x\n", info.ProductCode)
	fmt.Printf("serial:       %d\n", info.Serial)
	fmt.Printf("made:         week %d of %d\n", info.Week, info.Year)
	fmt.Printf("version:      %d.%d\n", info.Version, info.Revision)
	fmt.Printf("checksum:     %s\n", optional("ok", info.Err))
	fmt.Printf("size:         %s x %s mm\n", optional(info.WidthMM, info.ViewportErr), optional(info.HeightMM, info.ViewportErr))
	fmt.Printf("gamma:        %s\n", optional(fmt.Sprintf("%.2f", info.Gamma), info.GammaErr))
	return nil
}

func plotRamps(c *cli.Context) error {
	out, crtcs, err := openSelected(c)
	if err != nil {
		return err
	}
	defer out.Close()

	opts := plot.DefaultOptions
	opts.Width, opts.Height = c.Int("size"), c.Int("size")
	for _, crtc := range crtcs {
		r, err := allocate(crtc, crtc.Depth())
		if err != nil {
			return err
		}
		if err = crtc.GammaRamps(r); err != nil {
			return fmt.Errorf("%s: %w", crtc, err)
		}

		opts.Title = crtc.String()
		img, err := plot.Ramps(r, &opts)
		if err != nil {
			return err
		}

		name := c.String("output")
		if len(crtcs) > 1 {
			ext := filepath.Ext(name)
			name = fmt.Sprintf("%s-%d-%d%s", strings.TrimSuffix(name, ext), crtc.Partition.Index, crtc.Index, ext)
		}
		if err = writePNG(name, img); err != nil {
			return err
		}
		slog.Info("wrote plot", "crtc", crtc, "path", name)
	}
	return nil
}
