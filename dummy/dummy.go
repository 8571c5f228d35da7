// Package dummy implements an in-memory adjustment method for testing.
//
// The dummy method emulates sites, partitions and CRTCs without touching any
// hardware. Ramps written to a CRTC are kept for the lifetime of the site, and
// restoring puts back the ramps the CRTC started with. The driver registered
// for [gamma.Dummy] uses [DefaultConfig]; use [New] with
// [gamma.NewSiteWithDriver] for other layouts.
package dummy

import (
	"fmt"
	"slices"

	"github.com/BeatGlow/gamma"
	"github.com/BeatGlow/gamma/ramp"
)

func init() {
	gamma.Register(gamma.Dummy, New(nil))
}

// Config describes the emulated outputs.
type Config struct {
	// Sites are the names of the sites; the first one is the default site.
	Sites []string

	// Partitions per site.
	Partitions int

	// CRTCs per partition.
	CRTCs int

	// Depth is the native ramp depth.
	Depth ramp.Depth

	// GammaSize is the number of stops per channel.
	GammaSize int

	// VerifyGammaSize rejects ramps that do not have GammaSize stops.
	VerifyGammaSize bool

	// Information is the template for the CRTC information. GammaSize and
	// Depth override the ramp fields; an empty ConnectorName is replaced by a
	// per-CRTC name.
	Information gamma.CRTCInformation

	// Capabilities overrides the capabilities of the dummy method.
	Capabilities *gamma.Capabilities
}

// DefaultConfig are the default configuration values.
var DefaultConfig = Config{
	Sites:           []string{"dummy"},
	Partitions:      1,
	CRTCs:           2,
	Depth:           ramp.Depth16,
	GammaSize:       256,
	VerifyGammaSize: true,
	Information: gamma.CRTCInformation{
		WidthMM:       520,
		HeightMM:      320,
		GammaSupport:  gamma.SupportYes,
		Subpixel:      gamma.SubpixelHorizontalRGB,
		Active:        true,
		ConnectorType: gamma.ConnectorVirtual,
	},
}

// Driver is the dummy adjustment method.
type Driver struct {
	config Config
}

// New returns a driver for the given configuration; nil selects
// DefaultConfig.
func New(config *Config) *Driver {
	if config == nil {
		config = new(Config)
		*config = DefaultConfig
	}
	c := *config
	if c.Depth == 0 {
		c.Depth = DefaultConfig.Depth
	}
	if c.GammaSize == 0 {
		c.GammaSize = DefaultConfig.GammaSize
	}
	return &Driver{config: c}
}

// Capabilities of the configured dummy method.
func (d *Driver) Capabilities() gamma.Capabilities {
	if d.config.Capabilities != nil {
		return *d.config.Capabilities
	}
	return gamma.MethodCapabilities(gamma.Dummy)
}

// OpenSite opens one of the configured sites.
func (d *Driver) OpenSite(name string) (gamma.SiteState, error) {
	if len(d.config.Sites) == 0 {
		return nil, gamma.ErrNoSuchSite
	}
	if name == "" {
		name = d.config.Sites[0]
	}
	if !slices.Contains(d.config.Sites, name) {
		return nil, fmt.Errorf("%w: %q", gamma.ErrNoSuchSite, name)
	}
	if !d.config.Depth.Valid() {
		return nil, fmt.Errorf("dummy: %w", ramp.ErrInvalidDepth)
	}

	s := &site{
		config:     &d.config,
		name:       name,
		partitions: make([][]*crtc, d.config.Partitions),
	}
	for i := range s.partitions {
		s.partitions[i] = make([]*crtc, d.config.CRTCs)
		for j := range s.partitions[i] {
			c, err := newCRTC(s, i, j)
			if err != nil {
				return nil, err
			}
			s.partitions[i][j] = c
		}
	}
	return s, nil
}

type site struct {
	config     *Config
	name       string
	partitions [][]*crtc
}

func (s *site) Partitions() int {
	return len(s.partitions)
}

func (s *site) OpenPartition(index int) (gamma.PartitionState, error) {
	return &partition{site: s, crtcs: s.partitions[index]}, nil
}

func (s *site) Restore() error {
	for _, crtcs := range s.partitions {
		for _, c := range crtcs {
			c.restore()
		}
	}
	return nil
}

func (s *site) Close() error {
	s.partitions = nil
	return nil
}

type partition struct {
	site  *site
	crtcs []*crtc
}

func (p *partition) CRTCs() int {
	return len(p.crtcs)
}

func (p *partition) OpenCRTC(index int) (gamma.CRTCState, error) {
	return p.crtcs[index], nil
}

func (p *partition) Restore() error {
	for _, c := range p.crtcs {
		c.restore()
	}
	return nil
}

func (p *partition) Close() error {
	return nil
}

type crtc struct {
	config  *Config
	name    string
	current ramp.Ramps
	saved   ramp.Ramps
}

func newCRTC(s *site, partition, index int) (*crtc, error) {
	size := s.config.GammaSize
	saved, err := ramp.New(s.config.Depth, size, size, size)
	if err != nil {
		return nil, err
	}
	ramp.Identity(saved)
	return &crtc{
		config:  s.config,
		name:    fmt.Sprintf("DUMMY-%s-%d-%d", s.name, partition, index),
		current: ramp.Clone(saved),
		saved:   saved,
	}, nil
}

func (c *crtc) restore() {
	c.current = ramp.Clone(c.saved)
}

func (c *crtc) Depth() ramp.Depth {
	return c.config.Depth
}

func (c *crtc) Information(info *gamma.CRTCInformation, fields gamma.Field) {
	tmpl := &c.config.Information
	if fields&gamma.FieldEDID != 0 {
		if tmpl.EDID == nil {
			info.EDIDErr = gamma.ErrEDIDNotFound
		} else {
			info.EDID = slices.Clone(tmpl.EDID)
		}
	}
	if fields&gamma.FieldWidthMM != 0 {
		info.WidthMM, info.WidthMMErr = tmpl.WidthMM, tmpl.WidthMMErr
	}
	if fields&gamma.FieldHeightMM != 0 {
		info.HeightMM, info.HeightMMErr = tmpl.HeightMM, tmpl.HeightMMErr
	}
	if fields&gamma.FieldGammaSize != 0 {
		info.RedGammaSize, info.GreenGammaSize, info.BlueGammaSize = c.current.Sizes()
	}
	if fields&gamma.FieldGammaDepth != 0 {
		info.GammaDepth = c.config.Depth
	}
	if fields&gamma.FieldGammaSupport != 0 {
		info.GammaSupport, info.GammaSupportErr = tmpl.GammaSupport, tmpl.GammaSupportErr
	}
	if fields&gamma.FieldSubpixel != 0 {
		info.Subpixel, info.SubpixelErr = tmpl.Subpixel, tmpl.SubpixelErr
	}
	if fields&gamma.FieldActive != 0 {
		info.Active, info.ActiveErr = tmpl.Active, tmpl.ActiveErr
	}
	if fields&gamma.FieldConnectorName != 0 {
		info.ConnectorName, info.ConnectorNameErr = tmpl.ConnectorName, tmpl.ConnectorNameErr
		if info.ConnectorName == "" && info.ConnectorNameErr == nil {
			info.ConnectorName = c.name
		}
	}
	if fields&gamma.FieldConnectorType != 0 {
		info.ConnectorType, info.ConnectorTypeErr = tmpl.ConnectorType, tmpl.ConnectorTypeErr
	}
}

func (c *crtc) checkSize(r ramp.Ramps) error {
	red, green, blue := r.Sizes()
	if !c.config.VerifyGammaSize {
		return nil
	}
	if size := c.config.GammaSize; red != size || green != size || blue != size {
		return fmt.Errorf("%w: got %d/%d/%d, want %d", gamma.ErrWrongGammaRampSize, red, green, blue, size)
	}
	return nil
}

func (c *crtc) GammaRamps(r ramp.Ramps) error {
	if err := c.checkSize(r); err != nil {
		return err
	}
	if err := ramp.Translate(r, c.current); err != nil {
		return fmt.Errorf("%w: %v", gamma.ErrWrongGammaRampSize, err)
	}
	return nil
}

func (c *crtc) SetGammaRamps(r ramp.Ramps) error {
	if err := c.checkSize(r); err != nil {
		return err
	}
	c.current = ramp.Clone(r)
	return nil
}

func (c *crtc) Restore() error {
	c.restore()
	return nil
}

func (c *crtc) Close() error {
	return nil
}
