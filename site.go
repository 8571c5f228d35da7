package gamma

import (
	"errors"
	"fmt"
	"log/slog"
)

// Site is a connection to a display server or hardware root.
type Site struct {
	// Method is the adjustment method of the site.
	Method Method

	// Name identifies the site, e.g. an X display name. It is empty for
	// methods that have a single site.
	Name string

	// Partitions is the number of partitions in the site.
	Partitions int

	caps  Capabilities
	state SiteState
}

// NewSite opens a site with the registered driver of the method. An empty
// site name selects the default site of the method.
func NewSite(m Method, site string) (*Site, error) {
	d, ok := drivers[m]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchAdjustmentMethod, m)
	}
	return NewSiteWithDriver(m, d, site)
}

// NewSiteWithDriver opens a site with an explicit driver, such as a
// configured dummy driver.
func NewSiteWithDriver(m Method, d Driver, site string) (*Site, error) {
	if d == nil {
		return nil, ErrNoSuchAdjustmentMethod
	}

	caps := MethodCapabilities(m)
	if r, ok := d.(CapabilityReporter); ok {
		caps = r.Capabilities()
	}

	if site == "" {
		site, _ = DefaultSite(m)
	}
	state, err := d.OpenSite(site)
	if err != nil {
		return nil, err
	}

	s := &Site{
		Method:     m,
		Name:       site,
		Partitions: state.Partitions(),
		caps:       caps,
		state:      state,
	}
	slog.Debug("gamma: opened site", "method", m, "site", site, "partitions", s.Partitions)
	return s, nil
}

// Capabilities of the adjustment method of the site.
func (s *Site) Capabilities() Capabilities {
	return s.caps
}

func (s *Site) String() string {
	if s.Name == "" {
		return s.Method.String()
	}
	return fmt.Sprintf("%s:%s", s.Method, s.Name)
}

// Close releases the site. All partitions must be closed first.
func (s *Site) Close() error {
	if s.state == nil {
		return nil
	}
	err := s.state.Close()
	s.state = nil
	slog.Debug("gamma: closed site", "site", s)
	return err
}

// Restore resets the ramps of every CRTC in the site to the system settings.
func (s *Site) Restore() error {
	if !s.caps.SiteRestore {
		return ErrRestoreNotSupported
	}
	if s.state == nil {
		return errClosedSite
	}
	return s.state.Restore()
}

// Partition opens the partition with the given index.
func (s *Site) Partition(index int) (*Partition, error) {
	if index < 0 || index >= s.Partitions {
		return nil, fmt.Errorf("%w: %d of %d", ErrNoSuchPartition, index, s.Partitions)
	}
	if s.state == nil {
		return nil, errClosedSite
	}
	state, err := s.state.OpenPartition(index)
	if err != nil {
		return nil, err
	}
	p := &Partition{
		Site:  s,
		Index: index,
		CRTCs: state.CRTCs(),
		state: state,
	}
	slog.Debug("gamma: opened partition", "site", s, "partition", index, "crtcs", p.CRTCs)
	return p, nil
}

// Partition is a subdivision of a site: an X screen, a graphics card or the
// single partition of methods without subdivisions.
type Partition struct {
	// Site the partition belongs to.
	Site *Site

	// Index of the partition in the site.
	Index int

	// CRTCs is the number of CRTCs in the partition.
	CRTCs int

	state PartitionState
}

func (p *Partition) String() string {
	return fmt.Sprintf("%s.%d", p.Site, p.Index)
}

// Close releases the partition. All CRTCs must be closed first.
func (p *Partition) Close() error {
	if p.state == nil {
		return nil
	}
	err := p.state.Close()
	p.state = nil
	return err
}

// Restore resets the ramps of every CRTC in the partition to the system
// settings.
func (p *Partition) Restore() error {
	if !p.Site.caps.PartitionRestore {
		return ErrRestoreNotSupported
	}
	if p.state == nil {
		return errClosedPartition
	}
	return p.state.Restore()
}

// CRTC opens the CRTC with the given index.
func (p *Partition) CRTC(index int) (*CRTC, error) {
	if index < 0 || index >= p.CRTCs {
		return nil, fmt.Errorf("%w: %d of %d", ErrNoSuchCRTC, index, p.CRTCs)
	}
	if p.state == nil {
		return nil, errClosedPartition
	}
	state, err := p.state.OpenCRTC(index)
	if err != nil {
		return nil, err
	}
	return &CRTC{
		Partition: p,
		Index:     index,
		state:     state,
	}, nil
}

// Outputs is every partition and CRTC of a site, opened by OpenAll.
type Outputs struct {
	Site       *Site
	Partitions []*Partition
	CRTCs      []*CRTC
}

// OpenAll opens a site with the registered driver of the method together
// with all of its partitions and CRTCs.
func OpenAll(m Method, site string) (*Outputs, error) {
	s, err := NewSite(m, site)
	if err != nil {
		return nil, err
	}
	out, err := s.OpenAll()
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	return out, nil
}

// OpenAll opens all partitions and CRTCs of the site. On failure everything
// opened so far is closed again, except the site itself.
func (s *Site) OpenAll() (*Outputs, error) {
	out := &Outputs{Site: s}
	for i := 0; i < s.Partitions; i++ {
		p, err := s.Partition(i)
		if err != nil {
			_ = out.closeChildren()
			return nil, err
		}
		out.Partitions = append(out.Partitions, p)
		for j := 0; j < p.CRTCs; j++ {
			c, err := p.CRTC(j)
			if err != nil {
				_ = out.closeChildren()
				return nil, err
			}
			out.CRTCs = append(out.CRTCs, c)
		}
	}
	return out, nil
}

// Close closes every CRTC, partition and finally the site.
func (o *Outputs) Close() error {
	err := o.closeChildren()
	return errors.Join(err, o.Site.Close())
}

func (o *Outputs) closeChildren() error {
	var errs []error
	for _, c := range o.CRTCs {
		errs = append(errs, c.Close())
	}
	for _, p := range o.Partitions {
		errs = append(errs, p.Close())
	}
	o.CRTCs, o.Partitions = nil, nil
	return errors.Join(errs...)
}
