package gamma

import (
	"fmt"
	"log/slog"

	"github.com/BeatGlow/gamma/edid"
	"github.com/BeatGlow/gamma/ramp"
)

// CRTC owns a set of gamma ramps and drives a connector.
type CRTC struct {
	// Partition the CRTC belongs to.
	Partition *Partition

	// Index of the CRTC in the partition.
	Index int

	state CRTCState
}

func (c *CRTC) String() string {
	return fmt.Sprintf("%s.%d", c.Partition, c.Index)
}

// Close releases the CRTC.
func (c *CRTC) Close() error {
	if c.state == nil {
		return nil
	}
	err := c.state.Close()
	c.state = nil
	return err
}

// Restore resets the ramps of the CRTC to the system settings.
func (c *CRTC) Restore() error {
	if !c.Partition.Site.caps.CRTCRestore {
		return ErrRestoreNotSupported
	}
	if c.state == nil {
		return errClosedCRTC
	}
	return c.state.Restore()
}

// Depth is the native ramp depth of the CRTC. Ramps of this depth are passed
// to the backend without translation. It is zero once the CRTC is closed.
func (c *CRTC) Depth() ramp.Depth {
	if c.state == nil {
		return 0
	}
	return c.state.Depth()
}

// Information returns the requested fields of the CRTC information.
//
// Fields are filled independently: a returned *InformationError lists the
// fields that failed, and the other fields are still valid.
func (c *CRTC) Information(fields Field) (*CRTCInformation, error) {
	var (
		info = new(CRTCInformation)
		caps = c.Partition.Site.caps
		want = fields & caps.CRTCInformation
	)
	info.SetError(fields&^caps.CRTCInformation, ErrCRTCInfoNotSupported)
	if c.state == nil {
		info.SetError(want, errClosedCRTC)
		return info, &InformationError{Failed: info.Failed(fields)}
	}

	query := want &^ fieldFromEDID
	if want&fieldFromEDID != 0 {
		query |= FieldEDID
	}
	if query != 0 {
		c.state.Information(info, query)
	}
	if want&fieldFromEDID != 0 {
		decodeEDID(info, want)
	}
	if fields&FieldEDID == 0 {
		info.EDID, info.EDIDErr = nil, nil
	}

	if failed := info.Failed(fields); failed != 0 {
		return info, &InformationError{Failed: failed}
	}
	return info, nil
}

// decodeEDID fills the EDID derived fields from info.EDID.
func decodeEDID(info *CRTCInformation, fields Field) {
	fields &= fieldFromEDID
	if info.EDIDErr != nil {
		info.SetError(fields, info.EDIDErr)
		return
	}

	parsed, err := edid.Parse(info.EDID)
	if parsed == nil {
		info.SetError(fields, fromEDID(err))
		return
	}
	if err != nil {
		slog.Debug("gamma: decoding EDID on a best effort basis", "error", err)
	}

	if fields&FieldWidthMMEDID != 0 {
		info.WidthMMEDID, info.WidthMMEDIDErr = parsed.WidthMM, fromEDID(parsed.ViewportErr)
	}
	if fields&FieldHeightMMEDID != 0 {
		info.HeightMMEDID, info.HeightMMEDIDErr = parsed.HeightMM, fromEDID(parsed.ViewportErr)
	}
	if fields&FieldGamma != 0 {
		info.GammaRed = parsed.Gamma
		info.GammaGreen = parsed.Gamma
		info.GammaBlue = parsed.Gamma
		info.GammaErr = fromEDID(parsed.GammaErr)
	}
	switch {
	case parsed.Err != nil:
		info.EDIDErr = fromEDID(parsed.Err)
	case err != nil:
		info.EDIDErr = fromEDID(err)
	}
}

// GammaRamps reads the current ramps of the CRTC into r. Ramps of any depth
// are accepted; the sizes must match the gamma sizes of the CRTC.
func (c *CRTC) GammaRamps(r ramp.Ramps) error {
	if c.state == nil {
		return errClosedCRTC
	}
	if err := c.checkSizes(r); err != nil {
		return err
	}

	native := c.state.Depth()
	if r.Depth() == native {
		return c.state.GammaRamps(r)
	}

	red, green, blue := r.Sizes()
	sys, err := ramp.New(native, red, green, blue)
	if err != nil {
		return err
	}
	if err = c.state.GammaRamps(sys); err != nil {
		return err
	}
	return ramp.Translate(r, sys)
}

// SetGammaRamps applies r to the CRTC. Ramps of any depth are accepted; the
// sizes must match the gamma sizes of the CRTC.
func (c *CRTC) SetGammaRamps(r ramp.Ramps) error {
	if c.state == nil {
		return errClosedCRTC
	}
	if red, green, blue := r.Sizes(); red < 2 || green < 2 || blue < 2 {
		return ErrSingletonGammaRamp
	}
	if err := c.checkSizes(r); err != nil {
		return err
	}

	native := c.state.Depth()
	if r.Depth() == native {
		return c.state.SetGammaRamps(r)
	}

	red, green, blue := r.Sizes()
	sys, err := ramp.New(native, red, green, blue)
	if err != nil {
		return err
	}
	if err = ramp.Translate(sys, r); err != nil {
		return err
	}
	return c.state.SetGammaRamps(sys)
}

// checkSizes validates the ramp sizes against the gamma sizes reported by the
// backend. It only runs when debug checks are enabled.
func (c *CRTC) checkSizes(r ramp.Ramps) error {
	if !debug {
		return nil
	}

	var (
		caps             = c.Partition.Site.caps
		red, green, blue = r.Sizes()
	)
	if caps.CRTCInformation&FieldGammaSize != 0 {
		var info CRTCInformation
		c.state.Information(&info, FieldGammaSize)
		if info.GammaSizeErr == nil {
			if red != info.RedGammaSize || green != info.GreenGammaSize || blue != info.BlueGammaSize {
				return fmt.Errorf("%w: got %d/%d/%d, CRTC has %d/%d/%d", ErrWrongGammaRampSize,
					red, green, blue, info.RedGammaSize, info.GreenGammaSize, info.BlueGammaSize)
			}
			return nil
		}
	}
	if caps.IdenticalGammaSizes && (red != green || green != blue) {
		return ErrMixedGammaRampSize
	}
	return nil
}
