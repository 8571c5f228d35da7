package edid

import (
	"bytes"
	"errors"
	"testing"
)

// testEDID returns a valid EDID 1.3 block of a 52x32 cm "DEL" monitor with a
// gamma of 2.2.
func testEDID() []byte {
	data := make([]byte, Length)
	copy(data, Magic[:])
	data[offsetManufacturer], data[offsetManufacturer+1] = 0x10, 0xac
	data[offsetProduct], data[offsetProduct+1] = 0x34, 0x12
	data[offsetSerial] = 0x01
	data[offsetWeek] = 12
	data[offsetYear] = 30
	data[offsetVersion] = 1
	data[offsetRevision] = 3
	data[offsetWidth] = 52
	data[offsetHeight] = 32
	data[offsetGamma] = 120
	fixChecksum(data)
	return data
}

func fixChecksum(data []byte) {
	data[Length-1] = 0
	data[Length-1] = -Checksum(data)
}

func TestParse(t *testing.T) {
	info, err := Parse(testEDID())
	if err != nil {
		t.Fatal(err)
	}
	if info.Manufacturer != "DEL" {
		t.Errorf("expected manufacturer DEL, got %q", info.Manufacturer)
	}
	if info.ProductCode != 0x1234 {
		t.Errorf("expected product code 0x1234, got %#04x", info.ProductCode)
	}
	if info.Serial != 1 {
		t.Errorf("expected serial 1, got %d", info.Serial)
	}
	if info.Week != 12 || info.Year != 2020 {
		t.Errorf("expected week 12 of 2020, got week %d of %d", info.Week, info.Year)
	}
	if info.WidthMM != 520 || info.HeightMM != 320 {
		t.Errorf("expected 520x320 mm, got %dx%d mm", info.WidthMM, info.HeightMM)
	}
	if info.ViewportErr != nil {
		t.Errorf("expected no viewport error, got %v", info.ViewportErr)
	}
	if info.Gamma != 2.2 {
		t.Errorf("expected gamma 2.2, got %v", info.Gamma)
	}
	if info.GammaErr != nil || info.Err != nil {
		t.Errorf("expected no errors, got %v and %v", info.GammaErr, info.Err)
	}
}

func TestParseLength(t *testing.T) {
	for _, n := range []int{0, 127, 129, 256} {
		info, err := Parse(make([]byte, n))
		if !errors.Is(err, ErrLengthUnsupported) {
			t.Errorf("%d bytes: expected %v, got %v", n, ErrLengthUnsupported, err)
		}
		if info != nil {
			t.Errorf("%d bytes: expected no info", n)
		}
	}
}

func TestParseWrongMagic(t *testing.T) {
	for i := range Magic {
		data := testEDID()
		data[i] ^= 0x01
		fixChecksum(data)
		info, err := Parse(data)
		if !errors.Is(err, ErrWrongMagicNumber) {
			t.Errorf("header byte %d: expected %v, got %v", i, ErrWrongMagicNumber, err)
		}
		if info != nil {
			t.Errorf("header byte %d: expected no viewport or gamma", i)
		}
	}
}

func TestParseGammaNotSpecified(t *testing.T) {
	data := testEDID()
	data[offsetGamma] = gammaUnspecified
	fixChecksum(data)

	info, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if info.GammaErr != ErrGammaNotSpecified {
		t.Errorf("expected %v, got %v", ErrGammaNotSpecified, info.GammaErr)
	}
	if info.Gamma != 0 {
		t.Errorf("expected no gamma value, got %v", info.Gamma)
	}
	if info.ViewportErr != nil || info.WidthMM != 520 || info.HeightMM != 320 {
		t.Errorf("expected viewport 520x320 mm without error, got %dx%d mm (%v)", info.WidthMM, info.HeightMM, info.ViewportErr)
	}
}

func TestParseChecksum(t *testing.T) {
	tests := []struct {
		name      string
		gamma     byte
		wantGamma error
	}{
		{"gamma specified", 120, ErrChecksum},
		{"gamma not specified", gammaUnspecified, ErrGammaNotSpecifiedAndChecksum},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			data := testEDID()
			data[offsetGamma] = test.gamma
			fixChecksum(data)
			data[Length-1]++

			info, err := Parse(data)
			if err != nil {
				t.Fatal(err)
			}
			if info.Err != ErrChecksum {
				t.Errorf("expected EDID error %v, got %v", ErrChecksum, info.Err)
			}
			if info.ViewportErr != ErrChecksum {
				t.Errorf("expected viewport error %v, got %v", ErrChecksum, info.ViewportErr)
			}
			if info.GammaErr != test.wantGamma {
				t.Errorf("expected gamma error %v, got %v", test.wantGamma, info.GammaErr)
			}
			if info.WidthMM != 520 {
				t.Errorf("expected decoded width to survive the checksum error, got %d", info.WidthMM)
			}
		})
	}
}

func TestParseRevision(t *testing.T) {
	data := testEDID()
	data[offsetRevision] = 4
	fixChecksum(data)

	info, err := Parse(data)
	if !errors.Is(err, ErrRevisionUnsupported) {
		t.Fatalf("expected %v, got %v", ErrRevisionUnsupported, err)
	}
	if info == nil || info.WidthMM != 520 || info.Gamma != 2.2 {
		t.Errorf("expected best effort decode, got %+v", info)
	}
}

func TestChecksum(t *testing.T) {
	if sum := Checksum(testEDID()); sum != 0 {
		t.Errorf("expected zero checksum, got %#02x", sum)
	}
	long := append(testEDID(), 0x55)
	if sum := Checksum(long); sum != 0 {
		t.Errorf("expected bytes past %d to be ignored, got %#02x", Length, sum)
	}
}

func TestHex(t *testing.T) {
	data := []byte{0x00, 0xff, 0xab, 0x10}
	if s := ToHex(data); s != "00ffab10" {
		t.Errorf("expected 00ffab10, got %q", s)
	}
	if s := ToHEX(data); s != "00FFAB10" {
		t.Errorf("expected 00FFAB10, got %q", s)
	}
	for _, s := range []string{"00ffab10", "00FFAB10", " 00FfaB10\n"} {
		got, err := FromHex(s)
		if err != nil {
			t.Fatalf("%q: %v", s, err)
		}
		if !bytes.Equal(got, data) {
			t.Errorf("%q: expected %x, got %x", s, data, got)
		}
	}
	if _, err := FromHex("abc"); err == nil {
		t.Error("expected odd length hex to fail")
	}
	if _, err := FromHex("zz"); err == nil {
		t.Error("expected invalid hex to fail")
	}

	edid := testEDID()
	got, err := FromHex(ToHEX(edid))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, edid) {
		t.Error("EDID changed through uppercase hex")
	}
}
