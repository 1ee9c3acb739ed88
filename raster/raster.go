// Package raster implements the fixed-size 2-D grid of 8-bit
// intensities that every other planning component is built on, plus
// the elementwise and morphological primitives spec.md §4.1 describes.
//
// A Raster is eager and, once handed off by its producer, read-only:
// no component mutates a Raster it did not itself construct.
package raster

import (
	"github.com/arl/assertgo"
)

// Raster is a W×H grid of 8-bit samples, indexed Pix[z*W+x] — row
// major, (x, z) as in spec.md's geometry conventions. It is the single
// concrete grid type shared by FeatureSet, SuitabilityMasks and
// EnergyField.
type Raster struct {
	W, H int
	Pix  []uint8
}

// New allocates a W×H raster filled with fill.
func New(w, h int, fill uint8) *Raster {
	assert.True(w > 0 && h > 0, "raster dimensions must be positive, got %dx%d", w, h)
	r := &Raster{W: w, H: h, Pix: make([]uint8, w*h)}
	if fill != 0 {
		for i := range r.Pix {
			r.Pix[i] = fill
		}
	}
	return r
}

// At returns the value at (x, z), or 0 if out of bounds (the
// convolution zero-extension convention of spec.md §4.1 is also used
// by every other reader that may be asked for an out-of-range cell).
func (r *Raster) At(x, z int) uint8 {
	if x < 0 || x >= r.W || z < 0 || z >= r.H {
		return 0
	}
	return r.Pix[z*r.W+x]
}

// Set assigns the value at (x, z). Out-of-bounds writes are silently
// ignored: callers that draw polylines routinely compute positions
// that step outside the raster near its edges.
func (r *Raster) Set(x, z int, v uint8) {
	if x < 0 || x >= r.W || z < 0 || z >= r.H {
		return
	}
	r.Pix[z*r.W+x] = v
}

// Clone returns an independent copy of r.
func (r *Raster) Clone() *Raster {
	out := &Raster{W: r.W, H: r.H, Pix: make([]uint8, len(r.Pix))}
	copy(out.Pix, r.Pix)
	return out
}

// sameSize asserts a and b share dimensions; every elementwise op in
// this package relies on it rather than silently truncating.
func sameSize(a, b *Raster) {
	assert.True(a.W == b.W && a.H == b.H,
		"raster size mismatch: %dx%d vs %dx%d", a.W, a.H, b.W, b.H)
}

func addSat(a, b uint8) uint8 {
	s := int(a) + int(b)
	if s > 255 {
		return 255
	}
	return uint8(s)
}

func subSat(a, b uint8) uint8 {
	s := int(a) - int(b)
	if s < 0 {
		return 0
	}
	return uint8(s)
}

// Invert returns 255-v for every pixel.
func (r *Raster) Invert() *Raster {
	out := New(r.W, r.H, 0)
	for i, v := range r.Pix {
		out.Pix[i] = 255 - v
	}
	return out
}

// Max returns the elementwise maximum of r and other.
func (r *Raster) Max(other *Raster) *Raster {
	sameSize(r, other)
	out := New(r.W, r.H, 0)
	for i := range r.Pix {
		if r.Pix[i] > other.Pix[i] {
			out.Pix[i] = r.Pix[i]
		} else {
			out.Pix[i] = other.Pix[i]
		}
	}
	return out
}

// Min returns the elementwise minimum of r and other. For binary masks
// (0/255) this is their intersection.
func (r *Raster) Min(other *Raster) *Raster {
	sameSize(r, other)
	out := New(r.W, r.H, 0)
	for i := range r.Pix {
		if r.Pix[i] < other.Pix[i] {
			out.Pix[i] = r.Pix[i]
		} else {
			out.Pix[i] = other.Pix[i]
		}
	}
	return out
}

// AddSaturating returns the elementwise saturating sum of r and other.
func (r *Raster) AddSaturating(other *Raster) *Raster {
	sameSize(r, other)
	out := New(r.W, r.H, 0)
	for i := range r.Pix {
		out.Pix[i] = addSat(r.Pix[i], other.Pix[i])
	}
	return out
}

// SubSaturating returns the elementwise saturating difference r-other.
func (r *Raster) SubSaturating(other *Raster) *Raster {
	sameSize(r, other)
	out := New(r.W, r.H, 0)
	for i := range r.Pix {
		out.Pix[i] = subSat(r.Pix[i], other.Pix[i])
	}
	return out
}

// AddConstSaturating adds c to every pixel, saturating at 255.
func (r *Raster) AddConstSaturating(c uint8) *Raster {
	out := New(r.W, r.H, 0)
	for i, v := range r.Pix {
		out.Pix[i] = addSat(v, c)
	}
	return out
}

// SubConstSaturating subtracts c from every pixel, saturating at 0.
func (r *Raster) SubConstSaturating(c uint8) *Raster {
	out := New(r.W, r.H, 0)
	for i, v := range r.Pix {
		out.Pix[i] = subSat(v, c)
	}
	return out
}

// MulConstSaturating multiplies every pixel by c, saturating at 255.
func (r *Raster) MulConstSaturating(c int) *Raster {
	out := New(r.W, r.H, 0)
	for i, v := range r.Pix {
		p := int(v) * c
		if p > 255 {
			p = 255
		} else if p < 0 {
			p = 0
		}
		out.Pix[i] = uint8(p)
	}
	return out
}

// Threshold maps v >= t to 255, else 0.
func (r *Raster) Threshold(t uint8) *Raster {
	out := New(r.W, r.H, 0)
	for i, v := range r.Pix {
		if v >= t {
			out.Pix[i] = 255
		}
	}
	return out
}

// ContrastStretch linearly maps [lo, hi] to [0, 255], clamping values
// outside the range.
func (r *Raster) ContrastStretch(lo, hi uint8) *Raster {
	assert.True(hi > lo, "ContrastStretch needs hi > lo, got lo=%d hi=%d", lo, hi)
	out := New(r.W, r.H, 0)
	span := float64(hi) - float64(lo)
	for i, v := range r.Pix {
		f := (float64(v) - float64(lo)) / span * 255.0
		switch {
		case f <= 0:
			out.Pix[i] = 0
		case f >= 255:
			out.Pix[i] = 255
		default:
			out.Pix[i] = uint8(f + 0.5)
		}
	}
	return out
}

// Kernel3x3 is a 3x3 convolution kernel, row major, center at index 4.
type Kernel3x3 [9]float32

// Convolve3x3 applies k to r, saturating each result into [0, 255].
// Out-of-bounds reads during convolution are zero-extended, per
// spec.md §4.1.
func (r *Raster) Convolve3x3(k Kernel3x3) *Raster {
	out := New(r.W, r.H, 0)
	for z := 0; z < r.H; z++ {
		for x := 0; x < r.W; x++ {
			var sum float32
			idx := 0
			for dz := -1; dz <= 1; dz++ {
				for dx := -1; dx <= 1; dx++ {
					sum += float32(r.At(x+dx, z+dz)) * k[idx]
					idx++
				}
			}
			out.Set(x, z, saturate8(sum))
		}
	}
	return out
}

func saturate8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// RGB is a 3-channel preview raster, used only for FeatureSet.Preview.
type RGB struct {
	W, H int
	Pix  []uint8 // len == W*H*3, interleaved RGB
}

// NewRGB allocates a black W×H RGB raster.
func NewRGB(w, h int) *RGB {
	return &RGB{W: w, H: h, Pix: make([]uint8, w*h*3)}
}

// Set assigns the colour at (x, z).
func (c *RGB) Set(x, z int, r, g, b uint8) {
	if x < 0 || x >= c.W || z < 0 || z >= c.H {
		return
	}
	i := (z*c.W + x) * 3
	c.Pix[i], c.Pix[i+1], c.Pix[i+2] = r, g, b
}
