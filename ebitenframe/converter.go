// Package ebitenframe turns decoded video frames into Ebitengine images
// and draws them.
package ebitenframe

import (
	"image/color"
	"log"

	"github.com/erparts/go-avepace"
	"github.com/hajimehoshi/ebiten/v2"
)

var _ avepace.FrameConverter[*ebiten.Image] = (*Converter)(nil)

var pkgLogger avepace.Logger = log.Default()

// SetLogger sets the logger used by the package for non-fatal warnings.
func SetLogger(logger avepace.Logger) {
	pkgLogger = logger
}

// Converter uploads RGBA frames into new [ebiten.Image] values.
//
// Every conversion allocates a new image, so frames returned by an
// [avepace.Controller] stay valid until the host drops them. Hosts that
// want to recycle memory can set a Recycle callback or call
// [ebiten.Image.Deallocate] themselves on frames they no longer need.
type Converter struct {
	// Called with the image returned by the previous conversion, right
	// after a new one is produced. Optional.
	Recycle func(*ebiten.Image)

	previous *ebiten.Image
}

// NewConverter returns a converter with no recycling.
func NewConverter() *Converter { return &Converter{} }

// Convert copies the frame pixels into a new image. Frames whose pixel
// buffer doesn't match their bounds become black images.
func (c *Converter) Convert(frame avepace.RawFrame) *ebiten.Image {
	bounds := frame.Bounds()
	width, height := max(bounds.Dx(), 1), max(bounds.Dy(), 1)
	img := ebiten.NewImage(width, height)

	data := frame.Data()
	if len(data) == 4*width*height {
		img.WritePixels(data)
	} else {
		pkgLogger.Printf("WARNING: frame has %d bytes, expected %d for %dx%d RGBA; showing black", len(data), 4*width*height, width, height)
		img.Fill(color.Black)
	}

	if c.previous != nil && c.Recycle != nil {
		c.Recycle(c.previous)
	}
	c.previous = img
	return img
}
