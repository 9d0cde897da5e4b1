package ebitenframe

import "github.com/hajimehoshi/ebiten/v2"

// Draw draws a frame into the given viewport, scaling as required with
// [ebiten.FilterLinear] to take as much space as possible while preserving
// the aspect ratio. A nil frame draws nothing.
//
// If there's extra space in the viewport, the frame is centered, but black
// bars aren't explicitly drawn, so whatever was on the background of the
// viewport remains visible.
//
// Common usage:
//
//	frame, outcome, err := controller.Tick(dt)
//	if err != nil { /* handle error */ }
//	if outcome.HasFrame() { ebitenframe.Draw(screen, frame) }
func Draw(viewport, frame *ebiten.Image) {
	if frame == nil {
		return
	}
	geom, filter := CalcProjection(viewport, frame)
	var opts ebiten.DrawImageOptions
	opts.GeoM = geom
	opts.Filter = filter
	viewport.DrawImage(frame, &opts)
}

// CalcProjection returns the GeoM and recommended filter to project the
// frame into the given viewport. See [Draw]() if you don't need them.
func CalcProjection(viewport, frame *ebiten.Image) (ebiten.GeoM, ebiten.Filter) {
	frameBounds := frame.Bounds()
	viewBounds := viewport.Bounds()
	vwWidth, vwHeight := float64(viewBounds.Dx()), float64(viewBounds.Dy())
	frWidth, frHeight := float64(frameBounds.Dx()), float64(frameBounds.Dy())
	scale := FitScale(vwWidth, vwHeight, frWidth, frHeight)

	// translation to the viewport origin plus centering
	tx := float64(viewBounds.Min.X) + (vwWidth-frWidth*scale)/2
	ty := float64(viewBounds.Min.Y) + (vwHeight-frHeight*scale)/2

	var geom ebiten.GeoM
	filter := ebiten.FilterLinear
	if scale == 1.0 {
		filter = ebiten.FilterNearest // pixel perfect, no need to interpolate
	} else {
		geom.Scale(scale, scale)
	}
	geom.Translate(tx, ty)
	return geom, filter
}

// FitScale returns the largest uniform scale that fits a frame of the
// given size inside the viewport. Degenerate sizes give 0.
func FitScale(viewWidth, viewHeight, frameWidth, frameHeight float64) float64 {
	if frameWidth <= 0 || frameHeight <= 0 || viewWidth <= 0 || viewHeight <= 0 {
		return 0
	}
	return min(viewWidth/frameWidth, viewHeight/frameHeight)
}
