package lunarlander

import (
	"fmt"
	"image/color"

	"github.com/ByteArena/box2d"
	"github.com/fogleman/gg"
)

var (
	skyColour    = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	moonColour   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	landerColour = color.RGBA{R: 128, G: 102, B: 230, A: 255}
	legColour    = color.RGBA{R: 77, G: 77, B: 128, A: 255}
	flagColour   = color.RGBA{R: 204, G: 204, B: 0, A: 255}
)

// toPixel converts world coordinates to pixel coordinates, gg has its
// origin at the top left corner
func toPixel(x, y float64) (float64, float64) {
	return Scale * x, ViewportH - Scale*y
}

// Render draws the current frame and saves it with the simulator's
// frame recorder
func (l *LunarLander) Render() error {
	if l.recorder == nil {
		return fmt.Errorf("render: rendering is not enabled")
	}
	if l.lander == nil {
		return fmt.Errorf("render: simulator must be reset before rendering")
	}

	dc := gg.NewContext(int(ViewportW), int(ViewportH))
	dc.SetColor(skyColour)
	dc.Clear()

	// Moon
	dc.MoveTo(toPixel(0, 0))
	for _, v := range l.terrain {
		dc.LineTo(toPixel(v[0], v[1]))
	}
	dc.LineTo(toPixel(ViewportW/Scale, 0))
	dc.ClosePath()
	dc.SetColor(moonColour)
	dc.Fill()

	// Landing pad flags
	dc.SetColor(flagColour)
	dc.SetLineWidth(2)
	for _, x := range []float64{l.helipadX1, l.helipadX2} {
		x1, y1 := toPixel(x, l.helipadY)
		x2, y2 := toPixel(x, l.helipadY+50/Scale)
		dc.DrawLine(x1, y1, x2, y2)
		dc.Stroke()
		dc.DrawRectangle(x2, y2, 25, 10)
		dc.Fill()
	}

	drawBody(dc, l.lander, landerColour)
	for _, leg := range l.legs {
		drawBody(dc, leg, legColour)
	}

	_, err := l.recorder.Save(dc)
	return err
}

// drawBody fills each polygon fixture of body
func drawBody(dc *gg.Context, body *box2d.B2Body, c color.Color) {
	for fix := body.GetFixtureList(); fix != nil; fix = fix.M_next {
		shape, ok := fix.M_shape.(*box2d.B2PolygonShape)
		if !ok {
			continue
		}

		dc.ClearPath()
		for i := 0; i < shape.M_count; i++ {
			v := box2d.B2TransformVec2Mul(body.M_xf, shape.M_vertices[i])
			dc.LineTo(toPixel(v.X, v.Y))
		}
		dc.ClosePath()
		dc.SetColor(c)
		dc.Fill()
	}
}
