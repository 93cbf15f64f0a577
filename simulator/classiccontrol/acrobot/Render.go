package acrobot

import (
	"fmt"
	"image/color"
	"math"

	"github.com/fogleman/gg"
)

const (
	screenSize float64 = 500
	bound      float64 = LinkLength1 + LinkLength2 + 0.2
	scale      float64 = screenSize / (2 * bound)
	linkWidth  float64 = 10
)

var (
	background = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	linkColour = color.RGBA{R: 0, G: 204, B: 204, A: 255}
	jointColor = color.RGBA{R: 204, G: 204, B: 0, A: 255}
	goalColour = color.RGBA{R: 0, G: 0, B: 0, A: 255}
)

// Render draws the current frame and saves it with the simulator's
// frame recorder
func (a *Acrobot) Render() error {
	if a.recorder == nil {
		return fmt.Errorf("render: rendering is not enabled")
	}
	if a.state == nil {
		return fmt.Errorf("render: simulator must be reset before rendering")
	}

	dc := gg.NewContext(int(screenSize), int(screenSize))
	dc.SetColor(background)
	dc.Clear()

	// Convert from simulator coordinates, with the base at the origin
	// and y pointing upwards, to image coordinates
	toImage := func(x, y float64) (float64, float64) {
		return screenSize/2 + x*scale, screenSize/2 - y*scale
	}

	th1, th2 := a.state.AtVec(0), a.state.AtVec(1)
	x1 := LinkLength1 * math.Sin(th1)
	y1 := -LinkLength1 * math.Cos(th1)
	x2 := x1 + LinkLength2*math.Sin(th1+th2)
	y2 := y1 - LinkLength2*math.Cos(th1+th2)

	// Goal line
	gx0, gy := toImage(-bound, GoalHeight)
	gx1, _ := toImage(bound, GoalHeight)
	dc.SetColor(goalColour)
	dc.DrawLine(gx0, gy, gx1, gy)
	dc.Stroke()

	bx, by := toImage(0, 0)
	jx, jy := toImage(x1, y1)
	tx, ty := toImage(x2, y2)

	dc.SetLineWidth(linkWidth)
	dc.SetColor(linkColour)
	dc.DrawLine(bx, by, jx, jy)
	dc.DrawLine(jx, jy, tx, ty)
	dc.Stroke()

	dc.SetColor(jointColor)
	dc.DrawCircle(bx, by, linkWidth/2)
	dc.DrawCircle(jx, jy, linkWidth/2)
	dc.Fill()

	_, err := a.recorder.Save(dc)
	return err
}
