package cartpole

import (
	"fmt"
	"image/color"
	"math"

	"github.com/fogleman/gg"
)

const (
	screenWidth  float64 = 600
	screenHeight float64 = 400
	worldWidth   float64 = 2 * PositionThreshold
	scale        float64 = screenWidth / worldWidth
	cartY        float64 = 100 // From the bottom of the screen
	cartWidth    float64 = 50
	cartHeight   float64 = 30
	poleWidth    float64 = 10
	poleLength   float64 = scale * 2 * HalfPoleLength
)

var (
	background = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	cartColour = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	poleColour = color.RGBA{R: 202, G: 152, B: 101, A: 255}
	axleColour = color.RGBA{R: 129, G: 132, B: 203, A: 255}
)

// Render draws the current frame and saves it with the simulator's
// frame recorder. Render returns an error if rendering was not enabled
// when the simulator was created.
func (c *Cartpole) Render() error {
	if c.recorder == nil {
		return fmt.Errorf("render: rendering is not enabled")
	}
	state := c.lastStep.Observation
	if state == nil {
		return fmt.Errorf("render: simulator must be reset before rendering")
	}

	dc := gg.NewContext(int(screenWidth), int(screenHeight))
	dc.SetColor(background)
	dc.Clear()

	// gg has its origin in the top left corner
	cartX := state.AtVec(0)*scale + screenWidth/2
	top := screenHeight - cartY

	// Track
	dc.SetColor(cartColour)
	dc.DrawLine(0, top, screenWidth, top)
	dc.Stroke()

	// Cart
	dc.DrawRectangle(cartX-cartWidth/2, top-cartHeight/2, cartWidth,
		cartHeight)
	dc.Fill()

	// Pole, rotated about the axle
	dc.Push()
	dc.RotateAbout(state.AtVec(2), cartX, top-cartHeight/4)
	dc.SetColor(poleColour)
	dc.DrawRectangle(cartX-poleWidth/2, top-cartHeight/4-poleLength,
		poleWidth, poleLength)
	dc.Fill()
	dc.Pop()

	dc.SetColor(axleColour)
	dc.DrawCircle(cartX, top-cartHeight/4, poleWidth/2)
	dc.Fill()

	if math.Abs(state.AtVec(0)) > PositionThreshold {
		dc.SetColor(color.RGBA{R: 255, A: 255})
		dc.DrawString("out of bounds", 10, 20)
	}

	_, err := c.recorder.Save(dc)
	return err
}
