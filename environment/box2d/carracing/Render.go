package carracing

import (
	"image/color"

	"github.com/ByteArena/box2d"
	"github.com/fogleman/gg"

	"github.com/samuelfneumann/gorace/utils/floatutils"
)

const (
	frameSize int = 600

	grassDim float64 = Playfield / 20.0
)

// frameScale maps world coordinates onto the square frame
var frameScale float64 = float64(frameSize) / (2 * Playfield)

func toPixel(x, y float64) (float64, float64) {
	px := (x + Playfield) * frameScale
	py := float64(frameSize) - (y+Playfield)*frameScale
	return px, py
}

// SaveFrame renders a top-down view of the current state as a PNG at
// path. The frame shows the full playfield, the track, the car, and a
// row of indicator bars along the bottom edge.
func (c *carRacing) SaveFrame(path string) error {
	dc := gg.NewContext(frameSize, frameSize)

	dc.SetColor(c.bgColor)
	dc.Clear()

	c.drawGrass(dc)
	c.drawRoad(dc)
	c.drawCar(dc)
	c.drawIndicators(dc)

	return dc.SavePNG(path)
}

// drawGrass draws the checkered grass pattern outside the road
func (c *carRacing) drawGrass(dc *gg.Context) {
	dc.SetColor(c.grassColor)
	for i := 0; i < 20; i++ {
		for j := 0; j < 20; j++ {
			if (i+j)%2 != 0 {
				continue
			}
			x := -Playfield + float64(2*i)*grassDim
			y := -Playfield + float64(2*j)*grassDim

			px, py := toPixel(x, y+2*grassDim)
			dc.DrawRectangle(px, py, 2*grassDim*frameScale,
				2*grassDim*frameScale)
		}
	}
	dc.Fill()
}

func (c *carRacing) drawRoad(dc *gg.Context) {
	for _, poly := range c.track.polys {
		dc.SetColor(poly.Color)
		for i, v := range poly.Vertices {
			px, py := toPixel(v[0], v[1])
			if i == 0 {
				dc.MoveTo(px, py)
			} else {
				dc.LineTo(px, py)
			}
		}
		dc.ClosePath()
		dc.Fill()
	}
}

// drawCar draws each fixture of the hull and wheels in its current
// world transform
func (c *carRacing) drawCar(dc *gg.Context) {
	hullColor := color.RGBA{R: 204, G: 0, B: 0, A: 255}
	wheelColor := color.RGBA{R: 0, G: 0, B: 0, A: 255}

	c.drawBody(dc, c.car.hull, hullColor)
	for _, w := range c.car.wheels {
		c.drawBody(dc, w.body, wheelColor)
	}
}

func (c *carRacing) drawBody(dc *gg.Context, body *box2d.B2Body,
	fill color.RGBA) {
	dc.SetColor(fill)
	for f := body.GetFixtureList(); f != nil; f = f.M_next {
		shape, ok := f.M_shape.(*box2d.B2PolygonShape)
		if !ok {
			continue
		}
		for i := 0; i < shape.M_count; i++ {
			v := box2d.B2TransformVec2Mul(body.M_xf, shape.M_vertices[i])
			px, py := toPixel(v.X, v.Y)
			if i == 0 {
				dc.MoveTo(px, py)
			} else {
				dc.LineTo(px, py)
			}
		}
		dc.ClosePath()
		dc.Fill()
	}
}

// drawIndicators renders the gauge strip: true speed, the four wheel
// speeds, steering angle, and yaw rate
func (c *carRacing) drawIndicators(dc *gg.Context) {
	ind := c.Indicators()
	h := float64(frameSize) / 40.0
	w := float64(frameSize) / 40.0
	base := float64(frameSize) - 5*h/2

	dc.SetRGB(0, 0, 0)
	dc.DrawRectangle(0, float64(frameSize)-5*h, float64(frameSize), 5*h)
	dc.Fill()

	vertical := func(place int, val float64, r, g, b float64) {
		dc.SetRGB(r, g, b)
		dc.DrawRectangle(float64(place)*w, base-h*val, w, h*val)
		dc.Fill()
	}
	horizontal := func(place int, val float64, r, g, b float64) {
		dc.SetRGB(r, g, b)
		x := float64(place) * w
		if val < 0 {
			x += val * w
		}
		dc.DrawRectangle(x, base-h, floatutils.Max(val, -val)*w, h)
		dc.Fill()
	}

	vertical(5, 0.02*ind.TrueSpeed, 1, 1, 1)
	vertical(7, 0.01*ind.WheelOmega[0], 0, 0, 1)
	vertical(8, 0.01*ind.WheelOmega[1], 0, 0, 1)
	vertical(9, 0.01*ind.WheelOmega[2], 0.2, 0, 1)
	vertical(10, 0.01*ind.WheelOmega[3], 0.2, 0, 1)
	horizontal(20, -10*ind.SteerAngle, 0, 1, 0)
	horizontal(30, -0.8*ind.AngularVelocity, 1, 0, 0)
}
