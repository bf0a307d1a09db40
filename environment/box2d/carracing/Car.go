package carracing

import (
	"math"

	"github.com/ByteArena/box2d"

	"github.com/samuelfneumann/gorace/utils/floatutils"
)

// Physical constants of the vehicle. The car is a rear-wheel drive
// top-down model: a rigid hull with four wheel bodies on revolute
// joints, the front pair steerable by a joint motor.
const (
	carSize float64 = 0.02

	enginePower          float64 = 100000000 * carSize * carSize
	wheelMomentOfInertia float64 = 4000 * carSize * carSize
	frictionLimit        float64 = 1000000 * carSize * carSize

	wheelRadius float64 = 27 * carSize
	wheelWidth  float64 = 14 * carSize

	// tireStiffness converts slip velocity into tire force before the
	// friction-limit cap is applied
	tireStiffness float64 = 205000 * carSize * carSize

	steerAngleLimit  float64 = 0.4
	steerMotorTorque float64 = 180 * 900 * carSize * carSize
	brakeDecel       float64 = 15 // angular speed shed per step at full brake
)

// wheelAnchors holds the hull-local wheel positions: front-left,
// front-right, rear-left, rear-right.
var wheelAnchors = [4][2]float64{
	{-55, +80}, {+55, +80}, {-55, -82}, {+55, -82},
}

// hullPolys are the hull fixture polygons in hull-local units of
// 1/carSize.
var hullPolys = [][][2]float64{
	{{-60, +130}, {+60, +130}, {+60, +110}, {-60, +110}},
	{{-15, +120}, {+15, +120}, {+20, +20}, {-20, +20}},
	{{+25, +20}, {+50, -10}, {+50, -40}, {+20, -90},
		{-20, -90}, {-50, -40}, {-50, -10}, {-25, +20}},
	{{-50, -120}, {+50, -120}, {+50, -90}, {-50, -90}},
}

// wheel is a single wheel body. The tiles set is the wheel's active
// road contacts, maintained by the contact listener and consulted for
// the friction limit each step.
type wheel struct {
	body  *box2d.B2Body
	joint *box2d.B2RevoluteJoint

	steer float64 // target steering angle, front wheels only
	gas   float64
	brake float64
	omega float64 // wheel angular speed

	tiles map[*roadTile]struct{}
}

type car struct {
	world     *box2d.B2World
	hull      *box2d.B2Body
	wheels    [4]*wheel
	fuelSpent float64
}

// newCar creates the vehicle at the given pose. Bodies are created in
// world and must be released with destroy before the world is reused
// for a new episode.
func newCar(world *box2d.B2World, heading, x, y float64) *car {
	c := &car{world: world}

	hullDef := box2d.MakeB2BodyDef()
	hullDef.Type = 2 // dynamic body
	hullDef.Position = box2d.MakeB2Vec2(x, y)
	hullDef.Angle = heading
	c.hull = world.CreateBody(&hullDef)
	c.hull.SetUserData(&bodyUserData{kind: bodyKindHull})

	for _, poly := range hullPolys {
		shape := box2d.NewB2PolygonShape()
		verts := make([]box2d.B2Vec2, len(poly))
		for i, v := range poly {
			verts[i] = box2d.MakeB2Vec2(v[0]*carSize, v[1]*carSize)
		}
		shape.Set(verts, len(verts))

		fixture := box2d.MakeB2FixtureDef()
		fixture.Shape = shape
		fixture.Density = 1.0
		c.hull.CreateFixtureFromDef(&fixture)
	}

	for i, anchor := range wheelAnchors {
		wheelDef := box2d.MakeB2BodyDef()
		wheelDef.Type = 2 // dynamic body
		wheelDef.Position = box2d.MakeB2Vec2(x+anchor[0]*carSize,
			y+anchor[1]*carSize)
		wheelDef.Angle = heading
		body := world.CreateBody(&wheelDef)

		shape := box2d.NewB2PolygonShape()
		shape.Set([]box2d.B2Vec2{
			box2d.MakeB2Vec2(-wheelWidth, +wheelRadius),
			box2d.MakeB2Vec2(+wheelWidth, +wheelRadius),
			box2d.MakeB2Vec2(+wheelWidth, -wheelRadius),
			box2d.MakeB2Vec2(-wheelWidth, -wheelRadius),
		}, 4)

		fixture := box2d.MakeB2FixtureDef()
		fixture.Shape = shape
		fixture.Density = 0.1
		fixture.Restitution = 0.0
		body.CreateFixtureFromDef(&fixture)

		rjd := box2d.MakeB2RevoluteJointDef()
		rjd.BodyA = c.hull
		rjd.BodyB = body
		rjd.LocalAnchorA = box2d.MakeB2Vec2(anchor[0]*carSize,
			anchor[1]*carSize)
		rjd.LocalAnchorB = box2d.MakeB2Vec2(0, 0)
		rjd.EnableMotor = true
		rjd.EnableLimit = true
		rjd.MaxMotorTorque = steerMotorTorque
		rjd.MotorSpeed = 0
		rjd.LowerAngle = -steerAngleLimit
		rjd.UpperAngle = steerAngleLimit
		joint := world.CreateJoint(&rjd).(*box2d.B2RevoluteJoint)

		w := &wheel{
			body:  body,
			joint: joint,
			tiles: make(map[*roadTile]struct{}),
		}
		body.SetUserData(&bodyUserData{kind: bodyKindWheel, wheel: w})
		c.wheels[i] = w
	}

	return c
}

// steerCmd sets the target steering angle of the front wheels.
// Positive s steers counterclockwise.
func (c *car) steerCmd(s float64) {
	c.wheels[0].steer = s
	c.wheels[1].steer = s
}

// gasCmd throttles the rear wheels. The throttle value is clipped to
// [0, 1] and ramps by at most 0.1 per call so the drivetrain cannot
// jump instantly to full power.
func (c *car) gasCmd(g float64) {
	g = floatutils.Clip(g, 0, 1)
	for _, w := range c.wheels[2:] {
		diff := g - w.gas
		if diff > 0.1 {
			diff = 0.1
		}
		w.gas += diff
	}
}

// brakeCmd sets the brake on all wheels; b >= 0.9 locks the wheels
func (c *car) brakeCmd(b float64) {
	for _, w := range c.wheels {
		w.brake = b
	}
}

// step advances the per-wheel tire model by dt. The physics world is
// stepped separately by the environment.
func (c *car) step(dt float64) {
	for _, w := range c.wheels {
		// Drive the steering joint toward its target angle
		dir := floatutils.Sign(w.steer - w.joint.GetJointAngle())
		val := math.Abs(w.steer - w.joint.GetJointAngle())
		w.joint.SetMotorSpeed(dir * math.Min(50.0*val, 3.0))

		// Off the road the tires grip at 60% of the road limit; on the
		// road the most grippy contacted tile wins.
		limit := frictionLimit * 0.6
		for tile := range w.tiles {
			limit = math.Max(limit, frictionLimit*tile.friction)
		}

		forw := w.body.GetWorldVector(box2d.MakeB2Vec2(0, 1))
		side := w.body.GetWorldVector(box2d.MakeB2Vec2(1, 0))
		v := w.body.GetLinearVelocity()
		vf := forw.X*v.X + forw.Y*v.Y // forward speed
		vs := side.X*v.X + side.Y*v.Y // side speed

		w.omega += dt * enginePower * w.gas / wheelMomentOfInertia /
			(math.Abs(w.omega) + 5.0)
		c.fuelSpent += dt * enginePower * w.gas

		if w.brake >= 0.9 {
			w.omega = 0
		} else if w.brake > 0 {
			dir := -floatutils.Sign(w.omega)
			val := brakeDecel * w.brake
			if val > math.Abs(w.omega) {
				val = math.Abs(w.omega)
			}
			w.omega += dir * val
		}

		vr := w.omega * wheelRadius
		fForce := (-vf + vr) * tireStiffness
		pForce := -vs * tireStiffness

		force := math.Sqrt(fForce*fForce + pForce*pForce)
		if force > limit {
			fForce = fForce / force * limit
			pForce = pForce / force * limit
		}

		w.omega -= dt * fForce * wheelRadius / wheelMomentOfInertia

		w.body.ApplyForceToCenter(box2d.MakeB2Vec2(
			pForce*side.X+fForce*forw.X,
			pForce*side.Y+fForce*forw.Y,
		), true)
	}
}

// speed returns the magnitude of the hull's linear velocity
func (c *car) speed() float64 {
	v := c.hull.GetLinearVelocity()
	return math.Hypot(v.X, v.Y)
}

// destroy releases the hull and wheel bodies from the world. Joints
// attached to the bodies are destroyed with them.
func (c *car) destroy() {
	for _, w := range c.wheels {
		c.world.DestroyBody(w.body)
		w.body = nil
		w.joint = nil
	}
	c.world.DestroyBody(c.hull)
	c.hull = nil
}
