// Package lunarlander implements the continuous-action Lunar Lander
// simulator on Box2D, registered as LunarLanderContinuous-v2
package lunarlander

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"github.com/ByteArena/box2d"
	"github.com/samuelfneumann/envies/simulator"
	ts "github.com/samuelfneumann/envies/timestep"
	"github.com/samuelfneumann/envies/utils/floatutils"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ID is the id the simulator is registered with
const ID = "LunarLanderContinuous-v2"

const (
	FPS float64 = 50

	// Affects how fast-paced the game is, forces should be adjusted
	// as well
	Scale float64 = 30.0

	XGravity float64 = 0.0
	YGravity float64 = -10.0

	MainEnginePower float64 = 13.0
	SideEnginePower float64 = 0.6

	LegAway         float64 = 20.0
	LegDown         float64 = 18.0
	LegW            float64 = 2.0
	LegH            float64 = 8.0
	LegSpringTorque float64 = 40.0

	SideEngineHeight float64 = 14.0
	SideEngineAway   float64 = 12.0

	Chunks int = 11

	ViewportW float64 = 600
	ViewportH float64 = 400

	// Initial random force applied to the lander is drawn uniformly
	// from (+/-) InitialRandom
	InitialRandom float64 = 1000.0

	ActionDims      int = 2
	ObservationDims int = 8

	// Rewards given when the episode terminates
	CrashReward float64 = -100
	RestReward  float64 = 100
)

var (
	// Outline of the lander body in pixels
	LanderPoly = [][2]float64{
		{-14, 17},
		{-17, 0},
		{-17, -10},
		{17, -10},
		{17, 0},
		{14, 17},
	}

	// Starting position of the lander in world coordinates
	InitialX = ViewportW / Scale / 2
	InitialY = ViewportH / Scale
)

func init() {
	simulator.Register(ID, func(o simulator.Options) (simulator.Simulator,
		error) {
		return New(o)
	})
}

// LunarLander implements the continuous-action lunar lander simulator.
// A lander starts at the top of the viewport with a random initial
// force applied to it, and must be flown onto a landing pad located
// at the centre of procedurally generated terrain.
//
// Observations are 8-dimensional:
//
//  1. Horizontal position relative to the landing pad
//  2. Vertical position relative to the landing pad
//  3. Horizontal velocity
//  4. Vertical velocity
//  5. Angle of the lander, wrapped to [-π, π)
//  6. Angular velocity
//  7. Whether the left leg has contact with the ground, in {0, 1}
//  8. Whether the right leg has contact with the ground, in {0, 1}
//
// Actions are 2-dimensional and in [-1, 1]. The first coordinate
// controls the main engine, which is off for values in [-1, 0] and
// throttles from 50% to 100% power on (0, 1]. The second coordinate
// controls the side engines: [-1, -0.5) fires the left engine,
// (0.5, 1] fires the right engine, and both are off in between.
// Action coordinates outside [-1, 1] are clipped.
//
// The reward is the change in a shaping potential, which rewards being
// near the pad, slow, level, and having the legs in contact with the
// ground, minus a cost for firing engines. The episode terminates with
// CrashReward when the lander body touches the ground or it leaves the
// viewport horizontally, and with RestReward when the lander comes to
// rest.
type LunarLander struct {
	ender simulator.Ender

	actionSpace *simulator.Box
	sampler     *simulator.Sampler
	recorder    *simulator.Recorder

	world    box2d.B2World
	moon     *box2d.B2Body
	lander   *box2d.B2Body
	legs     []*box2d.B2Body
	terrain  [][2]float64
	contacts [2]bool
	gameOver bool

	helipadX1 float64
	helipadX2 float64
	helipadY  float64

	rng         distuv.Uniform
	prevShaping *float64
	mPower      float64
	sPower      float64

	lastStep ts.TimeStep
	episodes int
}

// New returns a new LunarLander simulator
func New(o simulator.Options) (*LunarLander, error) {
	low := []float64{-1, -1}
	high := []float64{1, 1}
	actionSpace := simulator.NewBox(low, high)

	l := &LunarLander{
		actionSpace: actionSpace,
		sampler:     simulator.NewSampler(actionSpace, o.Seed),
	}

	// The lander crashing, leaving the viewport, and coming to rest
	// all terminate the episode
	ended := func(obs *mat.VecDense) bool {
		return l.gameOver || math.Abs(obs.AtVec(0)) >= 1.0 ||
			!l.lander.IsAwake()
	}
	l.ender = simulator.Enders{
		simulator.NewFunctionEnder(ended, ts.TerminalStateReached),
		simulator.NewStepLimit(o.MaxEpisodeSteps),
	}

	if o.Render {
		recorder, err := simulator.NewRecorder(o.RenderDir, "lunarlander")
		if err != nil {
			return nil, fmt.Errorf("new: %v", err)
		}
		l.recorder = recorder
	}

	return l, nil
}

// Reset builds a new world, with terrain and initial force drawn
// using seed, and returns the first observation of the new episode
func (l *LunarLander) Reset(seed uint64) (*mat.VecDense, error) {
	l.rng = distuv.Uniform{Min: 0, Max: 1, Src: rand.NewSource(seed)}
	l.world = box2d.MakeB2World(box2d.MakeB2Vec2(XGravity, YGravity))
	l.world.SetContactListener(newContactDetector(l))
	l.gameOver = false
	l.contacts = [2]bool{}
	l.prevShaping = nil
	l.mPower, l.sPower = 0, 0

	l.createTerrain()
	l.createLander()

	// Take a no-op step so that the random initial force is applied
	// and the shaping potential is initialized
	obs, _ := l.stepWorld(mat.NewVecDense(ActionDims, nil))
	l.lastStep = ts.New(ts.First, 0, obs, 0)
	l.episodes++

	if l.recorder != nil {
		l.recorder.NextEpisode()
		if err := l.Render(); err != nil {
			return nil, fmt.Errorf("reset: %v", err)
		}
	}

	return mat.VecDenseCopyOf(obs), nil
}

// createTerrain creates the moon, whose surface is a random sequence
// of edges with a flat landing pad at its centre
func (l *LunarLander) createTerrain() {
	w := ViewportW / Scale
	h := ViewportH / Scale

	height := make([]float64, Chunks+1)
	for i := range height {
		height[i] = l.rng.Rand() * (h / 2)
	}

	chunkX := make([]float64, Chunks)
	for i := range chunkX {
		chunkX[i] = float64(i) * w / float64(Chunks-1)
	}

	l.helipadX1 = chunkX[Chunks/2-1]
	l.helipadX2 = chunkX[Chunks/2+1]
	l.helipadY = h / 4
	for i := Chunks/2 - 2; i <= Chunks/2+2; i++ {
		height[i] = l.helipadY
	}

	smoothY := make([]float64, Chunks)
	for i := range smoothY {
		prev := Chunks
		if i > 0 {
			prev = i - 1
		}
		smoothY[i] = 0.33 * (height[prev] + height[i] + height[i+1])
	}

	moonDef := box2d.MakeB2BodyDef()
	moonDef.Type = 0 // Static body
	l.moon = l.world.CreateBody(&moonDef)

	bottom := box2d.NewB2EdgeShape()
	bottom.Set(box2d.MakeB2Vec2(0, 0), box2d.MakeB2Vec2(w, 0))
	bottomFix := box2d.MakeB2FixtureDef()
	bottomFix.Shape = bottom
	l.moon.CreateFixtureFromDef(&bottomFix)

	l.terrain = make([][2]float64, 0, Chunks)
	for i := 0; i < Chunks-1; i++ {
		p1 := box2d.MakeB2Vec2(chunkX[i], smoothY[i])
		p2 := box2d.MakeB2Vec2(chunkX[i+1], smoothY[i+1])

		edge := box2d.NewB2EdgeShape()
		edge.Set(p1, p2)
		edgeFix := box2d.MakeB2FixtureDef()
		edgeFix.Shape = edge
		edgeFix.Density = 0
		edgeFix.Friction = 0.1
		l.moon.CreateFixtureFromDef(&edgeFix)

		l.terrain = append(l.terrain, [2]float64{p1.X, p1.Y})
	}
	l.terrain = append(l.terrain, [2]float64{chunkX[Chunks-1],
		smoothY[Chunks-1]})
}

// createLander creates the lander and its legs and applies the
// random initial force to the lander
func (l *LunarLander) createLander() {
	landerDef := box2d.MakeB2BodyDef()
	landerDef.Type = 2 // Dynamic body
	landerDef.Position = box2d.MakeB2Vec2(InitialX, InitialY)
	landerDef.Angle = 0
	l.lander = l.world.CreateBody(&landerDef)

	vertices := make([]box2d.B2Vec2, len(LanderPoly))
	for i, v := range LanderPoly {
		vertices[i] = box2d.MakeB2Vec2(v[0]/Scale, v[1]/Scale)
	}
	landerShape := box2d.NewB2PolygonShape()
	landerShape.Set(vertices, len(vertices))

	landerFix := box2d.MakeB2FixtureDef()
	landerFix.Shape = landerShape
	landerFix.Density = 5.0
	landerFix.Friction = 0.1
	landerFix.Restitution = 0.0
	landerFix.Filter = box2d.MakeB2Filter()
	landerFix.Filter.CategoryBits = 0x0010
	landerFix.Filter.MaskBits = 0x001
	l.lander.CreateFixtureFromDef(&landerFix)

	forceX := l.rng.Rand()*2*InitialRandom - InitialRandom
	forceY := l.rng.Rand()*2*InitialRandom - InitialRandom
	l.lander.ApplyForceToCenter(box2d.MakeB2Vec2(forceX, forceY), true)

	l.legs = make([]*box2d.B2Body, 0, 2)
	for _, i := range []float64{-1.0, 1.0} {
		legDef := box2d.MakeB2BodyDef()
		legDef.Type = 2 // Dynamic body
		legDef.Position = box2d.MakeB2Vec2(InitialX-i*LegAway/Scale,
			InitialY)
		legDef.Angle = i * 0.05
		leg := l.world.CreateBody(&legDef)
		l.legs = append(l.legs, leg)

		legShape := box2d.NewB2PolygonShape()
		legShape.SetAsBox(LegW/Scale, LegH/Scale)

		legFix := box2d.MakeB2FixtureDef()
		legFix.Shape = legShape
		legFix.Density = 1.0
		legFix.Restitution = 0.0
		legFix.Filter = box2d.MakeB2Filter()
		legFix.Filter.CategoryBits = 0x0020
		legFix.Filter.MaskBits = 0x001
		leg.CreateFixtureFromDef(&legFix)

		// Attach the leg to the lander with a spring-loaded joint
		rjd := box2d.MakeB2RevoluteJointDef()
		rjd.BodyA = l.lander
		rjd.BodyB = leg
		rjd.LocalAnchorA = box2d.MakeB2Vec2(0, 0)
		rjd.LocalAnchorB = box2d.MakeB2Vec2(i*LegAway/Scale, LegDown/Scale)
		rjd.EnableMotor = true
		rjd.EnableLimit = true
		rjd.MaxMotorTorque = LegSpringTorque
		rjd.MotorSpeed = 0.3 * i

		if i < 0 {
			rjd.LowerAngle = 0.9 - 0.5
			rjd.UpperAngle = 0.9
		} else {
			rjd.LowerAngle = -0.9
			rjd.UpperAngle = -0.9 + 0.5
		}
		l.world.CreateJoint(&rjd)
	}
}

// Step takes one environmental step given action a and returns the
// next timestep
func (l *LunarLander) Step(a *mat.VecDense) (ts.TimeStep, error) {
	if l.episodes == 0 {
		return ts.TimeStep{}, fmt.Errorf("step: simulator must be reset " +
			"before stepping")
	}
	if l.lastStep.Last() {
		return ts.TimeStep{}, fmt.Errorf("step: episode has ended, reset " +
			"the simulator")
	}
	if a == nil || a.Len() != ActionDims {
		return ts.TimeStep{}, fmt.Errorf("step: illegal action %v, actions "+
			"should be %v-dimensional", simulator.Format(a), ActionDims)
	}

	// Clip actions
	action := mat.NewVecDense(ActionDims, nil)
	for i := 0; i < ActionDims; i++ {
		action.SetVec(i, floatutils.Clip(a.AtVec(i), -1.0, 1.0))
	}

	obs, reward := l.stepWorld(action)
	nextStep := ts.New(ts.Mid, reward, obs, l.lastStep.Number+1)
	l.ender.End(&nextStep)
	l.lastStep = nextStep

	if l.recorder != nil {
		if err := l.Render(); err != nil {
			return ts.TimeStep{}, fmt.Errorf("step: %v", err)
		}
	}

	nextStep.Observation = mat.VecDenseCopyOf(obs)
	return nextStep, nil
}

// stepWorld fires the engines given action a, advances the world one
// frame, and returns the next observation and reward
func (l *LunarLander) stepWorld(a *mat.VecDense) (*mat.VecDense, float64) {
	tip := [2]float64{math.Sin(l.lander.GetAngle()),
		math.Cos(l.lander.GetAngle())}
	side := [2]float64{-tip[1], tip[0]}
	var dispersion [2]float64
	for i := range dispersion {
		dispersion[i] = (2*l.rng.Rand() - 1) / Scale
	}

	// Main engine
	l.mPower = 0.0
	if a.AtVec(0) > 0.0 {
		l.mPower = (floatutils.Clip(a.AtVec(0), 0.0, 1.0) + 1.0) * 0.5

		ox := tip[0]*(4.0/Scale+2.0*dispersion[0]) + side[0]*dispersion[1]
		oy := -tip[1]*(4.0/Scale+2.0*dispersion[0]) - side[1]*dispersion[1]

		pos := l.lander.GetPosition()
		impulsePos := box2d.MakeB2Vec2(pos.X+ox, pos.Y+oy)
		impulse := box2d.MakeB2Vec2(-ox*MainEnginePower*l.mPower,
			-oy*MainEnginePower*l.mPower)
		l.lander.ApplyLinearImpulse(impulse, impulsePos, true)
	}

	// Orientation engines
	l.sPower = 0.0
	if math.Abs(a.AtVec(1)) > 0.5 {
		direction := floatutils.Sign(a.AtVec(1))
		l.sPower = floatutils.Clip(math.Abs(a.AtVec(1)), 0.5, 1.0)

		ox := tip[0]*dispersion[0] + side[0]*(3.0*dispersion[1]+direction*
			SideEngineAway/Scale)
		oy := -tip[1]*dispersion[0] - side[1]*(3.0*dispersion[1]+direction*
			SideEngineAway/Scale)

		pos := l.lander.GetPosition()
		impulsePos := box2d.MakeB2Vec2(pos.X+ox-tip[0]*17.0/Scale,
			pos.Y+oy+tip[1]*SideEngineHeight/Scale)
		impulse := box2d.MakeB2Vec2(-ox*SideEnginePower*l.sPower,
			-oy*SideEnginePower*l.sPower)
		l.lander.ApplyLinearImpulse(impulse, impulsePos, true)
	}

	l.world.Step(1.0/FPS, 6*int(Scale), 2*int(Scale))

	obs := l.observe()
	return obs, l.reward(obs)
}

// observe returns the current observation
func (l *LunarLander) observe() *mat.VecDense {
	pos := l.lander.GetPosition()
	vel := l.lander.GetLinearVelocity()

	var leg1, leg2 float64
	if l.contacts[0] {
		leg1 = 1.0
	}
	if l.contacts[1] {
		leg2 = 1.0
	}

	return mat.NewVecDense(ObservationDims, []float64{
		(pos.X - ViewportW/Scale/2) / (ViewportW / Scale / 2),
		(pos.Y - (l.helipadY + LegDown/Scale)) / (ViewportH / Scale / 2),
		vel.X * (ViewportW / Scale / 2) / FPS,
		vel.Y * (ViewportH / Scale / 2) / FPS,
		floatutils.Wrap(l.lander.GetAngle(), -math.Pi, math.Pi),
		20.0 * l.lander.GetAngularVelocity() / FPS,
		leg1,
		leg2,
	})
}

// reward returns the reward for transitioning to the observation obs
func (l *LunarLander) reward(obs *mat.VecDense) float64 {
	state := obs.RawVector().Data
	shaping := -100*math.Hypot(state[0], state[1]) -
		100*math.Hypot(state[2], state[3]) -
		100*math.Abs(state[4]) +
		10*state[6] +
		10*state[7]

	reward := 0.0
	if l.prevShaping != nil {
		reward = shaping - *l.prevShaping
	}
	l.prevShaping = &shaping

	// Less fuel spent is better
	reward -= l.mPower * 0.30
	reward -= l.sPower * 0.03

	if l.gameOver || math.Abs(state[0]) >= 1.0 {
		return CrashReward
	} else if !l.lander.IsAwake() {
		return RestReward
	}
	return reward
}

// ActionSpace returns the action space [-1, 1]^2
func (l *LunarLander) ActionSpace() simulator.Space {
	return l.actionSpace
}

// ObservationSpace returns the bounds on observations
func (l *LunarLander) ObservationSpace() *simulator.Box {
	inf := math.Inf(1)
	return simulator.NewBox(
		[]float64{-inf, -inf, -inf, -inf, -math.Pi, -inf, 0, 0},
		[]float64{inf, inf, inf, inf, math.Pi, inf, 1, 1},
	)
}

// SampleAction samples uniformly from [-1, 1]^2
func (l *LunarLander) SampleAction() *mat.VecDense {
	return l.sampler.Sample()
}

// Close implements the simulator.Simulator interface
func (l *LunarLander) Close() error {
	if l.lander != nil {
		l.world.SetContactListener(nil)
	}
	l.moon, l.lander, l.legs = nil, nil, nil
	return nil
}

func (l *LunarLander) String() string {
	if l.lastStep.Observation == nil {
		return "LunarLander  |  not reset"
	}
	obs := l.lastStep.Observation
	return fmt.Sprintf("LunarLander  |  x: %v  |  y: %v  |  angle: %v  "+
		"|  legs: (%v, %v)", obs.AtVec(0), obs.AtVec(1), obs.AtVec(4),
		l.contacts[0], l.contacts[1])
}
