package carracing

import "github.com/ByteArena/box2d"

// bodyKind tags every body this environment creates so that contact
// events can be dispatched on an explicit kind rather than by probing
// the shape of the user data.
type bodyKind int

const (
	bodyKindTile bodyKind = iota
	bodyKindWheel
	bodyKindHull
)

type bodyUserData struct {
	kind  bodyKind
	tile  *roadTile
	wheel *wheel
}

func asTile(b *box2d.B2Body) (*roadTile, bool) {
	ud, ok := b.GetUserData().(*bodyUserData)
	if !ok || ud.kind != bodyKindTile {
		return nil, false
	}
	return ud.tile, true
}

func asWheel(b *box2d.B2Body) (*wheel, bool) {
	ud, ok := b.GetUserData().(*bodyUserData)
	if !ok || ud.kind != bodyKindWheel {
		return nil, false
	}
	return ud.wheel, true
}

// tileDetector is the contact listener driving tile visitation. A
// begin event between a wheel and a tile adds the tile to the wheel's
// active-contact set and marks it visited; an end event removes it
// from the set. Visited tiles never revert.
type tileDetector struct {
	env *carRacing
}

func newTileDetector(e *carRacing) *tileDetector {
	return &tileDetector{e}
}

func (d *tileDetector) BeginContact(contact box2d.B2ContactInterface) {
	d.contact(contact, true)
}

func (d *tileDetector) EndContact(contact box2d.B2ContactInterface) {
	d.contact(contact, false)
}

func (d *tileDetector) PreSolve(contact box2d.B2ContactInterface,
	oldManifold box2d.B2Manifold) {
}

func (d *tileDetector) PostSolve(contact box2d.B2ContactInterface,
	impulse *box2d.B2ContactImpulse) {
}

func (d *tileDetector) contact(contact box2d.B2ContactInterface, begin bool) {
	bodyA := contact.GetFixtureA().GetBody()
	bodyB := contact.GetFixtureB().GetBody()

	var tile *roadTile
	var wh *wheel
	for _, body := range []*box2d.B2Body{bodyA, bodyB} {
		if t, ok := asTile(body); ok {
			tile = t
		} else if w, ok := asWheel(body); ok {
			wh = w
		}
	}
	if tile == nil {
		return
	}

	// Tiles inherit the road color on first contact; rendering only
	tile.color = d.env.roadColor

	if wh == nil {
		return
	}

	if begin {
		wh.tiles[tile] = struct{}{}
		d.env.visitTile(tile)
	} else {
		delete(wh.tiles, tile)
	}
}
