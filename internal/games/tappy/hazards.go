package tappy

import (
	"github.com/solarlune/resolv"

	"github.com/vovakirdan/tui-tappy/internal/core"
)

const (
	tagPlane = "plane"
	tagRock  = "rock"

	hazardCell = 4 // Spatial hash cell size, in canvas units
)

// hazardField answers "is the plane touching a rock" for one play session.
// The resolv space is only a broadphase: its cells are coarse, so candidates
// it reports are confirmed with an exact box test.
type hazardField struct {
	space *resolv.Space
	plane *resolv.Object
	rocks []*resolv.Object
}

// newHazardField builds a space large enough for the canvas plus one
// obstacle spacing of spawn area to the right.
func newHazardField(canvasW, canvasH, spawnArea int, planeW, planeH float64) *hazardField {
	space := resolv.NewSpace(canvasW+spawnArea, canvasH, hazardCell, hazardCell)

	plane := resolv.NewObject(0, 0, planeW, planeH, tagPlane)
	plane.SetShape(resolv.NewRectangle(0, 0, planeW, planeH))
	space.Add(plane)

	return &hazardField{space: space, plane: plane}
}

// sync mirrors the track into the space, reusing rock objects.
func (h *hazardField) sync(obstacles []Obstacle, l Layout) {
	for len(h.rocks) < len(obstacles) {
		rock := resolv.NewObject(0, 0, l.SpriteW, l.SpriteH, tagRock)
		rock.SetShape(resolv.NewRectangle(0, 0, l.SpriteW, l.SpriteH))
		h.space.Add(rock)
		h.rocks = append(h.rocks, rock)
	}
	for len(h.rocks) > len(obstacles) {
		last := h.rocks[len(h.rocks)-1]
		h.space.Remove(last)
		h.rocks = h.rocks[:len(h.rocks)-1]
	}

	for i, o := range obstacles {
		rock := h.rocks[i]
		rock.X, rock.Y = o.Pos.X, o.Pos.Y
		rock.Update()
	}
}

// hits moves the plane so it is centered on center and reports whether it
// overlaps any rock.
func (h *hazardField) hits(center core.Position) bool {
	h.plane.X = center.X - h.plane.W/2
	h.plane.Y = center.Y - h.plane.H/2
	h.plane.Update()

	check := h.plane.Check(0, 0, tagRock)
	if check == nil {
		return false
	}
	for _, rock := range check.ObjectsByTags(tagRock) {
		if overlaps(h.plane, rock) {
			return true
		}
	}
	return false
}

// overlaps is a strict AABB test; touching edges do not count.
func overlaps(a, b *resolv.Object) bool {
	return a.X < b.X+b.W && b.X < a.X+a.W &&
		a.Y < b.Y+b.H && b.Y < a.Y+a.H
}
