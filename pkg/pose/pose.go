// Package pose provides the immutable named pose catalog.
//
// A pose is a target angle vector for all five fingers in the fixed
// order [thumb, index, middle, ring, pinky], degrees 0-180. The catalog
// is built once at startup and never mutated, which keeps the
// unique-name invariant enforced in exactly one place.
package pose

import (
	"errors"
	"fmt"
	"strings"
)

// NumFingers is the number of actuator channels a pose addresses.
const NumFingers = 5

// MaxAngle is the upper bound of a finger angle in degrees.
const MaxAngle = 180

// ErrDuplicateName is returned when a catalog contains two poses whose
// names differ only by case.
var ErrDuplicateName = errors.New("duplicate pose name")

// Pose is a named target angle vector.
type Pose struct {
	Name   string          `json:"name"`
	Angles [NumFingers]int `json:"angles"`
}

// Catalog is an immutable, case-insensitively keyed pose table.
type Catalog struct {
	order []string
	byKey map[string][NumFingers]int
}

// NewCatalog builds a catalog from the given poses. Angles are clamped
// to [0,180]. Names must be unique ignoring case.
func NewCatalog(poses []Pose) (*Catalog, error) {
	c := &Catalog{
		byKey: make(map[string][NumFingers]int, len(poses)),
	}
	for _, p := range poses {
		key := strings.ToLower(p.Name)
		if key == "" {
			return nil, errors.New("pose with empty name")
		}
		if _, exists := c.byKey[key]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, p.Name)
		}
		var angles [NumFingers]int
		for i, a := range p.Angles {
			angles[i] = clamp(a, 0, MaxAngle)
		}
		c.order = append(c.order, p.Name)
		c.byKey[key] = angles
	}
	return c, nil
}

// Lookup resolves a pose name, ignoring case. Exact match only.
func (c *Catalog) Lookup(name string) ([NumFingers]int, bool) {
	angles, ok := c.byKey[strings.ToLower(name)]
	return angles, ok
}

// Names returns the pose names in catalog order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of poses in the catalog.
func (c *Catalog) Len() int {
	return len(c.order)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
