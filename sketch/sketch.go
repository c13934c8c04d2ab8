// Package sketch loads declarative constraint sketches from TOML and builds
// them onto a solver.System. Sketches describe workplane-free 3D geometry:
// named points with optional pinned coordinates, line segments between them,
// and a flat constraint list.
package sketch

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"

	"github.com/parametriq/geosolver/solver"
)

// MovableGroup is the group sketch unknowns are created in. Pinned
// coordinates go into the system's default group and stay fixed.
const MovableGroup = 2

type Sketch struct {
	// Algorithm selects the minimizer by name. Empty means the default.
	Algorithm string `toml:"algorithm"`

	Points      []Point      `toml:"points"`
	Lines       []Line       `toml:"lines"`
	Constraints []Constraint `toml:"constraints"`
}

type Point struct {
	Name string    `toml:"name"`
	At   []float64 `toml:"at"`
	// Pin names the coordinates held fixed, as a subset of "xyz". Any other
	// coordinate becomes an unknown.
	Pin string `toml:"pin"`
}

type Line struct {
	Name string `toml:"name"`
	From string `toml:"from"`
	To   string `toml:"to"`
}

type Constraint struct {
	Kind       string   `toml:"kind"`
	Value      float64  `toml:"value"`
	Points     []string `toml:"points"`
	Lines      []string `toml:"lines"`
	Point      string   `toml:"point"`
	Line       string   `toml:"line"`
	Supplement bool     `toml:"supplement"`
}

// Load reads and validates a sketch file.
func Load(path string) (*Sketch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading sketch")
	}
	return Parse(data)
}

// Parse decodes and validates sketch TOML.
func Parse(data []byte) (*Sketch, error) {
	var sk Sketch
	if err := toml.Unmarshal(data, &sk); err != nil {
		return nil, errors.Wrap(err, "decoding sketch")
	}
	if err := sk.validate(); err != nil {
		return nil, err
	}
	return &sk, nil
}

func (sk *Sketch) validate() error {
	if sk.Algorithm != "" {
		if _, ok := solver.AlgorithmByName(sk.Algorithm); !ok {
			return errors.Newf("unknown algorithm %q", sk.Algorithm)
		}
	}
	seen := map[string]bool{}
	for _, p := range sk.Points {
		if p.Name == "" {
			return errors.New("point without a name")
		}
		if seen[p.Name] {
			return errors.Newf("duplicate point %q", p.Name)
		}
		seen[p.Name] = true
		if len(p.At) != 3 {
			return errors.Newf("point %q: at must have 3 coordinates", p.Name)
		}
		for _, r := range p.Pin {
			if !strings.ContainsRune("xyz", r) {
				return errors.Newf("point %q: bad pin %q", p.Name, p.Pin)
			}
		}
	}
	lineSeen := map[string]bool{}
	for _, l := range sk.Lines {
		if l.Name == "" {
			return errors.New("line without a name")
		}
		if lineSeen[l.Name] {
			return errors.Newf("duplicate line %q", l.Name)
		}
		lineSeen[l.Name] = true
		for _, ref := range []string{l.From, l.To} {
			if !seen[ref] {
				return errors.Newf("line %q: unknown point %q", l.Name, ref)
			}
		}
	}
	return nil
}

// Model is the built geometry, addressable by sketch name.
type Model struct {
	Points map[string]*solver.Point3D
	Lines  map[string]*solver.LineSegment
}

// Build creates the sketch's parameters, entities and constraints on s.
// Unknown coordinates land in MovableGroup; pinned ones in the system's
// default group.
func (sk *Sketch) Build(s *solver.System) (*Model, error) {
	if sk.Algorithm != "" {
		a, _ := solver.AlgorithmByName(sk.Algorithm)
		s.SetAlgorithm(a)
	}

	m := &Model{
		Points: make(map[string]*solver.Point3D, len(sk.Points)),
		Lines:  make(map[string]*solver.LineSegment, len(sk.Lines)),
	}
	for _, sp := range sk.Points {
		coord := func(axis string, v float64) (*solver.Param, error) {
			g := MovableGroup
			if strings.Contains(sp.Pin, axis) {
				g = s.GroupHandle
			}
			return s.AddParam(sp.Name+"."+axis, v, solver.InGroup(g))
		}
		x, err := coord("x", sp.At[0])
		if err != nil {
			return nil, err
		}
		y, err := coord("y", sp.At[1])
		if err != nil {
			return nil, err
		}
		z, err := coord("z", sp.At[2])
		if err != nil {
			return nil, err
		}
		p, err := s.AddPoint3D(x, y, z, solver.InGroup(MovableGroup))
		if err != nil {
			return nil, errors.Wrapf(err, "point %q", sp.Name)
		}
		m.Points[sp.Name] = p
	}
	for _, sl := range sk.Lines {
		l, err := s.AddLineSegment(m.Points[sl.From], m.Points[sl.To],
			solver.InGroup(MovableGroup))
		if err != nil {
			return nil, errors.Wrapf(err, "line %q", sl.Name)
		}
		m.Lines[sl.Name] = l
	}
	for i, sc := range sk.Constraints {
		if err := m.addConstraint(s, sc); err != nil {
			return nil, errors.Wrapf(err, "constraint %d (%s)", i, sc.Kind)
		}
	}
	return m, nil
}

func (m *Model) point(name string) (*solver.Point3D, error) {
	p, ok := m.Points[name]
	if !ok {
		return nil, errors.Newf("unknown point %q", name)
	}
	return p, nil
}

func (m *Model) line(name string) (*solver.LineSegment, error) {
	l, ok := m.Lines[name]
	if !ok {
		return nil, errors.Newf("unknown line %q", name)
	}
	return l, nil
}

func (m *Model) pointPair(names []string) (*solver.Point3D, *solver.Point3D, error) {
	if len(names) != 2 {
		return nil, nil, errors.Newf("want 2 points, got %d", len(names))
	}
	p1, err := m.point(names[0])
	if err != nil {
		return nil, nil, err
	}
	p2, err := m.point(names[1])
	if err != nil {
		return nil, nil, err
	}
	return p1, p2, nil
}

func (m *Model) linePair(names []string) (*solver.LineSegment, *solver.LineSegment, error) {
	if len(names) != 2 {
		return nil, nil, errors.Newf("want 2 lines, got %d", len(names))
	}
	l1, err := m.line(names[0])
	if err != nil {
		return nil, nil, err
	}
	l2, err := m.line(names[1])
	if err != nil {
		return nil, nil, err
	}
	return l1, l2, nil
}

func (m *Model) addConstraint(s *solver.System, sc Constraint) error {
	grp := solver.InGroup(MovableGroup)
	switch sc.Kind {
	case "distance":
		p1, p2, err := m.pointPair(sc.Points)
		if err != nil {
			return err
		}
		_, err = s.AddPointsDistance(sc.Value, p1, p2, grp)
		return err
	case "coincident":
		p1, p2, err := m.pointPair(sc.Points)
		if err != nil {
			return err
		}
		_, err = s.AddPointsCoincident(p1, p2, grp)
		return err
	case "horizontal":
		l, err := m.line(sc.Line)
		if err != nil {
			return err
		}
		_, err = s.AddLineHorizontal(l, grp)
		return err
	case "vertical":
		l, err := m.line(sc.Line)
		if err != nil {
			return err
		}
		_, err = s.AddLineVertical(l, grp)
		return err
	case "parallel":
		l1, l2, err := m.linePair(sc.Lines)
		if err != nil {
			return err
		}
		_, err = s.AddParallel(l1, l2, grp)
		return err
	case "perpendicular":
		l1, l2, err := m.linePair(sc.Lines)
		if err != nil {
			return err
		}
		_, err = s.AddPerpendicular(l1, l2, grp)
		return err
	case "angle":
		l1, l2, err := m.linePair(sc.Lines)
		if err != nil {
			return err
		}
		deg, err := s.AddDistance(sc.Value, grp)
		if err != nil {
			return err
		}
		opts := []solver.Option{grp}
		if sc.Supplement {
			opts = append(opts, solver.Supplement())
		}
		_, err = s.AddAngle(deg, l1, l2, opts...)
		return err
	case "midpoint":
		p, err := m.point(sc.Point)
		if err != nil {
			return err
		}
		l, err := m.line(sc.Line)
		if err != nil {
			return err
		}
		_, err = s.AddMidPoint(p, l, grp)
		return err
	case "point_on_line":
		p, err := m.point(sc.Point)
		if err != nil {
			return err
		}
		l, err := m.line(sc.Line)
		if err != nil {
			return err
		}
		_, err = s.AddPointOnLine(p, l, grp)
		return err
	}
	return errors.Newf("unknown constraint kind %q", sc.Kind)
}
