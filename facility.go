package campus

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/campusmap/campus/meshrt/rt/core"
	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

//go:embed facilities.yaml
var defaultFacilities []byte

var (
	ErrDuplicateFacility = errors.New("duplicate facility")
	ErrInvalidRegistry   = errors.New("invalid facility registry")
)

type Shape string

const (
	ShapeBox   Shape = "box"
	ShapePlane Shape = "plane"
)

// GymnasiumName is the one facility built as a composite group.
const GymnasiumName = "gymnasium"

// Facility is a named campus location. Position is the center of its volume;
// planes have zero height and lie on the ground.
type Facility struct {
	Name     string     `yaml:"name"`
	Label    string     `yaml:"label"`
	Position mgl32.Vec3 `yaml:"position"`
	Size     mgl32.Vec3 `yaml:"size"`
	Color    string     `yaml:"color"`
	Shape    Shape      `yaml:"shape"`
}

// Top is the height of the facility's upper face.
func (f *Facility) Top() float32 {
	return f.Position.Y() + f.Size.Y()/2
}

// MainBuildingPart is a decorative volume shown for a main-building
// sub-location while it has incidents.
type MainBuildingPart struct {
	Owner    string     `yaml:"-"`
	Position mgl32.Vec3 `yaml:"position"`
	Size     mgl32.Vec3 `yaml:"size"`
	Color    string     `yaml:"color"`
}

type SubLocation struct {
	Key         string             `yaml:"key"`
	Short       string             `yaml:"short"`
	LabelOffset mgl32.Vec3         `yaml:"label_offset"` // from the building's top center
	Parts       []MainBuildingPart `yaml:"parts"`
}

type MainBuilding struct {
	Name         string        `yaml:"name"`
	Label        string        `yaml:"label"`
	Position     mgl32.Vec3    `yaml:"position"`
	Size         mgl32.Vec3    `yaml:"size"`
	Color        string        `yaml:"color"`
	SubLocations []SubLocation `yaml:"sublocations"`
}

func (m *MainBuilding) TopCenter() mgl32.Vec3 {
	return m.Position.Add(mgl32.Vec3{0, m.Size.Y() / 2, 0})
}

type Ground struct {
	Size  [2]float32 `yaml:"size"`
	Color string     `yaml:"color"`
}

// Registry is the read-only set of campus locations.
type Registry struct {
	Ground       Ground       `yaml:"ground"`
	MainBuilding MainBuilding `yaml:"main_building"`
	Facilities   []Facility   `yaml:"facilities"`

	byName map[string]*Facility
	subs   map[string]*SubLocation
}

// LoadRegistry decodes and validates a registry document.
func LoadRegistry(data []byte) (*Registry, error) {
	var reg Registry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("decode facilities: %w", err)
	}
	if err := reg.index(); err != nil {
		return nil, err
	}
	return &reg, nil
}

// DefaultRegistry returns the campus compiled into the binary.
func DefaultRegistry() (*Registry, error) {
	return LoadRegistry(defaultFacilities)
}

func (r *Registry) index() error {
	if r.MainBuilding.Name == "" {
		return fmt.Errorf("%w: main building has no name", ErrInvalidRegistry)
	}

	r.byName = make(map[string]*Facility, len(r.Facilities))
	r.subs = make(map[string]*SubLocation, len(r.MainBuilding.SubLocations))

	colors := []string{r.Ground.Color, r.MainBuilding.Color}
	for i := range r.Facilities {
		f := &r.Facilities[i]
		if f.Name == "" {
			return fmt.Errorf("%w: facility %d has no name", ErrInvalidRegistry, i)
		}
		if _, dup := r.byName[f.Name]; dup || f.Name == r.MainBuilding.Name {
			return fmt.Errorf("%w: %q", ErrDuplicateFacility, f.Name)
		}
		switch f.Shape {
		case "":
			f.Shape = ShapeBox
		case ShapeBox, ShapePlane:
		default:
			return fmt.Errorf("%w: facility %q has unknown shape %q", ErrInvalidRegistry, f.Name, f.Shape)
		}
		if f.Label == "" {
			f.Label = f.Name
		}
		colors = append(colors, f.Color)
		r.byName[f.Name] = f
	}

	prefix := r.MainBuilding.Name + " / "
	for i := range r.MainBuilding.SubLocations {
		sub := &r.MainBuilding.SubLocations[i]
		if !strings.HasPrefix(sub.Key, prefix) {
			return fmt.Errorf("%w: sub-location %q must start with %q", ErrInvalidRegistry, sub.Key, prefix)
		}
		if _, dup := r.subs[sub.Key]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateFacility, sub.Key)
		}
		if sub.Short == "" {
			sub.Short = strings.TrimPrefix(sub.Key, prefix)
		}
		for j := range sub.Parts {
			sub.Parts[j].Owner = sub.Key
			colors = append(colors, sub.Parts[j].Color)
		}
		r.subs[sub.Key] = sub
	}

	for _, c := range colors {
		if _, err := core.ParseHexColor(c); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidRegistry, err)
		}
	}
	return nil
}

func (r *Registry) Facility(name string) (*Facility, bool) {
	f, ok := r.byName[name]
	return f, ok
}

func (r *Registry) SubLocation(key string) (*SubLocation, bool) {
	s, ok := r.subs[key]
	return s, ok
}

// IsMainBuildingLocation reports whether loc is the main building or one of
// its sub-locations.
func (r *Registry) IsMainBuildingLocation(loc string) bool {
	return loc == r.MainBuilding.Name || strings.HasPrefix(loc, r.MainBuilding.Name+" / ")
}

// HasLocation reports whether incidents may be logged at loc.
func (r *Registry) HasLocation(loc string) bool {
	if _, ok := r.byName[loc]; ok {
		return true
	}
	_, ok := r.subs[loc]
	return ok
}

// LocationKeys lists every loggable location: facilities first, then the
// main-building sub-locations, in registry order.
func (r *Registry) LocationKeys() []string {
	keys := make([]string, 0, len(r.Facilities)+len(r.MainBuilding.SubLocations))
	for _, f := range r.Facilities {
		keys = append(keys, f.Name)
	}
	for _, s := range r.MainBuilding.SubLocations {
		keys = append(keys, s.Key)
	}
	return keys
}
