// Package geo resolves province names to city lists and city names to map
// coordinates from static lookup tables.
package geo

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

const (
	provinceFile   = "province_city_map.json"
	coordinateFile = "city_coordinates.json"
)

//go:embed data/*.json
var dataFS embed.FS

// Administrative suffixes, longest first.
var suffixes = []string{"壮族自治区", "回族自治区", "维吾尔自治区", "特别行政区", "自治区", "省", "市"}

// Coordinate is a [longitude, latitude] pair.
type Coordinate [2]float64

func (c Coordinate) Lng() float64 { return c[0] }
func (c Coordinate) Lat() float64 { return c[1] }

// Resolver is immutable after construction and safe for concurrent use.
type Resolver struct {
	provinces   map[string][]string
	coordinates map[string]Coordinate
}

// NewResolver loads the tables embedded in the binary.
func NewResolver() (*Resolver, error) {
	sub, err := fs.Sub(dataFS, "data")
	if err != nil {
		return nil, fmt.Errorf("open embedded geo data: %w", err)
	}
	return Load(sub)
}

// NewResolverFromDir loads the tables from dir, falling back to the embedded
// copy when dir is empty.
func NewResolverFromDir(dir string) (*Resolver, error) {
	if dir == "" {
		return NewResolver()
	}
	return Load(os.DirFS(dir))
}

// Load reads both tables from fsys.
func Load(fsys fs.FS) (*Resolver, error) {
	r := &Resolver{}
	if err := readJSON(fsys, provinceFile, &r.provinces); err != nil {
		return nil, err
	}
	if err := readJSON(fsys, coordinateFile, &r.coordinates); err != nil {
		return nil, err
	}
	return r, nil
}

func readJSON(fsys fs.FS, name string, v any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

// CoordinateOf looks up a city by exact (trimmed) name.
func (r *Resolver) CoordinateOf(city string) (Coordinate, bool) {
	c, ok := r.coordinates[strings.TrimSpace(city)]
	return c, ok
}

// CitiesOf expands a province into its cities. Anything that is not a
// known province, with or without its administrative suffix, is returned as
// a single city.
func (r *Resolver) CitiesOf(name string) []string {
	name = strings.TrimSpace(name)
	if name == "" {
		return []string{}
	}
	if cities, ok := r.provinces[name]; ok {
		return clone(cities)
	}
	if short := stripSuffix(name); short != name {
		if cities, ok := r.provinces[short]; ok {
			return clone(cities)
		}
	}
	return []string{name}
}

func stripSuffix(name string) string {
	for _, s := range suffixes {
		if trimmed, ok := strings.CutSuffix(name, s); ok && trimmed != "" {
			return trimmed
		}
	}
	return name
}

func clone(s []string) []string {
	return append([]string(nil), s...)
}
