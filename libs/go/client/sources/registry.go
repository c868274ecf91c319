// Package sources maps a (jurisdiction, entity type, year) request to the
// documents that publish its bracket table and retrieves them.
package sources

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cyphera/cyphera-tax/libs/go/taxerrors"
	"github.com/cyphera/cyphera-tax/libs/go/types/business"
	"gopkg.in/yaml.v3"
)

//go:embed sources.yaml
var defaultSourcesYAML []byte

// Source is one publisher of bracket tables
type Source struct {
	Name         string                   `yaml:"name"`
	Jurisdiction business.Jurisdiction    `yaml:"jurisdiction"`
	EntityTypes  []business.TaxEntityType `yaml:"entity_types"`
	URLs         []string                 `yaml:"urls"`
	// MinYear and MaxYear bound the years the source publishes; zero is unbounded.
	MinYear int `yaml:"min_year,omitempty"`
	MaxYear int `yaml:"max_year,omitempty"`
}

type sourcesFile struct {
	Sources []Source `yaml:"sources"`
}

// Registry is an immutable, ordered list of sources
type Registry struct {
	sources []Source
}

// DefaultRegistry returns the built-in mapping
func DefaultRegistry() *Registry {
	r, err := ParseRegistry(defaultSourcesYAML)
	if err != nil {
		panic(fmt.Sprintf("invalid built-in sources: %v", err))
	}
	return r
}

// LoadRegistry reads a YAML sources file
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file %s: %w", path, err)
	}
	return ParseRegistry(data)
}

// ParseRegistry decodes and validates a YAML sources document
func ParseRegistry(data []byte) (*Registry, error) {
	var file sourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, taxerrors.InvalidInput("parse_sources", "invalid sources yaml: %v", err)
	}
	return NewRegistry(file.Sources...)
}

// NewRegistry validates sources and returns a registry over a copy of them
func NewRegistry(sources ...Source) (*Registry, error) {
	out := make([]Source, 0, len(sources))
	for i, s := range sources {
		if s.Jurisdiction.Country == "" {
			return nil, taxerrors.InvalidInput("parse_sources", "source %d (%s) has no country", i, s.Name)
		}
		if s.Jurisdiction.Level == "" {
			s.Jurisdiction.Level = business.LevelFederal
		}
		s.Jurisdiction.Region = strings.ToUpper(s.Jurisdiction.Region)
		if len(s.URLs) == 0 {
			return nil, taxerrors.InvalidInput("parse_sources", "source %d (%s) has no urls", i, s.Name)
		}
		if len(s.EntityTypes) == 0 {
			return nil, taxerrors.InvalidInput("parse_sources", "source %d (%s) has no entity types", i, s.Name)
		}
		for _, et := range s.EntityTypes {
			if !et.IsValid() {
				return nil, taxerrors.InvalidInput("parse_sources", "source %d (%s) has unknown entity type %q", i, s.Name, et)
			}
		}
		s.EntityTypes = append([]business.TaxEntityType(nil), s.EntityTypes...)
		s.URLs = append([]string(nil), s.URLs...)
		out = append(out, s)
	}
	return &Registry{sources: out}, nil
}

// Resolve returns the candidate URLs for key in priority order. Sources are
// consulted in declaration order and their candidates concatenated.
func (r *Registry) Resolve(key business.CacheKey) ([]string, error) {
	var urls []string
	for _, s := range r.sources {
		if !s.matches(key) {
			continue
		}
		for _, tmpl := range s.URLs {
			urls = append(urls, expandURL(tmpl, key.Year))
		}
	}
	if len(urls) == 0 {
		return nil, taxerrors.UnsupportedJurisdiction("resolve_source", "no source publishes %s", key)
	}
	return urls, nil
}

// Supports reports whether any source covers the jurisdiction
func (r *Registry) Supports(j business.Jurisdiction) bool {
	for _, s := range r.sources {
		if s.Jurisdiction == j {
			return true
		}
	}
	return false
}

// Sources returns a copy of the configured sources
func (r *Registry) Sources() []Source {
	return append([]Source(nil), r.sources...)
}

func (s Source) matches(key business.CacheKey) bool {
	if s.Jurisdiction != key.Jurisdiction {
		return false
	}
	if s.MinYear != 0 && key.Year < s.MinYear {
		return false
	}
	if s.MaxYear != 0 && key.Year > s.MaxYear {
		return false
	}
	for _, et := range s.EntityTypes {
		if et == key.EntityType {
			return true
		}
	}
	return false
}

func expandURL(tmpl string, year int) string {
	return strings.NewReplacer(
		"{year}", strconv.Itoa(year),
		"{prev_year}", strconv.Itoa(year-1),
	).Replace(tmpl)
}
