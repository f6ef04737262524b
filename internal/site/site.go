// Package site loads the site manifest: page copy, hero links, the method
// registry, and the gallery definitions. The manifest is the single place
// where methods get display labels and a canonical order; records only ever
// carry method ids.
package site

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"soundstage.systems/foleydeck/pkg/gallery"
)

// GalleryKind selects which view state a gallery uses.
type GalleryKind string

const (
	// KindDisclosure shows a short prefix with an expand/collapse toggle.
	KindDisclosure GalleryKind = "disclosure"
	// KindPaginated partitions records into fixed-size pages.
	KindPaginated GalleryKind = "paginated"
)

// Link is one hero button.
type Link struct {
	Label string `yaml:"label"`
	Href  string `yaml:"href"`
	Kind  string `yaml:"kind"`
}

// Method is one registry entry mapping a stable id to its display label.
type Method struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
}

// Gallery describes one gallery section on the page.
type Gallery struct {
	Slug         string      `yaml:"slug"`
	Title        string      `yaml:"title"`
	Blurb        string      `yaml:"blurb"`
	Dataset      string      `yaml:"dataset"`
	Kind         GalleryKind `yaml:"kind"`
	InitialCount int         `yaml:"initial_count"`
	ItemsPerPage int         `yaml:"items_per_page"`
}

// Site is the loaded manifest.
type Site struct {
	Title        string    `yaml:"title"`
	Tagline      string    `yaml:"tagline"`
	AbstractPath string    `yaml:"abstract_path"`
	Links        []Link    `yaml:"links"`
	Methods      []Method  `yaml:"methods"`
	Galleries    []Gallery `yaml:"galleries"`

	labelByID map[string]string
}

// Slugs appear in element ids and API paths.
var slugRe = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Load reads and validates a manifest file.
func Load(path string) (*Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read site manifest: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("site manifest %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates manifest bytes.
func Parse(data []byte) (*Site, error) {
	s := &Site{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, err
	}
	s.applyDefaults()
	if err := s.validate(); err != nil {
		return nil, err
	}

	s.labelByID = make(map[string]string, len(s.Methods))
	for _, m := range s.Methods {
		s.labelByID[strings.ToLower(m.ID)] = m.Label
	}
	return s, nil
}

func (s *Site) applyDefaults() {
	if s.Title == "" {
		s.Title = "Foleydeck"
	}
	for i := range s.Galleries {
		g := &s.Galleries[i]
		if g.InitialCount <= 0 {
			g.InitialCount = gallery.DefaultInitialCount
		}
		if g.ItemsPerPage <= 0 {
			g.ItemsPerPage = gallery.DefaultItemsPerPage
		}
		if g.Title == "" {
			g.Title = g.Slug
		}
	}
}

func (s *Site) validate() error {
	seenSlug := make(map[string]struct{}, len(s.Galleries))
	for _, g := range s.Galleries {
		if !slugRe.MatchString(g.Slug) {
			return fmt.Errorf("gallery slug %q: must be lowercase letters, digits and hyphens", g.Slug)
		}
		if _, dup := seenSlug[g.Slug]; dup {
			return fmt.Errorf("duplicate gallery slug %q", g.Slug)
		}
		seenSlug[g.Slug] = struct{}{}

		if g.Dataset == "" {
			return fmt.Errorf("gallery %q: missing dataset", g.Slug)
		}
		switch g.Kind {
		case KindDisclosure, KindPaginated:
		default:
			return fmt.Errorf("gallery %q: unknown kind %q", g.Slug, g.Kind)
		}
	}

	seenID := make(map[string]struct{}, len(s.Methods))
	for _, m := range s.Methods {
		id := strings.ToLower(m.ID)
		if id == "" {
			return fmt.Errorf("method with empty id")
		}
		if _, dup := seenID[id]; dup {
			return fmt.Errorf("duplicate method id %q", m.ID)
		}
		seenID[id] = struct{}{}
	}
	return nil
}

// DisplayName resolves a method id to its registry label. Unknown ids come
// back verbatim; an unrecognized method must render, not fail.
func (s *Site) DisplayName(id string) string {
	if label, ok := s.labelByID[strings.ToLower(id)]; ok {
		return label
	}
	return id
}

// KnownMethod reports whether id is in the registry.
func (s *Site) KnownMethod(id string) bool {
	_, ok := s.labelByID[strings.ToLower(id)]
	return ok
}

// Gallery returns the gallery definition for slug.
func (s *Site) Gallery(slug string) (*Gallery, bool) {
	for i := range s.Galleries {
		if s.Galleries[i].Slug == slug {
			return &s.Galleries[i], true
		}
	}
	return nil, false
}

// OrderMethods arranges a record's method ids for display: registry methods
// first in canonical order, then ids the registry does not know in the
// record's own order. Registry methods the record lacks are skipped. The
// returned ids keep the record's spelling so they stay valid map keys.
func (s *Site) OrderMethods(recordOrder []string) []string {
	bySlug := make(map[string]string, len(recordOrder))
	for _, id := range recordOrder {
		l := strings.ToLower(id)
		if _, ok := bySlug[l]; !ok {
			bySlug[l] = id
		}
	}

	out := make([]string, 0, len(recordOrder))
	used := make(map[string]struct{}, len(recordOrder))
	for _, m := range s.Methods {
		l := strings.ToLower(m.ID)
		if orig, ok := bySlug[l]; ok {
			out = append(out, orig)
			used[l] = struct{}{}
		}
	}
	for _, id := range recordOrder {
		l := strings.ToLower(id)
		if _, ok := used[l]; !ok {
			out = append(out, id)
			used[l] = struct{}{}
		}
	}
	return out
}
