// Package sheet loads stat collections from YAML documents.
//
// A document declares collections by name. A collection may name a parent
// declared anywhere in the same document; parents are built first and their
// stats are chained into the child.
package sheet

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/rpg-stats/internal/errors"
)

// Document is the root of a sheet file
type Document struct {
	Collections []CollectionSpec `yaml:"collections"`
}

// CollectionSpec declares one collection
type CollectionSpec struct {
	Name      string         `yaml:"name"`
	Parent    string         `yaml:"parent,omitempty"`
	Stats     []StatSpec     `yaml:"stats,omitempty"`
	Modifiers []ModifierSpec `yaml:"modifiers,omitempty"`
}

// StatSpec declares a root stat. Exactly one of Base or Roll is used; Roll
// takes dice notation such as "3d6".
type StatSpec struct {
	Key  string   `yaml:"key"`
	Base *float64 `yaml:"base,omitempty"`
	Roll string   `yaml:"roll,omitempty"`
}

// ModifierSpec declares a modifier attached to a stat of the collection
type ModifierSpec struct {
	Stat   string  `yaml:"stat"`
	Op     string  `yaml:"op"`
	Value  float64 `yaml:"value"`
	ID     string  `yaml:"id,omitempty"`
	Source string  `yaml:"source,omitempty"`
	Post   bool    `yaml:"post,omitempty"`
}

// Parse decodes a document and validates its shape. Cross-collection checks
// such as parent resolution happen in Build.
func Parse(r io.Reader) (*Document, error) {
	doc := &Document{}

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(doc); err != nil {
		if err == io.EOF {
			return nil, errors.InvalidArgument("sheet document is empty")
		}
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to decode sheet")
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}

	return doc, nil
}

// LoadFile reads and parses the document at path
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundf("sheet file %s not found", path)
		}
		return nil, errors.Wrapf(err, "failed to open sheet file %s", path)
	}
	defer func() { _ = f.Close() }()

	doc, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", path)
	}
	return doc, nil
}

// Validate checks each collection in isolation
func (d *Document) Validate() error {
	vb := errors.NewValidationBuilder()

	if len(d.Collections) == 0 {
		vb.RequiredField("collections")
	}

	for i, c := range d.Collections {
		field := func(name string) string {
			return collectionField(i, c.Name, name)
		}

		errors.ValidateRequired(field("name"), c.Name, vb)

		for j, st := range c.Stats {
			switch {
			case st.Key == "":
				vb.Fieldf(field("stats"), "entry %d: key is required", j)
			case st.Base != nil && st.Roll != "":
				vb.Fieldf(field("stats"), "%s: base and roll are mutually exclusive", st.Key)
			case st.Base != nil:
				errors.ValidateFinite(field("stats."+st.Key), *st.Base, vb)
			}
		}

		for j, m := range c.Modifiers {
			if m.Stat == "" {
				vb.Fieldf(field("modifiers"), "entry %d: stat is required", j)
			}
			if m.Op == "" {
				vb.Fieldf(field("modifiers"), "entry %d: op is required", j)
			}
			errors.ValidateFinite(field("modifiers.value"), m.Value, vb)
		}
	}

	return vb.Build()
}

func collectionField(index int, name, field string) string {
	if name == "" {
		return fmt.Sprintf("collections[%d].%s", index, field)
	}
	return fmt.Sprintf("collections[%s].%s", name, field)
}
