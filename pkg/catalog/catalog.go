// Package catalog reads the notebooks and scenarios a comparison is built
// from.
//
// The catalog is a TOML file:
//
//	[[notebook]]
//	id = "btn-vs-bb"
//	name = "BTN vs BB"
//
//	  [[notebook.scenario]]
//	  id = "s1"
//	  name = "BTN open 2.5x"
//	  kind = "range"
//	  compare = true
//
// Each notebook is a comparison keyed by its id. The [layout.GlobalKey]
// comparison holds every scenario marked compare = true, across notebooks.
package catalog

import (
	"bytes"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/rangedeck/pkg/errors"
	"github.com/matzehuels/rangedeck/pkg/layout"
)

// Scenario kinds.
const (
	KindRange    = "range"
	KindImage    = "image"
	KindNote     = "note"
	KindAnalysis = layout.KindAnalysis
)

var kinds = []string{KindRange, KindImage, KindNote, KindAnalysis}

// Scenario is one comparable item.
type Scenario struct {
	ID      string `toml:"id" json:"id"`
	Name    string `toml:"name" json:"name"`
	Kind    string `toml:"kind" json:"kind"`
	Compare bool   `toml:"compare" json:"compare"`
}

// Notebook groups scenarios.
type Notebook struct {
	ID        string     `toml:"id" json:"id"`
	Name      string     `toml:"name" json:"name"`
	Scenarios []Scenario `toml:"scenario" json:"scenarios"`
}

// Catalog is the parsed catalog file.
type Catalog struct {
	Notebooks []Notebook `toml:"notebook" json:"notebooks"`
}

// Load reads and validates the catalog at path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "catalog %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read catalog %s", path)
	}
	return Parse(data)
}

// Parse decodes and validates a catalog. Unknown keys are rejected.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&c)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse catalog")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown catalog keys: %s", strings.Join(keys, ", "))
	}
	for i := range c.Notebooks {
		for j := range c.Notebooks[i].Scenarios {
			if c.Notebooks[i].Scenarios[j].Kind == "" {
				c.Notebooks[i].Scenarios[j].Kind = KindRange
			}
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks ids and kinds. Notebook ids must be valid comparison keys
// other than the global key; scenario ids must be unique across the catalog.
func (c *Catalog) Validate() error {
	notebooks := make(map[string]bool)
	scenarios := make(map[string]string)

	for _, nb := range c.Notebooks {
		if err := errors.ValidateKey(nb.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "notebook %q", nb.Name)
		}
		if nb.ID == layout.GlobalKey {
			return errors.New(errors.ErrCodeInvalidConfig, "notebook id %q is reserved", nb.ID)
		}
		if notebooks[nb.ID] {
			return errors.New(errors.ErrCodeInvalidConfig, "duplicate notebook id %q", nb.ID)
		}
		notebooks[nb.ID] = true

		for _, sc := range nb.Scenarios {
			if err := errors.ValidateItemID(sc.ID); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidConfig, err, "notebook %q", nb.ID)
			}
			if other, dup := scenarios[sc.ID]; dup {
				return errors.New(errors.ErrCodeInvalidConfig, "scenario %q appears in notebooks %q and %q", sc.ID, other, nb.ID)
			}
			scenarios[sc.ID] = nb.ID
			if !slices.Contains(kinds, sc.Kind) {
				return errors.New(errors.ErrCodeInvalidConfig, "scenario %q has unknown kind %q", sc.ID, sc.Kind)
			}
		}
	}
	return nil
}

// Notebook returns the notebook with id.
func (c *Catalog) Notebook(id string) (Notebook, bool) {
	for _, nb := range c.Notebooks {
		if nb.ID == id {
			return nb, true
		}
	}
	return Notebook{}, false
}

// Scenario returns the scenario with id and the notebook holding it.
func (c *Catalog) Scenario(id string) (Scenario, Notebook, bool) {
	for _, nb := range c.Notebooks {
		for _, sc := range nb.Scenarios {
			if sc.ID == id {
				return sc, nb, true
			}
		}
	}
	return Scenario{}, Notebook{}, false
}

// Keys returns every comparison key: the notebook ids followed by the
// global key.
func (c *Catalog) Keys() []string {
	keys := make([]string, 0, len(c.Notebooks)+1)
	for _, nb := range c.Notebooks {
		keys = append(keys, nb.ID)
	}
	return append(keys, layout.GlobalKey)
}

// Items returns the items compared under key: a notebook's scenarios, or
// every selected scenario for the global key.
func (c *Catalog) Items(key string) ([]layout.Item, error) {
	if key == layout.GlobalKey {
		var items []layout.Item
		for _, nb := range c.Notebooks {
			for _, sc := range nb.Scenarios {
				if sc.Compare {
					items = append(items, sc.Item())
				}
			}
		}
		return items, nil
	}
	nb, ok := c.Notebook(key)
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "no notebook %q", key)
	}
	return nb.Items(), nil
}

// Items returns the notebook's scenarios as layout items.
func (n Notebook) Items() []layout.Item {
	items := make([]layout.Item, len(n.Scenarios))
	for i, sc := range n.Scenarios {
		items[i] = sc.Item()
	}
	return items
}

// Item returns the layout view of the scenario.
func (s Scenario) Item() layout.Item {
	return layout.Item{ID: s.ID, Kind: s.Kind}
}

// Label returns the name, or the id when the name is empty.
func (s Scenario) Label() string {
	if s.Name != "" {
		return s.Name
	}
	return s.ID
}

// String implements fmt.Stringer.
func (s Scenario) String() string {
	return fmt.Sprintf("%s (%s)", s.Label(), s.Kind)
}
