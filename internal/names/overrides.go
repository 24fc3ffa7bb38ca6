package names

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/contact-cli/internal/model"
)

// Override is a manually verified correction for one record. The match key
// is exact: company, current first, current last and email must all equal.
type Override struct {
	Company  string `yaml:"company"`
	First    string `yaml:"first"`
	Last     string `yaml:"last"`
	Email    string `yaml:"email"`
	NewFirst string `yaml:"new_first"`
	NewLast  string `yaml:"new_last"`
}

type overrideKey struct {
	company, first, last, email string
}

type pinKey struct {
	company, email string
}

// Overrides is the manual correction table. It is consulted before any
// inference so heuristics never second-guess a human decision.
type Overrides struct {
	byKey map[overrideKey]Override
	pins  map[pinKey][]Override
}

type overridesFile struct {
	Overrides []Override `yaml:"overrides"`
}

// NewOverrides indexes the given corrections. A later entry with the same key
// replaces an earlier one.
func NewOverrides(list []Override) *Overrides {
	o := &Overrides{
		byKey: make(map[overrideKey]Override, len(list)),
		pins:  make(map[pinKey][]Override, len(list)),
	}
	for _, ov := range list {
		o.byKey[overrideKey{ov.Company, ov.First, ov.Last, ov.Email}] = ov
		pk := pinKey{ov.Company, ov.Email}
		o.pins[pk] = append(o.pins[pk], ov)
	}
	return o
}

// LoadOverrides reads an overrides YAML file:
//
//	overrides:
//	  - company: Playhouse Square
//	    first: HOT
//	    last: DEALS
//	    email: andy.selesnik@playhousesquare.org
//	    new_first: Andy
//	    new_last: Selesnik
func LoadOverrides(path string) (*Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "names: read overrides %s", path)
	}

	var file overridesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, eris.Wrap(err, "names: parse overrides")
	}

	for i, ov := range file.Overrides {
		if ov.Email == "" && ov.Company == "" {
			return nil, eris.Errorf("names: override %d has neither company nor email", i+1)
		}
	}

	return NewOverrides(file.Overrides), nil
}

// Len returns the number of distinct corrections.
func (o *Overrides) Len() int {
	if o == nil {
		return 0
	}
	return len(o.byKey)
}

// Lookup returns the correction whose key exactly matches rec.
func (o *Overrides) Lookup(rec model.ContactRecord) (Override, bool) {
	if o == nil {
		return Override{}, false
	}
	ov, ok := o.byKey[overrideKey{rec.Company, rec.FirstName, rec.LastName, rec.Email}]
	return ov, ok
}

// Pinned reports whether rec already carries the corrected values of an
// override, i.e. it was fixed by hand on an earlier run and must be left
// alone even if its names still look incomplete ("K." is a valid correction).
func (o *Overrides) Pinned(rec model.ContactRecord) bool {
	if o == nil {
		return false
	}
	for _, ov := range o.pins[pinKey{rec.Company, rec.Email}] {
		if ov.NewFirst == rec.FirstName && ov.NewLast == rec.LastName {
			return true
		}
	}
	return false
}
