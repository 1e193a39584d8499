package assembly

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/alexiusacademia/goebr2/internal/composition"
	"github.com/alexiusacademia/goebr2/internal/material"
	"github.com/alexiusacademia/goebr2/internal/section"
)

// nominalSlugs is the slug count of every fuelled assembly in the dataset.
// It is only used to check reference planes ahead of time.
const nominalSlugs = 3

// SlugSource returns the slug compositions of a location
type SlugSource interface {
	Get(loc composition.Location) ([]composition.Slug, error)
}

// Factory builds assemblies from section catalogs and slug compositions
type Factory struct {
	lib      *material.Library
	catalogs map[string]*section.Catalog
	rules    map[Kind]Rule
	slugs    SlugSource
	log      *zap.Logger
}

// NewFactory returns a factory using DefaultRules. slugs may be nil when
// only assemblies without fuel are built.
func NewFactory(lib *material.Library, slugs SlugSource, log *zap.Logger) (*Factory, error) {
	return NewFactoryWithRules(lib, slugs, DefaultRules(), log)
}

// NewFactoryWithRules returns a factory dispatching on rules. The table
// must cover every kind and name only sections its catalogs hold.
func NewFactoryWithRules(lib *material.Library, slugs SlugSource, rules map[Kind]Rule, log *zap.Logger) (*Factory, error) {
	if lib == nil {
		return nil, errors.New("assembly factory needs a material library")
	}
	if log == nil {
		log = zap.NewNop()
	}
	cats, err := section.NewCatalogs(lib)
	if err != nil {
		return nil, fmt.Errorf("building section catalogs: %w", err)
	}
	blank := section.NewCatalog(blankCatalog)
	blank.Add("blank", section.Blank(lib))
	cats[blankCatalog] = blank

	f := &Factory{lib: lib, catalogs: cats, rules: rules, slugs: slugs, log: log}
	if err := f.check(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Factory) check() error {
	var errs []error
	for _, k := range Kinds {
		if k == Experimental {
			continue
		}
		rule, ok := f.rules[k]
		if !ok {
			errs = append(errs, fmt.Errorf("no rule for %s", k))
			continue
		}
		cat, ok := f.catalogs[rule.Catalog]
		if !ok {
			errs = append(errs, fmt.Errorf("%s: unknown catalog %q", k, rule.Catalog))
			continue
		}
		n := 0
		for _, mk := range section.Variants {
			n = 0
			for _, key := range rule.keys(mk) {
				if key == Slugs {
					if rule.Slugs == nil {
						errs = append(errs, fmt.Errorf("%s: slug placeholder without a slug builder", k))
					}
					n += nominalSlugs
					continue
				}
				if _, ok := cat.Get(key); !ok {
					errs = append(errs, fmt.Errorf("%s: catalog %s has no section %q", k, rule.Catalog, key))
				}
				n++
			}
		}
		if rule.RefPlane.Index < 0 || rule.RefPlane.Index >= n {
			errs = append(errs, fmt.Errorf("%s: reference section %d out of range", k, rule.RefPlane.Index))
		}
	}
	return errors.Join(errs...)
}

// Catalogs returns the section catalogs by name
func (f *Factory) Catalogs() map[string]*section.Catalog {
	return f.catalogs
}

// BuildTag is Build with a raw type tag
func (f *Factory) BuildTag(tag string, loc composition.Location, mk string) (*Assembly, error) {
	k, err := ParseKind(tag)
	if err != nil {
		return nil, err
	}
	return f.Build(k, loc, mk)
}

// Build returns the assembly of kind k at loc. mk selects the driver
// variant and defaults to MKII.
func (f *Factory) Build(k Kind, loc composition.Location, mk string) (*Assembly, error) {
	if mk == "" {
		mk = section.MKII
	}
	if mk != section.MKII && mk != section.MKIIA {
		return nil, fmt.Errorf("unknown driver variant %q", mk)
	}
	k, err := Resolve(k, loc)
	if err != nil {
		return nil, err
	}
	rule, ok := f.rules[k]
	if !ok {
		return nil, &UnknownAssemblyTypeError{Tag: string(k)}
	}
	cat := f.catalogs[rule.Catalog]

	a := &Assembly{
		TypeName: rule.typeName(k, mk),
		Kind:     k,
		Location: loc,
		Variant:  mk,
		RefPlane: rule.RefPlane,
	}
	for _, key := range rule.keys(mk) {
		if key == Slugs {
			slugs, err := f.slugSections(rule, k, loc)
			if err != nil {
				return nil, err
			}
			a.Sections = append(a.Sections, slugs...)
			continue
		}
		s, ok := cat.Get(key)
		if !ok {
			return nil, fmt.Errorf("%s: catalog %s has no section %q", k, rule.Catalog, key)
		}
		a.Sections = append(a.Sections, s)
	}
	if a.RefPlane.Index >= len(a.Sections) {
		return nil, fmt.Errorf("%s at %s: reference section %d of %d", k, loc, a.RefPlane.Index, len(a.Sections))
	}

	f.log.Debug("assembly built",
		zap.String("location", string(loc)),
		zap.String("type", a.TypeName),
		zap.Int("sections", len(a.Sections)))
	return a, nil
}

func (f *Factory) slugSections(rule Rule, k Kind, loc composition.Location) ([]*section.Section, error) {
	if f.slugs == nil {
		return nil, &LocationNotFoundError{Location: loc, Kind: k, Err: composition.ErrNotFound}
	}
	tables, err := f.slugs.Get(loc)
	if err != nil {
		if errors.Is(err, composition.ErrNotFound) {
			return nil, &LocationNotFoundError{Location: loc, Kind: k, Err: err}
		}
		return nil, fmt.Errorf("%s at %s: %w", k, loc, err)
	}

	mats := make([]*material.Material, len(tables))
	for i, t := range tables {
		m, err := material.FromTable(fmt.Sprintf("%s %s %s", loc, k, t.Name), t.IDs, t.Densities, f.lib.BulkTemperature)
		if err != nil {
			return nil, fmt.Errorf("%s at %s slug %s: %w", k, loc, t.Name, err)
		}
		mats[i] = m
	}
	return rule.Slugs(f.lib, string(loc), string(k), mats)
}
