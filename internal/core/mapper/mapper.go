// Package mapper turns tracking records into GeoJSON.
//
// A Mapper applies an ordered list of independent extraction rules to each
// record. Every rule is evaluated; a rule whose input is missing or malformed
// contributes nothing and never fails the transform.
package mapper

import "github.com/99minutos/delivery-map/internal/core/domain"

type Mapper struct {
	rules []Rule
}

func New(rules ...Rule) *Mapper {
	return &Mapper{rules: rules}
}

// ForProfile builds a Mapper from a named rule list.
func ForProfile(p Profile) (*Mapper, error) {
	rules, err := Rules(p)
	if err != nil {
		return nil, err
	}
	return New(rules...), nil
}

// Record maps a single record.
func (m *Mapper) Record(r domain.Record) domain.FeatureCollection {
	fc := domain.NewFeatureCollection()
	fc.Features = m.appendFeatures(fc.Features, r)
	return fc
}

// Records maps every record into one collection, in input order.
func (m *Mapper) Records(rs []domain.Record) domain.FeatureCollection {
	fc := domain.NewFeatureCollection()
	for _, r := range rs {
		fc.Features = m.appendFeatures(fc.Features, r)
	}
	return fc
}

// RuleNames lists the configured rules in evaluation order.
func (m *Mapper) RuleNames() []string {
	names := make([]string, len(m.rules))
	for i, r := range m.rules {
		names[i] = r.Name
	}
	return names
}

func (m *Mapper) appendFeatures(dst []domain.Feature, r domain.Record) []domain.Feature {
	for _, rule := range m.rules {
		if f, ok := rule.Extract(r); ok {
			dst = append(dst, f)
		}
	}
	return dst
}
