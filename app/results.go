package app

import (
	"github.com/tradeloom/loom"
	"github.com/tradeloom/loom/errors"
)

// ResultSet is the wire form of the keys or the values of a query
// response.
type ResultSet struct {
	Results [][]byte
}

func (r *ResultSet) Marshal() ([]byte, error) {
	return loom.Marshal(r)
}

// Unmarshal decodes a set. Empty input is an empty set.
func (r *ResultSet) Unmarshal(raw []byte) error {
	if len(raw) == 0 {
		r.Results = nil
		return nil
	}
	return loom.Unmarshal(raw, r)
}

func project(models []loom.Model, field func(loom.Model) []byte) *ResultSet {
	out := make([][]byte, len(models))
	for i, m := range models {
		out[i] = field(m)
	}
	return &ResultSet{Results: out}
}

// ResultsFromKeys collects the keys of models.
func ResultsFromKeys(models []loom.Model) *ResultSet {
	return project(models, func(m loom.Model) []byte { return m.Key })
}

// ResultsFromValues collects the values of models.
func ResultsFromValues(models []loom.Model) *ResultSet {
	return project(models, func(m loom.Model) []byte { return m.Value })
}

// JoinResults pairs keys and values of a query response back into
// models.
func JoinResults(keys, values *ResultSet) ([]loom.Model, error) {
	if len(keys.Results) != len(values.Results) {
		return nil, errors.Wrapf(errors.ErrState, "%d keys for %d values",
			len(keys.Results), len(values.Results))
	}
	models := make([]loom.Model, 0, len(keys.Results))
	for i, k := range keys.Results {
		models = append(models, loom.Pair(k, values.Results[i]))
	}
	return models, nil
}

// UnmarshalOneResult decodes the first entry of a serialized set into
// dest. An empty set leaves dest untouched.
func UnmarshalOneResult(raw []byte, dest loom.Persistent) error {
	var set ResultSet
	if err := set.Unmarshal(raw); err != nil {
		return err
	}
	if len(set.Results) == 0 {
		return nil
	}
	return dest.Unmarshal(set.Results[0])
}
