package loom

import "github.com/tradeloom/loom/errors"

// Metadata is carried by every persisted model and message. Schema is the
// version of the serialized layout.
type Metadata struct {
	Schema uint32
}

// Validate returns an error if the metadata is missing or the schema is not
// set.
func (m *Metadata) Validate() error {
	if m == nil {
		return errors.Wrap(errors.ErrSchema, "missing metadata")
	}
	if m.Schema < 1 {
		return errors.Wrap(errors.ErrSchema, "schema version is required")
	}
	return nil
}

// Copy returns a copy of this object. This method is helpful when implementing
// orm.CloneableData interface to make a copy of the header.
func (m *Metadata) Copy() *Metadata {
	cpy := *m
	return &cpy
}
