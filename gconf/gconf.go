package gconf

import (
	"github.com/tradeloom/loom"
	"github.com/tradeloom/loom/errors"
)

// ReadStore is the part of loom.ReadOnlyKVStore used by Load.
type ReadStore interface {
	Get([]byte) ([]byte, error)
}

// Store is the part of loom.KVStore used by Save.
type Store interface {
	ReadStore
	Set([]byte, []byte) error
}

// ValidMarshaler is a configuration that can be checked and encoded.
type ValidMarshaler interface {
	Validate() error
	Marshal() ([]byte, error)
}

// Unmarshaler is a configuration that can be decoded.
type Unmarshaler interface {
	Unmarshal([]byte) error
}

// Configuration is the configuration object of an extension.
type Configuration interface {
	ValidMarshaler
	Unmarshaler
}

// confKey returns the database key of the configuration of pkg.
func confKey(pkg string) []byte {
	return append([]byte("_c:"), pkg...)
}

// Save validates src and stores it as the configuration of pkg,
// replacing any previous one.
func Save(db Store, pkg string, src ValidMarshaler) error {
	if err := src.Validate(); err != nil {
		return errors.Wrapf(err, "%s configuration", pkg)
	}
	raw, err := src.Marshal()
	if err != nil {
		return errors.Wrapf(err, "encode %s configuration", pkg)
	}
	if err := db.Set(confKey(pkg), raw); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// Load decodes the configuration of pkg into dst. It fails with
// ErrNotFound when none was saved.
func Load(db ReadStore, pkg string, dst Unmarshaler) error {
	raw, err := db.Get(confKey(pkg))
	switch {
	case err != nil:
		return errors.Wrap(errors.ErrDatabase, err.Error())
	case raw == nil:
		return errors.Wrapf(errors.ErrNotFound, "%s configuration", pkg)
	}
	if err := dst.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "decode %s configuration", pkg)
	}
	return nil
}

// InitConfig reads the genesis section conf.<pkg> into conf and saves it.
// A genesis without that section fails with ErrNotFound.
func InitConfig(db Store, opts loom.Options, pkg string, conf Configuration) error {
	var sections loom.Options
	if err := opts.ReadOptions("conf", &sections); err != nil {
		return err
	}
	if _, ok := sections[pkg]; !ok {
		return errors.Wrapf(errors.ErrNotFound, "genesis has no %s configuration", pkg)
	}
	if err := sections.ReadOptions(pkg, conf); err != nil {
		return err
	}
	return Save(db, pkg, conf)
}
