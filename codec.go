package loom

import (
	amino "github.com/tendermint/go-amino"
	"github.com/tradeloom/loom/errors"
)

var cdc = amino.NewCodec()

// Codec returns the binary codec all persistent types of this module use.
// Extensions that serialize interface values must register their concrete
// types on it during init.
func Codec() *amino.Codec {
	return cdc
}

// Marshal serializes a value with the shared codec.
func Marshal(o interface{}) ([]byte, error) {
	bz, err := cdc.MarshalBinaryBare(o)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot marshal %T: %s", o, err)
	}
	return bz, nil
}

// Unmarshal deserializes raw data into ptr using the shared codec.
func Unmarshal(raw []byte, ptr interface{}) error {
	if err := cdc.UnmarshalBinaryBare(raw, ptr); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot unmarshal %T: %s", ptr, err)
	}
	return nil
}
