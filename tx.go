package loom

import (
	"reflect"

	"github.com/tradeloom/loom/errors"
)

// Marshaller can encode itself.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Persistent can encode and decode itself. Unmarshal usually needs a
// pointer receiver, which is why Marshaller stands alone.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// Msg is a request for a state transition. It carries no authentication,
// that is the job of the Tx holding it.
type Msg interface {
	Persistent

	// Path routes the message to its handler. It must match
	// [0-9A-Za-z_\-/]+ and may be shared by several message types.
	Path() string

	// Validate checks the message without reading any state.
	Validate() error
}

// Tx is what a client submits: a message with whatever the decorators
// need, such as signatures.
type Tx interface {
	Persistent

	GetMsg() (Msg, error)
}

// TxDecoder decodes raw transaction bytes.
type TxDecoder func(txBytes []byte) (Tx, error)

// GetPath returns the path of the transaction message, or "(missing)".
func GetPath(tx Tx) string {
	if msg, err := tx.GetMsg(); err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// LoadMsg validates the transaction message and copies it into
// destination, which must point to a value of the message type.
func LoadMsg(tx Tx, destination interface{}) error {
	msg, err := tx.GetMsg()
	switch {
	case err != nil:
		return errors.Wrap(err, "get message")
	case msg == nil:
		return errors.Wrap(errors.ErrMsg, "no message")
	}

	dst := reflect.ValueOf(destination)
	if dst.Kind() != reflect.Ptr || dst.IsNil() {
		return errors.Wrapf(errors.ErrType, "destination %T is not a pointer", destination)
	}
	src := reflect.Indirect(reflect.ValueOf(msg))
	if !src.IsValid() {
		return errors.Wrap(errors.ErrMsg, "no message")
	}
	if want := dst.Elem().Type(); !src.Type().AssignableTo(want) {
		return errors.Wrapf(errors.ErrType, "cannot load %T into %s", msg, want)
	}

	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}
	dst.Elem().Set(src)
	return nil
}
