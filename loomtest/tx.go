package loomtest

import "github.com/tradeloom/loom"

// Tx carries a single message. Err, when set, is returned by GetMsg
// together with the message.
type Tx struct {
	Msg loom.Msg
	Err error
}

var _ loom.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (loom.Msg, error) { return tx.Msg, tx.Err }

func (tx *Tx) Marshal() ([]byte, error) { panic("loomtest: Tx is not serializable") }

func (tx *Tx) Unmarshal([]byte) error { panic("loomtest: Tx is not serializable") }

// Msg is routed by RoutePath. Err, when set, is returned by Validate and
// by both serialization methods.
type Msg struct {
	RoutePath  string
	Serialized []byte
	Err        error
}

var _ loom.Msg = (*Msg)(nil)

func (m *Msg) Path() string { return m.RoutePath }

func (m *Msg) Validate() error { return m.Err }

func (m *Msg) Marshal() ([]byte, error) { return m.Serialized, m.Err }

func (m *Msg) Unmarshal(raw []byte) error {
	m.Serialized = raw
	return m.Err
}
