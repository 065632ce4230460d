package loomtest

import "github.com/tradeloom/loom"

// Handler is a mock implementation of the loom.Handler interface.
//
// If WriteKey is set, the handler writes WriteValue under it before
// returning, so that tests can observe whether changes were persisted.
type Handler struct {
	checkCall   int
	CheckResult loom.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult loom.DeliverResult
	DeliverErr    error

	WriteKey   []byte
	WriteValue []byte

	// PanicWith if set makes every call panic with this value.
	PanicWith interface{}
}

var _ loom.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx loom.Context, db loom.KVStore, tx loom.Tx) (*loom.CheckResult, error) {
	h.checkCall++
	if err := h.call(db); err != nil {
		return nil, err
	}
	res := h.CheckResult
	return &res, h.CheckErr
}

func (h *Handler) Deliver(ctx loom.Context, db loom.KVStore, tx loom.Tx) (*loom.DeliverResult, error) {
	h.deliverCall++
	if err := h.call(db); err != nil {
		return nil, err
	}
	res := h.DeliverResult
	return &res, h.DeliverErr
}

func (h *Handler) call(db loom.KVStore) error {
	if h.PanicWith != nil {
		panic(h.PanicWith)
	}
	if h.WriteKey != nil {
		return db.Set(h.WriteKey, h.WriteValue)
	}
	return nil
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}
