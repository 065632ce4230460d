package store

// NonAtomicBatch collects writes and replays them in order on Write. Use
// it only on top of in-memory layers, a failure half way through leaves
// the target partially written.
type NonAtomicBatch struct {
	out    SetDeleter
	writes []entry
}

var _ Batch = (*NonAtomicBatch)(nil)

// NewNonAtomicBatch returns an empty batch writing into out.
func NewNonAtomicBatch(out SetDeleter) *NonAtomicBatch {
	return &NonAtomicBatch{out: out}
}

func (b *NonAtomicBatch) Set(key, value []byte) error {
	b.writes = append(b.writes, entry{key: key, value: value})
	return nil
}

func (b *NonAtomicBatch) Delete(key []byte) error {
	b.writes = append(b.writes, entry{key: key, deleted: true})
	return nil
}

// Write replays all collected writes and empties the batch.
func (b *NonAtomicBatch) Write() error {
	for _, w := range b.writes {
		if err := w.apply(b.out); err != nil {
			return err
		}
	}
	b.Reset()
	return nil
}

// Reset drops all collected writes.
func (b *NonAtomicBatch) Reset() {
	b.writes = nil
}

// EmptyKVStore holds no data and ignores all writes. It is the bottom
// layer of MemStore.
type EmptyKVStore struct{}

var _ KVStore = EmptyKVStore{}

func (EmptyKVStore) Get(key []byte) ([]byte, error) { return nil, nil }
func (EmptyKVStore) Has(key []byte) (bool, error)   { return false, nil }
func (EmptyKVStore) Set(key, value []byte) error    { return nil }
func (EmptyKVStore) Delete(key []byte) error        { return nil }

func (EmptyKVStore) Iterator(start, end []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}

func (EmptyKVStore) ReverseIterator(start, end []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}

func (e EmptyKVStore) NewBatch() Batch {
	return NewNonAtomicBatch(e)
}
