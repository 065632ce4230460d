package orm

import (
	"github.com/tradeloom/loom"
	"github.com/tradeloom/loom/errors"
)

// ConsumeIterator will read all remaining data into an
// array and close the iterator
func ConsumeIterator(itr loom.Iterator) ([]loom.Model, error) {
	defer itr.Close()

	res := []loom.Model{}
	for itr.Valid() {
		res = append(res, loom.Pair(itr.Key(), itr.Value()))
		if err := itr.Next(); err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, err.Error())
		}
	}
	return res, nil
}

// prefixRange turns a prefix into a (start, end) range.
// The start is the given prefix value.
// The end is the prefix incremented by one at the last byte,
// or nil if the prefix is all 0xFF.
func prefixRange(prefix []byte) ([]byte, []byte) {
	if prefix == nil {
		return nil, nil
	}
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return prefix, end[:i+1]
		}
	}
	return prefix, nil
}

func queryPrefix(db loom.ReadOnlyKVStore, prefix []byte) ([]loom.Model, error) {
	itr, err := db.Iterator(prefixRange(prefix))
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return ConsumeIterator(itr)
}
