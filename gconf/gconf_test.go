package gconf

import (
	"encoding/json"
	"testing"

	"github.com/tradeloom/loom"
	"github.com/tradeloom/loom/errors"
	"github.com/tradeloom/loom/loomtest/assert"
	"github.com/tradeloom/loom/store"
)

type limits struct {
	Metadata *loom.Metadata
	Max      int64
}

func (l *limits) Validate() error {
	if err := l.Metadata.Validate(); err != nil {
		return err
	}
	if l.Max <= 0 {
		return errors.Wrap(errors.ErrInput, "max must be positive")
	}
	return nil
}

func (l *limits) Marshal() ([]byte, error)   { return loom.Marshal(l) }
func (l *limits) Unmarshal(raw []byte) error { return loom.Unmarshal(raw, l) }

func TestSaveLoad(t *testing.T) {
	db := store.MemStore()

	var got limits
	if err := Load(db, "limits", &got); !errors.ErrNotFound.Is(err) {
		t.Fatalf("want not found, got %+v", err)
	}

	if err := Save(db, "limits", &limits{Metadata: &loom.Metadata{Schema: 1}}); !errors.ErrInput.Is(err) {
		t.Fatalf("want invalid configuration, got %+v", err)
	}

	assert.Nil(t, Save(db, "limits", &limits{Metadata: &loom.Metadata{Schema: 1}, Max: 7}))
	assert.Nil(t, Load(db, "limits", &got))
	assert.Equal(t, int64(7), got.Max)

	raw, err := db.Get([]byte("_c:limits"))
	assert.Nil(t, err)
	if raw == nil {
		t.Fatal("configuration not stored under the package key")
	}
}

func TestInitConfig(t *testing.T) {
	cases := map[string]struct {
		genesis string
		wantErr *errors.Error
		wantMax int64
	}{
		"valid": {
			genesis: `{"conf": {"limits": {"Metadata": {"Schema": 1}, "Max": 12}}}`,
			wantMax: 12,
		},
		"missing package": {
			genesis: `{"conf": {"other": {}}}`,
			wantErr: errors.ErrNotFound,
		},
		"missing conf": {
			genesis: `{}`,
			wantErr: errors.ErrNotFound,
		},
		"invalid": {
			genesis: `{"conf": {"limits": {"Metadata": {"Schema": 1}, "Max": 0}}}`,
			wantErr: errors.ErrInput,
		},
		"malformed": {
			genesis: `{"conf": {"limits": {"Max": "many"}}}`,
			wantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts loom.Options
			assert.Nil(t, json.Unmarshal([]byte(tc.genesis), &opts))

			db := store.MemStore()
			var conf limits
			if err := InitConfig(db, opts, "limits", &conf); !tc.wantErr.Is(err) {
				t.Fatalf("want %v, got %+v", tc.wantErr, err)
			}
			if tc.wantErr != nil {
				return
			}
			var got limits
			assert.Nil(t, Load(db, "limits", &got))
			assert.Equal(t, tc.wantMax, got.Max)
		})
	}
}
