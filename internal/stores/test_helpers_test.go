package stores

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reelvault/reelvault/internal/kvstore"
)

// openKV opens a throwaway store backed by a temp-dir database.
func openKV(t *testing.T) *kvstore.Store {
	t.Helper()
	kv, err := kvstore.Open(filepath.Join(t.TempDir(), "stores.db"))
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })
	return kv
}

// errMedium simulates a failing durable medium. Used to verify the
// no-fault-escapes contract.
var errMedium = errors.New("medium unavailable")

type faultRW struct {
	failReads  bool
	failWrites bool
	values     map[string]string
}

func newFaultRW() *faultRW {
	return &faultRW{values: map[string]string{}}
}

func (f *faultRW) Get(_ context.Context, key string) (string, bool, error) {
	if f.failReads {
		return "", false, errMedium
	}
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *faultRW) Put(_ context.Context, key, value string) error {
	if f.failWrites {
		return errMedium
	}
	f.values[key] = value
	return nil
}

func (f *faultRW) Delete(_ context.Context, key string) error {
	if f.failWrites {
		return errMedium
	}
	delete(f.values, key)
	return nil
}
