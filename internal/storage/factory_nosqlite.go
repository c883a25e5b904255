//go:build !sqlite

package storage

import "errors"

const defaultStoreKind = "memory"

func newSQLiteStore(string) (Store, error) {
	return nil, errors.New("sqlite support is not compiled in; rebuild with -tags sqlite")
}
