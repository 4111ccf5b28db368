package storage

import (
	"cmp"
	"fmt"
	"slices"

	"simplegp/internal/model"
)

const DefaultSQLitePath = "simplegp.db"

func NewStore(kind, sqlitePath string) (Store, error) {
	switch kind {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		if sqlitePath == "" {
			sqlitePath = DefaultSQLitePath
		}
		return newSQLiteStore(sqlitePath)
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", kind)
	}
}

func CloseIfSupported(store Store) error {
	closer, ok := store.(interface{ Close() error })
	if !ok {
		return nil
	}
	return closer.Close()
}

// sortRuns orders runs oldest first, breaking ties by ID.
func sortRuns(runs []model.RunRecord) {
	slices.SortFunc(runs, func(a, b model.RunRecord) int {
		return cmp.Or(cmp.Compare(a.CreatedAtUTC, b.CreatedAtUTC), cmp.Compare(a.ID, b.ID))
	})
}
