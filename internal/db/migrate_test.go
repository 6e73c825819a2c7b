package db

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func TestPendingMigrationsSorted(t *testing.T) {
	fsys := fstest.MapFS{
		"0002_b.up.sql":    {Data: []byte("SELECT 2")},
		"0001_a.up.sql":    {Data: []byte("SELECT 1")},
		"0001_a.down.sql":  {Data: []byte("SELECT 0")},
		"README.md":        {Data: []byte("notes")},
		"archive/x.up.sql": {Data: []byte("SELECT 9")},
	}

	got, err := PendingMigrations(fsys)
	require.NoError(t, err)
	require.Equal(t, []string{"0001_a.up.sql", "0002_b.up.sql"}, got)
}
