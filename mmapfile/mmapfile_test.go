// Copyright 2024 The Hailstorm Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package mmapfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iceshard-engine/hailstorm"
)

func writeTestCluster(t *testing.T) string {
	t.Helper()
	data := hailstorm.WriteData{
		Paths: []string{"a", "b"},
		Data: []hailstorm.Data{
			hailstorm.NewData([]byte{1, 2, 3, 4}, 4),
			hailstorm.NewData([]byte{5, 6, 7, 8}, 4),
		},
		Metadata: []hailstorm.Data{{}, {}},
	}
	buf, err := hailstorm.WriteCluster(hailstorm.WriteParams{}, data)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "cluster.hsc")
	require.NoError(t, os.WriteFile(path, buf, 0o644))
	return path
}

func TestOpenRejectsEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.hsc")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := Open(path)
	require.Error(t, err)
}

func TestOpenMapsAndParsesCluster(t *testing.T) {
	path := writeTestCluster(t)

	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	cluster, err := f.Cluster()
	require.NoError(t, err)
	require.EqualValues(t, 2, cluster.Header.CountResources)
	require.Equal(t, "a", cluster.Path(0))
	require.Equal(t, "b", cluster.Path(1))
}

func TestCloseUnmapsAndIsIdempotent(t *testing.T) {
	path := writeTestCluster(t)

	f, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	require.NoError(t, f.Close())
}
