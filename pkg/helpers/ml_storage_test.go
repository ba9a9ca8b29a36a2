/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package helpers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) (MLStorageInterface, string) {
	dir := t.TempDir()
	lc := logger.NewMockClient()
	return NewMLStorage(filepath.Join(dir, "final_model"), lc), dir
}

func writeFile(t *testing.T, fileName string, content string) {
	require.NoError(t, os.MkdirAll(filepath.Dir(fileName), os.ModePerm))
	require.NoError(t, os.WriteFile(fileName, []byte(content), 0644))
}

func TestGobRoundTrip(t *testing.T) {
	storage, dir := newTestStorage(t)

	type payload struct {
		Name  string
		Score float64
	}
	fileName := filepath.Join(dir, "nested", "obj.gob")
	require.NoError(t, storage.SaveGob(fileName, payload{Name: "rf", Score: 0.97}))

	var loaded payload
	require.NoError(t, storage.LoadGob(fileName, &loaded))
	assert.Equal(t, payload{Name: "rf", Score: 0.97}, loaded)
}

func TestFileExists(t *testing.T) {
	storage, dir := newTestStorage(t)
	fileName := filepath.Join(dir, "a.txt")

	assert.False(t, storage.FileExists(fileName))
	writeFile(t, fileName, "x")
	assert.True(t, storage.FileExists(fileName))
	assert.False(t, storage.FileExists(dir), "directories are not files")
}

func TestWriteBundle_OverwritesPriorPair(t *testing.T) {
	storage, dir := newTestStorage(t)

	model1 := filepath.Join(dir, "run1", "model.gob")
	imputer1 := filepath.Join(dir, "run1", "imputer.gob")
	writeFile(t, model1, "model-one")
	writeFile(t, imputer1, "imputer-one")
	require.NoError(t, storage.WriteBundle(model1, imputer1))

	// drop a stray file into the bundle dir; a second run must not keep it
	writeFile(t, filepath.Join(storage.BundleDir(), "stale.txt"), "old")

	model2 := filepath.Join(dir, "run2", "model.gob")
	imputer2 := filepath.Join(dir, "run2", "imputer.gob")
	writeFile(t, model2, "model-two")
	writeFile(t, imputer2, "imputer-two")
	require.NoError(t, storage.WriteBundle(model2, imputer2))

	entries, err := os.ReadDir(storage.BundleDir())
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{ModelFileName, TransformerFileName}, names)

	content, err := os.ReadFile(storage.BundleModelFile())
	require.NoError(t, err)
	assert.Equal(t, "model-two", string(content))
}
