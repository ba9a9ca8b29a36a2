/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package helpers

import (
	"encoding/gob"
	"io"
	"os"
	"path/filepath"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
)

const (
	ModelFileName       = "model.gob"
	TransformerFileName = "imputer.gob"
)

type MLStorageInterface interface {
	FileExists(fileName string) bool
	CopyFile(src string, dst string) error
	SaveGob(fileName string, value interface{}) error
	LoadGob(fileName string, value interface{}) error
	BundleDir() string
	BundleModelFile() string
	BundleTransformerFile() string
	WriteBundle(modelSrc string, transformerSrc string) error
}

// MLStorage owns file persistence for pipeline artifacts and the mutable
// deployable-bundle directory. Run artifacts are write-once; only the bundle
// directory is overwritten, and always as a (model, imputer) pair.
type MLStorage struct {
	bundleDir string
	lc        logger.LoggingClient
}

func NewMLStorage(bundleDir string, lc logger.LoggingClient) MLStorageInterface {
	return &MLStorage{bundleDir: bundleDir, lc: lc}
}

func (m *MLStorage) FileExists(fileName string) bool {
	info, err := os.Stat(fileName)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

func (m *MLStorage) CopyFile(src string, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), os.ModePerm); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err = io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}

func (m *MLStorage) SaveGob(fileName string, value interface{}) error {
	if err := os.MkdirAll(filepath.Dir(fileName), os.ModePerm); err != nil {
		return err
	}
	file, err := os.Create(fileName)
	if err != nil {
		return err
	}
	defer file.Close()
	return gob.NewEncoder(file).Encode(value)
}

func (m *MLStorage) LoadGob(fileName string, value interface{}) error {
	file, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer file.Close()
	return gob.NewDecoder(file).Decode(value)
}

func (m *MLStorage) BundleDir() string {
	return m.bundleDir
}

func (m *MLStorage) BundleModelFile() string {
	return filepath.Join(m.bundleDir, ModelFileName)
}

func (m *MLStorage) BundleTransformerFile() string {
	return filepath.Join(m.bundleDir, TransformerFileName)
}

// WriteBundle replaces the deployable bundle with the given model and
// transformer files. The previous bundle is removed first so no stale
// artifact from an earlier run survives alongside the new pair.
func (m *MLStorage) WriteBundle(modelSrc string, transformerSrc string) error {
	if err := os.RemoveAll(m.bundleDir); err != nil {
		return err
	}
	if err := m.CopyFile(modelSrc, m.BundleModelFile()); err != nil {
		return err
	}
	if err := m.CopyFile(transformerSrc, m.BundleTransformerFile()); err != nil {
		return err
	}
	m.lc.Infof("deployable bundle updated at %s", m.bundleDir)
	return nil
}
