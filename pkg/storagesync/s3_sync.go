/*******************************************************************************
* Contributors: BMC Software, Inc. - BMC Helix Edge
*
* (c) Copyright 2020-2025 BMC Software, Inc.
*******************************************************************************/

package storagesync

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
)

// StorageSyncer replicates local artifact directories to remote object
// storage. Replication is best-effort: the orchestrator logs failures and
// never fails a completed training run because of them.
type StorageSyncer interface {
	SyncDirectory(ctx context.Context, localDir string, remotePrefix string) error
}

type S3Syncer struct {
	client *minio.Client
	bucket string
	lc     logger.LoggingClient
}

func NewS3Syncer(endpoint string, accessKey string, secretKey string, bucket string, useSSL bool, lc logger.LoggingClient) (*S3Syncer, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "storagesync: failed to create object storage client")
	}
	return &S3Syncer{client: client, bucket: bucket, lc: lc}, nil
}

// SyncDirectory uploads every regular file under localDir to
// bucket/remotePrefix, preserving the relative layout.
func (s *S3Syncer) SyncDirectory(ctx context.Context, localDir string, remotePrefix string) error {
	uploaded := 0
	err := filepath.WalkDir(localDir, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return nil
		}
		relative, err := filepath.Rel(localDir, path)
		if err != nil {
			return err
		}
		objectName := strings.TrimLeft(remotePrefix+"/"+filepath.ToSlash(relative), "/")
		if _, err = s.client.FPutObject(ctx, s.bucket, objectName, path, minio.PutObjectOptions{}); err != nil {
			return errors.Wrapf(err, "storagesync: upload of %s failed", objectName)
		}
		uploaded++
		return nil
	})
	if err != nil {
		return err
	}
	s.lc.Infof("synced %d files from %s to s3://%s/%s", uploaded, localDir, s.bucket, remotePrefix)
	return nil
}
