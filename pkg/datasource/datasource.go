/*******************************************************************************
* Contributors: BMC Software, Inc. - BMC Helix Edge
*
* (c) Copyright 2020-2025 BMC Software, Inc.
*******************************************************************************/

package datasource

import (
	"context"

	"phishnet/pkg/dataset"
)

// DataSource abstracts the upstream document store holding the raw phishing
// dataset. Implementations surface a DataSourceError (common/errors) on
// connectivity failure or a zero-row result.
type DataSource interface {
	FetchAll(ctx context.Context) (*dataset.Frame, error)
}
