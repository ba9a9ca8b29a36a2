/*******************************************************************************
* Contributors: BMC Software, Inc. - BMC Helix Edge
*
* (c) Copyright 2020-2025 BMC Software, Inc.
*******************************************************************************/

package client

import (
	"net/http"
	"time"
)

// HTTPClient interface
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

var Client HTTPClient

func init() {
	if Client == nil {
		// Network-bound calls (experiment tracker) must not block indefinitely
		Client = &http.Client{Timeout: 30 * time.Second}
	}
}
