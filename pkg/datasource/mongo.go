/*******************************************************************************
* Contributors: BMC Software, Inc. - BMC Helix Edge
*
* (c) Copyright 2020-2025 BMC Software, Inc.
*******************************************************************************/

package datasource

import (
	"context"
	"fmt"
	"time"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	phishnetErrors "phishnet/common/errors"
	"phishnet/pkg/dataset"
)

const fetchTimeout = 60 * time.Second

// MongoDataSource pulls the full dataset from one MongoDB collection.
type MongoDataSource struct {
	url        string
	database   string
	collection string
	lc         logger.LoggingClient
}

func NewMongoDataSource(url string, database string, collection string, lc logger.LoggingClient) *MongoDataSource {
	return &MongoDataSource{
		url:        url,
		database:   database,
		collection: collection,
		lc:         lc,
	}
}

func (ds *MongoDataSource) FetchAll(ctx context.Context) (*dataset.Frame, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(ds.url))
	if err != nil {
		ds.lc.Errorf("failed to connect to document store %s: %v", ds.url, err)
		return nil, phishnetErrors.NewCommonPipelineError(phishnetErrors.ErrorTypeDataSource,
			fmt.Sprintf("cannot connect to document store: %v", err))
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	cursor, err := client.Database(ds.database).Collection(ds.collection).Find(ctx, bson.D{})
	if err != nil {
		if ctx.Err() != nil {
			return nil, phishnetErrors.NewCommonPipelineError(phishnetErrors.ErrorTypeTransientIO,
				fmt.Sprintf("timed out fetching collection %s", ds.collection))
		}
		ds.lc.Errorf("failed to query collection %s.%s: %v", ds.database, ds.collection, err)
		return nil, phishnetErrors.NewCommonPipelineError(phishnetErrors.ErrorTypeDataSource,
			fmt.Sprintf("query failed for collection %s: %v", ds.collection, err))
	}

	var docs []bson.M
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, phishnetErrors.NewCommonPipelineError(phishnetErrors.ErrorTypeDataSource,
			fmt.Sprintf("error reading cursor for collection %s: %v", ds.collection, err))
	}
	if len(docs) == 0 {
		return nil, phishnetErrors.NewCommonPipelineError(phishnetErrors.ErrorTypeDataSource,
			fmt.Sprintf("collection %s.%s returned zero rows", ds.database, ds.collection))
	}

	records := make([]map[string]interface{}, len(docs))
	for i, doc := range docs {
		records[i] = map[string]interface{}(doc)
	}
	ds.lc.Infof("fetched %d rows from %s.%s", len(records), ds.database, ds.collection)
	return dataset.FromDocuments(records), nil
}
