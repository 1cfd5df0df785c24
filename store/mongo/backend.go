// Copyright 2026 Newsweave Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package mongo

import (
	"context"
	"log/slog"

	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	articlesCollection  = "articles"
	summariesCollection = "summaries"
)

// Backend wraps a MongoDB client and the pipeline's database handle.
type Backend struct {
	client *mongodrv.Client
	db     *mongodrv.Database
	logger *slog.Logger
}

// OpenBackend connects to MongoDB and selects the given database.
// The caller should Ping before relying on the connection; startup
// connectivity failures are fatal to the pipeline processes.
func OpenBackend(ctx context.Context, uri, dbName string) (*Backend, error) {
	client, err := mongodrv.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	return &Backend{
		client: client,
		db:     client.Database(dbName),
		logger: slog.Default().With("component", "mongo-backend"),
	}, nil
}

// Ping verifies connectivity against the primary.
func (b *Backend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx, readpref.Primary())
}

// Close disconnects from MongoDB.
func (b *Backend) Close(ctx context.Context) error {
	return b.client.Disconnect(ctx)
}

func (b *Backend) articles() *mongodrv.Collection {
	return b.db.Collection(articlesCollection)
}

func (b *Backend) summaries() *mongodrv.Collection {
	return b.db.Collection(summariesCollection)
}
