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


// Package journal provides a local write-ahead journal for the embedding
// worker. A queue pop is not transactional with the document-store write:
// without a journal, a crash between the two permanently loses the popped
// article. The worker appends each popped payload here before processing
// and removes it after the article is durably persisted; entries left over
// from a crash are replayed on the next startup.
package journal

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/newsweave/newsweave/core"
)

// Journal is a badger-backed set of popped-but-unpersisted queue payloads.
type Journal struct {
	db     *badger.DB
	logger *slog.Logger
}

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// Open opens a journal at the specified path, creating the directory if
// needed. With inMemory set, the journal lives in process memory (tests).
func Open(filePath string, inMemory bool) (*Journal, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		info, err := os.Stat(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(filePath, 0755); err != nil {
					return nil, err
				}
				info, err = os.Stat(filePath)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		opts = badger.DefaultOptions(filePath)
	}

	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Journal{
		db:     db,
		logger: slog.Default().With("component", "journal"),
	}, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Append records a popped payload and returns its journal key.
// The key is content-derived, so re-appending an identical payload
// (the same article popped twice) lands on the same entry.
func (j *Journal) Append(payload []byte) (core.Fingerprint, error) {
	key := core.FingerprintOf(string(payload))

	err := j.db.Update(func(tx *badger.Txn) error {
		buf := make([]byte, len(payload))
		copy(buf, payload)
		return tx.Set(keyBytes(key), buf)
	})
	if err != nil {
		return 0, err
	}
	return key, nil
}

// Remove deletes a journal entry after its article has been durably
// persisted. Removing a missing entry is a no-op.
func (j *Journal) Remove(key core.Fingerprint) error {
	return j.db.Update(func(tx *badger.Txn) error {
		return tx.Delete(keyBytes(key))
	})
}

// Entries returns a snapshot of every outstanding payload, keyed for
// later removal. Used to replay orphaned items at worker startup.
func (j *Journal) Entries() (map[core.Fingerprint][]byte, error) {
	entries := make(map[core.Fingerprint][]byte)

	err := j.db.View(func(tx *badger.Txn) error {
		iter := tx.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()
			key := binary.BigEndian.Uint64(item.Key())
			err := item.Value(func(val []byte) error {
				buf := make([]byte, len(val))
				copy(buf, val)
				entries[core.Fingerprint(key)] = buf
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Len returns the number of outstanding entries.
func (j *Journal) Len() (int, error) {
	count := 0
	err := j.db.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	})
	return count, err
}

func keyBytes(key core.Fingerprint) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(key))
	return buf
}
