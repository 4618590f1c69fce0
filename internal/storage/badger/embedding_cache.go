package badger

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/nomen/internal/interfaces"
)

// EmbeddingCacheStore persists embedding vectors in a dedicated Badger
// instance. Vectors are stored as little-endian float32 bytes, keyed by
// the content hash the caller provides.
type EmbeddingCacheStore struct {
	db     *badgerdb.DB
	logger arbor.ILogger
}

// NewEmbeddingCacheStore opens the embedding cache at path
func NewEmbeddingCacheStore(path string, logger arbor.ILogger) (interfaces.EmbeddingCache, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create embedding cache directory: %w", err)
	}

	options := badgerdb.DefaultOptions(path)
	options.Logger = nil

	db, err := badgerdb.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open embedding cache: %w", err)
	}

	logger.Debug().Str("path", path).Msg("Embedding cache initialized")

	return &EmbeddingCacheStore{
		db:     db,
		logger: logger,
	}, nil
}

// Get returns the cached vector for a key, or false on miss
func (s *EmbeddingCacheStore) Get(key string) ([]float32, bool) {
	var data []byte
	err := s.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if !errors.Is(err, badgerdb.ErrKeyNotFound) {
			s.logger.Warn().Str("key", key).Err(err).Msg("Failed to read cached embedding")
		}
		return nil, false
	}

	vector, err := bytesToVector(data)
	if err != nil {
		s.logger.Warn().Str("key", key).Err(err).Msg("Discarding corrupt cached embedding")
		return nil, false
	}
	return vector, true
}

// Set stores a vector under a key
func (s *EmbeddingCacheStore) Set(key string, vector []float32) error {
	data := vectorToBytes(vector)
	err := s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return fmt.Errorf("failed to cache embedding: %w", err)
	}
	return nil
}

// Close releases the underlying store
func (s *EmbeddingCacheStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func vectorToBytes(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func bytesToVector(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("invalid embedding data length %d", len(data))
	}
	vector := make([]float32, len(data)/4)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vector, nil
}
