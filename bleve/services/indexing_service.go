package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"go.uber.org/zap"
)

type IndexingServiceInterface interface {
	IndexDocument(indexName, id string, document interface{}) error
	BulkIndexDocuments(indexName string, documents map[string]interface{}) error
	DeleteDocument(indexName, id string) error
	SearchIndex(indexName string, q query.Query, size, from int) (*bleve.SearchResult, error)
	DeleteIndex(indexName string) error
	DeleteAllIndices() error
	Close() error
}

// IndexingService owns the bleve indexes of the application. An empty
// basePath keeps every index in memory.
type IndexingService struct {
	mu       sync.Mutex
	indexes  map[string]bleve.Index
	mappings map[string]mapping.IndexMapping
	logger   *zap.Logger
	basePath string
}

func NewIndexingService(logger *zap.Logger, basePath string) *IndexingService {
	return &IndexingService{
		indexes:  make(map[string]bleve.Index),
		mappings: make(map[string]mapping.IndexMapping),
		logger:   logger,
		basePath: basePath,
	}
}

// RegisterMapping sets the mapping used when indexName is created.
func (s *IndexingService) RegisterMapping(indexName string, m mapping.IndexMapping) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mappings[indexName] = m
}

func (s *IndexingService) indexPath(indexName string) string {
	return filepath.Join(s.basePath, indexName+".bleve")
}

func (s *IndexingService) getOrCreateIndex(indexName string) (bleve.Index, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx, ok := s.indexes[indexName]; ok {
		return idx, nil
	}

	m, ok := s.mappings[indexName]
	if !ok {
		m = bleve.NewIndexMapping()
	}

	var (
		idx bleve.Index
		err error
	)
	if s.basePath == "" {
		idx, err = bleve.NewMemOnly(m)
	} else {
		idx, err = bleve.Open(s.indexPath(indexName))
		if err != nil {
			idx, err = bleve.New(s.indexPath(indexName), m)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create index %s: %w", indexName, err)
	}

	s.indexes[indexName] = idx
	return idx, nil
}

func (s *IndexingService) SearchIndex(indexName string, q query.Query, size, from int) (*bleve.SearchResult, error) {
	idx, err := s.getOrCreateIndex(indexName)
	if err != nil {
		s.logger.Error("Could not get or create index", zap.Error(err))
		return nil, err
	}

	req := bleve.NewSearchRequestOptions(q, size, from, false)
	req.Fields = []string{"*"}

	result, err := idx.Search(req)
	if err != nil {
		s.logger.Error("Search failed", zap.String("index", indexName), zap.Error(err))
		return nil, err
	}
	return result, nil
}

func (s *IndexingService) IndexDocument(indexName, id string, document interface{}) error {
	idx, err := s.getOrCreateIndex(indexName)
	if err != nil {
		s.logger.Error("Could not get or create index", zap.Error(err))
		return err
	}

	if err := idx.Index(id, document); err != nil {
		s.logger.Error("Failed to index document", zap.String("id", id), zap.Error(err))
		return err
	}
	s.logger.Debug("Indexed document", zap.String("index", indexName), zap.String("id", id))
	return nil
}

func (s *IndexingService) BulkIndexDocuments(indexName string, documents map[string]interface{}) error {
	idx, err := s.getOrCreateIndex(indexName)
	if err != nil {
		s.logger.Error("Could not get or create index", zap.Error(err))
		return err
	}

	batch := idx.NewBatch()
	for id, doc := range documents {
		if err := batch.Index(id, doc); err != nil {
			s.logger.Error("Failed to add doc to batch", zap.String("id", id), zap.Error(err))
			return err
		}
	}
	if err := idx.Batch(batch); err != nil {
		s.logger.Error("Failed to execute batch", zap.Error(err))
		return err
	}

	s.logger.Info("Bulk indexed documents", zap.String("index", indexName), zap.Int("count", len(documents)))
	return nil
}

func (s *IndexingService) DeleteDocument(indexName, id string) error {
	idx, err := s.getOrCreateIndex(indexName)
	if err != nil {
		return err
	}
	if err := idx.Delete(id); err != nil {
		s.logger.Error("Failed to delete document", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *IndexingService) DeleteIndex(indexName string) error {
	s.mu.Lock()
	idx, exists := s.indexes[indexName]
	delete(s.indexes, indexName)
	s.mu.Unlock()

	if exists {
		if err := idx.Close(); err != nil {
			return fmt.Errorf("failed to close index: %w", err)
		}
	}
	if s.basePath == "" {
		return nil
	}
	if err := os.RemoveAll(s.indexPath(indexName)); err != nil {
		return fmt.Errorf("failed to delete index files: %w", err)
	}
	s.logger.Info("Deleted index", zap.String("index_name", indexName))
	return nil
}

// DeleteAllIndices drops the open indexes and any index directory left on disk.
func (s *IndexingService) DeleteAllIndices() error {
	s.mu.Lock()
	names := make([]string, 0, len(s.indexes))
	for name := range s.indexes {
		names = append(names, name)
	}
	s.mu.Unlock()

	if s.basePath != "" {
		files, err := filepath.Glob(filepath.Join(s.basePath, "*.bleve"))
		if err != nil {
			return fmt.Errorf("failed to scan index directory: %w", err)
		}
		for _, file := range files {
			name := strings.TrimSuffix(filepath.Base(file), ".bleve")
			if !contains(names, name) {
				names = append(names, name)
			}
		}
	}

	var failed int
	for _, name := range names {
		if err := s.DeleteIndex(name); err != nil {
			s.logger.Error("Failed to delete index", zap.String("index_name", name), zap.Error(err))
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d indices could not be deleted", failed, len(names))
	}
	return nil
}

func (s *IndexingService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var firstErr error
	for name, idx := range s.indexes {
		if err := idx.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(s.indexes, name)
	}
	return firstErr
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
