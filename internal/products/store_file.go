package products

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"RecordStore/internal/filedb"
)

// FileStore holds the product collection in memory, mirrored to a single
// JSON file after every mutation. Same locking discipline as the user
// store: the write lock covers mutate-plus-flush.
type FileStore struct {
	path string
	log  *zap.Logger

	mu sync.RWMutex
	m  map[string]Product
}

func NewFileStore(path string, log *zap.Logger) *FileStore {
	return &FileStore{
		path: path,
		log:  log,
		m:    filedb.Load[Product](path, log),
	}
}

func (s *FileStore) Ping(ctx context.Context) error { return nil }

func (s *FileStore) FindAll(ctx context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, 0, len(s.m))
	for _, p := range s.m {
		out = append(out, p)
	}
	return out, nil
}

func (s *FileStore) FindOne(ctx context.Context, id string) (Product, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.m[id]
	return p, ok, nil
}

func (s *FileStore) Create(ctx context.Context, np NewProduct) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := filedb.NewID(func(id string) bool {
		_, exists := s.m[id]
		return exists
	})

	p := Product{
		ID:       id,
		Name:     np.Name,
		Price:    np.Price,
		Quantity: np.Quantity,
		Image:    np.Image,
	}
	s.m[id] = p
	s.flushLocked()

	return p, nil
}

func (s *FileStore) Update(ctx context.Context, id string, patch Patch) (Product, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.m[id]
	if !ok {
		return Product{}, false, nil
	}

	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Quantity != nil {
		p.Quantity = *patch.Quantity
	}
	if patch.Image != nil {
		p.Image = *patch.Image
	}

	s.m[id] = p
	s.flushLocked()

	return p, true, nil
}

func (s *FileStore) Remove(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.m[id]; !ok {
		return false, nil
	}

	delete(s.m, id)
	s.flushLocked()

	return true, nil
}

func (s *FileStore) flushLocked() {
	if err := filedb.Save(s.path, s.m); err != nil && s.log != nil {
		s.log.Error("products flush failed", zap.String("path", s.path), zap.Error(err))
	}
}
