package users

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"RecordStore/internal/filedb"
	"RecordStore/internal/password"
)

// FileStore keeps the whole user collection in memory and mirrors it to
// a single JSON file after every mutation. The write lock is held across
// mutate-plus-flush so no two mutations interleave their read-modify-
// persist sequence.
type FileStore struct {
	path   string
	hasher *password.Hasher
	log    *zap.Logger

	mu sync.RWMutex
	m  map[string]User
}

func NewFileStore(path string, hasher *password.Hasher, log *zap.Logger) *FileStore {
	return &FileStore{
		path:   path,
		hasher: hasher,
		log:    log,
		m:      filedb.Load[User](path, log),
	}
}

func (s *FileStore) Ping(ctx context.Context) error { return nil }

func (s *FileStore) FindAll(ctx context.Context) ([]User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]User, 0, len(s.m))
	for _, u := range s.m {
		out = append(out, u)
	}
	return out, nil
}

func (s *FileStore) FindOne(ctx context.Context, id string) (User, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.m[id]
	return u, ok, nil
}

func (s *FileStore) Create(ctx context.Context, nu NewUser) (User, error) {
	digest, err := s.hasher.Hash(nu.Password)
	if err != nil {
		return User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := filedb.NewID(func(id string) bool {
		_, exists := s.m[id]
		return exists
	})

	u := User{
		ID:           id,
		Username:     nu.Username,
		Email:        nu.Email,
		PasswordHash: digest,
	}
	s.m[id] = u
	s.flushLocked()

	return u, nil
}

func (s *FileStore) Update(ctx context.Context, id string, p Patch) (User, bool, error) {
	var digest string
	if p.Password != nil {
		d, err := s.hasher.Hash(*p.Password)
		if err != nil {
			return User{}, false, err
		}
		digest = d
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.m[id]
	if !ok {
		return User{}, false, nil
	}

	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Password != nil {
		u.PasswordHash = digest
	}

	s.m[id] = u
	s.flushLocked()

	return u, true, nil
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

func (s *FileStore) FindByEmail(ctx context.Context, email string) (User, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.m {
		if u.Email == email {
			return u, true, nil
		}
	}
	return User{}, false, nil
}

func (s *FileStore) Authenticate(ctx context.Context, email, plain string) (User, bool, error) {
	u, ok, err := s.FindByEmail(ctx, email)
	if err != nil {
		return User{}, false, err
	}
	if !ok {
		return User{}, false, nil
	}
	if !s.hasher.Verify(plain, u.PasswordHash) {
		return User{}, false, nil
	}
	return u, true, nil
}

// flushLocked mirrors the collection to disk. Callers hold the write
// lock. A failed flush is logged and otherwise ignored: memory stays
// authoritative until the next successful write.
func (s *FileStore) flushLocked() {
	if err := filedb.Save(s.path, s.m); err != nil && s.log != nil {
		s.log.Error("users flush failed", zap.String("path", s.path), zap.Error(err))
	}
}
