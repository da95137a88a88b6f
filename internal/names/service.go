package names

import "context"

// Service answers name lookups from the cache first and caches successes
type Service struct {
	lookup Lookup
	cache  *Cache
}

// NewService combines a lookup backend with a cache. A nil lookup serves
// cached names only.
func NewService(lookup Lookup, cache *Cache) *Service {
	if cache == nil {
		cache = NewCache("")
	}
	return &Service{lookup: lookup, cache: cache}
}

// Name returns the localized name for id
func (s *Service) Name(ctx context.Context, id string) (string, error) {
	if name, ok := s.cache.Get(id); ok {
		return name, nil
	}
	if s.lookup == nil {
		return "", ErrNotFound
	}

	name, err := s.lookup.Lookup(ctx, id)
	if err != nil {
		return "", err
	}
	s.cache.Set(id, name)
	return name, nil
}

// Cache returns the backing cache
func (s *Service) Cache() *Cache {
	return s.cache
}
