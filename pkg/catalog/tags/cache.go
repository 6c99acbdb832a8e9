// Package tags translates between the internal (hashed) tag ids found in asset payloads
// and the human readable tag names.
package tags

import (
	"context"
	"fmt"
	"sync"

	catalogerrors "github.com/diwise/asset-catalog/pkg/catalog/errors"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DeletedTagName is reported for tag ids that no longer resolve to a tag.
const DeletedTagName string = "(DELETED)"

const DefaultCacheSize int = 1024

// Loader fetches the complete mapping of tag ids to tag names, typically from the
// typedefs endpoint of the catalog API.
type Loader interface {
	LoadTags(ctx context.Context) (map[string]string, error)
}

type LoaderFunc func(ctx context.Context) (map[string]string, error)

func (f LoaderFunc) LoadTags(ctx context.Context) (map[string]string, error) {
	return f(ctx)
}

type NameResolver interface {
	NameForID(ctx context.Context, id string) string
}

type IDResolver interface {
	IDForName(ctx context.Context, name string) (string, error)
}

// Cache resolves tags through two LRU caches that are filled from the loader whenever
// a lookup misses. Ids and names that are still unknown after a refresh are remembered
// as missing until the next successful refresh.
type Cache struct {
	loader Loader

	mu           sync.Mutex
	size         int
	names        *lru.Cache[string, string]
	ids          *lru.Cache[string, string]
	missingIDs   map[string]struct{}
	missingNames map[string]struct{}
}

func NewCache(loader Loader, size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}

	names, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create tag name cache: %w", err)
	}

	ids, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create tag id cache: %w", err)
	}

	return &Cache{
		loader:       loader,
		size:         size,
		names:        names,
		ids:          ids,
		missingIDs:   map[string]struct{}{},
		missingNames: map[string]struct{}{},
	}, nil
}

// NameForID returns the name of the tag with the given id, or DeletedTagName
// if the id is unknown even after refreshing the cache.
func (c *Cache) NameForID(ctx context.Context, id string) string {
	if name, ok := c.names.Get(id); ok {
		return name
	}

	if c.isMissing(c.missingIDs, id) {
		return DeletedTagName
	}

	loaded := c.refresh(ctx)

	if name, ok := c.names.Get(id); ok {
		return name
	}

	if loaded {
		c.setMissing(c.missingIDs, id)
	}

	return DeletedTagName
}

// IDForName returns the internal id of the tag with the given name.
func (c *Cache) IDForName(ctx context.Context, name string) (string, error) {
	if id, ok := c.ids.Get(name); ok {
		return id, nil
	}

	if !c.isMissing(c.missingNames, name) {
		loaded := c.refresh(ctx)

		if id, ok := c.ids.Get(name); ok {
			return id, nil
		}

		if loaded {
			c.setMissing(c.missingNames, name)
		}
	}

	return "", catalogerrors.NewNotFoundError(fmt.Sprintf("no tag named %q", name))
}

// refresh reloads all tags and reports whether the loader succeeded.
func (c *Cache) refresh(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	tags, err := c.loader.LoadTags(ctx)
	if err != nil {
		logging.GetFromContext(ctx).Warn("failed to refresh tag cache", "err", err.Error())
		return false
	}

	if len(tags) > c.size {
		c.size = len(tags)
		c.names.Resize(c.size)
		c.ids.Resize(c.size)
	}

	for id, name := range tags {
		c.names.Add(id, name)
		c.ids.Add(name, id)
	}

	clear(c.missingIDs)
	clear(c.missingNames)

	return true
}

func (c *Cache) isMissing(missing map[string]struct{}, key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := missing[key]
	return ok
}

func (c *Cache) setMissing(missing map[string]struct{}, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	missing[key] = struct{}{}
}
