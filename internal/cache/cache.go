package cache

import (
	"crypto/sha256"
	"encoding/hex"

	gocache "github.com/patrickmn/go-cache"

	"github.com/uigenlabs/uigen-backend/internal/config"
	"github.com/uigenlabs/uigen-backend/internal/entity"
)

// Snippet is a cached completion for a (model, target, prompt) triple
type Snippet struct {
	Code  string
	Usage entity.Usage
}

// SnippetCache is an in-memory TTL cache of generated snippets. Identical
// prompts are common during iterative UI tweaking; serving them from memory
// avoids paying for the same completion twice.
type SnippetCache struct {
	store *gocache.Cache
}

func NewSnippetCache(cfg config.CacheConfig) *SnippetCache {
	return &SnippetCache{
		store: gocache.New(cfg.TTL, cfg.CleanupInterval),
	}
}

// Key derives a cache key from the parameters that shape the completion
func Key(model string, target entity.Target, prompt string) string {
	h := sha256.New()
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(target))
	h.Write([]byte{0})
	h.Write([]byte(prompt))
	return hex.EncodeToString(h.Sum(nil))
}

func (c *SnippetCache) Get(key string) (Snippet, bool) {
	v, ok := c.store.Get(key)
	if !ok {
		return Snippet{}, false
	}
	snippet, ok := v.(Snippet)
	return snippet, ok
}

func (c *SnippetCache) Set(key string, snippet Snippet) {
	c.store.SetDefault(key, snippet)
}

// Delete drops a key; used when a caller forces regeneration
func (c *SnippetCache) Delete(key string) {
	c.store.Delete(key)
}
