package services

import "sync"

// imageCache maps blob keys to resolved data URLs. It holds at most max
// entries; beyond that an arbitrary entry makes room.
//
// Every forget bumps gen. A store carrying the gen seen before the blob
// was loaded is dropped when a forget happened in between, so a deleted
// key never comes back.
type imageCache struct {
	mu   sync.RWMutex
	urls map[string]string
	gen  uint64
	max  int
}

func newImageCache(max int) *imageCache {
	return &imageCache{urls: make(map[string]string), max: max}
}

func (c *imageCache) lookup(key string) (string, uint64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	url, ok := c.urls[key]
	return url, c.gen, ok
}

func (c *imageCache) store(key, url string, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	if _, ok := c.urls[key]; !ok && len(c.urls) >= c.max {
		for k := range c.urls {
			delete(c.urls, k)
			break
		}
	}
	c.urls[key] = url
}

func (c *imageCache) forget(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	for _, k := range keys {
		delete(c.urls, k)
	}
}

func (c *imageCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.urls)
}
