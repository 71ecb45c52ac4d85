// Package cache provides a bounded in-memory LRU cache for parsed assets.
//
// GetOrLoad deduplicates concurrent loads of the same key, so a template or
// image is parsed once even when many letters request it at the same time:
//
//	c := cache.New[*template.Template](128)
//	t, err := c.GetOrLoad(path, func() (*template.Template, error) {
//	    return parse(path)
//	})
//
// Failed loads are not cached.
package cache
