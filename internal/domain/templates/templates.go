// Package templates renders answer sentences from a static catalog of
// parameterised templates and caches rendered strings.
package templates

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/okian/clubstats/pkg/logger"
	"github.com/okian/clubstats/pkg/metrics"
)

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithCacheSize bounds the rendered-string cache. Zero or negative disables it.
func WithCacheSize(n int) Option {
	return func(m *Manager) {
		m.cacheSize = n
	}
}

// WithTemplates overrides catalog bodies. New keys are added.
func WithTemplates(bodies map[string]string) Option {
	return func(m *Manager) {
		for k, v := range bodies {
			if strings.TrimSpace(v) != "" {
				m.catalog[k] = v
			}
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// Manager renders templates. The catalog is fixed after construction; the
// cache is safe for concurrent use.
type Manager struct {
	catalog   map[string]string
	cacheSize int
	cache     *lru
	log       logger.Logger
}

// NewManager creates a Manager over the default catalog.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		catalog:   defaultCatalog(),
		cacheSize: defaultCacheSize,
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.cacheSize > 0 {
		m.cache = newLRU(m.cacheSize)
	}
	return m
}

// Has reports whether key is in the catalog.
func (m *Manager) Has(key string) bool {
	_, ok := m.catalog[key]
	return ok
}

// Template returns the catalog entry for key.
func (m *Manager) Template(key string) (Template, bool) {
	body, ok := m.catalog[key]
	return Template{Key: key, Body: body}, ok
}

// Keys lists the catalog keys in sorted order.
func (m *Manager) Keys() []string {
	return slices.Sorted(maps.Keys(m.catalog))
}

// ContextKey returns the "_with_context" variant of key when one exists.
func (m *Manager) ContextKey(key string) string {
	if strings.HasSuffix(key, withContextSuffix) {
		return key
	}
	if m.Has(key + withContextSuffix) {
		return key + withContextSuffix
	}
	return key
}

// Render fills the template named key with vars. Unknown keys render the
// unknown_template sentence.
func (m *Manager) Render(key string, vars map[string]any) string {
	body, ok := m.catalog[key]
	if !ok {
		m.log.Warn(context.Background(), "unknown template", logger.String("key", key))
		key, body = UnknownTemplate, m.catalog[UnknownTemplate]
	}
	if m.cache == nil {
		return Interpolate(body, vars)
	}

	ck := cacheKey(key, vars)
	if s, ok := m.cache.get(ck); ok {
		metrics.RecordTemplateCacheHit()
		return s
	}
	metrics.RecordTemplateCacheMiss()
	s := Interpolate(body, vars)
	metrics.UpdateTemplateCacheSize(m.cache.put(ck, s))
	return s
}

// CacheLen returns the number of cached renderings.
func (m *Manager) CacheLen() int {
	if m.cache == nil {
		return 0
	}
	return m.cache.len()
}

// Interpolate replaces every {{name}} in body with vars[name]. Placeholders
// without a value are left as written.
func Interpolate(body string, vars map[string]any) string {
	if !strings.Contains(body, placeholderOpen) {
		return body
	}
	var b strings.Builder
	b.Grow(len(body))
	rest := body
	for {
		open := strings.Index(rest, placeholderOpen)
		if open < 0 {
			break
		}
		end := strings.Index(rest[open+len(placeholderOpen):], placeholderClose)
		if end < 0 {
			break
		}
		end += open + len(placeholderOpen)
		name := strings.TrimSpace(rest[open+len(placeholderOpen) : end])

		b.WriteString(rest[:open])
		if v, ok := vars[name]; ok && v != nil {
			b.WriteString(fmt.Sprint(v))
		} else {
			b.WriteString(rest[open : end+len(placeholderClose)])
		}
		rest = rest[end+len(placeholderClose):]
	}
	b.WriteString(rest)
	return b.String()
}

// cacheKey serializes key and vars with sorted variable names.
func cacheKey(key string, vars map[string]any) string {
	var b strings.Builder
	b.WriteString(key)
	for _, k := range slices.Sorted(maps.Keys(vars)) {
		b.WriteString(fieldSeparator)
		b.WriteString(k)
		b.WriteByte('=')
		fmt.Fprintf(&b, "%T:%v", vars[k], vars[k])
	}
	return b.String()
}
