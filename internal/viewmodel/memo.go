package viewmodel

import "sync"

// Memo caches one derived value and recomputes it only when the key changes.
// Pages key it by the versions of the loaders feeding the view.
type Memo[K comparable, V any] struct {
	mu    sync.Mutex
	key   K
	val   V
	valid bool
}

func (m *Memo[K, V]) Get(key K, compute func() V) V {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.valid && m.key == key {
		return m.val
	}
	m.key, m.val, m.valid = key, compute(), true
	return m.val
}
