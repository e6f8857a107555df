package templates

import "sync"

// node is one entry of the recency list.
type node struct {
	key        string
	value      string
	prev, next *node
}

func (n *node) reset() {
	n.key, n.value = "", ""
	n.prev, n.next = nil, nil
}

// lru is a bounded string cache with least-recently-used eviction.
// head is the most recently used entry, tail the next to evict.
type lru struct {
	mu       sync.Mutex
	items    map[string]*node
	head     *node
	tail     *node
	capacity int
	nodePool sync.Pool
}

func newLRU(capacity int) *lru {
	return &lru{
		items:    make(map[string]*node, capacity),
		capacity: capacity,
		nodePool: sync.Pool{New: func() interface{} { return &node{} }},
	}
}

func (c *lru) get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, ok := c.items[key]
	if !ok {
		return "", false
	}
	c.moveToFront(n)
	return n.value, true
}

// put stores key and returns the resulting size.
func (c *lru) put(key, value string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n, ok := c.items[key]; ok {
		n.value = value
		c.moveToFront(n)
		return len(c.items)
	}
	if len(c.items) >= c.capacity {
		c.evict()
	}
	n := c.nodePool.Get().(*node)
	n.key, n.value = key, value
	c.pushFront(n)
	c.items[key] = n
	return len(c.items)
}

func (c *lru) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Must be called with c.mu held.
func (c *lru) pushFront(n *node) {
	n.prev = nil
	n.next = c.head
	if c.head != nil {
		c.head.prev = n
	}
	c.head = n
	if c.tail == nil {
		c.tail = n
	}
}

// Must be called with c.mu held.
func (c *lru) unlink(n *node) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		c.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		c.tail = n.prev
	}
	n.prev, n.next = nil, nil
}

// Must be called with c.mu held.
func (c *lru) moveToFront(n *node) {
	if c.head == n {
		return
	}
	c.unlink(n)
	c.pushFront(n)
}

// evict removes the tail. Must be called with c.mu held.
func (c *lru) evict() {
	n := c.tail
	if n == nil {
		return
	}
	c.unlink(n)
	delete(c.items, n.key)
	n.reset()
	c.nodePool.Put(n)
}
