package tags

import "maps"

// MemoryContainer is a Container backed by a plain map. Keys are matched
// exactly as stored, so a single MemoryContainer can imitate either
// naming scheme.
type MemoryContainer struct {
	path    string
	scheme  Scheme
	fields  map[string]string
	changed map[string]string
	closed  bool
}

// NewMemoryContainer creates a container holding a copy of fields.
func NewMemoryContainer(path string, scheme Scheme, fields map[string]string) *MemoryContainer {
	return &MemoryContainer{
		path:    path,
		scheme:  scheme,
		fields:  maps.Clone(fields),
		changed: make(map[string]string),
	}
}

func (c *MemoryContainer) Path() string   { return c.path }
func (c *MemoryContainer) Scheme() Scheme { return c.scheme }

func (c *MemoryContainer) Get(key string) (string, bool) {
	v, ok := c.fields[key]
	return v, ok
}

func (c *MemoryContainer) Set(key, value string) error {
	if c.fields == nil {
		c.fields = make(map[string]string)
	}
	c.fields[key] = value
	c.changed[key] = value
	return nil
}

func (c *MemoryContainer) Close() error {
	c.closed = true
	return nil
}

// Fields returns a copy of all fields.
func (c *MemoryContainer) Fields() map[string]string {
	return maps.Clone(c.fields)
}

// Changed returns a copy of the fields modified through Set.
func (c *MemoryContainer) Changed() map[string]string {
	return maps.Clone(c.changed)
}

// Closed reports whether Close has been called.
func (c *MemoryContainer) Closed() bool {
	return c.closed
}
