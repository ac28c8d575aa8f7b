package tags

import (
	"fmt"
	"strings"

	"go.senan.xyz/taglib"
)

// TaglibCodec reads and writes generic property maps through TagLib.
//
// It is used for Ogg Vorbis, Opus and MP4 (m4a/m4b) files, whose tags are
// exposed as upper-case property names like "ARTIST" and "ALBUM".
// Containers answer canonical names case-insensitively.
type TaglibCodec struct{}

// NewTaglibCodec creates a TaglibCodec.
func NewTaglibCodec() *TaglibCodec {
	return &TaglibCodec{}
}

// Decode reads the property map of path.
func (TaglibCodec) Decode(path string) (Container, error) {
	props, err := taglib.ReadTags(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrDecode, path, err)
	}
	return newMappingContainer(path, props), nil
}

// Persist writes the properties changed through Set. Properties that were
// not touched are left as they are on disk.
func (TaglibCodec) Persist(c Container) error {
	mc, ok := c.(*mappingContainer)
	if !ok {
		return fmt.Errorf("%w %s: container %T is not a property map", ErrPersist, c.Path(), c)
	}
	if len(mc.changed) == 0 {
		return nil
	}
	if err := taglib.WriteTags(mc.path, mc.changed, 0); err != nil {
		return fmt.Errorf("%w %s: %w", ErrPersist, mc.path, err)
	}
	return nil
}

type mappingContainer struct {
	path    string
	props   map[string][]string
	changed map[string][]string
}

func newMappingContainer(path string, props map[string][]string) *mappingContainer {
	if props == nil {
		props = make(map[string][]string)
	}
	return &mappingContainer{
		path:    path,
		props:   props,
		changed: make(map[string][]string),
	}
}

func (c *mappingContainer) Path() string   { return c.path }
func (c *mappingContainer) Scheme() Scheme { return SchemeMapping }

// Get returns the first value of the property.
func (c *mappingContainer) Get(key string) (string, bool) {
	values := c.props[strings.ToUpper(key)]
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// Set replaces the first value of the property, keeping any others.
func (c *mappingContainer) Set(key, value string) error {
	k := strings.ToUpper(key)
	values := append([]string(nil), c.props[k]...)
	if len(values) == 0 {
		values = []string{value}
	} else {
		values[0] = value
	}
	c.props[k] = values
	c.changed[k] = values
	return nil
}

func (c *mappingContainer) Close() error { return nil }
