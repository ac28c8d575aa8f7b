package tags

import (
	"fmt"

	"github.com/bogem/id3v2"
)

// ID3Codec reads and writes ID3v2 tags of MP3 files.
//
// Containers produced by ID3Codec keep the file open until Close is
// called. Keys are frame IDs such as "TPE1"; generic names are never
// present.
type ID3Codec struct{}

// NewID3Codec creates an ID3Codec.
func NewID3Codec() *ID3Codec {
	return &ID3Codec{}
}

// Decode opens path and parses its ID3v2 tag. A file without a tag
// decodes to an empty container.
func (ID3Codec) Decode(path string) (Container, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrDecode, path, err)
	}
	return &id3Container{path: path, tag: tag}, nil
}

// Persist saves the tag back to its file.
func (ID3Codec) Persist(c Container) error {
	ic, ok := c.(*id3Container)
	if !ok {
		return fmt.Errorf("%w %s: container %T is not an ID3v2 container", ErrPersist, c.Path(), c)
	}
	if err := ic.tag.Save(); err != nil {
		return fmt.Errorf("%w %s: %w", ErrPersist, ic.path, err)
	}
	return nil
}

type id3Container struct {
	path string
	tag  *id3v2.Tag
}

func (c *id3Container) Path() string   { return c.path }
func (c *id3Container) Scheme() Scheme { return SchemeFrame }

func (c *id3Container) Get(key string) (string, bool) {
	tf, ok := c.textFrame(key)
	if !ok {
		return "", false
	}
	return tf.Text, true
}

func (c *id3Container) Set(key, value string) error {
	if !isFrameID(key) {
		return fmt.Errorf("set %s: %q is not an ID3v2 frame ID", c.path, key)
	}

	enc := c.tag.DefaultEncoding()
	if tf, ok := c.textFrame(key); ok {
		enc = tf.Encoding
	}
	// Text frames are unique per ID, so this replaces the old frame.
	c.tag.AddTextFrame(key, enc, value)
	return nil
}

func (c *id3Container) Close() error {
	return c.tag.Close()
}

func (c *id3Container) textFrame(key string) (id3v2.TextFrame, bool) {
	if !isFrameID(key) {
		return id3v2.TextFrame{}, false
	}
	frames := c.tag.GetFrames(key)
	if len(frames) == 0 {
		return id3v2.TextFrame{}, false
	}
	tf, ok := frames[0].(id3v2.TextFrame)
	return tf, ok
}

// isFrameID reports whether key looks like an ID3v2.3/2.4 frame ID.
func isFrameID(key string) bool {
	if len(key) != 4 {
		return false
	}
	for i := 0; i < len(key); i++ {
		ch := key[i]
		if (ch < 'A' || ch > 'Z') && (ch < '0' || ch > '9') {
			return false
		}
	}
	return true
}
