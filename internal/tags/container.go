package tags

import "errors"

var (
	// ErrDecode wraps every failure to read a tag container.
	ErrDecode = errors.New("decode tags")

	// ErrPersist wraps every failure to write a tag container back.
	ErrPersist = errors.New("persist tags")

	// ErrUnsupported is returned when no codec handles a file.
	ErrUnsupported = errors.New("unsupported audio format")
)

// Scheme identifies how a container names its fields.
type Scheme string

const (
	// SchemeFrame containers use four character frame IDs (ID3v2).
	SchemeFrame Scheme = "frame"

	// SchemeMapping containers use generic field names (Vorbis, MP4).
	SchemeMapping Scheme = "mapping"
)

// Container is the decoded metadata of one audio file.
type Container interface {
	// Path returns the file the container was decoded from.
	Path() string

	// Scheme returns the naming scheme of the container's keys.
	Scheme() Scheme

	// Get returns the text value stored under key, if present.
	Get(key string) (string, bool)

	// Set replaces the text value stored under key. The change only
	// reaches the file through Codec.Persist.
	Set(key, value string) error

	// Close releases resources held by the container.
	Close() error
}

// Codec reads and writes tag containers.
type Codec interface {
	Decode(path string) (Container, error)
	Persist(c Container) error
}

// Field is one logical tag field together with the keys it is known by
// in each naming scheme.
type Field struct {
	// Name is the generic field name, e.g. "artist".
	Name string `toml:"name"`

	// Frame is the equivalent ID3v2 frame ID, e.g. "TPE1".
	Frame string `toml:"frame"`
}

// Aliases returns the non-empty keys of the field, generic name first.
func (f Field) Aliases() []string {
	aliases := make([]string, 0, 2)
	if f.Name != "" {
		aliases = append(aliases, f.Name)
	}
	if f.Frame != "" {
		aliases = append(aliases, f.Frame)
	}
	return aliases
}

// Label returns the name used for the field in logs and reports.
func (f Field) Label() string {
	if f.Name != "" {
		return f.Name
	}
	return f.Frame
}

// DefaultFields returns the fields checked for duplicated values.
func DefaultFields() []Field {
	return []Field{
		{Name: "artist", Frame: "TPE1"},
		{Name: "album", Frame: "TALB"},
		{Name: "title", Frame: "TIT2"},
	}
}
