package tags

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Registry is a Codec that delegates to other codecs by file extension.
type Registry struct {
	codecs map[string]Codec
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{codecs: make(map[string]Codec)}
}

// DefaultRegistry returns a Registry that handles MP3 through ID3v2 and
// Ogg, Opus, M4A and M4B through TagLib.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("mp3", NewID3Codec())

	taglib := NewTaglibCodec()
	for _, ext := range []string{"ogg", "opus", "m4a", "m4b"} {
		r.Register(ext, taglib)
	}
	return r
}

// Register routes files with extension ext (with or without the leading
// dot, any case) to codec, replacing any previous route.
func (r *Registry) Register(ext string, codec Codec) {
	r.codecs[normalizeExt(ext)] = codec
}

// Extensions returns the registered extensions without dots, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.codecs))
	for ext := range r.codecs {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Decode decodes path with the codec registered for its extension.
func (r *Registry) Decode(path string) (Container, error) {
	codec, err := r.codecFor(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrDecode, path, err)
	}
	return codec.Decode(path)
}

// Persist writes c back with the codec registered for its extension.
func (r *Registry) Persist(c Container) error {
	codec, err := r.codecFor(c.Path())
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrPersist, c.Path(), err)
	}
	return codec.Persist(c)
}

func (r *Registry) codecFor(path string) (Codec, error) {
	ext := normalizeExt(filepath.Ext(path))
	codec, ok := r.codecs[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, filepath.Ext(path))
	}
	return codec, nil
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
