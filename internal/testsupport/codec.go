// Package testsupport provides shared fakes for package tests.
package testsupport

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/handiism/cleantags/internal/tags"
)

// ErrInjected is the cause of failures set up with FailDecode and
// FailPersist.
var ErrInjected = errors.New("injected failure")

type fakeFile struct {
	scheme tags.Scheme
	fields map[string]string
}

// FakeCodec is an in-memory tags.Codec. Files are registered with Add
// and decode to tags.MemoryContainer values; Persist stores the
// container's fields back.
type FakeCodec struct {
	mu          sync.Mutex
	files       map[string]fakeFile
	failDecode  map[string]bool
	failPersist map[string]bool
	decodes     map[string]int
	persists    map[string]int
	open        map[string]*tags.MemoryContainer
}

// NewFakeCodec creates an empty FakeCodec.
func NewFakeCodec() *FakeCodec {
	return &FakeCodec{
		files:       make(map[string]fakeFile),
		failDecode:  make(map[string]bool),
		failPersist: make(map[string]bool),
		decodes:     make(map[string]int),
		persists:    make(map[string]int),
		open:        make(map[string]*tags.MemoryContainer),
	}
}

// Add registers a file with the given fields.
func (f *FakeCodec) Add(path string, scheme tags.Scheme, fields map[string]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[path] = fakeFile{scheme: scheme, fields: maps.Clone(fields)}
}

// FailDecode makes Decode of path fail.
func (f *FakeCodec) FailDecode(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failDecode[path] = true
}

// FailPersist makes Persist of path fail.
func (f *FakeCodec) FailPersist(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failPersist[path] = true
}

func (f *FakeCodec) Decode(path string) (tags.Container, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.decodes[path]++
	if f.failDecode[path] {
		return nil, fmt.Errorf("%w %s: %w", tags.ErrDecode, path, ErrInjected)
	}
	file, ok := f.files[path]
	if !ok {
		return nil, fmt.Errorf("%w %s: %w", tags.ErrDecode, path, os.ErrNotExist)
	}
	c := tags.NewMemoryContainer(path, file.scheme, file.fields)
	f.open[path] = c
	return c, nil
}

func (f *FakeCodec) Persist(c tags.Container) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := c.Path()
	f.persists[path]++
	if f.failPersist[path] {
		return fmt.Errorf("%w %s: %w", tags.ErrPersist, path, ErrInjected)
	}
	mc, ok := c.(*tags.MemoryContainer)
	if !ok {
		return fmt.Errorf("%w %s: unexpected container %T", tags.ErrPersist, path, c)
	}
	file := f.files[path]
	file.fields = mc.Fields()
	f.files[path] = file
	return nil
}

// Fields returns a copy of the stored fields of path.
func (f *FakeCodec) Fields(path string) map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return maps.Clone(f.files[path].fields)
}

// Decodes returns how often path was decoded.
func (f *FakeCodec) Decodes(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.decodes[path]
}

// Persists returns how often Persist was called for path.
func (f *FakeCodec) Persists(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.persists[path]
}

// Closed reports whether the last container decoded for path was closed.
func (f *FakeCodec) Closed(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.open[path]
	return ok && c.Closed()
}

// Checksum returns a digest of the stored fields of path.
func (f *FakeCodec) Checksum(path string) string {
	fields := f.Fields(path)
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(k)
		sb.WriteByte(0)
		sb.WriteString(fields[k])
		sb.WriteByte(0)
	}
	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}

// WriteFiles creates placeholder files for every path relative to root
// and returns their absolute paths.
func WriteFiles(t *testing.T, root string, paths ...string) []string {
	t.Helper()
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		full := filepath.Join(root, p)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", filepath.Dir(full), err)
		}
		if err := os.WriteFile(full, []byte("audio"), 0o644); err != nil {
			t.Fatalf("write %s: %v", full, err)
		}
		out = append(out, full)
	}
	return out
}
