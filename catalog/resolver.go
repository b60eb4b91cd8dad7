// SPDX-License-Identifier: EPL-2.0

package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ik5/radiobox/audio"
)

// UI sounds kept in memory once loaded.
var DefaultSounds = []string{"click", "tick", "toggle"}

// subdirs are searched inside every asset directory, after the directory itself.
var subdirs = []string{"", "Resources", "Sounds"}

// preferredFormat is tried before the other registered extensions.
const preferredFormat = "mp3"

// Resolver finds named audio resources on disk and decodes them.
type Resolver struct {
	dirs     []string
	registry *audio.Registry
	log      logrus.FieldLogger

	mu    sync.Mutex
	cache map[string]sound
}

type sound struct {
	path string
	data []byte
}

func NewResolver(dirs []string, registry *audio.Registry, log logrus.FieldLogger) *Resolver {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Resolver{
		dirs:     slices.Clone(dirs),
		registry: registry,
		log:      log.WithField("component", "resolver"),
		cache:    make(map[string]sound),
	}
}

// extensions lists the registered formats, preferred format first.
func (r *Resolver) extensions() []string {
	formats := r.registry.Formats()
	if i := slices.Index(formats, preferredFormat); i > 0 {
		formats = append([]string{preferredFormat}, slices.Delete(formats, i, i+1)...)
	}
	return formats
}

// Find returns the path of name. A name carrying a registered extension is
// looked up as is; otherwise every registered extension is tried.
func (r *Resolver) Find(name string) (string, error) {
	if len(r.dirs) == 0 {
		return "", ErrNoDirectories
	}

	candidates := []string{}
	if _, ok := r.registry.ForFile(name); ok {
		candidates = append(candidates, name)
	} else {
		for _, ext := range r.extensions() {
			candidates = append(candidates, name+"."+ext)
		}
	}

	for _, dir := range r.dirs {
		for _, sub := range subdirs {
			for _, c := range candidates {
				path := filepath.Join(dir, sub, c)
				info, err := os.Stat(path)
				if err == nil && info.Mode().IsRegular() {
					return path, nil
				}
			}
		}
	}

	return "", fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Open decodes the resource name from disk. Closing the source closes the file.
func (r *Resolver) Open(name string) (audio.Source, error) {
	path, err := r.Find(name)
	if err != nil {
		r.log.WithFields(logrus.Fields{"op": "open", "name": name}).Warn("resource not found")
		return nil, err
	}

	dec, ok := r.registry.ForFile(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoDecoder, path)
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	src, err := dec.Decode(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return &fileSource{Source: src, f: f}, nil
}

// Preload reads the given sounds into memory. Missing sounds are logged and
// reported together.
func (r *Resolver) Preload(names ...string) error {
	var errs []error
	for _, name := range names {
		if _, err := r.load(name); err != nil {
			r.log.WithFields(logrus.Fields{"op": "preload", "name": name}).WithError(err).Warn("sound unavailable")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Resolver) load(name string) (sound, error) {
	r.mu.Lock()
	s, ok := r.cache[name]
	r.mu.Unlock()
	if ok {
		return s, nil
	}

	path, err := r.Find(name)
	if err != nil {
		return sound{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return sound{}, fmt.Errorf("read %s: %w", path, err)
	}

	s = sound{path: path, data: data}
	r.mu.Lock()
	r.cache[name] = s
	r.mu.Unlock()
	return s, nil
}

// OpenSound decodes a UI sound from the in-memory cache, loading it on
// first use.
func (r *Resolver) OpenSound(name string) (audio.Source, error) {
	s, err := r.load(name)
	if err != nil {
		return nil, err
	}

	dec, ok := r.registry.ForFile(s.path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoDecoder, s.path)
	}

	src, err := dec.Decode(bytes.NewReader(s.data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return src, nil
}

// Cached reports whether name is held in memory.
func (r *Resolver) Cached(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.cache[name]
	return ok
}

// Exists reports whether a track file can be found.
func (r *Resolver) Exists(name string) bool {
	_, err := r.Find(name)
	return err == nil
}

// fileSource closes the underlying file together with the decoder.
type fileSource struct {
	audio.Source
	f *os.File
}

func (s *fileSource) Frames() int64 {
	if l, ok := s.Source.(audio.Lengther); ok {
		return l.Frames()
	}
	return -1
}

func (s *fileSource) Close() error {
	err := s.Source.Close()
	if cerr := s.f.Close(); err == nil {
		err = cerr
	}
	return err
}
