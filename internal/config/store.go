package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/muurk/smartthermo/internal/logging"
)

// PathSeparator separates the keys of a hierarchical config path ("wifi.mode").
const PathSeparator = "."

// Change describes a mutation of the store, delivered to subscribers.
type Change struct {
	Path     string      `json:"path,omitempty"`  // Dotted path written (empty on reload)
	Value    interface{} `json:"value,omitempty"` // New value
	Reloaded bool        `json:"reloaded,omitempty"`
	Saved    bool        `json:"saved,omitempty"`
}

// Options configures a Store.
type Options struct {
	// Path of the YAML backing file. Empty keeps the store in memory:
	// Save snapshots the document and Reload restores the last snapshot.
	Path string

	// AutoSave writes the backing file after every successful Set.
	AutoSave bool

	// Validators override DefaultValidators when non-nil.
	Validators map[string]Validator
}

// Store is the persisted configuration document addressed by dotted paths.
//
// All methods are safe for concurrent use. A single lock serializes every
// reader and writer, including the file write done by Save.
type Store struct {
	mu          sync.RWMutex
	path        string
	autoSave    bool
	doc         map[string]interface{}
	saved       map[string]interface{}
	validators  map[string]Validator
	subscribers map[int]func(Change)
	nextSubID   int
}

// NewStore creates an in-memory store seeded with the factory defaults.
func NewStore() *Store {
	s, _ := newStore(Options{}, defaultDocument())
	return s
}

// NewStoreFromDocument creates an in-memory store over the given document.
// The document is copied.
func NewStoreFromDocument(doc map[string]interface{}) *Store {
	s, _ := newStore(Options{}, cloneMap(doc))
	return s
}

// Open loads the store from opts.Path. A missing file yields the factory
// defaults; the file is only created by the first Save.
func Open(opts Options) (*Store, error) {
	if opts.Path == "" {
		return newStore(opts, defaultDocument())
	}

	doc, err := readDocument(opts.Path)
	if err != nil {
		return nil, err
	}
	return newStore(opts, doc)
}

func newStore(opts Options, doc map[string]interface{}) (*Store, error) {
	validators := opts.Validators
	if validators == nil {
		validators = DefaultValidators()
	}
	return &Store{
		path:        opts.Path,
		autoSave:    opts.AutoSave,
		doc:         doc,
		saved:       cloneMap(doc),
		validators:  validators,
		subscribers: make(map[int]func(Change)),
	}, nil
}

// readDocument reads and decodes the backing file.
func readDocument(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logging.Info("Config file not found, using factory defaults", zap.String("path", path))
		return defaultDocument(), nil
	}
	if err != nil {
		return nil, NewParseError("failed to read config file", err)
	}

	doc := make(map[string]interface{})
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, NewParseError(fmt.Sprintf("failed to parse %s", path), err)
	}
	return normalizeMap(doc), nil
}

// FilePath returns the backing file path (empty for in-memory stores).
func (s *Store) FilePath() string {
	return s.path
}

// Get returns a copy of the value at path.
func (s *Store) Get(path string) (interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := lookup(s.doc, path)
	if !ok {
		return nil, NewPathNotFoundError(path)
	}
	return cloneValue(v), nil
}

// Has reports whether path exists.
func (s *Store) Has(path string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := lookup(s.doc, path)
	return ok
}

// Set validates and stores value at path, creating intermediate sections.
// With AutoSave the file is written before Set returns; if that write fails
// the in-memory value is rolled back and a persistence error is returned.
func (s *Store) Set(path string, value interface{}) error {
	value = normalizeValue(value)

	s.mu.Lock()
	if err := s.validateLocked(path, value); err != nil {
		s.mu.Unlock()
		return err
	}

	previous, existed := lookup(s.doc, path)
	if err := assign(s.doc, path, value); err != nil {
		s.mu.Unlock()
		return err
	}

	if s.autoSave {
		if err := s.saveLocked(); err != nil {
			if existed {
				_ = assign(s.doc, path, previous)
			} else {
				remove(s.doc, path)
			}
			s.mu.Unlock()
			return err
		}
	}
	subs := s.subscribersLocked()
	s.mu.Unlock()

	logging.Debug("Config value set", zap.String("path", path), zap.Any("value", value))
	notify(subs, Change{Path: path, Value: cloneValue(value), Saved: s.autoSave})
	return nil
}

// Tx is the view of the document handed to an Update function.
type Tx struct {
	store   *Store
	doc     map[string]interface{}
	changes []Change
}

// Get returns a copy of the value at path as the transaction sees it.
func (tx *Tx) Get(path string) (interface{}, error) {
	value, ok := lookup(tx.doc, path)
	if !ok {
		return nil, NewPathNotFoundError(path)
	}
	return cloneValue(value), nil
}

// Set validates and stores value at path within the transaction. Later
// validators see earlier Sets of the same transaction.
func (tx *Tx) Set(path string, value interface{}) error {
	value = normalizeValue(value)
	if err := tx.store.validateIn(tx.doc, path, value); err != nil {
		return err
	}
	if err := assign(tx.doc, path, value); err != nil {
		return err
	}
	tx.changes = append(tx.changes, Change{Path: path, Value: cloneValue(value)})
	return nil
}

// Update runs fn as one read-modify-write under the store lock. Its Sets
// take effect together when fn returns nil and not at all when it returns
// an error. Subscribers get one Change per Set afterwards.
func (s *Store) Update(fn func(tx *Tx) error) error {
	s.mu.Lock()
	tx := &Tx{store: s, doc: cloneMap(s.doc)}
	if err := fn(tx); err != nil {
		s.mu.Unlock()
		return err
	}
	if len(tx.changes) == 0 {
		s.mu.Unlock()
		return nil
	}

	previous := s.doc
	s.doc = tx.doc
	if s.autoSave {
		if err := s.saveLocked(); err != nil {
			s.doc = previous
			s.mu.Unlock()
			return err
		}
	}
	subs := s.subscribersLocked()
	s.mu.Unlock()

	for _, c := range tx.changes {
		c.Saved = s.autoSave
		notify(subs, c)
	}
	return nil
}

func (s *Store) validateLocked(path string, value interface{}) error {
	return s.validateIn(s.doc, path, value)
}

func (s *Store) validateIn(doc map[string]interface{}, path string, value interface{}) error {
	if path == "" {
		return NewValidationError(path, "empty config path")
	}
	for _, key := range strings.Split(path, PathSeparator) {
		if key == "" {
			return NewValidationError(path, "config path has an empty key")
		}
	}

	if current, ok := lookup(doc, path); ok {
		if kindOf(current) != kindOf(value) {
			return NewValidationError(path, fmt.Sprintf("expected %s, got %s", kindOf(current), kindOf(value)))
		}
	}

	if validate, ok := s.validators[path]; ok {
		return validate(path, value, func(p string) (interface{}, bool) {
			return lookup(doc, p)
		})
	}
	return nil
}

// Save writes the document to the backing file.
func (s *Store) Save() error {
	s.mu.Lock()
	err := s.saveLocked()
	subs := s.subscribersLocked()
	s.mu.Unlock()

	if err != nil {
		return err
	}
	notify(subs, Change{Saved: true})
	return nil
}

func (s *Store) saveLocked() error {
	if s.path == "" {
		s.saved = cloneMap(s.doc)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return NewPersistenceError("failed to create config directory", err)
	}

	data, err := yaml.Marshal(s.doc)
	if err != nil {
		return NewPersistenceError("failed to marshal config", err)
	}

	header := []byte("# SmartThermo configuration\n" +
		"# Edited by the setup menu and the web API. Hand edits are picked up\n" +
		"# by a running server within a second.\n\n")
	data = append(header, data...)

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return NewPersistenceError("failed to write temporary config file", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return NewPersistenceError("failed to save config file", err)
	}

	s.saved = cloneMap(s.doc)
	logging.Info("Config saved", zap.String("path", s.path))
	return nil
}

// Reload discards in-memory changes and re-reads the backing file (or the
// last saved snapshot for in-memory stores).
func (s *Store) Reload() error {
	s.mu.Lock()
	var doc map[string]interface{}
	if s.path == "" {
		doc = cloneMap(s.saved)
	} else {
		var err error
		doc, err = readDocument(s.path)
		if err != nil {
			s.mu.Unlock()
			return err
		}
	}
	s.doc = doc
	s.saved = cloneMap(doc)
	subs := s.subscribersLocked()
	s.mu.Unlock()

	logging.Info("Config reloaded", zap.String("path", s.path))
	notify(subs, Change{Reloaded: true})
	return nil
}

// ReloadFromDisk applies a change another process made to the backing file.
// It reports false when the file still matches the last save or load, which
// is the case for the store's own saves. While the store holds unsaved
// changes the file is left unapplied and a conflict error is returned; a
// later Save overwrites the file and Reload takes the file's version.
func (s *Store) ReloadFromDisk() (bool, error) {
	if s.path == "" {
		return false, nil
	}

	s.mu.Lock()
	doc, err := readDocument(s.path)
	if err != nil {
		s.mu.Unlock()
		return false, err
	}
	if equalValues(doc, s.saved) {
		s.mu.Unlock()
		return false, nil
	}
	if !equalValues(s.doc, s.saved) {
		s.mu.Unlock()
		return false, NewConflictError("config file changed on disk while there are unsaved changes")
	}
	s.doc = doc
	s.saved = cloneMap(doc)
	subs := s.subscribersLocked()
	s.mu.Unlock()

	logging.Info("Config reloaded from disk", zap.String("path", s.path))
	notify(subs, Change{Reloaded: true})
	return true, nil
}

// Dirty reports whether the document differs from the last save or load.
func (s *Store) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !equalValues(s.doc, s.saved)
}

// Snapshot returns a deep copy of the whole document.
func (s *Store) Snapshot() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneMap(s.doc)
}

// Paths lists every leaf path in sorted order.
func (s *Store) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var paths []string
	collectPaths(s.doc, "", &paths)
	sort.Strings(paths)
	return paths
}

// Subscribe registers fn to be called after every Set, Save and Reload.
// fn runs on the caller's goroutine after the store lock is released.
// The returned function unregisters it.
func (s *Store) Subscribe(fn func(Change)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

func (s *Store) subscribersLocked() []func(Change) {
	ids := make([]int, 0, len(s.subscribers))
	for id := range s.subscribers {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	subs := make([]func(Change), 0, len(ids))
	for _, id := range ids {
		subs = append(subs, s.subscribers[id])
	}
	return subs
}

func notify(subs []func(Change), c Change) {
	for _, fn := range subs {
		fn(c)
	}
}

// Document helpers

func lookup(doc map[string]interface{}, path string) (interface{}, bool) {
	if path == "" {
		return nil, false
	}
	var current interface{} = doc
	for _, key := range strings.Split(path, PathSeparator) {
		section, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = section[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func assign(doc map[string]interface{}, path string, value interface{}) error {
	keys := strings.Split(path, PathSeparator)
	section := doc
	for i, key := range keys[:len(keys)-1] {
		next, ok := section[key]
		if !ok {
			child := make(map[string]interface{})
			section[key] = child
			section = child
			continue
		}
		child, ok := next.(map[string]interface{})
		if !ok {
			return NewValidationError(path, fmt.Sprintf("%s is not a section", strings.Join(keys[:i+1], PathSeparator)))
		}
		section = child
	}
	section[keys[len(keys)-1]] = value
	return nil
}

func remove(doc map[string]interface{}, path string) {
	keys := strings.Split(path, PathSeparator)
	parent, ok := lookup(doc, strings.Join(keys[:len(keys)-1], PathSeparator))
	if len(keys) == 1 {
		parent, ok = doc, true
	}
	if section, isMap := parent.(map[string]interface{}); ok && isMap {
		delete(section, keys[len(keys)-1])
	}
}

func collectPaths(section map[string]interface{}, prefix string, out *[]string) {
	for key, v := range section {
		path := key
		if prefix != "" {
			path = prefix + PathSeparator + key
		}
		if child, ok := v.(map[string]interface{}); ok {
			collectPaths(child, path, out)
			continue
		}
		*out = append(*out, path)
	}
}

// normalizeValue maps Go values onto the shapes yaml.v3 decodes into, so a
// value written through Set compares equal to the same value read from disk.
func normalizeValue(value interface{}) interface{} {
	switch v := value.(type) {
	case int8:
		return int(v)
	case int16:
		return int(v)
	case int32:
		return int(v)
	case int64:
		return int(v)
	case uint:
		return int(v)
	case uint8:
		return int(v)
	case uint16:
		return int(v)
	case uint32:
		return int(v)
	case float32:
		return float64(v)
	case []string:
		list := make([]interface{}, len(v))
		for i, s := range v {
			list[i] = s
		}
		return list
	case []interface{}:
		list := make([]interface{}, len(v))
		for i, item := range v {
			list[i] = normalizeValue(item)
		}
		return list
	case map[string]interface{}:
		return normalizeMap(v)
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(v))
		for k, item := range v {
			m[fmt.Sprint(k)] = normalizeValue(item)
		}
		return m
	default:
		return value
	}
}

func normalizeMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = normalizeValue(v)
	}
	return out
}

func cloneValue(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		return cloneMap(v)
	case []interface{}:
		list := make([]interface{}, len(v))
		for i, item := range v {
			list[i] = cloneValue(item)
		}
		return list
	default:
		return value
	}
}

func cloneMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func equalValues(a, b interface{}) bool {
	switch av := a.(type) {
	case map[string]interface{}:
		bv, ok := b.(map[string]interface{})
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			other, ok := bv[k]
			if !ok || !equalValues(v, other) {
				return false
			}
		}
		return true
	case []interface{}:
		bv, ok := b.([]interface{})
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !equalValues(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		// YAML writes 1.0 as 1, so numbers compare by value.
		if af, ok := AsFloat(a); ok {
			bf, ok := AsFloat(b)
			return ok && af == bf
		}
		return a == b
	}
}
