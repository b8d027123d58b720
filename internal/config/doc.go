// Package config implements the persisted SmartThermo configuration store.
//
// The store holds one nested document addressed by dotted paths such as
// "wifi.mode" or "thermostat.p". It is saved as YAML with an atomic
// write-then-rename, and falls back to the factory defaults when no file
// exists yet.
//
// # Binding
//
// Store satisfies the menu engine's binding contract:
//
//	Get(path) (interface{}, error)  // PathNotFound if the path is missing
//	Set(path, value) error          // Validation or Persistence errors
//	Reload() error                  // discard in-memory changes
//
// # Validation
//
// Every Set is checked twice: the new value must keep the shape of the value
// it replaces (number, string, boolean, list, section), and the path's
// Validator, if any, must accept it. These checks are the firmware's own and
// are independent of the bounds a menu field applies while editing.
//
// # Concurrency
//
// The setup menu and the web API may share one Store. Every operation takes
// the same lock, so writes are serialized, but nothing coordinates a reader
// with a later writer: the menu reads a value when an edit starts and writes
// it when the edit is committed, and an API write that lands in between is
// overwritten. Last writer wins, and that is accepted.
//
// Update runs a read-modify-write under the lock. Its writes apply together
// or not at all.
//
// # Watching
//
// Watcher reloads a file-backed store when another process edits the file.
// A write that matches the last saved document, such as the store's own
// Save, is ignored. While the store has unsaved changes the file is not
// applied and the watcher callback receives a conflict error instead.
package config
