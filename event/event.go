// Package event keeps the DLC events loaded from a save directory. The
// catalog is owned by the caller; nothing here is process-wide.
package event

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path"

	"golang.org/x/text/encoding"

	"github.com/sourcekris/kartdlc/dlc"
	"github.com/sourcekris/kartdlc/logging"
)

// Entry is one successfully decoded save.
type Entry struct {
	Name   string
	Record *dlc.SaveRecord
}

// Failure records a save that could not be decoded.
type Failure struct {
	Name string
	Err  error
}

// Catalog holds the decoded events in file name order. Index i is the event
// the game selects with value i.
type Catalog struct {
	Entries  []Entry
	Failures []Failure
}

// Len returns the number of usable events.
func (c *Catalog) Len() int {
	return len(c.Entries)
}

// Select returns the record for the game's selection index.
func (c *Catalog) Select(idx uint32) (*dlc.SaveRecord, bool) {
	if uint64(idx) >= uint64(len(c.Entries)) {
		return nil, false
	}
	return c.Entries[idx].Record, true
}

// Loader decodes every save in a directory.
type Loader struct {
	Decoder *dlc.Decoder
	Log     *logging.Logger
	// Encoding is used only to log event titles.
	Encoding encoding.Encoding
}

// LoadDir loads the saves in the directory at dir.
func (l Loader) LoadDir(dir string) (*Catalog, error) {
	return l.LoadFS(os.DirFS(dir), ".")
}

// LoadFS loads every regular file in dir. A save that fails to decode is
// logged and recorded in Failures; it does not stop the others. Only a
// failure to list dir is returned as an error.
func (l Loader) LoadFS(fsys fs.FS, dir string) (*Catalog, error) {
	log := l.Log
	if log == nil {
		log = logging.Default()
	}
	dec := l.Decoder
	if dec == nil {
		dec = dlc.NewDecoder(dlc.Options{Logger: log})
	}

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("listing DLC directory: %w", err)
	}

	cat := &Catalog{}
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		name := e.Name()
		rec, err := l.load(fsys, dec, path.Join(dir, name))
		if err != nil {
			log.Warnf("skipping %s: %v", name, err)
			cat.Failures = append(cat.Failures, Failure{Name: name, Err: err})
			continue
		}
		log.Infof("event %d: %s (%s)", len(cat.Entries), l.title(rec), name)
		cat.Entries = append(cat.Entries, Entry{Name: name, Record: rec})
	}
	return cat, nil
}

func (l Loader) load(fsys fs.FS, dec *dlc.Decoder, name string) (*dlc.SaveRecord, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("reading save: %w", err)
	}
	return dec.Decode(bytes.NewReader(data))
}

func (l Loader) title(rec *dlc.SaveRecord) string {
	for _, block := range rec.Texts {
		if block.Title.String() == "" {
			continue
		}
		s, err := block.Title.Decode(l.Encoding)
		if err != nil {
			return block.Title.String()
		}
		return s
	}
	return "untitled"
}
