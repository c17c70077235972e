package files

import (
	"log/slog"
	"path"
	"strings"
)

// URLPrefix is the path under which stored files are served. Document
// rows reference uploads as URLPrefix + stored name.
const URLPrefix = "/api/files/"

// URLSource lists the document URLs currently referenced by the
// registry. Satisfied by the store.
type URLSource interface {
	AllDocumentURLs() ([]string, error)
}

// Reconcile compares stored files against the document URLs in the
// registry and logs both directions of drift: document rows whose
// file is missing from disk, and stored files no row references.
// External URLs (anything not under URLPrefix) are skipped.
func Reconcile(store *Store, src URLSource, logger *slog.Logger) error {
	urls, err := src.AllDocumentURLs()
	if err != nil {
		return err
	}
	names, err := store.List()
	if err != nil {
		return err
	}

	onDisk := make(map[string]struct{}, len(names))
	for _, n := range names {
		onDisk[n] = struct{}{}
	}

	referenced := make(map[string]struct{})
	for _, u := range urls {
		if !strings.HasPrefix(u, URLPrefix) {
			continue
		}
		name := path.Base(u)
		referenced[name] = struct{}{}
		if _, ok := onDisk[name]; !ok {
			logger.Warn("reconcile: document file missing from disk", slog.String("name", name))
		}
	}

	for n := range onDisk {
		if _, ok := referenced[n]; !ok {
			logger.Debug("reconcile: stored file not referenced by any document", slog.String("name", n))
		}
	}
	return nil
}
