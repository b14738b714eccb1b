package driver

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"unparen/internal/diag"
	"unparen/internal/report"
	"unparen/internal/source"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит результаты анализа файлов на диске по ключу CacheKey.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload stores the outcome of analyzing one file content.
type DiskPayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Path        string
	ContentHash Digest

	// Counters for the run summary
	Groups    int
	Removable int
	// Broken: файл не разобрался, анализ не запускался
	Broken bool

	Diagnostics []CachedDiagnostic
}

// CachedSpan is a span without its FileID; it is re-anchored on load.
type CachedSpan struct {
	Start uint32
	End   uint32
}

type CachedNote struct {
	Span CachedSpan
	Msg  string
}

type CachedEdit struct {
	Span    CachedSpan
	NewText string
	OldText string
}

type CachedFix struct {
	ID            string
	Title         string
	Kind          uint8
	Applicability uint8
	Preferred     bool
	Edits         []CachedEdit

	// Generated: ID выводится из файла и смещения, пересчитываем при загрузке
	Generated bool
}

type CachedDiagnostic struct {
	Severity   uint8
	Code       uint16
	Message    string
	Category   string
	Primary    CachedSpan
	Additional []CachedSpan
	Properties map[string]string
	Notes      []CachedNote
	Fixes      []CachedFix
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt opens a cache rooted at dir, creating it when missing.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// Подкаталог по первому байту, чтобы не держать всё в одной папке.
	return filepath.Join(c.dir, "files", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key Digest, payload *DiskPayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err = os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache. Payloads of
// another schema version are reported as misses.
func (c *DiskCache) Get(key Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	if out.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// переименуем каталог, потом удалим: параллельный Get увидит промах, а не обрывок
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

func cacheSpan(sp source.Span) CachedSpan {
	return CachedSpan{Start: sp.Start, End: sp.End}
}

func (s CachedSpan) anchor(file source.FileID) source.Span {
	return source.Span{File: file, Start: s.Start, End: s.End}
}

// payloadFromDiagnostics converts the diagnostics of one file for caching.
func payloadFromDiagnostics(path string, hash Digest, items []diag.Diagnostic) *DiskPayload {
	payload := &DiskPayload{
		Schema:      diskCacheSchemaVersion,
		Path:        path,
		ContentHash: hash,
		Diagnostics: make([]CachedDiagnostic, 0, len(items)),
	}
	for _, d := range items {
		if d.Code == diag.IOCacheError {
			continue
		}
		cd := CachedDiagnostic{
			Severity:   uint8(d.Severity),
			Code:       uint16(d.Code),
			Message:    d.Message,
			Category:   d.Category,
			Primary:    cacheSpan(d.Primary),
			Properties: d.Properties,
		}
		for _, sp := range d.Additional {
			cd.Additional = append(cd.Additional, cacheSpan(sp))
		}
		for _, n := range d.Notes {
			cd.Notes = append(cd.Notes, CachedNote{Span: cacheSpan(n.Span), Msg: n.Msg})
		}
		for _, f := range d.Fixes {
			cf := CachedFix{
				ID:            f.ID,
				Title:         f.Title,
				Kind:          uint8(f.Kind),
				Applicability: uint8(f.Applicability),
				Preferred:     f.IsPreferred,
			}
			for _, e := range f.Edits {
				cf.Edits = append(cf.Edits, CachedEdit{Span: cacheSpan(e.Span), NewText: e.NewText, OldText: e.OldText})
			}
			if len(f.Edits) > 0 && f.ID == report.FixID(f.Edits[0].Span.File, f.Edits[0].Span.Start) {
				cf.ID, cf.Generated = "", true
			}
			cd.Fixes = append(cd.Fixes, cf)
		}
		payload.Diagnostics = append(payload.Diagnostics, cd)
	}
	return payload
}

// diagnostics restores the cached diagnostics anchored to file.
func (p *DiskPayload) diagnostics(file source.FileID) []diag.Diagnostic {
	out := make([]diag.Diagnostic, 0, len(p.Diagnostics))
	for _, cd := range p.Diagnostics {
		d := diag.Diagnostic{
			Severity:   diag.Severity(cd.Severity),
			Code:       diag.Code(cd.Code),
			Message:    cd.Message,
			Category:   cd.Category,
			Primary:    cd.Primary.anchor(file),
			Properties: cd.Properties,
		}
		for _, sp := range cd.Additional {
			d.Additional = append(d.Additional, sp.anchor(file))
		}
		for _, n := range cd.Notes {
			d.Notes = append(d.Notes, diag.Note{Span: n.Span.anchor(file), Msg: n.Msg})
		}
		for _, cf := range cd.Fixes {
			f := diag.Fix{
				ID:            cf.ID,
				Title:         cf.Title,
				Kind:          diag.FixKind(cf.Kind),
				Applicability: diag.FixApplicability(cf.Applicability),
				IsPreferred:   cf.Preferred,
			}
			for _, e := range cf.Edits {
				f.Edits = append(f.Edits, diag.TextEdit{Span: e.Span.anchor(file), NewText: e.NewText, OldText: e.OldText})
			}
			if cf.Generated && len(f.Edits) > 0 {
				f.ID = report.FixID(file, f.Edits[0].Span.Start)
			}
			d.Fixes = append(d.Fixes, f)
		}
		out = append(out, d)
	}
	return out
}
