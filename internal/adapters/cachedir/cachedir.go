// Package cachedir implements the on-disk record cache
//
// One file per (kind, key, epoch). The epoch is the current date rendered
// by a small strftime-like strategy string, so entries roll over naturally
// instead of being expired: a new week produces a new file name and the
// stale file is simply abandoned. Reads that fail for any reason count as
// misses and writes are atomic whole-file replacements, which keeps
// concurrent identical lookups harmless
package cachedir

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/webnazakazku/Ares/internal/platform/logger"
)

// DefaultEpochFormat buckets entries by calendar year + ISO week
const DefaultEpochFormat = "YW"

// Store is a directory-backed cache keyed by kind, key and epoch
type Store struct {
	dir         string
	epochFormat string
	debug       bool
	log         *logger.Logger
	now         func() time.Time // seam for tests
}

// Option configures the store
type Option func(*Store)

// WithDebug enables writing raw upstream payload sidecar files
func WithDebug(debug bool) Option {
	return func(s *Store) { s.debug = debug }
}

// WithEpochFormat overrides the epoch strategy string (default "YW")
func WithEpochFormat(format string) Option {
	return func(s *Store) {
		if format != "" {
			s.epochFormat = format
		}
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates the cache directory when missing and returns a store
func New(dir string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	s := &Store{
		dir:         dir,
		epochFormat: DefaultEpochFormat,
		log:         logger.Named("cachedir"),
		now:         time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Dir returns the backing directory
func (s *Store) Dir() string { return s.dir }

// Epoch renders the current cache epoch under the configured strategy
// Supported tokens follow the PHP date() subset the upstream library used:
// Y full year, y two-digit year, o ISO year, m month, d day, W ISO week.
// Unknown runes pass through as literals
func (s *Store) Epoch() string {
	return FormatEpoch(s.epochFormat, s.now())
}

// FormatEpoch renders t under the given strategy string
func FormatEpoch(format string, t time.Time) string {
	var b strings.Builder
	for _, r := range format {
		switch r {
		case 'Y':
			fmt.Fprintf(&b, "%04d", t.Year())
		case 'y':
			fmt.Fprintf(&b, "%02d", t.Year()%100)
		case 'o':
			y, _ := t.ISOWeek()
			fmt.Fprintf(&b, "%04d", y)
		case 'm':
			fmt.Fprintf(&b, "%02d", int(t.Month()))
		case 'd':
			fmt.Fprintf(&b, "%02d", t.Day())
		case 'W':
			_, w := t.ISOWeek()
			fmt.Fprintf(&b, "%02d", w)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Get returns the cached payload for (kind, key) in the current epoch
// Any read failure is a miss, never an error
func (s *Store) Get(kind, key string) ([]byte, bool) {
	b, err := os.ReadFile(s.path(kind, key))
	if err != nil {
		return nil, false
	}
	return b, true
}

// Put stores the payload for (kind, key) in the current epoch
// The write is a tmp file + rename so readers never observe partial data
func (s *Store) Put(kind, key string, b []byte) error {
	return writeAtomic(s.path(kind, key), b)
}

// PutRaw stores the unmodified upstream response next to the entry when
// debug is enabled. Purely diagnostic, resolution never reads it back
func (s *Store) PutRaw(kind, key string, b []byte) {
	if !s.debug {
		return
	}
	name := fmt.Sprintf("%s_raw_%s_%s.raw", kind, key, s.Epoch())
	if err := writeAtomic(filepath.Join(s.dir, name), b); err != nil {
		s.log.Warn().Err(err).Str("kind", kind).Str("key", key).Msg("raw cache write failed")
	}
}

func (s *Store) path(kind, key string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_%s_%s.json", kind, key, s.Epoch()))
}

func writeAtomic(path string, b []byte) error {
	tmp := path + ".part"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
