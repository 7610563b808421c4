// Package cache is an ambient, outside-the-core result cache: given an
// expression's source text, root box and target refinement depth, it
// stores and retrieves the resulting SolutionMap in a local SQLite file,
// so repeated CLI invocations over the same function skip straight to
// the cached cell set instead of re-running Refine N times.
//
// The core (internal/mesh, internal/ast, internal/interval,
// internal/geom, internal/morton) stays synchronous and I/O-free; this
// package only ever sits above it, in the CLI layer, wrapping a SQL
// driver behind a small store API rather than letting SQL leak into the
// mesh pipeline.
package cache

import (
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"

	"github.com/ThermalSpan/implicit-plotter/internal/geom"
	"github.com/ThermalSpan/implicit-plotter/internal/interval"
	"github.com/ThermalSpan/implicit-plotter/internal/morton"
)

// Store is a handle on the cache's backing SQLite database.
type Store struct {
	db *sql.DB
}

// Open creates (if needed) and opens the cache database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "opening mesh cache")
	}
	const schema = `
CREATE TABLE IF NOT EXISTS mesh_cache (
	key     TEXT PRIMARY KEY,
	depth   INTEGER NOT NULL,
	payload BLOB NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating mesh cache schema")
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Key derives a content-addressed cache key from the expression's source
// text, its root box, and the target depth, using blake2b-256 rather
// than a non-cryptographic hash so unrelated expressions can't collide
// into each other's cached mesh.
func Key(exprSource string, root geom.Box, depth int) string {
	h, _ := blake2b.New256(nil)
	fmt.Fprintf(h, "%s|%v|%v|%v|%d", exprSource, root.X, root.Y, root.Z, depth)
	return hex.EncodeToString(h.Sum(nil))
}

// Load fetches a previously cached SolutionMap, reporting ok=false if
// nothing is cached under key.
func (s *Store) Load(key string) (solutionMap map[morton.Key]geom.Box, depth int, ok bool, err error) {
	row := s.db.QueryRow(`SELECT depth, payload FROM mesh_cache WHERE key = ?`, key)
	var payload []byte
	if err := row.Scan(&depth, &payload); err != nil {
		if err == sql.ErrNoRows {
			return nil, 0, false, nil
		}
		return nil, 0, false, errors.Wrap(err, "reading mesh cache")
	}
	solutionMap, err = decodeSolutionMap(payload)
	if err != nil {
		return nil, 0, false, errors.Wrap(err, "decoding cached mesh")
	}
	return solutionMap, depth, true, nil
}

// Save persists a SolutionMap under key, replacing any prior entry.
func (s *Store) Save(key string, depth int, solutionMap map[morton.Key]geom.Box) error {
	payload := encodeSolutionMap(solutionMap)
	_, err := s.db.Exec(
		`INSERT INTO mesh_cache (key, depth, payload) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET depth = excluded.depth, payload = excluded.payload`,
		key, depth, payload)
	if err != nil {
		return errors.Wrap(err, "writing mesh cache")
	}
	return nil
}

// encodeSolutionMap packs a SolutionMap as a flat, length-prefixed
// binary blob: one uint64 count, then per-entry a uint64 key and six
// float32 box bounds.
func encodeSolutionMap(solutionMap map[morton.Key]geom.Box) []byte {
	buf := make([]byte, 8, 8+len(solutionMap)*(8+6*4))
	binary.LittleEndian.PutUint64(buf, uint64(len(solutionMap)))
	for k, b := range solutionMap {
		var entry [8 + 6*4]byte
		binary.LittleEndian.PutUint64(entry[0:8], uint64(k))
		putFloat32(entry[8:12], b.X.Min)
		putFloat32(entry[12:16], b.X.Max)
		putFloat32(entry[16:20], b.Y.Min)
		putFloat32(entry[20:24], b.Y.Max)
		putFloat32(entry[24:28], b.Z.Min)
		putFloat32(entry[28:32], b.Z.Max)
		buf = append(buf, entry[:]...)
	}
	return buf
}

func decodeSolutionMap(payload []byte) (map[morton.Key]geom.Box, error) {
	if len(payload) < 8 {
		return nil, errors.New("truncated mesh cache payload")
	}
	count := binary.LittleEndian.Uint64(payload[0:8])
	const entrySize = 8 + 6*4
	want := 8 + int(count)*entrySize
	if len(payload) != want {
		return nil, errors.Errorf("mesh cache payload is %d bytes, expected %d", len(payload), want)
	}
	solutionMap := make(map[morton.Key]geom.Box, count)
	offset := 8
	for i := uint64(0); i < count; i++ {
		entry := payload[offset : offset+entrySize]
		key := morton.Key(binary.LittleEndian.Uint64(entry[0:8]))
		box := geom.Box{
			X: interval.Interval{Min: getFloat32(entry[8:12]), Max: getFloat32(entry[12:16])},
			Y: interval.Interval{Min: getFloat32(entry[16:20]), Max: getFloat32(entry[20:24])},
			Z: interval.Interval{Min: getFloat32(entry[24:28]), Max: getFloat32(entry[28:32])},
		}
		solutionMap[key] = box
		offset += entrySize
	}
	return solutionMap, nil
}

func putFloat32(dst []byte, v float32) {
	binary.LittleEndian.PutUint32(dst, math.Float32bits(v))
}

func getFloat32(src []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(src))
}
