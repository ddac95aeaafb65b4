// nonogo - a paint-by-number puzzle solver.
// Copyright (C) 2016-2017 the nonogo authors.
//
// This program is free software; you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; either version 2 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License along
// with this program; if not, write to the Free Software Foundation, Inc.,
// 51 Franklin Street, Fifth Floor, Boston, MA 02110-1301 USA.

package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/jackc/pgx"

	"github.com/nonogo/nonogo.go/puzzle"
)

/*

solve records

*/

// A SolveRecord is the persisted outcome of one solve.  The flat
// string fields serialize directly into a Redis hash; the counters
// travel as JSON.
type SolveRecord struct {
	Digest string // digest of the puzzle summary
	Status string // terminal status of the solve
	Unique string // "", "true" or "false"; "" means not checked
	Grid   string // solved grid in compact character form
	Counts string // solver counters as JSON
	Saved  string // RFC3339 time when the record was saved
}

// NewSolveRecord builds a record from a solve result.
func NewSolveRecord(digest string, res puzzle.Result, grid string) *SolveRecord {
	rec := &SolveRecord{
		Digest: digest,
		Status: res.Status.String(),
		Grid:   grid,
		Saved:  time.Now().Format(time.RFC3339),
	}
	if res.UniqueKnown {
		rec.Unique = fmt.Sprintf("%v", res.Unique)
	}
	if bytes, err := json.Marshal(res.Counts); err == nil {
		rec.Counts = string(bytes)
	}
	return rec
}

// Digest computes the cache and archive key for a puzzle summary:
// the hex digest of its canonical JSON form.  Solved-cell givens
// are part of the digest, so partially solved variants of one
// puzzle key separately.
func Digest(sum *puzzle.Summary) (string, error) {
	bytes, err := json.Marshal(sum)
	if err != nil {
		return "", fmt.Errorf("Couldn't marshal summary for digest: %v", err)
	}
	hash := sha256.Sum256(bytes)
	return hex.EncodeToString(hash[:]), nil
}

// resultKey: the cache key for a solve record.
func resultKey(digest string) string {
	return "result:" + digest
}

/*

cache operations

*/

// CacheResult writes a record into the cache.
func CacheResult(rec *SolveRecord) error {
	return rdExecute(func(conn redis.Conn) error {
		_, err := conn.Do("HMSET", redis.Args{}.Add(resultKey(rec.Digest)).AddFlat(rec)...)
		if err != nil {
			log.Printf("Redis error on save of result %q: %v", rec.Digest, err)
		}
		return err
	})
}

// cachedResult reads a record back from the cache; a miss returns
// nil with no error.
func cachedResult(digest string) (*SolveRecord, error) {
	var rec *SolveRecord
	err := rdExecute(func(conn redis.Conn) error {
		values, err := redis.Values(conn.Do("HGETALL", resultKey(digest)))
		if err != nil {
			log.Printf("Redis error on load of result %q: %v", digest, err)
			return err
		}
		if len(values) == 0 {
			return nil
		}
		rec = &SolveRecord{}
		return redis.ScanStruct(values, rec)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ClearCache drops every cached solve record.
func ClearCache() error {
	return rdExecute(func(conn redis.Conn) error {
		keys, err := redis.Strings(conn.Do("KEYS", resultKey("*")))
		if err != nil {
			return err
		}
		for _, key := range keys {
			conn.Send("DEL", key)
		}
		return conn.Flush()
	})
}

/*

archive operations

*/

// SavePuzzle archives a puzzle summary under its digest.  Saving an
// already archived puzzle is a no-op.
func SavePuzzle(digest string, sum *puzzle.Summary) error {
	bytes, err := json.Marshal(sum)
	if err != nil {
		return fmt.Errorf("Couldn't marshal summary of %q: %v", digest, err)
	}
	return pgExecute(func(tx *pgx.Tx) error {
		_, err := tx.Exec(
			`insert into puzzles (digest, title, summary, saved)
			 values ($1, $2, $3, now())
			 on conflict (digest) do nothing`,
			digest, sum.Title, string(bytes))
		return err
	})
}

// SaveResult archives a solve record and writes it through to the
// cache.  Re-solving a puzzle overwrites its archived result.
func SaveResult(rec *SolveRecord) error {
	err := pgExecute(func(tx *pgx.Tx) error {
		_, err := tx.Exec(
			`insert into results (digest, status, uniq, grid, counts, saved)
			 values ($1, $2, $3, $4, $5, now())
			 on conflict (digest) do update
			 set status = $2, uniq = $3, grid = $4, counts = $5, saved = now()`,
			rec.Digest, rec.Status, rec.Unique, rec.Grid, rec.Counts)
		return err
	})
	if err != nil {
		return err
	}
	if err := CacheResult(rec); err != nil {
		// the archive write stands; a cold cache just means a
		// database read next time
		log.Printf("Result %q archived but not cached: %v", rec.Digest, err)
	}
	return nil
}

// LookupResult finds the stored result of a previous solve, trying
// the cache first and falling back to the archive.  An archive hit
// refreshes the cache.  A miss everywhere returns nil with no
// error.
func LookupResult(digest string) (*SolveRecord, error) {
	rec, err := cachedResult(digest)
	if err == nil && rec != nil {
		return rec, nil
	}

	rec = &SolveRecord{Digest: digest}
	var saved time.Time
	err = pgExecute(func(tx *pgx.Tx) error {
		row := tx.QueryRow(
			`select status, uniq, grid, counts, saved
			 from results where digest = $1`, digest)
		return row.Scan(&rec.Status, &rec.Unique, &rec.Grid, &rec.Counts, &saved)
	})
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Couldn't load result %q: %v", digest, err)
	}
	rec.Saved = saved.Format(time.RFC3339)
	if err := CacheResult(rec); err != nil {
		log.Printf("Couldn't refresh cache for result %q: %v", digest, err)
	}
	return rec, nil
}
