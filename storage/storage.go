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

// Package storage persists puzzles and solve results: a Redis cache
// for the results of recent solves, and a Postgres archive that
// keeps every puzzle and result for good.  Puzzles are keyed by a
// digest of their summary, so re-solving a known puzzle is a lookup.
package storage

import (
	"fmt"
	"os"
	"sync"

	"github.com/gomodule/redigo/redis"
	"github.com/jackc/pgx"

	"github.com/nonogo/nonogo.go/dbprep"
)

// Connect brings up both backends: the cache and the archive.  It
// makes sure the archive schema is in place first.  The returned
// identifiers name the endpoints, for logging.
func Connect() (cacheId, databaseId string, err error) {
	// make sure the database is initialized
	if err = dbprep.EnsureData(); err != nil {
		err = fmt.Errorf("Couldn't initialize database: %v", err)
		return
	}

	rdInit()
	rdMutex.Lock()
	defer rdMutex.Unlock()
	cacheId, err = rdConnect()
	if err != nil {
		return
	}

	pgInit()
	databaseId, err = pgConnect()
	return
}

// Close shuts down both backends.
func Close() {
	rdMutex.Lock()
	defer rdMutex.Unlock()
	pgClose()
	rdClose()
}

/*

cache using Redis

*/

// Redis connection data
var (
	rdc     redis.Conn // open connection, if any
	rdUrl   string     // URL for the open connection
	rdMutex sync.Mutex // prevent concurrent connection use
)

// rdInit - look up Redis info from the environment
func rdInit() {
	url := os.Getenv("REDISTOGO_URL")
	if url == "" {
		rdUrl = "redis://localhost:6379/"
	} else {
		rdUrl = url
	}
}

// rdConnect: connect to the configured Redis URL.  Returns the
// connection id if successful, an error otherwise.
func rdConnect() (string, error) {
	conn, err := redis.DialURL(rdUrl)
	if err != nil {
		return "", fmt.Errorf("Couldn't connect to cache at %q: %v", rdUrl, err)
	}
	rdc = conn
	return rdUrl, nil
}

// rdClose: close the open Redis connection, if any.
func rdClose() {
	if rdc != nil {
		rdc.Close()
		rdc = nil
	}
}

// rdExecute: execute the body against the cache, holding the cache
// mutex.  Because Redis connections can go away without warning, the
// connection is pinged first and reconnected if the ping fails.
// Runtime panics in the body are returned as errors.
func rdExecute(body func(conn redis.Conn) error) (err error) {
	rdMutex.Lock()
	defer rdMutex.Unlock()
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
			} else {
				err = fmt.Errorf("Caught panic during cache operation: %v", r)
			}
		}
	}()
	if rdc == nil {
		return fmt.Errorf("No cache connection")
	}
	if _, err := rdc.Do("PING"); err != nil {
		rdClose()
		if _, err = rdConnect(); err != nil {
			return fmt.Errorf("Failed to reconnect to cache at %q", rdUrl)
		}
	}
	return body(rdc)
}

/*

persistence using Postgres

*/

// Postgres connection data
var (
	pgConn *pgx.Conn // open database, if any
	pgUrl  string    // URL for the open connection
)

// pgInit - look up Postgres info from the environment
func pgInit() {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		pgUrl = "postgres://localhost/nonogo?sslmode=disable"
	} else {
		pgUrl = url
	}
}

// pgConnect: open the Postgres database.  Returns the connection id
// if successful, an error otherwise.
func pgConnect() (string, error) {
	cfg, err := pgx.ParseURI(pgUrl)
	if err != nil {
		return "", fmt.Errorf("Parse failure on Postgres URI %q: %v", pgUrl, err)
	}
	conn, err := pgx.Connect(cfg)
	if err != nil {
		return "", fmt.Errorf("Couldn't connect to db at %q: %v", pgUrl, err)
	}
	pgConn = conn
	return pgUrl, nil
}

// pgClose: close the open Postgres connection, if any.
func pgClose() {
	if pgConn != nil {
		pgConn.Close()
		pgConn = nil
	}
}

// pgExecute: execute the body inside a single transaction.  If the
// body errs out, the transaction is rolled back, otherwise it's
// committed.  Runtime panics in the body are returned as errors.
func pgExecute(body func(tx *pgx.Tx) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
			} else {
				err = fmt.Errorf("Caught panic during database operation: %v", r)
			}
		}
	}()
	if pgConn == nil {
		return fmt.Errorf("No database connection")
	}
	tx, err := pgConn.Begin()
	if err != nil {
		return fmt.Errorf("Couldn't start transaction: %v", err)
	}
	if err = body(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
