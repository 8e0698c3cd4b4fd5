// Package database is a badger-backed event store for a nostr relay. One
// file per operation; the key layout lives in the indexes subpackage.
package database

import (
	"os"

	"github.com/dgraph-io/badger/v4"

	"lantern.dev/pkg/interfaces/store"
	"lantern.dev/pkg/utils/atomic"
	"lantern.dev/pkg/utils/chk"
	"lantern.dev/pkg/utils/context"
	"lantern.dev/pkg/utils/log"
	"lantern.dev/pkg/utils/lol"
	"lantern.dev/pkg/utils/units"
)

// D is the badger-backed event store.
type D struct {
	ctx     context.T
	cancel  context.F
	dataDir string
	Logger  *logger
	*badger.DB
	seq     *badger.Sequence
	closed  atomic.Bool
}

var _ store.I = (*D)(nil)

// New opens (creating if needed) the database in dataDir. The caller
// owns the store's lifecycle: expiration sweeps via DeleteExpired and
// shutdown via Close.
func New(ctx context.T, cancel context.F, dataDir, logLevel string) (
	d *D, err error,
) {
	d = &D{
		ctx:     ctx,
		cancel:  cancel,
		dataDir: dataDir,
		Logger:  newLogger(lol.GetLogLevel(logLevel)),
	}
	if err = os.MkdirAll(dataDir, 0755); chk.E(err) {
		return
	}
	opts := badger.DefaultOptions(d.dataDir)
	opts.BlockCacheSize = int64(256 * units.Mb)
	opts.CompactL0OnClose = true
	opts.Logger = d.Logger
	if d.DB, err = badger.Open(opts); chk.E(err) {
		return
	}
	log.T.Ln("getting event sequence lease", d.dataDir)
	if d.seq, err = d.DB.GetSequence([]byte("EVENTS"), 1000); chk.E(err) {
		return
	}
	return
}

// Path returns the directory where the database files are stored.
func (d *D) Path() (s string) { return d.dataDir }

// SetLogLevel changes the log level of the badger logger.
func (d *D) SetLogLevel(level string) {
	d.Logger.SetLogLevel(lol.GetLogLevel(level))
}

// Sync flushes the database buffers to disk.
func (d *D) Sync() (err error) { return d.DB.Sync() }

// Wipe deletes everything in the database.
func (d *D) Wipe() (err error) { return d.DB.DropAll() }

// Close releases the sequence lease and closes the database. Further
// calls are no-ops.
func (d *D) Close() (err error) {
	if !d.closed.CompareAndSwap(false, true) {
		return
	}
	if d.seq != nil {
		if err = d.seq.Release(); chk.E(err) {
			return
		}
	}
	if d.DB != nil {
		if err = d.DB.Close(); chk.E(err) {
			return
		}
	}
	return
}
