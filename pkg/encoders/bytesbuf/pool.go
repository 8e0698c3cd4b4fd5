// Package bytesbuf provides a concurrent-safe []byte buffer pool for
// encoding wire messages.
package bytesbuf

import (
	"sync"

	"lantern.dev/pkg/utils/units"
)

// Pool is a concurrent-safe pool of []byte objects.
type Pool struct {
	pool sync.Pool
}

// NewPool creates a new buffer pool.
func NewPool() *Pool {
	return &Pool{
		pool: sync.Pool{
			New: func() interface{} {
				return make([]byte, 0, units.Kb)
			},
		},
	}
}

// Get returns a zero-length buffer from the pool.
func (p *Pool) Get() []byte {
	return p.pool.Get().([]byte)
}

// Put returns a buffer to the pool, resetting its length.
func (p *Pool) Put(buf []byte) {
	p.pool.Put(buf[:0])
}

// DefaultPool is the default buffer pool for the application.
var DefaultPool = NewPool()

// Get returns a buffer from the default pool.
func Get() []byte {
	return DefaultPool.Get()
}

// Put returns a buffer to the default pool.
func Put(buf []byte) {
	DefaultPool.Put(buf)
}
