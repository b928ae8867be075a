package testutil

import (
	"sync/atomic"

	"github.com/Baaaki/planogram-backoffice/internal/database"
	"gorm.io/gorm"
)

// Ptr returns a pointer to v
func Ptr[T any](v T) *T {
	return &v
}

// CountingOpener wraps an opener and counts how many pools it created.
type CountingOpener struct {
	next  database.Opener
	calls atomic.Int32
}

func NewCountingOpener(next database.Opener) *CountingOpener {
	return &CountingOpener{next: next}
}

func (o *CountingOpener) Open() (*gorm.DB, error) {
	o.calls.Add(1)
	return o.next()
}

func (o *CountingOpener) Calls() int {
	return int(o.calls.Load())
}
