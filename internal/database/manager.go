package database

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/Baaaki/planogram-backoffice/pkg/logger"
	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"gorm.io/gorm"
)

// Opener creates a new gorm handle. It is called on first use and again
// every time the pool is recreated after a lost connection.
type Opener func() (*gorm.DB, error)

type PoolConfig struct {
	ConnectionLimit int
	// QueueLimit bounds callers waiting for a connection once ConnectionLimit
	// are busy. Zero leaves the queue unbounded.
	QueueLimit      int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Manager owns the single process-wide pool. Every call goes through one
// retry that swaps in a fresh pool when the connection was lost.
type Manager struct {
	open Opener
	cfg  PoolConfig
	log  *zap.Logger

	slots *semaphore.Weighted

	mu     sync.Mutex
	db     *gorm.DB
	closed bool

	keepAliveStop chan struct{}
	keepAliveDone chan struct{}
}

func NewManager(open Opener, cfg PoolConfig) *Manager {
	m := &Manager{
		open: open,
		cfg:  cfg,
		log:  logger.Named("database"),
	}
	if cfg.QueueLimit > 0 && cfg.ConnectionLimit > 0 {
		m.slots = semaphore.NewWeighted(int64(cfg.ConnectionLimit + cfg.QueueLimit))
	}
	return m
}

func (m *Manager) conn() (*gorm.DB, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}
	if m.db != nil {
		return m.db, nil
	}

	db, err := m.open()
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if m.cfg.ConnectionLimit > 0 {
		sqlDB.SetMaxOpenConns(m.cfg.ConnectionLimit)
	}
	if m.cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(m.cfg.MaxIdleConns)
	}
	if m.cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(m.cfg.ConnMaxLifetime)
	}

	m.db = db
	m.log.Info("Database pool created",
		zap.String("dialect", db.Dialector.Name()),
		zap.Int("connection_limit", m.cfg.ConnectionLimit),
		zap.Int("queue_limit", m.cfg.QueueLimit),
	)
	return db, nil
}

// discard drops the pool if it is still the one that failed, so the next
// conn() call opens a new one.
func (m *Manager) discard(failed *gorm.DB) {
	m.mu.Lock()
	if m.db != failed {
		m.mu.Unlock()
		return
	}
	m.db = nil
	m.mu.Unlock()

	if err := closePool(failed); err != nil {
		m.log.Warn("Failed to close broken pool", zap.Error(err))
	}
}

func (m *Manager) acquire() (func(), error) {
	if m.slots == nil {
		return func() {}, nil
	}
	if !m.slots.TryAcquire(1) {
		return nil, ErrQueueFull
	}
	return func() { m.slots.Release(1) }, nil
}

func (m *Manager) run(ctx context.Context, op func(db *gorm.DB) error) error {
	release, err := m.acquire()
	if err != nil {
		return err
	}
	defer release()

	_, err = backoff.Retry(ctx, func() (struct{}, error) {
		db, err := m.conn()
		if err != nil {
			if IsConnectionLost(err) {
				return struct{}{}, err
			}
			return struct{}{}, backoff.Permanent(err)
		}

		err = op(db)
		switch {
		case err == nil:
			return struct{}{}, nil
		case IsConnectionLost(err):
			m.discard(db)
			return struct{}{}, err
		default:
			return struct{}{}, backoff.Permanent(err)
		}
	},
		backoff.WithBackOff(&backoff.ZeroBackOff{}),
		backoff.WithMaxTries(2),
		backoff.WithNotify(func(err error, _ time.Duration) {
			m.log.Warn("Connection lost, retrying on a new pool", zap.Error(err))
		}),
	)
	return err
}

// Do runs fn against the live pool with the same retry as every other call.
// fn may run twice, so it must not carry side effects outside the database.
func (m *Manager) Do(ctx context.Context, fn func(db *gorm.DB) error) error {
	return m.run(ctx, func(db *gorm.DB) error {
		return fn(db.WithContext(ctx))
	})
}

// Select runs a query and scans every row into dest.
func (m *Manager) Select(ctx context.Context, dest any, query string, args ...any) error {
	return m.run(ctx, func(db *gorm.DB) error {
		return db.WithContext(ctx).Raw(query, args...).Scan(dest).Error
	})
}

// Exec runs a statement and returns the raw driver result.
func (m *Manager) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	var result sql.Result
	err := m.run(ctx, func(db *gorm.DB) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		result, err = sqlDB.ExecContext(ctx, query, args...)
		return err
	})
	return result, err
}

func (m *Manager) Ping(ctx context.Context) error {
	var one int
	return m.Select(ctx, &one, "SELECT 1")
}

// Dialect returns the name of the gorm dialector behind the pool.
func (m *Manager) Dialect() (string, error) {
	db, err := m.conn()
	if err != nil {
		return "", err
	}
	return db.Dialector.Name(), nil
}

// Stats reports pool statistics, or zero values before the pool exists.
func (m *Manager) Stats() sql.DBStats {
	m.mu.Lock()
	db := m.db
	m.mu.Unlock()
	if db == nil {
		return sql.DBStats{}
	}
	sqlDB, err := db.DB()
	if err != nil {
		return sql.DBStats{}
	}
	return sqlDB.Stats()
}

// StartKeepAlive pings the database every interval until Close is called.
func (m *Manager) StartKeepAlive(interval time.Duration) {
	if interval <= 0 {
		return
	}

	m.mu.Lock()
	if m.closed || m.keepAliveStop != nil {
		m.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	done := make(chan struct{})
	m.keepAliveStop, m.keepAliveDone = stop, done
	m.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), interval)
				if err := m.Ping(ctx); err != nil {
					m.log.Warn("Keep-alive ping failed", zap.Error(err))
				}
				cancel()
			}
		}
	}()

	m.log.Info("Database keep-alive started", zap.Duration("interval", interval))
}

// Close stops the keep-alive loop and closes the pool. Further calls fail
// with ErrClosed.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	stop, done := m.keepAliveStop, m.keepAliveDone
	db := m.db
	m.db = nil
	m.mu.Unlock()

	if stop != nil {
		close(stop)
		<-done
	}
	if db == nil {
		return nil
	}

	m.log.Info("Closing database pool")
	return closePool(db)
}

func closePool(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
