package migration

import (
	"context"
	"fmt"
	"sort"

	"github.com/Baaaki/planogram-backoffice/pkg/logger"
	"go.uber.org/zap"
)

// DB is the connection the runner drives units through.
type DB interface {
	Conn
	Ping(ctx context.Context) error
}

type Status struct {
	Executed []string `json:"executed"`
	Pending  []string `json:"pending"`
}

type Runner struct {
	db      DB
	storage Storage
	units   []Unit
	byName  map[string]Unit
	log     *zap.Logger
}

func NewRunner(db DB, storage Storage, units []Unit) (*Runner, error) {
	sorted := make([]Unit, len(units))
	copy(sorted, units)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	byName := make(map[string]Unit, len(sorted))
	for _, u := range sorted {
		if _, exists := byName[u.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, u.Name)
		}
		byName[u.Name] = u
	}

	return &Runner{
		db:      db,
		storage: storage,
		units:   sorted,
		byName:  byName,
		log:     logger.Named("migration"),
	}, nil
}

func (r *Runner) prepare(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	return r.storage.Ensure(ctx)
}

func (r *Runner) pending(executed []string) []Unit {
	done := make(map[string]struct{}, len(executed))
	for _, name := range executed {
		done[name] = struct{}{}
	}
	var pending []Unit
	for _, u := range r.units {
		if _, ok := done[u.Name]; !ok {
			pending = append(pending, u)
		}
	}
	return pending
}

// Up applies every pending unit in name order. It stops at the first
// failure and returns the names applied before it.
func (r *Runner) Up(ctx context.Context) ([]string, error) {
	if err := r.prepare(ctx); err != nil {
		return nil, err
	}
	executed, err := r.storage.Executed(ctx)
	if err != nil {
		return nil, fmt.Errorf("read executed migrations: %w", err)
	}

	applied := make([]string, 0)
	for _, u := range r.pending(executed) {
		r.log.Info("Applying migration", zap.String("name", u.Name))
		if err := u.Up(ctx, r.db); err != nil {
			r.log.Error("Migration failed", zap.String("name", u.Name), zap.Error(err))
			return applied, fmt.Errorf("migration %s: %w", u.Name, err)
		}
		if err := r.storage.Log(ctx, u.Name); err != nil {
			return applied, fmt.Errorf("record migration %s: %w", u.Name, err)
		}
		applied = append(applied, u.Name)
	}

	r.log.Info("Migrations complete", zap.Strings("applied", applied))
	return applied, nil
}

// RevertLast runs Down for the most recently applied unit. With nothing
// applied it returns an empty name and no error.
func (r *Runner) RevertLast(ctx context.Context) (string, error) {
	if err := r.prepare(ctx); err != nil {
		return "", err
	}
	executed, err := r.storage.Executed(ctx)
	if err != nil {
		return "", fmt.Errorf("read executed migrations: %w", err)
	}
	if len(executed) == 0 {
		r.log.Info("No executed migrations to revert")
		return "", nil
	}

	name := executed[len(executed)-1]
	u, ok := r.byName[name]
	if !ok {
		return name, fmt.Errorf("%w: %s", ErrUnknownMigration, name)
	}

	r.log.Info("Reverting migration", zap.String("name", name))
	if err := u.Down(ctx, r.db); err != nil {
		r.log.Error("Revert failed", zap.String("name", name), zap.Error(err))
		return name, fmt.Errorf("revert %s: %w", name, err)
	}
	if err := r.storage.Unlog(ctx, name); err != nil {
		return name, fmt.Errorf("unrecord migration %s: %w", name, err)
	}
	return name, nil
}

// Status only reads. A missing tracking table means nothing has run.
func (r *Runner) Status(ctx context.Context) (*Status, error) {
	exists, err := r.storage.Exists(ctx)
	if err != nil {
		return nil, err
	}
	executed := make([]string, 0)
	if exists {
		if executed, err = r.storage.Executed(ctx); err != nil {
			return nil, err
		}
	}
	pending := make([]string, 0)
	for _, u := range r.pending(executed) {
		pending = append(pending, u.Name)
	}
	return &Status{Executed: executed, Pending: pending}, nil
}
