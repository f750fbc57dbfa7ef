// Package sqlstore implements the local task store on database/sql.
//
// All mutations go through a writer pool limited to one connection, each in
// its own transaction. Reads use a separate pool; with SQLite in WAL mode they
// never wait on an in-flight write and only see committed data. After every
// commit the store re-reads the list and publishes it to live views. Commits
// made by other processes reach live views through a poller.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-logr/logr"
	_ "github.com/mattn/go-sqlite3"

	"todo/internal/observe"
	"todo/internal/service"
)

// Options configures Open.
type Options struct {
	// Driver is DriverSQLite (default) or DriverMySQL.
	Driver string

	// Path is the SQLite database file.
	Path string

	// DSN is the MySQL data source name. Falls back to TODO_STORE_DSN.
	DSN string

	// PollInterval is how often live views look for commits made by other
	// processes. Zero means DefaultPollInterval.
	PollInterval time.Duration

	Logger logr.Logger
}

const DefaultPollInterval = 500 * time.Millisecond

// Store is the local task store.
type Store struct {
	writer  *sql.DB
	reader  *sql.DB
	dialect dialect
	broker  *observe.Broker
	log     logr.Logger

	// pubMu orders snapshot reads with their delivery to views, so a view
	// never receives an older list after a newer one.
	pubMu sync.Mutex

	poll      time.Duration
	watchOnce sync.Once
	watchCtx  context.Context
	stopWatch context.CancelFunc
	watchDone sync.WaitGroup
}

// Open connects to the database and ensures the schema exists.
func Open(ctx context.Context, opts Options) (*Store, error) {
	d, err := dialectFor(opts.Driver)
	if err != nil {
		return nil, err
	}

	var dsn string
	switch d.driver {
	case DriverMySQL:
		raw := opts.DSN
		if raw == "" {
			raw = os.Getenv("TODO_STORE_DSN")
		}
		dsn, err = mysqlDSN(raw)
	default:
		dsn, err = sqliteDSN(opts.Path)
	}
	if err != nil {
		return nil, err
	}

	writer, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.driver, err)
	}
	writer.SetMaxOpenConns(1)
	writer.SetMaxIdleConns(1)

	s := &Store{
		writer:  writer,
		dialect: d,
		broker:  observe.NewBroker(),
		log:     opts.Logger,
		poll:    opts.PollInterval,
	}
	if s.poll <= 0 {
		s.poll = DefaultPollInterval
	}
	s.watchCtx, s.stopWatch = context.WithCancel(context.Background())
	if err := s.migrate(ctx); err != nil {
		s.stopWatch()
		writer.Close()
		return nil, err
	}

	if d.driver == DriverSQLite {
		reader, err := sql.Open(d.driver, dsn)
		if err != nil {
			s.stopWatch()
			writer.Close()
			return nil, fmt.Errorf("open %s reader: %w", d.driver, err)
		}
		s.reader = reader
	} else {
		s.reader = writer
	}
	return s, nil
}

// Close stops the external change poller and releases both pools.
func (s *Store) Close() error {
	s.stopWatch()
	s.watchDone.Wait()

	var errs []error
	if s.reader != nil && s.reader != s.writer {
		errs = append(errs, s.reader.Close())
	}
	errs = append(errs, s.writer.Close())
	return errors.Join(errs...)
}

func (s *Store) migrate(ctx context.Context) error {
	for _, ddl := range s.dialect.schema {
		if _, err := s.writer.ExecContext(ctx, ddl); err != nil {
			return &service.StorageError{Op: "migrate", Err: err}
		}
	}
	return nil
}

const selectColumns = `SELECT id, user_id, to_do, to_do_description, is_completed, date FROM todo_items`

// Create inserts a fully populated task.
func (s *Store) Create(ctx context.Context, task service.Task) error {
	return s.CreateMany(ctx, []service.Task{task})
}

// CreateMany inserts all tasks in one transaction: either all become visible or none do.
func (s *Store) CreateMany(ctx context.Context, tasks []service.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	op := "create"
	if len(tasks) > 1 {
		op = "create many"
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO todo_items
			(id, user_id, to_do, to_do_description, is_completed, date) VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, t := range tasks {
			if _, err := stmt.ExecContext(ctx, t.ID, t.OwnerID, t.Title, t.Description, t.Completed, t.CreatedAt.UTC()); err != nil {
				return fmt.Errorf("insert task %d: %w", t.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return &service.StorageError{Op: op, Err: err}
	}

	s.publish(ctx)
	return nil
}

// FetchAll returns every task, newest first. Ties are broken by ID, highest first.
func (s *Store) FetchAll(ctx context.Context) ([]service.Task, error) {
	rows, err := s.reader.QueryContext(ctx, selectColumns+` ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, &service.StorageError{Op: "fetch all", Err: err}
	}
	defer rows.Close()

	tasks := []service.Task{}
	for rows.Next() {
		t, err := scanTask(rows.Scan)
		if err != nil {
			return nil, &service.StorageError{Op: "fetch all", Err: err}
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, &service.StorageError{Op: "fetch all", Err: err}
	}
	return tasks, nil
}

// FindByID returns the task or an error wrapping service.ErrNotFound.
func (s *Store) FindByID(ctx context.Context, id int32) (service.Task, error) {
	row := s.reader.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	t, err := scanTask(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return service.Task{}, fmt.Errorf("task %d: %w", id, service.ErrNotFound)
	}
	if err != nil {
		return service.Task{}, &service.StorageError{Op: "find", Err: err}
	}
	return t, nil
}

// Update applies mutate to the stored task and persists it. The ID, owner and
// creation time cannot be changed by mutate. There is no version check: the
// last committed update wins.
func (s *Store) Update(ctx context.Context, id int32, mutate func(*service.Task)) (service.Task, error) {
	var updated service.Task
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := scanTask(tx.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id).Scan)
		if err != nil {
			return err
		}

		next := current
		mutate(&next)
		next.ID, next.OwnerID, next.CreatedAt = current.ID, current.OwnerID, current.CreatedAt

		_, err = tx.ExecContext(ctx, `UPDATE todo_items
			SET to_do = ?, to_do_description = ?, is_completed = ? WHERE id = ?`,
			next.Title, next.Description, next.Completed, id)
		if err != nil {
			return err
		}
		updated = next
		return nil
	})
	if errors.Is(err, sql.ErrNoRows) {
		return service.Task{}, fmt.Errorf("task %d: %w", id, service.ErrNotFound)
	}
	if err != nil {
		return service.Task{}, &service.StorageError{Op: "update", Err: err}
	}

	s.publish(ctx)
	return updated, nil
}

// Delete removes the task or returns an error wrapping service.ErrNotFound.
func (s *Store) Delete(ctx context.Context, id int32) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM todo_items WHERE id = ?`, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return sql.ErrNoRows
		}
		return nil
	})
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("task %d: %w", id, service.ErrNotFound)
	}
	if err != nil {
		return &service.StorageError{Op: "delete", Err: err}
	}

	s.publish(ctx)
	return nil
}

// ObserveAll returns a live view ordered by key. It stops when ctx is done.
// The view sees commits made through this store and, within PollInterval,
// commits made by any other connection to the same database.
func (s *Store) ObserveAll(ctx context.Context, key observe.SortKey) (*observe.View, error) {
	s.watchOnce.Do(func() {
		s.watchDone.Add(1)
		go func() {
			defer s.watchDone.Done()
			s.watchExternal(s.watchCtx)
		}()
	})

	// Holding pubMu keeps a commit from publishing between the initial read
	// and the subscription.
	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	initial, err := s.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.broker.Subscribe(ctx, key, initial), nil
}

func (s *Store) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// publish pushes the committed list to live views. Failures only cost the
// views one refresh; the write itself already succeeded.
func (s *Store) publish(ctx context.Context) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	if s.broker.Len() == 0 {
		return
	}
	tasks, err := s.FetchAll(context.WithoutCancel(ctx))
	if err != nil {
		s.log.Error(err, "refresh observers failed")
		return
	}
	s.broker.Publish(tasks)
}

func scanTask(scan func(dest ...any) error) (service.Task, error) {
	var t service.Task
	if err := scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt); err != nil {
		return service.Task{}, err
	}
	t.CreatedAt = t.CreatedAt.UTC()
	return t, nil
}
