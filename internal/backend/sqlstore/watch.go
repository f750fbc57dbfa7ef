package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// changeMarker reports a value that differs after any commit to todo_items.
type changeMarker func(ctx context.Context) (string, error)

// watchExternal republishes the list whenever the change marker moves. Our
// own commits move it too; those republishes diff to nothing.
func (s *Store) watchExternal(ctx context.Context) {
	marker, release, err := s.openChangeMarker(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.log.Error(err, "watch for external commits disabled")
		}
		return
	}
	defer release()

	last, err := marker(ctx)
	if err != nil && ctx.Err() == nil {
		s.log.V(1).Info("read change marker failed", "error", err.Error())
	}

	ticker := time.NewTicker(s.poll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		current, err := marker(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.log.V(1).Info("read change marker failed", "error", err.Error())
			continue
		}
		if current == last {
			continue
		}
		last = current
		s.publish(ctx)
	}
}

func (s *Store) openChangeMarker(ctx context.Context) (changeMarker, func(), error) {
	if s.dialect.driver == DriverMySQL {
		return s.mysqlChecksum, func() {}, nil
	}

	// data_version is per connection, so the marker needs a pinned one.
	conn, err := s.reader.Conn(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("pin change marker connection: %w", err)
	}
	marker := func(ctx context.Context) (string, error) {
		var v int64
		if err := conn.QueryRowContext(ctx, `PRAGMA data_version`).Scan(&v); err != nil {
			return "", err
		}
		return fmt.Sprint(v), nil
	}
	return marker, func() { conn.Close() }, nil
}

func (s *Store) mysqlChecksum(ctx context.Context) (string, error) {
	var table string
	var sum sql.NullInt64
	if err := s.reader.QueryRowContext(ctx, `CHECKSUM TABLE todo_items`).Scan(&table, &sum); err != nil {
		return "", err
	}
	return fmt.Sprint(sum.Int64), nil
}
