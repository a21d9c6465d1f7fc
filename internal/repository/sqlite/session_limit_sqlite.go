package sqlite

import (
	"context"
	"database/sql"

	"github.com/maxviazov/session-limit-service/internal/model"
	"github.com/maxviazov/session-limit-service/internal/repository"
)

const defaultPageLimit = 50

type sessionLimitRepository struct{ db *sql.DB }

func NewSessionLimitRepository(db *sql.DB) repository.SessionLimitRepository {
	return &sessionLimitRepository{db: db}
}

func (r *sessionLimitRepository) Create(ctx context.Context, s model.SessionLimit) (model.SessionLimit, error) {
	if err := ensureDB(r.db); err != nil {
		return model.SessionLimit{}, err
	}
	row := getQ(ctx, r.db).QueryRowContext(ctx,
		`INSERT INTO limite_session (limite) VALUES (?) RETURNING id, limite`, s.Limit)
	return scanSessionLimit(row)
}

func (r *sessionLimitRepository) GetByID(ctx context.Context, id int64) (model.SessionLimit, error) {
	if err := ensureDB(r.db); err != nil {
		return model.SessionLimit{}, err
	}
	row := getQ(ctx, r.db).QueryRowContext(ctx,
		`SELECT id, limite FROM limite_session WHERE id = ?`, id)
	return scanSessionLimit(row)
}

func (r *sessionLimitRepository) Update(ctx context.Context, s model.SessionLimit) (model.SessionLimit, error) {
	if err := ensureDB(r.db); err != nil {
		return model.SessionLimit{}, err
	}
	row := getQ(ctx, r.db).QueryRowContext(ctx,
		`UPDATE limite_session SET limite = ? WHERE id = ? RETURNING id, limite`, s.Limit, s.ID)
	return scanSessionLimit(row)
}

func (r *sessionLimitRepository) Delete(ctx context.Context, id int64) error {
	if err := ensureDB(r.db); err != nil {
		return err
	}
	res, err := getQ(ctx, r.db).ExecContext(ctx, `DELETE FROM limite_session WHERE id = ?`, id)
	if err != nil {
		return MapSQLiteError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return MapSQLiteError(err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *sessionLimitRepository) List(ctx context.Context, p repository.Page) (repository.PageResult[model.SessionLimit], error) {
	if err := ensureDB(r.db); err != nil {
		return repository.PageResult[model.SessionLimit]{}, err
	}
	limit, offset := p.Limit, p.Offset
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if offset < 0 {
		offset = 0
	}

	exec := getQ(ctx, r.db)
	res := repository.PageResult[model.SessionLimit]{Items: make([]model.SessionLimit, 0, min(limit, defaultPageLimit))}
	// a separate count keeps Total right even when offset runs past the last row
	if err := exec.QueryRowContext(ctx, `SELECT COUNT(*) FROM limite_session`).Scan(&res.Total); err != nil {
		return repository.PageResult[model.SessionLimit]{}, MapSQLiteError(err)
	}
	rows, err := exec.QueryContext(ctx,
		`SELECT id, limite FROM limite_session ORDER BY id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return repository.PageResult[model.SessionLimit]{}, MapSQLiteError(err)
	}
	defer rows.Close()
	for rows.Next() {
		var s model.SessionLimit
		if err := rows.Scan(&s.ID, &s.Limit); err != nil {
			return repository.PageResult[model.SessionLimit]{}, MapSQLiteError(err)
		}
		res.Items = append(res.Items, s)
	}
	if err := rows.Err(); err != nil {
		return repository.PageResult[model.SessionLimit]{}, MapSQLiteError(err)
	}
	return res, nil
}

func scanSessionLimit(row *sql.Row) (model.SessionLimit, error) {
	var out model.SessionLimit
	if err := row.Scan(&out.ID, &out.Limit); err != nil {
		return model.SessionLimit{}, MapSQLiteError(err)
	}
	return out, nil
}

var _ repository.SessionLimitRepository = (*sessionLimitRepository)(nil)
