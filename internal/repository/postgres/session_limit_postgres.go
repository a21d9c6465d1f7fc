package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxviazov/session-limit-service/internal/model"
	"github.com/maxviazov/session-limit-service/internal/repository"
)

type sessionLimitRepository struct{ pool *pgxpool.Pool }

func NewSessionLimitRepository(pool *pgxpool.Pool) repository.SessionLimitRepository {
	return &sessionLimitRepository{pool: pool}
}

func (r *sessionLimitRepository) Create(ctx context.Context, s model.SessionLimit) (model.SessionLimit, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.SessionLimit{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO limite_session (limite) VALUES ($1) RETURNING id, limite`,
		s.Limit,
	)
	return scanSessionLimit(row)
}

func (r *sessionLimitRepository) GetByID(ctx context.Context, id int64) (model.SessionLimit, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.SessionLimit{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`SELECT id, limite FROM limite_session WHERE id = $1`, id,
	)
	return scanSessionLimit(row)
}

func (r *sessionLimitRepository) Update(ctx context.Context, s model.SessionLimit) (model.SessionLimit, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.SessionLimit{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`UPDATE limite_session SET limite = $1 WHERE id = $2 RETURNING id, limite`,
		s.Limit, s.ID,
	)
	return scanSessionLimit(row)
}

func (r *sessionLimitRepository) Delete(ctx context.Context, id int64) error {
	if err := ensurePool(r.pool); err != nil {
		return err
	}
	tag, err := getQ(ctx, r.pool).Exec(ctx, `DELETE FROM limite_session WHERE id = $1`, id)
	if err != nil {
		return repository.MapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *sessionLimitRepository) List(ctx context.Context, p repository.Page) (repository.PageResult[model.SessionLimit], error) {
	if err := ensurePool(r.pool); err != nil {
		return repository.PageResult[model.SessionLimit]{}, err
	}
	limit, offset := sanitizeLimitOffset(p.Limit, p.Offset)
	rows, err := getQ(ctx, r.pool).Query(ctx,
		`SELECT id, limite, COUNT(*) OVER() AS total
		 FROM limite_session
		 ORDER BY id
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return repository.PageResult[model.SessionLimit]{}, repository.MapPgError(err)
	}
	defer rows.Close()
	res := repository.PageResult[model.SessionLimit]{Items: make([]model.SessionLimit, 0, min(limit, defaultPageLimit))}
	for rows.Next() {
		var s model.SessionLimit
		var total int
		if err := rows.Scan(&s.ID, &s.Limit, &total); err != nil {
			return repository.PageResult[model.SessionLimit]{}, repository.MapPgError(err)
		}
		res.Items = append(res.Items, s)
		res.Total = total
	}
	if err := rows.Err(); err != nil {
		return repository.PageResult[model.SessionLimit]{}, repository.MapPgError(err)
	}
	// the window count rides on returned rows; past the last page it needs its own query
	if len(res.Items) == 0 && offset > 0 {
		if err := getQ(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM limite_session`).Scan(&res.Total); err != nil {
			return repository.PageResult[model.SessionLimit]{}, repository.MapPgError(err)
		}
	}
	return res, nil
}

func scanSessionLimit(row pgx.Row) (model.SessionLimit, error) {
	var out model.SessionLimit
	if err := row.Scan(&out.ID, &out.Limit); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.SessionLimit{}, repository.ErrNotFound
		}
		return model.SessionLimit{}, repository.MapPgError(err)
	}
	return out, nil
}

var _ repository.SessionLimitRepository = (*sessionLimitRepository)(nil)
