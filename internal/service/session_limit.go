package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/maxviazov/session-limit-service/internal/model"
	"github.com/maxviazov/session-limit-service/internal/repository"
)

// sessionLimitService holds session limit use-case logic: validation + orchestration, no SQL details.
type sessionLimitService struct {
	repo     repository.SessionLimitRepository
	tx       repository.TxManager
	timeout  time.Duration
	validate *validator.Validate
	log      zerolog.Logger
}

// NewSessionLimitService wires the use cases. A positive timeout bounds every storage call;
// running out of it surfaces as repository.ErrStorageUnavailable.
func NewSessionLimitService(repo repository.SessionLimitRepository, tx repository.TxManager, timeout time.Duration, logger zerolog.Logger) SessionLimitService {
	l := logger.With().Str("module", "service").Str("component", "session_limit").Logger()
	return &sessionLimitService{repo: repo, tx: tx, timeout: timeout, validate: newValidator(), log: l}
}

func (s *sessionLimitService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *sessionLimitService) CreateSessionLimit(ctx context.Context, in SessionLimitInput) (model.SessionLimit, error) {
	start := time.Now()
	if err := validateStruct(s.validate, in); err != nil {
		s.log.Debug().Interface("field_errors", FieldErrors(err)).Msg("session limit validation failed")
		return model.SessionLimit{}, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	out, err := s.repo.Create(ctx, model.NewSessionLimit(*in.Limit))
	if err != nil {
		// Repository surfaces domain-level errors already, do not wrap.
		s.log.Error().Err(err).Int("limit", *in.Limit).Msg("create session limit failed")
		return model.SessionLimit{}, err
	}
	s.log.Info().Dur("took", time.Since(start)).Int64("session_limit_id", out.ID).Int("limit", out.Limit).Msg("session limit created")
	return out, nil
}

func (s *sessionLimitService) GetSessionLimit(ctx context.Context, id int64) (model.SessionLimit, error) {
	if err := validateID(id); err != nil {
		return model.SessionLimit{}, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	out, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logFailure(err, id, "get session limit failed")
		return model.SessionLimit{}, err
	}
	return out, nil
}

// UpdateSessionLimit loads the record and overwrites its limit inside one transaction.
// Concurrent updates are last-write-wins; there is no version check.
func (s *sessionLimitService) UpdateSessionLimit(ctx context.Context, id int64, in SessionLimitInput) (model.SessionLimit, error) {
	start := time.Now()
	var ferrs []FieldError
	if err := validateID(id); err != nil {
		ferrs = append(ferrs, FieldErrors(err)...)
	}
	if err := validateStruct(s.validate, in); err != nil {
		ferrs = append(ferrs, FieldErrors(err)...)
	}
	if err := newInvalidInput(ferrs); err != nil {
		s.log.Debug().Int64("session_limit_id", id).Interface("field_errors", ferrs).Msg("session limit validation failed")
		return model.SessionLimit{}, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	var out model.SessionLimit
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		current.Limit = *in.Limit
		out, err = s.repo.Update(ctx, current)
		return err
	})
	if err != nil {
		s.logFailure(err, id, "update session limit failed")
		return model.SessionLimit{}, err
	}
	s.log.Info().Dur("took", time.Since(start)).Int64("session_limit_id", out.ID).Int("limit", out.Limit).Msg("session limit updated")
	return out, nil
}

func (s *sessionLimitService) DeleteSessionLimit(ctx context.Context, id int64) error {
	if err := validateID(id); err != nil {
		return err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logFailure(err, id, "delete session limit failed")
		return err
	}
	s.log.Info().Int64("session_limit_id", id).Msg("session limit deleted")
	return nil
}

func (s *sessionLimitService) ListSessionLimits(ctx context.Context, page repository.Page) (repository.PageResult[model.SessionLimit], error) {
	p := normalizePage(page)
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	res, err := s.repo.List(ctx, p)
	if err != nil {
		s.log.Error().Err(err).Int("limit", p.Limit).Int("offset", p.Offset).Msg("list session limits failed")
		return repository.PageResult[model.SessionLimit]{}, err
	}
	return res, nil
}

// logFailure keeps expected misses out of the error stream.
func (s *sessionLimitService) logFailure(err error, id int64, msg string) {
	ev := s.log.Error()
	if errors.Is(err, repository.ErrNotFound) {
		ev = s.log.Debug()
	}
	ev.Err(err).Int64("session_limit_id", id).Msg(msg)
}
