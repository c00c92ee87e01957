package repository

import (
	"context"
	"errors"
	"net"
	"testing"

	"content-backend/internal/domains/content/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyNil(t *testing.T) {
	assert.NoError(t, classify("read", nil))
}

func TestClassifyNoRows(t *testing.T) {
	err := classify("point read", pgx.ErrNoRows)
	assert.True(t, errors.Is(err, model.ErrNotFound))
	assert.False(t, errors.Is(err, model.ErrUnavailable))
}

func TestClassifyTimeoutsAndTransport(t *testing.T) {
	cases := []error{
		context.DeadlineExceeded,
		context.Canceled,
		&net.OpError{Op: "dial", Err: errors.New("connection refused")},
		errors.New("pool closed"),
	}
	for _, cause := range cases {
		err := classify("list query", cause)
		assert.True(t, errors.Is(err, model.ErrUnavailable), "cause %v", cause)
	}
}

func TestClassifyServerErrorIsNotUnavailable(t *testing.T) {
	// The server answered: constraint violations and encoding failures are
	// genuine write failures, not grounds for a snapshot-only fallback.
	cause := &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}

	err := classify("create", cause)
	require.Error(t, err)
	assert.False(t, errors.Is(err, model.ErrUnavailable))
	assert.False(t, errors.Is(err, model.ErrNotFound))

	var pgErr *pgconn.PgError
	require.True(t, errors.As(err, &pgErr), "the driver error stays inspectable")
	assert.Equal(t, "23505", pgErr.Code)
}
