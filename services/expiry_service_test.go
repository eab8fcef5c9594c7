package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubExpirer struct {
	calls int
	n     int
	err   error
}

func (s *stubExpirer) ExpireOverdue(context.Context) (int, error) {
	s.calls++
	return s.n, s.err
}

func TestExpiryRunOnce(t *testing.T) {
	stub := &stubExpirer{n: 3}
	svc := NewExpiryService(stub, "")

	n, err := svc.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 1, stub.calls)
	assert.Equal(t, DefaultExpirySchedule, svc.schedule)
}

func TestExpiryRunOnceReportsErrors(t *testing.T) {
	stub := &stubExpirer{n: 1, err: errors.New("quote QT-1: disk full")}

	n, err := NewExpiryService(stub, "").RunOnce(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 1, n)
}

func TestExpiryStartRejectsBadSchedule(t *testing.T) {
	svc := NewExpiryService(&stubExpirer{}, "every day")
	assert.Error(t, svc.Start())
}

func TestExpiryStartAndStop(t *testing.T) {
	svc := NewExpiryService(&stubExpirer{}, "@hourly")
	require.NoError(t, svc.Start())
	svc.Stop()
}
