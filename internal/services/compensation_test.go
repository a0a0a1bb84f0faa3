package services

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"onversed_backend/internal/logger"

	"github.com/stretchr/testify/assert"
)

func TestCompensationRunsInReverseOrder(t *testing.T) {
	compensationBackoff = 0

	var order []int
	var c compensation
	for i := 1; i <= 3; i++ {
		i := i
		c.Add(func(ctx context.Context) error {
			order = append(order, i)
			return nil
		})
	}

	assert.Equal(t, 3, c.Len())
	assert.Zero(t, c.Run(context.Background()))
	assert.Equal(t, []int{3, 2, 1}, order)
	assert.Zero(t, c.Len())
}

func TestCompensationRetriesUntilSuccess(t *testing.T) {
	compensationBackoff = 0

	calls := 0
	var c compensation
	c.Add(func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("temporary")
		}
		return nil
	})

	assert.Zero(t, c.Run(context.Background()))
	assert.Equal(t, 3, calls)
}

func TestCompensationLogsPermanentFailure(t *testing.T) {
	compensationBackoff = 0
	var buf bytes.Buffer
	logger.InitWithWriter(&buf, "production")

	calls, okCalls := 0, 0
	var c compensation
	c.Add(func(ctx context.Context) error {
		okCalls++
		return nil
	})
	c.Add(func(ctx context.Context) error {
		calls++
		return errors.New("storage down")
	}, "container", "c1-items", "name", "abc_front.png")

	assert.Equal(t, 1, c.Run(context.Background()))
	assert.Equal(t, compensationAttempts, calls)
	assert.Equal(t, 1, okCalls)
	assert.Contains(t, buf.String(), "abc_front.png")
	assert.Contains(t, buf.String(), "storage down")
}

func TestCompensationIgnoresCanceledContext(t *testing.T) {
	compensationBackoff = 0
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var seen error
	var c compensation
	c.Add(func(ctx context.Context) error {
		seen = ctx.Err()
		return nil
	})

	c.Run(ctx)
	assert.NoError(t, seen)
}
