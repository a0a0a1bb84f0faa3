package services

import (
	"context"
	"time"

	"onversed_backend/internal/logger"
)

const compensationAttempts = 3

// compensationBackoff - пауза перед повтором; n-я попытка ждет n*compensationBackoff
var compensationBackoff = 200 * time.Millisecond

type undoStep struct {
	fields []any
	undo   func(ctx context.Context) error
}

// compensation - список отмен внешних действий (загрузок в хранилище),
// которые БД-транзакция откатить не может. Отмены идемпотентны и
// выполняются в обратном порядке.
type compensation struct {
	steps []undoStep
}

// Add регистрирует отмену; fields попадают в лог при неудаче (container, name)
func (c *compensation) Add(undo func(ctx context.Context) error, fields ...any) {
	c.steps = append(c.steps, undoStep{fields: fields, undo: undo})
}

func (c *compensation) Len() int {
	return len(c.steps)
}

// Run выполняет все отмены и возвращает число неудавшихся.
// Отмена запроса клиентом не прерывает компенсацию.
func (c *compensation) Run(ctx context.Context) int {
	ctx = context.WithoutCancel(ctx)

	failed := 0
	for i := len(c.steps) - 1; i >= 0; i-- {
		step := c.steps[i]

		var err error
		for attempt := 1; attempt <= compensationAttempts; attempt++ {
			if err = step.undo(ctx); err == nil {
				break
			}
			logger.CtxWarn(ctx, "Compensation attempt failed",
				append([]any{"attempt", attempt, "error", err.Error()}, step.fields...)...)
			if attempt < compensationAttempts {
				time.Sleep(time.Duration(attempt) * compensationBackoff)
			}
		}

		if err != nil {
			failed++
			logger.CtxWithError(ctx, "Compensation failed, orphaned asset left in storage", err, step.fields...)
		}
	}

	c.steps = nil
	return failed
}
