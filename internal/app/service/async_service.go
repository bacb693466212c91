package service

import (
	"context"

	"punch-payroll/pkg/workerpool"
)

type AsyncService struct {
	Pool *workerpool.WorkerPool
}

func NewAsyncService(pool *workerpool.WorkerPool) *AsyncService {
	return &AsyncService{Pool: pool}
}

func (a *AsyncService) SubmitAsync(ctx context.Context, fn func() (any, error)) (any, error) {
	res, err := a.SubmitAll(ctx, []func() (any, error){fn})
	if err != nil {
		return nil, err
	}
	return res[0].Value, res[0].Err
}

// SubmitAll выполняет все fns в пуле и возвращает результаты в том же порядке.
// Ошибка возвращается, только если задачи не удалось поставить или дождаться,
// ошибки отдельных задач лежат в Result.Err.
func (a *AsyncService) SubmitAll(ctx context.Context, fns []func() (any, error)) ([]workerpool.Result, error) {
	chans := make([]chan workerpool.Result, len(fns))
	for i, fn := range fns {
		chans[i] = make(chan workerpool.Result, 1)
		if err := a.Pool.Submit(ctx, workerpool.Task{Fn: fn, ResultC: chans[i]}); err != nil {
			return nil, err
		}
	}

	out := make([]workerpool.Result, len(fns))
	for i, ch := range chans {
		select {
		case res := <-ch:
			out[i] = res
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-a.Pool.Done():
			return nil, workerpool.ErrClosed
		}
	}
	return out, nil
}
