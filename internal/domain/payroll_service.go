package domain

import "context"

type PayrollCalculator interface {
	Allocate(ctx context.Context, doc Document) (Results, error)
	Bands() []PayBand
}
