package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrLookup: отметка ссылается на работу, которой нет в таблице ставок.
	ErrLookup = errors.New("lookup failure")
	// ErrParse: метка времени не в формате TimestampLayout или нет обязательного поля.
	ErrParse = errors.New("parse failure")
	// ErrMalformedInput: сам документ не является корректным JSONC.
	ErrMalformedInput = errors.New("malformed input")

	ErrNegativeDuration = errors.New("punch ends before it starts")
)

// PunchError указывает отметку, на которой прервался расчёт. errors.Is сверяет и Kind, и Err.
type PunchError struct {
	Employee string
	Index    int
	Job      string
	Kind     error
	Err      error
}

func (e *PunchError) Error() string {
	msg := fmt.Sprintf("employee %q punch #%d (job %q): %v", e.Employee, e.Index, e.Job, e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *PunchError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
