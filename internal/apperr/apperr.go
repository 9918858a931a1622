package apperr

import (
	"errors"
	"fmt"
)

// Kind — закрытый набор бизнес-ошибок ядра.
// Всё, что не попадает в этот набор, считается инфраструктурной ошибкой
// и наружу уходит как 5xx-эквивалент.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindAlreadyStarted
	KindCapacityExceeded
	KindInvalidTransition
	KindTerminalState
	KindInsufficientStock
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindAlreadyStarted:
		return "already_started"
	case KindCapacityExceeded:
		return "capacity_exceeded"
	case KindInvalidTransition:
		return "invalid_transition"
	case KindTerminalState:
		return "terminal_state"
	case KindInsufficientStock:
		return "insufficient_stock"
	default:
		return "unknown"
	}
}

// Error — типизированная бизнес-ошибка.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf возвращает Kind ошибки или KindUnknown для инфраструктурных ошибок.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is проверяет, что ошибка имеет заданный Kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Конструкторы для частых случаев.

func Validation(msg string) *Error { return New(KindValidation, msg) }

func Validationf(f string, a ...any) *Error { return Newf(KindValidation, f, a...) }

func NotFound(msg string) *Error { return New(KindNotFound, msg) }

func Conflict(msg string) *Error { return New(KindConflict, msg) }

func AlreadyStarted(msg string) *Error { return New(KindAlreadyStarted, msg) }

func CapacityExceeded(msg string) *Error { return New(KindCapacityExceeded, msg) }

func InvalidTransition(msg string) *Error { return New(KindInvalidTransition, msg) }

func TerminalState(msg string) *Error { return New(KindTerminalState, msg) }

func InsufficientStock(msg string) *Error { return New(KindInsufficientStock, msg) }
