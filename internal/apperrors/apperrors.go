package apperrors

import (
	"errors"
	"fmt"
)

// Category names which collaborator an error came from. The onboarding
// boundary collapses all of them into one user-facing reply, but log lines
// keep the category so failures stay distinguishable.
type Category string

const (
	CategoryTransport Category = "transport"
	CategoryPlatform  Category = "platform"
	CategoryDatabase  Category = "database"
	CategoryStorage   Category = "storage"
)

type Error struct {
	Category Category
	Op       string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Category, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Platform(op string, err error) error {
	return &Error{Category: CategoryPlatform, Op: op, Err: err}
}

func Database(op string, err error) error {
	return &Error{Category: CategoryDatabase, Op: op, Err: err}
}

func Storage(op string, err error) error {
	return &Error{Category: CategoryStorage, Op: op, Err: err}
}

func Transport(op string, err error) error {
	return &Error{Category: CategoryTransport, Op: op, Err: err}
}

// CategoryOf reports the category of err, or "unknown" for errors that were
// never classified.
func CategoryOf(err error) Category {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Category
	}
	return Category("unknown")
}
