package store

// ErrNotFound is returned when the requested item does not exist.
type ErrNotFound struct {
	msg string
}

func (e ErrNotFound) Error() string {
	return e.msg + " not found"
}

// NotFoundError returns a new ErrNotFound for the given item description.
func NotFoundError(msg string) error {
	return ErrNotFound{msg: msg}
}
