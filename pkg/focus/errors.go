package focus

import (
	"errors"
	"fmt"
)

var (
	ErrPortClosed      = errors.New("focus: port is closed")
	ErrWriteTimeout    = errors.New("focus: timeout writing to device")
	ErrShortWrite      = errors.New("focus: failed to send complete command")
	ErrUnknownEncoding = errors.New("focus: unknown wire encoding")
)

// ConnectionError описывает ошибку транспортного уровня: порт не открылся,
// чтение или запись завершились ошибкой.
type ConnectionError struct {
	Op     string // open, read, write
	Device string
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("focus: %s %s: %v", e.Op, e.Device, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// IsConnectionError сообщает, является ли err (или что-то в его цепочке) ошибкой соединения.
func IsConnectionError(err error) bool {
	var ce *ConnectionError
	return errors.As(err, &ce)
}
