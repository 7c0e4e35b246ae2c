package console

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// LineSource отдаёт строки, введённые оператором.
type LineSource interface {
	// ReadLine возвращает строку без '\n', io.EOF в конце ввода
	// или ctx.Err(), если контекст отменён раньше.
	ReadLine(ctx context.Context) (string, error)
}

type inputLine struct {
	text string
	err  error
}

// LineInput читает строки в отдельной горутине, чтобы ожидание ввода
// можно было прервать через контекст (например, по SIGINT).
type LineInput struct {
	r     *bufio.Reader
	lines chan inputLine
	once  sync.Once
}

// NewLineInput создаёт источник строк поверх r
func NewLineInput(r io.Reader) *LineInput {
	return &LineInput{
		r:     bufio.NewReader(r),
		lines: make(chan inputLine),
	}
}

// ReadLine реализует LineSource
func (in *LineInput) ReadLine(ctx context.Context) (string, error) {
	in.once.Do(func() { go in.readLoop() })

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case l, ok := <-in.lines:
		if !ok {
			return "", io.EOF
		}
		return l.text, l.err
	}
}

func (in *LineInput) readLoop() {
	defer close(in.lines)
	for {
		text, err := in.r.ReadString('\n')
		text = strings.TrimSuffix(strings.TrimSuffix(text, "\n"), "\r")
		if err != nil {
			// последняя строка без перевода строки всё равно отдаётся
			if errors.Is(err, io.EOF) && text != "" {
				in.lines <- inputLine{text: text}
			}
			if !errors.Is(err, io.EOF) {
				in.lines <- inputLine{err: err}
			}
			return
		}
		in.lines <- inputLine{text: text}
	}
}
