package focus

import (
	"strings"
	"unicode"
)

// Sentinel - строка, которой устройство завершает ответ на команду.
const Sentinel = "."

// LineReader отдаёт строки ответа по одной. Пустая строка означает пустое чтение.
type LineReader interface {
	ReadLine() (string, error)
}

// Response - ленивая последовательность строк одного ответа устройства.
// Читает строки до сентинела или пустого чтения; повторно не запускается.
//
//	resp := focus.NewResponse(transport)
//	for resp.Next() {
//	    fmt.Println(resp.Line())
//	}
//	if err := resp.Err(); err != nil { ... }
type Response struct {
	r        LineReader
	line     string
	done     bool
	noOutput bool
	err      error
}

// NewResponse создаёт последовательность строк поверх r
func NewResponse(r LineReader) *Response {
	return &Response{r: r}
}

// Next читает следующую печатаемую строку. Возвращает false, когда ответ закончился.
func (r *Response) Next() bool {
	for !r.done {
		raw, err := r.r.ReadLine()
		if err != nil {
			r.stop()
			r.err = err
			return false
		}
		if raw == "" {
			r.stop()
			r.noOutput = true
			return false
		}

		line := normalizeLine(raw)
		if line == Sentinel {
			r.stop()
			return false
		}
		if line == "" {
			continue
		}
		r.line = line
		return true
	}
	return false
}

func (r *Response) stop() {
	r.done = true
	r.line = ""
}

// Line возвращает строку, прочитанную последним успешным Next
func (r *Response) Line() string {
	return r.line
}

// NoOutput сообщает, что ответ закончился пустым чтением (таймаут или закрытый поток)
func (r *Response) NoOutput() bool {
	return r.noOutput
}

// Err возвращает ошибку транспорта, остановившую чтение
func (r *Response) Err() error {
	return r.err
}

// normalizeLine: переданная пустая строка показывается одним пробелом,
// у остальных отрезаются хвостовые пробельные символы.
func normalizeLine(raw string) string {
	if raw == "\r\n" || raw == "\n" {
		return " "
	}
	return strings.TrimRightFunc(raw, unicode.IsSpace)
}
