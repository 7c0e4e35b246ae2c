package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"focusconsole/internal/domain/ports"
	"focusconsole/pkg/focus"
)

// Коды завершения процесса.
const (
	ExitOK    = 0
	ExitError = 1
)

const (
	promptMarker   = "> "
	responseMarker = "< "
)

// ErrQuit возвращается RunOnce, когда оператор ввёл quit или exit.
var ErrQuit = errors.New("console: quit requested")

// Options - необязательные зависимости сессии.
type Options struct {
	Quiet   bool          // без приглашений и служебных сообщений
	Out     io.Writer     // куда печатать ответы устройства
	Logger  ports.Logger  // диагностика
	History ports.History // nil отключает историю
}

// Session - цикл чтения команд оператора и печати ответов устройства.
type Session struct {
	device  ports.Device
	input   LineSource
	out     io.Writer
	log     ports.Logger
	history ports.History
	quiet   bool
}

// NewSession создаёт сессию поверх устройства и источника ввода
func NewSession(device ports.Device, input LineSource, opts Options) *Session {
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	log := opts.Logger
	if log == nil {
		log = nopLogger{}
	}
	return &Session{
		device:  device,
		input:   input,
		out:     out,
		log:     log,
		history: opts.History,
		quiet:   opts.Quiet,
	}
}

// Run открывает соединение и обрабатывает команды до quit/exit, конца ввода,
// отмены ctx или ошибки. Возвращает код завершения процесса.
func (s *Session) Run(ctx context.Context) int {
	s.log.Info("Connecting to %s", s.device.Device())
	if err := s.device.Connect(); err != nil {
		return s.fail(err)
	}

	for {
		err := s.RunOnce(ctx)
		switch {
		case err == nil:
			continue
		case errors.Is(err, ErrQuit):
			s.Close()
			return ExitOK
		case errors.Is(err, io.EOF):
			s.newline()
			s.Close()
			return ExitOK
		case ctx.Err() != nil:
			s.Interrupt()
			return ExitOK
		default:
			return s.fail(err)
		}
	}
}

// RunOnce читает одну строку ввода и, если это команда, отправляет её
// и печатает ответ целиком.
func (s *Session) RunOnce(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !s.quiet {
		fmt.Fprint(s.out, promptMarker)
	}

	line, err := s.input.ReadLine(ctx)
	if err != nil {
		return err
	}

	cmd := strings.TrimSpace(line)
	if cmd == "quit" || cmd == "exit" {
		return ErrQuit
	}
	if cmd == "" {
		return nil
	}

	s.remember(line)

	if err := s.Send(line); err != nil {
		return err
	}
	return s.ReadResponse(ctx)
}

// Send отправляет команду; закрытое соединение открывается заново.
func (s *Session) Send(command string) error {
	if !s.device.IsConnected() {
		s.log.Info("Connection to %s is closed, reconnecting", s.device.Device())
	}
	return s.device.Send(command)
}

// ReadResponse печатает строки ответа до сентинела или пустого чтения.
// Отмена ctx проверяется между строками; одно чтение ограничено таймаутом порта.
func (s *Session) ReadResponse(ctx context.Context) error {
	resp := focus.NewResponse(s.device)
	for resp.Next() {
		if s.quiet {
			fmt.Fprintln(s.out, resp.Line())
		} else {
			fmt.Fprintln(s.out, responseMarker+resp.Line())
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	if err := resp.Err(); err != nil {
		return err
	}
	if resp.NoOutput() {
		s.echo("no output")
	}
	return nil
}

// Close закрывает соединение, если оно открыто. Повторный вызов безопасен.
func (s *Session) Close() {
	if !s.device.IsConnected() {
		return
	}
	s.echo("closing connection...")
	if err := s.device.Disconnect(); err != nil {
		s.log.Warn("Failed to close %s: %v", s.device.Device(), err)
	}
}

// Interrupt - завершение по сигналу: прощание и закрытие соединения.
func (s *Session) Interrupt() {
	s.newline()
	s.echo("bye!")
	s.Close()
}

// fail сообщает о необработанной ошибке, закрывает соединение и возвращает ExitError.
// Сообщение ERROR! печатается и в тихом режиме.
func (s *Session) fail(err error) int {
	if s.quiet {
		fmt.Fprintln(s.out, "ERROR!")
	} else {
		fmt.Fprintln(s.out, promptMarker+"ERROR!")
	}

	var ce *focus.ConnectionError
	if errors.As(err, &ce) {
		s.log.Error("Connection error (%s %s): %v", ce.Op, ce.Device, ce.Err)
	} else {
		s.log.Error("Unhandled error: %+v", err)
	}

	s.Close()
	return ExitError
}

func (s *Session) remember(line string) {
	if s.history == nil {
		return
	}
	if err := s.history.Append(line); err != nil {
		s.log.Warn("Failed to save history: %v", err)
	}
}

// echo печатает служебное сообщение, если не включён тихий режим
func (s *Session) echo(text string) {
	if s.quiet {
		return
	}
	fmt.Fprintln(s.out, promptMarker+text)
}

func (s *Session) newline() {
	if s.quiet {
		return
	}
	fmt.Fprintln(s.out)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{}) {}
func (nopLogger) Error(string, ...interface{}) {}
