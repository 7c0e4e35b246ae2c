package focus

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

const readChunkSize = 256

// Transport инкапсулирует работу с последовательным портом устройства:
// открытие, фрейминг команд и построчное чтение ответа.
type Transport struct {
	config Config
	opener Opener

	mu      sync.Mutex
	port    Port
	codec   wireCodec
	pending []byte // прочитанные, но ещё не отданные байты
}

// NewTransport создаёт транспорт поверх go.bug.st/serial
func NewTransport(config Config) *Transport {
	return NewTransportWithOpener(config, OpenSerial)
}

// NewTransportWithOpener создаёт транспорт с заданной функцией открытия порта
func NewTransportWithOpener(config Config, opener Opener) *Transport {
	return &Transport{
		config: config.withDefaults(),
		opener: opener,
	}
}

// Device возвращает путь к устройству
func (t *Transport) Device() string {
	return t.config.Device
}

// IsConnected сообщает, открыт ли порт
func (t *Transport) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.port != nil
}

// Connect открывает порт. Повторный вызов при открытом порте ничего не делает.
func (t *Transport) Connect() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.connectLocked()
}

// connectLocked выполняет подключение (должен вызываться только под мьютексом)
func (t *Transport) connectLocked() error {
	if t.port != nil {
		return nil
	}

	codec, err := newWireCodec(t.config.Encoding)
	if err != nil {
		return err
	}

	t.logf("Opening %s (%d baud, %d data bits)", t.config.Device, t.config.BaudRate, t.config.DataBits)
	port, err := t.opener(t.config)
	if err != nil {
		return &ConnectionError{Op: "open", Device: t.config.Device, Err: err}
	}

	t.port = port
	t.codec = codec
	t.pending = nil
	return nil
}

// Disconnect закрывает порт. Безопасно вызывать на уже закрытом транспорте.
func (t *Transport) Disconnect() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.disconnectLocked()
}

// disconnectLocked закрывает порт (должен вызываться только под мьютексом)
func (t *Transport) disconnectLocked() error {
	if t.port == nil {
		return nil
	}
	err := t.port.Close()
	t.port = nil
	t.pending = nil
	if err != nil {
		return &ConnectionError{Op: "close", Device: t.config.Device, Err: err}
	}
	return nil
}

// Send отправляет команду устройству. Закрытый порт открывается заново перед записью.
// Команда всегда уходит завершённой ровно одним '\n'.
func (t *Transport) Send(command string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.port == nil {
		t.logf("Port %s is closed, reconnecting", t.config.Device)
		if err := t.connectLocked(); err != nil {
			return err
		}
	}

	framed := Frame(command)
	data, err := t.codec.encode(framed)
	if err != nil {
		return err
	}

	t.logf(">> TX: %s", strings.TrimRight(framed, "\n"))
	if err := t.writeLocked(data); err != nil {
		return &ConnectionError{Op: "write", Device: t.config.Device, Err: err}
	}
	return nil
}

// Frame дописывает '\n' к команде, если она им ещё не заканчивается
func Frame(command string) string {
	if strings.HasSuffix(command, "\n") {
		return command
	}
	return command + "\n"
}

type writeResult struct {
	n   int
	err error
}

// writeLocked пишет данные в порт с ограничением по времени.
// У go.bug.st/serial нет таймаута записи, поэтому запись идёт в отдельной горутине.
func (t *Transport) writeLocked(data []byte) error {
	port := t.port
	if t.config.WriteTimeout < 0 {
		return writeAll(port, data)
	}

	done := make(chan writeResult, 1)
	go func() {
		n, err := port.Write(data)
		done <- writeResult{n: n, err: err}
	}()

	timer := time.NewTimer(t.config.WriteTimeout)
	defer timer.Stop()

	select {
	case res := <-done:
		if res.err != nil {
			return res.err
		}
		if res.n != len(data) {
			return ErrShortWrite
		}
		return nil
	case <-timer.C:
		return ErrWriteTimeout
	}
}

func writeAll(w io.Writer, data []byte) error {
	n, err := w.Write(data)
	if err != nil {
		return err
	}
	if n != len(data) {
		return ErrShortWrite
	}
	return nil
}

// ReadLine возвращает следующую строку ответа вместе с её терминатором.
// Таймаут без данных и конец потока дают пустую строку без ошибки;
// таймаут после части строки отдаёт эту часть.
func (t *Transport) ReadLine() (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.port == nil {
		return "", &ConnectionError{Op: "read", Device: t.config.Device, Err: ErrPortClosed}
	}

	buf := make([]byte, readChunkSize)
	for {
		if i := bytes.IndexByte(t.pending, '\n'); i >= 0 {
			line := t.pending[:i+1]
			t.pending = append([]byte(nil), t.pending[i+1:]...)
			return t.decodeLine(line)
		}

		n, err := t.port.Read(buf)
		if n > 0 {
			t.pending = append(t.pending, buf[:n]...)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				if bytes.IndexByte(t.pending, '\n') >= 0 {
					continue
				}
				return t.flushLocked()
			}
			return "", &ConnectionError{Op: "read", Device: t.config.Device, Err: err}
		}
		if n == 0 {
			// таймаут чтения
			return t.flushLocked()
		}
	}
}

func (t *Transport) flushLocked() (string, error) {
	line := t.pending
	t.pending = nil
	if len(line) == 0 {
		t.logf("<< RX: (empty read)")
		return "", nil
	}
	return t.decodeLine(line)
}

func (t *Transport) decodeLine(raw []byte) (string, error) {
	line, err := t.codec.decode(raw)
	if err != nil {
		return "", err
	}
	t.logf("<< RX: %s", strings.TrimRight(line, "\r\n"))
	return line, nil
}

func (t *Transport) logf(format string, args ...interface{}) {
	if t.config.Logger != nil {
		t.config.Logger(fmt.Sprintf(format, args...))
	}
}
