package console

import (
	"context"
	"errors"
	"io"
)

// fakeDevice - устройство со сценарием строк ответа
type fakeDevice struct {
	connected   bool
	connectErr  error
	sendErr     error
	readErr     error
	lines       []string
	sent        []string
	connects    int
	disconnects int
	reads       int
}

func (d *fakeDevice) Device() string { return "/dev/fake" }

func (d *fakeDevice) Connect() error {
	if d.connected {
		return nil
	}
	d.connects++
	if d.connectErr != nil {
		return d.connectErr
	}
	d.connected = true
	return nil
}

func (d *fakeDevice) Disconnect() error {
	if d.connected {
		d.disconnects++
	}
	d.connected = false
	return nil
}

func (d *fakeDevice) IsConnected() bool { return d.connected }

func (d *fakeDevice) Send(command string) error {
	if err := d.Connect(); err != nil {
		return err
	}
	if d.sendErr != nil {
		return d.sendErr
	}
	d.sent = append(d.sent, command)
	return nil
}

func (d *fakeDevice) ReadLine() (string, error) {
	d.reads++
	if d.readErr != nil {
		return "", d.readErr
	}
	if len(d.lines) == 0 {
		return "", nil
	}
	line := d.lines[0]
	d.lines = d.lines[1:]
	return line, nil
}

// scriptedInput отдаёт строки по порядку, затем io.EOF
type scriptedInput struct {
	lines []string
}

func (in *scriptedInput) ReadLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(in.lines) == 0 {
		return "", io.EOF
	}
	line := in.lines[0]
	in.lines = in.lines[1:]
	return line, nil
}

// blockingInput ждёт отмены контекста, как терминал без ввода
type blockingInput struct {
	waiting chan struct{}
}

func (in *blockingInput) ReadLine(ctx context.Context) (string, error) {
	close(in.waiting)
	<-ctx.Done()
	return "", ctx.Err()
}

type memHistory struct {
	entries []string
	err     error
}

func (h *memHistory) Entries() []string { return h.entries }

func (h *memHistory) Append(line string) error {
	if h.err != nil {
		return h.err
	}
	h.entries = append(h.entries, line)
	return nil
}

var errBoom = errors.New("boom")
