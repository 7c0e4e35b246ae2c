package focus

import (
	"bytes"
	"errors"
	"io"
	"sync"
)

// fakePort отдаёт заранее заданные куски данных, затем таймаут (0, nil) или EOF.
type fakePort struct {
	mu       sync.Mutex
	chunks   [][]byte
	eof      bool
	readErr  error
	writeErr error
	block    chan struct{} // если не nil, Write ждёт закрытия канала
	written  bytes.Buffer
	writes   int
	closed   bool
}

func newFakePort(chunks ...string) *fakePort {
	p := &fakePort{}
	for _, c := range chunks {
		p.chunks = append(p.chunks, []byte(c))
	}
	return p
}

func (p *fakePort) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0, errors.New("port closed")
	}
	if p.readErr != nil {
		return 0, p.readErr
	}
	if len(p.chunks) == 0 {
		if p.eof {
			return 0, io.EOF
		}
		return 0, nil
	}
	n := copy(b, p.chunks[0])
	p.chunks[0] = p.chunks[0][n:]
	if len(p.chunks[0]) == 0 {
		p.chunks = p.chunks[1:]
	}
	return n, nil
}

func (p *fakePort) Write(b []byte) (int, error) {
	if p.block != nil {
		<-p.block
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.writeErr != nil {
		return 0, p.writeErr
	}
	p.writes++
	return p.written.Write(b)
}

func (p *fakePort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *fakePort) Written() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.written.String()
}

// countingOpener возвращает порты по очереди и считает вызовы
type countingOpener struct {
	ports []*fakePort
	err   error
	calls int
}

func (o *countingOpener) open(cfg Config) (Port, error) {
	o.calls++
	if o.err != nil {
		return nil, o.err
	}
	p := o.ports[0]
	if len(o.ports) > 1 {
		o.ports = o.ports[1:]
	}
	return p, nil
}
