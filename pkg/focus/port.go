package focus

import (
	"io"

	"go.bug.st/serial"
)

// Port - минимальный интерфейс открытого порта, который нужен транспорту.
type Port interface {
	io.ReadWriteCloser
}

// Opener открывает порт по конфигурации. Позволяет подменить serial.Open в тестах.
type Opener func(cfg Config) (Port, error)

// OpenSerial открывает последовательный порт с режимом и таймаутом чтения из cfg.
func OpenSerial(cfg Config) (Port, error) {
	p, err := serial.Open(cfg.Device, cfg.mode())
	if err != nil {
		return nil, err
	}
	if err := p.SetReadTimeout(cfg.ReadTimeout); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}
