package focus

import (
	"time"

	"go.bug.st/serial"
)

// Параметры порта по умолчанию: 9600 8N1, таймауты 5 секунд.
const (
	DefaultBaudRate     = 9600
	DefaultDataBits     = 8
	DefaultReadTimeout  = 5 * time.Second
	DefaultWriteTimeout = 5 * time.Second
	DefaultEncoding     = "utf-8"
)

// Config определяет параметры подключения к устройству.
type Config struct {
	Device       string           `json:"device"`
	BaudRate     int              `json:"baudRate,omitempty"`
	DataBits     int              `json:"dataBits,omitempty"`
	Parity       serial.Parity    `json:"parity,omitempty"`
	StopBits     serial.StopBits  `json:"stopBits,omitempty"`
	ReadTimeout  time.Duration    `json:"readTimeout,omitempty"`
	WriteTimeout time.Duration    `json:"writeTimeout,omitempty"`
	Encoding     string           `json:"encoding,omitempty"` // кодировка на линии, по умолчанию utf-8
	Logger       func(msg string) `json:"-"`
}

// withDefaults заполняет незаданные поля значениями по умолчанию.
// Parity и StopBits нулевыми значениями уже дают NoParity и OneStopBit.
func (c Config) withDefaults() Config {
	if c.BaudRate == 0 {
		c.BaudRate = DefaultBaudRate
	}
	if c.DataBits == 0 {
		c.DataBits = DefaultDataBits
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = DefaultWriteTimeout
	}
	if c.Encoding == "" {
		c.Encoding = DefaultEncoding
	}
	return c
}

// mode возвращает режим порта для go.bug.st/serial.
func (c Config) mode() *serial.Mode {
	return &serial.Mode{
		BaudRate: c.BaudRate,
		DataBits: c.DataBits,
		Parity:   c.Parity,
		StopBits: c.StopBits,
	}
}
