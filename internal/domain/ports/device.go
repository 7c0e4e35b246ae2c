package ports

// Device определяет соединение с устройством, которым управляет консоль.
// Реализация (pkg/focus.Transport) находится в слое Infrastructure.
type Device interface {
	// Device возвращает путь к устройству
	Device() string

	// Connect открывает соединение
	Connect() error

	// Disconnect закрывает соединение; повторный вызов безопасен
	Disconnect() error

	// IsConnected сообщает, открыто ли соединение
	IsConnected() bool

	// Send отправляет команду, при необходимости переподключаясь
	Send(command string) error

	// ReadLine читает одну строку ответа; пустая строка - пустое чтение
	ReadLine() (string, error)
}
