package ports

// Logger определяет интерфейс для абстракции логирования.
// Сообщения форматируются в стиле fmt.Printf.
type Logger interface {
	// Debug выводит отладочную информацию
	Debug(msg string, args ...interface{})

	// Info выводит информационные сообщения
	Info(msg string, args ...interface{})

	// Warn выводит предупреждения
	Warn(msg string, args ...interface{})

	// Error выводит ошибки
	Error(msg string, args ...interface{})
}
