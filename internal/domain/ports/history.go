package ports

// History определяет хранилище истории команд оператора.
type History interface {
	// Entries возвращает загруженные записи, от старых к новым
	Entries() []string

	// Append дописывает команду в историю
	Append(line string) error
}
