// Package sl содержит вспомогательные функции для работы с логгером slog.
// Основная цель - единообразно формировать поля лога: ошибку и имя операции.
package sl

import "log/slog"

// Err возвращает slog.Attr с ключом "error" и значением текста ошибки.
// Для nil возвращается пустая строка.
//
// Пример:
//
//	log.Error("failed to do something", sl.Err(err))
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// Op возвращает атрибут с именем операции, например "handlers.auth.login".
func Op(op string) slog.Attr {
	return slog.String("op", op)
}
