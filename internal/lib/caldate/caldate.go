// Package caldate реализует работу с календарными датами в каноническом
// формате YYYY-MM-DD. Формат фиксированной ширины с ведущими нулями,
// поэтому сравнение дат — это обычное лексикографическое сравнение строк.
// Часы передаются явно, чтобы тесты могли детерминированно симулировать
// истечение подписки и суточный сброс счётчика.
package caldate

import "time"

// Layout канонический формат даты без компонента времени.
const Layout = "2006-01-02"

// Clock возвращает текущее время. Продакшен использует SystemClock,
// тесты — фиксированную дату.
type Clock interface {
	Now() time.Time
}

// SystemClock отдаёт системное время.
type SystemClock struct{}

// Now возвращает текущее системное время.
func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock всегда возвращает одно и то же время.
type FixedClock struct {
	Time time.Time
}

// Now возвращает зафиксированное время.
func (f FixedClock) Now() time.Time { return f.Time }

// Today возвращает сегодняшнюю дату по локальному календарю в каноническом формате.
func Today(c Clock) string {
	return c.Now().Format(Layout)
}

// Valid сообщает, является ли строка корректной датой в каноническом формате.
func Valid(s string) bool {
	_, err := time.Parse(Layout, s)
	return err == nil
}

// Before сравнивает две канонические даты. Сравнение строковое и корректно
// только потому, что формат фиксированной ширины с ведущими нулями.
func Before(a, b string) bool {
	return a < b
}

// ShiftMonths возвращает дату через указанное количество месяцев от сегодняшней.
func ShiftMonths(c Clock, months int) string {
	return c.Now().AddDate(0, months, 0).Format(Layout)
}
