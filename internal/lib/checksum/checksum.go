// Package checksum реализует детерминированное подписывание упорядоченного
// кортежа строковых полей короткой сигнатурой. Поля соединяются фиксированным
// разделителем, к ним добавляется общая соль, после чего выполняется один
// проход несложного катящегося хэша (DJB2: аккумулятор 5381, умножение на 33
// и сложение с кодом символа) по последовательности UTF-16 кодов. Результат
// выводится в системе счисления с основанием 36.
//
// Это осознанно НЕ криптография: сигнатура защищает от правки сохранённых
// данных "руками", а не от пользователя, который знает соль и алгоритм.
package checksum

import (
	"strconv"
	"strings"
	"unicode/utf16"
)

// Delimiter разделитель полей канонического кортежа. Не должен встречаться
// внутри значений полей.
const Delimiter = "|"

// salt общая соль, добавляемая в конец подписываемой строки.
const salt = "RELIEF_ANCHOR_v1_SECURE_HASH_9988"

// Sign подписывает упорядоченный кортеж полей. Идентичный вход всегда даёт
// идентичный выход; изменение одного символа в любом поле с высокой
// вероятностью меняет сигнатуру. Сравнение сигнатур — обычное сравнение строк.
func Sign(fields ...string) string {
	payload := strings.Join(fields, Delimiter) + Delimiter + salt

	var hash int32 = 5381
	for _, cu := range utf16.Encode([]rune(payload)) {
		hash = hash*33 + int32(cu)
	}
	return strconv.FormatInt(int64(hash), 36)
}

// Canon нормализует отсутствующее значение к пустой строке, чтобы сигнатура
// была стабильна между циклами сериализации: nil никогда не превращается
// в слова "null" или "undefined".
func Canon(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// CanonBool приводит булево поле к каноническому строковому виду.
func CanonBool(b bool) string {
	return strconv.FormatBool(b)
}
