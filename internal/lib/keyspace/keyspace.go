// Package keyspace отвечает за изоляцию профилей в хранилище: отображает
// идентификатор владельца в набор ключей, под которыми лежат его данные.
// Два разных профиля на одном устройстве никогда не пересекаются по ключам.
//
// Идентификатор нормализуется: приводится к нижнему регистру, всё вне
// безопасного алфавита отбрасывается. Совпадение ключей для идентификаторов,
// различающихся только регистром, — ожидаемое поведение: почтовые адреса
// по соглашению регистронезависимы.
package keyspace

import "strings"

// Префиксы ключей хранилища. Суффикс — нормализованный идентификатор владельца.
const (
	prefixUser    = "relief_anchor_user:"
	prefixMoods   = "relief_anchor_moods:"
	prefixChat    = "relief_anchor_chat:"
	prefixJournal = "relief_anchor_journal:"

	// SessionKey единственный ненамespaced ключ: указатель на активный профиль.
	SessionKey = "relief_anchor_session"
)

// Keys набор ключей хранилища одного профиля.
type Keys struct {
	User    string
	Moods   string
	Chat    string
	Journal string
}

// Normalize приводит идентификатор владельца к каноническому виду:
// нижний регистр, только символы безопасного алфавита [a-z0-9@._+-].
func Normalize(ownerID string) string {
	lower := strings.ToLower(strings.TrimSpace(ownerID))
	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '@' || r == '.' || r == '_' || r == '+' || r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Derive возвращает набор ключей хранилища для владельца.
func Derive(ownerID string) Keys {
	owner := Normalize(ownerID)
	return Keys{
		User:    prefixUser + owner,
		Moods:   prefixMoods + owner,
		Chat:    prefixChat + owner,
		Journal: prefixJournal + owner,
	}
}
