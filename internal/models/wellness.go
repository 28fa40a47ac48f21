package models

// Роли сообщений чата.
const (
	ChatRoleUser  = "user"
	ChatRoleModel = "model"
)

// MoodLog одна запись настроения.
type MoodLog struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"` // Unix-время в миллисекундах
	Score     int    `json:"score"`     // Оценка настроения 1-5
	Note      string `json:"note,omitempty"`
}

// ChatMessage одно сообщение переписки с компаньоном.
type ChatMessage struct {
	ID        string `json:"id"`
	Role      string `json:"role"` // "user" или "model"
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// JournalEntry одна запись микродневника.
type JournalEntry struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// DummyMood используется для приёма данных POST /moods.
type DummyMood struct {
	Score int    `json:"score" validate:"required,min=1,max=5"` // Оценка настроения
	Note  string `json:"note,omitempty" validate:"max=500"`     // Необязательная заметка
}

// DummyJournal используется для приёма данных POST /journal.
type DummyJournal struct {
	Text string `json:"text" validate:"required,max=2000"` // Текст записи
}

// DummyChat используется для приёма данных POST /chat.
type DummyChat struct {
	Message string `json:"message" validate:"required,max=2000"` // Сообщение пользователя
}

// DummyRestore используется для приёма данных POST /user/restore.
type DummyRestore struct {
	Token string `json:"token" validate:"required"` // Токен восстановления
}
