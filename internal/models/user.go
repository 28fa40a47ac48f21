// Package models содержит доменные структуры приложения: запись о правах
// профиля, токен восстановления и записи дневника самочувствия.
package models

// Region рыночный сегмент профиля, влияет на валюту, цену и телефон доверия.
type Region string

// Допустимые регионы.
const (
	RegionIndia  Region = "INDIA"
	RegionGlobal Region = "GLOBAL"
)

// PlanType тип оплаченного плана.
type PlanType string

// Допустимые планы.
const (
	PlanMonthly PlanType = "MONTHLY"
	PlanYearly  PlanType = "YEARLY"
)

// EntitlementRecord подписанная запись о правах одного профиля.
// Ровно одна запись на пространство имён; создаётся лениво при первом
// обращении и живёт бессрочно. Поле Signature пересчитывается при каждом
// чтении и каждой записи, руками его никто не выставляет.
type EntitlementRecord struct {
	OwnerID          string    `json:"ownerId"`                    // Идентификатор профиля, неизменяем после создания
	Region           Region    `json:"region"`                     // Рыночный сегмент, меняется пользователем
	IsPremium        bool      `json:"isPremium"`                  // Флаг платного доступа
	PremiumUntil     *string   `json:"premiumUntil"`               // Включительная дата истечения YYYY-MM-DD, nil для free
	PlanType         *PlanType `json:"planType"`                   // MONTHLY или YEARLY, nil для free
	PaymentReference *string   `json:"paymentReference,omitempty"` // Непрозрачный идентификатор платежа, хранится для поддержки
	MessageCount     int       `json:"messageCount"`               // Счётчик сообщений бесплатного тарифа за день
	LastCountedDate  string    `json:"lastCountedDate"`            // Дата YYYY-MM-DD, к которой относится счётчик
	Signature        string    `json:"signature"`                  // Контрольная сумма критичных полей
}

// RecordUpdate частичное обновление записи. nil-поле означает "не менять".
// Выставление IsPremium в false дополнительно очищает PremiumUntil, PlanType
// и PaymentReference: запись не может остаться наполовину платной.
type RecordUpdate struct {
	Region           *Region
	IsPremium        *bool
	PremiumUntil     *string
	PlanType         *PlanType
	PaymentReference *string
	MessageCount     *int
	LastCountedDate  *string
}

// DummyUserUpdate используется для приёма данных PATCH /user из JSON-запроса.
// Сигнатуру клиент передать не может: поля для неё здесь нет.
type DummyUserUpdate struct {
	Region *string `json:"region,omitempty" validate:"omitempty,oneof=INDIA GLOBAL"` // Новый регион
	Cancel bool    `json:"cancel,omitempty"`                                         // Явный отказ от премиума
}

// DummyLogin используется для приёма данных POST /login.
type DummyLogin struct {
	Email string `json:"email" validate:"required,email"` // Почта — идентификатор профиля
}

// DummyConfirm используется для приёма данных POST /payment/confirm.
type DummyConfirm struct {
	PaymentID string `json:"paymentId" validate:"required"`                 // Идентификатор платежа от провайдера
	Plan      string `json:"plan" validate:"required,oneof=MONTHLY YEARLY"` // Оплаченный план
}
