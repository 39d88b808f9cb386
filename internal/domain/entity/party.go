package entity

import "tg_garant/internal/domain/value"

// Party — эфемерный профиль участника. Создаётся лениво при первом
// контакте и живёт до конца процесса.
type Party struct {
	ID       int64
	Username string // "@handle" либо "id<N>", когда username скрыт
	Lang     value.Lang
	Wallet   string
	Method   value.SettleMethod

	// WarningRef — ссылка на единственное видимое предупреждение
	// (message id). Новое предупреждение вытесняет старое.
	WarningRef int
}
