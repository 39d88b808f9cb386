package view

import (
	"fmt"
	"strings"
	"time"

	"tg_garant/internal/domain/entity"
	"tg_garant/internal/domain/value"
)

// Тексты панелей. Ключи одни на оба языка; английский словарь пока
// зеркалит русский, поэтому словарь один.
const (
	Hello = "👋 <b>MoonGarant</b> — ваш надёжный выбор для сделок с цифровыми подарками и NFT в Telegram.\n\n" +
		"• Создавайте ордера за пару шагов\n" +
		"• Делитесь безопасной ссылкой для продавца\n" +
		"• Авто-таймеры: ссылка — 30 мин, подтверждение — 15 мин\n" +
		"• Красивые карточки и удобные кнопки\n\n" +
		"Выберите действие ниже:"

	WalletEnter   = "👛 <b>Кошелёк</b>\nОтправьте адрес вашего TON-кошелька."
	WalletInvalid = "⚠️ Похоже, это не TON-адрес. Попробуйте снова."
	DealExpired   = "⏳ Срок действия ордера истёк."

	SellerIntro         = "👋 Вы приглашены к сделке в <b>MoonGarant</b>. Сначала отправьте ваш TON-кошелёк."
	SellerWalletOK      = "✅ Адрес кошелька принят.\nНажмите <b>«Принять ордер»</b>, чтобы начать."
	SellerStopped       = "⛔️ Продавец остановил ордер. Сделка отменена."
	SellerConfirmedWait = "✅ Отправка подарков подтверждена.\n⌛ <b>Ожидайте оплату, не более 15 минут...</b>"
	SellerFinalNeeded   = "💳 Покупатель отметил оплату.\nЕсли получили средства — нажмите «Подтвердить получение оплаты»."
	SellerFinalDone     = "🎉 Оплата подтверждена. Сделка завершена!"
	Processing          = "⏳ Обработка подтверждения..."

	BuyerWaitConfirm = "⌛ Ожидайте подтверждения получения оплаты продавцом."

	AskTitle = "Введите <b>название</b> ордера."
	AskDesc  = "Введите <b>описание</b> ордера (содержание подарков)."
	AskUser  = "Укажите <b>@username</b> покупателя."
	BadPrice = "⚠️ Нужно число (можно с точкой)."
	BadUser  = "⚠️ Укажите username в формате <code>@username</code>."

	CurrentTitle = "🟡 <b>Текущая сделка</b>"
	HistoryTitle = "🗂 <b>История сделок</b> (последние 10)"
	NoHistory    = "Пока нет завершённых сделок."

	AdminTitle     = "🛡️ <b>Admin Panel</b>\nВыберите действие:"
	AdminEnterUser = "Отправьте @username или числовой ID пользователя."
	AdminNoLog     = "Нет записей чата для этого пользователя."
	AdminPurged    = "🧹 Удаление завершено. Что смог — удалил."
	AdminUserMiss  = "Не нашёл пользователя. Введите @username или ID ещё раз."
	NotAdmin       = "Доступ ограничен."

	MemoUnavailable = "MEMO недоступен."
	DealUnavailable = "Ордер недоступен."
	ActionDenied    = "Недоступно."
	WalletFirst     = "Сначала укажите кошелёк."
	PayMethodSet    = "Метод оплаты обновлён"
)

var langNames = map[value.Lang]string{ //nolint:gochecknoglobals
	value.LangRU: "русский",
	value.LangEN: "english",
}

func WalletSaved(addr string) string {
	return fmt.Sprintf("✅ Кошелёк сохранён: <code>%s</code>", addr)
}

func SettingsPrompt(lang value.Lang, method value.SettleMethod) string {
	return fmt.Sprintf(
		"⚙️ <b>Настройки</b>\n\n"+
			"Текущий язык: <b>%s</b>\n"+
			"Текущий метод оплаты: <b>%s</b>\n\n"+
			"Выберите метод ниже:",
		langNames[lang.OrDefault()], method,
	)
}

func AskPrice(method value.SettleMethod) string {
	if method.IsExchange() {
		return "Укажите <b>условия обмена</b> в формате: <code>100 STARS -> 12 TON</code>."
	}
	return fmt.Sprintf("Введите <b>цену</b> в %s (например: <code>12.5</code>).", method)
}

// WizardPrompt — текст очередного шага мастера.
func WizardPrompt(step int, method value.SettleMethod) string {
	switch step {
	case entity.DraftStepTitle:
		return AskTitle
	case entity.DraftStepDescription:
		return AskDesc
	case entity.DraftStepPrice:
		return AskPrice(method)
	case entity.DraftStepRecipient:
		return AskUser
	}
	return "..."
}

// FinalCard — карточка ордера на стороне покупателя, со ссылкой.
func FinalCard(d entity.Deal) string {
	if d.IsExchange() {
		return fmt.Sprintf(
			"🧾 <b>Детали ордера</b>\n\n"+
				"<b>Название:</b> %s\n"+
				"<b>Описание:</b> %s\n"+
				"<b>Обмен:</b> %s\n"+
				"<b>Куда отправить NFT:</b> %s\n\n"+
				"После перехода продавца по ссылке у него будет <b>15 минут</b> на подтверждение отправки.\n\n"+
				"<b>Ссылка:</b> %s",
			d.Title, d.Description, d.ExchangeTerms, d.TargetRecipient, d.DeepLink,
		)
	}
	return fmt.Sprintf(
		"🧾 <b>Детали ордера</b>\n\n"+
			"<b>Название:</b> %s\n"+
			"<b>Описание:</b> %s\n"+
			"<b>Цена:</b> %g %s\n"+
			"<b>Куда отправить NFT:</b> %s\n\n"+
			"После перехода продавца по ссылке у него будет <b>15 минут</b> на подтверждение отправки.\n\n"+
			"<b>Ссылка:</b> %s",
		d.Title, d.Description, d.PriceValue, d.Method, d.TargetRecipient, d.DeepLink,
	)
}

// SellerDetails — карточка ордера на стороне продавца.
func SellerDetails(d entity.Deal) string {
	return fmt.Sprintf(
		"🧾 <b>Ордер</b>\n"+
			"<b>Название:</b> %s\n"+
			"<b>Описание:</b> %s\n"+
			"<b>Цена/условия:</b> %s\n"+
			"<b>Отправить NFT (покупателю):</b> %s\n\n"+
			"После передачи нажмите «Я перевёл(а) подарки».",
		d.Title, d.Description, d.PriceLabel(), d.TargetRecipient,
	)
}

// BuyerPayPrompt — уведомление покупателя после подтверждения отправки:
// кошелёк продавца и MEMO-код.
func BuyerPayPrompt(d entity.Deal) string {
	header := fmt.Sprintf("✅ Продавец подтвердил отправку по ордеру <b>%s</b>.\n\n", d.Title)

	priceLine := fmt.Sprintf("<b>Цена:</b> %g %s", d.PriceValue, d.Method)
	if d.IsExchange() {
		priceLine = fmt.Sprintf("<b>Обмен:</b> %s", d.ExchangeTerms)
	}

	return header + fmt.Sprintf(
		"🧾 <b>Детали ордера</b>\n"+
			"<b>Название:</b> %s\n"+
			"<b>Описание:</b> %s\n"+
			"%s\n"+
			"<b>Куда отправить NFT:</b> %s\n\n"+
			"💳 <b>Оплата</b>\n"+
			"<b>Кошелёк продавца:</b> <code>%s</code>\n"+
			"<b>Комментарий/MEMO:</b> <code>%s</code>\n\n"+
			"⚠️ <b>Внимание!</b> Укажите <b>комментарий/MEMO</b> при переводе: <code>%s</code> — иначе оплата не будет засчитана!",
		d.Title, d.Description, priceLine, d.TargetRecipient, d.SellerWallet, d.Memo, d.Memo,
	)
}

func BuyerDealStopped(d entity.Deal) string {
	return fmt.Sprintf("⛔️ Продавец остановил ордер <b>%s</b>.", d.Title)
}

func BuyerDealDone(d entity.Deal) string {
	return fmt.Sprintf("✅ Продавец подтвердил отправку по ордеру <b>%s</b>.", d.Title)
}

// HistoryList — последние завершённые сделки, свежие первыми.
func HistoryList(items []entity.Deal) string {
	if len(items) == 0 {
		return HistoryTitle + "\n" + NoHistory
	}

	var sb strings.Builder
	sb.WriteString(HistoryTitle + "\n\n")

	for i, d := range items {
		sb.WriteString(fmt.Sprintf("%d. <b>%s</b> — %s — %s — %s\n",
			i+1, d.Title, d.PriceLabel(), d.Status, d.CreatedAt.Local().Format("02.01 15:04")))
	}

	return sb.String()
}

// AdminRecent — админская сводка по последним сделкам.
func AdminRecent(items []entity.Deal, username func(int64) string) string {
	if len(items) == 0 {
		return "📊 <b>Последние сделки</b>\nНет данных."
	}

	var sb strings.Builder
	sb.WriteString("📊 <b>Последние сделки</b>\n\n")

	for _, d := range items {
		seller := "-"
		if d.HasSeller() {
			seller = username(d.SellerID)
		}

		sb.WriteString(fmt.Sprintf(
			"<b>#%s</b> — %s — %s\n🏷 %s\n👤 buyer: %s • seller: %s\n\n",
			d.ID, d.Status, d.PriceLabel(), d.Title, username(d.CreatorID), seller,
		))
	}

	return sb.String()
}

// ChatLogEntry — одна строка истории чата пользователя.
func ChatLogEntry(ts time.Time, fromUser bool, text string) string {
	prefix := "🤖"
	if fromUser {
		prefix = "👤"
	}

	text = strings.TrimSpace(text)
	if len(text) > 500 {
		text = text[:500] + "…"
	}

	return fmt.Sprintf("%s %s %s", ts.Local().Format("02.01 15:04:05"), prefix, text)
}

func PurgeDone(removed int) string {
	return fmt.Sprintf("🧹 Удалено сообщений: <b>%d</b>\n\n%s", removed, AdminPurged)
}

// ShareMessage — текст, который уходит в чат при инлайн-шаринге ссылки.
func ShareMessage(d entity.Deal) string {
	return d.DeepLink + "\n\nMoonGarant - ваш выбор в проведении сделок!"
}

func ShareDescription(d entity.Deal) string {
	return d.PriceLabel() + " • " + d.TargetRecipient
}
