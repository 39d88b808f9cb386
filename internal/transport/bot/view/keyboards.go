package view

import (
	"fmt"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"tg_garant/internal/domain/entity"
	"tg_garant/internal/domain/value"
)

func MainMenu(lang value.Lang, hasActive, hasHistory, isAdmin bool) *telego.InlineKeyboardMarkup {
	labels := [...]string{"⚙️ Настройки", "👛 Кошелёк", "📦 Создать сделку", "🟡 Текущая сделка", "🗂 История сделок"}
	if lang.OrDefault() == value.LangEN {
		labels = [...]string{"⚙️ Settings", "👛 Wallet", "📦 Create deal", "🟡 Current deal", "🗂 Deal history"}
	}

	rows := [][]telego.InlineKeyboardButton{
		{tu.InlineKeyboardButton(labels[0]).WithCallbackData("settings")},
		{tu.InlineKeyboardButton(labels[1]).WithCallbackData("wallet")},
		{tu.InlineKeyboardButton(labels[2]).WithCallbackData("create")},
	}

	if hasActive {
		rows = append(rows, []telego.InlineKeyboardButton{
			tu.InlineKeyboardButton(labels[3]).WithCallbackData("current"),
		})
	}

	if hasHistory {
		rows = append(rows, []telego.InlineKeyboardButton{
			tu.InlineKeyboardButton(labels[4]).WithCallbackData("history"),
		})
	}

	if isAdmin {
		rows = append(rows, []telego.InlineKeyboardButton{
			tu.InlineKeyboardButton("🛡️ Admin").WithCallbackData("admin_panel"),
		})
	}

	return tu.InlineKeyboard(rows...)
}

func BackToMenu() *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(tu.InlineKeyboardButton("↩️ В меню").WithCallbackData("menu")),
	)
}

func Settings() *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("RUB").WithCallbackData("pay:RUB"),
			tu.InlineKeyboardButton("USD").WithCallbackData("pay:USD"),
			tu.InlineKeyboardButton("KZT").WithCallbackData("pay:KZT"),
		),
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("⭐ STARS").WithCallbackData("pay:STARS"),
		),
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("TON").WithCallbackData("pay:TON"),
			tu.InlineKeyboardButton("🔁 Обмен").WithCallbackData("pay:EXCHANGE"),
		),
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("🇷🇺 Русский").WithCallbackData("lang_ru"),
			tu.InlineKeyboardButton("🇬🇧 English").WithCallbackData("lang_en"),
		),
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("↩️ В меню / Menu").WithCallbackData("menu"),
		),
	)
}

// WizardNav — навигация мастера: "назад" появляется со второго шага.
func WizardNav(step int) *telego.InlineKeyboardMarkup {
	var rows [][]telego.InlineKeyboardButton

	if step > entity.DraftStepTitle {
		rows = append(rows, []telego.InlineKeyboardButton{
			tu.InlineKeyboardButton("⬅️ Пред").WithCallbackData("create_prev"),
		})
	}

	rows = append(rows,
		[]telego.InlineKeyboardButton{tu.InlineKeyboardButton("⛔️ Отменить").WithCallbackData("create_cancel")},
		[]telego.InlineKeyboardButton{tu.InlineKeyboardButton("↩️ В меню").WithCallbackData("menu")},
	)

	return tu.InlineKeyboard(rows...)
}

// FinalActions — кнопки карточки созданного ордера. Кнопка "отправить"
// открывает выбор чата и подставляет инлайн-запрос deal_<id>.
func FinalActions(id value.DealID) *telego.InlineKeyboardMarkup {
	share := tu.InlineKeyboardButton("📩 Отправить продавцу").
		WithSwitchInlineQueryChosenChat(&telego.SwitchInlineQueryChosenChat{
			Query:           "deal_" + id.String(),
			AllowUserChats:  true,
			AllowGroupChats: true,
		})

	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(share),
		tu.InlineKeyboardRow(tu.InlineKeyboardButton("⛔️ Отменить ордер").WithCallbackData(dealAction(id, "stop"))),
		tu.InlineKeyboardRow(tu.InlineKeyboardButton("↩️ В меню").WithCallbackData("menu")),
	)
}

func AcceptOrder(id value.DealID) *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(tu.InlineKeyboardButton("✅ Принять ордер").WithCallbackData(dealAction(id, "accept"))),
		tu.InlineKeyboardRow(tu.InlineKeyboardButton("↩️ В меню").WithCallbackData("menu")),
	)
}

func SellerControls(id value.DealID) *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(tu.InlineKeyboardButton("⛔️ Остановить ордер").WithCallbackData(dealAction(id, "stop"))),
		tu.InlineKeyboardRow(tu.InlineKeyboardButton("✅ Я перевёл(а) подарки").WithCallbackData(dealAction(id, "confirm"))),
	)
}

func BuyerPay(id value.DealID) *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(tu.InlineKeyboardButton("📋 Скопировать MEMO").WithCallbackData("memo:"+id.String())),
		tu.InlineKeyboardRow(tu.InlineKeyboardButton("✅ Подтвердить оплату").WithCallbackData("paid:"+id.String())),
		tu.InlineKeyboardRow(tu.InlineKeyboardButton("↩️ В меню").WithCallbackData("menu")),
	)
}

func SellerFinal(id value.DealID) *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(tu.InlineKeyboardButton("✅ Подтвердить получение оплаты").WithCallbackData("finish:"+id.String())),
		tu.InlineKeyboardRow(tu.InlineKeyboardButton("↩️ В меню").WithCallbackData("menu")),
	)
}

func AdminPanel() *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(tu.InlineKeyboardButton("📊 Последние сделки").WithCallbackData("admin_recent")),
		tu.InlineKeyboardRow(tu.InlineKeyboardButton("🕓 История чата пользователя").WithCallbackData("admin_chatlog")),
		tu.InlineKeyboardRow(tu.InlineKeyboardButton("🧹 Удалить сообщения пользователя").WithCallbackData("admin_purge")),
		tu.InlineKeyboardRow(tu.InlineKeyboardButton("↩️ В меню").WithCallbackData("admin_back_menu")),
	)
}

func AdminBack() *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(tu.InlineKeyboardButton("↩️ Назад в панель").WithCallbackData("admin_back")),
	)
}

func dealAction(id value.DealID, action string) string {
	return fmt.Sprintf("deal:%s:%s", id, action)
}
