package handler

import (
	th "github.com/mymmrac/telego/telegohandler"

	"tg_garant/internal/transport/bot/middleware"
)

func (h *Handler) RegisterRoutes(bh *th.BotHandler) {
	// Команды — до общего текстового диспетчера, порядок важен.
	bh.HandleMessage(h.OnStart, th.CommandEqual("start"))
	bh.HandleMessage(h.OnAdmin, th.CommandEqual("admin"))
	bh.HandleMessage(h.OnText, th.AnyMessage())

	// Меню и настройки
	bh.HandleCallbackQuery(h.OnMenu, th.CallbackDataEqual("menu"))
	bh.HandleCallbackQuery(h.OnSettings, th.CallbackDataEqual("settings"))
	bh.HandleCallbackQuery(h.OnSetLang, th.CallbackDataEqual("lang_ru"))
	bh.HandleCallbackQuery(h.OnSetLang, th.CallbackDataEqual("lang_en"))
	bh.HandleCallbackQuery(h.OnSetPayMethod, th.CallbackDataPrefix("pay:"))
	bh.HandleCallbackQuery(h.OnWallet, th.CallbackDataEqual("wallet"))

	// Мастер создания
	bh.HandleCallbackQuery(h.OnCreate, th.CallbackDataEqual("create"))
	bh.HandleCallbackQuery(h.OnCreatePrev, th.CallbackDataEqual("create_prev"))
	bh.HandleCallbackQuery(h.OnCreateCancel, th.CallbackDataEqual("create_cancel"))

	// Сделки
	bh.HandleCallbackQuery(h.OnCurrent, th.CallbackDataEqual("current"))
	bh.HandleCallbackQuery(h.OnHistory, th.CallbackDataEqual("history"))
	bh.HandleCallbackQuery(h.OnDealAction, th.CallbackDataPrefix("deal:"))
	bh.HandleCallbackQuery(h.OnCopyMemo, th.CallbackDataPrefix("memo:"))
	bh.HandleCallbackQuery(h.OnPaid, th.CallbackDataPrefix("paid:"))
	bh.HandleCallbackQuery(h.OnFinish, th.CallbackDataPrefix("finish:"))

	// Инлайн-шаринг ссылки на сделку
	bh.HandleInlineQuery(h.OnInlineShare, th.AnyInlineQuery())

	// Админка
	adminGroup := bh.Group(th.AnyCallbackQuery())
	adminGroup.Use(middleware.AdminOnly(h.adminID))
	adminGroup.HandleCallbackQuery(h.OnAdminPanel, th.CallbackDataEqual("admin_panel"))
	adminGroup.HandleCallbackQuery(h.OnAdminRecent, th.CallbackDataEqual("admin_recent"))
	adminGroup.HandleCallbackQuery(h.OnAdminChatLog, th.CallbackDataEqual("admin_chatlog"))
	adminGroup.HandleCallbackQuery(h.OnAdminPurge, th.CallbackDataEqual("admin_purge"))
	adminGroup.HandleCallbackQuery(h.OnAdminBack, th.CallbackDataEqual("admin_back"))
	adminGroup.HandleCallbackQuery(h.OnAdminBack, th.CallbackDataEqual("admin_back_menu"))
}
