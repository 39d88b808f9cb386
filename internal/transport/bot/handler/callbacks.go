package handler

import (
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"tg_garant/internal/domain"
	"tg_garant/internal/domain/value"
	"tg_garant/internal/transport/bot/view"
	"tg_garant/pkg/errcodes"
	"tg_garant/pkg/logx"
)

func (h *Handler) OnMenu(ctx *th.Context, query telego.CallbackQuery) error {
	userID := query.From.ID
	chatID := query.Message.GetChat().ID

	h.clearSession(userID)
	h.clearWarning(ctx, userID, chatID)
	h.panels.ClearFlow(ctx, chatID)

	defer h.answer(ctx, query.ID)

	return h.showMainMenu(ctx, userID, chatID)
}

// ---------- Настройки ----------

func (h *Handler) OnSettings(ctx *th.Context, query telego.CallbackQuery) error {
	defer h.answer(ctx, query.ID)
	return h.showSettings(ctx, query.From.ID, query.Message.GetChat().ID)
}

func (h *Handler) OnSetLang(ctx *th.Context, query telego.CallbackQuery) error {
	lang := value.LangRU
	if strings.HasSuffix(query.Data, "en") {
		lang = value.LangEN
	}

	h.parties.SetLang(query.From.ID, lang)

	defer h.answer(ctx, query.ID)

	return h.showSettings(ctx, query.From.ID, query.Message.GetChat().ID)
}

func (h *Handler) OnSetPayMethod(ctx *th.Context, query telego.CallbackQuery) error {
	raw := strings.TrimPrefix(query.Data, "pay:")

	method, ok := value.ParseSettleMethod(raw)
	if !ok {
		return h.alert(ctx, query.ID, view.ActionDenied)
	}

	h.parties.SetMethod(query.From.ID, method)

	defer func() {
		_ = ctx.Bot().AnswerCallbackQuery(ctx, tu.CallbackQuery(query.ID).WithText(view.PayMethodSet))
	}()

	return h.showSettings(ctx, query.From.ID, query.Message.GetChat().ID)
}

func (h *Handler) showSettings(ctx *th.Context, userID, chatID int64) error {
	party := h.parties.Get(userID)
	return h.panels.Show(ctx, chatID, view.SettingsPrompt(party.Lang, party.Method), view.Settings())
}

func (h *Handler) OnWallet(ctx *th.Context, query telego.CallbackQuery) error {
	h.setSession(query.From.ID, session{State: stateAwaitWallet})

	defer h.answer(ctx, query.ID)

	return h.panels.Show(ctx, query.Message.GetChat().ID, view.WalletEnter, view.BackToMenu())
}

// ---------- Мастер создания ----------

func (h *Handler) OnCreate(ctx *th.Context, query telego.CallbackQuery) error {
	h.rememberUser(&query.From)

	userID := query.From.ID
	chatID := query.Message.GetChat().ID

	draft := h.drafts.Start(ctx, userID)
	h.setSession(userID, session{State: stateCreating})

	defer h.answer(ctx, query.ID)

	method := h.parties.Get(userID).Method

	return h.panels.Show(ctx, chatID, view.WizardPrompt(draft.Step, method), view.WizardNav(draft.Step))
}

func (h *Handler) OnCreatePrev(ctx *th.Context, query telego.CallbackQuery) error {
	userID := query.From.ID

	draft, err := h.drafts.Prev(ctx, userID)
	if err != nil {
		return h.alert(ctx, query.ID, view.ActionDenied)
	}

	defer h.answer(ctx, query.ID)

	method := h.parties.Get(userID).Method

	return h.panels.Show(ctx, query.Message.GetChat().ID,
		view.WizardPrompt(draft.Step, method), view.WizardNav(draft.Step))
}

func (h *Handler) OnCreateCancel(ctx *th.Context, query telego.CallbackQuery) error {
	userID := query.From.ID
	chatID := query.Message.GetChat().ID

	h.drafts.Cancel(ctx, userID)
	h.clearSession(userID)
	h.panels.ClearFlow(ctx, chatID)

	defer h.answer(ctx, query.ID)

	return h.showMainMenu(ctx, userID, chatID)
}

// ---------- Текущая сделка / история ----------

func (h *Handler) OnCurrent(ctx *th.Context, query telego.CallbackQuery) error {
	userID := query.From.ID
	chatID := query.Message.GetChat().ID

	defer h.answer(ctx, query.ID)

	active := h.deals.ActiveDeals(ctx, userID)
	if len(active) == 0 {
		return h.showMainMenu(ctx, userID, chatID)
	}

	d := active[0]

	return h.panels.Show(ctx, chatID, view.CurrentTitle+"\n\n"+view.FinalCard(d), view.FinalActions(d.ID))
}

func (h *Handler) OnHistory(ctx *th.Context, query telego.CallbackQuery) error {
	defer h.answer(ctx, query.ID)

	items := h.deals.History(ctx, query.From.ID, historyShown)

	return h.panels.Show(ctx, query.Message.GetChat().ID, view.HistoryList(items), view.BackToMenu())
}

// ---------- Действия по сделке ----------

// OnDealAction разбирает deal:<id>:<accept|stop|confirm>.
func (h *Handler) OnDealAction(ctx *th.Context, query telego.CallbackQuery) error {
	h.rememberUser(&query.From)

	parts := strings.Split(query.Data, ":")
	if len(parts) != 3 {
		return h.alert(ctx, query.ID, view.ActionDenied)
	}

	id, err := value.ParseDealID(parts[1])
	if err != nil {
		return h.alert(ctx, query.ID, view.DealUnavailable)
	}

	chatID := query.Message.GetChat().ID

	switch parts[2] {
	case "accept":
		return h.dealAccept(ctx, query, id, chatID)
	case "stop":
		return h.dealStop(ctx, query, id, chatID)
	case "confirm":
		return h.dealConfirm(ctx, query, id, chatID)
	default:
		return h.alert(ctx, query.ID, view.ActionDenied)
	}
}

func (h *Handler) dealAccept(ctx *th.Context, query telego.CallbackQuery, id value.DealID, chatID int64) error {
	d, err := h.deals.AcceptOrder(ctx, query.From.ID, id)
	if err != nil {
		return h.dealActionError(ctx, query, chatID, err)
	}

	defer h.answer(ctx, query.ID)

	return h.panels.Show(ctx, chatID, view.SellerDetails(d), view.SellerControls(d.ID))
}

func (h *Handler) dealStop(ctx *th.Context, query telego.CallbackQuery, id value.DealID, chatID int64) error {
	if _, err := h.deals.Stop(ctx, query.From.ID, id); err != nil {
		return h.dealActionError(ctx, query, chatID, err)
	}

	defer h.answer(ctx, query.ID)

	return h.panels.Show(ctx, chatID, view.SellerStopped, view.BackToMenu())
}

func (h *Handler) dealConfirm(ctx *th.Context, query telego.CallbackQuery, id value.DealID, chatID int64) error {
	// Карточка сменяется на "обработку" до паузы подтверждения.
	if err := h.panels.Show(ctx, chatID, view.Processing, nil); err != nil {
		logger(ctx).Error("show processing panel", logx.Error(err))
	}

	if _, err := h.deals.ConfirmShipment(ctx, query.From.ID, id); err != nil {
		return h.dealActionError(ctx, query, chatID, err)
	}

	defer h.answer(ctx, query.ID)

	return h.panels.Show(ctx, chatID, view.SellerConfirmedWait, view.BackToMenu())
}

func (h *Handler) OnCopyMemo(ctx *th.Context, query telego.CallbackQuery) error {
	id, err := value.ParseDealID(strings.TrimPrefix(query.Data, "memo:"))
	if err != nil {
		return h.alert(ctx, query.ID, view.MemoUnavailable)
	}

	memo, err := h.deals.Memo(ctx, id)
	if err != nil {
		return h.alert(ctx, query.ID, view.MemoUnavailable)
	}

	return h.alert(ctx, query.ID, "MEMO: "+memo.String())
}

func (h *Handler) OnPaid(ctx *th.Context, query telego.CallbackQuery) error {
	id, err := value.ParseDealID(strings.TrimPrefix(query.Data, "paid:"))
	if err != nil {
		return h.alert(ctx, query.ID, view.DealUnavailable)
	}

	chatID := query.Message.GetChat().ID

	if _, err := h.deals.MarkPaid(ctx, query.From.ID, id); err != nil {
		return h.dealActionError(ctx, query, chatID, err)
	}

	defer func() {
		_ = ctx.Bot().AnswerCallbackQuery(ctx, tu.CallbackQuery(query.ID).
			WithText("Отмечено. Ожидаем подтверждения продавца."))
	}()

	return h.panels.Show(ctx, chatID, view.BuyerWaitConfirm, view.BackToMenu())
}

func (h *Handler) OnFinish(ctx *th.Context, query telego.CallbackQuery) error {
	id, err := value.ParseDealID(strings.TrimPrefix(query.Data, "finish:"))
	if err != nil {
		return h.alert(ctx, query.ID, view.DealUnavailable)
	}

	chatID := query.Message.GetChat().ID

	if _, err := h.deals.ConfirmReceipt(ctx, query.From.ID, id); err != nil {
		return h.dealActionError(ctx, query, chatID, err)
	}

	defer func() {
		_ = ctx.Bot().AnswerCallbackQuery(ctx, tu.CallbackQuery(query.ID).WithText("Готово."))
	}()

	return h.panels.Show(ctx, chatID, view.SellerFinalDone, view.BackToMenu())
}

// dealActionError переводит доменную ошибку в реакцию интерфейса.
func (h *Handler) dealActionError(ctx *th.Context, query telego.CallbackQuery, chatID int64, err error) error {
	switch {
	case domain.CodeIs(err, errcodes.DealNotFound), domain.CodeIs(err, errcodes.DealExpired):
		defer h.answer(ctx, query.ID)
		return h.panels.Show(ctx, chatID, view.DealExpired, view.BackToMenu())

	case domain.CodeIs(err, errcodes.WalletRequired):
		return h.alert(ctx, query.ID, view.WalletFirst)

	case domain.CodeIs(err, errcodes.Forbidden):
		return h.alert(ctx, query.ID, view.ActionDenied)

	case domain.CodeIs(err, errcodes.DealProcessing), domain.CodeIs(err, errcodes.DealConflict):
		h.answer(ctx, query.ID)
		return nil

	default:
		logger(ctx).Error("deal action failed", logx.Error(err))
		return h.alert(ctx, query.ID, view.DealUnavailable)
	}
}

// ---------- Админка ----------

func (h *Handler) OnAdminPanel(ctx *th.Context, query telego.CallbackQuery) error {
	h.clearSession(query.From.ID)

	defer h.answer(ctx, query.ID)

	return h.panels.Show(ctx, query.Message.GetChat().ID, view.AdminTitle, view.AdminPanel())
}

func (h *Handler) OnAdminRecent(ctx *th.Context, query telego.CallbackQuery) error {
	defer h.answer(ctx, query.ID)

	items := h.deals.Recent(ctx, recentShown)
	text := view.AdminRecent(items, func(id int64) string {
		return h.parties.Get(id).Username
	})

	return h.panels.Show(ctx, query.Message.GetChat().ID, text, view.AdminBack())
}

func (h *Handler) OnAdminChatLog(ctx *th.Context, query telego.CallbackQuery) error {
	h.setSession(query.From.ID, session{State: stateAdminChatLog})

	defer h.answer(ctx, query.ID)

	return h.panels.Show(ctx, query.Message.GetChat().ID,
		"🕓 <b>История чата</b>\n"+view.AdminEnterUser, view.AdminBack())
}

func (h *Handler) OnAdminPurge(ctx *th.Context, query telego.CallbackQuery) error {
	h.setSession(query.From.ID, session{State: stateAdminPurge})

	defer h.answer(ctx, query.ID)

	return h.panels.Show(ctx, query.Message.GetChat().ID,
		"🧹 <b>Удаление сообщений</b>\n"+view.AdminEnterUser, view.AdminBack())
}

func (h *Handler) OnAdminBack(ctx *th.Context, query telego.CallbackQuery) error {
	userID := query.From.ID
	chatID := query.Message.GetChat().ID

	h.clearSession(userID)

	defer h.answer(ctx, query.ID)

	if query.Data == "admin_back_menu" {
		return h.showMainMenu(ctx, userID, chatID)
	}

	return h.panels.Show(ctx, chatID, view.AdminTitle, view.AdminPanel())
}

// ---------- Вспомогательные ----------

func (h *Handler) answer(ctx *th.Context, queryID string) {
	if err := ctx.Bot().AnswerCallbackQuery(ctx, tu.CallbackQuery(queryID)); err != nil {
		logger(ctx).Debug("answer callback", logx.Error(err))
	}
}

func (h *Handler) alert(ctx *th.Context, queryID, text string) error {
	return ctx.Bot().AnswerCallbackQuery(ctx,
		tu.CallbackQuery(queryID).WithText(text).WithShowAlert())
}

// clearWarning убирает висящее предупреждение, если оно есть.
func (h *Handler) clearWarning(ctx *th.Context, userID, chatID int64) {
	if prev := h.parties.SwapWarning(userID, 0); prev != 0 {
		h.panels.Delete(ctx, chatID, prev)
	}
}
