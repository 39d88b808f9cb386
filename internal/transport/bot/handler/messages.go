package handler

import (
	"strconv"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg_garant/internal/domain"
	"tg_garant/internal/domain/value"
	"tg_garant/internal/transport/bot/view"
	"tg_garant/pkg/errcodes"
)

// OnText — диспетчер свободного ввода по состоянию диалога. Сообщения
// вне диалога удаляются, чтобы чат оставался одной панелью.
func (h *Handler) OnText(ctx *th.Context, msg telego.Message) error {
	if msg.From == nil || msg.Chat.Type != telego.ChatTypePrivate {
		return nil
	}

	h.rememberUser(msg.From)

	userID := msg.From.ID

	sess, ok := h.getSession(userID)
	if !ok {
		// Шум вне диалога: команды сюда не попадают, остальное удаляем.
		h.panels.Delete(ctx, msg.Chat.ID, msg.MessageID)
		return nil
	}

	h.panels.TrackUserMessage(userID, msg.Chat.ID, msg.MessageID, msg.Text)

	switch sess.State {
	case stateAwaitWallet:
		return h.inputOwnWallet(ctx, msg)
	case stateSellerWallet:
		return h.inputSellerWallet(ctx, msg, sess.DealID)
	case stateCreating:
		return h.inputWizard(ctx, msg)
	case stateAdminChatLog:
		return h.inputAdminChatLog(ctx, msg)
	case stateAdminPurge:
		return h.inputAdminPurge(ctx, msg)
	}

	return nil
}

func (h *Handler) inputOwnWallet(ctx *th.Context, msg telego.Message) error {
	userID := msg.From.ID
	text := strings.TrimSpace(msg.Text)

	if !value.IsWalletAddress(text) {
		return h.warn(ctx, userID, msg.Chat.ID, view.WalletInvalid)
	}

	h.parties.SetWallet(userID, text)
	h.clearSession(userID)
	h.clearWarning(ctx, userID, msg.Chat.ID)

	return h.panels.Show(ctx, msg.Chat.ID, view.WalletSaved(text), view.BackToMenu())
}

func (h *Handler) inputSellerWallet(ctx *th.Context, msg telego.Message, dealID value.DealID) error {
	userID := msg.From.ID
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	d, err := h.deals.SubmitSellerWallet(ctx, userID, dealID, text)
	switch {
	case err == nil:

	case domain.CodeIs(err, errcodes.InvalidWallet):
		return h.warn(ctx, userID, chatID, view.WalletInvalid)

	default:
		h.clearSession(userID)
		return h.panels.Show(ctx, chatID, view.DealExpired, view.BackToMenu())
	}

	h.clearSession(userID)
	h.clearWarning(ctx, userID, chatID)

	// Сообщение с адресом не должно оставаться в чате.
	h.panels.Delete(ctx, chatID, msg.MessageID)
	h.panels.ClearFlow(ctx, chatID)

	return h.panels.Show(ctx, chatID, view.SellerWalletOK, view.AcceptOrder(d.ID))
}

func (h *Handler) inputWizard(ctx *th.Context, msg telego.Message) error {
	userID := msg.From.ID
	chatID := msg.Chat.ID

	res, err := h.drafts.Input(ctx, userID, msg.Text)
	switch {
	case err == nil:

	case domain.CodeIs(err, errcodes.InvalidPrice):
		return h.warn(ctx, userID, chatID, view.BadPrice)

	case domain.CodeIs(err, errcodes.InvalidRecipient):
		return h.warn(ctx, userID, chatID, view.BadUser)

	case domain.CodeIs(err, errcodes.DraftNotFound):
		h.clearSession(userID)
		return h.showMainMenu(ctx, userID, chatID)

	default:
		return h.warn(ctx, userID, chatID, view.BadPrice)
	}

	h.clearWarning(ctx, userID, chatID)

	if res.Deal != nil {
		h.clearSession(userID)
		h.panels.ClearFlow(ctx, chatID)

		return h.panels.Show(ctx, chatID, view.FinalCard(*res.Deal), view.FinalActions(res.Deal.ID))
	}

	method := h.parties.Get(userID).Method

	return h.panels.Show(ctx, chatID, view.WizardPrompt(res.Draft.Step, method), view.WizardNav(res.Draft.Step))
}

// ---------- Админский ввод ----------

func (h *Handler) inputAdminChatLog(ctx *th.Context, msg telego.Message) error {
	defer h.panels.Delete(ctx, msg.Chat.ID, msg.MessageID)

	if !h.isAdmin(msg.From.ID) {
		return nil
	}

	target, ok := h.resolveUser(msg.Text)
	if !ok {
		return h.panels.Show(ctx, msg.Chat.ID,
			"🕓 <b>История чата</b>\n"+view.AdminUserMiss, view.AdminBack())
	}

	h.clearSession(msg.From.ID)

	entries := h.panels.ChatLog(target, chatLogShown)
	if len(entries) == 0 {
		return h.panels.Show(ctx, msg.Chat.ID,
			"🕓 <b>История чата</b>\n"+view.AdminNoLog, view.AdminBack())
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, view.ChatLogEntry(e.At, e.FromUser, e.Text))
	}

	return h.panels.Show(ctx, msg.Chat.ID,
		"🕓 <b>История чата</b>\n\n"+strings.Join(lines, "\n"), view.AdminBack())
}

func (h *Handler) inputAdminPurge(ctx *th.Context, msg telego.Message) error {
	defer h.panels.Delete(ctx, msg.Chat.ID, msg.MessageID)

	if !h.isAdmin(msg.From.ID) {
		return nil
	}

	target, ok := h.resolveUser(msg.Text)
	if !ok {
		return h.panels.Show(ctx, msg.Chat.ID,
			"🧹 <b>Удаление сообщений</b>\n"+view.AdminUserMiss, view.AdminBack())
	}

	h.clearSession(msg.From.ID)

	removed := h.panels.Purge(ctx, target)

	return h.panels.Show(ctx, msg.Chat.ID, view.PurgeDone(removed), view.AdminBack())
}

// resolveUser принимает "@username" либо числовой ID.
func (h *Handler) resolveUser(query string) (int64, bool) {
	query = strings.TrimSpace(query)

	if strings.HasPrefix(query, "@") {
		p, ok := h.parties.FindByUsername(query)
		return p.ID, ok
	}

	id, err := strconv.ParseInt(query, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}

	return id, true
}

// warn показывает одноразовое предупреждение под панелью. Новое
// предупреждение вытесняет предыдущее.
func (h *Handler) warn(ctx *th.Context, userID, chatID int64, text string) error {
	sent, err := ctx.Bot().SendMessage(ctx, &telego.SendMessageParams{
		ChatID: telego.ChatID{ID: chatID},
		Text:   text,
	})
	if err != nil {
		return err
	}

	if prev := h.parties.SwapWarning(userID, sent.MessageID); prev != 0 {
		h.panels.Delete(ctx, chatID, prev)
	}

	return nil
}
