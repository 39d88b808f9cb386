package handler

import (
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg_garant/internal/domain/value"
	"tg_garant/internal/transport/bot/view"
)

const deepLinkPrefix = "deal_"

// OnStart — вход в бот. /start deal_<id> запускает онбординг продавца,
// голый /start рисует главное меню.
func (h *Handler) OnStart(ctx *th.Context, msg telego.Message) error {
	userID := msg.From.ID

	h.rememberUser(msg.From)
	h.panels.TrackUserMessage(userID, msg.Chat.ID, msg.MessageID, msg.Text)

	args := strings.Fields(msg.Text)
	if len(args) == 2 && strings.HasPrefix(args[1], deepLinkPrefix) {
		return h.startSellerOnboarding(ctx, msg, strings.TrimPrefix(args[1], deepLinkPrefix))
	}

	h.clearSession(userID)

	return h.showMainMenu(ctx, userID, msg.Chat.ID)
}

func (h *Handler) startSellerOnboarding(ctx *th.Context, msg telego.Message, rawID string) error {
	id, err := value.ParseDealID(rawID)
	if err != nil {
		return h.panels.Show(ctx, msg.Chat.ID, view.DealExpired, view.BackToMenu())
	}

	if _, err := h.deals.OpenDeepLink(ctx, id); err != nil {
		return h.panels.Show(ctx, msg.Chat.ID, view.DealExpired, view.BackToMenu())
	}

	h.setSession(msg.From.ID, session{State: stateSellerWallet, DealID: id})

	return h.panels.Show(ctx, msg.Chat.ID, view.SellerIntro, nil)
}

func (h *Handler) OnAdmin(ctx *th.Context, msg telego.Message) error {
	h.panels.TrackUserMessage(msg.From.ID, msg.Chat.ID, msg.MessageID, msg.Text)

	if !h.isAdmin(msg.From.ID) {
		_, err := ctx.Bot().SendMessage(ctx, &telego.SendMessageParams{
			ChatID: telego.ChatID{ID: msg.Chat.ID},
			Text:   view.NotAdmin,
		})
		return err
	}

	h.clearSession(msg.From.ID)

	return h.panels.Show(ctx, msg.Chat.ID, view.AdminTitle, view.AdminPanel())
}

func (h *Handler) showMainMenu(ctx *th.Context, userID, chatID int64) error {
	party := h.parties.Get(userID)
	hasActive := len(h.deals.ActiveDeals(ctx, userID)) > 0
	hasHistory := len(h.deals.History(ctx, userID, 1)) > 0

	return h.panels.Show(ctx, chatID, view.Hello,
		view.MainMenu(party.Lang, hasActive, hasHistory, h.isAdmin(userID)))
}

func (h *Handler) rememberUser(u *telego.User) {
	if u == nil {
		return
	}
	h.parties.RememberUsername(u.ID, u.Username)
}
