package handler

import (
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg_garant/internal/domain/value"
	"tg_garant/internal/transport/bot/view"
)

// OnInlineShare отвечает на инлайн-запрос deal_<id> карточкой со ссылкой,
// которую создатель отправляет продавцу в любой чат.
func (h *Handler) OnInlineShare(ctx *th.Context, query telego.InlineQuery) error {
	var results []telego.InlineQueryResult

	raw := strings.TrimSpace(query.Query)
	if strings.HasPrefix(raw, deepLinkPrefix) {
		if id, err := value.ParseDealID(strings.TrimPrefix(raw, deepLinkPrefix)); err == nil {
			if d, err := h.deals.Get(ctx, id); err == nil {
				results = append(results, &telego.InlineQueryResultArticle{
					Type:        telego.ResultTypeArticle,
					ID:          d.ID.String(),
					Title:       "MoonGarant • Ссылка на сделку",
					Description: view.ShareDescription(d),
					InputMessageContent: &telego.InputTextMessageContent{
						MessageText: view.ShareMessage(d),
						ParseMode:   telego.ModeHTML,
					},
				})
			}
		}
	}

	return ctx.Bot().AnswerInlineQuery(ctx, &telego.AnswerInlineQueryParams{
		InlineQueryID: query.ID,
		Results:       results,
		CacheTime:     0,
		IsPersonal:    true,
	})
}
