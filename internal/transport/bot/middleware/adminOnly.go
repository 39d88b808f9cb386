package middleware

import (
	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"
)

const deniedText = "Доступ ограничен."

// AdminOnly пропускает дальше только апдейты администратора. Чужие
// callback-запросы получают алерт, остальное молча игнорируется.
func AdminOnly(adminID int64) th.Handler {
	return func(ctx *th.Context, update telego.Update) error {
		var userID int64

		switch {
		case update.Message != nil:
			userID = update.Message.From.ID
		case update.CallbackQuery != nil:
			userID = update.CallbackQuery.From.ID
		default:
			return nil
		}

		if adminID != 0 && userID == adminID {
			return ctx.Next(update)
		}

		if update.CallbackQuery != nil {
			return ctx.Bot().AnswerCallbackQuery(ctx,
				tu.CallbackQuery(update.CallbackQuery.ID).WithText(deniedText).WithShowAlert())
		}

		return nil
	}
}
