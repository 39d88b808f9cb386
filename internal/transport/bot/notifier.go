package bot

import (
	"context"
	"fmt"

	"tg_garant/internal/domain/service/deal"
	"tg_garant/internal/domain/value"
	"tg_garant/internal/transport/bot/panel"
	"tg_garant/internal/transport/bot/view"
)

// Notifier доставляет события переходов второй стороне сделки через
// панель её приватного чата.
type Notifier struct {
	panels      *panel.Manager
	botUsername string
}

func NewNotifier(panels *panel.Manager, botUsername string) *Notifier {
	return &Notifier{
		panels:      panels,
		botUsername: botUsername,
	}
}

func (n *Notifier) Notify(ctx context.Context, recipientID int64, event deal.Event) error {
	switch e := event.(type) {
	case deal.DealExpired:
		return n.panels.Show(ctx, recipientID, view.DealExpired, view.BackToMenu())

	case deal.DealStopped:
		return n.panels.Show(ctx, recipientID, view.BuyerDealStopped(e.Deal), view.BackToMenu())

	case deal.PaymentRequested:
		return n.panels.Show(ctx, recipientID, view.BuyerPayPrompt(e.Deal), view.BuyerPay(e.Deal.ID))

	case deal.ReceiptConfirmationRequested:
		return n.panels.Show(ctx, recipientID, view.SellerFinalNeeded, view.SellerFinal(e.Deal.ID))

	case deal.DealCompleted:
		return n.panels.Show(ctx, recipientID, view.BuyerDealDone(e.Deal), view.BackToMenu())

	default:
		return fmt.Errorf("unknown deal event %T", event)
	}
}

// BuildDeepLink — пригласительная ссылка для продавца.
func (n *Notifier) BuildDeepLink(id value.DealID) string {
	return fmt.Sprintf("https://t.me/%s?start=deal_%s", n.botUsername, id)
}
