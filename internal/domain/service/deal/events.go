package deal

import "tg_garant/internal/domain/entity"

// Event — логическое событие перехода для внешнего коллаборатора.
// Ядро никогда не форматирует текст: транспорт сам решает, как
// отрисовать событие получателю.
type Event interface {
	event()
}

// DealExpired — сделку убрал sweep; уведомляется создатель.
type DealExpired struct {
	Deal entity.Deal
}

// DealStopped — участник остановил ордер; уведомляется вторая сторона.
type DealStopped struct {
	Deal entity.Deal
}

// PaymentRequested — продавец подтвердил отправку: покупателю показываются
// кошелёк продавца и MEMO-код.
type PaymentRequested struct {
	Deal entity.Deal
}

// ReceiptConfirmationRequested — покупатель отметил оплату: продавцу
// предлагается подтвердить получение средств.
type ReceiptConfirmationRequested struct {
	Deal entity.Deal
}

// DealCompleted — продавец подтвердил получение, сделка завершена.
type DealCompleted struct {
	Deal entity.Deal
}

func (DealExpired) event()                  {}
func (DealStopped) event()                  {}
func (PaymentRequested) event()             {}
func (ReceiptConfirmationRequested) event() {}
func (DealCompleted) event()                {}
