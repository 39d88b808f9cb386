package entity

import (
	"fmt"
	"time"

	"tg_garant/internal/domain/value"
)

// Deal — одна эскроу-сделка между создателем (покупателем) и продавцом.
// Записью владеет реестр: наружу всегда уходят копии, мутации идут только
// через Transition/Conclude под слотовой блокировкой.
type Deal struct {
	ID        value.DealID
	CreatorID int64
	SellerID  int64 // 0, пока продавец не прошёл онбординг

	Title       string
	Description string

	// Ровно одно из двух: PriceValue при Method != EXCHANGE,
	// ExchangeTerms при Method == EXCHANGE.
	Method        value.SettleMethod
	PriceValue    float64
	ExchangeTerms string

	TargetRecipient string

	Status value.DealStatus

	CreatedAt             time.Time
	LinkExpiresAt         time.Time // CreatedAt + link TTL, действует в статусе new
	SellerConfirmDeadline time.Time // ставится при подтверждении отправки

	SellerWallet string
	Memo         value.MemoCode

	DeepLink string

	// Processing — идёт пауза подтверждения отправки; сделка инертна
	// для других действий и для sweep.
	Processing bool

	Lang value.Lang // язык создателя на момент создания
}

func (d Deal) HasSeller() bool {
	return d.SellerID != 0
}

func (d Deal) IsExchange() bool {
	return d.Method.IsExchange()
}

// PriceLabel — человекочитаемая цена: "12.5 TON" либо текст условий обмена.
func (d Deal) PriceLabel() string {
	if d.IsExchange() {
		return d.ExchangeTerms
	}
	return fmt.Sprintf("%g %s", d.PriceValue, d.Method)
}

// Deadline возвращает актуальный дедлайн стадии: до онбординга и оплаты
// действует срок жизни ссылки, после подтверждения отправки — срок оплаты.
func (d Deal) Deadline() time.Time {
	if !d.SellerConfirmDeadline.IsZero() {
		return d.SellerConfirmDeadline
	}
	return d.LinkExpiresAt
}

func (d Deal) Expired(now time.Time) bool {
	return now.After(d.Deadline())
}

// PricingValid — инвариант взаимоисключающих форм цены.
func (d Deal) PricingValid() bool {
	if d.IsExchange() {
		return d.ExchangeTerms != "" && d.PriceValue == 0
	}
	return d.ExchangeTerms == ""
}
