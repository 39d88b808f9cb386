// Данный файл должен быть сгенерирован из openapi спецификации и называться types.gen.go
package rest

import "time"

type Deal struct {
	ID              string     `json:"id"`
	CreatorID       int64      `json:"creatorId"`
	SellerID        *int64     `json:"sellerId,omitempty"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Method          string     `json:"method"`
	PriceValue      *float64   `json:"priceValue,omitempty"`
	ExchangeTerms   *string    `json:"exchangeTerms,omitempty"`
	TargetRecipient string     `json:"targetRecipient"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"createdAt"`
	Deadline        time.Time  `json:"deadline"`
	DeepLink        string     `json:"deepLink"`
	SellerDeadline  *time.Time `json:"sellerDeadline,omitempty"`
}

type CreateDealRequest struct {
	CreatorID       int64    `json:"creatorId" validate:"required"`
	Title           string   `json:"title" validate:"required"`
	Description     string   `json:"description" validate:"required"`
	PriceValue      *float64 `json:"priceValue,omitempty" validate:"omitempty,gt=0"`
	ExchangeTerms   *string  `json:"exchangeTerms,omitempty"`
	TargetRecipient string   `json:"targetRecipient" validate:"required,startswith=@,min=2"`
}

// Error Модель ошибок
type Error struct {
	// Code Код ошибки
	Code ErrorCode `json:"code"`

	// Message Сообщение об ошибке (для отображения в UI в будущем)
	Message string `json:"message"`
}

// ErrorCode Код ошибки
type ErrorCode string
