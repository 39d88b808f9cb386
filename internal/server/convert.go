package server

import (
	"github.com/samber/lo"

	"tg_garant/internal/domain/entity"
	"tg_garant/pkg/rest"
)

func newRESTDeal(deal entity.Deal) rest.Deal {
	out := rest.Deal{
		ID:              deal.ID.String(),
		CreatorID:       deal.CreatorID,
		Title:           deal.Title,
		Description:     deal.Description,
		Method:          deal.Method.String(),
		TargetRecipient: deal.TargetRecipient,
		Status:          deal.Status.String(),
		CreatedAt:       deal.CreatedAt,
		Deadline:        deal.Deadline(),
		DeepLink:        deal.DeepLink,
	}

	if deal.HasSeller() {
		out.SellerID = lo.ToPtr(deal.SellerID)
	}

	if deal.IsExchange() {
		out.ExchangeTerms = lo.ToPtr(deal.ExchangeTerms)
	} else {
		out.PriceValue = lo.ToPtr(deal.PriceValue)
	}

	if !deal.SellerConfirmDeadline.IsZero() {
		out.SellerDeadline = lo.ToPtr(deal.SellerConfirmDeadline)
	}

	return out
}

func newRESTDeals(deals []entity.Deal) []rest.Deal {
	return lo.Map(deals, func(deal entity.Deal, _ int) rest.Deal {
		return newRESTDeal(deal)
	})
}

func newDomainDraft(request rest.CreateDealRequest) entity.Draft {
	draft := entity.Draft{
		Step:        entity.DraftStepRecipient,
		Title:       request.Title,
		Description: request.Description,
		Recipient:   request.TargetRecipient,
	}

	if request.PriceValue != nil {
		draft.PriceValue = *request.PriceValue
		draft.HasPrice = true
	}

	if request.ExchangeTerms != nil {
		draft.ExchangeTerms = *request.ExchangeTerms
	}

	return draft
}
