package server

import (
	"context"
	"fmt"
	"net/http"

	"tg_garant/internal/domain"
	"tg_garant/internal/domain/entity"
	"tg_garant/internal/domain/value"
	"tg_garant/pkg/errcodes"
	"tg_garant/pkg/httpx/reply"
	"tg_garant/pkg/httpx/req"
	"tg_garant/pkg/rest"
)

type dealService interface {
	Get(ctx context.Context, id value.DealID) (entity.Deal, error)
	Recent(ctx context.Context, limit int) []entity.Deal
	CreateFromDraft(ctx context.Context, creatorID int64, draft entity.Draft) (entity.Deal, error)
}

const recentLimit = 50

// DealServer — служебный read-mostly REST поверх реестра сделок:
// мониторинг и интеграционные проверки, не пользовательский канал.
type DealServer struct {
	dealService dealService
}

func NewDealServer(dealService dealService) DealServer {
	return DealServer{
		dealService: dealService,
	}
}

func (s DealServer) getV1Deals(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	deals := s.dealService.Recent(ctx, recentLimit)

	reply.JSON(ctx, w, http.StatusOK, newRESTDeals(deals))

	return nil
}

func (s DealServer) getV1Deal(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := value.ParseDealID(r.PathValue("id"))
	if err != nil {
		return domain.NewError(errcodes.InvalidDealID, "malformed deal id")
	}

	deal, err := s.dealService.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("dealService.Get: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTDeal(deal))

	return nil
}

func (s DealServer) postV1Deal(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.CreateDealRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	deal, err := s.dealService.CreateFromDraft(ctx, request.CreatorID, newDomainDraft(request))
	if err != nil {
		return fmt.Errorf("dealService.CreateFromDraft: %w", err)
	}

	reply.JSON(ctx, w, http.StatusCreated, newRESTDeal(deal))

	return nil
}
