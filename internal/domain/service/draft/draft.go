package draft

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"tg_garant/internal/domain"
	"tg_garant/internal/domain/entity"
	"tg_garant/pkg/errcodes"
)

type PartyStore interface {
	Get(id int64) entity.Party
}

type DealCreator interface {
	CreateFromDraft(ctx context.Context, creatorID int64, draft entity.Draft) (entity.Deal, error)
}

// Result — итог одного шага мастера: текущий черновик и, на последнем
// шаге, созданная сделка.
type Result struct {
	Draft entity.Draft
	Deal  *entity.Deal
}

// Service — четырёхшаговый мастер создания сделки. На создателя живёт
// максимум один черновик; стейт только в памяти.
type Service struct {
	mu      sync.Mutex
	drafts  map[int64]*entity.Draft
	parties PartyStore
	deals   DealCreator
}

func NewService(parties PartyStore, deals DealCreator) *Service {
	return &Service{
		drafts:  make(map[int64]*entity.Draft),
		parties: parties,
		deals:   deals,
	}
}

// Start открывает мастер заново. Существующий черновик перезаписывается
// целиком.
func (s *Service) Start(_ context.Context, creatorID int64) entity.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := entity.NewDraft()
	s.drafts[creatorID] = &d

	return d
}

// Prev — шаг назад; значение отменённого шага будет перезаписано новым
// вводом. С первого шага идти некуда.
func (s *Service) Prev(_ context.Context, creatorID int64) (entity.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[creatorID]
	if !ok {
		return entity.Draft{}, errNoDraft()
	}

	if d.Step > entity.DraftStepTitle {
		d.Step--
	}

	return *d, nil
}

func (s *Service) Cancel(_ context.Context, creatorID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.drafts, creatorID)
}

func (s *Service) Current(_ context.Context, creatorID int64) (entity.Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[creatorID]
	if !ok {
		return entity.Draft{}, false
	}

	return *d, true
}

// Input обрабатывает текст очередного шага. Невалидный ввод оставляет
// мастер на том же шаге; валидный ввод последнего шага создаёт сделку и
// закрывает черновик.
func (s *Service) Input(ctx context.Context, creatorID int64, text string) (Result, error) {
	s.mu.Lock()

	d, ok := s.drafts[creatorID]
	if !ok {
		s.mu.Unlock()
		return Result{}, errNoDraft()
	}

	text = strings.TrimSpace(text)

	switch d.Step {
	case entity.DraftStepTitle:
		if text == "" {
			s.mu.Unlock()
			return Result{}, domain.NewError(errcodes.ValidationError, "title is empty")
		}

		d.Title = text
		d.Step = entity.DraftStepDescription

	case entity.DraftStepDescription:
		if text == "" {
			s.mu.Unlock()
			return Result{}, domain.NewError(errcodes.ValidationError, "description is empty")
		}

		d.Description = text
		d.Step = entity.DraftStepPrice

	case entity.DraftStepPrice:
		if err := s.applyPrice(d, creatorID, text); err != nil {
			s.mu.Unlock()
			return Result{}, err
		}

		d.Step = entity.DraftStepRecipient

	case entity.DraftStepRecipient:
		if !isRecipient(text) {
			s.mu.Unlock()
			return Result{}, domain.NewError(errcodes.InvalidRecipient, "recipient must look like @username")
		}

		d.Recipient = text
		draft := *d

		s.mu.Unlock()

		deal, err := s.deals.CreateFromDraft(ctx, creatorID, draft)
		if err != nil {
			return Result{Draft: draft}, err
		}

		s.Cancel(ctx, creatorID)

		return Result{Draft: draft, Deal: &deal}, nil

	default:
		s.mu.Unlock()
		return Result{}, domain.NewError(errcodes.DraftNotFound, "draft in unknown step")
	}

	res := Result{Draft: *d}
	s.mu.Unlock()

	return res, nil
}

// applyPrice: при методе EXCHANGE третий шаг принимает текст условий
// обмена, иначе — положительное число, запятая допускается как
// десятичный разделитель.
func (s *Service) applyPrice(d *entity.Draft, creatorID int64, text string) error {
	if s.parties.Get(creatorID).Method.IsExchange() {
		if text == "" {
			return domain.NewError(errcodes.ValidationError, "exchange terms are empty")
		}

		d.ExchangeTerms = text
		d.PriceValue = 0
		d.HasPrice = false

		return nil
	}

	price, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", "."), 64)
	if err != nil || price <= 0 {
		return domain.NewError(errcodes.InvalidPrice, "price must be a positive number")
	}

	d.PriceValue = price
	d.HasPrice = true
	d.ExchangeTerms = ""

	return nil
}

func isRecipient(text string) bool {
	return strings.HasPrefix(text, "@") && len(text) > 1
}

func errNoDraft() error {
	return domain.NewError(errcodes.DraftNotFound, "no active draft")
}
