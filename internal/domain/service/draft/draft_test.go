package draft_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tg_garant/internal/domain"
	"tg_garant/internal/domain/entity"
	"tg_garant/internal/domain/service/deal"
	"tg_garant/internal/domain/service/draft"
	"tg_garant/internal/domain/value"
	"tg_garant/internal/infrastructure/memstore"
	"tg_garant/pkg/errcodes"
)

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, int64, deal.Event) error { return nil }

type staticLinks struct{}

func (staticLinks) BuildDeepLink(id value.DealID) string {
	return "https://t.me/test_bot?start=deal_" + id.String()
}

const creatorID = int64(100)

func newServices(t *testing.T) (*draft.Service, *memstore.PartyStore) {
	t.Helper()

	parties := memstore.NewPartyStore()
	deals := deal.NewService(
		memstore.NewRegistry(50),
		parties,
		nopNotifier{},
		staticLinks{},
		deal.Timing{LinkTTL: 30 * time.Minute, SellerConfirmTTL: 15 * time.Minute},
	)

	return draft.NewService(parties, deals), parties
}

func TestWizardHappyPath(t *testing.T) {
	rq := require.New(t)
	svc, _ := newServices(t)
	ctx := context.Background()

	d := svc.Start(ctx, creatorID)
	rq.Equal(entity.DraftStepTitle, d.Step)

	res, err := svc.Input(ctx, creatorID, "NFT username")
	rq.NoError(err)
	rq.Equal(entity.DraftStepDescription, res.Draft.Step)
	rq.Nil(res.Deal)

	res, err = svc.Input(ctx, creatorID, "Telegram username @shortname")
	rq.NoError(err)
	rq.Equal(entity.DraftStepPrice, res.Draft.Step)

	// Запятая принимается как десятичный разделитель.
	res, err = svc.Input(ctx, creatorID, "12,5")
	rq.NoError(err)
	rq.Equal(entity.DraftStepRecipient, res.Draft.Step)
	rq.InDelta(12.5, res.Draft.PriceValue, 1e-9)

	res, err = svc.Input(ctx, creatorID, "@buyer")
	rq.NoError(err)
	rq.NotNil(res.Deal)
	rq.Equal(value.StatusNew, res.Deal.Status)
	rq.Equal("NFT username", res.Deal.Title)
	rq.Equal("@buyer", res.Deal.TargetRecipient)

	// Черновик закрыт, следующий ввод отбивается.
	_, ok := svc.Current(ctx, creatorID)
	rq.False(ok)

	_, err = svc.Input(ctx, creatorID, "anything")
	rq.True(domain.CodeIs(err, errcodes.DraftNotFound))
}

func TestWizardInvalidInputKeepsStep(t *testing.T) {
	rq := require.New(t)
	svc, _ := newServices(t)
	ctx := context.Background()

	svc.Start(ctx, creatorID)

	_, err := svc.Input(ctx, creatorID, "title")
	rq.NoError(err)
	_, err = svc.Input(ctx, creatorID, "description")
	rq.NoError(err)

	testCases := []struct {
		name string
		text string
	}{
		{name: "not a number", text: "дорого"},
		{name: "zero", text: "0"},
		{name: "negative", text: "-5"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Input(ctx, creatorID, tc.text)
			require.True(t, domain.CodeIs(err, errcodes.InvalidPrice))
		})
	}

	d, ok := svc.Current(ctx, creatorID)
	rq.True(ok)
	rq.Equal(entity.DraftStepPrice, d.Step)

	_, err = svc.Input(ctx, creatorID, "100")
	rq.NoError(err)

	_, err = svc.Input(ctx, creatorID, "no-at-sign")
	rq.True(domain.CodeIs(err, errcodes.InvalidRecipient))

	_, err = svc.Input(ctx, creatorID, "@")
	rq.True(domain.CodeIs(err, errcodes.InvalidRecipient))
}

func TestWizardExchangeMethod(t *testing.T) {
	rq := require.New(t)
	svc, parties := newServices(t)
	ctx := context.Background()

	parties.SetMethod(creatorID, value.MethodExchange)

	svc.Start(ctx, creatorID)

	_, err := svc.Input(ctx, creatorID, "канал")
	rq.NoError(err)
	_, err = svc.Input(ctx, creatorID, "телеграм-канал 1к")
	rq.NoError(err)

	// При обмене третий шаг принимает произвольный текст условий.
	res, err := svc.Input(ctx, creatorID, "меняю на стикерпак")
	rq.NoError(err)
	rq.Equal("меняю на стикерпак", res.Draft.ExchangeTerms)
	rq.False(res.Draft.HasPrice)

	res, err = svc.Input(ctx, creatorID, "@buyer")
	rq.NoError(err)
	rq.NotNil(res.Deal)
	rq.True(res.Deal.IsExchange())
}

func TestWizardPrevAndCancel(t *testing.T) {
	rq := require.New(t)
	svc, _ := newServices(t)
	ctx := context.Background()

	svc.Start(ctx, creatorID)

	_, err := svc.Input(ctx, creatorID, "title")
	rq.NoError(err)

	d, err := svc.Prev(ctx, creatorID)
	rq.NoError(err)
	rq.Equal(entity.DraftStepTitle, d.Step)

	// С первого шага назад некуда.
	d, err = svc.Prev(ctx, creatorID)
	rq.NoError(err)
	rq.Equal(entity.DraftStepTitle, d.Step)

	// Новый ввод перезаписывает отменённый шаг.
	res, err := svc.Input(ctx, creatorID, "new title")
	rq.NoError(err)
	rq.Equal("new title", res.Draft.Title)

	svc.Cancel(ctx, creatorID)

	_, ok := svc.Current(ctx, creatorID)
	rq.False(ok)

	_, err = svc.Prev(ctx, creatorID)
	rq.True(domain.CodeIs(err, errcodes.DraftNotFound))
}

func TestStartOverwritesDraft(t *testing.T) {
	rq := require.New(t)
	svc, _ := newServices(t)
	ctx := context.Background()

	svc.Start(ctx, creatorID)

	_, err := svc.Input(ctx, creatorID, "old title")
	rq.NoError(err)

	d := svc.Start(ctx, creatorID)
	rq.Equal(entity.DraftStepTitle, d.Step)
	rq.Empty(d.Title)
}
