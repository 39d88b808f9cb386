package deal_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tg_garant/internal/domain"
	"tg_garant/internal/domain/entity"
	"tg_garant/internal/domain/service/deal"
	"tg_garant/internal/domain/value"
	"tg_garant/internal/infrastructure/memstore"
	"tg_garant/pkg/errcodes"
)

type notification struct {
	recipientID int64
	event       deal.Event
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []notification
}

func (n *fakeNotifier) Notify(_ context.Context, recipientID int64, event deal.Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.sent = append(n.sent, notification{recipientID: recipientID, event: event})

	return nil
}

func (n *fakeNotifier) all() []notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]notification, len(n.sent))
	copy(out, n.sent)

	return out
}

type fakeLinks struct{}

func (fakeLinks) BuildDeepLink(id value.DealID) string {
	return "https://t.me/test_bot?start=deal_" + id.String()
}

const (
	creatorID = int64(100)
	sellerID  = int64(200)

	validWallet = "UQDtFpEwcFAEcRe5mLVh2N6C0x-_hJEM7W61_JLnSF74p4q2"
)

type fixture struct {
	svc      *deal.Service
	registry *memstore.Registry
	parties  *memstore.PartyStore
	notifier *fakeNotifier
	now      time.Time
	nowMu    sync.Mutex
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		registry: memstore.NewRegistry(50),
		parties:  memstore.NewPartyStore(),
		notifier: &fakeNotifier{},
		now:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	f.svc = deal.NewService(
		f.registry,
		f.parties,
		f.notifier,
		fakeLinks{},
		deal.Timing{
			LinkTTL:          30 * time.Minute,
			SellerConfirmTTL: 15 * time.Minute,
			// Нулевая пауза, чтобы тесты не спали.
			ConfirmDelayMin: 0,
			ConfirmDelayMax: 0,
		},
	).WithClock(f.clock)

	return f
}

func (f *fixture) clock() time.Time {
	f.nowMu.Lock()
	defer f.nowMu.Unlock()

	return f.now
}

func (f *fixture) advance(d time.Duration) {
	f.nowMu.Lock()
	defer f.nowMu.Unlock()

	f.now = f.now.Add(d)
}

func completeDraft() entity.Draft {
	return entity.Draft{
		Step:        entity.DraftStepRecipient,
		Title:       "NFT username",
		Description: "Telegram username @shortname",
		PriceValue:  12.5,
		HasPrice:    true,
		Recipient:   "@buyer",
	}
}

func (f *fixture) createDeal(t *testing.T) entity.Deal {
	t.Helper()

	d, err := f.svc.CreateFromDraft(context.Background(), creatorID, completeDraft())
	require.NoError(t, err)

	return d
}

func TestCreateFromDraft(t *testing.T) {
	rq := require.New(t)
	f := newFixture(t)

	d := f.createDeal(t)

	rq.False(d.ID.IsZero())
	rq.Equal(value.StatusNew, d.Status)
	rq.Equal(creatorID, d.CreatorID)
	rq.Equal(value.MethodTON, d.Method)
	rq.Equal(f.now.Add(30*time.Minute), d.LinkExpiresAt)
	rq.True(strings.HasSuffix(d.DeepLink, "start=deal_"+d.ID.String()))
	rq.True(d.PricingValid())
}

func TestCreateFromDraftIncomplete(t *testing.T) {
	rq := require.New(t)
	f := newFixture(t)

	draft := completeDraft()
	draft.Title = ""

	_, err := f.svc.CreateFromDraft(context.Background(), creatorID, draft)
	rq.True(domain.CodeIs(err, errcodes.DraftIncomplete))
}

func TestCreateFromDraftExchangeMethod(t *testing.T) {
	rq := require.New(t)
	f := newFixture(t)

	f.parties.SetMethod(creatorID, value.MethodExchange)

	draft := completeDraft()
	draft.HasPrice = false
	draft.PriceValue = 0
	draft.ExchangeTerms = "обмен на канал 1к подписчиков"

	d, err := f.svc.CreateFromDraft(context.Background(), creatorID, draft)
	rq.NoError(err)
	rq.True(d.IsExchange())
	rq.Equal(draft.ExchangeTerms, d.PriceLabel())
}

func TestSubmitSellerWallet(t *testing.T) {
	rq := require.New(t)
	f := newFixture(t)
	d := f.createDeal(t)

	got, err := f.svc.SubmitSellerWallet(context.Background(), sellerID, d.ID, "  "+validWallet+"  ")
	rq.NoError(err)
	rq.Equal(sellerID, got.SellerID)
	rq.Equal(validWallet, got.SellerWallet)

	// Кошелёк запоминается в профиле продавца.
	rq.Equal(validWallet, f.parties.Get(sellerID).Wallet)
}

func TestSubmitSellerWalletInvalid(t *testing.T) {
	rq := require.New(t)
	f := newFixture(t)
	d := f.createDeal(t)

	_, err := f.svc.SubmitSellerWallet(context.Background(), sellerID, d.ID, "too-short")
	rq.True(domain.CodeIs(err, errcodes.InvalidWallet))
}

func TestOpenDeepLinkExpired(t *testing.T) {
	rq := require.New(t)
	f := newFixture(t)
	d := f.createDeal(t)

	f.advance(31 * time.Minute)

	_, err := f.svc.OpenDeepLink(context.Background(), d.ID)
	rq.True(domain.CodeIs(err, errcodes.DealExpired))
}

func (f *fixture) onboardSeller(t *testing.T, id value.DealID) {
	t.Helper()

	_, err := f.svc.SubmitSellerWallet(context.Background(), sellerID, id, validWallet)
	require.NoError(t, err)

	_, err = f.svc.AcceptOrder(context.Background(), sellerID, id)
	require.NoError(t, err)
}

func TestHappyPath(t *testing.T) {
	rq := require.New(t)
	f := newFixture(t)
	ctx := context.Background()

	d := f.createDeal(t)
	f.onboardSeller(t, d.ID)

	// Продавец подтвердил отправку: MEMO и дедлайн оплаты выставлены,
	// покупателю ушёл запрос оплаты.
	got, err := f.svc.ConfirmShipment(ctx, sellerID, d.ID)
	rq.NoError(err)
	rq.Equal(value.StatusAwaitPayment, got.Status)
	rq.False(got.Memo.IsZero())
	rq.Equal(f.now.Add(15*time.Minute), got.SellerConfirmDeadline)
	rq.False(got.Processing)

	memo, err := f.svc.Memo(ctx, d.ID)
	rq.NoError(err)
	rq.Equal(got.Memo, memo)

	got, err = f.svc.MarkPaid(ctx, creatorID, d.ID)
	rq.NoError(err)
	rq.Equal(value.StatusAwaitSellerFinal, got.Status)

	got, err = f.svc.ConfirmReceipt(ctx, sellerID, d.ID)
	rq.NoError(err)
	rq.Equal(value.StatusDone, got.Status)

	// Сделка ушла из живого реестра в историю создателя.
	_, err = f.svc.Get(ctx, d.ID)
	rq.True(domain.CodeIs(err, errcodes.DealNotFound))

	history := f.svc.History(ctx, creatorID, 10)
	rq.Len(history, 1)
	rq.Equal(value.StatusDone, history[0].Status)

	sent := f.notifier.all()
	rq.Len(sent, 2)
	rq.IsType(deal.PaymentRequested{}, sent[0].event)
	rq.Equal(creatorID, sent[0].recipientID)
	rq.IsType(deal.ReceiptConfirmationRequested{}, sent[1].event)
	rq.Equal(sellerID, sent[1].recipientID)
}

func TestConfirmShipmentWithoutWallet(t *testing.T) {
	rq := require.New(t)
	f := newFixture(t)
	d := f.createDeal(t)

	_, err := f.svc.ConfirmShipment(context.Background(), sellerID, d.ID)
	rq.True(domain.CodeIs(err, errcodes.WalletRequired))
}

func TestMarkPaidWrongActor(t *testing.T) {
	rq := require.New(t)
	f := newFixture(t)
	ctx := context.Background()

	d := f.createDeal(t)
	f.onboardSeller(t, d.ID)

	_, err := f.svc.ConfirmShipment(ctx, sellerID, d.ID)
	rq.NoError(err)

	_, err = f.svc.MarkPaid(ctx, sellerID, d.ID)
	rq.True(domain.CodeIs(err, errcodes.Forbidden))
}

func TestStopIdempotent(t *testing.T) {
	rq := require.New(t)
	f := newFixture(t)
	ctx := context.Background()

	d := f.createDeal(t)
	f.onboardSeller(t, d.ID)

	got, err := f.svc.Stop(ctx, creatorID, d.ID)
	rq.NoError(err)
	rq.Equal(value.StatusStopped, got.Status)

	// Повторная доставка нажатия: эффекта нет, второй записи в истории нет.
	_, err = f.svc.Stop(ctx, creatorID, d.ID)
	rq.True(domain.CodeIs(err, errcodes.DealNotFound))

	rq.Len(f.svc.History(ctx, creatorID, 10), 1)

	sent := f.notifier.all()
	rq.Len(sent, 1)
	rq.IsType(deal.DealStopped{}, sent[0].event)
	rq.Equal(sellerID, sent[0].recipientID)
}

func TestSweepNotifiesExactlyOnce(t *testing.T) {
	rq := require.New(t)
	f := newFixture(t)
	ctx := context.Background()

	d := f.createDeal(t)
	f.advance(31 * time.Minute)

	rq.Equal(1, f.svc.Sweep(ctx, f.clock()))
	rq.Equal(0, f.svc.Sweep(ctx, f.clock()))

	sent := f.notifier.all()
	rq.Len(sent, 1)
	rq.IsType(deal.DealExpired{}, sent[0].event)
	rq.Equal(creatorID, sent[0].recipientID)

	// Экспирация не попадает в историю, сделки больше нет.
	rq.Empty(f.svc.History(ctx, creatorID, 10))

	_, err := f.svc.Get(ctx, d.ID)
	rq.True(domain.CodeIs(err, errcodes.DealNotFound))
}

func TestSweepVsStopRace(t *testing.T) {
	rq := require.New(t)
	f := newFixture(t)
	ctx := context.Background()

	for range 100 {
		d := f.createDeal(t)
		f.advance(31 * time.Minute)

		var (
			wg      sync.WaitGroup
			expired int
			stopped int
		)

		wg.Add(2)

		go func() {
			defer wg.Done()
			expired = f.svc.Sweep(ctx, f.clock())
		}()

		go func() {
			defer wg.Done()
			if _, err := f.svc.Stop(ctx, creatorID, d.ID); err == nil {
				stopped = 1
			}
		}()

		wg.Wait()

		// Ровно один победитель: проигравший видит DealNotFound,
		// второго эффекта (и второго уведомления) не бывает.
		rq.Equal(1, expired+stopped)

		sent := f.notifier.all()
		if expired == 1 {
			rq.Len(sent, 1)
			rq.IsType(deal.DealExpired{}, sent[0].event)
			rq.Empty(f.svc.History(ctx, creatorID, 10))
		} else {
			rq.Empty(sent)
			rq.Len(f.svc.History(ctx, creatorID, 10), 1)
		}

		f.notifier.mu.Lock()
		f.notifier.sent = nil
		f.notifier.mu.Unlock()

		f.registry = memstore.NewRegistry(50)
		f.svc = deal.NewService(f.registry, f.parties, f.notifier, fakeLinks{}, deal.Timing{
			LinkTTL:          30 * time.Minute,
			SellerConfirmTTL: 15 * time.Minute,
		}).WithClock(f.clock)
	}
}

func TestActiveDeals(t *testing.T) {
	rq := require.New(t)
	f := newFixture(t)
	ctx := context.Background()

	first := f.createDeal(t)
	f.advance(time.Minute)
	second := f.createDeal(t)

	active := f.svc.ActiveDeals(ctx, creatorID)
	rq.Len(active, 2)
	rq.Equal(second.ID, active[0].ID)
	rq.Equal(first.ID, active[1].ID)

	rq.Empty(f.svc.ActiveDeals(ctx, sellerID))
}

func TestMemoUnavailableBeforeConfirm(t *testing.T) {
	rq := require.New(t)
	f := newFixture(t)
	d := f.createDeal(t)

	_, err := f.svc.Memo(context.Background(), d.ID)
	rq.True(domain.CodeIs(err, errcodes.MemoUnavailable))
}
