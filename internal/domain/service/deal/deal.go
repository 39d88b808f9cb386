package deal

import (
	"context"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"tg_garant/internal/domain"
	"tg_garant/internal/domain/entity"
	"tg_garant/internal/domain/value"
	"tg_garant/pkg/contextx"
	"tg_garant/pkg/errcodes"
	"tg_garant/pkg/logx"
	"tg_garant/pkg/metrics"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Registry — авторитетное хранилище сделок. Transition/Conclude обязаны
// выполнять гард и мутацию атомарно для конкретной сделки.
type Registry interface {
	Create(deal entity.Deal) (entity.Deal, error)
	Get(id value.DealID) (entity.Deal, error)
	Transition(id value.DealID, guard func(entity.Deal) error, mutate func(*entity.Deal)) (entity.Deal, error)
	Conclude(id value.DealID, guard func(entity.Deal) error, mutate func(*entity.Deal)) (entity.Deal, error)
	ExpireSweep(now time.Time) []entity.Deal
	ActiveByCreator(creatorID int64, now time.Time) []entity.Deal
	History(creatorID int64, limit int) []entity.Deal
	Recent(limit int) []entity.Deal
	Len() int
}

type PartyStore interface {
	Get(id int64) entity.Party
	SetWallet(id int64, wallet string)
}

// Notifier доставляет логическое событие получателю. Ошибки доставки не
// откатывают переход: состояние уже продвинуто.
type Notifier interface {
	Notify(ctx context.Context, recipientID int64, event Event) error
}

// LinkBuilder превращает идентификатор сделки в платформенную deep-ссылку.
type LinkBuilder interface {
	BuildDeepLink(id value.DealID) string
}

// Timing — тайм-боксы жизненного цикла.
type Timing struct {
	LinkTTL          time.Duration // срок жизни пригласительной ссылки
	SellerConfirmTTL time.Duration // окно оплаты после подтверждения отправки
	ConfirmDelayMin  time.Duration // пауза "обработки" при подтверждении отправки
	ConfirmDelayMax  time.Duration
}

// Service — машина состояний сделки. Все переходы идут через
// Registry.Transition/Conclude, гарды лежат в guards.go.
type Service struct {
	registry Registry
	parties  PartyStore
	notifier Notifier
	links    LinkBuilder
	timing   Timing
	metrics  *metrics.DealMetrics
	now      func() time.Time
}

func NewService(
	registry Registry,
	parties PartyStore,
	notifier Notifier,
	links LinkBuilder,
	timing Timing,
) *Service {
	return &Service{
		registry: registry,
		parties:  parties,
		notifier: notifier,
		links:    links,
		timing:   timing,
		now:      time.Now,
	}
}

func (s *Service) WithMetrics(m *metrics.DealMetrics) *Service {
	s.metrics = m
	return s
}

// WithClock подменяет источник времени в тестах.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CreateFromDraft материализует завершённый черновик в сделку со статусом
// new и дедлайном ссылки now+LinkTTL. Метод расчёта и язык берутся из
// профиля создателя на момент создания.
func (s *Service) CreateFromDraft(ctx context.Context, creatorID int64, draft entity.Draft) (entity.Deal, error) {
	if !draft.Complete() {
		return entity.Deal{}, domain.NewError(errcodes.DraftIncomplete, "draft is missing required fields")
	}

	party := s.parties.Get(creatorID)

	d := entity.Deal{
		CreatorID:       creatorID,
		Title:           draft.Title,
		Description:     draft.Description,
		Method:          party.Method,
		TargetRecipient: draft.Recipient,
		Status:          value.StatusNew,
		Lang:            party.Lang,
	}

	// Взаимоисключающие формы цены.
	if party.Method.IsExchange() {
		if draft.ExchangeTerms == "" {
			return entity.Deal{}, domain.NewError(errcodes.DraftIncomplete, "exchange terms required for EXCHANGE method")
		}
		d.ExchangeTerms = draft.ExchangeTerms
	} else {
		if !draft.HasPrice {
			return entity.Deal{}, domain.NewError(errcodes.DraftIncomplete, "price required for non-exchange method")
		}
		d.PriceValue = draft.PriceValue
	}

	id, err := value.NewDealID()
	if err != nil {
		return entity.Deal{}, domain.WrapError(err, errcodes.InternalServerError, "allocate deal id")
	}

	now := s.now()
	d.ID = id
	d.CreatedAt = now
	d.LinkExpiresAt = now.Add(s.timing.LinkTTL)
	d.DeepLink = s.links.BuildDeepLink(id)

	created, err := s.registry.Create(d)
	if err != nil {
		return entity.Deal{}, err
	}

	if s.metrics != nil {
		s.metrics.Created.Inc()
		s.metrics.Live.Inc()
	}

	logger(ctx).Info("deal created",
		slog.String(logx.FieldDealID, created.ID.String()),
		slog.Int64(logx.FieldUserID, creatorID),
		slog.String("method", created.Method.String()),
	)

	return created, nil
}

// OpenDeepLink — продавец пришёл по пригласительной ссылке. Полей сделки
// не меняет; просроченная ссылка отбивается сразу.
func (s *Service) OpenDeepLink(ctx context.Context, id value.DealID) (entity.Deal, error) {
	d, err := s.registry.Get(id)
	if err != nil {
		return entity.Deal{}, err
	}

	if d.Expired(s.now()) {
		return entity.Deal{}, errExpired()
	}

	return d, nil
}

// SubmitSellerWallet валидирует адрес и закрепляет продавца за сделкой.
func (s *Service) SubmitSellerWallet(ctx context.Context, actorID int64, id value.DealID, wallet string) (entity.Deal, error) {
	wallet = strings.TrimSpace(wallet)

	if !value.IsWalletAddress(wallet) {
		return entity.Deal{}, domain.NewError(errcodes.InvalidWallet, "not a TON address")
	}

	now := s.now()

	d, err := s.registry.Transition(id,
		func(d entity.Deal) error { return canSubmitWallet(d, now) },
		func(d *entity.Deal) {
			d.SellerID = actorID
			d.SellerWallet = wallet
		},
	)
	if err != nil {
		return entity.Deal{}, err
	}

	s.parties.SetWallet(actorID, wallet)

	logger(ctx).Info("seller wallet accepted",
		slog.String(logx.FieldDealID, id.String()),
		slog.Int64(logx.FieldUserID, actorID),
	)

	return d, nil
}

// AcceptOrder показывает продавцу карточку ордера; состояние не меняется.
func (s *Service) AcceptOrder(ctx context.Context, actorID int64, id value.DealID) (entity.Deal, error) {
	d, err := s.registry.Get(id)
	if err != nil {
		return entity.Deal{}, err
	}

	if err := canAccept(d, actorID); err != nil {
		return entity.Deal{}, err
	}

	return d, nil
}

// Stop — любая из сторон останавливает ордер. Терминальный переход:
// сделка уходит в историю создателя, вторая сторона уведомляется.
func (s *Service) Stop(ctx context.Context, actorID int64, id value.DealID) (entity.Deal, error) {
	d, err := s.registry.Conclude(id,
		func(d entity.Deal) error { return canStop(d, actorID) },
		func(d *entity.Deal) { d.Status = value.StatusStopped },
	)
	if err != nil {
		return entity.Deal{}, err
	}

	if s.metrics != nil {
		s.metrics.Stopped.Inc()
		s.metrics.Live.Dec()
	}

	logger(ctx).Info("deal stopped",
		slog.String(logx.FieldDealID, id.String()),
		slog.Int64(logx.FieldUserID, actorID),
	)

	// Уведомляется та сторона, которая не нажимала кнопку.
	switch {
	case actorID != d.CreatorID:
		s.notify(ctx, d.CreatorID, DealStopped{Deal: d})
	case d.HasSeller():
		s.notify(ctx, d.SellerID, DealStopped{Deal: d})
	}

	return d, nil
}

// ConfirmShipment — продавец подтверждает отправку. Переход двухфазный:
// сделка помечается processing, выдерживается пауза (чистый UX-пейсинг,
// не ретрай), затем под той же слотовой блокировкой гард перепроверяется
// и сделка уходит в await_payment с MEMO-кодом и дедлайном оплаты.
func (s *Service) ConfirmShipment(ctx context.Context, actorID int64, id value.DealID) (entity.Deal, error) {
	now := s.now()

	if _, err := s.registry.Transition(id,
		func(d entity.Deal) error { return canConfirmShipment(d, actorID, now) },
		func(d *entity.Deal) { d.Processing = true },
	); err != nil {
		return entity.Deal{}, err
	}

	if err := s.sleep(ctx, s.confirmDelay()); err != nil {
		// Остановка процесса: снимаем флаг, чтобы сделка не зависла инертной.
		_, _ = s.registry.Transition(id,
			func(d entity.Deal) error { return canFinishProcessing(d) },
			func(d *entity.Deal) { d.Processing = false },
		)

		return entity.Deal{}, err
	}

	memo, err := value.NewMemoCode()
	if err != nil {
		return entity.Deal{}, domain.WrapError(err, errcodes.InternalServerError, "generate memo code")
	}

	deadline := s.now().Add(s.timing.SellerConfirmTTL)

	d, err := s.registry.Transition(id,
		canFinishProcessing,
		func(d *entity.Deal) {
			d.Status = value.StatusAwaitPayment
			d.SellerConfirmDeadline = deadline
			d.Memo = memo
			d.Processing = false
		},
	)
	if err != nil {
		return entity.Deal{}, err
	}

	logger(ctx).Info("shipment confirmed",
		slog.String(logx.FieldDealID, id.String()),
		slog.String(logx.FieldStatus, d.Status.String()),
	)

	s.notify(ctx, d.CreatorID, PaymentRequested{Deal: d})

	return d, nil
}

// MarkPaid — покупатель отметил оплату; продавца просят подтвердить
// получение.
func (s *Service) MarkPaid(ctx context.Context, actorID int64, id value.DealID) (entity.Deal, error) {
	now := s.now()

	d, err := s.registry.Transition(id,
		func(d entity.Deal) error { return canMarkPaid(d, actorID, now) },
		func(d *entity.Deal) { d.Status = value.StatusAwaitSellerFinal },
	)
	if err != nil {
		return entity.Deal{}, err
	}

	logger(ctx).Info("buyer marked paid", slog.String(logx.FieldDealID, id.String()))

	s.notify(ctx, d.SellerID, ReceiptConfirmationRequested{Deal: d})

	return d, nil
}

// ConfirmReceipt — продавец подтвердил получение средств. Терминальный
// переход в done с архивацией.
func (s *Service) ConfirmReceipt(ctx context.Context, actorID int64, id value.DealID) (entity.Deal, error) {
	d, err := s.registry.Conclude(id,
		func(d entity.Deal) error { return canConfirmReceipt(d, actorID) },
		func(d *entity.Deal) { d.Status = value.StatusDone },
	)
	if err != nil {
		return entity.Deal{}, err
	}

	if s.metrics != nil {
		s.metrics.Completed.Inc()
		s.metrics.Live.Dec()
	}

	logger(ctx).Info("deal completed", slog.String(logx.FieldDealID, id.String()))

	s.notify(ctx, d.CreatorID, DealCompleted{Deal: d})

	return d, nil
}

// Memo отдаёт MEMO-код для кнопки "скопировать".
func (s *Service) Memo(ctx context.Context, id value.DealID) (value.MemoCode, error) {
	d, err := s.registry.Get(id)
	if err != nil {
		return "", err
	}

	if d.Memo.IsZero() {
		return "", domain.NewError(errcodes.MemoUnavailable, "memo not generated yet")
	}

	return d.Memo, nil
}

// Sweep — один проход экспирации: просроченные сделки убираются из
// реестра, создатель каждой уведомляется ровно один раз.
func (s *Service) Sweep(ctx context.Context, now time.Time) int {
	expired := s.registry.ExpireSweep(now)

	for _, d := range expired {
		if s.metrics != nil {
			s.metrics.Expired.Inc()
			s.metrics.Live.Dec()
		}

		logger(ctx).Info("deal expired",
			slog.String(logx.FieldDealID, d.ID.String()),
			slog.String(logx.FieldStatus, d.Status.String()),
		)

		s.notify(ctx, d.CreatorID, DealExpired{Deal: d})
	}

	return len(expired)
}

func (s *Service) Get(ctx context.Context, id value.DealID) (entity.Deal, error) {
	return s.registry.Get(id)
}

// ActiveDeals — живые сделки создателя, свежие первыми.
func (s *Service) ActiveDeals(ctx context.Context, creatorID int64) []entity.Deal {
	return s.registry.ActiveByCreator(creatorID, s.now())
}

func (s *Service) History(ctx context.Context, creatorID int64, limit int) []entity.Deal {
	return s.registry.History(creatorID, limit)
}

func (s *Service) Recent(ctx context.Context, limit int) []entity.Deal {
	return s.registry.Recent(limit)
}

func (s *Service) notify(ctx context.Context, recipientID int64, event Event) {
	if err := s.notifier.Notify(ctx, recipientID, event); err != nil {
		logger(ctx).Error("notify failed",
			slog.Int64(logx.FieldUserID, recipientID),
			logx.Error(err),
		)
	}
}

func (s *Service) confirmDelay() time.Duration {
	minDelay, maxDelay := s.timing.ConfirmDelayMin, s.timing.ConfirmDelayMax
	if maxDelay <= minDelay {
		return minDelay
	}

	return minDelay + time.Duration(rand.Int63n(int64(maxDelay-minDelay)+1)) //nolint:gosec // пейсинг, не криптография
}

func (s *Service) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
