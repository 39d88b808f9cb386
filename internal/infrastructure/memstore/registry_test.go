package memstore_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tg_garant/internal/domain"
	"tg_garant/internal/domain/entity"
	"tg_garant/internal/domain/value"
	"tg_garant/internal/infrastructure/memstore"
	"tg_garant/pkg/errcodes"
)

func newDeal(t *testing.T, creatorID int64, createdAt time.Time) entity.Deal {
	t.Helper()

	return entity.Deal{
		CreatorID:       creatorID,
		Title:           "Snoop Dog #42",
		Description:     "NFT gift",
		Method:          value.MethodTON,
		PriceValue:      12.5,
		TargetRecipient: "@buyer",
		Status:          value.StatusNew,
		CreatedAt:       createdAt,
		LinkExpiresAt:   createdAt.Add(30 * time.Minute),
		Lang:            value.LangRU,
	}
}

func TestRegistryCreateGet(t *testing.T) {
	rq := require.New(t)

	r := memstore.NewRegistry(50)
	now := time.Now()

	created, err := r.Create(newDeal(t, 1, now))
	rq.NoError(err)
	rq.False(created.ID.IsZero())

	got, err := r.Get(created.ID)
	rq.NoError(err)
	rq.Equal(created, got)
	rq.Equal(value.StatusNew, got.Status)
	rq.True(got.PricingValid())

	_, err = r.Get(value.DealID("missing"))
	rq.True(domain.CodeIs(err, errcodes.DealNotFound))

	rq.Equal(1, r.Len())
}

func TestRegistryCreateRejectsDuplicateID(t *testing.T) {
	rq := require.New(t)

	r := memstore.NewRegistry(50)
	now := time.Now()

	deal := newDeal(t, 1, now)
	deal.ID = value.DealID("fixed-id")

	_, err := r.Create(deal)
	rq.NoError(err)

	_, err = r.Create(deal)
	rq.True(domain.CodeIs(err, errcodes.DealConflict))
}

func TestRegistryTransition(t *testing.T) {
	rq := require.New(t)

	r := memstore.NewRegistry(50)
	now := time.Now()

	created, err := r.Create(newDeal(t, 1, now))
	rq.NoError(err)

	guardErr := domain.NewError(errcodes.DealConflict, "wrong status")

	updated, err := r.Transition(created.ID,
		func(d entity.Deal) error {
			if d.Status != value.StatusNew {
				return guardErr
			}
			return nil
		},
		func(d *entity.Deal) {
			d.SellerID = 2
			d.SellerWallet = "ton://transfer/EQabc"
		},
	)
	rq.NoError(err)
	rq.EqualValues(2, updated.SellerID)

	// Гард видит уже применённую мутацию.
	_, err = r.Transition(created.ID,
		func(d entity.Deal) error {
			if d.SellerID != 0 {
				return guardErr
			}
			return nil
		},
		func(*entity.Deal) {},
	)
	rq.ErrorIs(err, guardErr)
}

func TestRegistryConcludeArchivesAndRemoves(t *testing.T) {
	rq := require.New(t)

	r := memstore.NewRegistry(50)
	now := time.Now()

	first, err := r.Create(newDeal(t, 1, now))
	rq.NoError(err)

	second, err := r.Create(newDeal(t, 1, now.Add(time.Minute)))
	rq.NoError(err)

	for _, id := range []value.DealID{first.ID, second.ID} {
		_, err = r.Conclude(id,
			func(entity.Deal) error { return nil },
			func(d *entity.Deal) { d.Status = value.StatusStopped },
		)
		rq.NoError(err)
	}

	rq.Equal(0, r.Len())

	history := r.History(1, 10)
	rq.Len(history, 2)
	// Свежие первыми.
	rq.Equal(second.ID, history[0].ID)
	rq.Equal(first.ID, history[1].ID)
	rq.Equal(value.StatusStopped, history[0].Status)

	// Повторное завершение — уже не найдена.
	_, err = r.Conclude(first.ID,
		func(entity.Deal) error { return nil },
		func(d *entity.Deal) { d.Status = value.StatusStopped },
	)
	rq.True(domain.CodeIs(err, errcodes.DealNotFound))
}

func TestRegistryHistoryBounded(t *testing.T) {
	rq := require.New(t)

	r := memstore.NewRegistry(3)
	now := time.Now()

	for i := range 5 {
		created, err := r.Create(newDeal(t, 7, now.Add(time.Duration(i)*time.Minute)))
		rq.NoError(err)

		_, err = r.Conclude(created.ID,
			func(entity.Deal) error { return nil },
			func(d *entity.Deal) { d.Status = value.StatusDone },
		)
		rq.NoError(err)
	}

	rq.Len(r.History(7, 0), 3)
	rq.Len(r.History(7, 2), 2)
}

func TestRegistryExpireSweep(t *testing.T) {
	rq := require.New(t)

	r := memstore.NewRegistry(50)
	now := time.Now()

	stale, err := r.Create(newDeal(t, 1, now.Add(-time.Hour)))
	rq.NoError(err)

	fresh, err := r.Create(newDeal(t, 2, now))
	rq.NoError(err)

	processing := newDeal(t, 3, now.Add(-time.Hour))
	processing.Processing = true
	processing, err = r.Create(processing)
	rq.NoError(err)

	expired := r.ExpireSweep(now)
	rq.Len(expired, 1)
	rq.Equal(stale.ID, expired[0].ID)

	_, err = r.Get(stale.ID)
	rq.True(domain.CodeIs(err, errcodes.DealNotFound))

	_, err = r.Get(fresh.ID)
	rq.NoError(err)

	_, err = r.Get(processing.ID)
	rq.NoError(err)

	// Экспирация — не завершение: истории нет.
	rq.Empty(r.History(1, 10))

	// Повторный sweep ничего не находит.
	rq.Empty(r.ExpireSweep(now))
}

// Просроченная сделка и конкурентный переход: побеждает ровно одна сторона.
func TestRegistrySweepTransitionRace(t *testing.T) {
	rq := require.New(t)

	for range 100 {
		r := memstore.NewRegistry(50)
		now := time.Now()

		created, err := r.Create(newDeal(t, 1, now.Add(-time.Hour)))
		rq.NoError(err)

		var (
			wg            sync.WaitGroup
			expiredCount  int
			advancedCount int
			transitionErr error
		)

		wg.Add(2)

		go func() {
			defer wg.Done()
			expiredCount = len(r.ExpireSweep(now))
		}()

		go func() {
			defer wg.Done()
			_, transitionErr = r.Transition(created.ID,
				func(d entity.Deal) error {
					if d.Expired(now) {
						return domain.NewError(errcodes.DealExpired, "deal expired")
					}
					return nil
				},
				func(d *entity.Deal) { d.SellerID = 2 },
			)
			if transitionErr == nil {
				advancedCount = 1
			}
		}()

		wg.Wait()

		rq.Equal(1, expiredCount+advancedCount,
			"exactly one of sweep/transition must win: sweep=%d advanced=%d err=%v",
			expiredCount, advancedCount, transitionErr)
	}
}

func TestRegistryActiveByCreatorAndRecent(t *testing.T) {
	rq := require.New(t)

	r := memstore.NewRegistry(50)
	now := time.Now()

	old, err := r.Create(newDeal(t, 1, now.Add(-time.Minute)))
	rq.NoError(err)

	newest, err := r.Create(newDeal(t, 1, now))
	rq.NoError(err)

	_, err = r.Create(newDeal(t, 2, now))
	rq.NoError(err)

	expiredDeal, err := r.Create(newDeal(t, 1, now.Add(-2*time.Hour)))
	rq.NoError(err)

	active := r.ActiveByCreator(1, now)
	rq.Len(active, 2)
	rq.Equal(newest.ID, active[0].ID)
	rq.Equal(old.ID, active[1].ID)
	rq.NotContains([]value.DealID{active[0].ID, active[1].ID}, expiredDeal.ID)

	recent := r.Recent(2)
	rq.Len(recent, 2)
}
