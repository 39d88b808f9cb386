package memstore

import (
	"sort"
	"sync"
	"time"

	"tg_garant/internal/domain"
	"tg_garant/internal/domain/entity"
	"tg_garant/internal/domain/value"
	"tg_garant/pkg/errcodes"
)

// slot хранит одну живую сделку под собственной блокировкой: гард и
// мутация любого перехода выполняются в одной критической секции,
// поэтому sweep и действие пользователя не могут "выиграть" оба.
type slot struct {
	mu   sync.Mutex
	deal entity.Deal
	gone bool // уже удалена из реестра; слот мог остаться у конкурентов
}

// Registry — авторитетный реестр живых сделок плюс история по создателям.
// Стейт намеренно только в памяти: рестарт процесса его теряет.
type Registry struct {
	mu           sync.RWMutex
	deals        map[value.DealID]*slot
	history      map[int64][]entity.Deal
	historyLimit int
}

func NewRegistry(historyLimit int) *Registry {
	return &Registry{
		deals:        make(map[value.DealID]*slot),
		history:      make(map[int64][]entity.Deal),
		historyLimit: historyLimit,
	}
}

func errDealNotFound() error {
	return domain.NewError(errcodes.DealNotFound, "deal not found")
}

// Create регистрирует сделку. Пустой ID аллоцируется из криптографического
// ГСЧ; повтор идентификатора — ошибка, а не перезапись.
func (r *Registry) Create(deal entity.Deal) (entity.Deal, error) {
	if deal.ID.IsZero() {
		id, err := value.NewDealID()
		if err != nil {
			return entity.Deal{}, domain.WrapError(err, errcodes.InternalServerError, "allocate deal id")
		}
		deal.ID = id
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.deals[deal.ID]; exists {
		return entity.Deal{}, domain.NewError(errcodes.DealConflict, "deal id already registered")
	}

	r.deals[deal.ID] = &slot{deal: deal}

	return deal, nil
}

func (r *Registry) lookup(id value.DealID) *slot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.deals[id]
}

// Get возвращает копию сделки.
func (r *Registry) Get(id value.DealID) (entity.Deal, error) {
	s := r.lookup(id)
	if s == nil {
		return entity.Deal{}, errDealNotFound()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gone {
		return entity.Deal{}, errDealNotFound()
	}

	return s.deal, nil
}

// Transition атомарно проверяет гард на текущем снимке и применяет
// мутацию. Ошибка гарда возвращается как есть, состояние не меняется.
func (r *Registry) Transition(
	id value.DealID,
	guard func(entity.Deal) error,
	mutate func(*entity.Deal),
) (entity.Deal, error) {
	s := r.lookup(id)
	if s == nil {
		return entity.Deal{}, errDealNotFound()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gone {
		return entity.Deal{}, errDealNotFound()
	}

	if err := guard(s.deal); err != nil {
		return entity.Deal{}, err
	}

	mutate(&s.deal)

	return s.deal, nil
}

// Conclude — терминальный переход: мутация, перенос в историю создателя и
// удаление из живого реестра. Слот помечается gone под своей блокировкой,
// так что проигравший конкурент получит DealNotFound, а не второй эффект.
func (r *Registry) Conclude(
	id value.DealID,
	guard func(entity.Deal) error,
	mutate func(*entity.Deal),
) (entity.Deal, error) {
	s := r.lookup(id)
	if s == nil {
		return entity.Deal{}, errDealNotFound()
	}

	s.mu.Lock()

	if s.gone {
		s.mu.Unlock()
		return entity.Deal{}, errDealNotFound()
	}

	if err := guard(s.deal); err != nil {
		s.mu.Unlock()
		return entity.Deal{}, err
	}

	mutate(&s.deal)
	s.gone = true
	deal := s.deal

	s.mu.Unlock()

	r.mu.Lock()
	delete(r.deals, id)
	r.pushHistory(deal)
	r.mu.Unlock()

	return deal, nil
}

func (r *Registry) pushHistory(deal entity.Deal) {
	items := append([]entity.Deal{deal}, r.history[deal.CreatorID]...)
	if r.historyLimit > 0 && len(items) > r.historyLimit {
		items = items[:r.historyLimit]
	}
	r.history[deal.CreatorID] = items
}

// ExpireSweep удаляет просроченные живые сделки и возвращает их для
// уведомления создателей. Экспирация — не завершённая сделка, в историю
// она не попадает. Processing-сделки пропускаются: пауза подтверждения
// сама перепроверит гард по окончании.
func (r *Registry) ExpireSweep(now time.Time) []entity.Deal {
	r.mu.RLock()
	slots := make([]*slot, 0, len(r.deals))
	for _, s := range r.deals {
		slots = append(slots, s)
	}
	r.mu.RUnlock()

	var expired []entity.Deal

	for _, s := range slots {
		s.mu.Lock()
		if !s.gone && !s.deal.Processing && !s.deal.Status.IsTerminal() && s.deal.Expired(now) {
			s.gone = true
			expired = append(expired, s.deal)
		}
		s.mu.Unlock()
	}

	if len(expired) == 0 {
		return nil
	}

	r.mu.Lock()
	for _, d := range expired {
		delete(r.deals, d.ID)
	}
	r.mu.Unlock()

	return expired
}

// ActiveByCreator — живые не просроченные сделки создателя, свежие первыми.
func (r *Registry) ActiveByCreator(creatorID int64, now time.Time) []entity.Deal {
	r.mu.RLock()
	slots := make([]*slot, 0, len(r.deals))
	for _, s := range r.deals {
		slots = append(slots, s)
	}
	r.mu.RUnlock()

	var active []entity.Deal

	for _, s := range slots {
		s.mu.Lock()
		if !s.gone && s.deal.CreatorID == creatorID && !s.deal.Status.IsTerminal() && !s.deal.Expired(now) {
			active = append(active, s.deal)
		}
		s.mu.Unlock()
	}

	sort.Slice(active, func(i, j int) bool {
		return active[i].CreatedAt.After(active[j].CreatedAt)
	})

	return active
}

// History — завершённые сделки создателя, свежие первыми.
func (r *Registry) History(creatorID int64, limit int) []entity.Deal {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.history[creatorID]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	out := make([]entity.Deal, len(items))
	copy(out, items)

	return out
}

// Recent — живые и завершённые сделки вперемешку, свежие первыми.
// Админская выборка.
func (r *Registry) Recent(limit int) []entity.Deal {
	r.mu.RLock()
	slots := make([]*slot, 0, len(r.deals))
	for _, s := range r.deals {
		slots = append(slots, s)
	}

	var items []entity.Deal
	for _, hs := range r.history {
		items = append(items, hs...)
	}
	r.mu.RUnlock()

	for _, s := range slots {
		s.mu.Lock()
		if !s.gone {
			items = append(items, s.deal)
		}
		s.mu.Unlock()
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	return items
}

// Len — количество живых сделок.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.deals)
}
