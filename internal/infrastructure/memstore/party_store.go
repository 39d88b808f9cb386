package memstore

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	cache "github.com/patrickmn/go-cache"

	"tg_garant/internal/domain/entity"
	"tg_garant/internal/domain/value"
)

// PartyStore — профили участников поверх go-cache без экспирации: записи
// создаются лениво и живут до конца процесса. Мьютекс сериализует
// read-modify-write, сам кэш даёт только атомарные Get/Set.
type PartyStore struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func NewPartyStore() *PartyStore {
	return &PartyStore{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func partyKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

// Get возвращает профиль, создавая дефолтный при первом обращении
// (язык ru, метод расчёта TON).
func (s *PartyStore) Get(id int64) entity.Party {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.get(id)
}

func (s *PartyStore) get(id int64) entity.Party {
	if v, ok := s.cache.Get(partyKey(id)); ok {
		return v.(entity.Party)
	}

	p := entity.Party{
		ID:       id,
		Username: fmt.Sprintf("id%d", id),
		Lang:     value.LangRU,
		Method:   value.MethodTON,
	}
	s.cache.Set(partyKey(id), p, cache.NoExpiration)

	return p
}

func (s *PartyStore) update(id int64, fn func(*entity.Party)) entity.Party {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.get(id)
	fn(&p)
	s.cache.Set(partyKey(id), p, cache.NoExpiration)

	return p
}

func (s *PartyStore) SetLang(id int64, lang value.Lang) {
	s.update(id, func(p *entity.Party) { p.Lang = lang.OrDefault() })
}

func (s *PartyStore) SetWallet(id int64, wallet string) {
	s.update(id, func(p *entity.Party) { p.Wallet = wallet })
}

func (s *PartyStore) SetMethod(id int64, method value.SettleMethod) {
	s.update(id, func(p *entity.Party) { p.Method = method })
}

// RememberUsername сохраняет "@handle"; пустой handle не затирает уже
// известное имя.
func (s *PartyStore) RememberUsername(id int64, username string) {
	if username == "" {
		return
	}

	s.update(id, func(p *entity.Party) { p.Username = "@" + username })
}

// FindByUsername ищет участника по "@handle" без учёта регистра.
func (s *PartyStore) FindByUsername(username string) (entity.Party, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.cache.Items() {
		p := item.Object.(entity.Party)
		if strings.EqualFold(p.Username, username) {
			return p, true
		}
	}

	return entity.Party{}, false
}

// SwapWarning ставит новую ссылку на предупреждение и возвращает прежнюю,
// чтобы транспорт удалил устаревшее сообщение. Ноль очищает ссылку.
func (s *PartyStore) SwapWarning(id int64, ref int) (prev int) {
	s.update(id, func(p *entity.Party) {
		prev = p.WarningRef
		p.WarningRef = ref
	})

	return prev
}
