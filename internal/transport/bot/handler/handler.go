package handler

import (
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"

	dealsvc "tg_garant/internal/domain/service/deal"
	draftsvc "tg_garant/internal/domain/service/draft"
	"tg_garant/internal/domain/value"
	"tg_garant/internal/infrastructure/memstore"
	"tg_garant/internal/transport/bot/panel"
	"tg_garant/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Состояния диалога. Живут в кеше с TTL: брошенный ввод сам истекает.
type sessionState int

const (
	stateAwaitWallet sessionState = iota + 1
	stateCreating
	stateSellerWallet
	stateAdminChatLog
	stateAdminPurge
)

type session struct {
	State  sessionState
	DealID value.DealID // для онбординга продавца
}

const (
	sessionTTL     = 30 * time.Minute
	sessionCleanup = 10 * time.Minute

	historyShown = 10
	recentShown  = 20
	chatLogShown = 50
)

type Handler struct {
	deals   *dealsvc.Service
	drafts  *draftsvc.Service
	parties *memstore.PartyStore
	panels  *panel.Manager

	adminID  int64
	sessions *cache.Cache
}

func New(
	deals *dealsvc.Service,
	drafts *draftsvc.Service,
	parties *memstore.PartyStore,
	panels *panel.Manager,
	adminID int64,
) *Handler {
	return &Handler{
		deals:    deals,
		drafts:   drafts,
		parties:  parties,
		panels:   panels,
		adminID:  adminID,
		sessions: cache.New(sessionTTL, sessionCleanup),
	}
}

func (h *Handler) isAdmin(userID int64) bool {
	return h.adminID != 0 && userID == h.adminID
}

func (h *Handler) setSession(userID int64, s session) {
	h.sessions.SetDefault(strconv.FormatInt(userID, 10), s)
}

func (h *Handler) getSession(userID int64) (session, bool) {
	v, ok := h.sessions.Get(strconv.FormatInt(userID, 10))
	if !ok {
		return session{}, false
	}
	return v.(session), true
}

func (h *Handler) clearSession(userID int64) {
	h.sessions.Delete(strconv.FormatInt(userID, 10))
}
