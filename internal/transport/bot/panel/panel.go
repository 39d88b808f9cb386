package panel

import (
	"context"
	"sync"
	"time"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"tg_garant/pkg/contextx"
	"tg_garant/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// LogEntry — одна реплика в журнале чата пользователя.
type LogEntry struct {
	At       time.Time
	FromUser bool
	Text     string
}

type msgRef struct {
	chatID    int64
	messageID int
}

const chatLogLimit = 200

// Manager держит в каждом чате одно "панельное" сообщение и редактирует
// его вместо рассылки новых. Заодно ведёт журнал реплик и список всех
// отправленных сообщений для админской зачистки.
type Manager struct {
	bot *telego.Bot

	mu      sync.Mutex
	panels  map[int64]int      // chatID -> message id панели
	flow    map[int64][]int    // chatID -> сообщения мастера на удаление
	refs    map[int64][]msgRef // userID -> все известные сообщения
	chatlog map[int64][]LogEntry
}

func NewManager(bot *telego.Bot) *Manager {
	return &Manager{
		bot:     bot,
		panels:  make(map[int64]int),
		flow:    make(map[int64][]int),
		refs:    make(map[int64][]msgRef),
		chatlog: make(map[int64][]LogEntry),
	}
}

// Show выводит панель: правит существующее сообщение, при неудаче шлёт
// новое. В приватных чатах chatID совпадает с userID.
func (m *Manager) Show(ctx context.Context, chatID int64, text string, markup *telego.InlineKeyboardMarkup) error {
	m.appendLog(chatID, LogEntry{At: time.Now(), FromUser: false, Text: text})

	m.mu.Lock()
	panelID := m.panels[chatID]
	m.mu.Unlock()

	if panelID != 0 {
		msg, err := m.bot.EditMessageText(ctx, &telego.EditMessageTextParams{
			ChatID:      tu.ID(chatID),
			MessageID:   panelID,
			Text:        text,
			ParseMode:   telego.ModeHTML,
			ReplyMarkup: markup,
		})
		if err == nil {
			m.remember(chatID, chatID, msg.MessageID)
			return nil
		}
		// Панель могли удалить руками; падаем на отправку нового.
	}

	msg, err := m.bot.SendMessage(ctx, &telego.SendMessageParams{
		ChatID:      tu.ID(chatID),
		Text:        text,
		ParseMode:   telego.ModeHTML,
		ReplyMarkup: markup,
	})
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.panels[chatID] = msg.MessageID
	m.mu.Unlock()

	m.remember(chatID, chatID, msg.MessageID)

	return nil
}

// TrackUserMessage регистрирует входящее сообщение: в журнал, в общий
// список и в список сообщений мастера (их удалит ClearFlow).
func (m *Manager) TrackUserMessage(userID, chatID int64, messageID int, text string) {
	m.appendLog(userID, LogEntry{At: time.Now(), FromUser: true, Text: text})
	m.remember(userID, chatID, messageID)

	m.mu.Lock()
	m.flow[chatID] = append(m.flow[chatID], messageID)
	m.mu.Unlock()
}

// ClearFlow удаляет накопленные сообщения мастера, чтобы чат оставался
// одной панелью.
func (m *Manager) ClearFlow(ctx context.Context, chatID int64) {
	m.mu.Lock()
	ids := m.flow[chatID]
	m.flow[chatID] = nil
	m.mu.Unlock()

	for _, id := range ids {
		m.Delete(ctx, chatID, id)
	}
}

// Delete — best-effort удаление: сообщение могло уже исчезнуть.
func (m *Manager) Delete(ctx context.Context, chatID int64, messageID int) {
	err := m.bot.DeleteMessage(ctx, &telego.DeleteMessageParams{
		ChatID:    tu.ID(chatID),
		MessageID: messageID,
	})
	if err != nil {
		logger(ctx).Debug("delete message", logx.Error(err))
	}
}

// ChatLog — последние записи журнала пользователя.
func (m *Manager) ChatLog(userID int64, limit int) []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := m.chatlog[userID]
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}

	out := make([]LogEntry, len(entries))
	copy(out, entries)

	return out
}

// Purge удаляет все известные сообщения пользователя, включая панель.
// Возвращает число удалённых.
func (m *Manager) Purge(ctx context.Context, userID int64) int {
	m.mu.Lock()
	refs := m.refs[userID]
	m.refs[userID] = nil

	panelID := m.panels[userID]
	delete(m.panels, userID)
	m.mu.Unlock()

	removed := 0

	for _, ref := range refs {
		if err := m.bot.DeleteMessage(ctx, &telego.DeleteMessageParams{
			ChatID:    tu.ID(ref.chatID),
			MessageID: ref.messageID,
		}); err == nil {
			removed++
		}
	}

	if panelID != 0 {
		if err := m.bot.DeleteMessage(ctx, &telego.DeleteMessageParams{
			ChatID:    tu.ID(userID),
			MessageID: panelID,
		}); err == nil {
			removed++
		}
	}

	return removed
}

func (m *Manager) remember(userID, chatID int64, messageID int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.refs[userID] = append(m.refs[userID], msgRef{chatID: chatID, messageID: messageID})
}

func (m *Manager) appendLog(userID int64, entry LogEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := append(m.chatlog[userID], entry)
	if len(entries) > chatLogLimit {
		entries = entries[len(entries)-chatLogLimit:]
	}
	m.chatlog[userID] = entries
}
