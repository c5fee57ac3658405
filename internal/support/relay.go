// Файл: internal/support/relay.go
package support

import (
	"fmt"
	"log"
	"regexp"
	"strconv"
	"sync"
	"time"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"Exchange/internal/telegram_api"
)

// headerPattern — шаблон заголовка, по которому ответ администратора
// сопоставляется с чатом пользователя: в тексте заголовка встраивается
// "[ID: <chatID>]".
// headerPattern matches the embedded "[ID: <chatID>]" tag that routes an
// admin's reply back to the user's chat.
var headerPattern = regexp.MustCompile(`\[ID: (\d+)\]`)

// replyEntry — запись карты ответов: какой заголовок на какой чат указывает.
type replyEntry struct {
	userChatID int64
	createdAt  time.Time
}

// Relay пересылает обращения пользователей в фиксированный админ-чат и
// маршрутизирует ответы администратора обратно. Карта ответов живет в памяти
// процесса; записи без ответа вытесняются периодической чисткой
// (см. EvictOlderThan) — в исходнике карта росла неограниченно.
// Relay forwards user inquiries into the fixed admin chat and routes the
// admin's replies back. The reply map lives in process memory; unanswered
// entries are evicted by a periodic sweep (see EvictOlderThan) — in the
// source the map grew without bound.
type Relay struct {
	sender      telegram_api.MessageSender
	adminChatID int64

	mu      sync.Mutex
	entries map[int]replyEntry // Ключ: messageID заголовка в админ-чате
}

// NewRelay создает релей поддержки для указанного админ-чата.
// NewRelay creates a support relay for the given admin chat.
func NewRelay(sender telegram_api.MessageSender, adminChatID int64) *Relay {
	return &Relay{
		sender:      sender,
		adminChatID: adminChatID,
		entries:     make(map[int]replyEntry),
	}
}

// FormatHeader строит текст заголовка с встроенным идентификатором чата.
// FormatHeader builds the header text with the embedded chat identifier.
func FormatHeader(userChatID int64, userName string) string {
	if userName != "" {
		return fmt.Sprintf("📨 Inquiry from @%s [ID: %d]", userName, userChatID)
	}
	return fmt.Sprintf("📨 Inquiry [ID: %d]", userChatID)
}

// ExtractChatID извлекает идентификатор чата из текста заголовка.
// ExtractChatID extracts the chat identifier from a header's text.
func ExtractChatID(text string) (int64, bool) {
	match := headerPattern.FindStringSubmatch(text)
	if match == nil {
		return 0, false
	}
	chatID, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return chatID, true
}

// Forward пересылает обращение пользователя в админ-чат: отправляет заголовок
// с тегом идентификатора, затем пересылает оригинальное сообщение и
// записывает messageID заголовка в карту ответов. Подтверждение пользователю
// отправляет вызывающая сторона (текст локализуется там).
// Forward relays a user inquiry into the admin chat: sends the tagged header,
// forwards the original message, and records the header's messageID in the
// reply map. The user-facing acknowledgement is sent by the caller (the text
// is localized there).
func (r *Relay) Forward(userChatID int64, userName string, userMessageID int) error {
	if r.adminChatID == 0 {
		return fmt.Errorf("админ-чат не настроен")
	}

	headerMsg := tgbotapi.NewMessage(r.adminChatID, FormatHeader(userChatID, userName))
	sentHeader, err := r.sender.Send(headerMsg)
	if err != nil {
		return fmt.Errorf("ошибка отправки заголовка в админ-чат: %w", err)
	}

	forward := tgbotapi.NewForward(r.adminChatID, userChatID, userMessageID)
	if _, err := r.sender.Send(forward); err != nil {
		// Заголовок уже в админ-чате; пересылку считаем некритичной.
		log.Printf("Relay.Forward: ошибка пересылки сообщения %d из чата %d: %v", userMessageID, userChatID, err)
	}

	r.mu.Lock()
	r.entries[sentHeader.MessageID] = replyEntry{userChatID: userChatID, createdAt: time.Now()}
	r.mu.Unlock()

	log.Printf("Relay.Forward: обращение чата %d переслано, заголовок messageID=%d.", userChatID, sentHeader.MessageID)
	return nil
}

// HandleAdminReply обрабатывает ответ администратора на сообщение-заголовок.
// Сначала ищет запись в карте ответов, затем пытается извлечь идентификатор
// из текста заголовка. При совпадении доставляет текст ответа пользователю
// дословно и удаляет запись из карты. Несопоставимый ответ и неудачная
// доставка сообщаются только администратору; повторных попыток нет.
// HandleAdminReply handles the admin's reply to a header message. The reply
// map is consulted first, then the tag in the replied-to text. On a match
// the reply text is delivered verbatim and the map entry is consumed. An
// unmatched reply and a failed delivery are reported to the admin only; no
// retries.
func (r *Relay) HandleAdminReply(repliedToMessageID int, repliedToText string, replyText string) {
	r.mu.Lock()
	entry, found := r.entries[repliedToMessageID]
	r.mu.Unlock()

	userChatID := entry.userChatID
	if !found {
		extracted, ok := ExtractChatID(repliedToText)
		if !ok {
			log.Printf("Relay.HandleAdminReply: сообщение %d не сопоставлено ни с одним чатом.", repliedToMessageID)
			r.notifyAdmin("⚠️ Could not match this reply to a user. Reply directly to an inquiry header message.")
			return
		}
		userChatID = extracted
	}

	deliver := tgbotapi.NewMessage(userChatID, replyText)
	if _, err := r.sender.Send(deliver); err != nil {
		log.Printf("Relay.HandleAdminReply: доставка ответа в чат %d не удалась: %v", userChatID, err)
		r.notifyAdmin(fmt.Sprintf("⚠️ Delivery to user %d failed (the user may have blocked the bot).", userChatID))
		return
	}

	if found {
		r.mu.Lock()
		delete(r.entries, repliedToMessageID)
		r.mu.Unlock()
	}
	log.Printf("Relay.HandleAdminReply: ответ доставлен в чат %d (заголовок %d).", userChatID, repliedToMessageID)
}

// EvictOlderThan удаляет записи карты ответов старше maxAge и возвращает
// количество вытесненных. Вызывается периодическим тикером из main.
// EvictOlderThan deletes reply-map entries older than maxAge and returns the
// number evicted. Invoked by a periodic ticker from main.
func (r *Relay) EvictOlderThan(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	r.mu.Lock()
	defer r.mu.Unlock()
	evicted := 0
	for messageID, entry := range r.entries {
		if entry.createdAt.Before(cutoff) {
			delete(r.entries, messageID)
			evicted++
		}
	}
	if evicted > 0 {
		log.Printf("Relay.EvictOlderThan: вытеснено %d записей без ответа.", evicted)
	}
	return evicted
}

// PendingCount возвращает количество обращений, ожидающих ответа.
// PendingCount returns the number of inquiries awaiting a reply.
func (r *Relay) PendingCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Relay) notifyAdmin(text string) {
	if r.adminChatID == 0 {
		return
	}
	msg := tgbotapi.NewMessage(r.adminChatID, text)
	if _, err := r.sender.Send(msg); err != nil {
		log.Printf("Relay.notifyAdmin: не удалось уведомить админ-чат: %v", err)
	}
}
