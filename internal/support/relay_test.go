package support

import (
	"fmt"
	"testing"
	"time"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
)

// fakeSender записывает исходящие сообщения и позволяет имитировать отказ
// доставки в конкретный чат.
type fakeSender struct {
	sent          []tgbotapi.Chattable
	nextMessageID int
	failChatIDs   map[int64]bool
}

func newFakeSender() *fakeSender {
	return &fakeSender{nextMessageID: 1000, failChatIDs: make(map[int64]bool)}
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok && f.failChatIDs[msg.ChatID] {
		return tgbotapi.Message{}, fmt.Errorf("Forbidden: bot was blocked by the user")
	}
	f.sent = append(f.sent, c)
	f.nextMessageID++
	return tgbotapi.Message{MessageID: f.nextMessageID}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) messagesTo(chatID int64) []string {
	var texts []string
	for _, c := range f.sent {
		if msg, ok := c.(tgbotapi.MessageConfig); ok && msg.ChatID == chatID {
			texts = append(texts, msg.Text)
		}
	}
	return texts
}

func TestExtractChatID(t *testing.T) {
	header := FormatHeader(123456, "someuser")
	chatID, ok := ExtractChatID(header)
	if !ok || chatID != 123456 {
		t.Errorf("ExtractChatID(%q) = %d, %v", header, chatID, ok)
	}

	if _, ok := ExtractChatID("просто текст без тега"); ok {
		t.Error("текст без тега не должен сопоставляться")
	}
}

func TestForwardAndAdminReplyRoundTrip(t *testing.T) {
	sender := newFakeSender()
	relay := NewRelay(sender, 42)

	if err := relay.Forward(555, "client", 7); err != nil {
		t.Fatalf("Forward: %v", err)
	}
	if relay.PendingCount() != 1 {
		t.Fatalf("PendingCount = %d, want 1", relay.PendingCount())
	}

	// Заголовок получил ID 1001 (первый Send фейка).
	relay.HandleAdminReply(1001, FormatHeader(555, "client"), "Hello from support")

	delivered := sender.messagesTo(555)
	if len(delivered) != 1 || delivered[0] != "Hello from support" {
		t.Errorf("пользователю доставлено %v, ожидался дословный текст ответа", delivered)
	}
	if relay.PendingCount() != 0 {
		t.Errorf("запись карты ответов не удалена после доставки: PendingCount = %d", relay.PendingCount())
	}
}

func TestAdminReplyToUnrelatedMessageWarnsAdminOnly(t *testing.T) {
	sender := newFakeSender()
	relay := NewRelay(sender, 42)

	relay.HandleAdminReply(9999, "some unrelated admin chatter", "reply text")

	if got := sender.messagesTo(42); len(got) != 1 {
		t.Fatalf("админ должен получить ровно одно предупреждение, получено %d", len(got))
	}
	// Никакой доставки пользователям.
	for _, c := range sender.sent {
		if msg, ok := c.(tgbotapi.MessageConfig); ok && msg.ChatID != 42 {
			t.Errorf("неожиданная доставка в чат %d", msg.ChatID)
		}
	}
}

func TestAdminReplyDeliveryFailureReportsBack(t *testing.T) {
	sender := newFakeSender()
	relay := NewRelay(sender, 42)

	if err := relay.Forward(555, "", 7); err != nil {
		t.Fatalf("Forward: %v", err)
	}
	sender.failChatIDs[555] = true

	relay.HandleAdminReply(1001, FormatHeader(555, ""), "are you there?")

	adminMsgs := sender.messagesTo(42)
	// Первый — заголовок обращения, второй — уведомление об отказе доставки.
	if len(adminMsgs) != 2 {
		t.Fatalf("админ-чат получил %d сообщений, want 2", len(adminMsgs))
	}
	if relay.PendingCount() != 1 {
		t.Errorf("запись не должна удаляться при неудачной доставке")
	}
}

func TestEvictOlderThan(t *testing.T) {
	sender := newFakeSender()
	relay := NewRelay(sender, 42)

	for i := 0; i < 5; i++ {
		if err := relay.Forward(int64(100+i), "", i+1); err != nil {
			t.Fatalf("Forward: %v", err)
		}
	}
	if evicted := relay.EvictOlderThan(time.Hour); evicted != 0 {
		t.Errorf("свежие записи вытеснены: %d", evicted)
	}
	if evicted := relay.EvictOlderThan(-time.Second); evicted != 5 {
		t.Errorf("EvictOlderThan(-1s) = %d, want 5", evicted)
	}
	if relay.PendingCount() != 0 {
		t.Errorf("PendingCount = %d, want 0", relay.PendingCount())
	}
}
