// Файл: internal/referral/ledger.go
package referral

import (
	"log"
	"sync"

	"Exchange/internal/constants"
)

// Record — реферальная запись одного чата.
// Record is the referral record of a single chat.
type Record struct {
	// ReferrerID — chatID пригласившего. Не более одного, устанавливается
	// один раз и никогда не перезаписывается. 0 = пригласившего нет.
	ReferrerID int64
	// Balance — накопленный реферальный баланс в USDT. Монотонно не убывает
	// (вывод средств здесь не моделируется — заявка уходит администратору).
	Balance float64
	// ReferredCount — сколько приглашенных записано за этим чатом.
	ReferredCount int
	// RewardClaimed защелкивается в true не более одного раза: бонус за
	// данного приглашенного выдается однократно.
	RewardClaimed bool
}

// Ledger — реферальная книга в памяти процесса, ключ — chatID.
// Записи никогда не вытесняются и не переживают рестарт.
// Ledger is the in-process referral book keyed by chatID.
// Records are never evicted and do not survive a restart.
type Ledger struct {
	mu      sync.RWMutex
	records map[int64]*Record
}

// NewLedger создает пустую реферальную книгу.
// NewLedger creates an empty referral book.
func NewLedger() *Ledger {
	return &Ledger{
		records: make(map[int64]*Record),
	}
}

// Init идемпотентно создает нулевую запись для чата, если ее еще нет.
// Init idempotently creates a zeroed record for the chat if absent.
func (l *Ledger) Init(chatID int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.records[chatID]; !exists {
		l.records[chatID] = &Record{}
	}
}

// AttachReferrer привязывает пригласившего к чату. No-op, если у чата уже
// есть пригласивший, если запись пригласившего не существует или если чат
// пытается пригласить сам себя. Возвращает true, если привязка произошла.
// AttachReferrer attaches a referrer to the chat. No-op if the chat already
// has a referrer, if the referrer's record does not exist, or if the chat is
// referring itself. Returns true if the attachment happened.
func (l *Ledger) AttachReferrer(chatID, referrerID int64) bool {
	if chatID == referrerID {
		log.Printf("Ledger.AttachReferrer: chatID %d пытается стать собственным рефералом. Игнорируется.", chatID)
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, referrerExists := l.records[referrerID]; !referrerExists {
		log.Printf("Ledger.AttachReferrer: пригласивший %d не известен книге. Игнорируется.", referrerID)
		return false
	}

	rec, exists := l.records[chatID]
	if !exists {
		rec = &Record{}
		l.records[chatID] = rec
	}
	if rec.ReferrerID != 0 {
		// Пригласивший устанавливается один раз и не перезаписывается.
		return false
	}

	rec.ReferrerID = referrerID
	log.Printf("Ledger.AttachReferrer: chatID %d привязан к пригласившему %d.", chatID, referrerID)
	return true
}

// Reward начисляет фиксированный бонус пригласившему за квалифицирующее
// событие приглашенного (первая успешная продажа). No-op, если пригласивший
// не существует или бонус за этого приглашенного уже выдан. Возвращает
// начисленную сумму и признак того, что начисление произошло.
// Reward credits the referrer's fixed bonus for the referred chat's
// qualifying event (first successful sale). No-op if the referrer does not
// exist or the reward for this referred chat was already claimed. Returns
// the credited amount and whether the credit happened.
func (l *Ledger) Reward(referrerID, referredChatID int64) (float64, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	referrer, referrerExists := l.records[referrerID]
	if !referrerExists {
		return 0, false
	}
	referred, referredExists := l.records[referredChatID]
	if !referredExists || referred.RewardClaimed {
		return 0, false
	}

	referred.RewardClaimed = true
	referrer.Balance += constants.REFERRAL_REWARD_USDT
	referrer.ReferredCount++
	log.Printf("Ledger.Reward: пригласившему %d начислено %.2f USDT за приглашенного %d (итого %.2f, рефералов %d).",
		referrerID, constants.REFERRAL_REWARD_USDT, referredChatID, referrer.Balance, referrer.ReferredCount)
	return constants.REFERRAL_REWARD_USDT, true
}

// ReferrerOf возвращает chatID пригласившего для данного чата (0 — нет).
// ReferrerOf returns the referrer chatID for the given chat (0 — none).
func (l *Ledger) ReferrerOf(chatID int64) int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if rec, exists := l.records[chatID]; exists {
		return rec.ReferrerID
	}
	return 0
}

// Get возвращает копию записи чата и признак ее существования.
// Get returns a copy of the chat's record and whether it exists.
func (l *Ledger) Get(chatID int64) (Record, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if rec, exists := l.records[chatID]; exists {
		return *rec, true
	}
	return Record{}, false
}

// Snapshot возвращает копию всей книги для построения отчетов.
// Snapshot returns a copy of the whole book for report generation.
func (l *Ledger) Snapshot() map[int64]Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	snapshot := make(map[int64]Record, len(l.records))
	for chatID, rec := range l.records {
		snapshot[chatID] = *rec
	}
	return snapshot
}
