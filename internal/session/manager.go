package session

import (
	"log"
	"sync"
	"time"

	"Exchange/internal/constants" // Используем Exchange как имя модуля
	"Exchange/internal/models"
)

// SessionManager управляет состояниями пользователей и временными данными продаж.
// Все данные живут только в памяти процесса: ни одна карта не вытесняется и
// не переживает рестарт. Два конкурентных события одного и того же чата
// разрешаются по принципу last-write-wins на уровне целой записи.
// SessionManager manages user states and temporary sale data.
// Everything lives in process memory only: no map is evicted and nothing
// survives a restart. Two concurrent events for the same chat resolve
// last-write-wins at whole-record granularity.
type SessionManager struct {
	userStates     map[int64]string // Ключ: chatID, Значение: маркер ожидания (например, constants.STATE_AWAIT_AMOUNT)
	userStateMutex sync.RWMutex

	tempSales      map[int64]TempSaleData // Ключ: chatID пользователя, ведущего продажу
	tempSalesMutex sync.RWMutex

	// Журнал успешно инициированных продаж. Питает Excel-отчеты и /health.
	// Journal of successfully initiated sales. Feeds Excel reports and /health.
	completedSales      []models.CompletedSale
	completedSalesMutex sync.RWMutex
}

// NewSessionManager создает и возвращает новый экземпляр SessionManager.
// NewSessionManager creates and returns a new SessionManager instance.
func NewSessionManager() *SessionManager {
	return &SessionManager{
		userStates: make(map[int64]string),
		tempSales:  make(map[int64]TempSaleData),
	}
}

// --- Управление состоянием пользователя (User State) ---

// GetState возвращает текущий маркер ожидания пользователя.
// Если маркер не установлен, возвращает STATE_IDLE.
// GetState returns the user's current awaiting marker.
// If no marker is set, returns STATE_IDLE.
func (sm *SessionManager) GetState(chatID int64) string {
	sm.userStateMutex.RLock()
	defer sm.userStateMutex.RUnlock()
	state, ok := sm.userStates[chatID]
	if !ok {
		return constants.STATE_IDLE
	}
	return state
}

// SetState устанавливает новый маркер ожидания для пользователя.
// SetState sets a new awaiting marker for the user.
func (sm *SessionManager) SetState(chatID int64, state string) {
	sm.userStateMutex.Lock()
	defer sm.userStateMutex.Unlock()
	sm.userStates[chatID] = state
	log.Printf("SessionManager.SetState: Состояние для chatID %d установлено: %s", chatID, state)
}

// ClearState сбрасывает маркер ожидания пользователя к STATE_IDLE.
// ClearState resets the user's awaiting marker to STATE_IDLE.
func (sm *SessionManager) ClearState(chatID int64) {
	sm.userStateMutex.Lock()
	defer sm.userStateMutex.Unlock()
	sm.userStates[chatID] = constants.STATE_IDLE
	log.Printf("SessionManager.ClearState: Состояние для chatID %d сброшено в IDLE.", chatID)
}

// --- Управление временными продажами (Temp Sales) ---

// GetTempSale возвращает временные данные продажи пользователя.
// Если продажи для данного chatID нет, лениво создает новую пустую запись.
// GetTempSale returns the user's temporary sale data.
// If none exists for this chatID, lazily creates a new empty record.
func (sm *SessionManager) GetTempSale(chatID int64) TempSaleData {
	sm.tempSalesMutex.RLock()
	sale, exists := sm.tempSales[chatID]
	sm.tempSalesMutex.RUnlock()

	if !exists {
		newSale := NewTempSale(chatID)
		sm.tempSalesMutex.Lock()
		sm.tempSales[chatID] = newSale
		sm.tempSalesMutex.Unlock()
		return newSale
	}
	return sale
}

// UpdateTempSale обновляет временные данные продажи пользователя.
// UpdateTempSale updates the user's temporary sale data.
func (sm *SessionManager) UpdateTempSale(chatID int64, saleData TempSaleData) {
	sm.tempSalesMutex.Lock()
	defer sm.tempSalesMutex.Unlock()
	sm.tempSales[chatID] = saleData
}

// ClearTempSale удаляет временные данные продажи пользователя.
// Вызывается при успешном инициировании транзакции, явной отмене и /start.
// ClearTempSale deletes the user's temporary sale data.
// Called on successful transaction initiation, explicit cancel, and /start.
func (sm *SessionManager) ClearTempSale(chatID int64) {
	sm.tempSalesMutex.Lock()
	defer sm.tempSalesMutex.Unlock()
	delete(sm.tempSales, chatID)
	log.Printf("SessionManager.ClearTempSale: Временная продажа для chatID %d удалена.", chatID)
}

// ActiveSessionCount возвращает количество чатов с зафиксированной сессией.
// Используется эндпоинтом /health.
// ActiveSessionCount returns the number of chats with a recorded session.
// Used by the /health endpoint.
func (sm *SessionManager) ActiveSessionCount() int {
	sm.userStateMutex.RLock()
	defer sm.userStateMutex.RUnlock()
	return len(sm.userStates)
}

// --- Журнал завершенных продаж (Completed Sales) ---

// RecordCompletedSale добавляет запись об успешно инициированной продаже.
// RecordCompletedSale appends a record of a successfully initiated sale.
func (sm *SessionManager) RecordCompletedSale(sale models.CompletedSale) {
	if sale.CreatedAt.IsZero() {
		sale.CreatedAt = time.Now()
	}
	sm.completedSalesMutex.Lock()
	defer sm.completedSalesMutex.Unlock()
	sm.completedSales = append(sm.completedSales, sale)
	log.Printf("SessionManager.RecordCompletedSale: Продажа %s (%0.2f USDT, chatID %d) записана в журнал.",
		sale.TransactionID, sale.AmountUSDT, sale.ChatID)
}

// CompletedSales возвращает копию журнала завершенных продаж.
// CompletedSales returns a copy of the completed sales journal.
func (sm *SessionManager) CompletedSales() []models.CompletedSale {
	sm.completedSalesMutex.RLock()
	defer sm.completedSalesMutex.RUnlock()
	salesCopy := make([]models.CompletedSale, len(sm.completedSales))
	copy(salesCopy, sm.completedSales)
	return salesCopy
}
