package constants

// Dialogue States (awaiting markers)
// Состояния диалога (маркеры ожидаемого ввода)
const (
	STATE_IDLE = "idle"

	// Свободный ввод, ожидаемый машиной состояний
	// Free-text input expected by the state machine
	STATE_AWAIT_AMOUNT          = "await_amount"
	STATE_AWAIT_SUPPORT_MESSAGE = "await_support_message"

	// Ключи ожидания реквизитов, по одному на способ выплаты
	// Detail-awaiting keys, one per payout method
	STATE_AWAIT_PAYPAL_DETAILS   = "await_paypal_details"
	STATE_AWAIT_BANK_DETAILS     = "await_bank_details"
	STATE_AWAIT_CARD_DETAILS     = "await_card_details"
	STATE_AWAIT_SKRILL_DETAILS   = "await_skrill_details"
	STATE_AWAIT_NETELLER_DETAILS = "await_neteller_details"
)

// Callback Prefixes
// Префиксы callback-данных. Кнопочные события маршрутизируются по префиксу,
// а не по текущему состоянию сессии — устаревший маркер ожидания не мешает
// нажатию кнопки (намеренная снисходительность, не баг).
const (
	CALLBACK_PREFIX_CURRENCY    = "currency_"    // currency_USD, currency_EUR, currency_GBP
	CALLBACK_PREFIX_NETWORK     = "network_"     // network_TRC20, network_ERC20
	CALLBACK_PREFIX_METHOD      = "method_"      // method_paypal, method_bank, method_card, method_wallet
	CALLBACK_PREFIX_BANK_REGION = "bank_region_" // bank_region_eu, bank_region_uk, bank_region_intl
	CALLBACK_PREFIX_WALLET      = "wallet_"      // wallet_skrill, wallet_neteller

	CALLBACK_SELL_START = "sell_start"
	CALLBACK_CANCEL     = "cancel"
	CALLBACK_SUPPORT    = "support"
	CALLBACK_MAIN_MENU  = "main_menu"

	// Реферальная программа / Referral program
	CALLBACK_INVITE_FRIEND     = "invite_friend"
	CALLBACK_REFERRAL_LINK     = "referral_link"
	CALLBACK_REFERRAL_QR       = "referral_qr"
	CALLBACK_MY_REFERRALS      = "my_referrals"
	CALLBACK_WITHDRAW_REFERRAL = "withdraw_referral"

	// Админские Excel-отчеты / Admin Excel reports
	CALLBACK_EXCEL_MENU               = "excel_menu"
	CALLBACK_EXCEL_GENERATE_SALES     = "excel_generate_sales"
	CALLBACK_EXCEL_GENERATE_REFERRALS = "excel_generate_referrals"
)

// Валюты и сети / Currencies and networks
const (
	CURRENCY_USD = "USD"
	CURRENCY_EUR = "EUR"
	CURRENCY_GBP = "GBP"

	NETWORK_TRC20 = "TRC20"
	NETWORK_ERC20 = "ERC20"
)

// FiatCurrencies — фиатные валюты, предлагаемые в меню, в порядке отображения.
var FiatCurrencies = []string{CURRENCY_USD, CURRENCY_EUR, CURRENCY_GBP}

// Networks — сети вывода USDT, в порядке отображения.
var Networks = []string{NETWORK_TRC20, NETWORK_ERC20}

// PayoutNetworkCurrencies отображает сеть на код валюты платежного процессора.
// PayoutNetworkCurrencies maps a network onto the payment processor's currency code.
var PayoutNetworkCurrencies = map[string]string{
	NETWORK_TRC20: "USDT_TRX",
	NETWORK_ERC20: "USDT",
}

// Способы выплаты / Payout methods
const (
	METHOD_PAYPAL   = "PayPal"
	METHOD_BANK     = "Bank Transfer"
	METHOD_CARD     = "Card"
	METHOD_SKRILL   = "Skrill"
	METHOD_NETELLER = "Neteller"
)

// MethodDetailStates отображает способ выплаты на ключ ожидания реквизитов.
// Составные способы (банк, электронные кошельки) проходят через подменю
// и попадают сюда уже с уточненным значением.
var MethodDetailStates = map[string]string{
	METHOD_PAYPAL:   STATE_AWAIT_PAYPAL_DETAILS,
	METHOD_BANK:     STATE_AWAIT_BANK_DETAILS,
	METHOD_CARD:     STATE_AWAIT_CARD_DETAILS,
	METHOD_SKRILL:   STATE_AWAIT_SKRILL_DETAILS,
	METHOD_NETELLER: STATE_AWAIT_NETELLER_DETAILS,
}

// BankRegionDisplay — подписи регионов банковского перевода в подменю.
var BankRegionDisplay = map[string]string{
	"eu":   "EU (SEPA)",
	"uk":   "UK (Faster Payments)",
	"intl": "International (SWIFT)",
}

// Лимиты суммы продажи / Sale amount limits
const (
	MIN_USDT = 10.0
	MAX_USDT = 100000.0
)

// Статические курсы. Живых котировок нет — множители фиксированы.
// Static rates. No live quotes — the multipliers are fixed.
const (
	USD_TO_USDT = 1.09 // USD = USDT / USD_TO_USDT
	USDT_TO_EUR = 0.92 // EUR = USDT * USDT_TO_EUR
	USDT_TO_GBP = 0.79 // GBP = USDT * USDT_TO_GBP
)

// REFERRAL_REWARD_USDT — разовый бонус пригласившему за первую успешную
// продажу приглашенного.
const REFERRAL_REWARD_USDT = 5.0

// SALE_CURRENCY — валюта, которую продает пользователь. Всегда USDT.
const SALE_CURRENCY = "USDT"

// REFERRAL_START_PREFIX — префикс deep-link параметра команды /start.
const REFERRAL_START_PREFIX = "ref_"
