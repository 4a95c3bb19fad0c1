package handlers

const (
	// Больше слотов в одном сообщении не выводим
	MaxSlotsInMessage = 48

	// Лимит Telegram на длину текста сообщения
	MaxMessageLength = 4096

	CommandSlots = "/slots"
)
