package services

import (
	"html"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"maidscentre/internal/config"
)

// AdminNotifier — куда уходят события для админов (запросы на возврат, новые тикеты).
type AdminNotifier interface {
	NotifyAdmins(text string)
}

type logNotifier struct{}

func (logNotifier) NotifyAdmins(text string) {
	log.Printf("[notify][log] %s", text)
}

type TelegramNotifier struct {
	bot     *tgbotapi.BotAPI
	chatIDs []int64
}

// NewAdminNotifier без токена или чатов возвращает notifier, который только пишет в лог.
func NewAdminNotifier(cfg config.TelegramConfig) AdminNotifier {
	if cfg.BotToken == "" || len(cfg.AdminChatIDs) == 0 {
		log.Printf("[tg][skip] token or admin chats empty, notifications go to log")
		return logNotifier{}
	}
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Printf("[tg][init][err] %v, notifications go to log", err)
		return logNotifier{}
	}
	log.Printf("[tg][init] authorized as @%s, admin chats=%d", bot.Self.UserName, len(cfg.AdminChatIDs))
	return &TelegramNotifier{bot: bot, chatIDs: cfg.AdminChatIDs}
}

func (t *TelegramNotifier) NotifyAdmins(text string) {
	for _, chatID := range t.chatIDs {
		msg := tgbotapi.NewMessage(chatID, html.EscapeString(text))
		msg.ParseMode = tgbotapi.ModeHTML
		msg.DisableWebPagePreview = true
		if _, err := t.bot.Send(msg); err != nil {
			log.Printf("[tg][send][err] chatID=%d: %v", chatID, err)
		}
	}
}
