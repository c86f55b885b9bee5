package gateway

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	callbackConfirm = "confirm"
	callbackCancel  = "cancel"
)

type TelegramGateway struct {
	Bot       *tgbotapi.BotAPI
	Assistant Assistant
}

func NewTelegramGateway(token string, assistant Assistant) (*TelegramGateway, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	return &TelegramGateway{
		Bot:       bot,
		Assistant: assistant,
	}, nil
}

func (tg *TelegramGateway) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := tg.Bot.GetUpdatesChan(u)

	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			tg.handleCallback(update.CallbackQuery)
		case update.Message != nil:
			tg.handleMessage(update.Message)
		}
	}
	return nil
}

func (tg *TelegramGateway) handleMessage(m *tgbotapi.Message) {
	log.Printf("[%s] %s", m.From.UserName, m.Text)

	ctx := context.Background()
	chatID := fmt.Sprintf("%d", m.Chat.ID)

	reply, err := tg.Assistant.Process(ctx, chatID, m.Text)
	if err != nil {
		log.Printf("Error processing message: %v", err)
		tg.Bot.Send(tgbotapi.NewMessage(m.Chat.ID, "I'm having trouble thinking right now..."))
		return
	}

	msg := tgbotapi.NewMessage(m.Chat.ID, reply.Text)
	if reply.NeedsConfirmation {
		msg.ReplyMarkup = confirmKeyboard()
	}
	tg.Bot.Send(msg)
}

// handleCallback resolves the confirm/cancel buttons attached to a
// pending sensitive action.
func (tg *TelegramGateway) handleCallback(cb *tgbotapi.CallbackQuery) {
	ctx := context.Background()
	chatID := fmt.Sprintf("%d", cb.Message.Chat.ID)

	approved := cb.Data == callbackConfirm
	result := tg.Assistant.Confirm(ctx, chatID, approved)

	// Acknowledge the button press, then strip the keyboard so the
	// buttons cannot be pressed twice.
	tg.Bot.Request(tgbotapi.NewCallback(cb.ID, ""))
	tg.Bot.Send(tgbotapi.NewEditMessageReplyMarkup(cb.Message.Chat.ID, cb.Message.MessageID,
		tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}}))

	tg.Bot.Send(tgbotapi.NewMessage(cb.Message.Chat.ID, result))
}

func confirmKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Confirm", callbackConfirm),
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", callbackCancel),
		),
	)
}

func (tg *TelegramGateway) Send(chatID string, text string) error {
	id := 0
	fmt.Sscanf(chatID, "%d", &id)
	if id == 0 {
		return fmt.Errorf("invalid chat ID: %s", chatID)
	}

	msg := tgbotapi.NewMessage(int64(id), text)
	msg.ParseMode = "Markdown"
	_, err := tg.Bot.Send(msg)
	return err
}

func (tg *TelegramGateway) Stop() error {
	tg.Bot.StopReceivingUpdates()
	return nil
}
