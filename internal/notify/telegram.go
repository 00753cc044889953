package notify

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"pantryplan/internal/shopping"
)

// TelegramSender delivers shopping lists to a Telegram chat.
type TelegramSender struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramSender initializes the Telegram API client.
func NewTelegramSender(token string, chatID int64) (*TelegramSender, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}
	return &TelegramSender{api: api, chatID: chatID}, nil
}

// SendShoppingList formats the grouped list and sends it as one message.
func (s *TelegramSender) SendShoppingList(groups []shopping.Group) error {
	msg := tgbotapi.NewMessage(s.chatID, FormatShoppingList(groups))
	if _, err := s.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send shopping list: %w", err)
	}
	return nil
}

// FormatShoppingList renders the grouped list as plain text, one category
// header per aisle.
func FormatShoppingList(groups []shopping.Group) string {
	if len(groups) == 0 {
		return "Your shopping list is empty."
	}

	var sb strings.Builder
	sb.WriteString("Shopping list\n")
	for _, g := range groups {
		sb.WriteString(fmt.Sprintf("\n%s\n", g.Category))
		for _, item := range g.Items {
			if item.Unit != "" {
				sb.WriteString(fmt.Sprintf("- %s %s %s\n", item.DisplayQuantity(), item.Unit, item.Name))
			} else {
				sb.WriteString(fmt.Sprintf("- %s %s\n", item.DisplayQuantity(), item.Name))
			}
		}
	}
	return sb.String()
}
