// Package alerts pushes short operational notices to a staff Telegram
// channel: new submissions and resolution disputes, the two events that need
// eyes before anyone opens a dashboard. Best-effort only.
package alerts

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"campusdesk/backend/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type TelegramAlerter struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramAlerter wires the bot from TELEGRAM_BOT_TOKEN and
// TELEGRAM_CHAT_ID. Returns nil when either is unset; callers treat a nil
// alerter as disabled.
func NewTelegramAlerter() *TelegramAlerter {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	chatIDRaw := os.Getenv("TELEGRAM_CHAT_ID")
	if token == "" || chatIDRaw == "" {
		log.Println("INFO: Telegram alerts disabled: TELEGRAM_BOT_TOKEN or TELEGRAM_CHAT_ID not set")
		return nil
	}

	chatID, err := strconv.ParseInt(chatIDRaw, 10, 64)
	if err != nil {
		log.Printf("WARNING: Telegram alerts disabled: invalid TELEGRAM_CHAT_ID: %v", err)
		return nil
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		log.Printf("WARNING: Telegram alerts disabled: %v", err)
		return nil
	}

	log.Printf("INFO: Telegram alerts enabled as @%s", bot.Self.UserName)
	return &TelegramAlerter{bot: bot, chatID: chatID}
}

// NewSubmission announces a freshly filed concern.
func (a *TelegramAlerter) NewSubmission(c *models.Complaint) {
	if a == nil {
		return
	}
	a.send(fmt.Sprintf("📥 New %s concern %s awaiting verification", c.Category, c.ReferenceNumber))
}

// Disputed announces that a complainant rejected a resolution.
func (a *TelegramAlerter) Disputed(c *models.Complaint) {
	if a == nil {
		return
	}
	a.send(fmt.Sprintf("⚠️ Resolution disputed on %s (%s department)", c.ReferenceNumber, c.AssignedDepartment))
}

func (a *TelegramAlerter) send(text string) {
	msg := tgbotapi.NewMessage(a.chatID, text)
	if _, err := a.bot.Send(msg); err != nil {
		log.Printf("WARNING: Failed to send Telegram alert: %v", err)
	}
}
