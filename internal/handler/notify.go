package handler

import (
	"fmt"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"telegram-quiz-bot/internal/model"
)

// Notifier sends out-of-band messages: admin notifications and direct
// user messages outside a handler's own reply. All sends are best-effort;
// a blocked chat or deleted account must never fail the triggering flow.
type Notifier struct {
	bot      *tele.Bot
	adminIDs []int64
}

// NewNotifier creates a new Notifier instance.
func NewNotifier(bot *tele.Bot, adminIDs []int64) *Notifier {
	return &Notifier{bot: bot, adminIDs: adminIDs}
}

// ToAdmins sends a message to every configured admin.
func (n *Notifier) ToAdmins(what any) {
	for _, id := range n.adminIDs {
		if _, err := n.bot.Send(&tele.User{ID: id}, what); err != nil {
			log.Warn().
				Err(err).
				Int64("admin_id", id).
				Msg("Failed to notify admin")
		}
	}
}

// ToUser sends a message directly to a user.
func (n *Notifier) ToUser(userID int64, what any, opts ...any) error {
	if _, err := n.bot.Send(&tele.User{ID: userID}, what, opts...); err != nil {
		log.Warn().
			Err(err).
			Int64("user_id", userID).
			Msg("Failed to message user")
		return err
	}
	return nil
}

// NewUser announces a registration to the admins.
func (n *Notifier) NewUser(user *model.User) {
	n.ToAdmins(fmt.Sprintf(
		"🆕 Yangi foydalanuvchi!\nID: %d\nIsm: %s\nUsername: @%s",
		user.TelegramID, user.DisplayName, user.Username,
	))
}

// AnswerRecorded announces an answer to the admins.
func (n *Notifier) AnswerRecorded(userID int64, name, correctText string, correct bool) {
	mark := "❌"
	if correct {
		mark = "✅"
	}
	n.ToAdmins(fmt.Sprintf(
		"%s Javob\nFoydalanuvchi: %s (%d)\nTo'g'ri javob: %s",
		mark, name, userID, correctText,
	))
}

// ChallengeCompleted announces a completed reward campaign to the admins.
func (n *Notifier) ChallengeCompleted(userID int64, name string, rewardID, amount int64) {
	n.ToAdmins(fmt.Sprintf(
		"🎉 Mukofot!\nFoydalanuvchi: %s (%d)\n20 ta to'g'ri javob.\nMukofot #%d: %d so'm kutilmoqda.",
		name, userID, rewardID, amount,
	))
}
