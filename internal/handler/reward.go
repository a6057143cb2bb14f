package handler

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"telegram-quiz-bot/internal/i18n"
	"telegram-quiz-bot/internal/service"
	"telegram-quiz-bot/internal/session"
)

// RewardHandler collects payout card details after a completed campaign.
type RewardHandler struct {
	rewards  *service.RewardService
	registry *session.Registry
	notifier *Notifier
}

// NewRewardHandler creates a new RewardHandler instance.
func NewRewardHandler(rewards *service.RewardService, registry *session.Registry, notifier *Notifier) *RewardHandler {
	return &RewardHandler{
		rewards:  rewards,
		registry: registry,
		notifier: notifier,
	}
}

// HandleCardNumber validates and stages the card number, then asks for
// the holder name. Invalid input re-prompts without leaving the state.
func (h *RewardHandler) HandleCardNumber(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	entry := h.registry.GetOrCreate(sender.ID)
	lang := entry.Lang

	number, err := service.ValidateCardNumber(c.Text())
	if err != nil {
		return c.Send(i18n.T(i18n.KeyCardBadNumber, lang))
	}

	entry.CardNumber = number
	entry.State = session.StateAwaitingCardHolder
	return c.Send(i18n.T(i18n.KeyCardAskHolder, lang))
}

// HandleCardHolder validates the holder name and stores the card.
func (h *RewardHandler) HandleCardHolder(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	entry := h.registry.GetOrCreate(sender.ID)
	lang := entry.Lang

	_, err := h.rewards.SubmitCard(ctx, sender.ID, entry.CardNumber, c.Text())
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return c.Send(i18n.T(i18n.KeyCardBadHolder, lang))
		}
		log.Error().Err(err).Int64("user_id", sender.ID).Msg("Failed to save card")
		return c.Send(i18n.T(i18n.KeyGenericFailure, lang))
	}

	entry.CardNumber = ""
	entry.State = session.StateNone

	h.notifier.ToAdmins(fmt.Sprintf(
		"💳 Karta ma'lumotlari keldi!\nFoydalanuvchi: %s (%d)\nMukofot to'lash uchun admin panelga kiring.",
		entry.Name, sender.ID,
	))

	return c.Send(i18n.T(i18n.KeyCardAccepted, lang), BuildMainMenuKeyboard(lang))
}
