package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"telegram-quiz-bot/internal/config"
	"telegram-quiz-bot/internal/i18n"
	"telegram-quiz-bot/internal/service"
	"telegram-quiz-bot/internal/session"
)

// salawatText is the recitation shown at each step of the intro sequence.
const salawatText = "🤲 %d-salovat:\nاللَّهُمَّ صَلِّ عَلَى سَيِّدِنَا مُحَمَّدٍ\n\nAllohumma solli 'ala sayyidina Muhammad"

// salawatSteps is the length of the intro sequence for brand-new users.
const salawatSteps = 10

// OnboardingHandler drives /start, the salawat intro sequence, language
// selection and display-name collection.
type OnboardingHandler struct {
	cfg      *config.Config
	accounts *service.AccountService
	registry *session.Registry
	notifier *Notifier
}

// NewOnboardingHandler creates a new OnboardingHandler instance.
func NewOnboardingHandler(cfg *config.Config, accounts *service.AccountService, registry *session.Registry, notifier *Notifier) *OnboardingHandler {
	return &OnboardingHandler{
		cfg:      cfg,
		accounts: accounts,
		registry: registry,
		notifier: notifier,
	}
}

// HandleStart greets returning users, routes admins to the admin panel
// and starts the salawat sequence for brand-new users.
func (h *OnboardingHandler) HandleStart(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	if h.cfg.IsAdmin(sender.ID) {
		return c.Send("👨‍💼 Admin panel", BuildAdminKeyboard())
	}

	user, created, err := h.accounts.EnsureUser(ctx, sender.ID, sender.Username)
	if err != nil {
		log.Error().Err(err).Int64("user_id", sender.ID).Msg("Failed to register user")
		return c.Send(i18n.T(i18n.KeyGenericFailure, h.accounts.Language(ctx, sender.ID)))
	}
	if created {
		user.DisplayName = sender.FirstName
		h.notifier.NewUser(user)
	}

	entry := h.registry.GetOrCreate(sender.ID)
	entry.Lang = user.Language
	entry.Name = user.DisplayName

	// Returning user with a name goes straight to the menu.
	if user.DisplayName != "" {
		return c.Send(
			fmt.Sprintf(i18n.T(i18n.KeyWelcomeBack, user.Language), user.DisplayName),
			BuildMainMenuKeyboard(user.Language),
		)
	}

	entry.SalawatCount = 1
	if err := c.Send("🤲 Assalomu Aleykum!\n\nRasululloh ﷺ ga salovat aytish bilan boshlaymiz.\nHar bir salovatdan keyin baraka olib, keyingi bosqichga o'tasiz."); err != nil {
		return err
	}
	return c.Send(fmt.Sprintf(salawatText, 1), BuildSalawatKeyboard(1))
}

// HandleSalawat advances the salawat counter and hands over to language
// selection after the final step.
func (h *OnboardingHandler) HandleSalawat(c tele.Context) error {
	sender := c.Sender()
	if sender == nil || h.cfg.IsAdmin(sender.ID) {
		return nil
	}

	entry := h.registry.GetOrCreate(sender.ID)
	if entry.SalawatCount < 1 {
		entry.SalawatCount = 1
	}

	if err := c.Send("✅ Qabul bo'lsin!"); err != nil {
		return err
	}

	next := entry.SalawatCount + 1
	if next <= salawatSteps {
		entry.SalawatCount = next
		return c.Send(fmt.Sprintf(salawatText, next), BuildSalawatKeyboard(next))
	}

	entry.SalawatCount = 0
	return c.Send(
		"✨ Barakalla! 10 ta salovat aytdingiz.\n\nEndi o'zingizni tanishtirish uchun tilni tanlang:",
		BuildLanguageKeyboard(),
	)
}

// HandleLanguage stores the selected language and either welcomes the
// user back or asks for their name.
func (h *OnboardingHandler) HandleLanguage(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil || h.cfg.IsAdmin(sender.ID) {
		return nil
	}

	lang, ok := MatchLanguage(c.Text())
	if !ok {
		return nil
	}

	if err := h.accounts.SetLanguage(ctx, sender.ID, lang); err != nil {
		log.Error().Err(err).Int64("user_id", sender.ID).Msg("Failed to set language")
		return c.Send(i18n.T(i18n.KeyGenericFailure, lang))
	}

	entry := h.registry.GetOrCreate(sender.ID)
	entry.Lang = lang

	log.Info().
		Int64("user_id", sender.ID).
		Str("lang", string(lang)).
		Msg("Language selected")

	if entry.Name != "" {
		return c.Send(
			fmt.Sprintf("%s\n\n%s", fmt.Sprintf(i18n.T(i18n.KeyWelcomeBack, lang), entry.Name), i18n.T(i18n.KeyLanguageChanged, lang)),
			BuildMainMenuKeyboard(lang),
		)
	}

	entry.State = session.StateAwaitingName
	return c.Send(i18n.T(i18n.KeyAskName, lang))
}

// HandleName stores the display name entered during onboarding.
func (h *OnboardingHandler) HandleName(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	entry := h.registry.GetOrCreate(sender.ID)
	lang := entry.Lang

	name := strings.TrimSpace(c.Text())
	if name == "" {
		return c.Send(i18n.T(i18n.KeyAskName, lang))
	}

	if err := h.accounts.SetDisplayName(ctx, sender.ID, name); err != nil {
		log.Error().Err(err).Int64("user_id", sender.ID).Msg("Failed to set display name")
		return c.Send(i18n.T(i18n.KeyGenericFailure, lang))
	}

	entry.Name = name
	entry.State = session.StateNone

	return c.Send(
		fmt.Sprintf(i18n.T(i18n.KeyWelcomeBack, lang), name),
		BuildMainMenuKeyboard(lang),
	)
}

// HandleChangeLanguage re-opens language selection from the main menu.
func (h *OnboardingHandler) HandleChangeLanguage(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	entry := h.registry.GetOrCreate(sender.ID)
	return c.Send(i18n.T(i18n.KeyChooseLanguage, entry.Lang), BuildLanguageKeyboard())
}
