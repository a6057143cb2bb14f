package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"telegram-quiz-bot/internal/config"
	"telegram-quiz-bot/internal/handler"
	"telegram-quiz-bot/internal/i18n"
	"telegram-quiz-bot/internal/model"
	"telegram-quiz-bot/internal/pkg/lock"
	"telegram-quiz-bot/internal/service"
	"telegram-quiz-bot/internal/session"
)

// Bot wraps the telebot instance with application dependencies.
type Bot struct {
	bot      *tele.Bot
	cfg      *config.Config
	accounts *service.AccountService
	registry *session.Registry
	userLock *lock.UserLock

	// Handlers
	onboarding *handler.OnboardingHandler
	quiz       *handler.QuizHandler
	reward     *handler.RewardHandler
	content    *handler.ContentHandler
	admin      *handler.AdminHandler
}

// Dependencies holds everything the bot handlers need.
type Dependencies struct {
	Config         *config.Config
	AccountService *service.AccountService
	QuizService    *service.QuizService
	RewardService  *service.RewardService
	StatsService   *service.StatsService
	ContentService *service.ContentService
	Registry       *session.Registry
	UserLock       *lock.UserLock
}

// New creates a new Bot instance with the given dependencies.
func New(deps *Dependencies) (*Bot, error) {
	if deps.Config.Bot.Token == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	pref := tele.Settings{
		Token:  deps.Config.Bot.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	teleBot, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	b := &Bot{
		bot:      teleBot,
		cfg:      deps.Config,
		accounts: deps.AccountService,
		registry: deps.Registry,
		userLock: deps.UserLock,
	}

	notifier := handler.NewNotifier(teleBot, deps.Config.Admin.IDs)

	b.onboarding = handler.NewOnboardingHandler(deps.Config, deps.AccountService, deps.Registry, notifier)
	b.quiz = handler.NewQuizHandler(deps.QuizService, deps.RewardService, deps.StatsService, deps.Registry, deps.UserLock, notifier)
	b.reward = handler.NewRewardHandler(deps.RewardService, deps.Registry, notifier)
	b.content = handler.NewContentHandler(deps.ContentService, deps.Registry)
	b.admin = handler.NewAdminHandler(deps.Config, deps.AccountService, deps.StatsService, deps.RewardService, deps.ContentService, deps.Registry, notifier)

	b.registerMiddleware()
	b.registerHandlers()

	return b, nil
}

// registerMiddleware registers all middleware.
func (b *Bot) registerMiddleware() {
	b.bot.Use(RecoveryMiddleware())
	b.bot.Use(LoggingMiddleware())
}

// registerHandlers registers all command, message and callback handlers.
func (b *Bot) registerHandlers() {
	b.bot.Handle("/start", b.onboarding.HandleStart)
	b.bot.Handle("/stats", b.quiz.HandleStats)

	adminGroup := b.bot.Group()
	adminGroup.Use(AdminMiddleware(b.cfg))
	adminGroup.Handle("/admin", func(c tele.Context) error {
		return c.Send("👨‍💼 Admin panel", handler.BuildAdminKeyboard())
	})

	// Reply keyboards and free-text answers all arrive as plain text.
	b.bot.Handle(tele.OnText, b.handleText)
	b.bot.Handle(tele.OnCallback, b.handleCallback)
	b.bot.Handle(tele.OnPhoto, b.handlePhoto)
	b.bot.Handle(tele.OnAudio, b.handleAudio)
	b.bot.Handle(tele.OnVoice, b.handleAudio)
}

// hydrate fills a fresh registry entry from the store. The registry is
// in-memory only, so the first message after a restart reloads language
// and name.
func (b *Bot) hydrate(userID int64, entry *session.Entry) {
	if entry.Lang.Valid() {
		return
	}

	user, err := b.accounts.GetUser(context.Background(), userID)
	if err != nil {
		entry.Lang = model.LangUZ
		return
	}
	entry.Lang = user.Language
	if !entry.Lang.Valid() {
		entry.Lang = model.LangUZ
	}
	entry.Name = user.DisplayName
}

// handleText routes plain text: admin conversations, onboarding steps,
// menu button presses and typed answers, in that order.
func (b *Bot) handleText(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	entry := b.registry.GetOrCreate(sender.ID)
	b.hydrate(sender.ID, entry)
	text := c.Text()

	if b.cfg.IsAdmin(sender.ID) {
		if handled, err := b.admin.HandleText(c); handled {
			return err
		}
		if action, ok := handler.MatchMenu(text); ok {
			return b.admin.HandleMenu(c, action)
		}
		return nil
	}

	if handler.IsSalawatButton(text) {
		return b.onboarding.HandleSalawat(c)
	}
	if _, ok := handler.MatchLanguage(text); ok {
		return b.onboarding.HandleLanguage(c)
	}

	switch entry.State {
	case session.StateAwaitingName:
		return b.onboarding.HandleName(c)
	case session.StateAwaitingCardNumber:
		return b.reward.HandleCardNumber(c)
	case session.StateAwaitingCardHolder:
		return b.reward.HandleCardHolder(c)
	}

	if action, ok := handler.MatchMenu(text); ok {
		switch action {
		case handler.ActionQuestions, handler.ActionNewQuestion:
			return b.quiz.HandleNewQuestion(c)
		case handler.ActionProphets:
			return b.content.HandleProphets(c)
		case handler.ActionDailyZikr:
			return b.content.HandleAllahNames(c)
		case handler.ActionChangeLang:
			return b.onboarding.HandleChangeLanguage(c)
		}
		return nil
	}

	// Anything else while a question is pending is a typed answer.
	if entry.Pending != nil {
		return b.quiz.HandleFreeText(c)
	}

	return c.Send(i18n.T(i18n.KeyUseMenu, entry.Lang))
}

// handleCallback routes inline button presses by data prefix.
func (b *Bot) handleCallback(c tele.Context) error {
	callback := c.Callback()
	sender := c.Sender()
	if callback == nil || sender == nil {
		return nil
	}

	entry := b.registry.GetOrCreate(sender.ID)
	b.hydrate(sender.ID, entry)

	// Telebot may prefix callback data with \f.
	data := strings.TrimPrefix(callback.Data, "\f")
	log.Debug().Str("data", data).Int64("user_id", sender.ID).Msg("Callback received")

	switch {
	case strings.HasPrefix(data, handler.CallbackAnswer):
		return b.quiz.HandleAnswerCallback(c, data)
	case strings.HasPrefix(data, handler.CallbackProphet):
		return b.content.HandleProphetCallback(c, data)
	case strings.HasPrefix(data, handler.CallbackAllahName):
		return b.content.HandleAllahNameCallback(c, data)
	case strings.HasPrefix(data, handler.CallbackAllahPage):
		return b.content.HandleAllahPageCallback(c, data)
	case data == handler.CallbackAllahBack:
		return b.content.HandleAllahBackCallback(c)
	}

	if !b.cfg.IsAdmin(sender.ID) {
		return c.Respond(&tele.CallbackResponse{})
	}

	switch {
	case data == handler.CallbackQSave:
		return b.admin.HandleQuestionSave(c)
	case data == handler.CallbackQCancel:
		return b.admin.HandleQuestionCancel(c)
	case data == handler.CallbackRewardsList:
		return b.admin.HandleRewardsListCallback(c)
	case strings.HasPrefix(data, handler.CallbackRewardPay):
		return b.admin.HandlePayCallback(c, data)
	case strings.HasPrefix(data, handler.CallbackRewardCancel):
		return b.admin.HandleCancelCallback(c, data)
	case strings.HasPrefix(data, handler.CallbackReward):
		return b.admin.HandleRewardCallback(c, data)
	case strings.HasPrefix(data, handler.CallbackUsersPage):
		return b.admin.HandleUsersPageCallback(c, data)
	case strings.HasPrefix(data, handler.CallbackUserAnswers):
		return b.admin.HandleUserAnswersCallback(c, data)
	case strings.HasPrefix(data, handler.CallbackUserRewards):
		return b.admin.HandleUserRewardsCallback(c, data)
	case strings.HasPrefix(data, handler.CallbackUser):
		return b.admin.HandleUserCallback(c, data)
	}

	return c.Respond(&tele.CallbackResponse{})
}

// handlePhoto routes photos: only the admin payout proof step consumes
// them.
func (b *Bot) handlePhoto(c tele.Context) error {
	if handled, err := b.admin.HandleProofPhoto(c); handled {
		return err
	}
	return nil
}

// handleAudio routes audio and voice messages: only the admin add-prophet
// step consumes them.
func (b *Bot) handleAudio(c tele.Context) error {
	if handled, err := b.admin.HandleAudio(c); handled {
		return err
	}
	return nil
}

// Start starts the bot polling.
func (b *Bot) Start() {
	log.Info().Msg("Starting bot...")
	b.bot.Start()
}

// Stop stops the bot gracefully.
func (b *Bot) Stop() {
	log.Info().Msg("Stopping bot...")
	b.bot.Stop()
}
