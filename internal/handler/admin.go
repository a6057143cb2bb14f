package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"telegram-quiz-bot/internal/config"
	"telegram-quiz-bot/internal/i18n"
	"telegram-quiz-bot/internal/service"
	"telegram-quiz-bot/internal/session"
)

// usersPerPage is the page size of the admin users list.
const usersPerPage = 10

// AdminHandler drives the admin surface: content entry conversations,
// statistics, user listings and payout management.
type AdminHandler struct {
	cfg      *config.Config
	accounts *service.AccountService
	stats    *service.StatsService
	rewards  *service.RewardService
	content  *service.ContentService
	registry *session.Registry
	notifier *Notifier
}

// NewAdminHandler creates a new AdminHandler instance.
func NewAdminHandler(cfg *config.Config, accounts *service.AccountService, stats *service.StatsService, rewards *service.RewardService, content *service.ContentService, registry *session.Registry, notifier *Notifier) *AdminHandler {
	return &AdminHandler{
		cfg:      cfg,
		accounts: accounts,
		stats:    stats,
		rewards:  rewards,
		content:  content,
		registry: registry,
		notifier: notifier,
	}
}

// HandleMenu dispatches an admin panel button press.
func (h *AdminHandler) HandleMenu(c tele.Context, action MenuAction) error {
	switch action {
	case ActionAdminAddQuestion:
		return h.startAddQuestion(c)
	case ActionAdminAddProphet:
		return h.startAddProphet(c)
	case ActionAdminStats:
		return h.HandleStats(c)
	case ActionAdminUsers:
		return h.sendUsersPage(c, 0, false)
	case ActionAdminAnswers:
		return h.HandleRecentAnswers(c)
	case ActionAdminRewards:
		return h.sendPendingRewards(c, false)
	case ActionAdminExit:
		entry := h.registry.GetOrCreate(c.Sender().ID)
		entry.State = session.StateNone
		entry.Draft = nil
		entry.Prophet = nil
		return c.Send("🔙", BuildAdminKeyboard())
	}
	return nil
}

// HandleText consumes a text message while an admin conversation state
// is active. Returns false when the state expects no text.
func (h *AdminHandler) HandleText(c tele.Context) (bool, error) {
	sender := c.Sender()
	if sender == nil {
		return false, nil
	}

	entry := h.registry.GetOrCreate(sender.ID)
	switch entry.State {
	case session.StateAdminAwaitingQuestion:
		return true, h.takeQuestionText(c, entry)
	case session.StateAdminAwaitingOptions:
		return true, h.takeOptions(c, entry)
	case session.StateAdminAwaitingCorrect:
		return true, h.takeCorrectOption(c, entry)
	case session.StateAdminAwaitingProphetName:
		return true, h.takeProphetName(c, entry)
	}
	return false, nil
}

// --- add-question conversation ---

func (h *AdminHandler) startAddQuestion(c tele.Context) error {
	entry := h.registry.GetOrCreate(c.Sender().ID)
	entry.Draft = &session.QuestionDraft{}
	entry.State = session.StateAdminAwaitingQuestion
	return c.Send("➕ Savol matnini kiriting (o'zbek tilida):")
}

func (h *AdminHandler) takeQuestionText(c tele.Context, entry *session.Entry) error {
	text := strings.TrimSpace(c.Text())
	if text == "" {
		return c.Send("Savol matnini kiriting:")
	}

	entry.Draft.TextUZ = text
	entry.State = session.StateAdminAwaitingOptions
	return c.Send("Endi 3 ta javob variantini kiriting, har birini yangi qatordan:")
}

func (h *AdminHandler) takeOptions(c tele.Context, entry *session.Entry) error {
	var options []string
	for _, line := range strings.Split(c.Text(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			options = append(options, line)
		}
	}
	if len(options) != 3 {
		return c.Send("❌ Aynan 3 ta variant kerak, har birini yangi qatordan kiriting:")
	}

	copy(entry.Draft.OptionsUZ[:], options)
	entry.State = session.StateAdminAwaitingCorrect
	return c.Send("To'g'ri javob raqamini kiriting (1, 2 yoki 3):")
}

func (h *AdminHandler) takeCorrectOption(c tele.Context, entry *session.Entry) error {
	correct, err := strconv.Atoi(strings.TrimSpace(c.Text()))
	if err != nil || correct < 1 || correct > 3 {
		return c.Send("❌ 1, 2 yoki 3 raqamini kiriting:")
	}

	entry.Draft.Correct = correct
	entry.State = session.StateAdminAwaitingConfirm

	d := entry.Draft
	preview := fmt.Sprintf(
		"📋 Savol: %s\n\n1. %s\n2. %s\n3. %s\n\n✅ To'g'ri javob: %d\n\nSaqlansinmi? (Tarjima avtomatik bajariladi)",
		d.TextUZ, d.OptionsUZ[0], d.OptionsUZ[1], d.OptionsUZ[2], d.Correct,
	)
	return c.Send(preview, BuildConfirmSaveKeyboard())
}

// HandleQuestionSave saves the drafted question, translating it into the
// remaining languages.
func (h *AdminHandler) HandleQuestionSave(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	entry := h.registry.GetOrCreate(sender.ID)

	draft := entry.Draft
	entry.Draft = nil
	entry.State = session.StateNone
	if draft == nil {
		return c.Respond(&tele.CallbackResponse{Text: "❌ Qoralama topilmadi"})
	}

	if err := c.Respond(&tele.CallbackResponse{Text: "⏳ Tarjima qilinmoqda..."}); err != nil {
		log.Debug().Err(err).Msg("Callback ack failed")
	}

	id, err := h.content.AddQuestion(ctx, draft.TextUZ, draft.OptionsUZ, draft.Correct, sender.ID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to save question")
		return c.Send("❌ Savolni saqlab bo'lmadi.")
	}

	return c.Send(fmt.Sprintf("✅ Savol #%d saqlandi va 4 tilga tarjima qilindi.", id))
}

// HandleQuestionCancel discards the drafted question.
func (h *AdminHandler) HandleQuestionCancel(c tele.Context) error {
	entry := h.registry.GetOrCreate(c.Sender().ID)
	entry.Draft = nil
	entry.State = session.StateNone
	return c.Edit("❌ Bekor qilindi.")
}

// --- add-prophet conversation ---

func (h *AdminHandler) startAddProphet(c tele.Context) error {
	entry := h.registry.GetOrCreate(c.Sender().ID)
	entry.Prophet = &session.ProphetDraft{}
	entry.State = session.StateAdminAwaitingProphetName
	return c.Send("👤 Payg'ambar nomini kiriting (o'zbek tilida):")
}

func (h *AdminHandler) takeProphetName(c tele.Context, entry *session.Entry) error {
	name := strings.TrimSpace(c.Text())
	if name == "" {
		return c.Send("Nomini kiriting:")
	}

	entry.Prophet.NameUZ = name
	entry.State = session.StateAdminAwaitingProphetAudio
	return c.Send("🎧 Endi audio faylni yuboring:")
}

// HandleAudio consumes the audio message of the add-prophet conversation.
// Returns false when no prophet draft is awaiting audio.
func (h *AdminHandler) HandleAudio(c tele.Context) (bool, error) {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil || !h.cfg.IsAdmin(sender.ID) {
		return false, nil
	}

	entry := h.registry.GetOrCreate(sender.ID)
	if entry.State != session.StateAdminAwaitingProphetAudio || entry.Prophet == nil {
		return false, nil
	}

	var fileID string
	if audio := c.Message().Audio; audio != nil {
		fileID = audio.FileID
	} else if voice := c.Message().Voice; voice != nil {
		fileID = voice.FileID
	}
	if fileID == "" {
		return true, c.Send("🎧 Audio fayl yuboring:")
	}

	draft := entry.Prophet
	entry.Prophet = nil
	entry.State = session.StateNone

	id, err := h.content.AddProphet(ctx, draft.NameUZ, fileID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to save prophet")
		return true, c.Send("❌ Saqlab bo'lmadi.")
	}

	return true, c.Send(fmt.Sprintf("✅ Payg'ambar #%d saqlandi.", id))
}

// --- statistics ---

// HandleStats replies with the admin dashboard aggregates.
func (h *AdminHandler) HandleStats(c tele.Context) error {
	ctx := context.Background()

	overview, err := h.stats.Overview(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load overview")
		return c.Send("❌ Statistikani olib bo'lmadi.")
	}

	top, err := h.stats.TopAnswerers(ctx, 5)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load top answerers")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 Statistika\n\n")
	fmt.Fprintf(&b, "👥 Foydalanuvchilar: %d\n", overview.TotalUsers)
	fmt.Fprintf(&b, "🆕 Bugun: %d\n\n", overview.UsersToday)
	fmt.Fprintf(&b, "❓ Savollar:\n🇺🇿 %d  🇷🇺 %d  🇸🇦 %d  🇬🇧 %d\n",
		overview.QuestionCounts.UZ, overview.QuestionCounts.RU,
		overview.QuestionCounts.AR, overview.QuestionCounts.EN)

	if len(top) > 0 {
		b.WriteString("\n🏆 Eng faollar:\n")
		for i, st := range top {
			fmt.Fprintf(&b, "%d. %d — ✅ %d\n", i+1, st.UserID, st.CorrectCount)
		}
	}

	return c.Send(b.String())
}

// HandleRecentAnswers replies with the latest answers across all users.
func (h *AdminHandler) HandleRecentAnswers(c tele.Context) error {
	ctx := context.Background()

	answers, err := h.stats.RecentAnswers(ctx, 20)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load answers")
		return c.Send("❌ Javoblarni olib bo'lmadi.")
	}
	if len(answers) == 0 {
		return c.Send("📝 Hali javoblar yo'q.")
	}

	var b strings.Builder
	b.WriteString("📝 So'nggi javoblar:\n\n")
	for _, a := range answers {
		mark := "❌"
		if a.Event.IsCorrect {
			mark = "✅"
		}
		fmt.Fprintf(&b, "%s %s — %s\n", mark, a.DisplayName, truncate(a.QuestionUZ, 40))
	}
	return c.Send(b.String())
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}

// --- users list ---

func (h *AdminHandler) sendUsersPage(c tele.Context, page int, edit bool) error {
	ctx := context.Background()

	users, err := h.accounts.ListUsers(ctx, usersPerPage+1, page*usersPerPage)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list users")
		return c.Send("❌ Foydalanuvchilarni olib bo'lmadi.")
	}

	hasNext := len(users) > usersPerPage
	if hasNext {
		users = users[:usersPerPage]
	}

	buttons := make([]UserButton, 0, len(users))
	for _, u := range users {
		label := u.DisplayName
		if label == "" {
			label = "@" + u.Username
		}
		buttons = append(buttons, UserButton{ID: u.TelegramID, Label: label})
	}

	text := fmt.Sprintf("👥 Foydalanuvchilar (%d-sahifa):", page+1)
	markup := BuildUsersPageKeyboard(buttons, page, hasNext)
	if edit {
		return c.Edit(text, markup)
	}
	return c.Send(text, markup)
}

// HandleUsersPageCallback flips the users list to the requested page.
func (h *AdminHandler) HandleUsersPageCallback(c tele.Context, data string) error {
	page, err := strconv.Atoi(strings.TrimPrefix(data, CallbackUsersPage))
	if err != nil || page < 0 {
		return nil
	}
	return h.sendUsersPage(c, page, true)
}

// HandleUserCallback shows one user's profile with stats.
func (h *AdminHandler) HandleUserCallback(c tele.Context, data string) error {
	ctx := context.Background()

	userID, err := strconv.ParseInt(strings.TrimPrefix(data, CallbackUser), 10, 64)
	if err != nil {
		return nil
	}

	user, err := h.accounts.GetUser(ctx, userID)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "❌ Topilmadi", ShowAlert: true})
	}
	stats, err := h.stats.UserStats(ctx, userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to load stats")
		stats = nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "👤 %s\nID: %d\nUsername: @%s\nTil: %s\nRo'yxatdan o'tgan: %s\n",
		user.DisplayName, user.TelegramID, user.Username, user.Language,
		user.RegisteredAt.Format("2006-01-02 15:04"))
	if stats != nil {
		fmt.Fprintf(&b, "\n✅ %d  ❌ %d  📝 %d\n🔥 Seriya: %d  🏆 Eng yaxshi: %d",
			stats.CorrectCount, stats.WrongCount, stats.TotalCount,
			stats.CurrentStreak, stats.BestStreak)
	}

	return c.Edit(b.String(), BuildUserDetailKeyboard(userID))
}

// HandleUserAnswersCallback shows one user's recent answers.
func (h *AdminHandler) HandleUserAnswersCallback(c tele.Context, data string) error {
	ctx := context.Background()

	userID, err := strconv.ParseInt(strings.TrimPrefix(data, CallbackUserAnswers), 10, 64)
	if err != nil {
		return nil
	}

	answers, err := h.stats.UserAnswers(ctx, userID, 20)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to load answers")
		return c.Respond(&tele.CallbackResponse{Text: "❌", ShowAlert: true})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 Javoblar (%d):\n\n", len(answers))
	for _, a := range answers {
		mark := "❌"
		if a.Event.IsCorrect {
			mark = "✅"
		}
		fmt.Fprintf(&b, "%s %s\n", mark, truncate(a.QuestionUZ, 40))
	}
	if len(answers) == 0 {
		b.WriteString("Hali javoblar yo'q.")
	}

	return c.Edit(b.String(), BuildUserDetailKeyboard(userID))
}

// HandleUserRewardsCallback shows one user's reward history.
func (h *AdminHandler) HandleUserRewardsCallback(c tele.Context, data string) error {
	ctx := context.Background()

	userID, err := strconv.ParseInt(strings.TrimPrefix(data, CallbackUserRewards), 10, 64)
	if err != nil {
		return nil
	}

	rewards, err := h.rewards.UserRewards(ctx, userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to load rewards")
		return c.Respond(&tele.CallbackResponse{Text: "❌", ShowAlert: true})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "💰 Mukofotlar (%d):\n\n", len(rewards))
	for _, r := range rewards {
		fmt.Fprintf(&b, "#%d — %d so'm — %s (%s)\n",
			r.ID, r.Amount, r.Status, r.CreatedAt.Format("2006-01-02"))
	}
	if len(rewards) == 0 {
		b.WriteString("Mukofotlar yo'q.")
	}

	return c.Edit(b.String(), BuildUserDetailKeyboard(userID))
}

// --- payout management ---

func (h *AdminHandler) sendPendingRewards(c tele.Context, edit bool) error {
	ctx := context.Background()

	pending, err := h.rewards.PendingRewards(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list pending rewards")
		return c.Send("❌ Mukofotlarni olib bo'lmadi.")
	}
	if len(pending) == 0 {
		if edit {
			return c.Edit("⏳ Kutilayotgan mukofotlar yo'q.")
		}
		return c.Send("⏳ Kutilayotgan mukofotlar yo'q.")
	}

	buttons := make([]RewardButton, 0, len(pending))
	for _, p := range pending {
		name := p.DisplayName
		if name == "" {
			name = "@" + p.Username
		}
		buttons = append(buttons, RewardButton{ID: p.Reward.ID, DisplayName: name})
	}

	text := fmt.Sprintf("⏳ Kutilayotgan mukofotlar (%d):", len(pending))
	markup := BuildPendingRewardsKeyboard(buttons)
	if edit {
		return c.Edit(text, markup)
	}
	return c.Send(text, markup)
}

// HandleRewardsListCallback re-renders the pending rewards list.
func (h *AdminHandler) HandleRewardsListCallback(c tele.Context) error {
	return h.sendPendingRewards(c, true)
}

// HandleRewardCallback shows one pending reward with its card details.
func (h *AdminHandler) HandleRewardCallback(c tele.Context, data string) error {
	ctx := context.Background()

	rewardID, err := strconv.ParseInt(strings.TrimPrefix(data, CallbackReward), 10, 64)
	if err != nil {
		return nil
	}

	pending, err := h.rewards.PendingRewards(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list pending rewards")
		return c.Respond(&tele.CallbackResponse{Text: "❌", ShowAlert: true})
	}

	for _, p := range pending {
		if p.Reward.ID != rewardID {
			continue
		}

		card := p.CardNumber
		if card == "" {
			card = "— karta kiritilmagan —"
		}
		text := fmt.Sprintf(
			"💰 Mukofot #%d\n\n👤 %s (@%s)\n💵 %d so'm\n💳 %s\n✍️ %s\n📅 %s",
			p.Reward.ID, p.DisplayName, p.Username, p.Reward.Amount,
			card, p.CardHolder, p.Reward.CreatedAt.Format("2006-01-02 15:04"),
		)
		return c.Edit(text, BuildRewardDetailKeyboard(p.Reward.ID, p.Reward.UserID))
	}

	return c.Respond(&tele.CallbackResponse{Text: "❌ Mukofot topilmadi yoki allaqachon yakunlangan", ShowAlert: true})
}

// HandlePayCallback starts the proof-photo step of the payout.
func (h *AdminHandler) HandlePayCallback(c tele.Context, data string) error {
	rewardID, err := strconv.ParseInt(strings.TrimPrefix(data, CallbackRewardPay), 10, 64)
	if err != nil {
		return nil
	}

	entry := h.registry.GetOrCreate(c.Sender().ID)
	entry.State = session.StateAdminAwaitingProof
	entry.PayingRewardID = rewardID

	return c.Send(fmt.Sprintf("📸 Mukofot #%d uchun to'lov chekini (rasm) yuboring:", rewardID))
}

// HandleProofPhoto settles the payout with the proof photo: marks the
// reward paid and forwards the receipt to the recipient. Returns false
// when no payout is awaiting a photo.
func (h *AdminHandler) HandleProofPhoto(c tele.Context) (bool, error) {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil || !h.cfg.IsAdmin(sender.ID) {
		return false, nil
	}

	entry := h.registry.GetOrCreate(sender.ID)
	if entry.State != session.StateAdminAwaitingProof || entry.PayingRewardID == 0 {
		return false, nil
	}

	photo := c.Message().Photo
	if photo == nil {
		return true, c.Send("📸 Rasm yuboring:")
	}

	rewardID := entry.PayingRewardID
	entry.PayingRewardID = 0
	entry.State = session.StateNone

	reward, err := h.rewards.MarkPaid(ctx, rewardID, sender.ID, photo.FileID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidState) {
			return true, c.Send("❌ Mukofot allaqachon yakunlangan. Ro'yxatni yangilang.")
		}
		log.Error().Err(err).Int64("reward_id", rewardID).Msg("Failed to mark reward paid")
		return true, c.Send("❌ To'lovni belgilab bo'lmadi.")
	}

	// Forward the receipt with the localized congratulation.
	lang := h.accounts.Language(ctx, reward.UserID)
	receipt := &tele.Photo{
		File:    tele.File{FileID: photo.FileID},
		Caption: i18n.T(i18n.KeyRewardPaid, lang),
	}
	if err := h.notifier.ToUser(reward.UserID, receipt); err == nil {
		return true, c.Send(fmt.Sprintf("✅ Mukofot #%d to'landi va foydalanuvchiga xabar yuborildi.", rewardID))
	}
	return true, c.Send(fmt.Sprintf("✅ Mukofot #%d to'landi, lekin foydalanuvchiga xabar yetib bormadi.", rewardID))
}

// HandleCancelCallback voids a pending reward.
func (h *AdminHandler) HandleCancelCallback(c tele.Context, data string) error {
	ctx := context.Background()
	sender := c.Sender()

	rewardID, err := strconv.ParseInt(strings.TrimPrefix(data, CallbackRewardCancel), 10, 64)
	if err != nil {
		return nil
	}

	if _, err := h.rewards.Cancel(ctx, rewardID, sender.ID); err != nil {
		if errors.Is(err, service.ErrInvalidState) {
			return c.Respond(&tele.CallbackResponse{Text: "❌ Allaqachon yakunlangan", ShowAlert: true})
		}
		log.Error().Err(err).Int64("reward_id", rewardID).Msg("Failed to cancel reward")
		return c.Respond(&tele.CallbackResponse{Text: "❌", ShowAlert: true})
	}

	if err := c.Respond(&tele.CallbackResponse{Text: "✅ Bekor qilindi"}); err != nil {
		log.Debug().Err(err).Msg("Callback ack failed")
	}
	return h.sendPendingRewards(c, true)
}
