// Package handler provides Telegram bot command and message handlers.
package handler

import (
	"fmt"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v3"

	"telegram-quiz-bot/internal/model"
)

// Callback data prefixes. Telebot may deliver callback data with a \f
// prefix which the router trims before matching.
const (
	CallbackAnswer       = "answer:"          // answer:<questionID>:<option>
	CallbackProphet      = "prophet:"         // prophet:<id>
	CallbackAllahName    = "allah:"           // allah:<number>
	CallbackAllahPage    = "allah_page:"      // allah_page:<page>
	CallbackAllahBack    = "allah_back"       // back to the paginated list
	CallbackQSave        = "adm_q_save"       // save drafted question
	CallbackQCancel      = "adm_q_cancel"     // discard drafted question
	CallbackUser         = "adm_user:"        // adm_user:<id>
	CallbackUsersPage    = "adm_users_page:"  // adm_users_page:<page>
	CallbackUserAnswers  = "adm_user_answers:"
	CallbackUserRewards  = "adm_user_rewards:"
	CallbackReward       = "adm_reward:"        // adm_reward:<id>
	CallbackRewardPay    = "adm_reward_pay:"    // adm_reward_pay:<id>
	CallbackRewardCancel = "adm_reward_cancel:" // adm_reward_cancel:<id>
	CallbackRewardsList  = "adm_rewards_pending"
)

// AllahNamesPerPage is the page size of the names-of-Allah list.
const AllahNamesPerPage = 10

// MenuAction identifies a reply-keyboard button press. Reply keyboards
// arrive as plain text, so buttons are matched against their localized
// labels in every language.
type MenuAction int

// Menu actions.
const (
	ActionNone MenuAction = iota
	ActionQuestions
	ActionProphets
	ActionDailyZikr
	ActionChangeLang
	ActionNewQuestion

	ActionAdminAddQuestion
	ActionAdminAddProphet
	ActionAdminStats
	ActionAdminUsers
	ActionAdminAnswers
	ActionAdminRewards
	ActionAdminExit
)

// menuLabels holds the localized reply-keyboard button labels.
var menuLabels = map[MenuAction]map[model.Language]string{
	ActionQuestions: {
		model.LangUZ: "❓ Savollar",
		model.LangRU: "❓ Вопросы",
		model.LangAR: "❓ أسئلة",
		model.LangEN: "❓ Questions",
	},
	ActionProphets: {
		model.LangUZ: "👤 Payg'ambarlar hayoti",
		model.LangRU: "👤 Жизнь пророков",
		model.LangAR: "👤 حياة الأنبياء",
		model.LangEN: "👤 Prophets life",
	},
	ActionDailyZikr: {
		model.LangUZ: "📿 Kundalik zikrlar",
		model.LangRU: "📿 Ежедневные зикры",
		model.LangAR: "📿 أذكار اليومية",
		model.LangEN: "📿 Daily dhikr",
	},
	ActionChangeLang: {
		model.LangUZ: "🌐 Tilni o'zgartirish",
		model.LangRU: "🌐 Сменить язык",
		model.LangAR: "🌐 تغيير اللغة",
		model.LangEN: "🌐 Change language",
	},
	ActionNewQuestion: {
		model.LangUZ: "🔄 Yangi savol",
		model.LangRU: "🔄 Новый вопрос",
		model.LangAR: "🔄 سؤال جديد",
		model.LangEN: "🔄 New question",
	},
	ActionAdminAddQuestion: {model.LangUZ: "➕ Savol qo'shish"},
	ActionAdminAddProphet:  {model.LangUZ: "👤 Payg'ambar qo'shish"},
	ActionAdminStats:       {model.LangUZ: "📊 Statistika"},
	ActionAdminUsers:       {model.LangUZ: "👥 Foydalanuvchilar"},
	ActionAdminAnswers:     {model.LangUZ: "📝 Javoblarni ko'rish"},
	ActionAdminRewards:     {model.LangUZ: "💰 Mukofotlar"},
	ActionAdminExit:        {model.LangUZ: "🔙 Chiqish"},
}

// languageButtons maps the language-selection button labels to languages.
var languageButtons = map[string]model.Language{
	"🇺🇿 O'zbek":  model.LangUZ,
	"🇷🇺 Русский": model.LangRU,
	"🇸🇦 العربية": model.LangAR,
	"🇬🇧 English": model.LangEN,
}

// MatchMenu resolves a text message to a menu action across all
// languages, since the pressed button may predate a language change.
func MatchMenu(text string) (MenuAction, bool) {
	for action, byLang := range menuLabels {
		for _, label := range byLang {
			if label == text {
				return action, true
			}
		}
	}
	return ActionNone, false
}

// MatchLanguage resolves a language-selection button press.
func MatchLanguage(text string) (model.Language, bool) {
	lang, ok := languageButtons[text]
	return lang, ok
}

// IsSalawatButton reports whether text is the salawat counter button in
// any language. The step counter varies, so only the marker is checked.
func IsSalawatButton(text string) bool {
	return strings.HasPrefix(text, "🕋")
}

// BuildSalawatKeyboard creates the single-button salawat counter keyboard.
func BuildSalawatKeyboard(step int) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{ResizeKeyboard: true}
	btn := markup.Text(fmt.Sprintf("🕋 Payg'ambarimizga salovat ayting (%d/10)", step))
	markup.Reply(markup.Row(btn))
	return markup
}

// BuildLanguageKeyboard creates the 4-language selection keyboard.
func BuildLanguageKeyboard() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{ResizeKeyboard: true, OneTimeKeyboard: true}
	markup.Reply(
		markup.Row(markup.Text("🇺🇿 O'zbek"), markup.Text("🇷🇺 Русский")),
		markup.Row(markup.Text("🇸🇦 العربية"), markup.Text("🇬🇧 English")),
	)
	return markup
}

// BuildMainMenuKeyboard creates the localized main menu.
func BuildMainMenuKeyboard(lang model.Language) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{ResizeKeyboard: true}
	markup.Reply(
		markup.Row(markup.Text(menuLabel(ActionQuestions, lang)), markup.Text(menuLabel(ActionProphets, lang))),
		markup.Row(markup.Text(menuLabel(ActionDailyZikr, lang)), markup.Text(menuLabel(ActionChangeLang, lang))),
		markup.Row(markup.Text(menuLabel(ActionNewQuestion, lang))),
	)
	return markup
}

// BuildAdminKeyboard creates the admin panel menu. Admin UI is Uzbek only.
func BuildAdminKeyboard() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{ResizeKeyboard: true}
	markup.Reply(
		markup.Row(markup.Text(menuLabel(ActionAdminAddQuestion, model.LangUZ)), markup.Text(menuLabel(ActionAdminAddProphet, model.LangUZ))),
		markup.Row(markup.Text(menuLabel(ActionAdminStats, model.LangUZ)), markup.Text(menuLabel(ActionAdminUsers, model.LangUZ))),
		markup.Row(markup.Text(menuLabel(ActionAdminAnswers, model.LangUZ)), markup.Text(menuLabel(ActionAdminRewards, model.LangUZ))),
		markup.Row(markup.Text(menuLabel(ActionAdminExit, model.LangUZ))),
	)
	return markup
}

func menuLabel(action MenuAction, lang model.Language) string {
	byLang := menuLabels[action]
	if label, ok := byLang[lang]; ok {
		return label
	}
	return byLang[model.LangUZ]
}

// BuildAnswerKeyboard creates the inline option buttons for a question.
func BuildAnswerKeyboard(questionID int64, options [3]string) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}

	var rows []tele.Row
	for i, opt := range options {
		data := fmt.Sprintf("%s%d:%d", CallbackAnswer, questionID, i+1)
		rows = append(rows, markup.Row(markup.Data(fmt.Sprintf("%d. %s", i+1, opt), data)))
	}
	markup.Inline(rows...)
	return markup
}

// BuildConfirmSaveKeyboard creates the admin question draft confirmation.
func BuildConfirmSaveKeyboard() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(
		markup.Data("✅ Saqlash", CallbackQSave),
		markup.Data("❌ Bekor qilish", CallbackQCancel),
	))
	return markup
}

// BuildProphetsKeyboard lists the prophets' stories as inline buttons.
func BuildProphetsKeyboard(prophets []ProphetButton, lang model.Language) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}

	var rows []tele.Row
	for _, p := range prophets {
		data := CallbackProphet + strconv.FormatInt(p.ID, 10)
		rows = append(rows, markup.Row(markup.Data("🎧 "+p.Name.Get(lang), data)))
	}
	markup.Inline(rows...)
	return markup
}

// ProphetButton is the minimal prophet projection for the list keyboard.
type ProphetButton struct {
	ID   int64
	Name model.LocalizedText
}

// BuildAllahNamesKeyboard creates one page of the 99-names list with
// pagination controls.
func BuildAllahNamesKeyboard(names []NameButton, page, totalPages int) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}

	var rows []tele.Row
	var currentRow []tele.Btn
	for i, n := range names {
		data := CallbackAllahName + strconv.Itoa(n.Number)
		currentRow = append(currentRow, markup.Data(fmt.Sprintf("%d. %s", n.Number, n.Label), data))
		if len(currentRow) == 2 || i == len(names)-1 {
			rows = append(rows, markup.Row(currentRow...))
			currentRow = nil
		}
	}

	var nav []tele.Btn
	if page > 0 {
		nav = append(nav, markup.Data("⬅️", CallbackAllahPage+strconv.Itoa(page-1)))
	}
	nav = append(nav, markup.Data(fmt.Sprintf("%d/%d", page+1, totalPages), CallbackAllahPage+strconv.Itoa(page)))
	if page < totalPages-1 {
		nav = append(nav, markup.Data("➡️", CallbackAllahPage+strconv.Itoa(page+1)))
	}
	rows = append(rows, markup.Row(nav...))

	markup.Inline(rows...)
	return markup
}

// NameButton is the minimal name entry projection for the list keyboard.
type NameButton struct {
	Number int
	Label  string
}

// BuildAllahNameBackKeyboard creates the back button under a name detail.
func BuildAllahNameBackKeyboard() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(markup.Data("⬅️ Orqaga", CallbackAllahBack)))
	return markup
}

// BuildPendingRewardsKeyboard lists pending rewards as inline buttons.
func BuildPendingRewardsKeyboard(rewards []RewardButton) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}

	var rows []tele.Row
	for _, r := range rewards {
		data := CallbackReward + strconv.FormatInt(r.ID, 10)
		label := fmt.Sprintf("💰 #%d — %s", r.ID, r.DisplayName)
		rows = append(rows, markup.Row(markup.Data(label, data)))
	}
	markup.Inline(rows...)
	return markup
}

// RewardButton is the minimal reward projection for the list keyboard.
type RewardButton struct {
	ID          int64
	DisplayName string
}

// BuildRewardDetailKeyboard creates the pay/cancel controls of a reward.
func BuildRewardDetailKeyboard(rewardID, userID int64) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	id := strconv.FormatInt(rewardID, 10)
	markup.Inline(
		markup.Row(
			markup.Data("✅ To'landi", CallbackRewardPay+id),
			markup.Data("❌ Bekor qilish", CallbackRewardCancel+id),
		),
		markup.Row(markup.Data("👤 Foydalanuvchi", CallbackUser+strconv.FormatInt(userID, 10))),
		markup.Row(markup.Data("⬅️ Orqaga", CallbackRewardsList)),
	)
	return markup
}

// BuildUsersPageKeyboard lists one page of users with pagination.
func BuildUsersPageKeyboard(users []UserButton, page int, hasNext bool) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}

	var rows []tele.Row
	for _, u := range users {
		data := CallbackUser + strconv.FormatInt(u.ID, 10)
		rows = append(rows, markup.Row(markup.Data("👤 "+u.Label, data)))
	}

	var nav []tele.Btn
	if page > 0 {
		nav = append(nav, markup.Data("⬅️", CallbackUsersPage+strconv.Itoa(page-1)))
	}
	if hasNext {
		nav = append(nav, markup.Data("➡️", CallbackUsersPage+strconv.Itoa(page+1)))
	}
	if len(nav) > 0 {
		rows = append(rows, markup.Row(nav...))
	}

	markup.Inline(rows...)
	return markup
}

// UserButton is the minimal user projection for the list keyboard.
type UserButton struct {
	ID    int64
	Label string
}

// BuildUserDetailKeyboard creates the per-user admin controls.
func BuildUserDetailKeyboard(userID int64) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	id := strconv.FormatInt(userID, 10)
	markup.Inline(
		markup.Row(markup.Data("📊 Barcha javoblar", CallbackUserAnswers+id)),
		markup.Row(markup.Data("💰 Mukofotlar tarixi", CallbackUserRewards+id)),
		markup.Row(markup.Data("⬅️ Orqaga", CallbackUsersPage+"0")),
	)
	return markup
}
