// Package i18n provides a single localization lookup keyed by message key
// and language. Handlers never carry their own per-language string tables.
package i18n

import "telegram-quiz-bot/internal/model"

// Key identifies a localized message. Messages containing %-verbs are
// format strings to be filled by the caller.
type Key string

// Message keys.
const (
	KeyQuestionPrefix  Key = "question_prefix"
	KeyOptionsPrompt   Key = "options_prompt"
	KeyCorrectAnswer   Key = "correct_answer"
	KeyWrongAnswer     Key = "wrong_answer"      // %d = correct option index
	KeyWaitMessage     Key = "wait_message"      // %d = remaining minutes
	KeyNoQuestions     Key = "no_questions"
	KeyAllDone         Key = "all_done"
	KeyChanceEnded     Key = "chance_ended"
	KeyUseMenu         Key = "use_menu"
	KeyAskName         Key = "ask_name"
	KeyChooseLanguage  Key = "choose_language"
	KeyLanguageChanged Key = "language_changed"
	KeyWelcomeBack     Key = "welcome_back" // %s = display name
	KeyCardPrompt      Key = "card_prompt"
	KeyCardBadNumber   Key = "card_bad_number"
	KeyCardAskHolder   Key = "card_ask_holder"
	KeyCardBadHolder   Key = "card_bad_holder"
	KeyCardAccepted    Key = "card_accepted"
	KeyRewardProgress  Key = "reward_progress" // %d/%d correct, %d remaining
	KeyCongrats        Key = "congrats"
	KeyRewardPaid      Key = "reward_paid"
	KeyGenericFailure  Key = "generic_failure"
)

// messages holds every localized string. Uzbek is the fallback language.
var messages = map[Key]map[model.Language]string{
	KeyQuestionPrefix: {
		model.LangUZ: "❓ Savol",
		model.LangRU: "❓ Вопрос",
		model.LangAR: "❓ سؤال",
		model.LangEN: "❓ Question",
	},
	KeyOptionsPrompt: {
		model.LangUZ: "👇 Javob variantlari:",
		model.LangRU: "👇 Варианты ответа:",
		model.LangAR: "👇 خيارات الإجابة:",
		model.LangEN: "👇 Answer options:",
	},
	KeyCorrectAnswer: {
		model.LangUZ: "✅ To'g'ri javob!",
		model.LangRU: "✅ Правильный ответ!",
		model.LangAR: "✅ إجابة صحيحة!",
		model.LangEN: "✅ Correct answer!",
	},
	KeyWrongAnswer: {
		model.LangUZ: "❌ Noto'g'ri javob!\n\nTo'g'ri javob: %d",
		model.LangRU: "❌ Неправильный ответ!\n\nПравильный ответ: %d",
		model.LangAR: "❌ إجابة خاطئة!\n\nالإجابة الصحيحة: %d",
		model.LangEN: "❌ Wrong answer!\n\nCorrect answer: %d",
	},
	KeyWaitMessage: {
		model.LangUZ: "⏳ Hurmatli foydalanuvchi!\n\nSiz xato javob berganingiz uchun keyingi savol %d daqiqadan so'ng ochiladi.\nIltimos, sabr qiling! 🤲",
		model.LangRU: "⏳ Уважаемый пользователь!\n\nИз-за неверного ответа следующий вопрос будет доступен через %d минут.\nПожалуйста, наберитесь терпения! 🤲",
		model.LangAR: "⏳ عزيزي المستخدم!\n\nنظرًا لإجابتك الخاطئة، سيكون السؤال التالي متاحًا بعد %d دقيقة.\nيرجى التحلي بالصبر! 🤲",
		model.LangEN: "⏳ Dear user!\n\nDue to your wrong answer, the next question will be available in %d minutes.\nPlease be patient! 🤲",
	},
	KeyNoQuestions: {
		model.LangUZ: "Hozircha savollar mavjud emas.",
		model.LangRU: "Пока нет вопросов.",
		model.LangAR: "لا توجد أسئلة حتى الآن.",
		model.LangEN: "No questions available yet.",
	},
	KeyAllDone: {
		model.LangUZ: "🎉 Tabriklaymiz! Siz barcha savollarni yakunladingiz!",
		model.LangRU: "🎉 Поздравляем! Вы завершили все вопросы!",
		model.LangAR: "🎉 مبروك! لقد أكملت جميع الأسئلة!",
		model.LangEN: "🎉 Congratulations! You have completed all questions!",
	},
	KeyChanceEnded: {
		model.LangUZ: "⚠️ 20 ta savol imkoniyati tugadi. %d daqiqadan so'ng qayta urinib ko'ring.",
		model.LangRU: "⚠️ Возможность 20 вопросов закончилась. Попробуйте снова через %d минут.",
		model.LangAR: "⚠️ انتهت فرصة 20 سؤال. حاول مرة أخرى بعد %d دقيقة.",
		model.LangEN: "⚠️ 20 questions chance ended. Try again in %d minutes.",
	},
	KeyUseMenu: {
		model.LangUZ: "Iltimos menyudan foydalaning.",
		model.LangRU: "Пожалуйста, используйте меню.",
		model.LangAR: "الرجاء استخدام القائمة.",
		model.LangEN: "Please use the menu.",
	},
	KeyAskName: {
		model.LangUZ: "Ismingizni kiriting:",
		model.LangRU: "Введите ваше имя:",
		model.LangAR: "أدخل اسمك:",
		model.LangEN: "Enter your name:",
	},
	KeyChooseLanguage: {
		model.LangUZ: "Tilni tanlang:",
		model.LangRU: "Выберите язык:",
		model.LangAR: "اختر اللغة:",
		model.LangEN: "Choose a language:",
	},
	KeyLanguageChanged: {
		model.LangUZ: "Til muvaffaqiyatli o'zgartirildi.",
		model.LangRU: "Язык успешно изменён.",
		model.LangAR: "تم تغيير اللغة بنجاح.",
		model.LangEN: "Language changed successfully.",
	},
	KeyWelcomeBack: {
		model.LangUZ: "Assalomu Aleykum %s!\n\nXush kelibsiz!",
		model.LangRU: "Ассаламу алейкум, %s!\n\nДобро пожаловать!",
		model.LangAR: "السلام عليكم %s!\n\nأهلاً وسهلاً!",
		model.LangEN: "Assalamu alaykum %s!\n\nWelcome back!",
	},
	KeyCardPrompt: {
		model.LangUZ: "💳 Iltimos, karta raqamingizni kiriting:\nAdminimiz tekshirib, mukofot pulingizni tashlab beradi.\n\nMisol: 8600 1234 5678 9012",
		model.LangRU: "💳 Пожалуйста, введите номер вашей карты:\nНаш администратор проверит и переведёт вознаграждение.\n\nПример: 8600 1234 5678 9012",
		model.LangAR: "💳 الرجاء إدخال رقم بطاقتك:\nسيتحقق المشرف ويحوّل المكافأة.\n\nمثال: 8600 1234 5678 9012",
		model.LangEN: "💳 Please enter your card number:\nOur admin will verify it and transfer your reward.\n\nExample: 8600 1234 5678 9012",
	},
	KeyCardBadNumber: {
		model.LangUZ: "❌ Noto'g'ri karta raqami. Iltimos, qayta kiriting:\n\nMisol: 8600 1234 5678 9012",
		model.LangRU: "❌ Неверный номер карты. Пожалуйста, введите снова:\n\nПример: 8600 1234 5678 9012",
		model.LangAR: "❌ رقم بطاقة غير صحيح. الرجاء الإدخال مرة أخرى:\n\nمثال: 8600 1234 5678 9012",
		model.LangEN: "❌ Invalid card number. Please enter it again:\n\nExample: 8600 1234 5678 9012",
	},
	KeyCardAskHolder: {
		model.LangUZ: "💳 Karta egasining to'liq ismini kiriting:\n\nMisol: ABDULLAYEV ABDULLA",
		model.LangRU: "💳 Введите полное имя владельца карты:\n\nПример: ABDULLAYEV ABDULLA",
		model.LangAR: "💳 أدخل الاسم الكامل لصاحب البطاقة:\n\nمثال: ABDULLAYEV ABDULLA",
		model.LangEN: "💳 Enter the card holder's full name:\n\nExample: ABDULLAYEV ABDULLA",
	},
	KeyCardBadHolder: {
		model.LangUZ: "❌ Ism juda qisqa. Qayta kiriting:",
		model.LangRU: "❌ Имя слишком короткое. Введите снова:",
		model.LangAR: "❌ الاسم قصير جداً. أدخله مرة أخرى:",
		model.LangEN: "❌ Name is too short. Enter it again:",
	},
	KeyCardAccepted: {
		model.LangUZ: "✅ Karta ma'lumotlari qabul qilindi!\n\nAdminimiz tez orada tekshirib, mukofot pulingizni tashlab beradi.\nBarakalla! 🤲",
		model.LangRU: "✅ Данные карты приняты!\n\nНаш администратор скоро проверит и переведёт вознаграждение.\nМолодец! 🤲",
		model.LangAR: "✅ تم قبول بيانات البطاقة!\n\nسيتحقق المشرف قريباً ويحوّل المكافأة.\nأحسنت! 🤲",
		model.LangEN: "✅ Card details accepted!\n\nOur admin will verify them shortly and transfer your reward.\nWell done! 🤲",
	},
	KeyRewardProgress: {
		model.LangUZ: "\n\n━━━━━━━━━━━━━━━━━━━━\n🎁 MUKOFOT DASTURI\n✅ To'g'ri javoblar: %d/%d\n⏳ Qolgan: %d ta\n💰 Mukofot: 200 000 so'm\n━━━━━━━━━━━━━━━━━━━━\n",
		model.LangRU: "\n\n━━━━━━━━━━━━━━━━━━━━\n🎁 БОНУСНАЯ ПРОГРАММА\n✅ Правильные ответы: %d/%d\n⏳ Осталось: %d\n💰 Награда: 200 000 сум\n━━━━━━━━━━━━━━━━━━━━\n",
		model.LangAR: "\n\n━━━━━━━━━━━━━━━━━━━━\n🎁 برنامج المكافآت\n✅ الإجابات الصحيحة: %d/%d\n⏳ المتبقي: %d\n💰 المكافأة: 200 000 سوم\n━━━━━━━━━━━━━━━━━━━━\n",
		model.LangEN: "\n\n━━━━━━━━━━━━━━━━━━━━\n🎁 REWARD PROGRAM\n✅ Correct answers: %d/%d\n⏳ Remaining: %d\n💰 Reward: 200 000 so'm\n━━━━━━━━━━━━━━━━━━━━\n",
	},
	KeyCongrats: {
		model.LangUZ: "🎉 TABRIKLAYMIZ! 🎉\n\nSiz 20 ta savolga to'g'ri javob berdingiz!\n\n✅ Barcha savollar to'g'ri\n💰 Mukofot: 200 000 so'm\n\nIlmingiz ziyoda bo'lsin!\nAllohning O'zi madadkor bo'lsin!",
		model.LangRU: "🎉 ПОЗДРАВЛЯЕМ! 🎉\n\nВы правильно ответили на 20 вопросов!\n\n✅ Все ответы верны\n💰 Награда: 200 000 сум",
		model.LangAR: "🎉 مبروك! 🎉\n\nلقد أجبت بشكل صحيح على 20 سؤالاً!\n\n✅ كل الإجابات صحيحة\n💰 المكافأة: 200 000 سوم",
		model.LangEN: "🎉 CONGRATULATIONS! 🎉\n\nYou answered 20 questions correctly!\n\n✅ All answers correct\n💰 Reward: 200 000 so'm",
	},
	KeyRewardPaid: {
		model.LangUZ: "✅ Mukofotingiz to'landi!\n\n💰 200 000 so'm kartangizga tashlandi.\nChek rasmda ko'rsatilgan.\n\nBarakalla! Ilmingiz ziyoda bo'lsin! 🤲",
		model.LangRU: "✅ Ваша награда выплачена!\n\n💰 200 000 сум переведены на вашу карту.\nЧек на фото.\n\nМолодец! 🤲",
		model.LangAR: "✅ تم دفع مكافأتك!\n\n💰 تم تحويل 200 000 سوم إلى بطاقتك.\nالإيصال في الصورة.\n\nأحسنت! 🤲",
		model.LangEN: "✅ Your reward has been paid!\n\n💰 200 000 so'm sent to your card.\nThe receipt is in the photo.\n\nWell done! 🤲",
	},
	KeyGenericFailure: {
		model.LangUZ: "❌ Xatolik yuz berdi, keyinroq urinib ko'ring.",
		model.LangRU: "❌ Произошла ошибка, попробуйте позже.",
		model.LangAR: "❌ حدث خطأ، حاول مرة أخرى لاحقاً.",
		model.LangEN: "❌ Something went wrong, please try again later.",
	},
}

// T returns the message for key in lang, falling back to Uzbek, then to
// the key itself if the key is unknown.
func T(key Key, lang model.Language) string {
	byLang, ok := messages[key]
	if !ok {
		return string(key)
	}
	if s, ok := byLang[lang]; ok && s != "" {
		return s
	}
	return byLang[model.LangUZ]
}
