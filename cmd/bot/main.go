// Package main is the entry point for the Telegram quiz bot.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"telegram-quiz-bot/internal/bot"
	"telegram-quiz-bot/internal/config"
	"telegram-quiz-bot/internal/pkg/db"
	"telegram-quiz-bot/internal/pkg/lock"
	"telegram-quiz-bot/internal/repository"
	"telegram-quiz-bot/internal/service"
	"telegram-quiz-bot/internal/session"
	"telegram-quiz-bot/internal/translate"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().Msg("Configuration loaded successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbPool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	if err := runMigrations(ctx, dbPool); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Repositories
	userRepo := repository.NewUserRepository(dbPool.Pool)
	questionRepo := repository.NewQuestionRepository(dbPool.Pool)
	answerRepo := repository.NewAnswerRepository(dbPool.Pool)
	sessionRepo := repository.NewSessionRepository(dbPool.Pool)
	waitLockRepo := repository.NewWaitLockRepository(dbPool.Pool)
	rewardRepo := repository.NewRewardRepository(dbPool.Pool)
	contentRepo := repository.NewContentRepository(dbPool.Pool)

	// Services
	translator := translate.NewGoogleTranslator(cfg.Translator.Endpoint, cfg.Translator.Timeout)

	accountService := service.NewAccountService(userRepo)
	quizService := service.NewQuizService(questionRepo, waitLockRepo, cfg.Quiz.WaitMinutes)
	rewardService := service.NewRewardService(sessionRepo, rewardRepo, quizService, cfg.Reward.Target, cfg.Reward.Amount)
	statsService := service.NewStatsService(answerRepo, userRepo, questionRepo)
	contentService := service.NewContentService(questionRepo, contentRepo, translator)

	userLock := lock.NewUserLock()
	registry := session.NewRegistry()

	deps := &bot.Dependencies{
		Config:         cfg,
		AccountService: accountService,
		QuizService:    quizService,
		RewardService:  rewardService,
		StatsService:   statsService,
		ContentService: contentService,
		Registry:       registry,
		UserLock:       userLock,
	}

	telegramBot, err := bot.New(deps)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create bot")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Msg("Bot is starting...")
		telegramBot.Start()
	}()

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	telegramBot.Stop()
	log.Info().Msg("Bot stopped gracefully")
}

// runMigrations executes database migrations.
func runMigrations(ctx context.Context, pool *db.Pool) error {
	log.Info().Msg("Running database migrations...")

	// Migration 1: users
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			telegram_id BIGINT PRIMARY KEY,
			username VARCHAR(255) NOT NULL DEFAULT '',
			display_name VARCHAR(255) NOT NULL DEFAULT '',
			language VARCHAR(2) NOT NULL DEFAULT 'UZ',
			registered_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			is_active BOOLEAN NOT NULL DEFAULT TRUE
		);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 1: users table created")

	// Migration 2: questions
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS questions (
			id BIGSERIAL PRIMARY KEY,
			question_uz TEXT NOT NULL,
			question_ru TEXT NOT NULL DEFAULT '',
			question_ar TEXT NOT NULL DEFAULT '',
			question_en TEXT NOT NULL DEFAULT '',
			option1_uz TEXT NOT NULL,
			option1_ru TEXT NOT NULL DEFAULT '',
			option1_ar TEXT NOT NULL DEFAULT '',
			option1_en TEXT NOT NULL DEFAULT '',
			option2_uz TEXT NOT NULL,
			option2_ru TEXT NOT NULL DEFAULT '',
			option2_ar TEXT NOT NULL DEFAULT '',
			option2_en TEXT NOT NULL DEFAULT '',
			option3_uz TEXT NOT NULL,
			option3_ru TEXT NOT NULL DEFAULT '',
			option3_ar TEXT NOT NULL DEFAULT '',
			option3_en TEXT NOT NULL DEFAULT '',
			correct_option INT NOT NULL CHECK (correct_option BETWEEN 1 AND 3),
			created_by BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			is_active BOOLEAN NOT NULL DEFAULT TRUE
		);
		CREATE INDEX IF NOT EXISTS idx_questions_active ON questions(is_active);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 2: questions table created")

	// Migration 3: answer log + per-user stats
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS answer_events (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(telegram_id) ON DELETE CASCADE,
			question_id BIGINT NOT NULL REFERENCES questions(id),
			selected_option INT NOT NULL DEFAULT 0,
			is_correct BOOLEAN NOT NULL,
			answered_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_answer_events_user_time ON answer_events(user_id, answered_at DESC);

		CREATE TABLE IF NOT EXISTS user_stats (
			user_id BIGINT PRIMARY KEY REFERENCES users(telegram_id) ON DELETE CASCADE,
			correct_count INT NOT NULL DEFAULT 0,
			wrong_count INT NOT NULL DEFAULT 0,
			total_count INT NOT NULL DEFAULT 0,
			current_streak INT NOT NULL DEFAULT 0,
			best_streak INT NOT NULL DEFAULT 0
		);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 3: answer_events and user_stats tables created")

	// Migration 4: quiz sessions + wait locks
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS quiz_sessions (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(telegram_id) ON DELETE CASCADE,
			started_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			ended_at TIMESTAMPTZ,
			correct_count INT NOT NULL DEFAULT 0,
			status VARCHAR(20) NOT NULL DEFAULT 'active',
			reward_paid BOOLEAN NOT NULL DEFAULT FALSE
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_quiz_sessions_one_active
			ON quiz_sessions(user_id) WHERE status = 'active';

		CREATE TABLE IF NOT EXISTS wait_locks (
			user_id BIGINT PRIMARY KEY,
			wait_until TIMESTAMPTZ NOT NULL
		);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 4: quiz_sessions and wait_locks tables created")

	// Migration 5: rewards + cards
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS rewards (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(telegram_id) ON DELETE CASCADE,
			session_id BIGINT NOT NULL REFERENCES quiz_sessions(id),
			amount BIGINT NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			paid_by BIGINT,
			paid_at TIMESTAMPTZ,
			proof_photo_id TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_rewards_status ON rewards(status, created_at DESC);

		CREATE TABLE IF NOT EXISTS user_cards (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL UNIQUE REFERENCES users(telegram_id) ON DELETE CASCADE,
			card_number VARCHAR(32) NOT NULL,
			card_holder VARCHAR(255) NOT NULL,
			submitted_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			verified BOOLEAN NOT NULL DEFAULT FALSE,
			verified_by BIGINT,
			verified_at TIMESTAMPTZ
		);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 5: rewards and user_cards tables created")

	// Migration 6: content library
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS prophets (
			id BIGSERIAL PRIMARY KEY,
			name_uz TEXT NOT NULL,
			name_ru TEXT NOT NULL DEFAULT '',
			name_ar TEXT NOT NULL DEFAULT '',
			name_en TEXT NOT NULL DEFAULT '',
			audio_file_id TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS allah_names (
			id BIGSERIAL PRIMARY KEY,
			number INT NOT NULL UNIQUE,
			name_uz TEXT NOT NULL,
			name_ru TEXT NOT NULL DEFAULT '',
			name_ar TEXT NOT NULL DEFAULT '',
			name_en TEXT NOT NULL DEFAULT '',
			description_uz TEXT NOT NULL DEFAULT '',
			description_ru TEXT NOT NULL DEFAULT '',
			description_ar TEXT NOT NULL DEFAULT '',
			description_en TEXT NOT NULL DEFAULT ''
		);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 6: prophets and allah_names tables created")

	log.Info().Msg("All migrations completed successfully")
	return nil
}
