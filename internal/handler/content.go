package handler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"telegram-quiz-bot/internal/i18n"
	"telegram-quiz-bot/internal/model"
	"telegram-quiz-bot/internal/service"
	"telegram-quiz-bot/internal/session"
)

// ContentHandler serves the prophets' stories and names-of-Allah library.
type ContentHandler struct {
	content  *service.ContentService
	registry *session.Registry
}

// NewContentHandler creates a new ContentHandler instance.
func NewContentHandler(content *service.ContentService, registry *session.Registry) *ContentHandler {
	return &ContentHandler{content: content, registry: registry}
}

// HandleProphets lists the prophets' stories as audio buttons.
func (h *ContentHandler) HandleProphets(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	entry := h.registry.GetOrCreate(sender.ID)
	lang := entry.Lang

	prophets, err := h.content.Prophets(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list prophets")
		return c.Send(i18n.T(i18n.KeyGenericFailure, lang))
	}
	if len(prophets) == 0 {
		return c.Send(i18n.T(i18n.KeyNoQuestions, lang))
	}

	buttons := make([]ProphetButton, 0, len(prophets))
	for _, p := range prophets {
		buttons = append(buttons, ProphetButton{ID: p.ID, Name: p.Name})
	}
	return c.Send("👤 Payg'ambarlar hayoti:", BuildProphetsKeyboard(buttons, lang))
}

// HandleProphetCallback sends the selected prophet's audio story.
func (h *ContentHandler) HandleProphetCallback(c tele.Context, data string) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	id, err := strconv.ParseInt(strings.TrimPrefix(data, CallbackProphet), 10, 64)
	if err != nil {
		return nil
	}

	fileID, err := h.content.ProphetAudio(ctx, id)
	if err != nil {
		log.Error().Err(err).Int64("prophet_id", id).Msg("Failed to load prophet audio")
		return c.Respond(&tele.CallbackResponse{Text: "❌", ShowAlert: true})
	}

	if err := c.Respond(&tele.CallbackResponse{}); err != nil {
		log.Debug().Err(err).Msg("Callback ack failed")
	}
	return c.Send(&tele.Audio{File: tele.File{FileID: fileID}})
}

// HandleAllahNames shows the first page of the 99 names.
func (h *ContentHandler) HandleAllahNames(c tele.Context) error {
	return h.sendNamesPage(c, 0, false)
}

// HandleAllahPageCallback flips to the requested page.
func (h *ContentHandler) HandleAllahPageCallback(c tele.Context, data string) error {
	page, err := strconv.Atoi(strings.TrimPrefix(data, CallbackAllahPage))
	if err != nil || page < 0 {
		return nil
	}
	return h.sendNamesPage(c, page, true)
}

// HandleAllahBackCallback returns from a detail view to the list.
func (h *ContentHandler) HandleAllahBackCallback(c tele.Context) error {
	return h.sendNamesPage(c, 0, true)
}

func (h *ContentHandler) sendNamesPage(c tele.Context, page int, edit bool) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	entry := h.registry.GetOrCreate(sender.ID)
	lang := entry.Lang

	names, err := h.content.AllahNames(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list names")
		return c.Send(i18n.T(i18n.KeyGenericFailure, lang))
	}
	if len(names) == 0 {
		return c.Send(i18n.T(i18n.KeyNoQuestions, lang))
	}

	totalPages := (len(names) + AllahNamesPerPage - 1) / AllahNamesPerPage
	if page >= totalPages {
		page = totalPages - 1
	}

	start := page * AllahNamesPerPage
	end := start + AllahNamesPerPage
	if end > len(names) {
		end = len(names)
	}

	buttons := make([]NameButton, 0, end-start)
	for _, n := range names[start:end] {
		buttons = append(buttons, NameButton{Number: n.Number, Label: n.Name.Get(lang)})
	}

	text := "📿 Allohning 99 go'zal ismi:"
	markup := BuildAllahNamesKeyboard(buttons, page, totalPages)
	if edit {
		return c.Edit(text, markup)
	}
	return c.Send(text, markup)
}

// HandleAllahNameCallback shows one name's detail view.
func (h *ContentHandler) HandleAllahNameCallback(c tele.Context, data string) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	number, err := strconv.Atoi(strings.TrimPrefix(data, CallbackAllahName))
	if err != nil {
		return nil
	}

	entry := h.registry.GetOrCreate(sender.ID)
	lang := entry.Lang

	name, err := h.content.AllahName(ctx, number)
	if err != nil {
		log.Error().Err(err).Int("number", number).Msg("Failed to load name")
		return c.Respond(&tele.CallbackResponse{Text: "❌", ShowAlert: true})
	}

	text := formatAllahName(name, lang)
	return c.Edit(text, BuildAllahNameBackKeyboard())
}

func formatAllahName(n *model.AllahName, lang model.Language) string {
	return fmt.Sprintf(
		"📿 %d. %s\n%s\n\n%s",
		n.Number, n.Name.Get(lang), n.Name.AR, n.Description.Get(lang),
	)
}
