package translate

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telegram-quiz-bot/internal/model"
)

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{
			name: "single segment",
			body: `[[["Мекка","Makkah",null,null,10]],null,"uz"]`,
			want: "Мекка",
		},
		{
			name: "multi segment concatenation",
			body: `[[["Первый вопрос. ","Birinchi savol. ",null,null,3],["Второй вопрос.","Ikkinchi savol.",null,null,3]],null,"uz"]`,
			want: "Первый вопрос. Второй вопрос.",
		},
		{
			name: "skips malformed segments",
			body: `[[["ok","src"],null,[]],null,"uz"]`,
			want: "ok",
		},
		{
			name:    "not json",
			body:    `<html>rate limited</html>`,
			wantErr: true,
		},
		{
			name:    "empty array",
			body:    `[]`,
			wantErr: true,
		},
		{
			name:    "first element not an array",
			body:    `["nope"]`,
			wantErr: true,
		},
		{
			name:    "segments without text",
			body:    `[[[],[123]],null,"uz"]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseResponse([]byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTranslate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "gtx", q.Get("client"))
		assert.Equal(t, "auto", q.Get("sl"))
		assert.Equal(t, "ru", q.Get("tl"))
		assert.Equal(t, "Makka", q.Get("q"))
		w.Write([]byte(`[[["Мекка","Makka",null,null,10]],null,"uz"]`))
	}))
	defer srv.Close()

	tr := NewGoogleTranslator(srv.URL, 5*time.Second)

	got, err := tr.Translate(context.Background(), "Makka", model.LangRU)
	require.NoError(t, err)
	assert.Equal(t, "Мекка", got)
}

func TestTranslateSkipsUzbekAndEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no network call expected")
	}))
	defer srv.Close()

	tr := NewGoogleTranslator(srv.URL, 5*time.Second)

	got, err := tr.Translate(context.Background(), "Makka", model.LangUZ)
	require.NoError(t, err)
	assert.Equal(t, "Makka", got)

	got, err = tr.Translate(context.Background(), "   ", model.LangRU)
	require.NoError(t, err)
	assert.Equal(t, "   ", got)
}

func TestTranslateNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	tr := NewGoogleTranslator(srv.URL, 5*time.Second)

	_, err := tr.Translate(context.Background(), "Makka", model.LangRU)
	assert.Error(t, err)
}

// failingTranslator always errors, modeling an unreachable endpoint.
type failingTranslator struct{}

func (failingTranslator) Translate(_ context.Context, _ string, _ model.Language) (string, error) {
	return "", errors.New("endpoint unreachable")
}

// echoTranslator tags the text with the target code.
type echoTranslator struct{}

func (echoTranslator) Translate(_ context.Context, text string, target model.Language) (string, error) {
	if target == model.LangUZ {
		return text, nil
	}
	return text + ":" + string(target), nil
}

func TestOrFallback(t *testing.T) {
	got := OrFallback(context.Background(), failingTranslator{}, "Makka", model.LangRU)
	assert.Equal(t, "Makka", got, "failures degrade to source text")

	got = OrFallback(context.Background(), echoTranslator{}, "Makka", model.LangEN)
	assert.Equal(t, "Makka:en", got)
}

func TestLocalize(t *testing.T) {
	lt := Localize(context.Background(), echoTranslator{}, "Makka")

	assert.Equal(t, "Makka", lt.UZ)
	assert.Equal(t, "Makka:ru", lt.RU)
	assert.Equal(t, "Makka:ar", lt.AR)
	assert.Equal(t, "Makka:en", lt.EN)
}

func TestLocalizeDegradesPerLanguage(t *testing.T) {
	lt := Localize(context.Background(), failingTranslator{}, "Makka")

	assert.Equal(t, model.LocalizedText{UZ: "Makka", RU: "Makka", AR: "Makka", EN: "Makka"}, lt)
}
