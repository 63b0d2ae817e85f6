package translate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeepLProvider_Translate(t *testing.T) {
	var gotAuth, gotText, gotLang string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		gotAuth = r.Header.Get("Authorization")
		gotText = r.PostFormValue("text")
		gotLang = r.PostFormValue("target_lang")
		w.Write([]byte(`{"translations": [{"detected_source_language": "EN", "text": "Hola"}]}`))
	}))
	defer srv.Close()

	p := NewDeepLProvider(srv.URL, "secret-key")
	out, err := p.Translate(context.Background(), "Hello", "ES")

	require.NoError(t, err)
	assert.Equal(t, "Hola", out)
	assert.Equal(t, "DeepL-Auth-Key secret-key", gotAuth)
	assert.Equal(t, "Hello", gotText)
	assert.Equal(t, "ES", gotLang)
}

func TestDeepLProvider_AuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	p := NewDeepLProvider(srv.URL, "bad-key")
	_, err := p.Translate(context.Background(), "Hello", "ES")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "authorization")
}

func TestDeepLProvider_EmptyTranslationList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"translations": []}`))
	}))
	defer srv.Close()

	p := NewDeepLProvider(srv.URL, "key")
	_, err := p.Translate(context.Background(), "Hello", "ES")

	assert.Error(t, err)
}
