package contact

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func post(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	h.RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestSubmitLogsAndAcknowledges(t *testing.T) {
	var buf bytes.Buffer
	h := New("Joseph Fajen", zerolog.New(&buf))

	long := strings.Repeat("é", 150)
	resp := post(t, h, `{"name":"Ada","email":"ada@example.com","company":"Acme","message":"`+long+`"}`)
	require.Equal(t, http.StatusOK, resp.Code)

	var body Response
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "Thank you! Joseph will be in touch soon.", body.Message)

	var entry map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "contact.form_submitted", entry["message"])
	assert.Equal(t, "ada@example.com", entry["email"])
	assert.Equal(t, strings.Repeat("é", 100), entry["message_preview"])
}

func TestSubmitValidation(t *testing.T) {
	h := New("Joseph Fajen", zerolog.Nop())

	for _, body := range []string{
		`not json`,
		`{"email":"ada@example.com"}`,
		`{"name":"Ada","email":"nope"}`,
		`{"name":"Ada","email":"Ada <ada@example.com>"}`,
	} {
		resp := post(t, h, body)
		assert.Equal(t, http.StatusBadRequest, resp.Code, body)
	}
}

func TestFirstName(t *testing.T) {
	assert.Equal(t, "Joseph", firstName(" Joseph  Fajen "))
	assert.Equal(t, "We", firstName(""))
}
