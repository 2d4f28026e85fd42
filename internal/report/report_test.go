package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/authmap/internal/schema"
	"github.com/usestring/authmap/internal/window"
	"github.com/usestring/authmap/pkg/types"
)

func event(host, method, path string, category types.Category, at time.Time) types.AuthEvent {
	e := types.AuthEvent{
		Host:           host,
		Method:         method,
		Path:           path,
		Status:         "200",
		Category:       category,
		SetCookiesRaw:  []string{},
		SessionIDsSet:  map[string]string{},
		SessionIDsSent: map[string]string{},
		CookieFlags:    map[string]types.CookieFlags{},
		HiddenFields:   []types.NameValue{},
		CredParams:     []types.NameValue{},
	}
	e.Stamp(at)
	return e
}

func TestWrite_Empty(t *testing.T) {
	var out, diag bytes.Buffer
	r := New(&out, &diag)

	require.NoError(t, r.Write(nil))
	assert.Equal(t, "[]\n", out.String())
	assert.Equal(t, NoItemsMarker+"\n", diag.String())
}

func TestWrite_Events(t *testing.T) {
	base := time.Date(2024, 3, 10, 11, 0, 0, 0, time.UTC)
	events := []types.AuthEvent{
		event("b.example.com", "GET", "/login", types.CategoryLoginPage, base),
		event("a.example.com", "POST", "/login", types.CategoryCredentialSubmission, base.Add(time.Minute)),
		event("b.example.com", "GET", "/home", types.CategoryPostAuthPage, base.Add(2*time.Minute)),
		event("b.example.com", "GET", "/login", types.CategoryLoginPage, base.Add(3*time.Minute)),
	}

	var out, diag bytes.Buffer
	require.NoError(t, New(&out, &diag).Write(events))

	summary := diag.String()
	assert.Contains(t, summary, "Date range: 2024-03-10 11:00:00 - 2024-03-10 11:03:00 UTC\n")
	assert.Contains(t, summary, "Total items: 4\n")
	assert.Contains(t, summary, `Categories: {"Login Page Load": 2, "Credential Submission": 1, "Post-Auth Page Load": 1}`)
	assert.Contains(t, summary, `Hosts: {"a.example.com", "b.example.com"}`)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	require.Len(t, decoded, 4)
	assert.Equal(t, "2024-03-10T11:00:00+00:00", decoded[0]["timestamp"])
	assert.Equal(t, "Login Page Load", decoded[0]["category"])

	assert.True(t, strings.HasPrefix(out.String(), "[\n  {\n    \"timestamp\""))
}

func TestWrite_WithValidator(t *testing.T) {
	v, err := schema.NewEventsValidator()
	require.NoError(t, err)

	var out, diag bytes.Buffer
	events := []types.AuthEvent{event("h", "GET", "/", types.CategoryOther, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))}
	require.NoError(t, New(&out, &diag, WithValidator(v)).Write(events))
	assert.NotEmpty(t, out.String())
}

func TestWrite_ValidatorRejectsNilCollections(t *testing.T) {
	v, err := schema.NewEventsValidator()
	require.NoError(t, err)

	e := event("h", "GET", "/", types.CategoryOther, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	e.SessionIDsSet = nil

	var out, diag bytes.Buffer
	err = New(&out, &diag, WithValidator(v)).Write([]types.AuthEvent{e})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema validation")
	assert.Empty(t, out.String())
}

func TestEncode_KeyOrderAndNulls(t *testing.T) {
	e := event("h", "GET", "/", types.CategoryOther, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	e.CookieFlags["PHPSESSID"] = types.CookieFlags{HttpOnly: true}

	data, err := Encode([]types.AuthEvent{e})
	require.NoError(t, err)
	s := string(data)

	keys := []string{"timestamp", "time", "date", "host", "method", "path", "status", "category",
		"location", "set_cookies_raw", "session_ids_set", "session_ids_sent", "cookie_flags",
		"hidden_fields", "cred_params"}
	last := -1
	for _, k := range keys {
		idx := strings.Index(s, `"`+k+`"`)
		require.GreaterOrEqual(t, idx, 0, k)
		assert.Greater(t, idx, last, k)
		last = idx
	}
	assert.Contains(t, s, `"SameSite": null`)
	assert.Contains(t, s, `"Max-Age": null`)
}

func TestEncode_DoesNotEscapeHTML(t *testing.T) {
	e := event("h", "GET", "/a?x=1&y=<2>", types.CategoryOther, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	data, err := Encode([]types.AuthEvent{e})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"/a?x=1&y=<2>"`)
}

func TestCutoff(t *testing.T) {
	var diag bytes.Buffer
	r := New(&bytes.Buffer{}, &diag)

	r.Cutoff(window.Unbounded)
	r.Cutoff(time.Date(2024, 3, 10, 11, 30, 0, 0, time.UTC))

	assert.Equal(t, "Cutoff: 0001-01-01T00:00:00+00:00\nCutoff: 2024-03-10T11:30:00+00:00\n", diag.String())
}

func TestSummary_GroupsLargeTotals(t *testing.T) {
	base := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	events := make([]types.AuthEvent, 0, 1200)
	for i := 0; i < 1200; i++ {
		events = append(events, event("h", "GET", "/", types.CategoryOther, base.Add(time.Duration(i)*time.Second)))
	}

	var diag bytes.Buffer
	New(&bytes.Buffer{}, &diag).Summary(events)
	assert.Contains(t, diag.String(), "Total items: 1,200\n")
	assert.Contains(t, diag.String(), `Categories: {"Other": 1,200}`)
}
