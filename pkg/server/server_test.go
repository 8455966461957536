package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japaniel/vocabreader/pkg/glossary"
	"github.com/japaniel/vocabreader/pkg/persist"
	"github.com/japaniel/vocabreader/pkg/session"
	"github.com/japaniel/vocabreader/pkg/source"
)

func newTestServer(t *testing.T) (*httptest.Server, *persist.FileStore) {
	t.Helper()
	ix, err := glossary.NewIndex([]glossary.Entry{
		{Word: "Buddenbrooks", DefinitionGerman: "Familienname", DefinitionEnglish: "family name"},
		{Word: "family", DefinitionGerman: "Familie", DefinitionEnglish: "<family>"},
	})
	require.NoError(t, err)
	store := persist.NewFileStore(filepath.Join(t.TempDir(), "saved.json"))
	m := session.NewManager(session.Config{
		Document: source.Document{Path: "/books/budd.txt", Title: "Buddenbrooks", Text: "The Buddenbrooks family lived well."},
		Index:    ix,
		PageSize: 4,
		Bridge:   persist.NewBridge(store, nil),
	})
	srv := httptest.NewServer(New(m, nil))
	t.Cleanup(srv.Close)
	return srv, store
}

func do(t *testing.T, method, url, body string, out interface{}) int {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestPage(t *testing.T) {
	srv, _ := newTestServer(t)
	var view session.PageView
	code := do(t, http.MethodGet, srv.URL+"/api/page?user=anna", "", &view)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "anna", view.User)
	assert.Equal(t, 2, view.Pages)
	require.Len(t, view.Instructions, 4)
	assert.True(t, view.Instructions[1].IsAnnotated())
	assert.True(t, view.HasNext)
}

func TestPageRequiresUser(t *testing.T) {
	srv, _ := newTestServer(t)
	var body map[string]string
	code := do(t, http.MethodGet, srv.URL+"/api/page", "", &body)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "user is required", body["error"])
}

func TestNav(t *testing.T) {
	srv, _ := newTestServer(t)
	var view session.PageView
	assert.Equal(t, http.StatusOK, do(t, http.MethodPost, srv.URL+"/api/nav", `{"user":"anna","dir":"next"}`, &view))
	assert.Equal(t, 1, view.Page)
	assert.Equal(t, 4, view.Start)
	assert.Equal(t, http.StatusOK, do(t, http.MethodPost, srv.URL+"/api/nav", `{"user":"anna","dir":"next"}`, &view))
	assert.Equal(t, 1, view.Page)
	assert.Equal(t, http.StatusOK, do(t, http.MethodPost, srv.URL+"/api/nav", `{"user":"anna","dir":"goto","page":0}`, &view))
	assert.Equal(t, 0, view.Page)

	var body map[string]string
	assert.Equal(t, http.StatusBadRequest, do(t, http.MethodPost, srv.URL+"/api/nav", `{"user":"anna","dir":"sideways"}`, &body))
	assert.Equal(t, http.StatusBadRequest, do(t, http.MethodPost, srv.URL+"/api/nav", `not json`, &body))
}

type clickResult struct {
	Key        string               `json:"key"`
	Saved      bool                 `json:"saved"`
	Corrected  bool                 `json:"corrected"`
	Error      string               `json:"error"`
	SavedWords []session.SavedEntry `json:"saved_words"`
}

func TestClickSavesAndPersists(t *testing.T) {
	srv, store := newTestServer(t)
	var res clickResult
	code := do(t, http.MethodPost, srv.URL+"/api/click", `{"user":"anna","key":"family","saved":true}`, &res)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, res.Saved)
	assert.False(t, res.Corrected)
	require.Len(t, res.SavedWords, 1)
	assert.Equal(t, "<family>", res.SavedWords[0].DefinitionEnglish)

	keys, err := store.Load(context.Background(), "anna")
	require.NoError(t, err)
	assert.Equal(t, []string{"family"}, keys)

	// A double click posts "+family" again.
	code = do(t, http.MethodPost, srv.URL+"/api/click", `{"user":"anna","payload":"+family"}`, &res)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, res.Saved)
	assert.False(t, res.Corrected)

	keys, err = store.Load(context.Background(), "anna")
	require.NoError(t, err)
	assert.Equal(t, []string{"family"}, keys)
}

func TestClickUnknownKey(t *testing.T) {
	srv, _ := newTestServer(t)
	do(t, http.MethodPost, srv.URL+"/api/click", `{"user":"anna","key":"family"}`, nil)

	var res clickResult
	code := do(t, http.MethodPost, srv.URL+"/api/click", `{"user":"anna","key":"xyzzy","saved":true}`, &res)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.NotEmpty(t, res.Error)
	assert.False(t, res.Saved)
	require.Len(t, res.SavedWords, 1)
	assert.Equal(t, "family", res.SavedWords[0].Key)
}

func TestClickRequiresKey(t *testing.T) {
	srv, _ := newTestServer(t)
	var body map[string]string
	assert.Equal(t, http.StatusBadRequest, do(t, http.MethodPost, srv.URL+"/api/click", `{"user":"anna"}`, &body))
}

func TestSavedListRemoveClear(t *testing.T) {
	srv, _ := newTestServer(t)
	do(t, http.MethodPost, srv.URL+"/api/click", `{"user":"anna","key":"family"}`, nil)
	do(t, http.MethodPost, srv.URL+"/api/click", `{"user":"anna","key":"buddenbrooks"}`, nil)

	var list struct {
		User  string               `json:"user"`
		Words []session.SavedEntry `json:"words"`
	}
	assert.Equal(t, http.StatusOK, do(t, http.MethodGet, srv.URL+"/api/saved?user=anna", "", &list))
	require.Len(t, list.Words, 2)
	assert.Equal(t, "buddenbrooks", list.Words[0].Key)

	assert.Equal(t, http.StatusOK, do(t, http.MethodDelete, srv.URL+"/api/saved/family?user=anna", "", &list))
	require.Len(t, list.Words, 1)

	assert.Equal(t, http.StatusOK, do(t, http.MethodDelete, srv.URL+"/api/saved?user=anna", "", &list))
	assert.Empty(t, list.Words)

	// other readers are untouched
	assert.Equal(t, http.StatusOK, do(t, http.MethodGet, srv.URL+"/api/saved?user=bert", "", &list))
	assert.Empty(t, list.Words)
}

func TestCSV(t *testing.T) {
	srv, _ := newTestServer(t)
	do(t, http.MethodPost, srv.URL+"/api/click", `{"user":"anna","key":"family"}`, nil)
	resp, err := http.Get(srv.URL + "/api/saved.csv?user=anna")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, string(body), "family,Familie,<family>")
}

func TestIndexEscapesDefinitions(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/?user=anna")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	html := string(body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, html, `data-key="buddenbrooks"`)
	assert.Contains(t, html, `title="&lt;family&gt;"`)
	assert.NotContains(t, html, `title="<family>"`)

	resp2, err := http.Get(srv.URL + "/?user=anna&page=x")
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp2.StatusCode)
}
