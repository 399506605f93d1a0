package web

import (
	"bytes"
	"context"
	"html"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var csrfField = regexp.MustCompile(`name="csrfmiddlewaretoken" value="([^"]+)"`)

func setupCSRFApp(t *testing.T) *testApp {
	t.Helper()
	return setupApp(t, WithCSRF(bytes.Repeat([]byte("k"), 32), false))
}

// session fetches path and returns the form token with the cookies it was
// issued under
func (a *testApp) session(t *testing.T, path string) (string, []*http.Cookie) {
	t.Helper()
	rec := a.get(path)
	require.Equal(t, http.StatusOK, rec.Code)

	match := csrfField.FindStringSubmatch(rec.Body.String())
	require.Len(t, match, 2, "%s should carry a csrf token", path)
	return html.UnescapeString(match[1]), rec.Result().Cookies()
}

func (a *testApp) submit(path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	a.mux.ServeHTTP(rec, req)
	return rec
}

func TestCSRF_FormsCarryToken(t *testing.T) {
	app := setupCSRFApp(t)
	task := app.createTask(t, "First task", "")

	for _, path := range []string{"/new/", taskPath(task.ID, "update/"), taskPath(task.ID, "")} {
		t.Run(path, func(t *testing.T) {
			token, cookies := app.session(t, path)
			assert.NotEmpty(t, token)

			var names []string
			for _, cookie := range cookies {
				names = append(names, cookie.Name)
			}
			assert.Contains(t, names, CSRFCookieName)
		})
	}
}

func TestCSRF_NoTokenWithoutProtection(t *testing.T) {
	app := setupApp(t)
	assert.NotContains(t, app.get("/new/").Body.String(), CSRFFieldName)
}

func TestCSRF_RejectsSubmissionWithoutToken(t *testing.T) {
	app := setupCSRFApp(t)
	task := app.createTask(t, "First task", "")

	rec := app.post("/new/", url.Values{"title": {"Sneaky"}})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "CSRF verification failed.")

	rec = app.post(taskPath(task.ID, "update/"), url.Values{"title": {"Sneaky"}})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.post(taskPath(task.ID, "delete/"), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	stored, err := app.repo.GetTask(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, "First task", stored.Title)
	assert.Equal(t, 1, app.count(t))
}

func TestCSRF_RejectsCookieWithoutToken(t *testing.T) {
	app := setupCSRFApp(t)
	_, cookies := app.session(t, "/new/")

	rec := app.submit("/new/", url.Values{"title": {"No token"}}, cookies)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, 0, app.count(t))
}

func TestCSRF_RejectsTokenFromAnotherSession(t *testing.T) {
	app := setupCSRFApp(t)
	token, _ := app.session(t, "/new/")
	_, otherCookies := app.session(t, "/new/")

	form := url.Values{"title": {"Mixed"}, CSRFFieldName: {token}}
	rec := app.submit("/new/", form, otherCookies)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, 0, app.count(t))
}

func TestCSRF_AcceptsValidToken(t *testing.T) {
	app := setupCSRFApp(t)

	token, cookies := app.session(t, "/new/")
	rec := app.submit("/new/", url.Values{"title": {"First task"}, CSRFFieldName: {token}}, cookies)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	tasks, err := app.repo.ListTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	id := tasks[0].ID

	token, cookies = app.session(t, taskPath(id, "update/"))
	rec = app.submit(taskPath(id, "update/"), url.Values{"title": {"Renamed"}, CSRFFieldName: {token}}, cookies)
	require.Equal(t, http.StatusFound, rec.Code)

	token, cookies = app.session(t, taskPath(id, ""))
	rec = app.submit(taskPath(id, "delete/"), url.Values{CSRFFieldName: {token}}, cookies)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, 0, app.count(t))
}

func TestCSRF_KeepsMethodNotAllowed(t *testing.T) {
	app := setupCSRFApp(t)
	task := app.createTask(t, "First task", "")

	assert.Equal(t, http.StatusMethodNotAllowed, app.post("/", nil).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, app.post(taskPath(task.ID, ""), nil).Code)
	assert.Equal(t, http.StatusOK, app.get("/healthz").Code)
}

func TestCSRF_RecordsRejection(t *testing.T) {
	app := setupCSRFApp(t)
	require.Equal(t, http.StatusForbidden, app.post("/new/", url.Values{"title": {"x"}}).Code)

	rec := httptest.NewRecorder()
	app.metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, `tasks_errors_total{route="/new/",type="csrf"} 1`)
	assert.Contains(t, body, `tasks_http_requests_total{method="POST",route="/new/",status="403"} 1`)
}
