package Controllers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/reservation-app/config"
	"github.com/yeremiapane/reservation-app/identity"
	"github.com/yeremiapane/reservation-app/middlewares"
	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/router"
	"github.com/yeremiapane/reservation-app/utils"
	"golang.org/x/oauth2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var host = identity.Principal{ID: "oid-host", DisplayName: "Front Desk", Email: "frontdesk@example.com"}

// stubProvider stands in for the Microsoft endpoints.
type stubProvider struct {
	principal identity.Principal
	err       error
}

func (s stubProvider) AuthCodeURL(state string) string {
	return "https://login.example.test/authorize?state=" + url.QueryEscape(state)
}

func (s stubProvider) Exchange(context.Context, string) (*oauth2.Token, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &oauth2.Token{AccessToken: "stub"}, nil
}

func (s stubProvider) FetchProfile(context.Context, *oauth2.Token) (identity.Principal, error) {
	return s.principal, nil
}

type testApp struct {
	DB      *gorm.DB
	Auth    *identity.Manager
	Router  *gin.Engine
	Session *http.Cookie
}

// setupApp menggunakan SQLite in-memory, satu database per test
func setupApp(t *testing.T, provider identity.Provider) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.InitLogger("error")

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Reservation{}))

	auth := identity.NewManager(provider, []byte("controller-test-secret"), time.Hour)
	token, _, err := auth.IssueSession(host)
	require.NoError(t, err)

	cfg := &config.Config{RateLimit: 1000}
	return &testApp{
		DB:      db,
		Auth:    auth,
		Router:  router.SetupRouter(db, auth, cfg),
		Session: &http.Cookie{Name: middlewares.SessionCookie, Value: token},
	}
}

func (a *testApp) do(req *http.Request, signedIn bool) *httptest.ResponseRecorder {
	if signedIn {
		req.AddCookie(a.Session)
	}
	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	return w
}

func (a *testApp) get(path string, signedIn bool) *httptest.ResponseRecorder {
	return a.do(httptest.NewRequest(http.MethodGet, path, nil), signedIn)
}

func (a *testApp) postForm(path string, form url.Values, signedIn bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(req, signedIn)
}

func (a *testApp) postJSON(path, body string, signedIn bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return a.do(req, signedIn)
}

func validForm() url.Values {
	return url.Values{
		"customerName":    {"Lisa Moore"},
		"phone":           {"(555) 890-1234"},
		"reservationDate": {"2024-06-02"},
		"reservationTime": {"20:00"},
		"partySize":       {"2"},
		"specialRequests": {"Quiet table for business discussion"},
	}
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func httptestGet(path string) *http.Request {
	return httptest.NewRequest(http.MethodGet, path, nil)
}
