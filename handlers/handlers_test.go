package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"roxtor-ops/access"
	"roxtor-ops/app"
	"roxtor-ops/database"
	"roxtor-ops/logging"
	"roxtor-ops/middleware"
	"roxtor-ops/models"
	"roxtor-ops/radar"
)

func TestMain(m *testing.M) {
	access.HashCost = bcrypt.MinCost
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// Tokens are validated against the wall clock, so the fake clock stays close to it.
var clock = time.Now().UTC()

type fakeAI struct {
	lead     radar.Extraction
	rate     float64
	audio    []byte
	speakErr error
}

func (f *fakeAI) ExtractLead(context.Context, radar.LeadRequest) (radar.Extraction, error) {
	return f.lead, nil
}

func (f *fakeAI) Speak(context.Context, string, models.AITone) ([]byte, error) {
	return f.audio, f.speakErr
}

func (f *fakeAI) FetchRate(context.Context) (float64, error) { return f.rate, nil }

func (f *fakeAI) ExtractProducts(context.Context, radar.Document) ([]models.Product, error) {
	return []models.Product{{Name: "Franela", Price: 8}}, nil
}

type server struct {
	t        *testing.T
	router   *gin.Engine
	ctrl     *app.Controller
	store    *database.MemoryStore
	sessions *middleware.Sessions
}

func newServer(t *testing.T, ports app.Ports) *server {
	t.Helper()
	store := database.NewMemoryStore()
	n := 0
	ctrl := app.New(store, logging.Discard(),
		app.WithClock(func() time.Time { return clock }),
		app.WithIDs(func() string { n++; return fmt.Sprintf("id-%d", n) }),
		app.WithPorts(ports),
	)
	require.NoError(t, ctrl.Load(context.Background()))

	sessions := middleware.NewSessions("secret", time.Hour, false)
	h := NewHandler(ctrl, sessions, logging.Discard())
	h.now = func() time.Time { return clock }
	r := gin.New()
	r.Use(sessions.Authenticate())
	h.Register(r)
	return &server{t: t, router: r, ctrl: ctrl, store: store, sessions: sessions}
}

func (s *server) token(sess access.Session) string {
	s.t.Helper()
	token, _, err := s.sessions.Issue(sess, time.Now())
	require.NoError(s.t, err)
	return token
}

func (s *server) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// newMultipart writes a form with a single "file" part and returns its
// content type.
func newMultipart(t *testing.T, body *bytes.Buffer, name string, data []byte) string {
	t.Helper()
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return mw.FormDataContentType()
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type orderResponse struct {
	ID                 string             `json:"id"`
	OrderNumber        string             `json:"orderNumber"`
	Status             models.OrderStatus `json:"status"`
	PaidAmountUSD      float64            `json:"paidAmountUSD"`
	RemainingAmountUSD float64            `json:"remainingAmountUSD"`
	AssignedToID       string             `json:"assignedToId"`
	Urgency            struct {
		Label string `json:"label"`
	} `json:"urgency"`
}

func sampleDraft(assignee string) gin.H {
	return gin.H{
		"clientName":   "Ana",
		"clientPhone":  "+58 414 1234567",
		"deliveryDate": clock.AddDate(0, 0, 2).Format(time.DateOnly),
		"storeId":      "1",
		"assignedToId": assignee,
		"items":        []gin.H{{"name": "Franela", "price": 10, "quantity": 2}},
		"initialPayment": gin.H{
			"amountUSD": 5,
			"method":    models.PaymentCashUSD,
		},
	}
}

func TestUnlockFlow(t *testing.T) {
	s := newServer(t, app.Ports{})

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/live", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/orders", "", nil).Code)

	w := s.do(http.MethodPost, "/unlock", "", gin.H{"pin": "0000"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/unlock", "", gin.H{"pin": "1234"})
	require.Equal(t, http.StatusOK, w.Code)
	unlocked := decode[struct {
		Token string `json:"token"`
		Tier  string `json:"tier"`
	}](t, w)
	assert.Equal(t, "general", unlocked.Tier)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "token=")

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/orders", unlocked.Token, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/reports", unlocked.Token, nil).Code)

	w = s.do(http.MethodPost, "/unlock/master", unlocked.Token, gin.H{"pin": "2025"})
	require.Equal(t, http.StatusOK, w.Code)
	master := decode[struct {
		Token string `json:"token"`
		Tier  string `json:"tier"`
	}](t, w)
	assert.Equal(t, "management", master.Tier)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/reports", master.Token, nil).Code)

	w = s.do(http.MethodGet, "/auth/me", master.Token, nil)
	me := decode[struct {
		Tabs []access.Tab `json:"tabs"`
	}](t, w)
	assert.Contains(t, me.Tabs, access.TabSettings)

	w = s.do(http.MethodPost, "/lock", master.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/reports", master.Token, nil).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/orders", unlocked.Token, nil).Code)
}

func TestOrderLifecycle(t *testing.T) {
	s := newServer(t, app.Ports{})
	token := s.token(access.Session{Tier: access.General})

	w := s.do(http.MethodPost, "/orders", token, gin.H{"clientName": "Ana"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/orders", token, sampleDraft("t1"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[orderResponse](t, w)
	assert.Equal(t, "P-1001", created.OrderNumber)
	assert.Equal(t, models.StatusPending, created.Status)
	assert.InDelta(t, 15, created.RemainingAmountUSD, 0.001)
	assert.Equal(t, "QUEDAN 2 DÍAS", created.Urgency.Label)

	path := "/orders/" + created.ID
	w = s.do(http.MethodPost, path+"/payments", token, gin.H{"amountUSD": 0, "method": models.PaymentMobile})
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[struct {
		Applied bool `json:"applied"`
	}](t, w).Applied)

	w = s.do(http.MethodPost, path+"/payments", token, gin.H{"amountUSD": 15, "method": "bitcoin"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, path+"/payments", token, gin.H{"amountUSD": 15, "method": models.PaymentMobile, "reference": "0042"})
	require.Equal(t, http.StatusOK, w.Code)
	paid := decode[struct {
		Applied bool          `json:"applied"`
		Order   orderResponse `json:"order"`
	}](t, w)
	assert.True(t, paid.Applied)
	assert.InDelta(t, 20, paid.Order.PaidAmountUSD, 0.001)
	assert.InDelta(t, 0, paid.Order.RemainingAmountUSD, 0.001)

	w = s.do(http.MethodPut, path+"/status", token, gin.H{"status": models.StatusDelivered})
	assert.Equal(t, http.StatusConflict, w.Code)
	w = s.do(http.MethodPut, path+"/status", token, gin.H{"status": "archivada"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(http.MethodPut, path+"/status", token, gin.H{})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.StatusInProcess, decode[orderResponse](t, w).Status)

	w = s.do(http.MethodPut, path+"/assignee", token, gin.H{"staffId": "t2"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "t2", decode[orderResponse](t, w).AssignedToID)
	w = s.do(http.MethodPut, path+"/assignee", token, gin.H{"staffId": "nobody"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, path+"/document", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "P-1001")

	w = s.do(http.MethodGet, path+"/share", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(decode[struct {
		URL string `json:"url"`
	}](t, w).URL, "https://wa.me/584141234567?text="))

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/orders/missing", token, nil).Code)

	w = s.do(http.MethodGet, "/orders?q=ana", token, nil)
	assert.Len(t, decode[[]orderResponse](t, w), 1)
}

func TestStaffSessionIsScoped(t *testing.T) {
	s := newServer(t, app.Ports{})
	general := s.token(access.Session{Tier: access.General})
	w := s.do(http.MethodPost, "/orders", general, sampleDraft("t2"))
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode[orderResponse](t, w).ID

	w = s.do(http.MethodPost, "/login/staff", "", gin.H{"staffId": "t1"})
	require.Equal(t, http.StatusOK, w.Code)
	staff := decode[struct {
		Token   string `json:"token"`
		StaffID string `json:"staffId"`
	}](t, w)
	assert.Equal(t, "t1", staff.StaffID)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPost, "/login/staff", "", gin.H{"staffId": "t9"}).Code)

	assert.Empty(t, decode[[]orderResponse](t, s.do(http.MethodGet, "/orders", staff.Token, nil)))
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/orders/"+id, staff.Token, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPost, "/orders/"+id+"/payments", staff.Token, gin.H{"amountUSD": 1, "method": models.PaymentMobile}).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/catalog", staff.Token, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/staff/t2/history", staff.Token, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPost, "/staff", staff.Token, gin.H{"name": "Luis"}).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/staff/t1/history", staff.Token, nil).Code)

	w = s.do(http.MethodPut, "/orders/"+id+"/assignee", general, gin.H{"staffId": "t1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]orderResponse](t, s.do(http.MethodGet, "/orders", staff.Token, nil)), 1)

	// The access PIN lifts the staff restriction.
	w = s.do(http.MethodPost, "/unlock", staff.Token, gin.H{"pin": "1234"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[struct {
		StaffID string `json:"staffId"`
	}](t, w).StaffID)
}

func TestStaffRoster(t *testing.T) {
	s := newServer(t, app.Ports{})
	token := s.token(access.Session{Tier: access.General})

	w := s.do(http.MethodPost, "/staff", token, gin.H{"name": "Luis", "role": models.RoleWorkshop})
	require.Equal(t, http.StatusCreated, w.Code)
	added := decode[models.Staff](t, w)
	assert.Equal(t, models.RoleWorkshop, added.Role)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/staff", token, gin.H{"name": "Luis", "role": "piloto"}).Code)
	assert.Len(t, decode[[]models.Staff](t, s.do(http.MethodGet, "/staff", token, nil)), 3)

	assert.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/staff/"+added.ID, token, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, "/staff/"+added.ID, token, nil).Code)
}

func TestSettingsNeverExposePINs(t *testing.T) {
	s := newServer(t, app.Ports{})
	token := s.token(access.Session{Tier: access.General})

	w := s.do(http.MethodGet, "/settings", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "$2a$")
	assert.NotContains(t, w.Body.String(), "2025\"")

	master := s.token(access.Session{Tier: access.Management})
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPut, "/settings/pins", token, gin.H{"accessPin": "9999"}).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPut, "/settings/pins", master, gin.H{}).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodPut, "/settings/pins", master, gin.H{"accessPin": "9999"}).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/unlock", "", gin.H{"pin": "1234"}).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodPost, "/unlock", "", gin.H{"pin": "9999"}).Code)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPut, "/settings/tone", master, gin.H{"tone": "grosero"}).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodPut, "/settings/tone", master, gin.H{"tone": models.ToneCasual}).Code)

	w = s.do(http.MethodPost, "/settings/branches", master, gin.H{"name": "Roxtor Sur", "whatsappId": "S", "lastOrderNumber": 500})
	require.Equal(t, http.StatusCreated, w.Code)
	branch := decode[models.StoreInfo](t, w)
	assert.Equal(t, 500, branch.LastOrderNumber)

	w = s.do(http.MethodPut, "/settings/branches/"+branch.ID, master, gin.H{"name": "Roxtor Sur 2", "whatsappId": "S", "lastOrderNumber": 1})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 500, decode[models.StoreInfo](t, w).LastOrderNumber)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPut, "/settings/branches/nope", master, gin.H{"whatsappId": "X"}).Code)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPut, "/settings/company", master, gin.H{"companyName": " "}).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodPut, "/settings/company", master, gin.H{"companyName": "ROXTOR"}).Code)
}

func TestExchangeRate(t *testing.T) {
	ai := &fakeAI{rate: 5}
	s := newServer(t, app.Ports{Rates: ai})
	token := s.token(access.Session{Tier: access.General})

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPut, "/rate", token, gin.H{"rate": -3}).Code)
	w := s.do(http.MethodPut, "/rate", token, gin.H{"rate": 40.5})
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, http.StatusBadGateway, s.do(http.MethodPost, "/rate/refresh", token, nil).Code)
	assert.Equal(t, 40.5, s.ctrl.Settings().CurrentBcvRate)

	ai.rate = 52.1
	w = s.do(http.MethodPost, "/rate/refresh", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 52.1, decode[struct {
		Rate float64 `json:"rate"`
	}](t, w).Rate)
}

func TestCatalogAndStock(t *testing.T) {
	s := newServer(t, app.Ports{Catalog: &fakeAI{}})
	token := s.token(access.Session{Tier: access.General})
	master := s.token(access.Session{Tier: access.Management})

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/catalog", token, gin.H{"name": "Gorra", "price": -1}).Code)
	w := s.do(http.MethodPost, "/catalog", token, gin.H{"name": "Gorra", "price": 6})
	require.Equal(t, http.StatusCreated, w.Code)
	p := decode[models.Product](t, w)
	assert.Equal(t, models.DefaultDeliveryTime, p.DeliveryTime)

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPut, "/stock/"+p.ID, token, gin.H{"inventory": 4}).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPut, "/stock/"+p.ID, master, gin.H{}).Code)
	w = s.do(http.MethodPut, "/stock/"+p.ID, master, gin.H{"inventory": 4})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 4, decode[models.Product](t, w).Inventory)

	// Catalog edits from the general tier never touch stock.
	w = s.do(http.MethodPut, "/catalog/"+p.ID, token, gin.H{"name": "Gorra", "price": 7, "inventory": 999})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 4, decode[models.Product](t, w).Inventory)
	assert.Equal(t, 4, s.ctrl.Products()[0].Inventory)
	assert.Equal(t, 7.0, s.ctrl.Products()[0].Price)

	var body bytes.Buffer
	mp := newMultipart(t, &body, "catalogo.png", []byte("\x89PNG\r\n\x1a\nrest"))
	req := httptest.NewRequest(http.MethodPost, "/catalog/import", &body)
	req.Header.Set("Content-Type", mp)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, decode[struct {
		Count int `json:"count"`
	}](t, rec).Count)
	assert.Len(t, s.ctrl.Products(), 2)

	assert.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/catalog/"+p.ID, token, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, "/catalog/"+p.ID, token, nil).Code)
}

func TestLeads(t *testing.T) {
	ai := &fakeAI{
		lead:  radar.Extraction{ClientName: "Pedro", Status: models.LeadHot, SuggestedAction: "Envíale la cotización"},
		audio: []byte("RIFF"),
	}
	s := newServer(t, app.Ports{Extractor: ai, Speaker: ai})
	token := s.token(access.Session{Tier: access.General})

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/leads", token, gin.H{"text": "hi"}).Code)
	w := s.do(http.MethodPost, "/leads", token, gin.H{"text": "Hola, quiero 20 franelas", "source": "1"})
	require.Equal(t, http.StatusCreated, w.Code)
	lead := decode[models.Lead](t, w)
	assert.Equal(t, "Pedro", lead.ClientName)

	w = s.do(http.MethodPost, "/leads/"+lead.ID+"/speak", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "audio/wav", w.Header().Get("Content-Type"))

	ai.speakErr = errors.New("quota exceeded")
	assert.Equal(t, http.StatusNoContent, s.do(http.MethodPost, "/leads/"+lead.ID+"/speak", token, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPost, "/leads/missing/speak", token, nil).Code)

	assert.Len(t, decode[[]models.Lead](t, s.do(http.MethodGet, "/leads", token, nil)), 1)
	assert.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/leads/"+lead.ID, token, nil).Code)
	assert.Empty(t, decode[[]models.Lead](t, s.do(http.MethodGet, "/leads", token, nil)))
}

func TestAIDisabled(t *testing.T) {
	s := newServer(t, app.Ports{})
	token := s.token(access.Session{Tier: access.General})

	assert.Equal(t, http.StatusServiceUnavailable, s.do(http.MethodPost, "/leads", token, gin.H{"text": "Hola, quiero 20 franelas"}).Code)
	assert.Equal(t, http.StatusServiceUnavailable, s.do(http.MethodPost, "/rate/refresh", token, nil).Code)
}

func TestReports(t *testing.T) {
	s := newServer(t, app.Ports{})
	master := s.token(access.Session{Tier: access.Management})
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/orders", master, sampleDraft("t1")).Code)

	w := s.do(http.MethodGet, "/reports", master, nil)
	require.Equal(t, http.StatusOK, w.Code)
	report := decode[struct {
		OrderCount    int     `json:"orderCount"`
		GrossUSD      float64 `json:"grossUSD"`
		ReceivableUSD float64 `json:"receivableUSD"`
	}](t, w)
	assert.Equal(t, 1, report.OrderCount)
	assert.InDelta(t, 20, report.GrossUSD, 0.001)
	assert.InDelta(t, 15, report.ReceivableUSD, 0.001)

	w = s.do(http.MethodGet, "/reports/document", master, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "</html>")

	w = s.do(http.MethodGet, "/reports/share?phone=0414-1112233", master, nil)
	assert.Contains(t, w.Body.String(), "https://wa.me/04141112233?text=")

	w = s.do(http.MethodGet, "/reports/xlsx", master, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxMIME, w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))
}

func TestBackup(t *testing.T) {
	s := newServer(t, app.Ports{})
	master := s.token(access.Session{Tier: access.Management})
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/orders", master, sampleDraft("t1")).Code)

	w := s.do(http.MethodGet, "/backup", master, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "ROXTOR_BACKUP_")
	exported := w.Body.Bytes()

	w = s.do(http.MethodGet, "/backup/orders.csv", master, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "P-1001")

	w = s.do(http.MethodGet, "/backup/blob", master, nil)
	require.Equal(t, http.StatusOK, w.Code)
	blob := decode[struct {
		Blob string `json:"blob"`
	}](t, w).Blob
	assert.NotEmpty(t, blob)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/backup/blob", master, gin.H{"blob": "%%%"}).Code)

	req := httptest.NewRequest(http.MethodPost, "/backup", strings.NewReader(`{"orders": []}`))
	req.Header.Set("Authorization", "Bearer "+master)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, s.ctrl.Orders(app.OrderFilter{}), 1)

	fresh := newServer(t, app.Ports{})
	freshMaster := fresh.token(access.Session{Tier: access.Management})
	req = httptest.NewRequest(http.MethodPost, "/backup", bytes.NewReader(exported))
	req.Header.Set("Authorization", "Bearer "+freshMaster)
	rec = httptest.NewRecorder()
	fresh.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, fresh.ctrl.Orders(app.OrderFilter{}), 1)

	w = fresh.do(http.MethodPost, "/backup/blob", freshMaster, gin.H{"blob": blob})
	require.Equal(t, http.StatusOK, w.Code)
	orders := fresh.ctrl.Orders(app.OrderFilter{})
	require.Len(t, orders, 1)
	assert.Equal(t, "P-1001", orders[0].OrderNumber)
	assert.Equal(t, 1001, fresh.ctrl.Settings().Stores[0].LastOrderNumber)
}

func TestStoreFailureIs500(t *testing.T) {
	s := newServer(t, app.Ports{})
	token := s.token(access.Session{Tier: access.General})
	s.store.FailSaves(database.KeyOrders, errors.New("disk full"))

	w := s.do(http.MethodPost, "/orders", token, sampleDraft("t1"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, s.ctrl.Orders(app.OrderFilter{}))
	assert.Equal(t, 1000, s.ctrl.Settings().Stores[0].LastOrderNumber)
}
