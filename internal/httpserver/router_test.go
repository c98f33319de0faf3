package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"marinaops/internal/app"
	"marinaops/internal/auth"
	"marinaops/internal/domain"
	"marinaops/internal/metrics"
	"marinaops/internal/repository/memory"
)

type userLookup interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type testEnv struct {
	t       *testing.T
	router  *gin.Engine
	store   *memory.Store
	users   userLookup
	tokens  *auth.Tokens
	admin   int64
	ownerA  int64
	ownerB  int64
	tech    int64
	state   int64
	country int64
}

type envelopeBody struct {
	Message     string          `json:"message"`
	Status      int             `json:"status"`
	ErrorList   []string        `json:"errorList"`
	Content     json.RawMessage `json:"content"`
	TotalSize   *int64          `json:"totalSize"`
	CurrentSize *int            `json:"currentSize"`
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := memory.New()
	hash, err := bcrypt.GenerateFromPassword([]byte("harbor-master"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	env := &testEnv{t: t, store: store, users: store.Users()}
	env.admin = store.AddUser(domain.User{Name: "Admin", Email: "admin@example.com", Role: domain.RoleAdministrator})
	env.ownerA = store.AddUser(domain.User{Name: "Alice", Email: "alice@example.com", Role: domain.RoleOwner, PasswordHash: string(hash)})
	env.ownerB = store.AddUser(domain.User{Name: "Bob", Email: "bob@example.com", Role: domain.RoleOwner})
	env.tech = store.AddUser(domain.User{Name: "Tina", Email: "tina@example.com", Role: domain.RoleTechnician, CustomerAdminID: &env.ownerA})
	env.state = store.AddState("Massachusetts", "MA")
	env.country = store.AddCountry("United States", "US")
	store.AddLookup(domain.LookupWorkOrderStatus, domain.WorkOrderStatusOpen)

	env.tokens = auth.NewTokens("test-secret", time.Hour)
	router, err := buildRouter(zerolog.Nop(), nil, Deps{
		Services: app.Wire(app.Memory(store), env.tokens, nil, nil),
		Metrics:  metrics.New(),
	})
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	env.router = router
	return env
}

func (e *testEnv) token(userID int64) string {
	e.t.Helper()
	u, err := e.users.GetByID(context.Background(), userID)
	if err != nil {
		e.t.Fatalf("load user %d: %v", userID, err)
	}
	tok, _, err := e.tokens.Issue(*u)
	if err != nil {
		e.t.Fatalf("issue token: %v", err)
	}
	return tok
}

// do sends a request as userID (0 = anonymous) and decodes the envelope.
func (e *testEnv) do(method, path string, userID int64, owner string, body string) (int, envelopeBody) {
	e.t.Helper()
	token := ""
	if userID != 0 {
		token = e.token(userID)
	}
	return e.send(method, path, token, owner, body)
}

// send is do with an explicit bearer token.
func (e *testEnv) send(method, path, token, owner, body string) (int, envelopeBody) {
	e.t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if owner != "" {
		req.Header.Set(ownerHeader, owner)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var env envelopeBody
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			e.t.Fatalf("decode %s %s: %v body=%s", method, path, err, rec.Body.String())
		}
	}
	return rec.Code, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode content: %v (%s)", err, raw)
	}
	return v
}

func TestHealthAndAuthentication(t *testing.T) {
	env := newTestEnv(t)

	if code, _ := env.do(http.MethodGet, "/healthz", 0, "", ""); code != http.StatusOK {
		t.Fatalf("healthz: expected 200, got %d", code)
	}
	if code, _ := env.do(http.MethodGet, "/readyz", 0, "", ""); code != http.StatusServiceUnavailable {
		t.Fatalf("readyz without db: expected 503, got %d", code)
	}

	code, body := env.do(http.MethodGet, "/api/v1/boatyards", 0, "", "")
	if code != http.StatusUnauthorized || body.Status != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d %+v", code, body)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/boatyards", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a bad token, got %d", rec.Code)
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected a request id header")
	}
}

func TestStaleTokenLosesRevokedRights(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	adminToken := env.token(env.admin)
	techToken := env.token(env.tech)
	if code, _ := env.send(http.MethodGet, "/api/v1/boatyards", adminToken, strconv.FormatInt(env.ownerB, 10), ""); code != http.StatusOK {
		t.Fatalf("admin before demotion: expected 200, got %d", code)
	}

	demoted, err := env.store.Users().GetByID(ctx, env.admin)
	if err != nil {
		t.Fatalf("load admin: %v", err)
	}
	demoted.Role = domain.RoleTechnician
	demoted.CustomerAdminID = &env.ownerA
	if err := env.store.Users().Update(ctx, demoted); err != nil {
		t.Fatalf("demote admin: %v", err)
	}
	if code, _ := env.send(http.MethodGet, "/api/v1/boatyards", adminToken, strconv.FormatInt(env.ownerB, 10), ""); code != http.StatusForbidden {
		t.Fatalf("demoted user with an old token: expected 403, got %d", code)
	}

	if err := env.store.Users().Delete(ctx, env.tech); err != nil {
		t.Fatalf("delete technician: %v", err)
	}
	if code, _ := env.send(http.MethodGet, "/api/v1/moorings", techToken, "", ""); code != http.StatusUnauthorized {
		t.Fatalf("deleted user with an old token: expected 401, got %d", code)
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)

	code, body := env.do(http.MethodPost, "/api/v1/auth/login", 0, "", `{"email":"ALICE@example.com","password":"harbor-master"}`)
	if code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d %+v", code, body)
	}
	session := decode[struct {
		Token string `json:"token"`
		User  struct {
			ID   int64  `json:"id"`
			Role string `json:"role"`
		} `json:"user"`
	}](t, body.Content)
	if session.Token == "" || session.User.ID != env.ownerA || session.User.Role != "OWNER" {
		t.Fatalf("unexpected session %+v", session)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("issued token should authenticate, got %d", rec.Code)
	}

	if code, _ := env.do(http.MethodPost, "/api/v1/auth/login", 0, "", `{"email":"alice@example.com","password":"wrong"}`); code != http.StatusUnauthorized {
		t.Fatalf("wrong password: expected 401, got %d", code)
	}
	if code, _ := env.do(http.MethodPost, "/api/v1/auth/login", 0, "", `{"email":"alice@example.com"}`); code != http.StatusBadRequest {
		t.Fatalf("missing password: expected 400, got %d", code)
	}
}

func TestOwnerScopeResolution(t *testing.T) {
	env := newTestEnv(t)
	cases := []struct {
		name   string
		user   int64
		header string
		want   int
	}{
		{"admin without owner is unrestricted", env.admin, "", http.StatusOK},
		{"admin with sentinel", env.admin, "-1", http.StatusOK},
		{"admin naming an owner", env.admin, strconv.FormatInt(env.ownerA, 10), http.StatusOK},
		{"owner defaults to itself", env.ownerA, "", http.StatusOK},
		{"technician defaults to its owner", env.tech, "", http.StatusOK},
		{"technician naming another owner", env.tech, strconv.FormatInt(env.ownerB, 10), http.StatusForbidden},
		{"owner naming a non-owner", env.ownerA, strconv.FormatInt(env.tech, 10), http.StatusBadRequest},
		{"unknown owner", env.admin, "9999", http.StatusNotFound},
		{"malformed header", env.ownerA, "abc", http.StatusBadRequest},
		{"owner with zero header keeps its own scope", env.ownerA, "0", http.StatusOK},
		{"technician with negative header keeps its owner", env.tech, "-7", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := env.do(http.MethodGet, "/api/v1/moorings", tc.user, tc.header, "")
			if code != tc.want {
				t.Fatalf("expected %d, got %d %+v", tc.want, code, body)
			}
			if body.Status != code {
				t.Fatalf("envelope status %d does not match %d", body.Status, code)
			}
		})
	}
}

func TestBoatyardLifecycle(t *testing.T) {
	env := newTestEnv(t)

	code, body := env.do(http.MethodPost, "/api/v1/boatyards", env.ownerA, "",
		fmt.Sprintf(`{"boatyardName":"North Yard","stateId":%d,"countryId":%d}`, env.state, env.country))
	if code != http.StatusBadRequest || len(body.ErrorList) == 0 {
		t.Fatalf("missing gps: expected 400 with errors, got %d %+v", code, body)
	}

	code, body = env.do(http.MethodPost, "/api/v1/boatyards", env.ownerA, "",
		fmt.Sprintf(`{"boatyardName":"North Yard","gpsCoordinates":"41.52 -70.67","stateId":%d,"countryId":%d}`, env.state, env.country))
	if code != http.StatusCreated {
		t.Fatalf("create boatyard: expected 201, got %d %+v", code, body)
	}
	yard := decode[struct {
		ID         int64  `json:"id"`
		BoatyardID string `json:"boatyardId"`
		State      struct {
			Code string `json:"code"`
		} `json:"state"`
	}](t, body.Content)
	if !regexp.MustCompile(`^BY\d{3}$`).MatchString(yard.BoatyardID) || yard.State.Code != "MA" {
		t.Fatalf("unexpected boatyard %+v", yard)
	}

	for _, n := range []string{"M-1", "M-2"} {
		code, body = env.do(http.MethodPost, "/api/v1/moorings", env.ownerA, "",
			fmt.Sprintf(`{"mooringNumber":%q,"boatName":"Osprey","boatyardId":%d}`, n, yard.ID))
		if code != http.StatusCreated {
			t.Fatalf("create mooring %s: got %d %+v", n, code, body)
		}
	}

	path := fmt.Sprintf("/api/v1/boatyards/%d", yard.ID)
	code, body = env.do(http.MethodGet, path, env.ownerA, "", "")
	if code != http.StatusOK {
		t.Fatalf("get boatyard: %d %+v", code, body)
	}
	got := decode[struct {
		MooringInventoried int `json:"mooringInventoried"`
	}](t, body.Content)
	if got.MooringInventoried != 2 {
		t.Fatalf("expected 2 moorings, got %d", got.MooringInventoried)
	}

	code, body = env.do(http.MethodGet, "/api/v1/boatyards?searchText="+yard.BoatyardID, env.ownerA, "", "")
	if code != http.StatusOK || body.TotalSize == nil || *body.TotalSize != 1 {
		t.Fatalf("search by business id: %d %+v", code, body)
	}
	code, body = env.do(http.MethodGet, "/api/v1/boatyards", env.ownerB, "", "")
	if code != http.StatusOK || *body.TotalSize != 0 {
		t.Fatalf("another owner should see nothing: %d %+v", code, body)
	}
	if code, _ = env.do(http.MethodGet, path, env.ownerB, "", ""); code != http.StatusForbidden {
		t.Fatalf("another owner fetching by id: expected 403, got %d", code)
	}

	code, body = env.do(http.MethodPut, path, env.ownerA, "", `{"mainContact":"Harbormaster"}`)
	if code != http.StatusOK {
		t.Fatalf("update: %d %+v", code, body)
	}
	updated := decode[struct {
		BoatyardName   string `json:"boatyardName"`
		GPSCoordinates string `json:"gpsCoordinates"`
		MainContact    string `json:"mainContact"`
	}](t, body.Content)
	if updated.BoatyardName != "North Yard" || updated.GPSCoordinates != "41.52 -70.67" || updated.MainContact != "Harbormaster" {
		t.Fatalf("omitted fields should keep their values: %+v", updated)
	}

	if code, body = env.do(http.MethodDelete, path, env.ownerA, "", ""); code != http.StatusOK {
		t.Fatalf("delete: %d %+v", code, body)
	}
	code, body = env.do(http.MethodGet, "/api/v1/moorings", env.ownerA, "", "")
	if code != http.StatusOK || *body.TotalSize != 0 {
		t.Fatalf("moorings should be deleted with the boatyard: %d %+v", code, body)
	}
	if code, _ = env.do(http.MethodGet, path, env.ownerA, "", ""); code != http.StatusNotFound {
		t.Fatalf("deleted boatyard: expected 404, got %d", code)
	}
}

func TestListPaging(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	for i := range 25 {
		c := &domain.Customer{FirstName: fmt.Sprintf("Customer %02d", i), Email: fmt.Sprintf("c%02d@example.com", i), OwnerID: env.ownerA}
		if err := env.store.Customers().Create(ctx, c); err != nil {
			t.Fatalf("seed customer: %v", err)
		}
	}
	other := &domain.Customer{FirstName: "Elsewhere", Email: "x@example.com", OwnerID: env.ownerB}
	if err := env.store.Customers().Create(ctx, other); err != nil {
		t.Fatalf("seed other: %v", err)
	}

	code, body := env.do(http.MethodGet, "/api/v1/customers?pageNumber=0&pageSize=10", env.ownerA, "", "")
	if code != http.StatusOK {
		t.Fatalf("list: %d %+v", code, body)
	}
	if *body.TotalSize != 25 || *body.CurrentSize != 10 {
		t.Fatalf("expected 10 of 25, got %d of %d", *body.CurrentSize, *body.TotalSize)
	}
	items := decode[[]struct {
		ID int64 `json:"id"`
	}](t, body.Content)
	for i := 1; i < len(items); i++ {
		if items[i-1].ID >= items[i].ID {
			t.Fatalf("expected ascending ids, got %+v", items)
		}
	}

	code, body = env.do(http.MethodGet, "/api/v1/customers?pageNumber=2&pageSize=10&sortDir=desc", env.ownerA, "", "")
	if code != http.StatusOK || *body.CurrentSize != 5 {
		t.Fatalf("last page: %d %+v", code, body)
	}
	code, body = env.do(http.MethodGet, "/api/v1/customers?pageNumber=9223372036854775807&pageSize=20", env.ownerA, "", "")
	if code != http.StatusOK || *body.CurrentSize != 0 || *body.TotalSize != 25 {
		t.Fatalf("page far past the end: %d %+v", code, body)
	}
	if code, _ = env.do(http.MethodGet, "/api/v1/customers?sortDir=sideways", env.ownerA, "", ""); code != http.StatusBadRequest {
		t.Fatalf("bad sort direction: expected 400, got %d", code)
	}
	if code, _ = env.do(http.MethodGet, "/api/v1/customers?sortBy=password", env.ownerA, "", ""); code != http.StatusBadRequest {
		t.Fatalf("unknown sort column: expected 400, got %d", code)
	}
}

func TestEstimateConversionNotifiesTechnician(t *testing.T) {
	env := newTestEnv(t)

	code, body := env.do(http.MethodPost, "/api/v1/moorings", env.ownerA, "", `{"mooringNumber":"M-9","boatName":"Tern"}`)
	if code != http.StatusCreated {
		t.Fatalf("create mooring: %d %+v", code, body)
	}
	m := decode[struct {
		ID int64 `json:"id"`
	}](t, body.Content)

	code, body = env.do(http.MethodPost, "/api/v1/estimates", env.ownerA, "",
		fmt.Sprintf(`{"mooringId":%d,"problem":"Chafed pennant","technicianId":%d}`, m.ID, env.tech))
	if code != http.StatusCreated {
		t.Fatalf("create estimate: %d %+v", code, body)
	}
	est := decode[struct {
		ID     int64  `json:"id"`
		Number string `json:"number"`
	}](t, body.Content)
	if !strings.HasPrefix(est.Number, "ES") {
		t.Fatalf("unexpected estimate number %q", est.Number)
	}

	code, body = env.do(http.MethodPost, fmt.Sprintf("/api/v1/estimates/%d/convert", est.ID), env.ownerA, "", "")
	if code != http.StatusCreated {
		t.Fatalf("convert: %d %+v", code, body)
	}
	wo := decode[struct {
		Number     string `json:"number"`
		Technician struct {
			ID int64 `json:"id"`
		} `json:"technician"`
	}](t, body.Content)
	if !regexp.MustCompile(`^WO\d{5}$`).MatchString(wo.Number) || wo.Technician.ID != env.tech {
		t.Fatalf("unexpected work order %+v", wo)
	}
	if code, body = env.do(http.MethodGet, "/api/v1/estimates", env.ownerA, "", ""); *body.TotalSize != 0 {
		t.Fatalf("estimate should be gone: %d %+v", code, body)
	}

	code, body = env.do(http.MethodGet, "/api/v1/notifications/unread-count", env.tech, "", "")
	if code != http.StatusOK {
		t.Fatalf("unread count: %d %+v", code, body)
	}
	unread := decode[struct {
		Unread int64 `json:"unread"`
	}](t, body.Content)
	if unread.Unread != 2 {
		t.Fatalf("expected a notification for the estimate and the work order, got %d", unread.Unread)
	}

	code, body = env.do(http.MethodGet, "/api/v1/notifications", env.tech, "", "")
	if code != http.StatusOK || *body.TotalSize != 2 {
		t.Fatalf("list notifications: %d %+v", code, body)
	}
	notes := decode[[]struct {
		ID        int64 `json:"id"`
		CreatedBy struct {
			ID int64 `json:"id"`
		} `json:"createdBy"`
	}](t, body.Content)
	if notes[0].CreatedBy.ID != env.ownerA {
		t.Fatalf("notification should name its sender: %+v", notes[0])
	}
	if code, _ = env.do(http.MethodPut, fmt.Sprintf("/api/v1/notifications/%d/read", notes[0].ID), env.ownerA, "", ""); code != http.StatusForbidden {
		t.Fatalf("only the recipient may mark a notification read, got %d", code)
	}
	if code, _ = env.do(http.MethodPut, fmt.Sprintf("/api/v1/notifications/%d/read", notes[0].ID), env.tech, "", ""); code != http.StatusOK {
		t.Fatalf("mark read: got %d", code)
	}
}

func TestMetadataAndMetrics(t *testing.T) {
	env := newTestEnv(t)

	code, body := env.do(http.MethodGet, "/api/v1/metadata/states", env.tech, "", "")
	if code != http.StatusOK {
		t.Fatalf("states: %d %+v", code, body)
	}
	states := decode[[]struct {
		Code string `json:"code"`
	}](t, body.Content)
	if len(states) != 1 || states[0].Code != "MA" {
		t.Fatalf("unexpected states %+v", states)
	}
	code, body = env.do(http.MethodGet, "/api/v1/metadata/work-order-statuses", env.tech, "", "")
	if code != http.StatusOK || !strings.Contains(string(body.Content), domain.WorkOrderStatusOpen) {
		t.Fatalf("work order statuses: %d %s", code, body.Content)
	}

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `path="/api/v1/metadata/states"`) {
		t.Fatalf("metrics should record routed requests: %d", rec.Code)
	}
}
