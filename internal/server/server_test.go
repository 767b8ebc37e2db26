package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/lionnelpat/svs-backend-sub002/internal/actorctx"
	authdomain "github.com/lionnelpat/svs-backend-sub002/internal/auth/domain"
	"github.com/lionnelpat/svs-backend-sub002/internal/auth/session"
	"github.com/lionnelpat/svs-backend-sub002/internal/authorization"
	companydomain "github.com/lionnelpat/svs-backend-sub002/internal/company/domain"
	"github.com/lionnelpat/svs-backend-sub002/internal/config"
	expensedomain "github.com/lionnelpat/svs-backend-sub002/internal/expense/domain"
	"github.com/lionnelpat/svs-backend-sub002/internal/observability"
	userdomain "github.com/lionnelpat/svs-backend-sub002/internal/user/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthService struct {
	loginCalls  int
	logoutCalls int
	user        userdomain.User
	authErr     error
}

func (f *fakeAuthService) Login(ctx context.Context, req authdomain.LoginRequest) (*authdomain.LoginResult, error) {
	f.loginCalls++
	_ = ctx
	if req.Password != "secret" {
		return nil, authdomain.ErrInvalidCredentials
	}
	return &authdomain.LoginResult{
		User:      f.user,
		SessionID: snowflake.ID(300),
		RawToken:  "session-token",
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

func (f *fakeAuthService) Logout(ctx context.Context, rawToken string) error {
	f.logoutCalls++
	_ = ctx
	_ = rawToken
	return nil
}

func (f *fakeAuthService) Authenticate(ctx context.Context, rawToken string) (userdomain.User, error) {
	_ = ctx
	_ = rawToken
	if f.authErr != nil {
		return userdomain.User{}, f.authErr
	}
	return f.user, nil
}

type fakeAuthzService struct {
	deny bool
}

func (f *fakeAuthzService) Authorize(ctx context.Context, actor actorctx.Actor, object, action string) error {
	_ = ctx
	_ = actor
	_ = object
	_ = action
	if f.deny {
		return authorization.ErrForbidden
	}
	return nil
}

func allowAll() authorization.Service { return &fakeAuthzService{} }

func denyAll() authorization.Service { return &fakeAuthzService{deny: true} }

// recordingAuthz captures the actions handlers ask for, optionally
// denying some of them.
type recordingAuthz struct {
	actions []string
	allow   func(action string) bool
}

func (r *recordingAuthz) Authorize(ctx context.Context, actor actorctx.Actor, object, action string) error {
	_ = ctx
	_ = actor
	_ = object
	r.actions = append(r.actions, action)
	if r.allow != nil && !r.allow(action) {
		return authorization.ErrForbidden
	}
	return nil
}

type fakeExpenseService struct {
	transitionCalls int
	lastTarget      expensedomain.ExpenseStatus
}

func (f *fakeExpenseService) Create(ctx context.Context, req expensedomain.CreateExpenseRequest) (expensedomain.Expense, error) {
	_ = ctx
	_ = req
	return expensedomain.Expense{}, nil
}

func (f *fakeExpenseService) Update(ctx context.Context, req expensedomain.UpdateExpenseRequest) (expensedomain.Expense, error) {
	_ = ctx
	_ = req
	return expensedomain.Expense{}, nil
}

func (f *fakeExpenseService) GetByID(ctx context.Context, id string) (expensedomain.Expense, error) {
	_ = ctx
	_ = id
	return expensedomain.Expense{}, nil
}

func (f *fakeExpenseService) List(ctx context.Context, req expensedomain.ListExpenseRequest) (expensedomain.ListExpenseResponse, error) {
	_ = ctx
	_ = req
	return expensedomain.ListExpenseResponse{}, nil
}

func (f *fakeExpenseService) Transition(ctx context.Context, req expensedomain.TransitionExpenseRequest) (expensedomain.Expense, error) {
	_ = ctx
	f.transitionCalls++
	f.lastTarget = req.Target
	return expensedomain.Expense{Status: req.Target}, nil
}

func (f *fakeExpenseService) SetActive(ctx context.Context, id string, active bool) (expensedomain.Expense, error) {
	_ = ctx
	_ = id
	_ = active
	return expensedomain.Expense{}, nil
}

type fakeCompanyService struct {
	getErr    error
	createErr error
}

func (f *fakeCompanyService) Create(ctx context.Context, req companydomain.CreateCompanyRequest) (companydomain.Company, error) {
	_ = ctx
	if f.createErr != nil {
		return companydomain.Company{}, f.createErr
	}
	return companydomain.Company{ID: snowflake.ID(42), Name: req.Name}, nil
}

func (f *fakeCompanyService) Update(ctx context.Context, req companydomain.UpdateCompanyRequest) (companydomain.Company, error) {
	_ = ctx
	_ = req
	return companydomain.Company{}, nil
}

func (f *fakeCompanyService) GetByID(ctx context.Context, id string) (companydomain.Company, error) {
	_ = ctx
	_ = id
	if f.getErr != nil {
		return companydomain.Company{}, f.getErr
	}
	return companydomain.Company{ID: snowflake.ID(42), Name: "CMA Sénégal"}, nil
}

func (f *fakeCompanyService) List(ctx context.Context, req companydomain.ListCompanyRequest) (companydomain.ListCompanyResponse, error) {
	_ = ctx
	_ = req
	return companydomain.ListCompanyResponse{
		Companies: []companydomain.Company{{ID: snowflake.ID(42), Name: "CMA Sénégal"}},
	}, nil
}

func (f *fakeCompanyService) SetActive(ctx context.Context, id string, active bool) (companydomain.Company, error) {
	_ = ctx
	_ = id
	return companydomain.Company{ID: snowflake.ID(42), Active: active}, nil
}

func newTestServer(t *testing.T, authz authorization.Service, companies companydomain.Service, auth *fakeAuthService) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{AppName: "svs-test", SessionTTLHours: 24}
	node, err := snowflake.NewNode(9)
	require.NoError(t, err)

	engine := NewEngine(observability.Config{}, nil)

	return NewServer(ServerParams{
		Gin:        engine,
		Cfg:        cfg,
		GenID:      node,
		Sessions:   session.NewManager(cfg),
		AuthSvc:    auth,
		AuthzSvc:   authz,
		CompanySvc: companies,
	})
}

func newExpenseTestServer(t *testing.T, authz authorization.Service, expenses expensedomain.Service) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{AppName: "svs-test", SessionTTLHours: 24}
	node, err := snowflake.NewNode(10)
	require.NoError(t, err)

	auth := &fakeAuthService{user: userdomain.User{ID: snowflake.ID(7), Email: "awa.diop@svs.sn", Roles: []string{userdomain.RoleOperateur}}}

	return NewServer(ServerParams{
		Gin:        NewEngine(observability.Config{}, nil),
		Cfg:        cfg,
		GenID:      node,
		Sessions:   session.NewManager(cfg),
		AuthSvc:    auth,
		AuthzSvc:   authz,
		ExpenseSvc: expenses,
	})
}

func doRequest(s *Server, method, path, token string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	return w
}

func TestLoginSetsSessionCookie(t *testing.T) {
	auth := &fakeAuthService{user: userdomain.User{ID: snowflake.ID(7), Email: "awa.diop@svs.sn", Roles: []string{userdomain.RoleAdmin}}}
	s := newTestServer(t, allowAll(), &fakeCompanyService{}, auth)

	body, _ := json.Marshal(map[string]string{"email": "awa.diop@svs.sn", "password": "secret"})
	w := doRequest(s, http.MethodPost, "/auth/login", "", body)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, auth.loginCalls)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, session.DefaultCookieName, cookies[0].Name)
	assert.Equal(t, "session-token", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "session-token", resp.Data.Token)
}

func TestLoginBadCredentials(t *testing.T) {
	auth := &fakeAuthService{user: userdomain.User{ID: snowflake.ID(7)}}
	s := newTestServer(t, allowAll(), &fakeCompanyService{}, auth)

	body, _ := json.Marshal(map[string]string{"email": "awa.diop@svs.sn", "password": "wrong"})
	w := doRequest(s, http.MethodPost, "/auth/login", "", body)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthorized", errorCode(t, w))
}

func TestAPIRequiresSession(t *testing.T) {
	auth := &fakeAuthService{user: userdomain.User{ID: snowflake.ID(7)}}
	s := newTestServer(t, allowAll(), &fakeCompanyService{}, auth)

	w := doRequest(s, http.MethodGet, "/api/v1/companies", "", nil)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthorized", errorCode(t, w))
}

func TestListCompaniesAuthenticated(t *testing.T) {
	auth := &fakeAuthService{user: userdomain.User{ID: snowflake.ID(7), Email: "awa.diop@svs.sn", Roles: []string{userdomain.RoleViewer}}}
	s := newTestServer(t, allowAll(), &fakeCompanyService{}, auth)

	w := doRequest(s, http.MethodGet, "/api/v1/companies", "session-token", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "CMA Sénégal")
}

func TestForbiddenActionMapsTo403(t *testing.T) {
	auth := &fakeAuthService{user: userdomain.User{ID: snowflake.ID(7), Roles: []string{userdomain.RoleViewer}}}
	s := newTestServer(t, denyAll(), &fakeCompanyService{}, auth)

	w := doRequest(s, http.MethodGet, "/api/v1/companies", "session-token", nil)

	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "forbidden", errorCode(t, w))
}

func TestNotFoundMapsTo404(t *testing.T) {
	auth := &fakeAuthService{user: userdomain.User{ID: snowflake.ID(7), Roles: []string{userdomain.RoleAdmin}}}
	s := newTestServer(t, allowAll(), &fakeCompanyService{getErr: companydomain.ErrNotFound}, auth)

	w := doRequest(s, http.MethodGet, "/api/v1/companies/42", "session-token", nil)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", errorCode(t, w))
}

func TestDuplicateMapsTo409(t *testing.T) {
	auth := &fakeAuthService{user: userdomain.User{ID: snowflake.ID(7), Roles: []string{userdomain.RoleAdmin}}}
	s := newTestServer(t, allowAll(), &fakeCompanyService{createErr: companydomain.ErrDuplicate}, auth)

	body, _ := json.Marshal(map[string]string{"name": "CMA Sénégal", "rccm": "SN-DKR-2020-B-1"})
	w := doRequest(s, http.MethodPost, "/api/v1/companies", "session-token", body)

	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "duplicate_resource", errorCode(t, w))
}

func TestExpiredSessionMapsTo401(t *testing.T) {
	auth := &fakeAuthService{authErr: authdomain.ErrSessionExpired}
	s := newTestServer(t, allowAll(), &fakeCompanyService{}, auth)

	w := doRequest(s, http.MethodGet, "/api/v1/companies", "stale-token", nil)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthorized", errorCode(t, w))
}

func TestExpenseTransitionPermissionPerTarget(t *testing.T) {
	cases := []struct {
		target string
		action string
	}{
		{"EN_ATTENTE", authorization.ActionExpenseSubmit},
		{"VALIDEE", authorization.ActionExpenseApprove},
		{"validee", authorization.ActionExpenseApprove},
		{"payee", authorization.ActionExpensePay},
		{" Rejetee ", authorization.ActionExpenseReject},
		{"annulee", authorization.ActionExpenseCancel},
	}

	for _, tc := range cases {
		authz := &recordingAuthz{}
		expenses := &fakeExpenseService{}
		s := newExpenseTestServer(t, authz, expenses)

		body, _ := json.Marshal(map[string]string{"target": tc.target, "comment": "Justificatif"})
		w := doRequest(s, http.MethodPost, "/api/v1/expenses/42/transition", "session-token", body)

		require.Equal(t, http.StatusOK, w.Code, "target %q", tc.target)
		require.Len(t, authz.actions, 1, "target %q", tc.target)
		assert.Equal(t, tc.action, authz.actions[0], "target %q", tc.target)

		// The service always sees the canonical spelling.
		assert.Equal(t, 1, expenses.transitionCalls)
		assert.Equal(t, expensedomain.ExpenseStatus(strings.ToUpper(strings.TrimSpace(tc.target))), expenses.lastTarget)
	}
}

func TestLowercasePayTargetStillNeedsPayGrant(t *testing.T) {
	// Grants shaped like OPERATEUR's: edits and submissions, no
	// approval or payment verbs.
	authz := &recordingAuthz{allow: func(action string) bool {
		switch action {
		case authorization.ActionView, authorization.ActionCreate,
			authorization.ActionUpdate, authorization.ActionExpenseSubmit:
			return true
		default:
			return false
		}
	}}
	expenses := &fakeExpenseService{}
	s := newExpenseTestServer(t, authz, expenses)

	for _, target := range []string{"payee", "validee", "annulee"} {
		body, _ := json.Marshal(map[string]string{"target": target})
		w := doRequest(s, http.MethodPost, "/api/v1/expenses/42/transition", "session-token", body)

		require.Equal(t, http.StatusForbidden, w.Code, "target %q", target)
		assert.Equal(t, "forbidden", errorCode(t, w))
	}
	assert.Zero(t, expenses.transitionCalls)

	// The same caller can still submit.
	body, _ := json.Marshal(map[string]string{"target": "en_attente"})
	w := doRequest(s, http.MethodPost, "/api/v1/expenses/42/transition", "session-token", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, expenses.transitionCalls)
}

func TestUnauthorizedSuggestionNamesLoginEndpoint(t *testing.T) {
	auth := &fakeAuthService{user: userdomain.User{ID: snowflake.ID(7)}}
	s := newTestServer(t, allowAll(), &fakeCompanyService{}, auth)

	w := doRequest(s, http.MethodGet, "/api/v1/companies", "", nil)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error.Suggestion, "POST /auth/login")
}

func TestMapErrorInvalidTransition(t *testing.T) {
	status, body := mapError(&expensedomain.InvalidTransitionError{
		From: expensedomain.ExpenseStatusPayee,
		To:   expensedomain.ExpenseStatusBrouillon,
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "invalid_transition", body.Code)

	status, body = mapError(expensedomain.ErrCommentRequired)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "validation_error", body.Code)
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error.Code
}
