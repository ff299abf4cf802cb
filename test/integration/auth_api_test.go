package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"auth-service/internal/adapter/db/postgres"
	ginhandler "auth-service/internal/adapter/gin/handler"
	ginrouter "auth-service/internal/adapter/gin/router"
	"auth-service/internal/usecase/auth"
	"auth-service/pkg/token"
)

// AuthAPIIntegrationTestSuite exercises the HTTP API end to end against an
// in-memory database: real repository, real usecase, real token issuer.
type AuthAPIIntegrationTestSuite struct {
	suite.Suite
	server *httptest.Server
	issuer *token.Issuer
}

func (s *AuthAPIIntegrationTestSuite) SetupTest() {
	logger := zaptest.NewLogger(s.T())

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	s.Require().NoError(err)
	s.Require().NoError(db.AutoMigrate(&postgres.UserSchema{}))

	repo := postgres.NewUserRepoPG(db, logger)

	s.issuer, err = token.NewIssuer(token.Config{Secret: "integration-secret"})
	s.Require().NoError(err)

	uc := auth.New(repo, s.issuer, logger)
	handler := ginhandler.NewAuthHandler(uc, ginhandler.CookieConfig{
		MaxAge: int(s.issuer.TTL().Seconds()),
	}, logger)

	s.server = httptest.NewServer(ginrouter.SetupRouter(handler, logger))
}

func (s *AuthAPIIntegrationTestSuite) TearDownTest() {
	s.server.Close()
}

func (s *AuthAPIIntegrationTestSuite) post(path string, body map[string]string) *http.Response {
	jsonBody, err := json.Marshal(body)
	s.Require().NoError(err)

	resp, err := http.Post(s.server.URL+path, "application/json", bytes.NewBuffer(jsonBody))
	s.Require().NoError(err)
	return resp
}

func (s *AuthAPIIntegrationTestSuite) decode(resp *http.Response, out any) {
	defer resp.Body.Close()
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(out))
}

func tokenCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == ginhandler.TokenCookieName {
			return c
		}
	}
	return nil
}

func (s *AuthAPIIntegrationTestSuite) TestSignUpThenLogin() {
	// Sign-up succeeds and returns the created record without the hash
	resp := s.post("/auth/sign-up", map[string]string{"email": "a@x.com", "password": "secret1"})
	s.Equal(http.StatusCreated, resp.StatusCode)

	var created struct {
		ID       int64  `json:"id"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	s.decode(resp, &created)
	s.Equal("a@x.com", created.Email)
	s.Greater(created.ID, int64(0))
	s.Empty(created.Password)

	signUpCookie := tokenCookie(resp)
	s.Require().NotNil(signUpCookie)
	s.True(signUpCookie.HttpOnly)

	// Repeat sign-up with the same email fails
	resp = s.post("/auth/sign-up", map[string]string{"email": "a@x.com", "password": "other"})
	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	var dupBody map[string]string
	s.decode(resp, &dupBody)
	s.Equal("User already exists", dupBody["message"])

	// Login with the original credentials succeeds
	resp = s.post("/auth/login", map[string]string{"email": "a@x.com", "password": "secret1"})
	s.Equal(http.StatusOK, resp.StatusCode)

	var loginBody map[string]string
	s.decode(resp, &loginBody)
	s.Equal("Token created", loginBody["message"])

	loginCookie := tokenCookie(resp)
	s.Require().NotNil(loginCookie)
	s.True(loginCookie.HttpOnly)

	// Tokens from sign-up and login decode to the same subject
	signUpClaims, err := s.issuer.Parse(signUpCookie.Value)
	s.Require().NoError(err)
	loginClaims, err := s.issuer.Parse(loginCookie.Value)
	s.Require().NoError(err)
	s.Equal(signUpClaims.Subject, loginClaims.Subject)
	s.Equal("a@x.com", loginClaims.Email)
}

func (s *AuthAPIIntegrationTestSuite) TestLoginFailures() {
	resp := s.post("/auth/sign-up", map[string]string{"email": "a@x.com", "password": "secret1"})
	s.Equal(http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Unknown email
	resp = s.post("/auth/login", map[string]string{"email": "missing@x.com", "password": "secret1"})
	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	var unknownBody map[string]string
	s.decode(resp, &unknownBody)
	s.Equal("Incorrect email", unknownBody["message"])

	// Wrong password
	resp = s.post("/auth/login", map[string]string{"email": "a@x.com", "password": "wrong"})
	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	var wrongBody map[string]string
	s.decode(resp, &wrongBody)
	s.Equal("Incorrect email or password", wrongBody["message"])
	s.Nil(tokenCookie(resp))
}

func (s *AuthAPIIntegrationTestSuite) TestMalformedRequests() {
	resp, err := http.Post(s.server.URL+"/auth/sign-up", "application/json", bytes.NewBufferString("not json"))
	s.Require().NoError(err)
	resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	resp = s.post("/auth/sign-up", map[string]string{"email": "not-an-email", "password": "secret1"})
	resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *AuthAPIIntegrationTestSuite) TestHealthEndpoint() {
	resp, err := http.Get(s.server.URL + "/health")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
}

func TestAuthAPIIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(AuthAPIIntegrationTestSuite))
}
