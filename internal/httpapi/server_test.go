package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"news_portal/internal/config"
	"news_portal/internal/domain"
	"news_portal/internal/feed"
	"news_portal/internal/service"
	"news_portal/internal/storage/memory"
)

const adminToken = "admin-token"

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type HandlerTestSuite struct {
	suite.Suite

	handler *Handler
	router  chi.Router
}

func (s *HandlerTestSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	auth := service.NewAuthService(memory.NewUserStore(), config.AuthConfig{
		APIToken:  adminToken,
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
	}, logger)
	articles := service.NewArticleService(memory.NewArticleStore(), service.RoleAuthorizer{}, nil, logger)

	composer := feed.NewComposer(config.FeedConfig{
		RecentWindow:   24 * time.Hour,
		AllLimit:       9,
		OtherNewsLimit: 9,
		VideosLimit:    6,
		RelatedLimit:   5,
		TagMatch:       config.MatchConfig{Mode: "exact", CaseFold: true},
		CategoryMatch:  config.MatchConfig{Mode: "contains", CaseFold: true},
		TagSections: []config.SectionConfig{
			{Key: "pradana", Label: "Pradana Puwath", Limit: 6, ExcludePinned: true},
		},
	})

	s.handler = NewHandler(articles, auth, composer, logger)
	s.router = s.handler.Router([]string{"*"})
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) do(method, path, token string, body any) (int, envelope) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func (s *HandlerTestSuite) create(title string, tags ...string) domain.Article {
	code, env := s.do(http.MethodPost, "/api/news", adminToken, map[string]any{
		"title":    title,
		"content":  "body",
		"category": "Local",
		"author":   "Desk",
		"tag":      tags,
	})
	s.Require().Equal(http.StatusCreated, code, env.Message)

	var a domain.Article
	s.Require().NoError(json.Unmarshal(env.Data, &a))
	return a
}

func (s *HandlerTestSuite) TestCreate_RequiresCredentials() {
	code, env := s.do(http.MethodPost, "/api/news", "", map[string]any{
		"title": "t", "content": "c", "category": "Local", "author": "a",
	})

	s.Equal(http.StatusUnauthorized, code)
	s.False(env.Success)
}

func (s *HandlerTestSuite) TestCreate_InvalidBearer() {
	code, _ := s.do(http.MethodGet, "/api/news", "not-a-token", nil)

	s.Equal(http.StatusUnauthorized, code)
}

func (s *HandlerTestSuite) TestCreate_ValidationError() {
	code, env := s.do(http.MethodPost, "/api/news", adminToken, map[string]any{"title": "only title"})

	s.Equal(http.StatusBadRequest, code)
	s.Contains(env.Message, "content")
}

func (s *HandlerTestSuite) TestCreateAndGet() {
	a := s.create("Election results", "Pradana Puwath")
	s.Equal([]string{"Pradana Puwath"}, a.Tags)

	code, env := s.do(http.MethodGet, "/api/news/"+a.ID.String(), "", nil)
	s.Equal(http.StatusOK, code)
	s.True(env.Success)

	code, env = s.do(http.MethodGet, "/api/news?id="+a.ID.String(), "", nil)
	s.Equal(http.StatusOK, code)

	var got domain.Article
	s.Require().NoError(json.Unmarshal(env.Data, &got))
	s.Equal(a.ID, got.ID)
}

func (s *HandlerTestSuite) TestGet_InvalidAndMissingID() {
	code, _ := s.do(http.MethodGet, "/api/news/not-a-uuid", "", nil)
	s.Equal(http.StatusBadRequest, code)

	code, _ = s.do(http.MethodGet, "/api/news/"+uuid.NewString(), "", nil)
	s.Equal(http.StatusNotFound, code)
}

func (s *HandlerTestSuite) TestPinActions() {
	a := s.create("a")
	b := s.create("b")

	code, env := s.do(http.MethodPatch, "/api/news", adminToken, map[string]any{"id": a.ID, "action": "pin"})
	s.Require().Equal(http.StatusOK, code, env.Message)
	s.Equal("News article pinned successfully", env.Message)

	code, _ = s.do(http.MethodPost, "/api/news/"+b.ID.String()+"/pin?mediaPreference=video", adminToken, nil)
	s.Require().Equal(http.StatusOK, code)

	code, env = s.do(http.MethodGet, "/api/news?pinned=true", "", nil)
	s.Require().Equal(http.StatusOK, code)

	var pinned domain.Article
	s.Require().NoError(json.Unmarshal(env.Data, &pinned))
	s.Equal(b.ID, pinned.ID)
	s.Equal(domain.MediaVideo, pinned.MediaPreference)

	code, _ = s.do(http.MethodDelete, "/api/news/"+b.ID.String()+"/pin", adminToken, nil)
	s.Equal(http.StatusOK, code)

	_, env = s.do(http.MethodGet, "/api/news?pinned=true", "", nil)
	s.Equal("null", string(env.Data))
}

func (s *HandlerTestSuite) TestAction_Unknown() {
	a := s.create("a")

	code, _ := s.do(http.MethodPatch, "/api/news", adminToken, map[string]any{"id": a.ID, "action": "feature"})

	s.Equal(http.StatusBadRequest, code)
}

func (s *HandlerTestSuite) TestUpdateAndLive() {
	a := s.create("a")

	code, env := s.do(http.MethodPut, "/api/news/"+a.ID.String(), adminToken, map[string]any{"title": "renamed"})
	s.Require().Equal(http.StatusOK, code, env.Message)

	code, env = s.do(http.MethodPut, "/api/news/"+a.ID.String()+"/live", adminToken, map[string]any{"live": true})
	s.Require().Equal(http.StatusOK, code, env.Message)

	var got domain.Article
	s.Require().NoError(json.Unmarshal(env.Data, &got))
	s.Equal("renamed", got.Title)
	s.True(got.IsLive())
}

func (s *HandlerTestSuite) TestUpdate_NullStypeUnpins() {
	a := s.create("a")

	code, _ := s.do(http.MethodPost, "/api/news/"+a.ID.String()+"/pin", adminToken, nil)
	s.Require().Equal(http.StatusOK, code)

	code, env := s.do(http.MethodPut, "/api/news/"+a.ID.String(), adminToken, map[string]any{"stype": nil})
	s.Require().Equal(http.StatusOK, code, env.Message)

	var got domain.Article
	s.Require().NoError(json.Unmarshal(env.Data, &got))
	s.False(got.IsPinned())

	_, env = s.do(http.MethodGet, "/api/news?pinned=true", "", nil)
	s.Equal("null", string(env.Data))
}

func (s *HandlerTestSuite) TestUpdate_NullLiveTurnsOff() {
	a := s.create("a")

	code, _ := s.do(http.MethodPut, "/api/news/"+a.ID.String()+"/live", adminToken, map[string]any{"live": true})
	s.Require().Equal(http.StatusOK, code)

	code, env := s.do(http.MethodPut, "/api/news/"+a.ID.String(), adminToken, map[string]any{"live": nil})
	s.Require().Equal(http.StatusOK, code, env.Message)

	var got domain.Article
	s.Require().NoError(json.Unmarshal(env.Data, &got))
	s.False(got.IsLive())
	s.Nil(got.Live)
}

func (s *HandlerTestSuite) TestUpdate_NullImageClears() {
	code, env := s.do(http.MethodPost, "/api/news", adminToken, map[string]any{
		"title":    "with image",
		"content":  "body",
		"category": "Local",
		"author":   "Desk",
		"imageUrl": "https://cdn.example.com/a.jpg",
	})
	s.Require().Equal(http.StatusCreated, code, env.Message)

	var a domain.Article
	s.Require().NoError(json.Unmarshal(env.Data, &a))
	s.Require().NotNil(a.ImageURL)

	code, env = s.do(http.MethodPut, "/api/news/"+a.ID.String(), adminToken, map[string]any{"imageUrl": nil})
	s.Require().Equal(http.StatusOK, code, env.Message)

	var got domain.Article
	s.Require().NoError(json.Unmarshal(env.Data, &got))
	s.Nil(got.ImageURL)
	s.Equal("with image", got.Title)
}

func (s *HandlerTestSuite) TestDelete() {
	a := s.create("a")

	code, env := s.do(http.MethodDelete, "/api/news/"+a.ID.String(), adminToken, nil)
	s.Equal(http.StatusOK, code)
	s.Equal("News article deleted successfully", env.Message)

	code, _ = s.do(http.MethodDelete, "/api/news/"+a.ID.String(), adminToken, nil)
	s.Equal(http.StatusNotFound, code)
}

func (s *HandlerTestSuite) TestHomeFeed() {
	a := s.create("a", "Pradana Puwath")
	s.create("b", "Pradana Puwath")

	code, _ := s.do(http.MethodPost, "/api/news/"+a.ID.String()+"/pin", adminToken, nil)
	s.Require().Equal(http.StatusOK, code)

	code, env := s.do(http.MethodGet, "/api/feed/home?expand=all", "", nil)
	s.Require().Equal(http.StatusOK, code)

	var home feed.Home
	s.Require().NoError(json.Unmarshal(env.Data, &home))
	s.Require().NotNil(home.Pinned)
	s.Equal(a.ID, home.Pinned.ID)
	s.Require().Len(home.TagSections, 1)
	s.Len(home.TagSections[0].Items, 1)
	s.Equal("b", home.TagSections[0].Items[0].Title)
	s.Len(home.Recent.Items, 2)
}

func (s *HandlerTestSuite) TestDetailFeed() {
	a := s.create("a")
	s.create("b")

	code, env := s.do(http.MethodGet, "/api/feed/news/"+a.ID.String(), "", nil)
	s.Require().Equal(http.StatusOK, code)

	var detail feed.Detail
	s.Require().NoError(json.Unmarshal(env.Data, &detail))
	s.Equal(a.ID, detail.Article.ID)
	s.Len(detail.Related.Items, 1)
}

func (s *HandlerTestSuite) TestSignupLoginThenWrite() {
	code, env := s.do(http.MethodPost, "/api/auth/signup", "", map[string]any{
		"name": "Reader", "email": "reader@example.com", "password": "password-1",
	})
	s.Require().Equal(http.StatusCreated, code, env.Message)
	s.NotContains(string(env.Data), "password")

	code, env = s.do(http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": "reader@example.com", "password": "password-1",
	})
	s.Require().Equal(http.StatusOK, code)

	var login LoginResponse
	s.Require().NoError(json.Unmarshal(env.Data, &login))
	s.NotEmpty(login.Token)

	// Readers are authenticated but may not write.
	code, _ = s.do(http.MethodPost, "/api/news", login.Token, map[string]any{
		"title": "t", "content": "c", "category": "Local", "author": "a",
	})
	s.Equal(http.StatusUnauthorized, code)

	code, _ = s.do(http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": "reader@example.com", "password": "wrong-password",
	})
	s.Equal(http.StatusUnauthorized, code)
}

func (s *HandlerTestSuite) TestHealthz() {
	code, env := s.do(http.MethodGet, "/healthz", "", nil)

	s.Equal(http.StatusOK, code)
	s.True(env.Success)
}

func (s *HandlerTestSuite) TestCORS_WildcardWithoutCredentials() {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()

	s.router.ServeHTTP(rec, req)

	s.Equal("*", rec.Header().Get("Access-Control-Allow-Origin"))
	s.Empty(rec.Header().Get("Access-Control-Allow-Credentials"))
}

func (s *HandlerTestSuite) TestCORS_ExplicitOriginWithCredentials() {
	router := s.handler.Router([]string{"https://news.example.com"})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://news.example.com")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	s.Equal("https://news.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	s.Equal("true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	s.Empty(rec.Header().Get("Access-Control-Allow-Origin"))
}
