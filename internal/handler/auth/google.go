package auth

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"

	"chatline/internal/service"
)

const (
	userinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	stateTTL    = 10 * time.Minute
)

// Google 登录只需要邮箱和基础资料
var googleScopes = []string{
	"https://www.googleapis.com/auth/userinfo.email",
	"https://www.googleapis.com/auth/userinfo.profile",
}

// stateStore 进程内的 CSRF state 存储
// 每次跳转生成一个一次性 state，回调时消费；过期的顺手清掉
type stateStore struct {
	mu     sync.Mutex
	states map[string]time.Time
}

func newStateStore() *stateStore {
	return &stateStore{states: map[string]time.Time{}}
}

func (s *stateStore) issue() string {
	b := make([]byte, 16)
	rand.Read(b)
	state := hex.EncodeToString(b)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for k, t := range s.states {
		if now.Sub(t) > stateTTL {
			delete(s.states, k)
		}
	}
	s.states[state] = now

	return state
}

func (s *stateStore) consume(state string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.states[state]
	if !ok {
		return false
	}
	delete(s.states, state)
	return time.Since(t) <= stateTTL
}

var oauthStates = newStateStore()

// oauthConfig 构造 Google OAuth2 配置
func (h *Handler) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.cfg.OAuth.GoogleClientID,
		ClientSecret: h.cfg.OAuth.GoogleClientSecret,
		RedirectURL:  h.cfg.OAuth.GoogleRedirectURL,
		Scopes:       googleScopes,
		Endpoint:     googleoauth.Endpoint,
	}
}

// GoogleLogin 跳转到 Google 授权页
// @Summary      Google 登录
// @Tags         认证
// @Success      307
// @Router       /api/auth/google [get]
func (h *Handler) GoogleLogin(c *gin.Context) {
	url := h.oauthConfig().AuthCodeURL(oauthStates.issue())
	c.Redirect(http.StatusTemporaryRedirect, url)
}

// googleUserinfo Google userinfo 接口的响应
type googleUserinfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// GoogleCallback Google 授权回调
// 校验 state -> 换取 access token -> 拉取用户信息 -> 解析成本地用户
// -> 签发自己的 JWT，带着 token 跳回前端
// @Summary      Google 登录回调
// @Tags         认证
// @Success      307
// @Failure      401  {object}  map[string]interface{}
// @Router       /api/auth/google/callback [get]
func (h *Handler) GoogleCallback(c *gin.Context) {
	if !oauthStates.consume(c.Query("state")) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid oauth state"})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization code missing"})
		return
	}

	ctx := c.Request.Context()
	conf := h.oauthConfig()

	oauthToken, err := conf.Exchange(ctx, code)
	if err != nil {
		log.Error().Err(err).Msg("oauth code exchange failed")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "oauth exchange failed"})
		return
	}

	resp, err := conf.Client(ctx, oauthToken).Get(userinfoURL)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch google userinfo")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch user profile"})
		return
	}
	defer resp.Body.Close()

	var info googleUserinfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to decode user profile"})
		return
	}

	user, err := h.oauthService.Resolve(ctx, &service.GoogleProfile{
		ID:      info.ID,
		Email:   info.Email,
		Name:    info.Name,
		Picture: info.Picture,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve google profile")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "google sign-in failed"})
		return
	}

	token, err := h.authService.IssueToken(user.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to issue token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "google sign-in failed"})
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, h.cfg.Server.FrontendURL+"/auth/callback?token="+token)
}
