package handlers

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/utpal74/ai-task-scheduler/db"
	"github.com/utpal74/ai-task-scheduler/logger"
	"github.com/utpal74/ai-task-scheduler/oauth"
	"go.uber.org/zap"
)

const callbackTimeout = 15 * time.Second

// StateStore issues and verifies single-use OAuth state values.
type StateStore interface {
	Issue(ctx context.Context) (string, error)
	Consume(ctx context.Context, state string) (bool, error)
}

type AuthHandler struct {
	provider oauth.Provider
	users    db.UserStore
	// nil disables state verification
	states StateStore
}

func NewAuthHandler(provider oauth.Provider, users db.UserStore, states StateStore) *AuthHandler {
	return &AuthHandler{provider: provider, users: users, states: states}
}

// GoogleLoginHandler answers with a link to the Google consent page.
func (handler *AuthHandler) GoogleLoginHandler(c *gin.Context) {
	ctx := c.Request.Context()

	state := "state"
	if handler.states != nil {
		var err error
		if state, err = handler.states.Issue(ctx); err != nil {
			logger.FromCtx(ctx).Error("could not save oauth state", zap.Error(err))
			c.String(http.StatusInternalServerError, "Authentication unavailable")
			return
		}
	}

	url := handler.provider.AuthURL(state)
	c.Data(http.StatusOK, "text/html; charset=utf-8",
		[]byte(fmt.Sprintf(`<a href="%s">Authenticate with Google</a>`, html.EscapeString(url))))
}

// GoogleCallbackHandler completes the flow and stores the user's refresh token.
func (handler *AuthHandler) GoogleCallbackHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), callbackTimeout)
	defer cancel()
	log := logger.FromCtx(ctx)

	code := c.Query("code")
	if code == "" {
		c.String(http.StatusBadRequest, "Missing code")
		return
	}

	if handler.states != nil {
		ok, err := handler.states.Consume(ctx, c.Query("state"))
		if err != nil {
			log.Error("could not verify oauth state", zap.Error(err))
			c.String(http.StatusInternalServerError, "Authentication failed")
			return
		}
		if !ok {
			c.String(http.StatusBadRequest, "Invalid state")
			return
		}
	}

	identity, err := handler.provider.Exchange(ctx, code)
	if err != nil {
		log.Error("OAuth callback error", zap.Error(err))
		c.String(http.StatusInternalServerError, "Authentication failed")
		return
	}

	user, err := handler.users.Upsert(ctx, identity.GoogleID, identity.RefreshToken, identity.Email, identity.Name)
	if err != nil {
		log.Error("OAuth callback error", zap.String("google_id", identity.GoogleID), zap.Error(err))
		c.String(http.StatusInternalServerError, "Authentication failed")
		return
	}

	log.Info("User authenticated",
		zap.String("google_id", user.GoogleID),
		zap.Bool("has_credential", user.HasCredential()),
	)
	c.String(http.StatusOK, "✅ Authentication complete. You can close this window.")
}
