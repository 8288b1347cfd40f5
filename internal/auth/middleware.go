package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"faceattend/internal/account"
)

// identityKey is the gin context key holding the caller's Identity.
const identityKey = "identity"

// Identity is the authenticated caller attached to every protected request.
type Identity struct {
	AccountID   string
	Name        string
	Email       string
	Role        string
	CompanyID   string
	CompanyName string
}

// AccountResolver resolves an account id to a live account. Implemented by
// account.Service.
type AccountResolver interface {
	Get(ctx context.Context, id string) (account.Account, error)
}

// RequireAccount enforces bearer tokens and re-resolves the account on every
// request, so role or tenant edits take effect on the caller's next call.
// Missing header is 401; an invalid token is 403; a token for a deleted
// account is 404.
func RequireAccount(tokens *TokenService, accounts AccountResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if authz == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no token provided"})
			return
		}
		parts := strings.SplitN(authz, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "token missing"})
			return
		}

		accountID, err := tokens.Verify(strings.TrimSpace(parts[1]))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid token"})
			return
		}

		a, err := accounts.Get(c.Request.Context(), accountID)
		if errors.Is(err, account.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		c.Set(identityKey, Identity{
			AccountID:   a.ID,
			Name:        a.Name,
			Email:       a.Email,
			Role:        a.Role,
			CompanyID:   a.CompanyID,
			CompanyName: a.CompanyName,
		})
		c.Next()
	}
}

// CallerFrom returns the Identity set by RequireAccount.
func CallerFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}
