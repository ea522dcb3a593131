package graphql

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	gql "github.com/graphql-go/graphql"
	"github.com/rs/zerolog"

	"github.com/prepforge/cbt-backend/internal/service"
)

type gqlRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

// NewHandler returns the POST /graphql endpoint. Authentication is optional
// here: anonymous callers can still run login and register, and each
// resolver enforces its own requirements.
func NewHandler(schema gql.Schema, authService *service.AuthService, log zerolog.Logger) gin.HandlerFunc {
	l := log.With().Str("component", "graphql").Logger()

	return func(c *gin.Context) {
		var req gqlRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"errors": []gin.H{{"message": "invalid request body"}},
			})
			return
		}

		ctx := c.Request.Context()
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
				if claims, err := authService.ValidateAccess(parts[1]); err == nil {
					ctx = WithIdentity(ctx, claims.Identity())
				}
			}
		}

		result := gql.Do(gql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			OperationName:  req.OperationName,
			VariableValues: req.Variables,
			Context:        ctx,
		})
		if len(result.Errors) > 0 {
			l.Debug().Str("operation", req.OperationName).Int("errors", len(result.Errors)).Msg("GraphQL request finished with errors")
		}

		c.JSON(http.StatusOK, result)
	}
}
