package server

import (
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/mentorhub/internal/orgcontext"
)

const HeaderOrg = "X-Org-ID"

// OrgContext resolves the tenant from the X-Org-ID header.
func OrgContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		orgID, ok := orgcontext.ParseOrgID(c.GetHeader(HeaderOrg))
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		ctx := orgcontext.WithOrgID(c.Request.Context(), int64(orgID))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
