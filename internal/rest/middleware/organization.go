package middleware

import (
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/logger"
	"github.com/billforge/billforge/internal/service"
	"github.com/billforge/billforge/internal/types"
	"github.com/gin-gonic/gin"
)

// OrganizationMiddleware resolves the active organization for the request.
//
// The X-Organization-ID header selects among the user's memberships. Without
// the header, a sole membership is used implicitly; multiple memberships
// require an explicit selection; no memberships leaves the scope empty so
// reads see nothing and writes are rejected downstream.
//
// A header naming an organization the user does not belong to fails as not
// found, so existence is never confirmed across tenants.
func OrganizationMiddleware(orgService service.OrganizationService, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		userID := types.GetUserID(ctx)

		requested := c.GetHeader(types.HeaderOrganization)
		if requested != "" {
			if _, err := orgService.ResolveMembership(ctx, requested, userID); err != nil {
				status := ierr.HTTPStatusFromErr(err)
				c.AbortWithStatusJSON(status, ierr.ErrorResponse{
					Success: false,
					Error: ierr.ErrorDetail{
						Display: "organization not found",
					},
				})
				return
			}
			c.Request = c.Request.WithContext(types.SetOrganizationID(ctx, requested))
			c.Next()
			return
		}

		memberships, err := orgService.ListMemberships(ctx, userID)
		if err != nil {
			status := ierr.HTTPStatusFromErr(err)
			c.AbortWithStatusJSON(status, ierr.ErrorResponse{
				Success: false,
				Error: ierr.ErrorDetail{
					Display: "failed to resolve organization",
				},
			})
			return
		}

		switch len(memberships) {
		case 0:
			// Fail closed: no scope at all
			log.Debugw("request without organization membership", "user_id", userID)
			c.Next()
		case 1:
			c.Request = c.Request.WithContext(types.SetOrganizationID(ctx, memberships[0].OrganizationID))
			c.Next()
		default:
			c.AbortWithStatusJSON(400, ierr.ErrorResponse{
				Success: false,
				Error: ierr.ErrorDetail{
					Display: "organization selection required",
					Details: map[string]any{
						"header": types.HeaderOrganization,
					},
				},
			})
		}
	}
}
