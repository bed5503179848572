// Package controller provides the HTTP request handlers of the election
// panel: authentication, the voter dashboard and ballot, and the admin
// management API.
package controller

import (
	"net/http"

	"ballot-ui/domain"
	"ballot-ui/web/session"

	"github.com/gin-gonic/gin"
)

// BaseController provides the authentication gates shared by all
// controllers.
type BaseController struct{}

// checkLogin rejects requests without an authenticated session.
func (a *BaseController) checkLogin(c *gin.Context) {
	if !session.IsLogin(c) {
		pureJsonMsg(c, http.StatusUnauthorized, false, "login required")
		c.Abort()
		return
	}
	c.Next()
}

// checkAdmin rejects requests whose session user is not an admin.
func (a *BaseController) checkAdmin(c *gin.Context) {
	if !session.IsAdmin(c) {
		pureJsonMsg(c, http.StatusForbidden, false, domain.ErrForbidden.Error())
		c.Abort()
		return
	}
	c.Next()
}
