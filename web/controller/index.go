package controller

import (
	"net/http"

	"ballot-ui/logger"
	"ballot-ui/web/service"
	"ballot-ui/web/session"

	"github.com/gin-gonic/gin"
)

// LoginForm represents the login request.
type LoginForm struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// IndexController handles registration, login and logout.
type IndexController struct {
	BaseController

	userService service.UserService
}

// NewIndexController creates an IndexController and initializes its routes.
func NewIndexController(g *gin.RouterGroup) *IndexController {
	a := &IndexController{}
	a.initRouter(g)
	return a
}

func (a *IndexController) initRouter(g *gin.RouterGroup) {
	g.POST("/register", a.register)
	g.POST("/login", a.login)
	g.GET("/logout", a.logout)
}

// register accepts the multipart registration form with both identity
// photos and creates an unverified account.
func (a *IndexController) register(c *gin.Context) {
	var form service.RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusOK, false, "invalid form data")
		return
	}
	if form.Username == "" || form.Password == "" {
		pureJsonMsg(c, http.StatusOK, false, "username and password are required")
		return
	}

	user, err := a.userService.Register(&form)
	if err != nil {
		jsonMsg(c, "register", err)
		return
	}
	jsonMsgObj(c, "Registered! Await admin approval.", user, nil)
}

// login authenticates the credentials and establishes the cookie session.
func (a *IndexController) login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusOK, false, "invalid form data")
		return
	}
	if form.Username == "" {
		pureJsonMsg(c, http.StatusOK, false, "username is required")
		return
	}
	if form.Password == "" {
		pureJsonMsg(c, http.StatusOK, false, "password is required")
		return
	}

	user, err := a.userService.Authenticate(form.Username, form.Password)
	if err != nil {
		logger.Warningf("failed login for %q from %s: %v", form.Username, getRemoteIp(c), err)
		jsonMsg(c, "login", err)
		return
	}

	if err := session.SetLoginUser(c, user); err != nil {
		logger.Warning("unable to save session: ", err)
		jsonMsg(c, "login", err)
		return
	}

	logger.Infof("%s logged in from %s", user.Username, getRemoteIp(c))
	jsonObj(c, user, nil)
}

// logout clears the session unconditionally.
func (a *IndexController) logout(c *gin.Context) {
	if user := session.GetLoginUser(c); user != nil {
		logger.Infof("%s logged out", user.Username)
	}
	if err := session.ClearSession(c); err != nil {
		logger.Warning("unable to clear session: ", err)
	}
	jsonMsg(c, "logged out", nil)
}
