// Package session stores the authenticated user in the cookie session.
package session

import (
	"encoding/gob"

	"ballot-ui/database/model"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const loginUser = "LOGIN_USER"

func init() {
	gob.Register(model.User{})
}

// SetLoginUser stores the user in the session. The password hash is stripped
// so it never reaches the cookie.
func SetLoginUser(c *gin.Context, user *model.User) error {
	stored := *user
	stored.Password = ""
	s := sessions.Default(c)
	s.Set(loginUser, stored)
	return s.Save()
}

func SetMaxAge(c *gin.Context, maxAge int) error {
	s := sessions.Default(c)
	s.Options(sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
	})
	return s.Save()
}

func GetLoginUser(c *gin.Context) *model.User {
	s := sessions.Default(c)
	if obj := s.Get(loginUser); obj != nil {
		if user, ok := obj.(model.User); ok {
			return &user
		}
	}
	return nil
}

func IsLogin(c *gin.Context) bool {
	return GetLoginUser(c) != nil
}

func IsAdmin(c *gin.Context) bool {
	user := GetLoginUser(c)
	return user != nil && user.Role == model.RoleAdmin
}

func ClearSession(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	s.Options(sessions.Options{
		Path:   "/",
		MaxAge: -1,
	})
	return s.Save()
}
