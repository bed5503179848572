package service

import (
	"bytes"
	"mime/multipart"
	"path/filepath"
	"sync"
	"testing"

	"ballot-ui/database"
	"ballot-ui/database/model"
	"ballot-ui/logger"

	"github.com/op/go-logging"
	"github.com/stretchr/testify/require"
)

var initLoggerOnce sync.Once

func setupDB(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("VOTE_UPLOAD_FOLDER", filepath.Join(dir, "uploads"))
	t.Setenv("VOTE_LOG_FOLDER", filepath.Join(dir, "log"))
	initLoggerOnce.Do(func() {
		logger.InitLogger(logging.ERROR)
	})
	require.NoError(t, database.InitDB(filepath.Join(dir, "test.db")))
	t.Cleanup(func() {
		_ = database.CloseDB()
	})
}

func mustCreate(t *testing.T, v any) {
	t.Helper()
	require.NoError(t, database.GetDB().Create(v).Error)
}

func newVoter(t *testing.T, username string, verified bool) *model.User {
	t.Helper()
	user := &model.User{
		Username: username,
		Password: "x",
		Verified: verified,
		Role:     model.RoleUser,
	}
	mustCreate(t, user)
	return user
}

// photoHeader builds a multipart.FileHeader the way an upload arrives in a
// request.
func photoHeader(t *testing.T, filename string) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("photo", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte("not really an image"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	return form.File["photo"][0]
}
