// Package service provides the business logic of the election panel:
// registration and approval, election management, the voting workflow, and
// result tallying.
package service

import (
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"ballot-ui/config"
	"ballot-ui/database"
	"ballot-ui/database/model"
	"ballot-ui/domain"
	"ballot-ui/logger"
	"ballot-ui/util/crypto"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserService handles registration, authentication and admin approval.
type UserService struct{}

// RegisterForm carries the registration fields and the two identity photos.
type RegisterForm struct {
	Username         string                `form:"username"`
	Password         string                `form:"password"`
	Name             string                `form:"name"`
	Dob              string                `form:"dob"`
	CitizenshipId    string                `form:"citizenship_id"`
	CitizenshipPhoto *multipart.FileHeader `form:"citizenship_photo"`
	PersonalPhoto    *multipart.FileHeader `form:"personal_photo"`
}

var allowedPhotoExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

func allowedPhoto(fh *multipart.FileHeader) bool {
	if fh == nil || fh.Filename == "" {
		return false
	}
	return allowedPhotoExts[strings.ToLower(filepath.Ext(fh.Filename))]
}

// sanitizeFilename keeps letters, digits, dot, dash and underscore and
// replaces everything else, so an uploaded name cannot escape the upload
// folder.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// saveUpload writes an uploaded photo into the upload folder under a
// generated name, so two registrations can never overwrite each other's
// files. Returns the stored blob name.
func saveUpload(prefix string, fh *multipart.FileHeader) (string, error) {
	if err := os.MkdirAll(config.GetUploadFolderPath(), 0o750); err != nil {
		return "", err
	}

	name := prefix + "_" + uuid.NewString() + "_" + sanitizeFilename(fh.Filename)
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(config.GetUploadFolderPath(), name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return name, nil
}

// Register persists a new unverified voter account and stores both identity
// photos in the upload folder.
func (s *UserService) Register(form *RegisterForm) (*model.User, error) {
	if !allowedPhoto(form.CitizenshipPhoto) || !allowedPhoto(form.PersonalPhoto) {
		return nil, domain.ErrInvalidUpload
	}

	db := database.GetDB()
	var count int64
	if err := db.Model(model.User{}).Where("username = ?", form.Username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, domain.ErrDuplicateHandle
	}

	citName, err := saveUpload("cit", form.CitizenshipPhoto)
	if err != nil {
		return nil, err
	}
	perName, err := saveUpload("per", form.PersonalPhoto)
	if err != nil {
		return nil, err
	}

	hash, err := crypto.HashPassword(form.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:         form.Username,
		Password:         hash,
		Name:             form.Name,
		Dob:              form.Dob,
		CitizenshipId:    form.CitizenshipId,
		CitizenshipPhoto: citName,
		PersonalPhoto:    perName,
		Verified:         false,
		Role:             model.RoleUser,
	}
	if err := db.Create(user).Error; err != nil {
		// The unique index catches a concurrent registration that slipped
		// past the count above.
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateHandle
		}
		return nil, err
	}
	logger.Infof("registered new account %q, awaiting approval", user.Username)
	return user, nil
}

// Authenticate checks the credentials and the verification gate. Unverified
// non-admin accounts may not log in regardless of credential correctness.
func (s *UserService) Authenticate(username string, password string) (*model.User, error) {
	db := database.GetDB()

	user := &model.User{}
	err := db.Model(model.User{}).
		Where("username = ?", username).
		First(user).
		Error
	if database.IsNotFound(err) {
		return nil, domain.ErrInvalidCredentials
	} else if err != nil {
		return nil, err
	}

	if !crypto.CheckPasswordHash(user.Password, password) {
		return nil, domain.ErrInvalidCredentials
	}

	if user.Role != model.RoleAdmin && !user.Verified {
		return nil, domain.ErrPendingApproval
	}

	return user, nil
}

// Approve sets the verification flag. Approving an already verified account
// is a no-op.
func (s *UserService) Approve(userId int) error {
	db := database.GetDB()
	return db.Model(model.User{}).
		Where("id = ?", userId).
		Update("verified", true).
		Error
}

// PendingUsers lists all voter accounts with their verification state for
// the admin review page.
func (s *UserService) PendingUsers() ([]model.User, error) {
	db := database.GetDB()
	var users []model.User
	err := db.Model(model.User{}).
		Where("role = ?", model.RoleUser).
		Order("id").
		Find(&users).
		Error
	return users, err
}

// DeleteUser removes the account and its votes as one transaction, so no
// orphaned ballots remain.
func (s *UserService) DeleteUser(userId int) error {
	db := database.GetDB()
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userId).Delete(&model.Vote{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.User{}, userId).Error
	})
}

// GetUser loads a user by id.
func (s *UserService) GetUser(userId int) (*model.User, error) {
	db := database.GetDB()
	user := &model.User{}
	err := db.First(user, userId).Error
	if database.IsNotFound(err) {
		return nil, domain.ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return user, nil
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "UNIQUE constraint failed")
}
