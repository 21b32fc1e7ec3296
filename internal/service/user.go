package service

import (
	"context"
	"fmt"

	"github.com/itchan-dev/itboard/internal/domain"
	internal_errors "github.com/itchan-dev/itboard/internal/errors"
	"github.com/itchan-dev/itboard/internal/logger"
	"github.com/itchan-dev/itboard/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	FindById(ctx context.Context, id domain.UserId) (domain.User, error)
	Login(ctx context.Context, id domain.UserId, password string) (domain.User, error)
	SignUp(ctx context.Context, data domain.SignUpData) error
	Modify(ctx context.Context, data domain.ProfileData) error
	Remove(ctx context.Context, id domain.UserId) error
}

type User struct {
	storage UserStorage
	files   UserFiles
}

type UserStorage interface {
	SaveUser(ctx context.Context, user domain.User) error
	User(ctx context.Context, id domain.UserId) (domain.User, error)
	UpdateUser(ctx context.Context, user domain.User) error
	DeleteUser(ctx context.Context, id domain.UserId) error
}

// UserFiles is the part of the file service account removal needs.
type UserFiles interface {
	FindFilesByWriter(ctx context.Context, writer domain.UserId) ([]domain.File, error)
	RemoveFromDisk(files []domain.File)
}

func NewUser(storage UserStorage, files UserFiles) *User {
	return &User{storage: storage, files: files}
}

func (u *User) FindById(ctx context.Context, id domain.UserId) (domain.User, error) {
	return u.storage.User(ctx, id)
}

// Login returns the user only when the password matches. Unknown id and
// wrong password both yield ErrInvalidCredentials.
func (u *User) Login(ctx context.Context, id domain.UserId, password string) (domain.User, error) {
	user, err := u.storage.User(ctx, id)
	if err != nil {
		if internal_errors.IsNotFound(err) {
			return domain.User{}, internal_errors.ErrInvalidCredentials
		}
		return domain.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PassHash), []byte(password)); err != nil {
		logger.Log.Info("password verification failed", "user_id", id)
		return domain.User{}, internal_errors.ErrInvalidCredentials
	}
	return user, nil
}

func (u *User) SignUp(ctx context.Context, data domain.SignUpData) error {
	if err := validation.Struct(data); err != nil {
		return err
	}
	if err := checkPasswordBytes(data.Password); err != nil {
		return err
	}

	// Advisory: the primary key still catches a concurrent signup.
	_, err := u.storage.User(ctx, data.Id)
	if err == nil {
		return internal_errors.ErrDuplicateId
	}
	if !internal_errors.IsNotFound(err) {
		return err
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(data.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return err
	}

	if err := u.storage.SaveUser(ctx, domain.User{
		Id:       data.Id,
		PassHash: string(passHash),
		Name:     data.Name,
		Email:    data.Email,
	}); err != nil {
		return err
	}
	logger.Log.Info("user signed up", "user_id", data.Id)
	return nil
}

// Modify overwrites name, email and password. An empty password keeps the
// current hash.
func (u *User) Modify(ctx context.Context, data domain.ProfileData) error {
	if err := validation.Struct(data); err != nil {
		return err
	}
	if err := checkPasswordBytes(data.Password); err != nil {
		return err
	}

	current, err := u.storage.User(ctx, data.Id)
	if err != nil {
		return err
	}

	passHash := current.PassHash
	if data.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(data.Password), bcrypt.DefaultCost)
		if err != nil {
			logger.Log.Error("failed to hash password", "error", err)
			return err
		}
		passHash = string(hash)
	}

	return u.storage.UpdateUser(ctx, domain.User{
		Id:       data.Id,
		PassHash: passHash,
		Name:     data.Name,
		Email:    data.Email,
	})
}

// Remove deletes the account. Posts and attachment rows go with it through
// the foreign keys; attachment content is then removed from disk.
func (u *User) Remove(ctx context.Context, id domain.UserId) error {
	files, err := u.files.FindFilesByWriter(ctx, id)
	if err != nil {
		return err
	}

	if err := u.storage.DeleteUser(ctx, id); err != nil {
		return err
	}

	u.files.RemoveFromDisk(files)
	logger.Log.Info("user removed", "user_id", id, "files", len(files))
	return nil
}

// checkPasswordBytes rejects passwords bcrypt cannot hash. Multibyte text can
// pass the rune-counting tag and still be too long.
func checkPasswordBytes(password string) error {
	if len(password) > domain.PasswordMaxBytes {
		return internal_errors.BadRequest(fmt.Sprintf("Password must be at most %d bytes", domain.PasswordMaxBytes))
	}
	return nil
}
