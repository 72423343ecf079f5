package services

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/koki198977/recomiendame-coach-app-sub001/models"
	"github.com/koki198977/recomiendame-coach-app-sub001/utils"
)

type AuthService struct {
	db *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

func (s *AuthService) Register(email, password, firstName, lastName string) error {
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	base := strings.ToLower(strings.ReplaceAll(firstName, " ", ""))
	userID := fmt.Sprintf("%s%d", base, rand.Intn(100000))

	user := models.User{
		UserID:    userID,
		Email:     email,
		Password:  hashedPassword,
		FirstName: firstName,
		LastName:  lastName,
		Disabled:  false,
	}
	return s.db.Create(&user).Error
}

func (s *AuthService) Authenticate(email, password string) (string, error) {
	var user models.User
	if err := s.db.Where("email = ? AND disabled = ?", email, false).First(&user).Error; err != nil {
		return "", errors.New("user not found or disabled")
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		return "", errors.New("incorrect password")
	}
	return utils.GenerateJWT(user.Email)
}

// RequestPasswordReset issues a one-hour reset token and mails it.
func (s *AuthService) RequestPasswordReset(email string) error {
	var user models.User
	if err := s.db.Where("email = ? AND disabled = ?", email, false).First(&user).Error; err != nil {
		return errors.New("user not found or disabled")
	}

	token := utils.GenerateRandomToken(32)
	user.ResetToken = token
	user.ResetTokenExp = time.Now().Add(time.Hour)
	if err := s.db.Save(&user).Error; err != nil {
		return err
	}
	return utils.SendResetEmail(user.Email, token)
}

func (s *AuthService) ResetPassword(token, newPassword string) error {
	var user models.User
	if err := s.db.Where("reset_token = ?", token).First(&user).Error; err != nil {
		return errors.New("invalid reset token")
	}
	if time.Now().After(user.ResetTokenExp) {
		return errors.New("reset token expired")
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.Password = hashed
	user.ResetToken = ""
	user.ResetTokenExp = time.Time{}
	return s.db.Save(&user).Error
}

// SendMFACode generates and mails a 6-digit login code.
func (s *AuthService) SendMFACode(email string) error {
	var user models.User
	if err := s.db.Where("email = ? AND disabled = ? AND mfa_enabled = ?", email, false, true).First(&user).Error; err != nil {
		return errors.New("user not found or MFA not enabled")
	}

	code := fmt.Sprintf("%06d", rand.Intn(1000000))
	user.MFACode = code
	if err := s.db.Save(&user).Error; err != nil {
		return err
	}
	return utils.SendMFAEmail(user.Email, code)
}

func (s *AuthService) VerifyMFACode(email, code string) (string, error) {
	var user models.User
	if err := s.db.Where("email = ? AND disabled = ?", email, false).First(&user).Error; err != nil {
		return "", errors.New("user not found or disabled")
	}
	if user.MFACode == "" || user.MFACode != code {
		return "", errors.New("invalid verification code")
	}
	user.MFACode = ""
	if err := s.db.Save(&user).Error; err != nil {
		return "", err
	}
	return utils.GenerateJWT(user.Email)
}
