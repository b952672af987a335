package service

import (
	"bitbybit_backend/internal/config"
	"bitbybit_backend/internal/model"
	"bitbybit_backend/internal/repository"
	"bitbybit_backend/internal/util"
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	UserRepo *repository.UserRepository
	Cfg      *config.Config
	Redis    *redis.Client
	SMS      *SMSService
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config, rdb *redis.Client, sms *SMSService) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Cfg:      cfg,
		Redis:    rdb,
		SMS:      sms,
	}
}

type LoginResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

func (s *AuthService) Register(user *model.User) error {
	_, err := s.UserRepo.FindByEmail(user.Email)
	if err == nil {
		return util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if user.Phone != "" {
		_, err = s.UserRepo.FindByPhone(user.Phone)
		if err == nil {
			return util.ErrPhoneRegistered
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashedPassword)
	return s.UserRepo.Create(user)
}

// Login enforces the single-active-device rule. A user whose counter has ever
// advanced holds a live session somewhere; without force the call is rejected
// with ErrSessionConflict so the client can confirm. A confirmed login bumps
// the counter, which strands every previously issued token.
func (s *AuthService) Login(email, password string, force bool) (*LoginResult, error) {
	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		return nil, util.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, util.ErrInvalidCredentials
	}

	return s.issueSession(user, force)
}

func (s *AuthService) issueSession(user *model.User, force bool) (*LoginResult, error) {
	if user.TokenVersion > 0 && !force {
		return nil, util.ErrSessionConflict
	}

	version, err := s.UserRepo.BumpTokenVersion(user.ID)
	if err != nil {
		return nil, err
	}
	user.TokenVersion = version

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, User: user}, nil
}

func otpKey(phone string) string {
	return "otp:" + phone
}

// RequestOTP issues a short-lived code for phone login. Unknown phones are
// rejected up front so no SMS is wasted on them.
func (s *AuthService) RequestOTP(ctx context.Context, phone string) error {
	_, err := s.UserRepo.FindByPhone(phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrNotRegistered
		}
		return err
	}

	code, err := GenerateOTP()
	if err != nil {
		return err
	}

	ttl := s.SMS.OTPTTL()
	if err := s.Redis.Set(ctx, otpKey(phone), code, ttl).Err(); err != nil {
		return err
	}

	return s.SMS.SendOTP(phone, code)
}

// VerifyOTP exchanges a valid code for a session token, with the same
// conflict rules as password login. The code is single-use.
func (s *AuthService) VerifyOTP(ctx context.Context, phone, code string, force bool) (*LoginResult, error) {
	stored, err := s.Redis.Get(ctx, otpKey(phone)).Result()
	if err != nil && err != redis.Nil {
		return nil, err
	}
	if err == redis.Nil || stored != code {
		return nil, util.ErrInvalidOTP
	}

	user, err := s.UserRepo.FindByPhone(phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotRegistered
		}
		return nil, err
	}

	result, err := s.issueSession(user, force)
	if err != nil {
		return nil, err
	}

	s.Redis.Del(ctx, otpKey(phone))
	return result, nil
}

// FirebaseExchange trades a Firebase phone ID token for a backend session.
// The phone number is resolved through the identitytoolkit lookup endpoint.
func (s *AuthService) FirebaseExchange(idToken string, force bool) (*LoginResult, error) {
	phone, err := lookupFirebasePhone(s.Cfg.Firebase, idToken)
	if err != nil {
		return nil, err
	}
	if phone == "" {
		return nil, fmt.Errorf("firebase token carries no phone number")
	}

	user, err := s.UserRepo.FindByPhone(phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotRegistered
		}
		return nil, err
	}

	return s.issueSession(user, force)
}

func (s *AuthService) GetCurrentUser(c *gin.Context) *model.User {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		return nil
	}

	user, _ := s.UserRepo.FindByID(claims.UserID)
	return user
}
