package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"log"
	"strings"
	"time"

	"printshop/internal/domain"
	tokenrepo "printshop/internal/repository/token"
	userrepo "printshop/internal/repository/user"

	"golang.org/x/crypto/bcrypt"
)

// Service handles registration, login, and the refresh-token flow.
type Service struct {
	users       userrepo.Repository
	loyalty     loyaltyRepo
	tokens      *tokenManager
	logger      *log.Logger
	passwordMin int
}

type loyaltyRepo interface {
	Get(ctx context.Context) (*domain.LoyaltySettings, error)
}

func New(users userrepo.Repository, tokens tokenrepo.Repository, loyalty loyaltyRepo, secret string, accessTTL, refreshTTL time.Duration, logger *log.Logger) *Service {
	return &Service{
		users:       users,
		loyalty:     loyalty,
		tokens:      newTokenManager(tokens, secret, accessTTL, refreshTTL),
		logger:      logger,
		passwordMin: 8,
	}
}

type RegisterInput struct {
	Email        string  `json:"email"`
	Password     string  `json:"password"`
	Phone        *string `json:"phone,omitempty"`
	FirstName    *string `json:"firstName,omitempty"`
	LastName     *string `json:"lastName,omitempty"`
	ReferralCode *string `json:"referralCode,omitempty"`
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Register creates an account. Signing up through someone's referral
// code credits the referrer with the configured bonus.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, *TokenPair, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, nil, errors.New("valid email required")
	}
	password := strings.TrimSpace(in.Password)
	if len(password) < s.passwordMin {
		return nil, nil, errors.New("password too short")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	var referredBy *int64
	if in.ReferralCode != nil && strings.TrimSpace(*in.ReferralCode) != "" {
		referrer, err := s.users.GetByReferralCode(ctx, strings.TrimSpace(*in.ReferralCode))
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				return nil, nil, err
			}
			// unknown codes are ignored, signup still goes through
		} else {
			referredBy = &referrer.ID
		}
	}

	u, err := s.users.Create(ctx, userrepo.CreateUserInput{
		Email:        email,
		Phone:        in.Phone,
		PasswordHash: string(hashed),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         domain.RoleCustomer,
		ReferralCode: newReferralCode(),
		ReferredBy:   referredBy,
	})
	if err != nil {
		return nil, nil, err
	}

	if referredBy != nil {
		s.creditReferrer(ctx, *referredBy, u.ID)
	}

	pair, err := s.issuePair(ctx, u)
	if err != nil {
		return nil, nil, err
	}
	return u, pair, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, *TokenPair, error) {
	u, err := s.users.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if !u.IsActive {
		return nil, nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(strings.TrimSpace(password))); err != nil {
		return nil, nil, domain.ErrInvalidCredentials
	}
	pair, err := s.issuePair(ctx, u)
	if err != nil {
		return nil, nil, err
	}
	return u, pair, nil
}

// Refresh exchanges a refresh token for a new pair. The old token is
// spent even when issuing fails later.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*domain.User, *TokenPair, error) {
	userID, next, err := s.tokens.Rotate(ctx, refreshToken)
	if err != nil {
		return nil, nil, err
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, domain.ErrInvalidToken
	}
	access, err := s.tokens.IssueAccess(u.ID, u.Role)
	if err != nil {
		return nil, nil, err
	}
	return u, &TokenPair{AccessToken: access, RefreshToken: next}, nil
}

func (s *Service) Logout(ctx context.Context, userID int64) error {
	return s.tokens.RevokeAll(ctx, userID)
}

// Identity resolves a bearer token into the user id and role carried
// in its claims.
func (s *Service) Identity(token string) (int64, string, error) {
	return s.tokens.ValidateAccess(token)
}

func (s *Service) Profile(ctx context.Context, userID int64) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, in userrepo.UpdateProfileInput) (*domain.User, error) {
	return s.users.UpdateProfile(ctx, userID, in)
}

func (s *Service) BonusHistory(ctx context.Context, userID int64) ([]domain.BonusTransaction, error) {
	return s.users.BonusHistory(ctx, userID)
}

func (s *Service) ReferralCount(ctx context.Context, userID int64) (int64, error) {
	return s.users.CountReferrals(ctx, userID)
}

func (s *Service) issuePair(ctx context.Context, u *domain.User) (*TokenPair, error) {
	access, err := s.tokens.IssueAccess(u.ID, u.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefresh(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *Service) creditReferrer(ctx context.Context, referrerID, newUserID int64) {
	settings, err := s.loyalty.Get(ctx)
	if err != nil || !settings.IsEnabled || settings.ReferralBonus <= 0 {
		return
	}
	err = s.users.AdjustBonus(ctx, domain.BonusTransaction{
		UserID:  referrerID,
		Amount:  settings.ReferralBonus,
		Kind:    domain.BonusReferral,
		Comment: "referral signup",
	})
	if err != nil {
		s.logger.Printf("credit referrer %d for user %d: %v", referrerID, newUserID, err)
	}
}

const referralAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func newReferralCode() string {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	out := make([]byte, len(buf))
	for i, b := range buf {
		out[i] = referralAlphabet[int(b)%len(referralAlphabet)]
	}
	return string(out)
}
