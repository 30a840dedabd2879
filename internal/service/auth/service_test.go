package auth

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"printshop/internal/domain"
	tokenrepo "printshop/internal/repository/token"
	userrepo "printshop/internal/repository/user"
)

type memTokenRepo struct {
	tokens map[string]tokenrepo.RefreshToken
}

func newMemTokenRepo() *memTokenRepo {
	return &memTokenRepo{tokens: map[string]tokenrepo.RefreshToken{}}
}

func (r *memTokenRepo) Create(_ context.Context, t tokenrepo.RefreshToken) error {
	r.tokens[t.Token] = t
	return nil
}

func (r *memTokenRepo) Get(_ context.Context, token string) (*tokenrepo.RefreshToken, error) {
	t, ok := r.tokens[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (r *memTokenRepo) Delete(_ context.Context, token string) error {
	delete(r.tokens, token)
	return nil
}

func (r *memTokenRepo) DeleteByUser(_ context.Context, userID int64) error {
	for k, t := range r.tokens {
		if t.UserID == userID {
			delete(r.tokens, k)
		}
	}
	return nil
}

type stubUserRepo struct {
	users   map[int64]*domain.User
	byCode  map[string]*domain.User
	created []userrepo.CreateUserInput
	adjusts []domain.BonusTransaction
	nextID  int64
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		users:  map[int64]*domain.User{},
		byCode: map[string]*domain.User{},
		nextID: 100,
	}
}

func (r *stubUserRepo) Create(_ context.Context, in userrepo.CreateUserInput) (*domain.User, error) {
	r.nextID++
	r.created = append(r.created, in)
	u := &domain.User{
		ID:           r.nextID,
		Email:        in.Email,
		Role:         in.Role,
		ReferralCode: in.ReferralCode,
		ReferredBy:   in.ReferredBy,
		IsActive:     true,
	}
	r.users[u.ID] = u
	return u, nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubUserRepo) GetByReferralCode(_ context.Context, code string) (*domain.User, error) {
	u, ok := r.byCode[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, id int64, _ userrepo.UpdateProfileInput) (*domain.User, error) {
	return r.GetByID(context.Background(), id)
}

func (r *stubUserRepo) CountReferrals(_ context.Context, _ int64) (int64, error) { return 0, nil }

func (r *stubUserRepo) AdjustBonus(_ context.Context, tx domain.BonusTransaction) error {
	r.adjusts = append(r.adjusts, tx)
	return nil
}

func (r *stubUserRepo) BonusHistory(_ context.Context, _ int64) ([]domain.BonusTransaction, error) {
	return nil, nil
}

type stubLoyaltyRepo struct {
	settings domain.LoyaltySettings
}

func (r *stubLoyaltyRepo) Get(_ context.Context) (*domain.LoyaltySettings, error) {
	s := r.settings
	return &s, nil
}

func newTestService(users *stubUserRepo, tokens *memTokenRepo, loyalty *stubLoyaltyRepo) *Service {
	return New(users, tokens, loyalty, "test-secret", time.Minute, time.Hour, log.New(io.Discard, "", 0))
}

func TestRegister_AndIdentity(t *testing.T) {
	users := newStubUserRepo()
	svc := newTestService(users, newMemTokenRepo(), &stubLoyaltyRepo{})

	u, pair, err := svc.Register(context.Background(), RegisterInput{
		Email:    "User@Example.com",
		Password: "secret-pass",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Email != "user@example.com" {
		t.Fatalf("email = %q, want lowercased", u.Email)
	}
	if len(u.ReferralCode) != 8 {
		t.Fatalf("referral code = %q, want 8 chars", u.ReferralCode)
	}

	uid, role, err := svc.Identity(pair.AccessToken)
	if err != nil {
		t.Fatalf("identity: %v", err)
	}
	if uid != u.ID || role != domain.RoleCustomer {
		t.Fatalf("identity = %d/%s, want %d/%s", uid, role, u.ID, domain.RoleCustomer)
	}
}

func TestRegister_ReferralCredit(t *testing.T) {
	users := newStubUserRepo()
	referrer := &domain.User{ID: 5, ReferralCode: "FRIEND22"}
	users.users[5] = referrer
	users.byCode["FRIEND22"] = referrer
	loyalty := &stubLoyaltyRepo{settings: domain.LoyaltySettings{
		IsEnabled:     true,
		ReferralBonus: 300,
	}}
	svc := newTestService(users, newMemTokenRepo(), loyalty)

	code := "FRIEND22"
	u, _, err := svc.Register(context.Background(), RegisterInput{
		Email:        "new@example.com",
		Password:     "secret-pass",
		ReferralCode: &code,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.ReferredBy == nil || *u.ReferredBy != 5 {
		t.Fatalf("referredBy = %v, want 5", u.ReferredBy)
	}
	if len(users.adjusts) != 1 || users.adjusts[0].UserID != 5 || users.adjusts[0].Amount != 300 {
		t.Fatalf("adjusts = %+v, want +300 for user 5", users.adjusts)
	}
}

func TestRegister_UnknownReferralIgnored(t *testing.T) {
	users := newStubUserRepo()
	svc := newTestService(users, newMemTokenRepo(), &stubLoyaltyRepo{})

	code := "NOPE1234"
	u, _, err := svc.Register(context.Background(), RegisterInput{
		Email:        "new@example.com",
		Password:     "secret-pass",
		ReferralCode: &code,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.ReferredBy != nil {
		t.Fatalf("referredBy = %v, want nil", u.ReferredBy)
	}
}

func TestRefresh_SingleUse(t *testing.T) {
	users := newStubUserRepo()
	svc := newTestService(users, newMemTokenRepo(), &stubLoyaltyRepo{})

	_, pair, err := svc.Register(context.Background(), RegisterInput{
		Email:    "user@example.com",
		Password: "secret-pass",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	_, next, err := svc.Refresh(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("first refresh: %v", err)
	}
	if next.RefreshToken == pair.RefreshToken {
		t.Fatal("refresh token was not rotated")
	}

	if _, _, err := svc.Refresh(context.Background(), pair.RefreshToken); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("reuse err = %v, want ErrInvalidToken", err)
	}

	if _, _, err := svc.Refresh(context.Background(), next.RefreshToken); err != nil {
		t.Fatalf("rotated token must stay valid: %v", err)
	}
}

func TestRefresh_Expired(t *testing.T) {
	users := newStubUserRepo()
	tokens := newMemTokenRepo()
	svc := newTestService(users, tokens, &stubLoyaltyRepo{})

	_, pair, err := svc.Register(context.Background(), RegisterInput{
		Email:    "user@example.com",
		Password: "secret-pass",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	stored := tokens.tokens[pair.RefreshToken]
	stored.ExpiresAt = time.Now().Add(-time.Minute)
	tokens.tokens[pair.RefreshToken] = stored

	if _, _, err := svc.Refresh(context.Background(), pair.RefreshToken); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
	if _, ok := tokens.tokens[pair.RefreshToken]; ok {
		t.Fatal("expired token must be consumed")
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	users := newStubUserRepo()
	svc := newTestService(users, newMemTokenRepo(), &stubLoyaltyRepo{})

	if _, _, err := svc.Login(context.Background(), "nobody@example.com", "whatever"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLogout_RevokesAllTokens(t *testing.T) {
	users := newStubUserRepo()
	tokens := newMemTokenRepo()
	svc := newTestService(users, tokens, &stubLoyaltyRepo{})

	u, _, err := svc.Register(context.Background(), RegisterInput{
		Email:    "user@example.com",
		Password: "secret-pass",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if len(tokens.tokens) == 0 {
		t.Fatal("expected a stored refresh token")
	}
	if err := svc.Logout(context.Background(), u.ID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(tokens.tokens) != 0 {
		t.Fatalf("tokens left after logout: %d", len(tokens.tokens))
	}
}

func TestValidateAccess_WrongSecret(t *testing.T) {
	m := newTokenManager(newMemTokenRepo(), "secret-a", time.Minute, time.Hour)
	other := newTokenManager(newMemTokenRepo(), "secret-b", time.Minute, time.Hour)

	token, err := m.IssueAccess(1, domain.RoleCustomer)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, _, err := other.ValidateAccess(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}
