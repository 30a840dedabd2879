package httpserver

import (
	"context"
	"net/http"

	"printshop/internal/domain"
	userrepo "printshop/internal/repository/user"
	authsvc "printshop/internal/service/auth"

	"github.com/gin-gonic/gin"
)

type authService interface {
	identityService
	Register(ctx context.Context, in authsvc.RegisterInput) (*domain.User, *authsvc.TokenPair, error)
	Login(ctx context.Context, email, password string) (*domain.User, *authsvc.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.User, *authsvc.TokenPair, error)
	Logout(ctx context.Context, userID int64) error
	Profile(ctx context.Context, userID int64) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID int64, in userrepo.UpdateProfileInput) (*domain.User, error)
	BonusHistory(ctx context.Context, userID int64) ([]domain.BonusTransaction, error)
	ReferralCount(ctx context.Context, userID int64) (int64, error)
}

type sessionResponse struct {
	User         *domain.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

func registerHandler(auth authService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req authsvc.RegisterInput
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "invalid request body")
			return
		}
		u, pair, err := auth.Register(c.Request.Context(), req)
		if err != nil {
			if err == domain.ErrAlreadyExists {
				respondServiceError(c, err)
				return
			}
			respondValidation(c, err.Error())
			return
		}
		respondData(c, http.StatusCreated, sessionResponse{User: u, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
	}
}

func loginHandler(auth authService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email" binding:"required"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "email and password required")
			return
		}
		u, pair, err := auth.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusOK, sessionResponse{User: u, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
	}
}

func refreshHandler(auth authService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			RefreshToken string `json:"refreshToken" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "refreshToken required")
			return
		}
		u, pair, err := auth.Refresh(c.Request.Context(), req.RefreshToken)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusOK, sessionResponse{User: u, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
	}
}

func logoutHandler(auth authService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := currentUserID(c)
		if err := auth.Logout(c.Request.Context(), userID); err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusOK, gin.H{"loggedOut": true})
	}
}

func profileHandler(auth authService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := currentUserID(c)
		u, err := auth.Profile(c.Request.Context(), userID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusOK, u)
	}
}

func updateProfileHandler(auth authService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := currentUserID(c)
		var req userrepo.UpdateProfileInput
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "invalid request body")
			return
		}
		u, err := auth.UpdateProfile(c.Request.Context(), userID, req)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusOK, u)
	}
}

func bonusesHandler(auth authService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := currentUserID(c)
		history, err := auth.BonusHistory(c.Request.Context(), userID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusOK, gin.H{"history": history})
	}
}

// referralHandler returns the user's own referral code and how many
// signups it brought in.
func referralHandler(auth authService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := currentUserID(c)
		u, err := auth.Profile(c.Request.Context(), userID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		count, err := auth.ReferralCount(c.Request.Context(), userID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusOK, gin.H{
			"referralCode":  u.ReferralCode,
			"referralCount": count,
		})
	}
}
