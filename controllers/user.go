package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"dollers-electro/middleware"
	"dollers-electro/models"
	"dollers-electro/utils"
)

// UserController handles user-related requests
type UserController struct {
	Collection   *mongo.Collection
	EmailService *utils.EmailService
	Log          zerolog.Logger
}

// NewUserController creates a new UserController
func NewUserController(db *mongo.Database, emailService *utils.EmailService, log zerolog.Logger) *UserController {
	return &UserController{
		Collection:   db.Collection("users"),
		EmailService: emailService,
		Log:          log,
	}
}

// Register handles user registration
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string         `json:"username"`
		Email    string         `json:"email"`
		Password string         `json:"password"`
		Phone    string         `json:"phone"`
		Address  models.Address `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if req.Email == "" {
		respondError(w, http.StatusBadRequest, "Email is required")
		return
	}
	if err := utils.ValidatePasswordStrength(req.Password); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Check if user already exists
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	count, err := uc.Collection.CountDocuments(ctx, bson.M{"email": req.Email})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if count > 0 {
		respondError(w, http.StatusBadRequest, "User already exists")
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Error hashing password")
		return
	}

	verificationToken, err := utils.GenerateSecureToken(32)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Error generating verification token")
		return
	}

	now := time.Now().UTC()
	user := models.User{
		ID:                uuid.NewString(),
		Username:          req.Username,
		Email:             req.Email,
		Password:          hashedPassword,
		Phone:             req.Phone,
		Address:           req.Address,
		Role:              models.RoleCustomer,
		IsActive:          true,
		IsEmailVerified:   false,
		VerificationToken: verificationToken,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if _, err := uc.Collection.InsertOne(ctx, user); err != nil {
		respondError(w, http.StatusInternalServerError, "Error creating user")
		return
	}

	// Verification email is best effort; registration succeeds regardless.
	if err := uc.EmailService.SendVerificationEmail(user.Email, verificationToken); err != nil {
		uc.Log.Warn().Err(err).Str("email", user.Email).Msg("failed to send verification email")
	}

	respondMessage(w, http.StatusCreated, "User registered successfully. Please check your email to verify your account.")
}

// VerifyEmail handles email verification
func (uc *UserController) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		respondError(w, http.StatusBadRequest, "Verification token missing")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	var user models.User
	if err := uc.Collection.FindOne(ctx, bson.M{"verification_token": token}).Decode(&user); err != nil {
		respondError(w, http.StatusBadRequest, "User not found or already verified")
		return
	}

	_, err := uc.Collection.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{
		"$set": bson.M{
			"is_email_verified":  true,
			"verification_token": "",
			"updated_at":         time.Now().UTC(),
		},
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Error updating user verification status")
		return
	}

	respondMessage(w, http.StatusOK, "Email verified successfully. You can now log in.")
}

// Login handles user authentication
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	var user models.User
	if err := uc.Collection.FindOne(ctx, bson.M{"email": creds.Email}).Decode(&user); err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if !user.IsActive {
		respondError(w, http.StatusUnauthorized, "Account is deactivated")
		return
	}
	if !user.IsEmailVerified {
		respondError(w, http.StatusUnauthorized, "Email not verified")
		return
	}

	if err := utils.CheckPassword(user.Password, creds.Password); err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := utils.GenerateJWT(user.Email, user.Role)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Error generating token")
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{
		"token":                token,
		"must_change_password": user.MustChangePassword,
	})
}

// ForgotPassword issues a reset token and emails a reset link
func (uc *UserController) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	var user models.User
	if err := uc.Collection.FindOne(ctx, bson.M{"email": req.Email}).Decode(&user); err != nil {
		// Do not reveal whether the account exists.
		respondMessage(w, http.StatusOK, "If that email is registered, a reset link has been sent.")
		return
	}

	resetToken, err := utils.GenerateSecureToken(32)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Error generating reset token")
		return
	}

	expires := time.Now().UTC().Add(1 * time.Hour)
	_, err = uc.Collection.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{
		"$set": bson.M{
			"reset_token":         resetToken,
			"reset_token_expires": expires,
			"updated_at":          time.Now().UTC(),
		},
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Error storing reset token")
		return
	}

	if err := uc.EmailService.SendPasswordResetEmail(user.Email, resetToken); err != nil {
		uc.Log.Warn().Err(err).Str("email", user.Email).Msg("failed to send reset email")
	}

	respondMessage(w, http.StatusOK, "If that email is registered, a reset link has been sent.")
}

// ResetPassword sets a new password from a valid reset token
func (uc *UserController) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ResetToken  string `json:"resetToken"`
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if req.ResetToken == "" {
		respondError(w, http.StatusBadRequest, "Reset token missing")
		return
	}
	// Validate strength before touching the database.
	if err := utils.ValidatePasswordStrength(req.NewPassword); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	var user models.User
	if err := uc.Collection.FindOne(ctx, bson.M{"reset_token": req.ResetToken}).Decode(&user); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid or expired reset token")
		return
	}
	if user.ResetTokenExpires == nil || time.Now().UTC().After(*user.ResetTokenExpires) {
		respondError(w, http.StatusBadRequest, "Invalid or expired reset token")
		return
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Error hashing password")
		return
	}

	_, err = uc.Collection.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{
		"$set": bson.M{
			"password":             hashed,
			"must_change_password": false,
			"updated_at":           time.Now().UTC(),
		},
		"$unset": bson.M{
			"reset_token":         "",
			"reset_token_expires": "",
		},
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Error updating password")
		return
	}

	respondMessage(w, http.StatusOK, "Password reset successfully. You can now log in.")
}

// GetProfile retrieves the authenticated user's profile
func (uc *UserController) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Could not parse user from context")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	var user models.User
	if err := uc.Collection.FindOne(ctx, bson.M{"email": claims.Email}).Decode(&user); err != nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	user.Sanitize()
	respondData(w, http.StatusOK, map[string]interface{}{"user": user})
}
