package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"dollers-electro/models"
	"dollers-electro/store"
	"dollers-electro/utils"
)

// Default capability sets per privileged role.
var rolePermissions = map[string][]string{
	models.RoleAdmin:    {"manage_products", "manage_orders", "manage_users", "view_reports"},
	models.RoleEmployee: {"manage_orders", "view_products"},
}

// ProvisionRequest describes the privileged account to ensure.
type ProvisionRequest struct {
	Email    string
	Username string
	Role     string // "admin" or "employee"

	// Employment fields, optional.
	EmployeeID   string
	Department   string
	Position     string
	SupervisorID string
}

// ProvisionResult reports what EnsureAccount did. TempPassword carries the
// generated plaintext credential exactly once, only when Created is true;
// it is never persisted in plaintext.
type ProvisionResult struct {
	User         models.User
	Created      bool
	TempPassword string
}

// EnsureAccount guarantees a privileged account exists for the given email.
// When the account is absent it is created with a generated temporary
// credential and MustChangePassword set, forcing a first-login change.
// When it is already present the existing credential is left untouched, so
// the procedure is safe to run repeatedly.
func EnsureAccount(ctx context.Context, st store.Store, log zerolog.Logger, req ProvisionRequest) (*ProvisionResult, error) {
	if req.Role != models.RoleAdmin && req.Role != models.RoleEmployee {
		return nil, fmt.Errorf("seed: role must be %q or %q, got %q", models.RoleAdmin, models.RoleEmployee, req.Role)
	}
	if req.Email == "" {
		return nil, fmt.Errorf("seed: email is required")
	}

	var users []models.User
	if err := st.Load(ctx, store.CollectionUsers, &users); err != nil {
		return nil, fmt.Errorf("seed: load users: %w", err)
	}

	for i := range users {
		if strings.EqualFold(users[i].Email, req.Email) {
			log.Info().Str("email", req.Email).Str("role", users[i].Role).Msg("account already exists, credential untouched")
			return &ProvisionResult{User: users[i], Created: false}, nil
		}
	}

	tempPassword, err := utils.GenerateTempPassword(12)
	if err != nil {
		return nil, err
	}
	hashed, err := utils.HashPassword(tempPassword)
	if err != nil {
		return nil, err
	}

	username := req.Username
	if username == "" {
		username = strings.SplitN(req.Email, "@", 2)[0]
	}

	now := time.Now().UTC()
	hireDate := now
	user := models.User{
		ID:                 uuid.NewString(),
		Username:           username,
		Email:              req.Email,
		Password:           hashed,
		Role:               req.Role,
		IsActive:           true,
		IsEmailVerified:    true,
		MustChangePassword: true,
		EmployeeID:         req.EmployeeID,
		Department:         req.Department,
		Position:           req.Position,
		HireDate:           &hireDate,
		SupervisorID:       req.SupervisorID,
		Permissions:        rolePermissions[req.Role],
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	users = append(users, user)
	if err := st.Save(ctx, store.CollectionUsers, users); err != nil {
		return nil, fmt.Errorf("seed: save users: %w", err)
	}

	log.Info().Str("email", req.Email).Str("role", req.Role).Msg("provisioned account")
	return &ProvisionResult{User: user, Created: true, TempPassword: tempPassword}, nil
}
