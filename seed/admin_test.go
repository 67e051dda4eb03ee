package seed_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dollers-electro/models"
	"dollers-electro/seed"
	"dollers-electro/store"
	"dollers-electro/utils"
)

func TestEnsureAccount_CreatesAdmin(t *testing.T) {
	st := store.NewFileStore(t.TempDir(), false, zerolog.Nop())
	ctx := context.Background()

	res, err := seed.EnsureAccount(ctx, st, zerolog.Nop(), seed.ProvisionRequest{
		Email: "admin@dollerselectro.com",
		Role:  models.RoleAdmin,
	})
	require.NoError(t, err)
	require.True(t, res.Created)

	// Temporary credential is surfaced once, satisfies the password policy
	// and is never stored in plaintext.
	require.NotEmpty(t, res.TempPassword)
	assert.NoError(t, utils.ValidatePasswordStrength(res.TempPassword))
	assert.NotEqual(t, res.TempPassword, res.User.Password)
	assert.NoError(t, utils.CheckPassword(res.User.Password, res.TempPassword))

	assert.Equal(t, models.RoleAdmin, res.User.Role)
	assert.True(t, res.User.MustChangePassword, "first login must force a credential change")
	assert.True(t, res.User.IsActive)
	assert.Contains(t, res.User.Permissions, "manage_users")

	var users []models.User
	require.NoError(t, st.Load(ctx, store.CollectionUsers, &users))
	require.Len(t, users, 1)
}

func TestEnsureAccount_Idempotent(t *testing.T) {
	st := store.NewFileStore(t.TempDir(), false, zerolog.Nop())
	ctx := context.Background()
	req := seed.ProvisionRequest{Email: "admin@dollerselectro.com", Role: models.RoleAdmin}

	first, err := seed.EnsureAccount(ctx, st, zerolog.Nop(), req)
	require.NoError(t, err)
	require.True(t, first.Created)

	second, err := seed.EnsureAccount(ctx, st, zerolog.Nop(), req)
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Empty(t, second.TempPassword, "a second run must not surface any credential")
	assert.Equal(t, first.User.Password, second.User.Password, "a second run must not overwrite the credential")

	var users []models.User
	require.NoError(t, st.Load(ctx, store.CollectionUsers, &users))
	assert.Len(t, users, 1, "exactly one privileged account per target email")
}

func TestEnsureAccount_EmailMatchIsCaseInsensitive(t *testing.T) {
	st := store.NewFileStore(t.TempDir(), false, zerolog.Nop())
	ctx := context.Background()

	_, err := seed.EnsureAccount(ctx, st, zerolog.Nop(), seed.ProvisionRequest{
		Email: "Admin@DollersElectro.com",
		Role:  models.RoleAdmin,
	})
	require.NoError(t, err)

	res, err := seed.EnsureAccount(ctx, st, zerolog.Nop(), seed.ProvisionRequest{
		Email: "admin@dollerselectro.com",
		Role:  models.RoleAdmin,
	})
	require.NoError(t, err)
	assert.False(t, res.Created)
}

func TestEnsureAccount_EmployeeFields(t *testing.T) {
	st := store.NewFileStore(t.TempDir(), false, zerolog.Nop())

	res, err := seed.EnsureAccount(context.Background(), st, zerolog.Nop(), seed.ProvisionRequest{
		Email:        "clerk@dollerselectro.com",
		Username:     "clerk1",
		Role:         models.RoleEmployee,
		EmployeeID:   "EMP-042",
		Department:   "fulfillment",
		Position:     "warehouse clerk",
		SupervisorID: "u-supervisor",
	})
	require.NoError(t, err)
	require.True(t, res.Created)

	assert.Equal(t, models.RoleEmployee, res.User.Role)
	assert.Equal(t, "EMP-042", res.User.EmployeeID)
	assert.Equal(t, "fulfillment", res.User.Department)
	assert.Equal(t, "u-supervisor", res.User.SupervisorID)
	require.NotNil(t, res.User.HireDate)
	assert.Contains(t, res.User.Permissions, "manage_orders")
	assert.NotContains(t, res.User.Permissions, "manage_users")
}

func TestEnsureAccount_RejectsCustomerRole(t *testing.T) {
	st := store.NewFileStore(t.TempDir(), false, zerolog.Nop())

	_, err := seed.EnsureAccount(context.Background(), st, zerolog.Nop(), seed.ProvisionRequest{
		Email: "someone@example.com",
		Role:  models.RoleCustomer,
	})
	assert.Error(t, err)
}
