package auth_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"go-workforce/internal/auth"
	autherrors "go-workforce/internal/auth/errors"
	"go-workforce/internal/employee"
	employeeerrors "go-workforce/internal/employee/errors"
	"go-workforce/internal/rbac"
)

type fakeUserRepo struct {
	byEmail map[string]*auth.User
	byID    map[uuid.UUID]*auth.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: make(map[string]*auth.User),
		byID:    make(map[uuid.UUID]*auth.User),
	}
}

func (f *fakeUserRepo) Create(_ context.Context, user *auth.User) error {
	f.byEmail[user.Email] = user
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*auth.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*auth.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

type fakeEmployeeStore struct {
	employees map[string]*employee.Employee
}

func (f *fakeEmployeeStore) WithTx(_ *sql.Tx) employee.Repository             { return f }
func (f *fakeEmployeeStore) Create(_ context.Context, _ *employee.Employee) error { return nil }
func (f *fakeEmployeeStore) FindAll(_ context.Context) ([]employee.Employee, error) {
	return nil, nil
}
func (f *fakeEmployeeStore) FindOptions(_ context.Context) ([]employee.Employee, error) {
	return nil, nil
}
func (f *fakeEmployeeStore) FindByID(_ context.Context, id string) (*employee.Employee, error) {
	emp, ok := f.employees[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return emp, nil
}
func (f *fakeEmployeeStore) Update(_ context.Context, _ *employee.Employee) error { return nil }
func (f *fakeEmployeeStore) Delete(_ context.Context, _ string) error             { return nil }

func setupAuth(t *testing.T) (auth.Service, *fakeUserRepo, *fakeEmployeeStore) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	userRepo := newFakeUserRepo()
	employeeStore := &fakeEmployeeStore{employees: make(map[string]*employee.Employee)}
	return auth.NewService(userRepo, employeeStore, zap.NewNop()), userRepo, employeeStore
}

func seedUser(t *testing.T, repo *fakeUserRepo, email, password, role string) *auth.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	employeeID := uuid.New()
	user := &auth.User{
		ID:         uuid.New(),
		EmployeeID: &employeeID,
		Email:      email,
		Name:       "Test User",
		Password:   string(hashed),
		Role:       role,
		IsActive:   true,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestAuthLogin(t *testing.T) {
	t.Run("success issues tokens with identity claims", func(t *testing.T) {
		svc, repo, _ := setupAuth(t)
		user := seedUser(t, repo, "hr@example.com", "s3cretpass", rbac.RoleHR)

		access, refresh, resp, err := svc.Login(context.Background(), "hr@example.com", "s3cretpass")
		require.NoError(t, err)
		assert.NotEmpty(t, refresh)
		assert.Equal(t, rbac.RoleHR, resp.Role)

		token, err := jwt.Parse(access, func(_ *jwt.Token) (interface{}, error) {
			return []byte("test-secret"), nil
		})
		require.NoError(t, err)
		claims := token.Claims.(jwt.MapClaims)
		assert.Equal(t, user.ID.String(), claims["user_id"])
		assert.Equal(t, user.EmployeeID.String(), claims["employee_id"])
		assert.Equal(t, rbac.RoleHR, claims["role"])
	})

	t.Run("negative wrong password", func(t *testing.T) {
		svc, repo, _ := setupAuth(t)
		seedUser(t, repo, "hr@example.com", "s3cretpass", rbac.RoleHR)

		_, _, _, err := svc.Login(context.Background(), "hr@example.com", "wrong")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("negative unknown email", func(t *testing.T) {
		svc, _, _ := setupAuth(t)

		_, _, _, err := svc.Login(context.Background(), "ghost@example.com", "whatever")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})
}

func TestAuthRefreshToken(t *testing.T) {
	t.Run("success rotates token pair", func(t *testing.T) {
		svc, repo, _ := setupAuth(t)
		seedUser(t, repo, "hr@example.com", "s3cretpass", rbac.RoleHR)

		_, refresh, _, err := svc.Login(context.Background(), "hr@example.com", "s3cretpass")
		require.NoError(t, err)

		newAccess, newRefresh, resp, err := svc.RefreshToken(context.Background(), refresh)
		require.NoError(t, err)
		assert.NotEmpty(t, newAccess)
		assert.NotEmpty(t, newRefresh)
		assert.Equal(t, "hr@example.com", resp.Email)
	})

	t.Run("negative garbage token", func(t *testing.T) {
		svc, _, _ := setupAuth(t)

		_, _, _, err := svc.RefreshToken(context.Background(), "not.a.token")
		assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
	})
}

func TestAuthRegister(t *testing.T) {
	t.Run("success inherits the employee role", func(t *testing.T) {
		svc, repo, employees := setupAuth(t)
		employeeID := uuid.New()
		employees.employees[employeeID.String()] = &employee.Employee{
			ID:       employeeID,
			FullName: "Dian Pratama",
			Role:     rbac.RoleAdmin,
		}

		resp, err := svc.Register(context.Background(), auth.RegisterRequest{
			EmployeeID: employeeID.String(),
			Email:      "dian@example.com",
			Name:       "Dian Pratama",
			Password:   "longenoughpass",
		})
		require.NoError(t, err)
		assert.Equal(t, rbac.RoleAdmin, resp.Role)
		assert.Equal(t, employeeID.String(), resp.EmployeeID)

		stored, err := repo.GetByEmail(context.Background(), "dian@example.com")
		require.NoError(t, err)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("longenoughpass")))
	})

	t.Run("negative unknown employee", func(t *testing.T) {
		svc, _, _ := setupAuth(t)

		_, err := svc.Register(context.Background(), auth.RegisterRequest{
			EmployeeID: uuid.NewString(),
			Email:      "ghost@example.com",
			Name:       "Ghost",
			Password:   "longenoughpass",
		})
		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}

func TestAuthGetMe(t *testing.T) {
	svc, repo, _ := setupAuth(t)
	user := seedUser(t, repo, "hr@example.com", "s3cretpass", rbac.RoleHR)

	t.Run("success", func(t *testing.T) {
		resp, err := svc.GetMe(context.Background(), user.ID.String())
		require.NoError(t, err)
		assert.Equal(t, user.Email, resp.Email)
	})

	t.Run("negative malformed id", func(t *testing.T) {
		_, err := svc.GetMe(context.Background(), "not-a-uuid")
		assert.ErrorIs(t, err, autherrors.ErrInvalidUserID)
	})
}
