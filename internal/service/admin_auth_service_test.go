package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"smartparking/internal/db"
)

type fakeAdmins struct {
	admins  map[string]*db.Admin
	created []string
}

func (f *fakeAdmins) GetByEmail(_ context.Context, email string) (*db.Admin, error) {
	if email == "broken@example.com" {
		return nil, errors.New("db down")
	}
	return f.admins[email], nil
}

func (f *fakeAdmins) CreateAdmin(_ context.Context, email, _ string) error {
	f.created = append(f.created, email)
	return nil
}

func newFakeAdmins(t *testing.T) *fakeAdmins {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret!"), bcrypt.MinCost)
	require.NoError(t, err)
	return &fakeAdmins{admins: map[string]*db.Admin{
		"admin@example.com": {ID: 4, Email: "admin@example.com", PasswordHash: string(hash)},
	}}
}

func TestAdminAuthService_Login(t *testing.T) {
	svc := NewAdminAuthService(newFakeAdmins(t), "signing-key", time.Hour)
	ctx := context.Background()

	signed, err := svc.Login(ctx, " Admin@Example.com ", "s3cret!")
	require.NoError(t, err)

	token, err := jwt.Parse(signed, func(*jwt.Token) (any, error) { return []byte("signing-key"), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "admin@example.com", claims["email"])
	assert.Equal(t, float64(4), claims["admin_id"])

	_, err = svc.Login(ctx, "admin@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "s3cret!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "broken@example.com", "s3cret!")
	assert.EqualError(t, err, "db down")
}

func TestAdminAuthService_LoginWithoutSecret(t *testing.T) {
	svc := NewAdminAuthService(newFakeAdmins(t), "", time.Hour)

	_, err := svc.Login(context.Background(), "admin@example.com", "s3cret!")
	assert.ErrorIs(t, err, ErrJWTSecretMissing)
}

func TestAdminAuthService_CreateAdmin(t *testing.T) {
	repo := newFakeAdmins(t)
	svc := NewAdminAuthService(repo, "k", time.Hour)

	require.NoError(t, svc.CreateAdmin(context.Background(), "New@Example.com", "pw"))
	assert.Equal(t, []string{"new@example.com"}, repo.created)

	assert.Error(t, svc.CreateAdmin(context.Background(), "", "pw"))
	assert.Error(t, svc.CreateAdmin(context.Background(), "x@example.com", ""))
}
