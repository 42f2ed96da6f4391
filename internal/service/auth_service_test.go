package service

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"tuitionpay/internal/models"
	"tuitionpay/pkg/utils"
)

func testCustomer(t *testing.T, username, password string) *models.Customer {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.Customer{
		ID:               uuid.New(),
		Username:         username,
		PasswordHash:     string(hash),
		FullName:         "Alice Nguyen",
		PhoneNumber:      "0901234567",
		Email:            "alice@example.edu",
		AvailableBalance: 5_000_000,
		Program:          "Software Engineering",
	}
}

func TestLoginSuccess(t *testing.T) {
	customer := testCustomer(t, "alice", "correct")
	svc := NewAuthService(newFakeCustomerRepo(customer), newFakeSessionRepo(), 30*time.Minute)

	result, err := svc.Login(context.Background(), "alice", "correct")
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{64}$`), result.Token)
	assert.Equal(t, customer.ID, result.User.ID)
	assert.Equal(t, int64(5_000_000), result.User.AvailableBalance)

	raw, err := json.Marshal(result.User)
	require.NoError(t, err)
	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.NotContains(t, fields, "password_hash")
	assert.NotContains(t, string(raw), customer.PasswordHash)
}

func TestLoginTrimsUsername(t *testing.T) {
	customer := testCustomer(t, "alice", "correct")
	svc := NewAuthService(newFakeCustomerRepo(customer), newFakeSessionRepo(), 30*time.Minute)

	_, err := svc.Login(context.Background(), "  alice  ", "correct")
	assert.NoError(t, err)
}

func TestLoginGenericFailureMessage(t *testing.T) {
	customer := testCustomer(t, "alice", "correct")
	svc := NewAuthService(newFakeCustomerRepo(customer), newFakeSessionRepo(), 30*time.Minute)

	_, unknownUserErr := svc.Login(context.Background(), "nobody", "whatever")
	_, wrongPasswordErr := svc.Login(context.Background(), "alice", "wrong")

	require.Error(t, unknownUserErr)
	require.Error(t, wrongPasswordErr)
	assert.Equal(t, unknownUserErr, wrongPasswordErr)
	assert.Equal(t, "Invalid username or password", unknownUserErr.Error())
}

func TestLoginValidation(t *testing.T) {
	svc := NewAuthService(newFakeCustomerRepo(), newFakeSessionRepo(), 30*time.Minute)

	_, err := svc.Login(context.Background(), "   ", "pw")
	assert.Equal(t, utils.ErrValidation, err)

	_, err = svc.Login(context.Background(), "alice", "")
	assert.Equal(t, utils.ErrValidation, err)
}

func TestLoginStorageFailure(t *testing.T) {
	repo := newFakeCustomerRepo()
	repo.lookupErr = assert.AnError
	svc := NewAuthService(repo, newFakeSessionRepo(), 30*time.Minute)

	_, err := svc.Login(context.Background(), "alice", "correct")
	assert.Equal(t, utils.ErrInternalServer, err)
}

func TestAuthenticateRoundTrip(t *testing.T) {
	customer := testCustomer(t, "alice", "correct")
	sessions := newFakeSessionRepo()
	svc := NewAuthService(newFakeCustomerRepo(customer), sessions, 30*time.Minute)

	result, err := svc.Login(context.Background(), "alice", "correct")
	require.NoError(t, err)

	got, err := svc.Authenticate(context.Background(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, customer.ID, got.ID)

	require.NoError(t, svc.Logout(context.Background(), result.Token))

	_, err = svc.Authenticate(context.Background(), result.Token)
	assert.Equal(t, utils.ErrUnauthorized, err)
}

func TestAuthenticateRejectsEmptyToken(t *testing.T) {
	svc := NewAuthService(newFakeCustomerRepo(), newFakeSessionRepo(), 30*time.Minute)

	_, err := svc.Authenticate(context.Background(), "")
	assert.Equal(t, utils.ErrUnauthorized, err)
}
