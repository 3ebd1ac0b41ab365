package services

import (
	"context"
	"testing"
	"time"

	"clientconnect-backend/metrics"
	"clientconnect-backend/models"
	"clientconnect-backend/store"
	"clientconnect-backend/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceSuite struct {
	suite.Suite
	revocations *store.MemoryRevocationStore
	tokens      *utils.TokenManager
	metrics     *metrics.Metrics
	service     *AuthService
	ctx         context.Context
}

func (s *AuthServiceSuite) SetupSuite() {
	utils.PasswordCost = bcrypt.MinCost
}

func (s *AuthServiceSuite) TearDownSuite() {
	utils.PasswordCost = bcrypt.DefaultCost
}

func (s *AuthServiceSuite) SetupTest() {
	var err error
	s.tokens, err = utils.NewTokenManager("test-secret", time.Hour)
	s.Require().NoError(err)
	s.revocations = store.NewMemoryRevocationStore()
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.service = NewAuthService(store.NewMemoryUserStore(), s.revocations, s.tokens, s.metrics, discardLogger())
	s.ctx = context.Background()
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceSuite))
}

func (s *AuthServiceSuite) TestRegisterThenLogin() {
	reg, err := s.service.Register(s.ctx, RegisterInput{Email: "Jane@Example.com", Password: "secret1", Name: "Jane"})
	s.Require().NoError(err)
	s.Equal("jane@example.com", reg.User.Email)
	s.NotEmpty(reg.Token)
	s.NotEqual("secret1", reg.User.PasswordHash)

	claims, err := s.tokens.ParseToken(reg.Token)
	s.Require().NoError(err)
	s.Equal(reg.User.ID, claims.Subject)

	login, err := s.service.Login(s.ctx, "jane@example.com", "secret1")
	s.Require().NoError(err)
	s.Equal(reg.User.ID, login.User.ID)
	s.NotNil(login.User.LastLogin)

	me, err := s.service.Me(s.ctx, reg.User.ID)
	s.Require().NoError(err)
	s.Equal("Jane", me.Name)
}

func (s *AuthServiceSuite) TestRegister_Validation() {
	cases := []struct {
		email    string
		password string
	}{
		{"not-an-email", "secret1"},
		{"a@b", "secret1"},
		{"jane@example.com", "short"},
		{"jane@example.com", "lettersonly"},
		{"jane@example.com", "1234567"},
		{"jane@example.com", "with space1"},
	}
	for _, tc := range cases {
		_, err := s.service.Register(s.ctx, RegisterInput{Email: tc.email, Password: tc.password})
		s.ErrorIs(err, models.ErrValidation, "%s / %s", tc.email, tc.password)
	}
}

func (s *AuthServiceSuite) TestRegister_DuplicateEmail() {
	_, err := s.service.Register(s.ctx, RegisterInput{Email: "jane@example.com", Password: "secret1"})
	s.Require().NoError(err)

	_, err = s.service.Register(s.ctx, RegisterInput{Email: "JANE@example.com", Password: "secret2"})
	s.ErrorIs(err, models.ErrConflict)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.UsersRegistered))
}

func (s *AuthServiceSuite) TestRegister_UsernameAndPhone() {
	reg, err := s.service.Register(s.ctx, RegisterInput{
		Email: "jane@example.com", Password: "secret1", Username: "jane_d", Phone: "5551234567",
	})
	s.Require().NoError(err)
	s.Equal("jane_d", reg.User.UsernameValue())
	s.Equal("5551234567", reg.User.Phone)

	_, err = s.service.Register(s.ctx, RegisterInput{Email: "other@example.com", Password: "secret1", Username: "jane_d"})
	s.ErrorIs(err, models.ErrConflict)
	s.EqualError(err, "username already taken")

	// Users without a username never collide on it.
	_, err = s.service.Register(s.ctx, RegisterInput{Email: "a@example.com", Password: "secret1"})
	s.Require().NoError(err)
	_, err = s.service.Register(s.ctx, RegisterInput{Email: "b@example.com", Password: "secret1"})
	s.Require().NoError(err)
}

func (s *AuthServiceSuite) TestRegister_UsernameAndPhoneValidation() {
	cases := []RegisterInput{
		{Email: "jane@example.com", Password: "secret1", Username: "x"},
		{Email: "jane@example.com", Password: "secret1", Username: "has-dash"},
		{Email: "jane@example.com", Password: "secret1", Username: "waytoolongusername"},
		{Email: "jane@example.com", Password: "secret1", Phone: "12345"},
		{Email: "jane@example.com", Password: "secret1", Phone: "555-1234"},
	}
	for _, in := range cases {
		_, err := s.service.Register(s.ctx, in)
		s.ErrorIs(err, models.ErrValidation, "%+v", in)
	}
}

func (s *AuthServiceSuite) TestLogin_Failures() {
	_, err := s.service.Register(s.ctx, RegisterInput{Email: "jane@example.com", Password: "secret1"})
	s.Require().NoError(err)

	_, err = s.service.Login(s.ctx, "jane@example.com", "wrong1")
	s.ErrorIs(err, models.ErrUnauthorized)

	_, err = s.service.Login(s.ctx, "nobody@example.com", "secret1")
	s.ErrorIs(err, models.ErrUnauthorized)

	_, err = s.service.Login(s.ctx, "", "")
	s.ErrorIs(err, models.ErrValidation)

	s.Equal(2.0, testutil.ToFloat64(s.metrics.AuthFailures))
}

func (s *AuthServiceSuite) TestLogoutRevokesToken() {
	reg, err := s.service.Register(s.ctx, RegisterInput{Email: "jane@example.com", Password: "secret1"})
	s.Require().NoError(err)

	claims, err := s.tokens.ParseToken(reg.Token)
	s.Require().NoError(err)

	s.Require().NoError(s.service.Logout(s.ctx, reg.Token))

	revoked, err := s.revocations.IsRevoked(s.ctx, claims.ID)
	s.Require().NoError(err)
	s.True(revoked)
}

func (s *AuthServiceSuite) TestLogout_InvalidToken() {
	err := s.service.Logout(s.ctx, "garbage")
	s.ErrorIs(err, models.ErrUnauthorized)
}

func (s *AuthServiceSuite) TestMe_Unknown() {
	_, err := s.service.Me(s.ctx, "00000000-0000-0000-0000-000000000000")
	s.ErrorIs(err, models.ErrNotFound)
}
