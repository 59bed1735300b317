package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/ememohq/ememo_backend/internal/apperrors"
	"github.com/ememohq/ememo_backend/internal/core/domain"
	portssvc "github.com/ememohq/ememo_backend/internal/core/ports/services"
	"github.com/ememohq/ememo_backend/internal/core/services"
	"github.com/ememohq/ememo_backend/internal/dto"
	"github.com/ememohq/ememo_backend/internal/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock UserRepository (based on UserService usage) ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) ListUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	var users []domain.User
	if args.Get(0) != nil {
		users = args.Get(0).([]domain.User)
	}
	return users, args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedBy string, now time.Time) error {
	args := m.Called(ctx, userID, deletedBy, now)
	return args.Error(0)
}

// --- Test Suite ---
type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	service      portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewUserService(suite.mockUserRepo)
}

// --- CreateUser Tests ---
func (suite *UserServiceTestSuite) TestCreateUser_HashesPasswordAndStartsAsMember() {
	ctx := context.Background()
	req := dto.CreateUserRequest{
		Username:   "jdoe",
		Password:   "password123",
		Name:       "J Doe",
		Email:      "JDoe@Example.com",
		Department: "Legal",
	}

	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Username == "jdoe" &&
			u.Email == "jdoe@example.com" &&
			u.Role == domain.RoleMember &&
			u.PasswordHash != "" && u.PasswordHash != "password123"
	})).Return(nil).Once()

	user, err := suite.service.CreateUser(ctx, req)

	suite.Require().NoError(err)
	suite.NotEmpty(user.UserID)
	suite.Equal(domain.RoleMember, user.Role)
	suite.True(utils.CheckPasswordHash("password123", user.PasswordHash))
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestCreateUser_DuplicatePropagates() {
	ctx := context.Background()
	req := dto.CreateUserRequest{Username: "jdoe", Password: "password123", Name: "J Doe", Email: "jdoe@example.com"}

	suite.mockUserRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).Return(apperrors.ErrDuplicate).Once()

	user, err := suite.service.CreateUser(ctx, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.Nil(user)
}

// --- UpdateUser Tests ---
func (suite *UserServiceTestSuite) TestUpdateUser_SelfEditAllowed() {
	ctx := context.Background()
	userID := uuid.NewString()
	self := &domain.User{UserID: userID, Role: domain.RoleMember}
	stored := &domain.User{UserID: userID, Name: "Old Name", Role: domain.RoleMember}
	newName := "New Name"

	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(stored, nil).Once()
	suite.mockUserRepo.On("UpdateUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Name == newName && u.LastUpdatedBy == userID
	})).Return(nil).Once()

	user, err := suite.service.UpdateUser(ctx, userID, dto.UpdateUserRequest{Name: &newName}, self)

	suite.Require().NoError(err)
	suite.Equal(newName, user.Name)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestUpdateUser_MemberCannotEditOthers() {
	ctx := context.Background()
	member := &domain.User{UserID: uuid.NewString(), Role: domain.RoleMember}
	newName := "New Name"

	user, err := suite.service.UpdateUser(ctx, uuid.NewString(), dto.UpdateUserRequest{Name: &newName}, member)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.Nil(user)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "UpdateUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestUpdateUser_SelfRoleChangeNeedsManagePermission() {
	ctx := context.Background()
	userID := uuid.NewString()
	member := &domain.User{UserID: userID, Role: domain.RoleMember}
	admin := domain.RoleAdmin

	user, err := suite.service.UpdateUser(ctx, userID, dto.UpdateUserRequest{Role: &admin}, member)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.Nil(user)
}

func (suite *UserServiceTestSuite) TestUpdateUser_AdminChangesRole() {
	ctx := context.Background()
	userID := uuid.NewString()
	admin := &domain.User{UserID: uuid.NewString(), Role: domain.RoleAdmin}
	stored := &domain.User{UserID: userID, Role: domain.RoleMember}
	manager := domain.RoleManager

	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(stored, nil).Once()
	suite.mockUserRepo.On("UpdateUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Role == domain.RoleManager && u.LastUpdatedBy == admin.UserID
	})).Return(nil).Once()

	user, err := suite.service.UpdateUser(ctx, userID, dto.UpdateUserRequest{Role: &manager}, admin)

	suite.Require().NoError(err)
	suite.Equal(domain.RoleManager, user.Role)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

// --- DeleteUser Tests ---
func (suite *UserServiceTestSuite) TestDeleteUser_AdminSoftDeletes() {
	ctx := context.Background()
	userID := uuid.NewString()
	admin := &domain.User{UserID: uuid.NewString(), Role: domain.RoleAdmin}

	suite.mockUserRepo.On("MarkUserDeleted", ctx, userID, admin.UserID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.DeleteUser(ctx, userID, admin)

	suite.Require().NoError(err)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestDeleteUser_CannotDeleteSelf() {
	ctx := context.Background()
	admin := &domain.User{UserID: uuid.NewString(), Role: domain.RoleAdmin}

	err := suite.service.DeleteUser(ctx, admin.UserID, admin)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "MarkUserDeleted", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- AuthenticateUser Tests ---
func (suite *UserServiceTestSuite) TestAuthenticateUser_Success() {
	ctx := context.Background()
	hash, err := utils.HashPassword("password123")
	suite.Require().NoError(err)
	stored := &domain.User{UserID: uuid.NewString(), Username: "jdoe", PasswordHash: hash}

	suite.mockUserRepo.On("FindUserByUsername", ctx, "jdoe").Return(stored, nil).Once()

	user, err := suite.service.AuthenticateUser(ctx, "jdoe", "password123")

	suite.Require().NoError(err)
	suite.Equal(stored.UserID, user.UserID)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_UnknownUserAndBadPasswordLookAlike() {
	ctx := context.Background()
	hash, err := utils.HashPassword("password123")
	suite.Require().NoError(err)
	stored := &domain.User{UserID: uuid.NewString(), Username: "jdoe", PasswordHash: hash}

	suite.mockUserRepo.On("FindUserByUsername", ctx, "nobody").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("FindUserByUsername", ctx, "jdoe").Return(stored, nil).Once()

	_, unknownErr := suite.service.AuthenticateUser(ctx, "nobody", "password123")
	_, badPassErr := suite.service.AuthenticateUser(ctx, "jdoe", "wrong")

	suite.ErrorIs(unknownErr, apperrors.ErrUnauthorized)
	suite.ErrorIs(badPassErr, apperrors.ErrUnauthorized)
}

// --- FindOrCreateGoogleUser Tests ---
func (suite *UserServiceTestSuite) TestFindOrCreateGoogleUser_ExistingUserByEmail() {
	ctx := context.Background()
	stored := &domain.User{UserID: uuid.NewString(), Email: "jdoe@example.com"}
	info := &domain.GoogleUserInfo{Email: "JDoe@Example.com", VerifiedEmail: true, Name: "J Doe"}

	suite.mockUserRepo.On("FindUserByEmail", ctx, "jdoe@example.com").Return(stored, nil).Once()

	user, err := suite.service.FindOrCreateGoogleUser(ctx, info)

	suite.Require().NoError(err)
	suite.Equal(stored.UserID, user.UserID)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestFindOrCreateGoogleUser_FirstSignInProvisionsMember() {
	ctx := context.Background()
	info := &domain.GoogleUserInfo{Email: "new@example.com", VerifiedEmail: true, Name: "New User"}

	suite.mockUserRepo.On("FindUserByEmail", ctx, "new@example.com").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Email == "new@example.com" &&
			u.Username == "new@example.com" &&
			u.Role == domain.RoleMember &&
			u.PasswordHash != ""
	})).Return(nil).Once()

	user, err := suite.service.FindOrCreateGoogleUser(ctx, info)

	suite.Require().NoError(err)
	suite.Equal("New User", user.Name)
	// Password login stays closed until a password is set explicitly.
	suite.False(utils.CheckPasswordHash("", user.PasswordHash))
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestFindOrCreateGoogleUser_UnverifiedEmailRejected() {
	ctx := context.Background()
	info := &domain.GoogleUserInfo{Email: "new@example.com", VerifiedEmail: false}

	user, err := suite.service.FindOrCreateGoogleUser(ctx, info)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.Nil(user)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
