package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"userdir/internal/dto"
	apperrors "userdir/internal/errors"
	"userdir/internal/model"
)

// MockUserService is a mock implementation of service.UserService.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) List(ctx context.Context, roleFilter string) ([]model.User, error) {
	args := m.Called(ctx, roleFilter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserService) Get(ctx context.Context, id int) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) Create(ctx context.Context, req dto.CreateUserRequest) (*model.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) Update(ctx context.Context, id int, req dto.UpdateUserRequest) (*model.User, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newJSONCtx(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func newIDCtx(e *echo.Echo, method, id, body string) (echo.Context, *httptest.ResponseRecorder) {
	c, rec := newJSONCtx(e, method, "/api/users/"+id, body)
	c.SetPath("/api/users/:id")
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c, rec
}

func TestListUsersHandler(t *testing.T) {
	e := echo.New()

	t.Run("returns users", func(t *testing.T) {
		mockSvc := new(MockUserService)
		mockSvc.On("List", mock.Anything, "").Return([]model.User{
			{ID: 1, Name: "John Doe", Email: "john@example.com", Role: model.RoleUser},
		}, nil)

		ctx, rec := newJSONCtx(e, http.MethodGet, "/api/users", "")
		assert.NoError(t, NewUserHandler(mockSvc).ListUsers(ctx))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "john@example.com")
		assert.NotContains(t, rec.Body.String(), "password")
	})

	t.Run("empty directory serializes as an array", func(t *testing.T) {
		mockSvc := new(MockUserService)
		mockSvc.On("List", mock.Anything, "").Return(nil, nil)

		ctx, rec := newJSONCtx(e, http.MethodGet, "/api/users", "")
		assert.NoError(t, NewUserHandler(mockSvc).ListUsers(ctx))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("forwards the role query param", func(t *testing.T) {
		mockSvc := new(MockUserService)
		mockSvc.On("List", mock.Anything, "ADMIN").Return([]model.User{
			{ID: 2, Role: model.RoleAdmin},
		}, nil)

		ctx, rec := newJSONCtx(e, http.MethodGet, "/api/users?role=ADMIN", "")
		assert.NoError(t, NewUserHandler(mockSvc).ListUsers(ctx))
		assert.Equal(t, http.StatusOK, rec.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("unmatched role filter maps to 404", func(t *testing.T) {
		mockSvc := new(MockUserService)
		mockSvc.On("List", mock.Anything, "INVALID").Return(nil, apperrors.ErrRoleNotFound)

		ctx, rec := newJSONCtx(e, http.MethodGet, "/api/users?role=INVALID", "")
		assert.NoError(t, NewUserHandler(mockSvc).ListUsers(ctx))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "no users with this role found")
	})
}

func TestGetUserHandler(t *testing.T) {
	e := echo.New()

	t.Run("found", func(t *testing.T) {
		mockSvc := new(MockUserService)
		mockSvc.On("Get", mock.Anything, 7).Return(&model.User{ID: 7, Email: "x@example.com"}, nil)

		ctx, rec := newIDCtx(e, http.MethodGet, "7", "")
		assert.NoError(t, NewUserHandler(mockSvc).GetUser(ctx))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("absent maps to 404", func(t *testing.T) {
		mockSvc := new(MockUserService)
		mockSvc.On("Get", mock.Anything, 123).Return(nil, apperrors.ErrUserNotFound)

		ctx, rec := newIDCtx(e, http.MethodGet, "123", "")
		assert.NoError(t, NewUserHandler(mockSvc).GetUser(ctx))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "user not found")
	})

	t.Run("malformed id never reaches the service", func(t *testing.T) {
		mockSvc := new(MockUserService)

		ctx, rec := newIDCtx(e, http.MethodGet, "abc", "")
		assert.NoError(t, NewUserHandler(mockSvc).GetUser(ctx))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "INVALID_USER_ID")
		mockSvc.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})
}

func TestCreateUserHandler(t *testing.T) {
	e := echo.New()
	body := `{"name":"John Doe","email":"john@example.com","password":"password123","role":"USER"}`

	t.Run("created", func(t *testing.T) {
		mockSvc := new(MockUserService)
		mockSvc.On("Create", mock.Anything, dto.CreateUserRequest{
			Name:     "John Doe",
			Email:    "john@example.com",
			Password: "password123",
			Role:     model.RoleUser,
		}).Return(&model.User{ID: 1, Name: "John Doe", Email: "john@example.com", Role: model.RoleUser}, nil)

		ctx, rec := newJSONCtx(e, http.MethodPost, "/api/users", body)
		assert.NoError(t, NewUserHandler(mockSvc).CreateUser(ctx))
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"role":"USER"`)
		assert.Contains(t, rec.Body.String(), `"id":1`)
	})

	t.Run("duplicate email maps to 409", func(t *testing.T) {
		mockSvc := new(MockUserService)
		mockSvc.On("Create", mock.Anything, mock.AnythingOfType("dto.CreateUserRequest")).Return(nil, apperrors.ErrEmailExists)

		ctx, rec := newJSONCtx(e, http.MethodPost, "/api/users", body)
		assert.NoError(t, NewUserHandler(mockSvc).CreateUser(ctx))
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "email already exists")
	})

	t.Run("validation failure carries field detail", func(t *testing.T) {
		mockSvc := new(MockUserService)
		mockSvc.On("Create", mock.Anything, mock.AnythingOfType("dto.CreateUserRequest")).Return(nil, &apperrors.ValidationError{
			Fields: []string{"Password must be at least 8 characters long"},
		})

		ctx, rec := newJSONCtx(e, http.MethodPost, "/api/users", `{"password":"short"}`)
		assert.NoError(t, NewUserHandler(mockSvc).CreateUser(ctx))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Password must be at least 8 characters long")
		assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
	})

	t.Run("malformed body maps to 400", func(t *testing.T) {
		mockSvc := new(MockUserService)

		ctx, rec := newJSONCtx(e, http.MethodPost, "/api/users", `{"name":`)
		assert.NoError(t, NewUserHandler(mockSvc).CreateUser(ctx))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockSvc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestUpdateUserHandler(t *testing.T) {
	e := echo.New()

	t.Run("updated", func(t *testing.T) {
		mockSvc := new(MockUserService)
		mockSvc.On("Update", mock.Anything, 5, mock.AnythingOfType("dto.UpdateUserRequest")).Return(&model.User{ID: 5, Name: "Jane"}, nil)

		ctx, rec := newIDCtx(e, http.MethodPatch, "5", `{"name":"Jane"}`)
		assert.NoError(t, NewUserHandler(mockSvc).UpdateUser(ctx))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Jane")
	})

	t.Run("absent maps to 404", func(t *testing.T) {
		mockSvc := new(MockUserService)
		mockSvc.On("Update", mock.Anything, 404, mock.AnythingOfType("dto.UpdateUserRequest")).Return(nil, apperrors.ErrUserNotFound)

		ctx, rec := newIDCtx(e, http.MethodPatch, "404", `{"name":"Jane"}`)
		assert.NoError(t, NewUserHandler(mockSvc).UpdateUser(ctx))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("email collision maps to 409", func(t *testing.T) {
		mockSvc := new(MockUserService)
		mockSvc.On("Update", mock.Anything, 5, mock.AnythingOfType("dto.UpdateUserRequest")).Return(nil, apperrors.ErrEmailExists)

		ctx, rec := newIDCtx(e, http.MethodPatch, "5", `{"email":"taken@example.com"}`)
		assert.NoError(t, NewUserHandler(mockSvc).UpdateUser(ctx))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("malformed id never reaches the service", func(t *testing.T) {
		mockSvc := new(MockUserService)

		ctx, rec := newIDCtx(e, http.MethodPatch, "x", `{"name":"Jane"}`)
		assert.NoError(t, NewUserHandler(mockSvc).UpdateUser(ctx))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockSvc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestDeleteUserHandler(t *testing.T) {
	e := echo.New()

	t.Run("deleted", func(t *testing.T) {
		mockSvc := new(MockUserService)
		mockSvc.On("Delete", mock.Anything, 5).Return(nil)

		ctx, rec := newIDCtx(e, http.MethodDelete, "5", "")
		assert.NoError(t, NewUserHandler(mockSvc).DeleteUser(ctx))
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("absent maps to 404", func(t *testing.T) {
		mockSvc := new(MockUserService)
		mockSvc.On("Delete", mock.Anything, 999999).Return(apperrors.ErrUserNotFound)

		ctx, rec := newIDCtx(e, http.MethodDelete, "999999", "")
		assert.NoError(t, NewUserHandler(mockSvc).DeleteUser(ctx))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "user not found")
	})
}
