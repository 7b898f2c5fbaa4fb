package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"gorecipe/internal/cache"
	apperrors "gorecipe/internal/errors"
	"gorecipe/internal/model"
)

func newTestUserService(
	users *MockUserRepository,
	recipes *MockRecipeRepository,
	restrictions *MockDietaryRestrictionRepository,
	calendar *MockCalendarRepository,
	images *MockFoodImageRepository,
	objectStorage *MockObjectStorage,
) UserService {
	// A nil cache client behaves as a permanent miss, keeping tests hermetic.
	return NewUserService(users, recipes, new(MockIngredientRepository), restrictions, calendar, images, objectStorage, (*cache.Client)(nil))
}

func validUser() *model.User {
	birthDate, _ := model.ParseDate("1990-04-12")
	return &model.User{
		Username:  "alice",
		Email:     "alice@example.com",
		FirstName: "Alice",
		LastName:  "Adams",
		BirthDate: birthDate,
	}
}

func TestUserService_Create(t *testing.T) {
	tests := []struct {
		name          string
		user          func() *model.User
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful creation hashes the password",
			user:     validUser,
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name: "missing email is rejected",
			user: func() *model.User {
				u := validUser()
				u.Email = ""
				return u
			},
			password:      "password123",
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrMissingField,
		},
		{
			name:          "missing password is rejected",
			user:          validUser,
			password:      "",
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrMissingField,
		},
		{
			name:     "duplicate username",
			user:     validUser,
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)
			},
			expectedError: apperrors.ErrDuplicateUser,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUsers := new(MockUserRepository)
			tt.setupMock(mockUsers)

			svc := newTestUserService(mockUsers, new(MockRecipeRepository), new(MockDietaryRestrictionRepository), new(MockCalendarRepository), new(MockFoodImageRepository), new(MockObjectStorage))
			created, err := svc.Create(context.Background(), tt.user(), tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, created)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, created)
				assert.NotEqual(t, tt.password, created.PasswordHash)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte(tt.password)))
			}

			mockUsers.AssertExpectations(t)
		})
	}
}

func TestUserService_Delete(t *testing.T) {
	t.Run("unknown user", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockUsers.On("ExistsByID", mock.Anything, uint(9)).Return(false, nil)

		svc := newTestUserService(mockUsers, new(MockRecipeRepository), new(MockDietaryRestrictionRepository), new(MockCalendarRepository), new(MockFoodImageRepository), new(MockObjectStorage))
		err := svc.Delete(context.Background(), 9)
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
		mockUsers.AssertExpectations(t)
	})

	t.Run("stored objects are removed best-effort", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockImages := new(MockFoodImageRepository)
		mockStorage := new(MockObjectStorage)

		mockUsers.On("ExistsByID", mock.Anything, uint(7)).Return(true, nil)
		mockImages.On("FindByUser", mock.Anything, uint(7)).Return([]model.FoodImage{
			{StorageKey: "7-1.jpeg"},
			{StorageKey: "7-2.png"},
		}, nil)
		// One object is already gone; account removal still proceeds.
		mockStorage.On("Delete", mock.Anything, "7-1.jpeg").Return(assert.AnError)
		mockStorage.On("Delete", mock.Anything, "7-2.png").Return(nil)
		mockUsers.On("Delete", mock.Anything, uint(7)).Return(nil)

		svc := newTestUserService(mockUsers, new(MockRecipeRepository), new(MockDietaryRestrictionRepository), new(MockCalendarRepository), mockImages, mockStorage)
		assert.NoError(t, svc.Delete(context.Background(), 7))

		mockUsers.AssertExpectations(t)
		mockImages.AssertExpectations(t)
		mockStorage.AssertExpectations(t)
	})
}

func TestUserService_UploadProfilePicture(t *testing.T) {
	t.Run("unknown user", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockStorage := new(MockObjectStorage)
		mockUsers.On("FindByID", mock.Anything, uint(9)).Return(nil, gorm.ErrRecordNotFound)

		svc := newTestUserService(mockUsers, new(MockRecipeRepository), new(MockDietaryRestrictionRepository), new(MockCalendarRepository), new(MockFoodImageRepository), mockStorage)
		_, err := svc.UploadProfilePicture(context.Background(), 9, "image/png", strings.NewReader("png bytes"))
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
		mockStorage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("non-image content type", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockStorage := new(MockObjectStorage)
		user := validUser()
		user.ID = 7
		mockUsers.On("FindByID", mock.Anything, uint(7)).Return(user, nil)

		svc := newTestUserService(mockUsers, new(MockRecipeRepository), new(MockDietaryRestrictionRepository), new(MockCalendarRepository), new(MockFoodImageRepository), mockStorage)
		_, err := svc.UploadProfilePicture(context.Background(), 7, "text/plain", strings.NewReader("not an image"))
		assert.ErrorIs(t, err, apperrors.ErrNotAnImage)
		mockStorage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("stored URL lands on the user row", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockStorage := new(MockObjectStorage)
		user := validUser()
		user.ID = 7

		body := strings.NewReader("png bytes")
		mockUsers.On("FindByID", mock.Anything, uint(7)).Return(user, nil)
		// The key is fixed per user, so a later upload replaces the object.
		mockStorage.On("Upload", mock.Anything, "profile_picture_7.png", body, "image/png").
			Return("https://bucket.example/profile_picture_7.png", nil)
		mockUsers.On("Save", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.ID == 7 && u.ProfilePicture == "https://bucket.example/profile_picture_7.png"
		})).Return(nil)

		svc := newTestUserService(mockUsers, new(MockRecipeRepository), new(MockDietaryRestrictionRepository), new(MockCalendarRepository), new(MockFoodImageRepository), mockStorage)
		updated, err := svc.UploadProfilePicture(context.Background(), 7, "image/png", body)
		assert.NoError(t, err)
		assert.Equal(t, "https://bucket.example/profile_picture_7.png", updated.ProfilePicture)

		mockUsers.AssertExpectations(t)
		mockStorage.AssertExpectations(t)
	})

	t.Run("storage failure leaves the user unchanged", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockStorage := new(MockObjectStorage)
		user := validUser()
		user.ID = 7
		mockUsers.On("FindByID", mock.Anything, uint(7)).Return(user, nil)
		mockStorage.On("Upload", mock.Anything, "profile_picture_7.jpeg", mock.Anything, "image/jpeg").
			Return("", assert.AnError)

		svc := newTestUserService(mockUsers, new(MockRecipeRepository), new(MockDietaryRestrictionRepository), new(MockCalendarRepository), new(MockFoodImageRepository), mockStorage)
		_, err := svc.UploadProfilePicture(context.Background(), 7, "image/jpeg", strings.NewReader("jpeg bytes"))
		assert.ErrorIs(t, err, apperrors.ErrUpstream)
		mockUsers.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestUserService_AddCalendarItem(t *testing.T) {
	tests := []struct {
		name          string
		date          string
		setupMock     func(*MockUserRepository, *MockRecipeRepository, *MockCalendarRepository)
		expectedError error
	}{
		{
			name: "successful scheduling",
			date: "2024-11-05",
			setupMock: func(mUsers *MockUserRepository, mRecipes *MockRecipeRepository, mCalendar *MockCalendarRepository) {
				mUsers.On("ExistsByID", mock.Anything, uint(7)).Return(true, nil)
				mRecipes.On("ExistsByID", mock.Anything, uint(3)).Return(true, nil)
				mCalendar.On("Create", mock.Anything, mock.MatchedBy(func(item *model.RecipeCalendarItem) bool {
					return item.UserID == 7 && item.RecipeID == 3 && item.Date.Format("2006-01-02") == "2024-11-05"
				})).Return(nil)
			},
			expectedError: nil,
		},
		{
			name: "unknown user",
			date: "2024-11-05",
			setupMock: func(mUsers *MockUserRepository, mRecipes *MockRecipeRepository, mCalendar *MockCalendarRepository) {
				mUsers.On("ExistsByID", mock.Anything, uint(7)).Return(false, nil)
			},
			expectedError: apperrors.ErrUserNotFound,
		},
		{
			name: "unknown recipe",
			date: "2024-11-05",
			setupMock: func(mUsers *MockUserRepository, mRecipes *MockRecipeRepository, mCalendar *MockCalendarRepository) {
				mUsers.On("ExistsByID", mock.Anything, uint(7)).Return(true, nil)
				mRecipes.On("ExistsByID", mock.Anything, uint(3)).Return(false, nil)
			},
			expectedError: apperrors.ErrRecipeNotFound,
		},
		{
			name: "malformed date",
			date: "05/11/2024",
			setupMock: func(mUsers *MockUserRepository, mRecipes *MockRecipeRepository, mCalendar *MockCalendarRepository) {
				mUsers.On("ExistsByID", mock.Anything, uint(7)).Return(true, nil)
				mRecipes.On("ExistsByID", mock.Anything, uint(3)).Return(true, nil)
			},
			expectedError: apperrors.ErrBadDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUsers := new(MockUserRepository)
			mockRecipes := new(MockRecipeRepository)
			mockCalendar := new(MockCalendarRepository)
			tt.setupMock(mockUsers, mockRecipes, mockCalendar)

			svc := newTestUserService(mockUsers, mockRecipes, new(MockDietaryRestrictionRepository), mockCalendar, new(MockFoodImageRepository), new(MockObjectStorage))
			err := svc.AddCalendarItem(context.Background(), 7, 3, tt.date)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}

			mockUsers.AssertExpectations(t)
			mockRecipes.AssertExpectations(t)
			mockCalendar.AssertExpectations(t)
		})
	}
}

func TestUserService_RemoveCalendarItem(t *testing.T) {
	mockCalendar := new(MockCalendarRepository)
	mockCalendar.On("Delete", mock.Anything, uint(12)).Return(gorm.ErrRecordNotFound)

	svc := newTestUserService(new(MockUserRepository), new(MockRecipeRepository), new(MockDietaryRestrictionRepository), mockCalendar, new(MockFoodImageRepository), new(MockObjectStorage))
	err := svc.RemoveCalendarItem(context.Background(), 12)
	assert.ErrorIs(t, err, apperrors.ErrCalendarItemNotFound)
	mockCalendar.AssertExpectations(t)
}

func TestUserService_AddFavoriteIngredient(t *testing.T) {
	t.Run("unknown ingredient", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockIngredients := new(MockIngredientRepository)

		user := validUser()
		user.ID = 7
		mockUsers.On("FindByID", mock.Anything, uint(7)).Return(user, nil)
		mockIngredients.On("FindByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)

		svc := NewUserService(mockUsers, new(MockRecipeRepository), mockIngredients, new(MockDietaryRestrictionRepository), new(MockCalendarRepository), new(MockFoodImageRepository), new(MockObjectStorage), nil)
		err := svc.AddFavoriteIngredient(context.Background(), 7, 99)
		assert.ErrorIs(t, err, apperrors.ErrIngredientNotFound)
	})

	t.Run("successful add", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockIngredients := new(MockIngredientRepository)

		user := validUser()
		user.ID = 7
		ingredient := &model.Ingredient{ID: 2, Name: "basil"}
		mockUsers.On("FindByID", mock.Anything, uint(7)).Return(user, nil)
		mockIngredients.On("FindByID", mock.Anything, uint(2)).Return(ingredient, nil)
		mockUsers.On("AddFavoriteIngredient", mock.Anything, user, ingredient).Return(nil)

		svc := NewUserService(mockUsers, new(MockRecipeRepository), mockIngredients, new(MockDietaryRestrictionRepository), new(MockCalendarRepository), new(MockFoodImageRepository), new(MockObjectStorage), nil)
		assert.NoError(t, svc.AddFavoriteIngredient(context.Background(), 7, 2))
		mockUsers.AssertExpectations(t)
	})
}

func TestUserService_SaveRecipe(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockRecipes := new(MockRecipeRepository)

	user := validUser()
	user.ID = 7
	recipe := &model.Recipe{ID: 3, Name: "Shakshuka"}

	mockUsers.On("FindByID", mock.Anything, uint(7)).Return(user, nil)
	mockRecipes.On("FindByID", mock.Anything, uint(3)).Return(recipe, nil)
	mockUsers.On("AddSavedRecipe", mock.Anything, user, recipe).Return(nil)

	svc := newTestUserService(mockUsers, mockRecipes, new(MockDietaryRestrictionRepository), new(MockCalendarRepository), new(MockFoodImageRepository), new(MockObjectStorage))
	assert.NoError(t, svc.SaveRecipe(context.Background(), 7, 3))

	mockUsers.AssertExpectations(t)
	mockRecipes.AssertExpectations(t)
}
