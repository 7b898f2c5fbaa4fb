package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrRecipeNotFound is returned when a recipe is not found.
	ErrRecipeNotFound = errors.New("recipe not found")
	// ErrImageNotFound is returned when a food image is not found.
	ErrImageNotFound = errors.New("food image not found")
	// ErrIngredientNotFound is returned when an ingredient is not found.
	ErrIngredientNotFound = errors.New("ingredient not found")
	// ErrRestrictionNotFound is returned when a dietary restriction is not found.
	ErrRestrictionNotFound = errors.New("dietary restriction not found")
	// ErrCalendarItemNotFound is returned when a calendar item is not found.
	ErrCalendarItemNotFound = errors.New("calendar item not found")
	// ErrWrongPassword is returned when login credentials do not match.
	ErrWrongPassword = errors.New("incorrect password")
	// ErrInvalidToken is returned when a JWT is invalid or expired.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrNotAnImage is returned when an uploaded file is not an image.
	ErrNotAnImage = errors.New("uploaded file is not an image")
	// ErrDuplicateUser is returned on a username/email uniqueness violation.
	ErrDuplicateUser = errors.New("username or email already taken")
	// ErrDuplicateRecipe is returned on a recipe name uniqueness violation.
	ErrDuplicateRecipe = errors.New("recipe name already exists")
	// ErrDuplicateRestriction is returned on a dietary restriction name uniqueness violation.
	ErrDuplicateRestriction = errors.New("dietary restriction name already exists")
	// ErrMissingField is returned when a required field is absent.
	ErrMissingField = errors.New("missing required field")
	// ErrEmptySearchCriteria is returned when a search supplies no criteria at all.
	ErrEmptySearchCriteria = errors.New("at least one search criterion is required")
	// ErrBadDate is returned when a calendar date cannot be parsed.
	ErrBadDate = errors.New("date must be formatted as yyyy-MM-dd")
	// ErrUpstream is returned when a storage, recognition or recipe-search
	// collaborator fails.
	ErrUpstream = errors.New("upstream service failure")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrRecipeNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "RECIPE_NOT_FOUND")
	case errors.Is(err, ErrImageNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "IMAGE_NOT_FOUND")
	case errors.Is(err, ErrIngredientNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "INGREDIENT_NOT_FOUND")
	case errors.Is(err, ErrRestrictionNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "RESTRICTION_NOT_FOUND")
	case errors.Is(err, ErrCalendarItemNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "CALENDAR_ITEM_NOT_FOUND")
	case errors.Is(err, ErrWrongPassword):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "WRONG_PASSWORD")
	case errors.Is(err, ErrInvalidToken):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_TOKEN")
	case errors.Is(err, ErrNotAnImage):
		return NewHTTPError(http.StatusUnsupportedMediaType, err.Error(), "NOT_AN_IMAGE")
	case errors.Is(err, ErrDuplicateUser):
		return NewHTTPError(http.StatusUnprocessableEntity, err.Error(), "DUPLICATE_USER")
	case errors.Is(err, ErrDuplicateRecipe):
		return NewHTTPError(http.StatusUnprocessableEntity, err.Error(), "DUPLICATE_RECIPE")
	case errors.Is(err, ErrDuplicateRestriction):
		return NewHTTPError(http.StatusUnprocessableEntity, err.Error(), "DUPLICATE_RESTRICTION")
	case errors.Is(err, ErrMissingField):
		return NewHTTPError(http.StatusUnprocessableEntity, err.Error(), "MISSING_FIELD")
	case errors.Is(err, ErrEmptySearchCriteria):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "EMPTY_SEARCH_CRITERIA")
	case errors.Is(err, ErrBadDate):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "BAD_DATE")
	case errors.Is(err, ErrUpstream):
		return NewHTTPError(http.StatusBadGateway, err.Error(), "UPSTREAM_FAILURE")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
