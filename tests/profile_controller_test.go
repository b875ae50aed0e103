package tests

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"nutrilog/internal/controllers"
	"nutrilog/internal/models"
	"nutrilog/internal/nutrition"
	"nutrilog/internal/services"
	"nutrilog/tests/mocks"
)

func profileUser() *models.User {
	user := surveyUser()
	user.Sex = strPtr(nutrition.SexMale)
	user.DateOfBirth = timePtr(time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC))
	user.HeightCm = intPtr(180)
	user.WeightKg = floatPtr(80)
	user.SurveyCompleted = true
	user.DailyCaloriesGoal = intPtr(2000)
	return user
}

func TestGetProfileWithBreakdown(t *testing.T) {
	mockUserRepo := new(mocks.MockUserRepository)
	mockFoodLogRepo := new(mocks.MockFoodLogRepository)
	controller := controllers.NewProfileController(mockUserRepo, mockFoodLogRepo, services.NewProfileService(mockUserRepo))

	mockUserRepo.On("FindByID", uint(1)).Return(profileUser(), nil)

	router := setupRouter(1)
	router.GET("/profile", controller.GetProfile)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/profile", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := parseBody(t, w)["data"].(map[string]interface{})

	breakdown := data["calculation_breakdown"].(map[string]interface{})
	assert.Greater(t, breakdown["bmr"], float64(0))
	assert.Greater(t, breakdown["tdee"], breakdown["bmr"])
	assert.Equal(t, float64(0), breakdown["adjustment"])

	comparison := data["goals_comparison"].(map[string]interface{})
	calories := comparison["calories"].(map[string]interface{})
	assert.Equal(t, float64(2000), calories["current"])
}

func TestGetProfileWithoutBiometrics(t *testing.T) {
	mockUserRepo := new(mocks.MockUserRepository)
	mockFoodLogRepo := new(mocks.MockFoodLogRepository)
	controller := controllers.NewProfileController(mockUserRepo, mockFoodLogRepo, services.NewProfileService(mockUserRepo))

	mockUserRepo.On("FindByID", uint(1)).Return(surveyUser(), nil)

	router := setupRouter(1)
	router.GET("/profile", controller.GetProfile)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/profile", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := parseBody(t, w)["data"].(map[string]interface{})
	_, hasBreakdown := data["calculation_breakdown"]
	assert.False(t, hasBreakdown)
}

func TestUpdateGoalsCaloriesLeftMode(t *testing.T) {
	mockUserRepo := new(mocks.MockUserRepository)
	mockFoodLogRepo := new(mocks.MockFoodLogRepository)
	controller := controllers.NewProfileController(mockUserRepo, mockFoodLogRepo, services.NewProfileService(mockUserRepo))

	user := profileUser()
	logs := []models.FoodLog{
		{UserID: 1, FoodName: "Lunch", Calories: intPtr(1500), ProteinG: intPtr(60), FatsG: intPtr(50), CarbsG: intPtr(150)},
	}
	mockUserRepo.On("FindByID", uint(1)).Return(user, nil)
	mockUserRepo.On("Save", user).Return(nil)
	mockFoodLogRepo.On("FindTodayByUserID", uint(1), mock.Anything).Return(logs, nil)

	router := setupRouter(1)
	router.PATCH("/profile/goals", controller.UpdateGoals)

	w := patchForm(router, "/profile/goals", url.Values{"calories_left": {"800"}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2300, *user.DailyCaloriesGoal)
	data := parseBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(2300), data["daily_calories_goal"])
	assert.Equal(t, float64(800), data["calories_left"])
}

func TestUpdateGoalsDirectMode(t *testing.T) {
	mockUserRepo := new(mocks.MockUserRepository)
	mockFoodLogRepo := new(mocks.MockFoodLogRepository)
	controller := controllers.NewProfileController(mockUserRepo, mockFoodLogRepo, services.NewProfileService(mockUserRepo))

	user := profileUser()
	mockUserRepo.On("FindByID", uint(1)).Return(user, nil)
	mockUserRepo.On("Save", user).Return(nil)

	router := setupRouter(1)
	router.PATCH("/profile/goals", controller.UpdateGoals)

	w := patchForm(router, "/profile/goals", url.Values{
		"daily_calories_goal":  {"1900"},
		"daily_protein_goal_g": {"160"},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1900, *user.DailyCaloriesGoal)
	assert.Equal(t, 160, *user.DailyProteinGoalG)
	mockFoodLogRepo.AssertNotCalled(t, "FindTodayByUserID", mock.Anything, mock.Anything)
}

func TestUpdateGoalsRejectsNonNumeric(t *testing.T) {
	mockUserRepo := new(mocks.MockUserRepository)
	mockFoodLogRepo := new(mocks.MockFoodLogRepository)
	controller := controllers.NewProfileController(mockUserRepo, mockFoodLogRepo, services.NewProfileService(mockUserRepo))

	mockUserRepo.On("FindByID", uint(1)).Return(profileUser(), nil)

	router := setupRouter(1)
	router.PATCH("/profile/goals", controller.UpdateGoals)

	w := patchForm(router, "/profile/goals", url.Values{"calories_left": {"lots"}})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	mockUserRepo.AssertNotCalled(t, "Save", mock.Anything)
}

func TestUpdateProfileRecalculatesGoals(t *testing.T) {
	mockUserRepo := new(mocks.MockUserRepository)
	mockFoodLogRepo := new(mocks.MockFoodLogRepository)
	controller := controllers.NewProfileController(mockUserRepo, mockFoodLogRepo, services.NewProfileService(mockUserRepo))

	user := profileUser()
	user.DailyCaloriesGoal = intPtr(9999)
	mockUserRepo.On("FindByID", uint(1)).Return(user, nil)
	mockUserRepo.On("Save", user).Return(nil)

	router := setupRouter(1)
	router.PATCH("/profile", controller.UpdateProfile)

	w := patchForm(router, "/profile", url.Values{"weight_input": {"90"}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 90.0, *user.WeightKg)
	assert.NotEqual(t, 9999, *user.DailyCaloriesGoal)
	mockUserRepo.AssertNumberOfCalls(t, "Save", 2)
}

func TestDeleteProfile(t *testing.T) {
	mockUserRepo := new(mocks.MockUserRepository)
	mockFoodLogRepo := new(mocks.MockFoodLogRepository)
	controller := controllers.NewProfileController(mockUserRepo, mockFoodLogRepo, services.NewProfileService(mockUserRepo))

	mockUserRepo.On("Delete", uint(1)).Return(nil)

	router := setupRouter(1)
	router.DELETE("/profile", controller.DeleteProfile)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/profile", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockUserRepo.AssertExpectations(t)
}

func TestDeleteProfileFailure(t *testing.T) {
	mockUserRepo := new(mocks.MockUserRepository)
	mockFoodLogRepo := new(mocks.MockFoodLogRepository)
	controller := controllers.NewProfileController(mockUserRepo, mockFoodLogRepo, services.NewProfileService(mockUserRepo))

	mockUserRepo.On("Delete", uint(1)).Return(assert.AnError)

	router := setupRouter(1)
	router.DELETE("/profile", controller.DeleteProfile)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/profile", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
