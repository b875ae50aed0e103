package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"nutrilog/internal/middleware"
	"nutrilog/internal/models"
	"nutrilog/internal/nutrition"
	"nutrilog/internal/repository"
	"nutrilog/internal/services"
)

type ProfileController struct {
	userRepo       repository.UserRepository
	foodLogRepo    repository.FoodLogRepository
	profileService *services.ProfileService
}

func NewProfileController(userRepo repository.UserRepository, foodLogRepo repository.FoodLogRepository, profileService *services.ProfileService) *ProfileController {
	return &ProfileController{userRepo: userRepo, foodLogRepo: foodLogRepo, profileService: profileService}
}

// GetProfile returns the profile with its calculation breakdown and the
// stored-vs-calculated goal comparison.
func (pc *ProfileController) GetProfile(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	user, err := pc.userRepo.FindByID(userID)
	if err != nil {
		userNotFound(c)
		return
	}

	now := time.Now()
	data := gin.H{"user": user}
	if input, ok := user.GoalInput(now); ok {
		data["calculation_breakdown"] = nutrition.ComputeBreakdown(input)
		data["goals_comparison"] = user.GoalsComparison(now)
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Profile retrieved successfully",
		"data":    data,
	})
}

type updateGoalsRequest struct {
	CaloriesLeft      string `form:"calories_left" json:"calories_left"`
	DailyCaloriesGoal string `form:"daily_calories_goal" json:"daily_calories_goal"`
	DailyProteinGoalG string `form:"daily_protein_goal_g" json:"daily_protein_goal_g"`
	DailyFatsGoalG    string `form:"daily_fats_goal_g" json:"daily_fats_goal_g"`
	DailyCarbsGoalG   string `form:"daily_carbs_goal_g" json:"daily_carbs_goal_g"`
}

// UpdateGoals supports two manual modes: direct daily_* goal updates, and
// calories_left, where the user edits today's remaining calories and the
// stored daily goal is derived from it (consumed + wanted remaining).
func (pc *ProfileController) UpdateGoals(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	user, err := pc.userRepo.FindByID(userID)
	if err != nil {
		userNotFound(c)
		return
	}

	var req updateGoalsRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request data",
			"error":   err.Error(),
		})
		return
	}

	caloriesLeft, ok := optInt(req.CaloriesLeft)
	if !ok {
		validationFailed(c, []string{"calories_left must be a number"})
		return
	}

	if caloriesLeft != nil {
		logs, err := pc.foodLogRepo.FindTodayByUserID(user.ID, time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":  "error",
				"message": "Failed to load today's logs",
				"error":   err.Error(),
			})
			return
		}
		consumed := models.SumMacros(logs)
		newGoal := consumed.Calories + *caloriesLeft

		validationErrs, err := pc.profileService.UpdateProfile(user, services.SurveyAttributes{DailyCaloriesGoal: &newGoal})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":  "error",
				"message": "Failed to update goals",
				"error":   err.Error(),
			})
			return
		}
		if len(validationErrs) > 0 {
			validationFailed(c, validationErrs)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "success",
			"message": "Goals updated successfully",
			"data": gin.H{
				"daily_calories_goal": user.DailyCaloriesGoal,
				"calories_left":       *caloriesLeft,
			},
		})
		return
	}

	attrs := services.SurveyAttributes{}
	var errs []string
	if attrs.DailyCaloriesGoal, ok = optInt(req.DailyCaloriesGoal); !ok {
		errs = append(errs, "daily_calories_goal must be a number")
	}
	if attrs.DailyProteinGoalG, ok = optInt(req.DailyProteinGoalG); !ok {
		errs = append(errs, "daily_protein_goal_g must be a number")
	}
	if attrs.DailyFatsGoalG, ok = optInt(req.DailyFatsGoalG); !ok {
		errs = append(errs, "daily_fats_goal_g must be a number")
	}
	if attrs.DailyCarbsGoalG, ok = optInt(req.DailyCarbsGoalG); !ok {
		errs = append(errs, "daily_carbs_goal_g must be a number")
	}
	if len(errs) > 0 {
		validationFailed(c, errs)
		return
	}

	validationErrs, err := pc.profileService.UpdateProfile(user, attrs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to update goals",
			"error":   err.Error(),
		})
		return
	}
	if len(validationErrs) > 0 {
		validationFailed(c, validationErrs)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Goals updated successfully",
		"data":    user,
	})
}

// UpdateProfile applies biometric and preference changes; a goal-relevant
// change on an active profile recalculates the stored targets.
func (pc *ProfileController) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	user, err := pc.userRepo.FindByID(userID)
	if err != nil {
		userNotFound(c)
		return
	}

	var req onboardingRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request data",
			"error":   err.Error(),
		})
		return
	}

	attrs, errs := surveyAttributes(req)
	if len(errs) > 0 {
		validationFailed(c, errs)
		return
	}

	validationErrs, err := pc.profileService.UpdateProfile(user, attrs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to update profile",
			"error":   err.Error(),
		})
		return
	}
	if len(validationErrs) > 0 {
		validationFailed(c, validationErrs)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Profile updated successfully",
		"data":    user,
	})
}

// DeleteProfile removes the account and all of its food logs.
func (pc *ProfileController) DeleteProfile(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	if err := pc.userRepo.Delete(userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to delete profile",
			"error":   "Database deletion failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Profile deleted successfully",
		"data":    nil,
	})
}
