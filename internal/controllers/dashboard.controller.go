package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"nutrilog/internal/middleware"
	"nutrilog/internal/models"
	"nutrilog/internal/repository"
)

type DashboardController struct {
	userRepo    repository.UserRepository
	foodLogRepo repository.FoodLogRepository
}

func NewDashboardController(userRepo repository.UserRepository, foodLogRepo repository.FoodLogRepository) *DashboardController {
	return &DashboardController{userRepo: userRepo, foodLogRepo: foodLogRepo}
}

// GetDashboard aggregates today's consumption against the daily targets:
// consumed totals, remaining macros (floored at zero), the signed calories
// balance and the over-limit flag. Users who have not completed the survey
// are pointed at onboarding instead.
func (dc *DashboardController) GetDashboard(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	user, err := dc.userRepo.FindByID(userID)
	if err != nil {
		userNotFound(c)
		return
	}

	if !user.SurveyCompleted {
		c.JSON(http.StatusConflict, gin.H{
			"status":   "error",
			"message":  "Please complete the onboarding survey first",
			"redirect": "/onboarding",
		})
		return
	}

	logs, err := dc.foodLogRepo.FindTodayByUserID(user.ID, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to load today's logs",
			"error":   err.Error(),
		})
		return
	}

	consumed := models.SumMacros(logs)

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Dashboard retrieved successfully",
		"data": gin.H{
			"goals": gin.H{
				"calories":  user.DailyCaloriesGoal,
				"protein_g": user.DailyProteinGoalG,
				"fats_g":    user.DailyFatsGoalG,
				"carbs_g":   user.DailyCarbsGoalG,
			},
			"consumed":         consumed,
			"remaining":        user.RemainingMacros(consumed),
			"calories_balance": user.CaloriesBalance(consumed),
			"over_limit":       user.OverLimit(consumed),
			"todays_logs":      logs,
		},
	})
}
