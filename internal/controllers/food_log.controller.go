package controllers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"nutrilog/internal/middleware"
	"nutrilog/internal/models"
	"nutrilog/internal/repository"
	"nutrilog/internal/services"
)

type FoodLogController struct {
	userRepo       repository.UserRepository
	foodLogRepo    repository.FoodLogRepository
	foodLogService *services.FoodLogService
}

func NewFoodLogController(userRepo repository.UserRepository, foodLogRepo repository.FoodLogRepository, foodLogService *services.FoodLogService) *FoodLogController {
	return &FoodLogController{userRepo: userRepo, foodLogRepo: foodLogRepo, foodLogService: foodLogService}
}

var sortColumns = map[string]string{
	"date":      "created_at",
	"calories":  "calories",
	"protein_g": "protein_g",
	"fats_g":    "fats_g",
	"carbs_g":   "carbs_g",
}

type dayGroup struct {
	Date   string           `json:"date"`
	Logs   []models.FoodLog `json:"logs"`
	Totals models.Macros    `json:"totals"`
}

// ListFoodLogs returns the user's history grouped by calendar day. sort and
// direction are whitelisted; anything else falls back to newest first.
func (fc *FoodLogController) ListFoodLogs(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	column, ok := sortColumns[c.DefaultQuery("sort", "date")]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if c.Query("direction") == "asc" {
		direction = "ASC"
	}

	logs, err := fc.foodLogRepo.FindAllByUserID(userID, fmt.Sprintf("%s %s", column, direction))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to load food logs",
			"error":   err.Error(),
		})
		return
	}

	var groups []dayGroup
	index := map[string]int{}
	for _, entry := range logs {
		day := entry.CreatedAt.Local().Format("2006-01-02")
		i, seen := index[day]
		if !seen {
			i = len(groups)
			index[day] = i
			groups = append(groups, dayGroup{Date: day})
		}
		groups[i].Logs = append(groups[i].Logs, entry)
	}
	for i := range groups {
		groups[i].Totals = models.SumMacros(groups[i].Logs)
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Food logs retrieved successfully",
		"data":    groups,
	})
}

// CreateFoodLog handles manual and photo-analyzed entry. The analysis runs
// only when a photo is attached and every macro field is blank.
func (fc *FoodLogController) CreateFoodLog(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	user, err := fc.userRepo.FindByID(userID)
	if err != nil {
		userNotFound(c)
		return
	}

	params, errs := foodLogParams(c)
	if len(errs) > 0 {
		validationFailed(c, errs)
		return
	}

	result := fc.foodLogService.Create(c.Request.Context(), user, params)
	if !result.Success {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status":  "error",
			"message": result.ErrorMessage,
			"data":    result.FoodLog,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "Food log saved",
		"data":    result.FoodLog,
	})
}

// UpdateFoodLog merges supplied fields onto the entry; a new photo with all
// macro fields blank re-triggers analysis.
func (fc *FoodLogController) UpdateFoodLog(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid food log ID",
			"error":   "ID must be a valid positive integer",
		})
		return
	}

	foodLog, err := fc.foodLogRepo.FindByIDAndUserID(uint(id), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "Food log not found",
			"error":   "No food log exists with the provided ID",
		})
		return
	}

	params, errs := foodLogParams(c)
	if len(errs) > 0 {
		validationFailed(c, errs)
		return
	}

	result := fc.foodLogService.Update(c.Request.Context(), foodLog, params)
	if !result.Success {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status":  "error",
			"message": result.ErrorMessage,
			"data":    result.FoodLog,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Food log updated",
		"data":    result.FoodLog,
	})
}

// DeleteFoodLog removes an entry on explicit owner request.
func (fc *FoodLogController) DeleteFoodLog(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid food log ID",
			"error":   "ID must be a valid positive integer",
		})
		return
	}

	foodLog, err := fc.foodLogRepo.FindByIDAndUserID(uint(id), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "Food log not found",
			"error":   "No food log exists with the provided ID",
		})
		return
	}

	if err := fc.foodLogRepo.Delete(foodLog.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to delete food log",
			"error":   "Database deletion failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Entry removed",
		"data":    nil,
	})
}

// foodLogParams reads the multipart form. Blank macro fields map to nil so
// the analysis trigger can tell "absent" from zero.
func foodLogParams(c *gin.Context) (services.FoodLogParams, []string) {
	var errs []string
	params := services.FoodLogParams{FoodName: c.PostForm("food_name")}

	var ok bool
	if params.Calories, ok = optInt(c.PostForm("calories")); !ok {
		errs = append(errs, "calories must be a number")
	}
	if params.ProteinG, ok = optInt(c.PostForm("protein_g")); !ok {
		errs = append(errs, "protein_g must be a number")
	}
	if params.FatsG, ok = optInt(c.PostForm("fats_g")); !ok {
		errs = append(errs, "fats_g must be a number")
	}
	if params.CarbsG, ok = optInt(c.PostForm("carbs_g")); !ok {
		errs = append(errs, "carbs_g must be a number")
	}

	fileHeader, err := c.FormFile("photo")
	if err == nil && fileHeader != nil {
		file, err := fileHeader.Open()
		if err != nil {
			errs = append(errs, "photo could not be read")
			return params, errs
		}
		defer file.Close()

		photo, err := io.ReadAll(file)
		if err != nil {
			errs = append(errs, "photo could not be read")
			return params, errs
		}
		params.Photo = photo
		params.PhotoFilename = fileHeader.Filename
	}

	return params, errs
}
