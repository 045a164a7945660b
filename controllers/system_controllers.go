package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/reservation-app/database"
	"github.com/yeremiapane/reservation-app/utils"
	"gorm.io/gorm"
)

type SystemController struct {
	DB *gorm.DB
}

func NewSystemController(db *gorm.DB) *SystemController {
	return &SystemController{DB: db}
}

func (sc *SystemController) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// TestDB -> GET /api/test-db, cek koneksi database
func (sc *SystemController) TestDB(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := database.Ping(ctx, sc.DB); err != nil {
		utils.ErrorLogger.WithError(err).Error("Database connection test failed")
		utils.RespondError(c, http.StatusInternalServerError, errors.New("Database connection failed"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Database connection successful", nil)
}
