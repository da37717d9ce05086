package handlers

import (
	"lumora/internal/repositories"

	"github.com/gofiber/fiber/v2"
)

func HealthCheck(c *fiber.Ctx) error {
	dbStatus := "connected"
	if sqlDB, err := repositories.DB.DB(); err != nil || sqlDB.Ping() != nil {
		dbStatus = "unavailable"
	}

	redisStatus := "connected"
	if err := repositories.CacheService.HealthCheck(c.Context()); err != nil {
		redisStatus = "unavailable"
	}

	status := "ok"
	if dbStatus != "connected" || redisStatus != "connected" {
		status = "degraded"
	}

	return c.JSON(fiber.Map{
		"status":  status,
		"version": "1.0.0",
		"services": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
	})
}
