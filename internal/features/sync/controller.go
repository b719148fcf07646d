package sync

import (
	"github.com/gofiber/fiber/v2"
)

type SyncController struct {
	SyncService SyncService
}

func NewSyncController(syncService SyncService) *SyncController {
	return &SyncController{
		SyncService: syncService,
	}
}

func (ctrl *SyncController) ListSettings(c *fiber.Ctx) error {
	settings, err := ctrl.SyncService.ListSettings(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch sync settings",
		})
	}
	return c.JSON(fiber.Map{"settings": settings})
}

func (ctrl *SyncController) GetSetting(c *fiber.Ctx) error {
	setting, err := ctrl.SyncService.GetSetting(c.UserContext(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Sync setting not found",
		})
	}
	return c.JSON(setting)
}

func (ctrl *SyncController) SaveSetting(c *fiber.Ctx) error {
	var setting SyncSetting
	if err := c.BodyParser(&setting); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	saved, err := ctrl.SyncService.SaveSetting(c.UserContext(), &setting)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(saved)
}

func (ctrl *SyncController) DeleteSetting(c *fiber.Ctx) error {
	if err := ctrl.SyncService.DeleteSetting(c.UserContext(), c.Params("id")); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete sync setting",
		})
	}
	return c.JSON(fiber.Map{"message": "Sync setting deleted"})
}

func (ctrl *SyncController) TestSetting(c *fiber.Ctx) error {
	if err := ctrl.SyncService.TestSetting(c.UserContext(), c.Params("id")); err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Connection ok"})
}

func (ctrl *SyncController) Run(c *fiber.Ctx) error {
	job, err := ctrl.SyncService.Run(c.UserContext(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(job)
}
