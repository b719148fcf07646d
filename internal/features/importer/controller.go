package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"estate-crm/internal/config"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
)

type ImportController struct {
	UploadDir     string
	ImportService ImportService
}

func NewImportController(importService ImportService, cfg *config.Config) *ImportController {
	if _, err := os.Stat(cfg.UploadPath); os.IsNotExist(err) {
		os.MkdirAll(cfg.UploadPath, 0755)
	}
	return &ImportController{
		UploadDir:     cfg.UploadPath,
		ImportService: importService,
	}
}

// archiveUpload keeps a copy of the analyzed sheet on disk so a job can be
// audited after the fact. Failure to archive does not block the import.
func (ctrl *ImportController) archiveUpload(c *fiber.Ctx, fileHeader *multipart.FileHeader) {
	originalName := filepath.Base(fileHeader.Filename)
	uniqueName := fmt.Sprintf("%d_%s", time.Now().UnixNano(), originalName)
	uniqueName = strings.ReplaceAll(uniqueName, " ", "_")
	_ = c.SaveFile(fileHeader, filepath.Join(ctrl.UploadDir, uniqueName))
}

// mappingOverride reads the optional "mapping" form field, a JSON object of
// header -> schema field. An empty-string value unmaps the header.
func mappingOverride(c *fiber.Ctx) (map[string]string, error) {
	raw := c.FormValue("mapping")
	if raw == "" {
		return nil, nil
	}
	var override map[string]string
	if err := json.Unmarshal([]byte(raw), &override); err != nil {
		return nil, err
	}
	return override, nil
}

func (ctrl *ImportController) Preview(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "File is required",
		})
	}
	override, err := mappingOverride(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid mapping override",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to read file",
		})
	}
	defer file.Close()

	preview, err := ctrl.ImportService.Preview(c.UserContext(), file, fileHeader.Filename, override)
	if err != nil {
		return importError(c, err)
	}
	return c.JSON(preview)
}

func (ctrl *ImportController) Analyze(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "File is required",
		})
	}
	override, err := mappingOverride(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid mapping override",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to read file",
		})
	}
	defer file.Close()

	ctrl.archiveUpload(c, fileHeader)

	job, err := ctrl.ImportService.Analyze(c.UserContext(), file, fileHeader.Filename, override)
	if err != nil {
		return importError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(job)
}

func (ctrl *ImportController) Apply(c *fiber.Ctx) error {
	job, err := ctrl.ImportService.Apply(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Import job not found",
			})
		}
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(job)
}

func (ctrl *ImportController) ListJobs(c *fiber.Ctx) error {
	limit, _ := strconv.ParseInt(c.Query("limit", "50"), 10, 64)
	jobs, err := ctrl.ImportService.ListJobs(c.UserContext(), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch import jobs",
		})
	}
	return c.JSON(fiber.Map{"jobs": jobs})
}

func (ctrl *ImportController) GetJob(c *fiber.Ctx) error {
	job, err := ctrl.ImportService.GetJob(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Import job not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch import job",
		})
	}
	return c.JSON(job)
}

func importError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrMalformedFile), errors.Is(err, ErrMissingKeyColumn):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Import failed",
		})
	}
}
