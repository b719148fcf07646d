package quotation

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type QuotationController struct {
	QuotationService QuotationService
}

func NewQuotationController(quotationService QuotationService) *QuotationController {
	return &QuotationController{
		QuotationService: quotationService,
	}
}

type QuotationRequest struct {
	ClientID      string  `json:"client_id"`
	ProjectID     string  `json:"project_id"`
	UnitID        string  `json:"unit_id"`
	ListPriceUF   float64 `json:"list_price_uf"`
	DiscountPct   float64 `json:"discount_pct,omitempty"`
	CommissionPct float64 `json:"commission_pct,omitempty"`
	Status        string  `json:"status,omitempty"`
	ValidUntil    string  `json:"valid_until,omitempty"` // 2006-01-02
}

func (req *QuotationRequest) apply(q *Quotation) error {
	set := func(dst *primitive.ObjectID, hex string) error {
		if hex == "" {
			return nil
		}
		oid, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			return err
		}
		*dst = oid
		return nil
	}
	if err := set(&q.ClientID, req.ClientID); err != nil {
		return err
	}
	if err := set(&q.ProjectID, req.ProjectID); err != nil {
		return err
	}
	if err := set(&q.UnitID, req.UnitID); err != nil {
		return err
	}
	if req.ListPriceUF != 0 {
		q.ListPriceUF = req.ListPriceUF
	}
	q.DiscountPct = req.DiscountPct
	q.CommissionPct = req.CommissionPct
	if req.Status != "" {
		q.Status = QuotationStatus(req.Status)
	}
	if req.ValidUntil != "" {
		t, err := time.Parse("2006-01-02", req.ValidUntil)
		if err != nil {
			return err
		}
		q.ValidUntil = &t
	}
	return nil
}

func (ctrl *QuotationController) ListQuotations(c *fiber.Ctx) error {
	page, _ := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit", "20"), 10, 64)

	filter := make(map[string]interface{})
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}
	if clientID := c.Query("client_id"); clientID != "" {
		oid, err := primitive.ObjectIDFromHex(clientID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid client_id",
			})
		}
		filter["client_id"] = oid
	}

	quotations, total, err := ctrl.QuotationService.ListQuotations(c.UserContext(), filter, page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch quotations",
		})
	}

	return c.JSON(fiber.Map{
		"quotations": quotations,
		"total":      total,
		"page":       page,
		"limit":      limit,
	})
}

func (ctrl *QuotationController) GetQuotation(c *fiber.Ctx) error {
	q, err := ctrl.QuotationService.GetQuotationByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Quotation not found",
		})
	}
	return c.JSON(q)
}

func (ctrl *QuotationController) CreateQuotation(c *fiber.Ctx) error {
	var req QuotationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	q := &Quotation{}
	if err := req.apply(q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid id or date field",
		})
	}

	created, err := ctrl.QuotationService.CreateQuotation(c.UserContext(), q)
	if err != nil {
		var rejected *ErrPricingRejected
		if errors.As(err, &rejected) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": rejected.Message,
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (ctrl *QuotationController) UpdateQuotation(c *fiber.Ctx) error {
	id := c.Params("id")

	existing, err := ctrl.QuotationService.GetQuotationByID(c.UserContext(), id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Quotation not found",
		})
	}

	var req QuotationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := req.apply(existing); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid id or date field",
		})
	}

	if err := ctrl.QuotationService.UpdateQuotation(c.UserContext(), id, existing); err != nil {
		var rejected *ErrPricingRejected
		if errors.As(err, &rejected) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": rejected.Message,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(existing)
}

func (ctrl *QuotationController) DeleteQuotation(c *fiber.Ctx) error {
	if err := ctrl.QuotationService.DeleteQuotation(c.UserContext(), c.Params("id")); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete quotation",
		})
	}
	return c.JSON(fiber.Map{"message": "Quotation deleted"})
}

func (ctrl *QuotationController) GetPricingRule(c *fiber.Ctx) error {
	rule, err := ctrl.QuotationService.GetPricingRule(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch pricing rule",
		})
	}
	return c.JSON(rule)
}

type PricingRuleRequest struct {
	Name   string `json:"name"`
	Script string `json:"script"`
}

func (ctrl *QuotationController) SavePricingRule(c *fiber.Ctx) error {
	var req PricingRuleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	rule, err := ctrl.QuotationService.SavePricingRule(c.UserContext(), req.Name, req.Script)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(rule)
}
