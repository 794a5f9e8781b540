package handler

import (
	"strconv"
	"time"

	"go-hradmin/internal/model"
	"go-hradmin/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReviewHandler struct {
	reviewService service.ReviewService
}

func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

type CreateReviewRequest struct {
	EmployeeID uint   `json:"employee_id"`
	Year       int    `json:"year"`
	Quarter    int    `json:"quarter"`
	RatingID   int    `json:"rating_id"`
	Comment    string `json:"comment"`
	ReviewDate string `json:"review_date"`
}

// Create records a quarterly review written by the authenticated supervisor.
func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	var req CreateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	reviewDate, err := time.Parse("2006-01-02", req.ReviewDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "review_date must be in YYYY-MM-DD format",
		})
	}

	supervisorID, _ := c.Locals("employee_id").(uint)
	review := &model.Review{
		EmployeeID:   req.EmployeeID,
		SupervisorID: supervisorID,
		Year:         req.Year,
		Quarter:      req.Quarter,
		RatingID:     req.RatingID,
		Comment:      req.Comment,
		ReviewDate:   reviewDate,
	}

	review, err = h.reviewService.Create(review)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to create review",
		})
	}
	if len(review.Errors) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": review.Errors,
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Review created",
		"review":  review,
	})
}

// GetPending lists employees still awaiting a review, grouped by quarter.
// HR supervisors and the CEO can pass all=true to see every supervisor's
// pending reviews.
func (h *ReviewHandler) GetPending(c *fiber.Ctx) error {
	supervisorID, _ := c.Locals("employee_id").(uint)
	role, _ := c.Locals("role").(string)

	filter := &supervisorID
	if c.Query("all") == "true" && (role == model.RoleHRSupervisor || role == model.RoleCEO) {
		filter = nil
	}

	groups, err := h.reviewService.GetPendingEmployeesForReview(filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to fetch pending reviews",
		})
	}
	return c.JSON(fiber.Map{"pending_reviews": groups})
}

// GetEmployeeReviews lists reviews received by the authenticated employee.
func (h *ReviewHandler) GetEmployeeReviews(c *fiber.Ctx) error {
	employeeID, _ := c.Locals("employee_id").(uint)

	reviews, err := h.reviewService.GetReviews(employeeID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to fetch reviews",
		})
	}
	return c.JSON(fiber.Map{"reviews": reviews})
}

// MarkAsRead flags one received review as read.
func (h *ReviewHandler) MarkAsRead(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid review id",
		})
	}

	if err := h.reviewService.MarkReviewAsRead(uint(id)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to mark review as read",
		})
	}
	return c.JSON(fiber.Map{"message": "Review marked as read"})
}
