package job

import (
	"bytes"
	"errors"
	"fmt"

	"surplus-scraper/internal/core/export"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	job *Service
}

func NewHandler(job *Service) *Handler { return &Handler{job: job} }

func (h *Handler) HandleCreate(c *fiber.Ctx) error {
	var req Request
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
		}
	}
	id := h.job.Start(req)
	return c.JSON(fiber.Map{"job_id": id, "status": "started"})
}

func (h *Handler) HandleGetStatus(c *fiber.Ctx) error {
	view, err := h.job.Status(c.Params("jobId"))
	if err != nil {
		return notFound(c, err)
	}
	return c.JSON(view)
}

func (h *Handler) HandleGetRecords(c *fiber.Ctx) error {
	id := c.Params("jobId")
	records, err := h.job.Records(id)
	if err != nil {
		return notFound(c, err)
	}
	return c.JSON(fiber.Map{"job_id": id, "count": len(records), "data": records})
}

func (h *Handler) HandleExportCSV(c *fiber.Ctx) error {
	id := c.Params("jobId")
	records, err := h.job.Records(id)
	if err != nil {
		return notFound(c, err)
	}
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, records); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=surplus_equipment_%s.csv", id))
	return c.Send(buf.Bytes())
}

func (h *Handler) HandleExportJSON(c *fiber.Ctx) error {
	id := c.Params("jobId")
	records, err := h.job.Records(id)
	if err != nil {
		return notFound(c, err)
	}
	var buf bytes.Buffer
	if err := export.WriteJSON(&buf, records); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=surplus_equipment_%s.json", id))
	return c.Send(buf.Bytes())
}

func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	if err := h.job.Delete(c.Params("jobId")); err != nil {
		return notFound(c, err)
	}
	return c.JSON(fiber.Map{"message": "job deleted"})
}

func (h *Handler) HandleList(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"jobs": h.job.List()})
}

func notFound(c *fiber.Ctx, err error) error {
	if errors.Is(err, ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "job not found"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
