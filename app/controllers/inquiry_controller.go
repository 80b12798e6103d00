package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/mandi2mandi/marketguard/internal/pkg/contactguard"
	"github.com/mandi2mandi/marketguard/internal/pkg/inquiry"
)

// InquiryController serves the buyer/seller chat and live contact checks.
type InquiryController struct {
	pipeline *inquiry.Pipeline
	detector inquiry.VerdictSource
}

func NewInquiryController(pipeline *inquiry.Pipeline, detector inquiry.VerdictSource) *InquiryController {
	return &InquiryController{pipeline: pipeline, detector: detector}
}

type postMessageRequest struct {
	Sender string `json:"sender" validate:"required,max=191"`
	Text   string `json:"text" validate:"required,max=4000"`
}

func (ic *InquiryController) HandlePostMessage(c *fiber.Ctx) error {
	var req postMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_payload", "Request body could not be parsed")
	}
	if err := validate.Struct(req); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}

	out, err := ic.pipeline.Submit(c.UserContext(), c.Params("id"), req.Sender, req.Text)
	if err != nil {
		if errors.Is(err, inquiry.ErrEmptyMessage) {
			return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
		}
		log.Errorf("[Inquiry] Failed to submit message on inquiry=%s: %v", c.Params("id"), err)
		return jsonError(c, fiber.StatusInternalServerError, "message_persist_failed", "Message could not be stored")
	}

	if out.Action == inquiry.ActionBlock {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":   "contact_info_blocked",
			"message": out.Notice,
			"verdict": out.Verdict,
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": out.Message,
		"warning": out.Notice,
		"verdict": out.Verdict,
	})
}

func (ic *InquiryController) HandleListMessages(c *fiber.Ctx) error {
	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 50)
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	inquiryID := c.Params("id")
	messages, err := ic.pipeline.List(inquiryID, offset, limit)
	if err != nil {
		log.Errorf("[Inquiry] Failed to list messages on inquiry=%s: %v", inquiryID, err)
		return jsonError(c, fiber.StatusInternalServerError, "lookup_failed", "Messages could not be loaded")
	}
	flagged, err := ic.pipeline.Flagged(inquiryID)
	if err != nil {
		log.Errorf("[Inquiry] Failed to count flagged messages on inquiry=%s: %v", inquiryID, err)
		return jsonError(c, fiber.StatusInternalServerError, "lookup_failed", "Messages could not be loaded")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"messages": messages, "flaggedCount": flagged})
}

type contactCheckRequest struct {
	Text string `json:"text"`
}

// HandleContactCheck classifies text without storing it, for live hints in
// the chat composer.
func (ic *InquiryController) HandleContactCheck(c *fiber.Ctx) error {
	var req contactCheckRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_payload", "Request body could not be parsed")
	}

	v := ic.detector.Detect(c.UserContext(), req.Text)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"verdict":        v,
		"warningMessage": contactguard.WarningMessage(v.Categories),
		"blockMessage":   contactguard.BlockMessage(v.Categories),
	})
}
