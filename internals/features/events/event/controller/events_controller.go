package controller

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"gigstage_backend/internals/features/events/event/dto"
	"gigstage_backend/internals/features/events/event/model"
	"gigstage_backend/internals/features/events/event/service"
	helper "gigstage_backend/internals/helpers"
)

type EventController struct {
	DB      *gorm.DB
	Service *service.EventService
}

func NewEventController(db *gorm.DB) *EventController {
	return &EventController{DB: db, Service: service.NewEventService(db)}
}

func parseEventID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(c.Params("id")))
}

// POST /api/events
func (ctrl *EventController) CreateEvent(c *fiber.Ctx) error {
	organizerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}

	var req dto.CreateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	ev, err := ctrl.Service.Create(c.UserContext(), organizerID, req)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonCreated(c, "event published", dto.ToEventResponse(ev))
}

// GET /api/events/feed?category=&location=&page=&per_page=
func (ctrl *EventController) GetFeed(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	events, total, err := ctrl.Service.Feed(
		c.UserContext(), c.Query("category"), c.Query("location"),
		paging.Limit, paging.Offset,
	)
	if err != nil {
		return helper.FromDomainError(c, err)
	}

	pagination := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "event feed", dto.ToEventResponseList(events), &pagination)
}

// GET /api/events/search?q=&category=
func (ctrl *EventController) Search(c *fiber.Ctx) error {
	term := strings.TrimSpace(c.Query("q"))
	if term == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "search term is required")
	}

	events, err := ctrl.Service.Search(c.UserContext(), term, c.Query("category"), 20)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonOK(c, "search results", dto.ToEventResponseList(events))
}

// GET /api/events/:id
func (ctrl *EventController) GetEventDetail(c *fiber.Ctx) error {
	eventID, err := parseEventID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid event id")
	}

	detail, err := ctrl.Service.Detail(c.UserContext(), eventID)
	if err != nil {
		return helper.FromDomainError(c, err)
	}

	resp := dto.ToEventResponse(detail.Event)
	resp.Organizer = detail.Organizer
	return helper.JsonOK(c, "event found", fiber.Map{
		"event":        resp,
		"participants": detail.Participants,
	})
}

// GET /api/events/mine — organizer dashboard
func (ctrl *EventController) GetMyEvents(c *fiber.Ctx) error {
	organizerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}

	summaries, err := ctrl.Service.OrganizerEvents(c.UserContext(), organizerID)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonOK(c, "your events", summaries)
}

// POST /api/events/:id/start
func (ctrl *EventController) StartEvent(c *fiber.Ctx) error {
	return ctrl.transition(c, ctrl.Service.Start, "event started")
}

// POST /api/events/:id/complete
func (ctrl *EventController) CompleteEvent(c *fiber.Ctx) error {
	return ctrl.transition(c, ctrl.Service.Complete, "event completed")
}

// POST /api/events/:id/cancel
func (ctrl *EventController) CancelEvent(c *fiber.Ctx) error {
	return ctrl.transition(c, ctrl.Service.Cancel, "event cancelled")
}

// POST /api/events/:id/highlight
func (ctrl *EventController) HighlightEvent(c *fiber.Ctx) error {
	organizerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	eventID, err := parseEventID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid event id")
	}

	var req dto.HighlightEventRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	ev, err := ctrl.Service.Highlight(c.UserContext(), organizerID, eventID, req.ExpiresAt)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonUpdated(c, "event highlighted", dto.ToEventResponse(ev))
}

func (ctrl *EventController) transition(
	c *fiber.Ctx,
	fn func(ctx context.Context, organizerID, eventID uuid.UUID) (*model.EventModel, error),
	message string,
) error {
	organizerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	eventID, err := parseEventID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid event id")
	}

	ev, err := fn(c.UserContext(), organizerID, eventID)
	if err != nil {
		return helper.FromDomainError(c, err)
	}
	return helper.JsonUpdated(c, message, dto.ToEventResponse(ev))
}
