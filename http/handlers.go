// http/handlers.go
package http

import (
	"bytes"
	"errors"
	"math"
	"regexp"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/yuin/goldmark"

	"github.com/vinizap/pinnotes/auth"
	"github.com/vinizap/pinnotes/domain"
	"github.com/vinizap/pinnotes/persist"
	"github.com/vinizap/pinnotes/store"
)

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}){1,2}$`)

type Server struct {
	store   store.Store
	nonces  *auth.Nonces
	ajaxURL string
	md      goldmark.Markdown
	logger  zerolog.Logger
}

func NewServer(st store.Store, nonces *auth.Nonces, ajaxURL string, logger zerolog.Logger) *Server {
	return &Server{
		store:   st,
		nonces:  nonces,
		ajaxURL: ajaxURL,
		md:      goldmark.New(),
		logger:  logger,
	}
}

// HandlePageNotes returns the notes of a page that the caller may see,
// with the session context needed to save positions.
func (s *Server) HandlePageNotes(c *fiber.Ctx) error {
	page, err := strconv.ParseInt(c.Params("page"), 10, 64)
	if err != nil || page < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid page")
	}
	u := auth.UserFrom(c)

	notes, err := s.store.ListForPage(c.UserContext(), page)
	if err != nil {
		return err
	}

	visible := domain.Visible(notes, u.ID)
	payload := domain.Payload{
		Session: domain.Session{
			AjaxURL: s.ajaxURL,
			Nonce:   s.nonces.Create(persist.ActionSavePosition, u.ID),
			UID:     u.ID,
		},
		Notes: make([]domain.PayloadNote, 0, len(visible)),
	}
	for _, n := range visible {
		payload.Notes = append(payload.Notes, n.ToPayload())
	}
	return c.JSON(payload)
}

// HandleAjax dispatches form posts on their action field.
func (s *Server) HandleAjax(c *fiber.Ctx) error {
	switch action := c.FormValue("action"); action {
	case persist.ActionSavePosition:
		return s.savePosition(c)
	default:
		return ajaxError(c, fiber.StatusBadRequest, "unknown action")
	}
}

func (s *Server) savePosition(c *fiber.Ctx) error {
	u := auth.UserFrom(c)
	ctx := c.UserContext()

	if !s.nonces.Verify(c.FormValue("nonce"), persist.ActionSavePosition, u.ID) {
		return ajaxError(c, fiber.StatusForbidden, "invalid nonce")
	}

	id, err := strconv.ParseInt(c.FormValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return ajaxError(c, fiber.StatusNotFound, "invalid note")
	}
	note, err := s.store.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ajaxError(c, fiber.StatusNotFound, "invalid note")
	}
	if err != nil {
		return err
	}

	if !u.LoggedIn() {
		return ajaxError(c, fiber.StatusUnauthorized, "not logged")
	}
	if !domain.CanMove(note, u) {
		return ajaxError(c, fiber.StatusForbidden, "no permission")
	}

	cx, okX := coord(c.FormValue("cx"))
	cy, okY := coord(c.FormValue("cy"))
	if !okX || !okY {
		return ajaxError(c, fiber.StatusBadRequest, "missing coords")
	}

	if err := s.store.SavePosition(ctx, id, cx, cy); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ajaxError(c, fiber.StatusNotFound, "invalid note")
		}
		return err
	}

	s.logger.Info().Int64("note", id).Int64("user", u.ID).Float64("cx", cx).Float64("cy", cy).Msg("position saved")
	return c.JSON(domain.SaveResponse{
		Success: true,
		Data:    map[string]any{"saved": true, "cx": cx, "cy": cy},
	})
}

type createNoteRequest struct {
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	Color      string  `json:"color"`
	Page       int64   `json:"page"`
	Public     bool    `json:"public"`
	SharedWith []int64 `json:"shared_with"`
}

// HandleCreateNote stores a note owned by the caller. Content is markdown
// and is rendered to HTML once, here; raw HTML in it is dropped.
func (s *Server) HandleCreateNote(c *fiber.Ctx) error {
	u := auth.UserFrom(c)
	if !u.LoggedIn() {
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}

	var req createNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if req.Page < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid page")
	}

	var html bytes.Buffer
	if err := s.md.Convert([]byte(req.Content), &html); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	note := &domain.Note{
		Title:      req.Title,
		Content:    html.String(),
		Color:      sanitizeColor(req.Color),
		AuthorID:   u.ID,
		PageID:     req.Page,
		Public:     req.Public,
		SharedWith: sharedUsers(req.SharedWith),
	}
	if err := s.store.Create(c.UserContext(), note); err != nil {
		return err
	}

	s.logger.Info().Int64("note", note.ID).Int64("user", u.ID).Int64("page", note.PageID).Msg("note created")
	return c.Status(fiber.StatusCreated).JSON(note)
}

// HandleMyNotes lists only the caller's own notes, whatever their role.
func (s *Server) HandleMyNotes(c *fiber.Ctx) error {
	u := auth.UserFrom(c)
	if !u.LoggedIn() {
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	notes, err := s.store.ListByAuthor(c.UserContext(), u.ID)
	if err != nil {
		return err
	}
	if notes == nil {
		notes = []*domain.Note{}
	}
	return c.JSON(fiber.Map{"notes": notes, "total": len(notes)})
}

func ajaxError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(domain.SaveResponse{
		Success: false,
		Data:    map[string]any{"msg": msg},
	})
}

func coord(v string) (float64, bool) {
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// sanitizeColor keeps #rgb and #rrggbb colors and replaces anything else
// with the default.
func sanitizeColor(color string) string {
	if hexColor.MatchString(color) {
		return color
	}
	return domain.DefaultColor
}

func sharedUsers(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id > 0 {
			out = append(out, id)
		}
	}
	return out
}
