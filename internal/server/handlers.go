package server

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"

	"github.com/thenoetrevino/tablo/internal/blobstore"
	"github.com/thenoetrevino/tablo/internal/models"
	"github.com/thenoetrevino/tablo/internal/query"
	taskservice "github.com/thenoetrevino/tablo/internal/services/task"
	"github.com/thenoetrevino/tablo/internal/types"
)

// ============================================================================
// REQUEST / RESPONSE BODIES
// ============================================================================

type boardResponse struct {
	Columns       []*models.Column     `json:"columns"`
	Revision      uint64               `json:"revision"`
	SearchQuery   string               `json:"searchQuery"`
	FilterOptions models.FilterOptions `json:"filterOptions"`
	IsFiltering   bool                 `json:"isFiltering"`
}

type createTaskBody struct {
	ColumnID    string                 `json:"columnId"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Assignee    []string               `json:"assignee"`
	DueDate     string                 `json:"dueDate"`
	Label       string                 `json:"label"`
	Priority    string                 `json:"priority"`
	Checklist   []models.ChecklistItem `json:"checklist"`
	Attachments []string               `json:"attachments"`
	CoverImage  string                 `json:"coverImage"` // data URI
}

// updateTaskBody fields left out of the request are not changed.
// An empty coverImage removes the cover.
type updateTaskBody struct {
	Title       *string                 `json:"title"`
	Description *string                 `json:"description"`
	Assignee    *[]string               `json:"assignee"`
	DueDate     *string                 `json:"dueDate"`
	Label       *string                 `json:"label"`
	Priority    *string                 `json:"priority"`
	Checklist   *[]models.ChecklistItem `json:"checklist"`
	Attachments *[]string               `json:"attachments"`
	CoverImage  *string                 `json:"coverImage"`
}

// taskResponse carries a task plus a warning for partially applied writes
type taskResponse struct {
	*models.Task
	Warning string `json:"warning,omitempty"`
}

type moveBody struct {
	ColumnID string `json:"columnId"`
}

type orderBody struct {
	TaskIDs []string `json:"taskIds"`
}

type checklistBody struct {
	Done *bool `json:"done"`
}

type metricsResponse struct {
	Store  taskservice.MetricsSnapshot `json:"store"`
	Server MetricsSnapshot             `json:"server"`
	Events *eventMetrics               `json:"events,omitempty"`
}

type eventMetrics struct {
	Published   int64 `json:"published"`
	Dropped     int64 `json:"dropped"`
	Subscribers int   `json:"subscribers"`
}

// ============================================================================
// HANDLERS
// ============================================================================

func (s *Server) getBoard(c echo.Context) error {
	q := c.QueryParam("q")
	filters := models.FilterOptions{
		Label:    strings.TrimSpace(c.QueryParam("label")),
		Assignee: strings.TrimSpace(c.QueryParam("assignee")),
		DueDate:  strings.TrimSpace(c.QueryParam("dueDate")),
	}

	var (
		body []byte
		err  error
	)
	// encode under the read lock; unfiltered columns are the live ones
	s.store.Read(func(board *models.Board, revision uint64) {
		visible := s.engine.Visible(board, q, filters)
		body, err = sonic.Marshal(boardResponse{
			Columns:       visible.Columns,
			Revision:      revision,
			SearchQuery:   q,
			FilterOptions: filters,
			IsFiltering:   query.IsFiltering(q, filters),
		})
	})
	if err != nil {
		return err
	}
	return c.JSONBlob(http.StatusOK, body)
}

func (s *Server) getTask(c echo.Context) error {
	task, err := s.store.GetTask(c.Request().Context(), taskID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

func (s *Server) createTask(c echo.Context) error {
	var body createTaskBody
	if err := decodeBody(c, &body); err != nil {
		return err
	}

	req := taskservice.CreateTaskRequest{
		ColumnID:    parseColumn(body.ColumnID),
		Title:       body.Title,
		Description: body.Description,
		Assignee:    body.Assignee,
		DueDate:     body.DueDate,
		Label:       body.Label,
		Priority:    body.Priority,
		Checklist:   body.Checklist,
		Attachments: body.Attachments,
	}
	if body.CoverImage != "" {
		cover, err := blobstore.DecodeDataURI(body.CoverImage)
		if err != nil {
			return err
		}
		req.Cover = cover
	}

	task, err := s.store.CreateTask(c.Request().Context(), req)
	if task == nil {
		return err
	}
	resp := taskResponse{Task: task}
	if err != nil {
		resp.Warning = err.Error()
	}
	return c.JSON(http.StatusCreated, resp)
}

func (s *Server) updateTask(c echo.Context) error {
	var body updateTaskBody
	if err := decodeBody(c, &body); err != nil {
		return err
	}

	req := taskservice.UpdateTaskRequest{
		TaskID:      taskID(c),
		Title:       body.Title,
		Description: body.Description,
		Assignee:    body.Assignee,
		DueDate:     body.DueDate,
		Label:       body.Label,
		Priority:    body.Priority,
		Checklist:   body.Checklist,
		Attachments: body.Attachments,
	}
	if body.CoverImage != nil {
		req.CoverSet = true
		if *body.CoverImage != "" {
			cover, err := blobstore.DecodeDataURI(*body.CoverImage)
			if err != nil {
				return err
			}
			req.Cover = cover
		}
	}

	task, err := s.store.UpdateTask(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

func (s *Server) deleteTask(c echo.Context) error {
	if err := s.store.DeleteTask(c.Request().Context(), taskID(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) moveTask(c echo.Context) error {
	var body moveBody
	if err := decodeBody(c, &body); err != nil {
		return err
	}

	ctx := c.Request().Context()
	id := taskID(c)
	if err := s.store.MoveTask(ctx, id, parseColumn(body.ColumnID)); err != nil {
		return err
	}
	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

func (s *Server) reorderColumn(c echo.Context) error {
	var body orderBody
	if err := decodeBody(c, &body); err != nil {
		return err
	}

	ordered := make([]types.TaskID, len(body.TaskIDs))
	for i, id := range body.TaskIDs {
		ordered[i] = types.TaskID(id)
	}
	if err := s.store.ReorderColumn(c.Request().Context(), parseColumn(c.Param("id")), ordered); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) setChecklistItem(c echo.Context) error {
	var body checklistBody
	if err := decodeBody(c, &body); err != nil {
		return err
	}
	if body.Done == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "done is required")
	}

	task, err := s.store.SetChecklistItemDone(c.Request().Context(), taskID(c), types.ChecklistItemID(c.Param("itemId")), *body.Done)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

// putCover stores the raw request body as the task cover. The Content-Type
// header is kept as the media type; without one the type is sniffed.
func (s *Server) putCover(c echo.Context) error {
	data, err := io.ReadAll(io.LimitReader(c.Request().Body, maxCoverBytes+1))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read body").SetInternal(err)
	}
	if len(data) > maxCoverBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "cover image too large")
	}
	if len(data) == 0 {
		return blobstore.ErrEmptyCover
	}

	task, err := s.store.UpdateTask(c.Request().Context(), taskservice.UpdateTaskRequest{
		TaskID:   taskID(c),
		CoverSet: true,
		Cover: &models.CoverPayload{
			MediaType: c.Request().Header.Get(echo.HeaderContentType),
			Data:      data,
		},
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

func (s *Server) deleteCover(c echo.Context) error {
	_, err := s.store.UpdateTask(c.Request().Context(), taskservice.UpdateTaskRequest{
		TaskID:   taskID(c),
		CoverSet: true,
	})
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) getMetrics(c echo.Context) error {
	resp := metricsResponse{
		Store:  s.store.Metrics(),
		Server: s.metrics.GetSnapshot(),
	}
	if s.bus != nil {
		resp.Events = &eventMetrics{
			Published:   s.bus.Published(),
			Dropped:     s.bus.Dropped(),
			Subscribers: s.bus.SubscriberCount(),
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// ============================================================================
// HELPERS
// ============================================================================

func taskID(c echo.Context) types.TaskID {
	return types.TaskID(c.Param("id"))
}

// parseColumn accepts ids and display titles; anything else is passed
// through so the store reports it as not found.
func parseColumn(s string) types.ColumnID {
	if id, ok := types.ParseColumnID(s); ok {
		return id
	}
	return types.ColumnID(s)
}

func decodeBody(c echo.Context, v any) error {
	data, err := io.ReadAll(io.LimitReader(c.Request().Body, maxBodyBytes+1))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read body").SetInternal(err)
	}
	if len(data) > maxBodyBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "body too large")
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "empty body")
	}
	if err := sonic.Unmarshal(data, v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body").SetInternal(err)
	}
	return nil
}
