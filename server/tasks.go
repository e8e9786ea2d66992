package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/existflow/taskmgr/internal/logger"
	"github.com/existflow/taskmgr/internal/model"
	"github.com/existflow/taskmgr/internal/query"
	"github.com/existflow/taskmgr/internal/store"
	"github.com/labstack/echo/v4"
)

// CreateTaskRequest is the body of POST /tasks
type CreateTaskRequest struct {
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	Status        string      `json:"status"`
	Priority      string      `json:"priority"`
	Category      string      `json:"category"`
	DueDate       *model.Date `json:"dueDate"`
	Tags          []string    `json:"tags"`
	Recurring     string      `json:"recurring"`
	EstimatedTime *int        `json:"estimatedTime"`
	ActualTime    *int        `json:"actualTime"`
	Dependencies  []string    `json:"dependencies"`
}

// LogTimeRequest is the body of POST /tasks/:id/time
type LogTimeRequest struct {
	Minutes int `json:"minutes"`
}

// CalendarResponse is the body of GET /calendar
type CalendarResponse struct {
	Date  model.Date                   `json:"date"`
	Tasks []model.Task                 `json:"tasks"`
	Marks map[model.Date]query.DayMark `json:"marks"`
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

// storeError maps store failures to status codes
func storeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, store.ErrValidation):
		return c.JSON(http.StatusBadRequest, errorBody(err.Error()))
	default:
		logger.Error("Store operation failed", logger.F("uri", c.Request().RequestURI), logger.F("error", err))
		return c.JSON(http.StatusInternalServerError, errorBody(err.Error()))
	}
}

func notFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, errorBody("task not found"))
}

func (s *Server) handleListTasks(c echo.Context) error {
	f, err := parseFilters(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody(err.Error()))
	}
	key := query.ParseSortKey(c.QueryParam("sort"))
	return c.JSON(http.StatusOK, s.store.Query(f, key))
}

func (s *Server) handleCreateTask(c echo.Context) error {
	var req CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request"))
	}

	opts := model.Options{
		Category:      model.Category(req.Category),
		DueDate:       req.DueDate,
		Tags:          req.Tags,
		EstimatedTime: req.EstimatedTime,
		ActualTime:    req.ActualTime,
		Dependencies:  req.Dependencies,
	}
	if req.Status != "" {
		st, ok := model.ParseStatus(req.Status)
		if !ok {
			return c.JSON(http.StatusBadRequest, errorBody("invalid status"))
		}
		opts.Status = st
	}
	if req.Priority != "" {
		p, ok := model.ParsePriority(req.Priority)
		if !ok {
			return c.JSON(http.StatusBadRequest, errorBody("invalid priority"))
		}
		opts.Priority = p
	}
	r, ok := model.ParseRecurrence(req.Recurring)
	if !ok {
		return c.JSON(http.StatusBadRequest, errorBody("invalid recurring"))
	}
	opts.Recurring = r

	task, err := s.store.Create(c.Request().Context(), req.Title, req.Description, opts)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusCreated, task)
}

func (s *Server) handleGetTask(c echo.Context) error {
	task, ok := s.store.Get(c.Param("id"))
	if !ok {
		return notFound(c)
	}
	return c.JSON(http.StatusOK, task)
}

func (s *Server) handleUpdateTask(c echo.Context) error {
	var patch model.Patch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request"))
	}
	if patch.Status != nil {
		st, ok := model.ParseStatus(string(*patch.Status))
		if !ok {
			return c.JSON(http.StatusBadRequest, errorBody("invalid status"))
		}
		patch.Status = &st
	}
	if patch.Priority != nil {
		p, ok := model.ParsePriority(string(*patch.Priority))
		if !ok {
			return c.JSON(http.StatusBadRequest, errorBody("invalid priority"))
		}
		patch.Priority = &p
	}
	if patch.Recurring != nil {
		r, ok := model.ParseRecurrence(string(*patch.Recurring))
		if !ok {
			return c.JSON(http.StatusBadRequest, errorBody("invalid recurring"))
		}
		patch.Recurring = &r
	}

	task, found, err := s.store.Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return storeError(c, err)
	}
	if !found {
		return notFound(c)
	}
	return c.JSON(http.StatusOK, task)
}

func (s *Server) handleDeleteTask(c echo.Context) error {
	id := c.Param("id")
	if _, ok := s.store.Get(id); !ok {
		return notFound(c)
	}
	if err := s.store.Delete(c.Request().Context(), id); err != nil {
		return storeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleToggleTask(c echo.Context) error {
	res, found, err := s.store.ToggleStatus(c.Request().Context(), c.Param("id"))
	if err != nil {
		return storeError(c, err)
	}
	if !found {
		return notFound(c)
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) handleLogTime(c echo.Context) error {
	var req LogTimeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request"))
	}
	task, found, err := s.store.LogTime(c.Request().Context(), c.Param("id"), req.Minutes)
	if err != nil {
		return storeError(c, err)
	}
	if !found {
		return notFound(c)
	}
	return c.JSON(http.StatusOK, task)
}

func (s *Server) handleOverdue(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.Overdue())
}

func (s *Server) handleUpcoming(c echo.Context) error {
	days := 7
	if v := c.QueryParam("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, errorBody("days must be a non-negative integer"))
		}
		days = n
	}
	return c.JSON(http.StatusOK, s.store.Upcoming(days))
}

func (s *Server) handleCalendar(c echo.Context) error {
	date := model.Today(s.store.Now())
	if v := c.QueryParam("date"); v != "" {
		d, err := model.ParseDate(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorBody("date must be YYYY-MM-DD"))
		}
		date = d
	}

	tasks := s.store.Tasks()
	return c.JSON(http.StatusOK, CalendarResponse{
		Date:  date,
		Tasks: query.ForDate(tasks, date),
		Marks: query.Marks(tasks, date),
	})
}

func (s *Server) handleGetError(c echo.Context) error {
	return c.JSON(http.StatusOK, errorBody(s.store.Err()))
}

func (s *Server) handleClearError(c echo.Context) error {
	s.store.ClearError()
	return c.NoContent(http.StatusNoContent)
}

// parseFilters reads list filters; list values may repeat or be comma separated
func parseFilters(c echo.Context) (query.Filters, error) {
	var f query.Filters
	params := c.QueryParams()

	for _, v := range splitList(params["status"]) {
		st, ok := model.ParseStatus(v)
		if !ok {
			return f, errors.New("invalid status " + strconv.Quote(v))
		}
		f.Status = append(f.Status, st)
	}
	for _, v := range splitList(params["priority"]) {
		p, ok := model.ParsePriority(v)
		if !ok {
			return f, errors.New("invalid priority " + strconv.Quote(v))
		}
		f.Priority = append(f.Priority, p)
	}
	for _, v := range splitList(params["category"]) {
		f.Category = append(f.Category, model.ParseCategory(v))
	}
	f.Search = c.QueryParam("search")

	if v := c.QueryParam("overdue"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, errors.New("overdue must be a boolean")
		}
		f.Overdue = b
	}

	var r query.DateRange
	for name, dst := range map[string]**model.Date{"from": &r.Start, "to": &r.End} {
		v := c.QueryParam(name)
		if v == "" {
			continue
		}
		d, err := model.ParseDate(v)
		if err != nil {
			return f, errors.New(name + " must be YYYY-MM-DD")
		}
		*dst = &d
	}
	if r.Start != nil || r.End != nil {
		f.DueDateRange = &r
	}
	return f, nil
}

func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
