package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"project-tracker/graph-service/logging"
	"project-tracker/graph-service/middleware"
	"project-tracker/graph-service/models"
	"project-tracker/graph-service/services"
)

// GraphHandler serves the whole query/mutation contract through one endpoint.
// The request is a structured operation document; the response is an envelope
// of data plus request-level errors. Query faults land in the envelope;
// mutation failures land inside the mutation payload and the envelope stays
// clean.
type GraphHandler struct {
	queries   *services.QueryService
	mutations *services.MutationService
}

func NewGraphHandler(queries *services.QueryService, mutations *services.MutationService) *GraphHandler {
	return &GraphHandler{queries: queries, mutations: mutations}
}

const (
	projectDueDateLayout = "2006-01-02"
	taskDueDateLayout    = time.RFC3339
)

type graphRequest struct {
	Operation string          `json:"operation"`
	Arguments json.RawMessage `json:"arguments"`
}

type graphResponse struct {
	Data   interface{} `json:"data"`
	Errors []string    `json:"errors,omitempty"`
}

func (h *GraphHandler) ServeGraph(w http.ResponseWriter, r *http.Request) {
	var req graphRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	rc := middleware.FromContext(ctx)

	var (
		data interface{}
		err  error
	)

	switch req.Operation {
	case "organizations":
		data, err = h.queries.ListOrganizations(ctx, rc)

	case "organization":
		var args struct {
			Slug string `json:"slug"`
		}
		if !decodeArguments(w, req.Arguments, &args) {
			return
		}
		data, err = h.queries.GetOrganization(ctx, rc, args.Slug)

	case "projects":
		var args struct {
			OrganizationSlug string                `json:"organizationSlug"`
			Status           *models.ProjectStatus `json:"status"`
		}
		if !decodeArguments(w, req.Arguments, &args) {
			return
		}
		data, err = h.queries.ListProjects(ctx, rc, args.OrganizationSlug, args.Status)

	case "project":
		var args struct {
			ID int64 `json:"id"`
		}
		if !decodeArguments(w, req.Arguments, &args) {
			return
		}
		data, err = h.queries.GetProject(ctx, rc, args.ID)

	case "tasks":
		var args struct {
			ProjectID int64              `json:"projectId"`
			Status    *models.TaskStatus `json:"status"`
		}
		if !decodeArguments(w, req.Arguments, &args) {
			return
		}
		data, err = h.queries.ListTasks(ctx, rc, args.ProjectID, args.Status)

	case "task":
		var args struct {
			ID int64 `json:"id"`
		}
		if !decodeArguments(w, req.Arguments, &args) {
			return
		}
		data, err = h.queries.GetTask(ctx, rc, args.ID)

	case "taskComments":
		var args struct {
			TaskID int64 `json:"taskId"`
		}
		if !decodeArguments(w, req.Arguments, &args) {
			return
		}
		data, err = h.queries.ListTaskComments(ctx, rc, args.TaskID)

	case "createOrganization":
		var args struct {
			Name         string `json:"name"`
			Slug         string `json:"slug"`
			ContactEmail string `json:"contactEmail"`
		}
		if !decodeArguments(w, req.Arguments, &args) {
			return
		}
		data = h.mutations.CreateOrganization(ctx, rc, services.CreateOrganizationInput{
			Name:         args.Name,
			Slug:         args.Slug,
			ContactEmail: args.ContactEmail,
		})

	case "createProject":
		var args struct {
			OrganizationSlug string                `json:"organizationSlug"`
			Name             string                `json:"name"`
			Description      *string               `json:"description"`
			Status           *models.ProjectStatus `json:"status"`
			DueDate          *string               `json:"dueDate"`
		}
		if !decodeArguments(w, req.Arguments, &args) {
			return
		}
		dueDate, ok := parseDueDate(w, args.DueDate, projectDueDateLayout)
		if !ok {
			return
		}
		data = h.mutations.CreateProject(ctx, rc, services.CreateProjectInput{
			OrganizationSlug: args.OrganizationSlug,
			Name:             args.Name,
			Description:      args.Description,
			Status:           args.Status,
			DueDate:          dueDate,
		})

	case "updateProject":
		var args struct {
			ProjectID   int64                 `json:"projectId"`
			Name        *string               `json:"name"`
			Description *string               `json:"description"`
			Status      *models.ProjectStatus `json:"status"`
			DueDate     *string               `json:"dueDate"`
		}
		if !decodeArguments(w, req.Arguments, &args) {
			return
		}
		dueDate, ok := parseDueDate(w, args.DueDate, projectDueDateLayout)
		if !ok {
			return
		}
		data = h.mutations.UpdateProject(ctx, rc, args.ProjectID, models.ProjectUpdate{
			Name:        args.Name,
			Description: args.Description,
			Status:      args.Status,
			DueDate:     dueDate,
		})

	case "createTask":
		var args struct {
			ProjectID     int64              `json:"projectId"`
			Title         string             `json:"title"`
			Description   *string            `json:"description"`
			Status        *models.TaskStatus `json:"status"`
			AssigneeEmail *string            `json:"assigneeEmail"`
			DueDate       *string            `json:"dueDate"`
		}
		if !decodeArguments(w, req.Arguments, &args) {
			return
		}
		dueDate, ok := parseDueDate(w, args.DueDate, taskDueDateLayout)
		if !ok {
			return
		}
		data = h.mutations.CreateTask(ctx, rc, services.CreateTaskInput{
			ProjectID:     args.ProjectID,
			Title:         args.Title,
			Description:   args.Description,
			Status:        args.Status,
			AssigneeEmail: args.AssigneeEmail,
			DueDate:       dueDate,
		})

	case "updateTask":
		var args struct {
			TaskID        int64              `json:"taskId"`
			Title         *string            `json:"title"`
			Description   *string            `json:"description"`
			Status        *models.TaskStatus `json:"status"`
			AssigneeEmail *string            `json:"assigneeEmail"`
			DueDate       *string            `json:"dueDate"`
		}
		if !decodeArguments(w, req.Arguments, &args) {
			return
		}
		dueDate, ok := parseDueDate(w, args.DueDate, taskDueDateLayout)
		if !ok {
			return
		}
		data = h.mutations.UpdateTask(ctx, rc, args.TaskID, models.TaskUpdate{
			Title:         args.Title,
			Description:   args.Description,
			Status:        args.Status,
			AssigneeEmail: args.AssigneeEmail,
			DueDate:       dueDate,
		})

	case "createTaskComment":
		var args struct {
			TaskID      int64  `json:"taskId"`
			Content     string `json:"content"`
			AuthorEmail string `json:"authorEmail"`
		}
		if !decodeArguments(w, req.Arguments, &args) {
			return
		}
		data = h.mutations.CreateTaskComment(ctx, rc, services.CreateTaskCommentInput{
			TaskID:      args.TaskID,
			Content:     args.Content,
			AuthorEmail: args.AuthorEmail,
		})

	default:
		writeResponse(w, http.StatusBadRequest, graphResponse{
			Errors: []string{fmt.Sprintf("unknown operation '%s'", req.Operation)},
		})
		return
	}

	if err != nil {
		var notFound *models.NotFoundError
		if errors.As(err, &notFound) {
			writeResponse(w, http.StatusOK, graphResponse{Errors: []string{notFound.Error()}})
			return
		}
		logging.Logger.Errorf("Event ID: GRAPH_OPERATION_FAILED, Description: Operation '%s' failed: %v", req.Operation, err)
		writeResponse(w, http.StatusInternalServerError, graphResponse{Errors: []string{"internal error"}})
		return
	}

	writeResponse(w, http.StatusOK, graphResponse{Data: data})
}

// ServeHealth answers liveness probes.
func ServeHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func decodeArguments(w http.ResponseWriter, raw json.RawMessage, target interface{}) bool {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	if err := json.Unmarshal(raw, target); err != nil {
		http.Error(w, "Invalid operation arguments", http.StatusBadRequest)
		return false
	}
	return true
}

// parseDueDate converts an optional due-date argument. Projects carry a
// calendar date, tasks a full timestamp; the layout decides which.
func parseDueDate(w http.ResponseWriter, raw *string, layout string) (*time.Time, bool) {
	if raw == nil {
		return nil, true
	}
	parsed, err := time.Parse(layout, *raw)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid due date '%s'", *raw), http.StatusBadRequest)
		return nil, false
	}
	return &parsed, true
}

func writeResponse(w http.ResponseWriter, status int, resp graphResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}
