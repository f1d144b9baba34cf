package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Enzoamyr17/ZipTask/internal/auth"
	"github.com/Enzoamyr17/ZipTask/internal/core"
)

func (s *Server) handleIndex(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"service": "ziptask",
	})
}

// Auth handlers

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleSignUp(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "invalid request body")
		return
	}

	session, token, err := s.auth.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.fail(c, err)
		return
	}

	s.setSessionCookie(c, token)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"session": session,
		"token":   token,
	})
}

func (s *Server) handleSignIn(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "invalid request body")
		return
	}

	session, token, err := s.auth.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.fail(c, err)
		return
	}

	s.setSessionCookie(c, token)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"session": session,
		"token":   token,
	})
}

func (s *Server) handleSignOut(c *gin.Context) {
	s.auth.SignOut()
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// handleSession reports the caller's session, or null when signed out. It
// never rejects; the route guard does that for protected routes.
func (s *Server) handleSession(c *gin.Context) {
	var session *core.Session
	if token := requestToken(c); token != "" {
		session, _ = s.auth.SessionFromToken(token)
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"session": session,
	})
}

func (s *Server) setSessionCookie(c *gin.Context, token string) {
	c.SetCookie(sessionCookie, token, 0, "/", "", false, true)
}

// Task handlers

func (s *Server) handleListTasks(c *gin.Context) {
	session := currentSession(c)

	tasks, err := s.tasks.ListOpen(c.Request.Context(), session.UserID, c.Query("project_id"))
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"tasks":   tasks,
		"count":   len(tasks),
	})
}

func (s *Server) handleCreateTask(c *gin.Context) {
	session := currentSession(c)

	var form core.TaskForm
	if err := c.ShouldBindJSON(&form); err != nil {
		s.badRequest(c, "invalid request body")
		return
	}

	task, err := s.tasks.Create(c.Request.Context(), session.UserID, form)
	if err != nil {
		s.fail(c, err)
		return
	}

	s.respondWithTasks(c, session.UserID, gin.H{"task": task})
}

// taskPatchRequest mirrors core.TaskPatch on the wire. Absent keys leave the
// field unchanged; explicit empty values clear it.
type taskPatchRequest struct {
	Title       *string `json:"task"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
	DueTime     *string `json:"due_time"`
	Priority    *string `json:"priority"`
	ProjectID   *string `json:"project_id"`
	Completed   *bool   `json:"completed"`
}

func (r taskPatchRequest) patch() core.TaskPatch {
	return core.TaskPatch{
		Title:       r.Title,
		Description: r.Description,
		DueDate:     r.DueDate,
		DueTime:     r.DueTime,
		Priority:    r.Priority,
		ProjectID:   r.ProjectID,
		Completed:   r.Completed,
	}
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	session := currentSession(c)
	id := c.Param("id")

	var req taskPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "invalid request body")
		return
	}

	if err := s.tasks.Update(c.Request.Context(), session.UserID, id, req.patch()); err != nil {
		s.fail(c, err)
		return
	}

	s.respondWithTasks(c, session.UserID, nil)
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	session := currentSession(c)

	if err := s.tasks.Delete(c.Request.Context(), session.UserID, c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}

	s.respondWithTasks(c, session.UserID, nil)
}

func (s *Server) handleCompleteTask(c *gin.Context) {
	session := currentSession(c)

	// Completion defaults to true; send {"completed": false} to reopen.
	completed := true
	var req struct {
		Completed *bool `json:"completed"`
	}
	if err := c.ShouldBindJSON(&req); err == nil && req.Completed != nil {
		completed = *req.Completed
	}

	if err := s.tasks.SetCompleted(c.Request.Context(), session.UserID, c.Param("id"), completed); err != nil {
		s.fail(c, err)
		return
	}

	s.respondWithTasks(c, session.UserID, nil)
}

// handleEditForm starts the edit flow: the prefilled form plus the project
// options the edit dialog needs.
func (s *Server) handleEditForm(c *gin.Context) {
	session := currentSession(c)

	editor, form, err := s.tasks.OpenEditor(c.Request.Context(), session.UserID, c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}

	projects, err := s.projects.List(c.Request.Context(), session.UserID)
	if err != nil {
		s.fail(c, err)
		return
	}

	taskID, open := editor.Open()
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"editor":   gin.H{"open": open, "task_id": taskID},
		"form":     form,
		"projects": projects,
	})
}

// respondWithTasks is the mutation success response: the mutation result plus
// the owner's re-fetched open tasks, so the client can swap in fresh state
// without a second round trip.
func (s *Server) respondWithTasks(c *gin.Context, ownerID string, extra gin.H) {
	tasks, err := s.tasks.ListOpen(c.Request.Context(), ownerID, "")
	if err != nil {
		s.fail(c, err)
		return
	}

	body := gin.H{
		"success": true,
		"tasks":   tasks,
		"count":   len(tasks),
	}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// Project handlers

func (s *Server) handleListProjects(c *gin.Context) {
	session := currentSession(c)

	projects, err := s.projects.List(c.Request.Context(), session.UserID)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"projects": projects,
		"count":    len(projects),
	})
}

func (s *Server) handleCreateProject(c *gin.Context) {
	session := currentSession(c)

	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "invalid request body")
		return
	}

	project, err := s.projects.Create(c.Request.Context(), session.UserID, req.Name)
	if err != nil {
		s.fail(c, err)
		return
	}

	s.respondWithProjects(c, session.UserID, gin.H{"project": project})
}

func (s *Server) handleDeleteProject(c *gin.Context) {
	session := currentSession(c)

	if err := s.projects.Delete(c.Request.Context(), session.UserID, c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}

	s.respondWithProjects(c, session.UserID, nil)
}

func (s *Server) respondWithProjects(c *gin.Context, ownerID string, extra gin.H) {
	projects, err := s.projects.List(c.Request.Context(), ownerID)
	if err != nil {
		s.fail(c, err)
		return
	}

	body := gin.H{
		"success":  true,
		"projects": projects,
		"count":    len(projects),
	}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// View handlers

func (s *Server) handleBoard(c *gin.Context) {
	session := currentSession(c)

	board, err := s.tasks.BoardFor(c.Request.Context(), session.UserID, c.Query("project_id"))
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"board":   board,
		"counts":  board.Counts(),
	})
}

// handleSidebar is the single source for the sidebar: projects plus the
// header counters over all open tasks.
func (s *Server) handleSidebar(c *gin.Context) {
	session := currentSession(c)

	projects, err := s.projects.List(c.Request.Context(), session.UserID)
	if err != nil {
		s.fail(c, err)
		return
	}

	board, err := s.tasks.BoardFor(c.Request.Context(), session.UserID, "")
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"projects": projects,
		"counts":   board.Counts(),
	})
}

func (s *Server) handleDashboard(c *gin.Context) {
	session := currentSession(c)

	board, err := s.tasks.BoardFor(c.Request.Context(), session.UserID, "")
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"session": session,
		"board":   board,
		"counts":  board.Counts(),
	})
}

// Error mapping

func (s *Server) badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   msg,
	})
}

func (s *Server) fail(c *gin.Context, err error) {
	switch {
	case core.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, core.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "not found"})
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": err.Error()})
	case core.IsBackend(err):
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
	}
}
