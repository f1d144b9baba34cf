package web

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/Enzoamyr17/ZipTask/internal/core"
)

// TaskAPI is the slice of the task service the handlers use.
// Implementation: core.TaskService
type TaskAPI interface {
	ListOpen(ctx context.Context, ownerID, projectID string) ([]core.Task, error)
	BoardFor(ctx context.Context, ownerID, projectID string) (core.Board, error)
	Create(ctx context.Context, ownerID string, form core.TaskForm) (*core.Task, error)
	Update(ctx context.Context, ownerID, id string, patch core.TaskPatch) error
	Delete(ctx context.Context, ownerID, id string) error
	SetCompleted(ctx context.Context, ownerID, id string, completed bool) error
	OpenEditor(ctx context.Context, ownerID, id string) (core.EditorState, core.TaskForm, error)
}

// ProjectAPI is the slice of the project service the handlers use.
// Implementation: core.ProjectService
type ProjectAPI interface {
	List(ctx context.Context, ownerID string) ([]core.Project, error)
	Create(ctx context.Context, ownerID, name string) (*core.Project, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// SessionAPI is the slice of the auth service the handlers use.
// Implementation: auth.Service
type SessionAPI interface {
	SignUp(ctx context.Context, email, password string) (*core.Session, string, error)
	SignIn(ctx context.Context, email, password string) (*core.Session, string, error)
	SignOut()
	SessionFromToken(token string) (*core.Session, error)
}

// Server is the ZipTask web server
type Server struct {
	tasks    TaskAPI
	projects ProjectAPI
	auth     SessionAPI
	router   *gin.Engine
}

// NewServer creates a new web server
func NewServer(tasks TaskAPI, projects ProjectAPI, auth SessionAPI) *Server {
	router := gin.Default()

	s := &Server{
		tasks:    tasks,
		projects: projects,
		auth:     auth,
		router:   router,
	}

	router.GET("/", s.handleIndex)

	// Auth routes (no session required)
	router.POST("/api/auth/signup", s.handleSignUp)
	router.POST("/api/auth/login", s.handleSignIn)
	router.POST("/api/auth/logout", s.handleSignOut)
	router.GET("/api/auth/session", s.handleSession)

	// Guarded page routes redirect to the landing page when signed out
	router.GET("/dashboard", s.requireSession(), s.handleDashboard)

	// Guarded API routes
	api := router.Group("/api", s.requireSession())
	{
		api.GET("/tasks", s.handleListTasks)
		api.POST("/tasks", s.handleCreateTask)
		api.GET("/tasks/:id/form", s.handleEditForm)
		api.PUT("/tasks/:id", s.handleUpdateTask)
		api.DELETE("/tasks/:id", s.handleDeleteTask)
		api.POST("/tasks/:id/complete", s.handleCompleteTask)

		api.GET("/projects", s.handleListProjects)
		api.POST("/projects", s.handleCreateProject)
		api.DELETE("/projects/:id", s.handleDeleteProject)

		api.GET("/board", s.handleBoard)
		api.GET("/sidebar", s.handleSidebar)
	}

	return s
}

// Run starts the web server
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Router exposes the underlying router for embedding in an http.Server.
func (s *Server) Router() *gin.Engine {
	return s.router
}
