package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"langlab_backend/importer"
	"langlab_backend/models"
	"langlab_backend/session"
	"langlab_backend/store"
)

type CourseHandler struct {
	courses  *store.CourseStore
	sessions *session.Registry
	deps     session.Deps
}

func NewCourseHandler(courses *store.CourseStore, sessions *session.Registry, deps session.Deps) *CourseHandler {
	return &CourseHandler{courses: courses, sessions: sessions, deps: deps}
}

// GetCourses lists stored course summaries.
func (h *CourseHandler) GetCourses(c *gin.Context) {
	courses, err := h.courses.List()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

// ImportCourse builds a course from a folder and opens a session on it.
// Re-importing a known name is a conflict; use open to refresh instead.
func (h *CourseHandler) ImportCourse(c *gin.Context) {
	var req models.ImportCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var src importer.Source
	if req.Path != "" {
		src = &importer.DirSource{Path: req.Path}
	} else {
		src = &importer.ListSource{Root: req.Root, Paths: req.Files, BaseDir: req.BaseDir}
	}

	course, err := importer.Import(c.Request.Context(), src)
	if err != nil {
		respondError(c, err)
		return
	}

	exists, err := h.courses.Exists(course.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	if exists {
		respondError(c, models.ErrCourseExists)
		return
	}

	if err := h.courses.Save(course); err != nil {
		respondError(c, err)
		return
	}

	ctl := h.sessions.Create(course, h.deps)
	c.JSON(http.StatusCreated, gin.H{
		"course":  course,
		"session": ctl.State(),
	})
}

// OpenCourse re-scans a stored course's folder, reconciles the fresh tree
// against saved progress, and opens a session. The body may carry a path
// override for a folder that moved since the last open.
func (h *CourseHandler) OpenCourse(c *gin.Context) {
	stored, err := h.courses.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	var req struct {
		Path string `json:"path"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	rootPath := stored.RootPath
	if req.Path != "" {
		rootPath = req.Path
	}
	if rootPath == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Course has no known folder location; supply a path"})
		return
	}

	fresh, err := importer.Import(c.Request.Context(), &importer.DirSource{Path: rootPath})
	if err != nil {
		respondError(c, err)
		return
	}

	course, err := importer.Reconcile(stored.Skeleton(), fresh)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.courses.Save(course); err != nil {
		respondError(c, err)
		return
	}

	ctl := h.sessions.Create(course, h.deps)
	c.JSON(http.StatusOK, gin.H{
		"course":  course,
		"session": ctl.State(),
	})
}

// DeleteCourse removes a stored course. Progress and lessons go with it;
// the vocabulary collection is global and survives.
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	if err := h.courses.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Course deleted"})
}
