package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmaksimov/startup-pulse/app/database"
	"github.com/dmaksimov/startup-pulse/app/importer"
	"github.com/dmaksimov/startup-pulse/app/tasks"
)

const importPreviewRows = 5

func (h *Handler) APIListSubmissions(c *gin.Context) {
	status := c.DefaultQuery("status", "pending")
	switch status {
	case "pending", "approved", "rejected", "all":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status, use pending, approved, rejected or all"})
		return
	}

	page, limit := parsePagination(c, 20, 100)

	submissions, err := h.submissionRepo.List(c.Request.Context(), status, limit, (page-1)*limit)
	if err != nil {
		slog.Error("Database error", "operation", "list_submissions", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list submissions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"submissions": submissions,
		"page":        page,
		"limit":       limit,
		"status":      status,
	})
}

type approvalRequest struct {
	Title        string   `json:"title" binding:"required"`
	Summary      string   `json:"summary" binding:"required"`
	Content      string   `json:"content"`
	Category     string   `json:"category"`
	Tags         []string `json:"tags"`
	SourceURL    string   `json:"source_url"`
	ImageURL     string   `json:"image_url"`
	CompanySlugs []string `json:"company_slugs"`
}

func (h *Handler) APIApproveSubmission(c *gin.Context) {
	id := c.Param("id")

	var req approvalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	submission, err := h.submissionRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		slog.Error("Database error", "operation", "get_submission", "submission_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load submission"})
		return
	}
	if submission == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}

	if req.Category == "" {
		req.Category = submission.ProposedCategory
	}
	if len(req.Tags) == 0 {
		req.Tags = submission.ProposedTags
	}

	storyID, err := h.storyRepo.Create(c.Request.Context(), database.Story{
		Title:         req.Title,
		Summary:       req.Summary,
		Content:       req.Content,
		Category:      req.Category,
		Tags:          req.Tags,
		SourceURL:     req.SourceURL,
		ImageURL:      req.ImageURL,
		PublishedDate: time.Now().UTC().Format("2006-01-02T15:04:05Z"),
		Status:        "published",
		CreatedBy:     "submission:" + submission.ID,
	})
	if err != nil {
		slog.Error("Database error", "operation", "create_story", "submission_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create story"})
		return
	}

	h.linker.Run(c.Request.Context(), storyID, req.CompanySlugs, submission.CompanyName)

	if _, err := h.submissionRepo.MarkApproved(c.Request.Context(), id, "admin"); err != nil {
		slog.Error("Database error", "operation", "mark_approved", "submission_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Story created but submission status update failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Submission approved and story published",
		"story_id": storyID,
	})
}

func (h *Handler) APIRejectSubmission(c *gin.Context) {
	id := c.Param("id")

	var req struct {
		Reason string `json:"reason"`
	}
	// Body is optional for rejections
	_ = c.ShouldBindJSON(&req)
	if req.Reason == "" {
		req.Reason = "Does not meet editorial guidelines"
	}

	found, err := h.submissionRepo.MarkRejected(c.Request.Context(), id, req.Reason, "admin")
	if err != nil {
		slog.Error("Database error", "operation", "mark_rejected", "submission_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject submission"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Submission rejected"})
}

func (h *Handler) APIListStories(c *gin.Context) {
	page, limit := parsePagination(c, 20, 100)

	category := c.Query("category")
	if category == "all" {
		category = ""
	}

	filter := database.StoryFilter{
		Category: category,
		Search:   c.Query("search"),
		Status:   c.Query("status"),
		Limit:    limit + 1,
		Offset:   (page - 1) * limit,
	}

	list, err := h.storyRepo.List(c.Request.Context(), filter)
	if err != nil {
		slog.Error("Database error", "operation", "api_list_stories", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list stories"})
		return
	}

	hasMore := len(list) > limit
	if hasMore {
		list = list[:limit]
	}

	c.JSON(http.StatusOK, gin.H{
		"stories":  h.withCompanies(c, list),
		"page":     page,
		"limit":    limit,
		"has_more": hasMore,
	})
}

type storyRequest struct {
	Title         string   `json:"title" binding:"required"`
	Summary       string   `json:"summary" binding:"required"`
	Content       string   `json:"content"`
	Category      string   `json:"category"`
	Tags          []string `json:"tags"`
	SourceURL     string   `json:"source_url"`
	ImageURL      string   `json:"image_url"`
	PublishedDate string   `json:"published_date"`
	Status        string   `json:"status"`
	CompanySlugs  []string `json:"company_slugs"`
}

func (h *Handler) APICreateStory(c *gin.Context) {
	var req storyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Category == "" {
		req.Category = "general"
	}
	if req.Status == "" {
		req.Status = "published"
	}
	if req.PublishedDate == "" {
		req.PublishedDate = time.Now().UTC().Format("2006-01-02T15:04:05Z")
	}

	storyID, err := h.storyRepo.Create(c.Request.Context(), database.Story{
		Title:         req.Title,
		Summary:       req.Summary,
		Content:       req.Content,
		Category:      req.Category,
		Tags:          req.Tags,
		SourceURL:     req.SourceURL,
		ImageURL:      req.ImageURL,
		PublishedDate: req.PublishedDate,
		Status:        req.Status,
		CreatedBy:     "admin",
	})
	if err != nil {
		slog.Error("Database error", "operation", "api_create_story", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create story"})
		return
	}

	h.linker.Run(c.Request.Context(), storyID, req.CompanySlugs, "")

	story, err := h.storyRepo.GetByID(c.Request.Context(), storyID)
	if err != nil {
		slog.Error("Database error", "operation", "get_story", "story_id", storyID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Story created but could not be loaded"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Story created",
		"story":   story,
	})
}

type storyUpdateRequest struct {
	Title        *string  `json:"title"`
	Summary      *string  `json:"summary"`
	Content      *string  `json:"content"`
	Category     *string  `json:"category"`
	Tags         []string `json:"tags"`
	SourceURL    *string  `json:"source_url"`
	ImageURL     *string  `json:"image_url"`
	Status       *string  `json:"status"`
	CompanySlugs []string `json:"company_slugs"`
}

func (h *Handler) APIUpdateStory(c *gin.Context) {
	id := c.Param("id")

	var req storyUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	found, err := h.storyRepo.Update(c.Request.Context(), id, database.StoryUpdate{
		Title:     req.Title,
		Summary:   req.Summary,
		Content:   req.Content,
		Category:  req.Category,
		Tags:      req.Tags,
		SourceURL: req.SourceURL,
		ImageURL:  req.ImageURL,
		Status:    req.Status,
	})
	if err != nil {
		slog.Error("Database error", "operation", "api_update_story", "story_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update story"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Story not found"})
		return
	}

	if req.CompanySlugs != nil {
		if err := h.storyRepo.UnlinkAll(c.Request.Context(), id); err != nil {
			slog.Error("Database error", "operation", "unlink_story", "story_id", id, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update story links"})
			return
		}
		h.linker.Run(c.Request.Context(), id, req.CompanySlugs, "")
	}

	story, err := h.storyRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		slog.Error("Database error", "operation", "get_story", "story_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Story updated but could not be loaded"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Story updated",
		"story":   story,
	})
}

func (h *Handler) APIDeleteStory(c *gin.Context) {
	id := c.Param("id")

	found, err := h.storyRepo.Delete(c.Request.Context(), id)
	if err != nil {
		slog.Error("Database error", "operation", "api_delete_story", "story_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete story"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Story not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Story deleted"})
}

func (h *Handler) APIImportStories(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file upload"})
		return
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".csv") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File must be a CSV"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer file.Close()

	result, err := importer.ParseStories(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dryRun := c.PostForm("dry_run") == "true"
	if dryRun {
		preview := result.Rows
		if len(preview) > importPreviewRows {
			preview = preview[:importPreviewRows]
		}
		c.JSON(http.StatusOK, gin.H{
			"dry_run":    true,
			"total_rows": len(result.Rows),
			"preview":    preview,
			"errors":     result.Errors,
		})
		return
	}

	importedCount := 0
	importErrors := result.Errors

	for _, row := range result.Rows {
		storyID, err := h.storyRepo.Create(c.Request.Context(), database.Story{
			Title:         row.Title,
			Summary:       row.Summary,
			Content:       row.Content,
			Category:      row.Category,
			Tags:          row.Tags,
			SourceURL:     row.SourceURL,
			ImageURL:      row.ImageURL,
			PublishedDate: row.PublishedDate,
			Status:        row.Status,
			CreatedBy:     "csv_import",
		})
		if err != nil {
			importErrors = append(importErrors, "Failed to save '"+row.Title+"': "+err.Error())
			continue
		}

		h.linker.Run(c.Request.Context(), storyID, row.CompanySlugs, "")
		importedCount++
	}

	if len(importErrors) > 10 {
		importErrors = importErrors[:10]
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Import completed",
		"imported_count": importedCount,
		"error_count":    len(result.Errors) + (len(result.Rows) - importedCount),
		"errors":         importErrors,
	})
}

func (h *Handler) APICSVTemplate(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"required_columns": importer.RequiredColumns,
		"optional_columns": []string{"content", "tags", "source_url", "image_url", "published_date", "status", "company_slugs"},
		"notes": map[string]string{
			"tags":           "JSON array or comma-separated list",
			"published_date": "RFC 3339 timestamp or YYYY-MM-DD, defaults to now",
			"status":         "defaults to 'published'",
			"company_slugs":  "comma-separated list of company slugs to link",
		},
		"example": "title,summary,category,tags,company_slugs\nAcme raises $5M,Acme closed its Series A,funding,\"ai, funding\",acme-corp",
	})
}

func (h *Handler) APIIngestSource(c *gin.Context) {
	name := c.Param("name")

	sourceConfig, err := h.configCache.GetConfig(name)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Source not found"})
		return
	}

	task := tasks.NewIngestSourceTask(name, sourceConfig, h.httpClient, h.parser, h.storyRepo, h.linker, h.userAgent)
	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Error("Failed to enqueue ingest task", "source", name, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Task queue unavailable"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"message": "Source ingest queued",
		"task": gin.H{
			"id":   task.GetID(),
			"type": task.GetType(),
		},
	})
}
