package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmaksimov/startup-pulse/app/database"
	"github.com/dmaksimov/startup-pulse/app/sources"
	"github.com/dmaksimov/startup-pulse/app/stories"
	"github.com/dmaksimov/startup-pulse/app/tasks"
	"github.com/dmaksimov/startup-pulse/app/timeline"
)

func NewHandler(engine *timeline.Engine, companyRepo database.CompanyRepository,
	fundingRepo database.FundingRepository, eventRepo database.EventRepository,
	storyRepo database.StoryRepository, submissionRepo database.SubmissionRepository,
	lookupRepo database.LookupRepository, linker *stories.Linker,
	configCache *sources.ConfigCache, scheduler tasks.TaskSchedulerInterface,
	httpClient *http.Client, userAgent string) *Handler {
	return &Handler{
		engine:         engine,
		companyRepo:    companyRepo,
		fundingRepo:    fundingRepo,
		eventRepo:      eventRepo,
		storyRepo:      storyRepo,
		submissionRepo: submissionRepo,
		lookupRepo:     lookupRepo,
		linker:         linker,
		configCache:    configCache,
		parser:         sources.NewParser(),
		scheduler:      scheduler,
		httpClient:     httpClient,
		userAgent:      userAgent,
	}
}

func (h *Handler) GetCompanyTimeline(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing company slug"})
		return
	}

	result, err := h.engine.GetCompanyTimeline(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, timeline.ErrCompanyNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
			return
		}
		slog.Error("Failed to build company timeline", "slug", slug, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build timeline"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) ListCompanies(c *gin.Context) {
	page, limit := parsePagination(c, 20, 100)

	sort := c.DefaultQuery("sort", "name")
	switch sort {
	case "name", "founded_date", "updated_at":
	default:
		sort = "name"
	}

	filter := database.CompanyFilter{
		Industry:    c.Query("industry"),
		CompanyType: c.Query("company_type"),
		Location:    c.Query("location"),
		Search:      c.Query("search"),
		Sort:        sort,
		Limit:       limit + 1,
		Offset:      (page - 1) * limit,
	}

	companies, err := h.companyRepo.List(c.Request.Context(), filter)
	if err != nil {
		slog.Error("Database error", "operation", "list_companies", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list companies"})
		return
	}

	hasMore := len(companies) > limit
	if hasMore {
		companies = companies[:limit]
	}

	enriched := make([]map[string]interface{}, 0, len(companies))
	for _, company := range companies {
		info := map[string]interface{}{
			"id":           company.ID,
			"name":         company.Name,
			"slug":         company.Slug,
			"description":  company.Description,
			"industry":     company.Industry,
			"location":     company.Location,
			"company_type": company.CompanyType,
			"founded_date": company.FoundedDate,
			"website_url":  company.WebsiteURL,
			"logo_url":     company.LogoURL,
		}

		rounds, err := h.fundingRepo.GetByCompany(c.Request.Context(), company.ID)
		if err != nil {
			slog.Warn("Failed to load funding rounds for company", "slug", company.Slug, "error", err)
			rounds = nil
		}
		summary := timeline.Summarize(rounds)

		stats := map[string]interface{}{
			"total_funding":        summary.TotalRaised,
			"funding_rounds_count": len(rounds),
		}
		if summary.LastRound != nil {
			stats["last_funding_round"] = summary.LastRound.Type
			stats["last_funding_date"] = summary.LastRound.Date
		}

		if storyCount, err := h.storyRepo.CountLinkedStories(c.Request.Context(), company.ID); err == nil {
			stats["story_count"] = storyCount
		}

		info["stats"] = stats
		enriched = append(enriched, info)
	}

	c.JSON(http.StatusOK, gin.H{
		"companies": enriched,
		"page":      page,
		"limit":     limit,
		"has_more":  hasMore,
	})
}

func (h *Handler) GetCompany(c *gin.Context) {
	slug := c.Param("slug")

	company, err := h.companyRepo.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		slog.Error("Database error", "operation", "get_company", "slug", slug, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load company"})
		return
	}
	if company == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
		return
	}

	rounds, err := h.fundingRepo.GetByCompany(c.Request.Context(), company.ID)
	if err != nil {
		slog.Error("Database error", "operation", "get_funding", "slug", slug, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load company"})
		return
	}
	summary := timeline.Summarize(rounds)

	events, err := h.eventRepo.GetByCompany(c.Request.Context(), company.ID)
	if err != nil {
		slog.Error("Database error", "operation", "get_events", "slug", slug, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load company"})
		return
	}

	links, err := h.storyRepo.GetLinksForCompany(c.Request.Context(), company.ID)
	if err != nil {
		slog.Error("Database error", "operation", "get_story_links", "slug", slug, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load company"})
		return
	}

	storyCount := 0
	latestStoryDate := ""
	for _, link := range links {
		if link.Story == nil {
			continue
		}
		storyCount++
		if link.Story.PublishedDate > latestStoryDate {
			latestStoryDate = link.Story.PublishedDate
		}
	}

	stats := map[string]interface{}{
		"total_funding":        summary.TotalRaised,
		"funding_rounds_count": len(rounds),
		"events_count":         len(events),
		"stories_count":        storyCount,
	}
	if summary.LastRound != nil {
		stats["last_funding_round"] = summary.LastRound.Type
		stats["last_funding_date"] = summary.LastRound.Date
	}
	if latestStoryDate != "" {
		stats["latest_story_date"] = latestStoryDate
	}

	c.JSON(http.StatusOK, gin.H{
		"company":        company,
		"funding_rounds": rounds,
		"stats":          stats,
	})
}

func (h *Handler) ListStories(c *gin.Context) {
	page, limit := parsePagination(c, 20, 100)

	category := c.Query("category")
	if category == "all" {
		category = ""
	}

	filter := database.StoryFilter{
		Category:    category,
		Search:      c.Query("search"),
		CompanySlug: c.Query("company_slug"),
		Status:      "published",
		Limit:       limit + 1,
		Offset:      (page - 1) * limit,
	}

	list, err := h.storyRepo.List(c.Request.Context(), filter)
	if err != nil {
		slog.Error("Database error", "operation", "list_stories", "error", err)
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

func (h *Handler) TrendingStories(c *gin.Context) {
	timeframe := c.DefaultQuery("timeframe", "week")

	var window time.Duration
	switch timeframe {
	case "day":
		window = 24 * time.Hour
	case "week":
		window = 7 * 24 * time.Hour
	case "month":
		window = 30 * 24 * time.Hour
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid timeframe, use day, week or month"})
		return
	}

	limit := 20
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil && v > 0 {
		limit = v
	}
	if limit > 50 {
		limit = 50
	}

	since := time.Now().UTC().Add(-window).Format("2006-01-02T15:04:05Z")

	list, err := h.storyRepo.Trending(c.Request.Context(), since, limit)
	if err != nil {
		slog.Error("Database error", "operation", "trending_stories", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load trending stories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stories":   h.withCompanies(c, list),
		"timeframe": timeframe,
	})
}

func (h *Handler) LikeStory(c *gin.Context) {
	h.incrementCounter(c, "likes")
}

func (h *Handler) ViewStory(c *gin.Context) {
	h.incrementCounter(c, "views")
}

func (h *Handler) incrementCounter(c *gin.Context, counter string) {
	id := c.Param("id")

	story, err := h.storyRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		slog.Error("Database error", "operation", "get_story", "story_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load story"})
		return
	}
	if story == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Story not found"})
		return
	}

	var count int
	if counter == "likes" {
		count, err = h.storyRepo.IncrementLikes(c.Request.Context(), id)
	} else {
		count, err = h.storyRepo.IncrementViews(c.Request.Context(), id)
	}
	if err != nil {
		slog.Error("Database error", "operation", "increment_"+counter, "story_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update story"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, counter: count})
}

func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.lookupRepo.GetCategories(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "get_categories", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load categories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *Handler) GetIndustries(c *gin.Context) {
	industries, err := h.lookupRepo.GetIndustries(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "get_industries", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load industries"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"industries": industries})
}

type submissionRequest struct {
	FounderName      string   `json:"founder_name" binding:"required"`
	FounderEmail     string   `json:"founder_email" binding:"required,email"`
	CompanyName      string   `json:"company_name" binding:"required"`
	CompanyWebsite   string   `json:"company_website"`
	ProposedTitle    string   `json:"proposed_title" binding:"required"`
	ProposedSummary  string   `json:"proposed_summary" binding:"required"`
	ProposedCategory string   `json:"proposed_category"`
	ProposedTags     []string `json:"proposed_tags"`
}

func (h *Handler) CreateSubmission(c *gin.Context) {
	var req submissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.ProposedCategory == "" {
		req.ProposedCategory = "general"
	}

	submission, err := h.submissionRepo.Create(c.Request.Context(), database.Submission{
		FounderName:      req.FounderName,
		FounderEmail:     req.FounderEmail,
		CompanyName:      req.CompanyName,
		CompanyWebsite:   req.CompanyWebsite,
		ProposedTitle:    req.ProposedTitle,
		ProposedSummary:  req.ProposedSummary,
		ProposedCategory: req.ProposedCategory,
		ProposedTags:     req.ProposedTags,
	})
	if err != nil {
		slog.Error("Database error", "operation", "create_submission", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create submission"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Submission received and pending review",
		"data":    submission,
	})
}

func (h *Handler) HealthCheck(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if companyCount, err := h.companyRepo.GetCount(c.Request.Context()); err == nil {
		health["companies"] = companyCount
	}
	if storyCount, err := h.storyRepo.GetCount(c.Request.Context()); err == nil {
		health["stories"] = storyCount
	}

	health["loaded_sources"] = h.configCache.GetConfigCount()

	c.JSON(http.StatusOK, health)
}

// withCompanies attaches the linked company refs to each story in a listing.
func (h *Handler) withCompanies(c *gin.Context, list []database.Story) []map[string]interface{} {
	result := make([]map[string]interface{}, 0, len(list))
	for _, story := range list {
		companies, err := h.storyRepo.GetCompaniesForStory(c.Request.Context(), story.ID)
		if err != nil {
			slog.Warn("Failed to load companies for story", "story_id", story.ID, "error", err)
			companies = nil
		}

		result = append(result, map[string]interface{}{
			"id":             story.ID,
			"title":          story.Title,
			"summary":        story.Summary,
			"content":        story.Content,
			"category":       story.Category,
			"tags":           story.Tags,
			"source_url":     story.SourceURL,
			"image_url":      story.ImageURL,
			"published_date": story.PublishedDate,
			"status":         story.Status,
			"likes":          story.Likes,
			"views":          story.Views,
			"companies":      companies,
		})
	}
	return result
}

func parsePagination(c *gin.Context, defaultLimit, maxLimit int) (int, int) {
	page := 1
	if v, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && v > 0 {
		page = v
	}

	limit := defaultLimit
	if v, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit))); err == nil && v > 0 {
		limit = v
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	return page, limit
}
