package api

import (
	"net/http"

	"github.com/dmaksimov/startup-pulse/app/database"
	"github.com/dmaksimov/startup-pulse/app/sources"
	"github.com/dmaksimov/startup-pulse/app/stories"
	"github.com/dmaksimov/startup-pulse/app/tasks"
	"github.com/dmaksimov/startup-pulse/app/timeline"
)

type Handler struct {
	engine         *timeline.Engine
	companyRepo    database.CompanyRepository
	fundingRepo    database.FundingRepository
	eventRepo      database.EventRepository
	storyRepo      database.StoryRepository
	submissionRepo database.SubmissionRepository
	lookupRepo     database.LookupRepository
	linker         *stories.Linker
	configCache    *sources.ConfigCache
	parser         *sources.Parser
	scheduler      tasks.TaskSchedulerInterface
	httpClient     *http.Client
	userAgent      string
}
