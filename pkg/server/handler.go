package server

import (
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mikeboe/research-prompter/pkg/research"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

const pageName = "index.html.tmpl"

var pageTemplate = template.Must(template.ParseFS(templatesFS, "templates/*.tmpl"))

type Handler struct {
	Engine   *research.Engine
	Defaults research.Defaults
	Logger   *slog.Logger
}

func NewHandler(engine *research.Engine, defaults research.Defaults) *Handler {
	return &Handler{Engine: engine, Defaults: defaults, Logger: slog.Default()}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.SetHTMLTemplate(pageTemplate)

	r.GET("/", h.index)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/research/generate", h.generatePage)
	r.POST("/research/query", h.queryPage)

	api := r.Group("/api")
	{
		api.POST("/research", h.createResearch)
		api.POST("/query", h.query)
	}
}

type generateRequest struct {
	Field string `json:"field" form:"field"`
	Topic string `json:"topic" form:"topic"`
	Count int    `json:"count" form:"count"`
	Depth int    `json:"depth" form:"depth"`
}

func (r generateRequest) run() research.RunRequest {
	return research.RunRequest{
		Field: strings.TrimSpace(r.Field),
		Topic: strings.TrimSpace(r.Topic),
		Count: r.Count,
		Depth: r.Depth,
	}
}

type queryRequest struct {
	Prompt string `json:"prompt" form:"prompt"`
}

type resultView struct {
	Index int
	Err   string
	HTML  template.HTML
}

type pageData struct {
	Mode        string
	Run         research.RunRequest
	QueryPrompt string
	Error       string
	Prompts     []string
	Results     []resultView
	Expanded    bool

	MinCount, MaxCount int
	MinDepth, MaxDepth int
}

func (h *Handler) page(mode string) pageData {
	if mode != "query" {
		mode = "generate"
	}
	return pageData{
		Mode: mode,
		Run: research.RunRequest{
			Field: h.Defaults.Field,
			Topic: h.Defaults.Topic,
			Count: h.Defaults.Count,
			Depth: h.Defaults.Depth,
		},
		QueryPrompt: h.Defaults.QueryPrompt,
		MinCount:    research.MinPromptCount,
		MaxCount:    research.MaxPromptCount,
		MinDepth:    research.MinDepth,
		MaxDepth:    research.MaxDepth,
	}
}

func (h *Handler) index(c *gin.Context) {
	c.HTML(http.StatusOK, pageName, h.page(c.Query("mode")))
}

func (h *Handler) generatePage(c *gin.Context) {
	data := h.page("generate")

	var req generateRequest
	if err := c.ShouldBind(&req); err != nil {
		data.Error = err.Error()
		c.HTML(http.StatusBadRequest, pageName, data)
		return
	}

	run := req.run()
	data.Run = run
	if err := run.Validate(); err != nil {
		data.Error = err.Error()
		c.HTML(http.StatusBadRequest, pageName, data)
		return
	}

	report, err := h.Engine.Run(c.Request.Context(), run)
	if err != nil {
		_ = c.Error(err)
		data.Error = cycleErrorMessage(err)
		c.HTML(cycleStatus(err), pageName, data)
		return
	}
	h.Logger.Info("Research cycle served", "request_id", requestID(c), "cycle_id", report.CycleID)

	data.Prompts = report.Prompts
	data.Results = h.resultViews(report.Items)
	c.HTML(http.StatusOK, pageName, data)
}

func (h *Handler) queryPage(c *gin.Context) {
	data := h.page("query")
	data.Expanded = true

	var req queryRequest
	if err := c.ShouldBind(&req); err != nil || strings.TrimSpace(req.Prompt) == "" {
		data.Error = "research prompt is required"
		c.HTML(http.StatusBadRequest, pageName, data)
		return
	}
	data.QueryPrompt = req.Prompt

	item := h.Engine.Query(c.Request.Context(), req.Prompt)
	data.Results = h.resultViews([]research.ResearchItem{item})
	c.HTML(http.StatusOK, pageName, data)
}

func (h *Handler) createResearch(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	run := req.run()
	if err := run.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.Engine.Run(c.Request.Context(), run)
	if err != nil {
		_ = c.Error(err)
		c.JSON(cycleStatus(err), gin.H{"error": cycleErrorMessage(err)})
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *Handler) query(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "research prompt is required"})
		return
	}

	c.JSON(http.StatusOK, h.Engine.Query(c.Request.Context(), req.Prompt))
}

func (h *Handler) resultViews(items []research.ResearchItem) []resultView {
	views := make([]resultView, 0, len(items))
	for _, item := range items {
		html, err := renderMarkdown(item.Formatted)
		if err != nil {
			h.Logger.Warn("Failed to render markdown", "index", item.Index, "error", err)
			html = template.HTML("<pre>" + template.HTMLEscapeString(item.Formatted) + "</pre>")
		}
		views = append(views, resultView{Index: item.Index, Err: item.Err, HTML: html})
	}
	return views
}

func cycleStatus(err error) int {
	switch {
	case errors.Is(err, research.ErrInvalidDepth):
		return http.StatusBadRequest
	case errors.Is(err, research.ErrNoCategories), errors.Is(err, research.ErrNoPrompts):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

func cycleErrorMessage(err error) string {
	if errors.Is(err, research.ErrNoCategories) {
		return "The model response did not contain any research categories. Try again or rephrase the topic."
	}
	if errors.Is(err, research.ErrNoPrompts) {
		return "None of the generated categories had a research prompt or key concepts. Try again or rephrase the topic."
	}
	return "Failed to generate research prompts: " + err.Error()
}
