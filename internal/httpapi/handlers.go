package httpapi

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/lessonroom/internal/assistant"
	"github.com/abhisek/lessonroom/internal/export"
	"github.com/abhisek/lessonroom/internal/plan"
	"github.com/abhisek/lessonroom/internal/planner"
	"github.com/abhisek/lessonroom/internal/suggest"
)

func HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// PlanHandler serves the plan manager operations.
type PlanHandler struct {
	workspaces *Workspaces
}

func NewPlanHandler(ws *Workspaces) *PlanHandler {
	return &PlanHandler{workspaces: ws}
}

func (h *PlanHandler) manager(c *gin.Context) *planner.Manager {
	return h.workspaces.Get(userID(c), clientID(c)).Manager
}

func (h *PlanHandler) Load(c *gin.Context) {
	m := h.manager(c)
	if err := m.Load(c.Request.Context(), userID(c)); err != nil {
		RespondError(c, http.StatusInternalServerError, "load_failed", fmt.Errorf("%s", planner.LoadErrorMessage))
		return
	}
	RespondOK(c, m.State())
}

func (h *PlanHandler) State(c *gin.Context) {
	RespondOK(c, h.manager(c).State())
}

type setFieldRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

func (h *PlanHandler) SetField(c *gin.Context) {
	var req setFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	m := h.manager(c)
	if err := m.SetField(plan.Field(req.Field), req.Value); err != nil {
		respondErr(c, err)
		return
	}
	RespondOK(c, m.State())
}

func (h *PlanHandler) UpdateSections(c *gin.Context) {
	var secs plan.Sections
	if err := c.ShouldBindJSON(&secs); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	w := h.workspaces.Get(userID(c), clientID(c))
	if err := w.Manager.UpdateSections(secs); err != nil {
		respondErr(c, err)
		return
	}
	w.DropSectionSuggestions(plan.Phases...)
	RespondOK(c, w.Manager.State())
}

func phaseParam(c *gin.Context) (plan.Phase, bool) {
	ph, err := plan.ParsePhase(c.Param("phase"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "unknown_phase", err)
		return "", false
	}
	return ph, true
}

func indexParam(c *gin.Context) (int, bool) {
	i, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_index", fmt.Errorf("invalid section index %q", c.Param("index")))
		return 0, false
	}
	return i, true
}

func (h *PlanHandler) AddSection(c *gin.Context) {
	ph, ok := phaseParam(c)
	if !ok {
		return
	}
	m := h.manager(c)
	if err := m.AddSection(ph); err != nil {
		respondErr(c, err)
		return
	}
	RespondOK(c, m.State())
}

func (h *PlanHandler) UpdateSection(c *gin.Context) {
	ph, ok := phaseParam(c)
	if !ok {
		return
	}
	idx, ok := indexParam(c)
	if !ok {
		return
	}
	var patch planner.SectionPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	m := h.manager(c)
	if err := m.UpdateSection(ph, idx, patch); err != nil {
		respondErr(c, err)
		return
	}
	RespondOK(c, m.State())
}

func (h *PlanHandler) RemoveSection(c *gin.Context) {
	ph, ok := phaseParam(c)
	if !ok {
		return
	}
	idx, ok := indexParam(c)
	if !ok {
		return
	}
	w := h.workspaces.Get(userID(c), clientID(c))
	if err := w.Manager.RemoveSection(ph, idx); err != nil {
		respondErr(c, err)
		return
	}
	w.DropSectionSuggestions(ph)
	RespondOK(c, w.Manager.State())
}

func (h *PlanHandler) Save(c *gin.Context) {
	m := h.manager(c)
	if err := m.Save(c.Request.Context()); err != nil {
		RespondError(c, http.StatusBadGateway, "save_failed", fmt.Errorf("%s", planner.SaveErrorMessage))
		return
	}
	RespondOK(c, m.State())
}

func (h *PlanHandler) Refresh(c *gin.Context) {
	m := h.manager(c)
	refreshed, err := m.Refresh(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	RespondOK(c, gin.H{"refreshed": refreshed, "state": m.State()})
}

type setStepRequest struct {
	Step int `json:"step" binding:"required"`
}

func (h *PlanHandler) SetStep(c *gin.Context) {
	var req setStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	m := h.manager(c)
	m.SetStep(c.Request.Context(), func(int) int { return req.Step })
	RespondOK(c, m.State())
}

func (h *PlanHandler) Next(c *gin.Context) {
	m := h.manager(c)
	if _, err := m.Next(c.Request.Context()); err != nil {
		RespondError(c, http.StatusBadGateway, "save_failed", fmt.Errorf("%s", planner.SaveErrorMessage))
		return
	}
	RespondOK(c, m.State())
}

func (h *PlanHandler) Previous(c *gin.Context) {
	m := h.manager(c)
	if _, err := m.Previous(c.Request.Context()); err != nil {
		RespondError(c, http.StatusBadGateway, "save_failed", fmt.Errorf("%s", planner.SaveErrorMessage))
		return
	}
	RespondOK(c, m.State())
}

func (h *PlanHandler) Export(c *gin.Context) {
	m := h.manager(c)
	p := m.Plan()
	if p == nil {
		respondErr(c, planner.ErrNotLoaded)
		return
	}
	name := export.FileName(p)
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(name))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(m.ExportText()))
}

// ChatHandler serves the field-update chat.
type ChatHandler struct {
	workspaces *Workspaces
}

func NewChatHandler(ws *Workspaces) *ChatHandler {
	return &ChatHandler{workspaces: ws}
}

func (h *ChatHandler) Transcript(c *gin.Context) {
	in := h.workspaces.Get(userID(c), clientID(c)).Interpreter
	RespondOK(c, gin.H{"messages": in.Transcript(), "pending": in.Pending()})
}

type sendRequest struct {
	Message string `json:"message"`
}

func (h *ChatHandler) Send(c *gin.Context) {
	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	w := h.workspaces.Get(userID(c), clientID(c))
	reply, err := w.Interpreter.Send(c.Request.Context(), req.Message)
	if err != nil {
		respondErr(c, err)
		return
	}
	RespondOK(c, gin.H{"reply": reply, "state": w.Manager.State()})
}

// SuggestionHandler serves per-field suggestions.
type SuggestionHandler struct {
	workspaces *Workspaces
}

func NewSuggestionHandler(ws *Workspaces) *SuggestionHandler {
	return &SuggestionHandler{workspaces: ws}
}

type suggestionRequest struct {
	Path    string `json:"path" binding:"required"`
	Context string `json:"context"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (h *SuggestionHandler) Request(c *gin.Context) {
	var req suggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if _, err := plan.ParseUpdate(req.Path, ""); err != nil {
		respondErr(c, err)
		return
	}
	w := h.workspaces.Get(userID(c), clientID(c))
	s := w.Suggestion(suggest.Target{Path: req.Path, Context: req.Context, Type: req.Type})
	if _, err := s.Request(c.Request.Context(), req.Message); err != nil {
		RespondError(c, http.StatusBadGateway, "suggestion_failed", fmt.Errorf("%s", s.State().Error))
		return
	}
	RespondOK(c, s.State())
}

type acceptRequest struct {
	Path string  `json:"path" binding:"required"`
	Text *string `json:"text"`
}

func (h *SuggestionHandler) Accept(c *gin.Context) {
	var req acceptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	w := h.workspaces.Get(userID(c), clientID(c))
	s, ok := w.ExistingSuggestion(req.Path)
	if !ok {
		RespondError(c, http.StatusNotFound, "no_suggestion", fmt.Errorf("no suggestion for %s", req.Path))
		return
	}
	if req.Text != nil {
		s.Edit(*req.Text)
	}
	if err := s.Accept(c.Request.Context()); err != nil {
		respondErr(c, err)
		return
	}
	RespondOK(c, w.Manager.State())
}

type discardRequest struct {
	Path string `json:"path" binding:"required"`
}

func (h *SuggestionHandler) Discard(c *gin.Context) {
	var req discardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	w := h.workspaces.Get(userID(c), clientID(c))
	if s, ok := w.ExistingSuggestion(req.Path); ok {
		s.Discard()
	}
	c.Status(http.StatusNoContent)
}

// ToolServer is a tool server that can list its tools.
type ToolServer interface {
	assistant.Invoker
	ListTools() []assistant.ToolInfo
}

// ToolHandler exposes the tool server directly.
type ToolHandler struct {
	tools ToolServer
}

func NewToolHandler(tools ToolServer) *ToolHandler {
	return &ToolHandler{tools: tools}
}

func (h *ToolHandler) List(c *gin.Context) {
	RespondOK(c, gin.H{"tools": h.tools.ListTools()})
}

func (h *ToolHandler) Invoke(c *gin.Context) {
	var args map[string]any
	if err := c.ShouldBindJSON(&args); err != nil {
		RespondError(c, http.StatusBadRequest, string(assistant.CodeInvalidArguments), err)
		return
	}
	res := h.tools.InvokeTool(c.Request.Context(), c.Param("server"), c.Param("tool"), args)
	if res.IsError() {
		RespondError(c, toolStatus(res.Code), string(res.Code), fmt.Errorf("%s", res.Error))
		return
	}
	RespondOK(c, res)
}
