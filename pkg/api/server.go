// Package api exposes the three programmatic operations SPEC_FULL §3.11
// names as thin HTTP handlers over gin: run_research, run_monitor, and
// list_sources. register_integration is intentionally absent — it takes a
// Go factory function, a compile-time/process-init concern, not a runtime
// HTTP one.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/codeready-toolchain/research-core/pkg/monitor"
	"github.com/codeready-toolchain/research-core/pkg/registry"
	"github.com/codeready-toolchain/research-core/pkg/research"
	"github.com/codeready-toolchain/research-core/pkg/store"
	"github.com/codeready-toolchain/research-core/pkg/synth"
)

// Server wires the Deep Research Engine, Synthesizer, Boolean Monitor
// scheduler and Integration Registry behind a gin.Engine.
type Server struct {
	engine              *research.Engine
	synthesizer         *synth.Synthesizer
	scheduler           *monitor.Scheduler
	monitors            map[string]*monitor.Config
	reg                 *registry.Registry
	layout              store.Layout
	defaultConstraints  research.Constraints

	Router *gin.Engine
}

// NewServer builds a Server and registers its routes. monitors is the set
// of monitor configs loaded at startup (spec §6, "monitors/configs/*.yaml"
// read once and held in memory; RunMonitor looks a name up here).
func NewServer(engine *research.Engine, synthesizer *synth.Synthesizer, scheduler *monitor.Scheduler, monitors map[string]*monitor.Config, reg *registry.Registry, layout store.Layout, defaultConstraints research.Constraints) *Server {
	s := &Server{
		engine: engine, synthesizer: synthesizer, scheduler: scheduler,
		monitors: monitors, reg: reg, layout: layout, defaultConstraints: defaultConstraints,
		Router: gin.Default(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.Router.POST("/research", s.handleRunResearch)
	s.Router.POST("/monitors/:name/run", s.handleRunMonitor)
	s.Router.GET("/sources", s.handleListSources)
}

type runResearchRequest struct {
	Question    string `json:"question" binding:"required"`
	MaxTasks    int    `json:"max_tasks,omitempty"`
	MaxTimeMins int    `json:"max_time_minutes,omitempty"`
}

type runResearchResponse struct {
	RunID            string `json:"run_id"`
	TerminatedReason string `json:"terminated_reason"`
	TaskCount        int    `json:"task_count"`
	EvidenceCount    int    `json:"evidence_count"`
	Report           string `json:"report"`
}

// handleRunResearch is run_research (spec §6): runs a full Deep Research
// Engine cycle to completion and returns the synthesized report. Blocking
// by design — the operation's abstract contract has no separate "poll for
// status" surface in spec §6, only the four named operations.
func (s *Server) handleRunResearch(c *gin.Context) {
	var req runResearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	constraints := s.defaultConstraints
	if req.MaxTasks > 0 {
		constraints.MaxTasks = req.MaxTasks
	}
	if req.MaxTimeMins > 0 {
		constraints.MaxTime = time.Duration(req.MaxTimeMins) * time.Minute
	}

	runID := uuid.NewString()
	run, err := s.engine.Run(c.Request.Context(), runID, req.Question, constraints)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	report, err := s.synthesizer.Synthesize(c.Request.Context(), run)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("synthesis failed: %v", err)})
		return
	}

	if err := store.AtomicWriteFile(s.layout.ReportPath(runID), []byte(report), 0o640); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("persisting report: %v", err)})
		return
	}

	c.JSON(http.StatusOK, runResearchResponse{
		RunID: runID, TerminatedReason: string(run.TerminatedReason),
		TaskCount: len(run.Tasks), EvidenceCount: run.GlobalEvidence.Len(),
		Report: report,
	})
}

// handleRunMonitor is run_monitor (spec §6): triggers one monitor cycle
// immediately, outside its schedule.
func (s *Server) handleRunMonitor(c *gin.Context) {
	name := c.Param("name")
	cfg, ok := s.monitors[name]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("monitor %q not found", name)})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Minute)
	defer cancel()

	if err := s.scheduler.RunNow(ctx, cfg); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"monitor": name, "status": "completed"})
}

// handleListSources is list_sources (spec §6): the registered Integration
// Registry's catalog, for callers building a monitor config or inspecting
// what sources a deployment has available.
func (s *Server) handleListSources(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sources": s.reg.ListSources()})
}
