package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kozaktomas/photo-dedupe/internal/config"
	"github.com/kozaktomas/photo-dedupe/internal/dedupe"
	"github.com/kozaktomas/photo-dedupe/internal/discovery"
)

// ScansHandler handles scan-related endpoints.
type ScansHandler struct {
	config     *config.Config
	scanner    *dedupe.Scanner
	jobManager *JobManager
}

// NewScansHandler creates a new scans handler.
func NewScansHandler(cfg *config.Config, scanner *dedupe.Scanner, jm *JobManager) *ScansHandler {
	return &ScansHandler{
		config:     cfg,
		scanner:    scanner,
		jobManager: jm,
	}
}

// StartRequest represents a scan start request.
type StartRequest struct {
	Path      string `json:"path"`
	Threshold int    `json:"threshold"`
	Recurse   bool   `json:"recurse"`
	Workers   int    `json:"workers"`
}

// Start starts a new scan job.
func (h *ScansHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	if req.Path == "" {
		respondError(w, http.StatusBadRequest, "path is required")
		return
	}

	info, err := os.Stat(req.Path)
	if err != nil || !info.IsDir() {
		respondError(w, http.StatusNotFound, "path is not a readable directory")
		return
	}

	if req.Threshold == 0 {
		req.Threshold = h.config.Scan.Threshold
	}
	if req.Threshold < 0 || req.Threshold > 100 {
		respondError(w, http.StatusBadRequest, "threshold must be between 0 and 100")
		return
	}
	if req.Workers <= 0 {
		req.Workers = h.config.Scan.Workers
	}

	jobID := uuid.New().String()
	job := h.jobManager.CreateJob(jobID, req.Path, ScanJobOptions{
		Threshold: req.Threshold,
		Recurse:   req.Recurse,
		Workers:   req.Workers,
	})

	go h.runScanJob(job)

	respondJSON(w, http.StatusAccepted, map[string]string{
		"job_id": jobID,
		"path":   req.Path,
		"status": string(JobStatusPending),
	})
}

// Status returns the status of a scan job.
func (h *ScansHandler) Status(w http.ResponseWriter, r *http.Request) {
	job := h.lookupJob(w, r)
	if job == nil {
		return
	}
	respondJSON(w, http.StatusOK, job)
}

// Groups returns the similarity groups of a completed scan job.
func (h *ScansHandler) Groups(w http.ResponseWriter, r *http.Request) {
	job := h.lookupJob(w, r)
	if job == nil {
		return
	}

	job.mu.RLock()
	status := job.Status
	result := job.Result
	job.mu.RUnlock()

	if status != JobStatusCompleted || result == nil {
		respondError(w, http.StatusConflict, fmt.Sprintf("scan is %s, groups are only available once completed", status))
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Events streams job events via SSE.
func (h *ScansHandler) Events(w http.ResponseWriter, r *http.Request) {
	streamSSEEvents(w, r,
		func(id string) SSEJob {
			job := h.jobManager.GetJob(id)
			if job == nil {
				return nil
			}
			return job
		},
		func(job SSEJob) any {
			return job
		},
	)
}

// Cancel cancels a scan job.
func (h *ScansHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	job := h.lookupJob(w, r)
	if job == nil {
		return
	}

	job.Cancel()
	respondJSON(w, http.StatusOK, map[string]bool{"cancelled": true})
}

func (h *ScansHandler) lookupJob(w http.ResponseWriter, r *http.Request) *ScanJob {
	jobID := chi.URLParam(r, "jobId")
	if jobID == "" {
		respondError(w, http.StatusBadRequest, "missing job ID")
		return nil
	}

	job := h.jobManager.GetJob(jobID)
	if job == nil {
		respondError(w, http.StatusNotFound, "job not found")
		return nil
	}
	return job
}

// runScanJob runs the scan in the background.
func (h *ScansHandler) runScanJob(job *ScanJob) {
	ctx, cancel := context.WithCancel(context.Background())
	job.cancel = cancel
	defer cancel()

	job.mu.Lock()
	job.Status = JobStatusRunning
	job.mu.Unlock()
	job.SendEvent(JobEvent{Type: "started", Message: "Scan started"})

	sources, err := discovery.FindImages(job.Root, discovery.Options{
		Recurse:    job.Options.Recurse,
		Extensions: h.config.Formats.ExtensionSet(),
	})
	if err != nil {
		h.failJob(job, fmt.Sprintf("discovering images: %v", err))
		return
	}

	job.mu.Lock()
	job.TotalImages = len(sources)
	job.mu.Unlock()
	job.SendEvent(JobEvent{Type: "images_counted", Data: map[string]int{"total": len(sources)}})

	groups, err := h.scanner.Scan(ctx, sources, dedupe.Options{
		Threshold: job.Options.Threshold,
		Workers:   job.Options.Workers,
		OnProgress: func(p dedupe.Progress) {
			job.mu.Lock()
			job.ProcessedImages = p.Processed
			job.GroupsFound = p.GroupsFound
			if p.Total > 0 {
				job.Progress = int(float64(p.Processed) / float64(p.Total) * 100)
			}
			job.mu.Unlock()
			job.SendEvent(JobEvent{Type: "progress", Data: p})
		},
	})
	if err != nil {
		if ctx.Err() != nil {
			job.mu.Lock()
			job.Status = JobStatusCancelled
			job.mu.Unlock()
			job.SendEvent(JobEvent{Type: "cancelled", Message: "Job was cancelled"})
			return
		}
		h.failJob(job, fmt.Sprintf("scan failed: %v", err))
		return
	}

	result := &ScanJobResult{
		Scanned: len(sources),
		Groups:  groups,
	}

	now := time.Now()
	job.mu.Lock()
	job.Status = JobStatusCompleted
	job.CompletedAt = &now
	job.Progress = 100
	job.Result = result
	job.mu.Unlock()

	job.SendEvent(JobEvent{Type: "completed", Data: result})
}

func (h *ScansHandler) failJob(job *ScanJob, message string) {
	now := time.Now()
	job.mu.Lock()
	job.Status = JobStatusFailed
	job.Error = message
	job.CompletedAt = &now
	job.mu.Unlock()
	job.SendEvent(JobEvent{Type: "job_error", Message: message})
}
