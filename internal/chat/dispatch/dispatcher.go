// Package dispatch turns an inbound chat message into a reply: full-dump
// short-circuit, intent match, report execution, rendering, and optional PDF
// generation, in that order. Every collaborator failure is terminal for the
// request and absorbed into a fixed user-facing reply.
package dispatch

import (
	"context"
	"strings"
	"time"

	"crm-assistant/internal/chat/intent"
	"crm-assistant/internal/chat/render"
	"crm-assistant/internal/chat/reports"
	"crm-assistant/internal/common/logger"
	"crm-assistant/internal/common/metrics"
	"crm-assistant/internal/documents"
	"crm-assistant/internal/models"
)

// Fixed reply strings. These are part of the external contract and must not
// be reworded without coordinating with the dashboard frontend.
const (
	ReplyFullDumpHeader = "Membuat laporan rekap semua tabel..."
	ReplyNotUnderstood  = "Maaf, saya tidak mengerti maksud Anda. Coba tanyakan laporan seperti \"tiket hari ini\" atau \"leads hari ini\"."
	ReplyQueryFailed    = "Maaf, terjadi kesalahan saat mengambil data. Silakan coba lagi."
	ReplyPDFFailed      = "Gagal membuat PDF. Silakan coba lagi."
)

// fullDumpPhrases short-circuit matching entirely: any of these substrings in
// the lowercased message triggers the dump-all document job.
var fullDumpPhrases = []string{
	"rekap semua",
	"rekap keseluruhan",
	"laporan keseluruhan",
	"full rekap",
	"full dump",
	"export semua",
	"export keseluruhan",
	"pdf rekap semua",
}

// documentWords request a PDF of the matched report in addition to the text
// reply.
var documentWords = []string{"rekap", "pdf", "laporan"}

// FullDumpType is the document type sent for dump-all jobs.
const FullDumpType = "rekap_semua"

// PresetLister loads the preset table for one request.
type PresetLister interface {
	List(ctx context.Context) ([]models.Preset, error)
}

// ReportExecutor runs a named report against the data layer.
type ReportExecutor func(ctx context.Context, name string) (models.ReportResult, error)

// documentPayload is what the PDF service receives for a matched report.
type documentPayload struct {
	Report      string             `json:"report"`
	Description string             `json:"description"`
	Columns     []string           `json:"columns"`
	Rows        []models.ReportRow `json:"rows"`
}

type Dispatcher struct {
	presets PresetLister
	execute ReportExecutor
	docs    documents.Trigger
	logger  logger.Logger
}

func New(presets PresetLister, execute ReportExecutor, docs documents.Trigger, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		presets: presets,
		execute: execute,
		docs:    docs,
		logger:  log.WithFields(map[string]interface{}{"component": "dispatch"}),
	}
}

// Handle processes one chat message and always returns a user-facing reply.
// Data-layer and document failures never escape as errors; they become fixed
// apology replies.
func (d *Dispatcher) Handle(ctx context.Context, message string) string {
	lowered := strings.ToLower(message)

	// The full-dump check runs before matching and cannot be overridden by
	// a matched preset.
	if containsAny(lowered, fullDumpPhrases) {
		return d.handleFullDump(ctx)
	}

	presets, err := d.presets.List(ctx)
	if err != nil {
		d.logger.Error("preset fetch failed", map[string]interface{}{"error": err.Error()})
		metrics.ChatRequests.WithLabelValues("preset_fetch_failed").Inc()
		return ReplyQueryFailed
	}

	preset := intent.Match(message, presets)
	if preset == nil {
		metrics.ChatRequests.WithLabelValues("not_understood").Inc()
		return ReplyNotUnderstood
	}

	d.logger.Info("intent matched", map[string]interface{}{
		"preset": preset.Name,
		"report": preset.Report,
	})
	metrics.IntentMatches.WithLabelValues(preset.Name).Inc()

	start := time.Now()
	result, err := d.execute(ctx, preset.Report)
	metrics.ReportDuration.WithLabelValues(preset.Report).Observe(time.Since(start).Seconds())
	if err != nil {
		d.logger.Error("report execution failed", map[string]interface{}{
			"report": preset.Report,
			"error":  err.Error(),
		})
		metrics.ChatRequests.WithLabelValues("query_failed").Inc()
		return ReplyQueryFailed
	}

	reply := render.Result(preset.Description, result)

	// A document request replaces the rendered table entirely: on success
	// the user gets the download link, on failure the fixed apology. The
	// table is not shown alongside either.
	if containsAny(lowered, documentWords) {
		url, err := d.docs.Trigger(ctx, preset.Name, documentPayload{
			Report:      preset.Report,
			Description: preset.Description,
			Columns:     result.Columns,
			Rows:        result.Rows,
		})
		if err != nil {
			d.logger.Error("document trigger failed", map[string]interface{}{
				"preset": preset.Name,
				"error":  err.Error(),
			})
			metrics.DocumentJobs.WithLabelValues("failed").Inc()
			return ReplyPDFFailed
		}
		metrics.DocumentJobs.WithLabelValues("ok").Inc()
		return "Laporan " + preset.Description + " siap diunduh: " + url
	}

	metrics.ChatRequests.WithLabelValues("ok").Inc()
	return reply
}

func (d *Dispatcher) handleFullDump(ctx context.Context) string {
	url, err := d.docs.Trigger(ctx, FullDumpType, reports.DumpTables)
	if err != nil {
		d.logger.Error("full dump trigger failed", map[string]interface{}{"error": err.Error()})
		metrics.DocumentJobs.WithLabelValues("failed").Inc()
		return ReplyFullDumpHeader + "\n" + ReplyPDFFailed
	}
	metrics.DocumentJobs.WithLabelValues("ok").Inc()
	return ReplyFullDumpHeader + "\nLaporan siap diunduh: " + url
}

func containsAny(lowered string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(lowered, n) {
			return true
		}
	}
	return false
}
