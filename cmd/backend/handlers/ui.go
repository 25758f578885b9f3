package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/hairizuan-noorazman/std-generator/export"
	"github.com/hairizuan-noorazman/std-generator/logger"
	"github.com/hairizuan-noorazman/std-generator/stdgen"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// UIHandler serves the review page.
type UIHandler struct {
	catalog *stdgen.ModelCatalog
	version string
	logger  logger.Logger
}

// NewUIHandler creates a new UI handler.
func NewUIHandler(catalog *stdgen.ModelCatalog, version string, log logger.Logger) *UIHandler {
	return &UIHandler{
		catalog: catalog,
		version: version,
		logger:  log,
	}
}

type indexData struct {
	Title        string
	Models       []string
	DefaultModel string
	ExportName   string
	Version      string
}

// Index renders the page.
func (h *UIHandler) Index(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	err := indexTemplate.Execute(&buf, indexData{
		Title:        "AI STD Generator",
		Models:       h.catalog.Models(),
		DefaultModel: h.catalog.Default(),
		ExportName:   export.FileName,
		Version:      h.version,
	})
	if err != nil {
		h.logger.Error(r.Context(), "failed to render page", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "failed to render page")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
