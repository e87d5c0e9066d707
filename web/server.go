// Package web exposes the linking pipeline over HTTP: clients upload a
// Trial Balance and a General Ledger file, get back a JSON match report and,
// for XLSX input, a download token for the linked workbook.
package web

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tuteke2023/tbgllink"
	"github.com/tuteke2023/tbgllink/loader"
	"github.com/tuteke2023/tbgllink/writer"
)

// maxUploadMemory caps the in-memory portion of multipart parsing.
const maxUploadMemory = 32 << 20

// Server handles upload, link and download requests. Uploaded and generated
// files live in a private temp directory for the lifetime of the process.
type Server struct {
	log      zerolog.Logger
	cfg      tbgllink.Config
	analyzer tbgllink.Analyzer
	tmpDir   string

	mu        sync.Mutex
	downloads map[string]string
}

// NewServer creates a server with its working directory. The analyzer may
// be nil, in which case linking is fully heuristic.
func NewServer(log zerolog.Logger, cfg tbgllink.Config, analyzer tbgllink.Analyzer) (*Server, error) {
	tmpDir, err := os.MkdirTemp("", "tbgllink-web-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create working directory: %w", err)
	}
	return &Server{
		log:       log,
		cfg:       cfg,
		analyzer:  analyzer,
		tmpDir:    tmpDir,
		downloads: make(map[string]string),
	}, nil
}

// Close removes the server's working directory.
func (s *Server) Close() error {
	return os.RemoveAll(s.tmpDir)
}

// Router builds the HTTP routes.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()
	r.MaxMultipartMemory = maxUploadMemory

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		api.POST("/link", s.handleLink)
		api.GET("/download/:id", s.handleDownload)
	}
	return r
}

// matchEntry is one row of the JSON match report.
type matchEntry struct {
	TBRow     int     `json:"tb_row"`
	TBAccount string  `json:"tb_account"`
	GLAccount string  `json:"gl_account,omitempty"`
	Score     float64 `json:"score,omitempty"`
	Display   string  `json:"display"`
	Matched   bool    `json:"matched"`
}

// linkResponse is the body returned by the link endpoint. DownloadID is
// empty when no workbook could be generated (non-XLSX TB input).
type linkResponse struct {
	Matched    int          `json:"matched"`
	Unmatched  int          `json:"unmatched"`
	Entries    []matchEntry `json:"entries"`
	DownloadID string       `json:"download_id,omitempty"`
}

func (s *Server) handleLink(c *gin.Context) {
	tbHeader, err := c.FormFile("tb")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing tb file"})
		return
	}
	glHeader, err := c.FormFile("gl")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing gl file"})
		return
	}

	cfg := s.cfg
	if raw := c.PostForm("threshold"); raw != "" {
		threshold, err := strconv.ParseFloat(raw, 64)
		if err != nil || threshold < 0 || threshold > 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "threshold must be a number between 0 and 1"})
			return
		}
		cfg.MatchThreshold = threshold
	}
	if c.PostForm("target") == "header" {
		cfg.Target = tbgllink.TargetHeader
	}

	tbPath, err := s.saveUpload(c, tbHeader)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	glPath, err := s.saveUpload(c, glHeader)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	tbWorkbook, err := loader.Open(tbPath)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("failed to load tb file: %v", err)})
		return
	}
	glWorkbook, err := loader.Open(glPath)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("failed to load gl file: %v", err)})
		return
	}

	tbSheet := tbWorkbook.TBSheet()
	glSheet := glWorkbook.GLSheet()
	if tbSheet == nil || glSheet == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "uploaded workbook has no sheets"})
		return
	}

	result, err := tbgllink.LinkWithAnalyzer(c.Request.Context(), tbSheet.Doc, glSheet.Doc, cfg, s.analyzer)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	resp := buildReport(result)

	if ft, _ := loader.DetectFileType(tbPath); ft == loader.XLSX {
		outPath := filepath.Join(s.tmpDir, uuid.NewString()+".xlsx")
		if err := writer.WriteLinkedFile(tbPath, glPath, outPath, result); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("failed to write linked workbook: %v", err)})
			return
		}
		id := uuid.NewString()
		s.mu.Lock()
		s.downloads[id] = outPath
		s.mu.Unlock()
		resp.DownloadID = id
	}

	s.log.Info().
		Int("matched", resp.Matched).
		Int("unmatched", resp.Unmatched).
		Str("tb", tbHeader.Filename).
		Str("gl", glHeader.Filename).
		Msg("linked workbooks")
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleDownload(c *gin.Context) {
	id := c.Param("id")

	s.mu.Lock()
	path, ok := s.downloads[id]
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown download id"})
		return
	}
	c.FileAttachment(path, "linked.xlsx")
}

// saveUpload writes a multipart file into the working directory, keeping
// the original extension so format detection still works.
func (s *Server) saveUpload(c *gin.Context, header *multipart.FileHeader) (string, error) {
	name := uuid.NewString() + extensions(header.Filename)
	path := filepath.Join(s.tmpDir, name)
	if err := c.SaveUploadedFile(header, path); err != nil {
		return "", fmt.Errorf("failed to save upload %s: %w", header.Filename, err)
	}
	return path, nil
}

// extensions keeps compound suffixes like ".csv.gz" intact.
func extensions(filename string) string {
	ext := filepath.Ext(filename)
	switch ext {
	case loader.ExtGZ, loader.ExtBZ2, loader.ExtXZ, loader.ExtZSTD:
		return filepath.Ext(filename[:len(filename)-len(ext)]) + ext
	default:
		return ext
	}
}

func buildReport(result *tbgllink.Result) linkResponse {
	scoreByRow := make(map[int]float64, len(result.Matches))
	for _, m := range result.Matches {
		scoreByRow[m.TBRow] = m.Score
	}

	resp := linkResponse{Entries: make([]matchEntry, 0, len(result.CrossRefs))}
	for _, ref := range result.CrossRefs {
		entry := matchEntry{
			TBRow:     ref.TBRow,
			TBAccount: ref.TBAccount,
			GLAccount: ref.GLAccount,
			Display:   ref.Display,
			Matched:   ref.Matched,
		}
		if ref.Matched {
			entry.Score = scoreByRow[ref.TBRow]
			resp.Matched++
		} else {
			resp.Unmatched++
		}
		resp.Entries = append(resp.Entries, entry)
	}
	return resp
}
