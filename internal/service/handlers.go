package service

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	xsd "github.com/SaeedKokash/xsd-editor-app"
)

// apiResponse is the JSON envelope every endpoint answers with.
type apiResponse struct {
	Success bool     `json:"success"`
	Data    any      `json:"data,omitempty"`
	Message string   `json:"message,omitempty"`
	Error   string   `json:"error,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func (s *Server) respond(w http.ResponseWriter, status int, resp apiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.log.Error("encode response", "err", err)
	}
}

func (s *Server) fail(w http.ResponseWriter, status int, message string, err error) {
	resp := apiResponse{Success: false, Message: message}
	if err != nil {
		resp.Error = err.Error()
	}
	s.respond(w, status, resp)
}

// uploadMetadata mirrors the original upload response block.
type uploadMetadata struct {
	FileName   string    `json:"fileName"`
	FileSize   int64     `json:"fileSize"`
	UploadTime time.Time `json:"uploadTime"`
}

// handleUpload accepts a multipart XSD upload, parses it into a schema model,
// and returns the model with upload metadata.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		s.fail(w, http.StatusBadRequest, "No XSD file uploaded", err)
		return
	}
	file, header, err := r.FormFile("xsdFile")
	if err != nil {
		s.fail(w, http.StatusBadRequest, "No XSD file uploaded", err)
		return
	}
	defer file.Close()

	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != ".xsd" && ext != ".xml" {
		s.fail(w, http.StatusBadRequest, "File upload only supports XML/XSD files", nil)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.fail(w, http.StatusInternalServerError, "Error reading XSD file", err)
		return
	}

	var opts []xsd.ParseOption
	if s.cfg.KnownQuirks {
		opts = append(opts, xsd.WithKnownQuirks())
	}
	schema, err := s.cache.Parse(data, opts...)
	if err != nil {
		s.fail(w, http.StatusBadRequest, "Error parsing XSD file", err)
		return
	}

	s.respond(w, http.StatusOK, apiResponse{
		Success: true,
		Data: map[string]any{
			"schema": schema,
			"metadata": uploadMetadata{
				FileName:   header.Filename,
				FileSize:   header.Size,
				UploadTime: time.Now().UTC(),
			},
		},
	})
}

type generateRequest struct {
	Schema   *xsd.Schema `json:"schema"`
	FileName string      `json:"fileName"`
}

// handleGenerate serializes a schema model back to XSD text and returns it as
// a file attachment.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Schema == nil {
		s.fail(w, http.StatusBadRequest, "No schema data provided", err)
		return
	}

	content, err := xsd.GenerateXSD(req.Schema)
	if err != nil {
		s.fail(w, http.StatusInternalServerError, "Error generating XSD file", err)
		return
	}

	fileName := req.FileName
	if fileName == "" {
		fileName = "generated_schema.xsd"
	}
	w.Header().Set("Content-Type", "application/xml")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	if _, err := w.Write(content); err != nil {
		s.log.Error("write generated XSD", "err", err)
	}
}

type schemaRequest struct {
	Schema *xsd.Schema `json:"schema"`
}

// handleValidateSchema runs the presence-of-name checks on a schema model.
func (s *Server) handleValidateSchema(w http.ResponseWriter, r *http.Request) {
	var req schemaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Schema == nil {
		s.fail(w, http.StatusBadRequest, "No schema provided for validation", err)
		return
	}

	errs, warnings := xsd.CheckSchema(req.Schema)
	s.respond(w, http.StatusOK, apiResponse{
		Success: true,
		Data: map[string]any{
			"valid":    len(errs) == 0,
			"errors":   errs,
			"warnings": warnings,
		},
	})
}

type updateElementRequest struct {
	Schema      *xsd.Schema      `json:"schema"`
	ElementPath string           `json:"elementPath"`
	ElementData xsd.ElementPatch `json:"elementData"`
}

// handleUpdateElement applies a patch to one element and returns the new
// schema; the submitted schema is never mutated.
func (s *Server) handleUpdateElement(w http.ResponseWriter, r *http.Request) {
	var req updateElementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Schema == nil || req.ElementPath == "" {
		s.fail(w, http.StatusBadRequest, "Schema, elementPath, and elementData are required", err)
		return
	}

	updated, err := xsd.UpdateElement(req.Schema, req.ElementPath, req.ElementData)
	if err != nil {
		s.fail(w, http.StatusBadRequest, "Error updating element", err)
		return
	}
	s.respond(w, http.StatusOK, apiResponse{
		Success: true,
		Data: map[string]any{
			"schema":  updated,
			"message": "Element updated successfully",
		},
	})
}

type validateXMLRequest struct {
	Schema     *xsd.Schema `json:"schema"`
	XMLContent string      `json:"xmlContent"`
}

// handleValidateXML validates XML content against a schema model. Malformed
// XML is the only 400; every validation finding comes back as data.
func (s *Server) handleValidateXML(w http.ResponseWriter, r *http.Request) {
	var req validateXMLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Schema == nil {
		s.fail(w, http.StatusBadRequest, "No schema provided for validation", err)
		return
	}
	if req.XMLContent == "" {
		s.fail(w, http.StatusBadRequest, "No XML content provided for validation", nil)
		return
	}

	report, err := xsd.Validate([]byte(req.XMLContent), req.Schema)
	if err != nil {
		s.respond(w, http.StatusBadRequest, apiResponse{
			Success: false,
			Message: "Invalid XML format",
			Errors:  []string{err.Error()},
		})
		return
	}

	s.respond(w, http.StatusOK, apiResponse{
		Success: true,
		Data: map[string]any{
			"isValid":  report.IsValid,
			"errors":   report.Errors,
			"warnings": report.Warnings,
			"summary":  report.Summary(),
		},
	})
}
