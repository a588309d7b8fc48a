package api

import (
	"slices"

	"github.com/JaimeStill/footprint/internal/config"
	"github.com/JaimeStill/footprint/pkg/openapi"
)

const xlsxType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// NewSpec describes the analysis, job, and results endpoints served by the API module.
func NewSpec(cfg *config.Config) *openapi.Spec {
	spec := openapi.New(cfg.API.OpenAPI, cfg.Version, cfg.API.BasePath)

	spec.Components.AddSchemas(schemas())
	spec.Components.AddResponses(map[string]*openapi.Response{
		"Processing": openapi.ResponseJSON("Job is still processing", "Job"),
	})

	for path, item := range paths() {
		spec.Paths[path] = item
	}
	return spec
}

func paths() map[string]*openapi.PathItem {
	jobID := openapi.PathParam("id", "Job ID")
	docID := openapi.PathParam("id", "Document ID")
	promptID := openapi.PathParam("id", "Prompt ID")
	page := []*openapi.Parameter{
		openapi.QueryParam("page", "integer", "Page number (1-indexed)"),
		openapi.QueryParam("page_size", "integer", "Results per page"),
		openapi.QueryParam("sort", "string", "Comma-separated sort fields, - prefix for descending"),
	}

	notFound := openapi.ResponseRef("NotFound")
	badRequest := openapi.ResponseRef("BadRequest")
	processing := openapi.ResponseRef("Processing")

	return map[string]*openapi.PathItem{
		"/jobs": {
			Get: &openapi.Operation{
				Summary: "List jobs, newest first",
				Tags:    []string{"Jobs"},
				Responses: map[int]*openapi.Response{
					200: {
						Description: "Jobs",
						Content:     openapi.Content("application/json", openapi.ArrayOf(openapi.SchemaRef("Job"))),
					},
				},
			},
			Post: &openapi.Operation{
				Summary:     "Submit PDFs for background analysis",
				Description: "Each file in the multipart field \"files\" becomes a document analyzed by its own pipeline run.",
				Tags:        []string{"Jobs"},
				RequestBody: &openapi.RequestBody{
					Required: true,
					Content: openapi.Content("multipart/form-data", openapi.Object(map[string]*openapi.Schema{
						"files": openapi.ArrayOf(&openapi.Schema{Type: "string", Format: "binary"}),
					}, "files")),
				},
				Responses: map[int]*openapi.Response{
					202: openapi.ResponseJSON("Job accepted", "Submitted"),
					400: badRequest,
					413: openapi.ResponseRef("PayloadTooLarge"),
				},
			},
		},
		"/jobs/{id}": {
			Get: &openapi.Operation{
				Summary:    "Find a job with per-document progress",
				Tags:       []string{"Jobs"},
				Parameters: []*openapi.Parameter{jobID},
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Job", "Job"),
					404: notFound,
				},
			},
		},
		"/jobs/{id}/results": {
			Get: &openapi.Operation{
				Summary:    "Per-document results of a completed job",
				Tags:       []string{"Jobs"},
				Parameters: []*openapi.Parameter{jobID},
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Job results", "JobResults"),
					202: processing,
					404: notFound,
				},
			},
		},
		"/jobs/{id}/export": {
			Get: &openapi.Operation{
				Summary:    "Download a completed job as an XLSX workbook",
				Tags:       []string{"Jobs"},
				Parameters: []*openapi.Parameter{jobID},
				Responses: map[int]*openapi.Response{
					200: {
						Description: "Workbook",
						Content:     openapi.Content(xlsxType, &openapi.Schema{Type: "string", Format: "binary"}),
					},
					202: processing,
					404: notFound,
				},
			},
		},
		"/documents": {
			Get: &openapi.Operation{
				Summary: "List documents, newest first",
				Tags:    []string{"Documents"},
				Parameters: slices.Concat(page, []*openapi.Parameter{
					openapi.QueryParam("status", "string", "Pipeline status"),
					openapi.QueryParam("filename", "string", "Filename contains"),
					openapi.QueryParam("uploaded_after", "string", "RFC 3339 timestamp or YYYY-MM-DD, inclusive"),
					openapi.QueryParam("uploaded_before", "string", "RFC 3339 timestamp or YYYY-MM-DD, exclusive"),
				}),
				Responses: map[int]*openapi.Response{
					200: {Description: "Page of documents"},
				},
			},
		},
		"/documents/{id}": {
			Get: &openapi.Operation{
				Summary:    "Find a document and its pipeline status",
				Tags:       []string{"Documents"},
				Parameters: []*openapi.Parameter{docID},
				Responses: map[int]*openapi.Response{
					200: {Description: "Document"},
					404: notFound,
				},
			},
			Delete: &openapi.Operation{
				Summary:     "Delete a document",
				Description: "Removes the stored PDF and every persisted result for the document.",
				Tags:        []string{"Documents"},
				Parameters:  []*openapi.Parameter{docID},
				Responses: map[int]*openapi.Response{
					204: {Description: "Deleted"},
					404: notFound,
				},
			},
		},
		"/documents/{id}/analyze": {
			Post: &openapi.Operation{
				Summary:     "Run the analysis pipeline synchronously",
				Description: "A failed run still responds 200; error and failed_stage identify the failure.",
				Tags:        []string{"Analysis"},
				Parameters:  []*openapi.Parameter{docID},
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Final pipeline state", "State"),
					400: badRequest,
					404: notFound,
				},
			},
		},
		"/documents/{id}/results": {
			Get: &openapi.Operation{
				Summary:    "Persisted stage outputs for a document",
				Tags:       []string{"Results"},
				Parameters: []*openapi.Parameter{docID},
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Results", "Results"),
					404: notFound,
				},
			},
		},
		"/audits": {
			Get: &openapi.Operation{
				Summary: "List audit reports",
				Tags:    []string{"Results"},
				Parameters: slices.Concat(page, []*openapi.Parameter{
					openapi.QueryParam("risk_level", "string", "Risk level"),
					openapi.QueryParam("filename", "string", "Document filename contains"),
					openapi.QueryParam("min_emissions", "number", "Minimum total emissions in kg CO2e"),
				}),
				Responses: map[int]*openapi.Response{
					200: {Description: "Page of audit reports"},
				},
			},
		},
		"/prompts/stages/{stage}": {
			Get: &openapi.Operation{
				Summary: "Effective instructions and output spec for a stage",
				Tags:    []string{"Prompts"},
				Parameters: []*openapi.Parameter{{
					Name:     "stage",
					In:       "path",
					Required: true,
					Schema:   openapi.Enum("extract", "calculate", "audit"),
				}},
				Responses: map[int]*openapi.Response{
					200: {Description: "Stage prompt"},
					400: badRequest,
				},
			},
		},
		"/prompts/{id}": {
			Put: &openapi.Operation{
				Summary:    "Update a prompt override",
				Tags:       []string{"Prompts"},
				Parameters: []*openapi.Parameter{promptID},
				RequestBody: &openapi.RequestBody{
					Required: true,
					Content:  openapi.Content("application/json", openapi.SchemaRef("PromptCommand")),
				},
				Responses: map[int]*openapi.Response{
					200: {Description: "Prompt"},
					400: badRequest,
					404: notFound,
					409: openapi.ResponseRef("Conflict"),
				},
			},
			Delete: &openapi.Operation{
				Summary:    "Delete a prompt override",
				Tags:       []string{"Prompts"},
				Parameters: []*openapi.Parameter{promptID},
				Responses: map[int]*openapi.Response{
					204: {Description: "Deleted"},
					404: notFound,
				},
			},
		},
	}
}

func schemas() map[string]*openapi.Schema {
	str := &openapi.Schema{Type: "string"}
	id := &openapi.Schema{Type: "string", Format: "uuid"}
	ts := &openapi.Schema{Type: "string", Format: "date-time"}
	num := &openapi.Schema{Type: "number"}
	obj := &openapi.Schema{Type: "object"}
	entries := openapi.ArrayOf(openapi.SchemaRef("Entry"))

	return map[string]*openapi.Schema{
		"Entry": openapi.Object(map[string]*openapi.Schema{
			"document_id":  id,
			"filename":     str,
			"status":       openapi.Enum("pending", "succeeded", "failed"),
			"error":        str,
			"failed_stage": str,
		}),
		"Job": openapi.Object(map[string]*openapi.Schema{
			"job_id":       id,
			"status":       openapi.Enum("processing", "completed"),
			"progress_pct": num,
			"documents":    entries,
			"created_at":   ts,
			"completed_at": ts,
		}),
		"Submitted": openapi.Object(map[string]*openapi.Schema{
			"job_id":    id,
			"filenames": openapi.ArrayOf(str),
			"documents": entries,
		}),
		"JobResults": openapi.Object(map[string]*openapi.Schema{
			"job_id":    id,
			"status":    str,
			"documents": entries,
		}),
		"Extraction": openapi.Object(map[string]*openapi.Schema{
			"fields": {Type: "object", Description: "Merged field values rendered as text"},
			"pages":  {Type: "integer"},
		}),
		"Calculation": openapi.Object(map[string]*openapi.Schema{
			"total_carbon_kg": num,
			"breakdown":       openapi.ArrayOf(obj),
		}),
		"Audit": openapi.Object(map[string]*openapi.Schema{
			"total_emissions": num,
			"risk_level":      openapi.Enum("low", "medium", "high", "critical", "unknown"),
			"hotspots":        openapi.ArrayOf(obj),
			"recommendations": openapi.ArrayOf(str),
		}),
		"Results": openapi.Object(map[string]*openapi.Schema{
			"document_id": id,
			"extraction":  openapi.SchemaRef("Extraction"),
			"calculation": openapi.SchemaRef("Calculation"),
			"audit":       openapi.SchemaRef("Audit"),
		}),
		"State": openapi.Object(map[string]*openapi.Schema{
			"document_id":  id,
			"extraction":   openapi.SchemaRef("Extraction"),
			"calculation":  openapi.SchemaRef("Calculation"),
			"audit":        openapi.SchemaRef("Audit"),
			"error":        str,
			"failed_stage": str,
		}),
		"PromptCommand": openapi.Object(map[string]*openapi.Schema{
			"name":         str,
			"stage":        openapi.Enum("extract", "calculate", "audit"),
			"instructions": str,
			"description":  str,
		}, "name", "stage", "instructions"),
	}
}
