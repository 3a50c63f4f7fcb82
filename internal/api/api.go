// Package api holds the JSON bodies exchanged between the SmartFlow server
// and its clients.
package api

import "github.com/smartflow-ai/smartflow/internal/model"

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// CatalogResponse is served at /v1/catalog.
type CatalogResponse struct {
	BusinessTypes []model.BusinessType `json:"business_types"`
	Plans         []model.Plan         `json:"plans"`
}

// ROIRequest is the body of POST /v1/roi and /v1/roi/compare.
type ROIRequest struct {
	Profile model.BusinessProfile `json:"profile"`
	Plan    string                `json:"plan,omitempty"`
}

// CompareResponse is served at /v1/roi/compare.
type CompareResponse struct {
	Projections []model.Projection `json:"projections"`
	Best        string             `json:"best,omitempty"`
}
