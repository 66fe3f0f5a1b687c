// Package analyses implements the contract analysis domain: upload staging,
// tier resolution, persistence of analysis records, a read-through cache,
// and the HTTP surface for detect, analyze, list, find and delete.
package analyses

import (
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/clausewise/internal/workflow"
)

// SchemaVersion is stamped on every persisted analysis.
const SchemaVersion = 1

// Analysis is a persisted contract analysis. Findings are flattened into the
// record when serialized.
type Analysis struct {
	ID           uuid.UUID `json:"id"`
	OwnerID      string    `json:"ownerId"`
	ContractText string    `json:"contractText"`
	ContractType string    `json:"contractType"`
	Language     string    `json:"language"`
	AIModel      string    `json:"aiModel"`
	PageCount    int       `json:"pageCount"`
	Version      int       `json:"version"`
	CreatedAt    time.Time `json:"createdAt"`
	workflow.Findings
}

// DetectCommand carries an uploaded contract to classify.
type DetectCommand struct {
	OwnerID string
	Data    []byte
}

// DetectResult reports the detected type and the staged upload that a
// following analyze call can reuse.
type DetectResult struct {
	DetectedType string `json:"detectedType"`
	UploadKey    string `json:"uploadKey"`
	PageCount    int    `json:"pageCount"`
}

// AnalyzeCommand requests an analysis of either a staged upload or fresh
// bytes. UploadKey wins when both are set.
type AnalyzeCommand struct {
	OwnerID      string
	ContractType string
	UploadKey    string
	Data         []byte
}

// Filters narrows an owner's listing. Empty fields are ignored.
type Filters struct {
	ContractType string `json:"contractType,omitempty"`
	Tier         string `json:"tier,omitempty"`
}

// FiltersFromQuery reads the type and tier query parameters.
func FiltersFromQuery(values url.Values) Filters {
	return Filters{
		ContractType: values.Get("type"),
		Tier:         values.Get("tier"),
	}
}
