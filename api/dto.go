/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication, decoupling the store's
  record types from the external contract. Calendar entries and alerts are
  the exception: the schedule package's types are the wire format (their
  field tags match the source exports) and are returned as-is.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Wrappers around collections

SEE ALSO:
  - handlers.go: Uses these types
  - schedule/types.go: Entry and Alert wire shapes
*/
package api

import (
	"encoding/json"

	"github.com/parcops/maintenance-engine/schedule"
)

// AssetDTO represents an asset in API responses.
type AssetDTO struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Categorie string            `json:"categorie"`
	RegNumber string            `json:"reg_number,omitempty"`
	Km        int               `json:"km"`
	RunningH  int               `json:"running_h"`
	Meta      map[string]string `json:"meta,omitempty"`
	CreatedAt string            `json:"created_at,omitempty"`
}

// CreateAssetRequest is the request to create or update an asset.
type CreateAssetRequest struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Categorie string            `json:"categorie"`
	RegNumber string            `json:"reg_number,omitempty"`
	Km        int               `json:"km,omitempty"`
	RunningH  int               `json:"running_h,omitempty"`
	Meta      map[string]string `json:"meta,omitempty"`
}

// PlanDTO represents a maintenance plan.
type PlanDTO struct {
	ID            string          `json:"id"`
	AssetID       string          `json:"asset_id,omitempty"`
	Type          string          `json:"type"`
	TypeName      string          `json:"type_nom"`
	EveryDays     int             `json:"every_days"`
	ToleranceDays int             `json:"tolerance_days"`
	Checklist     json.RawMessage `json:"checklist,omitempty"`
	NextDueDt     *string         `json:"next_due_dt,omitempty"`
	CreatedAt     string          `json:"created_at,omitempty"`
}

// JobDTO represents a maintenance job.
type JobDTO struct {
	ID         string  `json:"id"`
	PlanID     string  `json:"plan_id"`
	DueDt      string  `json:"due_dt"`
	DoneDt     *string `json:"done_dt,omitempty"`
	Status     string  `json:"status"`
	CostLabour float64 `json:"cost_labour"`
	CostParts  float64 `json:"cost_parts"`
	Note       string  `json:"note,omitempty"`
}

// DueJobDTO is one entry of the record-keeping due-jobs view.
type DueJobDTO struct {
	JobID     string `json:"job_id"`
	PlanID    string `json:"plan_id"`
	AssetName string `json:"asset_name"`
	DueDt     string `json:"due_dt"`
	Status    string `json:"status"` // "overdue" when past the reference date
}

// MaintTypeDTO is one row of the fixed type enumeration.
type MaintTypeDTO struct {
	Code     string `json:"code"`
	Label    string `json:"label"`
	Priority int    `json:"priority"`
}

// ScheduleResponse wraps a generated calendar.
type ScheduleResponse struct {
	StartYear int              `json:"start_year"`
	EndYear   int              `json:"end_year"`
	Count     int              `json:"count"`
	Entries   []schedule.Entry `json:"entries"`
}

// AlertsResponse wraps the urgency-classified alerts view.
type AlertsResponse struct {
	AsOf    string           `json:"as_of"`
	Window  int              `json:"window"`
	Count   int              `json:"count"`
	Alerts  []schedule.Alert `json:"alerts"`
	Urgent  int              `json:"urgent"`
	Close   int              `json:"proche"`
	Planned int              `json:"planifie"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}
