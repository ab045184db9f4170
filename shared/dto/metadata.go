package dto

import (
	"time"

	"escaperoom/shared/constant"
	"escaperoom/shared/model"
	"escaperoom/shared/timezone"
)

// Metadata is the audit trail rendered in the application timezone.
// Rows never modified after insert report no modified_at.
type Metadata struct {
	CreatedAt  string `json:"created_at"`
	ModifiedAt string `json:"modified_at,omitempty"`
	CreatedBy  string `json:"created_by,omitempty"`
	ModifiedBy string `json:"modified_by,omitempty"`
}

func (m *Metadata) FromModel(audit model.Metadata) {
	*m = Metadata{
		CreatedAt:  formatAudit(audit.CreatedAt),
		ModifiedAt: formatAudit(audit.ModifiedAt),
		CreatedBy:  audit.CreatedBy,
		ModifiedBy: audit.ModifiedBy,
	}
}

func formatAudit(at time.Time) string {
	if at.IsZero() {
		return constant.Empty
	}

	return timezone.Format(at, constant.DateFormat)
}
