package dto

import (
	"time"

	"conroom/shared/constant"
	"conroom/shared/model"
	"conroom/shared/timezone"
)

type Metadata struct {
	CreatedAt  string `json:"created_at,omitempty"`
	ModifiedAt string `json:"modified_at,omitempty"`
	CreatedBy  string `json:"created_by"`
	ModifiedBy string `json:"modified_by"`
}

// FromModel leaves unset timestamps empty.
func (m *Metadata) FromModel(model model.Metadata) {
	m.CreatedAt = formatTime(model.CreatedAt)
	m.ModifiedAt = formatTime(model.ModifiedAt)
	m.CreatedBy = model.CreatedBy
	m.ModifiedBy = model.ModifiedBy
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return constant.Empty
	}

	return timezone.Format(t, constant.DateFormat)
}
