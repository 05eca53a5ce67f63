package validator_test

import (
	"net/http"
	"strings"
	"testing"

	"conroom/shared/failure"
	"conroom/shared/validator"

	"github.com/stretchr/testify/assert"
)

type checkInBody struct {
	UserID    string `validate:"required"          json:"userId"`
	RoomID    string `validate:"omitempty"         json:"roomId"`
	StartTime string `validate:"omitempty,rfc3339" json:"startTime"`
	Seats     int    `validate:"gte=0,lte=50"      json:"seats"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name        string
		data        checkInBody
		expectError bool
		message     string
	}{
		{
			name:        "valid struct",
			data:        checkInBody{UserID: "u-1", StartTime: "2025-01-01T10:00:00Z", Seats: 4},
			expectError: false,
		},
		{
			name:        "missing required field",
			data:        checkInBody{Seats: 4},
			expectError: true,
			message:     "UserID is required",
		},
		{
			name:        "malformed timestamp",
			data:        checkInBody{UserID: "u-1", StartTime: "tomorrow"},
			expectError: true,
			message:     "StartTime must be an RFC3339 timestamp",
		},
		{
			name:        "seats out of range",
			data:        checkInBody{UserID: "u-1", Seats: 51},
			expectError: true,
			message:     "Seats must be less than or equal to 50",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&tt.data)

			if !tt.expectError {
				assert.NoError(t, err)

				return
			}

			assert.Error(t, err)
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestValidateVar(t *testing.T) {
	tests := []struct {
		name        string
		field       any
		tag         string
		expectError bool
	}{
		{name: "valid required string", field: "test", tag: "required"},
		{name: "empty required string", field: "", tag: "required", expectError: true},
		{name: "valid timestamp", field: "2025-06-01T09:30:00+07:00", tag: "rfc3339"},
		{name: "invalid timestamp", field: "2025-06-01 09:30", tag: "rfc3339", expectError: true},
		{name: "empty matches empty", field: "", tag: "empty"},
		{name: "value fails empty", field: "x", tag: "empty", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateVar(tt.field, tt.tag)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		jsonBody    string
		expectError bool
	}{
		{name: "valid JSON", jsonBody: `{"userId":"u-1","seats":2}`},
		{name: "invalid field", jsonBody: `{"userId":"u-1","startTime":"soon"}`, expectError: true},
		{name: "malformed JSON", jsonBody: `{"userId":}`, expectError: true},
		{name: "empty JSON", jsonBody: `{}`, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data checkInBody

			err := validator.Validate(strings.NewReader(tt.jsonBody), &data)

			if tt.expectError {
				assert.Error(t, err)
				assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
