package validation

import (
	"testing"

	"github.com/itchan-dev/itboard/internal/domain"
	internal_errors "github.com/itchan-dev/itboard/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestStruct(t *testing.T) {
	valid := domain.SignUpData{Id: "alice", Password: "pw12", Name: "Alice", Email: "alice@example.com"}

	testCases := []struct {
		name    string
		mutate  func(d *domain.SignUpData)
		message string
	}{
		{name: "valid", mutate: func(d *domain.SignUpData) {}},
		{name: "missing id", mutate: func(d *domain.SignUpData) { d.Id = "" }, message: "Id is required"},
		{name: "short id", mutate: func(d *domain.SignUpData) { d.Id = "ab" }, message: "Id must be at least 3 characters"},
		{name: "id with symbols", mutate: func(d *domain.SignUpData) { d.Id = "al/ce" }, message: "Id may contain only letters and digits"},
		{name: "short password", mutate: func(d *domain.SignUpData) { d.Password = "123" }, message: "Password must be at least 4 characters"},
		{name: "bad email", mutate: func(d *domain.SignUpData) { d.Email = "nope" }, message: "Email is not a valid email address"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data := valid
			tc.mutate(&data)
			err := Struct(data)
			if tc.message == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tc.message)
			assert.Equal(t, 400, internal_errors.StatusCode(err))
		})
	}
}
