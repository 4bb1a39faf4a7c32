package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/gorm"
)

func TestMap(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code codes.Code
	}{
		{"validation", Validation("bio too short"), codes.InvalidArgument},
		{"not found", NotFound("profile 7"), codes.NotFound},
		{"gorm not found", fmt.Errorf("load: %w", gorm.ErrRecordNotFound), codes.NotFound},
		{"conflict", Conflict("report 1"), codes.FailedPrecondition},
		{"quota", fmt.Errorf("like: %w", ErrQuotaExceeded), codes.ResourceExhausted},
		{"storage", Storage("insert like", stderrors.New("disk full")), codes.Internal},
		{"deadline", context.DeadlineExceeded, codes.DeadlineExceeded},
		{"canceled", context.Canceled, codes.Canceled},
		{"other", stderrors.New("boom"), codes.Internal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st, ok := status.FromError(Map(tc.err))
			assert.True(t, ok)
			assert.Equal(t, tc.code, st.Code())
		})
	}

	assert.Nil(t, Map(nil))
}

func TestMap_ValidationKeepsReason(t *testing.T) {
	st, _ := status.FromError(Map(Validation("Слишком короткое описание")))
	assert.Contains(t, st.Message(), "Слишком короткое описание")
}

func TestStorage_WrapsBoth(t *testing.T) {
	cause := stderrors.New("connection reset")
	err := Storage("mark viewed", cause)

	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.Nil(t, Storage("noop", nil))
}
