package contextx_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"iris_api/pkg/contextx"
)

func TestTraceID(t *testing.T) {
	testCases := []struct {
		name    string
		ctx     func() context.Context
		want    contextx.TraceID
		wantErr string
	}{
		{
			name:    "empty context",
			ctx:     context.Background,
			wantErr: "trace id: no value in context",
		},
		{
			name: "stored id",
			ctx: func() context.Context {
				return contextx.WithTraceID(context.Background(), "cs1trace0000000000a0")
			},
			want: "cs1trace0000000000a0",
		},
		{
			name: "inner id wins",
			ctx: func() context.Context {
				ctx := contextx.WithTraceID(context.Background(), "outer")
				return contextx.WithTraceID(ctx, "inner")
			},
			want: "inner",
		},
		{
			name: "logger does not leak into trace id slot",
			ctx: func() context.Context {
				return contextx.WithLogger(context.Background(), slog.Default())
			},
			wantErr: "trace id: no value in context",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			traceID, err := contextx.TraceIDFromContext(tc.ctx())
			if tc.wantErr != "" {
				rq.ErrorIs(err, contextx.ErrNoValue)
				rq.ErrorContains(err, tc.wantErr)
				rq.Empty(traceID)

				return
			}

			rq.NoError(err)
			rq.Equal(tc.want, traceID)
			rq.Equal(string(tc.want), traceID.String())
		})
	}
}
