package connectors

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPostgresDatabaseHidesCredentials(t *testing.T) {
	testCases := []struct {
		dsn  string
		want string
	}{
		{dsn: "postgres://iris:secret@db:5432/iris?sslmode=disable", want: "db:5432/iris"},
		{dsn: "host=db user=iris password=secret", want: "unknown"},
		{dsn: "", want: "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.want, func(t *testing.T) {
			p := Postgres{DSN: tc.dsn}
			require.Equal(t, tc.want, p.database())
		})
	}
}

func TestEnabled(t *testing.T) {
	rq := require.New(t)

	rq.False((&Postgres{}).Enabled())
	rq.True((&Postgres{DSN: "postgres://db/iris"}).Enabled())
	rq.False((&Redis{}).Enabled())
	rq.True((&Redis{Address: "localhost:6379"}).Enabled())
}

func TestRedisConnectFailsFast(t *testing.T) {
	rq := require.New(t)

	r := &Redis{Address: "127.0.0.1:1", PingTimeout: 200 * time.Millisecond}

	client, err := r.Connect(context.Background())
	rq.Error(err)
	rq.Nil(client)
	rq.ErrorContains(err, "redis 127.0.0.1:1/0")

	_, again := r.Connect(context.Background())
	rq.Equal(err, again)

	r.Close(context.Background())
}
