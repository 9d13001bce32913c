// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package wrdscrsp

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/dsctlgo/dataset"
)

func TestDSN(t *testing.T) {
	assert.Equal(t,
		"host=wrds-pgdata.wharton.upenn.edu port=9737 dbname=wrds user=jdoe sslmode=require",
		dsn(Params{User: "jdoe"}))

	// An explicit DSN wins outright.
	assert.Equal(t, "host=localhost dbname=test",
		dsn(Params{User: "jdoe", DSN: "host=localhost dbname=test"}))
}

func TestWindowDefaults(t *testing.T) {
	start, end := window(Params{})
	assert.Equal(t, time.Date(1925, 1, 1, 0, 0, 0, 0, time.UTC), start)
	assert.False(t, end.Before(start))

	s := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	e := time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)
	start, end = window(Params{Start: s, End: e})
	assert.Equal(t, s, start)
	assert.Equal(t, e, end)
}

func TestFetchSourceUnavailable(t *testing.T) {
	// Reserve a local port, then close it so the gateway address is
	// guaranteed to refuse connections.
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tbl, err := Fetch(ctx, Params{
		DSN: fmt.Sprintf(
			"host=127.0.0.1 port=%d dbname=wrds user=jdoe sslmode=disable connect_timeout=2",
			port),
	})
	assert.Nil(t, tbl)
	assert.ErrorIs(t, err, dataset.ErrSourceUnavailable)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.ErrorIs(t, err, dataset.ErrArtifactNotFound)
}
