// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package requestid

import (
	"net/http"
	"testing"

	"github.com/gogama/routex/future"
	"github.com/gogama/routex/request"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(seen *[]request.Arguments) func(request.Arguments) *future.Future[*http.Response] {
	return func(args request.Arguments) *future.Future[*http.Response] {
		*seen = append(*seen, args)
		return future.Completed(&http.Response{StatusCode: 200})
	}
}

func TestNew(t *testing.T) {
	var seen []request.Arguments
	exec := New().BeforeDispatch(capture(&seen))
	args, err := request.NewArguments("GET", "http://example.com")
	require.NoError(t, err)

	_, err = exec(args).Wait()
	require.NoError(t, err)
	_, err = exec(args).Wait()
	require.NoError(t, err)

	require.Len(t, seen, 2)
	id1, id2 := Get(seen[0]), Get(seen[1])
	_, err = uuid.Parse(id1)
	assert.NoError(t, err)
	assert.NotEqual(t, id1, id2)
	assert.Empty(t, Get(args))
}

func TestNew_SendUnchanged(t *testing.T) {
	var seen []request.Arguments
	args, _ := request.NewArguments("GET", "http://example.com")
	_, _ = New().BeforeSend(capture(&seen))(args).Wait()
	require.Len(t, seen, 1)
	assert.Empty(t, Get(seen[0]))
}

func TestNewWithGenerator(t *testing.T) {
	t.Run("generated", func(t *testing.T) {
		var seen []request.Arguments
		exec := NewWithGenerator(func() string { return "fixed" }).BeforeDispatch(capture(&seen))
		args, _ := request.NewArguments("GET", "http://example.com")
		_, _ = exec(args).Wait()
		assert.Equal(t, "fixed", Get(seen[0]))
	})
	t.Run("kept", func(t *testing.T) {
		var seen []request.Arguments
		exec := NewWithGenerator(func() string { return "fixed" }).BeforeDispatch(capture(&seen))
		args, _ := request.NewArguments("GET", "http://example.com")
		args = args.WithHeader(args.Header().Add(Header, "caller"))
		_, _ = exec(args).Wait()
		assert.Equal(t, []string{"caller"}, seen[0].Header().Values(Header))
	})
	t.Run("nil", func(t *testing.T) {
		assert.PanicsWithValue(t, "routex/requestid: nil generator", func() {
			NewWithGenerator(nil)
		})
	})
}
