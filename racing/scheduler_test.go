// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package racing

import (
	"testing"
	"time"

	"github.com/gogama/routex/request"
	"github.com/stretchr/testify/assert"
)

func TestNewStaticScheduler(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		sc := NewStaticScheduler()
		assert.Equal(t, time.Duration(0), sc.Schedule(&request.Exchange{}))
		assert.Equal(t, time.Duration(0), sc.Schedule(&request.Exchange{Racing: 1000}))
	})
	t.Run("Offset=Zero", func(t *testing.T) {
		sc := NewStaticScheduler(0)
		assert.Equal(t, time.Duration(0), sc.Schedule(&request.Exchange{}))
		assert.Equal(t, time.Duration(0), sc.Schedule(&request.Exchange{Racing: 1000}))
	})
	t.Run("Size=1", func(t *testing.T) {
		sc := NewStaticScheduler(time.Hour)
		assert.Equal(t, time.Duration(0), sc.Schedule(&request.Exchange{Racing: 0}))
		assert.Equal(t, time.Hour, sc.Schedule(&request.Exchange{Racing: 1}))
		assert.Equal(t, time.Duration(0), sc.Schedule(&request.Exchange{Racing: 2}))
	})
	t.Run("Copies offsets", func(t *testing.T) {
		offsets := []time.Duration{time.Second}
		sc := NewStaticScheduler(offsets...)
		offsets[0] = time.Hour
		assert.Equal(t, time.Second, sc.Schedule(&request.Exchange{Racing: 1}))
	})
	t.Run("Size=2", func(t *testing.T) {
		sc := NewStaticScheduler(time.Millisecond, time.Second)
		assert.Equal(t, time.Duration(0), sc.Schedule(&request.Exchange{Racing: 0}))
		assert.Equal(t, time.Millisecond, sc.Schedule(&request.Exchange{Racing: 1}))
		assert.Equal(t, time.Second, sc.Schedule(&request.Exchange{Racing: 2}))
		assert.Equal(t, time.Duration(0), sc.Schedule(&request.Exchange{Racing: 1000}))
	})
}
