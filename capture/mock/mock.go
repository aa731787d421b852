// SPDX-License-Identifier: EPL-2.0

// Package mock provides a scripted capture.Device for tests.
//
// Each Capture call consumes the next Step. When the script runs out the
// device keeps returning Fallback, or blocks until the context ends if
// Fallback is nil.
package mock

import (
	"context"
	"sync"

	"github.com/ik5/audclass/audio"
	"github.com/ik5/audclass/capture"
)

// Step is one scripted Capture result.
type Step struct {
	Buffer audio.Buffer
	Err    error
}

// Device is a mock implementation of capture.Device.
type Device struct {
	mu sync.Mutex

	// Script is consumed in order by Capture.
	Script []Step
	// Fallback is returned once Script is exhausted.
	Fallback *Step
	// OpenErr, if non-nil, is returned by Open.
	OpenErr error
	// OnCapture, if set, runs at the start of every Capture call with the
	// 1-based call number.
	OnCapture func(call int)

	opened   int
	closed   int
	captures int
}

func (d *Device) Open() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.opened++
	return d.OpenErr
}

func (d *Device) Capture(ctx context.Context) (audio.Buffer, error) {
	d.mu.Lock()
	d.captures++
	call := d.captures
	hook := d.OnCapture

	var step *Step
	if len(d.Script) > 0 {
		step = &d.Script[0]
		d.Script = d.Script[1:]
	} else {
		step = d.Fallback
	}
	d.mu.Unlock()

	if hook != nil {
		hook(call)
	}

	if step == nil {
		<-ctx.Done()
		return audio.Buffer{}, ctx.Err()
	}
	return step.Buffer, step.Err
}

func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed++
	return nil
}

// Counts reports how many times Open, Capture and Close were called.
func (d *Device) Counts() (opened, captures, closed int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.opened, d.captures, d.closed
}

var _ capture.Device = (*Device)(nil)
