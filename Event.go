/*
Copyright 2011-2026 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package sbwtzip

import (
	"fmt"
	"time"
)

// Event types raised around the stages of a single block's pipeline.
const (
	EvtBlockStart    = 0 // A block task has been picked up by a worker
	EvtBeforeSBWT    = 1
	EvtAfterSBWT     = 2
	EvtBeforeBackend = 3 // Before MTF/RLE/coder (or bzip2) runs
	EvtAfterBackend  = 4
	EvtBlockEnd      = 5 // The worker has finished encoding or decoding the block
)

// Event describes one stage transition for one block. Listeners are
// invoked synchronously by the worker that raises the event; a listener
// must not block for long or it will stall that worker.
type Event struct {
	eventType  int
	blockIndex int
	size       int64
	eventTime  time.Time
	msg        string
}

// NewEvent creates an Event carrying the block index and the size of the
// data at that pipeline stage.
func NewEvent(evtType, blockIndex int, size int64) *Event {
	return &Event{eventType: evtType, blockIndex: blockIndex, size: size, eventTime: time.Now()}
}

// NewEventFromString creates an Event that simply wraps a message, used
// for driver-level events that are not tied to one block (e.g. a fatal
// abort).
func NewEventFromString(evtType int, msg string) *Event {
	return &Event{eventType: evtType, blockIndex: -1, eventTime: time.Now(), msg: msg}
}

// Type returns the event type.
func (this *Event) Type() int {
	return this.eventType
}

// BlockIndex returns the block this event concerns, or -1.
func (this *Event) BlockIndex() int {
	return this.blockIndex
}

// Time returns when the event was raised.
func (this *Event) Time() time.Time {
	return this.eventTime
}

// Size returns the size, in bytes, of the data at this pipeline stage.
func (this *Event) Size() int64 {
	return this.size
}

func (this *Event) String() string {
	if len(this.msg) > 0 {
		return this.msg
	}

	var t string

	switch this.eventType {
	case EvtBlockStart:
		t = "BLOCK_START"
	case EvtBeforeSBWT:
		t = "BEFORE_SBWT"
	case EvtAfterSBWT:
		t = "AFTER_SBWT"
	case EvtBeforeBackend:
		t = "BEFORE_BACKEND"
	case EvtAfterBackend:
		t = "AFTER_BACKEND"
	case EvtBlockEnd:
		t = "BLOCK_END"
	default:
		t = "UNKNOWN"
	}

	return fmt.Sprintf("{\"type\":%q,\"block\":%d,\"size\":%d,\"time\":%d}",
		t, this.blockIndex, this.size, this.eventTime.UnixNano()/1000000)
}

// Listener is implemented by event processors passed into the driver; the
// spec's §9 design note asks that module-level logging handlers be
// replaced with an injected sink instead of global state, so the driver
// accepts a Listener (and a *log.Logger) rather than relying on a
// package-level variable.
type Listener interface {
	ProcessEvent(evt *Event)
}
