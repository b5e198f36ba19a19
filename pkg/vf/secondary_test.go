/*
Copyright 2024.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package vf

import (
	"testing"

	"github.com/go-logr/logr"
)

func TestAttachWithoutTxQueuesUsesDefault(t *testing.T) {
	// No queues configured yet at attach time: not an error, the generic
	// variant is bound.
	s := Attach(nil, logr.Discard())
	if s == nil {
		t.Fatal("Attach returned nil")
	}
	if s.TxVariant() != DataPathDefault {
		t.Errorf("tx variant = %v, want default", s.TxVariant())
	}
	if s.RxVariant() != DataPathDefault {
		t.Errorf("rx variant = %v, want default", s.RxVariant())
	}
}

func TestAttachSelectsSimpleTxVariant(t *testing.T) {
	queues := &fakeQueues{
		tx: []TxQueueInfo{
			{Conf: TxConf{FreeThresh: DefaultTxFreeThresh}},
		},
	}

	s := Attach(queues, logr.Discard())
	if s.TxVariant() != DataPathSimple {
		t.Errorf("tx variant = %v, want simple", s.TxVariant())
	}
}

func TestAttachLastTxQueueDecides(t *testing.T) {
	queues := &fakeQueues{
		tx: []TxQueueInfo{
			{Conf: TxConf{FreeThresh: DefaultTxFreeThresh}},
			{Conf: TxConf{Offloads: OffloadTSO, FreeThresh: DefaultTxFreeThresh}},
		},
	}

	s := Attach(queues, logr.Discard())
	if s.TxVariant() != DataPathDefault {
		t.Errorf("tx variant = %v, want default (last queue has offloads)", s.TxVariant())
	}
}

func TestAttachRxVariant(t *testing.T) {
	tests := []struct {
		name string
		rx   []RxQueueInfo
		want DataPathVariant
	}{
		{
			name: "plain queues",
			rx:   []RxQueueInfo{{}, {}},
			want: DataPathSimple,
		},
		{
			name: "scattered queue forces generic path",
			rx:   []RxQueueInfo{{}, {ScatterEnabled: true}},
			want: DataPathDefault,
		},
		{
			name: "offloading queue forces generic path",
			rx:   []RxQueueInfo{{Conf: RxConf{Offloads: OffloadVLANStrip}}},
			want: DataPathDefault,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Attach(&fakeQueues{rx: tt.rx}, logr.Discard())
			if s.RxVariant() != tt.want {
				t.Errorf("rx variant = %v, want %v", s.RxVariant(), tt.want)
			}
		})
	}
}
