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

import "github.com/go-logr/logr"

// Secondary is a secondary-process attachment to a device the primary has
// already initialized. It touches no hardware state; all it does is derive
// which data-path function variants to bind from the queue state the
// primary configured. Close on a secondary is a no-op by construction:
// there is nothing to release.
type Secondary struct {
	log logr.Logger

	rxVariant DataPathVariant
	txVariant DataPathVariant
}

// Attach binds a secondary process to an already-initialized device. The
// transmit variant follows the last transmit queue the primary set up; with
// no transmit queues configured yet, the generic default is used and the
// absence is not an error.
func Attach(queues QueueState, log logr.Logger) *Secondary {
	if log.GetSink() == nil {
		log = logr.Discard()
	}

	s := &Secondary{log: log}

	if queues == nil || queues.NumTxQueues() == 0 {
		log.Info("no TX queues configured yet, using default TX function")
		s.txVariant = DataPathDefault
	} else {
		// The variant the primary settled on is determined by the last
		// queue initialized.
		last := queues.NumTxQueues() - 1
		if info, ok := queues.TxQueueInfo(last); ok {
			s.txVariant = txVariantFor(info)
		}
	}

	s.rxVariant = rxVariantFor(queues)

	log.V(1).Info("secondary process attached",
		"txVariant", s.txVariant.String(),
		"rxVariant", s.rxVariant.String())
	return s
}

// TxVariant returns the bound transmit burst variant.
func (s *Secondary) TxVariant() DataPathVariant {
	return s.txVariant
}

// RxVariant returns the bound receive burst variant.
func (s *Secondary) RxVariant() DataPathVariant {
	return s.rxVariant
}
