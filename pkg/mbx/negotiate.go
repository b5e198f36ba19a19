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

package mbx

import (
	"github.com/go-logr/logr"

	"github.com/virtnic/txgbevf/pkg/metrics"
)

// Outcome says how a negotiation round ended.
type Outcome int

const (
	// Negotiated means some candidate version was acked by the PF.
	Negotiated Outcome = iota
	// Fallback means every candidate was rejected and the post-reset
	// baseline stays in effect. This is a capability reduction, not an
	// error: older PFs predate negotiation entirely.
	Fallback
)

func (o Outcome) String() string {
	if o == Negotiated {
		return "negotiated"
	}
	return "fallback"
}

// Result is the outcome of one negotiation round.
type Result struct {
	Outcome Outcome
	Version APIVersion
}

// Negotiate chooses the mailbox API version to use with the PF. It walks the
// candidate versions from highest to lowest and settles on the first one the
// PF acks; each candidate is tried exactly once per round. When every attempt
// fails the baseline already in effect after reset remains active, so the
// caller never sees an error.
func Negotiate(t Transport, log logr.Logger) Result {
	for _, v := range candidates {
		if _, err := t.Exchange(NegotiateAPI{Version: v}); err != nil {
			log.V(1).Info("PF rejected API version", "version", v.String(), "reason", err.Error())
			continue
		}
		log.V(1).Info("negotiated mailbox API version", "version", v.String())
		metrics.NegotiationOutcome.WithLabelValues(Negotiated.String()).Inc()
		metrics.NegotiatedAPIVersion.Set(float64(v))
		return Result{Outcome: Negotiated, Version: v}
	}

	log.V(1).Info("API negotiation exhausted, staying on baseline",
		"version", Baseline.String())
	metrics.NegotiationOutcome.WithLabelValues(Fallback.String()).Inc()
	metrics.NegotiatedAPIVersion.Set(float64(Baseline))
	return Result{Outcome: Fallback, Version: Baseline}
}
