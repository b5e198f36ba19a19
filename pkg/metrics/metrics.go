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

// Package metrics provides Prometheus metrics for the txgbevf driver.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	// Metric namespace
	namespace = "txgbevf"

	// Label names
	labelMessage = "message"
	labelResult  = "result"
	labelOutcome = "outcome"
)

// Label values for labelResult.
const (
	ResultOK   = "ok"
	ResultFail = "fail"
)

var (
	// MailboxExchanges counts mailbox round-trips by message type and result.
	MailboxExchanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mailbox_exchanges_total",
			Help:      "Total mailbox round-trips with the PF by message type and result",
		},
		[]string{labelMessage, labelResult},
	)

	// NegotiationOutcome counts API negotiation rounds by outcome
	// (negotiated vs. baseline fallback).
	NegotiationOutcome = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_negotiation_total",
			Help:      "API version negotiation rounds by outcome",
		},
		[]string{labelOutcome},
	)

	// NegotiatedAPIVersion reports the currently negotiated mailbox API level.
	NegotiatedAPIVersion = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "negotiated_api_version",
			Help:      "Currently negotiated mailbox API version (ordinal level)",
		},
	)

	// DevicesInitialized counts successful primary device initializations.
	DevicesInitialized = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "devices_initialized_total",
			Help:      "Successful primary device initializations",
		},
	)

	// AddressReplays counts clear-and-replay cycles of the address table.
	AddressReplays = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "address_table_replays_total",
			Help:      "Clear-and-replay cycles run to emulate address removal",
		},
	)

	// AddressReplayFailures counts individual re-add failures during replay.
	AddressReplayFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "address_table_replay_failures_total",
			Help:      "Individual re-add failures during address table replay",
		},
	)
)

func init() {
	prometheus.MustRegister(
		MailboxExchanges,
		NegotiationOutcome,
		NegotiatedAPIVersion,
		DevicesInitialized,
		AddressReplays,
		AddressReplayFailures,
	)
}
